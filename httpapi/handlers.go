package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/khnpedu/tension-meeting/globals"
	"github.com/khnpedu/tension-meeting/room"
	"github.com/khnpedu/tension-meeting/store"
	"github.com/khnpedu/tension-meeting/types"
)

// Server exposes the organizer REST surface over the room repository. The
// mutating routes are gated by the shared admin secret, join is open.
type Server struct {
	repo *room.Repository
}

func NewServer(repo *room.Repository) *Server {
	return &Server{repo: repo}
}

type createRoomRequest struct {
	Name      string `json:"name"`
	TeamCount int    `json:"teamCount"`
	Duration  int    `json:"duration"`
}

type joinRequest struct {
	TeamIndex int    `json:"teamIndex"`
	Name      string `json:"name"`
}

type joinResponse struct {
	ParticipantId string `json:"participantId"`
}

func (s *Server) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.repo.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.RoomsMessage{Rooms: rooms})
}

func (s *Server) getRoom(w http.ResponseWriter, r *http.Request) {
	rm, err := s.repo.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rm)
}

func (s *Server) createRoom(w http.ResponseWriter, r *http.Request) {
	req := createRoomRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	rm, err := s.repo.CreateRoom(req.Name, req.TeamCount, req.Duration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rm)
}

func (s *Server) patchRoom(w http.ResponseWriter, r *http.Request) {
	patch := types.RoomPatch{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.repo.UpdateSettings(mux.Vars(r)["id"], patch); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Delete(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) joinRoom(w http.ResponseWriter, r *http.Request) {
	req := joinRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	participantId, err := s.repo.Join(mux.Vars(r)["id"], req.TeamIndex, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, joinResponse{ParticipantId: participantId})
}

func (s *Server) startMeeting(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.StartMeeting(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) stopMeeting(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.StopMeeting(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		globals.AppLogger.Error("could not encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrRoomNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, room.ErrNameRequired),
		errors.Is(err, room.ErrInvalidTeamCount),
		errors.Is(err, room.ErrInvalidDuration),
		errors.Is(err, room.ErrInvalidTeamIndex),
		errors.Is(err, room.ErrNoParticipants):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		globals.AppLogger.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
