package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/khnpedu/tension-meeting/auth"
)

// Router builds the HTTP surface: the open read/join routes, the
// secret-gated organizer routes and the live websocket feed.
func (s *Server) Router(adminSecret string, wsHandler http.HandlerFunc) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/feed", wsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/rooms", s.listRooms).Methods(http.MethodGet)
	router.HandleFunc("/api/rooms/{id}", s.getRoom).Methods(http.MethodGet)
	router.HandleFunc("/api/rooms/{id}/join", s.joinRoom).Methods(http.MethodPost)

	admin := router.PathPrefix("/api").Subrouter()
	admin.Use(auth.Middleware(adminSecret))
	admin.HandleFunc("/rooms", s.createRoom).Methods(http.MethodPost)
	admin.HandleFunc("/rooms/{id}", s.patchRoom).Methods(http.MethodPatch)
	admin.HandleFunc("/rooms/{id}", s.deleteRoom).Methods(http.MethodDelete)
	admin.HandleFunc("/rooms/{id}/start", s.startMeeting).Methods(http.MethodPost)
	admin.HandleFunc("/rooms/{id}/stop", s.stopMeeting).Methods(http.MethodPost)
	return router
}
