package room

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/khnpedu/tension-meeting/globals"
	"github.com/khnpedu/tension-meeting/roles"
	"github.com/khnpedu/tension-meeting/store"
	"github.com/khnpedu/tension-meeting/types"
)

// Join seats a new participant in the given team and returns the participant
// id. The mutation runs through the store's conditional read-modify-write
// primitive, so two joins racing on the same room both land in the committed
// participant list. If the primitive is unavailable or permanently aborted,
// the join falls back to a plain read-then-write of the participants field,
// exactly once. Joining a room whose meeting has already started assigns a
// role immediately, avoiding roles currently held in the target team.
func (r *Repository) Join(roomId string, teamIndex int, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if teamIndex < 0 {
		return "", ErrInvalidTeamIndex
	}
	participantId := newId()
	mutate := func(room *types.Room) error {
		if teamIndex >= room.TeamCount {
			return ErrInvalidTeamIndex
		}
		p := types.Participant{Id: participantId, Name: name, TeamIndex: teamIndex}
		if room.IsStarted {
			team := room.Team(teamIndex)
			held := make([]types.RoleID, 0, len(team))
			for _, member := range team {
				if id, ok := member.Role.Role(); ok {
					held = append(held, id)
				}
			}
			r.rngMu.Lock()
			roleId := roles.AssignLateJoiner(held, len(team)+1, r.rng)
			r.rngMu.Unlock()
			p.Role = types.AssignedRole(roleId)
			globals.AppLogger.Info("late joiner assigned role", "room", roomId,
				"team", teamIndex, "participant", participantId, "role", roleId)
		}
		room.Participants = append(room.Participants, p)
		return nil
	}

	_, err := r.store.UpdateRoom(roomId, mutate)
	if err == nil {
		return participantId, nil
	}
	if errors.Is(err, store.ErrRoomNotFound) || errors.Is(err, ErrInvalidTeamIndex) {
		return "", err
	}

	// Fallback: plain read-then-write. This path has a documented race window
	// (a concurrent start and late join may both assign roles), accepted in
	// exchange for staying available when the atomic path is not.
	globals.AppLogger.Warn("conditional join failed, taking read-then-write fallback",
		"room", roomId, "error", err)
	room, gerr := r.store.GetRoom(roomId)
	if gerr != nil {
		return "", gerr
	}
	if merr := mutate(room); merr != nil {
		return "", merr
	}
	patch := types.RoomPatch{Participants: &room.Participants}
	if merr := r.store.MergeRoom(roomId, patch); merr != nil {
		return "", fmt.Errorf("join fallback failed: %w", merr)
	}
	return participantId, nil
}

// StartMeeting assigns every seated participant a role and marks the room
// started. Teams are processed independently, so role reuse across teams is
// expected. This operation deliberately uses the plain read-then-write path:
// two organizers starting the same room concurrently is an accepted race whose
// worst outcome is a double shuffle with the second write winning.
func (r *Repository) StartMeeting(roomId string) error {
	room, err := r.store.GetRoom(roomId)
	if err != nil {
		return err
	}
	if room.IsStarted {
		return nil
	}
	if len(room.Participants) == 0 {
		return ErrNoParticipants
	}
	for t := 0; t < room.TeamCount; t++ {
		memberIdx := make([]int, 0)
		for i := range room.Participants {
			if room.Participants[i].TeamIndex == t {
				memberIdx = append(memberIdx, i)
			}
		}
		if len(memberIdx) == 0 {
			continue
		}
		r.rngMu.Lock()
		assigned := roles.AssignTeam(len(memberIdx), r.rng)
		r.rngMu.Unlock()
		for i, idx := range memberIdx {
			room.Participants[idx].Role = types.AssignedRole(assigned[i])
		}
	}
	now := time.Now()
	started := true
	patch := types.RoomPatch{
		Participants: &room.Participants,
		IsStarted:    &started,
		StartTime:    &now,
	}
	if err := r.store.MergeRoom(roomId, patch); err != nil {
		return err
	}
	globals.AppLogger.Info("meeting started", "room", roomId,
		"participants", len(room.Participants), "teams", room.TeamCount)
	return nil
}

// StopMeeting returns a started room to the lobby state: the started flag and
// start timestamp are cleared and all role assignments revoked.
func (r *Repository) StopMeeting(roomId string) error {
	room, err := r.store.GetRoom(roomId)
	if err != nil {
		return err
	}
	if !room.IsStarted {
		return nil
	}
	for i := range room.Participants {
		room.Participants[i].Role = types.Unassigned()
	}
	started := false
	patch := types.RoomPatch{
		Participants:   &room.Participants,
		IsStarted:      &started,
		ClearStartTime: true,
	}
	if err := r.store.MergeRoom(roomId, patch); err != nil {
		return err
	}
	globals.AppLogger.Info("meeting stopped", "room", roomId)
	return nil
}

