package room

import "github.com/khnpedu/tension-meeting/types"

// View is the per-client slice of one pushed snapshot. Either the full room
// list (unanchored clients) or a single room plus the anchored participant.
type View struct {
	Rooms []*types.Room
	Room  *types.Room
	Me    *types.Participant

	// Gone is set when the anchor no longer resolves: the room was deleted or
	// the participant removed. A terminal condition for that client's session.
	Gone bool
}

// Project derives a client view from the latest snapshot and the client's
// anchor ids. Pure function, re-run on every push, no diffing.
func Project(snapshot []*types.Room, roomId, participantId string) View {
	if roomId == "" {
		return View{Rooms: snapshot}
	}
	for _, r := range snapshot {
		if r.Id != roomId {
			continue
		}
		v := View{Room: r}
		if participantId != "" {
			v.Me = r.FindParticipant(participantId)
			if v.Me == nil {
				return View{Gone: true}
			}
		}
		return v
	}
	return View{Gone: true}
}
