package types

import (
	"time"
)

// Room is one organized simulation session. It is stored as a single
// self-contained document, the embedded participant list included.
type Room struct {
	Id           string          `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name"`
	TeamCount    int             `json:"teamCount"`
	Duration     int             `json:"duration"` // minutes
	Participants ParticipantList `json:"participants"`
	IsStarted    bool            `json:"isStarted"`
	StartTime    *time.Time      `json:"startTime,omitempty"` // set iff IsStarted
	CreatedAt    time.Time       `json:"createdAt"`

	// Version is bumped on every committed write by the SQL store backend and
	// carries its optimistic concurrency check. The buntdb backend ignores it.
	Version int64 `json:"-"`
}

// Participant is one seated member of a room. The role field stays unassigned
// until the meeting starts, or is set at join time for a late joiner.
type Participant struct {
	Id        string         `json:"id"`
	Name      string         `json:"name"`
	TeamIndex int            `json:"teamIndex"`
	Role      RoleAssignment `json:"roleId"`
}

// Team returns the participants seated at the given team index, in list order.
func (r *Room) Team(teamIndex int) []Participant {
	team := make([]Participant, 0)
	for _, p := range r.Participants {
		if p.TeamIndex == teamIndex {
			team = append(team, p)
		}
	}
	return team
}

// FindParticipant returns the participant with the given id, or nil.
func (r *Room) FindParticipant(participantId string) *Participant {
	for i := range r.Participants {
		if r.Participants[i].Id == participantId {
			return &r.Participants[i]
		}
	}
	return nil
}

// RoomPatch is a partial room update. Nil fields are left untouched by Apply.
type RoomPatch struct {
	Name         *string          `json:"name,omitempty"`
	TeamCount    *int             `json:"teamCount,omitempty"`
	Duration     *int             `json:"duration,omitempty"`
	Participants *ParticipantList `json:"participants,omitempty"`
	IsStarted    *bool            `json:"isStarted,omitempty"`
	StartTime    *time.Time       `json:"startTime,omitempty"`

	// ClearStartTime removes the start timestamp, used when a meeting is
	// stopped. Not settable via the HTTP PATCH surface.
	ClearStartTime bool `json:"-"`
}

// IsZero reports whether the patch changes nothing.
func (p RoomPatch) IsZero() bool {
	return p.Name == nil && p.TeamCount == nil && p.Duration == nil &&
		p.Participants == nil && p.IsStarted == nil && p.StartTime == nil &&
		!p.ClearStartTime
}

// Apply merges the patch into the room.
func (p RoomPatch) Apply(r *Room) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.TeamCount != nil {
		r.TeamCount = *p.TeamCount
	}
	if p.Duration != nil {
		r.Duration = *p.Duration
	}
	if p.Participants != nil {
		r.Participants = *p.Participants
	}
	if p.IsStarted != nil {
		r.IsStarted = *p.IsStarted
	}
	if p.StartTime != nil {
		t := *p.StartTime
		r.StartTime = &t
	}
	if p.ClearStartTime {
		r.StartTime = nil
	}
}
