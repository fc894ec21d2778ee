package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleAssignmentJSON(t *testing.T) {
	p := Participant{Id: "p1", Name: "kim", TeamIndex: 0}
	raw, err := json.Marshal(p)
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `"roleId":null`)

	p.Role = AssignedRole(RoleLeader)
	raw, err = json.Marshal(p)
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `"roleId":"LEADER"`)

	var back Participant
	assert.NoError(t, json.Unmarshal(raw, &back))
	id, ok := back.Role.Role()
	assert.True(t, ok)
	assert.Equal(t, RoleLeader, id)

	assert.NoError(t, json.Unmarshal([]byte(`{"roleId":null}`), &back))
	assert.False(t, back.Role.IsAssigned())
}

func TestRoomPatchApply(t *testing.T) {
	now := time.Now()
	room := Room{Id: "r1", Name: "old", TeamCount: 2, Duration: 30}

	name := "new"
	started := true
	patch := RoomPatch{Name: &name, IsStarted: &started, StartTime: &now}
	assert.False(t, patch.IsZero())
	patch.Apply(&room)
	assert.Equal(t, "new", room.Name)
	assert.Equal(t, 2, room.TeamCount)
	assert.True(t, room.IsStarted)
	assert.NotNil(t, room.StartTime)

	clear := RoomPatch{ClearStartTime: true}
	assert.False(t, clear.IsZero())
	clear.Apply(&room)
	assert.Nil(t, room.StartTime)

	assert.True(t, RoomPatch{}.IsZero())
}

func TestTeamAndFindParticipant(t *testing.T) {
	room := Room{
		TeamCount: 2,
		Participants: ParticipantList{
			{Id: "a", TeamIndex: 0},
			{Id: "b", TeamIndex: 1},
			{Id: "c", TeamIndex: 0},
		},
	}
	team := room.Team(0)
	assert.Len(t, team, 2)
	assert.Equal(t, "a", team[0].Id)
	assert.Equal(t, "c", team[1].Id)
	assert.Empty(t, room.Team(5))

	assert.Equal(t, "b", room.FindParticipant("b").Id)
	assert.Nil(t, room.FindParticipant("zzz"))
}
