package room

import (
	"testing"

	"github.com/khnpedu/tension-meeting/types"
	"github.com/stretchr/testify/assert"
)

func TestProject(t *testing.T) {
	snapshot := []*types.Room{
		{Id: "r1", Participants: types.ParticipantList{{Id: "p1", Name: "kim"}}},
		{Id: "r2"},
	}

	v := Project(snapshot, "", "")
	assert.Len(t, v.Rooms, 2)
	assert.False(t, v.Gone)

	v = Project(snapshot, "r1", "")
	assert.Equal(t, "r1", v.Room.Id)
	assert.Nil(t, v.Me)

	v = Project(snapshot, "r1", "p1")
	assert.Equal(t, "r1", v.Room.Id)
	assert.Equal(t, "kim", v.Me.Name)

	// deleted room and removed participant both terminate the anchor
	v = Project(snapshot, "gone-room", "p1")
	assert.True(t, v.Gone)
	v = Project(snapshot, "r1", "gone-participant")
	assert.True(t, v.Gone)

	v = Project(nil, "", "")
	assert.Empty(t, v.Rooms)
	assert.False(t, v.Gone)
}
