package ws

import (
	"testing"

	"github.com/khnpedu/tension-meeting/types"
	"github.com/stretchr/testify/assert"
)

func TestCompileFilter(t *testing.T) {
	prog, err := CompileFilter("")
	assert.NoError(t, err)
	assert.Nil(t, prog)

	prog, err = CompileFilter(`IsStarted && Participants > 2`)
	assert.NoError(t, err)
	assert.NotNil(t, prog)

	_, err = CompileFilter(`NoSuchField == 1`)
	assert.Error(t, err)
}

func TestFilterRooms(t *testing.T) {
	rooms := []*types.Room{
		{Id: "r1", Name: "idle", IsStarted: false},
		{Id: "r2", Name: "busy", IsStarted: true, Participants: types.ParticipantList{{Id: "p1"}, {Id: "p2"}, {Id: "p3"}}},
		{Id: "r3", Name: "small", IsStarted: true, Participants: types.ParticipantList{{Id: "p1"}}},
	}

	c := &Client{}
	assert.Equal(t, rooms, c.FilterRooms(rooms))

	prog, err := CompileFilter(`IsStarted && Participants > 2`)
	assert.NoError(t, err)
	c = &Client{filterProg: prog}
	out := c.FilterRooms(rooms)
	assert.Len(t, out, 1)
	assert.Equal(t, "r2", out[0].Id)

	// non-boolean results exclude the room rather than erroring out
	prog, err = CompileFilter(`Name`)
	assert.NoError(t, err)
	c = &Client{filterProg: prog}
	assert.Empty(t, c.FilterRooms(rooms))
}
