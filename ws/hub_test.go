package ws

import (
	"encoding/json"
	"testing"

	"github.com/khnpedu/tension-meeting/types"
	"github.com/stretchr/testify/assert"
)

func receiveMessage(t *testing.T, c *Client) *types.WebsocketMessage {
	select {
	case raw := <-c.Send:
		msg := &types.WebsocketMessage{}
		assert.NoError(t, json.Unmarshal(raw, msg))
		return msg
	default:
		t.Fatal("no message queued")
		return nil
	}
}

func TestSendViewCoalescing(t *testing.T) {
	h := NewHub(nil, nil)
	c := NewClient(h, nil, "", "", nil)

	snapshot := []*types.Room{{Id: "r1", Name: "standup"}}
	h.sendView(c, snapshot)
	msg := receiveMessage(t, c)
	assert.Equal(t, types.MessageTypeRooms, msg.Event)

	// an identical payload is not delivered again
	h.sendView(c, snapshot)
	assert.Empty(t, c.Send)

	h.sendView(c, []*types.Room{{Id: "r1", Name: "renamed"}})
	msg = receiveMessage(t, c)
	assert.Equal(t, types.MessageTypeRooms, msg.Event)
}

func TestSendViewAnchored(t *testing.T) {
	h := NewHub(nil, nil)
	c := NewClient(h, nil, "r1", "p1", nil)

	snapshot := []*types.Room{
		{Id: "r1", Participants: types.ParticipantList{{Id: "p1", Name: "kim"}}},
		{Id: "r2"},
	}
	h.sendView(c, snapshot)
	msg := receiveMessage(t, c)
	assert.Equal(t, types.MessageTypeRoom, msg.Event)
	roomMsg := types.RoomMessage{}
	assert.NoError(t, json.Unmarshal(msg.Data, &roomMsg))
	assert.Equal(t, "r1", roomMsg.Room.Id)
	assert.Equal(t, "kim", roomMsg.Me.Name)

	// the anchored room disappears: terminal gone event, anchor cleared
	h.sendView(c, []*types.Room{{Id: "r2"}})
	msg = receiveMessage(t, c)
	assert.Equal(t, types.MessageTypeGone, msg.Event)
	roomId, participantId := c.Anchor()
	assert.Empty(t, roomId)
	assert.Empty(t, participantId)
}

func TestEnqueueSnapshotDropsOldest(t *testing.T) {
	h := NewHub(nil, nil)
	var latest []*types.Room
	for i := 0; i < snapshotChannelSize+8; i++ {
		latest = []*types.Room{{Id: "r", TeamCount: i}}
		h.enqueueSnapshot(latest)
	}
	assert.LessOrEqual(t, len(h.snapshots), snapshotChannelSize)
	var last []*types.Room
	for len(h.snapshots) > 0 {
		last = <-h.snapshots
	}
	// the newest snapshot always survives the coalescing
	assert.Equal(t, latest, last)
}
