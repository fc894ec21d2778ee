package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/khnpedu/tension-meeting/config"
	"github.com/khnpedu/tension-meeting/types"
	"github.com/stretchr/testify/assert"
)

func TestNewGormStore(t *testing.T) {
	cfg := &config.Config{}
	cfg.StoreConfig.Type = "sqlite"
	cfg.StoreConfig.DSN = filepath.Join(t.TempDir(), "test.db")
	st, err := NewGormStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	room := testRoom("r1", time.Now())
	room.Participants = types.ParticipantList{{Id: "p1", Name: "kim", TeamIndex: 0}}
	assert.NoError(t, st.PutRoom(room))

	got, err := st.GetRoom("r1")
	assert.NoError(t, err)
	assert.Len(t, got.Participants, 1)
	assert.Equal(t, "kim", got.Participants[0].Name)

	updated, err := st.UpdateRoom("r1", func(r *types.Room) error {
		r.Participants = append(r.Participants, types.Participant{Id: "p2", Name: "lee", TeamIndex: 1})
		return nil
	})
	assert.NoError(t, err)
	assert.Len(t, updated.Participants, 2)

	got, err = st.GetRoom("r1")
	assert.NoError(t, err)
	assert.Len(t, got.Participants, 2)
	// the optimistic version column moved forward
	assert.Equal(t, room.Version+1, got.Version)

	assert.NoError(t, st.DeleteRoom("r1"))
	_, err = st.GetRoom("r1")
	assert.Equal(t, ErrRoomNotFound, err)
}
