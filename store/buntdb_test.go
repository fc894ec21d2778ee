package store

import (
	"sync"
	"testing"
	"time"

	"github.com/khnpedu/tension-meeting/config"
	"github.com/khnpedu/tension-meeting/types"
	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) Store {
	st, err := NewBuntStore(&config.Config{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testRoom(id string, createdAt time.Time) types.Room {
	return types.Room{
		Id:           id,
		Name:         "room " + id,
		TeamCount:    2,
		Duration:     30,
		Participants: types.ParticipantList{},
		CreatedAt:    createdAt,
	}
}

func TestBuntStoreCRUD(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetRoom("nope")
	assert.Equal(t, ErrRoomNotFound, err)

	now := time.Now()
	assert.NoError(t, st.PutRoom(testRoom("r1", now)))
	assert.NoError(t, st.PutRoom(testRoom("r2", now.Add(time.Second))))

	room, err := st.GetRoom("r1")
	assert.NoError(t, err)
	assert.Equal(t, "room r1", room.Name)

	rooms, err := st.GetRooms()
	assert.NoError(t, err)
	assert.Len(t, rooms, 2)
	// collection ordered by creation time
	assert.Equal(t, "r1", rooms[0].Id)
	assert.Equal(t, "r2", rooms[1].Id)

	assert.NoError(t, st.DeleteRoom("r1"))
	_, err = st.GetRoom("r1")
	assert.Equal(t, ErrRoomNotFound, err)

	// deleting an absent room is a no-op
	assert.NoError(t, st.DeleteRoom("r1"))
}

func TestBuntStoreMerge(t *testing.T) {
	st := newTestStore(t)
	assert.NoError(t, st.PutRoom(testRoom("r1", time.Now())))

	name := "renamed"
	assert.NoError(t, st.MergeRoom("r1", types.RoomPatch{Name: &name}))
	room, err := st.GetRoom("r1")
	assert.NoError(t, err)
	assert.Equal(t, "renamed", room.Name)
	// untouched fields survive the merge
	assert.Equal(t, 2, room.TeamCount)

	// an empty patch leaves the record untouched
	assert.NoError(t, st.MergeRoom("r1", types.RoomPatch{}))
	again, err := st.GetRoom("r1")
	assert.NoError(t, err)
	assert.Equal(t, room, again)

	assert.Equal(t, ErrRoomNotFound, st.MergeRoom("nope", types.RoomPatch{Name: &name}))
}

func TestBuntStoreUpdateRoomConcurrent(t *testing.T) {
	st := newTestStore(t)
	assert.NoError(t, st.PutRoom(testRoom("r1", time.Now())))

	const joins = 32
	wg := sync.WaitGroup{}
	wg.Add(joins)
	for i := 0; i < joins; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := st.UpdateRoom("r1", func(room *types.Room) error {
				room.Participants = append(room.Participants, types.Participant{
					Id: newTestId(i), Name: "p", TeamIndex: 0,
				})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	room, err := st.GetRoom("r1")
	assert.NoError(t, err)
	// no join lost to a concurrent writer
	assert.Len(t, room.Participants, joins)
}

func newTestId(i int) string {
	return string(rune('a' + i%26)) + string(rune('a'+i/26))
}

func TestBuntStoreSubscribe(t *testing.T) {
	st := newTestStore(t)
	assert.NoError(t, st.PutRoom(testRoom("r1", time.Now())))

	mu := sync.Mutex{}
	pushes := make([][]*types.Room, 0)
	unsub, err := st.Subscribe(func(rooms []*types.Room) {
		mu.Lock()
		pushes = append(pushes, rooms)
		mu.Unlock()
	})
	assert.NoError(t, err)

	// the current collection arrives immediately
	mu.Lock()
	assert.Len(t, pushes, 1)
	assert.Len(t, pushes[0], 1)
	mu.Unlock()

	assert.NoError(t, st.PutRoom(testRoom("r2", time.Now())))
	mu.Lock()
	assert.Len(t, pushes, 2)
	assert.Len(t, pushes[1], 2)
	mu.Unlock()

	unsub()
	assert.NoError(t, st.DeleteRoom("r2"))
	mu.Lock()
	assert.Len(t, pushes, 2)
	mu.Unlock()
}
