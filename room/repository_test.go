package room

import (
	"sync"
	"testing"
	"time"

	"github.com/khnpedu/tension-meeting/config"
	"github.com/khnpedu/tension-meeting/roles"
	"github.com/khnpedu/tension-meeting/store"
	"github.com/khnpedu/tension-meeting/types"
	"github.com/stretchr/testify/assert"
)

func newTestRepo(t *testing.T) *Repository {
	st, err := store.NewStore(&config.Config{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return NewRepository(st)
}

func TestCreateRoomValidation(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.CreateRoom("  ", 2, 30)
	assert.Equal(t, ErrNameRequired, err)
	_, err = repo.CreateRoom("r", 0, 30)
	assert.Equal(t, ErrInvalidTeamCount, err)
	_, err = repo.CreateRoom("r", 2, 0)
	assert.Equal(t, ErrInvalidDuration, err)

	room, err := repo.CreateRoom(" 긴장 회의 ", 2, 30)
	assert.NoError(t, err)
	assert.Equal(t, "긴장 회의", room.Name)
	assert.NotEmpty(t, room.Id)
	assert.False(t, room.IsStarted)
	assert.Empty(t, room.Participants)
}

func TestJoinAndStartMeeting(t *testing.T) {
	repo := newTestRepo(t)
	room, err := repo.CreateRoom("standup", 2, 30)
	assert.NoError(t, err)

	_, err = repo.Join("missing", 0, "kim")
	assert.Equal(t, store.ErrRoomNotFound, err)
	_, err = repo.Join(room.Id, 2, "kim")
	assert.Equal(t, ErrInvalidTeamIndex, err)
	_, err = repo.Join(room.Id, 0, "  ")
	assert.Equal(t, ErrNameRequired, err)

	for i, name := range []string{"kim", "lee", "park", "choi"} {
		_, err := repo.Join(room.Id, i%2, name)
		assert.NoError(t, err)
	}

	empty, err := repo.CreateRoom("empty", 1, 30)
	assert.NoError(t, err)
	assert.Equal(t, ErrNoParticipants, repo.StartMeeting(empty.Id))

	assert.NoError(t, repo.StartMeeting(room.Id))
	got, err := repo.Get(room.Id)
	assert.NoError(t, err)
	assert.True(t, got.IsStarted)
	assert.NotNil(t, got.StartTime)
	assert.Len(t, got.Participants, 4)

	// every seated participant holds a role, distinct within each team
	for team := 0; team < 2; team++ {
		seen := make(map[types.RoleID]struct{})
		for _, p := range got.Team(team) {
			id, ok := p.Role.Role()
			assert.True(t, ok, "participant %s has no role", p.Id)
			_, dup := seen[id]
			assert.False(t, dup, "duplicate role %s in team %d", id, team)
			seen[id] = struct{}{}
		}
	}

	// starting twice is a no-op
	before := got.Participants
	assert.NoError(t, repo.StartMeeting(room.Id))
	again, err := repo.Get(room.Id)
	assert.NoError(t, err)
	assert.Equal(t, before, again.Participants)

	assert.NoError(t, repo.StopMeeting(room.Id))
	stopped, err := repo.Get(room.Id)
	assert.NoError(t, err)
	assert.False(t, stopped.IsStarted)
	assert.Nil(t, stopped.StartTime)
	for _, p := range stopped.Participants {
		assert.False(t, p.Role.IsAssigned())
	}
	// stopping an idle room is a no-op
	assert.NoError(t, repo.StopMeeting(room.Id))
}

func TestStartMeetingSoloTeam(t *testing.T) {
	repo := newTestRepo(t)
	room, err := repo.CreateRoom("solo", 1, 30)
	assert.NoError(t, err)
	_, err = repo.Join(room.Id, 0, "kim")
	assert.NoError(t, err)

	assert.NoError(t, repo.StartMeeting(room.Id))
	got, err := repo.Get(room.Id)
	assert.NoError(t, err)
	id, ok := got.Participants[0].Role.Role()
	assert.True(t, ok)
	// a single participant still draws from the base persona set
	assert.Contains(t, roles.ForTeamSize(1), id)
}

func TestLateJoinerGetsRole(t *testing.T) {
	repo := newTestRepo(t)
	room, err := repo.CreateRoom("late", 1, 30)
	assert.NoError(t, err)
	for _, name := range []string{"kim", "lee"} {
		_, err := repo.Join(room.Id, 0, name)
		assert.NoError(t, err)
	}
	assert.NoError(t, repo.StartMeeting(room.Id))

	lateId, err := repo.Join(room.Id, 0, "park")
	assert.NoError(t, err)

	got, err := repo.Get(room.Id)
	assert.NoError(t, err)
	late := got.FindParticipant(lateId)
	assert.NotNil(t, late)
	lateRole, ok := late.Role.Role()
	assert.True(t, ok)
	for _, p := range got.Team(0) {
		if p.Id == lateId {
			continue
		}
		held, _ := p.Role.Role()
		assert.NotEqual(t, held, lateRole)
	}
}

// fallbackStore has no conditional update primitive, forcing the
// read-then-write join path.
type fallbackStore struct {
	store.Store
	updateCalls int
}

func (s *fallbackStore) UpdateRoom(id string, mutate func(*types.Room) error) (*types.Room, error) {
	s.updateCalls++
	return nil, store.ErrUpdateUnsupported
}

func TestJoinFallbackPath(t *testing.T) {
	inner, err := store.NewStore(&config.Config{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { inner.Close() })
	st := &fallbackStore{Store: inner}
	repo := NewRepository(st)

	room, err := repo.CreateRoom("fallback", 1, 30)
	assert.NoError(t, err)

	id, err := repo.Join(room.Id, 0, "kim")
	assert.NoError(t, err)
	assert.Equal(t, 1, st.updateCalls)

	got, err := repo.Get(room.Id)
	assert.NoError(t, err)
	assert.Len(t, got.Participants, 1)
	assert.Equal(t, id, got.Participants[0].Id)

	// errors the atomic path would surface are still surfaced
	_, err = repo.Join(room.Id, 5, "lee")
	assert.Equal(t, ErrInvalidTeamIndex, err)
	_, err = repo.Join("missing", 0, "lee")
	assert.Equal(t, store.ErrRoomNotFound, err)
}

func TestSubscribeRoomsMultiplex(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.CreateRoom("one", 1, 30)
	assert.NoError(t, err)

	mu := sync.Mutex{}
	countA, countB := 0, 0
	unsubA, err := repo.SubscribeRooms(func(rooms []*types.Room) {
		mu.Lock()
		countA++
		mu.Unlock()
	})
	assert.NoError(t, err)
	unsubB, err := repo.SubscribeRooms(func(rooms []*types.Room) {
		mu.Lock()
		countB++
		mu.Unlock()
	})
	assert.NoError(t, err)

	// both got their initial push, the second one from the cached snapshot
	mu.Lock()
	assert.Equal(t, 1, countA)
	assert.Equal(t, 1, countB)
	mu.Unlock()

	_, err = repo.CreateRoom("two", 1, 30)
	assert.NoError(t, err)
	mu.Lock()
	assert.Equal(t, 2, countA)
	assert.Equal(t, 2, countB)
	mu.Unlock()

	unsubA()
	_, err = repo.CreateRoom("three", 1, 30)
	assert.NoError(t, err)
	mu.Lock()
	assert.Equal(t, 2, countA)
	assert.Equal(t, 3, countB)
	mu.Unlock()

	unsubB()
	_, err = repo.CreateRoom("four", 1, 30)
	assert.NoError(t, err)
	mu.Lock()
	assert.Equal(t, 3, countB)
	mu.Unlock()
}

func TestDeleteExpired(t *testing.T) {
	repo := newTestRepo(t)
	old, err := repo.CreateRoom("old", 1, 30)
	assert.NoError(t, err)
	fresh, err := repo.CreateRoom("fresh", 1, 30)
	assert.NoError(t, err)

	// nothing is old enough yet
	n, err := repo.DeleteExpired(time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = repo.DeleteExpired(0)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = repo.Get(old.Id)
	assert.Equal(t, store.ErrRoomNotFound, err)
	_, err = repo.Get(fresh.Id)
	assert.Equal(t, store.ErrRoomNotFound, err)
}
