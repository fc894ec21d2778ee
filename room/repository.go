package room

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	mrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/khnpedu/tension-meeting/globals"
	"github.com/khnpedu/tension-meeting/store"
	"github.com/khnpedu/tension-meeting/types"
)

var (
	ErrNameRequired     = errors.New("name required")
	ErrInvalidTeamCount = errors.New("team count must be positive")
	ErrInvalidDuration  = errors.New("duration must be positive")
	ErrInvalidTeamIndex = errors.New("team index out of range")
	ErrNoParticipants   = errors.New("meeting needs at least one participant")
)

// Repository owns all room mutations and the local fan-out of store pushes.
// Any number of local subscribers are multiplexed over a single underlying
// store subscription, which is torn down when the last one leaves.
type Repository struct {
	store store.Store

	rngMu sync.Mutex
	rng   *mrand.Rand

	subMu        sync.Mutex
	subs         map[int]func([]*types.Room)
	nextSubId    int
	storeUnsub   func()
	storePending bool
	lastSnapshot []*types.Room
	hasSnapshot  bool
}

func NewRepository(st store.Store) *Repository {
	return &Repository{
		store: st,
		rng:   mrand.New(mrand.NewSource(time.Now().UnixNano())),
		subs:  make(map[int]func([]*types.Room)),
	}
}

// newId returns an opaque identifier with 128 bits of entropy. Uniqueness is
// not re-checked server-side, birthday-bound collisions are negligible at this
// system's scale.
func newId() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in no state to continue
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// CreateRoom initializes and stores a fresh room with an empty participant
// list.
func (r *Repository) CreateRoom(name string, teamCount, duration int) (*types.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if teamCount < 1 {
		return nil, ErrInvalidTeamCount
	}
	if duration < 1 {
		return nil, ErrInvalidDuration
	}
	room := types.Room{
		Id:           newId(),
		Name:         name,
		TeamCount:    teamCount,
		Duration:     duration,
		Participants: types.ParticipantList{},
		IsStarted:    false,
		CreatedAt:    time.Now(),
	}
	if err := r.store.PutRoom(room); err != nil {
		return nil, err
	}
	globals.AppLogger.Info("room created", "room", room.Id, "name", room.Name,
		"teams", room.TeamCount, "duration_min", room.Duration)
	return &room, nil
}

// Get returns the room with the given id or store.ErrRoomNotFound.
func (r *Repository) Get(id string) (*types.Room, error) {
	return r.store.GetRoom(id)
}

// List returns the full room collection.
func (r *Repository) List() ([]*types.Room, error) {
	return r.store.GetRooms()
}

// UpdateSettings merges the organizer-editable settings into the room.
// Unspecified fields are left untouched.
func (r *Repository) UpdateSettings(id string, patch types.RoomPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return ErrNameRequired
	}
	if patch.TeamCount != nil && *patch.TeamCount < 1 {
		return ErrInvalidTeamCount
	}
	if patch.Duration != nil && *patch.Duration < 1 {
		return ErrInvalidDuration
	}
	return r.store.MergeRoom(id, patch)
}

// Delete removes the room entirely. Active subscribers observe the removal as
// "room no longer exists" on the next push.
func (r *Repository) Delete(id string) error {
	if err := r.store.DeleteRoom(id); err != nil {
		return err
	}
	globals.AppLogger.Info("room deleted", "room", id)
	return nil
}

// DeleteExpired removes rooms created more than ttl ago and returns how many
// were deleted. Used by the cron sweeper.
func (r *Repository) DeleteExpired(ttl time.Duration) (int, error) {
	rooms, err := r.store.GetRooms()
	if err != nil {
		return 0, err
	}
	deadline := time.Now().Add(-ttl)
	deleted := 0
	for _, room := range rooms {
		if room.CreatedAt.Before(deadline) {
			if err := r.Delete(room.Id); err != nil {
				return deleted, err
			}
			deleted++
		}
	}
	return deleted, nil
}

// SubscribeRooms registers fn to receive the full room collection immediately
// and on every committed change. The returned function cancels the
// subscription; cancelling the last one tears down the store subscription.
func (r *Repository) SubscribeRooms(fn func([]*types.Room)) (func(), error) {
	r.subMu.Lock()
	id := r.nextSubId
	r.nextSubId++
	r.subs[id] = fn
	needStoreSub := r.storeUnsub == nil && !r.storePending
	if needStoreSub {
		r.storePending = true
	}
	snap, hasSnap := r.lastSnapshot, r.hasSnapshot
	r.subMu.Unlock()

	if needStoreSub {
		unsub, err := r.store.Subscribe(r.fanout)
		if err != nil {
			r.subMu.Lock()
			delete(r.subs, id)
			r.storePending = false
			r.subMu.Unlock()
			return nil, err
		}
		r.subMu.Lock()
		r.storeUnsub = unsub
		r.storePending = false
		r.subMu.Unlock()
	} else if hasSnap {
		// late local subscribers get their initial push from the cache
		fn(snap)
	}
	return func() { r.unsubscribe(id) }, nil
}

func (r *Repository) unsubscribe(id int) {
	r.subMu.Lock()
	delete(r.subs, id)
	var unsub func()
	if len(r.subs) == 0 && r.storeUnsub != nil {
		unsub = r.storeUnsub
		r.storeUnsub = nil
		r.lastSnapshot = nil
		r.hasSnapshot = false
	}
	r.subMu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// fanout relays one store push to all local subscribers. Callbacks run outside
// the lock so a subscriber may unsubscribe from within its own callback.
func (r *Repository) fanout(rooms []*types.Room) {
	r.subMu.Lock()
	r.lastSnapshot = rooms
	r.hasSnapshot = true
	targets := make([]func([]*types.Room), 0, len(r.subs))
	for _, fn := range r.subs {
		targets = append(targets, fn)
	}
	r.subMu.Unlock()
	for _, fn := range targets {
		fn(rooms)
	}
}
