package store

import (
	"errors"
	"fmt"

	"github.com/khnpedu/tension-meeting/config"
	"github.com/khnpedu/tension-meeting/types"
)

var (
	// ErrRoomNotFound is returned when the target room is absent. It is the
	// only store error surfaced to end users, everything else is transient.
	ErrRoomNotFound = errors.New("room not found")

	// ErrUpdateUnsupported is returned by UpdateRoom when the backend has no
	// conditional read-modify-write primitive, telling the caller to take the
	// plain read-then-write fallback path.
	ErrUpdateUnsupported = errors.New("conditional update not supported")
)

// Store is the room document store. Every room is one self-contained record
// including its embedded participant list.
type Store interface {
	// GetRoom returns the room with the given id or ErrRoomNotFound.
	GetRoom(id string) (*types.Room, error)
	// GetRooms returns the full room collection.
	GetRooms() ([]*types.Room, error)
	// PutRoom writes the full record, replacing any existing one.
	PutRoom(room types.Room) error
	// MergeRoom merges the patch into the existing record, leaving unspecified
	// fields untouched. An empty patch leaves the stored record byte-for-byte
	// unchanged. Returns ErrRoomNotFound if the room is absent.
	MergeRoom(id string, patch types.RoomPatch) error
	// UpdateRoom atomically applies mutate to the current record and commits
	// the result only if no conflicting write happened in between, retrying
	// internally on conflict. mutate is called once per attempt on a private
	// copy. Returns the committed room.
	UpdateRoom(id string, mutate func(*types.Room) error) (*types.Room, error)
	// DeleteRoom removes the record entirely. Deleting an absent room is a
	// no-op.
	DeleteRoom(id string) error
	// Subscribe registers fn to receive the full current room collection
	// immediately and again after every committed change. The returned
	// function cancels the subscription.
	Subscribe(fn func([]*types.Room)) (func(), error)
	Close() error
}

// NewStore opens the store backend selected in the configuration.
func NewStore(cfg *config.Config) (Store, error) {
	switch cfg.StoreConfig.Type {
	case "", "buntdb":
		return NewBuntStore(cfg)
	case "sqlite", "postgres":
		return NewGormStore(cfg)
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.StoreConfig.Type)
	}
}
