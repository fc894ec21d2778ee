package store

import (
	"encoding/json"
	"strings"

	"github.com/khnpedu/tension-meeting/config"
	"github.com/khnpedu/tension-meeting/types"
	"github.com/tidwall/buntdb"
)

const roomKeyPrefix = "room:"

// BuntStore keeps every room as one JSON document under "room:<id>". The
// buntdb Update transaction serializes writers, which makes it the conditional
// read-modify-write primitive of this backend: mutate always runs against the
// latest committed record.
type BuntStore struct {
	db *buntdb.DB
	*notifier
}

func NewBuntStore(cfg *config.Config) (Store, error) {
	name := cfg.StoreConfig.DSN
	if name == "" {
		name = ":memory:"
	}
	db, err := buntdb.Open(name)
	if err != nil {
		return nil, err
	}
	err = db.CreateIndex("roomsts", roomKeyPrefix+"*", buntdb.IndexJSON("createdAt"))
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BuntStore{db: db, notifier: newNotifier()}, nil
}

func (s *BuntStore) GetRoom(id string) (*types.Room, error) {
	room := &types.Room{}
	err := s.db.View(func(tx *buntdb.Tx) error {
		val, err := tx.Get(roomKeyPrefix + id)
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(val), room)
	})
	if err == buntdb.ErrNotFound {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *BuntStore) GetRooms() ([]*types.Room, error) {
	rooms := make([]*types.Room, 0)
	err := s.db.View(func(tx *buntdb.Tx) error {
		var innerErr error
		tx.Ascend("roomsts", func(key, val string) bool {
			if !strings.HasPrefix(key, roomKeyPrefix) {
				return true
			}
			room := &types.Room{}
			if innerErr = json.Unmarshal([]byte(val), room); innerErr != nil {
				return false
			}
			rooms = append(rooms, room)
			return true
		})
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *BuntStore) PutRoom(room types.Room) error {
	raw, err := json.Marshal(room)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(roomKeyPrefix+room.Id, string(raw), nil)
		return err
	})
	if err != nil {
		return err
	}
	s.pushCurrent(s.GetRooms)
	return nil
}

func (s *BuntStore) MergeRoom(id string, patch types.RoomPatch) error {
	changed := false
	err := s.db.Update(func(tx *buntdb.Tx) error {
		val, err := tx.Get(roomKeyPrefix + id)
		if err != nil {
			return err
		}
		if patch.IsZero() {
			// leave the stored document untouched
			return nil
		}
		room := &types.Room{}
		if err := json.Unmarshal([]byte(val), room); err != nil {
			return err
		}
		patch.Apply(room)
		raw, err := json.Marshal(room)
		if err != nil {
			return err
		}
		_, _, err = tx.Set(roomKeyPrefix+id, string(raw), nil)
		changed = err == nil
		return err
	})
	if err == buntdb.ErrNotFound {
		return ErrRoomNotFound
	}
	if err != nil {
		return err
	}
	if changed {
		s.pushCurrent(s.GetRooms)
	}
	return nil
}

func (s *BuntStore) UpdateRoom(id string, mutate func(*types.Room) error) (*types.Room, error) {
	room := &types.Room{}
	err := s.db.Update(func(tx *buntdb.Tx) error {
		val, err := tx.Get(roomKeyPrefix + id)
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(val), room); err != nil {
			return err
		}
		if err := mutate(room); err != nil {
			return err
		}
		raw, err := json.Marshal(room)
		if err != nil {
			return err
		}
		_, _, err = tx.Set(roomKeyPrefix+id, string(raw), nil)
		return err
	})
	if err == buntdb.ErrNotFound {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	s.pushCurrent(s.GetRooms)
	return room, nil
}

func (s *BuntStore) DeleteRoom(id string) error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(roomKeyPrefix + id)
		if err == buntdb.ErrNotFound {
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	s.pushCurrent(s.GetRooms)
	return nil
}

func (s *BuntStore) Subscribe(fn func([]*types.Room)) (func(), error) {
	unsubscribe := s.subscribe(fn)
	rooms, err := s.GetRooms()
	if err != nil {
		unsubscribe()
		return nil, err
	}
	fn(rooms)
	return unsubscribe, nil
}

func (s *BuntStore) Close() error {
	return s.db.Close()
}
