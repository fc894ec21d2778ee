package store

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/khnpedu/tension-meeting/config"
	"github.com/khnpedu/tension-meeting/globals"
	"github.com/khnpedu/tension-meeting/types"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ driver.Valuer = &datatypes.JSON{}

// updateAttempts bounds the optimistic retry loop of UpdateRoom.
const updateAttempts = 16

// GormStore is the SQL backend. Rooms live in a single table, the participant
// list embedded as a JSON column. Conditional updates use an optimistic
// version column: the UPDATE only matches when the version read is still the
// one stored, otherwise the read-modify-write is retried.
type GormStore struct {
	db *gorm.DB
	*notifier
}

func NewGormStore(cfg *config.Config) (Store, error) {
	if cfg.StoreConfig.DSN == "" {
		return nil, fmt.Errorf("no store dsn configured")
	}
	var dial gorm.Dialector
	switch cfg.StoreConfig.Type {
	case "postgres":
		dial = postgres.Open(cfg.StoreConfig.DSN)

	case "sqlite":
		dial = sqlite.Open(cfg.StoreConfig.DSN)

	default:
		return nil, fmt.Errorf("invalid store configuration")
	}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.Migrator().AutoMigrate(&types.Room{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db, notifier: newNotifier()}, nil
}

func (s *GormStore) GetRoom(id string) (*types.Room, error) {
	room := &types.Room{}
	err := s.db.First(room, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *GormStore) GetRooms() ([]*types.Room, error) {
	rooms := make([]*types.Room, 0)
	err := s.db.Order("created_at").Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *GormStore) PutRoom(room types.Room) error {
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&room).Error
	if err != nil {
		return err
	}
	s.pushCurrent(s.GetRooms)
	return nil
}

func (s *GormStore) MergeRoom(id string, patch types.RoomPatch) error {
	changed := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		room := &types.Room{}
		err := tx.First(room, "id = ?", id).Error
		if err != nil {
			return err
		}
		if patch.IsZero() {
			return nil
		}
		patch.Apply(room)
		changed = true
		return tx.Save(room).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
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

func (s *GormStore) UpdateRoom(id string, mutate func(*types.Room) error) (*types.Room, error) {
	for attempt := 0; attempt < updateAttempts; attempt++ {
		room, err := s.GetRoom(id)
		if err != nil {
			return nil, err
		}
		readVersion := room.Version
		if err := mutate(room); err != nil {
			return nil, err
		}
		room.Version = readVersion + 1
		res := s.db.Model(&types.Room{}).
			Where("id = ? AND version = ?", id, readVersion).
			Updates(map[string]interface{}{
				"name":         room.Name,
				"team_count":   room.TeamCount,
				"duration":     room.Duration,
				"participants": room.Participants,
				"is_started":   room.IsStarted,
				"start_time":   room.StartTime,
				"version":      room.Version,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			// concurrent writer got in between, re-read and retry
			globals.AppLogger.Debug("conditional room update conflicted, retrying",
				"room", id, "attempt", attempt)
			continue
		}
		s.pushCurrent(s.GetRooms)
		return room, nil
	}
	return nil, fmt.Errorf("conditional update of room %s aborted after %d conflicts", id, updateAttempts)
}

func (s *GormStore) DeleteRoom(id string) error {
	err := s.db.Delete(&types.Room{}, "id = ?", id).Error
	if err != nil {
		return err
	}
	s.pushCurrent(s.GetRooms)
	return nil
}

func (s *GormStore) Subscribe(fn func([]*types.Room)) (func(), error) {
	unsubscribe := s.subscribe(fn)
	rooms, err := s.GetRooms()
	if err != nil {
		unsubscribe()
		return nil, err
	}
	fn(rooms)
	return unsubscribe, nil
}

func (s *GormStore) Close() error {
	return nil
}
