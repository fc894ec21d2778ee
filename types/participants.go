package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ParticipantList defined JSON data type, need to implements driver.Valuer, sql.Scanner interface
type ParticipantList []Participant

// Value return json value, implement driver.Valuer interface
func (l ParticipantList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	ba, err := json.Marshal([]Participant(l))
	return string(ba), err
}

// Scan scan value into the list, implements sql.Scanner interface
func (l *ParticipantList) Scan(val interface{}) error {
	var ba []byte
	switch v := val.(type) {
	case []byte:
		ba = v
	case string:
		ba = []byte(v)
	case nil:
		*l = ParticipantList{}
		return nil
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal participant list value:", val))
	}
	t := make([]Participant, 0)
	err := json.Unmarshal(ba, &t)
	*l = ParticipantList(t)
	return err
}

// GormDataType gorm common data type
func (l ParticipantList) GormDataType() string {
	return "participantlist"
}

// GormDBDataType gorm db data type
func (ParticipantList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "sqlite":
		return "JSON"
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	}
	return ""
}
