package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// EventStatus tracks a shoot day through its lifecycle.
type EventStatus string

const (
	EventStatusScheduled  EventStatus = "scheduled"
	EventStatusInProgress EventStatus = "in_progress"
	EventStatusCompleted  EventStatus = "completed"
	EventStatusCancelled  EventStatus = "cancelled"
)

// Valid reports whether the status is a known lifecycle state.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusScheduled, EventStatusInProgress, EventStatusCompleted, EventStatusCancelled:
		return true
	default:
		return false
	}
}

// SceneList stores the day's scenes as a JSON column.
type SceneList []Scene

// Value implements driver.Valuer.
func (l SceneList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal scene list: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *SceneList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported scene list source %T", src)
	}
	return json.Unmarshal(data, l)
}

// ScheduleEvent is one shoot day: a dated block of scenes at a location
// with the cast and crew needed to film them.
type ScheduleEvent struct {
	ID        string      `db:"id" json:"id"`
	Date      time.Time   `db:"date" json:"date"`
	StartTime string      `db:"start_time" json:"start_time"`
	EndTime   string      `db:"end_time" json:"end_time"`
	Location  string      `db:"location" json:"location"`
	Scenes    SceneList   `db:"scenes" json:"scenes"`
	Cast      StringList  `db:"cast_members" json:"cast"`
	Crew      StringList  `db:"crew" json:"crew"`
	Status    EventStatus `db:"status" json:"status"`
	Notes     string      `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// Clone returns a deep copy of the event. The editor hands copies out so
// in-progress edits never touch the shared collection.
func (e ScheduleEvent) Clone() ScheduleEvent {
	clone := e
	if e.Scenes != nil {
		clone.Scenes = make(SceneList, len(e.Scenes))
		for i, scene := range e.Scenes {
			copied := scene
			copied.Characters = append(StringList(nil), scene.Characters...)
			copied.Props = append(StringList(nil), scene.Props...)
			clone.Scenes[i] = copied
		}
	}
	clone.Cast = append(StringList(nil), e.Cast...)
	clone.Crew = append(StringList(nil), e.Crew...)
	return clone
}

// DefaultCrewRoster is the fixed role roster attached to every
// synthesized shoot day.
func DefaultCrewRoster() StringList {
	return StringList{
		"Director",
		"Director of Photography",
		"First Assistant Director",
		"Sound Mixer",
		"Gaffer",
		"Key Grip",
		"Script Supervisor",
	}
}
