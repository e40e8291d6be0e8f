package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SceneStatus tracks a scene through the production pipeline.
type SceneStatus string

const (
	SceneStatusScheduled  SceneStatus = "scheduled"
	SceneStatusInProgress SceneStatus = "in_progress"
	SceneStatusCompleted  SceneStatus = "completed"
	SceneStatusDelayed    SceneStatus = "delayed"
)

// Valid reports whether the status is one of the known pipeline states.
func (s SceneStatus) Valid() bool {
	switch s {
	case SceneStatusScheduled, SceneStatusInProgress, SceneStatusCompleted, SceneStatusDelayed:
		return true
	default:
		return false
	}
}

// StringList stores a JSON-encoded string slice in a single column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal string list: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
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
		return fmt.Errorf("unsupported string list source %T", src)
	}
	return json.Unmarshal(data, l)
}

// Scene is the atomic unit of script content to be shot at one location.
type Scene struct {
	ID                string      `db:"id" json:"id"`
	Number            int         `db:"number" json:"number"`
	Title             string      `db:"title" json:"title"`
	Description       string      `db:"description" json:"description"`
	Location          string      `db:"location" json:"location"`
	EstimatedDuration float64     `db:"estimated_duration" json:"estimated_duration"`
	Characters        StringList  `db:"characters" json:"characters"`
	Props             StringList  `db:"props" json:"props"`
	VFX               bool        `db:"vfx" json:"vfx"`
	Status            SceneStatus `db:"status" json:"status"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time   `db:"updated_at" json:"updated_at"`
}

// SceneFilter narrows down scene listings.
type SceneFilter struct {
	Location string
	Status   SceneStatus
	VFXOnly  bool
}
