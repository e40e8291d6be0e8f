package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cineboard/cineboard-api/internal/models"
)

// ScheduleEventRepository persists shoot-day events.
type ScheduleEventRepository struct {
	db *sqlx.DB
}

// NewScheduleEventRepository creates a new schedule event repository.
func NewScheduleEventRepository(db *sqlx.DB) *ScheduleEventRepository {
	return &ScheduleEventRepository{db: db}
}

const eventColumns = "id, date, start_time, end_time, location, scenes, cast_members, crew, status, notes, created_at, updated_at"

// List returns every event ordered chronologically.
func (r *ScheduleEventRepository) List(ctx context.Context) ([]models.ScheduleEvent, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_events ORDER BY date ASC, start_time ASC", eventColumns)
	var events []models.ScheduleEvent
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list schedule events: %w", err)
	}
	return events, nil
}

// FindByID returns a single event.
func (r *ScheduleEventRepository) FindByID(ctx context.Context, id string) (*models.ScheduleEvent, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_events WHERE id = $1", eventColumns)
	var event models.ScheduleEvent
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// ReplaceAll swaps the entire event collection inside the given
// transaction. Regeneration is always a full replacement, never an
// incremental merge, so partial schedules are never observable.
func (r *ScheduleEventRepository) ReplaceAll(ctx context.Context, tx *sqlx.Tx, events []models.ScheduleEvent) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM schedule_events"); err != nil {
		return fmt.Errorf("clear schedule events: %w", err)
	}

	const stmt = `
		INSERT INTO schedule_events (id, date, start_time, end_time, location, scenes, cast_members, crew, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`

	now := time.Now().UTC()
	for i := range events {
		if events[i].ID == "" {
			events[i].ID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, stmt,
			events[i].ID,
			events[i].Date,
			events[i].StartTime,
			events[i].EndTime,
			events[i].Location,
			events[i].Scenes,
			events[i].Cast,
			events[i].Crew,
			events[i].Status,
			events[i].Notes,
			now,
		); err != nil {
			return fmt.Errorf("insert schedule event %s: %w", events[i].ID, err)
		}
	}
	return nil
}

// Update replaces a single event keyed on id.
func (r *ScheduleEventRepository) Update(ctx context.Context, event *models.ScheduleEvent) error {
	const stmt = `
		UPDATE schedule_events SET
			date = $1,
			start_time = $2,
			end_time = $3,
			location = $4,
			scenes = $5,
			cast_members = $6,
			crew = $7,
			status = $8,
			notes = $9,
			updated_at = $10
		WHERE id = $11`

	result, err := r.db.ExecContext(ctx, stmt,
		event.Date,
		event.StartTime,
		event.EndTime,
		event.Location,
		event.Scenes,
		event.Cast,
		event.Crew,
		event.Status,
		event.Notes,
		time.Now().UTC(),
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("update schedule event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update schedule event: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// BeginTxx starts a transaction for callers that replace the collection.
func (r *ScheduleEventRepository) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, opts)
}
