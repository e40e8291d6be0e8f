package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cineboard/cineboard-api/internal/models"
)

// SceneRepository provides persistence for the scene catalog.
type SceneRepository struct {
	db *sqlx.DB
}

// NewSceneRepository creates a new scene repository.
func NewSceneRepository(db *sqlx.DB) *SceneRepository {
	return &SceneRepository{db: db}
}

const sceneColumns = "id, number, title, description, location, estimated_duration, characters, props, vfx, status, created_at, updated_at"

// List returns scenes in script order with optional filtering.
func (r *SceneRepository) List(ctx context.Context, filter models.SceneFilter) ([]models.Scene, error) {
	base := "FROM scenes WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Location != "" {
		conditions = append(conditions, fmt.Sprintf("location = $%d", len(args)+1))
		args = append(args, filter.Location)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.VFXOnly {
		conditions = append(conditions, "vfx = TRUE")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY number ASC", sceneColumns, base)
	var scenes []models.Scene
	if err := r.db.SelectContext(ctx, &scenes, query, args...); err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	return scenes, nil
}

// FindByID returns a single scene.
func (r *SceneRepository) FindByID(ctx context.Context, id string) (*models.Scene, error) {
	query := fmt.Sprintf("SELECT %s FROM scenes WHERE id = $1", sceneColumns)
	var scene models.Scene
	if err := r.db.GetContext(ctx, &scene, query, id); err != nil {
		return nil, err
	}
	return &scene, nil
}

// BulkUpsert inserts or replaces scenes keyed on script number.
func (r *SceneRepository) BulkUpsert(ctx context.Context, scenes []models.Scene) error {
	if len(scenes) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin scene import: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const stmt = `
		INSERT INTO scenes (id, number, title, description, location, estimated_duration, characters, props, vfx, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		ON CONFLICT (number) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			location = EXCLUDED.location,
			estimated_duration = EXCLUDED.estimated_duration,
			characters = EXCLUDED.characters,
			props = EXCLUDED.props,
			vfx = EXCLUDED.vfx,
			updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	for i := range scenes {
		if scenes[i].ID == "" {
			scenes[i].ID = uuid.NewString()
		}
		if scenes[i].Status == "" {
			scenes[i].Status = models.SceneStatusScheduled
		}
		if _, err := tx.ExecContext(ctx, stmt,
			scenes[i].ID,
			scenes[i].Number,
			scenes[i].Title,
			scenes[i].Description,
			scenes[i].Location,
			scenes[i].EstimatedDuration,
			scenes[i].Characters,
			scenes[i].Props,
			scenes[i].VFX,
			scenes[i].Status,
			now,
		); err != nil {
			return fmt.Errorf("upsert scene %d: %w", scenes[i].Number, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scene import: %w", err)
	}
	return nil
}

// UpdateStatus moves a scene to a new pipeline state.
func (r *SceneRepository) UpdateStatus(ctx context.Context, id string, status models.SceneStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE scenes SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update scene status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update scene status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
