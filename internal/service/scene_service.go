package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cineboard/cineboard-api/internal/dto"
	"github.com/cineboard/cineboard-api/internal/models"
	appErrors "github.com/cineboard/cineboard-api/pkg/errors"
)

type sceneCatalogStore interface {
	List(ctx context.Context, filter models.SceneFilter) ([]models.Scene, error)
	FindByID(ctx context.Context, id string) (*models.Scene, error)
	BulkUpsert(ctx context.Context, scenes []models.Scene) error
	UpdateStatus(ctx context.Context, id string, status models.SceneStatus) error
}

// SceneService manages the scene catalog that feeds scheduling. The
// script-breakdown subsystem authors scenes; this service only ingests
// and tracks them.
type SceneService struct {
	repo      sceneCatalogStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSceneService constructs the service.
func NewSceneService(repo sceneCatalogStore, validate *validator.Validate, logger *zap.Logger) *SceneService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SceneService{repo: repo, validator: validate, logger: logger}
}

// List returns the catalog in script order.
func (s *SceneService) List(ctx context.Context, filter models.SceneFilter) ([]models.Scene, error) {
	scenes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scenes")
	}
	return scenes, nil
}

// Import ingests a batch of scenes from the script breakdown.
func (s *SceneService) Import(ctx context.Context, req dto.ImportScenesRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scene import payload")
	}

	scenes := make([]models.Scene, 0, len(req.Scenes))
	for _, input := range req.Scenes {
		scenes = append(scenes, models.Scene{
			Number:            input.Number,
			Title:             input.Title,
			Description:       input.Description,
			Location:          input.Location,
			EstimatedDuration: input.EstimatedDuration,
			Characters:        models.StringList(input.Characters),
			Props:             models.StringList(input.Props),
			VFX:               input.VFX,
			Status:            models.SceneStatusScheduled,
		})
	}

	if err := s.repo.BulkUpsert(ctx, scenes); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import scenes")
	}

	s.logger.Info("scene catalog imported", zap.Int("scenes", len(scenes)))
	return len(scenes), nil
}

// UpdateStatus moves a scene through the pipeline.
func (s *SceneService) UpdateStatus(ctx context.Context, id string, req dto.UpdateSceneStatusRequest) error {
	status := models.SceneStatus(req.Status)
	if !status.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown scene status")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "scene not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update scene status")
	}
	return nil
}
