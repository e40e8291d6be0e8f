package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineboard/cineboard-api/internal/dto"
	"github.com/cineboard/cineboard-api/internal/models"
	appErrors "github.com/cineboard/cineboard-api/pkg/errors"
)

type stubSceneStore struct {
	scenes    []models.Scene
	upserted  []models.Scene
	statusID  string
	status    models.SceneStatus
	updateErr error
	bulkErr   error
}

func (s *stubSceneStore) List(ctx context.Context, filter models.SceneFilter) ([]models.Scene, error) {
	return s.scenes, nil
}

func (s *stubSceneStore) FindByID(ctx context.Context, id string) (*models.Scene, error) {
	return nil, sql.ErrNoRows
}

func (s *stubSceneStore) BulkUpsert(ctx context.Context, scenes []models.Scene) error {
	if s.bulkErr != nil {
		return s.bulkErr
	}
	s.upserted = scenes
	return nil
}

func (s *stubSceneStore) UpdateStatus(ctx context.Context, id string, status models.SceneStatus) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.statusID = id
	s.status = status
	return nil
}

func TestImportScenes(t *testing.T) {
	store := &stubSceneStore{}
	svc := NewSceneService(store, nil, nil)

	count, err := svc.Import(context.Background(), dto.ImportScenesRequest{Scenes: []dto.SceneInput{
		{Number: 1, Title: "Opening", Location: "Warehouse", EstimatedDuration: 2, Characters: []string{"Ana"}},
		{Number: 2, Title: "Chase", Location: "Rooftop", EstimatedDuration: 3, VFX: true},
	}})

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, store.upserted, 2)
	assert.Equal(t, models.SceneStatusScheduled, store.upserted[0].Status)
	assert.True(t, store.upserted[1].VFX)
}

func TestImportRejectsEmptyBatch(t *testing.T) {
	svc := NewSceneService(&stubSceneStore{}, nil, nil)

	_, err := svc.Import(context.Background(), dto.ImportScenesRequest{})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewSceneService(&stubSceneStore{}, nil, nil)

	err := svc.UpdateStatus(context.Background(), "scene-1", dto.UpdateSceneStatusRequest{Status: "paused"})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc := NewSceneService(&stubSceneStore{updateErr: sql.ErrNoRows}, nil, nil)

	err := svc.UpdateStatus(context.Background(), "missing", dto.UpdateSceneStatusRequest{Status: "completed"})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUpdateStatusHappyPath(t *testing.T) {
	store := &stubSceneStore{}
	svc := NewSceneService(store, nil, nil)

	require.NoError(t, svc.UpdateStatus(context.Background(), "scene-1", dto.UpdateSceneStatusRequest{Status: "in_progress"}))
	assert.Equal(t, "scene-1", store.statusID)
	assert.Equal(t, models.SceneStatusInProgress, store.status)
}
