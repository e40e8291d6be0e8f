package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineboard/cineboard-api/internal/dto"
	"github.com/cineboard/cineboard-api/internal/models"
	appErrors "github.com/cineboard/cineboard-api/pkg/errors"
)

type stubSceneReader struct {
	scenes []models.Scene
	err    error
}

func (s *stubSceneReader) List(ctx context.Context, filter models.SceneFilter) ([]models.Scene, error) {
	return s.scenes, s.err
}

type stubEventStore struct {
	db       *sqlx.DB
	events   []models.ScheduleEvent
	replaced []models.ScheduleEvent
	listErr  error
}

func (s *stubEventStore) List(ctx context.Context) ([]models.ScheduleEvent, error) {
	return s.events, s.listErr
}

func (s *stubEventStore) ReplaceAll(ctx context.Context, tx *sqlx.Tx, events []models.ScheduleEvent) error {
	s.replaced = events
	return nil
}

func (s *stubEventStore) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return s.db.BeginTxx(ctx, opts)
}

type stubCache struct {
	invalidated []string
}

func (s *stubCache) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (s *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (s *stubCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	s.invalidated = append(s.invalidated, prefix)
	return nil
}

type stubOptimizer struct {
	result *OptimizedResult
	err    error
}

func (s *stubOptimizer) RequestOptimizedSchedule(ctx context.Context, req dto.OptimizeScheduleRequest, scenes []models.Scene) (*OptimizedResult, error) {
	return s.result, s.err
}

func newTestEventStore(t *testing.T, begins int) (*stubEventStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	for i := 0; i < begins; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	return &stubEventStore{db: sqlx.NewDb(mockDB, "sqlmock")}, mock
}

func newScheduleService(scenes *stubSceneReader, events *stubEventStore, cache *stubCache, optimizer *stubOptimizer) *ScheduleService {
	var opt optimizerClient
	if optimizer != nil {
		opt = optimizer
	}
	var ch scheduleCache
	if cache != nil {
		ch = cache
	}
	return NewScheduleService(scenes, events, ch, opt, nil, nil, nil, ScheduleServiceConfig{})
}

func TestSynthesizeChunksClusterAcrossDays(t *testing.T) {
	svc := newScheduleService(&stubSceneReader{}, &stubEventStore{}, nil, nil)

	clusters := Cluster([]models.Scene{
		scene(1, "A", 6),
		scene(2, "A", 4),
		scene(3, "B", 2),
	})
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	events := svc.Synthesize(clusters, start)

	// Cluster A averages 5h per scene, so only one fits in an 8h day.
	require.Len(t, events, 3)
	assert.Equal(t, "A", events[0].Location)
	assert.Equal(t, "A", events[1].Location)
	assert.Equal(t, "B", events[2].Location)

	// Scheduling starts the day after the requested start date and
	// advances one calendar day per chunk.
	assert.Equal(t, start.AddDate(0, 0, 1), events[0].Date)
	assert.Equal(t, start.AddDate(0, 0, 2), events[1].Date)
	assert.Equal(t, start.AddDate(0, 0, 3), events[2].Date)

	assert.Equal(t, "09:00", events[0].StartTime)
	assert.Equal(t, "15:00", events[0].EndTime) // 9 + 6h
	assert.Equal(t, "13:00", events[1].EndTime) // 9 + 4h
	assert.Equal(t, "11:00", events[2].EndTime) // 9 + 2h
}

func TestSynthesizeDeduplicatesCast(t *testing.T) {
	svc := newScheduleService(&stubSceneReader{}, &stubEventStore{}, nil, nil)

	first := scene(1, "Set", 1)
	first.Characters = models.StringList{"Ana", "Ben"}
	second := scene(2, "Set", 1)
	second.Characters = models.StringList{"Ben", "Cleo"}

	events := svc.Synthesize(Cluster([]models.Scene{first, second}), time.Now())

	require.Len(t, events, 1)
	assert.Equal(t, models.StringList{"Ana", "Ben", "Cleo"}, events[0].Cast)
	assert.NotEmpty(t, events[0].Crew)
	assert.Equal(t, models.EventStatusScheduled, events[0].Status)
}

func TestSynthesizeCapsEndTime(t *testing.T) {
	svc := newScheduleService(&stubSceneReader{}, &stubEventStore{}, nil, nil)

	long := scene(1, "Epic", 0.1)
	long.EstimatedDuration = 0.1
	clusters := []models.LocationCluster{{
		Location: "Epic",
		Scenes:   make([]models.Scene, 0, 40),
	}}
	for i := 0; i < 40; i++ {
		clusters[0].Scenes = append(clusters[0].Scenes, long)
	}

	events := svc.Synthesize(clusters, time.Now())
	for _, event := range events {
		assert.LessOrEqual(t, event.EndTime, "23:00")
	}
}

func TestGenerateReplacesEventsAndInvalidatesCache(t *testing.T) {
	events, mock := newTestEventStore(t, 1)
	cache := &stubCache{}
	scenes := &stubSceneReader{scenes: []models.Scene{
		scene(1, "Warehouse", 3),
		scene(2, "Warehouse", 2),
	}}
	svc := newScheduleService(scenes, events, cache, nil)

	resp, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{StartDate: "2026-03-01"})

	require.NoError(t, err)
	assert.Equal(t, len(resp.Events), resp.TotalShootingDays)
	assert.Equal(t, resp.Events, []models.ScheduleEvent(events.replaced))
	assert.Contains(t, cache.invalidated, "schedule:")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateRejectsEmptyCatalog(t *testing.T) {
	events, _ := newTestEventStore(t, 0)
	svc := newScheduleService(&stubSceneReader{}, events, nil, nil)

	_, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{StartDate: "2026-03-01"})

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
}

func TestGenerateRejectsBadStartDate(t *testing.T) {
	svc := newScheduleService(&stubSceneReader{}, &stubEventStore{}, nil, nil)

	_, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{StartDate: "01-03-2026"})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGenerateInFlightGuard(t *testing.T) {
	svc := newScheduleService(&stubSceneReader{}, &stubEventStore{}, nil, nil)

	release, err := svc.acquire()
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), dto.GenerateScheduleRequest{StartDate: "2026-03-01"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	release()
	_, err = svc.acquire()
	assert.NoError(t, err)
}

func TestOptimizeAppliesRemoteResult(t *testing.T) {
	events, mock := newTestEventStore(t, 1)
	cache := &stubCache{}
	scenes := &stubSceneReader{scenes: []models.Scene{scene(1, "Set", 2)}}
	optimizer := &stubOptimizer{result: &OptimizedResult{
		Events: []models.ScheduleEvent{{
			ID:       "evt-1",
			Location: "Set",
			Status:   models.EventStatusScheduled,
		}},
		TotalShootingDays: 1,
		Strategy:          "location-first",
		Warning:           "partial constraint coverage",
	}}
	svc := newScheduleService(scenes, events, cache, optimizer)

	resp, warning, err := svc.Optimize(context.Background(), dto.OptimizeScheduleRequest{})

	require.NoError(t, err)
	assert.Equal(t, "partial constraint coverage", warning)
	assert.Equal(t, "location-first", resp.Strategy)
	assert.Len(t, events.replaced, 1)
	assert.Contains(t, cache.invalidated, "schedule:")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOptimizeSurfacesAdapterErrors(t *testing.T) {
	events, _ := newTestEventStore(t, 0)
	scenes := &stubSceneReader{scenes: []models.Scene{scene(1, "Set", 2)}}
	optimizer := &stubOptimizer{err: appErrors.Clone(appErrors.ErrService, "no actors available")}
	svc := newScheduleService(scenes, events, nil, optimizer)

	_, _, err := svc.Optimize(context.Background(), dto.OptimizeScheduleRequest{})

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrService.Code, appErr.Code)
	assert.Equal(t, "no actors available", appErr.Message)
	assert.Empty(t, events.replaced, "a failed optimization must not touch the stored schedule")
}

func TestEventsUsesStoreOnCacheMiss(t *testing.T) {
	stored := []models.ScheduleEvent{{ID: "evt-1"}}
	events := &stubEventStore{events: stored}
	svc := newScheduleService(&stubSceneReader{}, events, &stubCache{}, nil)

	got, err := svc.Events(context.Background())

	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestClusterBreakdownSumsEstimates(t *testing.T) {
	scenes := &stubSceneReader{scenes: []models.Scene{
		scene(1, "A", 6),
		scene(2, "A", 4),
		scene(3, "B", 2),
	}}
	svc := newScheduleService(scenes, &stubEventStore{}, nil, nil)

	resp, err := svc.ClusterBreakdown(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalScenes)
	assert.Equal(t, 3, resp.TotalEstimatedDays)
	require.Len(t, resp.Clusters, 2)
	assert.Equal(t, "A", resp.Clusters[0].Location)
}
