package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/cineboard/cineboard-api/internal/dto"
	"github.com/cineboard/cineboard-api/internal/models"
	appErrors "github.com/cineboard/cineboard-api/pkg/errors"
)

// minAverageSceneHours guards the scenes-per-day division when a cluster
// averages to zero duration. A quarter hour keeps scenesPerDay bounded
// at 32 instead of dividing by zero.
const minAverageSceneHours = 0.25

const scheduleCachePrefix = "schedule:"

type sceneCatalogReader interface {
	List(ctx context.Context, filter models.SceneFilter) ([]models.Scene, error)
}

type scheduleEventStore interface {
	List(ctx context.Context) ([]models.ScheduleEvent, error)
	ReplaceAll(ctx context.Context, tx *sqlx.Tx, events []models.ScheduleEvent) error
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type scheduleCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

type optimizerClient interface {
	RequestOptimizedSchedule(ctx context.Context, req dto.OptimizeScheduleRequest, scenes []models.Scene) (*OptimizedResult, error)
}

// ScheduleServiceConfig tunes synthesis behaviour.
type ScheduleServiceConfig struct {
	WorkingHoursPerDay int
	CacheTTL           time.Duration
}

// ScheduleService owns schedule generation: clustering the catalog,
// synthesizing shoot days locally or via the remote optimizer, and
// atomically replacing the stored event collection.
type ScheduleService struct {
	scenes    sceneCatalogReader
	events    scheduleEventStore
	cache     scheduleCache
	optimizer optimizerClient
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ScheduleServiceConfig

	// Single-slot in-flight guard. A second Generate while one is
	// pending fails with CONFLICT instead of racing the replacement.
	inFlight sync.Mutex
	busy     bool
}

// NewScheduleService wires scheduling dependencies.
func NewScheduleService(
	scenes sceneCatalogReader,
	events scheduleEventStore,
	cache scheduleCache,
	optimizer optimizerClient,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleServiceConfig,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WorkingHoursPerDay <= 0 {
		cfg.WorkingHoursPerDay = 8
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &ScheduleService{
		scenes:    scenes,
		events:    events,
		cache:     cache,
		optimizer: optimizer,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// ClusterBreakdown returns the location clusters for the current catalog.
func (s *ScheduleService) ClusterBreakdown(ctx context.Context) (*dto.ClusterBreakdownResponse, error) {
	scenes, err := s.scenes.List(ctx, models.SceneFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scene catalog")
	}
	clusters := Cluster(scenes)
	resp := &dto.ClusterBreakdownResponse{Clusters: clusters, TotalScenes: len(scenes)}
	for _, cluster := range clusters {
		resp.TotalEstimatedDays += cluster.EstimatedDays
	}
	return resp, nil
}

// Generate runs the local heuristic and replaces the event collection.
func (s *ScheduleService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.ScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate payload")
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be YYYY-MM-DD")
	}

	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	scenes, err := s.scenes.List(ctx, models.SceneFilter{})
	if err != nil {
		s.metrics.RecordGeneration("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scene catalog")
	}
	if len(scenes) == 0 {
		s.metrics.RecordGeneration("rejected")
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "scene catalog is empty")
	}

	events := s.Synthesize(Cluster(scenes), startDate)
	if err := s.replaceEvents(ctx, events); err != nil {
		s.metrics.RecordGeneration("error")
		return nil, err
	}
	s.metrics.RecordGeneration("success")

	s.logger.Info("schedule generated",
		zap.Int("scenes", len(scenes)),
		zap.Int("shoot_days", len(events)),
		zap.String("start_date", req.StartDate),
	)

	return &dto.ScheduleResponse{Events: events, TotalShootingDays: len(events)}, nil
}

// Optimize requests a plan from the remote optimizer and replaces the
// event collection with the mapped result. Adapter failures surface to
// the caller untouched; there is no silent fallback to the local
// heuristic.
func (s *ScheduleService) Optimize(ctx context.Context, req dto.OptimizeScheduleRequest) (*dto.ScheduleResponse, string, error) {
	if s.optimizer == nil {
		return nil, "", appErrors.Clone(appErrors.ErrPreconditionFailed, "optimizer is not configured")
	}

	release, err := s.acquire()
	if err != nil {
		return nil, "", err
	}
	defer release()

	scenes, err := s.scenes.List(ctx, models.SceneFilter{})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scene catalog")
	}
	if len(scenes) == 0 {
		return nil, "", appErrors.Clone(appErrors.ErrPreconditionFailed, "scene catalog is empty")
	}

	result, err := s.optimizer.RequestOptimizedSchedule(ctx, req, scenes)
	if err != nil {
		s.metrics.RecordOptimizerCall("error")
		return nil, "", err
	}
	if result.Warning != "" {
		s.metrics.RecordOptimizerCall("warning")
	} else {
		s.metrics.RecordOptimizerCall("success")
	}

	if err := s.replaceEvents(ctx, result.Events); err != nil {
		return nil, "", err
	}

	s.logger.Info("optimized schedule applied",
		zap.Int("shoot_days", len(result.Events)),
		zap.String("strategy", result.Strategy),
		zap.Bool("warning", result.Warning != ""),
	)

	resp := &dto.ScheduleResponse{
		Events:            result.Events,
		TotalShootingDays: result.TotalShootingDays,
		Strategy:          result.Strategy,
		Benefits:          result.Benefits,
	}
	if resp.TotalShootingDays == 0 {
		resp.TotalShootingDays = len(result.Events)
	}
	return resp, result.Warning, nil
}

// Events returns the current collection, served from cache when warm.
func (s *ScheduleService) Events(ctx context.Context) ([]models.ScheduleEvent, error) {
	key := scheduleCachePrefix + "events"
	if s.cache != nil {
		var cached []models.ScheduleEvent
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			return cached, nil
		}
		s.metrics.RecordCacheLookup(false)
	}

	events, err := s.events.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule events")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, events, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("failed to cache schedule events", zap.Error(err))
		}
	}
	return events, nil
}

// Synthesize turns priority-ordered clusters into dated shoot days.
// Scheduling starts the day after startDate and advances one calendar
// day per chunk; weekends are not skipped, which mirrors the dashboard's
// documented simplification.
func (s *ScheduleService) Synthesize(clusters []models.LocationCluster, startDate time.Time) []models.ScheduleEvent {
	hoursPerDay := float64(s.cfg.WorkingHoursPerDay)
	current := truncateToDay(startDate).AddDate(0, 0, 1)

	var events []models.ScheduleEvent
	for _, cluster := range clusters {
		if len(cluster.Scenes) == 0 {
			continue
		}

		avg := cluster.TotalHours() / float64(len(cluster.Scenes))
		if avg < minAverageSceneHours {
			avg = minAverageSceneHours
		}
		scenesPerDay := int(math.Ceil(hoursPerDay / avg))
		if scenesPerDay < 1 {
			scenesPerDay = 1
		}

		for offset := 0; offset < len(cluster.Scenes); offset += scenesPerDay {
			end := offset + scenesPerDay
			if end > len(cluster.Scenes) {
				end = len(cluster.Scenes)
			}
			day := cluster.Scenes[offset:end]

			events = append(events, models.ScheduleEvent{
				ID:        uuid.NewString(),
				Date:      current,
				StartTime: "09:00",
				EndTime:   dayEndTime(day),
				Location:  cluster.Location,
				Scenes:    append(models.SceneList(nil), day...),
				Cast:      dedupCharacters(day),
				Crew:      models.DefaultCrewRoster(),
				Status:    models.EventStatusScheduled,
			})
			current = current.AddDate(0, 0, 1)
		}
	}
	return events
}

func (s *ScheduleService) replaceEvents(ctx context.Context, events []models.ScheduleEvent) error {
	tx, err := s.events.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin schedule transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.events.ReplaceAll(ctx, tx, events); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace schedule events")
		return err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule events")
		return err
	}

	if s.cache != nil {
		if err := s.cache.InvalidatePrefix(ctx, scheduleCachePrefix); err != nil {
			s.logger.Warn("failed to invalidate schedule cache", zap.Error(err))
		}
	}
	return nil
}

func (s *ScheduleService) acquire() (func(), error) {
	s.inFlight.Lock()
	defer s.inFlight.Unlock()
	if s.busy {
		return nil, appErrors.Clone(appErrors.ErrConflict, "schedule generation already in progress")
	}
	s.busy = true
	return func() {
		s.inFlight.Lock()
		s.busy = false
		s.inFlight.Unlock()
	}, nil
}

func dayEndTime(scenes []models.Scene) string {
	var total float64
	for _, scene := range scenes {
		total += scene.EstimatedDuration
	}
	end := 9 + int(math.Ceil(total))
	if end > 23 {
		end = 23
	}
	return fmt.Sprintf("%02d:00", end)
}

func dedupCharacters(scenes []models.Scene) models.StringList {
	seen := make(map[string]struct{})
	var cast models.StringList
	for _, scene := range scenes {
		for _, name := range scene.Characters {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			cast = append(cast, name)
		}
	}
	return cast
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
