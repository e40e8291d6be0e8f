package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cineboard/cineboard-api/internal/dto"
	"github.com/cineboard/cineboard-api/internal/models"
	appErrors "github.com/cineboard/cineboard-api/pkg/errors"
)

type eventUpdater interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleEvent, error)
	Update(ctx context.Context, event *models.ScheduleEvent) error
}

type cacheInvalidator interface {
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// EditorConfig governs edit session behaviour.
type EditorConfig struct {
	SessionTTL time.Duration
}

// EditorService runs the viewing/editing cycle over a single event.
// Begin deep-copies the event so drafts never touch the shared
// collection; Save replaces the stored event by id; Cancel discards the
// draft. One session exists at a time: beginning an edit for another
// event discards the previous session (last writer wins).
type EditorService struct {
	events eventUpdater
	cache  cacheInvalidator
	logger *zap.Logger
	store  *editSessionStore
}

// NewEditorService constructs the editor.
func NewEditorService(events eventUpdater, cache cacheInvalidator, logger *zap.Logger, cfg EditorConfig) *EditorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	return &EditorService{
		events: events,
		cache:  cache,
		logger: logger,
		store:  newEditSessionStore(cfg.SessionTTL),
	}
}

// Begin opens an edit session for the event, replacing any active
// session for a different event.
func (s *EditorService) Begin(ctx context.Context, eventID string) (*dto.EditSessionResponse, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule event")
	}

	draft := event.Clone()
	s.store.Replace(editSession{EventID: eventID, Draft: draft, StartedAt: time.Now().UTC()})
	return &dto.EditSessionResponse{Draft: draft}, nil
}

// UpdateDraft applies field changes to the active draft. Numeric fields
// that fail coercion are reported per field and keep their previous
// value; the rest of the update still lands and the session stays open.
func (s *EditorService) UpdateDraft(ctx context.Context, eventID string, req dto.UpdateDraftRequest) (*dto.EditSessionResponse, error) {
	session, ok := s.store.Get(eventID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no active edit session for this event")
	}

	fieldErrors := make(map[string]string)

	if req.Location != nil {
		session.Draft.Location = *req.Location
	}
	if req.StartTime != nil {
		if validClockTime(*req.StartTime) {
			session.Draft.StartTime = *req.StartTime
		} else {
			fieldErrors["start_time"] = "must be HH:MM"
		}
	}
	if req.EndTime != nil {
		if validClockTime(*req.EndTime) {
			session.Draft.EndTime = *req.EndTime
		} else {
			fieldErrors["end_time"] = "must be HH:MM"
		}
	}
	if req.Status != nil {
		status := models.EventStatus(*req.Status)
		if status.Valid() {
			session.Draft.Status = status
		} else {
			fieldErrors["status"] = "unknown status"
		}
	}
	if req.Notes != nil {
		session.Draft.Notes = *req.Notes
	}

	for sceneID, raw := range req.SceneDurations {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			fieldErrors["scene_durations."+sceneID] = "must be a non-negative number"
			continue
		}
		applied := false
		for i := range session.Draft.Scenes {
			if session.Draft.Scenes[i].ID == sceneID {
				session.Draft.Scenes[i].EstimatedDuration = value
				applied = true
				break
			}
		}
		if !applied {
			fieldErrors["scene_durations."+sceneID] = "scene not in this event"
		}
	}

	s.store.Replace(session)

	resp := &dto.EditSessionResponse{Draft: session.Draft}
	if len(fieldErrors) > 0 {
		resp.FieldErrors = fieldErrors
	}
	return resp, nil
}

// Save commits the draft back to the shared collection by full
// replacement keyed on id, then closes the session.
func (s *EditorService) Save(ctx context.Context, eventID string) (*models.ScheduleEvent, error) {
	session, ok := s.store.Get(eventID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no active edit session for this event")
	}

	committed := session.Draft.Clone()
	if err := s.events.Update(ctx, &committed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule event")
	}

	s.store.Delete(eventID)

	if s.cache != nil {
		if err := s.cache.InvalidatePrefix(ctx, scheduleCachePrefix); err != nil {
			s.logger.Warn("failed to invalidate schedule cache", zap.Error(err))
		}
	}

	s.logger.Info("schedule event saved", zap.String("event_id", eventID))
	return &committed, nil
}

// Cancel discards the draft; the shared collection is untouched.
func (s *EditorService) Cancel(eventID string) error {
	if _, ok := s.store.Get(eventID); !ok {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "no active edit session for this event")
	}
	s.store.Delete(eventID)
	return nil
}

func validClockTime(raw string) bool {
	if len(raw) != 5 || raw[2] != ':' {
		return false
	}
	hour, err := strconv.Atoi(raw[:2])
	if err != nil || hour < 0 || hour > 23 {
		return false
	}
	minute, err := strconv.Atoi(raw[3:])
	if err != nil || minute < 0 || minute > 59 {
		return false
	}
	return true
}

// --- Edit session store ---

type editSession struct {
	EventID   string
	Draft     models.ScheduleEvent
	StartedAt time.Time
}

type editSessionStore struct {
	ttl     time.Duration
	mu      sync.RWMutex
	current *editSession
}

func newEditSessionStore(ttl time.Duration) *editSessionStore {
	return &editSessionStore{ttl: ttl}
}

// Replace installs the session, discarding any previous one.
func (s *editSessionStore) Replace(session editSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &session
}

func (s *editSessionStore) Get(eventID string) (editSession, bool) {
	s.mu.RLock()
	session := s.current
	s.mu.RUnlock()
	if session == nil || session.EventID != eventID {
		return editSession{}, false
	}
	if time.Since(session.StartedAt) > s.ttl {
		s.Delete(eventID)
		return editSession{}, false
	}
	copied := *session
	copied.Draft = session.Draft.Clone()
	return copied, true
}

func (s *editSessionStore) Delete(eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.EventID == eventID {
		s.current = nil
	}
}
