package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cineboard/cineboard-api/internal/dto"
	"github.com/cineboard/cineboard-api/internal/models"
	appErrors "github.com/cineboard/cineboard-api/pkg/errors"
)

const optimizerPath = "/api/ai/generate_gemini_schedule"

// Mapping defaults for optional day-plan fields. Every field gets an
// explicit fallback so no event ever leaves the adapter half-filled.
const (
	defaultSceneMinutes  = 60.0
	defaultCallTime      = "09:00"
	defaultWrapTime      = "18:00"
	unknownLocationLabel = "Unknown Location"
)

// OptimizedResult is the adapter's projection of a successful optimizer
// response into the domain.
type OptimizedResult struct {
	Events            []models.ScheduleEvent
	TotalShootingDays int
	Strategy          string
	Benefits          []string
	Warning           string
}

// OptimizerAdapterConfig points the adapter at the external service.
type OptimizerAdapterConfig struct {
	BaseURL string
	APIKey  string
}

// OptimizerAdapter issues the blocking optimizer call and maps its
// response into ScheduleEvents. Timeouts come from the injected HTTP
// client; the adapter itself enforces none and never retries.
type OptimizerAdapter struct {
	httpClient *http.Client
	logger     *zap.Logger
	cfg        OptimizerAdapterConfig
}

// NewOptimizerAdapter constructs the adapter.
func NewOptimizerAdapter(httpClient *http.Client, logger *zap.Logger, cfg OptimizerAdapterConfig) *OptimizerAdapter {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OptimizerAdapter{httpClient: httpClient, logger: logger, cfg: cfg}
}

// RequestOptimizedSchedule posts the constraints payload and maps the
// optimizer's plan. Errors follow the transport / format / service
// taxonomy; none of them fall back to the local heuristic.
func (a *OptimizerAdapter) RequestOptimizedSchedule(ctx context.Context, req dto.OptimizeScheduleRequest, scenes []models.Scene) (*OptimizedResult, error) {
	payload, err := json.Marshal(buildConstraintsPayload(req))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode constraints payload")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL+optimizerPath, bytes.NewReader(payload))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build optimizer request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if a.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "optimizer request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "failed to read optimizer response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		a.logger.Warn("optimizer returned non-2xx",
			zap.Int("status", resp.StatusCode),
			zap.Int("body_bytes", len(body)),
		)
		return nil, appErrors.Clone(appErrors.ErrNetwork, fmt.Sprintf("optimizer returned HTTP %d", resp.StatusCode))
	}

	var parsed models.OptimizerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataFormat.Code, appErrors.ErrDataFormat.Status, "optimizer response is not valid JSON")
	}

	return a.mapResponse(parsed, scenes)
}

// mapResponse is pure: given the same parsed response and catalog, it
// always produces the same result apart from generated event ids.
func (a *OptimizerAdapter) mapResponse(parsed models.OptimizerResponse, scenes []models.Scene) (*OptimizedResult, error) {
	switch parsed.Status {
	case "success", "warning":
	default:
		message := parsed.Message
		if message == "" {
			message = fmt.Sprintf("optimizer reported status %q", parsed.Status)
		}
		return nil, appErrors.Clone(appErrors.ErrService, message)
	}

	if parsed.ScheduleData == nil || parsed.ScheduleData.DailySchedules == nil {
		return nil, appErrors.Clone(appErrors.ErrDataFormat, "optimizer response missing schedule_data.daily_schedules")
	}

	catalog := indexScenesByNumber(scenes)
	startDate := time.Now().UTC().AddDate(0, 0, 1)
	startDate = time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)

	events := make([]models.ScheduleEvent, 0, len(parsed.ScheduleData.DailySchedules))
	for i, plan := range parsed.ScheduleData.DailySchedules {
		events = append(events, mapDayPlan(plan, catalog, startDate.AddDate(0, 0, i)))
	}

	result := &OptimizedResult{
		Events:            events,
		TotalShootingDays: parsed.ScheduleData.TotalShootingDays,
		Strategy:          parsed.ScheduleData.SchedulingStrategy,
		Benefits:          parsed.ScheduleData.OptimizationBenefits,
	}
	if parsed.Status == "warning" {
		result.Warning = parsed.Message
		if result.Warning == "" {
			result.Warning = "optimizer reported a warning"
		}
	}
	return result, nil
}

// mapDayPlan converts one external day-plan into one ScheduleEvent.
func mapDayPlan(plan models.DailySchedule, catalog map[int]models.Scene, date time.Time) models.ScheduleEvent {
	if parsed, err := time.Parse("2006-01-02", plan.Date); err == nil {
		date = parsed
	}

	scenes := make(models.SceneList, 0, len(plan.Scenes))
	for _, entry := range plan.Scenes {
		scenes = append(scenes, mapOptimizedScene(entry, catalog))
	}

	event := models.ScheduleEvent{
		ID:        uuid.NewString(),
		Date:      date,
		StartTime: defaultCallTime,
		EndTime:   defaultWrapTime,
		Location:  plan.LocationFocus,
		Scenes:    scenes,
		Crew:      models.DefaultCrewRoster(),
		Status:    models.EventStatusScheduled,
	}

	if event.Location == "" {
		event.Location = unknownLocationLabel
	}
	if len(plan.Scenes) > 0 {
		if call := plan.Scenes[0].CallTime; call != "" {
			event.StartTime = call
		}
		if wrap := plan.Scenes[len(plan.Scenes)-1].EstimatedWrap; wrap != "" {
			event.EndTime = wrap
		}
	}
	if plan.DailySummary != nil && len(plan.DailySummary.PrimaryActors) > 0 {
		event.Cast = append(models.StringList(nil), plan.DailySummary.PrimaryActors...)
	} else {
		event.Cast = models.StringList{}
	}
	return event
}

// mapOptimizedScene reconstructs a Scene from a day-plan entry, filling
// every optional field with a documented default. A matching catalog
// scene (by number) keeps its identity so edits stay linked to the
// script breakdown.
func mapOptimizedScene(entry models.OptimizedScene, catalog map[int]models.Scene) models.Scene {
	minutes := entry.Minutes()
	if minutes <= 0 {
		minutes = defaultSceneMinutes
	}
	hours := math.Ceil(minutes / 60.0)

	scene := models.Scene{
		ID:                uuid.NewString(),
		Number:            entry.SceneNumber,
		Title:             entry.SceneTitle,
		Location:          entry.Location,
		EstimatedDuration: hours,
		Characters:        append(models.StringList(nil), entry.ActorsNeeded...),
		Props:             models.StringList{},
		Status:            models.SceneStatusScheduled,
	}

	if known, ok := catalog[entry.SceneNumber]; ok {
		scene.ID = known.ID
		scene.Description = known.Description
		scene.Props = append(models.StringList(nil), known.Props...)
		scene.VFX = known.VFX
		if scene.Title == "" {
			scene.Title = known.Title
		}
		if scene.Location == "" {
			scene.Location = known.Location
		}
		if len(scene.Characters) == 0 {
			scene.Characters = append(models.StringList(nil), known.Characters...)
		}
	}
	if scene.Location == "" {
		scene.Location = unknownLocationLabel
	}
	if scene.Title == "" {
		scene.Title = fmt.Sprintf("Scene %d", entry.SceneNumber)
	}
	return scene
}

func indexScenesByNumber(scenes []models.Scene) map[int]models.Scene {
	index := make(map[int]models.Scene, len(scenes))
	for _, scene := range scenes {
		index[scene.Number] = scene
	}
	return index
}

func buildConstraintsPayload(req dto.OptimizeScheduleRequest) map[string]any {
	actors := req.ActorConstraints
	if actors == nil {
		actors = map[string]dto.ActorConstraint{}
	}
	locations := req.LocationPreferences
	if locations == nil {
		locations = map[string]dto.LocationPreference{}
	}
	return map[string]any{
		"actor_constraints":    actors,
		"location_preferences": locations,
	}
}
