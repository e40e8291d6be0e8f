package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineboard/cineboard-api/internal/dto"
	"github.com/cineboard/cineboard-api/internal/models"
	appErrors "github.com/cineboard/cineboard-api/pkg/errors"
)

func newOptimizerTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ai/generate_gemini_schedule", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Contains(t, payload, "actor_constraints")
		assert.Contains(t, payload, "location_preferences")

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestAdapter(baseURL string) *OptimizerAdapter {
	return NewOptimizerAdapter(nil, nil, OptimizerAdapterConfig{BaseURL: baseURL})
}

func TestRequestOptimizedScheduleSuccess(t *testing.T) {
	body := `{
		"status": "success",
		"schedule_data": {
			"daily_schedules": [{
				"day": 1,
				"date": "2026-03-02",
				"location_focus": "Warehouse",
				"scenes": [{
					"scene_number": 7,
					"scene_title": "Break In",
					"location": "Warehouse",
					"duration": 90,
					"call_time": "07:30",
					"estimated_wrap": "12:00",
					"actors_needed": ["Ana"]
				}],
				"daily_summary": {"primary_actors": ["Ana", "Ben"]}
			}],
			"total_shooting_days": 1,
			"scheduling_strategy": "location-first",
			"optimization_benefits": ["fewer moves"]
		}
	}`
	server := newOptimizerTestServer(t, http.StatusOK, body)
	adapter := newTestAdapter(server.URL)

	catalog := []models.Scene{{
		ID:          "scene-7",
		Number:      7,
		Title:       "Break In",
		Description: "Night entry through the loading dock",
		Location:    "Warehouse",
		Props:       models.StringList{"crowbar"},
		VFX:         true,
	}}

	result, err := adapter.RequestOptimizedSchedule(context.Background(), dto.OptimizeScheduleRequest{}, catalog)

	require.NoError(t, err)
	assert.Empty(t, result.Warning)
	assert.Equal(t, 1, result.TotalShootingDays)
	assert.Equal(t, "location-first", result.Strategy)
	assert.Equal(t, []string{"fewer moves"}, result.Benefits)

	require.Len(t, result.Events, 1)
	event := result.Events[0]
	assert.Equal(t, "Warehouse", event.Location)
	assert.Equal(t, "07:30", event.StartTime)
	assert.Equal(t, "12:00", event.EndTime)
	assert.Equal(t, "2026-03-02", event.Date.Format("2006-01-02"))
	assert.Equal(t, models.StringList{"Ana", "Ben"}, event.Cast)

	require.Len(t, event.Scenes, 1)
	mapped := event.Scenes[0]
	// 90 minutes rounds up to 2 hours.
	assert.Equal(t, 2.0, mapped.EstimatedDuration)
	// Catalog identity survives the round trip.
	assert.Equal(t, "scene-7", mapped.ID)
	assert.Equal(t, "Night entry through the loading dock", mapped.Description)
	assert.True(t, mapped.VFX)
	assert.Equal(t, models.StringList{"crowbar"}, mapped.Props)
}

func TestRequestOptimizedScheduleDefaults(t *testing.T) {
	body := `{
		"status": "success",
		"schedule_data": {
			"daily_schedules": [{
				"day": 1,
				"scenes": [{"scene_number": 99}]
			}]
		}
	}`
	server := newOptimizerTestServer(t, http.StatusOK, body)
	adapter := newTestAdapter(server.URL)

	result, err := adapter.RequestOptimizedSchedule(context.Background(), dto.OptimizeScheduleRequest{}, nil)

	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	event := result.Events[0]
	assert.Equal(t, "Unknown Location", event.Location)
	assert.Equal(t, "09:00", event.StartTime)
	assert.Equal(t, "18:00", event.EndTime)
	assert.Empty(t, event.Cast)

	require.Len(t, event.Scenes, 1)
	mapped := event.Scenes[0]
	assert.Equal(t, "Scene 99", mapped.Title)
	assert.Equal(t, "Unknown Location", mapped.Location)
	assert.Equal(t, 1.0, mapped.EstimatedDuration) // 60 minute default
}

func TestRequestOptimizedScheduleWarning(t *testing.T) {
	body := `{
		"status": "warning",
		"message": "two constraints could not be honored",
		"schedule_data": {"daily_schedules": []}
	}`
	server := newOptimizerTestServer(t, http.StatusOK, body)
	adapter := newTestAdapter(server.URL)

	result, err := adapter.RequestOptimizedSchedule(context.Background(), dto.OptimizeScheduleRequest{}, nil)

	require.NoError(t, err)
	assert.Equal(t, "two constraints could not be honored", result.Warning)
	assert.Empty(t, result.Events)
}

func TestRequestOptimizedScheduleServiceError(t *testing.T) {
	body := `{"status": "error", "message": "no actors available"}`
	server := newOptimizerTestServer(t, http.StatusOK, body)
	adapter := newTestAdapter(server.URL)

	_, err := adapter.RequestOptimizedSchedule(context.Background(), dto.OptimizeScheduleRequest{}, nil)

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrService.Code, appErr.Code)
	assert.Equal(t, "no actors available", appErr.Message)
}

func TestRequestOptimizedScheduleMissingScheduleData(t *testing.T) {
	server := newOptimizerTestServer(t, http.StatusOK, `{"status": "success"}`)
	adapter := newTestAdapter(server.URL)

	_, err := adapter.RequestOptimizedSchedule(context.Background(), dto.OptimizeScheduleRequest{}, nil)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDataFormat.Code, appErrors.FromError(err).Code)
}

func TestRequestOptimizedScheduleMalformedJSON(t *testing.T) {
	server := newOptimizerTestServer(t, http.StatusOK, `{"status":`)
	adapter := newTestAdapter(server.URL)

	_, err := adapter.RequestOptimizedSchedule(context.Background(), dto.OptimizeScheduleRequest{}, nil)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDataFormat.Code, appErrors.FromError(err).Code)
}

func TestRequestOptimizedScheduleHTTPFailure(t *testing.T) {
	server := newOptimizerTestServer(t, http.StatusBadGateway, `upstream unavailable`)
	adapter := newTestAdapter(server.URL)

	_, err := adapter.RequestOptimizedSchedule(context.Background(), dto.OptimizeScheduleRequest{}, nil)

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNetwork.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "502")
}

func TestRequestOptimizedScheduleConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	adapter := newTestAdapter(server.URL)

	_, err := adapter.RequestOptimizedSchedule(context.Background(), dto.OptimizeScheduleRequest{}, nil)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNetwork.Code, appErrors.FromError(err).Code)
}
