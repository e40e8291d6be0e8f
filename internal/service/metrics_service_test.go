package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineboard/cineboard-api/internal/dto"
	"github.com/cineboard/cineboard-api/internal/models"
	"github.com/cineboard/cineboard-api/pkg/storage"
)

// warmCache always answers with a cached (empty) event collection.
type warmCache struct {
	stubCache
}

func (c *warmCache) Get(ctx context.Context, key string, dest interface{}) error {
	if events, ok := dest.(*[]models.ScheduleEvent); ok {
		*events = []models.ScheduleEvent{}
	}
	return nil
}

func histogramSampleCount(t *testing.T, m *MetricsService, name string) uint64 {
	t.Helper()
	families, err := m.registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == name {
			return family.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	return 0
}

func TestGenerateRecordsOutcome(t *testing.T) {
	m := NewMetricsService()
	events, _ := newTestEventStore(t, 1)
	scenes := &stubSceneReader{scenes: []models.Scene{scene(1, "Harbor", 2)}}
	svc := NewScheduleService(scenes, events, nil, nil, m, nil, nil, ScheduleServiceConfig{})

	_, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{StartDate: "2026-03-01"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("success")))

	scenes.scenes = nil
	_, err = svc.Generate(context.Background(), dto.GenerateScheduleRequest{StartDate: "2026-03-01"})
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("rejected")))
}

func TestOptimizeRecordsOutcome(t *testing.T) {
	m := NewMetricsService()
	events, _ := newTestEventStore(t, 1)
	scenes := &stubSceneReader{scenes: []models.Scene{scene(1, "Harbor", 2)}}
	optimizer := &stubOptimizer{err: assert.AnError}
	svc := NewScheduleService(scenes, events, nil, optimizer, m, nil, nil, ScheduleServiceConfig{})

	_, _, err := svc.Optimize(context.Background(), dto.OptimizeScheduleRequest{})
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.optimizerCalls.WithLabelValues("error")))

	optimizer.err = nil
	optimizer.result = &OptimizedResult{Warning: "partial constraint coverage"}
	_, warning, err := svc.Optimize(context.Background(), dto.OptimizeScheduleRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, warning)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.optimizerCalls.WithLabelValues("warning")))
}

func TestEventsRecordsCacheLookups(t *testing.T) {
	m := NewMetricsService()
	miss := NewScheduleService(&stubSceneReader{}, &stubEventStore{}, &stubCache{}, nil, m, nil, nil, ScheduleServiceConfig{})

	_, err := miss.Events(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMisses))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.cacheHits))

	hit := NewScheduleService(&stubSceneReader{}, &stubEventStore{}, &warmCache{}, nil, m, nil, nil, ScheduleServiceConfig{})

	_, err = hit.Events(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHits))
}

func TestRenderObservesExportDuration(t *testing.T) {
	m := NewMetricsService()
	event := callSheetEvent()
	events := &stubCallSheetEvents{event: event, events: []models.ScheduleEvent{*event}}
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	svc := NewCallSheetService(events, store, signer, m, nil, 1, CallSheetConfig{ProductionTitle: "Night Harbor"})

	_, err = svc.Generate(context.Background(), "evt-1", CallSheetFormatText)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), histogramSampleCount(t, m, "call_sheet_export_seconds"))
}
