package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cineboard/cineboard-api/internal/dto"
	"github.com/cineboard/cineboard-api/internal/models"
	appErrors "github.com/cineboard/cineboard-api/pkg/errors"
	"github.com/cineboard/cineboard-api/pkg/export"
	"github.com/cineboard/cineboard-api/pkg/jobs"
	"github.com/cineboard/cineboard-api/pkg/storage"
)

const (
	CallSheetFormatText = "text"
	CallSheetFormatPDF  = "pdf"
)

type callSheetEventReader interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleEvent, error)
	List(ctx context.Context) ([]models.ScheduleEvent, error)
}

// CallSheetConfig names the production on rendered sheets.
type CallSheetConfig struct {
	ProductionTitle string
}

// CallSheetService renders per-day call sheets and hands out signed
// download tokens. Batch exports run on the background queue so the
// request returns immediately.
type CallSheetService struct {
	events  callSheetEventReader
	text    *export.TextExporter
	pdf     *export.PDFExporter
	storage *storage.LocalStorage
	signer  *storage.SignedURLSigner
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
	cfg     CallSheetConfig
}

type batchExportPayload struct {
	EventID string
	Format  string
}

// NewCallSheetService wires the exporter dependencies.
func NewCallSheetService(
	events callSheetEventReader,
	store *storage.LocalStorage,
	signer *storage.SignedURLSigner,
	metrics *MetricsService,
	logger *zap.Logger,
	workers int,
	cfg CallSheetConfig,
) *CallSheetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &CallSheetService{
		events:  events,
		text:    export.NewTextExporter(),
		pdf:     export.NewPDFExporter(),
		storage: store,
		signer:  signer,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
	svc.queue = jobs.NewQueue("call-sheets", svc.handleBatchJob, jobs.QueueConfig{
		Workers: workers,
		Logger:  logger,
	})
	return svc
}

// Start begins background workers for batch exports.
func (s *CallSheetService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains background workers.
func (s *CallSheetService) Stop() {
	s.queue.Stop()
}

// Generate renders the call sheet for one event and stores it.
func (s *CallSheetService) Generate(ctx context.Context, eventID, format string) (*dto.CallSheetResponse, error) {
	if format == "" {
		format = CallSheetFormatText
	}
	if format != CallSheetFormatText && format != CallSheetFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be text or pdf")
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule event")
	}

	all, err := s.events.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule events")
	}

	fileName, err := s.render(*event, all, format)
	if err != nil {
		return nil, err
	}

	token, expires, err := s.signer.Generate(uuid.NewString(), fileName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download token")
	}

	return &dto.CallSheetResponse{
		EventID:       eventID,
		Format:        format,
		FileName:      fileName,
		DownloadToken: token,
		ExpiresAt:     expires,
	}, nil
}

// ExportAll queues a call sheet render for every shoot day.
func (s *CallSheetService) ExportAll(ctx context.Context, format string) (*dto.BatchExportResponse, error) {
	if format == "" {
		format = CallSheetFormatText
	}
	if format != CallSheetFormatText && format != CallSheetFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be text or pdf")
	}

	events, err := s.events.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule events")
	}
	for _, event := range events {
		job := jobs.Job{
			ID:      uuid.NewString(),
			Type:    "call_sheet_export",
			Payload: batchExportPayload{EventID: event.ID, Format: format},
		}
		if err := s.queue.Enqueue(job); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue call sheet export")
		}
	}
	return &dto.BatchExportResponse{Queued: len(events), Format: format}, nil
}

// Download validates a token and opens the referenced file. Expired
// tokens trigger lazy cleanup of the stale document.
func (s *CallSheetService) Download(token string) (*os.File, string, error) {
	_, relPath, expiresAt, err := s.signer.Parse(token, true)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid download token")
	}
	if time.Now().After(expiresAt) {
		if err := s.storage.Remove(relPath); err != nil {
			s.logger.Warn("failed to remove expired call sheet", zap.String("file", relPath), zap.Error(err))
		}
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "download token expired")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "call sheet no longer available")
	}
	return file, relPath, nil
}

func (s *CallSheetService) handleBatchJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(batchExportPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	event, err := s.events.FindByID(ctx, payload.EventID)
	if err != nil {
		return fmt.Errorf("load event %s: %w", payload.EventID, err)
	}
	all, err := s.events.List(ctx)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	if _, err := s.render(*event, all, payload.Format); err != nil {
		return fmt.Errorf("render call sheet for %s: %w", payload.EventID, err)
	}
	return nil
}

func (s *CallSheetService) render(event models.ScheduleEvent, all []models.ScheduleEvent, format string) (string, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveExport(time.Since(start))
	}()

	sheet := buildCallSheet(event, all, s.cfg.ProductionTitle)

	var (
		data []byte
		err  error
		ext  string
	)
	switch format {
	case CallSheetFormatPDF:
		data, err = s.pdf.Render(sheet)
		ext = "pdf"
	default:
		data, err = s.text.Render(sheet)
		ext = "txt"
	}
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render call sheet")
	}

	fileName := fmt.Sprintf("call_sheet_%s.%s", event.Date.Format("2006-01-02"), ext)
	if _, err := s.storage.Save(fileName, data); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store call sheet")
	}
	return fileName, nil
}

func buildCallSheet(event models.ScheduleEvent, all []models.ScheduleEvent, productionTitle string) export.CallSheet {
	sheet := export.CallSheet{
		ProductionTitle: productionTitle,
		Date:            event.Date,
		DayLabel:        ShootDayLabel(all, event.Date),
		Location:        event.Location,
		CallTime:        event.StartTime,
		WrapTime:        event.EndTime,
		Cast:            event.Cast,
		Crew:            event.Crew,
		Notes:           event.Notes,
	}
	for _, scene := range event.Scenes {
		sheet.Scenes = append(sheet.Scenes, export.CallSheetScene{
			Number:        scene.Number,
			Title:         scene.Title,
			DurationHours: scene.EstimatedDuration,
			Characters:    scene.Characters,
			VFX:           scene.VFX,
		})
	}
	return sheet
}
