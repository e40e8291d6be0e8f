package dto

import "time"

// CallSheetResponse points the dashboard at a generated document.
type CallSheetResponse struct {
	EventID       string    `json:"event_id"`
	Format        string    `json:"format"`
	FileName      string    `json:"file_name"`
	DownloadToken string    `json:"download_token"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// BatchExportResponse acknowledges a queued batch export.
type BatchExportResponse struct {
	Queued int    `json:"queued"`
	Format string `json:"format"`
}
