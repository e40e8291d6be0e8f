package dto

import "github.com/cineboard/cineboard-api/internal/models"

// UpdateDraftRequest mutates the in-progress edit copy of an event.
// Pointer fields distinguish "leave alone" from "set to empty". Scene
// durations arrive as strings because the dashboard sends raw input;
// values that fail numeric coercion are rejected per field while the
// rest of the update still applies.
type UpdateDraftRequest struct {
	Location       *string           `json:"location,omitempty"`
	StartTime      *string           `json:"start_time,omitempty" validate:"omitempty,len=5"`
	EndTime        *string           `json:"end_time,omitempty" validate:"omitempty,len=5"`
	Status         *string           `json:"status,omitempty"`
	Notes          *string           `json:"notes,omitempty"`
	SceneDurations map[string]string `json:"scene_durations,omitempty"`
}

// EditSessionResponse returns the current draft plus any per-field
// coercion failures from the latest update.
type EditSessionResponse struct {
	Draft       models.ScheduleEvent `json:"draft"`
	FieldErrors map[string]string    `json:"field_errors,omitempty"`
}
