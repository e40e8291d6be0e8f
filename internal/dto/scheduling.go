package dto

import "github.com/cineboard/cineboard-api/internal/models"

// GenerateScheduleRequest kicks off the local shoot-day heuristic.
// Scheduling starts the day after StartDate.
type GenerateScheduleRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
}

// ActorConstraint carries per-actor availability hints for the optimizer.
// The shape is open: unknown keys pass through the mapping untouched.
type ActorConstraint struct {
	MaxConsecutiveDays int            `json:"max_consecutive_days,omitempty"`
	PreferredCallTimes []string       `json:"preferred_call_times,omitempty"`
	AvailableDays      []string       `json:"available_days,omitempty"`
	Extra              map[string]any `json:"extra,omitempty"`
}

// LocationPreference carries per-location setup hints for the optimizer.
type LocationPreference struct {
	SetupTimeHours   float64        `json:"setup_time_hours,omitempty"`
	WeatherDependent bool           `json:"weather_dependent,omitempty"`
	Extra            map[string]any `json:"extra,omitempty"`
}

// OptimizeScheduleRequest asks the remote optimizer for a plan.
type OptimizeScheduleRequest struct {
	ActorConstraints    map[string]ActorConstraint    `json:"actor_constraints"`
	LocationPreferences map[string]LocationPreference `json:"location_preferences"`
}

// ScheduleResponse returns the regenerated event collection plus any
// optimizer metadata worth surfacing to the dashboard.
type ScheduleResponse struct {
	Events            []models.ScheduleEvent `json:"events"`
	TotalShootingDays int                    `json:"total_shooting_days"`
	Strategy          string                 `json:"strategy,omitempty"`
	Benefits          []string               `json:"benefits,omitempty"`
}

// ClusterBreakdownResponse exposes the location clusters backing the
// scheduling page's location summary.
type ClusterBreakdownResponse struct {
	Clusters           []models.LocationCluster `json:"clusters"`
	TotalScenes        int                      `json:"total_scenes"`
	TotalEstimatedDays int                      `json:"total_estimated_days"`
}
