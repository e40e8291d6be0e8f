package models

// Shapes returned by the external schedule optimizer. These are consumed,
// not owned: the adapter validates them structurally before anything is
// projected into ScheduleEvents.

// OptimizerResponse is the top-level body of the optimizer endpoint.
type OptimizerResponse struct {
	Status       string             `json:"status"`
	Message      string             `json:"message,omitempty"`
	ScheduleData *OptimizedSchedule `json:"schedule_data,omitempty"`
}

// OptimizedSchedule is the optimizer's full plan.
type OptimizedSchedule struct {
	SchedulingStrategy   string                    `json:"scheduling_strategy"`
	TotalShootingDays    int                       `json:"total_shooting_days"`
	DailySchedules       []DailySchedule           `json:"daily_schedules"`
	ActorSchedules       map[string]ActorSchedule  `json:"actor_schedules"`
	LocationSchedule     map[string]LocationPlan   `json:"location_schedule"`
	OptimizationBenefits []string                  `json:"optimization_benefits"`
}

// DailySchedule is one day-plan in the optimizer response.
type DailySchedule struct {
	Day           int              `json:"day"`
	Date          string           `json:"date"`
	LocationFocus string           `json:"location_focus"`
	Scenes        []OptimizedScene `json:"scenes"`
	DailySummary  *DailySummary    `json:"daily_summary,omitempty"`
}

// OptimizedScene is a scene entry inside a day-plan. Both duration keys
// are accepted because the optimizer has emitted either over time.
type OptimizedScene struct {
	SceneNumber              int      `json:"scene_number"`
	SceneTitle               string   `json:"scene_title"`
	Location                 string   `json:"location"`
	TimeOfDay                string   `json:"time_of_day"`
	DurationMinutes          float64  `json:"duration"`
	EstimatedDurationMinutes float64  `json:"estimated_duration_minutes"`
	ActorsNeeded             []string `json:"actors_needed"`
	ExtrasNeeded             []string `json:"extras_needed"`
	CallTime                 string   `json:"call_time"`
	EstimatedWrap            string   `json:"estimated_wrap"`
	SetupNotes               string   `json:"setup_notes"`
}

// Minutes returns the declared duration, preferring the short key.
func (s OptimizedScene) Minutes() float64 {
	if s.DurationMinutes > 0 {
		return s.DurationMinutes
	}
	return s.EstimatedDurationMinutes
}

// DailySummary aggregates a day-plan.
type DailySummary struct {
	TotalScenes          int      `json:"total_scenes"`
	TotalDurationMinutes float64  `json:"total_duration_minutes"`
	PrimaryActors        []string `json:"primary_actors"`
	LocationChanges      int      `json:"location_changes"`
	SpecialRequirements  []string `json:"special_requirements"`
}

// ActorSchedule summarises an actor's working days.
type ActorSchedule struct {
	TotalWorkingDays int    `json:"total_working_days"`
	Scenes           []int  `json:"scenes"`
	ScheduleNotes    string `json:"schedule_notes"`
}

// LocationPlan summarises the optimizer's plan for one location.
type LocationPlan struct {
	DaysNeeded        []int  `json:"days_needed"`
	TotalScenes       int    `json:"total_scenes"`
	SetupRequirements string `json:"setup_requirements"`
}
