package models

// LocationCluster groups scenes sharing a location for scheduling
// efficiency. Clusters are derived from the scene catalog on demand and
// never persisted or mutated in place.
type LocationCluster struct {
	Location      string  `json:"location"`
	Scenes        []Scene `json:"scenes"`
	EstimatedDays int     `json:"estimated_days"`
	Priority      int     `json:"priority"`
}

// TotalHours sums the estimated durations of the cluster's scenes.
func (c LocationCluster) TotalHours() float64 {
	var total float64
	for _, scene := range c.Scenes {
		total += scene.EstimatedDuration
	}
	return total
}
