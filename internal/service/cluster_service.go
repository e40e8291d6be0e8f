package service

import (
	"math"
	"sort"

	"github.com/cineboard/cineboard-api/internal/models"
)

// workingHoursPerDay is the shoot-day capacity used when estimating how
// many days a location needs.
const workingHoursPerDay = 8.0

// Cluster groups scenes by location and orders the groups for shooting.
// Locations with more scenes come first so the schedule minimizes
// location changes; ties keep the order locations were first seen in the
// catalog. The function is pure and safe to recompute on every catalog
// change.
func Cluster(scenes []models.Scene) []models.LocationCluster {
	index := make(map[string]int, len(scenes))
	clusters := make([]models.LocationCluster, 0)

	for _, scene := range scenes {
		pos, ok := index[scene.Location]
		if !ok {
			pos = len(clusters)
			index[scene.Location] = pos
			clusters = append(clusters, models.LocationCluster{Location: scene.Location})
		}
		clusters[pos].Scenes = append(clusters[pos].Scenes, scene)
	}

	for i := range clusters {
		clusters[i].Priority = len(clusters[i].Scenes)
		clusters[i].EstimatedDays = estimateDays(clusters[i].TotalHours())
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Priority > clusters[j].Priority
	})

	return clusters
}

func estimateDays(totalHours float64) int {
	if totalHours <= 0 {
		return 0
	}
	return int(math.Ceil(totalHours / workingHoursPerDay))
}
