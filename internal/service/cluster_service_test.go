package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineboard/cineboard-api/internal/models"
)

func scene(number int, location string, hours float64) models.Scene {
	return models.Scene{
		Number:            number,
		Title:             "Scene",
		Location:          location,
		EstimatedDuration: hours,
		Status:            models.SceneStatusScheduled,
	}
}

func TestClusterGroupsEveryScene(t *testing.T) {
	scenes := []models.Scene{
		scene(1, "Warehouse", 2),
		scene(2, "Rooftop", 3),
		scene(3, "Warehouse", 1),
		scene(4, "Diner", 4),
		scene(5, "Rooftop", 2),
	}

	clusters := Cluster(scenes)

	total := 0
	seen := make(map[int]bool)
	for _, cluster := range clusters {
		for _, s := range cluster.Scenes {
			assert.Equal(t, cluster.Location, s.Location)
			assert.False(t, seen[s.Number], "scene %d appears twice", s.Number)
			seen[s.Number] = true
			total++
		}
	}
	assert.Equal(t, len(scenes), total)
}

func TestClusterOrdersBySceneCount(t *testing.T) {
	scenes := []models.Scene{
		scene(1, "B", 2),
		scene(2, "A", 6),
		scene(3, "A", 4),
	}

	clusters := Cluster(scenes)

	require.Len(t, clusters, 2)
	assert.Equal(t, "A", clusters[0].Location)
	assert.Equal(t, 2, clusters[0].Priority)
	assert.Equal(t, 2, clusters[0].EstimatedDays) // 10h over 8h days
	assert.Equal(t, "B", clusters[1].Location)
	assert.Equal(t, 1, clusters[1].EstimatedDays)
}

func TestClusterTiesKeepFirstSeenOrder(t *testing.T) {
	scenes := []models.Scene{
		scene(1, "Harbor", 1),
		scene(2, "Forest", 1),
		scene(3, "Harbor", 1),
		scene(4, "Forest", 1),
	}

	clusters := Cluster(scenes)

	require.Len(t, clusters, 2)
	assert.Equal(t, "Harbor", clusters[0].Location)
	assert.Equal(t, "Forest", clusters[1].Location)
}

func TestClusterZeroDurationScenes(t *testing.T) {
	clusters := Cluster([]models.Scene{scene(1, "Void", 0)})

	require.Len(t, clusters, 1)
	assert.Equal(t, 0, clusters[0].EstimatedDays)
	assert.Equal(t, 1, clusters[0].Priority)
}

func TestClusterEmptyCatalog(t *testing.T) {
	assert.Empty(t, Cluster(nil))
}
