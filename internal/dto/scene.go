package dto

// SceneInput is one scene in a catalog import. The script-management
// subsystem owns scene authoring; this service only ingests the catalog.
type SceneInput struct {
	Number            int      `json:"number" validate:"required,min=1"`
	Title             string   `json:"title" validate:"required"`
	Description       string   `json:"description"`
	Location          string   `json:"location" validate:"required"`
	EstimatedDuration float64  `json:"estimated_duration" validate:"min=0"`
	Characters        []string `json:"characters"`
	Props             []string `json:"props"`
	VFX               bool     `json:"vfx"`
}

// ImportScenesRequest replaces or extends the scene catalog.
type ImportScenesRequest struct {
	Scenes []SceneInput `json:"scenes" validate:"required,min=1,dive"`
}

// UpdateSceneStatusRequest moves a scene through the pipeline.
type UpdateSceneStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
