package model

type AnalyzeResponse struct {
	Summary Summary         `json:"summary"`
	Tracks  []TrackFeatures `json:"tracks"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
