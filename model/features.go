package model

type TrackFeatures struct {
	Index          int     `json:"index"`
	Name           string  `json:"name"`
	Program        uint8   `json:"program"`
	NoteCount      int     `json:"note_count"`
	NoteDensity    float64 `json:"note_density"`
	AvgPitch       float64 `json:"avg_pitch"`
	AvgPitchChange float64 `json:"avg_pitch_change"`
	NameScore      float64 `json:"name_score"`

	// NOTE: only meaningful after scoring
	DensityScore float64 `json:"density_score"`
	PitchScore   float64 `json:"pitch_score"`
	ChangeScore  float64 `json:"change_score"`
	MelodyScore  float64 `json:"melody_score"`
}
