package model

type TrackSummary struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	Program   uint8   `json:"program"`
	IsDrum    bool    `json:"is_drum"`
	NoteCount int     `json:"note_count"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	LowPitch  uint8   `json:"low_pitch"`
	HighPitch uint8   `json:"high_pitch"`
}

type Summary struct {
	Duration      float64        `json:"duration"`
	InitialTempo  float64        `json:"initial_tempo"`
	HasTempo      bool           `json:"has_tempo"`
	TimeSignature *TimeSignature `json:"time_signature,omitempty"`
	// 0 unless both a tempo and a time signature are declared
	Bars   float64        `json:"bars"`
	Tracks []TrackSummary `json:"tracks"`
}
