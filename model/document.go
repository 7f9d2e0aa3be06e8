package model

import "math"

const DefaultTempo = 120.0

type Note struct {
	Pitch    uint8   `json:"pitch"`
	Velocity uint8   `json:"velocity"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
}

func (n Note) Duration() float64 {
	return n.End - n.Start
}

type PitchBend struct {
	Pitch int16   `json:"pitch"`
	Time  float64 `json:"time"`
}

type ControlChange struct {
	Number uint8   `json:"number"`
	Value  uint8   `json:"value"`
	Time   float64 `json:"time"`
}

type Track struct {
	Name           string          `json:"name"`
	Program        uint8           `json:"program"`
	IsDrum         bool            `json:"is_drum"`
	Notes          []Note          `json:"notes"`
	PitchBends     []PitchBend     `json:"pitch_bends,omitempty"`
	ControlChanges []ControlChange `json:"control_changes,omitempty"`
}

// TimeRange returns the earliest start and latest end over the track's notes.
func (t Track) TimeRange() (float64, float64) {
	if len(t.Notes) == 0 {
		return 0, 0
	}
	first, last := math.Inf(1), math.Inf(-1)
	for _, n := range t.Notes {
		first = math.Min(first, n.Start)
		last = math.Max(last, n.End)
	}
	return first, last
}

func (t Track) PitchRange() (uint8, uint8) {
	if len(t.Notes) == 0 {
		return 0, 0
	}
	lo, hi := t.Notes[0].Pitch, t.Notes[0].Pitch
	for _, n := range t.Notes[1:] {
		if n.Pitch < lo {
			lo = n.Pitch
		}
		if n.Pitch > hi {
			hi = n.Pitch
		}
	}
	return lo, hi
}

type TempoChange struct {
	Time float64 `json:"time"`
	BPM  float64 `json:"bpm"`
}

type TimeSignature struct {
	Numerator   uint8   `json:"numerator"`
	Denominator uint8   `json:"denominator"`
	Time        float64 `json:"time"`
}

// Document is a decoded MIDI file with every time expressed in seconds.
type Document struct {
	Resolution     uint16          `json:"resolution"`
	Tempos         []TempoChange   `json:"tempos"`
	TimeSignatures []TimeSignature `json:"time_signatures,omitempty"`
	Tracks         []Track         `json:"tracks"`
}

// EndTime is the time of the latest event in the document, 0 when it has none.
func (d *Document) EndTime() float64 {
	var end float64
	for _, tc := range d.Tempos {
		end = math.Max(end, tc.Time)
	}
	for _, ts := range d.TimeSignatures {
		end = math.Max(end, ts.Time)
	}
	for _, t := range d.Tracks {
		for _, n := range t.Notes {
			end = math.Max(end, n.End)
		}
		for _, b := range t.PitchBends {
			end = math.Max(end, b.Time)
		}
		for _, cc := range t.ControlChanges {
			end = math.Max(end, cc.Time)
		}
	}
	return end
}

func (d *Document) InitialTempo() float64 {
	if len(d.Tempos) > 0 {
		return d.Tempos[0].BPM
	}
	return DefaultTempo
}
