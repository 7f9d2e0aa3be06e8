package melody

import (
	"strings"

	"github.com/jsphweid/digiscore/model"
	"github.com/jsphweid/digiscore/util"
)

func nameScore(name string, cfg Config) float64 {
	lower := strings.ToLower(name)
	if lower == "" {
		return 0
	}
	for _, kw := range cfg.Keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return cfg.NameBonus
		}
	}
	return 0
}

// ExtractFeatures computes the raw features of one track. Empty and drum
// tracks are not candidates and yield false.
func ExtractFeatures(doc *model.Document, index int, cfg Config) (model.TrackFeatures, bool) {
	track := doc.Tracks[index]
	if len(track.Notes) == 0 || track.IsDrum {
		return model.TrackFeatures{}, false
	}

	pitches := make([]int, len(track.Notes))
	for i, n := range track.Notes {
		pitches[i] = int(n.Pitch)
	}
	changes := make([]int, 0, len(pitches))
	for i := 1; i < len(pitches); i++ {
		changes = append(changes, util.Abs(pitches[i]-pitches[i-1]))
	}

	var density float64
	if duration := doc.EndTime(); duration > 0 {
		density = float64(len(track.Notes)) / duration
	}

	return model.TrackFeatures{
		Index:          index,
		Name:           track.Name,
		Program:        track.Program,
		NoteCount:      len(track.Notes),
		NoteDensity:    density,
		AvgPitch:       util.Mean(pitches),
		AvgPitchChange: util.Mean(changes),
		NameScore:      nameScore(track.Name, cfg),
	}, true
}

func AllFeatures(doc *model.Document, cfg Config) []model.TrackFeatures {
	var res []model.TrackFeatures
	for i := range doc.Tracks {
		if f, ok := ExtractFeatures(doc, i, cfg); ok {
			res = append(res, f)
		}
	}
	return res
}
