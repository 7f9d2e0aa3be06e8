package melody

import (
	"github.com/jsphweid/digiscore/constants"
	"github.com/jsphweid/digiscore/midi"
	"github.com/jsphweid/digiscore/model"
	"github.com/pkg/errors"
)

var ErrNoCandidateTrack = errors.New("no melody candidate track")

// Rank scores every candidate track of doc, best first.
func Rank(doc *model.Document, cfg Config) []model.TrackFeatures {
	return Score(AllFeatures(doc, cfg), cfg)
}

func Identify(doc *model.Document, cfg Config) (model.TrackFeatures, error) {
	ranked := Rank(doc, cfg)
	if len(ranked) == 0 {
		return model.TrackFeatures{}, ErrNoCandidateTrack
	}
	return ranked[0], nil
}

// Extract builds a one-track document holding a copy of the melody track.
func Extract(doc *model.Document, cfg Config) (*model.Document, error) {
	winner, err := Identify(doc, cfg)
	if err != nil {
		return nil, err
	}
	source := doc.Tracks[winner.Index]

	notes := make([]model.Note, len(source.Notes))
	copy(notes, source.Notes)

	return &model.Document{
		Resolution: doc.Resolution,
		Tempos:     []model.TempoChange{{Time: 0, BPM: doc.InitialTempo()}},
		Tracks: []model.Track{{
			Name:    constants.MelodyTrackName,
			Program: source.Program,
			IsDrum:  false,
			Notes:   notes,
		}},
	}, nil
}

// ExtractFile writes the melody of in to out. Nothing is written on failure.
func ExtractFile(in, out string, cfg Config) error {
	doc, err := midi.Load(in)
	if err != nil {
		return err
	}
	res, err := Extract(doc, cfg)
	if err != nil {
		return errors.Wrap(err, in)
	}
	return midi.WriteMidiFile(res, out)
}
