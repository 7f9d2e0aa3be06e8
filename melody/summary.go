package melody

import (
	"github.com/jsphweid/digiscore/model"
)

// Summarize describes doc the way the analyze command prints it.
func Summarize(doc *model.Document) model.Summary {
	res := model.Summary{
		Duration:     doc.EndTime(),
		InitialTempo: doc.InitialTempo(),
		HasTempo:     len(doc.Tempos) > 0,
		Tracks:       []model.TrackSummary{},
	}
	if len(doc.TimeSignatures) > 0 {
		ts := doc.TimeSignatures[0]
		res.TimeSignature = &ts
		if res.HasTempo && ts.Numerator > 0 {
			res.Bars = res.Duration * res.InitialTempo / 60 / float64(ts.Numerator)
		}
	}

	for i, t := range doc.Tracks {
		start, end := t.TimeRange()
		lo, hi := t.PitchRange()
		res.Tracks = append(res.Tracks, model.TrackSummary{
			Index:     i,
			Name:      t.Name,
			Program:   t.Program,
			IsDrum:    t.IsDrum,
			NoteCount: len(t.Notes),
			Start:     start,
			End:       end,
			LowPitch:  lo,
			HighPitch: hi,
		})
	}
	return res
}
