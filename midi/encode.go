package midi

import (
	"sort"

	"github.com/jsphweid/digiscore/constants"
	"github.com/jsphweid/digiscore/model"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// order of events sharing a tick
const (
	priorityMeta = iota
	priorityProgram
	priorityControl
	priorityBend
	priorityNoteOff
	priorityNoteOn
)

type timedEvent struct {
	tick     int64
	priority int
	msg      smf.Message
}

func channelsForTracks(tracks []model.Track) []uint8 {
	var melodic []uint8
	for ch := uint8(0); ch < 16; ch++ {
		if ch != constants.DrumChannel {
			melodic = append(melodic, ch)
		}
	}

	res := make([]uint8, len(tracks))
	next := 0
	for i, t := range tracks {
		if t.IsDrum {
			res[i] = constants.DrumChannel
			continue
		}
		res[i] = melodic[next%len(melodic)]
		next++
	}
	return res
}

func toTrack(events []timedEvent) smf.Track {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].priority < events[j].priority
	})

	var track smf.Track
	var last int64
	for _, e := range events {
		track = append(track, smf.Event{Delta: uint32(e.tick - last), Message: e.msg})
		last = e.tick
	}
	track.Close(0)
	return track
}

func conductorTrack(doc *model.Document, tempos *tempoMap) smf.Track {
	var events []timedEvent
	for _, p := range tempos.points {
		events = append(events, timedEvent{tick: p.tick, priority: priorityMeta, msg: smf.MetaTempo(p.bpm)})
	}
	for _, ts := range doc.TimeSignatures {
		events = append(events, timedEvent{
			tick:     tempos.Ticks(ts.Time),
			priority: priorityMeta,
			msg:      smf.MetaTimeSig(ts.Numerator, ts.Denominator, 24, 8),
		})
	}
	return toTrack(events)
}

func instrumentTrack(t model.Track, channel uint8, tempos *tempoMap) smf.Track {
	events := []timedEvent{
		{priority: priorityMeta, msg: smf.MetaTrackSequenceName(t.Name)},
	}
	if !t.IsDrum {
		events = append(events, timedEvent{
			priority: priorityProgram,
			msg:      smf.Message(gomidi.ProgramChange(channel, t.Program)),
		})
	}
	for _, cc := range t.ControlChanges {
		events = append(events, timedEvent{
			tick:     tempos.Ticks(cc.Time),
			priority: priorityControl,
			msg:      smf.Message(gomidi.ControlChange(channel, cc.Number, cc.Value)),
		})
	}
	for _, b := range t.PitchBends {
		events = append(events, timedEvent{
			tick:     tempos.Ticks(b.Time),
			priority: priorityBend,
			msg:      smf.Message(gomidi.Pitchbend(channel, b.Pitch)),
		})
	}
	for _, n := range t.Notes {
		start := tempos.Ticks(n.Start)
		end := tempos.Ticks(n.End)
		if end <= start {
			end = start + 1
		}
		events = append(events,
			timedEvent{tick: start, priority: priorityNoteOn, msg: smf.Message(gomidi.NoteOn(channel, n.Pitch, n.Velocity))},
			timedEvent{tick: end, priority: priorityNoteOff, msg: smf.Message(gomidi.NoteOff(channel, n.Pitch))},
		)
	}
	return toTrack(events)
}

// Encode renders doc as a format 1 SMF: a conductor track followed by one track per model Track.
func Encode(doc *model.Document) (*smf.SMF, error) {
	resolution := doc.Resolution
	if resolution == 0 {
		resolution = constants.DefaultResolution
	}
	tempos := newTempoMapFromSeconds(resolution, doc.Tempos)

	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(resolution)
	if err := s.Add(conductorTrack(doc, tempos)); err != nil {
		return nil, errors.Wrap(err, "adding conductor track")
	}

	channels := channelsForTracks(doc.Tracks)
	for i, t := range doc.Tracks {
		if err := s.Add(instrumentTrack(t, channels[i], tempos)); err != nil {
			return nil, errors.Wrapf(err, "adding track %d", i)
		}
	}
	return s, nil
}
