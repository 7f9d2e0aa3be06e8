package midi

import (
	"github.com/jsphweid/digiscore/constants"
	"github.com/jsphweid/digiscore/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

type noteKey struct {
	channel uint8
	key     uint8
}

type tickSignature struct {
	tick       int64
	num, denom uint8
}

type openNote struct {
	tick     int64
	velocity uint8
}

// trackBuilder collects one SMF track's events split per channel.
type trackBuilder struct {
	name     string
	order    []uint8
	channels map[uint8]*model.Track
	programs map[uint8]uint8
	open     map[noteKey][]openNote
	tempos   *tempoMap
	absTicks int64
}

func newTrackBuilder(tempos *tempoMap) *trackBuilder {
	return &trackBuilder{
		channels: make(map[uint8]*model.Track),
		programs: make(map[uint8]uint8),
		open:     make(map[noteKey][]openNote),
		tempos:   tempos,
	}
}

func (b *trackBuilder) track(channel uint8) *model.Track {
	t, ok := b.channels[channel]
	if !ok {
		t = &model.Track{
			Program: b.programs[channel],
			IsDrum:  channel == constants.DrumChannel,
		}
		b.channels[channel] = t
		b.order = append(b.order, channel)
	}
	return t
}

func (b *trackBuilder) handle(msg smf.Message) {
	var channel, key, velocity, program, controller, value uint8
	var relative int16
	var absolute uint16
	var text string
	now := b.tempos.Seconds(b.absTicks)

	switch {
	case msg.GetMetaTrackName(&text):
		if b.name == "" {
			b.name = text
		}
	case msg.GetProgramChange(&channel, &program):
		b.programs[channel] = program
		if t, ok := b.channels[channel]; ok && len(t.Notes) == 0 {
			t.Program = program
		}
	case msg.GetNoteStart(&channel, &key, &velocity):
		b.track(channel)
		k := noteKey{channel, key}
		b.open[k] = append(b.open[k], openNote{tick: b.absTicks, velocity: velocity})
	case msg.GetNoteEnd(&channel, &key):
		k := noteKey{channel, key}
		pending := b.open[k]
		if len(pending) == 0 {
			return
		}
		on := pending[0]
		b.open[k] = pending[1:]
		if b.absTicks <= on.tick {
			return
		}
		t := b.track(channel)
		t.Notes = append(t.Notes, model.Note{
			Pitch:    key,
			Velocity: on.velocity,
			Start:    b.tempos.Seconds(on.tick),
			End:      now,
		})
	case msg.GetControlChange(&channel, &controller, &value):
		t := b.track(channel)
		t.ControlChanges = append(t.ControlChanges, model.ControlChange{Number: controller, Value: value, Time: now})
	case msg.GetPitchBend(&channel, &relative, &absolute):
		t := b.track(channel)
		t.PitchBends = append(t.PitchBends, model.PitchBend{Pitch: relative, Time: now})
	}
}

func (b *trackBuilder) tracks() []model.Track {
	var res []model.Track
	for _, channel := range b.order {
		t := b.channels[channel]
		t.Name = b.name
		res = append(res, *t)
	}
	return res
}

// Decode builds a Document from a parsed SMF, one Track per (SMF track, channel).
func Decode(s *smf.SMF) (*model.Document, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || ticks == 0 {
		return nil, ErrUnsupportedTimeFormat
	}
	resolution := uint16(ticks)

	var tickTempos []tickTempo
	var signatures []tickSignature
	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var bpm float64
			var num, denom, clocks, demisemiquavers uint8
			switch {
			case event.Message.GetMetaTempo(&bpm):
				tickTempos = append(tickTempos, tickTempo{tick: absTicks, bpm: bpm})
			case event.Message.GetMetaTimeSig(&num, &denom, &clocks, &demisemiquavers):
				signatures = append(signatures, tickSignature{absTicks, num, denom})
			}
		}
	}
	tempos := newTempoMapFromTicks(resolution, tickTempos)

	doc := &model.Document{Resolution: resolution}
	if len(tickTempos) > 0 {
		for _, p := range tempos.points {
			doc.Tempos = append(doc.Tempos, model.TempoChange{Time: p.seconds, BPM: p.bpm})
		}
	}
	for _, sig := range signatures {
		doc.TimeSignatures = append(doc.TimeSignatures, model.TimeSignature{
			Numerator:   sig.num,
			Denominator: sig.denom,
			Time:        tempos.Seconds(sig.tick),
		})
	}

	for _, track := range s.Tracks {
		b := newTrackBuilder(tempos)
		for _, event := range track {
			b.absTicks += int64(event.Delta)
			b.handle(event.Message)
		}
		doc.Tracks = append(doc.Tracks, b.tracks()...)
	}
	return doc, nil
}
