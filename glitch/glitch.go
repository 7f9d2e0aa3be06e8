package glitch

import (
	"math/rand"

	"github.com/jsphweid/digiscore/midi"
	"github.com/jsphweid/digiscore/model"
	"github.com/pkg/errors"
)

var (
	durationFactors = []float64{0.25, 0.5, 1.5, 2.0}
	bendValues      = []int16{-8192, -6000, -4096, -2048, 0, 2048, 4096, 6000, 8191}
	controllers     = []uint8{1, 7, 10, 11, 71, 74, 91, 93, 94}
)

// all sound off .. poly on
const (
	firstAllOff = 120
	lastAllOff  = 126
)

type Config struct {
	DeleteProb   float64
	DurationProb float64
	ShiftProb    float64
	MaxShift     float64
	VelocityProb float64
	BendProb     float64
	ControlProb  float64
}

func DefaultConfig() Config {
	return Config{
		DeleteProb:   0.6,
		DurationProb: 0.4,
		ShiftProb:    0.3,
		MaxShift:     0.1,
		VelocityProb: 0.5,
		BendProb:     0.3,
		ControlProb:  0.3,
	}
}

type glitcher struct {
	rng *rand.Rand
	cfg Config
}

// between returns an int in [lo, hi]
func (g *glitcher) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *glitcher) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *glitcher) chance(p float64) bool {
	return g.rng.Float64() < p
}

func (g *glitcher) note(n *model.Note) {
	if g.chance(g.cfg.DurationProb) {
		factor := durationFactors[g.rng.Intn(len(durationFactors))]
		n.End = n.Start + n.Duration()*factor
	}
	if g.chance(g.cfg.ShiftProb) {
		shift := g.uniform(-g.cfg.MaxShift, g.cfg.MaxShift)
		n.Start += shift
		n.End += shift
	}
	if g.chance(g.cfg.VelocityProb) {
		choices := []uint8{0, 127, uint8(g.between(30, 120))}
		n.Velocity = choices[g.rng.Intn(len(choices))]
	}
}

func (g *glitcher) bends(t *model.Track, n model.Note) {
	count := g.between(5, 15)
	for i := 0; i < count; i++ {
		t.PitchBends = append(t.PitchBends, model.PitchBend{
			Pitch: bendValues[g.rng.Intn(len(bendValues))],
			Time:  g.uniform(n.Start, n.End),
		})
	}
}

func (g *glitcher) controls(t *model.Track, n model.Note) {
	count := g.between(3, len(controllers))
	picked := make([]uint8, len(controllers))
	copy(picked, controllers)
	g.rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	for _, number := range picked[:count] {
		changes := g.between(2, 8)
		for i := 0; i < changes; i++ {
			at := g.uniform(n.Start, n.End)
			var value uint8
			if g.chance(0.5) {
				value = []uint8{0, 127}[g.rng.Intn(2)]
			} else {
				value = uint8(g.between(0, 127))
			}
			t.ControlChanges = append(t.ControlChanges, model.ControlChange{Number: number, Value: value, Time: at})
		}
	}
}

func (g *glitcher) effects(t *model.Track, n model.Note) {
	var queued []func()
	if g.chance(g.cfg.BendProb) {
		queued = append(queued, func() { g.bends(t, n) })
	}
	if g.chance(g.cfg.ControlProb) {
		queued = append(queued, func() { g.controls(t, n) })
	}
	g.rng.Shuffle(len(queued), func(i, j int) {
		queued[i], queued[j] = queued[j], queued[i]
	})
	for _, effect := range queued {
		effect()
	}
}

func (g *glitcher) allOff(t *model.Track) {
	start, end := t.TimeRange()
	bursts := g.between(2, 5)
	for i := 0; i < bursts; i++ {
		at := g.uniform(start, end)
		for cc := firstAllOff; cc <= lastAllOff; cc++ {
			t.ControlChanges = append(t.ControlChanges, model.ControlChange{Number: uint8(cc), Value: 0, Time: at})
		}
	}
}

func (g *glitcher) track(src model.Track) model.Track {
	res := src
	res.PitchBends = append([]model.PitchBend(nil), src.PitchBends...)
	res.ControlChanges = append([]model.ControlChange(nil), src.ControlChanges...)
	res.Notes = nil
	for _, n := range src.Notes {
		if !g.chance(g.cfg.DeleteProb) {
			res.Notes = append(res.Notes, n)
		}
	}

	for i := range res.Notes {
		g.note(&res.Notes[i])
		g.effects(&res, res.Notes[i])
	}

	if len(res.Notes) > 0 {
		g.allOff(&res)
	}
	return res
}

// Apply returns a corrupted copy of doc. The same rng seed and document
// always give the same result.
func Apply(doc *model.Document, rng *rand.Rand, cfg Config) *model.Document {
	g := &glitcher{rng: rng, cfg: cfg}
	res := *doc
	res.Tracks = make([]model.Track, len(doc.Tracks))
	for i, t := range doc.Tracks {
		res.Tracks[i] = g.track(t)
	}
	return &res
}

func GlitchFile(in, out string, rng *rand.Rand, cfg Config) error {
	doc, err := midi.Load(in)
	if err != nil {
		return err
	}
	if err := midi.WriteMidiFile(Apply(doc, rng, cfg), out); err != nil {
		return errors.Wrapf(err, "writing glitch of %v", in)
	}
	return nil
}
