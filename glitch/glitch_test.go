package glitch

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/digiscore/midi"
	"github.com/jsphweid/digiscore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *model.Document {
	var notes []model.Note
	for i := 0; i < 40; i++ {
		start := float64(i) * 0.5
		notes = append(notes, model.Note{Pitch: uint8(60 + i%12), Velocity: 80, Start: start, End: start + 0.5})
	}
	return &model.Document{
		Resolution: 480,
		Tempos:     []model.TempoChange{{Time: 0, BPM: 110}},
		Tracks: []model.Track{
			{Name: "Piano", Notes: notes},
			{Name: "Kit", IsDrum: true, Notes: notes[:10]},
		},
	}
}

// quiet turns every per-note effect off.
func quiet() Config {
	return Config{MaxShift: 0.1}
}

func TestApplyIsReproducible(t *testing.T) {
	a := Apply(sampleDocument(), rand.New(rand.NewSource(7)), DefaultConfig())
	b := Apply(sampleDocument(), rand.New(rand.NewSource(7)), DefaultConfig())
	assert.Equal(t, a, b)
}

func TestApplyLeavesInputAlone(t *testing.T) {
	doc := sampleDocument()
	before := sampleDocument()
	Apply(doc, rand.New(rand.NewSource(1)), DefaultConfig())
	assert.Equal(t, before, doc)
}

func TestDeleteEverything(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DeleteProb = 1

	res := Apply(sampleDocument(), rand.New(rand.NewSource(3)), cfg)
	for _, track := range res.Tracks {
		assert.Empty(t, track.Notes)
		assert.Empty(t, track.ControlChanges, "no all-off bursts without notes")
		assert.Empty(t, track.PitchBends)
	}
}

func TestAllOffBursts(t *testing.T) {
	res := Apply(sampleDocument(), rand.New(rand.NewSource(11)), quiet())

	track := res.Tracks[0]
	assert.Equal(t, sampleDocument().Tracks[0].Notes, track.Notes)

	ccs := track.ControlChanges
	require.Zero(t, len(ccs)%7)
	assert.GreaterOrEqual(t, len(ccs), 14)
	assert.LessOrEqual(t, len(ccs), 35)

	start, end := track.TimeRange()
	for i, cc := range ccs {
		assert.Equal(t, uint8(120+i%7), cc.Number)
		assert.Zero(t, cc.Value)
		assert.GreaterOrEqual(t, cc.Time, start)
		assert.LessOrEqual(t, cc.Time, end)
	}
}

func TestNoteGlitches(t *testing.T) {
	cfg := quiet()
	cfg.DurationProb = 1
	cfg.VelocityProb = 1

	src := sampleDocument().Tracks[0].Notes
	res := Apply(sampleDocument(), rand.New(rand.NewSource(5)), cfg)
	notes := res.Tracks[0].Notes
	require.Len(t, notes, len(src))

	for i, n := range notes {
		assert.Equal(t, src[i].Start, n.Start)
		ratio := n.Duration() / src[i].Duration()
		assert.Contains(t, []float64{0.25, 0.5, 1.5, 2.0}, math.Round(ratio*100)/100)
		assert.True(t, n.Velocity == 0 || n.Velocity == 127 || (n.Velocity >= 30 && n.Velocity <= 120), n.Velocity)
	}
}

func TestShiftKeepsDuration(t *testing.T) {
	cfg := quiet()
	cfg.ShiftProb = 1

	src := sampleDocument().Tracks[0].Notes
	notes := Apply(sampleDocument(), rand.New(rand.NewSource(9)), cfg).Tracks[0].Notes
	for i, n := range notes {
		assert.InDelta(t, src[i].Duration(), n.Duration(), 1e-9)
		assert.LessOrEqual(t, math.Abs(n.Start-src[i].Start), 0.1)
	}
}

func TestExtremeEffects(t *testing.T) {
	cfg := quiet()
	cfg.BendProb = 1
	cfg.ControlProb = 1

	res := Apply(sampleDocument(), rand.New(rand.NewSource(13)), cfg)
	track := res.Tracks[0]

	assert.GreaterOrEqual(t, len(track.PitchBends), 5*len(track.Notes))
	assert.LessOrEqual(t, len(track.PitchBends), 15*len(track.Notes))
	for _, b := range track.PitchBends {
		assert.Contains(t, bendValues, b.Pitch)
		assert.GreaterOrEqual(t, b.Time, 0.0)
		assert.LessOrEqual(t, b.Time, 20.0)
	}

	for _, cc := range track.ControlChanges {
		if cc.Number >= firstAllOff {
			continue
		}
		assert.Contains(t, controllers, cc.Number)
		assert.LessOrEqual(t, cc.Value, uint8(127))
	}
}

func TestGlitchFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "001.mid")
	require.NoError(t, midi.WriteMidiFile(sampleDocument(), in))

	out := OutputPath(in)
	assert.Equal(t, filepath.Join(dir, "001_glitch.mid"), out)
	require.NoError(t, GlitchFile(in, out, rand.New(rand.NewSource(2)), DefaultConfig()))

	doc, err := midi.Load(out)
	require.NoError(t, err)
	assert.Equal(t, 110.0, doc.InitialTempo())

	err = GlitchFile(filepath.Join(dir, "missing.mid"), out, rand.New(rand.NewSource(2)), DefaultConfig())
	assert.ErrorIs(t, err, midi.ErrParse)
}

func TestPop909Pairs(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"001", "002", "003", "extras"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0777))
	}
	for _, f := range []string{"001/001.mid", "003/003.mid", "003/v1.mid", "extras/extras.mid"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, f), nil, 0666))
	}

	pairs, err := Pop909Pairs(root, "/out")
	require.NoError(t, err)
	assert.Equal(t, []model.FilePair{
		{Input: filepath.Join(root, "001", "001.mid"), Output: "/out/001_glitch.mid"},
		{Input: filepath.Join(root, "003", "003.mid"), Output: "/out/003_glitch.mid"},
	}, pairs)

	_, err = Pop909Pairs(filepath.Join(root, "nope"), "/out")
	assert.Error(t, err)
}
