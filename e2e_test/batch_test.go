//go:build e2e
// +build e2e

package e2e_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/digiscore/cmd"
	"github.com/jsphweid/digiscore/melody"
	"github.com/jsphweid/digiscore/midi"
	"github.com/jsphweid/digiscore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func note(pitch uint8, start, end float64) model.Note {
	return model.Note{Pitch: pitch, Velocity: 100, Start: start, End: end}
}

func writeSong(t *testing.T, path string, tracks ...model.Track) {
	doc := &model.Document{
		Resolution: 480,
		Tempos:     []model.TempoChange{{Time: 0, BPM: 120}},
		Tracks:     tracks,
	}
	require.NoError(t, midi.WriteMidiFile(doc, path))
}

func TestMelodyBatch(t *testing.T) {
	in := filepath.Join(t.TempDir(), "data")
	out := filepath.Join(t.TempDir(), "data_mel")

	writeSong(t, filepath.Join(in, "001", "001.mid"),
		model.Track{Name: "Drums", IsDrum: true, Notes: []model.Note{note(36, 0, 0.5)}},
		model.Track{Name: "MELODY", Program: 0, Notes: []model.Note{note(72, 0, 0.5), note(76, 0.5, 1)}},
		model.Track{Name: "Bass", Program: 33, Notes: []model.Note{note(36, 0, 1)}},
	)
	writeSong(t, filepath.Join(in, "002", "002.mid"),
		model.Track{Name: "Kit", IsDrum: true, Notes: []model.Note{note(36, 0, 0.5)}},
	)
	require.NoError(t, os.WriteFile(filepath.Join(in, "003.mid"), []byte("garbage"), 0666))

	stats, err := cmd.ExtractAll(context.Background(), in, out, 0, melody.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Total: 3, Succeeded: 1, Failed: 2}, stats)

	doc, err := midi.Load(filepath.Join(out, "001", "001.mid"))
	require.NoError(t, err)
	require.Len(t, doc.Tracks, 1)
	assert.Equal(t, "Melody", doc.Tracks[0].Name)
	assert.NoFileExists(t, filepath.Join(out, "002", "002.mid"))
	assert.NoFileExists(t, filepath.Join(out, "003.mid"))
}

func TestMelodyBatchMissingInput(t *testing.T) {
	_, err := cmd.ExtractAll(context.Background(), filepath.Join(t.TempDir(), "nope"), t.TempDir(), 0, melody.DefaultConfig())
	assert.Error(t, err)
}

func TestTrioBatch(t *testing.T) {
	in := t.TempDir()
	writeSong(t, filepath.Join(in, "a.mid"),
		model.Track{Name: "Lead", Notes: []model.Note{note(72, 0, 1)}},
		model.Track{Name: "Bass", Notes: []model.Note{note(36, 0, 1)}},
	)
	writeSong(t, filepath.Join(in, "b.mid"),
		model.Track{Name: "Lead", Notes: []model.Note{note(72, 0, 1)}},
	)

	stats, err := cmd.ConvertAll(context.Background(), in, "")
	require.NoError(t, err)
	// the conductor track makes a.mid a three track file
	assert.Equal(t, model.Stats{Total: 2, Succeeded: 1, Skipped: 1}, stats)

	doc, err := midi.Load(filepath.Join(in, "trio_midis", "a.mid"))
	require.NoError(t, err)
	require.Len(t, doc.Tracks, 2)
	assert.Equal(t, "Melody", doc.Tracks[0].Name)
	assert.Equal(t, "Bass", doc.Tracks[1].Name)
	assert.NoFileExists(t, filepath.Join(in, "trio_midis", "b.mid"))
}
