package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/digiscore/melody"
	"github.com/jsphweid/digiscore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintAnalysis(t *testing.T) {
	doc := &model.Document{
		Tempos:         []model.TempoChange{{Time: 0, BPM: 120}},
		TimeSignatures: []model.TimeSignature{{Numerator: 3, Denominator: 4}},
		Tracks: []model.Track{
			{Name: "Solo Violin", Program: 40, Notes: []model.Note{{Pitch: 76, Velocity: 80, Start: 0, End: 3}}},
			{Name: "Empty"},
		},
	}

	var buf bytes.Buffer
	printAnalysis(&buf, analyze(doc, melody.DefaultConfig()))
	out := buf.String()

	assert.Contains(t, out, "Duration: 3.00s")
	assert.Contains(t, out, "Time signature: 3/4")
	assert.Contains(t, out, "Tempo: 120.00 BPM")
	assert.Contains(t, out, "Estimated bars: 2.00")
	assert.Contains(t, out, "pitch: 76-76")
	assert.Contains(t, out, `0 "Solo Violin": 10.`)
}

func TestPrintAnalysisWithoutCandidates(t *testing.T) {
	var buf bytes.Buffer
	res := analyze(&model.Document{}, melody.DefaultConfig())
	assert.NotNil(t, res.Tracks)
	printAnalysis(&buf, res)
	assert.Contains(t, buf.String(), "Tempo: unspecified")
	assert.Contains(t, buf.String(), "No melody candidate")
}

func TestFreezeCommand(t *testing.T) {
	dir := t.TempDir()
	layers := filepath.Join(dir, "layers.txt")
	out := filepath.Join(dir, "plan.json")
	require.NoError(t, os.WriteFile(layers, []byte("encoder/bilstm_0/fw\ndecoder/attention\n"), 0666))

	rootCmd.SetArgs([]string{"freeze", "--layers", layers, "--out", out})
	require.NoError(t, rootCmd.Execute())

	dat, err := os.ReadFile(out)
	require.NoError(t, err)
	var plan struct {
		Total  int `json:"total"`
		Frozen int `json:"frozen"`
	}
	require.NoError(t, json.Unmarshal(dat, &plan))
	assert.Equal(t, 2, plan.Total)
	assert.Equal(t, 1, plan.Frozen)
}
