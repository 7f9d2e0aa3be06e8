package batch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jsphweid/digiscore/ledger"
	"github.com/jsphweid/digiscore/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRecorder struct {
	mu      sync.Mutex
	entries []ledger.Entry
	err     error
}

func (m *memRecorder) Record(_ context.Context, e ledger.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return m.err
}

func (m *memRecorder) byPath() map[string]ledger.Entry {
	res := map[string]ledger.Entry{}
	for _, e := range m.entries {
		res[e.Path] = e
	}
	return res
}

func touch(t *testing.T, path string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0777))
	require.NoError(t, os.WriteFile(path, nil, 0666))
}

func TestGatherMirrorsTree(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b", "2.MID"))
	touch(t, filepath.Join(root, "a.mid"))
	touch(t, filepath.Join(root, "b", "c", "3.midi"))
	touch(t, filepath.Join(root, "notes.txt"))

	pairs, err := Gather(root, "/out", 0)
	require.NoError(t, err)
	assert.Equal(t, []model.FilePair{
		{Input: filepath.Join(root, "a.mid"), Output: "/out/a.mid"},
		{Input: filepath.Join(root, "b", "2.MID"), Output: "/out/b/2.MID"},
		{Input: filepath.Join(root, "b", "c", "3.midi"), Output: "/out/b/c/3.midi"},
	}, pairs)

	pairs, err = Gather(root, "/out", 1)
	require.NoError(t, err)
	assert.Len(t, pairs, 1)
}

func TestGatherRejectsMissingInput(t *testing.T) {
	root := t.TempDir()
	_, err := Gather(filepath.Join(root, "missing"), "/out", 0)
	assert.Error(t, err)

	file := filepath.Join(root, "x.mid")
	touch(t, file)
	_, err = Gather(file, "/out", 0)
	assert.Error(t, err)
}

func TestRunCountsEveryOutcome(t *testing.T) {
	pairs := []model.FilePair{
		{Input: "ok1.mid"}, {Input: "skip.mid"}, {Input: "bad.mid"}, {Input: "ok2.mid"},
	}
	rec := &memRecorder{}

	stats, err := Run(context.Background(), Options{Workers: 3, Command: "test", RunID: "run", Recorder: rec}, pairs,
		func(_ context.Context, p model.FilePair) error {
			switch p.Input {
			case "skip.mid":
				return errors.Wrap(ErrSkip, "only 2 tracks")
			case "bad.mid":
				return errors.New("boom")
			}
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Total: 4, Succeeded: 2, Failed: 1, Skipped: 1}, stats)

	entries := rec.byPath()
	require.Len(t, entries, 4)
	assert.Equal(t, ledger.StatusOK, entries["ok1.mid"].Status)
	assert.Equal(t, ledger.StatusSkipped, entries["skip.mid"].Status)
	assert.Equal(t, "only 2 tracks: skipped", entries["skip.mid"].Detail)
	assert.Equal(t, ledger.StatusFailed, entries["bad.mid"].Status)
	assert.Equal(t, "boom", entries["bad.mid"].Detail)
	assert.Equal(t, "run", entries["bad.mid"].RunID)
	assert.Equal(t, "test", entries["bad.mid"].Command)
}

func TestRunSurvivesRecorderErrors(t *testing.T) {
	rec := &memRecorder{err: errors.New("table missing")}
	stats, err := Run(context.Background(), Options{Recorder: rec}, []model.FilePair{{Input: "a.mid"}},
		func(context.Context, model.FilePair) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Succeeded)
}

func TestRunRespectsWorkerLimit(t *testing.T) {
	var pairs []model.FilePair
	for i := 0; i < 20; i++ {
		pairs = append(pairs, model.FilePair{Input: "f.mid"})
	}

	var running, peak int32
	stats, err := Run(context.Background(), Options{Workers: 3}, pairs, func(context.Context, model.FilePair) error {
		n := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 20, stats.Succeeded)
	assert.LessOrEqual(t, peak, int32(3))
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	stats, err := Run(ctx, Options{Workers: 1}, []model.FilePair{{Input: "a.mid"}}, func(context.Context, model.FilePair) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Equal(t, 1, stats.Total)
	assert.Zero(t, stats.Succeeded)
}
