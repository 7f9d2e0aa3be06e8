package batch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jsphweid/digiscore/ledger"
	"github.com/jsphweid/digiscore/logger"
	"github.com/jsphweid/digiscore/model"
	"github.com/jsphweid/digiscore/util"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	pb "gopkg.in/cheggaaa/pb.v1"
)

// ErrSkip marks a file that was left alone on purpose. Wrap it to say why.
var ErrSkip = errors.New("skipped")

type Func func(ctx context.Context, pair model.FilePair) error

type Options struct {
	Workers  int
	Command  string
	RunID    string
	Recorder ledger.Recorder
	// progress bar destination, nil hides the bar
	Progress io.Writer
}

// Mirror pairs every path under inRoot with the same relative path under outRoot.
func Mirror(paths []string, inRoot, outRoot string) ([]model.FilePair, error) {
	res := make([]model.FilePair, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(inRoot, p)
		if err != nil {
			return nil, errors.Wrapf(err, "relative path of %v", p)
		}
		res = append(res, model.FilePair{Input: p, Output: filepath.Join(outRoot, rel)})
	}
	return res, nil
}

// Gather collects the midi files under inRoot mirrored into outRoot.
func Gather(inRoot, outRoot string, maxNum int) ([]model.FilePair, error) {
	info, err := os.Stat(inRoot)
	if err != nil {
		return nil, errors.Wrap(err, "input directory")
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%v is not a directory", inRoot)
	}
	paths, err := util.GatherAllMidiPaths(inRoot, maxNum)
	if err != nil {
		return nil, err
	}
	return Mirror(paths, inRoot, outRoot)
}

func statusOf(err error) ledger.Status {
	switch {
	case err == nil:
		return ledger.StatusOK
	case errors.Is(err, ErrSkip):
		return ledger.StatusSkipped
	default:
		return ledger.StatusFailed
	}
}

// Run calls fn for every pair on up to opts.Workers goroutines. A failing file
// never stops the run; it is logged, counted and recorded. The returned error
// is only set when ctx ends early.
func Run(ctx context.Context, opts Options, pairs []model.FilePair, fn Func) (model.Stats, error) {
	if opts.Recorder == nil {
		opts.Recorder = ledger.NopRecorder{}
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	bar := pb.New(len(pairs))
	if opts.Progress != nil {
		bar.Output = opts.Progress
		bar.Prefix(opts.Command + " ")
		bar.Start()
	} else {
		bar.NotPrint = true
	}

	var mu sync.Mutex
	stats := model.Stats{Total: len(pairs)}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, pair := range pairs {
		if ctx.Err() != nil {
			break
		}
		pair := pair
		g.Go(func() error {
			err := fn(ctx, pair)
			status := statusOf(err)

			mu.Lock()
			switch status {
			case ledger.StatusOK:
				stats.Succeeded++
			case ledger.StatusSkipped:
				stats.Skipped++
			default:
				stats.Failed++
			}
			mu.Unlock()

			fields := logger.Fields{"input": pair.Input, "command": opts.Command}
			var detail string
			if err != nil {
				detail = err.Error()
				fields["reason"] = detail
			}
			switch status {
			case ledger.StatusSkipped:
				logger.Info("Skipping file", fields)
			case ledger.StatusFailed:
				logger.Warn("Failed to process file", fields)
			default:
				logger.Debug("Processed file", fields)
			}

			entry := ledger.Entry{
				RunID:     opts.RunID,
				Path:      pair.Input,
				Command:   opts.Command,
				Status:    status,
				Detail:    detail,
				Timestamp: time.Now(),
			}
			if rerr := opts.Recorder.Record(ctx, entry); rerr != nil {
				logger.Warn("Could not record result", logger.Fields{"input": pair.Input, "error": rerr.Error()})
			}

			bar.Increment()
			return nil
		})
	}
	g.Wait()
	if opts.Progress != nil {
		bar.Finish()
	}

	return stats, ctx.Err()
}
