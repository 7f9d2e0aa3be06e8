package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jsphweid/digiscore/batch"
	"github.com/jsphweid/digiscore/constants"
	"github.com/jsphweid/digiscore/logger"
	"github.com/jsphweid/digiscore/model"
	"github.com/jsphweid/digiscore/trio"
	"github.com/jsphweid/digiscore/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var trioFlags struct {
	output  string
	workers int
}

func init() {
	rootCmd.AddCommand(trioCmd)
	trioCmd.Flags().StringVarP(&trioFlags.output, "output", "o", "", "output directory (default trio_midis next to the input)")
	trioCmd.Flags().IntVar(&trioFlags.workers, "workers", 0, "concurrent files")
}

var trioCmd = &cobra.Command{
	Use:   "trio <file|dir>",
	Short: "Relabels three track files as Drums, Melody and Bass",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := args[0]
		info, err := os.Stat(in)
		if err != nil {
			return errors.Wrap(err, "input")
		}

		if !info.IsDir() {
			if !util.IsMidiPath(in) {
				return errors.Errorf("%v is not a MIDI file", in)
			}
			out, err := trio.ConvertFile(in, trioFlags.output)
			if err != nil {
				return err
			}
			logger.Info("Converted to trio", logger.Fields{"input": in, "output": out})
			return nil
		}

		stats, err := ConvertAll(cmd.Context(), in, trioFlags.output)
		if err != nil {
			return err
		}
		printStats(cmd, stats)
		return nil
	},
}

// ConvertAll relabels every three track file under in. Other files are skipped.
func ConvertAll(ctx context.Context, in, outDir string) (model.Stats, error) {
	if outDir == "" {
		outDir = filepath.Join(in, constants.TrioDirName)
	}
	paths, err := util.GatherAllMidiPaths(in, 0)
	if err != nil {
		return model.Stats{}, err
	}
	var pairs []model.FilePair
	for _, p := range paths {
		// earlier output lives under the input tree
		if filepath.Dir(p) == outDir {
			continue
		}
		pairs = append(pairs, model.FilePair{Input: p, Output: filepath.Join(outDir, filepath.Base(p))})
	}

	opts, err := batchOptions("trio", trioFlags.workers)
	if err != nil {
		return model.Stats{}, err
	}
	return batch.Run(ctx, opts, pairs, func(_ context.Context, p model.FilePair) error {
		_, err := trio.ConvertFile(p.Input, filepath.Dir(p.Output))
		if errors.Is(err, trio.ErrNotTrio) {
			return errors.Wrap(batch.ErrSkip, err.Error())
		}
		return err
	})
}
