package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/digiscore/batch"
	"github.com/jsphweid/digiscore/constants"
	"github.com/jsphweid/digiscore/ledger"
	"github.com/jsphweid/digiscore/logger"
	"github.com/jsphweid/digiscore/melody"
	"github.com/jsphweid/digiscore/model"
	"github.com/spf13/cobra"
)

var melodyFlags struct {
	file    string
	output  string
	workers int
	max     int
}

func init() {
	rootCmd.AddCommand(melodyCmd)
	melodyCmd.Flags().StringVarP(&melodyFlags.file, "file", "f", "", "extract a single file instead of a directory")
	melodyCmd.Flags().StringVarP(&melodyFlags.output, "output", "o", "", "output path for --file")
	melodyCmd.Flags().IntVar(&melodyFlags.workers, "workers", 0, "concurrent files (default DIGISCORE_WORKERS or the cpu count)")
	melodyCmd.Flags().IntVar(&melodyFlags.max, "max", 0, "process at most this many files")
}

var melodyCmd = &cobra.Command{
	Use:   "melody [input-dir] [output-dir]",
	Short: "Extracts the melody track of every MIDI file",
	Long: `Extracts the melody track of every MIDI file under input-dir into a
single track file at the same relative path under output-dir.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := melody.ConfigFromEnv()
		if melodyFlags.file != "" {
			return extractOne(melodyFlags.file, melodyFlags.output, cfg)
		}

		in, out := constants.GetInputDir(), constants.GetOutputDir()
		if len(args) > 0 {
			in = args[0]
		}
		if len(args) > 1 {
			out = args[1]
		}
		stats, err := ExtractAll(cmd.Context(), in, out, melodyFlags.max, cfg)
		if err != nil {
			return err
		}
		printStats(cmd, stats)
		return nil
	},
}

func extractOne(in, out string, cfg melody.Config) error {
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + "_melody.mid"
	}
	if err := melody.ExtractFile(in, out, cfg); err != nil {
		return err
	}
	logger.Info("Extracted melody", logger.Fields{"input": in, "output": out})
	return nil
}

// ExtractAll runs melody extraction over every MIDI file under in.
func ExtractAll(ctx context.Context, in, out string, maxNum int, cfg melody.Config) (model.Stats, error) {
	pairs, err := batch.Gather(in, out, maxNum)
	if err != nil {
		return model.Stats{}, err
	}
	opts, err := batchOptions("melody", melodyFlags.workers)
	if err != nil {
		return model.Stats{}, err
	}

	logger.Info("Extracting melodies", logger.Fields{"input": in, "output": out, "files": len(pairs), "run_id": opts.RunID})
	return batch.Run(ctx, opts, pairs, func(_ context.Context, p model.FilePair) error {
		return melody.ExtractFile(p.Input, p.Output, cfg)
	})
}

// batchOptions builds the shared batch settings of a command run.
func batchOptions(command string, workers int) (batch.Options, error) {
	recorder, err := ledger.FromEnv()
	if err != nil {
		return batch.Options{}, err
	}
	if workers <= 0 {
		workers = constants.GetWorkers()
	}
	return batch.Options{
		Workers:  workers,
		Command:  command,
		RunID:    ledger.NewRunID(),
		Recorder: recorder,
		Progress: os.Stderr,
	}, nil
}

func printStats(cmd *cobra.Command, stats model.Stats) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Total files: %v\n", stats.Total)
	fmt.Fprintf(w, "Succeeded: %v\n", stats.Succeeded)
	fmt.Fprintf(w, "Skipped: %v\n", stats.Skipped)
	fmt.Fprintf(w, "Failed: %v\n", stats.Failed)
}
