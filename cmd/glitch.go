package cmd

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/jsphweid/digiscore/batch"
	"github.com/jsphweid/digiscore/glitch"
	"github.com/jsphweid/digiscore/logger"
	"github.com/jsphweid/digiscore/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var glitchFlags struct {
	input    string
	output   string
	seed     int64
	batch    bool
	batchIn  string
	batchOut string
	workers  int
	deleteP  float64
}

func init() {
	rootCmd.AddCommand(glitchCmd)
	f := glitchCmd.Flags()
	f.StringVarP(&glitchFlags.input, "input", "i", "", "input MIDI file")
	f.StringVarP(&glitchFlags.output, "output", "o", "", "output MIDI file (default <input>_glitch.mid)")
	f.Int64Var(&glitchFlags.seed, "seed", 0, "random seed, 0 picks one from the clock")
	f.BoolVarP(&glitchFlags.batch, "batch", "b", false, "glitch every POP909 song")
	f.StringVar(&glitchFlags.batchIn, "pop909", "./data/POP909", "POP909 root for --batch")
	f.StringVar(&glitchFlags.batchOut, "batch-output", "./data/glitch_midis", "output directory for --batch")
	f.IntVar(&glitchFlags.workers, "workers", 0, "concurrent files for --batch")
	f.Float64Var(&glitchFlags.deleteP, "delete-prob", glitch.DefaultConfig().DeleteProb, "chance of dropping each note")
}

var glitchCmd = &cobra.Command{
	Use:   "glitch",
	Short: "Randomly corrupts MIDI files",
	Long: `Drops notes, bends timing and velocity and sprays pitch bends and
controller changes over a MIDI file. The same --seed gives the same output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := glitchFlags.seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		cfg := glitch.DefaultConfig()
		cfg.DeleteProb = glitchFlags.deleteP

		if glitchFlags.batch {
			stats, err := glitchAll(cmd.Context(), seed, cfg)
			if err != nil {
				return err
			}
			printStats(cmd, stats)
			return nil
		}

		if glitchFlags.input == "" {
			return cmd.Help()
		}
		if _, err := os.Stat(glitchFlags.input); err != nil {
			return errors.Wrap(err, "input")
		}
		out := glitchFlags.output
		if out == "" {
			out = glitch.OutputPath(glitchFlags.input)
		}
		if err := glitch.GlitchFile(glitchFlags.input, out, rand.New(rand.NewSource(seed)), cfg); err != nil {
			return err
		}
		logger.Info("Glitched file", logger.Fields{"input": glitchFlags.input, "output": out, "seed": seed})
		return nil
	},
}

func glitchAll(ctx context.Context, seed int64, cfg glitch.Config) (model.Stats, error) {
	pairs, err := glitch.Pop909Pairs(glitchFlags.batchIn, glitchFlags.batchOut)
	if err != nil {
		return model.Stats{}, err
	}
	opts, err := batchOptions("glitch", glitchFlags.workers)
	if err != nil {
		return model.Stats{}, err
	}

	// one source per file keeps results independent of worker scheduling
	seeds := make(map[string]int64, len(pairs))
	master := rand.New(rand.NewSource(seed))
	for _, p := range pairs {
		seeds[p.Input] = master.Int63()
	}

	logger.Info("Glitching POP909", logger.Fields{"files": len(pairs), "seed": seed, "run_id": opts.RunID})
	return batch.Run(ctx, opts, pairs, func(_ context.Context, p model.FilePair) error {
		return glitch.GlitchFile(p.Input, p.Output, rand.New(rand.NewSource(seeds[p.Input])), cfg)
	})
}
