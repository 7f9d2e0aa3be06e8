package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jsphweid/digiscore/melody"
	"github.com/jsphweid/digiscore/midi"
	"github.com/jsphweid/digiscore/model"
	"github.com/spf13/cobra"
)

var analyzeJSON bool

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the analysis as JSON")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Shows how each track of a MIDI file scores as melody",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := midi.Load(args[0])
		if err != nil {
			return err
		}
		res := analyze(doc, melody.ConfigFromEnv())
		if analyzeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		printAnalysis(cmd.OutOrStdout(), res)
		return nil
	},
}

func analyze(doc *model.Document, cfg melody.Config) model.AnalyzeResponse {
	ranked := melody.Rank(doc, cfg)
	if ranked == nil {
		ranked = []model.TrackFeatures{}
	}
	return model.AnalyzeResponse{Summary: melody.Summarize(doc), Tracks: ranked}
}

func printAnalysis(w io.Writer, res model.AnalyzeResponse) {
	s := res.Summary
	fmt.Fprintf(w, "Duration: %.2fs\n", s.Duration)
	if s.TimeSignature != nil {
		fmt.Fprintf(w, "Time signature: %v/%v\n", s.TimeSignature.Numerator, s.TimeSignature.Denominator)
	} else {
		fmt.Fprintln(w, "Time signature: unspecified")
	}
	if s.HasTempo {
		fmt.Fprintf(w, "Tempo: %.2f BPM\n", s.InitialTempo)
	} else {
		fmt.Fprintln(w, "Tempo: unspecified")
	}
	if s.Bars > 0 {
		fmt.Fprintf(w, "Estimated bars: %.2f\n", s.Bars)
	}

	fmt.Fprintf(w, "%v tracks:\n", len(s.Tracks))
	for _, t := range s.Tracks {
		fmt.Fprintf(w, "  %v %q: %v notes\n", t.Index, t.Name, t.NoteCount)
		if t.NoteCount == 0 {
			continue
		}
		fmt.Fprintf(w, "    time: %.2fs - %.2fs\n", t.Start, t.End)
		fmt.Fprintf(w, "    pitch: %v-%v\n", t.LowPitch, t.HighPitch)
		fmt.Fprintf(w, "    drum: %v, program: %v\n", t.IsDrum, t.Program)
	}

	if len(res.Tracks) == 0 {
		fmt.Fprintln(w, "No melody candidate")
		return
	}
	fmt.Fprintln(w, "Melody ranking:")
	for _, f := range res.Tracks {
		fmt.Fprintf(w, "  %v %q: %.2f (name %.1f, density %.2f, pitch %.2f, change %.2f)\n",
			f.Index, f.Name, f.MelodyScore, f.NameScore, f.DensityScore, f.PitchScore, f.ChangeScore)
	}
}
