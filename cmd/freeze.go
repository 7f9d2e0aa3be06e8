package cmd

import (
	"fmt"

	"github.com/jsphweid/digiscore/freeze"
	"github.com/jsphweid/digiscore/logger"
	"github.com/jsphweid/digiscore/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var freezeFlags struct {
	layers string
	policy string
	out    string
}

func init() {
	rootCmd.AddCommand(freezeCmd)
	freezeCmd.Flags().StringVar(&freezeFlags.layers, "layers", "", "file with one layer name per line")
	freezeCmd.Flags().StringVar(&freezeFlags.policy, "policy", "", "YAML freeze policy (default freezes the first encoder and core decoder layers)")
	freezeCmd.Flags().StringVar(&freezeFlags.out, "out", "", "write the plan as JSON here instead of stdout")
	freezeCmd.MarkFlagRequired("layers")
}

var freezeCmd = &cobra.Command{
	Use:   "freeze",
	Short: "Plans which model layers stay frozen when training resumes",
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := freeze.LoadPolicy(freezeFlags.policy)
		if err != nil {
			return err
		}
		layers, err := freeze.ReadLayers(freezeFlags.layers)
		if err != nil {
			return err
		}

		plan := freeze.Apply(policy, layers)
		dat, err := plan.JSON()
		if err != nil {
			return err
		}
		logger.Info("Freeze plan", logger.Fields{"summary": plan.Summary()})

		if freezeFlags.out == "" {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), string(dat))
			return err
		}
		if err := util.WriteFileAtomic(freezeFlags.out, dat); err != nil {
			return errors.Wrap(err, "writing freeze plan")
		}
		return nil
	},
}
