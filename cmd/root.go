package cmd

import (
	"github.com/jsphweid/digiscore/constants"
	"github.com/jsphweid/digiscore/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// set at build time with -ldflags
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "digiscore",
	Short:   "MIDI preparation tools for melody models",
	Long:    `Extracts melody tracks, relabels trio files, glitches MIDI and plans layer freezing for training.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// a missing .env is fine
		_ = godotenv.Load()
		logger.SetDebug(constants.IsDebug())
		return logger.Init(constants.GetSentryDSN(), constants.GetEnvironment(), version)
	},
	SilenceUsage: true,
}

func Execute() {
	err := rootCmd.Execute()
	logger.Flush()
	cobra.CheckErr(err)
}
