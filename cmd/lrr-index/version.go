package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if humanOutput {
			outputHuman("lrr-index %s (%s)\n", Version, runtime.Version())
			return nil
		}
		return outputJSON(map[string]string{"version": Version, "go": runtime.Version()})
	},
}
