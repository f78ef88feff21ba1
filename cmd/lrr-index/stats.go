package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lrrindex/lrr-index/internal/inspect"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats <index.html>",
	Short: "Count letters and entries in a built index",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return withCode(ExitConfigError, fmt.Errorf("opening index: %w", err))
	}
	defer f.Close()

	st, err := inspect.Read(f)
	if err != nil {
		return withCode(ExitDataError, err)
	}

	if humanOutput {
		outputHuman("%d entries (%d linked) under %d letters\n\n", st.Entries, st.Linked, len(st.Groups))
		for _, g := range st.Groups {
			outputHuman("  %-3s %d\n", g.Letter, g.Entries)
		}
		if len(st.Dangling) > 0 {
			outputHuman("\nNavigation letters without a group: %v\n", st.Dangling)
		}
		return nil
	}
	return outputJSON(st)
}
