package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lrrindex/lrr-index/internal/build"
	"github.com/lrrindex/lrr-index/internal/config"
	"github.com/lrrindex/lrr-index/internal/diag"
	"github.com/lrrindex/lrr-index/internal/export"
	"github.com/lrrindex/lrr-index/internal/importer"
	"github.com/lrrindex/lrr-index/internal/render"
)

var (
	buildSource        sourceFlags
	buildSuperseded    string
	buildPreamble      string
	buildOutput        string
	buildIncompleteOut string
	buildSupersededOut string
	buildDB            string
)

func init() {
	buildSource.register(buildCmd)
	buildCmd.Flags().StringVar(&buildSuperseded, "superseded", "", "File of superseded record keys, one per line (default superseded_file)")
	buildCmd.Flags().StringVar(&buildPreamble, "preamble", "", "HTML copied verbatim before the index (default preamble_file)")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Write the index here instead of stdout")
	buildCmd.Flags().StringVar(&buildIncompleteOut, "incomplete-out", "", "Write incomplete records here, in the feed format")
	buildCmd.Flags().StringVar(&buildSupersededOut, "superseded-out", "", "Write superseded records here, in the feed format")
	buildCmd.Flags().StringVar(&buildDB, "db", "", "Write a SQLite snapshot of all records here")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build [feed]",
	Short: "Build the HTML author index",
	Long: `Build the HTML author index.

Usage:
  lrr-index build --file                       # ./lrr.xml
  lrr-index build --url -o index.html          # configured INSPIRE query
  lrr-index build --url --format json --db run.db
  lrr-index build --file export.json --superseded superseded.txt
  lrr-index build export.json                  # same as --file export.json

Given bare, --file and --url use the configured defaults.

Records with unresolved fields are still indexed with the placeholder
"missing" and reported as warnings; --incomplete-out collects them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

// BuildResult summarizes a build written with --output.
type BuildResult struct {
	Records    int    `json:"records"`
	Indexed    int    `json:"indexed"`
	Superseded int    `json:"superseded"`
	Incomplete int    `json:"incomplete"`
	Entries    int    `json:"entries"`
	Warnings   int    `json:"warnings"`
	Output     string `json:"output,omitempty"`
}

func runBuild(cmd *cobra.Command, args []string) error {
	if err := buildSource.bind(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var rec diag.Recorder
	sink := diag.Tee{diag.Slog{Logger: slog.Default()}, &rec}

	papers, format, err := buildSource.loadPapers(cmd.Context(), cfg, sink)
	if err != nil {
		return err
	}

	superseded, err := loadSuperseded(buildSuperseded, cfg)
	if err != nil {
		return err
	}

	preamble, err := loadPreamble(buildPreamble, cfg)
	if err != nil {
		return err
	}

	res, err := build.Assemble(papers, superseded, preamble, render.Options{Citation: cfg.Journal.Citation, DOIResolver: cfg.DOIResolver}, sink)
	if err != nil {
		return err
	}

	if buildOutput == "" {
		if _, err := os.Stdout.WriteString(res.Text); err != nil {
			return fmt.Errorf("writing index: %w", err)
		}
	} else if err := os.WriteFile(buildOutput, []byte(res.Text), 0644); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}

	if buildIncompleteOut != "" {
		if err := writeFeed(buildIncompleteOut, func(b *bytes.Buffer) error {
			return export.WriteIncomplete(b, format, res.All)
		}); err != nil {
			return err
		}
	}
	if buildSupersededOut != "" {
		if err := writeFeed(buildSupersededOut, func(b *bytes.Buffer) error {
			return export.WriteSuperseded(b, format, res.Superseded())
		}); err != nil {
			return err
		}
	}
	if buildDB != "" {
		if err := export.WriteSQLite(buildDB, res.All, superseded); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
	}

	summary := BuildResult{
		Records:    len(res.All),
		Indexed:    len(res.Index.Kept),
		Superseded: len(res.Superseded()),
		Incomplete: len(res.Incomplete()),
		Entries:    res.Index.Len(),
		Warnings:   len(rec.Warnings()),
		Output:     buildOutput,
	}
	slog.Info("index built",
		"records", summary.Records, "indexed", summary.Indexed,
		"superseded", summary.Superseded, "incomplete", summary.Incomplete,
		"entries", summary.Entries, "warnings", summary.Warnings)

	// The index itself may be on stdout; only report there when it is not.
	if buildOutput != "" {
		if humanOutput {
			outputHuman("Wrote %d entries for %d papers to %s (%d superseded, %d incomplete, %d warnings)\n",
				summary.Entries, summary.Indexed, buildOutput, summary.Superseded, summary.Incomplete, summary.Warnings)
			return nil
		}
		return outputJSON(summary)
	}
	return nil
}

func writeFeed(path string, write func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// loadSuperseded reads the supersession list. The configured default may be
// absent; a file named on the command line must exist.
func loadSuperseded(flag string, cfg *config.Config) (importer.Superseded, error) {
	path, optional := flag, false
	if path == "" {
		path, optional = cfg.SupersededFile, true
	}
	if path == "" {
		return importer.Superseded{}, nil
	}
	s, err := importer.LoadSuperseded(path, optional)
	if err != nil {
		return nil, withCode(ExitConfigError, err)
	}
	return s, nil
}

func loadPreamble(flag string, cfg *config.Config) (string, error) {
	path := flag
	if path == "" {
		path = cfg.PreambleFile
	}
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", withCode(ExitConfigError, fmt.Errorf("reading preamble: %w", err))
		}
		return "", fmt.Errorf("reading preamble: %w", err)
	}
	return string(data), nil
}
