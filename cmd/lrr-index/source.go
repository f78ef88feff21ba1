package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lrrindex/lrr-index/internal/config"
	"github.com/lrrindex/lrr-index/internal/fetch"
	"github.com/lrrindex/lrr-index/internal/importer"
	"github.com/lrrindex/lrr-index/internal/paper"
)

// useDefault is the value of --file or --url given without an argument. The
// NUL byte keeps it from ever naming a real file or URL.
const useDefault = "\x00default"

// sourceFlags selects the feed to read.
type sourceFlags struct {
	file        string
	url         string
	format      string
	corrections string
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&s.file, "file", "", "Read the feed from a file (bare: sources.file, default "+config.DefaultFile+")")
	flags.Lookup("file").NoOptDefVal = useDefault
	flags.StringVar(&s.url, "url", "", "Fetch the feed from a URL (bare: the configured INSPIRE query)")
	flags.Lookup("url").NoOptDefVal = useDefault
	flags.StringVar(&s.format, "format", "", "Feed format: xml or json (default: detected for files, xml for URLs)")
	flags.StringVar(&s.corrections, "corrections", "", "YAML or JSON file of per-record corrections (default corrections_file)")
	cmd.MarkFlagsMutuallyExclusive("file", "url")
}

// bind takes the feed location from a positional argument. With an optional
// value, "--file lrr.xml" parses as a bare --file followed by an argument.
func (s *sourceFlags) bind(args []string) error {
	if len(args) == 0 {
		return nil
	}
	switch {
	case s.url == useDefault:
		s.url = args[0]
	case s.url == "" && (s.file == "" || s.file == useDefault):
		s.file = args[0]
	default:
		return fmt.Errorf("unexpected argument %q: the feed is already given", args[0])
	}
	return nil
}

// source is a resolved feed location.
type source struct {
	location string
	isURL    bool
	format   string // Empty means detect from content
}

// resolve applies config defaults to the flags.
func (s *sourceFlags) resolve(cfg *config.Config) (source, error) {
	if s.format != "" {
		if _, err := importer.Get(s.format); err != nil {
			return source{}, withCode(ExitError, err)
		}
	}

	if s.url != "" {
		src := source{location: s.url, isURL: true, format: s.format}
		if src.format == "" {
			src.format = "xml"
		}
		if s.url == useDefault {
			src.location = cfg.Sources.XMLURL
			if src.format == "json" {
				src.location = cfg.Sources.JSONURL
			}
		}
		return src, nil
	}

	src := source{location: s.file, format: s.format}
	if s.file == "" || s.file == useDefault {
		src.location = cfg.Sources.File
	}
	return src, nil
}

// read returns the raw feed and its format.
func (src source) read(ctx context.Context, cfg *config.Config) ([]byte, string, error) {
	var raw []byte
	var err error

	if src.isURL {
		client := fetch.NewClient(
			fetch.WithRateLimit(cfg.Fetch.RateLimit),
			fetch.WithTimeout(cfg.Fetch.Timeout),
		)
		slog.Info("fetching feed", "url", src.location, "format", src.format)
		if src.format == "json" {
			raw, err = client.FetchInspireJSON(ctx, src.location)
		} else {
			raw, err = client.Get(ctx, src.location)
		}
		if err != nil {
			return nil, "", fmt.Errorf("fetching feed: %w", err)
		}
	} else {
		raw, err = os.ReadFile(src.location)
		if err != nil {
			return nil, "", withCode(ExitConfigError, fmt.Errorf("reading feed: %w", err))
		}
	}

	format := src.format
	if format == "" {
		var ok bool
		if format, ok = importer.Detect(raw); !ok {
			return nil, "", fmt.Errorf("%w: cannot detect the format of %s", importer.ErrMalformedInput, src.location)
		}
	}
	return raw, format, nil
}

// loadPapers reads and normalizes the selected feed.
func (s *sourceFlags) loadPapers(ctx context.Context, cfg *config.Config, diag paper.Diagnostics) ([]paper.Paper, string, error) {
	src, err := s.resolve(cfg)
	if err != nil {
		return nil, "", err
	}

	corrections, err := loadCorrections(s.corrections, cfg)
	if err != nil {
		return nil, "", err
	}

	raw, format, err := src.read(ctx, cfg)
	if err != nil {
		return nil, "", err
	}

	papers, err := importer.Normalize(format, raw, corrections, importOptions(cfg), diag)
	if err != nil {
		return nil, "", fmt.Errorf("normalizing %s: %w", src.location, err)
	}
	slog.Info("records normalized", "source", src.location, "format", format, "records", len(papers))
	return papers, format, nil
}

func loadCorrections(flag string, cfg *config.Config) (importer.Corrections, error) {
	path := flag
	if path == "" {
		path = cfg.CorrectionsFile
	}
	c, err := importer.LoadCorrections(path)
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, withCode(ExitConfigError, err)
	default:
		return nil, withCode(ExitDataError, err)
	}
}

func importOptions(cfg *config.Config) importer.Options {
	return importer.Options{
		JournalName: cfg.Journal.Name,
		DOIPrefixes: cfg.DOIPrefixes,
		MaxAuthors:  cfg.MaxAuthors,
	}
}
