// Package config handles lrr-index configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in lrr-index.yml.
type Config struct {
	Journal     Journal  `yaml:"journal"`
	DOIPrefixes []string `yaml:"doi_prefixes"`
	MaxAuthors  int      `yaml:"max_authors"`
	Sources     Sources  `yaml:"sources"`
	Fetch       Fetch    `yaml:"fetch"`

	// DOIResolver is prefixed to DOIs to form entry links.
	DOIResolver string `yaml:"doi_resolver"`

	SupersededFile  string `yaml:"superseded_file"`
	CorrectionsFile string `yaml:"corrections_file,omitempty"`
	PreambleFile    string `yaml:"preamble_file,omitempty"`
}

// Journal names the journal being indexed.
type Journal struct {
	Name     string `yaml:"name"`     // journal_title in INSPIRE publication info
	Citation string `yaml:"citation"` // Abbreviation printed in entries
}

// Sources are the default feed locations.
type Sources struct {
	XMLURL  string `yaml:"xml_url"`
	JSONURL string `yaml:"json_url"`
	File    string `yaml:"file"`
}

// Fetch configures HTTP retrieval.
type Fetch struct {
	RateLimit float64       `yaml:"rate_limit"` // Requests per second
	Timeout   time.Duration `yaml:"timeout"`
}

const (
	// ConfigFile is the config file name looked up in the working directory.
	ConfigFile = "lrr-index.yml"

	// EnvConfig names the environment variable holding a config path.
	EnvConfig = "LRR_INDEX_CONFIG"

	EnvXMLURL  = "LRR_INDEX_XML_URL"
	EnvJSONURL = "LRR_INDEX_JSON_URL"
)

// Defaults for the Living Reviews in Relativity index.
const (
	DefaultJournalName     = "Living Rev.Rel."
	DefaultJournalCitation = "Living Rev. Relativ."
	DefaultMaxAuthors      = 8
	DefaultXMLURL          = "http://inspirehep.net/search?p=find+j+%22Living+Rev.Rel.%22&of=xe&rg=1000"
	DefaultJSONURL         = "https://inspirehep.net/api/literature?q=j%20%22Living%20Rev.Rel.%22&size=250&fields=control_number,titles,dois,abstracts,authors.full_name,authors.last_name,publication_info"
	DefaultFile            = "lrr.xml"
	DefaultSupersededFile  = "superseded.txt"
	DefaultRateLimit       = 2.0
	DefaultTimeout         = 60 * time.Second
	DefaultDOIResolver     = "https://doi.org/"
)

// DefaultDOIPrefixes are the publisher prefixes of Living Reviews DOIs
// (Max Planck era and Springer era).
var DefaultDOIPrefixes = []string{"10.12942/lrr-", "10.1007/s41114-"}

// ErrInvalid indicates a config value out of range.
var ErrInvalid = errors.New("invalid configuration")

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Journal: Journal{
			Name:     DefaultJournalName,
			Citation: DefaultJournalCitation,
		},
		DOIPrefixes: append([]string(nil), DefaultDOIPrefixes...),
		MaxAuthors:  DefaultMaxAuthors,
		Sources: Sources{
			XMLURL:  DefaultXMLURL,
			JSONURL: DefaultJSONURL,
			File:    DefaultFile,
		},
		Fetch: Fetch{
			RateLimit: DefaultRateLimit,
			Timeout:   DefaultTimeout,
		},
		DOIResolver:    DefaultDOIResolver,
		SupersededFile: DefaultSupersededFile,
	}
}

// Path returns the config file to load: explicit when set, otherwise
// $LRR_INDEX_CONFIG, otherwise lrr-index.yml in the working directory.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return ConfigFile
}

// Load reads the config at path over the defaults, then applies environment
// overrides. A missing file is not an error unless required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		cfg.resolvePaths(filepath.Dir(path))
	case os.IsNotExist(err) && !required:
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides source URLs from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvXMLURL); v != "" {
		c.Sources.XMLURL = v
	}
	if v := os.Getenv(EnvJSONURL); v != "" {
		c.Sources.JSONURL = v
	}
}

// resolvePaths makes relative file paths relative to the config directory.
func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{&c.SupersededFile, &c.CorrectionsFile, &c.PreambleFile, &c.Sources.File} {
		*p = ExpandTilde(*p)
		if *p != "" && !filepath.IsAbs(*p) && dir != "." {
			*p = filepath.Join(dir, *p)
		}
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.MaxAuthors < 1 {
		return fmt.Errorf("%w: max_authors must be positive, got %d", ErrInvalid, c.MaxAuthors)
	}
	if c.Fetch.RateLimit <= 0 {
		return fmt.Errorf("%w: fetch.rate_limit must be positive, got %g", ErrInvalid, c.Fetch.RateLimit)
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("%w: fetch.timeout must not be negative", ErrInvalid)
	}
	if strings.TrimSpace(c.DOIResolver) == "" {
		return fmt.Errorf("%w: doi_resolver must not be empty", ErrInvalid)
	}
	for _, p := range c.DOIPrefixes {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: empty entry in doi_prefixes", ErrInvalid)
		}
	}
	return nil
}

// ExpandTilde replaces a leading ~ with the user's home directory.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
