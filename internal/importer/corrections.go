package importer

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lrrindex/lrr-index/internal/paper"
)

// ErrInvalidCorrection indicates a correction entry that does not fit the
// metadata of the record it targets.
var ErrInvalidCorrection = errors.New("invalid correction")

// Corrections holds sparse record patches keyed by record key (DOI for XML
// feeds, record id for JSON feeds). A record with neither is addressed by its
// position, "record #N". Each adapter decodes the patch into its own metadata
// view, so the same file format serves both feeds.
type Corrections map[string]yaml.Node

// ParseCorrections decodes a corrections document. YAML and JSON are both
// accepted.
func ParseCorrections(data []byte) (Corrections, error) {
	var c Corrections
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing corrections: %w", err)
	}
	for key, node := range c {
		if node.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("parsing corrections: entry %q is not a mapping", key)
		}
	}
	return c, nil
}

// LoadCorrections reads a corrections file. An empty path yields no corrections.
func LoadCorrections(path string) (Corrections, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corrections: %w", err)
	}
	return ParseCorrections(data)
}

// lookup returns the patch for the first of keys that has one, and the key
// it matched. Empty keys and the placeholder never match.
func (c Corrections) lookup(keys ...string) (*yaml.Node, string, bool) {
	if c == nil {
		return nil, "", false
	}
	for _, key := range keys {
		if key == "" || key == paper.Placeholder {
			continue
		}
		if node, ok := c[key]; ok {
			return &node, key, true
		}
	}
	return nil, "", false
}
