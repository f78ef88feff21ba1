package importer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Superseded is the set of record keys excluded from the index.
type Superseded map[string]struct{}

// Contains reports whether key is superseded.
func (s Superseded) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

// NewSuperseded builds a set from a list of keys.
func NewSuperseded(keys ...string) Superseded {
	s := make(Superseded, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			s[k] = struct{}{}
		}
	}
	return s
}

// ParseSuperseded reads one identifier per line. Blank lines and lines
// starting with '#' are skipped.
func ParseSuperseded(r io.Reader) (Superseded, error) {
	s := make(Superseded)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading superseded list: %w", err)
	}
	return s, nil
}

// LoadSuperseded reads a superseded list from path. A missing file yields an
// empty set when optional is true.
func LoadSuperseded(path string, optional bool) (Superseded, error) {
	f, err := os.Open(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return Superseded{}, nil
		}
		return nil, fmt.Errorf("opening superseded list: %w", err)
	}
	defer f.Close()

	return ParseSuperseded(f)
}
