package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSuperseded(t *testing.T) {
	input := "10.12942/lrr-2005-1\n\n# retracted\n  10.12942/lrr-2006-2  \n1600001\n"

	s, err := ParseSuperseded(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseSuperseded() error = %v", err)
	}
	if len(s) != 3 {
		t.Errorf("len = %d, want 3", len(s))
	}
	for _, key := range []string{"10.12942/lrr-2005-1", "10.12942/lrr-2006-2", "1600001"} {
		if !s.Contains(key) {
			t.Errorf("Contains(%q) = false", key)
		}
	}
	if s.Contains("# retracted") {
		t.Error("comment lines should be skipped")
	}
}

func TestLoadSuperseded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "superseded.txt")
	if err := os.WriteFile(path, []byte("10.1/a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSuperseded(path, false)
	if err != nil {
		t.Fatalf("LoadSuperseded() error = %v", err)
	}
	if !s.Contains("10.1/a") {
		t.Error("expected 10.1/a")
	}

	missingPath := filepath.Join(dir, "absent.txt")
	if _, err := LoadSuperseded(missingPath, false); err == nil {
		t.Error("LoadSuperseded() on missing required file should fail")
	}
	s, err = LoadSuperseded(missingPath, true)
	if err != nil || len(s) != 0 {
		t.Errorf("LoadSuperseded() optional = %v, %v; want empty set", s, err)
	}
}

func TestNewSuperseded(t *testing.T) {
	s := NewSuperseded("a", " b ", "")
	if len(s) != 2 || !s.Contains("b") {
		t.Errorf("NewSuperseded() = %v", s)
	}
}

func TestParseCorrections_RejectsScalars(t *testing.T) {
	if _, err := ParseCorrections([]byte("10.1/a: just text\n")); err == nil {
		t.Error("ParseCorrections() should reject non-mapping entries")
	}
}

func TestLoadCorrections_EmptyPath(t *testing.T) {
	c, err := LoadCorrections("")
	if err != nil || c != nil {
		t.Errorf("LoadCorrections(\"\") = %v, %v; want nil, nil", c, err)
	}
}
