package sticker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mlehnert/stickerforge/pkg/geo"
)

// Set is the serializable form of a marker document: the live markers,
// the manually broken chain links, and the container dimensions the
// positions were authored against. It exists for batch tooling (relate,
// apply, preview); the interactive editor holds this state in memory only.
type Set struct {
	Markers   []Marker      `json:"markers"`
	Broken    []string      `json:"broken,omitempty"`
	Container geo.Container `json:"container"`
}

// BrokenSet returns the broken-link list as a lookup set.
func (s Set) BrokenSet() map[string]bool {
	out := make(map[string]bool, len(s.Broken))
	for _, id := range s.Broken {
		out[id] = true
	}
	return out
}

// Validate checks identity uniqueness and field ranges.
func (s Set) Validate() error {
	seen := make(map[string]bool, len(s.Markers))
	for _, m := range s.Markers {
		if m.ID == "" {
			return fmt.Errorf("marker with empty ID")
		}
		if seen[m.ID] {
			return fmt.Errorf("duplicate marker ID %q", m.ID)
		}
		seen[m.ID] = true
		if m.Size < MinSize || m.Size > MaxSize {
			return fmt.Errorf("marker %s: size %.0f outside [%d, %d]", m.ID, m.Size, MinSize, MaxSize)
		}
	}
	return nil
}

// MarshalSet converts a Set to indented JSON bytes.
func MarshalSet(s Set) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeSetTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSetFile writes a Set to a JSON file.
// The file is created with 0644 permissions.
func WriteSetFile(s Set, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeSetTo(s, f)
}

// ReadSetFile reads a JSON file and returns the decoded Set.
// Returns validation errors for malformed documents.
func ReadSetFile(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return Set{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSet(f)
}

// ReadSet decodes a JSON marker document from an io.Reader.
func ReadSet(r io.Reader) (Set, error) {
	var s Set
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Set{}, fmt.Errorf("decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Set{}, err
	}
	return s, nil
}

func writeSetTo(s Set, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
