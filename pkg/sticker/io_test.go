package sticker

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlehnert/stickerforge/pkg/geo"
)

func sampleSet() Set {
	a := New("🔥", geo.Pos{X: 10, Y: 10})
	b := New("⭐", geo.Pos{X: 60, Y: 60})
	return Set{
		Markers:   []Marker{a, b},
		Broken:    []string{b.ID},
		Container: geo.Container{Width: 800, Height: 600},
	}
}

func TestSetFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.json")
	set := sampleSet()

	if err := WriteSetFile(set, path); err != nil {
		t.Fatalf("WriteSetFile() error: %v", err)
	}

	got, err := ReadSetFile(path)
	if err != nil {
		t.Fatalf("ReadSetFile() error: %v", err)
	}

	if len(got.Markers) != 2 {
		t.Fatalf("Markers = %d, want 2", len(got.Markers))
	}
	if got.Markers[0].ID != set.Markers[0].ID || got.Markers[0].Tag != "🔥" {
		t.Errorf("first marker = %+v, want %+v", got.Markers[0], set.Markers[0])
	}
	if got.Container != set.Container {
		t.Errorf("Container = %+v, want %+v", got.Container, set.Container)
	}
	if !got.BrokenSet()[set.Markers[1].ID] {
		t.Error("broken link lost in round trip")
	}
}

func TestReadSetRejectsDuplicateIDs(t *testing.T) {
	doc := `{"markers":[
		{"id":"dup","tag":"🔥","pos":{"x":1,"y":1},"size":48},
		{"id":"dup","tag":"⭐","pos":{"x":2,"y":2},"size":48}
	]}`

	_, err := ReadSet(strings.NewReader(doc))
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("ReadSet() error = %v, want duplicate ID error", err)
	}
}

func TestReadSetRejectsBadSize(t *testing.T) {
	doc := `{"markers":[{"id":"a","tag":"🔥","pos":{"x":1,"y":1},"size":500}]}`

	_, err := ReadSet(strings.NewReader(doc))
	if err == nil || !strings.Contains(err.Error(), "size") {
		t.Errorf("ReadSet() error = %v, want size range error", err)
	}
}

func TestReadSetRejectsMalformedJSON(t *testing.T) {
	_, err := ReadSet(strings.NewReader("{not json"))
	if err == nil {
		t.Error("ReadSet() accepted malformed JSON")
	}
}
