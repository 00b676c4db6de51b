package editor

import (
	"math"
	"testing"

	"github.com/mlehnert/stickerforge/pkg/geo"
	"github.com/mlehnert/stickerforge/pkg/sticker"
)

// newTestDocument returns a document with a loaded artifact, a measured
// container, and the 🔥 palette tag selected.
func newTestDocument() *Document {
	d := NewDocument()
	d.LoadArtifact([]byte("photo"))
	d.SetContainer(geo.Container{Width: 1000, Height: 1000})
	d.SelectTag("🔥")
	return d
}

func place(t *testing.T, d *Document, tag string, x, y float64) string {
	t.Helper()
	d.SelectTag(tag)
	id := d.Place(geo.Pos{X: x, Y: y})
	if id == "" {
		t.Fatal("Place() returned empty ID")
	}
	return id
}

func TestPlaceRequiresPaletteTag(t *testing.T) {
	d := newTestDocument()
	d.SelectTag("")

	if id := d.Place(geo.Pos{X: 50, Y: 50}); id != "" {
		t.Errorf("Place() = %q without a palette tag, want no-op", id)
	}
	if d.MarkerCount() != 0 {
		t.Errorf("MarkerCount() = %d, want 0", d.MarkerCount())
	}
}

func TestPlaceClampsPosition(t *testing.T) {
	d := newTestDocument()
	id := place(t, d, "🔥", -10, 150)

	m, _ := d.Marker(id)
	if m.Pos != (geo.Pos{X: 0, Y: 100}) {
		t.Errorf("Pos = %+v, want clamped to 0,100", m.Pos)
	}
}

func TestPlaceTriggersDetection(t *testing.T) {
	d := newTestDocument()
	place(t, d, "🔥", 50, 50)
	place(t, d, "⭐", 50, 50)

	if len(d.Relationships().Fusions) != 1 {
		t.Errorf("Fusions = %d after overlapping placement, want 1", len(d.Relationships().Fusions))
	}
}

func TestPlacementSizeConfigurable(t *testing.T) {
	d := newTestDocument()

	d.SetPlacementSize(96)
	m, _ := d.Marker(place(t, d, "🔥", 50, 50))
	if m.Size != 96 {
		t.Errorf("Size = %v with configured size 96, want 96", m.Size)
	}

	d.SetPlacementSize(1000)
	m, _ = d.Marker(place(t, d, "🔥", 10, 10))
	if m.Size != sticker.MaxSize {
		t.Errorf("Size = %v with configured size 1000, want clamp to %v", m.Size, sticker.MaxSize)
	}

	d.SetPlacementSize(0)
	m, _ = d.Marker(place(t, d, "🔥", 90, 90))
	if m.Size != sticker.DefaultSize {
		t.Errorf("Size = %v after reset, want %v", m.Size, sticker.DefaultSize)
	}
}

func TestPlacementSizeSurvivesLoad(t *testing.T) {
	d := newTestDocument()
	d.SetPlacementSize(64)
	d.LoadArtifact([]byte("next"))
	d.SelectTag("🔥")

	m, _ := d.Marker(place(t, d, "🔥", 50, 50))
	if m.Size != 64 {
		t.Errorf("Size = %v after reload, want 64", m.Size)
	}
}

func TestDeleteClearsSelectionAndGesture(t *testing.T) {
	d := newTestDocument()
	id := place(t, d, "🔥", 50, 50)
	d.Select(id)
	d.BeginDrag(id)

	d.Delete(id)

	if d.MarkerCount() != 0 {
		t.Errorf("MarkerCount() = %d, want 0", d.MarkerCount())
	}
	if d.Selection() != "" {
		t.Errorf("Selection() = %q, want cleared", d.Selection())
	}
	if _, ok := d.Gesture().(GestureNone); !ok {
		t.Errorf("Gesture() = %T, want GestureNone", d.Gesture())
	}
}

func TestDeleteRecomputesRelationships(t *testing.T) {
	d := newTestDocument()
	a := place(t, d, "🔥", 50, 50)
	place(t, d, "⭐", 50, 50)

	d.Delete(a)

	if !d.Relationships().Empty() {
		t.Errorf("Relationships() = %+v after deleting fusion partner, want empty", d.Relationships())
	}
}

func TestSetImpact(t *testing.T) {
	d := newTestDocument()
	id := place(t, d, "🔥", 50, 50)

	d.SetImpact(id, sticker.ImpactTotal)
	if m, _ := d.Marker(id); m.Impact != sticker.ImpactTotal {
		t.Errorf("Impact = %v, want total", m.Impact)
	}

	d.SetImpact(id, sticker.Impact("bogus"))
	if m, _ := d.Marker(id); m.Impact != sticker.ImpactTotal {
		t.Errorf("Impact = %v after invalid level, want unchanged", m.Impact)
	}
}

func TestBreakChainLink(t *testing.T) {
	d := newTestDocument()
	a := place(t, d, "🔥", 50, 50)
	place(t, d, "🔥", 55, 55)

	if len(d.Relationships().Chains) != 1 {
		t.Fatalf("Chains = %d, want 1 before break", len(d.Relationships().Chains))
	}

	d.BreakChainLink(a)

	if len(d.Relationships().Chains) != 0 {
		t.Errorf("Chains = %d after break, want 0", len(d.Relationships().Chains))
	}
	if !d.BrokenLinks()[a] {
		t.Error("BrokenLinks() missing the broken marker")
	}
}

func TestSelectUnknownIDClears(t *testing.T) {
	d := newTestDocument()
	id := place(t, d, "🔥", 50, 50)
	d.Select(id)

	d.Select("nope")

	if d.Selection() != "" {
		t.Errorf("Selection() = %q, want cleared", d.Selection())
	}
}

// =============================================================================
// Gestures
// =============================================================================

func TestGesturesAreMutuallyExclusive(t *testing.T) {
	d := newTestDocument()
	id := place(t, d, "🔥", 50, 50)

	d.BeginDrag(id)
	if _, ok := d.Gesture().(Dragging); !ok {
		t.Fatalf("Gesture() = %T, want Dragging", d.Gesture())
	}

	d.BeginResize(id, 100)
	if _, ok := d.Gesture().(Resizing); !ok {
		t.Fatalf("Gesture() = %T, want Resizing after replacement", d.Gesture())
	}

	d.BeginRotate(id, 0)
	if _, ok := d.Gesture().(Rotating); !ok {
		t.Fatalf("Gesture() = %T, want Rotating after replacement", d.Gesture())
	}

	d.EndGesture()
	if _, ok := d.Gesture().(GestureNone); !ok {
		t.Fatalf("Gesture() = %T, want GestureNone", d.Gesture())
	}
}

func TestUpdateDrag(t *testing.T) {
	d := newTestDocument()
	id := place(t, d, "🔥", 50, 50)

	d.BeginDrag(id)
	d.UpdateDrag(geo.Pos{X: 130, Y: -20})

	m, _ := d.Marker(id)
	if m.Pos != (geo.Pos{X: 100, Y: 0}) {
		t.Errorf("Pos = %+v, want clamped 100,0", m.Pos)
	}
}

func TestUpdateDragWithoutGesture(t *testing.T) {
	d := newTestDocument()
	id := place(t, d, "🔥", 50, 50)

	d.UpdateDrag(geo.Pos{X: 10, Y: 10})

	if m, _ := d.Marker(id); m.Pos != (geo.Pos{X: 50, Y: 50}) {
		t.Errorf("Pos = %+v, want unchanged without a drag", m.Pos)
	}
}

func TestUpdateResize(t *testing.T) {
	d := newTestDocument()
	id := place(t, d, "🔥", 50, 50) // size 48

	d.BeginResize(id, 300)

	tests := []struct {
		name  string
		delta float64
		want  float64
	}{
		{"grow", 10.4, 58},
		{"rounding", 10.5, 59},
		{"clamp to max", 500, 200},
		{"clamp to min", -500, 16},
		{"back to baseline", 0, 48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d.UpdateResize(tt.delta)
			if m, _ := d.Marker(id); m.Size != tt.want {
				t.Errorf("Size = %v, want %v", m.Size, tt.want)
			}
		})
	}
}

func TestUpdateRotate(t *testing.T) {
	d := newTestDocument()
	id := place(t, d, "🔥", 50, 50)

	d.BeginRotate(id, 0)
	d.UpdateRotate(math.Pi / 2)

	m, _ := d.Marker(id)
	if math.Abs(m.Rotation-90) > 1e-9 {
		t.Errorf("Rotation = %v, want 90", m.Rotation)
	}

	// Rotation is unbounded.
	d.UpdateRotate(3 * math.Pi)
	m, _ = d.Marker(id)
	if math.Abs(m.Rotation-540) > 1e-9 {
		t.Errorf("Rotation = %v, want 540", m.Rotation)
	}
}

func TestRotateKeepsInitialOffset(t *testing.T) {
	d := newTestDocument()
	id := place(t, d, "🔥", 50, 50)
	d.BeginRotate(id, 0)
	d.UpdateRotate(math.Pi / 4)
	d.EndGesture()

	// Second gesture starts from the new baseline.
	d.BeginRotate(id, math.Pi)
	d.UpdateRotate(math.Pi + math.Pi/4)

	m, _ := d.Marker(id)
	if math.Abs(m.Rotation-90) > 1e-9 {
		t.Errorf("Rotation = %v, want 90", m.Rotation)
	}
}

// =============================================================================
// History & Transients
// =============================================================================

func TestLoadArtifactResetsEverything(t *testing.T) {
	d := newTestDocument()
	id := place(t, d, "🔥", 50, 50)
	d.Select(id)
	d.BreakChainLink(id)
	d.SetTool(ToolCrop)
	d.SetCropRegion(CropRegion{X: 1, Y: 1, Width: 10, Height: 10})
	d.SetPrompt("warmer")

	d.LoadArtifact([]byte("new photo"))

	if d.MarkerCount() != 0 || len(d.BrokenLinks()) != 0 || d.Selection() != "" {
		t.Error("marker state survived LoadArtifact")
	}
	if d.Tool() != DefaultTool {
		t.Errorf("Tool() = %v, want %v", d.Tool(), DefaultTool)
	}
	if d.CropRegion() != nil || d.Prompt() != "" {
		t.Error("crop/prompt state survived LoadArtifact")
	}
	if d.HistoryLen() != 1 || d.HistoryCursor() != 0 {
		t.Errorf("history = %d/%d, want singleton", d.HistoryCursor(), d.HistoryLen())
	}
}

func TestCommitArtifactTruncatesRedoAndResets(t *testing.T) {
	d := newTestDocument()
	d.CommitArtifact([]byte("v2"))
	d.CommitArtifact([]byte("v3"))
	d.Undo()
	d.Undo()

	place(t, d, "🔥", 50, 50)
	d.CommitArtifact([]byte("branch"))

	if d.CanRedo() {
		t.Error("CanRedo() = true after branching commit")
	}
	if d.HistoryLen() != 2 {
		t.Errorf("HistoryLen() = %d, want 2", d.HistoryLen())
	}
	if d.MarkerCount() != 0 {
		t.Error("markers survived commit")
	}
	if string(d.CurrentArtifact()) != "branch" {
		t.Errorf("CurrentArtifact() = %q, want branch", d.CurrentArtifact())
	}
}

func TestUndoClearsMarkersButKeepsToolState(t *testing.T) {
	d := newTestDocument()
	d.CommitArtifact([]byte("v2"))

	id := place(t, d, "🔥", 50, 50)
	d.BreakChainLink(id)
	d.SetTool(ToolFilters)
	d.SetPrompt("warmer")

	if !d.Undo() {
		t.Fatal("Undo() = false")
	}

	if d.MarkerCount() != 0 || len(d.BrokenLinks()) != 0 {
		t.Error("markers or broken links survived undo")
	}
	if d.Tool() != ToolFilters || d.Prompt() != "warmer" {
		t.Error("undo reset tool state; only markers should clear")
	}
	if !d.CanRedo() {
		t.Error("CanRedo() = false after undo")
	}
}

func TestRedoClearsMarkers(t *testing.T) {
	d := newTestDocument()
	d.CommitArtifact([]byte("v2"))
	d.Undo()
	place(t, d, "🔥", 50, 50)

	if !d.Redo() {
		t.Fatal("Redo() = false")
	}
	if d.MarkerCount() != 0 {
		t.Error("markers survived redo")
	}
	if string(d.CurrentArtifact()) != "v2" {
		t.Errorf("CurrentArtifact() = %q, want v2", d.CurrentArtifact())
	}
}

func TestUndoOnSingletonHistory(t *testing.T) {
	d := newTestDocument()
	place(t, d, "🔥", 50, 50)

	if d.Undo() {
		t.Error("Undo() = true on singleton history")
	}
	if d.MarkerCount() != 1 {
		t.Error("failed undo cleared markers")
	}
}
