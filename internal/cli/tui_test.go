package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlehnert/stickerforge/pkg/editor"
	"github.com/mlehnert/stickerforge/pkg/geo"
)

func testPhoto(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestEditor(t *testing.T) editorModel {
	t.Helper()
	c := New(io.Discard, LogInfo)
	m, err := newEditorModel(context.Background(), c, "photo.png", testPhoto(t), "", true)
	if err != nil {
		t.Fatalf("newEditorModel() error: %v", err)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 27})
	return next.(editorModel)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m editorModel, keys ...string) editorModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(editorModel)
	}
	return m
}

func TestEditorWindowSizeMeasuresContainer(t *testing.T) {
	m := newTestEditor(t)

	if !m.doc.Container().Valid() {
		t.Error("container not measured after WindowSizeMsg")
	}
}

func TestEditorMouseRotateUsesPointerAngle(t *testing.T) {
	m := newTestEditor(t)
	m.cursorX, m.cursorY = 10, 5
	m = press(t, m, " ")
	id := m.doc.Selection()

	down := tea.MouseMsg{X: 11, Y: 5 + canvasTop + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}
	next, _ := m.Update(down)
	m = next.(editorModel)

	g, ok := m.doc.Gesture().(editor.Rotating)
	if !ok {
		t.Fatalf("Gesture() = %T after right press on marker, want Rotating", m.doc.Gesture())
	}
	if g.ID != id {
		t.Errorf("rotating marker %q, want %q", g.ID, id)
	}

	move := tea.MouseMsg{X: 21, Y: 5 + canvasTop + 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonRight}
	next, _ = m.Update(move)
	m = next.(editorModel)

	mk, _ := m.doc.Marker(id)
	px, py := m.pointerPixels(20, 5)
	mx, my := m.markerPixels(id)
	want := geo.Degrees(geo.Angle(px, py, mx, my) - g.StartAngle)
	if math.Abs(mk.Rotation-want) > 1e-9 {
		t.Errorf("Rotation = %v after pointer sweep, want %v", mk.Rotation, want)
	}

	up := tea.MouseMsg{X: 21, Y: 5 + canvasTop + 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonRight}
	next, _ = m.Update(up)
	m = next.(editorModel)
	if _, ok := m.doc.Gesture().(editor.GestureNone); !ok {
		t.Error("gesture not cleared on release")
	}
}

func TestEditorShrinkClampsCropAnchor(t *testing.T) {
	m := newTestEditor(t)
	m = press(t, m, "tab")
	m.cursorX, m.cursorY = m.canvasW-1, m.canvasH-1
	m = press(t, m, " ")
	if !m.cropAnchor {
		t.Fatal("crop anchor not set")
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 12})
	m = next.(editorModel)

	if m.cropAnchorX >= m.canvasW || m.cropAnchorY >= m.canvasH {
		t.Fatalf("crop anchor (%d,%d) outside %dx%d canvas after shrink",
			m.cropAnchorX, m.cropAnchorY, m.canvasW, m.canvasH)
	}
	_ = m.View()
}

func TestEditorPlacesMarkerOnSpace(t *testing.T) {
	m := newTestEditor(t)

	m = press(t, m, " ")

	if m.doc.MarkerCount() != 1 {
		t.Fatalf("MarkerCount() = %d, want 1", m.doc.MarkerCount())
	}
	if m.doc.Selection() == "" {
		t.Error("newly placed marker not selected")
	}
}

func TestEditorCellMappingRoundTrip(t *testing.T) {
	m := newTestEditor(t)

	for _, cell := range [][2]int{{0, 0}, {10, 5}, {m.canvasW - 1, m.canvasH - 1}} {
		pos := m.cellToPercent(cell[0], cell[1])
		cx, cy := m.percentToCell(pos)
		if cx != cell[0] || cy != cell[1] {
			t.Errorf("round trip (%d,%d) -> %+v -> (%d,%d)", cell[0], cell[1], pos, cx, cy)
		}
	}
}

func TestEditorTabCyclesTools(t *testing.T) {
	m := newTestEditor(t)

	want := []editor.Tool{editor.ToolCrop, editor.ToolFilters, editor.ToolAdjust, editor.ToolStickers}
	for _, tool := range want {
		m = press(t, m, "tab")
		if m.doc.Tool() != tool {
			t.Fatalf("Tool() = %v, want %v", m.doc.Tool(), tool)
		}
	}
}

func TestEditorPromptCapturesRunes(t *testing.T) {
	m := newTestEditor(t)
	m = press(t, m, "tab", "tab") // filters tool

	m = press(t, m, "w", "a", "r", "m")

	if m.doc.Prompt() != "warm" {
		t.Errorf("Prompt() = %q, want warm", m.doc.Prompt())
	}
}

func TestEditorBusyIgnoresEditingKeys(t *testing.T) {
	m := newTestEditor(t)
	m.doc.SetBusy(true)

	m = press(t, m, " ")

	if m.doc.MarkerCount() != 0 {
		t.Error("marker placed while busy")
	}
}

func TestEditorApplyWithNothingPlaced(t *testing.T) {
	m := newTestEditor(t)

	next, cmd := m.Update(keyMsg("a"))
	m = next.(editorModel)

	if cmd != nil {
		t.Error("apply dispatched a command with nothing placed")
	}
	if m.doc.Busy() {
		t.Error("busy set without a dispatched apply")
	}
}

func TestEditorGestureKeys(t *testing.T) {
	m := newTestEditor(t)
	m = press(t, m, " ") // place & select

	m = press(t, m, "s")
	if _, ok := m.doc.Gesture().(editor.Resizing); !ok {
		t.Fatalf("Gesture() = %T, want Resizing", m.doc.Gesture())
	}

	before, _ := m.doc.Marker(m.doc.Selection())
	m = press(t, m, "l", "l") // grow by two steps
	after, _ := m.doc.Marker(m.doc.Selection())
	if after.Size <= before.Size {
		t.Errorf("Size = %v after growing, want > %v", after.Size, before.Size)
	}

	m = press(t, m, "s") // toggle ends the gesture
	if _, ok := m.doc.Gesture().(editor.GestureNone); !ok {
		t.Errorf("Gesture() = %T after toggle, want GestureNone", m.doc.Gesture())
	}
}

func TestEditorCommitResultAdvancesHistory(t *testing.T) {
	m := newTestEditor(t)
	m = press(t, m, " ")
	m.doc.SetBusy(true)

	next, _ := m.Update(editResultMsg{artifact: testPhoto(t), verb: "stickers"})
	m = next.(editorModel)

	if m.doc.Busy() {
		t.Error("busy not cleared after result")
	}
	if m.doc.HistoryLen() != 2 {
		t.Errorf("HistoryLen() = %d, want 2", m.doc.HistoryLen())
	}
	if m.doc.MarkerCount() != 0 {
		t.Error("markers survived commit")
	}
}

func TestEditorFailedResultKeepsHistory(t *testing.T) {
	m := newTestEditor(t)
	m = press(t, m, " ")
	m.doc.SetBusy(true)

	next, _ := m.Update(editResultMsg{err: context.DeadlineExceeded, verb: "stickers"})
	m = next.(editorModel)

	if m.doc.Busy() {
		t.Error("busy not cleared after failure")
	}
	if m.doc.HistoryLen() != 1 {
		t.Errorf("HistoryLen() = %d, want unchanged 1", m.doc.HistoryLen())
	}
	if m.doc.MarkerCount() != 1 {
		t.Error("markers cleared by a failed apply")
	}
	if m.failure == "" {
		t.Error("failure message not surfaced")
	}
}
