// Package editor implements the single-session, in-memory editing core:
// marker manipulation state, the mutually exclusive gesture machine, the
// linear undo/redo history, and the action-dispatch binding for the
// currently active tool.
//
// Relationship detection is not hidden behind lifecycle hooks: every
// mutation of markers or broken links synchronously recomputes the
// relationships via [relate.Detect] before the mutating call returns, so
// rendering in the same pass always observes a fresh result.
package editor

import (
	"math"

	"github.com/mlehnert/stickerforge/pkg/geo"
	"github.com/mlehnert/stickerforge/pkg/relate"
	"github.com/mlehnert/stickerforge/pkg/sticker"
)

// Tool identifies the active editing tool.
type Tool string

// Available tools.
const (
	ToolStickers Tool = "stickers"
	ToolCrop     Tool = "crop"
	ToolFilters  Tool = "filters"
	ToolAdjust   Tool = "adjust"
)

// DefaultTool is the tool selected after loading or committing a document.
const DefaultTool = ToolStickers

// CropRegion is a completed crop selection in display-space pixels.
type CropRegion struct {
	X, Y          float64
	Width, Height float64
}

// Positive reports whether the region has positive extent on both axes.
func (r CropRegion) Positive() bool {
	return r.Width > 0 && r.Height > 0
}

// Document is the live editing state for one photo session.
//
// A Document is not safe for concurrent use; all transitions happen
// synchronously on the event goroutine. The one asynchronous operation in
// scope (the external generation call) is bracketed by the busy flag,
// which disables commit actions while the call is outstanding.
type Document struct {
	markers   []sticker.Marker // insertion order is detection iteration order
	broken    map[string]bool
	selection string
	palette   string // tag currently selected for placement, "" = none
	tool      Tool
	container geo.Container
	gesture   Gesture
	rel       relate.Result
	history   History
	binding   Binding
	crop      *CropRegion
	prompt    string
	busy      bool
	placeSize float64 // size for newly placed markers, 0 = sticker.DefaultSize
}

// NewDocument creates an empty document with no artifact loaded.
func NewDocument() *Document {
	return &Document{
		broken:  make(map[string]bool),
		tool:    DefaultTool,
		gesture: GestureNone{},
		history: NewHistory(),
	}
}

// =============================================================================
// Container & Detection
// =============================================================================

// SetContainer records the rendered pixel dimensions of the image
// container and recomputes relationships against them. An unmeasured
// container yields a vacuously empty result.
func (d *Document) SetContainer(c geo.Container) {
	d.container = c
	d.detect()
}

// Container returns the current container dimensions.
func (d *Document) Container() geo.Container { return d.container }

// Relationships returns the result of the most recent detection pass.
func (d *Document) Relationships() relate.Result { return d.rel }

// detect recomputes fusions and chains. Called by every mutation of
// markers or broken links.
func (d *Document) detect() {
	d.rel = relate.Detect(d.markers, d.broken, d.container)
}

// =============================================================================
// Marker Operations
// =============================================================================

// SelectTag chooses the palette tag used by Place. An empty tag disables
// placement.
func (d *Document) SelectTag(tag string) { d.palette = tag }

// PaletteTag returns the tag currently selected for placement.
func (d *Document) PaletteTag() string { return d.palette }

// SetPlacementSize overrides the size given to newly placed markers.
// The value is clamped to the valid marker size range; zero restores the
// built-in default.
func (d *Document) SetPlacementSize(px float64) {
	if px <= 0 {
		d.placeSize = 0
		return
	}
	d.placeSize = sticker.ClampSize(px)
}

// Place appends a new marker with the palette tag at the given percent
// position. It is a no-op when no tag is selected. Returns the new marker
// ID, or "" if nothing was placed.
func (d *Document) Place(pos geo.Pos) string {
	if d.palette == "" {
		return ""
	}
	m := sticker.New(d.palette, geo.ClampPercent(pos))
	if d.placeSize > 0 {
		m.Size = d.placeSize
	}
	d.markers = append(d.markers, m)
	d.detect()
	return m.ID
}

// Markers returns a copy of the live marker set in insertion order.
func (d *Document) Markers() []sticker.Marker {
	out := make([]sticker.Marker, len(d.markers))
	copy(out, d.markers)
	return out
}

// Marker returns the marker with the given ID and true, or a zero marker
// and false.
func (d *Document) Marker(id string) (sticker.Marker, bool) {
	if i := d.index(id); i >= 0 {
		return d.markers[i], true
	}
	return sticker.Marker{}, false
}

// MarkerCount returns the number of live markers.
func (d *Document) MarkerCount() int { return len(d.markers) }

// Delete removes the marker. The active selection is cleared if it
// referenced this marker.
func (d *Document) Delete(id string) {
	i := d.index(id)
	if i < 0 {
		return
	}
	d.markers = append(d.markers[:i], d.markers[i+1:]...)
	if d.selection == id {
		d.selection = ""
	}
	if d.gesture.TargetID() == id {
		d.gesture = GestureNone{}
	}
	d.detect()
}

// SetImpact updates a marker's impact level in place. Impact is not a
// detection input, so no geometry recompute is needed.
func (d *Document) SetImpact(id string, level sticker.Impact) {
	if i := d.index(id); i >= 0 && level.Valid() {
		d.markers[i].Impact = level
	}
}

// BreakChainLink manually excludes the marker from chain participation
// until the history index changes or a new image is loaded.
func (d *Document) BreakChainLink(id string) {
	if d.index(id) < 0 {
		return
	}
	d.broken[id] = true
	d.detect()
}

// BrokenLinks returns the set of marker IDs excluded from chains.
func (d *Document) BrokenLinks() map[string]bool {
	out := make(map[string]bool, len(d.broken))
	for id := range d.broken {
		out[id] = true
	}
	return out
}

// Select marks a marker as the active selection. Unknown IDs clear it.
func (d *Document) Select(id string) {
	if d.index(id) < 0 {
		d.selection = ""
		return
	}
	d.selection = id
}

// Selection returns the selected marker ID, or "".
func (d *Document) Selection() string { return d.selection }

func (d *Document) index(id string) int {
	for i := range d.markers {
		if d.markers[i].ID == id {
			return i
		}
	}
	return -1
}

// =============================================================================
// Gestures
// =============================================================================

// Gesture returns the gesture currently in progress.
func (d *Document) Gesture() Gesture { return d.gesture }

// BeginDrag starts dragging the marker, replacing any gesture in progress.
func (d *Document) BeginDrag(id string) {
	if d.index(id) < 0 {
		return
	}
	d.gesture = Dragging{ID: id}
}

// UpdateDrag moves the dragged marker to pos, clamped to [0,100] on both
// axes. No-op unless a drag is in progress.
func (d *Document) UpdateDrag(pos geo.Pos) {
	g, ok := d.gesture.(Dragging)
	if !ok {
		return
	}
	if i := d.index(g.ID); i >= 0 {
		d.markers[i].Pos = geo.ClampPercent(pos)
		d.detect()
	}
}

// BeginResize starts resizing the marker, capturing its current size as
// the baseline. startX is the pointer x position in container pixels.
func (d *Document) BeginResize(id string, startX float64) {
	i := d.index(id)
	if i < 0 {
		return
	}
	d.gesture = Resizing{ID: id, StartX: startX, InitialSize: d.markers[i].Size}
}

// UpdateResize applies a horizontal pointer delta to the resize baseline:
// size = clamp(round(initial+deltaX), 16, 200). No-op unless a resize is
// in progress.
func (d *Document) UpdateResize(deltaX float64) {
	g, ok := d.gesture.(Resizing)
	if !ok {
		return
	}
	if i := d.index(g.ID); i >= 0 {
		d.markers[i].Size = sticker.ClampSize(math.Round(g.InitialSize + deltaX))
		d.detect()
	}
}

// BeginRotate starts rotating the marker, capturing its current rotation
// as the baseline. startAngle is the pointer angle in radians around the
// marker center (see [geo.Angle]).
func (d *Document) BeginRotate(id string, startAngle float64) {
	i := d.index(id)
	if i < 0 {
		return
	}
	d.gesture = Rotating{ID: id, StartAngle: startAngle, InitialRotation: d.markers[i].Rotation}
}

// UpdateRotate applies the current pointer angle (radians):
// rotation = initial + (angle - startAngle) * 180/pi. Rotation is
// unbounded and wraps visually. No-op unless a rotation is in progress.
func (d *Document) UpdateRotate(angle float64) {
	g, ok := d.gesture.(Rotating)
	if !ok {
		return
	}
	if i := d.index(g.ID); i >= 0 {
		d.markers[i].Rotation = g.InitialRotation + geo.Degrees(angle-g.StartAngle)
		d.detect()
	}
}

// EndGesture completes whatever gesture is in progress.
func (d *Document) EndGesture() {
	d.gesture = GestureNone{}
}

// =============================================================================
// History & Transient State
// =============================================================================

// CanUndo reports whether an undo target exists.
func (d *Document) CanUndo() bool { return d.history.CanUndo() }

// CanRedo reports whether a redo target exists.
func (d *Document) CanRedo() bool { return d.history.CanRedo() }

// CurrentArtifact returns the artifact at the history cursor, or nil if no
// document is loaded.
func (d *Document) CurrentArtifact() []byte { return d.history.Current() }

// HistoryLen returns the number of committed artifacts.
func (d *Document) HistoryLen() int { return d.history.Len() }

// HistoryCursor returns the history index (-1 when no document is loaded).
func (d *Document) HistoryCursor() int { return d.history.Cursor() }

// LoadArtifact resets the session to a freshly loaded image: singleton
// history and all transient per-document state cleared (markers, broken
// links, selection, crop, prompt, tool reset to the default).
func (d *Document) LoadArtifact(artifact []byte) {
	d.history.Load(artifact)
	d.resetTransient(true)
}

// CommitArtifact records a new edit result. Any redo entries are
// discarded, and the same transient state as LoadArtifact is cleared.
func (d *Document) CommitArtifact(artifact []byte) {
	d.history.Commit(artifact)
	d.resetTransient(true)
}

// Undo steps the history cursor back. Markers and broken links are
// cleared (they described the now-abandoned edit in progress); the
// history itself is untouched. Returns false if there was nothing to undo.
func (d *Document) Undo() bool {
	if !d.history.Undo() {
		return false
	}
	d.resetTransient(false)
	return true
}

// Redo steps the history cursor forward, with the same transient clearing
// as Undo. Returns false if there was nothing to redo.
func (d *Document) Redo() bool {
	if !d.history.Redo() {
		return false
	}
	d.resetTransient(false)
	return true
}

// resetTransient clears per-document state after a history index change.
// A full reset (load/commit) additionally resets the tool, crop region,
// and prompt; undo/redo only invalidate markers, broken links, and the
// selection referencing them.
func (d *Document) resetTransient(full bool) {
	d.markers = nil
	d.broken = make(map[string]bool)
	d.selection = ""
	d.gesture = GestureNone{}
	if full {
		d.tool = DefaultTool
		d.binding = Binding{}
		d.crop = nil
		d.prompt = ""
	}
	d.detect()
}

// =============================================================================
// Busy State
// =============================================================================

// Busy reports whether the one external generation call is outstanding.
func (d *Document) Busy() bool { return d.busy }

// SetBusy toggles the global busy flag. While busy, commit actions and
// gesture-initiating controls are disabled at the binding layer; there is
// no queueing and no cancellation of the in-flight call.
func (d *Document) SetBusy(busy bool) { d.busy = busy }

// =============================================================================
// Crop & Prompt State
// =============================================================================

// SetCropRegion records a completed crop selection in display space.
func (d *Document) SetCropRegion(r CropRegion) { d.crop = &r }

// ClearCropRegion discards the crop selection.
func (d *Document) ClearCropRegion() { d.crop = nil }

// CropRegion returns the completed crop selection, or nil.
func (d *Document) CropRegion() *CropRegion { return d.crop }

// SetPrompt stores the free-text instruction for prompt-driven tools.
func (d *Document) SetPrompt(p string) { d.prompt = p }

// Prompt returns the stored free-text instruction.
func (d *Document) Prompt() string { return d.prompt }
