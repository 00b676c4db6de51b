package editor

// History is the linear, branch-truncating undo/redo stack of committed
// artifacts (immutable image blobs).
//
// The cursor is always within [-1, len-1]; -1 means no document is loaded.
// Committing while the cursor is not at the end discards every entry after
// the cursor before appending: redo history is lost on new edits. There is
// no multi-branch tree; the semantics are strictly linear-with-discard.
//
// Artifacts are never mutated in place. Data is copied on ingest so later
// changes to the caller's slice cannot reach committed history.
type History struct {
	artifacts [][]byte
	cursor    int
}

// NewHistory returns an empty history with no document loaded.
func NewHistory() History {
	return History{cursor: -1}
}

// Load resets the history to a singleton containing artifact, cursor 0.
func (h *History) Load(artifact []byte) {
	h.artifacts = [][]byte{clone(artifact)}
	h.cursor = 0
}

// Commit truncates any redo entries past the cursor, appends artifact, and
// moves the cursor to the new end.
func (h *History) Commit(artifact []byte) {
	h.artifacts = append(h.artifacts[:h.cursor+1], clone(artifact))
	h.cursor = len(h.artifacts) - 1
}

// Undo moves the cursor back one entry. Returns false (and does nothing)
// if there is nothing to undo.
func (h *History) Undo() bool {
	if !h.CanUndo() {
		return false
	}
	h.cursor--
	return true
}

// Redo moves the cursor forward one entry. Returns false (and does
// nothing) if there is nothing to redo.
func (h *History) Redo() bool {
	if !h.CanRedo() {
		return false
	}
	h.cursor++
	return true
}

// CanUndo reports whether an earlier artifact exists.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether a later artifact exists.
func (h *History) CanRedo() bool { return h.cursor < len(h.artifacts)-1 }

// Current returns the artifact at the cursor, or nil if no document is
// loaded. The returned slice must not be modified.
func (h *History) Current() []byte {
	if h.cursor < 0 {
		return nil
	}
	return h.artifacts[h.cursor]
}

// Cursor returns the current history index (-1 when empty).
func (h *History) Cursor() int { return h.cursor }

// Len returns the number of committed artifacts.
func (h *History) Len() int { return len(h.artifacts) }

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
