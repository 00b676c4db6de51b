package editor

import "strings"

// Binding is the derived commit action for the currently active tool: a
// nullable zero-argument procedure plus its enabled predicate. The zero
// value {nil, false} is the reset state.
type Binding struct {
	Action  func() error
	Enabled bool
}

// Actions supplies the tool-specific commit procedures the binding
// dispatches to. The procedures are provided by the boundary layer (CLI),
// since applying an edit means calling the external generation or crop
// collaborator and committing its result.
type Actions struct {
	// ApplyStickers commits the current fusions, chains, and singles.
	ApplyStickers func() error
	// ApplyCrop commits the completed crop region.
	ApplyCrop func() error
	// ApplyPrompt commits a free-text instruction (filters/adjustments).
	ApplyPrompt func(prompt string) error
}

// Tool returns the active tool.
func (d *Document) Tool() Tool { return d.tool }

// SetTool switches the active tool. The stored binding is reset to
// {nil, false} first so a stale action can never fire under the wrong
// tool; callers re-derive with RefreshBinding afterwards.
func (d *Document) SetTool(t Tool) {
	if t == d.tool {
		return
	}
	d.tool = t
	d.binding = Binding{}
}

// ActionBinding returns the most recently derived binding. It is zero
// after a tool switch until RefreshBinding runs.
func (d *Document) ActionBinding() Binding { return d.binding }

// RefreshBinding re-derives the commit binding from the active tool and
// its relevant state. Call it whenever the tool or that state changes:
//
//   - stickers: apply all current fusions/chains/singles, enabled iff at
//     least one marker is placed
//   - crop: apply the crop, enabled iff a completed region has positive
//     width
//   - prompt tools: apply the instruction, enabled iff it is non-empty
//     after trimming
//
// The busy flag disables every commit action regardless of tool.
func (d *Document) RefreshBinding(acts Actions) Binding {
	b := Binding{}
	switch d.tool {
	case ToolStickers:
		b.Action = acts.ApplyStickers
		b.Enabled = len(d.markers) > 0
	case ToolCrop:
		b.Action = acts.ApplyCrop
		b.Enabled = d.crop != nil && d.crop.Positive()
	case ToolFilters, ToolAdjust:
		prompt := d.prompt
		if acts.ApplyPrompt != nil {
			b.Action = func() error { return acts.ApplyPrompt(prompt) }
		}
		b.Enabled = strings.TrimSpace(prompt) != ""
	}
	if b.Action == nil || d.busy {
		b.Enabled = false
	}
	d.binding = b
	return b
}
