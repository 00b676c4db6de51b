// Package genai is the client for the external image-generation service.
//
// The service receives the current artifact plus either a free-text
// instruction (filters/adjustments) or a structured list of placement
// descriptors derived from the editor's relationship detection, and
// returns a modified artifact. All service failures are mapped onto the
// application error taxonomy; callers treat them uniformly (surface a
// message, leave history unmodified, clear the busy state).
package genai

import (
	"github.com/mlehnert/stickerforge/pkg/geo"
	"github.com/mlehnert/stickerforge/pkg/sticker"
)

// Kind tags a placement descriptor.
type Kind string

// Placement kinds.
const (
	KindSingle Kind = "single"
	KindFusion Kind = "fusion"
	KindChain  Kind = "chain"
)

// Placement describes one compositional element sent to the service: a
// lone marker, a fusion group, or a chain. Positions are representative
// (averaged over group members); sizes are reported as coarse categories.
type Placement struct {
	Kind   Kind                 `json:"kind"`
	Tags   []string             `json:"tags"`
	Pos    geo.Pos              `json:"pos"`
	Size   sticker.SizeCategory `json:"size"`
	Impact sticker.Impact       `json:"impact"`
}

// Request is one generation call.
type Request struct {
	// Artifact is the current image the edit applies to.
	Artifact []byte
	// Instruction is a free-text edit instruction. Mutually exclusive
	// with Placements.
	Instruction string
	// Placements is the structured composition description.
	Placements []Placement
}

// wireRequest is the JSON body sent to the service.
type wireRequest struct {
	Image       string      `json:"image"` // base64-encoded source artifact
	Instruction string      `json:"instruction"`
	Placements  []Placement `json:"placements,omitempty"`
}

// wireResponse is the JSON envelope returned by the service.
type wireResponse struct {
	Image        string `json:"image,omitempty"` // base64-encoded result
	FinishReason string `json:"finish_reason"`   // "ok", "blocked", "degraded"
	Error        string `json:"error,omitempty"`
}

// Finish reasons reported by the service.
const (
	finishOK       = "ok"
	finishBlocked  = "blocked"
	finishDegraded = "degraded"
)
