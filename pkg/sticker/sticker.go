// Package sticker defines the marker model: a user-placed, tagged point on
// a photo with a size, rotation, and an impact hint for the generation
// service.
//
// Marker identities are unique within a live marker set. Positions are
// percent-relative (see [geo.Pos]); sizes are pixel units clamped to
// [MinSize, MaxSize].
package sticker

import (
	"github.com/google/uuid"

	"github.com/mlehnert/stickerforge/pkg/geo"
)

// Size limits for markers, in pixels.
const (
	// MinSize is the smallest allowed marker size.
	MinSize = 16
	// MaxSize is the largest allowed marker size.
	MaxSize = 200
	// DefaultSize is the size assigned to newly placed markers.
	DefaultSize = 48
)

// Impact is the strength hint passed to the generation service.
// It is not a detection input; changing it never requires a relationship
// recompute.
type Impact string

// Impact levels.
const (
	ImpactSubtle   Impact = "subtle"
	ImpactArtistic Impact = "artistic"
	ImpactTotal    Impact = "total"
)

// DefaultImpact is the impact level assigned to newly placed markers.
const DefaultImpact = ImpactSubtle

// Valid reports whether the impact level is one of the known values.
func (i Impact) Valid() bool {
	switch i {
	case ImpactSubtle, ImpactArtistic, ImpactTotal:
		return true
	}
	return false
}

// Next cycles to the following impact level, wrapping around.
func (i Impact) Next() Impact {
	switch i {
	case ImpactSubtle:
		return ImpactArtistic
	case ImpactArtistic:
		return ImpactTotal
	default:
		return ImpactSubtle
	}
}

// Marker is a placed sticker. The zero value is not usable - use New.
type Marker struct {
	ID       string  `json:"id"`
	Tag      string  `json:"tag"`
	Pos      geo.Pos `json:"pos"`
	Size     float64 `json:"size"`
	Rotation float64 `json:"rotation"` // degrees, unbounded (wraps visually)
	Impact   Impact  `json:"impact"`
}

// New creates a marker with a fresh identity, default size, zero rotation,
// and the default impact level.
func New(tag string, pos geo.Pos) Marker {
	return Marker{
		ID:     NewID(),
		Tag:    tag,
		Pos:    pos,
		Size:   DefaultSize,
		Impact: DefaultImpact,
	}
}

// NewID returns a collision-resistant unique marker identity.
// The only contract is uniqueness within a live marker set's lifetime.
func NewID() string {
	return uuid.NewString()
}

// ClampSize restricts a size to the [MinSize, MaxSize] range.
func ClampSize(size float64) float64 {
	return geo.Clamp(size, MinSize, MaxSize)
}

// SizeCategory is the coarse size band sent to the generation service
// instead of raw pixel sizes.
type SizeCategory string

// Size categories, from smallest to largest.
const (
	SizeTiny   SizeCategory = "tiny"
	SizeSmall  SizeCategory = "small"
	SizeMedium SizeCategory = "medium"
	SizeLarge  SizeCategory = "large"
	SizeHuge   SizeCategory = "huge"
)

// Categorize maps a pixel size onto its band: tiny <32, small [32,64),
// medium [64,128), large [128,180), huge >=180.
func Categorize(size float64) SizeCategory {
	switch {
	case size < 32:
		return SizeTiny
	case size < 64:
		return SizeSmall
	case size < 128:
		return SizeMedium
	case size < 180:
		return SizeLarge
	default:
		return SizeHuge
	}
}
