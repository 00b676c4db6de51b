// Package geo provides geometry primitives for marker placement.
//
// Marker positions are stored as percentages (0-100) relative to the
// displayed image, so they survive container resizing. All distance math
// converts to pixel space against the live container dimensions first;
// a container that has not been measured yet has zero dimensions and
// callers must skip detection rather than compute against it.
package geo

import "math"

// Pos is a position in percent coordinates (0-100) relative to the
// image's displayed bounding box.
type Pos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Container holds the rendered pixel dimensions of the image container.
// The zero value means "not yet measured".
type Container struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether the container has been measured.
// Detection must not run against an unmeasured container.
func (c Container) Valid() bool {
	return c.Width > 0 && c.Height > 0
}

// Pixels converts a percent position to pixel space within the container.
func (c Container) Pixels(p Pos) (x, y float64) {
	return p.X / 100 * c.Width, p.Y / 100 * c.Height
}

// Distance returns the Euclidean distance in pixels between two percent
// positions, scaled to the container's current dimensions. It must be
// recomputed against live dimensions on every call since the container
// may have resized.
func Distance(a, b Pos, c Container) float64 {
	ax, ay := c.Pixels(a)
	bx, by := c.Pixels(b)
	return math.Hypot(ax-bx, ay-by)
}

// ClampPercent clamps a percent position into the [0,100] range on both axes.
func ClampPercent(p Pos) Pos {
	return Pos{
		X: clamp(p.X, 0, 100),
		Y: clamp(p.Y, 0, 100),
	}
}

// Clamp restricts v to the [lo, hi] range.
func Clamp(v, lo, hi float64) float64 {
	return clamp(v, lo, hi)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Angle returns the angle in radians from the point (cx, cy) to (px, py),
// as computed by math.Atan2. Used to derive rotation gestures from pointer
// positions around a marker's center.
func Angle(px, py, cx, cy float64) float64 {
	return math.Atan2(py-cy, px-cx)
}

// Degrees converts an angle in radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
