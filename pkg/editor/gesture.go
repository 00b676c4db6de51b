package editor

// Gesture is the single in-progress manipulation gesture. At most one
// gesture is active at a time; the variants are mutually exclusive by
// construction. Starting a new gesture replaces whatever was in progress.
//
// The zero state is GestureNone.
type Gesture interface {
	// TargetID returns the marker the gesture operates on, or "" for
	// GestureNone.
	TargetID() string

	gesture()
}

// GestureNone means no gesture is in progress.
type GestureNone struct{}

func (GestureNone) TargetID() string { return "" }
func (GestureNone) gesture()         {}

// Dragging moves a marker under the pointer.
type Dragging struct {
	ID string
}

func (g Dragging) TargetID() string { return g.ID }
func (Dragging) gesture()           {}

// Resizing scales a marker from a captured baseline. StartX is the pointer
// x position when the gesture began; InitialSize the marker size at that
// moment.
type Resizing struct {
	ID          string
	StartX      float64
	InitialSize float64
}

func (g Resizing) TargetID() string { return g.ID }
func (Resizing) gesture()           {}

// Rotating spins a marker around its center. StartAngle is the pointer
// angle (radians) around the marker center when the gesture began;
// InitialRotation the marker rotation in degrees at that moment.
type Rotating struct {
	ID              string
	StartAngle      float64
	InitialRotation float64
}

func (g Rotating) TargetID() string { return g.ID }
func (Rotating) gesture()           {}
