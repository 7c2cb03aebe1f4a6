// Package hand provides the tracked-hand sample types and the pure classifier
// that derives gesture features from them.
package hand

import (
	"math"
	"time"
)

// Finger indices following the Leap Motion convention.
const (
	Thumb      = 0
	Index      = 1
	Middle     = 2
	Ring       = 3
	Pinky      = 4
	NumFingers = 5
)

// Timestamp is a point on the tracking service's monotonic clock, in microseconds.
type Timestamp int64

// Add returns the timestamp shifted by d.
func (t Timestamp) Add(d time.Duration) Timestamp {
	return t + Timestamp(d/time.Microsecond)
}

// Sub returns the duration t-u.
func (t Timestamp) Sub(u Timestamp) time.Duration {
	return time.Duration(t-u) * time.Microsecond
}

// Laterality tells a left hand from a right hand.
type Laterality string

const (
	// Left is a left hand.
	Left Laterality = "left"
	// Right is a right hand.
	Right Laterality = "right"
)

// Vector is a 3D vector in tracking-volume units (millimetres for positions).
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Yaw is the angle in radians between the negative z-axis and the projection
// of the vector onto the x-z plane.
func (v Vector) Yaw() float64 {
	return math.Atan2(v.X, -v.Z)
}

// Pitch is the angle in radians between the negative z-axis and the projection
// of the vector onto the y-z plane.
func (v Vector) Pitch() float64 {
	return math.Atan2(v.Y, -v.Z)
}

// Roll is the angle in radians between the negative y-axis and the projection
// of the vector onto the x-y plane. Range is (-π, π].
func (v Vector) Roll() float64 {
	return math.Atan2(v.X, -v.Y)
}

// DistanceTo returns the Euclidean distance between two points.
func (v Vector) DistanceTo(o Vector) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	dz := v.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// IsFinite reports whether every component is a finite number.
func (v Vector) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// Finger is one digit of a tracked hand.
type Finger struct {
	Type        int    `json:"type"`
	Direction   Vector `json:"direction"`
	TipPosition Vector `json:"tipPosition"`
}

// Sample is one frame's observation of a single tracked hand.
// The ID is stable across consecutive frames while the same physical hand is
// tracked and may be reassigned whenever tracking is lost.
type Sample struct {
	ID            int                `json:"id"`
	Timestamp     Timestamp          `json:"timestamp"`
	PalmPosition  Vector             `json:"palmPosition"`
	PalmNormal    Vector             `json:"palmNormal"`
	Direction     Vector             `json:"direction"`
	Fingers       [NumFingers]Finger `json:"fingers"`
	PinchDistance float64            `json:"pinchDistance"`
	PinchStrength float64            `json:"pinchStrength"`
	GrabStrength  float64            `json:"grabStrength"`
	TimeVisible   time.Duration      `json:"timeVisible"`
	Laterality    Laterality         `json:"laterality"`
}

// IsFinite reports whether every numeric reading of the sample is finite.
// Sources drop samples that fail this check.
func (s *Sample) IsFinite() bool {
	if !s.PalmPosition.IsFinite() || !s.PalmNormal.IsFinite() || !s.Direction.IsFinite() {
		return false
	}
	for _, f := range s.Fingers {
		if !f.Direction.IsFinite() || !f.TipPosition.IsFinite() {
			return false
		}
	}
	return isFinite(s.PinchDistance) && isFinite(s.PinchStrength) && isFinite(s.GrabStrength)
}

// Frame is everything the tracking service saw at one instant.
type Frame struct {
	ID        int64     `json:"id"`
	Timestamp Timestamp `json:"timestamp"`
	Hands     []Sample  `json:"hands"`
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
