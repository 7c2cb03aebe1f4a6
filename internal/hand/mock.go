package hand

import (
	"math"
	"time"
)

// closedSpread and openSpread are finger angles, in radians, relative to the
// middle finger for thumb, index, middle, ring and pinky.
var (
	closedSpread = [NumFingers]float64{0, 0, 0, 0, 0}
	openSpread   = [NumFingers]float64{-0.9, -0.3, 0, 0.3, 0.6}
)

// NewSample returns a relaxed, closed right hand hovering over the sensor
// origin. It is a starting point for fixtures and tests.
func NewSample(id int, ts Timestamp) Sample {
	s := Sample{
		ID:            id,
		Timestamp:     ts,
		PalmPosition:  Vector{X: 0, Y: 150, Z: 0},
		PalmNormal:    Vector{X: 0, Y: -1, Z: 0},
		Direction:     Vector{X: 0, Y: 0, Z: -1},
		PinchDistance: 80,
		TimeVisible:   time.Second,
		Laterality:    Right,
	}
	s.setSpread(closedSpread)
	return s
}

// OpenHand returns a right hand with the fingers spread wide.
func OpenHand(id int, ts Timestamp) Sample {
	s := NewSample(id, ts)
	s.setSpread(openSpread)
	return s
}

// ClosedHand returns a right hand with the fingers together.
func ClosedHand(id int, ts Timestamp) Sample {
	return NewSample(id, ts)
}

// PointingHand returns a closed right hand turned to the given yaw.
func PointingHand(id int, ts Timestamp, yaw float64) Sample {
	s := NewSample(id, ts)
	s.Direction = Vector{X: math.Sin(yaw), Y: 0, Z: -math.Cos(yaw)}
	return s
}

// RolledHand returns a closed right hand rolled to the given palm angle.
func RolledHand(id int, ts Timestamp, roll float64) Sample {
	s := NewSample(id, ts)
	s.PalmNormal = Vector{X: math.Sin(roll), Y: -math.Cos(roll), Z: 0}
	return s
}

func (s *Sample) setSpread(spread [NumFingers]float64) {
	base := math.Pi / 2
	for i := range s.Fingers {
		angle := base + spread[i]
		s.Fingers[i] = Finger{
			Type:      i,
			Direction: Vector{X: math.Cos(angle), Y: math.Sin(angle), Z: -0.5},
			TipPosition: Vector{
				X: s.PalmPosition.X + 60*math.Cos(angle),
				Y: s.PalmPosition.Y,
				Z: s.PalmPosition.Z - 60*math.Sin(angle),
			},
		}
	}
}
