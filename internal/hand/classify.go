package hand

import (
	"math"
)

// Classifier thresholds.
const (
	// OpenAngleSum is the finger spread, in radians, at which a hand counts as open.
	OpenAngleSum = 2.0
	// PointLeftYaw is the yaw at or above which the hand points left.
	PointLeftYaw = 0.5
	// PointRightYaw is the yaw at or below which the hand points right.
	// Deliberately closer to centre than PointLeftYaw.
	PointRightYaw = -0.4
	// BoundsX and BoundsZ bound the active region around the sensor origin.
	BoundsX = 100.0
	BoundsZ = 100.0
	// MousePinchDistance is the thumb-index distance at or below which the hand
	// is assumed to be holding a mouse.
	MousePinchDistance = 45.0
	// MaxPinchStrength and MaxGrabStrength are the largest strengths still
	// treated as a free hand.
	MaxPinchStrength = 0.0
	MaxGrabStrength  = 0.0
)

// Pointing is the coarse horizontal direction a hand points in.
type Pointing int

const (
	PointingCenter Pointing = iota
	PointingLeft
	PointingRight
)

// String returns the pointing direction name.
func (p Pointing) String() string {
	switch p {
	case PointingLeft:
		return "left"
	case PointingRight:
		return "right"
	default:
		return "center"
	}
}

// MarshalText encodes the direction by name.
func (p Pointing) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Classified is a sample together with the features derived from it.
type Classified struct {
	Sample

	OpennessAngleSum float64  `json:"opennessAngleSum"`
	IsOpen           bool     `json:"isOpen"`
	Pointing         Pointing `json:"pointing"`
	IsInBounds       bool     `json:"isInBounds"`
	IsUsingMouse     bool     `json:"isUsingMouse"`
	Roll             float64  `json:"roll"`
	Pitch            float64  `json:"pitch"`
	Yaw              float64  `json:"yaw"`
}

// Classify derives the gesture features of a sample. It is a pure function.
func Classify(s Sample) Classified {
	c := Classified{
		Sample: s,
		Roll:   s.PalmNormal.Roll(),
		Pitch:  s.Direction.Pitch(),
		Yaw:    s.Direction.Yaw(),
	}

	c.OpennessAngleSum = opennessAngleSum(&s)
	c.IsOpen = c.OpennessAngleSum >= OpenAngleSum

	switch {
	case c.Yaw >= PointLeftYaw:
		c.Pointing = PointingLeft
	case c.Yaw <= PointRightYaw:
		c.Pointing = PointingRight
	default:
		c.Pointing = PointingCenter
	}

	c.IsInBounds = math.Abs(s.PalmPosition.X) <= BoundsX && math.Abs(s.PalmPosition.Z) <= BoundsZ

	c.IsUsingMouse = s.PinchDistance <= MousePinchDistance ||
		s.PinchStrength > MaxPinchStrength ||
		s.GrabStrength > MaxGrabStrength

	return c
}

// opennessAngleSum sums the in-plane angles between the middle finger and each
// other finger. Fingers on the thumb side count positively on a right hand and
// the ring and pinky count negatively; a left hand mirrors this.
func opennessAngleSum(s *Sample) float64 {
	middle := s.Fingers[Middle].Direction
	base := math.Atan2(middle.Y, middle.X)

	var sum float64
	for i, f := range s.Fingers {
		if i == Middle {
			continue
		}
		angle := base - math.Atan2(f.Direction.Y, f.Direction.X)

		thumbSide := i < Middle
		if s.Laterality == Left {
			thumbSide = !thumbSide
		}
		if thumbSide {
			sum += angle
		} else {
			sum -= angle
		}
	}
	return sum
}
