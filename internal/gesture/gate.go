package gesture

import (
	"github.com/ayusman/leapmedia/internal/hand"
)

// Verdict is the outcome of a gate check.
type Verdict int

const (
	// Eligible samples reach the detectors.
	Eligible Verdict = iota
	// NoActor means the frame held no hand.
	NoActor
	// MultipleActors means more than one hand was in the frame.
	MultipleActors
	// WrongLaterality means the hand is not the one the pipeline targets.
	WrongLaterality
	// OutOfBounds means the palm left the active region.
	OutOfBounds
	// UsingMouse means the hand looks busy with a mouse or keyboard.
	UsingMouse
)

var verdictNames = [...]string{
	Eligible:        "eligible",
	NoActor:         "no-actor",
	MultipleActors:  "multiple-actors",
	WrongLaterality: "wrong-laterality",
	OutOfBounds:     "out-of-bounds",
	UsingMouse:      "using-mouse",
}

// String returns the verdict name.
func (v Verdict) String() string {
	if v < 0 || int(v) >= len(verdictNames) {
		return "unknown"
	}
	return verdictNames[v]
}

// MarshalText encodes the verdict by name.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Gate decides whether a classified sample may reach the detectors.
// It is stateless.
type Gate struct {
	Laterality hand.Laterality
}

// NewGate returns a gate for the given hand.
func NewGate(l hand.Laterality) Gate {
	return Gate{Laterality: l}
}

// Check returns the verdict for a sample seen in a frame with handCount hands.
// A nil sample is only valid together with handCount 0.
func (g Gate) Check(handCount int, s *hand.Classified) Verdict {
	switch {
	case handCount == 0 || s == nil:
		return NoActor
	case handCount > 1:
		return MultipleActors
	case s.Laterality != g.Laterality:
		return WrongLaterality
	case !s.IsInBounds:
		return OutOfBounds
	case s.IsUsingMouse:
		return UsingMouse
	default:
		return Eligible
	}
}

// Eligible reports whether Check returns Eligible.
func (g Gate) Eligible(handCount int, s *hand.Classified) bool {
	return g.Check(handCount, s) == Eligible
}
