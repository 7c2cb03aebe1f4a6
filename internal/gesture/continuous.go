package gesture

import (
	"math"
	"time"

	"github.com/ayusman/leapmedia/internal/hand"
)

// DefaultDirectionDebounce is how long a continuous detector refuses to fire
// in the direction opposite to its last fire.
const DefaultDirectionDebounce = 500 * time.Millisecond

// ContinuousConfig configures a Continuous detector.
type ContinuousConfig struct {
	// CanGesture gates every sample. Nil means always.
	CanGesture func(*hand.Classified) bool
	// Scalar extracts the tracked value. Wrapping angles must be folded first.
	Scalar    func(*hand.Classified) float64
	Threshold float64
	// OnTrigger receives true when the scalar rose past the threshold.
	OnTrigger         func(increase bool)
	DirectionDebounce time.Duration
}

// Continuous fires a directional action each time a scalar moves at least
// Threshold away from the value at the last fire. Reversals are suppressed
// for DirectionDebounce after a fire in the other direction. It is not scoped
// to an actor.
type Continuous struct {
	cfg ContinuousConfig

	lastTriggerValue optional[float64]
	lastIncrease     optional[hand.Timestamp]
	lastDecrease     optional[hand.Timestamp]
}

// NewContinuous creates a continuous detector.
func NewContinuous(cfg ContinuousConfig) (*Continuous, error) {
	if cfg.Scalar == nil || cfg.OnTrigger == nil {
		return nil, ErrMissingFunc
	}
	if !(cfg.Threshold > 0) {
		return nil, ErrNonPositiveThreshold
	}
	if cfg.DirectionDebounce <= 0 {
		return nil, ErrNonPositiveDuration
	}
	return &Continuous{cfg: cfg}, nil
}

// OnSample implements Detector.
func (c *Continuous) OnSample(_ int, ts hand.Timestamp, s *hand.Classified) {
	if c.cfg.CanGesture != nil && !c.cfg.CanGesture(s) {
		return
	}

	v := c.cfg.Scalar(s)
	last, ok := c.lastTriggerValue.get()
	if !ok {
		c.lastTriggerValue = some(v)
		return
	}

	diff := v - last
	if math.Abs(diff) < c.cfg.Threshold {
		return
	}

	increase := diff >= 0
	if increase {
		if within(c.lastDecrease, c.cfg.DirectionDebounce, ts) {
			return
		}
		c.lastIncrease = some(ts)
	} else {
		if within(c.lastIncrease, c.cfg.DirectionDebounce, ts) {
			return
		}
		c.lastDecrease = some(ts)
	}

	c.lastTriggerValue = some(v)
	c.cfg.OnTrigger(increase)
}

// FoldAngle maps an angle in (-π, π] onto [0, 2π) so that a rotation through
// the ±π seam does not look like a full turn.
func FoldAngle(rad float64) float64 {
	if rad >= 0 {
		return rad
	}
	return 2*math.Pi + rad
}
