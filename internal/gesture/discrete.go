package gesture

import (
	"time"

	"github.com/ayusman/leapmedia/internal/hand"
)

// Default discrete detector timings.
const (
	// DefaultMinHold is how long a predicate must hold before it can fire.
	DefaultMinHold = 100 * time.Millisecond
	// DefaultMinCooldown is how long into a hold the release must come before
	// the same actor is re-armed.
	DefaultMinCooldown = 100 * time.Millisecond
	// DefaultMinActionSpacing is the minimum time between two fires of one detector.
	DefaultMinActionSpacing = 500 * time.Millisecond
)

// DiscreteConfig configures a Discrete detector.
type DiscreteConfig struct {
	Predicate        func(*hand.Classified) bool
	OnTrigger        func()
	MinHold          time.Duration
	MinCooldown      time.Duration
	MinActionSpacing time.Duration
}

// DefaultDiscreteConfig returns a configuration with the default timings.
// Predicate and OnTrigger must still be set.
func DefaultDiscreteConfig() DiscreteConfig {
	return DiscreteConfig{
		MinHold:          DefaultMinHold,
		MinCooldown:      DefaultMinCooldown,
		MinActionSpacing: DefaultMinActionSpacing,
	}
}

// Discrete fires once per sustained occurrence of a boolean predicate on a
// single actor. A hold must last longer than MinHold, the actor that fired is
// locked out until it releases, and fires are spaced by MinActionSpacing
// regardless of which actor triggers them.
type Discrete struct {
	cfg DiscreteConfig

	isMaking       bool
	lastActorID    optional[int]
	holdStart      hand.Timestamp
	lastActionTime optional[hand.Timestamp]
	lockedActorID  optional[int]
}

// NewDiscrete creates a discrete detector.
func NewDiscrete(cfg DiscreteConfig) (*Discrete, error) {
	if cfg.Predicate == nil || cfg.OnTrigger == nil {
		return nil, ErrMissingFunc
	}
	if cfg.MinHold <= 0 || cfg.MinCooldown <= 0 || cfg.MinActionSpacing <= 0 {
		return nil, ErrNonPositiveDuration
	}
	return &Discrete{cfg: cfg}, nil
}

// OnSample implements Detector.
func (d *Discrete) OnSample(actorID int, ts hand.Timestamp, s *hand.Classified) {
	last, ok := d.lastActorID.get()
	wasMaking := d.isMaking && ok && last == actorID
	d.isMaking = d.cfg.Predicate(s)
	d.lastActorID = some(actorID)

	if !wasMaking && d.isMaking {
		d.holdStart = ts
	} else if !d.isMaking {
		if wasMaking && ts >= d.holdStart.Add(d.cfg.MinCooldown) {
			d.lockedActorID = optional[int]{}
		}
		return
	}

	if ts <= d.holdStart.Add(d.cfg.MinHold) {
		return
	}
	if locked, ok := d.lockedActorID.get(); ok && locked == actorID {
		return
	}
	if within(d.lastActionTime, d.cfg.MinActionSpacing, ts) {
		return
	}

	d.lastActionTime = some(ts)
	d.lockedActorID = some(actorID)
	d.cfg.OnTrigger()
}
