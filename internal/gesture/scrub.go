package gesture

import (
	"math"
	"time"

	"github.com/ayusman/leapmedia/internal/hand"
)

// Default scrub detector settings.
const (
	DefaultScrubThreshold      = 30.0
	DefaultScrubMinTimeVisible = 500 * time.Millisecond
)

// ScrubConfig configures a Scrub detector.
type ScrubConfig struct {
	// Position extracts the tracked coordinate. Nil means palm x.
	Position       func(*hand.Classified) float64
	Threshold      float64
	MinTimeVisible time.Duration
	OnTrigger      func(increase bool)
}

// DefaultScrubConfig returns a palm-x scrub configuration. OnTrigger must
// still be set.
func DefaultScrubConfig() ScrubConfig {
	return ScrubConfig{
		Threshold:      DefaultScrubThreshold,
		MinTimeVisible: DefaultScrubMinTimeVisible,
	}
}

// Scrub fires increase or decrease each time a coordinate moves Threshold
// away from the last fire, once the hand has been visible long enough. Unlike
// Continuous it has no direction debounce, so back-and-forth motion fires in
// both directions.
type Scrub struct {
	cfg  ScrubConfig
	last optional[float64]
}

// NewScrub creates a scrub detector.
func NewScrub(cfg ScrubConfig) (*Scrub, error) {
	if cfg.OnTrigger == nil {
		return nil, ErrMissingFunc
	}
	if !(cfg.Threshold > 0) {
		return nil, ErrNonPositiveThreshold
	}
	if cfg.MinTimeVisible <= 0 {
		return nil, ErrNonPositiveDuration
	}
	if cfg.Position == nil {
		cfg.Position = palmX
	}
	return &Scrub{cfg: cfg}, nil
}

// OnSample implements Detector.
func (d *Scrub) OnSample(_ int, _ hand.Timestamp, s *hand.Classified) {
	if s.TimeVisible <= d.cfg.MinTimeVisible {
		return
	}

	v := d.cfg.Position(s)
	last, ok := d.last.get()
	if !ok {
		d.last = some(v)
		return
	}

	diff := v - last
	if math.Abs(diff) < d.cfg.Threshold {
		return
	}

	d.last = some(v)
	d.cfg.OnTrigger(diff >= 0)
}

func palmX(s *hand.Classified) float64 {
	return s.PalmPosition.X
}
