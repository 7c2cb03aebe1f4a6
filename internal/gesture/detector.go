// Package gesture turns a stream of classified hand samples into rate-limited
// media actions. It holds the activity gate, the actor continuity tracker,
// the debounce detectors and the engine that wires them together.
//
// Nothing in this package blocks, logs or starts goroutines. Callers must
// serialize calls into an Engine.
package gesture

import (
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/leapmedia/internal/hand"
)

// Configuration errors returned by the constructors.
var (
	// ErrInvalidConfig is the base error for every rejected configuration.
	ErrInvalidConfig = errors.New("invalid gesture configuration")
	// ErrNonPositiveDuration is returned when a hold, cooldown, spacing or
	// debounce interval is zero or negative.
	ErrNonPositiveDuration = fmt.Errorf("%w: duration must be positive", ErrInvalidConfig)
	// ErrNonPositiveThreshold is returned when a crossing threshold is zero or negative.
	ErrNonPositiveThreshold = fmt.Errorf("%w: threshold must be positive", ErrInvalidConfig)
	// ErrMissingFunc is returned when a required predicate, extractor or callback is nil.
	ErrMissingFunc = fmt.Errorf("%w: required function is nil", ErrInvalidConfig)
)

// Detector is a stateful hysteresis machine fed with every eligible sample.
// Implementations own their state exclusively and never observe each other.
type Detector interface {
	OnSample(actorID int, ts hand.Timestamp, s *hand.Classified)
}

// optional is a value that may be unset.
type optional[T any] struct {
	value T
	set   bool
}

func some[T any](v T) optional[T] {
	return optional[T]{value: v, set: true}
}

func (o optional[T]) get() (T, bool) {
	return o.value, o.set
}

// within reports whether ts falls inside the window of length d that opened
// at o. An unset watermark never contains anything.
func within(o optional[hand.Timestamp], d time.Duration, ts hand.Timestamp) bool {
	start, ok := o.get()
	return ok && ts <= start.Add(d)
}
