// Package capture acquires hand-tracking frames from the Leap Motion service,
// from recordings, or from in-memory fixtures.
package capture

import (
	"context"
	"errors"

	"github.com/ayusman/leapmedia/internal/hand"
)

// ErrSourceClosed is returned when reading from a source that is not open.
var ErrSourceClosed = errors.New("frame source is not open")

// Source produces tracking frames in timestamp order. Finite-ness of every
// delivered sample is guaranteed; samples with NaN or Inf readings are dropped.
// Sources return io.EOF once a finite recording is exhausted.
type Source interface {
	Open(ctx context.Context) error
	ReadFrame(ctx context.Context) (hand.Frame, error)
	Close() error
}
