package app

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/ayusman/leapmedia/internal/hand"
)

// runPipeline is the single consumer of the frame source. It opens the
// source, feeds every frame to the engine and reopens the source with an
// exponential backoff when it fails. It returns when ctx is cancelled or a
// finite source is exhausted.
func (a *App) runPipeline(ctx context.Context) {
	backoff := a.config.ReconnectMin
	paused := false

	for {
		err := a.config.Source.Open(ctx)
		if err == nil {
			backoff = a.config.ReconnectMin
			err = a.consume(ctx, &paused)
			a.config.Source.Close()
		}

		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, io.EOF) {
			log.Println("Frame source finished")
			return
		}

		log.Printf("Frame source error: %v (retrying in %s)", err, backoff)
		if !sleep(ctx, backoff) {
			return
		}
		backoff = min(backoff*2, a.config.ReconnectMax)
	}
}

// consume reads frames until the source fails.
func (a *App) consume(ctx context.Context, paused *bool) error {
	for {
		f, err := a.config.Source.ReadFrame(ctx)
		if err != nil {
			return err
		}

		if !a.IsEnabled() {
			if !*paused {
				// Release the current hand so resuming re-engages with a cue.
				a.process(hand.Frame{ID: f.ID, Timestamp: f.Timestamp})
				*paused = true
			}
			continue
		}
		*paused = false
		a.process(f)
	}
}

// process runs one frame through the engine and publishes the result.
func (a *App) process(f hand.Frame) {
	a.frameTS = f.Timestamp
	a.engine.SubmitFrame(f)
	a.frames.Add(1)

	st := a.engine.Snapshot()
	a.mu.Lock()
	a.state = st
	a.mu.Unlock()

	if a.config.Hands != nil {
		a.config.Hands.Publish(a.Status())
	}
}

// sleep waits for d or until ctx is done, reporting whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
