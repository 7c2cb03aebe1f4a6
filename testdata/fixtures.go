// Package testdata builds recorded tracking sessions for end-to-end tests.
package testdata

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/ayusman/leapmedia/internal/capture"
	"github.com/ayusman/leapmedia/internal/hand"
)

// FrameInterval is the spacing of frames in generated sessions.
const FrameInterval = 20 * time.Millisecond

// sessionStart is the service timestamp of the first frame.
const sessionStart = hand.Timestamp(5_000_000)

// Session builds frames holding whatever hands fn returns at each timestamp
// for d, starting at a fixed service time.
func Session(d time.Duration, fn func(ts hand.Timestamp) []hand.Sample) []hand.Frame {
	var frames []hand.Frame
	end := sessionStart.Add(d)
	for ts := sessionStart; ts <= end; ts = ts.Add(FrameInterval) {
		frames = append(frames, hand.Frame{
			ID:        int64(len(frames) + 1),
			Timestamp: ts,
			Hands:     fn(ts),
		})
	}
	return frames
}

// ToggleSession holds one open right hand in view for d.
func ToggleSession(actor int, d time.Duration) []hand.Frame {
	return Session(d, func(ts hand.Timestamp) []hand.Sample {
		return []hand.Sample{hand.OpenHand(actor, ts)}
	})
}

// LeftHandSession holds an open left hand in view for d.
func LeftHandSession(actor int, d time.Duration) []hand.Frame {
	return Session(d, func(ts hand.Timestamp) []hand.Sample {
		s := hand.OpenHand(actor, ts)
		s.Laterality = hand.Left
		return []hand.Sample{s}
	})
}

// WriteRecording saves frames to path in the service's wire format, one
// frame per line, after the handshake line the service sends first.
func WriteRecording(path string, frames []hand.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recording: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(`{"serviceVersion":"4.1.0","version":6}` + "\n"); err != nil {
		return err
	}
	for _, frame := range frames {
		data, err := capture.EncodeFrame(frame)
		if err != nil {
			return fmt.Errorf("encode frame %d: %w", frame.ID, err)
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
