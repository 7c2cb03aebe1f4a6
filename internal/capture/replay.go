package capture

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ayusman/leapmedia/internal/hand"
)

// replayLoopGap separates the last frame of a pass from the first of the next.
const replayLoopGap = 10 * time.Millisecond

// ReplayConfig configures a ReplaySource.
type ReplayConfig struct {
	// Path is a file of frames in the service's JSON format, one per line.
	Path string
	// Loop restarts the recording when it ends. Timestamps keep increasing
	// across passes.
	Loop bool
	// Realtime sleeps between frames to match the recorded timing.
	Realtime bool
}

// ReplaySource plays back a recorded session.
type ReplaySource struct {
	config ReplayConfig

	mu      sync.Mutex
	file    *os.File
	scanner *bufio.Scanner

	offset   hand.Timestamp
	first    hand.Timestamp
	last     hand.Timestamp
	started  bool
	lastWall time.Time
}

// NewReplaySource creates a source for the recording in config.Path.
func NewReplaySource(config ReplayConfig) *ReplaySource {
	return &ReplaySource{config: config}
}

// Open opens the recording.
func (s *ReplaySource) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		return nil
	}
	if err := s.openFile(); err != nil {
		return err
	}
	s.offset, s.started = 0, false
	return nil
}

func (s *ReplaySource) openFile() error {
	f, err := os.Open(s.config.Path)
	if err != nil {
		return fmt.Errorf("failed to open recording: %w", err)
	}
	s.file = f
	s.scanner = bufio.NewScanner(f)
	s.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return nil
}

// ReadFrame returns the next recorded frame, or io.EOF at the end of a
// non-looping recording.
func (s *ReplaySource) ReadFrame(ctx context.Context) (hand.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return hand.Frame{}, ErrSourceClosed
	}

	wrapped := false
	for {
		if err := ctx.Err(); err != nil {
			return hand.Frame{}, err
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return hand.Frame{}, fmt.Errorf("failed to read recording: %w", err)
			}
			if !s.config.Loop || !s.started || wrapped {
				return hand.Frame{}, io.EOF
			}
			if err := s.rewind(); err != nil {
				return hand.Frame{}, err
			}
			wrapped = true
			continue
		}

		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		f, ok, _, err := DecodeFrame(line)
		if err != nil {
			log.Printf("Skipping malformed recording line: %v", err)
			continue
		}
		if !ok {
			continue
		}

		if !s.started {
			s.first, s.started = f.Timestamp, true
		}
		s.shift(&f)

		if s.config.Realtime {
			if err := s.pace(ctx, f.Timestamp); err != nil {
				return hand.Frame{}, err
			}
		}
		s.last = f.Timestamp
		return f, nil
	}
}

// rewind reopens the recording so the next pass continues after the last
// timestamp delivered.
func (s *ReplaySource) rewind() error {
	s.file.Close()
	if err := s.openFile(); err != nil {
		s.file = nil
		return err
	}
	s.offset = s.last.Add(replayLoopGap) - s.first
	return nil
}

func (s *ReplaySource) shift(f *hand.Frame) {
	f.Timestamp += s.offset
	for i := range f.Hands {
		f.Hands[i].Timestamp = f.Timestamp
	}
}

func (s *ReplaySource) pace(ctx context.Context, ts hand.Timestamp) error {
	now := time.Now()
	if !s.lastWall.IsZero() {
		if wait := ts.Sub(s.last) - now.Sub(s.lastWall); wait > 0 {
			t := time.NewTimer(wait)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
			}
		}
	}
	s.lastWall = time.Now()
	return nil
}

// Close closes the recording.
func (s *ReplaySource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.lastWall = time.Time{}
	return err
}
