package capture

import (
	"context"
	"io"
	"sync"

	"github.com/ayusman/leapmedia/internal/hand"
)

// MockSource plays back in-memory frames for testing
type MockSource struct {
	frames  []hand.Frame
	index   int
	loop    bool
	mu      sync.Mutex
	running bool
	opens   int
}

func NewMockSource(frames []hand.Frame, loop bool) *MockSource {
	return &MockSource{
		frames: frames,
		loop:   loop,
	}
}

func (s *MockSource) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.opens++
	return nil
}

func (s *MockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return nil
}

func (s *MockSource) ReadFrame(ctx context.Context) (hand.Frame, error) {
	if err := ctx.Err(); err != nil {
		return hand.Frame{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return hand.Frame{}, ErrSourceClosed
	}

	if s.index >= len(s.frames) {
		if !s.loop || len(s.frames) == 0 {
			return hand.Frame{}, io.EOF
		}
		s.index = 0
	}

	f := s.frames[s.index]
	f.Hands = append([]hand.Sample(nil), f.Hands...)
	s.index++
	return f, nil
}

// Opens returns how many times Open has been called.
func (s *MockSource) Opens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens
}

// SetFrames replaces the frame sequence
func (s *MockSource) SetFrames(frames []hand.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = frames
	s.index = 0
}

// Reset restarts playback from the beginning
func (s *MockSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
}
