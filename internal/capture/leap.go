package capture

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/leapmedia/internal/hand"
)

// Leap connection settings.
const (
	// DefaultHandshakeTimeout bounds the WebSocket handshake.
	DefaultHandshakeTimeout = 5 * time.Second
	// DefaultReadTimeout is how long a connection may stay silent before it
	// is considered dead. The service streams frames even with no hands in view.
	DefaultReadTimeout = 5 * time.Second
)

// LeapSource reads frames from the Leap Motion service's WebSocket feed.
type LeapSource struct {
	url         string
	dialer      websocket.Dialer
	readTimeout time.Duration

	mu      sync.Mutex
	conn    *websocket.Conn
	stop    func() bool
	dropped int64
}

// NewLeapSource creates a source for the service at url, typically
// ws://127.0.0.1:6437/v6.json.
func NewLeapSource(url string) *LeapSource {
	return &LeapSource{
		url:         url,
		dialer:      websocket.Dialer{HandshakeTimeout: DefaultHandshakeTimeout},
		readTimeout: DefaultReadTimeout,
	}
}

// Open connects to the service and asks it to stream frames even while
// leapmedia is in the background. Cancelling ctx closes the connection.
func (s *LeapSource) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return nil
	}

	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", s.url, err)
	}

	for _, msg := range []any{
		map[string]bool{"background": true},
		map[string]bool{"enableGestures": false},
	} {
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			return fmt.Errorf("failed to configure tracking service: %w", err)
		}
	}

	s.conn = conn
	s.stop = context.AfterFunc(ctx, func() { s.Close() })
	log.Printf("Connected to tracking service at %s", s.url)
	return nil
}

// ReadFrame blocks until the next frame arrives. The handshake message is skipped.
func (s *LeapSource) ReadFrame(ctx context.Context) (hand.Frame, error) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return hand.Frame{}, ErrSourceClosed
	}

	for {
		if err := ctx.Err(); err != nil {
			return hand.Frame{}, err
		}

		conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return hand.Frame{}, ctx.Err()
			}
			return hand.Frame{}, fmt.Errorf("failed to read frame: %w", err)
		}

		f, ok, dropped, err := DecodeFrame(data)
		if err != nil {
			log.Printf("Skipping malformed message: %v", err)
			continue
		}
		if dropped > 0 {
			s.mu.Lock()
			s.dropped += int64(dropped)
			s.mu.Unlock()
		}
		if ok {
			return f, nil
		}
	}
}

// Dropped returns how many hands were discarded for non-finite readings.
func (s *LeapSource) Dropped() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close closes the connection. It is safe to call more than once.
func (s *LeapSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}

	s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := s.conn.Close()
	s.conn = nil
	return err
}
