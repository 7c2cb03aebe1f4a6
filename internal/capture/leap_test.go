package capture

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/leapmedia/internal/hand"
)

// fakeService mimics the tracking service: it records the configuration
// messages it receives, sends the handshake and then the given frames.
func fakeService(t *testing.T, frames []hand.Frame, received chan<- string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for i := 0; i < 2; i++ {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- string(msg)
		}

		conn.WriteMessage(websocket.TextMessage, []byte(`{"serviceVersion":"2.3.1","version":6}`))
		for _, f := range frames {
			data, err := EncodeFrame(f)
			if err != nil {
				return
			}
			conn.WriteMessage(websocket.TextMessage, data)
		}

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestLeapSource_ReadFrames(t *testing.T) {
	frames := []hand.Frame{
		{ID: 1, Timestamp: 1000, Hands: []hand.Sample{hand.ClosedHand(4, 1000)}},
		{ID: 2, Timestamp: 2000},
	}
	received := make(chan string, 2)
	srv := fakeService(t, frames, received)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	src := NewLeapSource(wsURL(srv))
	if err := src.Open(ctx); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	for _, want := range []string{`{"background":true}`, `{"enableGestures":false}`} {
		select {
		case got := <-received:
			if got = strings.TrimSpace(got); got != want {
				t.Errorf("expected config message %s, got %s", want, got)
			}
		case <-ctx.Done():
			t.Fatal("timed out waiting for config messages")
		}
	}

	for _, want := range frames {
		got, err := src.ReadFrame(ctx)
		if err != nil {
			t.Fatalf("ReadFrame() error = %v", err)
		}
		if got.ID != want.ID || len(got.Hands) != len(want.Hands) {
			t.Errorf("expected frame %d with %d hands, got %d with %d", want.ID, len(want.Hands), got.ID, len(got.Hands))
		}
	}
}

func TestLeapSource_ReadBeforeOpen(t *testing.T) {
	src := NewLeapSource("ws://127.0.0.1:1/v6.json")
	if _, err := src.ReadFrame(context.Background()); !errors.Is(err, ErrSourceClosed) {
		t.Errorf("expected ErrSourceClosed, got %v", err)
	}
}

func TestLeapSource_OpenFails(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	src := NewLeapSource(wsURL(srv))
	if err := src.Open(context.Background()); err == nil {
		src.Close()
		t.Error("expected a handshake error")
	}
}

func TestLeapSource_CancelUnblocksRead(t *testing.T) {
	received := make(chan string, 2)
	srv := fakeService(t, nil, received)

	ctx, cancel := context.WithCancel(context.Background())
	src := NewLeapSource(wsURL(srv))
	if err := src.Open(ctx); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	errCh := make(chan error, 1)
	go func() {
		_, err := src.ReadFrame(ctx)
		errCh <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ReadFrame did not return after cancel")
	}
}

func TestLeapSource_CloseIsIdempotent(t *testing.T) {
	received := make(chan string, 2)
	srv := fakeService(t, nil, received)

	src := NewLeapSource(wsURL(srv))
	if err := src.Open(context.Background()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
