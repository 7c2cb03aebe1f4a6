package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ayusman/leapmedia/internal/render"
)

type fakeEncoder struct {
	calls atomic.Int32
	fail  bool
}

func (e *fakeEncoder) Encode(st render.Status) ([]byte, error) {
	e.calls.Add(1)
	if e.fail {
		return nil, errors.New("no opencv")
	}
	if st.Enabled {
		return []byte("on"), nil
	}
	return []byte("off"), nil
}

func TestStreamHandler_WritesFrames(t *testing.T) {
	ctrl := &fakeController{enabled: true}
	enc := &fakeEncoder{}
	srv := httptest.NewServer(NewStreamHandler(ctrl, enc, 5*time.Millisecond))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Errorf("unexpected Content-Type %q", ct)
	}

	r := bufio.NewReader(resp.Body)
	var parts int
	for parts < 2 {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read error after %d parts: %v", parts, err)
		}
		if strings.TrimSpace(line) == "--frame" {
			parts++
		}
	}
	cancel()

	if enc.calls.Load() < 2 {
		t.Errorf("expected at least 2 encodes, got %d", enc.calls.Load())
	}
}

func TestStreamHandler_EncodeFailureEndsStream(t *testing.T) {
	h := NewStreamHandler(&fakeController{}, &fakeEncoder{fail: true}, 0)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stream", nil))

	body, _ := io.ReadAll(rec.Body)
	if len(body) != 0 {
		t.Errorf("expected an empty body, got %q", body)
	}
}

func TestStreamHandler_MethodNotAllowed(t *testing.T) {
	h := NewStreamHandler(&fakeController{}, &fakeEncoder{}, 0)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stream", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
