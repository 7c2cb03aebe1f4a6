package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ayusman/leapmedia/internal/render"
	"github.com/ayusman/leapmedia/internal/server/api"
)

// DefaultStreamInterval paces the HUD stream at about 15 FPS.
const DefaultStreamInterval = 66 * time.Millisecond

// Encoder turns a status into a JPEG image.
type Encoder interface {
	Encode(st render.Status) ([]byte, error)
}

// StreamHandler serves the HUD as an MJPEG stream.
type StreamHandler struct {
	source   api.StatusSource
	encoder  Encoder
	interval time.Duration
}

// NewStreamHandler creates a new StreamHandler drawing source with encoder.
func NewStreamHandler(source api.StatusSource, encoder Encoder, interval time.Duration) *StreamHandler {
	if interval <= 0 {
		interval = DefaultStreamInterval
	}
	return &StreamHandler{source: source, encoder: encoder, interval: interval}
}

// ServeHTTP streams MJPEG frames until the client goes away.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		img, err := h.encoder.Encode(h.source.Status())
		if err != nil {
			log.Printf("HUD stream stopped: %v", err)
			return
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(img))
		if _, err := w.Write(img); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
