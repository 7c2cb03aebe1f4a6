// Package api provides the JSON HTTP handlers for leapmedia.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/leapmedia/internal/render"
)

// StatusSource reports what the pipeline is doing.
type StatusSource interface {
	Status() render.Status
}

// Toggler pauses and resumes gesture tracking.
type Toggler interface {
	IsEnabled() bool
	SetEnabled(enabled bool) error
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// StateHandler serves GET /api/state.
type StateHandler struct {
	source StatusSource
}

// NewStateHandler creates a StateHandler reading from source.
func NewStateHandler(source StatusSource) *StateHandler {
	return &StateHandler{source: source}
}

func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.source.Status())
}
