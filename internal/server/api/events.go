package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/leapmedia/internal/store"
)

// MaxEventLimit caps the page size of GET /api/events.
const MaxEventLimit = 1000

// EventHandler handles HTTP requests for the action history.
type EventHandler struct {
	store *store.Store
}

// NewEventHandler creates a new EventHandler with the given store.
func NewEventHandler(s *store.Store) *EventHandler {
	return &EventHandler{store: s}
}

type listEventsResponse struct {
	Events []*store.Event `json:"events"`
}

type statsResponse struct {
	Actions map[string]int `json:"actions"`
	Total   int            `json:"total"`
}

// ServeHTTP routes /api/events, /api/events/stats and /api/events/{id}.
func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/events")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		h.list(w, r)
	case "stats":
		h.stats(w)
	default:
		h.get(w, path)
	}
}

func (h *EventHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxEventLimit)
	}

	kind := store.EventKind(r.URL.Query().Get("kind"))
	if kind != "" && kind != store.KindAction && kind != store.KindAcquired {
		writeError(w, http.StatusBadRequest, "kind must be action or acquired")
		return
	}

	events, err := h.store.Events().List(kind, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, listEventsResponse{Events: events})
}

func (h *EventHandler) get(w http.ResponseWriter, id string) {
	e, err := h.store.Events().GetByID(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EventHandler) stats(w http.ResponseWriter) {
	counts, err := h.store.Events().CountByAction()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count events")
		return
	}

	resp := statsResponse{Actions: counts}
	for _, n := range counts {
		resp.Total += n
	}
	writeJSON(w, http.StatusOK, resp)
}
