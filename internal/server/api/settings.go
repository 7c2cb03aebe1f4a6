package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// SettingsHandler serves GET and PUT /api/settings/enabled.
type SettingsHandler struct {
	toggler Toggler
}

// NewSettingsHandler creates a SettingsHandler for toggler.
func NewSettingsHandler(t Toggler) *SettingsHandler {
	return &SettingsHandler{toggler: t}
}

type enabledBody struct {
	Enabled *bool `json:"enabled"`
}

type enabledResponse struct {
	Enabled bool `json:"enabled"`
}

func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, enabledResponse{Enabled: h.toggler.IsEnabled()})

	case http.MethodPut:
		var body enabledBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if body.Enabled == nil {
			writeError(w, http.StatusBadRequest, "enabled is required")
			return
		}
		if err := h.toggler.SetEnabled(*body.Enabled); err != nil {
			log.Printf("Failed to persist enabled setting: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to save setting")
			return
		}
		writeJSON(w, http.StatusOK, enabledResponse{Enabled: h.toggler.IsEnabled()})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
