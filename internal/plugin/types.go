// Package plugin runs the external programs that carry out gesture actions.
// Plugins are executables next to a plugin.json manifest; each invocation
// receives one JSON Request on stdin and answers with one JSON Response.
package plugin

import (
	"encoding/json"
	"slices"
)

// Manifest describes a plugin's metadata and the actions it handles.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Request is sent to a plugin for one action.
type Request struct {
	Action   string          `json:"action"`
	Detector string          `json:"detector,omitempty"`
	Config   json.RawMessage `json:"config,omitempty"`
	Params   json.RawMessage `json:"params,omitempty"`
}

// Response is what a plugin prints on stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Handles reports whether the manifest lists action.
func (p *Plugin) Handles(action string) bool {
	return slices.Contains(p.Manifest.Actions, action)
}
