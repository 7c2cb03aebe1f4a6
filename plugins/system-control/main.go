// Package main provides the system control plugin. It carries out the media
// and volume actions produced by the gesture engine: AppleScript key codes on
// macOS, playerctl and pactl on Linux.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action   string          `json:"action"`
	Detector string          `json:"detector"`
	Config   json.RawMessage `json:"config"`
	Params   json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// command is a program invocation that performs one action.
type command []string

// handlers maps each OS to its action commands.
var handlers = map[string]map[string][]command{
	"darwin": {
		"toggle-music":   {appleScript(`tell application "System Events" to key code 100`)},
		"previous-track": {appleScript(`tell application "System Events" to key code 98`)},
		"next-track":     {appleScript(`tell application "System Events" to key code 101`)},
		"volume-up":      {appleScript(`set volume output volume ((output volume of (get volume settings)) + 2)`)},
		"volume-down":    {appleScript(`set volume output volume ((output volume of (get volume settings)) - 2)`)},
		"mute":           {appleScript(`set volume output muted (not (output muted of (get volume settings)))`)},
	},
	"linux": {
		"toggle-music":   {{"playerctl", "play-pause"}},
		"previous-track": {{"playerctl", "previous"}},
		"next-track":     {{"playerctl", "next"}},
		"volume-up":      {{"pactl", "set-sink-volume", "@DEFAULT_SINK@", "+2%"}},
		"volume-down":    {{"pactl", "set-sink-volume", "@DEFAULT_SINK@", "-2%"}},
		"mute":           {{"pactl", "set-sink-mute", "@DEFAULT_SINK@", "toggle"}},
	},
}

func appleScript(script string) command {
	return command{"osascript", "-e", script}
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	actions, ok := handlers[runtime.GOOS]
	if !ok {
		writeResponse(Response{Error: fmt.Sprintf("unsupported platform: %s", runtime.GOOS)})
		return
	}

	cmds, ok := actions[req.Action]
	if !ok {
		writeResponse(Response{Error: fmt.Sprintf("unknown action: %s", req.Action)})
		return
	}

	for _, c := range cmds {
		if err := run(c); err != nil {
			writeResponse(Response{Error: fmt.Sprintf("action %s failed: %v", req.Action, err)})
			return
		}
	}

	writeResponse(Response{Success: true})
}

func run(c command) error {
	output, err := exec.Command(c[0], c[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
