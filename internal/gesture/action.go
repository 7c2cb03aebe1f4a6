package gesture

import (
	"fmt"
)

// Action is a media command produced by a detector.
type Action int

const (
	// ToggleMusic plays or pauses the current track.
	ToggleMusic Action = iota
	// PreviousTrack skips back one track.
	PreviousTrack
	// NextTrack skips forward one track.
	NextTrack
	// VolumeUp raises the system volume one step.
	VolumeUp
	// VolumeDown lowers the system volume one step.
	VolumeDown
	// Mute toggles system mute.
	Mute
)

var actionNames = [...]string{
	ToggleMusic:   "toggle-music",
	PreviousTrack: "previous-track",
	NextTrack:     "next-track",
	VolumeUp:      "volume-up",
	VolumeDown:    "volume-down",
	Mute:          "mute",
}

// Actions lists every action in declaration order.
func Actions() []Action {
	return []Action{ToggleMusic, PreviousTrack, NextTrack, VolumeUp, VolumeDown, Mute}
}

// String returns the kebab-case action name.
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// MarshalText encodes the action by name.
func (a Action) MarshalText() ([]byte, error) {
	if a < 0 || int(a) >= len(actionNames) {
		return nil, fmt.Errorf("unknown action %d", int(a))
	}
	return []byte(actionNames[a]), nil
}

// UnmarshalText decodes an action name.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAction returns the action with the given name.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// ActionSink receives actions synchronously from the detector that fired them.
// Implementations must return without blocking.
type ActionSink func(Action)
