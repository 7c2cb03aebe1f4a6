package gesture

import (
	"encoding/json"
	"testing"
)

func TestParseAction(t *testing.T) {
	for _, a := range Actions() {
		got, err := ParseAction(a.String())
		if err != nil || got != a {
			t.Errorf("ParseAction(%q) = %v, %v", a.String(), got, err)
		}
	}

	if _, err := ParseAction("louder"); err == nil {
		t.Error("expected an error for an unknown action")
	}
}

func TestAction_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]Action{"action": NextTrack})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"action":"next-track"}` {
		t.Errorf("unexpected encoding %s", data)
	}

	if _, err := json.Marshal(Action(99)); err == nil {
		t.Error("expected an error encoding an unknown action")
	}
	if got := Action(99).String(); got != "action(99)" {
		t.Errorf("unexpected name for an unknown action: %s", got)
	}
}
