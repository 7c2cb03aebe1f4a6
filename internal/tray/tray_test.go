package tray

import "testing"

func TestTray_Toggle(t *testing.T) {
	tr := New()
	if !tr.IsEnabled() {
		t.Fatal("expected a new tray to be enabled")
	}

	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	tr.handleToggle()
	tr.handleToggle()

	if len(got) != 2 || got[0] || !got[1] {
		t.Errorf("expected toggles [false true], got %v", got)
	}
	if !tr.IsEnabled() {
		t.Error("expected tray to be enabled after two toggles")
	}
}

func TestTray_SetEnabledSkipsCallback(t *testing.T) {
	tr := New()
	called := false
	tr.OnToggle(func(bool) { called = true })

	tr.SetEnabled(false)

	if tr.IsEnabled() {
		t.Error("expected tray to be disabled")
	}
	if called {
		t.Error("SetEnabled should not invoke the toggle callback")
	}
}

func TestTray_Status(t *testing.T) {
	tr := New()
	opened := 0
	tr.OnStatus(func() { opened++ })

	tr.handleStatus()

	if opened != 1 {
		t.Errorf("expected status callback once, got %d", opened)
	}
}

func TestTray_LastAction(t *testing.T) {
	tr := New()
	if lastTitle(tr.LastAction()) != "Last: none" {
		t.Errorf("unexpected initial title %q", lastTitle(tr.LastAction()))
	}

	tr.SetLastAction("volume-up")
	if got := lastTitle(tr.LastAction()); got != "Last: volume-up" {
		t.Errorf("unexpected title %q", got)
	}
}
