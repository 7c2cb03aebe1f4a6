package gesture

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ayusman/leapmedia/internal/hand"
)

func newTestScrub(t *testing.T, got *[]crossing, now *hand.Timestamp) *Scrub {
	t.Helper()
	cfg := DefaultScrubConfig()
	cfg.OnTrigger = func(inc bool) { *got = append(*got, crossing{*now, inc}) }
	d, err := NewScrub(cfg)
	if err != nil {
		t.Fatalf("NewScrub() error = %v", err)
	}
	return d
}

func TestNewScrub_Validation(t *testing.T) {
	t.Run("nil trigger", func(t *testing.T) {
		if _, err := NewScrub(DefaultScrubConfig()); !errors.Is(err, ErrMissingFunc) {
			t.Errorf("expected ErrMissingFunc, got %v", err)
		}
	})

	t.Run("zero threshold", func(t *testing.T) {
		cfg := DefaultScrubConfig()
		cfg.OnTrigger = func(bool) {}
		cfg.Threshold = 0
		if _, err := NewScrub(cfg); !errors.Is(err, ErrNonPositiveThreshold) {
			t.Errorf("expected ErrNonPositiveThreshold, got %v", err)
		}
	})

	t.Run("zero visibility", func(t *testing.T) {
		cfg := DefaultScrubConfig()
		cfg.OnTrigger = func(bool) {}
		cfg.MinTimeVisible = 0
		if _, err := NewScrub(cfg); !errors.Is(err, ErrNonPositiveDuration) {
			t.Errorf("expected ErrNonPositiveDuration, got %v", err)
		}
	})
}

func TestScrub_AlternatingCrossingsAllFire(t *testing.T) {
	var got []crossing
	var now hand.Timestamp
	d := newTestScrub(t, &got, &now)

	feed(d, &now, []point{
		{ms(0), 0},
		{ms(10), 30},
		{ms(20), 0},
		{ms(30), 30},
		{ms(40), 0},
	})

	want := []crossing{
		{ms(10), true},
		{ms(20), false},
		{ms(30), true},
		{ms(40), false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("crossings mismatch (-want +got):\n%s", diff)
	}
}

func TestScrub_VisibilityGate(t *testing.T) {
	var got []crossing
	var now hand.Timestamp
	d := newTestScrub(t, &got, &now)

	sample := func(ts hand.Timestamp, x float64, visible time.Duration) *hand.Classified {
		s := hand.NewSample(1, ts)
		s.PalmPosition.X = x
		s.TimeVisible = visible
		c := hand.Classify(s)
		return &c
	}

	// Samples from a freshly seen hand neither seed nor fire.
	now = ms(0)
	d.OnSample(1, now, sample(now, 0, 100*time.Millisecond))
	now = ms(10)
	d.OnSample(1, now, sample(now, 50, 500*time.Millisecond))
	now = ms(20)
	d.OnSample(1, now, sample(now, 60, 501*time.Millisecond))
	now = ms(30)
	d.OnSample(1, now, sample(now, 80, 510*time.Millisecond))
	now = ms(40)
	d.OnSample(1, now, sample(now, 95, 520*time.Millisecond))

	want := []crossing{{ms(40), true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("crossings mismatch (-want +got):\n%s", diff)
	}
}

func TestScrub_CustomAxis(t *testing.T) {
	var got []crossing
	var now hand.Timestamp
	cfg := DefaultScrubConfig()
	cfg.Position = func(s *hand.Classified) float64 { return s.PalmPosition.Y }
	cfg.OnTrigger = func(inc bool) { got = append(got, crossing{now, inc}) }
	d, err := NewScrub(cfg)
	if err != nil {
		t.Fatalf("NewScrub() error = %v", err)
	}

	feed(d, &now, []point{{ms(0), 0}, {ms(10), 100}})
	if len(got) != 0 {
		t.Errorf("expected x motion to be ignored on the y axis, got %v", got)
	}
}
