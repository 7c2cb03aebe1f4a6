package gesture

import (
	"fmt"
	"sort"
	"time"

	"github.com/ayusman/leapmedia/internal/hand"
)

// Preset names.
const (
	PresetOpenHandToggle    = "open-hand-toggle"
	PresetPointLeftPrevious = "point-left-previous"
	PresetPointRightNext    = "point-right-next"
	PresetRaiseHandMute     = "raise-hand-mute"
	PresetRotateVolume      = "rotate-volume"
	PresetScrubVolume       = "scrub-volume"
)

// Preset tuning.
const (
	// RaisedPalmHeight is the palm height, in millimetres, that counts as raised.
	RaisedPalmHeight = 200.0
	// RotateThreshold is one volume step of hand roll, about 20 degrees.
	RotateThreshold = 0.35
)

// DefaultPresets are the gestures enabled out of the box.
var DefaultPresets = []string{
	PresetOpenHandToggle,
	PresetPointLeftPrevious,
	PresetPointRightNext,
	PresetRotateVolume,
}

// Timing holds the durations shared by the preset detectors.
type Timing struct {
	MinHold           time.Duration `yaml:"min_hold"`
	MinCooldown       time.Duration `yaml:"min_cooldown"`
	MinActionSpacing  time.Duration `yaml:"min_action_spacing"`
	DirectionDebounce time.Duration `yaml:"direction_debounce"`
	MinTimeVisible    time.Duration `yaml:"min_time_visible"`
}

// DefaultTiming returns the stock preset timings.
func DefaultTiming() Timing {
	return Timing{
		MinHold:           DefaultMinHold,
		MinCooldown:       DefaultMinCooldown,
		MinActionSpacing:  DefaultMinActionSpacing,
		DirectionDebounce: DefaultDirectionDebounce,
		MinTimeVisible:    DefaultScrubMinTimeVisible,
	}
}

type presetFunc func(sink ActionSink, t Timing) (Detector, error)

var presets = map[string]presetFunc{
	PresetOpenHandToggle: discretePreset(ToggleMusic, func(s *hand.Classified) bool {
		return s.IsOpen
	}),
	PresetPointLeftPrevious: discretePreset(PreviousTrack, func(s *hand.Classified) bool {
		return s.Pointing == hand.PointingLeft
	}),
	PresetPointRightNext: discretePreset(NextTrack, func(s *hand.Classified) bool {
		return s.Pointing == hand.PointingRight
	}),
	PresetRaiseHandMute: discretePreset(Mute, func(s *hand.Classified) bool {
		return s.PalmPosition.Y >= RaisedPalmHeight
	}),
	PresetRotateVolume: func(sink ActionSink, t Timing) (Detector, error) {
		return NewContinuous(ContinuousConfig{
			CanGesture: func(s *hand.Classified) bool { return !s.IsOpen },
			Scalar:     func(s *hand.Classified) float64 { return FoldAngle(s.Roll) },
			Threshold:  RotateThreshold,
			// Clockwise, seen from above, lowers the roll angle.
			OnTrigger: func(increase bool) {
				if increase {
					sink(VolumeDown)
				} else {
					sink(VolumeUp)
				}
			},
			DirectionDebounce: t.DirectionDebounce,
		})
	},
	PresetScrubVolume: func(sink ActionSink, t Timing) (Detector, error) {
		cfg := DefaultScrubConfig()
		cfg.MinTimeVisible = t.MinTimeVisible
		cfg.OnTrigger = func(increase bool) {
			if increase {
				sink(VolumeUp)
			} else {
				sink(VolumeDown)
			}
		}
		return NewScrub(cfg)
	},
}

func discretePreset(a Action, pred func(*hand.Classified) bool) presetFunc {
	return func(sink ActionSink, t Timing) (Detector, error) {
		return NewDiscrete(DiscreteConfig{
			Predicate:        pred,
			OnTrigger:        func() { sink(a) },
			MinHold:          t.MinHold,
			MinCooldown:      t.MinCooldown,
			MinActionSpacing: t.MinActionSpacing,
		})
	}
}

// PresetNames returns every known preset name, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsPreset reports whether name is a known preset.
func IsPreset(name string) bool {
	_, ok := presets[name]
	return ok
}

// NewPreset builds the named preset detector wired to sink.
func NewPreset(name string, sink ActionSink, t Timing) (Detector, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, name)
	}
	if sink == nil {
		return nil, ErrMissingFunc
	}
	d, err := build(sink, t)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", name, err)
	}
	return d, nil
}
