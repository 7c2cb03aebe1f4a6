package gesture

import (
	"github.com/ayusman/leapmedia/internal/hand"
)

// EngineConfig configures an Engine.
type EngineConfig struct {
	// Laterality is the hand the pipeline follows.
	Laterality hand.Laterality
	// OnAcquired is invoked synchronously when a new actor engages.
	OnAcquired func(actorID int)
	// Detectors receive every eligible sample in this order.
	Detectors []Detector
}

// State is what the engine saw on the most recent frame.
type State struct {
	FrameID   int64            `json:"frameId"`
	Timestamp hand.Timestamp   `json:"timestamp"`
	HandCount int              `json:"handCount"`
	Verdict   Verdict          `json:"verdict"`
	ActorID   int              `json:"actorId"`
	Tracking  bool             `json:"tracking"`
	Sample    *hand.Classified `json:"sample,omitempty"`
}

// Engine classifies, gates and tracks samples and fans them out to its
// detectors. It is not safe for concurrent use.
type Engine struct {
	gate      Gate
	tracker   *ActorTracker
	detectors []Detector

	state  State
	sample hand.Classified
}

// NewEngine creates an engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.OnAcquired == nil {
		return nil, ErrMissingFunc
	}
	for _, d := range cfg.Detectors {
		if d == nil {
			return nil, ErrMissingFunc
		}
	}
	l := cfg.Laterality
	if l == "" {
		l = hand.Right
	}

	return &Engine{
		gate:      NewGate(l),
		tracker:   NewActorTracker(cfg.OnAcquired),
		detectors: append([]Detector(nil), cfg.Detectors...),
	}, nil
}

// Submit processes a frame holding exactly one hand.
func (e *Engine) Submit(s hand.Sample) Verdict {
	return e.SubmitFrame(hand.Frame{Timestamp: s.Timestamp, Hands: []hand.Sample{s}})
}

// SubmitFrame processes one tracking frame and returns the gate verdict.
// Frames without exactly one eligible hand reset the current actor.
func (e *Engine) SubmitFrame(f hand.Frame) Verdict {
	e.state = State{FrameID: f.ID, Timestamp: f.Timestamp, HandCount: len(f.Hands)}

	var c *hand.Classified
	if len(f.Hands) > 0 {
		e.sample = hand.Classify(f.Hands[0])
		c = &e.sample
		e.state.Sample = c
	}

	verdict := e.gate.Check(len(f.Hands), c)
	e.state.Verdict = verdict
	if verdict != Eligible {
		e.tracker.Reset()
		return verdict
	}

	e.tracker.Observe(c.ID)
	e.state.ActorID, e.state.Tracking = c.ID, true

	for _, d := range e.detectors {
		d.OnSample(c.ID, c.Timestamp, c)
	}
	return verdict
}

// Snapshot returns a copy of the state after the last frame.
func (e *Engine) Snapshot() State {
	st := e.state
	if st.Sample != nil {
		sample := *st.Sample
		st.Sample = &sample
	}
	return st
}

// CurrentActor returns the actor holding the pipeline, if any.
func (e *Engine) CurrentActor() (int, bool) {
	return e.tracker.Current()
}
