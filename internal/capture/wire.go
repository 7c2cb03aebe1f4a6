package capture

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ayusman/leapmedia/internal/hand"
)

// vec3 is the service's [x, y, z] array encoding.
type vec3 [3]float64

func (v vec3) vector() hand.Vector {
	return hand.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// wireFrame is the subset of a Leap Motion v6 JSON frame that leapmedia reads.
type wireFrame struct {
	ID         *int64          `json:"id"`
	Timestamp  int64           `json:"timestamp"`
	Hands      []wireHand      `json:"hands"`
	Pointables []wirePointable `json:"pointables"`

	// Set on the handshake message only.
	Version int `json:"version,omitempty"`
}

type wireHand struct {
	ID            int      `json:"id"`
	Type          string   `json:"type"`
	PalmPosition  vec3     `json:"palmPosition"`
	PalmNormal    vec3     `json:"palmNormal"`
	Direction     vec3     `json:"direction"`
	PinchDistance *float64 `json:"pinchDistance"`
	PinchStrength float64  `json:"pinchStrength"`
	GrabStrength  float64  `json:"grabStrength"`
	TimeVisible   float64  `json:"timeVisible"`
}

type wirePointable struct {
	HandID      int  `json:"handId"`
	Type        int  `json:"type"`
	Tool        bool `json:"tool"`
	Direction   vec3 `json:"direction"`
	TipPosition vec3 `json:"tipPosition"`
}

// DecodeFrame parses one message from the tracking service. The handshake
// and other non-frame messages report ok=false. Hands with non-finite
// readings are left out of the frame and counted in dropped.
func DecodeFrame(data []byte) (f hand.Frame, ok bool, dropped int, err error) {
	var w wireFrame
	if err := json.Unmarshal(data, &w); err != nil {
		return hand.Frame{}, false, 0, fmt.Errorf("failed to decode frame: %w", err)
	}
	if w.ID == nil {
		return hand.Frame{}, false, 0, nil
	}

	f = hand.Frame{
		ID:        *w.ID,
		Timestamp: hand.Timestamp(w.Timestamp),
		Hands:     make([]hand.Sample, 0, len(w.Hands)),
	}
	for i := range w.Hands {
		s := w.Hands[i].sample(f.Timestamp, w.Pointables)
		if !s.IsFinite() {
			dropped++
			continue
		}
		f.Hands = append(f.Hands, s)
	}
	return f, true, dropped, nil
}

func (h *wireHand) sample(ts hand.Timestamp, pointables []wirePointable) hand.Sample {
	s := hand.Sample{
		ID:            h.ID,
		Timestamp:     ts,
		PalmPosition:  h.PalmPosition.vector(),
		PalmNormal:    h.PalmNormal.vector(),
		Direction:     h.Direction.vector(),
		PinchStrength: h.PinchStrength,
		GrabStrength:  h.GrabStrength,
		TimeVisible:   time.Duration(h.TimeVisible * float64(time.Second)),
		Laterality:    hand.Right,
	}
	if h.Type == string(hand.Left) {
		s.Laterality = hand.Left
	}

	for _, p := range pointables {
		if p.HandID != h.ID || p.Tool || p.Type < 0 || p.Type >= hand.NumFingers {
			continue
		}
		s.Fingers[p.Type] = hand.Finger{
			Type:        p.Type,
			Direction:   p.Direction.vector(),
			TipPosition: p.TipPosition.vector(),
		}
	}

	if h.PinchDistance != nil {
		s.PinchDistance = *h.PinchDistance
	} else {
		s.PinchDistance = s.Fingers[hand.Thumb].TipPosition.DistanceTo(s.Fingers[hand.Index].TipPosition)
	}
	return s
}

// EncodeFrame renders a frame in the service's wire format, for recordings.
func EncodeFrame(f hand.Frame) ([]byte, error) {
	w := wireFrame{
		ID:        &f.ID,
		Timestamp: int64(f.Timestamp),
		Hands:     make([]wireHand, 0, len(f.Hands)),
	}
	for _, s := range f.Hands {
		pinch := s.PinchDistance
		w.Hands = append(w.Hands, wireHand{
			ID:            s.ID,
			Type:          string(s.Laterality),
			PalmPosition:  vec3{s.PalmPosition.X, s.PalmPosition.Y, s.PalmPosition.Z},
			PalmNormal:    vec3{s.PalmNormal.X, s.PalmNormal.Y, s.PalmNormal.Z},
			Direction:     vec3{s.Direction.X, s.Direction.Y, s.Direction.Z},
			PinchDistance: &pinch,
			PinchStrength: s.PinchStrength,
			GrabStrength:  s.GrabStrength,
			TimeVisible:   s.TimeVisible.Seconds(),
		})
		for _, finger := range s.Fingers {
			w.Pointables = append(w.Pointables, wirePointable{
				HandID:      s.ID,
				Type:        finger.Type,
				Direction:   vec3{finger.Direction.X, finger.Direction.Y, finger.Direction.Z},
				TipPosition: vec3{finger.TipPosition.X, finger.TipPosition.Y, finger.TipPosition.Z},
			})
		}
	}
	return json.Marshal(w)
}
