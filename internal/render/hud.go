// Package render draws the debug heads-up display: a top-down view of the
// tracking volume with the classifier's readings.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/ayusman/leapmedia/internal/gesture"
	"github.com/ayusman/leapmedia/internal/hand"
)

// HUD dimensions.
const (
	DefaultSize = 480
	// DefaultRange is the half-width of the drawn volume in millimetres.
	DefaultRange = 200.0
	arrowLength  = 60
)

var (
	colorBackground = color.RGBA{R: 24, G: 24, B: 28, A: 0}
	colorBounds     = color.RGBA{R: 90, G: 90, B: 100, A: 0}
	colorEligible   = color.RGBA{R: 60, G: 200, B: 90, A: 0}
	colorBlocked    = color.RGBA{R: 230, G: 150, B: 40, A: 0}
	colorArrow      = color.RGBA{R: 80, G: 160, B: 240, A: 0}
	colorText       = color.RGBA{R: 230, G: 230, B: 230, A: 0}
	colorPaused     = color.RGBA{R: 220, G: 70, B: 70, A: 0}
)

// Status is everything the HUD shows for one frame.
type Status struct {
	State      gesture.State `json:"state"`
	Enabled    bool          `json:"enabled"`
	LastAction string        `json:"lastAction,omitempty"`
}

// HUD renders Status images.
type HUD struct {
	size  int
	scale float64
}

// NewHUD creates a square HUD of size pixels covering ±volume millimetres.
func NewHUD(size int, volume float64) *HUD {
	if size <= 0 {
		size = DefaultSize
	}
	if volume <= 0 {
		volume = DefaultRange
	}
	return &HUD{size: size, scale: float64(size) / (2 * volume)}
}

// Size returns the image edge length in pixels.
func (h *HUD) Size() int {
	return h.size
}

// toPixel maps a palm position onto the image, looking down on the sensor
// with +x to the right and -z (away from the user) up.
func (h *HUD) toPixel(x, z float64) image.Point {
	c := float64(h.size) / 2
	return image.Pt(int(math.Round(c+x*h.scale)), int(math.Round(c+z*h.scale)))
}

// Render draws the HUD. The caller owns the returned Mat.
func (h *HUD) Render(st Status) (gocv.Mat, error) {
	img := gocv.NewMatWithSize(h.size, h.size, gocv.MatTypeCV8UC3)
	if img.Empty() {
		img.Close()
		return img, fmt.Errorf("failed to allocate %dx%d image", h.size, h.size)
	}
	img.SetTo(gocv.NewScalar(float64(colorBackground.B), float64(colorBackground.G), float64(colorBackground.R), 0))

	bounds := image.Rectangle{
		Min: h.toPixel(-hand.BoundsX, -hand.BoundsZ),
		Max: h.toPixel(hand.BoundsX, hand.BoundsZ),
	}
	gocv.Rectangle(&img, bounds, colorBounds, 1)

	if s := st.State.Sample; s != nil {
		palm := h.toPixel(s.PalmPosition.X, s.PalmPosition.Z)
		dot := colorBlocked
		if st.State.Verdict == gesture.Eligible {
			dot = colorEligible
		}
		radius := 8
		if s.IsOpen {
			radius = 14
		}
		gocv.Circle(&img, palm, radius, dot, -1)

		tip := image.Pt(
			palm.X+int(math.Round(arrowLength*math.Sin(s.Yaw))),
			palm.Y-int(math.Round(arrowLength*math.Cos(s.Yaw))),
		)
		gocv.ArrowedLine(&img, palm, tip, colorArrow, 2)
	}

	for i, line := range h.lines(st) {
		c := colorText
		if i == 0 && !st.Enabled {
			c = colorPaused
		}
		gocv.PutText(&img, line, image.Pt(10, 22+i*20), gocv.FontHersheySimplex, 0.5, c, 1)
	}
	return img, nil
}

func (h *HUD) lines(st Status) []string {
	status := "tracking"
	if !st.Enabled {
		status = "paused"
	}
	last := st.LastAction
	if last == "" {
		last = "none"
	}

	out := []string{
		fmt.Sprintf("%s  hands: %d  %s", status, st.State.HandCount, st.State.Verdict),
	}
	if st.State.Tracking {
		out = append(out, fmt.Sprintf("actor: %d", st.State.ActorID))
	} else {
		out = append(out, "actor: none")
	}
	if s := st.State.Sample; s != nil {
		out = append(out,
			fmt.Sprintf("openness: %.2f (open: %v)", s.OpennessAngleSum, s.IsOpen),
			fmt.Sprintf("yaw: %.2f  roll: %.2f  pointing: %s", s.Yaw, s.Roll, s.Pointing),
			fmt.Sprintf("mouse: %v  in bounds: %v", s.IsUsingMouse, s.IsInBounds),
		)
	}
	return append(out, "last: "+last)
}

// Encode renders st and returns it as a JPEG.
func (h *HUD) Encode(st Status) ([]byte, error) {
	img, err := h.Render(st)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	buf, err := gocv.IMEncode(".jpg", img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode HUD: %w", err)
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}
