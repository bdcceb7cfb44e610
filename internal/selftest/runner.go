package selftest

import (
	"github.com/pkg/errors"

	"github.com/coreman2200/funtimes-xmasbot/internal/render"
)

// Kind names a self-test.
type Kind string

const (
	None        Kind = ""
	RGBChannels Kind = "rgb_channels"
	IndexSweep  Kind = "index_sweep"
	ToneScale   Kind = "tone_scale"
	ButtonWatch Kind = "button_watch"
	StatusBlink Kind = "status_blink"
)

// All lists every test in the order Run plays them by default.
var All = []Kind{RGBChannels, IndexSweep, ToneScale, StatusBlink, ButtonWatch}

// ParseKind accepts a test name as listed in All.
func ParseKind(s string) (Kind, error) {
	for _, k := range All {
		if string(k) == s {
			return k, nil
		}
	}
	return None, errors.Errorf("unknown self-test %q", s)
}

// Runner produces the frames of the LED tests one at a time.
type Runner struct {
	kind Kind
	step int
}

func NewRunner(kind Kind) *Runner { return &Runner{kind: kind} }

// Step fills px with the next frame; returns false when complete.
func (r *Runner) Step(px []render.Color) bool {
	n := len(px)
	for i := range px {
		px[i] = render.Off
	}

	switch r.kind {
	case RGBChannels:
		var c render.Color
		switch r.step {
		case 0:
			c = render.Color{R: 255}
		case 1:
			c = render.Color{G: 255}
		case 2:
			c = render.Color{B: 255}
		default:
			return false
		}
		for i := range px {
			px[i] = c
		}
	case IndexSweep:
		idx := r.step
		if idx >= n {
			return false
		}
		px[idx] = Wheel(uint8(idx * 255 / n))
	default:
		return false
	}
	r.step++
	return true
}

// Wheel maps 0..255 onto a red, green, blue, red colour circle.
func Wheel(pos uint8) render.Color {
	h := int(pos)
	switch {
	case h < 85:
		return render.Color{R: uint8(255 - h*3), G: uint8(h * 3)}
	case h < 170:
		h -= 85
		return render.Color{G: uint8(255 - h*3), B: uint8(h * 3)}
	default:
		h -= 170
		return render.Color{R: uint8(h * 3), B: uint8(255 - h*3)}
	}
}
