// Package eyes animates a pair of eyes on the LED ring: the upper half lit is
// an open eye looking straight ahead.
package eyes

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-xmasbot/internal/layout"
	"github.com/coreman2200/funtimes-xmasbot/internal/render"
	"github.com/coreman2200/funtimes-xmasbot/internal/wait"
)

// Animator draws eye poses and the transitions between them. Every timed
// step waits through the injected poller and reports interrupted=true as soon
// as it fires, leaving the ring in whatever frame it reached.
type Animator struct {
	surf render.Surface
	ring layout.Ring
	w    *wait.Waiter
	opt  Options
	log  zerolog.Logger
}

func NewAnimator(surf render.Surface, ring layout.Ring, w *wait.Waiter, opt Options, log zerolog.Logger) (*Animator, error) {
	if err := ring.Validate(); err != nil {
		return nil, err
	}
	if surf.Len() != ring.Count {
		return nil, errors.Errorf("surface has %d pixels, ring has %d", surf.Len(), ring.Count)
	}
	return &Animator{surf: surf, ring: ring, w: w, opt: opt.withDefaults(), log: log}, nil
}

func (a *Animator) eye() render.Color {
	return a.opt.Color.Scale(a.opt.Brightness)
}

func (a *Animator) set(idx []int, c render.Color) error {
	for _, i := range idx {
		if err := a.surf.SetPixel(i, c); err != nil {
			return err
		}
	}
	return nil
}

func (a *Animator) fill(c render.Color) error {
	for i := 0; i < a.surf.Len(); i++ {
		if err := a.surf.SetPixel(i, c); err != nil {
			return err
		}
	}
	return nil
}

// step flushes the frame and waits d.
func (a *Animator) step(d time.Duration, p wait.Poller) (bool, error) {
	if err := a.surf.Flush(); err != nil {
		return false, err
	}
	return a.w.Wait(d, p), nil
}

// Clear turns every pixel off.
func (a *Animator) Clear() error {
	if err := a.fill(render.Off); err != nil {
		return err
	}
	return a.surf.Flush()
}

// Straight is the resting pose: only the upper half lit. It does not wait.
func (a *Animator) Straight() error {
	if err := a.fill(render.Off); err != nil {
		return err
	}
	if err := a.set(a.ring.UpperHalf(), a.eye()); err != nil {
		return err
	}
	return errors.Wrap(a.surf.Flush(), "straight")
}

// lidOrder groups the upper half into the pairs switched together, from the
// two ends toward the middle.
func lidOrder(upper []int) [][]int {
	var out [][]int
	for i, j := 0, len(upper)-1; i <= j; i, j = i+1, j-1 {
		if i == j {
			out = append(out, []int{upper[i]})
		} else {
			out = append(out, []int{upper[i], upper[j]})
		}
	}
	return out
}

func reversed(s [][]int) [][]int {
	out := make([][]int, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// Blink closes the eye over ceil(n/2) steps, holds it shut, then opens it
// along the mirror order and finishes on Straight.
func (a *Animator) Blink(p wait.Poller) (bool, error) {
	closing := lidOrder(a.ring.UpperHalf())
	if a.opt.Blink == CenterOut {
		closing = reversed(closing)
	}
	for _, pair := range closing {
		if err := a.set(pair, render.Off); err != nil {
			return false, err
		}
		if stop, err := a.step(a.opt.BlinkStep, p); stop || err != nil {
			return stop, errors.Wrap(err, "blink close")
		}
	}
	if err := a.fill(render.Off); err != nil {
		return false, err
	}
	if stop, err := a.step(a.opt.BlinkHold, p); stop || err != nil {
		return stop, errors.Wrap(err, "blink hold")
	}
	eye := a.eye()
	for _, pair := range reversed(closing) {
		if err := a.set(pair, eye); err != nil {
			return false, err
		}
		if stop, err := a.step(a.opt.BlinkStep, p); stop || err != nil {
			return stop, errors.Wrap(err, "blink open")
		}
	}
	return false, a.Straight()
}

// LookLeft rolls the pupil left: the upper-left quarter goes dark while the
// lower-right quarter lights up, element by element.
func (a *Animator) LookLeft(p wait.Poller) (bool, error) {
	return a.look("left", a.ring.LeftQuarter(), a.ring.LowerRightQuarter(), p)
}

// LookRight mirrors LookLeft, walking both quarters from their far end.
func (a *Animator) LookRight(p wait.Poller) (bool, error) {
	return a.look("right", reverse(a.ring.RightQuarter()), reverse(a.ring.LowerLeftQuarter()), p)
}

func reverse(s []int) []int {
	out := make([]int, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

func (a *Animator) look(side string, upper, lower []int, p wait.Poller) (bool, error) {
	eye := a.eye()
	steps := max(len(upper), len(lower))
	frame := func(i int, up, down render.Color) error {
		if i < len(upper) {
			if err := a.surf.SetPixel(upper[i], up); err != nil {
				return err
			}
		}
		if i < len(lower) {
			if err := a.surf.SetPixel(lower[i], down); err != nil {
				return err
			}
		}
		return nil
	}
	for i := 0; i < steps; i++ {
		if err := frame(i, render.Off, eye); err != nil {
			return false, err
		}
		if stop, err := a.step(a.opt.LookStep, p); stop || err != nil {
			return stop, errors.Wrapf(err, "look %s", side)
		}
	}
	if a.w.Wait(a.dwell(), p) {
		return true, nil
	}
	for i := steps - 1; i >= 0; i-- {
		if err := frame(i, eye, render.Off); err != nil {
			return false, err
		}
		if stop, err := a.step(a.opt.LookStep, p); stop || err != nil {
			return stop, errors.Wrapf(err, "look %s back", side)
		}
	}
	return false, nil
}

func (a *Animator) dwell() time.Duration {
	switch {
	case a.opt.Dwell != DwellRandom:
		return a.opt.FixedDwell
	case a.opt.MaxDwell <= a.opt.MinDwell:
		return a.opt.MinDwell
	}
	span := a.opt.MaxDwell - a.opt.MinDwell
	return a.opt.MinDwell + time.Duration(a.opt.Rand.Int63n(int64(span)+1))
}
