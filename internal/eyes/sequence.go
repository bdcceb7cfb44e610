package eyes

import (
	"time"

	"github.com/coreman2200/funtimes-xmasbot/internal/wait"
)

// Kind names a composed animation.
type Kind string

const (
	KindBlink     Kind = "blink"
	KindBlinkLook Kind = "blink-look"
	KindLook      Kind = "look"
	KindLookBoth  Kind = "look-both"
)

// weights are cumulative.
var weights = []struct {
	upTo float64
	kind Kind
}{
	{0.60, KindBlink},
	{0.85, KindBlinkLook},
	{0.95, KindLook},
	{1.00, KindLookBoth},
}

// Pick maps r in [0,1) onto an animation kind.
func Pick(r float64) Kind {
	for _, w := range weights {
		if r < w.upTo {
			return w.kind
		}
	}
	return KindLookBoth
}

type primitive func(wait.Poller) (bool, error)

// run plays the primitives with an interruptible pause between them and
// stops at the first interruption or error.
func (a *Animator) run(p wait.Poller, prims ...primitive) (bool, error) {
	for i, prim := range prims {
		if i > 0 && a.w.Wait(a.opt.Pause, p) {
			return true, nil
		}
		if stop, err := prim(p); stop || err != nil {
			return stop, err
		}
	}
	return false, nil
}

func (a *Animator) randomLook() primitive {
	if a.opt.Rand.Intn(2) == 0 {
		return a.LookLeft
	}
	return a.LookRight
}

// DoAnimation plays one weighted random animation: a blink 60% of the time,
// a blink then a look 25%, a look 10%, and a look to both sides 5%.
func (a *Animator) DoAnimation(p wait.Poller) (bool, error) {
	kind := Pick(a.opt.Rand.Float64())
	a.log.Debug().Str("kind", string(kind)).Msg("animation")
	switch kind {
	case KindBlink:
		return a.run(p, a.Blink)
	case KindBlinkLook:
		return a.run(p, a.Blink, a.randomLook())
	case KindLook:
		return a.run(p, a.randomLook())
	default:
		return a.run(p, a.LookLeft, a.LookRight)
	}
}

// Cycle plays the fixed sequence: straight, blink twice, look left, look
// right, with pauses in between.
func (a *Animator) Cycle(p wait.Poller) (bool, error) {
	hold := func(d time.Duration, prim primitive) primitive {
		return func(p wait.Poller) (bool, error) {
			if stop, err := prim(p); stop || err != nil {
				return stop, err
			}
			return a.w.Wait(d, p), nil
		}
	}
	straight := func(wait.Poller) (bool, error) { return false, a.Straight() }
	for _, prim := range []primitive{
		hold(1500*time.Millisecond, straight),
		hold(500*time.Millisecond, a.Blink),
		hold(500*time.Millisecond, a.Blink),
		hold(300*time.Millisecond, a.LookLeft),
		hold(300*time.Millisecond, a.LookRight),
	} {
		if stop, err := prim(p); stop || err != nil {
			return stop, err
		}
	}
	return false, nil
}

// Animate plays whichever idle animation is configured.
func (a *Animator) Animate(p wait.Poller) (bool, error) {
	if a.opt.Idle == IdleCycle {
		return a.Cycle(p)
	}
	return a.DoAnimation(p)
}
