// Package wait turns long sleeps into short polled slices so a single
// thread can react to a button or a stop request while an animation or a
// melody is in progress.
package wait

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultQuantum is the longest single sleep between two polls.
const DefaultQuantum = 50 * time.Millisecond

// Poller is asked, between sleeps, whether the current wait should end early.
type Poller interface {
	ShouldInterrupt() bool
}

// PollFunc adapts a plain function to Poller.
type PollFunc func() bool

func (f PollFunc) ShouldInterrupt() bool { return f() }

// Never is a Poller that never fires.
var Never Poller = PollFunc(func() bool { return false })

// Context fires once ctx is done.
func Context(ctx context.Context) Poller {
	return PollFunc(func() bool { return ctx.Err() != nil })
}

// Any fires when one of ps fires. Every poller is checked on each poll so
// stateful pollers, like button edge detectors, keep their state current.
func Any(ps ...Poller) Poller {
	return PollFunc(func() bool {
		fired := false
		for _, p := range ps {
			if p != nil && p.ShouldInterrupt() {
				fired = true
			}
		}
		return fired
	})
}

// Sleeper blocks the calling thread. clockwork.Clock satisfies it.
type Sleeper interface {
	Sleep(d time.Duration)
}

// Waiter performs interruptible waits.
type Waiter struct {
	Clock   Sleeper
	Quantum time.Duration
}

// New returns a Waiter on the wall clock.
func New(quantum time.Duration) *Waiter {
	return &Waiter{Clock: clockwork.NewRealClock(), Quantum: quantum}
}

// Wait blocks for d, polling p before every slice of at most Quantum. It
// returns true as soon as p fires, without finishing the remaining time, and
// false once d has elapsed. A nil poller never fires.
func (w *Waiter) Wait(d time.Duration, p Poller) bool {
	q := w.Quantum
	if q <= 0 {
		q = DefaultQuantum
	}
	var elapsed time.Duration
	for elapsed < d {
		if p != nil && p.ShouldInterrupt() {
			return true
		}
		step := min(q, d-elapsed)
		w.Clock.Sleep(step)
		elapsed += step
	}
	return false
}
