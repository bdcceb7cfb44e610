package wait

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordSleeper struct {
	slept []time.Duration
}

func (r *recordSleeper) Sleep(d time.Duration) { r.slept = append(r.slept, d) }

func (r *recordSleeper) total() time.Duration {
	var t time.Duration
	for _, d := range r.slept {
		t += d
	}
	return t
}

// firesOn returns a poller that fires on its k-th check.
func firesOn(k int) (Poller, *int) {
	n := 0
	return PollFunc(func() bool {
		n++
		return n >= k
	}), &n
}

func TestWaitCompletes(t *testing.T) {
	s := &recordSleeper{}
	w := &Waiter{Clock: s, Quantum: 50 * time.Millisecond}

	interrupted := w.Wait(200*time.Millisecond, Never)

	assert.False(t, interrupted)
	assert.Equal(t, 200*time.Millisecond, s.total())
	assert.Len(t, s.slept, 4)
}

func TestWaitInterruptedAfterKChecks(t *testing.T) {
	for k := 1; k <= 5; k++ {
		s := &recordSleeper{}
		w := &Waiter{Clock: s, Quantum: 50 * time.Millisecond}
		p, checks := firesOn(k)

		interrupted := w.Wait(time.Second, p)

		assert.True(t, interrupted)
		assert.Equal(t, k, *checks)
		assert.Equal(t, time.Duration(k-1)*50*time.Millisecond, s.total())
	}
}

func TestWaitLastSliceIsShort(t *testing.T) {
	s := &recordSleeper{}
	w := &Waiter{Clock: s, Quantum: 50 * time.Millisecond}

	w.Wait(120*time.Millisecond, nil)

	assert.Equal(t, []time.Duration{50 * time.Millisecond, 50 * time.Millisecond, 20 * time.Millisecond}, s.slept)
}

func TestWaitDefaultsQuantum(t *testing.T) {
	s := &recordSleeper{}
	w := &Waiter{Clock: s}

	w.Wait(100*time.Millisecond, Never)

	assert.Equal(t, []time.Duration{DefaultQuantum, DefaultQuantum}, s.slept)
}

func TestAnyPollsEveryPoller(t *testing.T) {
	a, na := firesOn(1)
	b, nb := firesOn(100)

	assert.True(t, Any(a, b, nil).ShouldInterrupt())
	assert.Equal(t, 1, *na)
	assert.Equal(t, 1, *nb, "second poller must still be polled")
}

func TestContextPoller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Context(ctx)

	assert.False(t, p.ShouldInterrupt())
	cancel()
	assert.True(t, p.ShouldInterrupt())
}
