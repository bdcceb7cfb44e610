package eyes

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-xmasbot/internal/wait"
)

var TestPickIsExpectedKind = []struct {
	R    float64
	Kind Kind
}{
	{0, KindBlink},
	{0.59, KindBlink},
	{0.60, KindBlinkLook},
	{0.84, KindBlinkLook},
	{0.85, KindLook},
	{0.949, KindLook},
	{0.95, KindLookBoth},
	{0.999, KindLookBoth},
}

func TestPick(t *testing.T) {
	for _, v := range TestPickIsExpectedKind {
		assert.Equal(t, v.Kind, Pick(v.R), "r=%v", v.R)
	}
}

func TestPickDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	counts := map[Kind]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[Pick(rng.Float64())]++
	}
	assert.InDelta(t, 0.60, float64(counts[KindBlink])/n, 0.02)
	assert.InDelta(t, 0.25, float64(counts[KindBlinkLook])/n, 0.02)
	assert.InDelta(t, 0.10, float64(counts[KindLook])/n, 0.02)
	assert.InDelta(t, 0.05, float64(counts[KindLookBoth])/n, 0.02)
}

func TestDoAnimationReturnsToStraight(t *testing.T) {
	for seed := int64(1); seed <= 40; seed++ {
		r := newRig(t, 12, Options{Rand: rand.New(rand.NewSource(seed))})
		require.NoError(t, r.anim.Straight())
		straight := r.drv.Last()

		stop, err := r.anim.DoAnimation(wait.Never)
		require.NoError(t, err)
		assert.False(t, stop)
		assert.Equal(t, straight, r.drv.Last(), "seed %d", seed)
		assert.Greater(t, r.sleep.total, time.Duration(0))
	}
}

func TestRunStopsOnPauseInterrupt(t *testing.T) {
	r := newRig(t, 12, Options{})
	require.NoError(t, r.anim.Straight())
	calls := 0
	prim := func(wait.Poller) (bool, error) {
		calls++
		return false, nil
	}

	stop, err := r.anim.run(firesOn(1), prim, prim, prim)
	require.NoError(t, err)
	assert.True(t, stop)
	assert.Equal(t, 1, calls)
}

func TestRunStopsOnPrimitiveInterrupt(t *testing.T) {
	r := newRig(t, 12, Options{})
	calls := 0
	prim := func(wait.Poller) (bool, error) {
		calls++
		return true, nil
	}

	stop, err := r.anim.run(wait.Never, prim, prim)
	require.NoError(t, err)
	assert.True(t, stop)
	assert.Equal(t, 1, calls)
	assert.Zero(t, r.sleep.total)
}

func TestCycle(t *testing.T) {
	r := newRig(t, 12, Options{})

	stop, err := r.anim.Cycle(wait.Never)
	require.NoError(t, err)
	assert.False(t, stop)
	assert.Equal(t, ints(9, 10, 11, 0, 1, 2, 3), lit(r.drv.Last()))
	// 1.5s + 2 × (0.55 + 0.5) + 2 × (0.98 + 0.3)
	assert.Equal(t, 6160*time.Millisecond, r.sleep.total)
	// straight, 2 × 10 blink frames, 2 × 6 look frames
	assert.Len(t, r.drv.Frames, 33)
}

func TestCycleInterruptedOnFirstPause(t *testing.T) {
	r := newRig(t, 12, Options{})

	stop, err := r.anim.Cycle(firesOn(1))
	require.NoError(t, err)
	assert.True(t, stop)
	assert.Len(t, r.drv.Frames, 1)
	assert.Zero(t, r.sleep.total)
}

func TestAnimateDispatch(t *testing.T) {
	r := newRig(t, 12, Options{Idle: IdleCycle})
	_, err := r.anim.Animate(wait.Never)
	require.NoError(t, err)
	assert.Len(t, r.drv.Frames, 33)
}

func TestParseStyles(t *testing.T) {
	b, err := ParseBlinkStyle("Center-Out")
	require.NoError(t, err)
	assert.Equal(t, CenterOut, b)
	_, err = ParseBlinkStyle("sideways")
	assert.Error(t, err)

	d, err := ParseDwellPolicy("random")
	require.NoError(t, err)
	assert.Equal(t, DwellRandom, d)

	i, err := ParseIdleStyle("")
	require.NoError(t, err)
	assert.Equal(t, IdleRandom, i)
}
