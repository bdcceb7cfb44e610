package eyes

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-xmasbot/internal/layout"
	"github.com/coreman2200/funtimes-xmasbot/internal/led"
	"github.com/coreman2200/funtimes-xmasbot/internal/render"
	"github.com/coreman2200/funtimes-xmasbot/internal/wait"
)

type sumSleeper struct{ total time.Duration }

func (s *sumSleeper) Sleep(d time.Duration) { s.total += d }

type rig struct {
	drv   *led.Sim
	sleep *sumSleeper
	anim  *Animator
}

func newRig(t *testing.T, count int, opt Options) *rig {
	t.Helper()
	r := &rig{drv: led.NewSim(count, zerolog.Nop()), sleep: &sumSleeper{}}
	strip, err := render.NewStrip(count, r.drv)
	require.NoError(t, err)
	if opt.Color == (render.Color{}) {
		opt.Color = render.Color{R: 10, G: 10, B: 10}
		opt.Brightness = 1
	}
	r.anim, err = NewAnimator(strip, layout.Ring{Count: count}, &wait.Waiter{Clock: r.sleep, Quantum: 50 * time.Millisecond}, opt, zerolog.Nop())
	require.NoError(t, err)
	return r
}

// lit lists the indices that are on in frame f, ascending.
func lit(f []byte) []int {
	out := []int{}
	for i := 0; i < len(f)/3; i++ {
		if f[i*3] != 0 || f[i*3+1] != 0 || f[i*3+2] != 0 {
			out = append(out, i)
		}
	}
	return out
}

func (r *rig) litFrames() [][]int {
	var out [][]int
	for _, f := range r.drv.Frames {
		out = append(out, lit(f))
	}
	return out
}

func ints(v ...int) []int {
	sort.Ints(v)
	return v
}

func firesOn(k int) wait.Poller {
	n := 0
	return wait.PollFunc(func() bool {
		n++
		return n >= k
	})
}

func TestStraight(t *testing.T) {
	r := newRig(t, 12, Options{})
	require.NoError(t, r.anim.Straight())

	assert.Equal(t, ints(9, 10, 11, 0, 1, 2, 3), lit(r.drv.Last()))
	assert.Equal(t, byte(10), r.drv.Last()[0])
	assert.Zero(t, r.sleep.total)
}

func TestStraightDefaultBrightness(t *testing.T) {
	r := newRig(t, 12, Options{Color: render.Color{R: 255, G: 255, B: 255}})
	require.NoError(t, r.anim.Straight())
	// 255 * 0.01 truncates to 2
	assert.Equal(t, []byte{2, 2, 2}, r.drv.Last()[:3])
}

func TestBlinkOutsideIn(t *testing.T) {
	r := newRig(t, 12, Options{})
	require.NoError(t, r.anim.Straight())
	straight := r.drv.Last()
	r.drv.Frames = nil

	stop, err := r.anim.Blink(wait.Never)
	require.NoError(t, err)
	assert.False(t, stop)

	assert.Equal(t, [][]int{
		ints(10, 11, 0, 1, 2),
		ints(11, 0, 1),
		ints(0),
		{},
		{},
		ints(0),
		ints(11, 0, 1),
		ints(10, 11, 0, 1, 2),
		ints(9, 10, 11, 0, 1, 2, 3),
		ints(9, 10, 11, 0, 1, 2, 3),
	}, r.litFrames())
	assert.Equal(t, straight, r.drv.Last())
	assert.Equal(t, 550*time.Millisecond, r.sleep.total)
}

func TestBlinkCenterOut(t *testing.T) {
	r := newRig(t, 12, Options{Blink: CenterOut})
	require.NoError(t, r.anim.Straight())
	r.drv.Frames = nil

	_, err := r.anim.Blink(wait.Never)
	require.NoError(t, err)

	frames := r.litFrames()
	assert.Equal(t, ints(9, 10, 11, 1, 2, 3), frames[0])
	assert.Equal(t, ints(9, 3), frames[2])
	assert.Equal(t, ints(9, 3), frames[5], "opening starts at the ends")
	assert.Equal(t, ints(9, 10, 11, 0, 1, 2, 3), frames[len(frames)-1])
}

func TestBlinkRoundTripForAnyCount(t *testing.T) {
	for n := 4; n <= 24; n++ {
		r := newRig(t, n, Options{})
		require.NoError(t, r.anim.Straight())
		straight := r.drv.Last()

		_, err := r.anim.Blink(wait.Never)
		require.NoError(t, err)
		assert.Equal(t, straight, r.drv.Last(), "count %d", n)
	}
}

func TestBlinkInterrupted(t *testing.T) {
	r := newRig(t, 12, Options{})
	require.NoError(t, r.anim.Straight())
	r.drv.Frames = nil

	stop, err := r.anim.Blink(firesOn(2))
	require.NoError(t, err)
	assert.True(t, stop)
	assert.Len(t, r.drv.Frames, 2)
	assert.Equal(t, 50*time.Millisecond, r.sleep.total)
}

func TestLookLeft(t *testing.T) {
	r := newRig(t, 12, Options{})
	require.NoError(t, r.anim.Straight())
	straight := r.drv.Last()
	r.drv.Frames = nil

	stop, err := r.anim.LookLeft(wait.Never)
	require.NoError(t, err)
	assert.False(t, stop)

	assert.Equal(t, [][]int{
		ints(10, 11, 0, 1, 2, 3, 4),
		ints(11, 0, 1, 2, 3, 4, 5),
		ints(0, 1, 2, 3, 4, 5, 6),
		ints(11, 0, 1, 2, 3, 4, 5),
		ints(10, 11, 0, 1, 2, 3, 4),
		ints(9, 10, 11, 0, 1, 2, 3),
	}, r.litFrames())
	assert.Equal(t, straight, r.drv.Last())
	assert.Equal(t, 6*80*time.Millisecond+500*time.Millisecond, r.sleep.total)
}

func TestLookRight(t *testing.T) {
	r := newRig(t, 12, Options{})
	require.NoError(t, r.anim.Straight())
	straight := r.drv.Last()
	r.drv.Frames = nil

	_, err := r.anim.LookRight(wait.Never)
	require.NoError(t, err)

	frames := r.litFrames()
	require.Len(t, frames, 6)
	assert.Equal(t, ints(9, 10, 11, 0, 1, 2, 8), frames[0])
	assert.Equal(t, ints(9, 10, 11, 0, 1, 7, 8), frames[1])
	assert.Equal(t, ints(9, 10, 11, 0, 6, 7, 8), frames[2])
	assert.Equal(t, straight, r.drv.Last())
}

func TestLookInterruptedDuringDwellSkipsReturn(t *testing.T) {
	r := newRig(t, 12, Options{})
	require.NoError(t, r.anim.Straight())
	r.drv.Frames = nil

	// three 80ms steps poll twice each, the seventh poll opens the dwell
	stop, err := r.anim.LookLeft(firesOn(7))
	require.NoError(t, err)
	assert.True(t, stop)
	assert.Len(t, r.drv.Frames, 3)
	assert.Equal(t, ints(0, 1, 2, 3, 4, 5, 6), lit(r.drv.Last()))
	assert.Equal(t, 240*time.Millisecond, r.sleep.total)
}

func TestUnevenRingLooksTruncate(t *testing.T) {
	r := newRig(t, 10, Options{})
	require.NoError(t, r.anim.Straight())
	straight := r.drv.Last()

	_, err := r.anim.LookRight(wait.Never)
	require.NoError(t, err)
	_, err = r.anim.LookLeft(wait.Never)
	require.NoError(t, err)
	assert.Equal(t, straight, r.drv.Last())
}

func TestHardwareFailurePropagates(t *testing.T) {
	r := newRig(t, 12, Options{})
	r.drv.Fail = errors.New("wire cut")

	stop, err := r.anim.Blink(wait.Never)
	assert.False(t, stop)
	assert.True(t, render.IsHardwareFailure(err))

	_, err = r.anim.LookLeft(wait.Never)
	assert.True(t, render.IsHardwareFailure(err))
	assert.True(t, render.IsHardwareFailure(r.anim.Straight()))
}

func TestRandomDwellInRange(t *testing.T) {
	r := newRig(t, 12, Options{Dwell: DwellRandom, Rand: rand.New(rand.NewSource(7))})
	for i := 0; i < 200; i++ {
		d := r.anim.dwell()
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 3*time.Second)
	}

	fixed := newRig(t, 12, Options{})
	assert.Equal(t, 500*time.Millisecond, fixed.anim.dwell())
}

func TestNewAnimatorRejectsMismatch(t *testing.T) {
	strip, err := render.NewStrip(8, led.NewSim(8, zerolog.Nop()))
	require.NoError(t, err)

	_, err = NewAnimator(strip, layout.Ring{Count: 12}, wait.New(0), Options{}, zerolog.Nop())
	assert.Error(t, err)
	_, err = NewAnimator(strip, layout.Ring{Count: 0}, wait.New(0), Options{}, zerolog.Nop())
	assert.Error(t, err)
}
