package app

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/funtimes-xmasbot/internal/config"
	"github.com/coreman2200/funtimes-xmasbot/internal/led"
	"github.com/coreman2200/funtimes-xmasbot/internal/render"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scriptSleeper advances a virtual clock and lets the test act on it.
type scriptSleeper struct {
	total time.Duration
	hook  func(total time.Duration)
}

func (s *scriptSleeper) Sleep(d time.Duration) {
	s.total += d
	if s.hook != nil {
		s.hook(s.total)
	}
}

func newCore(t *testing.T, cfg *config.Config, drv *led.Sim, clock *scriptSleeper) *Core {
	t.Helper()
	c, err := InitCore(cfg, Options{Driver: drv, Clock: clock, Rand: rand.New(rand.NewSource(3))}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestPressPlaysSongAndShutsDownDark(t *testing.T) {
	drv := led.NewSim(12, zerolog.Nop())
	clock := &scriptSleeper{}
	c := newCore(t, config.Default(), drv, clock)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var tones []physic.Frequency
	pressed := false
	clock.hook = func(total time.Duration) {
		if !pressed && total >= 3*time.Second {
			c.Fakes.Button.L = gpio.Low
			pressed = true
		}
		if c.Pins.Buzzer.Sounding() {
			tones = append(tones, c.Fakes.Buzzer.F)
		}
		if c.Sched.Played == 1 {
			cancel()
		}
	}

	require.NoError(t, c.Run(ctx))

	require.NotEmpty(t, tones)
	assert.Equal(t, 330*physic.Hertz, tones[0], "jingle bells opens on E4")

	red := false
	for _, f := range drv.Frames {
		if f[0] > 0 && f[1] == 0 && f[2] == 0 {
			red = true
			break
		}
	}
	assert.True(t, red, "the show paints the ring red")

	require.NoError(t, c.Close())
	assert.Equal(t, make([]byte, 36), drv.Last())
	assert.Equal(t, gpio.Low, c.Fakes.Buzzer.L)
	assert.Equal(t, gpio.Low, c.Fakes.Indicator.L)
	assert.NoError(t, c.Close(), "second close is a no-op")
}

func TestRunGivesUpAfterMaxRestarts(t *testing.T) {
	cfg := config.Default()
	cfg.MaxRestarts = 2
	cfg.RestartDelay = time.Second
	drv := led.NewSim(12, zerolog.Nop())
	drv.Fail = errors.New("data line open")
	clock := &scriptSleeper{}
	c := newCore(t, cfg, drv, clock)

	err := c.Run(context.Background())

	require.Error(t, err)
	assert.True(t, render.IsHardwareFailure(err))
	assert.Contains(t, err.Error(), "giving up after 2 restarts")
	assert.Equal(t, 2*time.Second, clock.total)
}

func TestRunRecoversAfterTransientFailure(t *testing.T) {
	cfg := config.Default()
	cfg.RestartDelay = time.Second
	drv := led.NewSim(12, zerolog.Nop())
	drv.Fail = errors.New("glitch")
	clock := &scriptSleeper{}
	c := newCore(t, cfg, drv, clock)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock.hook = func(total time.Duration) {
		if total >= 500*time.Millisecond {
			drv.Fail = nil
		}
		if total >= 5*time.Second {
			cancel()
		}
	}

	require.NoError(t, c.Run(ctx))
	require.NotEmpty(t, drv.Frames)
	assert.Equal(t, []byte{2, 2, 2}, drv.Frames[0][:3], "eyes came back")
}

func TestInitCoreRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.LEDCount = 0
	_, err := InitCore(cfg, Options{Driver: led.NewSim(12, zerolog.Nop())}, zerolog.Nop())
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Eyes.Blink = "wink"
	_, err = InitCore(cfg, Options{Driver: led.NewSim(12, zerolog.Nop())}, zerolog.Nop())
	assert.Error(t, err)

	cfg = config.Default()
	cfg.SongsDir = t.TempDir() + "/missing"
	_, err = InitCore(cfg, Options{Driver: led.NewSim(12, zerolog.Nop())}, zerolog.Nop())
	assert.Error(t, err)
}

func TestOpenDriverFallsBackToSim(t *testing.T) {
	cfg := config.Default()
	cfg.Driver = "serial"
	cfg.Serial.Dev = "/dev/does-not-exist"
	drv := OpenDriver(cfg, zerolog.Nop())
	_, ok := drv.(*led.Sim)
	assert.True(t, ok)
	require.NoError(t, drv.Close())
}
