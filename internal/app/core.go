// Package app owns the device: it opens the hardware, wires the eyes, the
// show and the scheduler together, and guarantees a quiet, dark shutdown.
package app

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-xmasbot/internal/button"
	"github.com/coreman2200/funtimes-xmasbot/internal/config"
	"github.com/coreman2200/funtimes-xmasbot/internal/eyes"
	"github.com/coreman2200/funtimes-xmasbot/internal/layout"
	"github.com/coreman2200/funtimes-xmasbot/internal/led"
	"github.com/coreman2200/funtimes-xmasbot/internal/melody"
	"github.com/coreman2200/funtimes-xmasbot/internal/mode"
	"github.com/coreman2200/funtimes-xmasbot/internal/render"
	"github.com/coreman2200/funtimes-xmasbot/internal/show"
	"github.com/coreman2200/funtimes-xmasbot/internal/wait"
)

// Core holds every hardware handle. Nothing else keeps a reference to them.
type Core struct {
	*Hardware

	Cfg   *config.Config
	Ring  layout.Ring
	Songs melody.Table
	Eyes  *eyes.Animator
	Show  *show.Player
	Sched *mode.Scheduler

	w      *wait.Waiter
	log    zerolog.Logger
	closed bool
}

// Options inject test doubles. Zero values use the real thing.
type Options struct {
	Driver led.Driver
	Clock  wait.Sleeper
	Rand   *rand.Rand
	Trace  func(show.Sample)
}

func InitCore(cfg *config.Config, opt Options, log zerolog.Logger) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	ring := layout.Ring{Count: cfg.LEDCount, Offset: cfg.OrientationOffset}

	songs, err := melody.Load(cfg.SongsDir)
	if err != nil {
		return nil, errors.Wrap(err, "songs")
	}

	hw, err := OpenHardware(cfg, opt.Driver, log)
	if err != nil {
		return nil, err
	}
	c := &Core{Hardware: hw, Cfg: cfg, Ring: ring, Songs: songs, log: log}

	c.w = wait.New(cfg.PollQuantum)
	if opt.Clock != nil {
		c.w.Clock = opt.Clock
	}

	if err := c.wire(opt); err != nil {
		_ = c.Close()
		return nil, err
	}
	log.Info().
		Str("driver", cfg.Driver).
		Int("leds", ring.Count).
		Int("offset", ring.Offset).
		Strs("songs", songs.Keys()).
		Msg("core ready")
	return c, nil
}

func (c *Core) wire(opt Options) error {
	cfg := c.Cfg
	blink, err := eyes.ParseBlinkStyle(cfg.Eyes.Blink)
	if err != nil {
		return err
	}
	dwell, err := eyes.ParseDwellPolicy(cfg.Eyes.Dwell)
	if err != nil {
		return err
	}
	idle, err := eyes.ParseIdleStyle(cfg.Eyes.Idle)
	if err != nil {
		return err
	}
	vol, err := show.ParseVolume(cfg.Volume)
	if err != nil {
		return err
	}

	c.Eyes, err = eyes.NewAnimator(c.Strip, c.Ring, c.w, eyes.Options{
		Color:      render.RGB(cfg.Eyes.Color),
		Brightness: cfg.Eyes.Brightness,
		Blink:      blink,
		Dwell:      dwell,
		FixedDwell: cfg.Eyes.FixedDwell,
		MinDwell:   cfg.Eyes.MinDwell,
		MaxDwell:   cfg.Eyes.MaxDwell,
		Idle:       idle,
		Rand:       opt.Rand,
	}, c.log.With().Str("component", "eyes").Logger())
	if err != nil {
		return err
	}

	c.Show = show.NewPlayer(c.Strip, c.Pins.Buzzer, c.w, show.Options{
		Color:     render.RGB(cfg.Show.Color),
		Volume:    vol,
		MinFreq:   cfg.Show.MinFreq,
		MaxFreq:   cfg.Show.MaxFreq,
		Smoothing: cfg.Show.Smoothing,
		Trace:     opt.Trace,
	}, c.log.With().Str("component", "show").Logger())

	var ind mode.Indicator
	if c.Pins.Indicator != nil {
		ind = c.Pins.Indicator
	}
	c.Sched, err = mode.NewScheduler(c.Eyes, c.Show, c.Songs, button.NewEdge(c.Pins.Button), ind, c.w, mode.Options{
		IdlePause: cfg.Eyes.IdlePause,
		Settle:    cfg.Settle,
		Resume:    cfg.Resume,
	}, c.log.With().Str("component", "mode").Logger())
	return err
}

// Run drives the scheduler until ctx is done. A failed run puts the device in
// the safe state, waits cfg.RestartDelay and starts over in idle, at most
// cfg.MaxRestarts times when that is set. Shutdown through ctx returns nil.
func (c *Core) Run(ctx context.Context) error {
	restarts := 0
	for {
		err := c.Sched.Run(ctx)
		if ctx.Err() != nil {
			c.log.Info().Msg("stopping")
			return nil
		}
		c.log.Error().Err(err).
			Bool("hardware", render.IsHardwareFailure(err)).
			Int("restarts", restarts).
			Msg("scheduler failed")
		if serr := c.Safe(); serr != nil {
			c.log.Warn().Err(serr).Msg("safe state")
		}
		if c.Cfg.MaxRestarts > 0 && restarts >= c.Cfg.MaxRestarts {
			return errors.Wrapf(err, "giving up after %d restarts", restarts)
		}
		restarts++
		if c.w.Wait(c.Cfg.RestartDelay, wait.Context(ctx)) {
			return nil
		}
		c.Show.Reset()
		c.Sched.Reset()
	}
}

// Close puts the device in the safe state and releases every handle. It is
// safe to call more than once.
func (c *Core) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	err := c.Hardware.Close()
	if err != nil {
		c.log.Warn().Err(err).Msg("close")
	}
	return err
}
