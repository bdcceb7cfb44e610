// Package mode switches between the idle eyes and the music show on button
// presses.
package mode

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-xmasbot/internal/melody"
	"github.com/coreman2200/funtimes-xmasbot/internal/wait"
)

// State enumerates scheduler states.
type State string

const (
	Idle        State = "idle"
	Interrupted State = "interrupted"
	Playing     State = "playing"
)

// Eyes is the idle animation.
type Eyes interface {
	Straight() error
	Clear() error
	Animate(p wait.Poller) (bool, error)
}

// Show plays songs.
type Show interface {
	PlayNext(ctx context.Context, songs melody.Table) (melody.Song, error)
}

// Button reports press edges.
type Button interface {
	Pressed() bool
	Resync()
}

// Indicator is a status output, high while a song plays.
type Indicator interface {
	SetLevel(on bool) error
}

type Options struct {
	// IdlePause separates idle animations.
	IdlePause time.Duration
	// Settle is the dark pause between a press and the first note.
	Settle time.Duration
	// Resume is the pause after a song before the eyes open again.
	Resume time.Duration
}

func DefaultOptions() Options {
	return Options{
		IdlePause: 2 * time.Second,
		Settle:    200 * time.Millisecond,
		Resume:    time.Second,
	}
}

// Scheduler runs the idle / interrupted / playing cycle on the calling
// goroutine.
type Scheduler struct {
	State State
	// Played counts finished songs.
	Played int

	eyes  Eyes
	show  Show
	songs melody.Table
	btn   Button
	ind   Indicator
	w     *wait.Waiter
	opt   Options
	log   zerolog.Logger

	entered bool
}

// NewScheduler wires the scheduler. ind may be nil.
func NewScheduler(eyes Eyes, show Show, songs melody.Table, btn Button, ind Indicator, w *wait.Waiter, opt Options, log zerolog.Logger) (*Scheduler, error) {
	if err := songs.Validate(); err != nil {
		return nil, err
	}
	d := DefaultOptions()
	if opt.IdlePause < 0 {
		opt.IdlePause = 0
	} else if opt.IdlePause == 0 {
		opt.IdlePause = d.IdlePause
	}
	if opt.Settle <= 0 {
		opt.Settle = d.Settle
	}
	if opt.Resume <= 0 {
		opt.Resume = d.Resume
	}
	return &Scheduler{
		State: Idle,
		eyes:  eyes,
		show:  show,
		songs: songs,
		btn:   btn,
		ind:   ind,
		w:     w,
		opt:   opt,
		log:   log,
	}, nil
}

// Run steps the scheduler until ctx is done, returning ctx.Err(), or a step
// fails.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Step(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

// Reset puts the scheduler back into Idle so the next Step redraws the eyes.
func (s *Scheduler) Reset() {
	s.State = Idle
	s.entered = false
	s.btn.Resync()
}

// Step performs one state's worth of work.
func (s *Scheduler) Step(ctx context.Context) error {
	switch s.State {
	case Idle:
		return s.idle(ctx)
	case Interrupted:
		return s.interrupted(ctx)
	case Playing:
		return s.playing(ctx)
	}
	return errors.Errorf("unknown state %q", s.State)
}

func (s *Scheduler) idle(ctx context.Context) error {
	if !s.entered {
		if err := s.eyes.Straight(); err != nil {
			return errors.Wrap(err, "idle")
		}
		s.entered = true
	}
	pressed := false
	p := wait.PollFunc(func() bool {
		if ctx.Err() != nil {
			return true
		}
		if s.btn.Pressed() {
			pressed = true
			return true
		}
		return false
	})
	if p.ShouldInterrupt() {
		return s.interrupt(pressed)
	}
	stop, err := s.eyes.Animate(p)
	if err != nil {
		return errors.Wrap(err, "idle animation")
	}
	if !stop && s.opt.IdlePause > 0 {
		s.w.Wait(s.opt.IdlePause, p)
	}
	return s.interrupt(pressed)
}

func (s *Scheduler) interrupt(pressed bool) error {
	if pressed {
		s.log.Info().Msg("button pressed, switching to music")
		s.State = Interrupted
	}
	return nil
}

func (s *Scheduler) interrupted(ctx context.Context) error {
	if err := s.eyes.Clear(); err != nil {
		return errors.Wrap(err, "clear eyes")
	}
	if s.w.Wait(s.opt.Settle, wait.Context(ctx)) {
		return ctx.Err()
	}
	s.State = Playing
	return nil
}

func (s *Scheduler) playing(ctx context.Context) error {
	s.indicate(true)
	song, err := s.show.PlayNext(ctx, s.songs)
	s.indicate(false)
	if err != nil {
		return errors.Wrap(err, "play")
	}
	s.Played++
	s.log.Info().Str("song", song.Title).Int("played", s.Played).Msg("song finished")
	if s.w.Wait(s.opt.Resume, wait.Context(ctx)) {
		return ctx.Err()
	}
	s.log.Info().Msg("back to eyes")
	s.Reset()
	return nil
}

func (s *Scheduler) indicate(on bool) {
	if s.ind == nil {
		return
	}
	if err := s.ind.SetLevel(on); err != nil {
		s.log.Warn().Err(err).Bool("on", on).Msg("indicator")
	}
}
