// Package selftest exercises each piece of hardware on its own: the ring
// colours and wiring order, the buzzer, the status LED and the button.
package selftest

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-xmasbot/internal/button"
	"github.com/coreman2200/funtimes-xmasbot/internal/melody"
	"github.com/coreman2200/funtimes-xmasbot/internal/render"
	"github.com/coreman2200/funtimes-xmasbot/internal/show"
	"github.com/coreman2200/funtimes-xmasbot/internal/wait"
)

// Output is a digital output such as the status LED.
type Output interface {
	SetLevel(on bool) error
}

type Suite struct {
	Surface   render.Surface
	Tone      show.Tone
	Button    button.Input
	Indicator Output // may be nil
	Wait      *wait.Waiter
	Log       zerolog.Logger

	Hold       time.Duration // per colour of RGBChannels
	SweepStep  time.Duration
	NoteLength time.Duration
	Volume     show.Volume
	Blinks     int
	BlinkHalf  time.Duration
	WatchFor   time.Duration
}

func (s *Suite) defaults() {
	if s.Hold <= 0 {
		s.Hold = 2 * time.Second
	}
	if s.SweepStep <= 0 {
		s.SweepStep = 100 * time.Millisecond
	}
	if s.NoteLength <= 0 {
		s.NoteLength = 300 * time.Millisecond
	}
	if s.Volume <= 0 {
		s.Volume = show.VolumeMedium
	}
	if s.Blinks <= 0 {
		s.Blinks = 3
	}
	if s.BlinkHalf <= 0 {
		s.BlinkHalf = time.Second
	}
	if s.WatchFor <= 0 {
		s.WatchFor = 10 * time.Second
	}
}

// Run plays the given tests, All when none are named, and returns one
// diagnostic per test. Cancelling ctx skips the remaining tests.
func (s *Suite) Run(ctx context.Context, kinds ...Kind) []Diagnostic {
	s.defaults()
	if len(kinds) == 0 {
		kinds = All
	}
	var out []Diagnostic
	for _, k := range kinds {
		if ctx.Err() != nil {
			out = append(out, Diagnostic{Test: k, Severity: Warn, Code: "skipped", Summary: "test skipped after stop request"})
			continue
		}
		s.Log.Info().Str("test", string(k)).Msg("running")
		d := s.run(ctx, k)
		d.Test = k
		ev := s.Log.Info()
		if d.Severity != Info {
			ev = s.Log.Warn()
		}
		ev.Str("test", string(k)).Str("code", d.Code).Msg(d.Summary)
		out = append(out, d)
	}
	return out
}

func (s *Suite) run(ctx context.Context, k Kind) Diagnostic {
	switch k {
	case RGBChannels:
		return s.frames(ctx, k, s.Hold)
	case IndexSweep:
		return s.frames(ctx, k, s.SweepStep)
	case ToneScale:
		return s.toneScale(ctx)
	case StatusBlink:
		return s.statusBlink(ctx)
	case ButtonWatch:
		return s.buttonWatch(ctx)
	}
	return Diagnostic{Severity: Err, Code: "unknown_test", Summary: "no such test: " + string(k)}
}

func stopped(ctx context.Context) Diagnostic {
	return Diagnostic{Severity: Warn, Code: "stopped", Summary: "stopped before completion", Detail: context.Cause(ctx).Error()}
}

func (s *Suite) frames(ctx context.Context, k Kind, hold time.Duration) Diagnostic {
	n := s.Surface.Len()
	px := make([]render.Color, n)
	r := NewRunner(k)
	count := 0
	for r.Step(px) {
		for i, c := range px {
			if err := s.Surface.SetPixel(i, c); err != nil {
				return ledFailure(err)
			}
		}
		if err := s.Surface.Flush(); err != nil {
			return ledFailure(err)
		}
		count++
		if s.Wait.Wait(hold, wait.Context(ctx)) {
			return stopped(ctx)
		}
	}
	if err := render.FillSurface(s.Surface, render.Off); err != nil {
		return ledFailure(err)
	}
	return Diagnostic{
		Severity: Info,
		Code:     "ok",
		Summary:  "frames written; check colours and order by eye",
		Evidence: map[string]any{"frames": count, "leds": n},
	}
}

func ledFailure(err error) Diagnostic {
	return Diagnostic{
		Severity: Err,
		Code:     "led_write_failed",
		Summary:  "could not write to the LED ring",
		Detail:   err.Error(),
		LikelyCauses: []string{
			"SPI disabled or wrong device",
			"data line not connected to DIN",
			"ring not powered",
		},
		SuggestedFixes: []string{
			"enable SPI and check spi.dev",
			"check wiring and common ground",
		},
		Evidence: map[string]any{"hardware": render.IsHardwareFailure(err)},
	}
}

func (s *Suite) toneScale(ctx context.Context) Diagnostic {
	silence := func() { _ = s.Tone.SetDuty(0) }
	defer silence()
	played := 0
	for _, name := range melody.Names() {
		f, _ := melody.Freq(name)
		if f == 0 {
			continue
		}
		if err := s.Tone.SetFrequency(f); err != nil {
			return toneFailure(name, err)
		}
		if err := s.Tone.SetDuty(float64(s.Volume)); err != nil {
			return toneFailure(name, err)
		}
		s.Log.Debug().Str("note", name).Int("hz", f).Msg("tone")
		if s.Wait.Wait(s.NoteLength, wait.Context(ctx)) {
			return stopped(ctx)
		}
		played++
	}
	return Diagnostic{
		Severity: Info,
		Code:     "ok",
		Summary:  "scale played; every note should sound distinct",
		Evidence: map[string]any{"notes": played},
	}
}

func toneFailure(note string, err error) Diagnostic {
	return Diagnostic{
		Severity:       Err,
		Code:           "tone_failed",
		Summary:        "buzzer rejected " + note,
		Detail:         err.Error(),
		LikelyCauses:   []string{"pin has no hardware PWM"},
		SuggestedFixes: []string{"move the buzzer to a PWM capable pin"},
	}
}

func (s *Suite) statusBlink(ctx context.Context) Diagnostic {
	if s.Indicator == nil {
		return Diagnostic{Severity: Warn, Code: "no_indicator", Summary: "no status LED configured"}
	}
	defer func() { _ = s.Indicator.SetLevel(false) }()
	for i := 0; i < s.Blinks; i++ {
		for _, on := range []bool{true, false} {
			if err := s.Indicator.SetLevel(on); err != nil {
				return Diagnostic{Severity: Err, Code: "indicator_failed", Summary: "could not drive the status LED", Detail: err.Error()}
			}
			if s.Wait.Wait(s.BlinkHalf, wait.Context(ctx)) {
				return stopped(ctx)
			}
		}
	}
	return Diagnostic{Severity: Info, Code: "ok", Summary: "status LED blinked", Evidence: map[string]any{"blinks": s.Blinks}}
}

func (s *Suite) buttonWatch(ctx context.Context) Diagnostic {
	e := button.NewEdge(s.Button)
	s.Log.Info().Bool("released", e.Level()).Dur("for", s.WatchFor).Msg("press the button")
	presses, releases := 0, 0
	watch := wait.PollFunc(func() bool {
		switch e.Poll() {
		case button.Press:
			presses++
			s.Log.Info().Msg("button pressed")
		case button.Release:
			releases++
			s.Log.Info().Msg("button released")
		}
		return ctx.Err() != nil
	})
	if s.Wait.Wait(s.WatchFor, watch) {
		return stopped(ctx)
	}
	ev := map[string]any{"presses": presses, "releases": releases}
	if presses == 0 {
		return Diagnostic{
			Severity:       Warn,
			Code:           "button_never_pressed",
			Summary:        "no press seen",
			LikelyCauses:   []string{"nobody pressed it", "button not wired between the pin and GND"},
			SuggestedFixes: []string{"check pins.button"},
			Evidence:       ev,
		}
	}
	return Diagnostic{Severity: Info, Code: "ok", Summary: "button works", Evidence: ev}
}
