// Package show plays melodies on the buzzer while pulsing the ring in time
// with the pitch.
package show

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-xmasbot/internal/melody"
	"github.com/coreman2200/funtimes-xmasbot/internal/render"
	"github.com/coreman2200/funtimes-xmasbot/internal/wait"
)

// Tone is a square wave generator. A duty of 0 is silence.
type Tone interface {
	SetFrequency(hz int) error
	SetDuty(frac float64) error
}

// MapFreq maps a frequency onto a brightness in [0.1, 1] with a quadratic
// curve so that high notes stand out. Zero, a rest, maps to 0.
func MapFreq(f, lo, hi int) float64 {
	if f == 0 {
		return 0
	}
	n := float64(f-lo) / float64(hi-lo)
	if n < 0 {
		n = 0
	}
	if n > 1 {
		n = 1
	}
	return 0.1 + 0.9*n*n
}

// FreqToBrightness is MapFreq over the playable note range.
func FreqToBrightness(f int) float64 {
	return MapFreq(f, melody.Lowest, melody.Highest)
}

// Smooth moves current toward target by the fraction k.
func Smooth(current, target, k float64) float64 {
	return current + (target-current)*k
}

// Player performs songs. It is not safe for concurrent use.
type Player struct {
	surf render.Surface
	tone Tone
	w    *wait.Waiter
	opt  Options
	log  zerolog.Logger

	brightness float64
	lastKey    string
	played     bool
}

func NewPlayer(surf render.Surface, tone Tone, w *wait.Waiter, opt Options, log zerolog.Logger) *Player {
	return &Player{
		surf: surf,
		tone: tone,
		w:    w,
		opt:  opt.withDefaults(),
		log:  log,
	}
}

// Brightness is the current light level in [0, 1].
func (p *Player) Brightness() float64 { return p.brightness }

// Reset forgets the brightness. The rotation position is kept.
func (p *Player) Reset() { p.brightness = 0 }

// PlayNext plays the song after the one played last, in key order, starting
// with the lowest key and wrapping around.
func (p *Player) PlayNext(ctx context.Context, songs melody.Table) (melody.Song, error) {
	keys := songs.Keys()
	if len(keys) == 0 {
		return melody.Song{}, errors.New("no songs to play")
	}
	key := keys[0]
	if p.played {
		for i, k := range keys {
			if k == p.lastKey {
				key = keys[(i+1)%len(keys)]
				break
			}
		}
	}
	p.lastKey = key
	p.played = true

	song := songs[key]
	p.log.Info().Str("song", song.Title).Str("key", key).Msg("playing")
	return song, p.PlayMelody(ctx, song.Melody)
}

// PlayMelody plays every note, fading the ring between notes, then fades out
// and clears the ring. Cancelling ctx silences the tone and returns ctx.Err()
// at the next wait.
func (p *Player) PlayMelody(ctx context.Context, m melody.Melody) (err error) {
	p.brightness = 0
	defer func() {
		p.brightness = 0
		if err != nil {
			if serr := p.tone.SetDuty(0); serr != nil {
				p.log.Warn().Err(serr).Msg("silence tone")
			}
		}
	}()
	for _, n := range m {
		if err := p.playNote(ctx, n); err != nil {
			return err
		}
	}
	if err := p.outro(ctx); err != nil {
		return err
	}
	return errors.Wrap(render.FillSurface(p.surf, render.Off), "clear after song")
}

func (p *Player) playNote(ctx context.Context, n melody.Note) error {
	f, err := n.Freq()
	if err != nil {
		return err
	}
	if f == 0 {
		err = p.tone.SetDuty(0)
	} else if err = p.tone.SetFrequency(f); err == nil {
		err = p.tone.SetDuty(float64(p.opt.Volume))
	}
	if err != nil {
		return errors.Wrapf(err, "tone %s", n.Name)
	}
	p.log.Debug().Str("note", n.Name).Int("hz", f).Dur("dur", n.Duration).Msg("note")

	target := MapFreq(f, p.opt.MinFreq, p.opt.MaxFreq)
	steps := max(p.opt.MinSteps, int(n.Duration.Seconds()*p.opt.UpdateRate))
	step := n.Duration / time.Duration(steps)
	for i := 0; i < steps; i++ {
		p.brightness = Smooth(p.brightness, target, p.opt.Smoothing)
		if err := p.paint(n, PhaseNote); err != nil {
			return err
		}
		if err := p.hold(ctx, step); err != nil {
			return err
		}
	}
	if err := p.tone.SetDuty(0); err != nil {
		return errors.Wrapf(err, "tone %s off", n.Name)
	}
	return p.fade(ctx, n)
}

// fade dims quickly between notes so consecutive notes pulse.
func (p *Player) fade(ctx context.Context, n melody.Note) error {
	steps := max(p.opt.MinSteps, int(p.opt.FadeBudget/p.opt.FadeStep))
	step := p.opt.FadeBudget / time.Duration(steps)
	for i := 0; i < steps; i++ {
		p.brightness *= p.opt.Decay
		if p.brightness < p.opt.Floor {
			p.brightness = 0
			break
		}
		if err := p.paint(n, PhaseFade); err != nil {
			return err
		}
		if err := p.hold(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) outro(ctx context.Context) error {
	for i := 0; i < p.opt.OutroSteps; i++ {
		p.brightness = Smooth(p.brightness, 0, p.opt.OutroSmoothing)
		if err := p.paint(melody.Note{}, PhaseOutro); err != nil {
			return err
		}
		if err := p.hold(ctx, p.opt.OutroStep); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) paint(n melody.Note, ph Phase) error {
	c := p.opt.Color.Scale(p.brightness)
	for i := 0; i < p.surf.Len(); i++ {
		if err := p.surf.SetPixel(i, c); err != nil {
			return err
		}
	}
	if err := p.surf.Flush(); err != nil {
		return errors.Wrapf(err, "%s %s", ph, n.Name)
	}
	if p.opt.Trace != nil {
		p.opt.Trace(Sample{Note: n, Phase: ph, Brightness: p.brightness})
	}
	return nil
}

// hold waits d and returns ctx.Err() if ctx ends first.
func (p *Player) hold(ctx context.Context, d time.Duration) error {
	if p.w.Wait(d, wait.Context(ctx)) {
		p.log.Debug().Msg("playback stopped")
		return ctx.Err()
	}
	return nil
}
