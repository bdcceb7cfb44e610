package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/coreman2200/funtimes-xmasbot/internal/led"
	"github.com/coreman2200/funtimes-xmasbot/internal/melody"
	"github.com/coreman2200/funtimes-xmasbot/internal/render"
	"github.com/coreman2200/funtimes-xmasbot/internal/show"
	"github.com/coreman2200/funtimes-xmasbot/internal/wait"
)

// virtualClock advances instantly so a song renders in milliseconds.
type virtualClock struct{ now time.Duration }

func (c *virtualClock) Sleep(d time.Duration) { c.now += d }

type printTone struct {
	clock func() time.Duration
	hz    int
}

func (t *printTone) SetFrequency(hz int) error {
	t.hz = hz
	return nil
}

func (t *printTone) SetDuty(frac float64) error {
	if frac == 0 {
		return nil
	}
	fmt.Printf("%8.3fs [Tone] %d Hz @ %.0f%%\n", t.clock().Seconds(), t.hz, frac*100)
	return nil
}

func main() {
	var (
		songKey  = flag.StringP("song", "s", "", "song key to play (default: every song in order)")
		songsDir = flag.String("songs-dir", "", "directory with extra *.toml songs")
		leds     = flag.Int("leds", 12, "simulated ring size")
		realtime = flag.Bool("realtime", false, "sleep for real instead of rendering instantly")
		steps    = flag.Bool("steps", false, "print every light update, not just note starts")
		list     = flag.Bool("list", false, "list songs and exit")
	)
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	songs, err := melody.Load(*songsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("load songs")
	}
	if *list {
		for _, k := range songs.Keys() {
			s := songs[k]
			fmt.Printf("%-16s %-32s %3d notes %6.1fs\n", k, s.Title, len(s.Melody), s.Melody.Duration().Seconds())
		}
		return
	}

	vc := &virtualClock{}
	w := &wait.Waiter{Clock: vc, Quantum: wait.DefaultQuantum}
	elapsed := func() time.Duration { return vc.now }
	if *realtime {
		w.Clock = clockwork.NewRealClock()
		start := time.Now()
		elapsed = func() time.Duration { return time.Since(start) }
	}

	strip, err := render.NewStrip(*leds, led.NewSim(*leds, log.Logger))
	if err != nil {
		log.Fatal().Err(err).Msg("strip")
	}

	last := ""
	opt := show.DefaultOptions()
	opt.Trace = func(s show.Sample) {
		starts := s.Phase == show.PhaseNote && s.Note.Name != last
		if s.Phase == show.PhaseNote {
			last = s.Note.Name
		} else {
			last = ""
		}
		if !*steps && !starts {
			return
		}
		bar := strings.Repeat("#", int(s.Brightness*40+0.5))
		fmt.Printf("%8.3fs [%-5s] %-4s b=%.3f %s\n", elapsed().Seconds(), s.Phase, s.Note.Name, s.Brightness, bar)
	}
	player := show.NewPlayer(strip, &printTone{clock: elapsed}, w, opt, log.Logger)

	keys := songs.Keys()
	if *songKey != "" {
		if _, ok := songs[*songKey]; !ok {
			log.Fatal().Str("song", *songKey).Strs("have", keys).Msg("unknown song")
		}
		keys = []string{*songKey}
	}
	for _, k := range keys {
		s := songs[k]
		fmt.Printf("==== %s (%s) ====\n", s.Title, k)
		begin := elapsed()
		if err := player.PlayMelody(context.Background(), s.Melody); err != nil {
			log.Fatal().Err(err).Str("song", k).Msg("play")
		}
		fmt.Printf("==== %s: %.2fs with fades (%.2fs of notes) ====\n", k, (elapsed() - begin).Seconds(), s.Melody.Duration().Seconds())
	}
}
