package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-xmasbot/internal/app"
	"github.com/coreman2200/funtimes-xmasbot/internal/config"
	"github.com/coreman2200/funtimes-xmasbot/internal/selftest"
	"github.com/coreman2200/funtimes-xmasbot/internal/show"
	"github.com/coreman2200/funtimes-xmasbot/internal/wait"
)

func main() {
	var (
		configPath = flag.StringP("config", "c", "config.yaml", "path to config.yaml")
		driver     = flag.String("driver", "", "override the LED driver")
		tests      = flag.StringSliceP("tests", "t", nil, "tests to run (default: all)")
		hold       = flag.Duration("hold", 2*time.Second, "time per colour in rgb_channels")
		watch      = flag.Duration("watch", 10*time.Second, "how long button_watch listens")
		level      = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if lvl, err := zerolog.ParseLevel(*level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		if flag.CommandLine.Changed("config") {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config load failed")
		}
		cfg = config.Default()
	}
	if *driver != "" {
		cfg.Driver = *driver
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	var kinds []selftest.Kind
	for _, name := range *tests {
		k, err := selftest.ParseKind(name)
		if err != nil {
			log.Fatal().Err(err).Msg("tests")
		}
		kinds = append(kinds, k)
	}
	vol, err := show.ParseVolume(cfg.Volume)
	if err != nil {
		log.Fatal().Err(err).Msg("volume")
	}

	hw, err := app.OpenHardware(cfg, nil, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("hardware")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &selftest.Suite{
		Surface:  hw.Strip,
		Tone:     hw.Pins.Buzzer,
		Button:   hw.Pins.Button,
		Wait:     wait.New(cfg.PollQuantum),
		Log:      log.Logger,
		Hold:     *hold,
		Volume:   vol,
		WatchFor: *watch,
	}
	if hw.Pins.Indicator != nil {
		s.Indicator = hw.Pins.Indicator
	}
	ds := s.Run(ctx, kinds...)
	if err := hw.Close(); err != nil {
		log.Warn().Err(err).Msg("close")
	}

	out, err := yaml.Marshal(ds)
	if err != nil {
		log.Fatal().Err(err).Msg("report")
	}
	fmt.Print(string(out))
	if selftest.Failed(ds) {
		os.Exit(1)
	}
}
