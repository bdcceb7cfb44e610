package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/coreman2200/funtimes-xmasbot/internal/app"
	"github.com/coreman2200/funtimes-xmasbot/internal/config"
)

func main() {
	// ---- Flags (override config.yaml when given explicitly) ----
	var (
		configPath  = flag.StringP("config", "c", "config.yaml", "path to config.yaml")
		driver      = flag.String("driver", "sim", "LED driver: nrz | screen | serial | sim")
		ledCount    = flag.Int("led-count", 12, "LEDs in the ring")
		offset      = flag.Int("offset", 0, "index of the LED at the top of the ring")
		volume      = flag.String("volume", "medium", "buzzer volume: low | medium | high | max")
		songsDir    = flag.String("songs-dir", "", "directory with extra *.toml songs")
		idle        = flag.String("idle", "random", "idle animation: random | cycle")
		level       = flag.String("log-level", "info", "log level")
		simOnly     = flag.Bool("sim-only", false, "force simulation (no hardware output)")
		writeConfig = flag.Bool("write-config", false, "write the effective config to --config and exit")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	if lvl, err := zerolog.ParseLevel(*level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", *level).Msg("unknown log level; using info")
	}

	// ---- Load config.yaml (optional) ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		if flag.CommandLine.Changed("config") {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config load failed")
		}
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with defaults and flags")
		cfg = config.Default()
	}

	// ---- Effective params (explicit flags win) ----
	set := flag.CommandLine.Changed
	if set("driver") {
		cfg.Driver = *driver
	}
	if set("led-count") {
		cfg.LEDCount = *ledCount
	}
	if set("offset") {
		cfg.OrientationOffset = *offset
	}
	if set("volume") {
		cfg.Volume = *volume
	}
	if set("songs-dir") {
		cfg.SongsDir = *songsDir
	}
	if set("idle") {
		cfg.Eyes.Idle = *idle
	}
	if *simOnly {
		cfg.Driver = "sim"
	}

	if *writeConfig {
		if err := config.Save(*configPath, cfg); err != nil {
			log.Fatal().Err(err).Msg("write config")
		}
		log.Info().Str("path", *configPath).Msg("config written")
		return
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("xmasbot stopped")
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	core, err := app.InitCore(cfg, app.Options{}, log.Logger)
	if err != nil {
		return err
	}
	defer core.Close()

	// ---- Graceful shutdown ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("eyes open; press the button for a song")
	return core.Run(ctx)
}
