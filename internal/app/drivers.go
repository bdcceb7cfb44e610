package app

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/funtimes-xmasbot/internal/config"
	"github.com/coreman2200/funtimes-xmasbot/internal/led"
)

// OpenDriver opens the LED driver named by cfg.Driver. A hardware driver that
// fails to open falls back to the simulator so the rest of the device keeps
// working.
func OpenDriver(cfg *config.Config, log zerolog.Logger) led.Driver {
	drv, err := openDriver(cfg, log)
	if err != nil {
		log.Warn().Err(err).Str("driver", cfg.Driver).Msg("LED driver init failed; falling back to SIM")
		return led.NewSim(cfg.LEDCount, log)
	}
	return drv
}

func openDriver(cfg *config.Config, log zerolog.Logger) (led.Driver, error) {
	switch cfg.Driver {
	case "sim":
		s := led.NewSim(cfg.LEDCount, log)
		s.Keep = 64
		return s, nil
	case "nrz":
		freq := led.DefaultNRZFreq
		if cfg.SPI.SpeedHz > 0 {
			freq = physic.Frequency(cfg.SPI.SpeedHz) * physic.Hertz
		}
		d, err := led.OpenNRZ(cfg.SPI.Dev, cfg.LEDCount, freq)
		if err != nil {
			return nil, err
		}
		log.Info().Str("dev", d.String()).Int("leds", cfg.LEDCount).Msg("nrz ring")
		return d, nil
	case "screen":
		return led.NewScreen(cfg.LEDCount), nil
	case "serial":
		d, err := led.OpenSerial(cfg.Serial.Dev, cfg.Serial.Baud, cfg.LEDCount)
		if err != nil {
			return nil, err
		}
		log.Info().Str("dev", cfg.Serial.Dev).Int("baud", cfg.Serial.Baud).Msg("serial ring")
		return d, nil
	}
	return nil, errors.Errorf("unknown driver %q", cfg.Driver)
}

// simulatedPins reports whether the driver runs away from the device, where
// there is no GPIO to open.
func simulatedPins(driver string) bool {
	return driver == "sim" || driver == "screen"
}
