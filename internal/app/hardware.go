package app

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-xmasbot/internal/config"
	"github.com/coreman2200/funtimes-xmasbot/internal/led"
	"github.com/coreman2200/funtimes-xmasbot/internal/pins"
	"github.com/coreman2200/funtimes-xmasbot/internal/render"
)

// Hardware is the ring and the GPIO lines, opened but not driven.
type Hardware struct {
	Strip *render.Strip
	Pins  *pins.Set
	// Fakes is set when the pins are simulated.
	Fakes *pins.Fakes
}

// OpenHardware initialises periph when real pins are needed, opens the pins
// and wraps drv, or the driver named by cfg when drv is nil, in a Strip.
func OpenHardware(cfg *config.Config, drv led.Driver, log zerolog.Logger) (*Hardware, error) {
	h := &Hardware{}
	var err error
	if simulatedPins(cfg.Driver) {
		h.Pins, h.Fakes, err = pins.Simulated()
	} else {
		if _, err := host.Init(); err != nil {
			return nil, errors.Wrap(err, "periph host init")
		}
		h.Pins, err = pins.Open(pins.Names{
			Button:    cfg.Pins.Button,
			Buzzer:    cfg.Pins.Buzzer,
			Indicator: cfg.Pins.Indicator,
		})
	}
	if err != nil {
		return nil, errors.Wrap(err, "pins")
	}

	if drv == nil {
		drv = OpenDriver(cfg, log.With().Str("component", "led").Logger())
	}
	if h.Strip, err = render.NewStrip(cfg.LEDCount, drv); err != nil {
		_ = drv.Close()
		_ = h.Pins.Close()
		return nil, err
	}
	return h, nil
}

// Safe silences the buzzer, switches the indicator off and blacks out the
// ring. Every step runs even if an earlier one fails.
func (h *Hardware) Safe() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	keep(h.Pins.Buzzer.SetDuty(0))
	if h.Pins.Indicator != nil {
		keep(h.Pins.Indicator.SetLevel(false))
	}
	keep(h.Strip.Clear())
	return first
}

// Close puts the hardware in the safe state and releases it.
func (h *Hardware) Close() error {
	first := h.Safe()
	if err := h.Strip.Close(); err != nil && first == nil {
		first = err
	}
	if err := h.Pins.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
