// Package pins wraps the GPIO lines of the device: the mode button, the
// buzzer and the optional status LED.
package pins

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

// Button is a push button to ground with the internal pull-up enabled, so
// it reads high while released.
type Button struct {
	pin gpio.PinIn
}

func NewButton(p gpio.PinIn) (*Button, error) {
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, errors.Wrapf(err, "button %s", p)
	}
	return &Button{pin: p}, nil
}

// Read returns true while the button is released.
func (b *Button) Read() bool {
	return b.pin.Read() == gpio.High
}

// Buzzer drives a passive buzzer with a PWM square wave. The duty cycle acts
// as volume; a duty of 0 holds the line low.
type Buzzer struct {
	pin  gpio.PinOut
	freq physic.Frequency
	duty gpio.Duty
}

func NewBuzzer(p gpio.PinOut) (*Buzzer, error) {
	if err := p.Out(gpio.Low); err != nil {
		return nil, errors.Wrapf(err, "buzzer %s", p)
	}
	return &Buzzer{pin: p}, nil
}

// SetFrequency changes the pitch. A sounding tone switches immediately.
func (b *Buzzer) SetFrequency(hz int) error {
	if hz <= 0 {
		return errors.Errorf("invalid tone frequency %d Hz", hz)
	}
	b.freq = physic.Frequency(hz) * physic.Hertz
	if b.duty == 0 {
		return nil
	}
	return b.pin.PWM(b.duty, b.freq)
}

// SetDuty sets the duty cycle as a fraction in [0, 1].
func (b *Buzzer) SetDuty(frac float64) error {
	if frac <= 0 || frac != frac {
		b.duty = 0
		return b.pin.Out(gpio.Low)
	}
	if frac > 1 {
		frac = 1
	}
	if b.freq == 0 {
		return errors.New("tone frequency not set")
	}
	b.duty = gpio.Duty(frac * float64(gpio.DutyMax))
	return b.pin.PWM(b.duty, b.freq)
}

// Sounding reports whether a tone is being generated.
func (b *Buzzer) Sounding() bool { return b.duty > 0 }

// Close silences the buzzer.
func (b *Buzzer) Close() error {
	b.duty = 0
	return b.pin.Out(gpio.Low)
}

// Indicator is a plain digital output, typically the on-board LED.
type Indicator struct {
	pin gpio.PinOut
}

func NewIndicator(p gpio.PinOut) (*Indicator, error) {
	if err := p.Out(gpio.Low); err != nil {
		return nil, errors.Wrapf(err, "indicator %s", p)
	}
	return &Indicator{pin: p}, nil
}

func (i *Indicator) SetLevel(on bool) error {
	return i.pin.Out(gpio.Level(on))
}

func (i *Indicator) Close() error {
	return i.pin.Out(gpio.Low)
}

// Names are gpioreg pin names. An empty Indicator leaves it unused.
type Names struct {
	Button    string
	Buzzer    string
	Indicator string
}

// Set holds the opened pins.
type Set struct {
	Button    *Button
	Buzzer    *Buzzer
	Indicator *Indicator
}

func lookup(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, errors.Errorf("gpio pin %q not found", name)
	}
	return p, nil
}

// Open resolves and configures every pin. host.Init must have run.
func Open(n Names) (*Set, error) {
	bp, err := lookup(n.Button)
	if err != nil {
		return nil, errors.Wrap(err, "button")
	}
	zp, err := lookup(n.Buzzer)
	if err != nil {
		return nil, errors.Wrap(err, "buzzer")
	}
	var ip gpio.PinIO
	if n.Indicator != "" {
		if ip, err = lookup(n.Indicator); err != nil {
			return nil, errors.Wrap(err, "indicator")
		}
	}
	return newSet(bp, zp, ip)
}

func newSet(bp gpio.PinIn, zp gpio.PinOut, ip gpio.PinOut) (*Set, error) {
	s := &Set{}
	var err error
	if s.Button, err = NewButton(bp); err != nil {
		return nil, err
	}
	if s.Buzzer, err = NewBuzzer(zp); err != nil {
		return nil, err
	}
	if ip != nil {
		if s.Indicator, err = NewIndicator(ip); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Fakes are the in-memory pins behind a simulated Set. Tests and the sim
// driver flip Button.L to press it.
type Fakes struct {
	Button    *gpiotest.Pin
	Buzzer    *gpiotest.Pin
	Indicator *gpiotest.Pin
}

// Simulated returns a Set on gpiotest pins.
func Simulated() (*Set, *Fakes, error) {
	f := &Fakes{
		Button:    &gpiotest.Pin{N: "SIM_BUTTON", Num: 21},
		Buzzer:    &gpiotest.Pin{N: "SIM_BUZZER", Num: 8},
		Indicator: &gpiotest.Pin{N: "SIM_LED", Num: 25},
	}
	s, err := newSet(f.Button, f.Buzzer, f.Indicator)
	if err != nil {
		return nil, nil, err
	}
	return s, f, nil
}

// Close silences the buzzer and turns the indicator off.
func (s *Set) Close() error {
	var first error
	if s.Buzzer != nil {
		first = s.Buzzer.Close()
	}
	if s.Indicator != nil {
		if err := s.Indicator.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
