package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Pins struct {
	Button    string `yaml:"button"`    // e.g. GPIO21
	Buzzer    string `yaml:"buzzer"`    // PWM capable, e.g. GPIO18
	Indicator string `yaml:"indicator"` // optional status LED
}

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0 or SPI0.0
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2500000
}

type Serial struct {
	Dev  string `yaml:"dev"` // e.g. /dev/ttyUSB0
	Baud int    `yaml:"baud"`
}

type Eyes struct {
	Color      [3]uint8      `yaml:"color"`
	Brightness float64       `yaml:"brightness"`
	Blink      string        `yaml:"blink"` // "outside-in" | "center-out"
	Dwell      string        `yaml:"dwell"` // "fixed" | "random"
	FixedDwell time.Duration `yaml:"fixed_dwell"`
	MinDwell   time.Duration `yaml:"min_dwell"`
	MaxDwell   time.Duration `yaml:"max_dwell"`
	Idle       string        `yaml:"idle"` // "random" | "cycle"
	IdlePause  time.Duration `yaml:"idle_pause"`
}

type Show struct {
	Color     [3]uint8 `yaml:"color"`
	Smoothing float64  `yaml:"smoothing"`
	MinFreq   int      `yaml:"min_freq"`
	MaxFreq   int      `yaml:"max_freq"`
}

type Config struct {
	Driver            string `yaml:"driver"` // "nrz" | "screen" | "serial" | "sim"
	LEDCount          int    `yaml:"led_count"`
	OrientationOffset int    `yaml:"orientation_offset"`

	Pins   Pins   `yaml:"pins"`
	SPI    SPI    `yaml:"spi,omitempty"`
	Serial Serial `yaml:"serial,omitempty"`

	Volume       string        `yaml:"volume"` // "low" | "medium" | "high" | "max"
	PollQuantum  time.Duration `yaml:"poll_quantum"`
	Settle       time.Duration `yaml:"settle"`
	Resume       time.Duration `yaml:"resume"`
	RestartDelay time.Duration `yaml:"restart_delay"`
	MaxRestarts  int           `yaml:"max_restarts"` // 0 restarts forever
	SongsDir     string        `yaml:"songs_dir,omitempty"`

	Eyes Eyes `yaml:"eyes"`
	Show Show `yaml:"show"`
}

var drivers = map[string]bool{"nrz": true, "screen": true, "serial": true, "sim": true}

// Default is a 12 LED ring with the top LED at index 0.
func Default() *Config {
	return &Config{
		Driver:   "sim",
		LEDCount: 12,
		Pins: Pins{
			Button: "GPIO21",
			Buzzer: "GPIO18",
		},
		SPI:          SPI{Dev: "", SpeedHz: 2500000},
		Serial:       Serial{Dev: "/dev/ttyUSB0", Baud: 115200},
		Volume:       "medium",
		PollQuantum:  50 * time.Millisecond,
		Settle:       200 * time.Millisecond,
		Resume:       time.Second,
		RestartDelay: 2 * time.Second,
		Eyes: Eyes{
			Color:      [3]uint8{255, 255, 255},
			Brightness: 0.01,
			Blink:      "outside-in",
			Dwell:      "fixed",
			FixedDwell: 500 * time.Millisecond,
			MinDwell:   time.Second,
			MaxDwell:   3 * time.Second,
			Idle:       "random",
			IdlePause:  2 * time.Second,
		},
		Show: Show{
			Color:     [3]uint8{255, 0, 0},
			Smoothing: 0.3,
			MinFreq:   262,
			MaxFreq:   784,
		},
	}
}

// Load reads a YAML file over the defaults, so a file only needs the fields
// it changes.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate checks ranges that the components would otherwise reject one by
// one at startup.
func (c *Config) Validate() error {
	if !drivers[c.Driver] {
		return errors.Errorf("unknown driver %q (want nrz|screen|serial|sim)", c.Driver)
	}
	if c.LEDCount <= 0 {
		return errors.Errorf("led_count must be positive, got %d", c.LEDCount)
	}
	if c.OrientationOffset < 0 || c.OrientationOffset >= c.LEDCount {
		return errors.Errorf("orientation_offset %d outside [0, %d)", c.OrientationOffset, c.LEDCount)
	}
	if c.Driver != "sim" && (c.Pins.Button == "" || c.Pins.Buzzer == "") {
		return errors.New("pins.button and pins.buzzer are required")
	}
	if c.Driver == "serial" && (c.Serial.Dev == "" || c.Serial.Baud <= 0) {
		return errors.New("serial.dev and serial.baud are required for the serial driver")
	}
	if c.PollQuantum <= 0 {
		return errors.New("poll_quantum must be positive")
	}
	if c.MaxRestarts < 0 {
		return errors.New("max_restarts must not be negative")
	}
	if c.Eyes.Brightness <= 0 || c.Eyes.Brightness > 1 {
		return errors.Errorf("eyes.brightness %v outside (0, 1]", c.Eyes.Brightness)
	}
	if c.Eyes.MaxDwell < c.Eyes.MinDwell {
		return errors.New("eyes.max_dwell is below eyes.min_dwell")
	}
	if c.Show.Smoothing <= 0 || c.Show.Smoothing > 1 {
		return errors.Errorf("show.smoothing %v outside (0, 1]", c.Show.Smoothing)
	}
	if c.Show.MaxFreq <= c.Show.MinFreq {
		return errors.New("show.max_freq must exceed show.min_freq")
	}
	return nil
}
