package eyes

import (
	"math/rand"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/coreman2200/funtimes-xmasbot/internal/render"
)

// BlinkStyle selects the order in which the lid closes.
type BlinkStyle string

const (
	// OutsideIn closes from both ends toward the top and opens from the top.
	OutsideIn BlinkStyle = "outside-in"
	// CenterOut closes from the top outward and opens from both ends.
	CenterOut BlinkStyle = "center-out"
)

// DwellPolicy selects how long a sideways look is held.
type DwellPolicy string

const (
	DwellFixed  DwellPolicy = "fixed"
	DwellRandom DwellPolicy = "random"
)

// IdleStyle selects what Animate plays.
type IdleStyle string

const (
	// IdleRandom plays one weighted random animation per call.
	IdleRandom IdleStyle = "random"
	// IdleCycle plays the fixed straight, blink, blink, left, right cycle.
	IdleCycle IdleStyle = "cycle"
)

func ParseBlinkStyle(s string) (BlinkStyle, error) {
	switch BlinkStyle(strings.ToLower(s)) {
	case "", OutsideIn:
		return OutsideIn, nil
	case CenterOut:
		return CenterOut, nil
	}
	return "", errors.Errorf("unknown blink style %q", s)
}

func ParseDwellPolicy(s string) (DwellPolicy, error) {
	switch DwellPolicy(strings.ToLower(s)) {
	case "", DwellFixed:
		return DwellFixed, nil
	case DwellRandom:
		return DwellRandom, nil
	}
	return "", errors.Errorf("unknown dwell policy %q", s)
}

func ParseIdleStyle(s string) (IdleStyle, error) {
	switch IdleStyle(strings.ToLower(s)) {
	case "", IdleRandom:
		return IdleRandom, nil
	case IdleCycle:
		return IdleCycle, nil
	}
	return "", errors.Errorf("unknown idle style %q", s)
}

// Options tune the animator. Zero fields take the defaults, so a dark eye is
// not expressible here; config validation rejects it.
type Options struct {
	Color      render.Color
	Brightness float64

	Blink     BlinkStyle
	BlinkStep time.Duration
	BlinkHold time.Duration
	LookStep  time.Duration

	Dwell      DwellPolicy
	FixedDwell time.Duration
	MinDwell   time.Duration
	MaxDwell   time.Duration

	// Pause separates the primitives of a composed animation.
	Pause time.Duration

	Idle IdleStyle
	Rand *rand.Rand
}

// DefaultOptions are dim white eyes.
func DefaultOptions() Options {
	return Options{
		Color:      render.Color{R: 255, G: 255, B: 255},
		Brightness: 0.01,
		Blink:      OutsideIn,
		BlinkStep:  50 * time.Millisecond,
		BlinkHold:  150 * time.Millisecond,
		LookStep:   80 * time.Millisecond,
		Dwell:      DwellFixed,
		FixedDwell: 500 * time.Millisecond,
		MinDwell:   time.Second,
		MaxDwell:   3 * time.Second,
		Pause:      500 * time.Millisecond,
		Idle:       IdleRandom,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Color == (render.Color{}) {
		o.Color = d.Color
	}
	if o.Brightness <= 0 {
		o.Brightness = d.Brightness
	}
	if o.Blink == "" {
		o.Blink = d.Blink
	}
	if o.BlinkStep <= 0 {
		o.BlinkStep = d.BlinkStep
	}
	if o.BlinkHold <= 0 {
		o.BlinkHold = d.BlinkHold
	}
	if o.LookStep <= 0 {
		o.LookStep = d.LookStep
	}
	if o.Dwell == "" {
		o.Dwell = d.Dwell
	}
	if o.FixedDwell <= 0 {
		o.FixedDwell = d.FixedDwell
	}
	if o.MinDwell <= 0 {
		o.MinDwell = d.MinDwell
	}
	if o.MaxDwell <= 0 {
		o.MaxDwell = d.MaxDwell
	}
	if o.MaxDwell < o.MinDwell {
		o.MaxDwell = o.MinDwell
	}
	if o.Pause <= 0 {
		o.Pause = d.Pause
	}
	if o.Idle == "" {
		o.Idle = d.Idle
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}
