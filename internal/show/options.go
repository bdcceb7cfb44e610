package show

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/coreman2200/funtimes-xmasbot/internal/melody"
	"github.com/coreman2200/funtimes-xmasbot/internal/render"
)

// Volume is the buzzer duty cycle as a fraction of a full period.
type Volume float64

const (
	VolumeLow    Volume = 0.25
	VolumeMedium Volume = 0.5
	VolumeHigh   Volume = 0.75
	VolumeMax    Volume = 1.0
)

// ParseVolume accepts the preset names low, medium, high and max.
func ParseVolume(s string) (Volume, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return VolumeLow, nil
	case "", "medium":
		return VolumeMedium, nil
	case "high":
		return VolumeHigh, nil
	case "max":
		return VolumeMax, nil
	}
	return 0, errors.Errorf("unknown volume %q (want low|medium|high|max)", s)
}

// Phase names the part of a performance a Sample was taken in.
type Phase string

const (
	PhaseNote  Phase = "note"
	PhaseFade  Phase = "fade"
	PhaseOutro Phase = "outro"
)

// Sample is emitted to Options.Trace after every light update.
type Sample struct {
	Note       melody.Note
	Phase      Phase
	Brightness float64
}

// Options tune the light show. Zero fields take the defaults.
type Options struct {
	Color  render.Color
	Volume Volume

	// MinFreq and MaxFreq bound the pitch to brightness mapping.
	MinFreq, MaxFreq int

	// Smoothing is the fraction of the distance to the target brightness
	// covered on each update while a note sounds.
	Smoothing  float64
	UpdateRate float64 // light updates per second of note
	MinSteps   int

	// Between notes the brightness decays by Decay every FadeStep until it
	// drops below Floor or FadeBudget is spent.
	Decay      float64
	Floor      float64
	FadeStep   time.Duration
	FadeBudget time.Duration

	OutroSteps     int
	OutroSmoothing float64
	OutroStep      time.Duration

	Trace func(Sample)
}

// DefaultOptions is a red show at medium volume.
func DefaultOptions() Options {
	return Options{
		Color:          render.Color{R: 255},
		Volume:         VolumeMedium,
		MinFreq:        melody.Lowest,
		MaxFreq:        melody.Highest,
		Smoothing:      0.3,
		UpdateRate:     50,
		MinSteps:       5,
		Decay:          0.85,
		Floor:          0.01,
		FadeStep:       10 * time.Millisecond,
		FadeBudget:     50 * time.Millisecond,
		OutroSteps:     10,
		OutroSmoothing: 0.2,
		OutroStep:      100 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Color == (render.Color{}) {
		o.Color = d.Color
	}
	if o.Volume <= 0 {
		o.Volume = d.Volume
	}
	if o.MinFreq <= 0 {
		o.MinFreq = d.MinFreq
	}
	if o.MaxFreq <= o.MinFreq {
		o.MinFreq, o.MaxFreq = d.MinFreq, d.MaxFreq
	}
	if o.Smoothing <= 0 || o.Smoothing > 1 {
		o.Smoothing = d.Smoothing
	}
	if o.UpdateRate <= 0 {
		o.UpdateRate = d.UpdateRate
	}
	if o.MinSteps <= 0 {
		o.MinSteps = d.MinSteps
	}
	if o.Decay <= 0 || o.Decay >= 1 {
		o.Decay = d.Decay
	}
	if o.Floor <= 0 {
		o.Floor = d.Floor
	}
	if o.FadeStep <= 0 {
		o.FadeStep = d.FadeStep
	}
	if o.FadeBudget <= 0 {
		o.FadeBudget = d.FadeBudget
	}
	if o.OutroSteps <= 0 {
		o.OutroSteps = d.OutroSteps
	}
	if o.OutroSmoothing <= 0 || o.OutroSmoothing > 1 {
		o.OutroSmoothing = d.OutroSmoothing
	}
	if o.OutroStep <= 0 {
		o.OutroStep = d.OutroStep
	}
	return o
}
