package led

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Sim keeps every frame in memory and logs a compact summary of each one
// (first pixel & average). Useful for headless runs and tests.
type Sim struct {
	Count  int
	Frames [][]byte
	// Keep bounds the number of retained frames; 0 keeps all of them.
	Keep int
	// Fail, when set, is returned by Write instead of accepting the frame.
	Fail error

	log    zerolog.Logger
	closed bool
}

// NewSim returns a simulated strip of count LEDs.
func NewSim(count int, log zerolog.Logger) *Sim {
	return &Sim{Count: count, log: log}
}

func (d *Sim) Write(rgb []byte) error {
	if d.closed {
		return errors.New("sim driver closed")
	}
	if d.Fail != nil {
		return d.Fail
	}
	if len(rgb) != d.Count*3 {
		return errors.Errorf("rgb length %d does not match count %d", len(rgb), d.Count)
	}

	frame := append([]byte(nil), rgb...)
	d.Frames = append(d.Frames, frame)
	if d.Keep > 0 && len(d.Frames) > d.Keep {
		d.Frames = d.Frames[len(d.Frames)-d.Keep:]
	}

	if d.log.GetLevel() <= zerolog.TraceLevel {
		var r, g, b int
		for i := 0; i+2 < len(rgb); i += 3 {
			r += int(rgb[i])
			g += int(rgb[i+1])
			b += int(rgb[i+2])
		}
		n := d.Count
		if n == 0 {
			n = 1
		}
		d.log.Trace().
			Int("frame", len(d.Frames)).
			Ints("avg", []int{r / n, g / n, b / n}).
			Bytes("first", frame[:min(3, len(frame))]).
			Msg("sim frame")
	}
	return nil
}

// Last returns the most recent frame, or nil if nothing was written.
func (d *Sim) Last() []byte {
	if len(d.Frames) == 0 {
		return nil
	}
	return d.Frames[len(d.Frames)-1]
}

func (d *Sim) Close() error {
	d.closed = true
	return nil
}
