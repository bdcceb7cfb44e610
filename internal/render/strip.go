package render

import (
	"github.com/pkg/errors"

	"github.com/coreman2200/funtimes-xmasbot/internal/led"
)

// ErrIndexOutOfRange is returned by SetPixel for an index outside the strip.
// Seeing it means a region computation is wrong.
var ErrIndexOutOfRange = errors.New("pixel index out of range")

// WriteError wraps a driver failure during Flush. It is fatal to the current
// animation step; nothing retries it.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return "hardware write failed: " + e.Err.Error() }
func (e *WriteError) Unwrap() error { return e.Err }

// IsHardwareFailure reports whether err carries a WriteError.
func IsHardwareFailure(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}

// Strip buffers one frame of colours and writes it to a led.Driver on Flush.
type Strip struct {
	drv led.Driver
	buf []Color
	rgb []byte

	// Flushes counts successful writes.
	Flushes int
}

var _ Surface = (*Strip)(nil)

// NewStrip allocates a black frame of n pixels.
func NewStrip(n int, drv led.Driver) (*Strip, error) {
	if n <= 0 {
		return nil, errors.Errorf("invalid LED count: %d", n)
	}
	if drv == nil {
		return nil, errors.New("driver is nil")
	}
	return &Strip{
		drv: drv,
		buf: make([]Color, n),
		rgb: make([]byte, n*3),
	}, nil
}

func (s *Strip) Len() int { return len(s.buf) }

func (s *Strip) SetPixel(i int, c Color) error {
	if i < 0 || i >= len(s.buf) {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d, strip of %d", i, len(s.buf))
	}
	s.buf[i] = c
	return nil
}

// Fill sets every pixel to c without flushing.
func (s *Strip) Fill(c Color) {
	for i := range s.buf {
		s.buf[i] = c
	}
}

func (s *Strip) Flush() error {
	for i, c := range s.buf {
		s.rgb[i*3+0] = c.R
		s.rgb[i*3+1] = c.G
		s.rgb[i*3+2] = c.B
	}
	if err := s.drv.Write(s.rgb); err != nil {
		return &WriteError{Err: err}
	}
	s.Flushes++
	return nil
}

// Clear blacks out the strip and flushes.
func (s *Strip) Clear() error {
	s.Fill(Off)
	return s.Flush()
}

// Pixels returns a copy of the buffered frame.
func (s *Strip) Pixels() []Color {
	return append([]Color(nil), s.buf...)
}

// Close releases the driver.
func (s *Strip) Close() error {
	return s.drv.Close()
}

// FillSurface sets every pixel of any Surface to c and flushes.
func FillSurface(s Surface, c Color) error {
	for i := 0; i < s.Len(); i++ {
		if err := s.SetPixel(i, c); err != nil {
			return err
		}
	}
	return s.Flush()
}
