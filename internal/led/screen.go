package led

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"
)

// Screen prints the ring on an ANSI terminal, one block per LED. It is the
// fallback when no SPI port is available.
type Screen struct {
	drawer display.Drawer
	count  int
	out    io.Writer
	img    *image.NRGBA
}

// NewScreen returns a console ring of count LEDs.
func NewScreen(count int) *Screen {
	return NewScreenDrawer(screen.New(count), count, os.Stdout)
}

// NewScreenDrawer renders through any periph drawer. A newline is written to
// out after every frame so successive frames scroll.
func NewScreenDrawer(d display.Drawer, count int, out io.Writer) *Screen {
	return &Screen{
		drawer: d,
		count:  count,
		out:    out,
		img:    image.NewNRGBA(image.Rect(0, 0, count, 1)),
	}
}

func (s *Screen) Write(rgb []byte) error {
	if len(rgb) != s.count*3 {
		return errors.Errorf("rgb length %d does not match count %d", len(rgb), s.count)
	}
	for x := 0; x < s.count; x++ {
		s.img.SetNRGBA(x, 0, color.NRGBA{R: rgb[x*3], G: rgb[x*3+1], B: rgb[x*3+2], A: 255})
	}
	if err := s.drawer.Draw(s.drawer.Bounds(), s.img, image.Point{}); err != nil {
		return errors.Wrap(err, "screen draw")
	}
	if s.out != nil {
		fmt.Fprint(s.out, "\n")
	}
	return nil
}

func (s *Screen) Close() error {
	return s.drawer.Halt()
}
