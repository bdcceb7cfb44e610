package led_test

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"

	. "github.com/coreman2200/funtimes-xmasbot/internal/led"
)

func TestNRZWritesThroughSPI(t *testing.T) {
	buf := bytes.Buffer{}
	d, err := NewNRZ(spitest.NewRecordRaw(&buf), 2, 2500*physic.KiloHertz)
	require.NoError(t, err)

	if got, expected := d.String(), "nrzled{recordraw}"; got != expected {
		t.Fatalf("\nGot:  %s\nWant: %s\n", got, expected)
	}

	require.NoError(t, d.Write([]byte{0xFF, 0, 0, 0, 0, 0xFF}))
	assert.NotZero(t, buf.Len(), "frame should reach the port")

	assert.Error(t, d.Write([]byte{1, 2, 3}), "short frames are rejected")
	assert.NoError(t, d.Close())
}

func TestNRZRejectsEmptyRing(t *testing.T) {
	buf := bytes.Buffer{}
	_, err := NewNRZ(spitest.NewRecordRaw(&buf), 0, 0)
	assert.Error(t, err)
}

func TestSimKeepsFrames(t *testing.T) {
	d := NewSim(2, zerolog.Nop())
	d.Keep = 2

	require.NoError(t, d.Write([]byte{1, 1, 1, 1, 1, 1}))
	require.NoError(t, d.Write([]byte{2, 2, 2, 2, 2, 2}))
	require.NoError(t, d.Write([]byte{3, 3, 3, 3, 3, 3}))

	assert.Len(t, d.Frames, 2)
	assert.Equal(t, []byte{3, 3, 3, 3, 3, 3}, d.Last())

	d.Fail = errors.New("bus fault")
	assert.EqualError(t, d.Write([]byte{4, 4, 4, 4, 4, 4}), "bus fault")

	d.Fail = nil
	require.NoError(t, d.Close())
	assert.Error(t, d.Write([]byte{5, 5, 5, 5, 5, 5}))
}

type nopCloser struct{ bytes.Buffer }

func (*nopCloser) Close() error { return nil }

func TestSerialFrame(t *testing.T) {
	port := &nopCloser{}
	d := NewSerial(port, 1)
	require.NoError(t, d.Write([]byte{10, 20, 30}))

	b := port.Bytes()
	require.Len(t, b, 2+2+3+4)
	assert.Equal(t, []byte{0xAA, 0x55}, b[:2])
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(b[2:4]))
	assert.Equal(t, []byte{10, 20, 30}, b[4:7])
	assert.Equal(t, crc32.ChecksumIEEE(b[2:7]), binary.LittleEndian.Uint32(b[7:]))
}

func TestSerialCloseBlanksRing(t *testing.T) {
	port := &nopCloser{}
	d := NewSerial(port, 2)
	require.NoError(t, d.Close())

	b := port.Bytes()
	assert.Equal(t, EncodeFrame(nil, make([]byte, 6)), b)
}

type recordDrawer struct {
	img    *image.NRGBA
	halted bool
}

func (r *recordDrawer) String() string          { return "record" }
func (r *recordDrawer) Halt() error             { r.halted = true; return nil }
func (r *recordDrawer) ColorModel() color.Model { return color.NRGBAModel }
func (r *recordDrawer) Bounds() image.Rectangle { return r.img.Bounds() }
func (r *recordDrawer) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(r.img, dst, src, sp, draw.Src)
	return nil
}

func TestScreenDrawsPixels(t *testing.T) {
	rd := &recordDrawer{img: image.NewNRGBA(image.Rect(0, 0, 2, 1))}
	out := bytes.Buffer{}
	s := NewScreenDrawer(rd, 2, &out)

	require.NoError(t, s.Write([]byte{255, 0, 0, 0, 0, 255}))
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, rd.img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, rd.img.NRGBAAt(1, 0))
	assert.Equal(t, "\n", out.String())

	require.NoError(t, s.Close())
	assert.True(t, rd.halted)
}
