package led

import (
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// Serial frames are sent to a microcontroller that owns the LED ring:
//
//	magic [2]byte   0xAA 0x55
//	count uint16    number of pixels
//	pix   []byte    3*count bytes, RGB
//	crc   uint32    IEEE CRC32 over count and pix
//
// Integers are little-endian. An all-zero frame turns the ring off.
var serialMagic = [2]byte{0xAA, 0x55}

// Serial is a Driver writing frames to a serial port.
type Serial struct {
	port  io.WriteCloser
	count int
	buf   []byte
}

// OpenSerial opens device (e.g. /dev/ttyACM0) at the given baud rate.
func OpenSerial(device string, baud int, count int) (*Serial, error) {
	if count <= 0 {
		return nil, errors.Errorf("invalid LED count: %d", count)
	}
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open serial port")
	}
	return NewSerial(port, count), nil
}

// NewSerial wraps an already open port.
func NewSerial(port io.WriteCloser, count int) *Serial {
	return &Serial{
		port:  port,
		count: count,
		buf:   make([]byte, 0, 2+2+3*count+4),
	}
}

// EncodeFrame appends the framed rgb payload to dst.
func EncodeFrame(dst []byte, rgb []byte) []byte {
	dst = append(dst, serialMagic[:]...)
	start := len(dst)
	dst = binary.LittleEndian.AppendUint16(dst, uint16(len(rgb)/3))
	dst = append(dst, rgb...)
	sum := crc32.ChecksumIEEE(dst[start:])
	return binary.LittleEndian.AppendUint32(dst, sum)
}

func (s *Serial) Write(rgb []byte) error {
	if len(rgb) != s.count*3 {
		return errors.Errorf("rgb length %d does not match count %d", len(rgb), s.count)
	}
	s.buf = EncodeFrame(s.buf[:0], rgb)
	if _, err := s.port.Write(s.buf); err != nil {
		return errors.Wrap(err, "serial write")
	}
	return nil
}

func (s *Serial) Close() error {
	werr := s.Write(make([]byte, s.count*3))
	cerr := s.port.Close()
	if cerr != nil {
		return errors.Wrap(cerr, "failed to close serial port")
	}
	return werr
}
