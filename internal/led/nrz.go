package led

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
)

// DefaultNRZFreq is the SPI clock used to bit-bang WS2812 timings when the
// configuration leaves it empty.
const DefaultNRZFreq = 2500 * physic.KiloHertz

// NRZ drives a WS2812-style ring through periph's nrzled encoder on an SPI
// port.
type NRZ struct {
	dev   *nrzled.Dev
	port  spi.PortCloser
	count int
}

// OpenNRZ opens the named SPI port ("" picks the first one registered) and
// wraps it in an nrzled device of count pixels. host.Init must have run.
func OpenNRZ(name string, count int, freq physic.Frequency) (*NRZ, error) {
	p, err := spireg.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open spi port %q", name)
	}
	d, err := NewNRZ(p, count, freq)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return d, nil
}

// NewNRZ wraps an already opened SPI port. The port is closed by Close.
func NewNRZ(p spi.PortCloser, count int, freq physic.Frequency) (*NRZ, error) {
	if count <= 0 {
		return nil, errors.Errorf("invalid LED count: %d", count)
	}
	if freq == 0 {
		freq = DefaultNRZFreq
	}
	opts := nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      freq,
	}
	d, err := nrzled.NewSPI(p, &opts)
	if err != nil {
		return nil, errors.Wrap(err, "nrzled")
	}
	return &NRZ{dev: d, port: p, count: count}, nil
}

func (n *NRZ) String() string {
	return n.dev.String()
}

func (n *NRZ) Write(rgb []byte) error {
	if len(rgb) != n.count*3 {
		return errors.Errorf("rgb length %d does not match count %d", len(rgb), n.count)
	}
	if _, err := n.dev.Write(rgb); err != nil {
		return errors.Wrap(err, "nrzled write")
	}
	return nil
}

func (n *NRZ) Close() error {
	herr := n.dev.Halt()
	cerr := n.port.Close()
	if herr != nil {
		return errors.Wrap(herr, "nrzled halt")
	}
	return cerr
}
