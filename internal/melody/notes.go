package melody

import (
	"github.com/pkg/errors"
)

// Rest is the note name for silence.
const Rest = "REST"

// ErrInvalidNote is returned for a note name outside the frequency table.
var ErrInvalidNote = errors.New("invalid note")

// frequencies in Hz, rounded to the nearest integer.
var frequencies = map[string]int{
	"C4": 262,
	"D4": 294,
	"E4": 330,
	"F4": 349,
	"G4": 392,
	"A4": 440,
	"B4": 494,
	"C5": 523,
	"D5": 587,
	"E5": 659,
	"F5": 698,
	"G5": 784,
	Rest: 0,
}

// Lowest and Highest bound the playable range and drive the default
// brightness mapping.
const (
	Lowest  = 262
	Highest = 784
)

// Freq resolves a note name. REST resolves to 0.
func Freq(name string) (int, error) {
	f, ok := frequencies[name]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidNote, "%q", name)
	}
	return f, nil
}

// Names lists every known note, REST last, lowest pitch first.
func Names() []string {
	return []string{"C4", "D4", "E4", "F4", "G4", "A4", "B4", "C5", "D5", "E5", "F5", "G5", Rest}
}
