// Package melody holds note tables and the bundled songs.
package melody

import (
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Note is one pitch held for Duration.
type Note struct {
	Name     string
	Duration time.Duration
}

func (n Note) String() string {
	return fmt.Sprintf("%s/%.3g", n.Name, n.Duration.Seconds())
}

// Freq resolves the note's frequency.
func (n Note) Freq() (int, error) { return Freq(n.Name) }

// Melody is an ordered sequence of notes.
type Melody []Note

// Duration is the sum of the note durations, without gaps or fades.
func (m Melody) Duration() time.Duration {
	var d time.Duration
	for _, n := range m {
		d += n.Duration
	}
	return d
}

// Validate rejects unknown note names and non-positive durations.
func (m Melody) Validate() error {
	if len(m) == 0 {
		return errors.New("melody has no notes")
	}
	for i, n := range m {
		if _, err := Freq(n.Name); err != nil {
			return errors.Wrapf(err, "note %d", i)
		}
		if n.Duration <= 0 {
			return errors.Errorf("note %d (%s): duration must be positive", i, n.Name)
		}
	}
	return nil
}

// Song is a titled melody. Key orders songs for rotation.
type Song struct {
	Key    string
	Title  string
	Melody Melody
}

// Table maps song keys to songs.
type Table map[string]Song

// Keys returns the song keys in ascending order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks every song so that invalid notes are caught at load time
// rather than mid-performance.
func (t Table) Validate() error {
	if len(t) == 0 {
		return errors.New("song table is empty")
	}
	for _, k := range t.Keys() {
		if err := t[k].Melody.Validate(); err != nil {
			return errors.Wrapf(err, "song %q", k)
		}
	}
	return nil
}

// Merge copies every song of o into t, replacing songs with the same key.
func (t Table) Merge(o Table) {
	for k, s := range o {
		t[k] = s
	}
}
