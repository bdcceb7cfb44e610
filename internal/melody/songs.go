package melody

import (
	"embed"
	"io/fs"
	"math"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

//go:embed songs/*.toml
var bundled embed.FS

type songFile struct {
	Title  string       `toml:"title"`
	Phrase []phraseFile `toml:"phrase"`
}

type phraseFile struct {
	Lyric string `toml:"lyric"`
	Notes string `toml:"notes"`
}

// Parse decodes one TOML song. Notes are written as NAME/SECONDS separated by
// whitespace, for example "G4/0.4 C5/0.4 REST/0.2".
func Parse(key string, data []byte) (Song, error) {
	var f songFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return Song{}, errors.Wrapf(err, "song %q", key)
	}
	s := Song{Key: key, Title: f.Title}
	if s.Title == "" {
		s.Title = key
	}
	for i, ph := range f.Phrase {
		notes, err := ParseNotes(ph.Notes)
		if err != nil {
			return Song{}, errors.Wrapf(err, "song %q phrase %d", key, i+1)
		}
		s.Melody = append(s.Melody, notes...)
	}
	if err := s.Melody.Validate(); err != nil {
		return Song{}, errors.Wrapf(err, "song %q", key)
	}
	return s, nil
}

// ParseNotes parses a whitespace separated list of NAME/SECONDS tokens.
func ParseNotes(src string) (Melody, error) {
	var m Melody
	for _, tok := range strings.Fields(src) {
		name, secs, ok := strings.Cut(tok, "/")
		if !ok {
			return nil, errors.Errorf("note %q: want NAME/SECONDS", tok)
		}
		name = strings.ToUpper(name)
		if _, err := Freq(name); err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(secs, 64)
		if err != nil || v <= 0 || math.IsInf(v, 0) {
			return nil, errors.Errorf("note %q: bad duration", tok)
		}
		m = append(m, Note{Name: name, Duration: seconds(v)})
	}
	return m, nil
}

func seconds(v float64) time.Duration {
	return time.Duration(math.Round(v * float64(time.Second)))
}

// LoadFS reads every *.toml file in dir of fsys. The key of each song is its
// file name without extension.
func LoadFS(fsys fs.FS, dir string) (Table, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read songs %s", dir)
	}
	t := Table{}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".toml" {
			continue
		}
		b, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "read song %s", e.Name())
		}
		key := strings.TrimSuffix(e.Name(), ".toml")
		s, err := Parse(key, b)
		if err != nil {
			return nil, err
		}
		t[key] = s
	}
	return t, nil
}

// LoadDir reads extra songs from a directory on disk.
func LoadDir(dir string) (Table, error) {
	return LoadFS(os.DirFS(dir), ".")
}

// Bundled returns the songs compiled into the binary.
func Bundled() (Table, error) {
	return LoadFS(bundled, "songs")
}

// Load returns the bundled songs plus the ones in extraDir, if set. Songs in
// extraDir replace bundled songs of the same key.
func Load(extraDir string) (Table, error) {
	t, err := Bundled()
	if err != nil {
		return nil, err
	}
	if extraDir != "" {
		extra, err := LoadDir(extraDir)
		if err != nil {
			return nil, err
		}
		t.Merge(extra)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
