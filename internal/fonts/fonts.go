// Package fonts locates a renderable font face for a requested pixel size.
//
// Lookup strategies are pluggable through the Locator interface so the
// renderer never depends on where fonts live on a given platform.
package fonts

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/junsooki/keyscreen/internal/errors"
)

var ErrNotFound = errors.New(`no usable font found`)

// Locator finds a font face rendering at size pixels per em.
type Locator interface {
	Locate(size float64) (font.Face, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(size float64) (font.Face, error)

func (f LocatorFunc) Locate(size float64) (font.Face, error) { return f(size) }

// Search tries Paths in order and returns the first font file that loads.
type Search struct {
	Paths  []string
	Logger *slog.Logger
}

func (s *Search) Locate(size float64) (font.Face, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, path := range s.Paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		face, err := Load(path, size)
		if err != nil {
			logger.Warn(`failed to load font`, `path`, path, `err`, err)
			continue
		}
		logger.Debug(`font loaded`, `path`, path, `size`, size)
		return face, nil
	}
	logger.Warn(`font not found`, `searched`, len(s.Paths))
	return nil, ErrNotFound
}

// Load reads a font file. Collections (.ttc, .otc) yield their first face.
func Load(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == `.ttc` || ext == `.otc` || bytes.HasPrefix(data, []byte(`ttcf`)) {
		return parseCollection(data, size)
	}
	return Parse(data, size)
}

// Parse builds a face from a single TrueType font.
func Parse(data []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

func parseCollection(data []byte, size float64) (font.Face, error) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	if coll.NumFonts() == 0 {
		return nil, errors.New(`empty font collection`)
	}
	f, err := coll.Font(0)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return face, nil
}

// Bundled serves the Go Regular font compiled into the binary.
type Bundled struct{}

func (Bundled) Locate(size float64) (font.Face, error) { return Parse(goregular.TTF, size) }

// Chain returns the face of the first locator that succeeds.
type Chain []Locator

func (c Chain) Locate(size float64) (font.Face, error) {
	var errs []error
	for _, l := range c {
		if l == nil {
			continue
		}
		face, err := l.Locate(size)
		if err == nil {
			return face, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, ErrNotFound
	}
	return nil, errors.Errorf(`%w: %w`, ErrNotFound, errors.Join(errs...))
}

// Default is the platform search list, preceded by extra files and
// optionally followed by the bundled font.
func Default(extra []string, bundled bool, logger *slog.Logger) Locator {
	paths := append(append([]string{}, extra...), PlatformPaths()...)
	c := Chain{&Search{Paths: paths, Logger: logger}}
	if bundled {
		c = append(c, Bundled{})
	}
	return c
}
