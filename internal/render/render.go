// Package render draws up to two centered lines of text onto a packed
// monochrome bitmap.
package render

import (
	"image"
	"image/color"
	"log/slog"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/junsooki/keyscreen/internal/bitmap"
	"github.com/junsooki/keyscreen/internal/fonts"
)

// LineSeparator splits display text into lines.
const LineSeparator = `@@`

// MaxLines is the number of lines that fit the display.
const MaxLines = 2

// Renderer overlays text on bitmaps of a fixed size.
type Renderer struct {
	width    int
	height   int
	fontSize float64
	locator  fonts.Locator
	logger   *slog.Logger

	faceOnce sync.Once
	face     font.Face
}

// New creates a renderer. The font is located on first use and kept for the
// lifetime of the renderer; a failed lookup is not retried.
func New(width, height int, fontSize float64, locator fonts.Locator, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		width:    width,
		height:   height,
		fontSize: fontSize,
		locator:  locator,
		logger:   logger,
	}
}

// Overlay reconstructs a raster from base, draws text on it and packs the
// result into a new bitmap. Without a usable font the base is repacked
// unchanged.
func (r *Renderer) Overlay(base []byte, text string) ([]byte, error) {
	src, err := bitmap.Wrap(base, r.width, r.height)
	if err != nil {
		return nil, err
	}
	img := src.RGBA()
	if text != `` {
		if face := r.fontFace(); face != nil {
			drawLines(img, face, SplitLines(text))
		}
	}
	return bitmap.Pack(img, r.width, r.height)
}

// Blank renders an empty frame.
func (r *Renderer) Blank() ([]byte, error) {
	return r.Overlay(bitmap.Empty(r.width, r.height), ``)
}

// Close releases the cached font face.
func (r *Renderer) Close() error {
	if r.face == nil {
		return nil
	}
	return r.face.Close()
}

func (r *Renderer) fontFace() font.Face {
	r.faceOnce.Do(func() {
		if r.locator == nil {
			r.logger.Warn(`no font locator configured, text will not be displayed`)
			return
		}
		face, err := r.locator.Locate(r.fontSize)
		if err != nil {
			r.logger.Warn(`failed to load font, text will not be displayed`, `err`, err)
			return
		}
		r.face = face
	})
	return r.face
}

// SplitLines splits text on LineSeparator, keeps the first MaxLines parts
// and trims each.
func SplitLines(text string) []string {
	lines := strings.Split(text, LineSeparator)
	if len(lines) > MaxLines {
		lines = lines[:MaxLines]
	}
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines
}

// Compose joins lines for Overlay.
func Compose(lines ...string) string { return strings.Join(lines, LineSeparator) }

// drawLines centers every line horizontally by its ink width and the block
// vertically, stacking lines by the tallest ink height.
func drawLines(img *image.RGBA, face font.Face, lines []string) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	bounds := make([]image.Rectangle, len(lines))
	var lineHeight int
	for i, line := range lines {
		b, _ := font.BoundString(face, line)
		bounds[i] = image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
		lineHeight = max(lineHeight, bounds[i].Dy())
	}
	if lineHeight == 0 {
		lineHeight = face.Metrics().Height.Ceil()
	}
	startY := (h - lineHeight*len(lines)) / 2

	dc := gg.NewContextForRGBA(img)
	dc.SetFontFace(face)
	dc.SetColor(color.White)
	for i, line := range lines {
		if line == `` {
			continue
		}
		b := bounds[i]
		x := (w-b.Dx())/2 - b.Min.X
		baseline := startY + i*lineHeight - b.Min.Y
		dc.DrawString(line, float64(x), float64(baseline))
	}
}
