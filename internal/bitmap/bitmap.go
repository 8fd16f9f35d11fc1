// Package bitmap implements the packed 1-bit-per-pixel raster format used by
// screened peripherals: rows top to bottom, 8 pixels per byte, the most
// significant bit being the leftmost pixel.
package bitmap

import (
	"image"
	"image/color"

	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/junsooki/keyscreen/internal/errors"
)

// Default display resolution of the target peripheral.
const (
	DefaultWidth  = 128
	DefaultHeight = 40
)

var ErrWidth = errors.New(`bitmap width must be a positive multiple of 8`)

// Bitmap is a packed monochrome image. It implements draw.Image so it can be
// drawn onto directly.
type Bitmap struct {
	Width  int
	Height int
	Pix    []byte
}

// New returns a cleared bitmap of the given size.
func New(width, height int) (*Bitmap, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	return &Bitmap{Width: width, Height: height, Pix: make([]byte, Len(width, height))}, nil
}

// Wrap interprets pix as a packed bitmap of the given size without copying.
func Wrap(pix []byte, width, height int) (*Bitmap, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	if want := Len(width, height); len(pix) != want {
		return nil, errors.Errorf(`bitmap length %d does not match %dx%d (want %d bytes)`, len(pix), width, height, want)
	}
	return &Bitmap{Width: width, Height: height, Pix: pix}, nil
}

// Len is the packed byte length for a width x height raster.
func Len(width, height int) int { return width * height / 8 }

// Empty returns an all-zero packed bitmap.
func Empty(width, height int) []byte { return make([]byte, Len(width, height)) }

func checkSize(width, height int) error {
	if width <= 0 || width%8 != 0 {
		return ErrWidth
	}
	if height <= 0 {
		return errors.Errorf(`bitmap height must be positive, got %d`, height)
	}
	return nil
}

func (b *Bitmap) ColorModel() color.Model { return image1bit.BitModel }

func (b *Bitmap) Bounds() image.Rectangle { return image.Rect(0, 0, b.Width, b.Height) }

func (b *Bitmap) At(x, y int) color.Color { return image1bit.Bit(b.BitAt(x, y)) }

func (b *Bitmap) Set(x, y int, c color.Color) {
	b.SetBit(x, y, bool(image1bit.BitModel.Convert(c).(image1bit.Bit)))
}

// BitAt reports whether the pixel at (x, y) is set. Out of bounds is unset.
func (b *Bitmap) BitAt(x, y int) bool {
	if !(image.Point{x, y}.In(b.Bounds())) {
		return false
	}
	i, mask := b.offset(x, y)
	return b.Pix[i]&mask != 0
}

func (b *Bitmap) SetBit(x, y int, on bool) {
	if !(image.Point{x, y}.In(b.Bounds())) {
		return
	}
	i, mask := b.offset(x, y)
	if on {
		b.Pix[i] |= mask
	} else {
		b.Pix[i] &^= mask
	}
}

func (b *Bitmap) offset(x, y int) (int, byte) {
	return y*(b.Width/8) + x/8, byte(0x80) >> uint(x%8)
}

// Bytes returns the packed pixel data.
func (b *Bitmap) Bytes() []byte { return b.Pix }

// RGBA lays the bits onto a drawable surface: set bits become white, unset
// bits black.
func (b *Bitmap) RGBA() *image.RGBA {
	img := image.NewRGBA(b.Bounds())
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.BitAt(x, y) {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}
