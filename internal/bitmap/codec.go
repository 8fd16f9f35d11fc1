package bitmap

import (
	"image"

	"golang.org/x/image/draw"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// FromImage packs img into a width x height bitmap. A source of a different
// size is rescaled first; every pixel is then reduced to one bit with the
// image1bit color model (bright => set).
func FromImage(img image.Image, width, height int) (*Bitmap, error) {
	b, err := New(width, height)
	if err != nil {
		return nil, err
	}
	src := img
	if sb := img.Bounds(); sb.Dx() != width || sb.Dy() != height {
		dst := image.NewRGBA(b.Bounds())
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, sb, draw.Src, nil)
		src = dst
	}
	min := src.Bounds().Min
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			on := image1bit.BitModel.Convert(src.At(min.X+x, min.Y+y)).(image1bit.Bit)
			if on {
				b.SetBit(x, y, true)
			}
		}
	}
	return b, nil
}

// Pack is FromImage returning only the packed bytes.
func Pack(img image.Image, width, height int) ([]byte, error) {
	b, err := FromImage(img, width, height)
	if err != nil {
		return nil, err
	}
	return b.Pix, nil
}

// Unpack lays a packed bitmap back onto an RGBA surface.
func Unpack(pix []byte, width, height int) (*image.RGBA, error) {
	b, err := Wrap(pix, width, height)
	if err != nil {
		return nil, err
	}
	return b.RGBA(), nil
}
