package bitmap_test

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/keyscreen/internal/bitmap"
)

func TestEmpty(t *testing.T) {
	pix := bitmap.Empty(bitmap.DefaultWidth, bitmap.DefaultHeight)
	require.Len(t, pix, 640)
	for i, v := range pix {
		assert.Zerof(t, v, "byte %d", i)
	}
}

func TestFromImageBitOrder(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 16, 2))
	img.SetGray(0, 0, color.Gray{Y: 0xff})
	img.SetGray(7, 0, color.Gray{Y: 0xff})
	img.SetGray(9, 1, color.Gray{Y: 0xff})

	pix, err := bitmap.Pack(img, 16, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x81, 0x00, 0x00, 0x40}, pix)
}

func TestRoundTrip(t *testing.T) {
	w, h := bitmap.DefaultWidth, bitmap.DefaultHeight
	rng := rand.New(rand.NewSource(1))
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	want := make([][]bool, h)
	for y := range want {
		want[y] = make([]bool, w)
		for x := range want[y] {
			if rng.Intn(2) == 1 {
				want[y][x] = true
				src.Set(x, y, color.White)
			} else {
				src.Set(x, y, color.Black)
			}
		}
	}

	pix, err := bitmap.Pack(src, w, h)
	require.NoError(t, err)
	require.Len(t, pix, w*h/8)

	img, err := bitmap.Unpack(pix, w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			assert.Equalf(t, want[y][x], r > 0x8000, "pixel %d,%d", x, y)
		}
	}

	again, err := bitmap.Pack(img, w, h)
	require.NoError(t, err)
	assert.Equal(t, pix, again)
}

func TestFromImageRescales(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 256, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 128; x++ {
			src.Set(x, y, color.White)
		}
	}
	b, err := bitmap.FromImage(src, 128, 40)
	require.NoError(t, err)
	assert.True(t, b.BitAt(10, 20))
	assert.False(t, b.BitAt(120, 20))
}

func TestWidthMustBeMultipleOfEight(t *testing.T) {
	_, err := bitmap.New(12, 40)
	assert.ErrorIs(t, err, bitmap.ErrWidth)

	_, err = bitmap.FromImage(image.NewGray(image.Rect(0, 0, 12, 4)), 12, 4)
	assert.ErrorIs(t, err, bitmap.ErrWidth)
}

func TestWrapRejectsLength(t *testing.T) {
	_, err := bitmap.Wrap(make([]byte, 639), 128, 40)
	assert.Error(t, err)

	b, err := bitmap.Wrap(make([]byte, 640), 128, 40)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 128, 40), b.Bounds())
}

func TestBitmapIsDrawable(t *testing.T) {
	b, err := bitmap.New(8, 1)
	require.NoError(t, err)
	b.Set(3, 0, color.White)
	b.Set(4, 0, color.Gray{Y: 0x10})
	b.Set(100, 0, color.White)
	assert.Equal(t, []byte{0x10}, b.Bytes())
	assert.True(t, b.BitAt(3, 0))
	assert.False(t, b.BitAt(-1, 0))
}
