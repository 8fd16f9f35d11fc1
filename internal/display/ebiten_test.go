package display

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/keyscreen/internal/bitmap"
	"github.com/junsooki/keyscreen/internal/input"
	"github.com/junsooki/keyscreen/internal/transport"
)

func TestAspectFitTransform(t *testing.T) {
	scale, x, y := aspectFitTransform(512, 160, 128, 40)
	assert.Equal(t, 4.0, scale)
	assert.Zero(t, x)
	assert.Zero(t, y)

	scale, x, y = aspectFitTransform(512, 400, 128, 40)
	assert.Equal(t, 4.0, scale)
	assert.Zero(t, x)
	assert.Equal(t, 120.0, y)
}

func TestSendFrameUnpacks(t *testing.T) {
	d := NewEbitenDisplay(128, 40, 4, `test`)
	assert.Nil(t, d.CurrentFrame())

	pix := bitmap.Empty(128, 40)
	pix[0] = 0x80
	require.NoError(t, d.SendFrame(context.Background(), transport.Frame{Value: 1, Width: 128, Height: 40, Pix: pix}))

	img := d.CurrentFrame()
	require.NotNil(t, img)
	r, _, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	r, _, _, _ = img.At(1, 0).RGBA()
	assert.Zero(t, r)

	assert.Error(t, d.SendFrame(context.Background(), transport.Frame{Width: 128, Height: 40, Pix: pix[:10]}))
}

func TestKeysDeliversQueuedEvents(t *testing.T) {
	d := NewEbitenDisplay(128, 40, 1, `test`)
	d.emit(input.RuneEvent('a'))
	d.emit(input.KeyEvent{Name: input.KeyBackspace})

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan input.KeyEvent, 2)
	done := make(chan error, 1)
	go func() {
		done <- d.Keys().Run(ctx, func(ev input.KeyEvent) { got <- ev })
	}()

	assert.Equal(t, `a`, (<-got).Name)
	assert.Equal(t, input.KeyBackspace, (<-got).Name)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal(`source did not stop`)
	}
}
