package console_test

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/keyscreen/internal/bitmap"
	"github.com/junsooki/keyscreen/internal/console"
	"github.com/junsooki/keyscreen/internal/input"
	"github.com/junsooki/keyscreen/internal/transport"
)

func newConsole(t *testing.T) (*console.Console, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen(`UTF-8`)
	c, err := console.NewWithScreen(s, nil)
	require.NoError(t, err)
	s.SetSize(140, 30)
	t.Cleanup(func() { _ = c.Close() })
	return c, s
}

func TestRunMapsKeys(t *testing.T) {
	c, s := newConsole(t)

	var got []string
	done := make(chan error, 1)
	go func() {
		done <- c.Run(context.Background(), func(ev input.KeyEvent) { got = append(got, ev.Name) })
	}()

	s.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	s.InjectKey(tcell.KeyBackspace2, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	select {
	case err := <-done:
		require.ErrorIs(t, err, input.ErrInterrupted)
	case <-time.After(5 * time.Second):
		t.Fatal(`console did not stop`)
	}
	assert.Equal(t, []string{`a`, input.KeySpace, input.KeyBackspace, input.KeyEnter}, got)
}

func TestRunStopsOnCancel(t *testing.T) {
	c, _ := newConsole(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, func(input.KeyEvent) {}) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal(`console did not stop`)
	}
}

func TestSendFrameDrawsHalfBlocks(t *testing.T) {
	c, s := newConsole(t)

	b, err := bitmap.New(128, 40)
	require.NoError(t, err)
	b.SetBit(0, 0, true)
	b.SetBit(1, 1, true)
	require.NoError(t, c.SendFrame(context.Background(), transport.Frame{Value: 7, Width: 128, Height: 40, Pix: b.Bytes()}))

	cell := func(x, y int) (rune, tcell.Color, tcell.Color) {
		r, _, style, _ := s.GetContent(x, y)
		fg, bg, _ := style.Decompose()
		return r, fg, bg
	}

	r, fg, bg := cell(0, 0)
	assert.Equal(t, '▀', r)
	assert.Equal(t, tcell.ColorWhite, fg)
	assert.Equal(t, tcell.ColorBlack, bg)

	_, fg, bg = cell(1, 0)
	assert.Equal(t, tcell.ColorBlack, fg)
	assert.Equal(t, tcell.ColorWhite, bg)

	_, fg, bg = cell(5, 5)
	assert.Equal(t, tcell.ColorBlack, fg)
	assert.Equal(t, tcell.ColorBlack, bg)

	r, _, _ = cell(9, 20)
	assert.Equal(t, '7', r)

	assert.Error(t, c.SendFrame(context.Background(), transport.Frame{Width: 128, Height: 40, Pix: []byte{1}}))
}
