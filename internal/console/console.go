// Package console mirrors the display in a terminal and reads keys typed
// into it.
package console

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/junsooki/keyscreen/internal/bitmap"
	"github.com/junsooki/keyscreen/internal/errors"
	"github.com/junsooki/keyscreen/internal/input"
	"github.com/junsooki/keyscreen/internal/transport"
)

var (
	on  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	off = tcell.StyleDefault.Foreground(tcell.ColorBlack)
)

// Console draws frames with half-block glyphs, two pixel rows per cell.
type Console struct {
	mu     sync.Mutex
	screen tcell.Screen
	last   transport.Frame
	logger *slog.Logger

	closeOnce sync.Once
}

// New opens the controlling terminal.
func New(logger *slog.Logger) (*Console, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.WrapPrefix(err, `open terminal`, 0)
	}
	return NewWithScreen(s, logger)
}

// NewWithScreen initializes s and takes ownership of it.
func NewWithScreen(s tcell.Screen, logger *slog.Logger) (*Console, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := s.Init(); err != nil {
		return nil, errors.WrapPrefix(err, `init terminal`, 0)
	}
	s.HideCursor()
	s.Clear()
	s.Show()
	return &Console{screen: s, logger: logger}, nil
}

// Run reports keys typed into the terminal until ctx is cancelled. Ctrl-C
// returns input.ErrInterrupted.
func (c *Console) Run(ctx context.Context, handle func(input.KeyEvent)) error {
	stop := context.AfterFunc(ctx, func() {
		_ = c.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		switch ev := c.screen.PollEvent().(type) {
		case nil:
			// screen finalized
			return nil
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
		case *tcell.EventResize:
			c.mu.Lock()
			c.screen.Sync()
			c.draw(c.last)
			c.mu.Unlock()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				c.logger.Debug(`ctrl-c in console`)
				return input.ErrInterrupted
			}
			if ke, ok := keyEvent(ev); ok {
				handle(ke)
			}
		}
	}
}

func keyEvent(ev *tcell.EventKey) (input.KeyEvent, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		return input.RuneEvent(ev.Rune()), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return input.KeyEvent{Name: input.KeyBackspace}, true
	case tcell.KeyEnter:
		return input.KeyEvent{Name: input.KeyEnter}, true
	case tcell.KeyTab:
		return input.KeyEvent{Name: input.KeyTab}, true
	case tcell.KeyEscape:
		return input.KeyEvent{Name: input.KeyEscape}, true
	}
	return input.KeyEvent{}, false
}

// SendFrame draws f and a status line under it.
func (c *Console) SendFrame(_ context.Context, f transport.Frame) error {
	if _, err := bitmap.Wrap(f.Pix, f.Width, f.Height); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = f
	c.draw(f)
	c.screen.Show()
	return nil
}

func (c *Console) draw(f transport.Frame) {
	b, err := bitmap.Wrap(f.Pix, f.Width, f.Height)
	if err != nil {
		return
	}
	rows := (b.Height + 1) / 2
	for cy := range rows {
		for x := range b.Width {
			top := b.BitAt(x, 2*cy)
			bottom := 2*cy+1 < b.Height && b.BitAt(x, 2*cy+1)
			c.screen.SetContent(x, cy, '▀', nil, cellStyle(top, bottom))
		}
	}
	status := fmt.Sprintf(`frame %4d  (Ctrl-C to quit)`, f.Value)
	for x := range b.Width {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		c.screen.SetContent(x, rows, r, nil, tcell.StyleDefault)
	}
}

func cellStyle(top, bottom bool) tcell.Style {
	st := off
	if top {
		st = on
	}
	if bottom {
		return st.Background(tcell.ColorWhite)
	}
	return st.Background(tcell.ColorBlack)
}

// Close restores the terminal.
func (c *Console) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.screen.Fini()
	})
	return nil
}
