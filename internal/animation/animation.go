// Package animation periodically renders the typed text and typing rate and
// pushes the result to a display.
package animation

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/junsooki/keyscreen/internal/bitmap"
	"github.com/junsooki/keyscreen/internal/errors"
	"github.com/junsooki/keyscreen/internal/input"
	"github.com/junsooki/keyscreen/internal/render"
	"github.com/junsooki/keyscreen/internal/transport"
)

// Rate reports the current typing rate in words per minute.
type Rate interface {
	WPM() int
}

// Renderer draws text onto a packed bitmap.
type Renderer interface {
	Overlay(base []byte, text string) ([]byte, error)
}

// Options control the frame loop.
type Options struct {
	Interval      time.Duration
	Tail          int
	Uppercase     bool
	ShowWPM       bool
	MaxFrameValue int
	Width         int
	Height        int
	// ClearTimeout bounds the final blank push after the loop stops.
	ClearTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		Interval:      50 * time.Millisecond,
		Tail:          10,
		Uppercase:     true,
		ShowWPM:       true,
		MaxFrameValue: 1000,
		Width:         bitmap.DefaultWidth,
		Height:        bitmap.DefaultHeight,
		ClearTimeout:  2 * time.Second,
	}
}

// Driver pushes one frame per interval until its context is cancelled.
type Driver struct {
	buf      *input.Buffer
	rate     Rate
	renderer Renderer
	sender   transport.FrameSender
	opts     Options
	logger   *slog.Logger

	value int
}

func New(buf *input.Buffer, rate Rate, renderer Renderer, sender transport.FrameSender, opts Options, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultOptions()
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.MaxFrameValue < 1 {
		opts.MaxFrameValue = def.MaxFrameValue
	}
	if opts.ClearTimeout <= 0 {
		opts.ClearTimeout = def.ClearTimeout
	}
	return &Driver{
		buf:      buf,
		rate:     rate,
		renderer: renderer,
		sender:   sender,
		opts:     opts,
		logger:   logger,
	}
}

// Text composes the display text: the tail of the buffer, preceded by a
// "WPM: n" line while the rate is positive.
func (d *Driver) Text() string {
	body := d.buf.Tail(d.opts.Tail)
	if d.opts.Uppercase {
		body = strings.ToUpper(body)
	}
	if d.opts.ShowWPM && d.rate != nil {
		if n := d.rate.WPM(); n > 0 {
			return render.Compose(`WPM: `+strconv.Itoa(n), body)
		}
	}
	return body
}

// nextValue returns the frame value to push, counting 1..MaxFrameValue.
func (d *Driver) nextValue() int {
	d.value++
	if d.value > d.opts.MaxFrameValue {
		d.value = 1
	}
	return d.value
}

// Step renders and pushes one frame.
func (d *Driver) Step(ctx context.Context) error {
	pix, err := d.renderer.Overlay(bitmap.Empty(d.opts.Width, d.opts.Height), d.Text())
	if err != nil {
		return errors.Errorf(`render frame: %w`, err)
	}
	return d.sender.SendFrame(ctx, transport.Frame{
		Value:  d.nextValue(),
		Width:  d.opts.Width,
		Height: d.opts.Height,
		Pix:    pix,
		Time:   time.Now(),
	})
}

// Clear pushes a blank frame with value 1.
func (d *Driver) Clear(ctx context.Context) error {
	return d.sender.SendFrame(ctx, transport.Frame{
		Value:  1,
		Width:  d.opts.Width,
		Height: d.opts.Height,
		Pix:    bitmap.Empty(d.opts.Width, d.opts.Height),
		Time:   time.Now(),
	})
}

// Run pushes frames until ctx is cancelled or a push fails. Either way a
// blank frame is pushed on return. Cancellation is not an error.
func (d *Driver) Run(ctx context.Context) (err error) {
	defer func() {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.opts.ClearTimeout)
		defer cancel()
		if cerr := d.Clear(cctx); cerr != nil {
			d.logger.Warn(`clear display`, `error`, cerr)
			return
		}
		d.logger.Info(`display cleared`)
	}()

	ticker := time.NewTicker(d.opts.Interval)
	defer ticker.Stop()

	for {
		if err := d.Step(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			d.logger.Error(`push frame`, `error`, err)
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
