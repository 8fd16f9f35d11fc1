// Package gamesense is a client for the local SteelSeries GameSense daemon:
// it registers a virtual game and event, binds a screen handler and pushes
// bitmap frames to a screened device.
package gamesense

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/junsooki/keyscreen/internal/bitmap"
	"github.com/junsooki/keyscreen/internal/errors"
	"github.com/junsooki/keyscreen/internal/transport"
)

var ErrBitmapLength = errors.New(`invalid bitmap length`)

// StatusError is a non-200 reply of the daemon.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is the daemon rejecting an unknown game
// or event, which makes unregistering idempotent.
func IsNotFound(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	if se.StatusCode == http.StatusNotFound {
		return true
	}
	body := strings.ToLower(se.Body)
	for _, s := range []string{`not found`, `not registered`, `does not exist`, `unknown`} {
		if strings.Contains(body, s) {
			return true
		}
	}
	return false
}

// Options describes the virtual game and the target screen.
type Options struct {
	Game              string
	GameDisplayName   string
	Developer         string
	Event             string
	Width             int
	Height            int
	MinValue          int
	MaxValue          int
	DeinitializeTimer time.Duration
	Timeout           time.Duration
}

func DefaultOptions() Options {
	return Options{
		Game:            `EXAMPLE`,
		GameDisplayName: `Keyboard Visualizer`,
		Developer:       `Your Name`,
		Event:           `KEYBOARD_VISUALIZER`,
		Width:           bitmap.DefaultWidth,
		Height:          bitmap.DefaultHeight,
		MinValue:        0,
		MaxValue:        100,
		Timeout:         2 * time.Second,
	}
}

// Client talks JSON over HTTP POST to the daemon.
type Client struct {
	discovery Discovery
	http      *http.Client
	opts      Options
	logger    *slog.Logger
}

var _ transport.FrameSender = (*Client)(nil)

func NewClient(discovery Discovery, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		discovery: discovery,
		http:      &http.Client{Timeout: opts.Timeout},
		opts:      opts,
		logger:    logger,
	}
}

func (c *Client) Options() Options { return c.opts }

// Post sends payload to endpoint. Every failure is logged and returned.
func (c *Client) Post(ctx context.Context, endpoint string, payload any) error {
	err := c.post(ctx, endpoint, payload)
	if err != nil {
		c.logger.Error(`gamesense request failed`, `endpoint`, endpoint, `err`, err)
	}
	return err
}

func (c *Client) post(ctx context.Context, endpoint string, payload any) error {
	addr, err := c.discovery.Address()
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, `http://`+addr+`/`+endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, 0)
	}
	req.Header.Set(`Content-Type`, `application/json`)
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Errorf(`request to %s: %w`, endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.New(&StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))})
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) UnregisterEvent(ctx context.Context) error {
	return c.Post(ctx, EndpointRemoveGameEvent, EventRef{Game: c.opts.Game, Event: c.opts.Event})
}

func (c *Client) UnregisterGame(ctx context.Context) error {
	return c.Post(ctx, EndpointRemoveGame, GameRef{Game: c.opts.Game})
}

func (c *Client) RegisterGame(ctx context.Context) error {
	return c.Post(ctx, EndpointGameMetadata, GameMetadata{
		Game:                      c.opts.Game,
		GameDisplayName:           c.opts.GameDisplayName,
		Developer:                 c.opts.Developer,
		DeinitializeTimerLengthMs: int(c.opts.DeinitializeTimer / time.Millisecond),
	})
}

func (c *Client) RegisterEvent(ctx context.Context) error {
	return c.Post(ctx, EndpointRegisterGameEvent, EventMetadata{
		Game:          c.opts.Game,
		Event:         c.opts.Event,
		MinValue:      c.opts.MinValue,
		MaxValue:      c.opts.MaxValue,
		ValueOptional: true,
	})
}

// BindScreenHandler binds the event to the screen with an all-zero image.
func (c *Client) BindScreenHandler(ctx context.Context) error {
	return c.Post(ctx, EndpointBindGameEvent, BindEvent{
		Game:  c.opts.Game,
		Event: c.opts.Event,
		Handlers: []ScreenHandler{{
			DeviceType: DeviceType(c.opts.Width, c.opts.Height),
			Zone:       ZoneOne,
			Mode:       ModeScreen,
			Datas: []ScreenData{{
				HasText:   false,
				ImageData: bitmap.Empty(c.opts.Width, c.opts.Height),
			}},
		}},
	})
}

// SendBitmap pushes one frame tagged with value. A bitmap of the wrong
// length is rejected without contacting the daemon.
func (c *Client) SendBitmap(ctx context.Context, pix []byte, value int) error {
	if want := bitmap.Len(c.opts.Width, c.opts.Height); len(pix) != want {
		err := errors.Errorf(`%w: %d bytes (expected %d)`, ErrBitmapLength, len(pix), want)
		c.logger.Error(`refusing to send frame`, `err`, err)
		return err
	}
	return c.Post(ctx, EndpointGameEvent, GameEvent{
		Game:  c.opts.Game,
		Event: c.opts.Event,
		Data: EventData{
			Value: value,
			Frame: map[string]transport.ImageData{ImageDataKey(c.opts.Width, c.opts.Height): pix},
		},
	})
}

func (c *Client) SendFrame(ctx context.Context, f transport.Frame) error {
	return c.SendBitmap(ctx, f.Pix, f.Value)
}

// Setup removes a stale registration, registers game and event and binds
// the screen handler. Only the registration steps are fatal.
func (c *Client) Setup(ctx context.Context) error {
	if err := c.UnregisterEvent(ctx); err != nil {
		c.logUnregister(`event`, err)
	}
	if err := c.UnregisterGame(ctx); err != nil {
		c.logUnregister(`game`, err)
	}
	if err := c.RegisterGame(ctx); err != nil {
		return errors.Errorf(`register game: %w`, err)
	}
	if err := c.RegisterEvent(ctx); err != nil {
		return errors.Errorf(`register event: %w`, err)
	}
	if err := c.BindScreenHandler(ctx); err != nil {
		return errors.Errorf(`bind event handler: %w`, err)
	}
	return nil
}

func (c *Client) logUnregister(what string, err error) {
	if IsNotFound(err) {
		c.logger.Info(`nothing to unregister, continuing`, `what`, what)
		return
	}
	c.logger.Warn(`failed to unregister, continuing`, `what`, what, `err`, err)
}
