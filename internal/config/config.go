package config

import (
	"slices"
	"time"

	"github.com/spf13/pflag"

	"github.com/junsooki/keyscreen/internal/bitmap"
	"github.com/junsooki/keyscreen/internal/errors"
	"github.com/junsooki/keyscreen/internal/gamesense"
	"github.com/junsooki/keyscreen/internal/input"
	"github.com/junsooki/keyscreen/internal/wpm"
)

// Input modes.
const (
	InputSystem  = "system"
	InputConsole = "console"
	InputWindow  = "window"
)

// Config holds all runtime configuration.
type Config struct {
	CorePropsPath string
	Address       string
	Timeout       time.Duration

	Game              string
	GameDisplayName   string
	Developer         string
	Event             string
	DeinitializeTimer time.Duration

	Width       int
	Height      int
	FontSize    float64
	Fonts       []string
	BundledFont bool

	Uppercase     bool
	ShowWPM       bool
	Tail          int
	BufferSize    int
	WPMWindow     time.Duration
	FrameInterval time.Duration
	MaxFrameValue int

	SettleDelay     time.Duration
	ShutdownTimeout time.Duration

	Input        string
	Preview      bool
	PreviewScale int
	MirrorAddr   string

	LogFile string
	Debug   bool
}

// Default reproduces the behavior of the relay without any flags.
func Default() *Config {
	gs := gamesense.DefaultOptions()
	return &Config{
		CorePropsPath:   gamesense.DefaultCorePropsPath,
		Timeout:         gs.Timeout,
		Game:            gs.Game,
		GameDisplayName: gs.GameDisplayName,
		Developer:       gs.Developer,
		Event:           gs.Event,
		Width:           bitmap.DefaultWidth,
		Height:          bitmap.DefaultHeight,
		FontSize:        20,
		Uppercase:       true,
		ShowWPM:         true,
		Tail:            10,
		BufferSize:      input.DefaultBufferSize,
		WPMWindow:       wpm.DefaultWindow,
		FrameInterval:   50 * time.Millisecond,
		MaxFrameValue:   1000,
		SettleDelay:     2 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		Input:           InputSystem,
		PreviewScale:    4,
	}
}

// BindFlags registers the relay flags on fs, defaulting to the current
// values of c.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.CorePropsPath, "core-props", c.CorePropsPath, "path of the engine's coreProps.json discovery file")
	fs.StringVar(&c.Address, "address", c.Address, "daemon host:port, skips coreProps.json discovery")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "timeout of a single daemon request")

	fs.StringVar(&c.Game, "game", c.Game, "game identifier registered with the daemon")
	fs.StringVar(&c.GameDisplayName, "game-display-name", c.GameDisplayName, "game name shown by the engine")
	fs.StringVar(&c.Developer, "developer", c.Developer, "developer shown by the engine")
	fs.StringVar(&c.Event, "event", c.Event, "event identifier registered with the daemon")
	fs.DurationVar(&c.DeinitializeTimer, "deinitialize-timer", c.DeinitializeTimer, "idle time before the engine drops the game (0 = engine default)")

	fs.IntVar(&c.Width, "width", c.Width, "display width in pixels (multiple of 8)")
	fs.IntVar(&c.Height, "height", c.Height, "display height in pixels")
	fs.Float64Var(&c.FontSize, "font-size", c.FontSize, "font size in pixels")
	fs.StringSliceVar(&c.Fonts, "font", c.Fonts, "font file searched before the platform fonts (repeatable)")
	fs.BoolVar(&c.BundledFont, "bundled-font", c.BundledFont, "fall back to the built-in Go font when no system font loads")

	fs.BoolVar(&c.Uppercase, "uppercase", c.Uppercase, "show typed text in upper case")
	fs.BoolVar(&c.ShowWPM, "show-wpm", c.ShowWPM, "show the words per minute line")
	fs.IntVar(&c.Tail, "tail", c.Tail, "number of most recent characters shown")
	fs.IntVar(&c.BufferSize, "buffer-size", c.BufferSize, "number of typed characters kept")
	fs.DurationVar(&c.WPMWindow, "wpm-window", c.WPMWindow, "trailing window of the typing rate")
	fs.DurationVar(&c.FrameInterval, "frame-interval", c.FrameInterval, "time between two frames")
	fs.IntVar(&c.MaxFrameValue, "max-frame-value", c.MaxFrameValue, "frame value wraps to 1 after this")

	fs.DurationVar(&c.SettleDelay, "settle", c.SettleDelay, "wait after binding before the first frame")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "maximum wait for workers on shutdown")

	fs.StringVar(&c.Input, "input", c.Input, "key source: system, console or window")
	fs.BoolVar(&c.Preview, "preview", c.Preview, "open a window mirroring the display")
	fs.IntVar(&c.PreviewScale, "preview-scale", c.PreviewScale, "pixel scale of the preview window")
	fs.StringVar(&c.MirrorAddr, "mirror-addr", c.MirrorAddr, "listen address of the websocket frame mirror (empty = off)")

	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "write logs to this file")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "debug logging and error stacks")
}

// Validate checks c for values the relay cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Width%8 != 0 {
		errs = append(errs, errors.Errorf(`width %d: %w`, c.Width, bitmap.ErrWidth))
	}
	if c.Height <= 0 {
		errs = append(errs, errors.Errorf(`height must be positive, got %d`, c.Height))
	}
	if c.FontSize <= 0 {
		errs = append(errs, errors.Errorf(`font size must be positive, got %g`, c.FontSize))
	}
	if c.Tail <= 0 || c.BufferSize <= 0 {
		errs = append(errs, errors.Errorf(`tail (%d) and buffer size (%d) must be positive`, c.Tail, c.BufferSize))
	}
	if c.WPMWindow <= 0 || c.FrameInterval <= 0 {
		errs = append(errs, errors.New(`wpm window and frame interval must be positive`))
	}
	if c.MaxFrameValue < 1 {
		errs = append(errs, errors.Errorf(`max frame value must be at least 1, got %d`, c.MaxFrameValue))
	}
	if !slices.Contains([]string{InputSystem, InputConsole, InputWindow}, c.Input) {
		errs = append(errs, errors.Errorf(`unknown input %q`, c.Input))
	}
	if c.Input == InputWindow && !c.Preview {
		errs = append(errs, errors.New(`window input requires --preview`))
	}
	if c.Preview && c.PreviewScale < 1 {
		errs = append(errs, errors.Errorf(`preview scale must be at least 1, got %d`, c.PreviewScale))
	}
	return errors.Join(errs...)
}

// GameSense returns the client options.
func (c *Config) GameSense() gamesense.Options {
	o := gamesense.DefaultOptions()
	o.Game = c.Game
	o.GameDisplayName = c.GameDisplayName
	o.Developer = c.Developer
	o.Event = c.Event
	o.Width = c.Width
	o.Height = c.Height
	o.DeinitializeTimer = c.DeinitializeTimer
	o.Timeout = c.Timeout
	return o
}

// Discovery prefers a configured address over the discovery file.
func (c *Config) Discovery() gamesense.Discovery {
	if c.Address != `` {
		return gamesense.StaticAddress(c.Address)
	}
	return gamesense.CorePropsFile(c.CorePropsPath)
}

// ViewerConfig holds configuration for the viewer binary.
type ViewerConfig struct {
	MirrorURL string
	Width     int
	Height    int
	Scale     int
	Debug     bool
}

func DefaultViewer() *ViewerConfig {
	return &ViewerConfig{
		MirrorURL: `ws://localhost:8765/frames`,
		Width:     bitmap.DefaultWidth,
		Height:    bitmap.DefaultHeight,
		Scale:     4,
	}
}

func (c *ViewerConfig) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.MirrorURL, "mirror", c.MirrorURL, "websocket URL of a running relay's frame mirror")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale of the window")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "debug logging")
}
