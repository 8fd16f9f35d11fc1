package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/junsooki/keyscreen/internal/animation"
	"github.com/junsooki/keyscreen/internal/bitmap"
	"github.com/junsooki/keyscreen/internal/config"
	"github.com/junsooki/keyscreen/internal/console"
	"github.com/junsooki/keyscreen/internal/display"
	"github.com/junsooki/keyscreen/internal/errors"
	"github.com/junsooki/keyscreen/internal/fonts"
	"github.com/junsooki/keyscreen/internal/gamesense"
	"github.com/junsooki/keyscreen/internal/input"
	"github.com/junsooki/keyscreen/internal/logx"
	"github.com/junsooki/keyscreen/internal/permissions"
	"github.com/junsooki/keyscreen/internal/render"
	"github.com/junsooki/keyscreen/internal/transport"
	"github.com/junsooki/keyscreen/internal/wpm"
)

func relay(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The console owns the terminal, so logs only go to a file there.
	var fallback io.Writer = os.Stderr
	if cfg.Input == config.InputConsole {
		fallback = io.Discard
	}
	w, closeLog, err := logx.Open(cfg.LogFile, fallback)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := logx.New(w, cfg.Debug)
	slog.SetDefault(logger)

	banner(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client := gamesense.NewClient(cfg.Discovery(), cfg.GameSense(), logger)
	if err := client.Setup(ctx); err != nil {
		return errors.Errorf(`gamesense setup: %w`, err)
	}
	logger.Info(`registered with GameSense`, `game`, cfg.Game, `event`, cfg.Event)
	defer clearDisplay(client, cfg, logger)

	// Frame sinks besides the device.
	fanout := &transport.Fanout{Primary: client, Logger: logger}

	var preview *display.EbitenDisplay
	if cfg.Preview {
		preview = display.NewEbitenDisplay(cfg.Width, cfg.Height, cfg.PreviewScale, `keyscreen`)
		fanout.Mirrors = append(fanout.Mirrors, preview)
	}

	var con *console.Console
	if cfg.Input == config.InputConsole {
		con, err = console.New(logger)
		if err != nil {
			return err
		}
		defer con.Close()
		fanout.Mirrors = append(fanout.Mirrors, con)
	}

	if cfg.MirrorAddr != `` {
		mirror, err := serveMirror(cfg.MirrorAddr, logger)
		if err != nil {
			return err
		}
		defer mirror.Close()
		fanout.Mirrors = append(fanout.Mirrors, mirror)
	}

	var source input.Source
	switch cfg.Input {
	case config.InputConsole:
		source = con
	case config.InputWindow:
		source = preview.Keys()
	default:
		if !permissions.HasAccessibility() {
			logger.Warn(`keyboard access not granted, requesting`)
			if !permissions.RequestAccessibility() {
				logger.Warn(`grant keyboard access (Input Monitoring / input group) and restart`)
			}
		}
		source = input.NewSystemSource(logger)
	}

	logger.Info(`waiting for the engine to settle`, `delay`, cfg.SettleDelay)
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(cfg.SettleDelay):
	}

	buf := input.NewBuffer(cfg.BufferSize)
	rate := wpm.New(cfg.WPMWindow)
	renderer := render.New(cfg.Width, cfg.Height, cfg.FontSize, fonts.Default(cfg.Fonts, cfg.BundledFont, logger), logger)
	defer renderer.Close()

	listener := input.NewListener(buf, rate, source, logger)
	driver := animation.New(buf, rate, renderer, fanout, animation.Options{
		Interval:      cfg.FrameInterval,
		Tail:          cfg.Tail,
		Uppercase:     cfg.Uppercase,
		ShowWPM:       cfg.ShowWPM,
		MaxFrameValue: cfg.MaxFrameValue,
		Width:         cfg.Width,
		Height:        cfg.Height,
		ClearTimeout:  cfg.Timeout,
	}, logger)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		err := listener.Run(ctx)
		switch {
		case errors.Is(err, input.ErrInterrupted):
			logger.Info(`interrupted from console`)
		case err != nil:
			logger.Error(`keyboard listener stopped`, `error`, err)
		default:
			return
		}
		cancel()
	}()
	go func() {
		defer wg.Done()
		logx.IsErr(driver.Run(ctx), logger, slog.LevelError, `animation stopped`)
	}()

	logger.Info(`keyscreen running, press Ctrl-C to stop`)
	if preview != nil {
		if err := preview.Show(ctx); err != nil {
			logger.Error(`preview window`, `error`, err)
		}
	} else {
		<-ctx.Done()
	}

	logger.Info(`shutting down`)
	cancel()
	join(&wg, cfg.ShutdownTimeout, logger)
	return nil
}

// join waits for wg up to timeout.
func join(wg *sync.WaitGroup, timeout time.Duration, logger *slog.Logger) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		logger.Warn(`workers did not stop in time`, `timeout`, timeout)
	}
}

// clearDisplay pushes one blank frame straight to the device.
func clearDisplay(client *gamesense.Client, cfg *config.Config, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := client.SendBitmap(ctx, bitmap.Empty(cfg.Width, cfg.Height), 1); err != nil {
		logger.Warn(`final clear failed`, `error`, err)
		return
	}
	logger.Info(`display cleared`)
}

// mirrorServer serves the websocket frame mirror at /frames.
type mirrorServer struct {
	*transport.WebSocketMirror
	srv *http.Server
	URL string
}

func serveMirror(addr string, logger *slog.Logger) (*mirrorServer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ln, err := net.Listen(`tcp`, addr)
	if err != nil {
		return nil, errors.WrapPrefix(err, `mirror listen`, 0)
	}
	mirror := transport.NewWebSocketMirror(logger)
	mux := http.NewServeMux()
	mux.Handle(`/frames`, mirror)
	m := &mirrorServer{
		WebSocketMirror: mirror,
		srv:             &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		URL:             `ws://` + ln.Addr().String() + `/frames`,
	}
	go func() {
		if err := m.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(`mirror server`, `error`, err)
		}
	}()
	logger.Info(`frame mirror listening`, `url`, m.URL)
	return m, nil
}

func (m *mirrorServer) Close() error {
	_ = m.WebSocketMirror.Close()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return m.srv.Shutdown(ctx)
}

func banner(cfg *config.Config, logger *slog.Logger) {
	target := cfg.Address
	if target == `` {
		target = cfg.CorePropsPath
	}
	logger.Info(`keyscreen starting`)
	logger.Info(`  daemon`, `target`, target)
	logger.Info(`  game`, `game`, cfg.Game, `event`, cfg.Event)
	logger.Info(`  screen`, `width`, cfg.Width, `height`, cfg.Height, `font_size`, cfg.FontSize)
	logger.Info(`  frames`, `interval`, cfg.FrameInterval, `tail`, cfg.Tail, `wpm_window`, cfg.WPMWindow)
	logger.Info(`  input`, `mode`, cfg.Input, `preview`, cfg.Preview, `mirror`, cfg.MirrorAddr)
}
