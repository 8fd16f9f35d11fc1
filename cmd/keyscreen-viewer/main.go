package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/junsooki/keyscreen/internal/config"
	"github.com/junsooki/keyscreen/internal/display"
	"github.com/junsooki/keyscreen/internal/errors"
	"github.com/junsooki/keyscreen/internal/logx"
	"github.com/junsooki/keyscreen/internal/transport"
)

var cfg = config.DefaultViewer()

var rootCmd = &cobra.Command{
	Use:          `keyscreen-viewer`,
	Short:        `show the frames of a running keyscreen relay`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		if err := view(cfg); err != nil {
			if stack, ok := errors.Stack(err); cfg.Debug && ok {
				fmt.Fprintln(os.Stderr, stack)
				os.Exit(1)
			}
			log.Fatal(err)
		}
	},
}

func init() {
	cfg.BindFlags(rootCmd.Flags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func view(cfg *config.ViewerConfig) error {
	logger := logx.New(os.Stderr, cfg.Debug)
	logger.Info(`keyscreen viewer starting`)
	logger.Info(`  mirror`, `url`, cfg.MirrorURL)
	logger.Info(`  scale`, `scale`, cfg.Scale)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	disp := display.NewEbitenDisplay(cfg.Width, cfg.Height, cfg.Scale, `keyscreen viewer`)

	recv := transport.NewWebSocketReceiver(cfg.MirrorURL, logger)
	recv.OnFrame(func(f transport.Frame) {
		if err := disp.SendFrame(ctx, f); err != nil {
			logger.Debug(`bad frame`, `value`, f.Value, `error`, err)
		}
	})
	if err := recv.Connect(); err != nil {
		return err
	}
	defer recv.Close()
	logger.Info(`connected to mirror`)

	go func() {
		select {
		case <-recv.Done():
			logger.Info(`mirror closed the connection`)
			cancel()
		case <-ctx.Done():
		}
	}()

	return disp.Show(ctx)
}
