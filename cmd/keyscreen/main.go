package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/junsooki/keyscreen/internal/config"
	"github.com/junsooki/keyscreen/internal/errors"
)

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:          `keyscreen`,
	Short:        `show typed keys and typing speed on a GameSense OLED`,
	Long:         `keyscreen relays the last typed characters and the words-per-minute rate to the 128x40 screen of a SteelSeries peripheral through the local GameSense daemon.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error { return relay(cfg) })
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

func run(fn func() error) {
	err := fn()
	if err == nil {
		return
	}
	if stack, ok := errors.Stack(err); cfg.Debug && ok {
		fmt.Fprintln(os.Stderr, stack)
		os.Exit(1)
	}
	log.Fatal(err)
}
