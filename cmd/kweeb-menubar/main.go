package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/kweeb/internal/config"
	"codeberg.org/mutker/kweeb/internal/logger"
	"codeberg.org/mutker/kweeb/internal/metrics"
	"codeberg.org/mutker/kweeb/internal/tray"
	"codeberg.org/mutker/kweeb/internal/ui"
	"github.com/spf13/pflag"
)

func main() {
	fs := pflag.NewFlagSet("kweeb-menubar", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(config.WithFlags(fs))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	closer, err := logger.Init(cfg.Logger(false))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initial := ui.FormatTitles(metrics.Counters{})
	t := tray.New("kweeb", "Waiting for kweeb")
	keys := t.AddMenuItem(initial.Keypresses, nil)
	clicks := t.AddMenuItem(initial.MouseClicks, nil)
	travel := t.AddMenuItem(initial.MouseTravel, nil)
	scroll := t.AddMenuItem(initial.ScrollSteps, nil)
	t.AddSeparator()
	t.AddMenuItem("Quit", t.Stop)

	log := logger.New("menubar")
	t.OnReady(func() {
		go func() {
			err := ui.Listen(ctx, cfg.UI.Socket, log, func(msg ui.Message) {
				titles := ui.FormatTitles(msg.Counters)
				t.SetItemTitle(keys, titles.Keypresses)
				t.SetItemTitle(clicks, titles.MouseClicks)
				t.SetItemTitle(travel, titles.MouseTravel)
				t.SetItemTitle(scroll, titles.ScrollSteps)
			})
			if err != nil {
				log.Error().Err(err).Msg("Failed to listen for totals")
			}
			t.Stop()
		}()
	})

	t.Run()
	logger.Info().Msg("Exiting...")
}
