package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/kweeb/internal/config"
	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/identity"
	"codeberg.org/mutker/kweeb/internal/logger"
	"codeberg.org/mutker/kweeb/internal/metrics"
	"codeberg.org/mutker/kweeb/internal/pid"
	"codeberg.org/mutker/kweeb/internal/pipeline"
	"codeberg.org/mutker/kweeb/internal/remote"
	"codeberg.org/mutker/kweeb/internal/topology"
	"codeberg.org/mutker/kweeb/internal/ui"
	"github.com/spf13/cobra"
)

func newRunCmd(p Platform) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start counting activity",
		Long: `Start the sampler, flusher and topology refresher. Totals are persisted
every flush interval and once more on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if p.Input == nil || p.Displays == nil {
				return errors.New().WithMessage(errors.ErrUnavailable, "input capture not available on this build")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			closer, err := logger.Init(cfg.Logger(logger.IsService()))
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, p)
		},
	}
}

func run(ctx context.Context, cfg *config.Config, p Platform) error {
	log := logger.Default()
	if cfg.File != "" {
		log.Debug().Str("file", cfg.File).Msg("Config loaded")
	}

	if err := pid.Write(cfg.PIDFile); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(cfg.PIDFile); err != nil {
			log.Warn().Err(err).Msg("Failed to remove pid file")
		}
	}()

	repo, err := metrics.NewRepository(cfg.Metrics(), logger.New("metrics"))
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close metrics database")
		}
	}()

	deviceID, err := identity.LoadOrCreate(cfg.DeviceIDFile)
	if err != nil {
		return err
	}

	pcfg := cfg.Pipeline()

	storeCtx, cancel := context.WithTimeout(ctx, pcfg.StoreTimeout)
	totals, err := repo.Totals(storeCtx)
	cancel()
	if err != nil {
		return err
	}
	state := metrics.NewState(totals)

	log.Info().
		Str("device_id", deviceID.String()).
		Int64("keypresses", totals.Keypresses).
		Int64("mouse_clicks", totals.MouseClicks).
		Float64("mouse_distance_in", totals.MouseDistanceIn).
		Int64("scroll_steps", totals.ScrollSteps).
		Msg("Starting")

	hook := p.Input(logger.New("input"))
	hook.Start(ctx)

	var opts []pipeline.FlusherOption
	if cfg.Remote.Enabled {
		client, err := remote.NewClient(cfg.RemoteClient(), logger.New("remote"))
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithRemote(client, deviceID.String()))
	}
	if cfg.UI.Enabled {
		pub := ui.NewPublisher(cfg.UI.Socket, logger.New("ui"))
		pub.Publish(totals)

		// The publisher outlives ctx so the shutdown flush still reaches
		// the menubar.
		pubCtx, stopPub := context.WithCancel(context.WithoutCancel(ctx))
		pubDone := make(chan struct{})
		go func() {
			defer close(pubDone)
			pub.Run(pubCtx)
		}()
		defer func() {
			stopPub()
			<-pubDone
		}()

		opts = append(opts, pipeline.WithObserver(pub))
	}

	holder := topology.NewHolder(nil)
	sampler := pipeline.NewSampler(hook, state, holder, pcfg, logger.New("sampler"))
	flusher := pipeline.NewFlusher(state, repo, pcfg, logger.New("flusher"), opts...)
	refresher := pipeline.NewRefresher(p.Displays(), holder, cfg.Density(), pcfg, logger.New("topology"))

	err = pipeline.NewRunner(sampler, flusher, refresher, pcfg, log).Run(ctx)
	log.Info().Msg("Exiting...")
	return err
}
