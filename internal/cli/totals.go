package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"codeberg.org/mutker/kweeb/internal/config"
	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/identity"
	"codeberg.org/mutker/kweeb/internal/logger"
	"codeberg.org/mutker/kweeb/internal/metrics"
	"codeberg.org/mutker/kweeb/internal/remote"
	"github.com/spf13/cobra"
)

const queryTimeout = 10 * time.Second

// totalsReport is the printed result of the totals command.
type totalsReport struct {
	Source           string     `json:"source" yaml:"source"`
	DeviceID         string     `json:"device_id,omitempty" yaml:"device_id,omitempty"`
	Since            *time.Time `json:"since,omitempty" yaml:"since,omitempty"`
	metrics.Counters `yaml:",inline"`
}

func newTotalsCmd() *cobra.Command {
	var (
		since      time.Duration
		output     string
		fromRemote bool
	)

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Print cumulative activity totals",
		Long: `Print all-time totals from the local database, or the sum of the last
--since interval. With --remote the totals are read from the remote mirror
for this device instead.

Examples:
  kweeb totals
  kweeb totals --since 24h
  kweeb totals --output json
  kweeb totals --remote`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(output); err != nil {
				return err
			}
			if since < 0 {
				return errors.New().WithMessage(errors.ErrInvalidArgument, "--since must not be negative")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
			defer cancel()

			var report totalsReport
			if fromRemote {
				report, err = remoteTotals(ctx, cfg)
			} else {
				report, err = localTotals(ctx, cfg, since)
			}
			if err != nil {
				return err
			}

			return writeTotals(cmd.OutOrStdout(), output, report)
		},
	}

	cmd.Flags().DurationVar(&since, "since", 0, "Only count activity within this long ago (e.g. 24h)")
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&fromRemote, "remote", false, "Read totals from the remote mirror")
	return cmd
}

func localTotals(ctx context.Context, cfg *config.Config, since time.Duration) (totalsReport, error) {
	repo, err := metrics.NewRepository(cfg.Metrics(), logger.Nop())
	if err != nil {
		return totalsReport{}, err
	}
	defer repo.Close()

	report := totalsReport{Source: "local"}
	if since > 0 {
		from := time.Now().Add(-since).UTC().Truncate(time.Second)
		report.Since = &from
		report.Counters, err = repo.TotalsSince(ctx, from)
	} else {
		report.Counters, err = repo.Totals(ctx)
	}
	return report, err
}

func remoteTotals(ctx context.Context, cfg *config.Config) (totalsReport, error) {
	if !cfg.Remote.Enabled {
		return totalsReport{}, errors.New().WithMessage(errors.ErrInvalidConfig, "remote mirror is not enabled")
	}

	id, err := identity.LoadOrCreate(cfg.DeviceIDFile)
	if err != nil {
		return totalsReport{}, err
	}
	client, err := remote.NewClient(cfg.RemoteClient(), logger.Nop())
	if err != nil {
		return totalsReport{}, err
	}

	counters, err := client.Totals(ctx, id.String())
	if err != nil {
		return totalsReport{}, err
	}
	return totalsReport{Source: "remote", DeviceID: id.String(), Counters: counters}, nil
}

func writeTotals(w io.Writer, format string, r totalsReport) error {
	if format != formatText {
		return writeStructured(w, format, r)
	}

	title := "All-time totals"
	if r.Since != nil {
		title = "Totals since " + r.Since.Local().Format(time.DateTime)
	}
	if r.Source == "remote" {
		title += " (remote)"
	}

	return writeRows(w, title, []row{
		{label: "Keypresses", value: strconv.FormatInt(r.Keypresses, 10)},
		{label: "Mouse clicks", value: strconv.FormatInt(r.MouseClicks, 10)},
		{label: "Mouse travel", value: fmt.Sprintf("%.1f in (%.3f mi)", r.MouseDistanceIn, r.MouseDistanceMi)},
		{label: "Scroll steps", value: strconv.FormatInt(r.ScrollSteps, 10)},
	})
}
