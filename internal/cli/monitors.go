package cli

import (
	"context"
	"fmt"
	"io"

	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/topology"
	"github.com/spf13/cobra"
)

// monitorInfo is the printed form of one monitor.
type monitorInfo struct {
	ID          string  `json:"id" yaml:"id"`
	X           int     `json:"x" yaml:"x"`
	Y           int     `json:"y" yaml:"y"`
	Width       int     `json:"width" yaml:"width"`
	Height      int     `json:"height" yaml:"height"`
	PPI         float64 `json:"ppi" yaml:"ppi"`
	Orientation string  `json:"orientation" yaml:"orientation"`
	Primary     bool    `json:"primary" yaml:"primary"`
}

func newMonitorsCmd(p Platform) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "monitors",
		Short: "Show the detected monitor layout",
		Long: `Show each detected monitor with its geometry in virtual-desktop pixels
and the pixel density used for distance conversion. Densities can be
overridden per monitor in the [monitors.<id>] config section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(output); err != nil {
				return err
			}
			if p.Displays == nil {
				return errors.New().WithMessage(errors.ErrUnavailable, "display detection not available")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
			defer cancel()

			topo, err := detectTopology(ctx, p.Displays(), cfg.Density())
			if err != nil {
				return err
			}
			return writeMonitors(cmd.OutOrStdout(), output, topo)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatText, "Output format: text, json or yaml")
	return cmd
}

func detectTopology(ctx context.Context, src topology.Source, density topology.DensityOptions) (*topology.Topology, error) {
	descs, err := src.Displays(ctx)
	if err != nil {
		return nil, errors.New().Wrap(topology.ErrSystem, err)
	}
	return topology.FromDescriptors(descs, density)
}

// writeMonitors prints topo. The primary is the one Topology.Primary picks,
// so a layout without a flagged primary still shows which monitor is used.
func writeMonitors(w io.Writer, format string, topo *topology.Topology) error {
	monitors := topo.Monitors()
	primary, _ := topo.Primary()

	if format != formatText {
		infos := make([]monitorInfo, 0, len(monitors))
		for _, m := range monitors {
			infos = append(infos, monitorInfo{
				ID:          m.ID,
				X:           m.X,
				Y:           m.Y,
				Width:       m.Width,
				Height:      m.Height,
				PPI:         m.PPI,
				Orientation: m.Orientation.String(),
				Primary:     m.ID == primary.ID,
			})
		}
		return writeStructured(w, format, infos)
	}

	for i, m := range monitors {
		title := m.ID
		if m.ID == primary.ID {
			title += " (primary)"
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := writeRows(w, title, []row{
			{label: "Geometry", value: fmt.Sprintf("%dx%d%+d%+d", m.Width, m.Height, m.X, m.Y)},
			{label: "Density", value: fmt.Sprintf("%.1f ppi", m.PPI)},
			{label: "Size", value: fmt.Sprintf("%.1f x %.1f in", m.WidthInches(), m.HeightInches())},
			{label: "Orientation", value: m.Orientation.String()},
		}); err != nil {
			return err
		}
	}
	return nil
}
