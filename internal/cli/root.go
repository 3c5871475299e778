// Package cli wires the kweeb command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"codeberg.org/mutker/kweeb/internal/config"
	"codeberg.org/mutker/kweeb/internal/input"
	"codeberg.org/mutker/kweeb/internal/logger"
	"codeberg.org/mutker/kweeb/internal/topology"
	"github.com/spf13/cobra"
)

// InputHook is an input.Sampler that must be started before sampling.
type InputHook interface {
	input.Sampler
	Start(ctx context.Context)
}

// Platform supplies the desktop-bound capabilities. Keeping them behind
// constructors lets the command tree build without cgo.
type Platform struct {
	Input    func(log logger.Logger) InputHook
	Displays func() topology.Source
}

// NewRootCmd builds the command tree.
func NewRootCmd(p Platform) *cobra.Command {
	root := &cobra.Command{
		Use:   "kweeb",
		Short: "Count keypresses, clicks, scrolls and physical mouse travel",
		Long: `kweeb samples keyboard and pointer activity, converts pointer movement
into physical distance using each monitor's pixel density, and keeps
all-time totals in a local sqlite database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newRunCmd(p),
		newTotalsCmd(),
		newMonitorsCmd(p),
		newDeviceIDCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute(p Platform) {
	if err := NewRootCmd(p).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.WithFlags(cmd.Flags()))
}
