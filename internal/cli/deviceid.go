package cli

import (
	"fmt"

	"codeberg.org/mutker/kweeb/internal/identity"
	"github.com/spf13/cobra"
)

func newDeviceIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "device-id",
		Short: "Print this installation's device identity",
		Long: `Print the opaque token that partitions this machine's rows in the
remote mirror. It is created on first use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			id, err := identity.LoadOrCreate(cfg.DeviceIDFile)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}
