package cli

import (
	"github.com/spf13/cobra"
)

func newConfigCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := o.Logger(cmd)
			if err != nil {
				return err
			}
			cfg, err := o.Load(cmd, logger)
			if err != nil {
				return err
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
