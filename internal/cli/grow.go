package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"chosenoffset.com/glowtree/internal/simulation"
	"chosenoffset.com/glowtree/internal/ui/report"
)

func newGrowCmd(o *Options) *cobra.Command {
	var maxSteps int

	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree without a window and print each generation",
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			rec := report.NewRecorder(termenv.NewOutput(out).Profile)
			g := simulation.NewGrower(cfg.Growth, cfg.Seed,
				simulation.WithLogger(logger),
				simulation.WithObserver(rec),
			)
			if _, err := g.Run(ctx, maxSteps); err != nil {
				logger.Warn("growth interrupted", "error", err)
			}
			return rec.Write(out, g.State().Segments(), g.StopReason())
		},
	}
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Stop after this many generations (0 = until growth stops)")
	return cmd
}
