package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"chosenoffset.com/glowtree/internal/app"
	"chosenoffset.com/glowtree/internal/cli"
	"chosenoffset.com/glowtree/internal/render"
	ebitenrender "chosenoffset.com/glowtree/internal/render/ebiten"
	"chosenoffset.com/glowtree/internal/telemetry"
)

func newRunCmd(o *cli.Options) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window and watch the tree grow",
		Long: `Opens the viewer. Drag or use the arrow keys to orbit, scroll or +/- to
zoom, R to regrow with a new seed, B to toggle bloom, H to toggle the HUD
and Escape to quit.`,
		Args: cobra.NoArgs,
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

			metrics := telemetry.NewMetrics()
			if metricsAddr != "" {
				go func() {
					if err := metrics.Serve(ctx, metricsAddr, logger); err != nil {
						logger.Error("metrics server stopped", "error", err)
					}
				}()
			}

			// Initialize the renderer backend (ebiten)
			renderer := ebitenrender.NewRenderer()
			inputMgr := ebitenrender.NewInputManager()
			engine := ebitenrender.NewEngine()

			viewer, err := app.New(cfg, renderer, inputMgr,
				app.WithLogger(logger),
				app.WithObserver(metrics),
				app.WithFPS(engine.ActualFPS),
			)
			if err != nil {
				return err
			}
			defer viewer.Dispose()

			// Set up the window
			engine.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
			engine.SetWindowTitle(cfg.Window.Title)
			engine.SetWindowResizable(cfg.Window.Resizable)

			logger.Info("starting viewer", "seed", cfg.Seed)
			if err := engine.RunGame(&interruptible{Viewer: viewer, ctx: ctx}); err != nil {
				return fmt.Errorf("viewer: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

// interruptible ends the frame loop when ctx is cancelled, so Ctrl-C in the
// terminal closes the window.
type interruptible struct {
	*app.Viewer
	ctx context.Context
}

func (g *interruptible) Update() error {
	if g.ctx.Err() != nil {
		return render.ErrTerminated
	}
	return g.Viewer.Update()
}
