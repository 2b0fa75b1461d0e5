// Package cli holds the glowtree command tree apart from the windowed
// viewer, so it can be exercised without a display.
package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"chosenoffset.com/glowtree/internal/logging"
	"chosenoffset.com/glowtree/internal/simulation"
)

// largeTree is the estimated segment count above which a warning is logged.
const largeTree = 1_000_000

// Options are the flags shared by every command.
type Options struct {
	ConfigPath string
	Seed       int64
	Overrides  []string
	LogLevel   string

	// Now seeds trees when neither the config nor --seed picks a seed.
	Now func() time.Time
}

// BindFlags registers the shared flags on cmd as persistent flags.
func (o *Options) BindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.ConfigPath, "config", "c", "", "Config file (.json, .yaml or .toml)")
	flags.Int64Var(&o.Seed, "seed", 0, "Random seed; 0 picks one from the clock")
	flags.StringArrayVar(&o.Overrides, "set", nil, "Override a config value, e.g. --set growth.max_depth=10")
	flags.StringVar(&o.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
}

// Logger builds the logger for cmd, writing to its stderr.
func (o *Options) Logger(cmd *cobra.Command) (*slog.Logger, error) {
	level, err := logging.ParseLevel(o.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), level), nil
}

// Load reads the config file, applies --set and --seed and validates the
// result. A zero seed is replaced with one derived from the clock.
func (o *Options) Load(cmd *cobra.Command, logger *slog.Logger) (*simulation.Config, error) {
	cfg, err := simulation.LoadConfig(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(o.Overrides); err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = o.Seed
	}
	if cfg.Seed == 0 {
		now := time.Now
		if o.Now != nil {
			now = o.Now
		}
		cfg.Seed = now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if n := cfg.Growth.EstimatedSegments(); n > largeTree {
		logger.Warn("tree may grow very large before reaching its radius",
			"estimated_segments", n,
			"max_depth", cfg.Growth.MaxDepth,
			"child_count", cfg.Growth.ChildCount,
		)
	}
	return cfg, nil
}
