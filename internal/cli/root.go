// Package cli wires the shoreline commands together.
package cli

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/samdwyer/shoreline/internal/config"
	"github.com/samdwyer/shoreline/internal/gamedata"
	"github.com/samdwyer/shoreline/internal/logger"
	"github.com/samdwyer/shoreline/internal/telemetry"
	"github.com/samdwyer/shoreline/internal/world"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "text" | "json"
	Seed       int64
	Height     int
	Width      int
	Wrap       bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the shoreline CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "shoreline",
		Short: "Shoreline - explore generated coastlines",
		Long: `Shoreline grows coastal maps with wave function collapse and lets you
walk them in the terminal.

Settings come from shoreline.yaml, then SHORELINE_* environment variables,
then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true, // main prints the error
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath, "config file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 derives one from the clock)")
	cmd.PersistentFlags().IntVar(&opts.Height, "height", 0, "wave height in cells")
	cmd.PersistentFlags().IntVar(&opts.Width, "width", 0, "wave width in cells")
	cmd.PersistentFlags().BoolVar(&opts.Wrap, "wrap", false, "join opposite map edges")

	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewPreviewCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// loadConfig layers the config file, environment and any flags the user set
// explicitly, then validates and resolves the seed.
func loadConfig(cmd *cobra.Command, opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Map.Seed = opts.Seed
	}
	if flags.Changed("height") {
		cfg.Map.Height = opts.Height
	}
	if flags.Changed("width") {
		cfg.Map.Width = opts.Width
	}
	if flags.Changed("wrap") {
		cfg.Map.Wrap = opts.Wrap
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ResolveSeed(time.Now())
	return cfg, nil
}

// loadTerrain returns the terrain named by path, the config, or the
// embedded coastline, in that order.
func loadTerrain(cfg *config.Config, path string) (*gamedata.Terrain, error) {
	if path == "" && cfg != nil {
		path = cfg.Terrain.File
	}
	if path == "" {
		return gamedata.LoadTerrain()
	}
	return gamedata.LoadTerrainFile(path)
}

func mapOptions(cfg *config.Config) world.Options {
	return world.Options{
		Height:      cfg.Map.Height,
		Width:       cfg.Map.Width,
		Wrap:        cfg.Map.Wrap,
		Seed:        cfg.Map.Seed,
		MaxAttempts: cfg.Map.MaxAttempts,
	}
}

// startServices brings up logging and tracing. The returned func flushes
// and closes both; it is safe to call once setup succeeded.
func startServices(ctx context.Context, cfg *config.Config) (func(), error) {
	if err := logger.Initialize(cfg.Logging); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		// Not fatal; the game still works without traces
		logger.Warning("telemetry setup failed", "error", err)
		shutdownTracing = func(context.Context) error { return nil }
	}

	return func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warning("telemetry shutdown failed", "error", err)
		}
		_ = logger.Close()
	}, nil
}
