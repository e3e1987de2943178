package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samdwyer/shoreline/internal/config"
	"github.com/samdwyer/shoreline/internal/game"
	"github.com/samdwyer/shoreline/internal/ui"
)

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Generate a map and explore it",
		Long: `Generate a coastline and drop an explorer on random dry ground.

Move with the arrow keys or hjkl. Water blocks movement. q or Esc quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, rootOpts, (*game.Game).Run)
		},
	}
}

// NewPreviewCommand creates the preview command.
func NewPreviewCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Watch a wave collapse step by step",
		Long: `Collapse a single wave one step per frame. Open cells show how many
tiles they could still become; collapsed cells show their terrain.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, rootOpts, (*game.Game).Preview)
		},
	}
}

func runInteractive(cmd *cobra.Command, opts *RootOptions, run func(*game.Game, context.Context) error) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	terrain, err := loadTerrain(cfg, "")
	if err != nil {
		return err
	}

	stop, err := startServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer stop()

	screen, err := ui.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}

	g := game.New(screen, terrain, gameConfig(cfg))
	runErr := run(g, ctx)

	// The screen is gone by now; print the seed so the map can be revisited.
	fmt.Fprintf(cmd.OutOrStdout(), "seed %d\n", cfg.Map.Seed)
	return runErr
}

func gameConfig(cfg *config.Config) game.Config {
	return game.Config{
		Map:   mapOptions(cfg),
		Frame: cfg.Preview.Frame(),
	}
}
