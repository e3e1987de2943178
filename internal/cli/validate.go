package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samdwyer/shoreline/internal/config"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	Source    string `json:"source"`
	Tiles     int    `json:"tiles,omitempty"`
	Terrain   int    `json:"terrain,omitempty"`
	BlockSize int    `json:"block_size,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [terrain-file]",
		Short: "Check a terrain set without generating",
		Long: `Load a terrain set and check it: every adjacency rule must have its
reverse, weights must be positive, glyphs must be single characters and every
pattern must be a square block of known terrain.

With no argument the configured terrain file, or the built-in coastline, is
checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(cmd, rootOpts, path)
		},
	}
}

func runValidate(cmd *cobra.Command, opts *RootOptions, path string) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	result := ValidationResult{Source: path}
	if result.Source == "" {
		result.Source = cfg.Terrain.File
	}
	if result.Source == "" {
		result.Source = "built-in"
	}

	terrain, loadErr := loadTerrain(cfg, path)
	if loadErr == nil {
		result.Valid = true
		result.Tiles = terrain.Rules.Len()
		result.Terrain = terrain.Catalog.Count()
		result.BlockSize = terrain.Expander.Size()
	} else {
		result.Error = loadErr.Error()
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		if err := writeJSON(out, result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintf(out, "%s: ok, %d tiles, %d terrain kinds, %dx%d blocks\n",
			result.Source, result.Tiles, result.Terrain, result.BlockSize, result.BlockSize)
	}

	if loadErr != nil {
		return fmt.Errorf("%s: invalid terrain: %w", result.Source, loadErr)
	}
	return nil
}
