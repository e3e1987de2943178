package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/samdwyer/shoreline/internal/world"
)

// GenerateResult is the JSON form of a generated map.
type GenerateResult struct {
	Seed          int64    `json:"seed"`
	RequestedSeed int64    `json:"requested_seed"`
	Attempts      int      `json:"attempts"`
	Digest        string   `json:"digest"`
	RunID         string   `json:"run_id"`
	Wrap          bool     `json:"wrap"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	Wave          [][]int  `json:"wave"`
	Rows          []string `json:"rows"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a map and print it",
		Long: `Generate a map without opening the game screen.

Text output colors each glyph when stdout is a terminal; pipe it or pass
--color=never for plain text. JSON output includes the wave ids and digest.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, rootOpts, color)
		},
	}

	cmd.Flags().StringVar(&color, "color", "auto", "color text output (auto|always|never)")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *RootOptions, color string) error {
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

	m, err := world.Generate(ctx, mapOptions(cfg), terrain)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(out, GenerateResult{
			Seed:          m.Seed,
			RequestedSeed: cfg.Map.Seed,
			Attempts:      m.Attempts,
			Digest:        fmt.Sprintf("%016x", m.Digest),
			RunID:         m.RunID,
			Wrap:          m.Wrap,
			Width:         m.Width,
			Height:        m.Height,
			Wave:          m.Wave,
			Rows:          m.Rows(),
		})
	}

	useColor, err := wantColor(color, out)
	if err != nil {
		return err
	}
	return writeText(out, m, useColor)
}

func wantColor(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("invalid color mode %q: must be auto, always or never", mode)
	}
}

// writeText prints one line per map row, with 24-bit ANSI colors when
// color is set.
func writeText(w io.Writer, m *world.Map, color bool) error {
	var b strings.Builder
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			tile := m.GetTile(x, y)
			if color {
				r, g, bl := tile.Color().RGB()
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm%c", r, g, bl, tile.Rune())
			} else {
				b.WriteRune(tile.Rune())
			}
		}
		if color {
			b.WriteString("\x1b[0m")
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "seed %d, digest %016x\n", m.Seed, m.Digest)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
