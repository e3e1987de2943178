package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/shoreline/internal/logger"
	"github.com/samdwyer/shoreline/internal/wfc"
	"github.com/samdwyer/shoreline/internal/world"
)

// Preview collapses a single wave one step per frame and draws it as it
// goes. Once the wave is done or stuck it waits for a key. A contradiction
// is returned after that key so the caller can report it; q or Esc quit at
// any time.
func (g *Game) Preview(ctx context.Context) error {
	defer g.Close()

	opts := g.cfg.Map
	engine, err := wfc.NewEngine(rand.New(rand.NewSource(opts.Seed)), opts.Height, opts.Width, g.terrain.Rules, opts.Wrap)
	if err != nil {
		return err
	}
	glyphs := world.DominantTerrain(g.terrain)

	frame := g.cfg.Frame
	if frame <= 0 {
		frame = time.Millisecond
	}
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	quit := make(chan struct{})
	defer close(quit)
	events := g.screen.Events(quit)

	g.state = StateGenerating
	status := fmt.Sprintf(" seed %d | generating", opts.Seed)
	var stepErr error

	for g.running {
		g.renderer.RenderWave(engine.Wave(), glyphs, status)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return errors.New("terminal closed")
			}
			g.handlePreviewEvent(ev)
		case <-ticker.C:
			if g.state == StateGenerating {
				status, stepErr = g.step(engine)
			}
		}
	}
	return stepErr
}

// step advances the engine once and describes where it stands.
func (g *Game) step(engine *wfc.Engine[int]) (string, error) {
	more, err := engine.Next()
	switch {
	case err != nil:
		g.state = StateFinished
		logger.Warning("preview wave stuck", "steps", engine.Steps(), "error", err)
		return fmt.Sprintf(" %v | press any key", err), err
	case !more:
		g.state = StateFinished
		return fmt.Sprintf(" done in %d steps, digest %016x | press any key",
			engine.Steps(), engine.Wave().Digest()), nil
	default:
		opts := g.cfg.Map
		return fmt.Sprintf(" seed %d | step %d | q quits", opts.Seed, engine.Steps()), nil
	}
}

func (g *Game) handlePreviewEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handlePreviewKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

func (g *Game) handlePreviewKey(key tcell.Key, ch rune) {
	if g.state == StateFinished {
		g.running = false
		return
	}
	switch {
	case key == tcell.KeyEscape, key == tcell.KeyCtrlC:
		g.running = false
	case key == tcell.KeyRune && (ch == 'q' || ch == 'Q'):
		g.running = false
	}
}
