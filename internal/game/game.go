package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/shoreline/internal/entity"
	"github.com/samdwyer/shoreline/internal/gamedata"
	"github.com/samdwyer/shoreline/internal/logger"
	"github.com/samdwyer/shoreline/internal/telemetry"
	"github.com/samdwyer/shoreline/internal/ui"
	"github.com/samdwyer/shoreline/internal/wfc"
	"github.com/samdwyer/shoreline/internal/world"
)

const defaultLogLines = 50

// Game holds the entire game state.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	terrain  *gamedata.Terrain
	cfg      Config
	world    *world.Map
	explorer *entity.Explorer
	log      *ui.MessageLog
	state    State
	running  bool
}

// New creates a game drawing to screen. The game owns the screen from here
// on and closes it when Run returns. A nil terrain means the embedded
// coastline.
func New(screen *ui.Screen, terrain *gamedata.Terrain, cfg Config) *Game {
	if terrain == nil {
		terrain = gamedata.MustLoadTerrain()
	}
	if cfg.LogLines <= 0 {
		cfg.LogLines = defaultLogLines
	}
	return &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		terrain:  terrain,
		cfg:      cfg,
		log:      ui.NewMessageLog(cfg.LogLines),
		state:    StateExplore,
		running:  true,
	}
}

// Init generates the map and places the explorer on random passable ground.
func (g *Game) Init(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.init")
	defer span.End()

	m, err := world.Generate(ctx, g.cfg.Map, g.terrain)
	if err != nil {
		span.RecordError(err)
		return err
	}

	// Spawning draws from its own stream so it never shifts the map.
	rng := rand.New(rand.NewSource(m.Seed))
	x, y, ok := m.RandomSpawn(rng)
	if !ok {
		return world.ErrUninhabitable
	}

	g.world = m
	g.explorer = entity.NewExplorer(x, y)
	g.state = StateExplore
	g.log.Add(fmt.Sprintf("landed on %s", m.GetTile(x, y).Name()))

	span.SetAttributes(
		attribute.Int64("map.seed", m.Seed),
		attribute.Int("explorer.start_x", x),
		attribute.Int("explorer.start_y", y),
	)
	logger.Info("explorer spawned", "x", x, "y", y, "seed", m.Seed)
	return nil
}

// Run generates the map and executes the main game loop.
func (g *Game) Run(ctx context.Context) error {
	defer g.Close()

	if err := g.Init(ctx); err != nil {
		return err
	}

	quit := make(chan struct{})
	defer close(quit)
	events := g.screen.Events(quit)

	for g.running {
		g.renderer.RenderMap(g.world, g.explorer, g.log, g.statusLine())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return errors.New("terminal closed")
			}
			g.handleEvent(ev)
		}
	}
	return nil
}

// handleEvent processes a single input event.
func (g *Game) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ev *tcell.EventKey) {
	g.handleKey(ev.Key(), ev.Rune())
}

func (g *Game) handleKey(key tcell.Key, ch rune) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false

	case tcell.KeyUp:
		g.tryMove(wfc.North)
	case tcell.KeyDown:
		g.tryMove(wfc.South)
	case tcell.KeyLeft:
		g.tryMove(wfc.West)
	case tcell.KeyRight:
		g.tryMove(wfc.East)

	case tcell.KeyRune:
		switch ch {
		case 'q', 'Q':
			g.running = false
		case 'k':
			g.tryMove(wfc.North)
		case 'j':
			g.tryMove(wfc.South)
		case 'h':
			g.tryMove(wfc.West)
		case 'l':
			g.tryMove(wfc.East)
		}
	}
}

// tryMove steps the explorer one cell in d. Wrapping maps carry the
// explorer across the edge; water and the void beyond a bounded edge block.
func (g *Game) tryMove(d wfc.Direction) bool {
	dx, dy := d.Offset()
	x, y := g.world.Normalize(g.explorer.X+dx, g.explorer.Y+dy)

	if !g.world.IsPassable(x, y) {
		g.log.Add("location blocked")
		return false
	}

	g.explorer.MoveTo(x, y)
	g.log.Add("moved " + d.String())
	return true
}

func (g *Game) statusLine() string {
	x, y := g.explorer.Position()
	return fmt.Sprintf(" %s (%d,%d) | seed %d | arrows/hjkl move, q quits",
		g.world.GetTile(x, y).Name(), x, y, g.world.Seed)
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
		g.screen = nil
	}
}
