package world

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/shoreline/internal/gamedata"
	"github.com/samdwyer/shoreline/internal/logger"
	"github.com/samdwyer/shoreline/internal/telemetry"
	"github.com/samdwyer/shoreline/internal/wfc"
)

const (
	// Default wave dimensions, in wave cells.
	DefaultWidth  = 30
	DefaultHeight = 20
)

// ErrUninhabitable reports a map with no passable ground. Like a
// contradiction it is retried with the next seed.
var ErrUninhabitable = errors.New("world: map has no passable ground")

// Options control one generation run.
type Options struct {
	Height int
	Width  int
	Wrap   bool
	Seed   int64

	// MaxAttempts is how many fresh waves to try. Attempt n uses Seed+n, so
	// a run is reproducible from its requested seed. Zero means one attempt.
	MaxAttempts uint
}

// Generate collapses a wave with the terrain rules and expands it into a map.
// Contradictions and maps without passable ground are retried with the next
// seed; configuration errors and cancellation are returned immediately.
func Generate(ctx context.Context, opts Options, terrain *gamedata.Terrain) (*Map, error) {
	if terrain == nil {
		return nil, errors.New("world: terrain is required")
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 1
	}

	runID := uuid.NewString()
	tracer := telemetry.Tracer("world")
	ctx, span := tracer.Start(ctx, "world.generate")
	defer span.End()

	startTime := time.Now()
	attempt := 0

	m, err := backoff.Retry(ctx, func() (*Map, error) {
		seed := opts.Seed + int64(attempt)
		attempt++

		m, err := generateOnce(ctx, seed, opts, terrain)
		if err == nil {
			return m, nil
		}
		if errors.Is(err, wfc.ErrContradiction) || errors.Is(err, ErrUninhabitable) {
			logger.Info("unusable wave, retrying",
				"run_id", runID,
				"attempt", attempt,
				"seed", seed,
				"error", err)
			return nil, err
		}
		return nil, backoff.Permanent(err)
	},
		backoff.WithBackOff(&backoff.ZeroBackOff{}),
		backoff.WithMaxTries(maxAttempts),
	)

	span.SetAttributes(
		attribute.String("map.run_id", runID),
		attribute.Int("map.wave_height", opts.Height),
		attribute.Int("map.wave_width", opts.Width),
		attribute.Bool("map.wrap", opts.Wrap),
		attribute.Int64("map.requested_seed", opts.Seed),
		attribute.Int("map.attempts", attempt),
		attribute.Int64("map.generation_ms", time.Since(startTime).Milliseconds()),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		logger.Error("map generation failed",
			"run_id", runID,
			"attempts", attempt,
			"error", err)
		return nil, fmt.Errorf("generate %dx%d map after %d attempt(s): %w", opts.Width, opts.Height, attempt, err)
	}

	m.Attempts = attempt
	m.RunID = runID
	span.SetAttributes(attribute.Int64("map.seed", m.Seed))
	logger.Info("map generated",
		"run_id", runID,
		"seed", m.Seed,
		"attempts", attempt,
		"width", m.Width,
		"height", m.Height,
		"digest", fmt.Sprintf("%016x", m.Digest))
	return m, nil
}

// generateOnce runs a single wave to completion. The expansion draws from
// the same random stream after the collapse, so the seed fixes the whole map.
func generateOnce(ctx context.Context, seed int64, opts Options, terrain *gamedata.Terrain) (*Map, error) {
	rng := rand.New(rand.NewSource(seed))

	engine, err := wfc.NewEngine(rng, opts.Height, opts.Width, terrain.Rules, opts.Wrap)
	if err != nil {
		return nil, err
	}
	if err := engine.Collapse(ctx); err != nil {
		return nil, err
	}

	wave := engine.Wave()
	ids, err := wave.Tiles()
	if err != nil {
		return nil, err
	}

	grid, err := terrain.Expander.ExpandGrid(rng, ids)
	if err != nil {
		return nil, err
	}

	m := &Map{
		Height: len(grid),
		Width:  len(grid[0]),
		Tiles:  make([][]Terrain, len(grid)),
		Wrap:   opts.Wrap,
		Wave:   ids,
		Seed:   seed,
		Digest: wave.Digest(),
	}
	for y, row := range grid {
		m.Tiles[y] = make([]Terrain, len(row))
		for x, id := range row {
			m.Tiles[y][x] = NewTerrain(terrain.Catalog, id)
		}
	}
	if m.PassableCount() == 0 {
		return nil, ErrUninhabitable
	}
	return m, nil
}
