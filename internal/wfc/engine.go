package wfc

import (
	"cmp"
	"context"
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/zyedidia/generic/mapset"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/shoreline/internal/logger"
	"github.com/samdwyer/shoreline/internal/telemetry"
)

// Status is the lifecycle state of an Engine.
type Status int

const (
	// StatusRunning means uncollapsed, valid cells remain.
	StatusRunning Status = iota
	// StatusDone means every cell holds exactly one id.
	StatusDone
	// StatusStuck means propagation emptied a cell and generation halted.
	StatusStuck
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	case StatusStuck:
		return "stuck"
	default:
		return "unknown"
	}
}

type coord struct {
	x, y int
}

// neighbor is an adjacent coordinate tagged with the direction of the step
// that reached it. Carrying the direction keeps 1- and 2-wide wrapped grids
// unambiguous.
type neighbor struct {
	x, y int
	dir  Direction
}

// Engine collapses one Wave. It owns the wave and the random stream; it is
// not safe for concurrent use.
//
// Every Next call draws from rng in a fixed order: the entropy tie-break, the
// weighted rule pick, then one neighbor shuffle per coordinate popped off the
// work-list. Identical seeds therefore reproduce identical waves.
type Engine[T cmp.Ordered] struct {
	rng   *rand.Rand
	rules *Ruleset[T]
	wave  *Wave[T]
	wrap  bool

	pending []coord // propagation work-list, used as a stack
	ties    []coord

	status Status
	err    error
	steps  int
}

// NewEngine creates an engine over a fresh height x width wave in which every
// cell may still be any id of rules.
func NewEngine[T cmp.Ordered](rng *rand.Rand, height, width int, rules *Ruleset[T], wrap bool) (*Engine[T], error) {
	switch {
	case rng == nil:
		return nil, &ConfigurationError{Reason: "random source is required"}
	case height <= 0 || width <= 0:
		return nil, &ConfigurationError{Reason: "wave dimensions must be positive"}
	case rules == nil || rules.Len() == 0:
		return nil, &ConfigurationError{Reason: "ruleset is empty"}
	}

	return &Engine[T]{
		rng:     rng,
		rules:   rules,
		wave:    NewWave(height, width, rules.AllRules()),
		wrap:    wrap,
		pending: make([]coord, 0, 64),
		status:  StatusRunning,
	}, nil
}

// Next runs one generation step: collapse the lowest-entropy cell and
// propagate the consequences until nothing changes. It returns true when a
// cell was collapsed and false once no uncollapsed cell remains. A
// contradiction halts the engine; that and every later call return a
// *ContradictionError.
func (e *Engine[T]) Next() (bool, error) {
	switch e.status {
	case StatusDone:
		return false, nil
	case StatusStuck:
		return false, e.err
	}

	target, ok, err := e.minEntropyCell()
	if err != nil {
		return false, e.halt(err)
	}
	if !ok {
		e.status = StatusDone
		return false, nil
	}

	e.steps++
	if err := e.collapseCell(target.x, target.y); err != nil {
		return false, e.halt(err)
	}
	if err := e.propagate(target.x, target.y); err != nil {
		return false, e.halt(err)
	}
	return true, nil
}

// Collapse calls Next until the wave is finished or stuck. Cancelling ctx
// stops between steps and returns ctx.Err().
func (e *Engine[T]) Collapse(ctx context.Context) error {
	tracer := telemetry.Tracer("wfc")
	ctx, span := tracer.Start(ctx, "wfc.collapse")
	defer span.End()

	startTime := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			e.recordSpan(span, startTime)
			return err
		}

		worked, err := e.Next()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "wave contradiction")
			e.recordSpan(span, startTime)
			return err
		}
		if !worked {
			break
		}
	}

	e.recordSpan(span, startTime)
	logger.Debug("wave collapsed",
		"height", e.wave.height,
		"width", e.wave.width,
		"steps", e.steps,
		"elapsed", time.Since(startTime))
	return nil
}

// IsCollapsed reports whether generation has terminated, successfully or
// not. Use Status or Err to tell the two apart.
func (e *Engine[T]) IsCollapsed() bool {
	return e.status != StatusRunning
}

// Status returns the engine's lifecycle state.
func (e *Engine[T]) Status() Status { return e.status }

// Err returns the contradiction that stopped the engine, if any.
func (e *Engine[T]) Err() error { return e.err }

// Steps returns how many cells were collapsed by selection.
func (e *Engine[T]) Steps() int { return e.steps }

// Wave returns a copy of the current grid. It may be called mid-generation.
func (e *Engine[T]) Wave() *Wave[T] {
	return e.wave.Clone()
}

func (e *Engine[T]) halt(err error) error {
	e.status = StatusStuck
	e.err = err
	logger.Warning("wave generation halted", "error", err, "step", e.steps)
	return err
}

func (e *Engine[T]) recordSpan(span trace.Span, startTime time.Time) {
	span.SetAttributes(
		attribute.Int("wave.height", e.wave.height),
		attribute.Int("wave.width", e.wave.width),
		attribute.Bool("wave.wrap", e.wrap),
		attribute.Int("wave.steps", e.steps),
		attribute.String("wave.status", e.status.String()),
		attribute.Int64("wave.generation_ms", time.Since(startTime).Milliseconds()),
	)
}

// minEntropyCell finds the uncollapsed cells with the fewest states and picks
// one of them uniformly. Scanning order must not decide ties or the terrain
// drifts towards the top-left.
func (e *Engine[T]) minEntropyCell() (coord, bool, error) {
	minEntropy := math.MaxInt
	e.ties = e.ties[:0]

	for y := 0; y < e.wave.height; y++ {
		for x := 0; x < e.wave.width; x++ {
			cell := e.wave.At(x, y)
			if cell.IsCollapsed() {
				continue
			}
			if cell.IsInvalid() {
				return coord{}, false, &ContradictionError{X: x, Y: y, Step: e.steps}
			}

			entropy := cell.Entropy()
			switch {
			case entropy < minEntropy:
				minEntropy = entropy
				e.ties = append(e.ties[:0], coord{x, y})
			case entropy == minEntropy:
				e.ties = append(e.ties, coord{x, y})
			}
		}
	}

	if len(e.ties) == 0 {
		return coord{}, false, nil
	}
	return e.ties[e.rng.Intn(len(e.ties))], true, nil
}

// collapseCell reduces the cell to one id chosen by rule weight.
func (e *Engine[T]) collapseCell(x, y int) error {
	cell := e.wave.At(x, y)
	if cell.IsCollapsed() {
		return nil
	}

	id, err := e.rules.PickRule(e.rng, cell.states)
	if err != nil {
		return err
	}
	cell.states = append(cell.states[:0], id)
	return nil
}

// propagate drains the work-list starting at (x, y) until every reachable
// cell agrees with its neighbors. Constraint intersection is monotonic, so
// the pop order and shuffle order change the path but not the fixed point.
func (e *Engine[T]) propagate(x, y int) error {
	e.pending = append(e.pending[:0], coord{x, y})

	for len(e.pending) > 0 {
		current := e.pending[len(e.pending)-1]
		e.pending = e.pending[:len(e.pending)-1]
		parent := e.wave.At(current.x, current.y)

		for _, n := range e.neighbors(current.x, current.y) {
			cell := e.wave.At(n.x, n.y)
			if cell.IsCollapsed() {
				continue
			}

			allowed := e.allowedToward(parent, n.dir)
			if !cell.Constrain(allowed) {
				continue
			}
			if cell.IsInvalid() {
				e.pending = e.pending[:0]
				return &ContradictionError{X: n.x, Y: n.y, Step: e.steps}
			}
			e.pending = append(e.pending, coord{n.x, n.y})
		}
	}
	return nil
}

// allowedToward returns the sorted union, over every state still possible in
// parent, of the ids that state allows in direction dir.
func (e *Engine[T]) allowedToward(parent *Cell[T], dir Direction) []T {
	union := mapset.New[T]()
	for _, state := range parent.states {
		for _, id := range e.rules.rules[state].adjacency[dir] {
			union.Put(id)
		}
	}

	allowed := make([]T, 0, union.Size())
	union.Each(func(id T) {
		allowed = append(allowed, id)
	})
	slices.Sort(allowed)
	return allowed
}

// neighbors returns the orthogonal neighbors of (x, y) in random order.
// Wrapped grids reduce coordinates modulo the dimensions; bounded grids drop
// anything outside.
func (e *Engine[T]) neighbors(x, y int) []neighbor {
	out := make([]neighbor, 0, 4)
	for _, dir := range Directions {
		dx, dy := dir.Offset()
		nx, ny := x+dx, y+dy
		if e.wrap {
			nx = (nx + e.wave.width) % e.wave.width
			ny = (ny + e.wave.height) % e.wave.height
		} else if !e.wave.InBounds(nx, ny) {
			continue
		}
		out = append(out, neighbor{x: nx, y: ny, dir: dir})
	}

	e.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
