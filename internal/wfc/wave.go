package wfc

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Wave is the row-major height x width grid of cells threaded through
// generation.
type Wave[T cmp.Ordered] struct {
	height, width int
	cells         []Cell[T]
}

// NewWave creates a wave whose every cell holds states.
func NewWave[T cmp.Ordered](height, width int, states []T) *Wave[T] {
	initial := normalize(states)
	cells := make([]Cell[T], height*width)
	for i := range cells {
		cells[i] = Cell[T]{states: slices.Clone(initial)}
	}
	return &Wave[T]{height: height, width: width, cells: cells}
}

// Height returns the number of rows.
func (w *Wave[T]) Height() int { return w.height }

// Width returns the number of columns.
func (w *Wave[T]) Width() int { return w.width }

// InBounds reports whether (x, y) lies inside the grid.
func (w *Wave[T]) InBounds(x, y int) bool {
	return x >= 0 && x < w.width && y >= 0 && y < w.height
}

// At returns the cell at column x, row y. It panics when out of bounds.
func (w *Wave[T]) At(x, y int) *Cell[T] {
	if !w.InBounds(x, y) {
		panic(fmt.Sprintf("wfc: cell (%d,%d) outside %dx%d wave", x, y, w.width, w.height))
	}
	return &w.cells[y*w.width+x]
}

// Clone returns a deep copy of the wave.
func (w *Wave[T]) Clone() *Wave[T] {
	cells := make([]Cell[T], len(w.cells))
	for i := range w.cells {
		cells[i] = Cell[T]{states: slices.Clone(w.cells[i].states)}
	}
	return &Wave[T]{height: w.height, width: w.width, cells: cells}
}

// CollapsedCount returns how many cells hold exactly one id.
func (w *Wave[T]) CollapsedCount() int {
	n := 0
	for i := range w.cells {
		if w.cells[i].IsCollapsed() {
			n++
		}
	}
	return n
}

// Tiles returns the chosen id of every cell as rows of columns. It fails with
// ErrIncomplete if any cell is uncollapsed or invalid.
func (w *Wave[T]) Tiles() ([][]T, error) {
	rows := make([][]T, w.height)
	for y := range rows {
		rows[y] = make([]T, w.width)
		for x := range rows[y] {
			cell := w.At(x, y)
			if !cell.IsCollapsed() {
				return nil, fmt.Errorf("%w: cell (%d,%d) has %d states", ErrIncomplete, x, y, cell.Entropy())
			}
			rows[y][x] = cell.State()
		}
	}
	return rows, nil
}

// Digest returns a 64-bit fingerprint of every cell's state set. Equal waves
// have equal digests.
func (w *Wave[T]) Digest() uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "%dx%d|", w.width, w.height)
	for i := range w.cells {
		for _, s := range w.cells[i].states {
			fmt.Fprintf(h, "%v,", s)
		}
		h.WriteString(";")
	}
	return h.Sum64()
}
