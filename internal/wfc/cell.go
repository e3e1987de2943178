package wfc

import (
	"cmp"
	"slices"
)

// Cell is the set of tile ids still possible at one grid position. States
// are kept sorted so intersection is a linear merge.
type Cell[T cmp.Ordered] struct {
	states []T
}

// NewCell creates a cell holding the given states.
func NewCell[T cmp.Ordered](states []T) Cell[T] {
	return Cell[T]{states: normalize(states)}
}

// Constrain intersects the cell with candidates and reports whether the cell
// lost any states.
func (c *Cell[T]) Constrain(candidates []T) bool {
	if !slices.IsSorted(candidates) {
		candidates = normalize(candidates)
	}

	// In-place merge: writes never overtake the read index.
	kept := c.states[:0]
	i, j := 0, 0
	for i < len(c.states) && j < len(candidates) {
		switch {
		case c.states[i] < candidates[j]:
			i++
		case c.states[i] > candidates[j]:
			j++
		default:
			kept = append(kept, c.states[i])
			i++
			j++
		}
	}

	shrank := len(kept) != len(c.states)
	c.states = kept
	return shrank
}

// State returns the tile the cell collapsed to, or the zero value if it has
// not collapsed.
func (c *Cell[T]) State() T {
	if len(c.states) != 1 {
		var zero T
		return zero
	}
	return c.states[0]
}

// States returns a copy of the remaining possible ids.
func (c *Cell[T]) States() []T {
	return slices.Clone(c.states)
}

// Entropy is the number of remaining possible ids.
func (c *Cell[T]) Entropy() int { return len(c.states) }

// IsCollapsed reports whether exactly one id remains.
func (c *Cell[T]) IsCollapsed() bool { return len(c.states) == 1 }

// IsInvalid reports a contradiction: no id remains.
func (c *Cell[T]) IsInvalid() bool { return len(c.states) == 0 }
