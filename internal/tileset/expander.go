// Package tileset expands collapsed wave ids into square blocks of terrain,
// so a small rule alphabet can describe a detailed map.
package tileset

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrUnknownTile = errors.New("tileset: no placement for tile id")
	ErrBadPattern  = errors.New("tileset: malformed pattern")
)

// Block is a square grid of terrain ids, indexed [row][column].
type Block [][]int

// Placement says which pattern a wave id expands to and how many clockwise
// quarter turns to apply. Rotations let one coast pattern serve all four
// sides.
type Placement struct {
	Pattern  string `json:"pattern" yaml:"pattern"`
	Rotation int    `json:"rotation" yaml:"rotation"`
}

// Expander turns wave ids into blocks.
type Expander struct {
	size       int
	patterns   map[string][]Block
	placements map[int]Placement
}

// NewExpander checks that every pattern variant is an n x n block of the
// same n and that every placement names a known pattern.
func NewExpander(patterns map[string][]Block, placements map[int]Placement) (*Expander, error) {
	size := 0
	for name, variants := range patterns {
		if len(variants) == 0 {
			return nil, fmt.Errorf("%w: pattern %q has no variants", ErrBadPattern, name)
		}
		for i, block := range variants {
			n := len(block)
			if size == 0 {
				size = n
			}
			if n == 0 || n != size {
				return nil, fmt.Errorf("%w: pattern %q variant %d is %d rows, want %d", ErrBadPattern, name, i, n, size)
			}
			for _, row := range block {
				if len(row) != n {
					return nil, fmt.Errorf("%w: pattern %q variant %d is not square", ErrBadPattern, name, i)
				}
			}
		}
	}

	for id, p := range placements {
		if _, ok := patterns[p.Pattern]; !ok {
			return nil, fmt.Errorf("%w: tile %d uses unknown pattern %q", ErrBadPattern, id, p.Pattern)
		}
	}

	return &Expander{size: size, patterns: patterns, placements: placements}, nil
}

// Size returns the edge length of every expanded block.
func (x *Expander) Size() int {
	return x.size
}

// Expand picks a random variant of the tile's pattern and rotates it into
// place. The returned block is a fresh copy. One value is drawn from rng per
// call, even for single-variant patterns.
func (x *Expander) Expand(rng *rand.Rand, id int) (Block, error) {
	placement, ok := x.placements[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTile, id)
	}

	variants := x.patterns[placement.Pattern]
	block := variants[rng.Intn(len(variants))]
	return Rotate(block, placement.Rotation), nil
}

// ExpandGrid expands a grid of wave ids into a grid Size() times taller and
// wider. Cells are expanded row by row, left to right.
func (x *Expander) ExpandGrid(rng *rand.Rand, ids [][]int) ([][]int, error) {
	n := x.size
	out := make([][]int, len(ids)*n)
	for y, row := range ids {
		for dy := 0; dy < n; dy++ {
			out[y*n+dy] = make([]int, len(row)*n)
		}
		for xx, id := range row {
			block, err := x.Expand(rng, id)
			if err != nil {
				return nil, fmt.Errorf("expand cell (%d,%d): %w", xx, y, err)
			}
			for dy := 0; dy < n; dy++ {
				copy(out[y*n+dy][xx*n:], block[dy])
			}
		}
	}
	return out, nil
}

// Rotate returns a copy of a square block turned clockwise the given number
// of quarter turns. Negative turns rotate anticlockwise.
func Rotate(b Block, turns int) Block {
	n := len(b)
	out := clone(b)
	for r := 0; r < ((turns%4)+4)%4; r++ {
		next := make(Block, n)
		for i := range next {
			next[i] = make([]int, n)
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				next[j][n-1-i] = out[i][j]
			}
		}
		out = next
	}
	return out
}

func clone(b Block) Block {
	out := make(Block, len(b))
	for i, row := range b {
		out[i] = append([]int(nil), row...)
	}
	return out
}
