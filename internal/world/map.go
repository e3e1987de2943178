package world

import (
	"math/rand"
	"strings"
)

// Map is an expanded terrain grid.
type Map struct {
	Width  int
	Height int
	Tiles  [][]Terrain
	Wrap   bool

	// Wave holds the collapsed wave ids the map was expanded from.
	Wave [][]int

	// Seed is the seed of the attempt that produced the map, which differs
	// from the requested seed when earlier attempts hit contradictions.
	Seed     int64
	Attempts int
	Digest   uint64
	RunID    string
}

// Normalize maps a position onto the grid. Wrapping maps fold coordinates
// around both axes; bounded maps return them unchanged.
func (m *Map) Normalize(x, y int) (int, int) {
	if !m.Wrap {
		return x, y
	}
	return mod(x, m.Width), mod(y, m.Height)
}

// InBounds reports whether a position lies on the map. Every position is on
// a wrapping map.
func (m *Map) InBounds(x, y int) bool {
	x, y = m.Normalize(x, y)
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// GetTile returns the terrain at the given position.
func (m *Map) GetTile(x, y int) Terrain {
	if !m.InBounds(x, y) {
		return Terrain{}
	}
	x, y = m.Normalize(x, y)
	return m.Tiles[y][x]
}

// IsPassable returns true if the given position can be walked on.
func (m *Map) IsPassable(x, y int) bool {
	return m.GetTile(x, y).Passable()
}

// PassableCount returns how many positions can be walked on.
func (m *Map) PassableCount() int {
	count := 0
	for y := range m.Tiles {
		for x := range m.Tiles[y] {
			if m.Tiles[y][x].Passable() {
				count++
			}
		}
	}
	return count
}

// RandomSpawn picks a uniformly random passable position. It returns false
// when the map has no passable ground at all.
func (m *Map) RandomSpawn(rng *rand.Rand) (int, int, bool) {
	count := m.PassableCount()
	if count == 0 {
		return -1, -1, false
	}

	pick := rng.Intn(count)
	for y := range m.Tiles {
		for x := range m.Tiles[y] {
			if !m.Tiles[y][x].Passable() {
				continue
			}
			if pick == 0 {
				return x, y, true
			}
			pick--
		}
	}
	return -1, -1, false
}

// Rows renders the map as one string of glyphs per row.
func (m *Map) Rows() []string {
	rows := make([]string, m.Height)
	var b strings.Builder
	for y := range m.Tiles {
		b.Reset()
		for _, t := range m.Tiles[y] {
			b.WriteRune(t.Rune())
		}
		rows[y] = b.String()
	}
	return rows
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
