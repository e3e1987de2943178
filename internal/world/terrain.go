// Package world turns collapsed waves into explorable terrain maps.
package world

import (
	"math/rand"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/shoreline/internal/gamedata"
)

// Terrain is the ground at one map position. The zero value is the void
// beyond a bounded map's edge: unnamed and impassable.
type Terrain struct {
	id  int
	def *gamedata.TerrainDef
}

// NewTerrain resolves id against the catalog. Unknown ids yield the void.
func NewTerrain(catalog *gamedata.Catalog, id int) Terrain {
	def := catalog.GetByID(id)
	if def == nil {
		return Terrain{}
	}
	return Terrain{id: id, def: def}
}

// ID returns the catalog id, or -1 for the void.
func (t Terrain) ID() int {
	if t.def == nil {
		return -1
	}
	return t.id
}

// IsVoid reports whether t lies outside the map.
func (t Terrain) IsVoid() bool {
	return t.def == nil
}

// Passable returns true if the terrain can be walked on.
func (t Terrain) Passable() bool {
	return t.def != nil && t.def.Passable
}

// Name returns the terrain's display name.
func (t Terrain) Name() string {
	if t.def == nil {
		return "void"
	}
	return t.def.Name
}

// Rune returns the terrain's display character.
func (t Terrain) Rune() rune {
	if t.def == nil {
		return ' '
	}
	return t.def.GlyphRune()
}

// Color returns the terrain's foreground color.
func (t Terrain) Color() tcell.Color {
	if t.def == nil {
		return tcell.ColorDefault
	}
	return t.def.TCellColor()
}

// DominantTerrain maps each wave tile to the terrain covering most of its
// expanded block, for views drawn at wave resolution. Ties go to the lower
// terrain id. Pattern variants are sampled from a fixed seed so the result
// is stable.
func DominantTerrain(terrain *gamedata.Terrain) map[int]Terrain {
	rng := rand.New(rand.NewSource(0))
	out := make(map[int]Terrain, len(terrain.Tiles))
	for _, def := range terrain.Tiles {
		block, err := terrain.Expander.Expand(rng, def.ID)
		if err != nil {
			continue
		}

		counts := make(map[int]int)
		for _, row := range block {
			for _, id := range row {
				counts[id]++
			}
		}
		best, bestCount := -1, 0
		for id, n := range counts {
			if n > bestCount || (n == bestCount && id < best) {
				best, bestCount = id, n
			}
		}
		out[def.ID] = NewTerrain(terrain.Catalog, best)
	}
	return out
}
