package gamedata

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// TerrainDef describes one kind of ground a map cell can be.
type TerrainDef struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Glyph    string `json:"glyph" yaml:"glyph"` // a single grapheme
	Color    string `json:"color" yaml:"color"` // hex, e.g. "#2F6FB5"
	Passable bool   `json:"passable" yaml:"passable"`
}

// GlyphRune returns the first rune of the glyph for rendering.
func (t *TerrainDef) GlyphRune() rune {
	for _, r := range t.Glyph {
		return r
	}
	return '?'
}

// TCellColor returns the color as a tcell.Color.
func (t *TerrainDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(t.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// Catalog holds terrain definitions keyed by id.
type Catalog struct {
	byID map[int]*TerrainDef
	all  []TerrainDef
}

// NewCatalog normalizes and validates terrain definitions. Names and glyphs
// are stored in NFC so a glyph typed as a combining sequence still counts as
// one grapheme.
func NewCatalog(defs []TerrainDef) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, errors.New("no terrain defined")
	}

	c := &Catalog{
		byID: make(map[int]*TerrainDef, len(defs)),
		all:  make([]TerrainDef, len(defs)),
	}
	copy(c.all, defs)
	slices.SortFunc(c.all, func(a, b TerrainDef) int { return a.ID - b.ID })

	for i := range c.all {
		def := &c.all[i]
		def.Name = norm.NFC.String(def.Name)
		def.Glyph = norm.NFC.String(def.Glyph)

		if _, dup := c.byID[def.ID]; dup {
			return nil, fmt.Errorf("terrain %d defined twice", def.ID)
		}
		if def.Name == "" {
			return nil, fmt.Errorf("terrain %d has no name", def.ID)
		}
		if n := uniseg.GraphemeClusterCount(def.Glyph); n != 1 {
			return nil, fmt.Errorf("terrain %q glyph %q must be one character, got %d", def.Name, def.Glyph, n)
		}
		if _, err := ParseHexColor(def.Color); err != nil {
			return nil, fmt.Errorf("terrain %q: %w", def.Name, err)
		}
		c.byID[def.ID] = def
	}
	return c, nil
}

// GetByID returns the terrain with the given id, or nil if not found.
func (c *Catalog) GetByID(id int) *TerrainDef {
	return c.byID[id]
}

// All returns all terrain definitions ordered by id.
func (c *Catalog) All() []TerrainDef {
	return c.all
}

// Count returns the number of terrain kinds in the catalog.
func (c *Catalog) Count() int {
	return len(c.all)
}
