package gamedata

import (
	"fmt"

	"github.com/samdwyer/shoreline/internal/tileset"
	"github.com/samdwyer/shoreline/internal/wfc"
)

// TileDef is one wave tile: its pick weight, which tiles may sit next to it
// on each side, and the pattern it expands to once collapsed.
type TileDef struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Weight   int    `json:"weight" yaml:"weight"`
	North    []int  `json:"north" yaml:"north"`
	East     []int  `json:"east" yaml:"east"`
	South    []int  `json:"south" yaml:"south"`
	West     []int  `json:"west" yaml:"west"`
	Pattern  string `json:"pattern" yaml:"pattern"`
	Rotation int    `json:"rotation" yaml:"rotation"`
}

// Adjacency returns the neighbor lists indexed by wfc.Direction.
func (d *TileDef) Adjacency() [4][]int {
	var adj [4][]int
	adj[wfc.North] = d.North
	adj[wfc.East] = d.East
	adj[wfc.South] = d.South
	adj[wfc.West] = d.West
	return adj
}

// TerrainFile represents the structure of terrain.json.
type TerrainFile struct {
	Terrain  []TerrainDef               `json:"terrain" yaml:"terrain"`
	Patterns map[string][]tileset.Block `json:"patterns" yaml:"patterns"`
	Tiles    []TileDef                  `json:"tiles" yaml:"tiles"`
}

// Terrain is a loaded and cross-checked terrain set, ready to drive
// generation.
type Terrain struct {
	Rules    *wfc.Ruleset[int]
	Catalog  *Catalog
	Expander *tileset.Expander
	Tiles    []TileDef
}

// BuildTerrain turns a decoded terrain file into a Terrain. The ruleset must
// be reciprocal and every pattern cell must name a catalog entry.
func BuildTerrain(file TerrainFile) (*Terrain, error) {
	catalog, err := NewCatalog(file.Terrain)
	if err != nil {
		return nil, err
	}

	rules := wfc.NewRuleset[int]()
	placements := make(map[int]tileset.Placement, len(file.Tiles))
	for i := range file.Tiles {
		def := &file.Tiles[i]
		if rules.Has(def.ID) {
			return nil, fmt.Errorf("tile %d defined twice", def.ID)
		}
		if err := rules.AddRule(def.ID, def.Weight, def.Adjacency()); err != nil {
			return nil, fmt.Errorf("tile %d (%s): %w", def.ID, def.Name, err)
		}
		placements[def.ID] = tileset.Placement{Pattern: def.Pattern, Rotation: def.Rotation}
	}
	if rules.Len() == 0 {
		return nil, fmt.Errorf("no tiles defined")
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	for name, variants := range file.Patterns {
		for _, block := range variants {
			for _, row := range block {
				for _, id := range row {
					if catalog.GetByID(id) == nil {
						return nil, fmt.Errorf("pattern %q uses unknown terrain %d", name, id)
					}
				}
			}
		}
	}

	expander, err := tileset.NewExpander(file.Patterns, placements)
	if err != nil {
		return nil, err
	}

	return &Terrain{
		Rules:    rules,
		Catalog:  catalog,
		Expander: expander,
		Tiles:    file.Tiles,
	}, nil
}

// LoadTerrain loads the embedded coastline terrain set.
func LoadTerrain() (*Terrain, error) {
	file, err := Load[TerrainFile]("terrain.json")
	if err != nil {
		return nil, err
	}
	return BuildTerrain(file)
}

// MustLoadTerrain loads the embedded terrain set, panicking on error.
func MustLoadTerrain() *Terrain {
	terrain, err := LoadTerrain()
	if err != nil {
		panic(err)
	}
	return terrain
}

// LoadTerrainFile loads a terrain set from a JSON or YAML file on disk.
func LoadTerrainFile(path string) (*Terrain, error) {
	file, err := LoadFile[TerrainFile](path)
	if err != nil {
		return nil, err
	}
	terrain, err := BuildTerrain(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return terrain, nil
}
