package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/hexmap"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
)

// World bundles a frozen map with its registry
type World struct {
	Graph    *hexmap.Graph
	Registry *registry.Registry
}

// NewUniformWorld creates a hexagon map where every tile has the same terrain
func NewUniformWorld(radius int, terrain registry.Terrain) *World {
	g := hexmap.NewHexagon(radius)
	reg := registry.New()
	for _, t := range g.Tiles() {
		reg.SetTerrain(t, terrain)
	}
	return &World{Graph: g, Registry: reg}
}

// NewWorldFromRows builds a map from rows of terrain letters. Row r, column q
// becomes tile (q, r) in axial coordinates, so the layout is a rhombus.
// Letters: g grassland, p plains, f forest, h hills, m mountain, c coast, o ocean.
// Any other rune leaves a hole in the map.
func NewWorldFromRows(t *testing.T, rows ...string) *World {
	t.Helper()
	g := hexmap.NewGraph()
	reg := registry.New()
	for r, row := range rows {
		for q, ch := range row {
			terrain, ok := terrainLetters[ch]
			if !ok {
				continue
			}
			tile := core.TileID{Q: q, R: r}
			require.NoError(t, g.AddTile(tile))
			reg.SetTerrain(tile, terrain)
		}
	}
	for _, tile := range g.Tiles() {
		for _, n := range tile.Neighbors() {
			if g.Contains(n) {
				require.NoError(t, g.AddEdge(tile, n))
			}
		}
	}
	g.Freeze()
	require.NoError(t, g.Validate())
	return &World{Graph: g, Registry: reg}
}

var terrainLetters = map[rune]registry.Terrain{
	'g': registry.Grassland,
	'p': registry.Plains,
	'f': registry.Forest,
	'h': registry.Hills,
	'm': registry.Mountain,
	'c': registry.Coast,
	'o': registry.Ocean,
}

// Place creates a unit from a template and puts it on the map
func (w *World) Place(t *testing.T, tpl units.Template, owner int, tile core.TileID) *units.Combatant {
	t.Helper()
	u := units.New(tpl, owner, tile)
	require.NoError(t, w.Registry.Place(u))
	return u
}

// PlaceCity creates a city and puts it on the map
func (w *World) PlaceCity(t *testing.T, name string, owner int, tile core.TileID, strength float64) *units.Combatant {
	t.Helper()
	c := units.NewCity(name, owner, tile, strength, 0)
	require.NoError(t, w.Registry.Place(c))
	return c
}
