package mapgen

import (
	"fmt"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// StartPosition is where a player's capital goes
type StartPosition struct {
	PlayerID int
	Tile     core.TileID
}

// StartPositions picks one capital tile per player on the largest landmass.
// Candidates are drawn at random and kept only when they are at least
// minSpacing hexes from every earlier pick. When random draws run out the
// first spaced tile in tile order is used, and an error is returned if no
// spaced tile exists at all.
func (g *Generator) StartPositions(m *Map, players, minSpacing int) ([]StartPosition, error) {
	if players < 1 {
		return nil, fmt.Errorf("need at least one player, got %d", players)
	}
	if len(m.Landmasses) == 0 {
		return nil, fmt.Errorf("map has no land for %d players", players)
	}

	var candidates []core.TileID
	for _, t := range m.Landmasses[0] {
		if m.Registry.TerrainOf(t).IsLand() {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) < players {
		return nil, fmt.Errorf("largest landmass has %d usable tiles for %d players", len(candidates), players)
	}

	positions := make([]StartPosition, 0, players)
	for pid := 0; pid < players; pid++ {
		tile, ok := g.findStartTile(candidates, positions, minSpacing)
		if !ok {
			return nil, fmt.Errorf("no tile at least %d hexes from other capitals for player %d", minSpacing, pid)
		}
		positions = append(positions, StartPosition{PlayerID: pid, Tile: tile})
	}

	g.logger.Debug().Int("players", players).Int("spacing", minSpacing).Msg("Placed start positions")
	return positions, nil
}

func (g *Generator) findStartTile(candidates []core.TileID, existing []StartPosition, minSpacing int) (core.TileID, bool) {
	spaced := func(t core.TileID) bool {
		for _, other := range existing {
			if other.Tile == t || t.DistanceTo(other.Tile) < minSpacing {
				return false
			}
		}
		return true
	}

	for attempts := 0; attempts < len(candidates); attempts++ {
		t := candidates[g.rng.Intn(len(candidates))]
		if spaced(t) {
			return t, true
		}
	}

	// Fallback scan so a valid tile is never missed by bad luck
	for _, t := range candidates {
		if spaced(t) {
			return t, true
		}
	}
	return core.TileID{}, false
}
