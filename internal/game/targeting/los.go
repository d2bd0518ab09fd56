package targeting

import (
	"math"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
)

// LineOfSight answers whether a ranged attacker on from can see to
type LineOfSight interface {
	HasLineOfSight(from, to core.TileID) bool
}

// Visibility answers whether a player currently sees a tile
type Visibility interface {
	IsVisible(player int, t core.TileID) bool
}

// TerrainSource provides terrain lookups
type TerrainSource interface {
	TerrainOf(t core.TileID) registry.Terrain
}

// HexLineOfSight traces a straight cube line between two tiles. A tile in
// between blocks the line when its terrain blocks sight and it is at least
// as high as the viewer.
type HexLineOfSight struct {
	terrain TerrainSource
}

// NewHexLineOfSight creates a line of sight checker over the given terrain
func NewHexLineOfSight(terrain TerrainSource) *HexLineOfSight {
	return &HexLineOfSight{terrain: terrain}
}

// HasLineOfSight implements LineOfSight
func (l *HexLineOfSight) HasLineOfSight(from, to core.TileID) bool {
	viewer := l.terrain.TerrainOf(from).Elevation
	for _, t := range Line(from, to) {
		if t == from || t == to {
			continue
		}
		terrain := l.terrain.TerrainOf(t)
		if terrain.BlocksSight && terrain.Elevation >= viewer {
			return false
		}
	}
	return true
}

// Line returns the tiles on the straight line from a to b, both included
func Line(a, b core.TileID) []core.TileID {
	n := a.DistanceTo(b)
	if n == 0 {
		return []core.TileID{a}
	}

	// Nudge off the exact edge so ties between two tiles round the same way every time
	const nudge = 1e-6
	aq, ar, as := float64(a.Q)+nudge, float64(a.R)+nudge, float64(a.S())-2*nudge
	bq, br, bs := float64(b.Q)+nudge, float64(b.R)+nudge, float64(b.S())-2*nudge

	line := make([]core.TileID, 0, n+1)
	for i := 0; i <= n; i++ {
		f := float64(i) / float64(n)
		line = append(line, cubeRound(lerp(aq, bq, f), lerp(ar, br, f), lerp(as, bs, f)))
	}
	return line
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func cubeRound(q, r, s float64) core.TileID {
	rq, rr, rs := math.Round(q), math.Round(r), math.Round(s)
	dq, dr, ds := math.Abs(rq-q), math.Abs(rr-r), math.Abs(rs-s)

	switch {
	case dq > dr && dq > ds:
		rq = -rr - rs
	case dr > ds:
		rr = -rq - rs
	}
	return core.TileID{Q: int(rq), R: int(rr)}
}
