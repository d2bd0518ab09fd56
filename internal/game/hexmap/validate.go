package hexmap

import (
	"errors"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// Validate checks the structural invariants of the graph: every edge is
// symmetric, no tile has more than six neighbours, and no edge points at a
// tile that is not part of the map. All problems found are joined together.
func (g *Graph) Validate() error {
	var errs []error
	for _, t := range g.Tiles() {
		neighbors := g.adj[t]
		if len(neighbors) > maxNeighbors {
			errs = append(errs, core.WrapTopologyError(t, t, core.ErrTooManyNeighbors))
		}
		for _, n := range neighbors {
			switch {
			case n == t:
				errs = append(errs, core.WrapTopologyError(t, n, core.ErrSelfLoop))
			case !g.Contains(n):
				errs = append(errs, core.WrapTopologyError(t, n, core.ErrOrphanedTile))
			case !g.hasEdge(n, t):
				errs = append(errs, core.WrapTopologyError(t, n, core.ErrAsymmetricEdge))
			}
		}
	}
	return errors.Join(errs...)
}
