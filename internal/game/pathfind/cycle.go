package pathfind

import (
	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// HasCycle reports whether the component containing start contains a cycle.
// During a breadth-first walk a neighbour that has been discovered but not
// yet dequeued (other than the tile we came from) closes a loop.
func HasCycle(g Graph, start core.TileID) bool {
	return FindCycleEdge(g, start) != nil
}

// FindCycleEdge returns the edge that closes the first cycle found from start,
// or nil when the component is a forest.
func FindCycleEdge(g Graph, start core.TileID) *[2]core.TileID {
	if !g.Contains(start) {
		return nil
	}

	visited := mapset.New[core.TileID]()
	dequeued := mapset.New[core.TileID]()
	parent := map[core.TileID]core.TileID{start: start}

	frontier := queue.New[core.TileID]()
	frontier.Enqueue(start)
	visited.Put(start)

	for !frontier.Empty() {
		current := frontier.Dequeue()
		dequeued.Put(current)
		for _, next := range g.Neighbors(current) {
			if next == parent[current] {
				continue
			}
			if visited.Has(next) {
				if !dequeued.Has(next) {
					return &[2]core.TileID{current, next}
				}
				continue
			}
			visited.Put(next)
			parent[next] = current
			frontier.Enqueue(next)
		}
	}
	return nil
}

// HasCycleAll checks every component of a graph whose tiles are listed
func HasCycleAll(g Graph, tiles []core.TileID) bool {
	seen := mapset.New[core.TileID]()
	for _, t := range tiles {
		if seen.Has(t) {
			continue
		}
		if HasCycle(g, t) {
			return true
		}
		for _, reached := range Explore(g, t, nil, 0, nil).Order {
			seen.Put(reached)
		}
	}
	return false
}
