package pathfind

import (
	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

type frontierItem struct {
	tile core.TileID
	dist int
}

// lessFrontier orders by distance, then by tile ID so equal-cost paths are
// resolved the same way on every run.
func lessFrontier(a, b frontierItem) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	return a.tile.Less(b.tile)
}

// ShortestPath finds a minimum-hop path from start to end using Dijkstra's
// algorithm with unit edge weights. Only strictly shorter distances replace a
// recorded predecessor. Intermediate and end tiles must satisfy pass. Returns
// nil when end is unreachable; a path from a tile to itself is just that tile.
func ShortestPath(g Graph, start, end core.TileID, pass Predicate) []core.TileID {
	if !g.Contains(start) || !g.Contains(end) {
		return nil
	}
	if start == end {
		return []core.TileID{start}
	}
	if pass == nil {
		pass = Anything
	}

	dist := map[core.TileID]int{start: 0}
	parents := map[core.TileID]core.TileID{start: start}
	done := mapset.New[core.TileID]()

	pq := heap.New[frontierItem](lessFrontier)
	pq.Push(frontierItem{tile: start, dist: 0})

	for pq.Size() > 0 {
		item, _ := pq.Pop()
		if done.Has(item.tile) {
			continue
		}
		done.Put(item.tile)
		if item.tile == end {
			break
		}

		for _, next := range g.Neighbors(item.tile) {
			if done.Has(next) || !pass(next) {
				continue
			}
			nd := item.dist + 1
			if old, seen := dist[next]; seen && nd >= old {
				continue
			}
			dist[next] = nd
			parents[next] = item.tile
			pq.Push(frontierItem{tile: next, dist: nd})
		}
	}

	if !done.Has(end) {
		return nil
	}
	return PathTo(start, end, parents)
}

// Distances returns the hop distance from start to every reachable tile
func Distances(g Graph, start core.TileID, pass Predicate) map[core.TileID]int {
	return WithinHops(g, start, maxHops(g), pass)
}

// maxHops is an upper bound on any hop distance in g
func maxHops(g Graph) int {
	if l, ok := g.(interface{ Len() int }); ok {
		return l.Len()
	}
	return 1 << 30
}
