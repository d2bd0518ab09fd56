// Package pathfind provides the graph searches shared by movement, targeting
// and map generation: breadth-first exploration, shortest paths, cycle
// detection and minimum spanning trees.
package pathfind

import (
	"github.com/zyedidia/generic/queue"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// Graph is the read-only view of the map the searches need
type Graph interface {
	Neighbors(t core.TileID) []core.TileID
	Contains(t core.TileID) bool
}

// Predicate decides whether a tile may be entered
type Predicate func(t core.TileID) bool

// Anything accepts every tile
func Anything(core.TileID) bool { return true }

// ExploreResult is the outcome of a breadth-first exploration
type ExploreResult struct {
	// Parents maps every reached tile to its predecessor. The start tile maps to itself.
	Parents map[core.TileID]core.TileID
	// Order lists reached tiles in the order they were discovered
	Order []core.TileID
}

// Reached reports whether t was discovered
func (r ExploreResult) Reached(t core.TileID) bool {
	_, ok := r.Parents[t]
	return ok
}

// Size returns the number of tiles discovered
func (r ExploreResult) Size() int {
	return len(r.Order)
}

// Explore runs a breadth-first search from start over tiles accepted by pass.
// Before each dequeued tile is expanded the search stops if maxSize tiles have
// already been reached (maxSize <= 0 means unbounded) or if that tile is dest.
// The start tile is always reached, even when pass rejects it.
func Explore(g Graph, start core.TileID, pass Predicate, maxSize int, dest *core.TileID) ExploreResult {
	result := ExploreResult{Parents: make(map[core.TileID]core.TileID)}
	if !g.Contains(start) {
		return result
	}
	if pass == nil {
		pass = Anything
	}

	result.Parents[start] = start
	result.Order = append(result.Order, start)

	frontier := queue.New[core.TileID]()
	frontier.Enqueue(start)

	for !frontier.Empty() {
		if maxSize > 0 && len(result.Order) >= maxSize {
			break
		}
		current := frontier.Dequeue()
		if dest != nil && current == *dest {
			break
		}
		for _, next := range g.Neighbors(current) {
			if result.Reached(next) || !pass(next) {
				continue
			}
			result.Parents[next] = current
			result.Order = append(result.Order, next)
			frontier.Enqueue(next)
		}
	}

	return result
}

// PathTo walks the parent map back from dest and returns the path from start
// to dest inclusive. It returns nil when dest was never reached. If the parent
// chain breaks before reaching start, the partial path ending at dest is returned.
func PathTo(start, dest core.TileID, parents map[core.TileID]core.TileID) []core.TileID {
	if _, ok := parents[dest]; !ok {
		return nil
	}

	path := []core.TileID{dest}
	current := dest
	for current != start {
		parent, ok := parents[current]
		if !ok || parent == current || len(path) > len(parents) {
			break
		}
		path = append(path, parent)
		current = parent
	}

	reverse(path)
	return path
}

// WithinHops returns every tile at most hops edges from start, with its hop
// distance. Tiles rejected by pass are neither returned nor expanded, except
// the start tile.
func WithinHops(g Graph, start core.TileID, hops int, pass Predicate) map[core.TileID]int {
	dist := make(map[core.TileID]int)
	if !g.Contains(start) || hops < 0 {
		return dist
	}
	if pass == nil {
		pass = Anything
	}

	dist[start] = 0
	frontier := queue.New[core.TileID]()
	frontier.Enqueue(start)
	for !frontier.Empty() {
		current := frontier.Dequeue()
		d := dist[current]
		if d == hops {
			continue
		}
		for _, next := range g.Neighbors(current) {
			if _, seen := dist[next]; seen || !pass(next) {
				continue
			}
			dist[next] = d + 1
			frontier.Enqueue(next)
		}
	}
	return dist
}

func reverse(path []core.TileID) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}
