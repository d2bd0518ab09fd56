// Package hexmap holds the adjacency structure of the playable map.
//
// A Graph is built once (AddTile/AddEdge/RemoveTile/RemoveEdge) and then
// frozen. Mutating methods are not safe for concurrent use; once Freeze has
// been called the graph is read-only and may be shared freely between
// goroutines.
package hexmap

import (
	"sort"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

const maxNeighbors = 6

// Graph is an undirected adjacency structure keyed by tile ID
type Graph struct {
	adj    map[core.TileID][]core.TileID
	frozen bool
}

// NewGraph creates an empty, unfrozen graph
func NewGraph() *Graph {
	return &Graph{adj: make(map[core.TileID][]core.TileID)}
}

// NewHexagon creates a frozen hexagon-shaped map of the given radius with
// every geometric neighbour connected.
func NewHexagon(radius int) *Graph {
	g := NewGraph()
	center := core.TileID{}
	for q := -radius; q <= radius; q++ {
		for r := -radius; r <= radius; r++ {
			t := core.TileID{Q: q, R: r}
			if t.DistanceTo(center) <= radius {
				g.adj[t] = nil
			}
		}
	}
	g.connectGeometric()
	g.frozen = true
	return g
}

// NewRectangle creates a frozen width x height map using an odd-q offset
// layout (flat-top columns), converted to axial IDs.
func NewRectangle(width, height int) *Graph {
	g := NewGraph()
	for col := 0; col < width; col++ {
		for row := 0; row < height; row++ {
			g.adj[OffsetToAxial(col, row)] = nil
		}
	}
	g.connectGeometric()
	g.frozen = true
	return g
}

// OffsetToAxial converts odd-q offset coordinates to an axial tile ID
func OffsetToAxial(col, row int) core.TileID {
	return core.TileID{Q: col, R: row - (col-(col&1))/2}
}

func (g *Graph) connectGeometric() {
	for t := range g.adj {
		neighbors := make([]core.TileID, 0, maxNeighbors)
		for _, n := range t.Neighbors() {
			if _, ok := g.adj[n]; ok {
				neighbors = append(neighbors, n)
			}
		}
		g.adj[t] = neighbors
	}
}

// Freeze makes the graph read-only
func (g *Graph) Freeze() {
	g.frozen = true
}

// Frozen reports whether the graph has been frozen
func (g *Graph) Frozen() bool {
	return g.frozen
}

// AddTile adds an isolated tile. Adding an existing tile is a no-op.
func (g *Graph) AddTile(t core.TileID) error {
	if g.frozen {
		return ErrFrozen(t)
	}
	if _, ok := g.adj[t]; !ok {
		g.adj[t] = nil
	}
	return nil
}

// RemoveTile removes a tile and every edge touching it
func (g *Graph) RemoveTile(t core.TileID) error {
	if g.frozen {
		return ErrFrozen(t)
	}
	for _, n := range g.adj[t] {
		g.adj[n] = without(g.adj[n], t)
	}
	delete(g.adj, t)
	return nil
}

// AddEdge connects two existing tiles in both directions
func (g *Graph) AddEdge(a, b core.TileID) error {
	if g.frozen {
		return ErrFrozen(a)
	}
	if a == b {
		return core.WrapTopologyError(a, b, core.ErrSelfLoop)
	}
	if !g.Contains(a) {
		return core.WrapTopologyError(a, b, core.ErrInvalidTile)
	}
	if !g.Contains(b) {
		return core.WrapTopologyError(b, a, core.ErrInvalidTile)
	}
	if g.hasEdge(a, b) {
		return nil
	}
	if len(g.adj[a]) >= maxNeighbors {
		return core.WrapTopologyError(a, b, core.ErrTooManyNeighbors)
	}
	if len(g.adj[b]) >= maxNeighbors {
		return core.WrapTopologyError(b, a, core.ErrTooManyNeighbors)
	}
	g.adj[a] = insertOrdered(g.adj[a], a, b)
	g.adj[b] = insertOrdered(g.adj[b], b, a)
	return nil
}

// RemoveEdge disconnects two tiles. Removing a missing edge is a no-op.
func (g *Graph) RemoveEdge(a, b core.TileID) error {
	if g.frozen {
		return ErrFrozen(a)
	}
	g.adj[a] = without(g.adj[a], b)
	g.adj[b] = without(g.adj[b], a)
	return nil
}

// Neighbors returns the tiles connected to t. Geometric neighbours come first,
// clockwise from the top edge; any custom links follow in insertion order.
// The returned slice must not be modified. An absent tile has no neighbours.
func (g *Graph) Neighbors(t core.TileID) []core.TileID {
	return g.adj[t]
}

// Contains reports whether t is part of the map
func (g *Graph) Contains(t core.TileID) bool {
	_, ok := g.adj[t]
	return ok
}

// Adjacent reports whether an edge connects a and b
func (g *Graph) Adjacent(a, b core.TileID) bool {
	return g.hasEdge(a, b)
}

// Len returns the number of tiles
func (g *Graph) Len() int {
	return len(g.adj)
}

// Tiles returns every tile in deterministic order
func (g *Graph) Tiles() []core.TileID {
	tiles := make([]core.TileID, 0, len(g.adj))
	for t := range g.adj {
		tiles = append(tiles, t)
	}
	core.SortTiles(tiles)
	return tiles
}

// Edge is an undirected connection with A sorted before B
type Edge struct {
	A, B core.TileID
}

// Edges returns each undirected edge once, in deterministic order
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, t := range g.Tiles() {
		for _, n := range g.adj[t] {
			if t.Less(n) {
				edges = append(edges, Edge{A: t, B: n})
			}
		}
	}
	return edges
}

func (g *Graph) hasEdge(a, b core.TileID) bool {
	for _, n := range g.adj[a] {
		if n == b {
			return true
		}
	}
	return false
}

// ErrFrozen builds the error returned by mutations after Freeze
func ErrFrozen(t core.TileID) error {
	return core.WrapTopologyError(t, t, core.ErrGraphFrozen)
}

// neighborRank orders geometric neighbours clockwise; custom links sort last
func neighborRank(from, to core.TileID) int {
	if dir, ok := from.DirectionTo(to); ok {
		return int(dir)
	}
	return maxNeighbors
}

func insertOrdered(list []core.TileID, from, to core.TileID) []core.TileID {
	list = append(list, to)
	sort.SliceStable(list, func(i, j int) bool {
		return neighborRank(from, list[i]) < neighborRank(from, list[j])
	})
	return list
}

func without(list []core.TileID, t core.TileID) []core.TileID {
	for i, n := range list {
		if n == t {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
