package pathfind

import (
	"sort"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// WeightedEdge is an undirected edge used by MinimumSpanningTree
type WeightedEdge struct {
	A, B   core.TileID
	Weight float64
}

// unionFind is a disjoint-set forest with path compression and union by rank
type unionFind struct {
	parent map[core.TileID]core.TileID
	rank   map[core.TileID]int
}

func newUnionFind(nodes []core.TileID) *unionFind {
	uf := &unionFind{
		parent: make(map[core.TileID]core.TileID, len(nodes)),
		rank:   make(map[core.TileID]int, len(nodes)),
	}
	for _, n := range nodes {
		uf.parent[n] = n
	}
	return uf
}

func (uf *unionFind) find(x core.TileID) core.TileID {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[x] != root {
		next := uf.parent[x]
		uf.parent[x] = root
		x = next
	}
	return root
}

// union merges the sets of a and b, returning false if they were already joined
func (uf *unionFind) union(a, b core.TileID) bool {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return false
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
	return true
}

// MinimumSpanningTree runs Kruskal's algorithm and returns the chosen edges in
// the order they were accepted. Edges touching unknown nodes are ignored. For
// a disconnected input the result is a spanning forest. Equal weights are
// ordered by endpoint IDs so the result is deterministic.
func MinimumSpanningTree(nodes []core.TileID, edges []WeightedEdge) []WeightedEdge {
	uf := newUnionFind(nodes)

	sorted := make([]WeightedEdge, 0, len(edges))
	for _, e := range edges {
		if _, ok := uf.parent[e.A]; !ok {
			continue
		}
		if _, ok := uf.parent[e.B]; !ok {
			continue
		}
		sorted = append(sorted, e)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Weight != b.Weight {
			return a.Weight < b.Weight
		}
		if a.A != b.A {
			return a.A.Less(b.A)
		}
		return a.B.Less(b.B)
	})

	var tree []WeightedEdge
	for _, e := range sorted {
		if len(nodes) > 0 && len(tree) == len(nodes)-1 {
			break
		}
		if uf.union(e.A, e.B) {
			tree = append(tree, e)
		}
	}
	return tree
}

// TotalWeight sums the weights of the given edges
func TotalWeight(edges []WeightedEdge) float64 {
	total := 0.0
	for _, e := range edges {
		total += e.Weight
	}
	return total
}
