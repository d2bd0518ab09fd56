package hexmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

func TestNewHexagon_TileCount(t *testing.T) {
	tests := []struct {
		radius   int
		expected int
	}{
		{0, 1},
		{1, 7},
		{2, 19},
		{3, 37},
	}

	for _, tt := range tests {
		g := NewHexagon(tt.radius)
		assert.Equal(t, tt.expected, g.Len())
		assert.True(t, g.Frozen())
		assert.NoError(t, g.Validate())
	}
}

func TestGraph_Neighbors_ClockwiseFromTop(t *testing.T) {
	g := NewHexagon(2)
	center := core.TileID{}

	neighbors := g.Neighbors(center)
	require.Len(t, neighbors, 6)
	expected := center.Neighbors()
	assert.Equal(t, expected[:], neighbors)

	for _, tile := range g.Tiles() {
		ordered := g.Neighbors(tile)
		for i := 1; i < len(ordered); i++ {
			prev, _ := tile.DirectionTo(ordered[i-1])
			cur, _ := tile.DirectionTo(ordered[i])
			assert.Less(t, int(prev), int(cur), "neighbours of %s out of order", tile)
		}
	}
}

func TestGraph_Neighbors_EdgeOfMap(t *testing.T) {
	g := NewHexagon(1)
	corner := core.TileID{Q: 0, R: -1}
	assert.Equal(t, []core.TileID{{Q: 1, R: -1}, {Q: 0, R: 0}, {Q: -1, R: 0}}, g.Neighbors(corner))
	assert.Empty(t, g.Neighbors(core.TileID{Q: 10, R: 10}))
	assert.False(t, g.Contains(core.TileID{Q: 10, R: 10}))
}

func TestGraph_ConstructionAndFreeze(t *testing.T) {
	g := NewGraph()
	a, b, c := core.TileID{Q: 0, R: 0}, core.TileID{Q: 1, R: 0}, core.TileID{Q: 5, R: 5}

	require.NoError(t, g.AddTile(a))
	require.NoError(t, g.AddTile(b))
	require.NoError(t, g.AddTile(c))
	require.NoError(t, g.AddEdge(a, b))
	require.NoError(t, g.AddEdge(a, c))

	assert.Equal(t, []core.TileID{b, c}, g.Neighbors(a), "geometric neighbour before custom link")
	assert.Equal(t, []core.TileID{a}, g.Neighbors(c))
	assert.True(t, g.Adjacent(b, a))
	assert.Len(t, g.Edges(), 2)

	require.NoError(t, g.RemoveEdge(a, c))
	assert.Empty(t, g.Neighbors(c))

	require.NoError(t, g.RemoveTile(b))
	assert.Empty(t, g.Neighbors(a))
	assert.False(t, g.Contains(b))

	g.Freeze()
	assert.ErrorIs(t, g.AddTile(b), core.ErrGraphFrozen)
	assert.ErrorIs(t, g.AddEdge(a, c), core.ErrGraphFrozen)
	assert.ErrorIs(t, g.RemoveEdge(a, c), core.ErrGraphFrozen)
	assert.ErrorIs(t, g.RemoveTile(a), core.ErrGraphFrozen)
}

func TestGraph_AddEdge_Rejections(t *testing.T) {
	g := NewGraph()
	center := core.TileID{}
	require.NoError(t, g.AddTile(center))

	assert.ErrorIs(t, g.AddEdge(center, center), core.ErrSelfLoop)
	assert.ErrorIs(t, g.AddEdge(center, core.TileID{Q: 1, R: 0}), core.ErrInvalidTile)

	for i := 0; i < 7; i++ {
		require.NoError(t, g.AddTile(core.TileID{Q: 10 + i}))
	}
	for i := 0; i < 6; i++ {
		require.NoError(t, g.AddEdge(center, core.TileID{Q: 10 + i}))
	}
	assert.ErrorIs(t, g.AddEdge(center, core.TileID{Q: 16}), core.ErrTooManyNeighbors)
}

func TestGraph_Validate_DetectsMalformedTopology(t *testing.T) {
	g := NewGraph()
	a, b := core.TileID{Q: 0, R: 0}, core.TileID{Q: 1, R: 0}
	require.NoError(t, g.AddTile(a))
	require.NoError(t, g.AddTile(b))

	g.adj[a] = append(g.adj[a], b)
	err := g.Validate()
	assert.ErrorIs(t, err, core.ErrAsymmetricEdge)

	g.adj[b] = append(g.adj[b], a, core.TileID{Q: 9, R: 9})
	err = g.Validate()
	assert.ErrorIs(t, err, core.ErrOrphanedTile)
	assert.NotErrorIs(t, err, core.ErrAsymmetricEdge)
}

func TestNewRectangle(t *testing.T) {
	g := NewRectangle(4, 3)
	assert.Equal(t, 12, g.Len())
	require.NoError(t, g.Validate())

	interior := OffsetToAxial(1, 1)
	assert.Len(t, g.Neighbors(interior), 6)
	assert.Len(t, g.Neighbors(OffsetToAxial(0, 0)), 2)
}

func BenchmarkGraph_Neighbors(b *testing.B) {
	g := NewHexagon(20)
	tiles := g.Tiles()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.Neighbors(tiles[i%len(tiles)])
	}
}
