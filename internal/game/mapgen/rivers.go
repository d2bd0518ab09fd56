package mapgen

import (
	"fmt"
	"sort"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/hexmap"
	"github.com/mitchelldurbincs/HexTactics/internal/game/pathfind"
)

// placeRivers traces rivers downhill from high ground to the sea. Each river
// runs along the edge on the left bank of its course. A river that would close
// a loop in the river network is dropped.
func (g *Generator) placeRivers(m *Map) {
	var sources []core.TileID
	for _, t := range m.Graph.Tiles() {
		terrain := m.Registry.TerrainOf(t)
		if terrain.IsLand() && m.Elevation[t] > g.config.HillsLevel {
			sources = append(sources, t)
		}
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return m.Elevation[sources[i]] > m.Elevation[sources[j]]
	})

	for attempt := 0; attempt < len(sources) && len(m.Rivers) < g.config.RiverCount; attempt++ {
		source := sources[g.rng.Intn(len(sources))]
		course := downhill(m, source)
		if len(course) < 3 {
			continue
		}

		added := g.riverEdges(m, course)
		if len(added) == 0 {
			continue
		}
		for _, e := range added {
			m.Registry.SetRiver(e[0], e[1], true)
		}
		if err := ValidateRivers(m); err != nil {
			for _, e := range added {
				m.Registry.SetRiver(e[0], e[1], false)
			}
			g.logger.Debug().Err(err).Stringer("source", source).Msg("Dropped river that closed a loop")
			continue
		}
		m.Rivers = append(m.Rivers, course)
	}
}

// downhill follows the lowest neighbour until it reaches water or a pit
func downhill(m *Map, start core.TileID) []core.TileID {
	course := []core.TileID{start}
	seen := map[core.TileID]bool{start: true}
	current := start

	for !m.Registry.TerrainOf(current).IsWater() {
		next, found := current, false
		for _, n := range m.Graph.Neighbors(current) {
			if seen[n] || m.Registry.TerrainOf(n).IsImpassable() {
				continue
			}
			if m.Elevation[n] < m.Elevation[next] || (found && m.Elevation[n] == m.Elevation[next] && n.Less(next)) {
				next, found = n, true
			}
		}
		if !found {
			break
		}
		course = append(course, next)
		seen[next] = true
		current = next
	}
	return course
}

// riverEdges returns the new bank edges for a course. The bank of each step
// is the edge between the tile and its neighbour counter-clockwise of the flow.
func (g *Generator) riverEdges(m *Map, course []core.TileID) [][2]core.TileID {
	var added [][2]core.TileID
	for i := 0; i+1 < len(course); i++ {
		from := course[i]
		dir, ok := from.DirectionTo(course[i+1])
		if !ok {
			continue
		}
		bank := from.Add(core.DirectionVectors[(dir+5)%6])
		if !m.Graph.Contains(bank) {
			continue
		}
		if !m.Registry.TerrainOf(from).IsLand() || !m.Registry.TerrainOf(bank).IsLand() {
			continue
		}
		if m.Registry.HasRiver(from, bank) {
			continue
		}
		added = append(added, [2]core.TileID{from, bank})
	}
	return added
}

// ValidateRivers checks that the river network is a forest. Rivers split and
// merge along tile edges but never enclose a tile.
func ValidateRivers(m *Map) error {
	network := hexmap.NewGraph()
	for _, e := range m.Registry.RiverEdges() {
		for _, t := range e {
			if !network.Contains(t) {
				if err := network.AddTile(t); err != nil {
					return err
				}
			}
		}
		if err := network.AddEdge(e[0], e[1]); err != nil {
			return err
		}
	}
	network.Freeze()

	tiles := network.Tiles()
	for _, t := range tiles {
		if edge := pathfind.FindCycleEdge(network, t); edge != nil {
			return core.WrapTopologyError(edge[0], edge[1], core.ErrCycleDetected)
		}
	}
	return nil
}

// Validate runs the structural checks a generated map must pass before play
func Validate(m *Map) error {
	if err := m.Graph.Validate(); err != nil {
		return fmt.Errorf("map graph: %w", err)
	}
	if m.Graph.Len() > 1 {
		for _, t := range m.Graph.Tiles() {
			if len(m.Graph.Neighbors(t)) == 0 {
				return core.WrapTopologyError(t, t, core.ErrIsolatedTile)
			}
		}
	}
	for _, e := range m.Registry.RiverEdges() {
		if !m.Graph.Adjacent(e[0], e[1]) {
			return core.WrapTopologyError(e[0], e[1], core.ErrNotAdjacent)
		}
	}
	return ValidateRivers(m)
}
