// Package mapgen builds playable hex maps: noise terrain, land bridges between
// landmasses and downhill rivers.
package mapgen

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexTactics/internal/config"
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/hexmap"
	"github.com/mitchelldurbincs/HexTactics/internal/game/pathfind"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
)

// Resources that can appear on the map
const (
	ResourceIron   = "Iron"
	ResourceHorses = "Horses"
)

// Map is a generated world
type Map struct {
	Graph     *hexmap.Graph
	Registry  *registry.Registry
	Seed      int64
	Elevation map[core.TileID]float64
	// Landmasses lists connected groups of non-water tiles, largest first
	Landmasses [][]core.TileID
	// Bridges are the spanning-tree links between landmasses that were filled in
	Bridges []pathfind.WeightedEdge
	// Rivers holds the tiles each river flowed through, source first
	Rivers    [][]core.TileID
	Resources map[core.TileID]string
}

// Generator handles map generation with deterministic RNG
type Generator struct {
	config config.MapConfig
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewGenerator creates a new map generator
func NewGenerator(cfg config.MapConfig, rng *rand.Rand, logger zerolog.Logger) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	return &Generator{
		config: cfg,
		rng:    rng,
		logger: logger.With().Str("component", "MapGenerator").Logger(),
	}
}

// Generate creates a new map and validates it
func (g *Generator) Generate() (*Map, error) {
	if g.config.Radius < 1 {
		return nil, fmt.Errorf("map radius must be at least 1, got %d", g.config.Radius)
	}

	seed := g.config.Seed
	if seed == 0 {
		seed = g.rng.Int63()
	}

	m := &Map{
		Graph:     hexmap.NewHexagon(g.config.Radius),
		Registry:  registry.New(),
		Seed:      seed,
		Elevation: make(map[core.TileID]float64),
		Resources: make(map[core.TileID]string),
	}

	g.paintTerrain(m)
	g.markCoast(m)
	m.Landmasses = findLandmasses(m)
	g.buildBridges(m)
	m.Landmasses = findLandmasses(m)
	g.markCoast(m)
	g.placeRivers(m)
	g.placeResources(m)

	if err := Validate(m); err != nil {
		return nil, err
	}

	g.logger.Info().
		Int64("seed", seed).
		Int("tiles", m.Graph.Len()).
		Int("landmasses", len(m.Landmasses)).
		Int("bridges", len(m.Bridges)).
		Int("rivers", len(m.Rivers)).
		Msg("Map generated")

	return m, nil
}

// paintTerrain samples elevation and moisture noise for every tile
func (g *Generator) paintTerrain(m *Map) {
	elevNoise := opensimplex.NewNormalized(m.Seed)
	moistNoise := opensimplex.NewNormalized(m.Seed + 1)
	radius := float64(g.config.Radius)

	for _, t := range m.Graph.Tiles() {
		// Hex axial to cartesian: x = q + r*0.5, y = r * sqrt(3)/2
		x := float64(t.Q) + float64(t.R)*0.5
		y := float64(t.R) * math.Sqrt(3.0) / 2.0

		elev := octaveNoise(elevNoise, x, y, 4, 0.12, 0.5)
		moist := octaveNoise(moistNoise, x, y, 3, 0.09, 0.5)

		// Sink the rim so the map is ringed by sea
		dist := math.Sqrt(x*x+y*y) / (radius + 1)
		elev *= math.Max(0, 1.0-math.Pow(dist, 3.0))

		m.Elevation[t] = elev
		m.Registry.SetTerrain(t, g.deriveTerrain(elev, moist))
	}
}

func (g *Generator) deriveTerrain(elev, moist float64) registry.Terrain {
	switch {
	case elev < g.config.SeaLevel:
		return registry.Ocean
	case elev > g.config.MountainLevel:
		return registry.Mountain
	case elev > g.config.HillsLevel:
		return registry.Hills
	case moist > g.config.ForestMoisture:
		return registry.Forest
	case moist < 0.3:
		return registry.Desert
	case moist < 0.45:
		return registry.Plains
	default:
		return registry.Grassland
	}
}

// markCoast turns ocean next to land into coast
func (g *Generator) markCoast(m *Map) {
	for _, t := range m.Graph.Tiles() {
		if !m.Registry.TerrainOf(t).IsWater() {
			continue
		}
		terrain := registry.Ocean
		for _, n := range m.Graph.Neighbors(t) {
			if !m.Registry.TerrainOf(n).IsWater() {
				terrain = registry.Coast
				break
			}
		}
		m.Registry.SetTerrain(t, terrain)
	}
}

// findLandmasses groups non-water tiles with a flood fill, largest first
func findLandmasses(m *Map) [][]core.TileID {
	isLand := func(t core.TileID) bool { return !m.Registry.TerrainOf(t).IsWater() }

	assigned := make(map[core.TileID]bool)
	var masses [][]core.TileID
	for _, t := range m.Graph.Tiles() {
		if assigned[t] || !isLand(t) {
			continue
		}
		explored := pathfind.Explore(m.Graph, t, isLand, 0, nil)
		mass := append([]core.TileID(nil), explored.Order...)
		core.SortTiles(mass)
		for _, tile := range mass {
			assigned[tile] = true
		}
		masses = append(masses, mass)
	}

	sort.SliceStable(masses, func(i, j int) bool {
		return len(masses[i]) > len(masses[j])
	})
	return masses
}

// buildBridges links landmasses along a minimum spanning tree of their
// closest-tile distances and fills short gaps with land
func (g *Generator) buildBridges(m *Map) {
	if len(m.Landmasses) < 2 {
		return
	}

	type gap struct{ from, to core.TileID }
	nodes := make([]core.TileID, len(m.Landmasses))
	gaps := make(map[[2]core.TileID]gap)
	var edges []pathfind.WeightedEdge

	for i, mass := range m.Landmasses {
		nodes[i] = mass[0]
	}
	for i := 0; i < len(m.Landmasses); i++ {
		for j := i + 1; j < len(m.Landmasses); j++ {
			from, to, d := closestPair(m.Landmasses[i], m.Landmasses[j])
			a, b := nodes[i], nodes[j]
			edges = append(edges, pathfind.WeightedEdge{A: a, B: b, Weight: float64(d)})
			gaps[[2]core.TileID{a, b}] = gap{from: from, to: to}
		}
	}

	for _, e := range pathfind.MinimumSpanningTree(nodes, edges) {
		if e.Weight > float64(g.config.BridgeWeightLimit) {
			continue
		}
		link := gaps[[2]core.TileID{e.A, e.B}]
		path := pathfind.ShortestPath(m.Graph, link.from, link.to, nil)
		for _, t := range path {
			if m.Registry.TerrainOf(t).IsWater() {
				m.Registry.SetTerrain(t, registry.Plains)
				m.Elevation[t] = g.config.SeaLevel
			}
		}
		m.Bridges = append(m.Bridges, e)
		g.logger.Debug().
			Stringer("from", link.from).
			Stringer("to", link.to).
			Float64("length", e.Weight).
			Msg("Built land bridge")
	}
}

func closestPair(a, b []core.TileID) (core.TileID, core.TileID, int) {
	best := math.MaxInt
	var from, to core.TileID
	for _, x := range a {
		for _, y := range b {
			if d := x.DistanceTo(y); d < best {
				best, from, to = d, x, y
			}
		}
	}
	return from, to, best
}

// placeResources scatters strategic resources on hills and open land
func (g *Generator) placeResources(m *Map) {
	for _, t := range m.Graph.Tiles() {
		terrain := m.Registry.TerrainOf(t)
		roll := g.rng.Float64()
		switch {
		case terrain.Name == registry.Hills.Name && roll < 0.25:
			m.Resources[t] = ResourceIron
		case (terrain.Name == registry.Plains.Name || terrain.Name == registry.Grassland.Name) && roll < 0.06:
			m.Resources[t] = ResourceHorses
		}
	}
}

// octaveNoise sums several frequencies of noise into a value in [0, 1]
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
