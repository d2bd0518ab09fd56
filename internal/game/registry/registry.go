// Package registry answers questions about what is on each tile: its
// terrain, the rivers along its edges and the combatants standing on it.
package registry

import (
	"sort"
	"sync"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
)

type edgeKey struct {
	a, b core.TileID
}

func newEdgeKey(a, b core.TileID) edgeKey {
	if b.Less(a) {
		a, b = b, a
	}
	return edgeKey{a: a, b: b}
}

// Registry stores per-tile state. A tile holds at most one military unit,
// one civilian and one city. Reads may run concurrently; writes are expected
// from a single goroutine at a time.
type Registry struct {
	mu        sync.RWMutex
	terrain   map[core.TileID]Terrain
	rivers    map[edgeKey]struct{}
	military  map[core.TileID]*units.Combatant
	civilians map[core.TileID]*units.Combatant
	cities    map[core.TileID]*units.Combatant
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		terrain:   make(map[core.TileID]Terrain),
		rivers:    make(map[edgeKey]struct{}),
		military:  make(map[core.TileID]*units.Combatant),
		civilians: make(map[core.TileID]*units.Combatant),
		cities:    make(map[core.TileID]*units.Combatant),
	}
}

// SetTerrain assigns the terrain of a tile
func (r *Registry) SetTerrain(t core.TileID, terrain Terrain) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terrain[t] = terrain
}

// TerrainOf returns the terrain of a tile. Unknown tiles are impassable.
func (r *Registry) TerrainOf(t core.TileID) Terrain {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if terrain, ok := r.terrain[t]; ok {
		return terrain
	}
	return Terrain{Name: "Void", Category: CategoryImpassable}
}

// MovementCost returns the base cost of entering a tile
func (r *Registry) MovementCost(t core.TileID) float64 {
	return r.TerrainOf(t).MovementCost
}

// SetRiver adds or removes a river along the edge between a and b
func (r *Registry) SetRiver(a, b core.TileID, present bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if present {
		r.rivers[newEdgeKey(a, b)] = struct{}{}
	} else {
		delete(r.rivers, newEdgeKey(a, b))
	}
}

// HasRiver reports whether a river runs between two adjacent tiles
func (r *Registry) HasRiver(a, b core.TileID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rivers[newEdgeKey(a, b)]
	return ok
}

// RiverEdges returns every river edge in deterministic order
func (r *Registry) RiverEdges() [][2]core.TileID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	edges := make([][2]core.TileID, 0, len(r.rivers))
	for k := range r.rivers {
		edges = append(edges, [2]core.TileID{k.a, k.b})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0].Less(edges[j][0])
		}
		return edges[i][1].Less(edges[j][1])
	})
	return edges
}

func (r *Registry) slotFor(c *units.Combatant) map[core.TileID]*units.Combatant {
	switch {
	case c.IsCity():
		return r.cities
	case c.IsCivilian():
		return r.civilians
	default:
		return r.military
	}
}

// Place puts a combatant on its tile
func (r *Registry) Place(c *units.Combatant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot := r.slotFor(c)
	if existing, ok := slot[c.Tile]; ok && existing != c {
		return core.ErrDestinationOccupied
	}
	slot[c.Tile] = c
	return nil
}

// Remove takes a combatant off the map
func (r *Registry) Remove(c *units.Combatant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot := r.slotFor(c)
	if slot[c.Tile] == c {
		delete(slot, c.Tile)
	}
}

// Move relocates a unit and updates its Tile
func (r *Registry) Move(c *units.Combatant, to core.TileID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot := r.slotFor(c)
	if existing, ok := slot[to]; ok && existing != c {
		return core.ErrDestinationOccupied
	}
	if slot[c.Tile] == c {
		delete(slot, c.Tile)
	}
	c.Tile = to
	slot[to] = c
	return nil
}

// MilitaryAt returns the military unit on a tile, if any
func (r *Registry) MilitaryAt(t core.TileID) *units.Combatant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.military[t]
}

// CivilianAt returns the civilian unit on a tile, if any
func (r *Registry) CivilianAt(t core.TileID) *units.Combatant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.civilians[t]
}

// CityAt returns the city on a tile, if any
func (r *Registry) CityAt(t core.TileID) *units.Combatant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cities[t]
}

// OccupantOf returns whoever would be attacked on a tile: the military unit
// first, then the city, then a civilian. Nil when the tile is empty.
func (r *Registry) OccupantOf(t core.TileID) *units.Combatant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c := r.military[t]; c != nil {
		return c
	}
	if c := r.cities[t]; c != nil {
		return c
	}
	return r.civilians[t]
}

// Occupants returns every combatant on a tile, military first
func (r *Registry) Occupants(t core.TileID) []*units.Combatant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*units.Combatant
	for _, slot := range []map[core.TileID]*units.Combatant{r.military, r.cities, r.civilians} {
		if c := slot[t]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

// HasHostile reports whether a tile holds a combatant not owned by owner
func (r *Registry) HasHostile(t core.TileID, owner int) bool {
	for _, c := range r.Occupants(t) {
		if c.Owner != owner {
			return true
		}
	}
	return false
}

// AdjacentHostileMilitary reports whether any neighbour of t (by hex geometry)
// holds a military unit or city not owned by owner.
func (r *Registry) AdjacentHostileMilitary(t core.TileID, owner int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range t.Neighbors() {
		if c := r.military[n]; c != nil && c.Owner != owner {
			return true
		}
		if c := r.cities[n]; c != nil && c.Owner != owner {
			return true
		}
	}
	return false
}

// Combatants returns every placed combatant ordered by tile then kind
func (r *Registry) Combatants() []*units.Combatant {
	r.mu.RLock()
	var out []*units.Combatant
	for _, slot := range []map[core.TileID]*units.Combatant{r.military, r.cities, r.civilians} {
		for _, c := range slot {
			out = append(out, c)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tile != out[j].Tile {
			return out[i].Tile.Less(out[j].Tile)
		}
		return rank(out[i]) < rank(out[j])
	})
	return out
}

func rank(c *units.Combatant) int {
	switch {
	case c.IsMilitary():
		return 0
	case c.IsCity():
		return 1
	default:
		return 2
	}
}
