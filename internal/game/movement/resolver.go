// Package movement computes where a unit can go with the movement it has left.
package movement

import (
	"github.com/rs/zerolog"
	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/pathfind"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
)

// floatSlack absorbs rounding when comparing accumulated fractional costs
const floatSlack = 1e-9

// Reachability is the set of tiles a unit can stop on this turn
type Reachability struct {
	Start core.TileID
	// Remaining maps each valid stop to the movement left after stopping there
	Remaining map[core.TileID]float64
	// Parents holds the predecessor of every expanded tile, including tiles
	// the unit may pass through but not stop on
	Parents map[core.TileID]core.TileID
	// Order lists the valid stops in the order they were settled
	Order []core.TileID
	// Visited counts every tile settled by the search
	Visited int
}

func emptyReachability(start core.TileID) Reachability {
	return Reachability{
		Start:     start,
		Remaining: make(map[core.TileID]float64),
		Parents:   make(map[core.TileID]core.TileID),
	}
}

// Contains reports whether the unit can stop on t
func (r Reachability) Contains(t core.TileID) bool {
	_, ok := r.Remaining[t]
	return ok
}

// Len returns the number of valid stops
func (r Reachability) Len() int {
	return len(r.Order)
}

// PathTo returns the cheapest route from the start to t, or nil if t is not a valid stop
func (r Reachability) PathTo(t core.TileID) []core.TileID {
	if !r.Contains(t) {
		return nil
	}
	return pathfind.PathTo(r.Start, t, r.Parents)
}

// Resolver answers movement queries against a frozen map and the tile registry
type Resolver struct {
	graph    pathfind.Graph
	registry *registry.Registry
	opts     Options
	logger   zerolog.Logger
}

// NewResolver creates a movement resolver
func NewResolver(graph pathfind.Graph, reg *registry.Registry, opts Options, logger zerolog.Logger) *Resolver {
	return &Resolver{
		graph:    graph,
		registry: reg,
		opts:     opts,
		logger:   logger.With().Str("component", "MovementResolver").Logger(),
	}
}

// Options returns the rules in use
func (r *Resolver) Options() Options {
	return r.opts
}

// SetOptions swaps the rules. Callers must not run it alongside queries.
func (r *Resolver) SetOptions(opts Options) {
	r.opts = opts
}

type step struct {
	tile  core.TileID
	spent float64
}

func lessStep(a, b step) bool {
	if a.spent != b.spent {
		return a.spent < b.spent
	}
	return a.tile.Less(b.tile)
}

// ReachableTiles runs a cost-weighted expansion from the unit's tile. Every
// tile whose cheapest cumulative cost is within budget, and on which the unit
// may legally stop, is returned with the movement left over. A budget at or
// below epsilon yields an empty result.
func (r *Resolver) ReachableTiles(unit *units.Combatant, budget float64) Reachability {
	result := emptyReachability(unit.Tile)
	if budget <= r.opts.EffectiveEpsilon() || !r.graph.Contains(unit.Tile) {
		return result
	}

	best := map[core.TileID]float64{unit.Tile: 0}
	settled := mapset.New[core.TileID]()
	result.Parents[unit.Tile] = unit.Tile

	pq := heap.New[step](lessStep)
	pq.Push(step{tile: unit.Tile, spent: 0})

	for pq.Size() > 0 {
		cur, _ := pq.Pop()
		if settled.Has(cur.tile) {
			continue
		}
		settled.Put(cur.tile)
		result.Visited++

		if cur.tile == unit.Tile || r.canStop(unit, cur.tile) {
			result.Remaining[cur.tile] = max(budget-cur.spent, 0)
			result.Order = append(result.Order, cur.tile)
		}

		remaining := budget - cur.spent
		for _, next := range r.graph.Neighbors(cur.tile) {
			if settled.Has(next) || !r.canEnter(unit, next) {
				continue
			}
			spent := cur.spent + r.stepCost(unit, cur.tile, next, remaining)
			if spent > budget+floatSlack {
				continue
			}
			if old, seen := best[next]; seen && spent >= old {
				continue
			}
			best[next] = spent
			result.Parents[next] = cur.tile
			pq.Push(step{tile: next, spent: spent})
		}
	}

	r.logger.Debug().
		Str("unit", unit.Name).
		Str("start", unit.Tile.String()).
		Float64("budget", budget).
		Int("reachable", result.Len()).
		Int("visited", result.Visited).
		Msg("Computed reachable tiles")

	return result
}

// CanReach reports whether the unit can stop on dest with its current movement
func (r *Resolver) CanReach(unit *units.Combatant, dest core.TileID) bool {
	return r.ReachableTiles(unit, unit.Movement).Contains(dest)
}

// ShortestPath returns a minimum-hop route the unit could follow over any
// number of turns, ignoring movement costs. Nil when no route exists.
func (r *Resolver) ShortestPath(unit *units.Combatant, dest core.TileID) []core.TileID {
	return pathfind.ShortestPath(r.graph, unit.Tile, dest, func(t core.TileID) bool {
		return r.canEnter(unit, t)
	})
}

// canEnter decides whether the unit may move into (or through) t
func (r *Resolver) canEnter(unit *units.Combatant, t core.TileID) bool {
	terrain := r.registry.TerrainOf(t)
	if terrain.IsImpassable() {
		return false
	}
	if r.registry.HasHostile(t, unit.Owner) {
		return false
	}

	switch unit.Class {
	case units.ClassWater:
		if terrain.IsWater() {
			return true
		}
		city := r.registry.CityAt(t)
		return city != nil && city.Owner == unit.Owner
	case units.ClassLand:
		return !terrain.IsWater() || unit.CanEmbark
	default:
		return true
	}
}

// canStop decides whether the unit may end its move on t. Friendly units of
// the same kind block stopping but not passing through.
func (r *Resolver) canStop(unit *units.Combatant, t core.TileID) bool {
	if unit.IsCivilian() {
		return r.registry.CivilianAt(t) == nil
	}
	return r.registry.MilitaryAt(t) == nil
}

// stepCost is the price of moving from one adjacent tile to the next given
// the movement still available before the step.
func (r *Resolver) stepCost(unit *units.Combatant, from, to core.TileID, remaining float64) float64 {
	eps := r.opts.EffectiveEpsilon()
	everything := max(remaining, eps)

	if unit.Class == units.ClassAir {
		return 1
	}

	fromTerrain := r.registry.TerrainOf(from)
	toTerrain := r.registry.TerrainOf(to)

	if unit.Class == units.ClassLand && fromTerrain.IsWater() != toTerrain.IsWater() {
		return everything
	}

	if r.opts.ZoneOfControl && !unit.IgnoresZoneOfControl &&
		r.registry.AdjacentHostileMilitary(from, unit.Owner) &&
		r.registry.AdjacentHostileMilitary(to, unit.Owner) {
		return everything
	}

	if r.opts.RiverCrossingEndsMove && unit.Class == units.ClassLand && r.registry.HasRiver(from, to) {
		return everything
	}

	return max(toTerrain.MovementCost, eps)
}
