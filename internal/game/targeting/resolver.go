// Package targeting works out where a unit can attack from and what it can hit.
package targeting

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/zyedidia/generic/mapset"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/movement"
	"github.com/mitchelldurbincs/HexTactics/internal/game/pathfind"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
)

// Options replace the global debug switches around visibility
type Options struct {
	// IgnoreVisibility lets units target tiles their owner cannot see
	IgnoreVisibility bool
	// RequireLineOfSight makes ground ranged attacks need a clear line
	RequireLineOfSight bool
}

// AttackableTile is one way to attack: move to Launch, then hit Target
type AttackableTile struct {
	Launch       core.TileID
	Target       core.TileID
	MovementLeft float64
	// Combatant is whatever the attack would hit on Target, if anything
	Combatant *units.Combatant
}

type launchSite struct {
	tile core.TileID
	left float64
}

// Resolver combines reachability with weapon range
type Resolver struct {
	graph      pathfind.Graph
	movement   *movement.Resolver
	registry   *registry.Registry
	sight      LineOfSight
	visibility Visibility
	opts       Options
	logger     zerolog.Logger
}

// NewResolver creates an attack resolver. sight and visibility may be nil,
// in which case every line is clear and every tile is visible.
func NewResolver(graph pathfind.Graph, mv *movement.Resolver, reg *registry.Registry, sight LineOfSight, visibility Visibility, opts Options, logger zerolog.Logger) *Resolver {
	return &Resolver{
		graph:      graph,
		movement:   mv,
		registry:   reg,
		sight:      sight,
		visibility: visibility,
		opts:       opts,
		logger:     logger.With().Str("component", "TargetingResolver").Logger(),
	}
}

// launchSites lists the tiles the unit could attack from, in reachability
// order. The current tile is always first. Other tiles need movement left
// over after getting there.
func (r *Resolver) launchSites(unit *units.Combatant) []launchSite {
	sites := []launchSite{{tile: unit.Tile, left: max(unit.Movement, 0)}}
	if unit.IsCity() || unit.IsAir() {
		return sites
	}

	eps := r.movement.Options().EffectiveEpsilon()
	reach := r.movement.ReachableTiles(unit, unit.Movement)
	for _, t := range reach.Order {
		if t == unit.Tile {
			continue
		}
		if left := reach.Remaining[t]; left > eps {
			sites = append(sites, launchSite{tile: t, left: left})
		}
	}
	return sites
}

// inRange reports whether target is within weapon range of launch, counted
// in graph hops
func (r *Resolver) inRange(unit *units.Combatant, launch, target core.TileID) bool {
	if launch == target {
		return false
	}
	if unit.IsMelee() {
		for _, n := range r.graph.Neighbors(launch) {
			if n == target {
				return true
			}
		}
		return false
	}
	if _, ok := pathfind.WithinHops(r.graph, launch, unit.WeaponRange(), pathfind.Anything)[target]; !ok {
		return false
	}
	return r.hasClearShot(unit, launch, target)
}

func (r *Resolver) hasClearShot(unit *units.Combatant, launch, target core.TileID) bool {
	if !r.opts.RequireLineOfSight || r.sight == nil || unit.IsAir() {
		return true
	}
	return r.sight.HasLineOfSight(launch, target)
}

func (r *Resolver) visible(unit *units.Combatant, t core.TileID) bool {
	if r.opts.IgnoreVisibility || r.visibility == nil {
		return true
	}
	return r.visibility.IsVisible(unit.Owner, t)
}

// AttackableTiles returns every way the unit can attack target this turn, in
// the order the reachable tiles were discovered. It is empty when target holds
// nothing the unit may attack.
func (r *Resolver) AttackableTiles(unit *units.Combatant, target core.TileID) []AttackableTile {
	if !r.visible(unit, target) || !r.ContainsAttackableEnemy(unit, target) {
		return nil
	}
	defender := r.registry.OccupantOf(target)

	var result []AttackableTile
	for _, site := range r.launchSites(unit) {
		if !r.inRange(unit, site.tile, target) {
			continue
		}
		result = append(result, AttackableTile{
			Launch:       site.tile,
			Target:       target,
			MovementLeft: site.left,
			Combatant:    defender,
		})
	}
	return result
}

// AttackableEnemies returns every (launch, target) pair the unit could use
// this turn, grouped by launch tile in reachability order.
func (r *Resolver) AttackableEnemies(unit *units.Combatant) []AttackableTile {
	withEnemies := mapset.New[core.TileID]()
	withoutEnemies := mapset.New[core.TileID]()

	var result []AttackableTile
	for _, site := range r.launchSites(unit) {
		for _, t := range r.tilesInRange(unit, site.tile) {
			if withoutEnemies.Has(t) {
				continue
			}
			if !withEnemies.Has(t) {
				if !r.visible(unit, t) || !r.ContainsAttackableEnemy(unit, t) {
					withoutEnemies.Put(t)
					continue
				}
				withEnemies.Put(t)
			}
			if !r.hasClearShot(unit, site.tile, t) {
				continue
			}
			result = append(result, AttackableTile{
				Launch:       site.tile,
				Target:       t,
				MovementLeft: site.left,
				Combatant:    r.registry.OccupantOf(t),
			})
		}
	}

	r.logger.Debug().
		Str("unit", unit.Name).
		Int("options", len(result)).
		Int("targets", withEnemies.Size()).
		Msg("Computed attackable enemies")

	return result
}

// tilesInRange lists the tiles within weapon range of launch in graph hops,
// nearest first
func (r *Resolver) tilesInRange(unit *units.Combatant, launch core.TileID) []core.TileID {
	if unit.IsMelee() {
		return r.graph.Neighbors(launch)
	}
	hops := pathfind.WithinHops(r.graph, launch, unit.WeaponRange(), pathfind.Anything)
	tiles := make([]core.TileID, 0, len(hops))
	for t, d := range hops {
		if d > 0 {
			tiles = append(tiles, t)
		}
	}
	sort.Slice(tiles, func(i, j int) bool {
		if hops[tiles[i]] != hops[tiles[j]] {
			return hops[tiles[i]] < hops[tiles[j]]
		}
		return tiles[i].Less(tiles[j])
	})
	return tiles
}

// ContainsAttackableEnemy reports whether t holds a hostile combatant the
// unit is allowed to attack, ignoring range.
func (r *Resolver) ContainsAttackableEnemy(unit *units.Combatant, t core.TileID) bool {
	terrain := r.registry.TerrainOf(t)
	if unit.Embarked && (terrain.IsWater() || unit.IsRanged()) {
		return false
	}

	occupant := r.registry.OccupantOf(t)
	if occupant == nil || occupant.Owner == unit.Owner || occupant.IsDefeated() {
		return false
	}

	if unit.IsUnit() && unit.Class == units.ClassLand && unit.IsMelee() && terrain.IsWater() && !unit.CanEmbark {
		return false
	}
	return true
}
