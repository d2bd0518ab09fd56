package game

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexTactics/internal/config"
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/pathfind"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
)

// This file contains all fog of war and visibility-related functionality for the game engine.

// maxVisibilityPlayers is the number of players a tile bitfield can hold
const maxVisibilityPlayers = 32

// VisibilityTracker keeps a per-tile bitfield of which players can see it.
// Players whose combatants moved or died are marked dirty and recomputed on
// the next query.
type VisibilityTracker struct {
	mu       sync.Mutex
	graph    pathfind.Graph
	registry *registry.Registry
	config   config.VisionConfig
	players  int
	visible  map[core.TileID]uint32
	dirty    map[int]struct{}
	logger   zerolog.Logger
}

// NewVisibilityTracker creates a tracker with every player dirty
func NewVisibilityTracker(graph pathfind.Graph, reg *registry.Registry, cfg config.VisionConfig, players int, logger zerolog.Logger) *VisibilityTracker {
	vt := &VisibilityTracker{
		graph:    graph,
		registry: reg,
		config:   cfg,
		players:  min(players, maxVisibilityPlayers),
		visible:  make(map[core.TileID]uint32),
		dirty:    make(map[int]struct{}),
		logger:   logger.With().Str("component", "Visibility").Logger(),
	}
	vt.MarkAllDirty()
	return vt
}

// MarkDirty schedules a recompute for one player
func (vt *VisibilityTracker) MarkDirty(playerID int) {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	if playerID >= 0 && playerID < vt.players {
		vt.dirty[playerID] = struct{}{}
	}
}

// MarkAllDirty schedules a full recompute
func (vt *VisibilityTracker) MarkAllDirty() {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	for pid := 0; pid < vt.players; pid++ {
		vt.dirty[pid] = struct{}{}
	}
}

// IsVisible reports whether the player can currently see t. With fog of war
// disabled every tile is visible.
func (vt *VisibilityTracker) IsVisible(playerID int, t core.TileID) bool {
	if !vt.config.FogOfWar {
		return true
	}
	if playerID < 0 || playerID >= vt.players {
		return false
	}
	vt.mu.Lock()
	defer vt.mu.Unlock()
	vt.refreshLocked()
	return vt.visible[t]&(1<<uint(playerID)) != 0
}

// VisibleCount returns how many tiles the player can see
func (vt *VisibilityTracker) VisibleCount(playerID int) int {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	vt.refreshLocked()
	bit := uint32(1) << uint(playerID)
	n := 0
	for _, bits := range vt.visible {
		if bits&bit != 0 {
			n++
		}
	}
	return n
}

// refreshLocked recomputes the bitfields of dirty players. A full clear is
// cheaper than per-tile bookkeeping once most players are dirty.
func (vt *VisibilityTracker) refreshLocked() {
	if len(vt.dirty) == 0 {
		return
	}

	var mask uint32
	for pid := range vt.dirty {
		mask |= 1 << uint(pid)
	}
	for t, bits := range vt.visible {
		if bits &^= mask; bits == 0 {
			delete(vt.visible, t)
		} else {
			vt.visible[t] = bits
		}
	}

	for _, c := range vt.registry.Combatants() {
		if _, ok := vt.dirty[c.Owner]; !ok || c.IsDefeated() {
			continue
		}
		sight := vt.config.UnitSight
		if c.IsCity() {
			sight = vt.config.CitySight
		}
		bit := uint32(1) << uint(c.Owner)
		for t := range pathfind.WithinHops(vt.graph, c.Tile, sight, nil) {
			vt.visible[t] |= bit
		}
	}

	vt.logger.Debug().Int("players", len(vt.dirty)).Msg("Recomputed visibility")
	clear(vt.dirty)
}
