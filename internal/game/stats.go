package game

import (
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
)

// This file contains all player statistics management functionality for the game engine.

// updatePlayerStats recalculates unit counts and health totals from the
// registry and marks players without combatants as eliminated.
func (e *Engine) updatePlayerStats() {
	for pid := range e.gs.Players {
		p := &e.gs.Players[pid]
		p.UnitCount, p.CityCount, p.HealthTotal = 0, 0, 0
	}

	for _, c := range e.registry.Combatants() {
		if c.IsDefeated() || c.Owner < 0 || c.Owner >= len(e.gs.Players) {
			continue
		}
		p := &e.gs.Players[c.Owner]
		if c.IsCity() {
			p.CityCount++
		} else {
			p.UnitCount++
		}
		p.HealthTotal += c.Health
	}

	for pid := range e.gs.Players {
		p := &e.gs.Players[pid]
		stillAlive := p.UnitCount+p.CityCount > 0
		if p.Alive && !stillAlive {
			p.EliminatedBy = -1
			if by, ok := e.lastDefeatedBy[pid]; ok {
				p.EliminatedBy = by
			}
			e.logger.Info().
				Int("player_id", pid).
				Int("eliminated_by", p.EliminatedBy).
				Msg("Player has no combatants left and is eliminated")
			e.eventBus.Publish(events.NewPlayerEliminatedEvent(e.gameID, pid, p.EliminatedBy, e.gs.Turn))
		} else if !p.Alive && stillAlive {
			e.logger.Warn().Int("player_id", pid).Msg("Eliminated player has combatants again")
		}
		p.Alive = stillAlive
	}

	e.stateMachine.GetContext().PlayerCount = e.alivePlayers()
	e.logger.Debug().Msg("Player stats updated")
}

func (e *Engine) alivePlayers() int {
	n := 0
	for _, p := range e.gs.Players {
		if p.Alive {
			n++
		}
	}
	return n
}
