package game

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// GenerateGreedyActions plans one action per combatant for a player. Each
// combatant takes its most profitable attack by preview; otherwise units
// close on the nearest enemy, and units with nowhere better to go fortify.
// This is a baseline opponent for demos and tests.
func GenerateGreedyActions(e *Engine, playerID int) []core.Action {
	if e.IsGameOver() {
		return nil
	}

	var enemies []core.TileID
	for pid := range e.gs.Players {
		if pid == playerID {
			continue
		}
		for _, c := range e.Units(pid) {
			enemies = append(enemies, c.Tile)
		}
	}

	claimed := make(map[core.TileID]bool)
	var actions []core.Action
	for _, c := range e.Units(playerID) {
		if c.IsCivilian() {
			continue
		}

		if attack := bestAttack(e, c.ID); attack != nil {
			actions = append(actions, attack)
			if attack.From != nil {
				claimed[*attack.From] = true
			}
			continue
		}
		if !c.IsUnit() {
			continue
		}

		if to, ok := closestApproach(e, c.Tile, c.ID, enemies, claimed); ok {
			claimed[to] = true
			actions = append(actions, &core.MoveAction{PlayerID: playerID, UnitID: c.ID, To: to})
			continue
		}
		claimed[c.Tile] = true
		if c.IsMilitary() && !c.IsFortified() && !c.IsAir() {
			actions = append(actions, &core.FortifyAction{PlayerID: playerID, UnitID: c.ID})
		}
	}

	log.Debug().
		Int("player_id", playerID).
		Int("actions", len(actions)).
		Msg("Generated greedy actions")
	return actions
}

// bestAttack picks the attack with the best damage trade that does not get
// the attacker killed
func bestAttack(e *Engine, unitID uuid.UUID) *core.AttackAction {
	options, err := e.AttackableEnemies(unitID)
	if err != nil {
		return nil
	}
	c, _ := e.Unit(unitID)

	var best *core.AttackAction
	bestScore := 0
	for _, opt := range options {
		launch := opt.Launch
		action := &core.AttackAction{PlayerID: c.Owner, UnitID: unitID, Target: opt.Target, From: &launch}
		out, err := e.Preview(action)
		if err != nil || out.AttackerDefeated {
			continue
		}
		score := out.DefenderDamage - out.AttackerDamage
		if out.DefenderDefeated {
			score += 100
		}
		if score > bestScore {
			best, bestScore = action, score
		}
	}
	return best
}

// closestApproach returns the reachable tile nearest to any enemy, if it is
// nearer than where the unit already stands
func closestApproach(e *Engine, from core.TileID, unitID uuid.UUID, enemies []core.TileID, claimed map[core.TileID]bool) (core.TileID, bool) {
	if len(enemies) == 0 {
		return core.TileID{}, false
	}
	reach, err := e.ReachableTiles(unitID)
	if err != nil {
		return core.TileID{}, false
	}

	best, bestDist := from, nearest(from, enemies)
	found := false
	for _, t := range reach.Order {
		if t == from || claimed[t] || e.registry.MilitaryAt(t) != nil || e.registry.CityAt(t) != nil {
			continue
		}
		if d := nearest(t, enemies); d < bestDist {
			best, bestDist, found = t, d, true
		}
	}
	return best, found
}

func nearest(t core.TileID, targets []core.TileID) int {
	best := -1
	for _, other := range targets {
		if d := t.DistanceTo(other); best < 0 || d < best {
			best = d
		}
	}
	return best
}
