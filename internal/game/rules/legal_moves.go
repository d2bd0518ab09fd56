package rules

import (
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/movement"
	"github.com/mitchelldurbincs/HexTactics/internal/game/targeting"
	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
)

// LegalMoveCalculator computes legal actions for units
type LegalMoveCalculator struct {
	movement  *movement.Resolver
	targeting *targeting.Resolver
}

// NewLegalMoveCalculator creates a new legal move calculator
func NewLegalMoveCalculator(mv *movement.Resolver, tg *targeting.Resolver) *LegalMoveCalculator {
	return &LegalMoveCalculator{movement: mv, targeting: tg}
}

// LegalActions lists every action the unit may take right now. Attacks come
// first in targeting order, then moves in reachability order, then fortify.
func (lmc *LegalMoveCalculator) LegalActions(unit *units.Combatant) []core.Action {
	if unit == nil || unit.IsDefeated() {
		return nil
	}

	var actions []core.Action
	if unit.CanAttack() && (!unit.IsUnit() || core.HasMovementLeft(unit.Movement, lmc.movement.Options().EffectiveEpsilon())) {
		for _, at := range lmc.targeting.AttackableEnemies(unit) {
			launch := at.Launch
			actions = append(actions, &core.AttackAction{
				PlayerID: unit.Owner,
				UnitID:   unit.ID,
				Target:   at.Target,
				From:     &launch,
			})
		}
	}

	if unit.IsUnit() {
		reach := lmc.movement.ReachableTiles(unit, unit.Movement)
		for _, t := range reach.Order {
			if t == unit.Tile {
				continue
			}
			actions = append(actions, &core.MoveAction{PlayerID: unit.Owner, UnitID: unit.ID, To: t})
		}
		if unit.IsMilitary() && !unit.IsFortified() && !unit.IsAir() {
			actions = append(actions, &core.FortifyAction{PlayerID: unit.Owner, UnitID: unit.ID})
		}
	}
	return actions
}

// GetLegalActionMask returns a flattened boolean mask over tiles: index
// i*2 is set when the unit can move to tiles[i] and i*2+1 when it can attack it.
func (lmc *LegalMoveCalculator) GetLegalActionMask(unit *units.Combatant, tiles []core.TileID) []bool {
	mask := make([]bool, len(tiles)*2)
	if unit == nil || unit.IsDefeated() {
		return mask
	}

	index := make(map[core.TileID]int, len(tiles))
	for i, t := range tiles {
		index[t] = i
	}

	for _, action := range lmc.LegalActions(unit) {
		switch a := action.(type) {
		case *core.MoveAction:
			if i, ok := index[a.To]; ok {
				mask[i*2] = true
			}
		case *core.AttackAction:
			if i, ok := index[a.Target]; ok {
				mask[i*2+1] = true
			}
		}
	}
	return mask
}
