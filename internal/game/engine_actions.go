package game

import (
	"fmt"

	"github.com/mitchelldurbincs/HexTactics/internal/game/combat"
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
	"github.com/mitchelldurbincs/HexTactics/internal/game/movement"
	"github.com/mitchelldurbincs/HexTactics/internal/game/targeting"
	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
)

// ApplyAction validates and applies a single action. It implements
// processor.ActionApplier.
func (e *Engine) ApplyAction(action core.Action) error {
	switch a := action.(type) {
	case *core.MoveAction:
		return e.ApplyMove(a)
	case *core.AttackAction:
		_, err := e.ApplyAttack(a)
		return err
	case *core.FortifyAction:
		return e.ApplyFortify(a)
	default:
		return core.WrapActionError(action, core.ErrUnsupportedAction)
	}
}

// Validate reports why an action would be rejected, without applying it
func (e *Engine) Validate(action core.Action) error {
	var err error
	switch a := action.(type) {
	case *core.MoveAction:
		_, _, err = e.validateMove(a)
	case *core.AttackAction:
		_, _, err = e.validateAttack(a)
	case *core.FortifyAction:
		_, err = e.validateFortify(a)
	default:
		err = core.ErrUnsupportedAction
	}
	return core.WrapActionError(action, err)
}

// lookup finds the acting unit and checks the player may command it
func (e *Engine) lookup(playerID int, action core.Action) (*units.Combatant, error) {
	if e.gameOver {
		return nil, core.ErrGameOver
	}
	if phase := e.stateMachine.CurrentPhase(); !phase.CanReceiveActions() {
		return nil, fmt.Errorf("cannot act in %s phase", phase)
	}
	c, ok := e.units[action.GetUnitID()]
	if !ok || c.IsDefeated() {
		return nil, core.ErrUnknownUnit
	}
	if c.Owner != playerID {
		return nil, core.ErrNotOwned
	}
	return c, nil
}

func (e *Engine) validateMove(a *core.MoveAction) (*units.Combatant, movement.Reachability, error) {
	unit, err := e.lookup(a.PlayerID, a)
	if err != nil {
		return nil, movement.Reachability{}, err
	}
	if !unit.IsUnit() {
		return nil, movement.Reachability{}, core.ErrNoMovement
	}
	if !e.graph.Contains(a.To) {
		return nil, movement.Reachability{}, core.ErrInvalidTile
	}
	if !core.HasMovementLeft(unit.Movement, e.movement.Options().EffectiveEpsilon()) {
		return nil, movement.Reachability{}, core.ErrNoMovement
	}
	if a.To == unit.Tile {
		return nil, movement.Reachability{}, core.ErrDestinationUnreachable
	}
	if e.registry.HasHostile(a.To, unit.Owner) {
		return nil, movement.Reachability{}, core.ErrDestinationOccupied
	}
	if blocker := e.sameSlotOccupant(unit, a.To); blocker != nil {
		return nil, movement.Reachability{}, core.ErrDestinationOccupied
	}

	reach := e.movement.ReachableTiles(unit, unit.Movement)
	if !reach.Contains(a.To) {
		return nil, movement.Reachability{}, core.ErrDestinationUnreachable
	}
	return unit, reach, nil
}

// sameSlotOccupant returns a friendly combatant already holding the slot the
// unit would need on t
func (e *Engine) sameSlotOccupant(unit *units.Combatant, t core.TileID) *units.Combatant {
	var other *units.Combatant
	if unit.IsCivilian() {
		other = e.registry.CivilianAt(t)
	} else {
		other = e.registry.MilitaryAt(t)
	}
	if other == nil || other.ID == unit.ID {
		return nil
	}
	return other
}

// ApplyMove moves a unit along its cheapest route
func (e *Engine) ApplyMove(a *core.MoveAction) error {
	unit, reach, err := e.validateMove(a)
	if err != nil {
		return core.WrapActionError(a, err)
	}

	from := unit.Tile
	path := reach.PathTo(a.To)
	if err := e.relocate(unit, a.To, reach.Remaining[a.To]); err != nil {
		return core.WrapActionError(a, err)
	}

	e.observe(unit, "moved")
	e.eventBus.Publish(events.NewUnitMovedEvent(e.gameID, unit.Owner, unit.ID, from, a.To, len(path)-1, unit.Movement))
	e.logger.Debug().
		Stringer("unit", unit).
		Stringer("from", from).
		Float64("remaining", unit.Movement).
		Msg("Unit moved")
	return nil
}

// relocate moves a unit in the registry and charges the movement it used
func (e *Engine) relocate(unit *units.Combatant, to core.TileID, remaining float64) error {
	if unit.Tile == to {
		return nil
	}
	if err := e.registry.Move(unit, to); err != nil {
		return err
	}
	unit.SpendMovement(unit.Movement - remaining)
	unit.Embarked = unit.Class == units.ClassLand && e.registry.TerrainOf(to).IsWater()
	e.visibility.MarkDirty(unit.Owner)
	return nil
}

func (e *Engine) validateAttack(a *core.AttackAction) (*units.Combatant, targeting.AttackableTile, error) {
	attacker, err := e.lookup(a.PlayerID, a)
	if err != nil {
		return nil, targeting.AttackableTile{}, err
	}
	if !attacker.CanAttack() {
		return nil, targeting.AttackableTile{}, core.ErrCannotAttack
	}
	if attacker.IsUnit() && !core.HasMovementLeft(attacker.Movement, e.movement.Options().EffectiveEpsilon()) {
		return nil, targeting.AttackableTile{}, core.ErrNoMovement
	}
	if !e.graph.Contains(a.Target) {
		return nil, targeting.AttackableTile{}, core.ErrInvalidTile
	}
	defender := e.registry.OccupantOf(a.Target)
	if defender == nil || defender.Owner == attacker.Owner {
		return nil, targeting.AttackableTile{}, core.ErrNotHostile
	}
	if !e.targeting.ContainsAttackableEnemy(attacker, a.Target) {
		return nil, targeting.AttackableTile{}, core.ErrCannotAttack
	}

	options := e.targeting.AttackableTiles(attacker, a.Target)
	if len(options) == 0 {
		return nil, targeting.AttackableTile{}, core.ErrOutOfRange
	}
	if a.From == nil {
		return attacker, options[0], nil
	}
	for _, opt := range options {
		if opt.Launch == *a.From {
			return attacker, opt, nil
		}
	}
	return nil, targeting.AttackableTile{}, core.ErrOutOfRange
}

// battleContext gathers the situational inputs for one battle
func (e *Engine) battleContext(attacker, defender *units.Combatant, launch, target core.TileID) combat.Context {
	launchTerrain := e.registry.TerrainOf(launch)
	targetTerrain := e.registry.TerrainOf(target)
	ctx := combat.Context{
		AttackerTerrain:  launchTerrain,
		DefenderTerrain:  targetTerrain,
		AttackerEmbarked: attacker.Class == units.ClassLand && launchTerrain.IsWater(),
		DefenderEmbarked: defender.Embarked,
		Resources:        e.resources[attacker.Owner],
	}
	if attacker.IsUnit() && attacker.IsMelee() {
		ctx.CrossesRiver = e.registry.HasRiver(launch, target)
		ctx.FlankingUnits = e.flankers(attacker, target)
	}
	return ctx
}

// flankers counts the attacker's other melee units next to target
func (e *Engine) flankers(attacker *units.Combatant, target core.TileID) int {
	count := 0
	for _, n := range e.graph.Neighbors(target) {
		m := e.registry.MilitaryAt(n)
		if m == nil || m.ID == attacker.ID || m.Owner != attacker.Owner {
			continue
		}
		if m.IsMelee() && !m.IsDefeated() {
			count++
		}
	}
	return count
}

// ApplyAttack moves the attacker to its launch tile if needed, resolves the
// battle and applies the consequences: defeat, tile capture and city capture.
func (e *Engine) ApplyAttack(a *core.AttackAction) (combat.Outcome, error) {
	attacker, option, err := e.validateAttack(a)
	if err != nil {
		return combat.Outcome{}, core.WrapActionError(a, err)
	}
	defender := option.Combatant

	if err := e.relocate(attacker, option.Launch, option.MovementLeft); err != nil {
		return combat.Outcome{}, core.WrapActionError(a, err)
	}

	ctx := e.battleContext(attacker, defender, option.Launch, option.Target)
	roll := e.rng.Float64()
	ctx.RandomnessFactor = &roll
	out := combat.Resolve(attacker, defender, ctx, e.rules)
	combat.Apply(out, attacker, defender)

	if attacker.IsUnit() {
		if attacker.CanAttack() {
			attacker.SpendMovement(FollowUpAttackCost)
		} else {
			attacker.SpendMovement(attacker.Movement)
		}
	}

	switch {
	case defender.IsCity() && defender.Health <= 0:
		out.DefenderDefeated = false
		if attacker.IsUnit() && attacker.Class == units.ClassLand && attacker.IsMelee() && !out.AttackerDefeated {
			e.captureCity(attacker, defender)
			out.TileCaptured = true
		} else {
			defender.Health = MinCityHealth
		}
	case out.DefenderDefeated:
		e.removeCombatant(defender, attacker.Owner)
		if city := e.registry.CityAt(option.Target); city != nil && city.Owner != attacker.Owner {
			out.TileCaptured = false
		}
		if out.TileCaptured {
			e.occupy(attacker, option.Target, defender.Owner)
		}
	}
	if out.AttackerDefeated {
		e.removeCombatant(attacker, defender.Owner)
	} else {
		e.observe(attacker, "attacked")
	}

	ev := events.NewCombatResolvedEvent(e.gameID, attacker.ID, defender.ID, attacker.Owner, defender.Owner, option.Launch, option.Target)
	ev.AttackStrength = out.AttackStrength
	ev.DefenseStrength = out.DefenseStrength
	ev.AttackerDamage = out.AttackerDamage
	ev.DefenderDamage = out.DefenderDamage
	ev.AttackerDefeated = out.AttackerDefeated
	ev.DefenderDefeated = out.DefenderDefeated
	ev.TileCaptured = out.TileCaptured
	e.eventBus.Publish(ev)

	e.visibility.MarkDirty(attacker.Owner)
	e.visibility.MarkDirty(defender.Owner)

	e.logger.Debug().
		Stringer("attacker", attacker).
		Stringer("defender", defender).
		Int("attacker_damage", out.AttackerDamage).
		Int("defender_damage", out.DefenderDamage).
		Bool("captured", out.TileCaptured).
		Msg("Combat resolved")
	return out, nil
}

// captureCity hands a beaten city to the attacker, who moves in
func (e *Engine) captureCity(attacker, city *units.Combatant) {
	previous := city.Owner
	city.Owner = attacker.Owner
	city.Health = max(city.MaxHealth/CapturedCityHealthDivisor, MinCityHealth)
	city.AttacksThisTurn = city.MaxAttacks
	e.lastDefeatedBy[previous] = attacker.Owner
	e.occupy(attacker, city.Tile, previous)
	e.visibility.MarkDirty(previous)
}

// occupy moves a victorious melee attacker onto target. Enemy civilians on
// the tile are taken out.
func (e *Engine) occupy(attacker *units.Combatant, target core.TileID, previousOwner int) {
	if civ := e.registry.CivilianAt(target); civ != nil && civ.Owner != attacker.Owner {
		e.removeCombatant(civ, attacker.Owner)
	}
	if err := e.registry.Move(attacker, target); err != nil {
		e.logger.Warn().Err(err).Stringer("unit", attacker).Msg("Failed to advance after capture")
		return
	}
	attacker.Embarked = attacker.Class == units.ClassLand && e.registry.TerrainOf(target).IsWater()
	e.eventBus.Publish(events.NewTileCapturedEvent(e.gameID, attacker.Owner, attacker.ID, target, previousOwner))
}

// removeCombatant takes a defeated combatant off the map
func (e *Engine) removeCombatant(c *units.Combatant, defeatedBy int) {
	e.registry.Remove(c)
	delete(e.units, c.ID)
	e.unitTurns.Forget(c.ID)
	e.lastDefeatedBy[c.Owner] = defeatedBy
	e.visibility.MarkDirty(c.Owner)
	e.eventBus.Publish(events.NewUnitDefeatedEvent(e.gameID, c.ID, c.Owner, c.Name, c.Tile, defeatedBy))
}

func (e *Engine) validateFortify(a *core.FortifyAction) (*units.Combatant, error) {
	unit, err := e.lookup(a.PlayerID, a)
	if err != nil {
		return nil, err
	}
	if !unit.IsUnit() || !unit.IsMilitary() || unit.IsAir() || unit.IsFortified() {
		return nil, core.ErrCannotFortify
	}
	return unit, nil
}

// ApplyFortify ends the unit's turn and starts fortifying
func (e *Engine) ApplyFortify(a *core.FortifyAction) error {
	unit, err := e.validateFortify(a)
	if err != nil {
		return core.WrapActionError(a, err)
	}
	unit.Fortify()
	unit.Movement = 0
	e.observe(unit, "fortified")
	e.eventBus.Publish(events.NewUnitFortifiedEvent(e.gameID, unit.Owner, unit.ID, unit.Tile))
	return nil
}

// observe keeps the unit's movement phase in step with its remaining movement
func (e *Engine) observe(unit *units.Combatant, reason string) {
	if !unit.IsUnit() {
		return
	}
	if _, err := e.unitTurns.Observe(unit.ID, unit.Movement, unit.MaxMovement, reason); err != nil {
		e.logger.Warn().Err(err).Stringer("unit", unit).Msg("Unit phase out of sync")
	}
}
