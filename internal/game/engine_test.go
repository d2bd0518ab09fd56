package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexTactics/internal/config"
	"github.com/mitchelldurbincs/HexTactics/internal/game/combat"
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
	"github.com/mitchelldurbincs/HexTactics/internal/game/movement"
	"github.com/mitchelldurbincs/HexTactics/internal/game/processor"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
	"github.com/mitchelldurbincs/HexTactics/internal/game/states"
	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
	"github.com/mitchelldurbincs/HexTactics/internal/testutil"
)

// newTestEngine builds a two-player engine over w. Combatants already in the
// registry are adopted.
func newTestEngine(t *testing.T, w *testutil.World, tweak func(*config.Config)) (*Engine, *testutil.EventLog) {
	t.Helper()
	cfg := config.Default()
	if tweak != nil {
		tweak(cfg)
	}
	e, err := NewEngine(context.Background(), GameConfig{
		GameID:   "test-game",
		Graph:    w.Graph,
		Registry: w.Registry,
		Players:  2,
		Config:   cfg,
		Rng:      testutil.NewTestRNG(42),
		Logger:   testutil.NopLogger(),
	})
	require.NoError(t, err)
	return e, testutil.RecordEvents(e.EventBus())
}

func startedEngine(t *testing.T, w *testutil.World, tweak func(*config.Config)) (*Engine, *testutil.EventLog) {
	t.Helper()
	e, rec := newTestEngine(t, w, tweak)
	require.NoError(t, e.Start())
	return e, rec
}

var farCorner = core.TileID{Q: -4, R: 4}

func TestNewEngine_AdoptsPlacedCombatants(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	w.Place(t, units.Warrior, 0, core.TileID{})
	w.PlaceCity(t, "Capital", 0, core.TileID{Q: -1, R: 0}, 8)
	w.Place(t, units.Warrior, 1, farCorner)

	e, _ := newTestEngine(t, w, nil)

	assert.Equal(t, "test-game", e.GameID())
	assert.Equal(t, states.PhaseSetup, e.CurrentPhase())
	assert.Equal(t, 0, e.Turn())
	assert.Len(t, e.Units(0), 2)
	assert.Len(t, e.Units(1), 1)
	assert.False(t, e.IsGameOver())
	assert.Equal(t, -1, e.GetWinner())
	assert.True(t, w.Graph.Frozen())
}

func TestNewEngine_InvalidConfig_ReturnsError(t *testing.T) {
	w := testutil.NewUniformWorld(2, registry.Grassland)
	badRules := config.Default()
	badRules.Recovery.UnitHeal = -5

	tests := []struct {
		name string
		cfg  GameConfig
	}{
		{"missing graph", GameConfig{Registry: w.Registry, Players: 2}},
		{"missing registry", GameConfig{Graph: w.Graph, Players: 2}},
		{"no players", GameConfig{Graph: w.Graph, Registry: w.Registry, Players: 0}},
		{"too many players", GameConfig{Graph: w.Graph, Registry: w.Registry, Players: maxVisibilityPlayers + 1}},
		{"invalid rules", GameConfig{Graph: w.Graph, Registry: w.Registry, Players: 2, Config: badRules}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Logger = testutil.NopLogger()
			e, err := NewEngine(context.Background(), tt.cfg)
			assert.Error(t, err)
			assert.Nil(t, e)
		})
	}
}

func TestNewEngine_CancelledContext_ReturnsError(t *testing.T) {
	w := testutil.NewUniformWorld(2, registry.Grassland)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(ctx, GameConfig{Graph: w.Graph, Registry: w.Registry, Players: 2, Logger: testutil.NopLogger()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_AddUnit_PlacementRules(t *testing.T) {
	w := testutil.NewUniformWorld(3, registry.Grassland)
	w.Registry.SetTerrain(core.TileID{Q: 1, R: 1}, registry.Mountain)
	e, _ := newTestEngine(t, w, nil)

	u, err := e.AddUnit(units.Spearman, 0, core.TileID{})
	require.NoError(t, err)
	assert.Equal(t, 0, u.Owner)
	got, ok := e.Unit(u.ID)
	require.True(t, ok)
	assert.Same(t, u, got)

	_, err = e.AddUnit(units.Warrior, 0, core.TileID{})
	assert.Error(t, err, "military slot already taken")

	_, err = e.AddUnit(units.Warrior, 0, core.TileID{Q: 10, R: 10})
	assert.ErrorIs(t, err, core.ErrInvalidTile)

	_, err = e.AddUnit(units.Warrior, 0, core.TileID{Q: 1, R: 1})
	assert.Error(t, err, "mountains are impassable")

	_, err = e.AddUnit(units.Warrior, 7, core.TileID{Q: 2, R: 0})
	assert.Error(t, err, "unknown player")

	_, err = e.AddCity("Rome", 1, core.TileID{Q: -3, R: 3}, 8)
	require.NoError(t, err)

	require.NoError(t, e.Start())
	_, err = e.AddUnit(units.Warrior, 0, core.TileID{Q: 2, R: 0})
	assert.Error(t, err, "placement is closed once running")
}

func TestEngine_Start_OneSide_Fails(t *testing.T) {
	w := testutil.NewUniformWorld(3, registry.Grassland)
	w.Place(t, units.Warrior, 0, core.TileID{})
	e, _ := newTestEngine(t, w, nil)

	assert.Error(t, e.Start())
	assert.Equal(t, states.PhaseSetup, e.CurrentPhase())
}

func TestEngine_Start_PublishesGameStarted(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	w.Place(t, units.Warrior, 0, core.TileID{})
	w.Place(t, units.Warrior, 1, farCorner)
	e, rec := newTestEngine(t, w, nil)

	require.NoError(t, e.Start())

	assert.Equal(t, states.PhaseRunning, e.CurrentPhase())
	started := rec.OfType(events.TypeGameStarted)
	require.Len(t, started, 1)
	ev := started[0].(*events.GameStartedEvent)
	assert.Equal(t, 2, ev.NumPlayers)
	assert.Equal(t, 61, ev.NumTiles)
	assert.Equal(t, 2, ev.NumUnits)
}

func TestEngine_ApplyMove_SpendsMovement(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	u := w.Place(t, units.Warrior, 0, core.TileID{})
	w.Place(t, units.Warrior, 1, farCorner)
	e, rec := startedEngine(t, w, nil)

	dest := core.TileID{Q: 2, R: 0}
	require.NoError(t, e.ApplyMove(&core.MoveAction{PlayerID: 0, UnitID: u.ID, To: dest}))

	assert.Equal(t, dest, u.Tile)
	assert.Same(t, u, w.Registry.MilitaryAt(dest))
	assert.Nil(t, w.Registry.MilitaryAt(core.TileID{}))
	assert.InDelta(t, 0, u.Movement, 1e-9)
	assert.True(t, u.MovedThisTurn)

	phase, ok := e.UnitPhase(u.ID)
	require.True(t, ok)
	assert.Equal(t, states.MoveExhausted, phase)

	moved := rec.OfType(events.TypeUnitMoved)
	require.Len(t, moved, 1)
	ev := moved[0].(*events.UnitMovedEvent)
	assert.Equal(t, core.TileID{}, ev.From)
	assert.Equal(t, dest, ev.To)
	assert.Equal(t, 2, ev.Steps)
}

func TestEngine_ApplyMove_PartialMove_KeepsRemainder(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	u := w.Place(t, units.Horseman, 0, core.TileID{})
	w.Place(t, units.Warrior, 1, farCorner)
	e, _ := startedEngine(t, w, nil)

	require.NoError(t, e.ApplyMove(&core.MoveAction{PlayerID: 0, UnitID: u.ID, To: core.TileID{Q: 0, R: -1}}))

	assert.InDelta(t, 3, u.Movement, 1e-9)
	phase, _ := e.UnitPhase(u.ID)
	assert.Equal(t, states.MovePartial, phase)
}

func TestEngine_ApplyMove_Embarks(t *testing.T) {
	w := testutil.NewWorldFromRows(t, "ggg", "gco", "ooo")
	u := w.Place(t, units.Warrior, 0, core.TileID{Q: 0, R: 1})
	w.Place(t, units.Warrior, 1, core.TileID{Q: 2, R: 0})
	e, _ := startedEngine(t, w, func(c *config.Config) { c.Vision.FogOfWar = false })

	require.NoError(t, e.ApplyMove(&core.MoveAction{PlayerID: 0, UnitID: u.ID, To: core.TileID{Q: 1, R: 1}}))
	assert.True(t, u.Embarked)
}

func TestEngine_ApplyAttack_DefeatsWoundedDefender_CapturesTile(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	attacker := w.Place(t, units.Warrior, 0, core.TileID{})
	target := core.TileID{Q: 1, R: 0}
	defender := w.Place(t, units.Warrior, 1, target)
	defender.Health = 1
	w.Place(t, units.Warrior, 1, farCorner)
	e, rec := startedEngine(t, w, nil)

	out, err := e.ApplyAttack(&core.AttackAction{PlayerID: 0, UnitID: attacker.ID, Target: target})
	require.NoError(t, err)

	assert.True(t, out.DefenderDefeated)
	assert.True(t, out.TileCaptured)
	assert.False(t, out.AttackerDefeated)
	assert.Equal(t, target, attacker.Tile)
	assert.Same(t, attacker, w.Registry.MilitaryAt(target))
	_, stillThere := e.Unit(defender.ID)
	assert.False(t, stillThere)
	assert.Equal(t, 1, attacker.AttacksThisTurn)
	assert.InDelta(t, 0, attacker.Movement, 1e-9, "a spent attack ends the unit's movement")

	require.Len(t, rec.OfType(events.TypeUnitDefeated), 1)
	require.Len(t, rec.OfType(events.TypeTileCaptured), 1)
	combatEvents := rec.OfType(events.TypeCombatResolved)
	require.Len(t, combatEvents, 1)
	ev := combatEvents[0].(*events.CombatResolvedEvent)
	assert.Equal(t, attacker.ID, ev.AttackerID)
	assert.Equal(t, defender.ID, ev.DefenderID)
	assert.True(t, ev.DefenderDefeated)
	assert.Equal(t, core.TileID{}, ev.From)
}

func TestEngine_ApplyAttack_MovesToLaunchTile(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	attacker := w.Place(t, units.Horseman, 0, core.TileID{})
	target := core.TileID{Q: 2, R: 0}
	defender := w.Place(t, units.Warrior, 1, target)
	defender.Health = 1
	w.Place(t, units.Warrior, 1, farCorner)
	e, _ := startedEngine(t, w, nil)

	launch := core.TileID{Q: 1, R: 0}
	_, err := e.ApplyAttack(&core.AttackAction{PlayerID: 0, UnitID: attacker.ID, Target: target, From: &launch})
	require.NoError(t, err)

	assert.Equal(t, target, attacker.Tile, "the winner advances after capture")
	assert.True(t, attacker.MovedThisTurn)
}

func TestEngine_ApplyAttack_CapturesCity(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	attacker := w.Place(t, units.Warrior, 0, core.TileID{})
	target := core.TileID{Q: 1, R: 0}
	city := w.PlaceCity(t, "Carthage", 1, target, 8)
	city.Health = 1
	w.Place(t, units.Warrior, 1, farCorner)
	e, rec := startedEngine(t, w, nil)

	out, err := e.ApplyAttack(&core.AttackAction{PlayerID: 0, UnitID: attacker.ID, Target: target})
	require.NoError(t, err)

	assert.False(t, out.DefenderDefeated, "cities change hands instead of being destroyed")
	assert.True(t, out.TileCaptured)
	assert.Equal(t, 0, city.Owner)
	assert.Equal(t, city.MaxHealth/CapturedCityHealthDivisor, city.Health)
	assert.Equal(t, target, attacker.Tile)
	assert.Same(t, city, w.Registry.CityAt(target))
	assert.Len(t, e.Units(0), 2)

	captured := rec.OfType(events.TypeTileCaptured)
	require.Len(t, captured, 1)
	assert.Equal(t, 1, captured[0].(*events.TileCapturedEvent).PreviousOwner)
	assert.Empty(t, rec.OfType(events.TypeUnitDefeated))
}

func TestEngine_ApplyAttack_RangedCannotTakeCity(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	archer := w.Place(t, units.Archer, 0, core.TileID{})
	target := core.TileID{Q: 2, R: 0}
	city := w.PlaceCity(t, "Carthage", 1, target, 8)
	city.Health = 3
	e, _ := startedEngine(t, w, nil)

	out, err := e.ApplyAttack(&core.AttackAction{PlayerID: 0, UnitID: archer.ID, Target: target})
	require.NoError(t, err)

	assert.Equal(t, 0, out.AttackerDamage)
	assert.False(t, out.TileCaptured)
	assert.Equal(t, 1, city.Owner)
	assert.Equal(t, MinCityHealth, city.Health)
	assert.Equal(t, core.TileID{}, archer.Tile)
}

func TestEngine_Preview_LeavesCombatantsUntouched(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	attacker := w.Place(t, units.Swordsman, 0, core.TileID{})
	defender := w.Place(t, units.Warrior, 1, core.TileID{Q: 1, R: 0})
	e, _ := startedEngine(t, w, nil)

	out, err := e.Preview(&core.AttackAction{PlayerID: 0, UnitID: attacker.ID, Target: defender.Tile})
	require.NoError(t, err)

	assert.Positive(t, out.DefenderDamage)
	assert.Equal(t, 100, attacker.Health)
	assert.Equal(t, 100, defender.Health)
	assert.Zero(t, attacker.AttacksThisTurn)
}

func TestEngine_ApplyFortify_EndsTurnInPlace(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	u := w.Place(t, units.Spearman, 0, core.TileID{})
	w.Place(t, units.Warrior, 1, farCorner)
	e, rec := startedEngine(t, w, nil)

	require.NoError(t, e.ApplyFortify(&core.FortifyAction{PlayerID: 0, UnitID: u.ID}))

	assert.True(t, u.IsFortified())
	assert.False(t, u.MovedThisTurn)
	assert.InDelta(t, 0, u.Movement, 1e-9)
	assert.Len(t, rec.OfType(events.TypeUnitFortified), 1)

	err := e.ApplyFortify(&core.FortifyAction{PlayerID: 0, UnitID: u.ID})
	assert.ErrorIs(t, err, core.ErrCannotFortify)
}

func TestEngine_ApplyAttack_NoMovementLeft_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		drain func(t *testing.T, e *Engine, u *units.Combatant)
	}{
		{
			name:  "movement spent",
			drain: func(_ *testing.T, _ *Engine, u *units.Combatant) { u.Movement = 0 },
		},
		{
			name: "fortified this turn",
			drain: func(t *testing.T, e *Engine, u *units.Combatant) {
				require.NoError(t, e.ApplyFortify(&core.FortifyAction{PlayerID: 0, UnitID: u.ID}))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.NewUniformWorld(4, registry.Grassland)
			attacker := w.Place(t, units.Warrior, 0, core.TileID{})
			target := core.TileID{Q: 1, R: 0}
			defender := w.Place(t, units.Warrior, 1, target)
			e, rec := startedEngine(t, w, nil)
			tt.drain(t, e, attacker)

			action := &core.AttackAction{PlayerID: 0, UnitID: attacker.ID, Target: target}
			_, err := e.ApplyAttack(action)
			require.ErrorIs(t, err, core.ErrNoMovement)
			assert.ErrorIs(t, e.Validate(action), core.ErrNoMovement)

			_, err = e.Preview(action)
			assert.ErrorIs(t, err, core.ErrNoMovement)
			assert.Equal(t, defender.MaxHealth, defender.Health)
			assert.Zero(t, attacker.AttacksThisTurn)
			assert.Empty(t, rec.OfType(events.TypeCombatResolved))
			for _, a := range e.LegalActions(attacker.ID) {
				assert.NotEqual(t, core.ActionAttack, a.GetType())
			}
		})
	}
}

func TestEngine_SetRules_AppliesAtNextTurn(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	attacker := w.Place(t, units.Warrior, 0, core.TileID{})
	target := core.TileID{Q: 1, R: 0}
	w.Place(t, units.Warrior, 1, target)
	w.Place(t, units.Warrior, 1, farCorner)
	e, _ := startedEngine(t, w, nil)

	action := &core.AttackAction{PlayerID: 0, UnitID: attacker.ID, Target: target}
	before, err := e.Preview(action)
	require.NoError(t, err)

	harsher := combat.DefaultRuleset()
	harsher.BaseDamage = 60
	opts := movement.DefaultOptions()
	opts.ZoneOfControl = false
	e.SetRules(harsher, opts)

	midTurn, err := e.Preview(action)
	require.NoError(t, err)
	assert.Equal(t, before.DefenderDamage, midTurn.DefenderDamage, "a turn keeps the rules it started with")
	assert.Equal(t, combat.DefaultRuleset(), e.Rules())
	assert.True(t, e.MovementOptions().ZoneOfControl)

	require.NoError(t, e.ProcessTurn(context.Background(), nil))

	assert.Equal(t, harsher, e.Rules())
	assert.Equal(t, opts, e.MovementOptions())
	after, err := e.Preview(action)
	require.NoError(t, err)
	assert.Greater(t, after.DefenderDamage, before.DefenderDamage)
}

func TestEngine_ApplyAction_Unsupported_ReturnsError(t *testing.T) {
	w := testutil.NewUniformWorld(2, registry.Grassland)
	e, _ := newTestEngine(t, w, nil)

	err := e.ApplyAction(nil)
	assert.ErrorIs(t, err, core.ErrUnsupportedAction)
}

func TestEngine_ProcessTurn_NotStarted_ReturnsError(t *testing.T) {
	w := testutil.NewUniformWorld(2, registry.Grassland)
	e, _ := newTestEngine(t, w, nil)

	assert.Error(t, e.ProcessTurn(context.Background(), nil))
	assert.Equal(t, 0, e.Turn())
}

func TestEngine_ProcessTurn_CancelledContext(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	w.Place(t, units.Warrior, 0, core.TileID{})
	w.Place(t, units.Warrior, 1, farCorner)
	e, _ := startedEngine(t, w, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.ProcessTurn(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, e.Turn())
}

func TestEngine_ProcessTurn_AppliesActionsAndRefreshes(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	mover := w.Place(t, units.Warrior, 0, core.TileID{})
	enemy := w.Place(t, units.Warrior, 1, farCorner)
	e, rec := startedEngine(t, w, nil)

	actions := []core.Action{
		&core.MoveAction{PlayerID: 1, UnitID: enemy.ID, To: core.TileID{Q: -3, R: 4}},
		&core.MoveAction{PlayerID: 0, UnitID: mover.ID, To: core.TileID{Q: 1, R: 0}},
		&core.MoveAction{PlayerID: 0, UnitID: enemy.ID, To: core.TileID{Q: -4, R: 3}},
	}
	require.NoError(t, e.ProcessTurn(context.Background(), actions))

	assert.Equal(t, 1, e.Turn())
	assert.Equal(t, core.TileID{Q: 1, R: 0}, mover.Tile)
	assert.Equal(t, core.TileID{Q: -3, R: 4}, enemy.Tile)
	assert.InDelta(t, mover.MaxMovement, mover.Movement, 1e-9, "movement is refreshed for the next turn")
	assert.False(t, mover.MovedThisTurn)

	rejected := rec.OfType(events.TypeActionRejected)
	require.Len(t, rejected, 1)
	assert.Contains(t, rejected[0].(*events.ActionRejectedEvent).Reason, core.ErrNotOwned.Error())

	ended := rec.OfType(events.TypeTurnEnded)
	require.Len(t, ended, 1)
	ev := ended[0].(*events.TurnEndedEvent)
	assert.Equal(t, 3, ev.ActionsCount)
	assert.Equal(t, 1, ev.Rejected)

	moved := rec.OfType(events.TypeUnitMoved)
	require.Len(t, moved, 2)
	assert.Equal(t, 0, moved[0].(*events.UnitMovedEvent).PlayerID, "lower player IDs act first")
}

func TestEngine_ProcessTurn_HealsRestingUnits(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	resting := w.Place(t, units.Warrior, 0, core.TileID{})
	resting.Health = 50
	fortifying := w.Place(t, units.Spearman, 0, core.TileID{Q: -1, R: 0})
	fortifying.Health = 50
	marching := w.Place(t, units.Warrior, 0, core.TileID{Q: 0, R: -2})
	marching.Health = 50
	w.Place(t, units.Warrior, 1, farCorner)
	e, rec := startedEngine(t, w, nil)

	actions := []core.Action{
		&core.FortifyAction{PlayerID: 0, UnitID: fortifying.ID},
		&core.MoveAction{PlayerID: 0, UnitID: marching.ID, To: core.TileID{Q: 1, R: -2}},
	}
	require.NoError(t, e.ProcessTurn(context.Background(), actions))

	assert.Equal(t, 60, resting.Health)
	assert.Equal(t, 70, fortifying.Health)
	assert.Equal(t, 50, marching.Health)

	healed := rec.OfType(events.TypeHealingApplied)
	require.Len(t, healed, 1)
	ev := healed[0].(*events.HealingAppliedEvent)
	assert.Equal(t, 2, ev.UnitsHealed)
	assert.Equal(t, 30, ev.TotalHealth)
}

func TestEngine_ProcessTurn_LastSideStanding_Wins(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	attacker := w.Place(t, units.Warrior, 0, core.TileID{})
	defender := w.Place(t, units.Warrior, 1, core.TileID{Q: 1, R: 0})
	defender.Health = 1
	e, rec := startedEngine(t, w, nil)

	err := e.ProcessTurn(context.Background(), []core.Action{
		&core.AttackAction{PlayerID: 0, UnitID: attacker.ID, Target: defender.Tile},
	})
	require.NoError(t, err)

	assert.True(t, e.IsGameOver())
	assert.Equal(t, 0, e.GetWinner())
	assert.Equal(t, states.PhaseEnded, e.CurrentPhase())

	gs := e.GameState()
	assert.False(t, gs.Players[1].Alive)
	assert.Equal(t, 0, gs.Players[1].EliminatedBy)
	assert.Len(t, rec.OfType(events.TypePlayerEliminated), 1)
	assert.Len(t, rec.OfType(events.TypeGameEnded), 1)

	err = e.ProcessTurn(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrGameOver)
	assert.ErrorIs(t, e.Validate(&core.FortifyAction{PlayerID: 0, UnitID: attacker.ID}), core.ErrGameOver)
}

func TestEngine_ProcessTurn_TurnLimit_HealthiestWins(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	w.Place(t, units.Warrior, 0, core.TileID{})
	wounded := w.Place(t, units.Warrior, 1, farCorner)
	wounded.Health = 40
	e, _ := startedEngine(t, w, func(c *config.Config) { c.Simulation.MaxTurns = 2 })

	require.NoError(t, e.ProcessTurn(context.Background(), nil))
	assert.False(t, e.IsGameOver())
	require.NoError(t, e.ProcessTurn(context.Background(), nil))

	assert.True(t, e.IsGameOver())
	assert.Equal(t, 0, e.GetWinner())
	assert.Equal(t, 2, e.Turn())
}

type recordingObserver struct {
	turns  int
	ended  bool
	winner int
}

func (o *recordingObserver) OnTurnProcessed(prev, curr *GameState, _ []core.Action, _ processor.Result) {
	if curr.Turn == prev.Turn+1 {
		o.turns++
	}
}

func (o *recordingObserver) OnGameEnd(_ *GameState, winner int) {
	o.ended = true
	o.winner = winner
}

func TestEngine_TurnObserver_SeesEveryTurn(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	w.Place(t, units.Warrior, 0, core.TileID{})
	w.Place(t, units.Warrior, 1, farCorner)

	obs := &recordingObserver{winner: -2}
	cfg := config.Default()
	cfg.Simulation.MaxTurns = 3
	e, err := NewEngine(context.Background(), GameConfig{
		Graph: w.Graph, Registry: w.Registry, Players: 2, Config: cfg,
		Rng: testutil.NewTestRNG(1), Logger: testutil.NopLogger(), TurnObserver: obs,
	})
	require.NoError(t, err)
	require.NoError(t, e.Start())

	for !e.IsGameOver() {
		require.NoError(t, e.ProcessTurn(context.Background(), nil))
	}

	assert.Equal(t, 3, obs.turns)
	assert.True(t, obs.ended)
	assert.Equal(t, -1, obs.winner, "equal health at the turn limit is a draw")
}

func TestEngine_Abort_MovesToErrorPhase(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	w.Place(t, units.Warrior, 0, core.TileID{})
	w.Place(t, units.Warrior, 1, farCorner)
	e, _ := startedEngine(t, w, nil)

	require.NoError(t, e.Abort(errors.New("agent crashed")))

	assert.Equal(t, states.PhaseError, e.CurrentPhase())
	assert.True(t, e.IsGameOver())
	assert.Error(t, e.ProcessTurn(context.Background(), nil))
}

func TestEngine_Board_HidesFoggedTiles(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	w.Place(t, units.Warrior, 0, core.TileID{})
	w.Place(t, units.Archer, 1, farCorner)
	e, _ := startedEngine(t, w, nil)

	full := e.Board(-1)
	assert.Contains(t, full, "Aw")
	assert.Contains(t, full, "Ba")

	fogged := e.Board(0)
	assert.Contains(t, fogged, "Aw")
	assert.NotContains(t, fogged, "Ba")
}
