package game

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexTactics/internal/config"
	"github.com/mitchelldurbincs/HexTactics/internal/game/combat"
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
	"github.com/mitchelldurbincs/HexTactics/internal/game/hexmap"
	"github.com/mitchelldurbincs/HexTactics/internal/game/movement"
	"github.com/mitchelldurbincs/HexTactics/internal/game/processor"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
	"github.com/mitchelldurbincs/HexTactics/internal/game/rules"
	"github.com/mitchelldurbincs/HexTactics/internal/game/states"
	"github.com/mitchelldurbincs/HexTactics/internal/game/targeting"
	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
)

// Engine runs a skirmish on a frozen map. It is driven from one goroutine;
// the resolvers it hands out are safe to read concurrently between actions.
type Engine struct {
	gs       *GameState
	graph    *hexmap.Graph
	registry *registry.Registry
	units    map[uuid.UUID]*units.Combatant

	rules  combat.Ruleset
	config *config.Config

	// pendingRules waits for the next turn boundary
	rulesMu      sync.Mutex
	pendingRules *ruleChange

	movement        *movement.Resolver
	targeting       *targeting.Resolver
	visibility      *VisibilityTracker
	legalMoves      *rules.LegalMoveCalculator
	winCondition    *rules.WinConditionChecker
	actionProcessor *processor.ActionProcessor
	recovery        *RecoveryManager
	turnProcessor   *TurnProcessor
	observer        TurnObserver

	eventBus     *events.EventBus
	stateMachine *states.StateMachine
	unitTurns    *states.UnitTurnMachine

	rng      *rand.Rand
	logger   zerolog.Logger
	gameID   string
	gameOver bool
	winner   int

	resources      map[int]map[string]bool
	lastDefeatedBy map[int]int
}

type ruleChange struct {
	combat   combat.Ruleset
	movement movement.Options
}

// SetRules queues a new combat ruleset and movement options. They take effect
// when the next turn starts, so every action in a turn is judged by the same
// rules. Safe to call from any goroutine.
func (e *Engine) SetRules(rs combat.Ruleset, opts movement.Options) {
	e.rulesMu.Lock()
	defer e.rulesMu.Unlock()
	e.pendingRules = &ruleChange{combat: rs, movement: opts}
}

// Rules returns the combat ruleset in force this turn
func (e *Engine) Rules() combat.Ruleset {
	return e.rules
}

// MovementOptions returns the movement rules in force this turn
func (e *Engine) MovementOptions() movement.Options {
	return e.movement.Options()
}

func (e *Engine) applyPendingRules() {
	e.rulesMu.Lock()
	change := e.pendingRules
	e.pendingRules = nil
	e.rulesMu.Unlock()
	if change == nil {
		return
	}

	e.rules = change.combat
	e.movement.SetOptions(change.movement)
	e.logger.Info().
		Int("turn", e.gs.Turn+1).
		Float64("base_damage", e.rules.BaseDamage).
		Bool("zone_of_control", change.movement.ZoneOfControl).
		Msg("Rules reloaded")
}

// adopt starts tracking a combatant that is already in the registry
func (e *Engine) adopt(c *units.Combatant) {
	e.units[c.ID] = c
	if c.IsUnit() {
		e.unitTurns.Track(c.ID)
	}
	e.visibility.MarkDirty(c.Owner)
}

// AddUnit places a new unit during setup
func (e *Engine) AddUnit(tpl units.Template, owner int, tile core.TileID) (*units.Combatant, error) {
	if err := e.checkPlacement(owner, tile); err != nil {
		return nil, err
	}
	u := units.New(tpl, owner, tile)
	u.Embarked = u.Class == units.ClassLand && e.registry.TerrainOf(tile).IsWater()
	if err := e.registry.Place(u); err != nil {
		return nil, fmt.Errorf("place %s at %s: %w", tpl.Name, tile, err)
	}
	e.adopt(u)
	e.logger.Debug().Stringer("unit", u).Msg("Unit added")
	return u, nil
}

// AddCity places a new city during setup
func (e *Engine) AddCity(name string, owner int, tile core.TileID, strength float64) (*units.Combatant, error) {
	if err := e.checkPlacement(owner, tile); err != nil {
		return nil, err
	}
	c := units.NewCity(name, owner, tile, strength, 0)
	if err := e.registry.Place(c); err != nil {
		return nil, fmt.Errorf("place city %s at %s: %w", name, tile, err)
	}
	e.adopt(c)
	e.logger.Debug().Stringer("city", c).Msg("City added")
	return c, nil
}

func (e *Engine) checkPlacement(owner int, tile core.TileID) error {
	if phase := e.stateMachine.CurrentPhase(); !phase.CanPlaceUnits() {
		return fmt.Errorf("cannot place combatants in %s phase", phase)
	}
	if owner < 0 || owner >= len(e.gs.Players) {
		return fmt.Errorf("unknown player %d", owner)
	}
	if !e.graph.Contains(tile) {
		return core.WrapTopologyError(tile, tile, core.ErrInvalidTile)
	}
	if e.registry.TerrainOf(tile).IsImpassable() {
		return fmt.Errorf("tile %s is impassable", tile)
	}
	return nil
}

// SetResources replaces the strategic resources a player controls
func (e *Engine) SetResources(playerID int, resources []string) {
	set := make(map[string]bool, len(resources))
	for _, r := range resources {
		set[r] = true
	}
	e.resources[playerID] = set
}

// Start leaves setup and begins turn 1
func (e *Engine) Start() error {
	e.updatePlayerStats()
	if err := e.stateMachine.TransitionTo(states.PhaseRunning, "Armies placed"); err != nil {
		return fmt.Errorf("start skirmish: %w", err)
	}
	e.eventBus.Publish(events.NewGameStartedEvent(e.gameID, len(e.gs.Players), e.graph.Len(), len(e.units)))
	return nil
}

// StartTurn readies every combatant for a new turn. Queued rules take effect
// first, then resting combatants heal and movement and attacks are refreshed.
func (e *Engine) StartTurn() {
	e.applyPendingRules()
	combatants := e.registry.Combatants()
	e.recovery.ProcessTurnRecovery(combatants, e.gs.Turn)
	for _, c := range combatants {
		c.StartTurn(e.rules.MaxFortificationTurns)
	}
	e.unitTurns.NewTurn(fmt.Sprintf("turn %d begins", e.gs.Turn+1))
	e.visibility.MarkAllDirty()
}

// Abort moves the skirmish to the error phase
func (e *Engine) Abort(err error) error {
	ctx := e.stateMachine.GetContext()
	ctx.Error = err
	e.gameOver = true
	return e.stateMachine.TransitionTo(states.PhaseError, err.Error())
}

// Unit looks up a combatant by ID
func (e *Engine) Unit(id uuid.UUID) (*units.Combatant, bool) {
	c, ok := e.units[id]
	return c, ok
}

// Units returns a player's combatants ordered by tile
func (e *Engine) Units(playerID int) []*units.Combatant {
	var out []*units.Combatant
	for _, c := range e.units {
		if c.Owner == playerID && !c.IsDefeated() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tile != out[j].Tile {
			return out[i].Tile.Less(out[j].Tile)
		}
		return out[i].IsUnit() && !out[j].IsUnit()
	})
	return out
}

// ReachableTiles returns where the unit can stop this turn
func (e *Engine) ReachableTiles(id uuid.UUID) (movement.Reachability, error) {
	c, ok := e.units[id]
	if !ok {
		return movement.Reachability{}, core.ErrUnknownUnit
	}
	return e.movement.ReachableTiles(c, c.Movement), nil
}

// AttackableTiles lists the ways the unit can attack target this turn
func (e *Engine) AttackableTiles(id uuid.UUID, target core.TileID) ([]targeting.AttackableTile, error) {
	c, ok := e.units[id]
	if !ok {
		return nil, core.ErrUnknownUnit
	}
	return e.targeting.AttackableTiles(c, target), nil
}

// AttackableEnemies lists every enemy the unit can attack this turn
func (e *Engine) AttackableEnemies(id uuid.UUID) ([]targeting.AttackableTile, error) {
	c, ok := e.units[id]
	if !ok {
		return nil, core.ErrUnknownUnit
	}
	return e.targeting.AttackableEnemies(c), nil
}

// ShortestPath returns the hop-shortest route for the unit over any number of turns
func (e *Engine) ShortestPath(id uuid.UUID, dest core.TileID) ([]core.TileID, error) {
	c, ok := e.units[id]
	if !ok {
		return nil, core.ErrUnknownUnit
	}
	return e.movement.ShortestPath(c, dest), nil
}

// LegalActions lists what the unit may do right now
func (e *Engine) LegalActions(id uuid.UUID) []core.Action {
	c, ok := e.units[id]
	if !ok || e.gameOver {
		return nil
	}
	return e.legalMoves.LegalActions(c)
}

// Preview predicts an attack without changing anything. The ruleset's
// default randomness is used.
func (e *Engine) Preview(action *core.AttackAction) (combat.Outcome, error) {
	attacker, option, err := e.validateAttack(action)
	if err != nil {
		return combat.Outcome{}, core.WrapActionError(action, err)
	}
	ctx := e.battleContext(attacker, option.Combatant, option.Launch, option.Target)
	return combat.Preview(attacker, option.Combatant, ctx, e.rules), nil
}

// ProcessTurn applies a batch of actions as one turn
func (e *Engine) ProcessTurn(ctx context.Context, actions []core.Action) error {
	return e.turnProcessor.ProcessTurn(ctx, actions)
}

// Public accessors
func (e *Engine) GameState() GameState                                { return *e.gs.Clone() }
func (e *Engine) IsGameOver() bool                                    { return e.gameOver }
func (e *Engine) GameID() string                                      { return e.gameID }
func (e *Engine) Turn() int                                           { return e.gs.Turn }
func (e *Engine) Graph() *hexmap.Graph                                { return e.graph }
func (e *Engine) Registry() *registry.Registry                        { return e.registry }
func (e *Engine) EventBus() *events.EventBus                          { return e.eventBus }
func (e *Engine) Visibility() *VisibilityTracker                      { return e.visibility }
func (e *Engine) CurrentPhase() states.GamePhase                      { return e.stateMachine.CurrentPhase() }
func (e *Engine) StateHistory() []states.Transition                   { return e.stateMachine.GetHistory() }
func (e *Engine) UnitPhase(id uuid.UUID) (states.MovementPhase, bool) { return e.unitTurns.Phase(id) }

// GetWinner returns the winning player ID, or -1 if the game isn't over or was drawn
func (e *Engine) GetWinner() int {
	if !e.gameOver {
		return -1
	}
	return e.winner
}

// checkGameOver ends the skirmish when a side is left standing or the turn
// limit is reached
func (e *Engine) checkGameOver(logger zerolog.Logger) {
	players := make([]rules.Player, len(e.gs.Players))
	for i, p := range e.gs.Players {
		players[i] = p
	}

	over, winner := e.winCondition.CheckGameOver(players, e.gs.Turn)
	if !over {
		return
	}

	e.gameOver = true
	e.winner = winner
	ctx := e.stateMachine.GetContext()
	ctx.Winner = winner
	ctx.Turn = e.gs.Turn
	duration := ctx.GetElapsedTime()

	if err := e.stateMachine.TransitionTo(states.PhaseEnded, fmt.Sprintf("winner %d", winner)); err != nil {
		logger.Error().Err(err).Msg("Failed to transition to Ended state")
	}
	e.eventBus.Publish(events.NewGameEndedEvent(e.gameID, winner, duration, e.gs.Turn))
	logger.Info().Int("winner", winner).Int("turn", e.gs.Turn).Msg("Game over")
}
