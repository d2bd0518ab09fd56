package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted      = "game.started"
	TypeGameEnded        = "game.ended"
	TypeTurnStarted      = "turn.started"
	TypeTurnEnded        = "turn.ended"
	TypeActionRejected   = "action.rejected"
	TypeUnitMoved        = "unit.moved"
	TypeUnitFortified    = "unit.fortified"
	TypeCombatResolved   = "combat.resolved"
	TypeUnitDefeated     = "unit.defeated"
	TypeTileCaptured     = "tile.captured"
	TypeUnitPhase        = "unit.phase"
	TypeMapValidated     = "map.validated"
	TypeStateTransition  = "state.transition"
	TypePlayerEliminated = "player.eliminated"
	TypeHealingApplied   = "healing.applied"
)

func base(eventType, gameID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Time:      time.Now(),
		Game:      gameID,
	}
}

// GameStartedEvent is published when a new game begins
type GameStartedEvent struct {
	BaseEvent
	NumPlayers int
	NumTiles   int
	NumUnits   int
}

// NewGameStartedEvent creates a new GameStartedEvent
func NewGameStartedEvent(gameID string, numPlayers, numTiles, numUnits int) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent:  base(TypeGameStarted, gameID),
		NumPlayers: numPlayers,
		NumTiles:   numTiles,
		NumUnits:   numUnits,
	}
}

// GameEndedEvent is published when a game ends. Winner is -1 for a draw.
type GameEndedEvent struct {
	BaseEvent
	Winner    int
	Duration  time.Duration
	FinalTurn int
}

// NewGameEndedEvent creates a new GameEndedEvent
func NewGameEndedEvent(gameID string, winner int, duration time.Duration, finalTurn int) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent: base(TypeGameEnded, gameID),
		Winner:    winner,
		Duration:  duration,
		FinalTurn: finalTurn,
	}
}

// TurnStartedEvent is published at the beginning of each turn
type TurnStartedEvent struct {
	BaseEvent
	TurnNumber int
}

// NewTurnStartedEvent creates a new TurnStartedEvent
func NewTurnStartedEvent(gameID string, turnNumber int) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent:  base(TypeTurnStarted, gameID),
		TurnNumber: turnNumber,
	}
}

// TurnEndedEvent is published at the end of each turn
type TurnEndedEvent struct {
	BaseEvent
	TurnNumber    int
	ActionsCount  int
	Rejected      int
	ProcessedTime time.Duration
}

// NewTurnEndedEvent creates a new TurnEndedEvent
func NewTurnEndedEvent(gameID string, turnNumber, actionsCount, rejected int, processedTime time.Duration) *TurnEndedEvent {
	return &TurnEndedEvent{
		BaseEvent:     base(TypeTurnEnded, gameID),
		TurnNumber:    turnNumber,
		ActionsCount:  actionsCount,
		Rejected:      rejected,
		ProcessedTime: processedTime,
	}
}

// ActionRejectedEvent is published when an action fails validation
type ActionRejectedEvent struct {
	BaseEvent
	PlayerID int
	Action   core.Action
	Reason   string
}

// NewActionRejectedEvent creates a new ActionRejectedEvent
func NewActionRejectedEvent(gameID string, action core.Action, err error) *ActionRejectedEvent {
	e := &ActionRejectedEvent{
		BaseEvent: base(TypeActionRejected, gameID),
		Action:    action,
	}
	if action != nil {
		e.PlayerID = action.GetPlayerID()
	}
	if err != nil {
		e.Reason = err.Error()
	}
	return e
}

// UnitMovedEvent is published after a unit finishes a move
type UnitMovedEvent struct {
	BaseEvent
	PlayerID  int
	UnitID    uuid.UUID
	From      core.TileID
	To        core.TileID
	Steps     int
	Remaining float64
}

// NewUnitMovedEvent creates a new UnitMovedEvent
func NewUnitMovedEvent(gameID string, playerID int, unitID uuid.UUID, from, to core.TileID, steps int, remaining float64) *UnitMovedEvent {
	return &UnitMovedEvent{
		BaseEvent: base(TypeUnitMoved, gameID),
		PlayerID:  playerID,
		UnitID:    unitID,
		From:      from,
		To:        to,
		Steps:     steps,
		Remaining: remaining,
	}
}

// UnitFortifiedEvent is published when a unit starts fortifying
type UnitFortifiedEvent struct {
	BaseEvent
	PlayerID int
	UnitID   uuid.UUID
	Tile     core.TileID
}

// NewUnitFortifiedEvent creates a new UnitFortifiedEvent
func NewUnitFortifiedEvent(gameID string, playerID int, unitID uuid.UUID, tile core.TileID) *UnitFortifiedEvent {
	return &UnitFortifiedEvent{
		BaseEvent: base(TypeUnitFortified, gameID),
		PlayerID:  playerID,
		UnitID:    unitID,
		Tile:      tile,
	}
}

// CombatResolvedEvent is published after an attack has been applied
type CombatResolvedEvent struct {
	BaseEvent
	AttackerID       uuid.UUID
	DefenderID       uuid.UUID
	AttackerOwner    int
	DefenderOwner    int
	From             core.TileID
	Target           core.TileID
	AttackStrength   float64
	DefenseStrength  float64
	AttackerDamage   int
	DefenderDamage   int
	AttackerDefeated bool
	DefenderDefeated bool
	TileCaptured     bool
}

// NewCombatResolvedEvent creates a new CombatResolvedEvent
func NewCombatResolvedEvent(gameID string, attackerID, defenderID uuid.UUID, attackerOwner, defenderOwner int, from, target core.TileID) *CombatResolvedEvent {
	return &CombatResolvedEvent{
		BaseEvent:     base(TypeCombatResolved, gameID),
		AttackerID:    attackerID,
		DefenderID:    defenderID,
		AttackerOwner: attackerOwner,
		DefenderOwner: defenderOwner,
		From:          from,
		Target:        target,
	}
}

// UnitDefeatedEvent is published when a combatant is removed from play
type UnitDefeatedEvent struct {
	BaseEvent
	UnitID     uuid.UUID
	Owner      int
	Name       string
	Tile       core.TileID
	DefeatedBy int
}

// NewUnitDefeatedEvent creates a new UnitDefeatedEvent
func NewUnitDefeatedEvent(gameID string, unitID uuid.UUID, owner int, name string, tile core.TileID, defeatedBy int) *UnitDefeatedEvent {
	return &UnitDefeatedEvent{
		BaseEvent:  base(TypeUnitDefeated, gameID),
		UnitID:     unitID,
		Owner:      owner,
		Name:       name,
		Tile:       tile,
		DefeatedBy: defeatedBy,
	}
}

// TileCapturedEvent is published when a melee attacker advances into the defender's tile
type TileCapturedEvent struct {
	BaseEvent
	PlayerID      int
	UnitID        uuid.UUID
	Tile          core.TileID
	PreviousOwner int
}

// NewTileCapturedEvent creates a new TileCapturedEvent
func NewTileCapturedEvent(gameID string, playerID int, unitID uuid.UUID, tile core.TileID, previousOwner int) *TileCapturedEvent {
	return &TileCapturedEvent{
		BaseEvent:     base(TypeTileCaptured, gameID),
		PlayerID:      playerID,
		UnitID:        unitID,
		Tile:          tile,
		PreviousOwner: previousOwner,
	}
}

// UnitPhaseEvent is published when a unit's movement phase changes
type UnitPhaseEvent struct {
	BaseEvent
	UnitID    uuid.UUID
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewUnitPhaseEvent creates a new UnitPhaseEvent
func NewUnitPhaseEvent(gameID string, unitID uuid.UUID, from, to, reason string) *UnitPhaseEvent {
	return &UnitPhaseEvent{
		BaseEvent: base(TypeUnitPhase, gameID),
		UnitID:    unitID,
		FromPhase: from,
		ToPhase:   to,
		Reason:    reason,
	}
}

// MapValidatedEvent is published after a generated map passes its topology checks
type MapValidatedEvent struct {
	BaseEvent
	Tiles      int
	Landmasses int
	Bridges    int
	Rivers     int
}

// NewMapValidatedEvent creates a new MapValidatedEvent
func NewMapValidatedEvent(gameID string, tiles, landmasses, bridges, rivers int) *MapValidatedEvent {
	return &MapValidatedEvent{
		BaseEvent:  base(TypeMapValidated, gameID),
		Tiles:      tiles,
		Landmasses: landmasses,
		Bridges:    bridges,
		Rivers:     rivers,
	}
}

// StateTransitionEvent is published when the game changes phase
type StateTransitionEvent struct {
	BaseEvent
	FromState string
	ToState   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(gameID string, fromState, toState, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: base(TypeStateTransition, gameID),
		FromState: fromState,
		ToState:   toState,
		Reason:    reason,
	}
}

// PlayerEliminatedEvent is published when a player has no combatants left
type PlayerEliminatedEvent struct {
	BaseEvent
	PlayerID     int
	EliminatedBy int
	Turn         int
}

// NewPlayerEliminatedEvent creates a new PlayerEliminatedEvent
func NewPlayerEliminatedEvent(gameID string, playerID, eliminatedBy, turn int) *PlayerEliminatedEvent {
	return &PlayerEliminatedEvent{
		BaseEvent:    base(TypePlayerEliminated, gameID),
		PlayerID:     playerID,
		EliminatedBy: eliminatedBy,
		Turn:         turn,
	}
}

// HealingAppliedEvent is published after turn-start recovery
type HealingAppliedEvent struct {
	BaseEvent
	UnitsHealed  int
	CitiesHealed int
	TotalHealth  int
	Turn         int
}

// NewHealingAppliedEvent creates a new HealingAppliedEvent
func NewHealingAppliedEvent(gameID string, units, cities, total, turn int) *HealingAppliedEvent {
	return &HealingAppliedEvent{
		BaseEvent:    base(TypeHealingApplied, gameID),
		UnitsHealed:  units,
		CitiesHealed: cities,
		TotalHealth:  total,
		Turn:         turn,
	}
}
