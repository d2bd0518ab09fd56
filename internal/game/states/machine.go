package states

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
)

// State represents a game state with lifecycle callbacks
type State interface {
	// Phase returns the GamePhase this state represents
	Phase() GamePhase

	// Enter is called when transitioning into this state
	Enter(ctx *GameContext) error

	// Exit is called when transitioning out of this state
	Exit(ctx *GameContext) error

	// Validate checks if the state is valid given the context
	Validate(ctx *GameContext) error
}

// Transition represents a state transition in the history
type Transition struct {
	From      GamePhase
	To        GamePhase
	Timestamp time.Time
	Reason    string
}

// StateMachine manages game state transitions and history
type StateMachine struct {
	mu             sync.RWMutex
	currentPhase   GamePhase
	states         map[GamePhase]State
	context        *GameContext
	history        []Transition
	maxHistorySize int
	eventBus       *events.EventBus
}

// NewStateMachine creates a new state machine in PhaseSetup
func NewStateMachine(ctx *GameContext, eventBus *events.EventBus) *StateMachine {
	sm := &StateMachine{
		currentPhase:   PhaseSetup,
		states:         make(map[GamePhase]State),
		context:        ctx,
		history:        make([]Transition, 0, 8),
		maxHistorySize: 100,
		eventBus:       eventBus,
	}

	sm.RegisterState(NewSetupState())
	sm.RegisterState(NewRunningState())
	sm.RegisterState(NewEndedState())
	sm.RegisterState(NewErrorState())

	return sm
}

// RegisterState registers a state implementation
func (sm *StateMachine) RegisterState(state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[state.Phase()] = state
}

// CurrentPhase returns the current game phase
func (sm *StateMachine) CurrentPhase() GamePhase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase
}

// TransitionTo attempts to transition to the specified phase
func (sm *StateMachine) TransitionTo(targetPhase GamePhase, reason string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.currentPhase.CanTransitionTo(targetPhase) {
		return fmt.Errorf("invalid transition from %s to %s", sm.currentPhase, targetPhase)
	}

	currentState, hasCurrentState := sm.states[sm.currentPhase]
	targetState, hasTargetState := sm.states[targetPhase]

	if !hasTargetState {
		return fmt.Errorf("no state implementation for phase %s", targetPhase)
	}

	if err := targetState.Validate(sm.context); err != nil {
		return fmt.Errorf("target state validation failed: %w", err)
	}

	if hasCurrentState {
		if err := currentState.Exit(sm.context); err != nil {
			sm.context.Logger.Error().
				Err(err).
				Str("from_phase", sm.currentPhase.String()).
				Str("to_phase", targetPhase.String()).
				Msg("Error exiting state")
		}
	}

	previousPhase := sm.currentPhase
	sm.currentPhase = targetPhase

	if err := targetState.Enter(sm.context); err != nil {
		sm.currentPhase = previousPhase
		return fmt.Errorf("failed to enter state %s: %w", targetPhase, err)
	}

	sm.addToHistory(Transition{
		From:      previousPhase,
		To:        targetPhase,
		Timestamp: time.Now(),
		Reason:    reason,
	})

	if sm.eventBus != nil {
		sm.eventBus.Publish(events.NewStateTransitionEvent(
			sm.context.GameID,
			previousPhase.String(),
			targetPhase.String(),
			reason,
		))
	}

	sm.context.Logger.Info().
		Str("from_phase", previousPhase.String()).
		Str("to_phase", targetPhase.String()).
		Str("reason", reason).
		Msg("State transition completed")

	return nil
}

func (sm *StateMachine) addToHistory(transition Transition) {
	sm.history = append(sm.history, transition)
	if len(sm.history) > sm.maxHistorySize {
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}
}

// GetHistory returns a copy of the transition history
func (sm *StateMachine) GetHistory() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	history := make([]Transition, len(sm.history))
	copy(history, sm.history)
	return history
}

// GetContext returns the game context
func (sm *StateMachine) GetContext() *GameContext {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.context
}

// CanTransitionTo checks if a transition to the target phase is allowed
func (sm *StateMachine) CanTransitionTo(targetPhase GamePhase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase.CanTransitionTo(targetPhase)
}

// UnitTransition is one movement phase change of a single unit
type UnitTransition struct {
	UnitID    uuid.UUID
	From      MovementPhase
	To        MovementPhase
	Timestamp time.Time
	Reason    string
}

// UnitTurnMachine tracks the movement phase of every unit on the board
type UnitTurnMachine struct {
	mu             sync.RWMutex
	gameID         string
	epsilon        float64
	phases         map[uuid.UUID]MovementPhase
	history        []UnitTransition
	maxHistorySize int
	eventBus       *events.EventBus
	logger         zerolog.Logger
}

// NewUnitTurnMachine creates a tracker. eventBus may be nil.
func NewUnitTurnMachine(gameID string, epsilon float64, eventBus *events.EventBus, logger zerolog.Logger) *UnitTurnMachine {
	if epsilon <= 0 {
		epsilon = core.Epsilon
	}
	return &UnitTurnMachine{
		gameID:         gameID,
		epsilon:        epsilon,
		phases:         make(map[uuid.UUID]MovementPhase),
		maxHistorySize: 1000,
		eventBus:       eventBus,
		logger:         logger.With().Str("component", "UnitTurnMachine").Logger(),
	}
}

// Track starts following a unit in MoveReady
func (m *UnitTurnMachine) Track(unitID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.phases[unitID] = MoveReady
}

// Forget stops following a unit, typically after it is defeated
func (m *UnitTurnMachine) Forget(unitID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.phases, unitID)
}

// Phase returns the unit's current phase
func (m *UnitTurnMachine) Phase(unitID uuid.UUID) (MovementPhase, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	phase, ok := m.phases[unitID]
	return phase, ok
}

// CanAct reports whether the unit is tracked and not exhausted
func (m *UnitTurnMachine) CanAct(unitID uuid.UUID) bool {
	phase, ok := m.Phase(unitID)
	return ok && phase != MoveExhausted
}

// Observe moves the unit to the phase matching its remaining movement.
// Staying in the same phase is a no-op.
func (m *UnitTurnMachine) Observe(unitID uuid.UUID, remaining, max float64, reason string) (MovementPhase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.phases[unitID]
	if !ok {
		return MoveReady, fmt.Errorf("%w: %s", core.ErrUnknownUnit, unitID)
	}

	target := PhaseFor(remaining, max, m.epsilon)
	if target == current {
		return current, nil
	}
	if !current.CanTransitionTo(target) {
		return current, fmt.Errorf("invalid movement transition from %s to %s", current, target)
	}

	m.phases[unitID] = target
	m.history = append(m.history, UnitTransition{
		UnitID:    unitID,
		From:      current,
		To:        target,
		Timestamp: time.Now(),
		Reason:    reason,
	})
	if len(m.history) > m.maxHistorySize {
		m.history = m.history[len(m.history)-m.maxHistorySize:]
	}

	if m.eventBus != nil {
		m.eventBus.Publish(events.NewUnitPhaseEvent(m.gameID, unitID, current.String(), target.String(), reason))
	}

	m.logger.Debug().
		Str("unit_id", unitID.String()).
		Str("from_phase", current.String()).
		Str("to_phase", target.String()).
		Str("reason", reason).
		Msg("Unit phase changed")

	return target, nil
}

// NewTurn returns every tracked unit to MoveReady
func (m *UnitTurnMachine) NewTurn(reason string) {
	m.mu.Lock()
	ids := make([]uuid.UUID, 0, len(m.phases))
	for id, phase := range m.phases {
		if phase != MoveReady {
			ids = append(ids, id)
		}
	}
	m.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		if _, err := m.Observe(id, 1, 1, reason); err != nil {
			m.logger.Warn().Err(err).Str("unit_id", id.String()).Msg("Failed to reset unit phase")
		}
	}
}

// GetHistory returns a copy of the unit transition history
func (m *UnitTurnMachine) GetHistory() []UnitTransition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]UnitTransition, len(m.history))
	copy(history, m.history)
	return history
}
