package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
	"github.com/mitchelldurbincs/HexTactics/internal/game/processor"
)

// TurnProcessor handles the orchestration of a single turn
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger.With().Str("component", "TurnProcessor").Logger(),
	}
}

// ProcessTurn executes a complete turn: the submitted actions in player
// order, then end-of-turn bookkeeping. Rejected actions do not fail the turn;
// only cancellation or an unplayable game state does.
func (tp *TurnProcessor) ProcessTurn(ctx context.Context, actions []core.Action) error {
	if err := tp.checkContext(ctx, "before starting"); err != nil {
		return err
	}

	if err := tp.validateGameState(); err != nil {
		return err
	}

	prevState := tp.captureStateForObserver()

	tp.initializeTurn()

	turnLogger := tp.logger.With().Int("turn", tp.engine.gs.Turn).Logger()
	turnLogger.Debug().Msg("Starting turn")

	turnStartTime := time.Now()
	tp.publishTurnStarted()

	result, err := tp.processActionsPhase(ctx, actions, turnLogger)
	if err != nil {
		return err
	}

	if err := tp.processEndOfTurnPhase(ctx, turnLogger); err != nil {
		return err
	}

	tp.notifyObserver(prevState, actions, result)

	tp.publishTurnEnded(turnStartTime, result)

	turnLogger.Debug().
		Int("applied", result.Applied).
		Int("rejected", len(result.Rejected)).
		Msg("Turn finished")
	return nil
}

// checkContext checks if the context is cancelled
func (tp *TurnProcessor) checkContext(ctx context.Context, phase string) error {
	select {
	case <-ctx.Done():
		tp.logger.Warn().
			Err(ctx.Err()).
			Int("turn", tp.engine.gs.Turn).
			Str("phase", phase).
			Msg("Turn cancelled or timed out")
		return ctx.Err()
	default:
		return nil
	}
}

// validateGameState ensures the game can receive actions
func (tp *TurnProcessor) validateGameState() error {
	if tp.engine.gameOver {
		tp.logger.Warn().
			Int("turn", tp.engine.gs.Turn).
			Msg("Attempted to process a turn in a game that is already over")
		return core.WrapGameStateError(tp.engine.gs.Turn, "turn", core.ErrGameOver)
	}

	currentPhase := tp.engine.stateMachine.CurrentPhase()
	if !currentPhase.CanReceiveActions() {
		tp.logger.Warn().
			Str("current_phase", currentPhase.String()).
			Int("turn", tp.engine.gs.Turn).
			Msg("Attempted to process a turn in phase that cannot receive actions")
		return fmt.Errorf("game is in %s phase and cannot receive actions", currentPhase)
	}

	return nil
}

// captureStateForObserver snapshots the state if someone is watching
func (tp *TurnProcessor) captureStateForObserver() *GameState {
	if tp.engine.observer != nil {
		return tp.engine.gs.Clone()
	}
	return nil
}

// initializeTurn advances the turn counter
func (tp *TurnProcessor) initializeTurn() {
	tp.engine.gs.Turn++
	tp.engine.stateMachine.GetContext().Turn = tp.engine.gs.Turn
}

// publishTurnStarted publishes the turn started event
func (tp *TurnProcessor) publishTurnStarted() {
	tp.engine.eventBus.Publish(events.NewTurnStartedEvent(tp.engine.gameID, tp.engine.gs.Turn))
}

// processActionsPhase applies the submitted actions
func (tp *TurnProcessor) processActionsPhase(ctx context.Context, actions []core.Action, turnLogger zerolog.Logger) (processor.Result, error) {
	turnLogger.Debug().Int("num_actions_submitted", len(actions)).Msg("Processing actions")

	players := make([]processor.PlayerInfo, len(tp.engine.gs.Players))
	for i, p := range tp.engine.gs.Players {
		players[i] = p
	}

	result, err := tp.engine.actionProcessor.ProcessActions(ctx, players, actions, tp.engine)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return result, core.WrapGameStateError(tp.engine.gs.Turn, "action processing", fmt.Errorf("context cancelled: %w", err))
		}
		return result, core.WrapGameStateError(tp.engine.gs.Turn, "action processing", err)
	}

	turnLogger.Debug().Msg("Finished processing actions")
	return result, nil
}

// processEndOfTurnPhase recounts players, checks for a winner and readies
// the next turn
func (tp *TurnProcessor) processEndOfTurnPhase(ctx context.Context, turnLogger zerolog.Logger) error {
	if err := tp.checkContext(ctx, "before updating/checking stats"); err != nil {
		return core.WrapGameStateError(tp.engine.gs.Turn, "stats update", fmt.Errorf("context cancelled: %w", err))
	}

	tp.engine.updatePlayerStats()
	tp.engine.checkGameOver(turnLogger)
	if !tp.engine.gameOver {
		tp.engine.StartTurn()
	}
	return nil
}

// notifyObserver hands the turn to the observer, if any
func (tp *TurnProcessor) notifyObserver(prevState *GameState, actions []core.Action, result processor.Result) {
	if tp.engine.observer == nil || prevState == nil {
		return
	}

	curr := tp.engine.gs.Clone()
	tp.engine.observer.OnTurnProcessed(prevState, curr, actions, result)

	if tp.engine.gameOver {
		tp.logger.Info().
			Int("final_turn", tp.engine.gs.Turn).
			Msg("Game ended, notifying turn observer")
		tp.engine.observer.OnGameEnd(curr, tp.engine.winner)
	}
}

// publishTurnEnded publishes the turn ended event
func (tp *TurnProcessor) publishTurnEnded(startTime time.Time, result processor.Result) {
	tp.engine.eventBus.Publish(events.NewTurnEndedEvent(
		tp.engine.gameID,
		tp.engine.gs.Turn,
		result.Applied+len(result.Rejected),
		len(result.Rejected),
		time.Since(startTime),
	))
}
