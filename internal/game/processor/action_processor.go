package processor

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
)

// ActionApplier validates and applies a single unit action
type ActionApplier interface {
	ApplyAction(action core.Action) error
}

// Result summarises one batch of actions
type Result struct {
	Applied  int
	Rejected []error
}

// ActionProcessor handles the processing of player actions during each turn
type ActionProcessor struct {
	logger   zerolog.Logger
	eventBus *events.EventBus
	gameID   string
}

// NewActionProcessor creates a new action processor
func NewActionProcessor(logger zerolog.Logger) *ActionProcessor {
	return &ActionProcessor{
		logger: logger.With().Str("component", "ActionProcessor").Logger(),
	}
}

// SetEventPublisher makes the processor publish action.rejected events
func (ap *ActionProcessor) SetEventPublisher(eventBus *events.EventBus, gameID string) {
	ap.eventBus = eventBus
	ap.gameID = gameID
}

// ProcessActions applies actions one at a time. Actions are ordered by player
// ID; a player's own actions keep their submitted order. A rejected action is
// reported and skipped, it never stops the batch. Only context cancellation
// returns an error.
func (ap *ActionProcessor) ProcessActions(ctx context.Context, players []PlayerInfo, actions []core.Action, applier ActionApplier) (Result, error) {
	ap.logger.Debug().Int("actions", len(actions)).Msg("Sorting actions for deterministic processing")
	ordered := make([]core.Action, 0, len(actions))
	for _, a := range actions {
		if a != nil {
			ordered = append(ordered, a)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].GetPlayerID() < ordered[j].GetPlayerID()
	})

	var result Result
	for _, action := range ordered {
		// Check context before processing each action
		select {
		case <-ctx.Done():
			ap.logger.Warn().Err(ctx.Err()).Msg("Action processing interrupted by context cancellation")
			return result, ctx.Err()
		default:
		}

		playerID := action.GetPlayerID()
		if playerID < 0 || playerID >= len(players) || !players[playerID].IsAlive() {
			ap.logger.Warn().Int("player_id", playerID).Msg("Ignoring action from invalid or dead player")
			ap.reject(&result, action, core.ErrNotOwned)
			continue
		}

		ap.logger.Debug().Int("player_id", playerID).Str("action", core.DescribeAction(action)).Msg("Applying action")
		if err := applier.ApplyAction(action); err != nil {
			ap.reject(&result, action, err)
			continue
		}
		result.Applied++
	}

	return result, nil
}

func (ap *ActionProcessor) reject(result *Result, action core.Action, err error) {
	var actionErr *core.ActionError
	if !errors.As(err, &actionErr) {
		err = core.WrapActionError(action, err)
	}
	ap.logger.Info().Err(err).
		Int("player_id", action.GetPlayerID()).
		Str("action_type", action.GetType().String()).
		Msg("Action rejected")
	result.Rejected = append(result.Rejected, err)

	if ap.eventBus != nil {
		ap.eventBus.Publish(events.NewActionRejectedEvent(ap.gameID, action, err))
	}
}

// PlayerInfo interface - matches the Player struct from game package
// This avoids circular imports
type PlayerInfo interface {
	GetID() int
	IsAlive() bool
}
