package states

import (
	"fmt"
	"time"
)

// hookState is a State assembled from optional hooks; nil hooks succeed
type hookState struct {
	phase    GamePhase
	enter    func(*GameContext) error
	exit     func(*GameContext) error
	validate func(*GameContext) error
}

func (s *hookState) Phase() GamePhase { return s.phase }

func (s *hookState) Enter(ctx *GameContext) error { return call(s.enter, ctx) }

func (s *hookState) Exit(ctx *GameContext) error { return call(s.exit, ctx) }

func (s *hookState) Validate(ctx *GameContext) error { return call(s.validate, ctx) }

func call(hook func(*GameContext) error, ctx *GameContext) error {
	if hook == nil {
		return nil
	}
	return hook(ctx)
}

// NewSetupState covers map generation and army placement
func NewSetupState() State {
	return &hookState{
		phase: PhaseSetup,
		exit: func(ctx *GameContext) error {
			ctx.Logger.Debug().
				Int("players", ctx.PlayerCount).
				Int("tiles", ctx.TileCount).
				Msg("Setup complete")
			return nil
		},
	}
}

// NewRunningState is the turn loop. Entering it needs two sides on a map.
func NewRunningState() State {
	return &hookState{
		phase: PhaseRunning,
		enter: func(ctx *GameContext) error {
			ctx.StartTime = time.Now()
			ctx.Logger.Info().Int("players", ctx.PlayerCount).Msg("Skirmish started")
			return nil
		},
		exit: func(ctx *GameContext) error {
			ctx.Logger.Info().
				Int("turn", ctx.Turn).
				Dur("elapsed", ctx.GetElapsedTime()).
				Msg("Skirmish stopped")
			return nil
		},
		validate: func(ctx *GameContext) error {
			if !ctx.IsReady() {
				return fmt.Errorf("need at least 2 players on a non-empty map, have %d players and %d tiles",
					ctx.PlayerCount, ctx.TileCount)
			}
			return nil
		},
	}
}

// NewEndedState is reached when one side remains or the turn limit expires
func NewEndedState() State {
	return &hookState{
		phase: PhaseEnded,
		enter: func(ctx *GameContext) error {
			ctx.Logger.Info().
				Int("winner", ctx.Winner).
				Int("final_turn", ctx.Turn).
				Msg("Skirmish ended")
			return nil
		},
	}
}

// NewErrorState records the failure that stopped the skirmish
func NewErrorState() State {
	return &hookState{
		phase: PhaseError,
		enter: func(ctx *GameContext) error {
			ctx.Logger.Error().Err(ctx.Error).Msg("Skirmish entered error state")
			return nil
		},
		validate: func(ctx *GameContext) error {
			if ctx.Error == nil {
				return fmt.Errorf("error state requires an error in context")
			}
			return nil
		},
	}
}
