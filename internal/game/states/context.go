package states

import (
	"time"

	"github.com/rs/zerolog"
)

// GameContext provides game-specific information to states for making decisions
type GameContext struct {
	// GameID uniquely identifies this skirmish
	GameID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// PlayerCount is the number of players that still have combatants
	PlayerCount int

	// TileCount is the number of tiles on the generated map
	TileCount int

	// Turn is the last turn number started
	Turn int

	// StartTime is when PhaseRunning was entered
	StartTime time.Time

	// Winner is the player ID of the winner, -1 for none or a draw
	Winner int

	// Error holds any error that caused transition to PhaseError
	Error error
}

// NewGameContext creates a new game context
func NewGameContext(gameID string, logger zerolog.Logger) *GameContext {
	return &GameContext{
		GameID: gameID,
		Logger: logger.With().Str("game_id", gameID).Logger(),
		Winner: -1,
	}
}

// IsReady returns true if the skirmish has enough sides to start
func (gc *GameContext) IsReady() bool {
	return gc.PlayerCount >= 2 && gc.TileCount > 0
}

// GetElapsedTime returns the time elapsed since the skirmish started
func (gc *GameContext) GetElapsedTime() time.Duration {
	if gc.StartTime.IsZero() {
		return 0
	}
	return time.Since(gc.StartTime)
}
