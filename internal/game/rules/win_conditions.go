package rules

import "github.com/rs/zerolog"

// WinConditionChecker handles game over detection and winner determination
type WinConditionChecker struct {
	logger          zerolog.Logger
	originalPlayers int
	maxTurns        int
}

// NewWinConditionChecker creates a new win condition checker. maxTurns <= 0
// disables the turn limit.
func NewWinConditionChecker(logger zerolog.Logger, originalPlayers, maxTurns int) *WinConditionChecker {
	return &WinConditionChecker{
		logger:          logger.With().Str("component", "WinConditionChecker").Logger(),
		originalPlayers: originalPlayers,
		maxTurns:        maxTurns,
	}
}

// CheckGameOver determines if the game is over based on the number of alive
// players and the turn limit.
// Returns (isGameOver, winnerID)
func (wc *WinConditionChecker) CheckGameOver(players []Player, turn int) (bool, int) {
	wc.logger.Debug().Int("turn", turn).Msg("Checking game over conditions")
	aliveCount := 0
	var alivePlayers []int
	var lastAliveID int

	for _, p := range players {
		if p.IsAlive() {
			aliveCount++
			playerID := p.GetID()
			alivePlayers = append(alivePlayers, playerID)
			lastAliveID = playerID
		}
	}

	// Game is over only if:
	// - 0 players alive (draw)
	// - 1 player alive AND there were originally more than 1 player
	// - the turn limit has been reached
	var gameOver bool
	if wc.originalPlayers > 1 {
		gameOver = aliveCount <= 1
	} else {
		gameOver = aliveCount == 0
	}

	winnerID := -1
	switch {
	case gameOver && aliveCount == 1:
		winnerID = lastAliveID
		wc.logger.Info().Int("winner_player_id", winnerID).Msg("Winner determined")
	case gameOver:
		wc.logger.Info().Msg("No winner found (draw, or all players eliminated simultaneously)")
	case wc.maxTurns > 0 && turn >= wc.maxTurns:
		gameOver = true
		winnerID = strongestPlayer(players)
		wc.logger.Info().Int("turn", turn).Int("winner_player_id", winnerID).Msg("Turn limit reached")
	}

	wc.logger.Debug().Bool("is_game_over", gameOver).Int("alive_player_count", aliveCount).Interface("alive_players_ids", alivePlayers).Msg("Game over check complete")

	return gameOver, winnerID
}

// strongestPlayer returns the alive player with the most total health, or -1
// when the lead is shared
func strongestPlayer(players []Player) int {
	best, bestStrength, tied := -1, -1, false
	for _, p := range players {
		if !p.IsAlive() {
			continue
		}
		s := p.TotalHealth()
		switch {
		case s > bestStrength:
			best, bestStrength, tied = p.GetID(), s, false
		case s == bestStrength:
			tied = true
		}
	}
	if tied {
		return -1
	}
	return best
}

// Player interface to avoid circular imports
type Player interface {
	GetID() int
	IsAlive() bool
	TotalHealth() int
}
