package game

import (
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/processor"
)

// TurnObserver is notified after every processed turn. Use it to record
// replays or collect statistics without subscribing to every event.
type TurnObserver interface {
	// OnTurnProcessed is called after each turn with the state before and after it
	OnTurnProcessed(prev, curr *GameState, actions []core.Action, result processor.Result)

	// OnGameEnd is called once when the skirmish ends
	OnGameEnd(final *GameState, winner int)
}
