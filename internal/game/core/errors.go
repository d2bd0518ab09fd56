package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTile            = errors.New("tile is not on the map")
	ErrNotAdjacent            = errors.New("tiles are not adjacent")
	ErrNotOwned               = errors.New("unit not owned by player")
	ErrUnknownUnit            = errors.New("unknown unit")
	ErrNoMovement             = errors.New("unit has no movement left")
	ErrDestinationUnreachable = errors.New("destination is not reachable")
	ErrDestinationOccupied    = errors.New("destination is occupied")
	ErrOutOfRange             = errors.New("target is out of range")
	ErrNotHostile             = errors.New("target is not hostile")
	ErrCannotAttack           = errors.New("unit cannot attack")
	ErrGameOver               = errors.New("game is over")
	ErrCannotFortify          = errors.New("unit cannot fortify")
	ErrUnsupportedAction      = errors.New("unsupported action")

	ErrGraphFrozen      = errors.New("map graph is frozen")
	ErrAsymmetricEdge   = errors.New("edge is not symmetric")
	ErrTooManyNeighbors = errors.New("tile has more than six neighbours")
	ErrOrphanedTile     = errors.New("edge references a tile that does not exist")
	ErrSelfLoop         = errors.New("edge connects a tile to itself")
	ErrCycleDetected    = errors.New("cycle detected")
	ErrIsolatedTile     = errors.New("tile has no neighbours")
)

// ActionError adds the acting player and unit to an error
type ActionError struct {
	Action Action
	Err    error
}

func (e *ActionError) Error() string {
	if e.Action == nil {
		return fmt.Sprintf("player action: %v", e.Err)
	}
	return fmt.Sprintf("player %d: %s: %v", e.Action.GetPlayerID(), DescribeAction(e.Action), e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// WrapActionError wraps err with the action that produced it. Returns nil for a nil error.
func WrapActionError(action Action, err error) error {
	if err == nil {
		return nil
	}
	return &ActionError{Action: action, Err: err}
}

// GameStateError adds the turn and operation to an error
type GameStateError struct {
	Turn      int
	Operation string
	Err       error
}

func (e *GameStateError) Error() string {
	return fmt.Sprintf("game turn %d [%s]: %v", e.Turn, e.Operation, e.Err)
}

func (e *GameStateError) Unwrap() error {
	return e.Err
}

// WrapGameStateError wraps err with turn context. Returns nil for a nil error.
func WrapGameStateError(turn int, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &GameStateError{Turn: turn, Operation: operation, Err: err}
}

// TopologyError reports a malformed map graph around a specific tile
type TopologyError struct {
	Tile  TileID
	Other TileID
	Err   error
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("map topology at %s -> %s: %v", e.Tile, e.Other, e.Err)
}

func (e *TopologyError) Unwrap() error {
	return e.Err
}

// WrapTopologyError wraps err with the offending edge. Returns nil for a nil error.
func WrapTopologyError(tile, other TileID, err error) error {
	if err == nil {
		return nil
	}
	return &TopologyError{Tile: tile, Other: other, Err: err}
}
