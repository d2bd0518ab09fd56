package core

import (
	"fmt"

	"github.com/google/uuid"
)

// ActionType represents the type of action
type ActionType int

const (
	ActionMove ActionType = iota
	ActionAttack
	ActionFortify
)

func (t ActionType) String() string {
	switch t {
	case ActionMove:
		return "move"
	case ActionAttack:
		return "attack"
	case ActionFortify:
		return "fortify"
	default:
		return fmt.Sprintf("ActionType(%d)", int(t))
	}
}

// Action represents a unit order issued by a player. Validation lives with the
// engine because it needs the map and the unit roster.
type Action interface {
	GetPlayerID() int
	GetUnitID() uuid.UUID
	GetType() ActionType
}

// MoveAction moves a unit to a reachable tile
type MoveAction struct {
	PlayerID int
	UnitID   uuid.UUID
	To       TileID
}

func (m *MoveAction) GetPlayerID() int     { return m.PlayerID }
func (m *MoveAction) GetUnitID() uuid.UUID { return m.UnitID }
func (m *MoveAction) GetType() ActionType  { return ActionMove }

// AttackAction attacks the combatant on Target. If From is nil the engine
// picks the first launch tile in resolver order.
type AttackAction struct {
	PlayerID int
	UnitID   uuid.UUID
	Target   TileID
	From     *TileID
}

func (a *AttackAction) GetPlayerID() int     { return a.PlayerID }
func (a *AttackAction) GetUnitID() uuid.UUID { return a.UnitID }
func (a *AttackAction) GetType() ActionType  { return ActionAttack }

// FortifyAction ends the unit's turn in place and starts fortifying
type FortifyAction struct {
	PlayerID int
	UnitID   uuid.UUID
}

func (f *FortifyAction) GetPlayerID() int     { return f.PlayerID }
func (f *FortifyAction) GetUnitID() uuid.UUID { return f.UnitID }
func (f *FortifyAction) GetType() ActionType  { return ActionFortify }

// DescribeAction renders an action for logs and errors
func DescribeAction(action Action) string {
	switch a := action.(type) {
	case nil:
		return "nil"
	case *MoveAction:
		return fmt.Sprintf("unit %s move to %s", shortID(a.UnitID), a.To)
	case *AttackAction:
		if a.From != nil {
			return fmt.Sprintf("unit %s attack %s from %s", shortID(a.UnitID), a.Target, *a.From)
		}
		return fmt.Sprintf("unit %s attack %s", shortID(a.UnitID), a.Target)
	case *FortifyAction:
		return fmt.Sprintf("unit %s fortify", shortID(a.UnitID))
	default:
		return fmt.Sprintf("%T", action)
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
