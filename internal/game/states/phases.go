package states

import "fmt"

// GamePhase represents the lifecycle phase of a skirmish
type GamePhase int

const (
	// PhaseSetup - map generated, armies being placed
	PhaseSetup GamePhase = iota

	// PhaseRunning - turns are being processed
	PhaseRunning

	// PhaseEnded - one side remains or the turn limit was hit
	PhaseEnded

	// PhaseError - unrecoverable rules violation
	PhaseError
)

// String returns the string representation of a GamePhase
func (p GamePhase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseRunning:
		return "Running"
	case PhaseEnded:
		return "Ended"
	case PhaseError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p GamePhase) IsTerminal() bool {
	return p == PhaseEnded || p == PhaseError
}

// CanReceiveActions returns true if the game can process player actions in this phase
func (p GamePhase) CanReceiveActions() bool {
	return p == PhaseRunning
}

// CanPlaceUnits returns true if armies may still be added
func (p GamePhase) CanPlaceUnits() bool {
	return p == PhaseSetup
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p GamePhase) AllowedTransitions() []GamePhase {
	switch p {
	case PhaseSetup:
		return []GamePhase{PhaseRunning, PhaseError}
	case PhaseRunning:
		return []GamePhase{PhaseEnded, PhaseError}
	default:
		return []GamePhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a GamePhase
func ParsePhase(s string) GamePhase {
	switch s {
	case "Running":
		return PhaseRunning
	case "Ended":
		return PhaseEnded
	case "Error":
		return PhaseError
	default:
		return PhaseSetup
	}
}

// MovementPhase tracks how much of its turn a unit has used
type MovementPhase int

const (
	// MoveReady - full movement available
	MoveReady MovementPhase = iota

	// MovePartial - moved this turn with movement left over
	MovePartial

	// MoveExhausted - no movement above epsilon remains
	MoveExhausted
)

func (m MovementPhase) String() string {
	switch m {
	case MoveReady:
		return "Ready"
	case MovePartial:
		return "Partial"
	case MoveExhausted:
		return "Exhausted"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// AllowedTransitions returns the phases a unit may move to from m.
// Ready is only re-entered at the start of a turn.
func (m MovementPhase) AllowedTransitions() []MovementPhase {
	switch m {
	case MoveReady:
		return []MovementPhase{MovePartial, MoveExhausted}
	case MovePartial:
		return []MovementPhase{MoveExhausted, MoveReady}
	case MoveExhausted:
		return []MovementPhase{MoveReady}
	default:
		return []MovementPhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (m MovementPhase) CanTransitionTo(target MovementPhase) bool {
	for _, phase := range m.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// PhaseFor classifies a remaining movement budget
func PhaseFor(remaining, max, epsilon float64) MovementPhase {
	switch {
	case remaining <= epsilon:
		return MoveExhausted
	case remaining >= max-epsilon:
		return MoveReady
	default:
		return MovePartial
	}
}
