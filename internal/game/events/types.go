package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is anything published on the bus
type Event interface {
	// Type returns the dotted event type used for filtering, e.g. "unit.moved"
	Type() string
	Timestamp() time.Time
	GameID() string
	// EventID uniquely identifies this event across games
	EventID() uuid.UUID
	// Sequence is the bus-assigned publish order, starting at 1. Zero means
	// the event was never published.
	Sequence() uint64
}

// BaseEvent carries the fields shared by every event
type BaseEvent struct {
	ID        uuid.UUID `json:"id"`
	EventType string    `json:"type"`
	Time      time.Time `json:"timestamp"`
	Game      string    `json:"game_id"`
	Seq       uint64    `json:"seq"`
}

func (e BaseEvent) Type() string         { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }
func (e BaseEvent) GameID() string       { return e.Game }
func (e BaseEvent) EventID() uuid.UUID   { return e.ID }
func (e BaseEvent) Sequence() uint64     { return e.Seq }

func (e *BaseEvent) stamp(seq uint64) { e.Seq = seq }

// stamper is satisfied by pointer events embedding BaseEvent
type stamper interface {
	stamp(seq uint64)
}

// EventHandler is a function that processes events
type EventHandler func(Event)

// Subscriber represents an entity that can receive events
type Subscriber interface {
	ID() string
	HandleEvent(Event)
	// InterestedIn returns true if the subscriber wants to receive this event type
	InterestedIn(eventType string) bool
}
