package testutil

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// EventLog is a subscriber that records every event in publish order
type EventLog struct {
	Events []events.Event
}

// RecordEvents subscribes a fresh EventLog to bus
func RecordEvents(bus *events.EventBus) *EventLog {
	l := &EventLog{}
	bus.Subscribe(l)
	return l
}

func (l *EventLog) ID() string                 { return "event_log" }
func (l *EventLog) InterestedIn(string) bool   { return true }
func (l *EventLog) HandleEvent(e events.Event) { l.Events = append(l.Events, e) }

// OfType returns the recorded events of one type
func (l *EventLog) OfType(eventType string) []events.Event {
	var out []events.Event
	for _, e := range l.Events {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}
