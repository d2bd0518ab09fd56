package events

import (
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type funcHandler struct {
	id      string
	handler EventHandler
}

// EventBus delivers events synchronously, in subscription order, on the
// publishing goroutine. Handlers may publish further events; those are
// delivered before Publish returns.
type EventBus struct {
	mu           sync.RWMutex
	subscribers  []Subscriber
	funcHandlers map[string][]funcHandler
	funcCounts   map[string]int
	seq          uint64
	logger       zerolog.Logger
}

// NewEventBus creates a new event bus instance
func NewEventBus() *EventBus {
	return &EventBus{
		funcHandlers: make(map[string][]funcHandler),
		funcCounts:   make(map[string]int),
		logger:       log.With().Str("component", "event_bus").Logger(),
	}
}

// NewEventBusWithLogger creates an event bus that logs through the given logger
func NewEventBusWithLogger(logger zerolog.Logger) *EventBus {
	eb := NewEventBus()
	eb.logger = logger.With().Str("component", "event_bus").Logger()
	return eb
}

// Subscribe adds a subscriber. Subscribing an ID twice replaces the earlier
// subscriber in place.
func (eb *EventBus) Subscribe(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for i, s := range eb.subscribers {
		if s.ID() == subscriber.ID() {
			eb.subscribers[i] = subscriber
			return
		}
	}
	eb.subscribers = append(eb.subscribers, subscriber)
	eb.logger.Debug().
		Str("subscriber_id", subscriber.ID()).
		Msg("Subscriber added to event bus")
}

// Unsubscribe removes a subscriber or a function handler by ID
func (eb *EventBus) Unsubscribe(id string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for i, s := range eb.subscribers {
		if s.ID() == id {
			eb.subscribers = append(eb.subscribers[:i:i], eb.subscribers[i+1:]...)
			eb.logger.Debug().Str("subscriber_id", id).Msg("Subscriber removed from event bus")
			return
		}
	}
	for eventType, handlers := range eb.funcHandlers {
		for i, h := range handlers {
			if h.id == id {
				eb.funcHandlers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
				eb.logger.Debug().Str("handler_id", id).Msg("Function handler removed from event bus")
				return
			}
		}
	}
}

// SubscribeFunc adds a function handler for one event type and returns an ID
// that Unsubscribe accepts
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.funcCounts[eventType]++
	id := eventType + "_func_" + strconv.Itoa(eb.funcCounts[eventType])
	eb.funcHandlers[eventType] = append(eb.funcHandlers[eventType], funcHandler{id: id, handler: handler})

	eb.logger.Debug().
		Str("event_type", eventType).
		Str("handler_id", id).
		Msg("Function handler added to event bus")
	return id
}

// Publish stamps the event with the next sequence number and hands it to every
// interested subscriber, then to the function handlers for its type. A
// panicking handler is logged and skipped.
func (eb *EventBus) Publish(event Event) {
	eb.mu.Lock()
	eb.seq++
	if s, ok := event.(stamper); ok {
		s.stamp(eb.seq)
	}
	eventType := event.Type()
	subscribers := append([]Subscriber(nil), eb.subscribers...)
	handlers := append([]funcHandler(nil), eb.funcHandlers[eventType]...)
	eb.mu.Unlock()

	eb.logger.Debug().
		Str("event_type", eventType).
		Str("game_id", event.GameID()).
		Uint64("seq", event.Sequence()).
		Msg("Publishing event")

	for _, subscriber := range subscribers {
		if subscriber.InterestedIn(eventType) {
			eb.deliver(subscriber.ID(), eventType, func() { subscriber.HandleEvent(event) })
		}
	}
	for _, h := range handlers {
		eb.deliver(h.id, eventType, func() { h.handler(event) })
	}
}

func (eb *EventBus) deliver(id, eventType string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error().
				Str("handler_id", id).
				Str("event_type", eventType).
				Interface("panic", r).
				Msg("Event handler panicked")
		}
	}()
	fn()
}

// Published returns how many events have gone through the bus
func (eb *EventBus) Published() uint64 {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return eb.seq
}

// GetSubscriberCount returns the number of subscribers
func (eb *EventBus) GetSubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// GetFuncHandlerCount returns the number of function handlers for an event type
func (eb *EventBus) GetFuncHandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.funcHandlers[eventType])
}
