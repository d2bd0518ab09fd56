package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	// If no filter is set, interested in all events
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Uint64("seq", event.Sequence()).
		Time("timestamp", event.Timestamp()).
		Logger()

	// Create the base event log
	var logEvent *zerolog.Event
	switch ls.logLevel {
	case zerolog.DebugLevel:
		logEvent = eventLogger.Debug()
	case zerolog.InfoLevel:
		logEvent = eventLogger.Info()
	case zerolog.WarnLevel:
		logEvent = eventLogger.Warn()
	case zerolog.ErrorLevel:
		logEvent = eventLogger.Error()
	default:
		logEvent = eventLogger.Info()
	}

	// Add event-specific fields based on type
	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.
			Int("num_players", e.NumPlayers).
			Int("num_tiles", e.NumTiles).
			Int("num_units", e.NumUnits)

	case *events.GameEndedEvent:
		logEvent.
			Int("winner", e.Winner).
			Dur("duration", e.Duration).
			Int("final_turn", e.FinalTurn)

	case *events.TurnStartedEvent:
		logEvent.Int("turn", e.TurnNumber)

	case *events.TurnEndedEvent:
		logEvent.
			Int("turn", e.TurnNumber).
			Int("actions_count", e.ActionsCount).
			Int("rejected", e.Rejected).
			Dur("process_time", e.ProcessedTime)

	case *events.ActionRejectedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Str("action", core.DescribeAction(e.Action)).
			Str("reason", e.Reason)

	case *events.UnitMovedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Str("unit_id", e.UnitID.String()).
			Stringer("from", e.From).
			Stringer("to", e.To).
			Int("steps", e.Steps).
			Float64("remaining", e.Remaining)

	case *events.UnitFortifiedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Str("unit_id", e.UnitID.String()).
			Stringer("tile", e.Tile)

	case *events.CombatResolvedEvent:
		logEvent.
			Str("attacker_id", e.AttackerID.String()).
			Str("defender_id", e.DefenderID.String()).
			Int("attacker_owner", e.AttackerOwner).
			Int("defender_owner", e.DefenderOwner).
			Stringer("from", e.From).
			Stringer("target", e.Target).
			Float64("attack_strength", e.AttackStrength).
			Float64("defense_strength", e.DefenseStrength).
			Int("attacker_damage", e.AttackerDamage).
			Int("defender_damage", e.DefenderDamage).
			Bool("attacker_defeated", e.AttackerDefeated).
			Bool("defender_defeated", e.DefenderDefeated).
			Bool("tile_captured", e.TileCaptured)

	case *events.UnitDefeatedEvent:
		logEvent.
			Str("unit_id", e.UnitID.String()).
			Str("name", e.Name).
			Int("owner", e.Owner).
			Stringer("tile", e.Tile).
			Int("defeated_by", e.DefeatedBy)

	case *events.TileCapturedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Stringer("tile", e.Tile).
			Int("previous_owner", e.PreviousOwner)

	case *events.UnitPhaseEvent:
		logEvent.
			Str("unit_id", e.UnitID.String()).
			Str("from_phase", e.FromPhase).
			Str("to_phase", e.ToPhase).
			Str("reason", e.Reason)

	case *events.MapValidatedEvent:
		logEvent.
			Int("tiles", e.Tiles).
			Int("landmasses", e.Landmasses).
			Int("bridges", e.Bridges).
			Int("rivers", e.Rivers)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from_state", e.FromState).
			Str("to_state", e.ToState).
			Str("reason", e.Reason)

	case *events.PlayerEliminatedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Int("eliminated_by", e.EliminatedBy).
			Int("turn", e.Turn)

	case *events.HealingAppliedEvent:
		logEvent.
			Int("units_healed", e.UnitsHealed).
			Int("cities_healed", e.CitiesHealed).
			Int("total_health", e.TotalHealth).
			Int("turn", e.Turn)
	}

	// In dev mode, also log the full event as JSON
	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	// Send the log
	logEvent.Msg("Game event")
}
