package game

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexTactics/internal/config"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
)

// RecoveryManager heals combatants between turns
type RecoveryManager struct {
	config   config.RecoveryConfig
	eventBus *events.EventBus
	gameID   string
	logger   zerolog.Logger
}

// NewRecoveryManager creates a new recovery manager
func NewRecoveryManager(cfg config.RecoveryConfig, eventBus *events.EventBus, gameID string, logger zerolog.Logger) *RecoveryManager {
	return &RecoveryManager{
		config:   cfg,
		eventBus: eventBus,
		gameID:   gameID,
		logger:   logger.With().Str("component", "RecoveryManager").Logger(),
	}
}

// ProcessTurnRecovery heals every combatant that rested during the turn that
// just ended. It must run before movement is refreshed, while MovedThisTurn
// and AttacksThisTurn still describe that turn.
func (rm *RecoveryManager) ProcessTurnRecovery(combatants []*units.Combatant, turn int) {
	unitsHealed, citiesHealed, total := 0, 0, 0

	for _, c := range combatants {
		healed := rm.heal(c)
		if healed == 0 {
			continue
		}
		total += healed
		if c.IsCity() {
			citiesHealed++
		} else {
			unitsHealed++
		}
	}

	if total > 0 {
		rm.eventBus.Publish(events.NewHealingAppliedEvent(rm.gameID, unitsHealed, citiesHealed, total, turn))
	}

	rm.logger.Debug().
		Int("turn", turn).
		Int("units_healed", unitsHealed).
		Int("cities_healed", citiesHealed).
		Int("total_health", total).
		Msg("Turn recovery complete")
}

// heal applies one combatant's recovery and returns the health restored
func (rm *RecoveryManager) heal(c *units.Combatant) int {
	if c.IsDefeated() || c.Health >= c.MaxHealth {
		return 0
	}

	var amount int
	switch {
	case c.IsCity():
		amount = rm.config.CityHeal
	case c.MovedThisTurn || c.AttacksThisTurn > 0:
		return 0
	case c.IsFortified():
		amount = rm.config.FortifiedHeal
	default:
		amount = rm.config.UnitHeal
	}

	before := c.Health
	c.Heal(amount)
	return c.Health - before
}
