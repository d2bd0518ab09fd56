package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexTactics/internal/config"
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
	"github.com/mitchelldurbincs/HexTactics/internal/testutil"
)

func TestRecoveryManager_Heal(t *testing.T) {
	cfg := config.Default().Recovery

	tests := []struct {
		name     string
		build    func() *units.Combatant
		expected int
	}{
		{
			name: "resting unit",
			build: func() *units.Combatant {
				u := units.New(units.Warrior, 0, core.TileID{})
				u.Health = 50
				return u
			},
			expected: 60,
		},
		{
			name: "fortified unit",
			build: func() *units.Combatant {
				u := units.New(units.Warrior, 0, core.TileID{})
				u.Health = 50
				u.Fortify()
				return u
			},
			expected: 70,
		},
		{
			name: "unit that moved",
			build: func() *units.Combatant {
				u := units.New(units.Warrior, 0, core.TileID{})
				u.Health = 50
				u.SpendMovement(1)
				return u
			},
			expected: 50,
		},
		{
			name: "unit that attacked",
			build: func() *units.Combatant {
				u := units.New(units.Archer, 0, core.TileID{})
				u.Health = 50
				u.AttacksThisTurn = 1
				return u
			},
			expected: 50,
		},
		{
			name: "city",
			build: func() *units.Combatant {
				c := units.NewCity("Capital", 0, core.TileID{}, 8, 0)
				c.Health = 30
				c.AttacksThisTurn = 1
				return c
			},
			expected: 50,
		},
		{
			name: "clamped at max health",
			build: func() *units.Combatant {
				u := units.New(units.Warrior, 0, core.TileID{})
				u.Health = 95
				return u
			},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := NewRecoveryManager(cfg, events.NewEventBus(), "test-game", testutil.NopLogger())
			c := tt.build()
			rm.ProcessTurnRecovery([]*units.Combatant{c}, 1)
			assert.Equal(t, tt.expected, c.Health)
		})
	}
}

func TestRecoveryManager_NothingHealed_NoEvent(t *testing.T) {
	bus := events.NewEventBus()
	published := 0
	bus.SubscribeFunc(events.TypeHealingApplied, func(events.Event) { published++ })
	rm := NewRecoveryManager(config.Default().Recovery, bus, "test-game", testutil.NopLogger())

	rm.ProcessTurnRecovery([]*units.Combatant{units.New(units.Warrior, 0, core.TileID{})}, 1)
	assert.Zero(t, published)

	wounded := units.New(units.Warrior, 0, core.TileID{})
	wounded.Health = 10
	rm.ProcessTurnRecovery([]*units.Combatant{wounded}, 2)
	require.Equal(t, 1, published)
}
