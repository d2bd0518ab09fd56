package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapActionError(t *testing.T) {
	unitID := uuid.MustParse("0a1b2c3d-0000-0000-0000-000000000000")
	from := TileID{0, 1}

	tests := []struct {
		name     string
		action   Action
		err      error
		expected string
		isNil    bool
	}{
		{
			name:   "nil error returns nil",
			action: &MoveAction{PlayerID: 1, UnitID: unitID},
			isNil:  true,
		},
		{
			name:     "move action",
			action:   &MoveAction{PlayerID: 1, UnitID: unitID, To: TileID{2, -1}},
			err:      ErrDestinationUnreachable,
			expected: "player 1: unit 0a1b2c3d move to (2,-1): destination is not reachable",
		},
		{
			name:     "attack action with launch tile",
			action:   &AttackAction{PlayerID: 2, UnitID: unitID, Target: TileID{1, 1}, From: &from},
			err:      ErrOutOfRange,
			expected: "player 2: unit 0a1b2c3d attack (1,1) from (0,1): target is out of range",
		},
		{
			name:     "generic action fallback",
			action:   nil,
			err:      ErrGameOver,
			expected: "player action: game is over",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapActionError(tt.action, tt.err)
			if tt.isNil {
				assert.Nil(t, wrapped)
				return
			}
			require.NotNil(t, wrapped)
			assert.Equal(t, tt.expected, wrapped.Error())
			assert.True(t, errors.Is(wrapped, tt.err))
		})
	}
}

func TestWrapGameStateError(t *testing.T) {
	assert.Nil(t, WrapGameStateError(3, "combat", nil))

	wrapped := WrapGameStateError(25, "movement", fmt.Errorf("bad budget"))
	require.NotNil(t, wrapped)
	assert.Equal(t, "game turn 25 [movement]: bad budget", wrapped.Error())

	wrapped = WrapGameStateError(100, "action", ErrGameOver)
	assert.True(t, errors.Is(wrapped, ErrGameOver))

	var gse *GameStateError
	require.True(t, errors.As(wrapped, &gse))
	assert.Equal(t, 100, gse.Turn)
}

func TestWrapTopologyError(t *testing.T) {
	assert.Nil(t, WrapTopologyError(TileID{}, TileID{}, nil))

	wrapped := WrapTopologyError(TileID{0, 0}, TileID{1, 0}, ErrAsymmetricEdge)
	assert.Equal(t, "map topology at (0,0) -> (1,0): edge is not symmetric", wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrAsymmetricEdge)
}
