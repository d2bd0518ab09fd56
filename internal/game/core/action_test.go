package core

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestActions_Interface(t *testing.T) {
	id := uuid.New()
	actions := []struct {
		action   Action
		expected ActionType
	}{
		{&MoveAction{PlayerID: 0, UnitID: id}, ActionMove},
		{&AttackAction{PlayerID: 1, UnitID: id}, ActionAttack},
		{&FortifyAction{PlayerID: 2, UnitID: id}, ActionFortify},
	}

	for i, tt := range actions {
		assert.Equal(t, tt.expected, tt.action.GetType())
		assert.Equal(t, i, tt.action.GetPlayerID())
		assert.Equal(t, id, tt.action.GetUnitID())
	}
}

func TestDescribeAction(t *testing.T) {
	id := uuid.MustParse("deadbeef-0000-0000-0000-000000000000")
	assert.Equal(t, "nil", DescribeAction(nil))
	assert.Equal(t, "unit deadbeef move to (1,2)", DescribeAction(&MoveAction{UnitID: id, To: TileID{1, 2}}))
	assert.Equal(t, "unit deadbeef attack (0,0)", DescribeAction(&AttackAction{UnitID: id}))
	assert.Equal(t, "unit deadbeef fortify", DescribeAction(&FortifyAction{UnitID: id}))
	assert.Equal(t, "attack", ActionAttack.String())
}
