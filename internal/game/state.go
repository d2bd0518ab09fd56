package game

// Player tracks a side's standing. Counts are cached by updatePlayerStats.
type Player struct {
	ID          int
	Alive       bool
	UnitCount   int
	CityCount   int
	HealthTotal int
	// EliminatedBy is the player whose attack removed the last combatant, -1 otherwise
	EliminatedBy int
}

func (p Player) GetID() int       { return p.ID }
func (p Player) IsAlive() bool    { return p.Alive }
func (p Player) TotalHealth() int { return p.HealthTotal }

// GameState is the turn counter and the player table
type GameState struct {
	Turn    int
	Players []Player
}

// Clone returns a deep copy
func (gs *GameState) Clone() *GameState {
	cp := &GameState{Turn: gs.Turn, Players: make([]Player, len(gs.Players))}
	copy(cp.Players, gs.Players)
	return cp
}
