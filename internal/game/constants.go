package game

// Capture and siege rules applied by the engine after a battle
const (
	// CapturedCityHealthDivisor sets a captured city's health to MaxHealth / divisor
	CapturedCityHealthDivisor = 4
	// MinCityHealth is the floor for cities hit by attacks that cannot capture
	MinCityHealth = 1
	// FollowUpAttackCost is the movement spent by an attack when the unit may
	// still attack again this turn
	FollowUpAttackCost = 1.0
)
