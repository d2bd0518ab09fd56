package combat

import "github.com/mitchelldurbincs/HexTactics/internal/config"

// XPAwards is the experience granted per battle type
type XPAwards struct {
	MeleeAttacker int
	MeleeDefender int
	Ranged        int
	RangedVsCity  int
	AirAttacker   int
	AirDefender   int
}

// Ruleset holds the combat constants. Percentages are additive.
type Ruleset struct {
	LandingMalus          float64
	BoardingMalus         float64
	RiverCrossingMalus    float64
	MissingResourcesMalus float64
	FortificationBonus    float64
	MaxFortificationTurns int
	EmbarkedDefenseBonus  float64
	BaseFlankingBonus     float64
	FlankingScalePercent  float64
	WoundedRatioPercent   float64
	CivilianDamage        int
	BaseDamage            float64
	DamageSpread          float64
	RandomnessFactor      float64
	CityAttackRatio       float64
	XP                    XPAwards
}

// NewRuleset converts the combat section of the configuration
func NewRuleset(c config.CombatConfig) Ruleset {
	return Ruleset{
		LandingMalus:          float64(c.LandingMalus),
		BoardingMalus:         float64(c.BoardingMalus),
		RiverCrossingMalus:    float64(c.RiverCrossingMalus),
		MissingResourcesMalus: float64(c.MissingResourcesMalus),
		FortificationBonus:    float64(c.FortificationBonus),
		MaxFortificationTurns: c.MaxFortificationTurns,
		EmbarkedDefenseBonus:  float64(c.EmbarkedDefenseBonus),
		BaseFlankingBonus:     float64(c.BaseFlankingBonus),
		FlankingScalePercent:  float64(c.FlankingScalePercent),
		WoundedRatioPercent:   float64(c.WoundedRatioPercent),
		CivilianDamage:        c.CivilianDamage,
		BaseDamage:            c.BaseDamage,
		DamageSpread:          c.DamageSpread,
		RandomnessFactor:      c.RandomnessFactor,
		CityAttackRatio:       c.CityAttackRatio,
		XP: XPAwards{
			MeleeAttacker: c.XP.MeleeAttacker,
			MeleeDefender: c.XP.MeleeDefender,
			Ranged:        c.XP.Ranged,
			RangedVsCity:  c.XP.RangedVsCity,
			AirAttacker:   c.XP.AirAttacker,
			AirDefender:   c.XP.AirDefender,
		},
	}
}

// DefaultRuleset returns the ruleset built from configuration defaults
func DefaultRuleset() Ruleset {
	return NewRuleset(config.Default().Combat)
}
