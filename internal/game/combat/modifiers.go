package combat

import (
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
)

// Modifier names
const (
	ModLanding          = "Landing"
	ModBoarding         = "Boarding"
	ModRiverCrossing    = "Across river"
	ModMissingResources = "Missing resource"
	ModFlanking         = "Flanking"
	ModTerrain          = "Terrain"
	ModFortification    = "Fortification"
	ModEmbarked         = "Embarked"
)

// Modifier is one named percentage adjustment
type Modifier struct {
	Name    string
	Percent float64
}

// Modifiers is an ordered list of adjustments. They are summed, never chained.
type Modifiers []Modifier

// Total returns the summed percentage
func (m Modifiers) Total() float64 {
	total := 0.0
	for _, mod := range m {
		total += mod.Percent
	}
	return total
}

// Get returns the percentage recorded under name
func (m Modifiers) Get(name string) (float64, bool) {
	for _, mod := range m {
		if mod.Name == name {
			return mod.Percent, true
		}
	}
	return 0, false
}

func (m Modifiers) add(name string, percent float64) Modifiers {
	if percent == 0 {
		return m
	}
	return append(m, Modifier{Name: name, Percent: percent})
}

// Context is the positional information a battle depends on
type Context struct {
	CrossesRiver     bool
	AttackerEmbarked bool
	DefenderEmbarked bool
	AttackerTerrain  registry.Terrain
	DefenderTerrain  registry.Terrain
	// FlankingUnits counts friendly melee units, other than the attacker,
	// adjacent to the defender.
	FlankingUnits int
	// Resources lists the strategic resources available to the attacker's owner
	Resources map[string]bool
	// RandomnessFactor in [0,1] overrides the ruleset default when set
	RandomnessFactor *float64
}

// AttackModifiers lists the adjustments to the attacker's strength
func AttackModifiers(attacker, defender *units.Combatant, ctx Context, rules Ruleset) Modifiers {
	var mods Modifiers
	if !attacker.IsUnit() {
		return mods
	}

	if attacker.IsMelee() && !attacker.IsAir() {
		if landing(attacker, defender, ctx) {
			mods = mods.add(ModLanding, rules.LandingMalus)
		}
		if attacker.Class == units.ClassLand && !ctx.AttackerTerrain.IsWater() && ctx.DefenderTerrain.IsWater() {
			mods = mods.add(ModBoarding, rules.BoardingMalus)
		}
		if ctx.CrossesRiver {
			mods = mods.add(ModRiverCrossing, rules.RiverCrossingMalus)
		}
	}

	for _, res := range attacker.RequiredResources {
		if !ctx.Resources[res] {
			mods = mods.add(ModMissingResources, rules.MissingResourcesMalus)
			break
		}
	}

	if attacker.IsMelee() && ctx.FlankingUnits > 0 {
		scale := (rules.FlankingScalePercent + float64(attacker.FlankingBonusPercent)) / 100
		mods = mods.add(ModFlanking, rules.BaseFlankingBonus*float64(ctx.FlankingUnits)*scale)
	}

	return mods
}

// landing reports an attack from water onto land: any embarked unit, or a
// ship striking a unit that is not a city. It is charged once.
func landing(attacker, defender *units.Combatant, ctx Context) bool {
	if ctx.DefenderTerrain.IsWater() {
		return false
	}
	if ctx.AttackerEmbarked {
		return true
	}
	return ctx.AttackerTerrain.IsWater() && !defender.IsCity()
}

// DefenseModifiers lists the adjustments to the defender's strength
func DefenseModifiers(attacker, defender *units.Combatant, ctx Context, rules Ruleset) Modifiers {
	var mods Modifiers
	if !defender.IsUnit() {
		return mods
	}

	if !ctx.DefenderEmbarked && !defender.IsAir() && !defender.IsCivilian() {
		mods = mods.add(ModTerrain, float64(ctx.DefenderTerrain.DefenseModifier))
	}

	if defender.IsFortified() && !defender.MovedThisTurn {
		turns := min(defender.FortificationTurns, max(rules.MaxFortificationTurns, 1))
		mods = mods.add(ModFortification, rules.FortificationBonus*float64(turns))
	}

	if ctx.DefenderEmbarked {
		mods = mods.add(ModEmbarked, rules.EmbarkedDefenseBonus)
	}

	return mods
}

// applyModifiers scales base by the summed percentage, never below 1
func applyModifiers(base float64, mods Modifiers) float64 {
	return max(1, base*(1+mods.Total()/100))
}

// AttackStrength returns the attacker's effective strength
func AttackStrength(attacker, defender *units.Combatant, ctx Context, rules Ruleset) float64 {
	return applyModifiers(attacker.BaseAttackStrength(rules.CityAttackRatio), AttackModifiers(attacker, defender, ctx, rules))
}

// DefenseStrength returns the defender's effective strength
func DefenseStrength(attacker, defender *units.Combatant, ctx Context, rules Ruleset) float64 {
	return applyModifiers(defender.BaseDefenseStrength(attacker.IsRanged()), DefenseModifiers(attacker, defender, ctx, rules))
}
