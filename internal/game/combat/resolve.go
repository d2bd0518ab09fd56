// Package combat resolves a single battle between two combatants. Resolution
// is pure: it reads the combatants and the battle context and returns an
// Outcome; Apply writes the outcome back.
package combat

import (
	"math"

	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
)

// Outcome is the complete result of one battle
type Outcome struct {
	AttackerDamage   int
	DefenderDamage   int
	AttackerDefeated bool
	DefenderDefeated bool
	TileCaptured     bool
	AttackerXP       int
	DefenderXP       int

	AttackStrength   float64
	DefenseStrength  float64
	AttackModifiers  Modifiers
	DefenseModifiers Modifiers
}

// Resolve computes a battle. The caller must already have checked range,
// movement and hostility; Resolve itself cannot fail.
func Resolve(attacker, defender *units.Combatant, ctx Context, rules Ruleset) Outcome {
	out := Outcome{
		AttackModifiers:  AttackModifiers(attacker, defender, ctx, rules),
		DefenseModifiers: DefenseModifiers(attacker, defender, ctx, rules),
	}
	out.AttackStrength = applyModifiers(attacker.BaseAttackStrength(rules.CityAttackRatio), out.AttackModifiers)
	out.DefenseStrength = applyModifiers(defender.BaseDefenseStrength(attacker.IsRanged()), out.DefenseModifiers)

	toDefender, toAttacker := potentialDamage(attacker, defender, out.AttackStrength, out.DefenseStrength, ctx, rules)
	out.DefenderDamage, out.AttackerDamage = exchange(toDefender, toAttacker, defender.Health, attacker.Health)

	out.DefenderDefeated = defender.Health-out.DefenderDamage <= 0
	out.AttackerDefeated = attacker.Health-out.AttackerDamage <= 0
	out.TileCaptured = capturesTile(attacker, defender, ctx, out)
	out.AttackerXP, out.DefenderXP = experience(attacker, defender, rules, out)
	return out
}

// Preview resolves a battle on copies, leaving the inputs untouched. It is the
// same computation as Resolve and exists for callers that want odds.
func Preview(attacker, defender *units.Combatant, ctx Context, rules Ruleset) Outcome {
	return Resolve(attacker.Clone(), defender.Clone(), ctx, rules)
}

// Apply writes an outcome to the combatants. Tile transfer on capture is left
// to the caller, which owns the registry.
func Apply(out Outcome, attacker, defender *units.Combatant) {
	attacker.TakeDamage(out.AttackerDamage)
	defender.TakeDamage(out.DefenderDamage)
	if !out.AttackerDefeated {
		attacker.XP += out.AttackerXP
	}
	if !out.DefenderDefeated {
		defender.XP += out.DefenderXP
	}
	attacker.AttacksThisTurn++
}

// potentialDamage returns the damage each side would deal before health caps
func potentialDamage(attacker, defender *units.Combatant, attack, defense float64, ctx Context, rules Ruleset) (toDefender, toAttacker int) {
	if defender.IsCivilian() {
		return rules.CivilianDamage, 0
	}

	randomness := rules.RandomnessFactor
	if ctx.RandomnessFactor != nil {
		randomness = min(max(*ctx.RandomnessFactor, 0), 1)
	}
	pool := rules.BaseDamage + rules.DamageSpread*randomness

	ratio := attack / defense
	modifier := strengthRatioModifier(ratio)

	dealtByAttacker := pool * modifier
	dealtByDefender := pool / modifier
	if ratio < 1 {
		dealtByAttacker = pool / modifier
		dealtByDefender = pool * modifier
	}

	toDefender = truncate(dealtByAttacker * woundedRatio(attacker, rules))
	toAttacker = truncate(dealtByDefender * woundedRatio(defender, rules))

	if attacker.IsRanged() && !attacker.IsAir() {
		toAttacker = 0
	}
	return toDefender, toAttacker
}

// strengthRatioModifier grows steeply with the stronger-to-weaker ratio. It is
// 1 for equal strengths.
func strengthRatioModifier(ratio float64) float64 {
	s := ratio
	if s < 1 {
		s = 1 / s
	}
	return (math.Pow((s+3)/4, 4) + 1) / 2
}

// woundedRatio dampens the damage a hurt unit deals. Full health gives 1; the
// ratio falls towards 0 as health approaches 0.
func woundedRatio(c *units.Combatant, rules Ruleset) float64 {
	if c.IsCity() || c.NoWoundedPenalty || c.MaxHealth <= 0 || c.Health >= c.MaxHealth {
		return 1
	}
	h := float64(max(c.Health, 0))
	missing := float64(c.MaxHealth) - h
	denom := h + missing*100/rules.WoundedRatioPercent
	if denom <= 0 {
		return 0
	}
	return h / denom
}

// truncate converts to whole damage, dropping the fraction
func truncate(x float64) int {
	if x <= 0 {
		return 0
	}
	return int(x)
}

// exchange hands out damage one point at a time, interleaved in proportion to
// each side's potential. It stops as soon as either side is at zero health.
// The attacker lands the first point on a tie.
func exchange(toDefender, toAttacker, defenderHealth, attackerHealth int) (dealtToDefender, dealtToAttacker int) {
	toDefender = max(toDefender, 0)
	toAttacker = max(toAttacker, 0)
	dh, ah := max(defenderHealth, 0), max(attackerHealth, 0)
	if dh == 0 || ah == 0 {
		return 0, 0
	}

	for dealtToDefender < toDefender || dealtToAttacker < toAttacker {
		defenderNext := dealtToDefender < toDefender &&
			(dealtToAttacker >= toAttacker ||
				(2*dealtToDefender+1)*toAttacker <= (2*dealtToAttacker+1)*toDefender)
		if defenderNext {
			dealtToDefender++
			if dealtToDefender == dh {
				break
			}
		} else {
			dealtToAttacker++
			if dealtToAttacker == ah {
				break
			}
		}
	}
	return dealtToDefender, dealtToAttacker
}

func capturesTile(attacker, defender *units.Combatant, ctx Context, out Outcome) bool {
	if !out.DefenderDefeated || out.AttackerDefeated || !attacker.IsMelee() || defender.IsCity() {
		return false
	}
	switch attacker.Class {
	case units.ClassWater:
		return ctx.DefenderTerrain.IsWater()
	case units.ClassLand:
		return !ctx.DefenderTerrain.IsWater() || attacker.CanEmbark
	default:
		return false
	}
}

func experience(attacker, defender *units.Combatant, rules Ruleset, out Outcome) (attackerXP, defenderXP int) {
	switch {
	case attacker.IsAir():
		attackerXP, defenderXP = rules.XP.AirAttacker, rules.XP.AirDefender
	case attacker.IsRanged():
		attackerXP, defenderXP = rules.XP.Ranged, rules.XP.Ranged
		if defender.IsCity() {
			attackerXP = rules.XP.RangedVsCity
		}
	default:
		attackerXP, defenderXP = rules.XP.MeleeAttacker, rules.XP.MeleeDefender
	}
	if !attacker.IsUnit() || defender.IsCivilian() {
		attackerXP = 0
	}
	if !defender.IsUnit() || defender.IsCivilian() {
		defenderXP = 0
	}
	return attackerXP, defenderXP
}
