// Package units models everything that can fight: military units,
// civilians and cities. A Combatant is a tagged variant; behaviour that
// differs between kinds switches on Kind.
package units

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// Kind distinguishes the combatant variants
type Kind int

const (
	KindUnit Kind = iota
	KindCity
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindCity:
		return "city"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Class is the movement domain of a unit
type Class int

const (
	ClassLand Class = iota
	ClassWater
	ClassAir
)

func (c Class) String() string {
	switch c {
	case ClassLand:
		return "land"
	case ClassWater:
		return "water"
	case ClassAir:
		return "air"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Role is how a unit fights
type Role int

const (
	RoleMelee Role = iota
	RoleRanged
	RoleCivilian
)

func (r Role) String() string {
	switch r {
	case RoleMelee:
		return "melee"
	case RoleRanged:
		return "ranged"
	case RoleCivilian:
		return "civilian"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

const (
	DefaultMaxHealth = 100
	// CityRange is the bombard range of every city
	CityRange = 2
)

// Combatant is a unit or a city
type Combatant struct {
	Kind      Kind
	ID        uuid.UUID
	Owner     int
	Name      string
	Tile      core.TileID
	Health    int
	MaxHealth int

	// Unit fields
	Class                Class
	Role                 Role
	Strength             int
	RangedStrength       int
	Range                int
	Movement             float64
	MaxMovement          float64
	FortificationTurns   int
	MovedThisTurn        bool
	Embarked             bool
	CanEmbark            bool
	IgnoresZoneOfControl bool
	NoWoundedPenalty     bool
	FlankingBonusPercent int
	RequiredResources    []string
	XP                   int
	AttacksThisTurn      int
	MaxAttacks           int

	// City fields
	CityStrength float64
}

// NewCity creates a city combatant
func NewCity(name string, owner int, tile core.TileID, strength float64, maxHealth int) *Combatant {
	if maxHealth <= 0 {
		maxHealth = DefaultMaxHealth
	}
	return &Combatant{
		Kind:         KindCity,
		ID:           uuid.New(),
		Owner:        owner,
		Name:         name,
		Tile:         tile,
		Health:       maxHealth,
		MaxHealth:    maxHealth,
		CityStrength: strength,
		MaxAttacks:   1,
	}
}

// IsCity reports whether the combatant is a city
func (c *Combatant) IsCity() bool { return c.Kind == KindCity }

// IsUnit reports whether the combatant is a unit
func (c *Combatant) IsUnit() bool { return c.Kind == KindUnit }

// IsCivilian reports whether the combatant is a unit that cannot fight
func (c *Combatant) IsCivilian() bool {
	return c.Kind == KindUnit && c.Role == RoleCivilian
}

// IsMilitary reports whether the combatant is a fighting unit
func (c *Combatant) IsMilitary() bool {
	return c.Kind == KindUnit && c.Role != RoleCivilian
}

// IsMelee reports whether attacks by this combatant are melee attacks
func (c *Combatant) IsMelee() bool {
	return c.Kind == KindUnit && c.Role == RoleMelee
}

// IsRanged reports whether attacks by this combatant are ranged. Cities always bombard.
func (c *Combatant) IsRanged() bool {
	switch c.Kind {
	case KindCity:
		return true
	default:
		return c.Role == RoleRanged
	}
}

// IsAir reports whether the combatant is an air unit
func (c *Combatant) IsAir() bool {
	return c.Kind == KindUnit && c.Class == ClassAir
}

// IsFortified reports whether the unit is dug in
func (c *Combatant) IsFortified() bool {
	return c.Kind == KindUnit && c.FortificationTurns > 0
}

// IsDefeated reports whether the combatant has no health left
func (c *Combatant) IsDefeated() bool {
	return c.Health <= 0
}

// WeaponRange returns the attack range in hops
func (c *Combatant) WeaponRange() int {
	switch c.Kind {
	case KindCity:
		return CityRange
	default:
		if c.Role == RoleRanged {
			return max(c.Range, 1)
		}
		return 1
	}
}

// BaseAttackStrength returns the unmodified attacking strength. Cities attack
// with a fraction of their defensive strength.
func (c *Combatant) BaseAttackStrength(cityAttackRatio float64) float64 {
	switch c.Kind {
	case KindCity:
		return c.CityStrength * cityAttackRatio
	default:
		if c.Role == RoleRanged {
			return float64(c.RangedStrength)
		}
		return float64(c.Strength)
	}
}

// BaseDefenseStrength returns the unmodified defending strength. Ranged
// units defend with their ranged strength against ranged attacks.
func (c *Combatant) BaseDefenseStrength(attackerRanged bool) float64 {
	switch c.Kind {
	case KindCity:
		return c.CityStrength
	default:
		switch {
		case c.Role == RoleCivilian:
			return 0
		case c.Role == RoleRanged && attackerRanged:
			return float64(c.RangedStrength)
		default:
			return float64(c.Strength)
		}
	}
}

// CanAttack reports whether the combatant is able to launch an attack this turn
func (c *Combatant) CanAttack() bool {
	if c.IsDefeated() || c.IsCivilian() {
		return false
	}
	if c.MaxAttacks > 0 && c.AttacksThisTurn >= c.MaxAttacks {
		return false
	}
	return c.BaseAttackStrength(1) > 0
}

// TakeDamage lowers health, clamped at zero, and returns the damage actually taken
func (c *Combatant) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > c.Health {
		amount = c.Health
	}
	c.Health -= amount
	return amount
}

// Heal raises health, clamped at MaxHealth
func (c *Combatant) Heal(amount int) {
	if amount <= 0 {
		return
	}
	c.Health = min(c.Health+amount, c.MaxHealth)
}

// SpendMovement lowers remaining movement, never below zero
func (c *Combatant) SpendMovement(amount float64) {
	c.Movement = max(c.Movement-amount, 0)
	if amount > 0 {
		c.MovedThisTurn = true
		c.FortificationTurns = 0
	}
}

// StartTurn refreshes movement and attacks. Units that did not move keep
// digging in if they were already fortifying.
func (c *Combatant) StartTurn(maxFortificationTurns int) {
	if c.Kind != KindUnit {
		c.AttacksThisTurn = 0
		return
	}
	if c.FortificationTurns > 0 && !c.MovedThisTurn {
		c.FortificationTurns = min(c.FortificationTurns+1, max(maxFortificationTurns, 1))
	}
	c.Movement = c.MaxMovement
	c.MovedThisTurn = false
	c.AttacksThisTurn = 0
}

// Fortify starts fortifying in place
func (c *Combatant) Fortify() {
	if c.Kind == KindUnit && c.FortificationTurns == 0 {
		c.FortificationTurns = 1
	}
}

// Clone returns a deep copy
func (c *Combatant) Clone() *Combatant {
	cp := *c
	if c.RequiredResources != nil {
		cp.RequiredResources = append([]string(nil), c.RequiredResources...)
	}
	return &cp
}

// String identifies the combatant in logs
func (c *Combatant) String() string {
	return fmt.Sprintf("%s %q (owner %d) at %s", c.Kind, c.Name, c.Owner, c.Tile)
}
