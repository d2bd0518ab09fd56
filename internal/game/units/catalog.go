package units

import (
	"github.com/google/uuid"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// Template describes a buildable unit type
type Template struct {
	Name                 string
	Class                Class
	Role                 Role
	Strength             int
	RangedStrength       int
	Range                int
	Movement             float64
	CanEmbark            bool
	IgnoresZoneOfControl bool
	NoWoundedPenalty     bool
	FlankingBonusPercent int
	RequiredResources    []string
	MaxAttacks           int
}

var (
	Warrior   = Template{Name: "Warrior", Class: ClassLand, Role: RoleMelee, Strength: 8, Movement: 2, CanEmbark: true}
	Spearman  = Template{Name: "Spearman", Class: ClassLand, Role: RoleMelee, Strength: 11, Movement: 2, CanEmbark: true}
	Swordsman = Template{Name: "Swordsman", Class: ClassLand, Role: RoleMelee, Strength: 14, Movement: 2, CanEmbark: true, RequiredResources: []string{"Iron"}}
	Horseman  = Template{Name: "Horseman", Class: ClassLand, Role: RoleMelee, Strength: 12, Movement: 4, CanEmbark: true, RequiredResources: []string{"Horses"}}
	Archer    = Template{Name: "Archer", Class: ClassLand, Role: RoleRanged, Strength: 5, RangedStrength: 7, Range: 2, Movement: 2, CanEmbark: true}
	Catapult  = Template{Name: "Catapult", Class: ClassLand, Role: RoleRanged, Strength: 4, RangedStrength: 14, Range: 2, Movement: 2, CanEmbark: true, RequiredResources: []string{"Iron"}}
	Scout     = Template{Name: "Scout", Class: ClassLand, Role: RoleMelee, Strength: 4, Movement: 2, CanEmbark: true, IgnoresZoneOfControl: true}
	Settler   = Template{Name: "Settler", Class: ClassLand, Role: RoleCivilian, Movement: 2, CanEmbark: true}
	Worker    = Template{Name: "Worker", Class: ClassLand, Role: RoleCivilian, Movement: 2, CanEmbark: true}
	Trireme   = Template{Name: "Trireme", Class: ClassWater, Role: RoleMelee, Strength: 10, Movement: 3}
	Galleass  = Template{Name: "Galleass", Class: ClassWater, Role: RoleRanged, Strength: 16, RangedStrength: 17, Range: 2, Movement: 3}
	Bomber    = Template{Name: "Bomber", Class: ClassAir, Role: RoleRanged, Strength: 40, RangedStrength: 65, Range: 6, Movement: 6}
)

// Catalog lists every template by name
var Catalog = map[string]Template{
	Warrior.Name:   Warrior,
	Spearman.Name:  Spearman,
	Swordsman.Name: Swordsman,
	Horseman.Name:  Horseman,
	Archer.Name:    Archer,
	Catapult.Name:  Catapult,
	Scout.Name:     Scout,
	Settler.Name:   Settler,
	Worker.Name:    Worker,
	Trireme.Name:   Trireme,
	Galleass.Name:  Galleass,
	Bomber.Name:    Bomber,
}

// New builds a fresh full-health unit from a template
func New(tpl Template, owner int, tile core.TileID) *Combatant {
	maxAttacks := tpl.MaxAttacks
	if maxAttacks == 0 {
		maxAttacks = 1
	}
	return &Combatant{
		Kind:                 KindUnit,
		ID:                   uuid.New(),
		Owner:                owner,
		Name:                 tpl.Name,
		Tile:                 tile,
		Health:               DefaultMaxHealth,
		MaxHealth:            DefaultMaxHealth,
		Class:                tpl.Class,
		Role:                 tpl.Role,
		Strength:             tpl.Strength,
		RangedStrength:       tpl.RangedStrength,
		Range:                tpl.Range,
		Movement:             tpl.Movement,
		MaxMovement:          tpl.Movement,
		CanEmbark:            tpl.CanEmbark,
		IgnoresZoneOfControl: tpl.IgnoresZoneOfControl,
		NoWoundedPenalty:     tpl.NoWoundedPenalty,
		FlankingBonusPercent: tpl.FlankingBonusPercent,
		RequiredResources:    append([]string(nil), tpl.RequiredResources...),
		MaxAttacks:           maxAttacks,
	}
}
