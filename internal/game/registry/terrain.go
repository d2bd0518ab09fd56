package registry

import "fmt"

// Category is the broad movement class of a terrain
type Category int

const (
	CategoryLand Category = iota
	CategoryWater
	CategoryImpassable
)

func (c Category) String() string {
	switch c {
	case CategoryLand:
		return "land"
	case CategoryWater:
		return "water"
	case CategoryImpassable:
		return "impassable"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Elevation affects line of sight
type Elevation int

const (
	ElevationFlat Elevation = iota
	ElevationHills
	ElevationMountain
)

// Terrain describes one tile type
type Terrain struct {
	Name     string
	Category Category
	// MovementCost is the cost to enter a tile of this terrain
	MovementCost float64
	// DefenseModifier is a percentage added to a defender standing here
	DefenseModifier int
	Elevation       Elevation
	// BlocksSight is true for terrain that hides what is behind it
	BlocksSight bool
}

// IsLand reports whether land units may stand here
func (t Terrain) IsLand() bool { return t.Category == CategoryLand }

// IsWater reports whether this is a water tile
func (t Terrain) IsWater() bool { return t.Category == CategoryWater }

// IsImpassable reports whether nothing may enter this tile
func (t Terrain) IsImpassable() bool { return t.Category == CategoryImpassable }

var (
	Grassland = Terrain{Name: "Grassland", Category: CategoryLand, MovementCost: 1}
	Plains    = Terrain{Name: "Plains", Category: CategoryLand, MovementCost: 1}
	Desert    = Terrain{Name: "Desert", Category: CategoryLand, MovementCost: 1}
	Forest    = Terrain{Name: "Forest", Category: CategoryLand, MovementCost: 2, DefenseModifier: 25, BlocksSight: true}
	Hills     = Terrain{Name: "Hills", Category: CategoryLand, MovementCost: 2, DefenseModifier: 25, Elevation: ElevationHills, BlocksSight: true}
	Mountain  = Terrain{Name: "Mountain", Category: CategoryImpassable, MovementCost: 1, Elevation: ElevationMountain, BlocksSight: true}
	Coast     = Terrain{Name: "Coast", Category: CategoryWater, MovementCost: 1}
	Ocean     = Terrain{Name: "Ocean", Category: CategoryWater, MovementCost: 1}
)

// Terrains lists the built-in terrains by name
var Terrains = map[string]Terrain{
	Grassland.Name: Grassland,
	Plains.Name:    Plains,
	Desert.Name:    Desert,
	Forest.Name:    Forest,
	Hills.Name:     Hills,
	Mountain.Name:  Mountain,
	Coast.Name:     Coast,
	Ocean.Name:     Ocean,
}
