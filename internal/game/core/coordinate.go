package core

import "fmt"

// TileID is an axial hex coordinate. The map uses a flat-top layout where
// q grows towards the east and r grows towards the south-east.
type TileID struct {
	Q, R int
}

// NewTileID creates a new tile ID with the given axial coordinates
func NewTileID(q, r int) TileID {
	return TileID{Q: q, R: r}
}

// S returns the implicit third cube coordinate (q + r + s == 0)
func (t TileID) S() int {
	return -t.Q - t.R
}

// Add returns the tile offset by another axial vector
func (t TileID) Add(other TileID) TileID {
	return TileID{Q: t.Q + other.Q, R: t.R + other.R}
}

// Sub returns the axial vector from other to t
func (t TileID) Sub(other TileID) TileID {
	return TileID{Q: t.Q - other.Q, R: t.R - other.R}
}

// DistanceTo calculates the hex (cube) distance to another tile
func (t TileID) DistanceTo(other TileID) int {
	d := t.Sub(other)
	return max(abs(d.Q), abs(d.R), abs(d.S()))
}

// IsAdjacentTo checks if the other tile shares an edge with this one
func (t TileID) IsAdjacentTo(other TileID) bool {
	return t.DistanceTo(other) == 1
}

// Neighbors returns the six geometric neighbours ordered clockwise starting
// from the top (north) edge.
func (t TileID) Neighbors() [6]TileID {
	var n [6]TileID
	for i, dir := range AllDirections {
		n[i] = t.Add(DirectionVectors[dir])
	}
	return n
}

// DirectionTo returns the direction of an adjacent tile.
// The second value is false when the tiles are not adjacent.
func (t TileID) DirectionTo(other TileID) (Direction, bool) {
	d := other.Sub(t)
	for _, dir := range AllDirections {
		if DirectionVectors[dir] == d {
			return dir, true
		}
	}
	return 0, false
}

// Less reports whether t sorts before other (by Q, then R). Used wherever a
// deterministic tile order is needed.
func (t TileID) Less(other TileID) bool {
	if t.Q != other.Q {
		return t.Q < other.Q
	}
	return t.R < other.R
}

// Compare returns -1, 0 or +1 following the order of Less
func (t TileID) Compare(other TileID) int {
	switch {
	case t == other:
		return 0
	case t.Less(other):
		return -1
	default:
		return 1
	}
}

// String returns a string representation of the tile ID
func (t TileID) String() string {
	return fmt.Sprintf("(%d,%d)", t.Q, t.R)
}

// Direction represents one of the six hex edges
type Direction int

const (
	North Direction = iota
	NorthEast
	SouthEast
	South
	SouthWest
	NorthWest
)

// AllDirections lists the directions clockwise from the top
var AllDirections = [6]Direction{North, NorthEast, SouthEast, South, SouthWest, NorthWest}

// DirectionVectors provides axial offsets for each direction
var DirectionVectors = map[Direction]TileID{
	North:     {Q: 0, R: -1},
	NorthEast: {Q: 1, R: -1},
	SouthEast: {Q: 1, R: 0},
	South:     {Q: 0, R: 1},
	SouthWest: {Q: -1, R: 1},
	NorthWest: {Q: -1, R: 0},
}

// Opposite returns the direction pointing the other way
func (d Direction) Opposite() Direction {
	return (d + 3) % 6
}

func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case NorthEast:
		return "NE"
	case SouthEast:
		return "SE"
	case South:
		return "S"
	case SouthWest:
		return "SW"
	case NorthWest:
		return "NW"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
