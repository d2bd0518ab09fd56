package core

import "sort"

// SortTiles sorts tiles in place using TileID.Less
func SortTiles(tiles []TileID) {
	sort.Slice(tiles, func(i, j int) bool {
		return tiles[i].Less(tiles[j])
	})
}

// Epsilon is the smallest movement amount the rules treat as non-zero
const Epsilon = 0.0001

// HasMovementLeft reports whether the remaining movement exceeds epsilon
func HasMovementLeft(remaining, epsilon float64) bool {
	return remaining > epsilon
}
