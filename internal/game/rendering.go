package game

import (
	"sort"
	"strings"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
)

// This file contains the terminal rendering of the hex map.

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

const (
	flatSymbol     = "·"
	forestSymbol   = "♣"
	hillsSymbol    = "∩"
	mountainSymbol = "▲"
	waterSymbol    = "~"
	citySymbol     = "⬢"
	hiddenSymbol   = " "
	playerSymbols  = "ABCDEFGH"
)

var playerColors = []string{ColorRed, ColorBlue, ColorGreen, ColorYellow, ColorPurple, ColorCyan}

// Board renders the map as offset rows of two-character cells. A negative
// playerID shows everything; otherwise tiles the player cannot see are blank.
// Each occupied cell is the owner's letter followed by the city symbol or
// the unit's initial.
func (e *Engine) Board(playerID int) string {
	tiles := e.graph.Tiles()
	if len(tiles) == 0 {
		return ""
	}

	rows := make(map[int][]core.TileID)
	minCol := 0
	first := true
	for _, t := range tiles {
		rows[t.R] = append(rows[t.R], t)
		if col := 2*t.Q + t.R; first || col < minCol {
			minCol, first = col, false
		}
	}
	rowKeys := make([]int, 0, len(rows))
	for r := range rows {
		rowKeys = append(rowKeys, r)
	}
	sort.Ints(rowKeys)

	var sb strings.Builder
	sb.Grow(len(tiles)*16 + len(rowKeys))
	for _, r := range rowKeys {
		row := rows[r]
		sort.Slice(row, func(i, j int) bool { return row[i].Q < row[j].Q })
		cursor := 0
		for _, t := range row {
			pos := (2*t.Q + t.R - minCol) * 2
			sb.WriteString(strings.Repeat(" ", max(pos-cursor, 0)))
			e.writeTile(&sb, t, playerID)
			cursor = pos + 2
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(flatSymbol + "=open " + forestSymbol + "=forest " + hillsSymbol + "=hills " +
		mountainSymbol + "=mountain " + waterSymbol + "=water " + citySymbol + "=city A-H=players\n")
	return sb.String()
}

// writeTile writes one two-character cell
func (e *Engine) writeTile(sb *strings.Builder, t core.TileID, playerID int) {
	if playerID >= 0 && !e.visibility.IsVisible(playerID, t) {
		sb.WriteString(hiddenSymbol + hiddenSymbol)
		return
	}

	occupant := e.registry.OccupantOf(t)
	if occupant == nil {
		occupant = e.registry.CivilianAt(t)
	}
	if occupant == nil {
		sb.WriteString(ColorGray)
		sb.WriteString(" ")
		sb.WriteString(terrainSymbol(e.registry.TerrainOf(t)))
		sb.WriteString(ColorReset)
		return
	}

	sb.WriteString(getPlayerColor(occupant.Owner))
	sb.WriteByte(playerSymbols[occupant.Owner%len(playerSymbols)])
	sb.WriteString(occupantSymbol(occupant))
	sb.WriteString(ColorReset)
}

func terrainSymbol(t registry.Terrain) string {
	switch {
	case t.IsWater():
		return waterSymbol
	case t.IsImpassable():
		return mountainSymbol
	case t.Elevation == registry.ElevationHills:
		return hillsSymbol
	case t.BlocksSight:
		return forestSymbol
	default:
		return flatSymbol
	}
}

func occupantSymbol(c *units.Combatant) string {
	if c.IsCity() {
		return citySymbol
	}
	if c.Name == "" {
		return "?"
	}
	return strings.ToLower(c.Name[:1])
}

// getPlayerColor returns the color for the given player ID
func getPlayerColor(playerID int) string {
	if playerID < 0 || playerID >= len(playerColors) {
		return ColorWhite
	}
	return playerColors[playerID]
}
