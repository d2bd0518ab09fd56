package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexTactics/internal/config"
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
	"github.com/mitchelldurbincs/HexTactics/internal/testutil"
)

func newTracker(w *testutil.World, fog bool) *VisibilityTracker {
	cfg := config.Default().Vision
	cfg.FogOfWar = fog
	return NewVisibilityTracker(w.Graph, w.Registry, cfg, 2, testutil.NopLogger())
}

func TestVisibilityTracker_UnitSight(t *testing.T) {
	w := testutil.NewUniformWorld(5, registry.Grassland)
	w.Place(t, units.Warrior, 0, core.TileID{})
	vt := newTracker(w, true)

	tests := []struct {
		name     string
		player   int
		tile     core.TileID
		expected bool
	}{
		{"own tile", 0, core.TileID{}, true},
		{"within sight", 0, core.TileID{Q: 2, R: -1}, true},
		{"beyond sight", 0, core.TileID{Q: 3, R: 0}, false},
		{"player without units", 1, core.TileID{}, false},
		{"unknown player", 5, core.TileID{}, false},
		{"negative player", -1, core.TileID{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, vt.IsVisible(tt.player, tt.tile))
		})
	}
	assert.Equal(t, 19, vt.VisibleCount(0))
}

func TestVisibilityTracker_CitiesSeeFurther(t *testing.T) {
	w := testutil.NewUniformWorld(5, registry.Grassland)
	w.PlaceCity(t, "Capital", 1, core.TileID{}, 8)
	vt := newTracker(w, true)

	assert.True(t, vt.IsVisible(1, core.TileID{Q: 3, R: 0}))
	assert.Equal(t, 37, vt.VisibleCount(1))
}

func TestVisibilityTracker_MarkDirty_RecomputesAfterMove(t *testing.T) {
	w := testutil.NewUniformWorld(5, registry.Grassland)
	u := w.Place(t, units.Warrior, 0, core.TileID{})
	vt := newTracker(w, true)
	far := core.TileID{Q: 4, R: 0}
	require.False(t, vt.IsVisible(0, far))

	require.NoError(t, w.Registry.Move(u, core.TileID{Q: 3, R: 0}))
	assert.False(t, vt.IsVisible(0, far), "stale until marked dirty")

	vt.MarkDirty(0)
	assert.True(t, vt.IsVisible(0, far))
	assert.False(t, vt.IsVisible(0, core.TileID{Q: -2, R: 0}))
}

func TestVisibilityTracker_FogDisabled_SeesEverything(t *testing.T) {
	w := testutil.NewUniformWorld(3, registry.Grassland)
	vt := newTracker(w, false)

	assert.True(t, vt.IsVisible(0, core.TileID{Q: 3, R: 0}))
	assert.True(t, vt.IsVisible(1, core.TileID{Q: -3, R: 0}))
}
