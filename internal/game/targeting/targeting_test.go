package targeting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/movement"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
	"github.com/mitchelldurbincs/HexTactics/internal/testutil"
)

var origin = core.TileID{}

func newResolver(w *testutil.World, opts Options, vis Visibility) (*Resolver, *movement.Resolver) {
	mv := movement.NewResolver(w.Graph, w.Registry, movement.DefaultOptions(), testutil.NopLogger())
	return NewResolver(w.Graph, mv, w.Registry, NewHexLineOfSight(w.Registry), vis, opts, testutil.NopLogger()), mv
}

type fogOfWar map[core.TileID]bool

func (f fogOfWar) IsVisible(_ int, t core.TileID) bool { return f[t] }

func TestAttackableTiles_ZeroMovement_OnlyCurrentTile(t *testing.T) {
	w := testutil.NewUniformWorld(3, registry.Grassland)
	r, _ := newResolver(w, Options{}, nil)

	u := w.Place(t, units.Warrior, 0, origin)
	u.Movement = 0
	adjacent := w.Place(t, units.Warrior, 1, core.TileID{Q: 1, R: 0})
	far := w.Place(t, units.Warrior, 1, core.TileID{Q: 3, R: 0})

	got := r.AttackableTiles(u, adjacent.Tile)
	require.Len(t, got, 1)
	assert.Equal(t, AttackableTile{Launch: origin, Target: adjacent.Tile, MovementLeft: 0, Combatant: adjacent}, got[0])

	assert.Empty(t, r.AttackableTiles(u, far.Tile))
}

func TestAttackableTiles_Melee_LaunchNeedsMovementLeft(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	r, _ := newResolver(w, Options{}, nil)

	u := w.Place(t, units.Warrior, 0, origin)
	enemy := w.Place(t, units.Warrior, 1, core.TileID{Q: 2, R: 0})

	got := r.AttackableTiles(u, enemy.Tile)

	// Tiles two steps away are adjacent to the enemy but leave no movement to attack with
	require.Len(t, got, 1)
	assert.Equal(t, core.TileID{Q: 1, R: 0}, got[0].Launch)
	assert.InDelta(t, 1.0, got[0].MovementLeft, 1e-9)
	assert.Same(t, enemy, got[0].Combatant)
}

func TestAttackableTiles_Ranged_FollowsReachabilityOrder(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	r, mv := newResolver(w, Options{}, nil)

	u := w.Place(t, units.Archer, 0, origin)
	enemy := w.Place(t, units.Warrior, 1, core.TileID{Q: 2, R: 0})

	got := r.AttackableTiles(u, enemy.Tile)
	require.NotEmpty(t, got)
	assert.Equal(t, origin, got[0].Launch)
	assert.InDelta(t, 2.0, got[0].MovementLeft, 1e-9)

	var expected []core.TileID
	reach := mv.ReachableTiles(u, u.Movement)
	for _, tile := range reach.Order {
		if tile == origin || (reach.Remaining[tile] > core.Epsilon && tile.DistanceTo(enemy.Tile) <= 2) {
			expected = append(expected, tile)
		}
	}

	launches := make([]core.TileID, 0, len(got))
	for _, a := range got {
		launches = append(launches, a.Launch)
		assert.Equal(t, enemy.Tile, a.Target)
		assert.GreaterOrEqual(t, a.MovementLeft, 0.0)
	}
	assert.Equal(t, expected, launches)
	assert.Equal(t, []core.TileID{origin, {Q: 0, R: 1}, {Q: 1, R: -1}, {Q: 1, R: 0}}, launches)
}

func TestAttackableTiles_LineOfSight(t *testing.T) {
	tests := []struct {
		name        string
		shooterOn   registry.Terrain
		requireLoS  bool
		expectShots int
	}{
		{"forest blocks a flat shooter", registry.Grassland, true, 0},
		{"hills see over forest", registry.Hills, true, 1},
		{"line of sight not required", registry.Grassland, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.NewUniformWorld(3, registry.Grassland)
			w.Registry.SetTerrain(origin, tt.shooterOn)
			w.Registry.SetTerrain(core.TileID{Q: 1, R: 0}, registry.Forest)
			r, _ := newResolver(w, Options{RequireLineOfSight: tt.requireLoS}, nil)

			u := w.Place(t, units.Archer, 0, origin)
			u.Movement = 0
			enemy := w.Place(t, units.Warrior, 1, core.TileID{Q: 2, R: 0})

			assert.Len(t, r.AttackableTiles(u, enemy.Tile), tt.expectShots)
		})
	}
}

func TestAttackableTiles_Visibility(t *testing.T) {
	w := testutil.NewUniformWorld(2, registry.Grassland)
	enemyTile := core.TileID{Q: 1, R: 0}
	hidden := fogOfWar{origin: true}

	r, _ := newResolver(w, Options{}, hidden)
	u := w.Place(t, units.Warrior, 0, origin)
	u.Movement = 0
	w.Place(t, units.Warrior, 1, enemyTile)

	assert.Empty(t, r.AttackableTiles(u, enemyTile))

	r, _ = newResolver(w, Options{IgnoreVisibility: true}, hidden)
	assert.Len(t, r.AttackableTiles(u, enemyTile), 1)

	r, _ = newResolver(w, Options{}, fogOfWar{origin: true, enemyTile: true})
	assert.Len(t, r.AttackableTiles(u, enemyTile), 1)
}

func TestAttackableTiles_AirUnit_AttacksFromCurrentTileOnly(t *testing.T) {
	w := testutil.NewUniformWorld(6, registry.Grassland)
	r, _ := newResolver(w, Options{RequireLineOfSight: true}, nil)
	w.Registry.SetTerrain(core.TileID{Q: 2, R: 0}, registry.Forest)

	bomber := w.Place(t, units.Bomber, 0, origin)
	enemy := w.Place(t, units.Warrior, 1, core.TileID{Q: 5, R: 0})

	got := r.AttackableTiles(bomber, enemy.Tile)
	require.Len(t, got, 1)
	assert.Equal(t, origin, got[0].Launch)
}

func TestContainsAttackableEnemy(t *testing.T) {
	w := testutil.NewWorldFromRows(t,
		"gggoo",
		"gggoo",
	)
	r, _ := newResolver(w, Options{}, nil)

	landlocked := units.Warrior
	landlocked.Name = "Landlocked"
	landlocked.CanEmbark = false

	warrior := w.Place(t, units.Warrior, 0, core.TileID{Q: 0, R: 0})
	archer := w.Place(t, units.Archer, 0, core.TileID{Q: 0, R: 1})
	stuck := w.Place(t, landlocked, 0, core.TileID{Q: 1, R: 1})
	friend := w.Place(t, units.Spearman, 0, core.TileID{Q: 1, R: 0})
	enemyLand := w.Place(t, units.Warrior, 1, core.TileID{Q: 2, R: 0})
	enemyBoat := w.Place(t, units.Trireme, 1, core.TileID{Q: 3, R: 0})
	_ = w.PlaceCity(t, "Enemy Town", 1, core.TileID{Q: 2, R: 1}, 10)

	assert.True(t, r.ContainsAttackableEnemy(warrior, enemyLand.Tile))
	assert.True(t, r.ContainsAttackableEnemy(warrior, enemyBoat.Tile))
	assert.True(t, r.ContainsAttackableEnemy(warrior, core.TileID{Q: 2, R: 1}), "cities are attackable")
	assert.False(t, r.ContainsAttackableEnemy(warrior, friend.Tile))
	assert.False(t, r.ContainsAttackableEnemy(warrior, core.TileID{Q: 4, R: 1}), "empty tile")
	assert.False(t, r.ContainsAttackableEnemy(stuck, enemyBoat.Tile), "melee land unit that cannot embark")
	assert.True(t, r.ContainsAttackableEnemy(stuck, enemyLand.Tile))

	warrior.Embarked = true
	assert.False(t, r.ContainsAttackableEnemy(warrior, enemyBoat.Tile), "embarked units cannot attack water")
	assert.True(t, r.ContainsAttackableEnemy(warrior, enemyLand.Tile))

	archer.Embarked = true
	assert.False(t, r.ContainsAttackableEnemy(archer, enemyLand.Tile), "embarked ranged units cannot attack")
}

func TestAttackableEnemies_GroupsByLaunchTile(t *testing.T) {
	w := testutil.NewUniformWorld(3, registry.Grassland)
	r, _ := newResolver(w, Options{}, nil)

	u := w.Place(t, units.Warrior, 0, origin)
	u.Movement = 0
	w.Place(t, units.Warrior, 0, core.TileID{Q: -1, R: 0})
	south := w.Place(t, units.Warrior, 1, core.TileID{Q: 0, R: 1})
	southEast := w.Place(t, units.Warrior, 1, core.TileID{Q: 1, R: 0})

	got := r.AttackableEnemies(u)
	require.Len(t, got, 2)

	// Neighbors come clockwise from the top
	assert.Same(t, southEast, got[0].Combatant)
	assert.Same(t, south, got[1].Combatant)
	for _, a := range got {
		assert.Equal(t, origin, a.Launch)
	}
}

func TestAttackableEnemies_WithMovement_CoversEveryLaunch(t *testing.T) {
	w := testutil.NewUniformWorld(4, registry.Grassland)
	r, _ := newResolver(w, Options{}, nil)

	archer := w.Place(t, units.Archer, 0, origin)
	enemy := w.Place(t, units.Warrior, 1, core.TileID{Q: 3, R: 0})

	got := r.AttackableEnemies(archer)
	require.NotEmpty(t, got)

	seen := map[core.TileID]bool{}
	for _, a := range got {
		assert.Equal(t, enemy.Tile, a.Target)
		assert.LessOrEqual(t, a.Launch.DistanceTo(a.Target), 2)
		assert.False(t, seen[a.Launch], "launch %s repeated", a.Launch)
		seen[a.Launch] = true
	}

	assert.Equal(t, len(got), len(r.AttackableTiles(archer, enemy.Tile)))
	assert.False(t, seen[origin], "origin is three tiles away")
}

func TestLine(t *testing.T) {
	assert.Equal(t, []core.TileID{origin}, Line(origin, origin))
	assert.Equal(t,
		[]core.TileID{{Q: 0, R: 0}, {Q: 1, R: 0}, {Q: 2, R: 0}, {Q: 3, R: 0}},
		Line(origin, core.TileID{Q: 3, R: 0}))

	rng := testutil.NewTestRNG(7)
	for i := 0; i < 200; i++ {
		a := core.TileID{Q: rng.Intn(15) - 7, R: rng.Intn(15) - 7}
		b := core.TileID{Q: rng.Intn(15) - 7, R: rng.Intn(15) - 7}
		line := Line(a, b)
		require.Len(t, line, a.DistanceTo(b)+1)
		assert.Equal(t, a, line[0])
		assert.Equal(t, b, line[len(line)-1])
		for j := 1; j < len(line); j++ {
			assert.True(t, line[j-1].IsAdjacentTo(line[j]), "%s -> %s", line[j-1], line[j])
		}
	}
}

func TestRangedReach_CountsGraphHops(t *testing.T) {
	tests := []struct {
		name       string
		middle     string
		attackable bool
	}{
		{name: "open ground", middle: "ggg", attackable: true},
		{name: "hole between", middle: "g.g", attackable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.NewWorldFromRows(t, "ggg", tt.middle, "ggg")
			r, _ := newResolver(w, Options{}, nil)

			archer := w.Place(t, units.Archer, 0, core.TileID{Q: 0, R: 1})
			archer.Movement = 0
			enemy := w.Place(t, units.Warrior, 1, core.TileID{Q: 2, R: 1})
			require.Equal(t, 2, archer.Tile.DistanceTo(enemy.Tile))

			tiles := r.AttackableTiles(archer, enemy.Tile)
			enemies := r.AttackableEnemies(archer)
			assert.Equal(t, len(tiles), len(enemies), "both target lists agree")
			if tt.attackable {
				require.Len(t, tiles, 1)
				assert.Equal(t, archer.Tile, tiles[0].Launch)
				assert.Equal(t, tiles, enemies)
			} else {
				assert.Empty(t, tiles)
				assert.Empty(t, enemies)
			}
		})
	}
}
