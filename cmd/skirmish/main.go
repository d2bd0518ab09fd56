package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/HexTactics/internal/config"
	"github.com/mitchelldurbincs/HexTactics/internal/game"
	"github.com/mitchelldurbincs/HexTactics/internal/game/combat"
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/HexTactics/internal/game/mapgen"
	"github.com/mitchelldurbincs/HexTactics/internal/game/movement"
	"github.com/mitchelldurbincs/HexTactics/internal/game/pathfind"
	"github.com/mitchelldurbincs/HexTactics/internal/game/processor"
	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
)

// army is fielded in this order around each capital
var army = []units.Template{
	units.Warrior, units.Archer, units.Spearman, units.Horseman,
	units.Swordsman, units.Catapult, units.Warrior, units.Archer,
}

const capitalStrength = 20

func main() {
	configPath := flag.String("config", "", "Path to config file")
	seed := flag.Int64("seed", -1, "Map and combat seed (-1 to use config default, 0 for random)")
	turns := flag.Int("turns", -1, "Turn limit (-1 to use config default, 0 for none)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	render := flag.Int("render", 0, "Print the board every N turns (0 to disable)")
	watch := flag.Bool("watch", false, "Reload the config file when it changes")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()

	if *seed >= 0 {
		cfg.Map.Seed = *seed
	}
	if *turns >= 0 {
		cfg.Simulation.MaxTurns = *turns
	}
	if *logLevel == "" {
		*logLevel = cfg.Log.Level
	}
	setupLogging(*logLevel, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *render, *watch); err != nil {
		log.Fatal().Err(err).Msg("Skirmish failed")
	}
}

func run(ctx context.Context, cfg *config.Config, renderEvery int, watch bool) error {
	seed := cfg.Map.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	cfg.Map.Seed = seed

	gen := mapgen.NewGenerator(cfg.Map, rng, log.Logger)
	world, err := gen.Generate()
	if err != nil {
		return fmt.Errorf("generate map: %w", err)
	}
	starts, err := gen.StartPositions(world, cfg.Simulation.Players, max(cfg.Map.Radius/2, 2))
	if err != nil {
		return fmt.Errorf("place players: %w", err)
	}

	bus := events.NewEventBusWithLogger(log.Logger)
	eventLog := subscribers.NewLoggerSubscriber("skirmish-log", log.Logger, zerolog.DebugLevel)
	eventLog.SetEventFilter([]string{
		events.TypeGameStarted, events.TypeGameEnded, events.TypeMapValidated,
		events.TypeCombatResolved, events.TypeUnitDefeated, events.TypeTileCaptured,
		events.TypePlayerEliminated, events.TypeActionRejected, events.TypeTurnEnded,
	})
	bus.Subscribe(eventLog)

	summary := newSummary()
	engine, err := game.NewEngine(ctx, game.GameConfig{
		Graph:        world.Graph,
		Registry:     world.Registry,
		Players:      cfg.Simulation.Players,
		Config:       cfg,
		Rng:          rng,
		Logger:       log.Logger,
		EventBus:     bus,
		Resources:    resourcesNear(world, starts, cfg.Map.Radius/2),
		TurnObserver: summary,
	})
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	if watch {
		config.WatchConfig(func(c *config.Config) {
			engine.SetRules(combat.NewRuleset(c.Combat), movement.NewOptions(c.Movement))
			log.Info().Msg("Config reloaded; rules apply from the next turn")
		})
	}
	bus.Publish(events.NewMapValidatedEvent(engine.GameID(), world.Graph.Len(), len(world.Landmasses), len(world.Bridges), len(world.Rivers)))

	for _, start := range starts {
		if err := deploy(engine, world, start, cfg.Simulation.UnitsPerSide); err != nil {
			return err
		}
	}
	if err := engine.Start(); err != nil {
		return fmt.Errorf("start skirmish: %w", err)
	}

	log.Info().
		Int64("seed", seed).
		Int("tiles", world.Graph.Len()).
		Int("players", cfg.Simulation.Players).
		Msg("Skirmish started")

	for !engine.IsGameOver() {
		var actions []core.Action
		for _, p := range engine.GameState().Players {
			if p.Alive {
				actions = append(actions, game.GenerateGreedyActions(engine, p.ID)...)
			}
		}
		if err := engine.ProcessTurn(ctx, actions); err != nil {
			return fmt.Errorf("turn %d: %w", engine.Turn()+1, err)
		}
		if renderEvery > 0 && engine.Turn()%renderEvery == 0 {
			fmt.Printf("Turn %d:\n%s\n", engine.Turn(), engine.Board(-1))
		}
		if cfg.Simulation.MaxTurns == 0 && engine.Turn() >= unlimitedTurnCap {
			log.Warn().Int("turn", engine.Turn()).Msg("Stopping a skirmish with no turn limit")
			break
		}
	}

	fmt.Printf("\nFinal board:\n%s\n", engine.Board(-1))
	summary.print(engine)
	return nil
}

// unlimitedTurnCap stops greedy armies that never meet
const unlimitedTurnCap = 1000

// deploy places a capital on the start tile and the army on the nearest free land
func deploy(engine *game.Engine, world *mapgen.Map, start mapgen.StartPosition, count int) error {
	name := fmt.Sprintf("Capital %d", start.PlayerID)
	if _, err := engine.AddCity(name, start.PlayerID, start.Tile, capitalStrength); err != nil {
		return fmt.Errorf("found %s: %w", name, err)
	}

	hops := pathfind.WithinHops(world.Graph, start.Tile, world.Graph.Len(), func(t core.TileID) bool {
		return world.Registry.TerrainOf(t).IsLand()
	})
	tiles := make([]core.TileID, 0, len(hops))
	for t := range hops {
		tiles = append(tiles, t)
	}
	sort.Slice(tiles, func(i, j int) bool {
		if hops[tiles[i]] != hops[tiles[j]] {
			return hops[tiles[i]] < hops[tiles[j]]
		}
		return tiles[i].Less(tiles[j])
	})

	placed := 0
	for _, t := range tiles {
		if placed == count {
			break
		}
		if world.Registry.MilitaryAt(t) != nil {
			continue
		}
		if _, err := engine.AddUnit(army[placed%len(army)], start.PlayerID, t); err != nil {
			continue
		}
		placed++
	}
	if placed < count {
		log.Warn().Int("player_id", start.PlayerID).Int("placed", placed).Int("wanted", count).Msg("Not enough land for the full army")
	}
	return nil
}

// resourcesNear gives each player the strategic resources within reach of
// their capital
func resourcesNear(world *mapgen.Map, starts []mapgen.StartPosition, radius int) map[int][]string {
	out := make(map[int][]string, len(starts))
	for _, s := range starts {
		seen := make(map[string]bool)
		for t := range pathfind.WithinHops(world.Graph, s.Tile, radius, nil) {
			if r, ok := world.Resources[t]; ok && !seen[r] {
				seen[r] = true
				out[s.PlayerID] = append(out[s.PlayerID], r)
			}
		}
		sort.Strings(out[s.PlayerID])
	}
	return out
}

// summary tallies the skirmish for the closing report
type summary struct {
	started  time.Time
	turns    int
	applied  int
	rejected int
	final    *game.GameState
	winner   int
}

func newSummary() *summary {
	return &summary{started: time.Now(), winner: -1}
}

func (s *summary) OnTurnProcessed(_, curr *game.GameState, _ []core.Action, result processor.Result) {
	s.turns = curr.Turn
	s.applied += result.Applied
	s.rejected += len(result.Rejected)
	s.final = curr
}

func (s *summary) OnGameEnd(final *game.GameState, winner int) {
	s.final = final
	s.winner = winner
}

func (s *summary) print(engine *game.Engine) {
	if engine.IsGameOver() && s.winner >= 0 {
		fmt.Printf("Player %d won on the %s turn.\n", s.winner, humanize.Ordinal(s.turns))
	} else {
		fmt.Printf("No winner after %s turns.\n", humanize.Comma(int64(s.turns)))
	}
	fmt.Printf("%s actions applied, %s rejected, played in %s.\n",
		humanize.Comma(int64(s.applied)),
		humanize.Comma(int64(s.rejected)),
		time.Since(s.started).Round(time.Millisecond))

	if s.final == nil {
		return
	}
	for _, p := range s.final.Players {
		status := "alive"
		if !p.Alive {
			status = fmt.Sprintf("eliminated by player %d", p.EliminatedBy)
		}
		fmt.Printf("  Player %d: %d units, %d cities, %s health, %s\n",
			p.ID, p.UnitCount, p.CityCount, humanize.Comma(int64(p.HealthTotal)), status)
	}
}

func setupLogging(level, format string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if format == "json" || os.Getenv("APP_ENV") == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}
