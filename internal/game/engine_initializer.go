package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexTactics/internal/config"
	"github.com/mitchelldurbincs/HexTactics/internal/game/combat"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
	"github.com/mitchelldurbincs/HexTactics/internal/game/hexmap"
	"github.com/mitchelldurbincs/HexTactics/internal/game/movement"
	"github.com/mitchelldurbincs/HexTactics/internal/game/processor"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
	"github.com/mitchelldurbincs/HexTactics/internal/game/rules"
	"github.com/mitchelldurbincs/HexTactics/internal/game/states"
	"github.com/mitchelldurbincs/HexTactics/internal/game/targeting"
	"github.com/mitchelldurbincs/HexTactics/internal/game/units"
)

// GameConfig describes a skirmish to set up
type GameConfig struct {
	GameID   string
	Graph    *hexmap.Graph
	Registry *registry.Registry
	Players  int
	// Config supplies the rules; nil means defaults
	Config   *config.Config
	Rng      *rand.Rand
	Logger   zerolog.Logger
	EventBus *events.EventBus
	// Resources lists the strategic resources each player controls
	Resources    map[int][]string
	TurnObserver TurnObserver
}

// EngineInitializer handles the complex initialization of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	logger := cfg.Logger.With().Str("component", "GameEngine").Logger()
	return &EngineInitializer{
		config: cfg,
		logger: logger,
	}
}

// NewEngine builds an engine in the setup phase. Place combatants with
// AddUnit and AddCity, then call Start.
func NewEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// Initialize creates and initializes a new game engine
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	// Check context early
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled or timed out during initial phase")
		return nil, ctx.Err()
	default:
	}

	if err := ei.validateConfig(); err != nil {
		return nil, err
	}

	ei.setupDefaults()

	if !ei.config.Graph.Frozen() {
		ei.config.Graph.Freeze()
	}
	if err := ei.config.Graph.Validate(); err != nil {
		return nil, fmt.Errorf("map validation failed: %w", err)
	}

	engine := ei.createEngine()
	ei.setupEventHandling(engine)
	ei.performInitialSetup(engine)

	ei.logger.Info().
		Str("game_id", engine.gameID).
		Int("tiles", ei.config.Graph.Len()).
		Int("players", ei.config.Players).
		Int("combatants", len(engine.units)).
		Msg("Engine created successfully")

	return engine, nil
}

// validateConfig rejects configurations the engine cannot run
func (ei *EngineInitializer) validateConfig() error {
	if ei.config.Graph == nil || ei.config.Registry == nil {
		return fmt.Errorf("engine needs a map graph and a tile registry")
	}
	if ei.config.Players < 1 || ei.config.Players > maxVisibilityPlayers {
		return fmt.Errorf("player count must be between 1 and %d, got %d", maxVisibilityPlayers, ei.config.Players)
	}
	if ei.config.Config != nil {
		if err := config.Validate(ei.config.Config); err != nil {
			return fmt.Errorf("invalid rules: %w", err)
		}
	}
	return nil
}

// setupDefaults sets up default values for missing configuration
func (ei *EngineInitializer) setupDefaults() {
	if ei.config.Rng == nil {
		ei.logger.Debug().Msg("No RNG provided, creating new seeded RNG")
		ei.config.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if ei.config.GameID == "" {
		ei.config.GameID = uuid.NewString()
	}

	if ei.config.Config == nil {
		ei.config.Config = config.Default()
	}

	if ei.config.EventBus == nil {
		ei.config.EventBus = events.NewEventBusWithLogger(ei.logger)
	}

	if ei.config.TurnObserver != nil {
		ei.logger.Info().Msg("Turn observer enabled")
	}
}

// createEngine creates the engine with all its components
func (ei *EngineInitializer) createEngine() *Engine {
	cfg := ei.config
	rulesCfg := cfg.Config

	gameContext := states.NewGameContext(cfg.GameID, ei.logger)
	gameContext.TileCount = cfg.Graph.Len()
	gameContext.PlayerCount = cfg.Players

	moveOpts := movement.NewOptions(rulesCfg.Movement)
	mv := movement.NewResolver(cfg.Graph, cfg.Registry, moveOpts, ei.logger)
	visibility := NewVisibilityTracker(cfg.Graph, cfg.Registry, rulesCfg.Vision, cfg.Players, ei.logger)
	tg := targeting.NewResolver(
		cfg.Graph,
		mv,
		cfg.Registry,
		targeting.NewHexLineOfSight(cfg.Registry),
		visibility,
		targeting.Options{
			IgnoreVisibility:   !rulesCfg.Vision.FogOfWar,
			RequireLineOfSight: rulesCfg.Vision.RequireLineOfSight,
		},
		ei.logger,
	)

	resources := make(map[int]map[string]bool, len(cfg.Resources))
	for pid, list := range cfg.Resources {
		resources[pid] = make(map[string]bool, len(list))
		for _, r := range list {
			resources[pid][r] = true
		}
	}

	engine := &Engine{
		gs: &GameState{
			Players: make([]Player, cfg.Players),
		},
		graph:           cfg.Graph,
		registry:        cfg.Registry,
		units:           make(map[uuid.UUID]*units.Combatant),
		rules:           combat.NewRuleset(rulesCfg.Combat),
		config:          rulesCfg,
		movement:        mv,
		targeting:       tg,
		visibility:      visibility,
		legalMoves:      rules.NewLegalMoveCalculator(mv, tg),
		winCondition:    rules.NewWinConditionChecker(ei.logger, cfg.Players, rulesCfg.Simulation.MaxTurns),
		actionProcessor: processor.NewActionProcessor(ei.logger),
		eventBus:        cfg.EventBus,
		stateMachine:    states.NewStateMachine(gameContext, cfg.EventBus),
		unitTurns:       states.NewUnitTurnMachine(cfg.GameID, moveOpts.EffectiveEpsilon(), cfg.EventBus, ei.logger),
		rng:             cfg.Rng,
		logger:          ei.logger,
		gameID:          cfg.GameID,
		winner:          -1,
		resources:       resources,
		lastDefeatedBy:  make(map[int]int),
		observer:        cfg.TurnObserver,
	}
	for pid := range engine.gs.Players {
		engine.gs.Players[pid] = Player{ID: pid, Alive: true, EliminatedBy: -1}
	}

	// Create managers after engine is created
	engine.recovery = NewRecoveryManager(rulesCfg.Recovery, cfg.EventBus, cfg.GameID, ei.logger)
	engine.turnProcessor = NewTurnProcessor(engine)

	return engine
}

// setupEventHandling configures event handling for the engine
func (ei *EngineInitializer) setupEventHandling(engine *Engine) {
	engine.actionProcessor.SetEventPublisher(engine.eventBus, engine.gameID)
}

// performInitialSetup adopts combatants already placed in the registry
func (ei *EngineInitializer) performInitialSetup(engine *Engine) {
	for _, c := range engine.registry.Combatants() {
		if c.Owner < 0 || c.Owner >= ei.config.Players {
			ei.logger.Warn().Stringer("combatant", c).Msg("Ignoring combatant with unknown owner")
			continue
		}
		engine.adopt(c)
	}
}
