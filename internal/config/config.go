package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Combat     CombatConfig     `mapstructure:"combat"`
	Movement   MovementConfig   `mapstructure:"movement"`
	Recovery   RecoveryConfig   `mapstructure:"recovery"`
	Vision     VisionConfig     `mapstructure:"vision"`
	Map        MapConfig        `mapstructure:"map"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Log        LogConfig        `mapstructure:"log"`
}

// CombatConfig holds the combat ruleset. Modifiers are percentages.
type CombatConfig struct {
	LandingMalus          int      `mapstructure:"landing_malus"`
	BoardingMalus         int      `mapstructure:"boarding_malus"`
	RiverCrossingMalus    int      `mapstructure:"river_crossing_malus"`
	MissingResourcesMalus int      `mapstructure:"missing_resources_malus"`
	FortificationBonus    int      `mapstructure:"fortification_bonus"`
	MaxFortificationTurns int      `mapstructure:"max_fortification_turns"`
	EmbarkedDefenseBonus  int      `mapstructure:"embarked_defense_bonus"`
	BaseFlankingBonus     int      `mapstructure:"base_flanking_bonus"`
	FlankingScalePercent  int      `mapstructure:"flanking_scale_percent"`
	WoundedRatioPercent   int      `mapstructure:"wounded_ratio_percentage"`
	CivilianDamage        int      `mapstructure:"civilian_damage"`
	BaseDamage            float64  `mapstructure:"base_damage"`
	DamageSpread          float64  `mapstructure:"damage_spread"`
	RandomnessFactor      float64  `mapstructure:"randomness_factor"`
	CityAttackRatio       float64  `mapstructure:"city_attack_ratio"`
	XP                    XPConfig `mapstructure:"xp"`
}

// XPConfig holds experience awards per battle type
type XPConfig struct {
	MeleeAttacker int `mapstructure:"melee_attacker"`
	MeleeDefender int `mapstructure:"melee_defender"`
	Ranged        int `mapstructure:"ranged"`
	RangedVsCity  int `mapstructure:"ranged_vs_city"`
	AirAttacker   int `mapstructure:"air_attacker"`
	AirDefender   int `mapstructure:"air_defender"`
}

// MovementConfig holds movement rules
type MovementConfig struct {
	MinimumEpsilon        float64 `mapstructure:"minimum_epsilon"`
	RiverCrossingEndsMove bool    `mapstructure:"river_crossing_ends_move"`
	ZoneOfControl         bool    `mapstructure:"zone_of_control"`
}

// RecoveryConfig holds per-turn healing amounts
type RecoveryConfig struct {
	UnitHeal      int `mapstructure:"unit_heal"`
	FortifiedHeal int `mapstructure:"fortified_heal"`
	CityHeal      int `mapstructure:"city_heal"`
}

// VisionConfig holds fog of war settings
type VisionConfig struct {
	FogOfWar           bool `mapstructure:"fog_of_war"`
	UnitSight          int  `mapstructure:"unit_sight"`
	CitySight          int  `mapstructure:"city_sight"`
	RequireLineOfSight bool `mapstructure:"require_line_of_sight"`
}

// MapConfig holds map generation settings
type MapConfig struct {
	Radius            int     `mapstructure:"radius"`
	Seed              int64   `mapstructure:"seed"`
	SeaLevel          float64 `mapstructure:"sea_level"`
	MountainLevel     float64 `mapstructure:"mountain_level"`
	HillsLevel        float64 `mapstructure:"hills_level"`
	ForestMoisture    float64 `mapstructure:"forest_moisture"`
	RiverCount        int     `mapstructure:"river_count"`
	BridgeWeightLimit int     `mapstructure:"bridge_weight_limit"`
}

// SimulationConfig holds settings for the skirmish runner
type SimulationConfig struct {
	Players      int `mapstructure:"players"`
	UnitsPerSide int `mapstructure:"units_per_side"`
	MaxTurns     int `mapstructure:"max_turns"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Combat defaults
	v.SetDefault("combat.landing_malus", -50)
	v.SetDefault("combat.boarding_malus", -50)
	v.SetDefault("combat.river_crossing_malus", -20)
	v.SetDefault("combat.missing_resources_malus", -25)
	v.SetDefault("combat.fortification_bonus", 20)
	v.SetDefault("combat.max_fortification_turns", 1)
	v.SetDefault("combat.embarked_defense_bonus", 100)
	v.SetDefault("combat.base_flanking_bonus", 10)
	v.SetDefault("combat.flanking_scale_percent", 100)
	v.SetDefault("combat.wounded_ratio_percentage", 300)
	v.SetDefault("combat.civilian_damage", 40)
	v.SetDefault("combat.base_damage", 24.0)
	v.SetDefault("combat.damage_spread", 12.0)
	v.SetDefault("combat.randomness_factor", 0.5)
	v.SetDefault("combat.city_attack_ratio", 0.75)

	// Experience defaults
	v.SetDefault("combat.xp.melee_attacker", 5)
	v.SetDefault("combat.xp.melee_defender", 4)
	v.SetDefault("combat.xp.ranged", 2)
	v.SetDefault("combat.xp.ranged_vs_city", 3)
	v.SetDefault("combat.xp.air_attacker", 4)
	v.SetDefault("combat.xp.air_defender", 2)

	// Movement defaults
	v.SetDefault("movement.minimum_epsilon", 0.0001)
	v.SetDefault("movement.river_crossing_ends_move", true)
	v.SetDefault("movement.zone_of_control", true)

	// Recovery defaults
	v.SetDefault("recovery.unit_heal", 10)
	v.SetDefault("recovery.fortified_heal", 20)
	v.SetDefault("recovery.city_heal", 20)

	// Vision defaults
	v.SetDefault("vision.fog_of_war", true)
	v.SetDefault("vision.unit_sight", 2)
	v.SetDefault("vision.city_sight", 3)
	v.SetDefault("vision.require_line_of_sight", true)

	// Map defaults
	v.SetDefault("map.radius", 8)
	v.SetDefault("map.seed", 0)
	v.SetDefault("map.sea_level", 0.35)
	v.SetDefault("map.mountain_level", 0.78)
	v.SetDefault("map.hills_level", 0.65)
	v.SetDefault("map.forest_moisture", 0.6)
	v.SetDefault("map.river_count", 3)
	v.SetDefault("map.bridge_weight_limit", 3)

	// Simulation defaults
	v.SetDefault("simulation.players", 2)
	v.SetDefault("simulation.units_per_side", 4)
	v.SetDefault("simulation.max_turns", 30)

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/hextactics")
	}

	v.SetEnvPrefix("HEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A specific file that does not exist falls back to defaults; for the
		// default search path only ConfigFileNotFoundError is tolerated.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath == "" {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Default returns a config populated only from defaults. It does not touch
// the global instance, so tests can build rulesets without side effects.
func Default() *Config {
	dv := viper.New()
	setViperDefaults(dv)
	c := &Config{}
	if err := dv.Unmarshal(c); err != nil {
		panic("failed to decode default config: " + err.Error())
	}
	return c
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig loads environment-specific config overlay
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return nil
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. The ruleset is only
// swapped in when the reloaded values pass validation; rejected edits are
// logged and the previous config stays in force.
func WatchConfig(onChange func(*Config)) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		logger := log.With().Str("component", "Config").Str("file", e.Name).Logger()
		reload(logger, onChange)
	})
}

// reload re-reads the viper state into a fresh Config and reports whether it
// was accepted
func reload(logger zerolog.Logger, onChange func(*Config)) bool {
	reloaded := &Config{}
	if err := v.Unmarshal(reloaded); err != nil {
		logger.Warn().Err(err).Msg("Ignoring config change: decode failed")
		return false
	}
	if err := Validate(reloaded); err != nil {
		logger.Warn().Err(err).Msg("Ignoring config change: validation failed")
		return false
	}
	cfg = reloaded
	logger.Info().Msg("Config reloaded")
	if onChange != nil {
		onChange(reloaded)
	}
	return true
}

// Validate validates the configuration values
func Validate(c *Config) error {
	// Combat
	if c.Combat.WoundedRatioPercent <= 0 {
		return fmt.Errorf("combat.wounded_ratio_percentage must be positive")
	}
	if c.Combat.BaseDamage < 0 || c.Combat.DamageSpread < 0 {
		return fmt.Errorf("combat.base_damage and combat.damage_spread must be non-negative")
	}
	if c.Combat.RandomnessFactor < 0 || c.Combat.RandomnessFactor > 1 {
		return fmt.Errorf("combat.randomness_factor must be between 0 and 1")
	}
	if c.Combat.CivilianDamage < 0 {
		return fmt.Errorf("combat.civilian_damage must be non-negative")
	}
	if c.Combat.CityAttackRatio <= 0 {
		return fmt.Errorf("combat.city_attack_ratio must be positive")
	}
	if c.Combat.MaxFortificationTurns < 0 {
		return fmt.Errorf("combat.max_fortification_turns must be non-negative")
	}
	if c.Combat.FlankingScalePercent < 0 {
		return fmt.Errorf("combat.flanking_scale_percent must be non-negative")
	}

	// Movement
	if c.Movement.MinimumEpsilon <= 0 {
		return fmt.Errorf("movement.minimum_epsilon must be positive")
	}

	// Recovery
	if c.Recovery.UnitHeal < 0 || c.Recovery.FortifiedHeal < 0 || c.Recovery.CityHeal < 0 {
		return fmt.Errorf("recovery heal amounts must be non-negative")
	}

	// Vision
	if c.Vision.UnitSight < 1 || c.Vision.CitySight < 1 {
		return fmt.Errorf("vision.unit_sight and vision.city_sight must be at least 1")
	}

	// Map
	if c.Map.Radius < 1 {
		return fmt.Errorf("map.radius must be at least 1")
	}
	if c.Map.SeaLevel < 0 || c.Map.SeaLevel > 1 {
		return fmt.Errorf("map.sea_level must be between 0 and 1")
	}
	if c.Map.MountainLevel <= c.Map.SeaLevel || c.Map.MountainLevel > 1 {
		return fmt.Errorf("map.mountain_level must be above map.sea_level and at most 1")
	}
	if c.Map.HillsLevel < c.Map.SeaLevel || c.Map.HillsLevel > c.Map.MountainLevel {
		return fmt.Errorf("map.hills_level must be between map.sea_level and map.mountain_level")
	}
	if c.Map.RiverCount < 0 {
		return fmt.Errorf("map.river_count must be non-negative")
	}
	if c.Map.BridgeWeightLimit < 0 {
		return fmt.Errorf("map.bridge_weight_limit must be non-negative")
	}

	// Simulation
	if c.Simulation.Players < 2 {
		return fmt.Errorf("simulation.players must be at least 2")
	}
	if c.Simulation.UnitsPerSide < 1 {
		return fmt.Errorf("simulation.units_per_side must be at least 1")
	}
	if c.Simulation.MaxTurns < 1 {
		return fmt.Errorf("simulation.max_turns must be at least 1")
	}

	return nil
}
