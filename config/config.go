// Package config provides Viper-based configuration loading for the game.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nathoo/wayfarer/engine"
	"github.com/nathoo/wayfarer/types"
)

// EnvPrefix is prepended to every environment override, e.g.
// WAYFARER_COMBAT_ESCAPE_CHANCE.
const EnvPrefix = "WAYFARER"

// GameConfig holds where the game reads and writes its files.
type GameConfig struct {
	// World is a directory of .lua/.yaml world files. Empty means the
	// built-in world.
	World string `mapstructure:"world"`
	// SaveDir is the directory save files are written to.
	SaveDir string `mapstructure:"save_dir"`
	// Seed seeds the RNG. Zero picks a seed from the clock.
	Seed int64 `mapstructure:"seed"`
}

// CombatConfig holds encounter and combat tuning.
type CombatConfig struct {
	// EncounterChance is the probability of an ambush on entering an unsafe location.
	EncounterChance float64 `mapstructure:"encounter_chance"`
	// EscapeChance is the probability that running away succeeds.
	EscapeChance float64 `mapstructure:"escape_chance"`
	// DamageRule is "defense" or "spread".
	DamageRule string `mapstructure:"damage_rule"`
	// DamageSpread is the ± range of the spread rule.
	DamageSpread int `mapstructure:"damage_spread"`
}

// ProgressionConfig holds levelling tuning.
type ProgressionConfig struct {
	BaseThreshold   int     `mapstructure:"base_threshold"`
	ThresholdGrowth float64 `mapstructure:"threshold_growth"`
	HealthPerLevel  int     `mapstructure:"health_per_level"`
	AttackPerLevel  int     `mapstructure:"attack_per_level"`
	DefensePerLevel int     `mapstructure:"defense_per_level"`
	// SingleLevelUp grants at most one level per experience award.
	SingleLevelUp bool `mapstructure:"single_level_up"`
}

// CommerceConfig holds shop tuning.
type CommerceConfig struct {
	// SellFallback is the sell price of items that have no price.
	SellFallback int `mapstructure:"sell_fallback"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File, when set, receives the log instead of stderr.
	File string `mapstructure:"file"`
}

// Config is the top-level application configuration.
type Config struct {
	Game        GameConfig        `mapstructure:"game"`
	Combat      CombatConfig      `mapstructure:"combat"`
	Progression ProgressionConfig `mapstructure:"progression"`
	Commerce    CommerceConfig    `mapstructure:"commerce"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// Rules converts the tuning sections into engine rules.
func (c Config) Rules() types.Rules {
	return types.Rules{
		EncounterChance: c.Combat.EncounterChance,
		EscapeChance:    c.Combat.EscapeChance,
		DamageRule:      types.DamageRule(c.Combat.DamageRule),
		DamageSpread:    c.Combat.DamageSpread,
		BaseThreshold:   c.Progression.BaseThreshold,
		ThresholdGrowth: c.Progression.ThresholdGrowth,
		HealthPerLevel:  c.Progression.HealthPerLevel,
		AttackPerLevel:  c.Progression.AttackPerLevel,
		DefensePerLevel: c.Progression.DefensePerLevel,
		SingleLevelUp:   c.Progression.SingleLevelUp,
		SellFallback:    c.Commerce.SellFallback,
	}
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateProgression(c.Progression); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Commerce.SellFallback < 1 {
		errs = append(errs, fmt.Sprintf("commerce.sell_fallback must be >= 1, got %d", c.Commerce.SellFallback))
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	if g.SaveDir == "" {
		return errors.New("game.save_dir must not be empty")
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.EncounterChance < 0 || c.EncounterChance > 1 {
		errs = append(errs, fmt.Sprintf("combat.encounter_chance must be in [0, 1], got %g", c.EncounterChance))
	}
	if c.EscapeChance < 0 || c.EscapeChance > 1 {
		errs = append(errs, fmt.Sprintf("combat.escape_chance must be in [0, 1], got %g", c.EscapeChance))
	}
	validRules := map[string]bool{string(types.DamageDefense): true, string(types.DamageSpread): true}
	if !validRules[c.DamageRule] {
		errs = append(errs, fmt.Sprintf("combat.damage_rule must be one of [defense, spread], got %q", c.DamageRule))
	}
	if c.DamageSpread < 0 {
		errs = append(errs, fmt.Sprintf("combat.damage_spread must be >= 0, got %d", c.DamageSpread))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateProgression(p ProgressionConfig) error {
	var errs []string
	if p.BaseThreshold < 1 {
		errs = append(errs, fmt.Sprintf("progression.base_threshold must be >= 1, got %d", p.BaseThreshold))
	}
	if p.ThresholdGrowth < 1 {
		errs = append(errs, fmt.Sprintf("progression.threshold_growth must be >= 1, got %g", p.ThresholdGrowth))
	}
	if p.HealthPerLevel < 0 || p.AttackPerLevel < 0 || p.DefensePerLevel < 0 {
		errs = append(errs, "progression per-level increments must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path skips the file and uses
// defaults plus environment.
//
// Precondition: path is empty or names a readable YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	return LoadWithFlags(path, nil)
}

// FlagKeys maps configuration keys to the command-line flags that may
// override them.
var FlagKeys = map[string]string{
	"game.world":    "world",
	"game.save_dir": "save-dir",
	"game.seed":     "seed",
	"logging.level": "log-level",
	"logging.file":  "log-file",
}

// LoadWithFlags is Load with command-line overrides. A flag that was set
// explicitly wins over the environment and the file; flags missing from the
// set are skipped.
//
// Precondition: flags, when non-nil, has already been parsed.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadWithFlags(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	}

	if flags != nil {
		for key, name := range FlagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("binding flag --%s: %w", name, err)
			}
		}
	}

	// Environment variable overrides with WAYFARER_ prefix
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	var cfg Config
	// Defaults always decode.
	_ = defaultViper().Unmarshal(&cfg)
	return cfg
}

func defaultViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	r := engine.DefaultRules()

	v.SetDefault("game.world", "")
	v.SetDefault("game.save_dir", "saves")
	v.SetDefault("game.seed", 0)

	v.SetDefault("combat.encounter_chance", r.EncounterChance)
	v.SetDefault("combat.escape_chance", r.EscapeChance)
	v.SetDefault("combat.damage_rule", string(r.DamageRule))
	v.SetDefault("combat.damage_spread", r.DamageSpread)

	v.SetDefault("progression.base_threshold", r.BaseThreshold)
	v.SetDefault("progression.threshold_growth", r.ThresholdGrowth)
	v.SetDefault("progression.health_per_level", r.HealthPerLevel)
	v.SetDefault("progression.attack_per_level", r.AttackPerLevel)
	v.SetDefault("progression.defense_per_level", r.DefensePerLevel)
	v.SetDefault("progression.single_level_up", r.SingleLevelUp)

	v.SetDefault("commerce.sell_fallback", r.SellFallback)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
}
