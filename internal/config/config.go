// Package config holds the arena server's startup configuration: network
// bind, tick rate, monster spawn limits, view distance, and the nested
// tuning knobs for lag compensation and anti-cheat. Grounded on the
// teacher's config package (DefaultLoginServer/LoadLoginServer shape); the
// yaml schema is new since the domain is new, but the loader idiom —
// defaults struct, optional file overlay, os.IsNotExist fallback — is
// copied as-is.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MonsterConfig controls the spawn controller's limits.
type MonsterConfig struct {
	Max               int     `yaml:"max"`
	SpawnIntervalMs   float64 `yaml:"spawn_interval_ms"`
	InitialSpawnCount int     `yaml:"initial_spawn_count"`
	MinPlayerRadius   float64 `yaml:"min_player_radius"`
	MaxPlayerRadius   float64 `yaml:"max_player_radius"`
}

// AntiCheatConfig controls per-session validation thresholds.
type AntiCheatConfig struct {
	InputRatePerSecond   float64 `yaml:"input_rate_per_second"`
	MovementSafetyFactor float64 `yaml:"movement_safety_factor"`
	AbilityRateMargin    float64 `yaml:"ability_rate_margin"`
	SoftFlagThreshold    int     `yaml:"soft_flag_threshold"`
	DisconnectThreshold  int     `yaml:"disconnect_threshold"`
}

// LagCompConfig controls the lag-compensation rewind window.
type LagCompConfig struct {
	DefaultRewindMs float64 `yaml:"default_rewind_ms"`
	MaxRewindMs     float64 `yaml:"max_rewind_ms"`
}

// WorldConfig controls the tile grid dimensions and tile size.
type WorldConfig struct {
	WidthTiles  int     `yaml:"width_tiles"`
	HeightTiles int     `yaml:"height_tiles"`
	TileSize    float64 `yaml:"tile_size"`
}

// GameServer holds all configuration for the arena server process.
type GameServer struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
	LogLevel    string `yaml:"log_level"`

	TickRateHz   float64 `yaml:"tick_rate_hz"`
	ViewDistance float64 `yaml:"view_distance"`

	World     WorldConfig     `yaml:"world"`
	Monsters  MonsterConfig   `yaml:"monsters"`
	AntiCheat AntiCheatConfig `yaml:"anti_cheat"`
	LagComp   LagCompConfig   `yaml:"lag_comp"`

	MaxPlayers int `yaml:"max_players"`
}

// DefaultGameServer returns this build's defaults.
func DefaultGameServer() GameServer {
	return GameServer{
		BindAddress: "0.0.0.0",
		Port:        3000,
		LogLevel:    "info",

		TickRateHz:   20,
		ViewDistance: 1200,

		World: WorldConfig{
			WidthTiles:  100,
			HeightTiles: 100,
			TileSize:    64,
		},
		Monsters: MonsterConfig{
			Max:               50,
			SpawnIntervalMs:   3000,
			InitialSpawnCount: 10,
			MinPlayerRadius:   200,
			MaxPlayerRadius:   1500,
		},
		AntiCheat: AntiCheatConfig{
			InputRatePerSecond:   120,
			MovementSafetyFactor: 1.2,
			AbilityRateMargin:    2,
			SoftFlagThreshold:    5,
			DisconnectThreshold:  15,
		},
		LagComp: LagCompConfig{
			DefaultRewindMs: 200,
			MaxRewindMs:     500,
		},
		MaxPlayers: 64,
	}
}

// LoadGameServer loads the arena server config from a YAML file, falling
// back to defaults when the file doesn't exist. Environment variables
// override the handful of operational knobs spec'd for CLI/env
// configuration: PORT, TICK_RATE_HZ, MAX_MONSTERS, VIEW_DISTANCE.
func LoadGameServer(path string) (GameServer, error) {
	cfg := DefaultGameServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *GameServer) {
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv("TICK_RATE_HZ"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.TickRateHz = f
		}
	}
	if v := os.Getenv("MAX_MONSTERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Monsters.Max = n
		}
	}
	if v := os.Getenv("VIEW_DISTANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ViewDistance = f
		}
	}
}
