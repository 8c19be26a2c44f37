// Command arenaserver runs one standing arena instance: it loads
// configuration, builds the world map and GameInstance, and serves
// players over WebSocket until it receives SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/arenacore/internal/ability"
	"github.com/udisondev/arenacore/internal/anticheat"
	"github.com/udisondev/arenacore/internal/arena"
	"github.com/udisondev/arenacore/internal/config"
	"github.com/udisondev/arenacore/internal/damage"
	"github.com/udisondev/arenacore/internal/entitystore"
	"github.com/udisondev/arenacore/internal/monsterai"
	"github.com/udisondev/arenacore/internal/seed"
	"github.com/udisondev/arenacore/internal/transport"
	"github.com/udisondev/arenacore/internal/worldmap"
)

const ConfigPathEnv = "ARENA_CONFIG"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := "config/arenaserver.yaml"
	if p := os.Getenv(ConfigPathEnv); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadGameServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("arenaserver starting",
		"bind", cfg.BindAddress, "port", cfg.Port, "tick_rate_hz", cfg.TickRateHz)

	mask := worldmap.NewOpenCollisionMask(cfg.World.WidthTiles, cfg.World.HeightTiles, cfg.World.TileSize)

	spawnPoints := scatterPoints(cfg.World.WidthTiles, cfg.World.HeightTiles, cfg.World.TileSize, 24)
	powerupSpawnPoints := scatterPoints(cfg.World.WidthTiles, cfg.World.HeightTiles, cfg.World.TileSize, 10)

	seedAuthority := seed.New()

	giCfg := arena.Config{
		ViewDistance: cfg.ViewDistance,
		PlayerRadius: 16,
		SpawnCfg: monsterai.SpawnConfig{
			IntervalMs:         cfg.Monsters.SpawnIntervalMs,
			MaxMonsters:        cfg.Monsters.Max,
			MinPlayerRadius:    cfg.Monsters.MinPlayerRadius,
			MaxPlayerRadius:    cfg.Monsters.MaxPlayerRadius,
			MaxAttemptsPerTick: monsterai.DefaultSpawnConfig().MaxAttemptsPerTick,
		},
		RespawnCfg: damage.DefaultRespawnConfig(),
		AntiCheatCfg: anticheat.Config{
			InputRatePerSecond:   cfg.AntiCheat.InputRatePerSecond,
			MovementSafetyFactor: cfg.AntiCheat.MovementSafetyFactor,
			AbilityRateMargin:    cfg.AntiCheat.AbilityRateMargin,
			SoftFlagThreshold:    cfg.AntiCheat.SoftFlagThreshold,
			DisconnectThreshold:  cfg.AntiCheat.DisconnectThreshold,
		},
		LagRewindMs:       cfg.LagComp.DefaultRewindMs,
		PowerupInterval:   15000,
		InitialSpawnCount: cfg.Monsters.InitialSpawnCount,
	}

	gi := arena.NewGameInstance(
		mask,
		arena.DefaultMonsterTypes(),
		spawnPoints,
		powerupSpawnPoints,
		ability.DefaultTables(),
		giCfg,
		seedAuthority.Rand(),
	)
	slog.Info("game instance initialized",
		"world_tiles", fmt.Sprintf("%dx%d", cfg.World.WidthTiles, cfg.World.HeightTiles),
		"spawn_points", len(spawnPoints), "powerup_points", len(powerupSpawnPoints))

	srv := transport.NewServer(gi, mask, seedAuthority, transport.Config{
		ListenAddr: fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.Port),
		TickRateHz: cfg.TickRateHz,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting arena server", "addr", srv.Addr())
		if err := srv.Run(gctx); err != nil {
			return fmt.Errorf("arena server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// scatterPoints places n points uniformly at random across the world,
// two tiles in from the map edges, from a fixed-seed PCG source so the
// layout is the same on every run.
func scatterPoints(widthTiles, heightTiles int, tileSize float64, n int) []entitystore.Vec2 {
	width := float64(widthTiles) * tileSize
	height := float64(heightTiles) * tileSize
	margin := tileSize * 2

	rng := rand.New(rand.NewPCG(1, 2))
	points := make([]entitystore.Vec2, n)
	for i := range points {
		points[i] = entitystore.Vec2{
			X: margin + rng.Float64()*(width-2*margin),
			Y: margin + rng.Float64()*(height-2*margin),
		}
	}
	return points
}

// parseLogLevel converts a string log level to slog.Level, defaulting to
// Info when invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
