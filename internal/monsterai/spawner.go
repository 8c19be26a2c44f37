// Package monsterai owns monster spawning and the per-monster AI state
// machine: idle, chase, windup, active, recover, dying.
package monsterai

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/udisondev/arenacore/internal/entitystore"
	"github.com/udisondev/arenacore/internal/worldmap"
)

// SpawnConfig controls the per-instance spawn controller. All fields are
// configuration data, not fixed constants — conflicting source material
// disagrees even on the order of magnitude for MaxMonsters.
type SpawnConfig struct {
	IntervalMs        float64
	MaxMonsters       int
	MinPlayerRadius   float64
	MaxPlayerRadius   float64
	MaxAttemptsPerTick int
}

// DefaultSpawnConfig returns the defaults this build ships with.
func DefaultSpawnConfig() SpawnConfig {
	return SpawnConfig{
		IntervalMs:         3000,
		MaxMonsters:        50,
		MinPlayerRadius:    200,
		MaxPlayerRadius:    1500,
		MaxAttemptsPerTick: 10,
	}
}

// Spawner drives spawn timing and candidate-position selection for a
// single game instance.
type Spawner struct {
	cfg         SpawnConfig
	mask        *worldmap.CollisionMask
	sinceLastMs float64
	idCounter   int64
	spawnPoints []entitystore.Vec2
	rng         *rand.Rand
}

// NewSpawner builds a spawner over the given collision mask and a set of
// candidate spawn points (typically pre-placed in world data). rng drives
// candidate selection; callers that need reproducible runs pass a Rand
// seeded from the world seed authority instead of the global source.
func NewSpawner(cfg SpawnConfig, mask *worldmap.CollisionMask, spawnPoints []entitystore.Vec2, rng *rand.Rand) *Spawner {
	return &Spawner{cfg: cfg, mask: mask, spawnPoints: spawnPoints, rng: rng}
}

// Tick advances the spawn timer by dtMs and, if due, attempts to spawn one
// monster. liveCount is the caller's current monster count; playerPositions
// are the positions of all currently live players. Returns the new monster,
// built from def, or nil if no spawn occurred this tick.
func (s *Spawner) Tick(dtMs float64, liveCount int, playerPositions []entitystore.Vec2, def *entitystore.MonsterTypeDef) *entitystore.Monster {
	s.sinceLastMs += dtMs
	if s.sinceLastMs < s.cfg.IntervalMs {
		return nil
	}
	s.sinceLastMs = 0

	if liveCount >= s.cfg.MaxMonsters || len(s.spawnPoints) == 0 || def == nil {
		return nil
	}

	attempts := s.cfg.MaxAttemptsPerTick
	if attempts <= 0 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		candidate := s.spawnPoints[s.rng.IntN(len(s.spawnPoints))]
		if !s.mask.IsWalkable(candidate.X, candidate.Y) {
			continue
		}
		if !withinRadiusRules(candidate, playerPositions, s.cfg.MinPlayerRadius, s.cfg.MaxPlayerRadius) {
			continue
		}

		s.idCounter++
		return &entitystore.Monster{
			ID:         fmt.Sprintf("monster-%d", s.idCounter),
			Type:       def.Type,
			Def:        def,
			Position:   candidate,
			SpawnPoint: candidate,
			HP:         def.MaxHP,
			Alive:      true,
			Facing:     entitystore.FacingDown,
			State:      entitystore.MonsterIdle,
		}
	}
	return nil
}

// withinRadiusRules reports whether candidate is outside MinPlayerRadius of
// every player (too close spoils ambushes) and inside MaxPlayerRadius of at
// least one player when any players exist (spawns must stay reachable).
func withinRadiusRules(candidate entitystore.Vec2, players []entitystore.Vec2, minR, maxR float64) bool {
	if len(players) == 0 {
		return true
	}
	anyInMax := false
	for _, p := range players {
		d := dist(candidate, p)
		if d < minR {
			return false
		}
		if d <= maxR {
			anyInMax = true
		}
	}
	return anyInMax
}

func dist(a, b entitystore.Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
