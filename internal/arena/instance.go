// Package arena is the GameInstance aggregate: the single always-active
// simulation owning the world map, entity store, and every per-instance
// manager, wired together as explicit typed fields rather than the
// teacher's global singletons. Replaces the teacher's internal/game/
// instance (Dimensional Rift zone lifecycle: created/active/destroying/
// destroyed) with a simpler lifecycle, since this spec has no
// multi-instance matchmaking — one instance runs for the process
// lifetime.
package arena

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/udisondev/arenacore/internal/ability"
	"github.com/udisondev/arenacore/internal/anticheat"
	"github.com/udisondev/arenacore/internal/damage"
	"github.com/udisondev/arenacore/internal/entitystore"
	"github.com/udisondev/arenacore/internal/inputproc"
	"github.com/udisondev/arenacore/internal/lagcomp"
	"github.com/udisondev/arenacore/internal/monsterai"
	"github.com/udisondev/arenacore/internal/netsync"
	"github.com/udisondev/arenacore/internal/worldmap"
)

// State mirrors the teacher's instance lifecycle enum, trimmed to the two
// phases this spec's single-instance model actually uses.
type State int32

const (
	StateActive State = iota
	StateDestroyed
)

func (s State) String() string {
	if s == StateDestroyed {
		return "DESTROYED"
	}
	return "ACTIVE"
}

// Config holds the tuning knobs a GameInstance is built from.
type Config struct {
	ViewDistance      float64
	PlayerRadius      float64
	SpawnCfg          monsterai.SpawnConfig
	RespawnCfg        damage.RespawnConfig
	AntiCheatCfg      anticheat.Config
	LagRewindMs       float64
	PowerupInterval   float64
	InitialSpawnCount int
}

// DefaultConfig returns the defaults this build ships with.
func DefaultConfig() Config {
	return Config{
		ViewDistance:      netsync.DefaultViewDistance,
		PlayerRadius:      16,
		SpawnCfg:          monsterai.DefaultSpawnConfig(),
		RespawnCfg:        damage.DefaultRespawnConfig(),
		AntiCheatCfg:      anticheat.DefaultConfig(),
		LagRewindMs:       lagcomp.DefaultRewindMs,
		PowerupInterval:   15000,
		InitialSpawnCount: 10,
	}
}

// GameInstance owns the entire simulation: world map, entity store, and
// the manager set spec §5 requires to live on a single logical simulation
// thread. Callers (the transport package) must only invoke its methods
// from that one thread — no internal locking is used, per spec's
// concurrency model.
type GameInstance struct {
	state atomic.Int32

	mask *worldmap.CollisionMask
	cfg  Config

	players     map[string]*entitystore.Player
	monsters    map[string]*entitystore.Monster
	projectiles map[string]*entitystore.Projectile
	powerups    map[string]*entitystore.Powerup

	monsterTypes []*entitystore.MonsterTypeDef
	spawnPoints  []entitystore.Vec2
	powerupSpawnPoints []entitystore.Vec2

	spawner   *monsterai.Spawner
	abilities *ability.Manager
	inputs    *inputproc.Processor

	antiCheat  map[string]*anticheat.Session
	lagBuffers map[string]*lagcomp.Buffer
	netCaches  map[string]*netsync.ClientCache

	now              int64
	monsterIDCounter int64
	projIDCounter    int64
	powerupIDCounter int64
	sinceLastPowerup float64

	pendingHits []pendingHit
	events      TickResult

	rng *rand.Rand
}

// NewGameInstance builds an instance over the given collision mask,
// monster catalog, and candidate spawn points. abilityTables is the
// per-class attack table used both for ability execution and for sizing
// each session's anti-cheat ability-rate cap. rng backs every
// seed-derived decision the instance makes (spawn point choice, monster
// spawner candidate selection, powerup rolls); callers that need
// reproducible runs pass a Rand built from seed.Authority.Rand().
func NewGameInstance(mask *worldmap.CollisionMask, monsterTypes []*entitystore.MonsterTypeDef, spawnPoints, powerupSpawnPoints []entitystore.Vec2, abilityTables ability.Tables, cfg Config, rng *rand.Rand) *GameInstance {
	gi := &GameInstance{
		mask:               mask,
		cfg:                cfg,
		players:            make(map[string]*entitystore.Player),
		monsters:           make(map[string]*entitystore.Monster),
		projectiles:        make(map[string]*entitystore.Projectile),
		powerups:           make(map[string]*entitystore.Powerup),
		monsterTypes:       monsterTypes,
		spawnPoints:        spawnPoints,
		powerupSpawnPoints: powerupSpawnPoints,
		spawner:            monsterai.NewSpawner(cfg.SpawnCfg, mask, spawnPoints, rng),
		abilities:          ability.NewManager(abilityTables),
		antiCheat:          make(map[string]*anticheat.Session),
		lagBuffers:         make(map[string]*lagcomp.Buffer),
		netCaches:          make(map[string]*netsync.ClientCache),
		rng:                rng,
	}
	gi.inputs = inputproc.NewProcessor(gi.validateInput)
	gi.spawnInitialMonsters()
	return gi
}

// spawnInitialMonsters populates the instance with cfg.InitialSpawnCount
// monsters at construction time, cycling through the monster catalog the
// same way tickMonsterSpawn does, instead of waiting for the spawner's
// interval to drip them in one at a time.
func (gi *GameInstance) spawnInitialMonsters() {
	if len(gi.monsterTypes) == 0 || len(gi.spawnPoints) == 0 {
		return
	}
	for i := 0; i < gi.cfg.InitialSpawnCount; i++ {
		if len(gi.monsters) >= gi.cfg.SpawnCfg.MaxMonsters {
			return
		}
		def := gi.monsterTypes[gi.monsterIDCounter%int64(len(gi.monsterTypes))]
		point := gi.spawnPoints[gi.rng.IntN(len(gi.spawnPoints))]
		m := &entitystore.Monster{
			ID:         gi.nextMonsterID(),
			Type:       def.Type,
			Def:        def,
			Position:   point,
			SpawnPoint: point,
			HP:         def.MaxHP,
			Alive:      true,
			Facing:     entitystore.FacingDown,
			State:      entitystore.MonsterIdle,
		}
		gi.monsters[m.ID] = m
	}
}

// State returns the instance's lifecycle state.
func (gi *GameInstance) State() State { return State(gi.state.Load()) }

// Destroy marks the instance destroyed; callers stop ticking it afterward.
func (gi *GameInstance) Destroy() { gi.state.Store(int32(StateDestroyed)) }

// Now returns the simulation's current absolute millisecond clock.
func (gi *GameInstance) Now() int64 { return gi.now }

func (gi *GameInstance) nextMonsterID() string {
	gi.monsterIDCounter++
	return fmt.Sprintf("monster-%d", gi.monsterIDCounter)
}

func (gi *GameInstance) nextProjectileID() string {
	gi.projIDCounter++
	return fmt.Sprintf("projectile-%d", gi.projIDCounter)
}

func (gi *GameInstance) nextPowerupID() string {
	gi.powerupIDCounter++
	return fmt.Sprintf("powerup-%d", gi.powerupIDCounter)
}

func (gi *GameInstance) mostPermissiveCooldownMs(class entitystore.CharacterClass) float64 {
	table, ok := gi.abilities.Tables[class]
	if !ok {
		return 1000
	}
	min := 1e9
	for _, def := range table {
		if def.CooldownMs < min {
			min = def.CooldownMs
		}
	}
	if min == 1e9 {
		return 1000
	}
	return min
}

// AddPlayer registers a new connected player at a random spawn point,
// wiring its per-player anti-cheat session, lag-compensation buffer, and
// network cache.
func (gi *GameInstance) AddPlayer(id string, class entitystore.CharacterClass) *entitystore.Player {
	spawnPoint := entitystore.Vec2{}
	if len(gi.spawnPoints) > 0 {
		spawnPoint = gi.spawnPoints[gi.rng.IntN(len(gi.spawnPoints))]
	}

	p := &entitystore.Player{
		ID:         id,
		Position:   spawnPoint,
		SpawnPoint: spawnPoint,
		Facing:     entitystore.FacingDown,
		Class:      class,
		HP:         100,
		MaxHP:      100,
		Level:      1,
	}
	gi.players[id] = p
	gi.antiCheat[id] = anticheat.NewSession(gi.cfg.AntiCheatCfg, gi.mostPermissiveCooldownMs(class))
	gi.lagBuffers[id] = lagcomp.NewBuffer()
	gi.netCaches[id] = netsync.NewClientCache(gi.cfg.ViewDistance)
	return p
}

// RemovePlayer drops a disconnected player and all its per-player state.
// Per spec §5, its input queue is discarded and any projectiles it owns
// are left to expire naturally.
func (gi *GameInstance) RemovePlayer(id string) {
	delete(gi.players, id)
	delete(gi.antiCheat, id)
	delete(gi.lagBuffers, id)
	delete(gi.netCaches, id)
}

// Player looks up a tracked player by id.
func (gi *GameInstance) Player(id string) (*entitystore.Player, bool) {
	p, ok := gi.players[id]
	return p, ok
}
