package arena

import (
	"github.com/udisondev/arenacore/internal/damage"
	"github.com/udisondev/arenacore/internal/entitystore"
	"github.com/udisondev/arenacore/internal/netsync"
)

// pendingHit queues a damage application discovered during the monster-AI,
// projectile, or ability phase transitions, to be applied uniformly during
// the tick's damage-bookkeeping phase, per spec §4.11's pipeline order.
type pendingHit struct {
	targetIsPlayer bool
	targetID       string
	attackerID     string // monster or player id; only looked up against the player map when crediting XP
	amount         int32
}

// SpawnEvent reports a monster that was spawned this tick.
type SpawnEvent struct {
	Monster *entitystore.Monster
}

// DespawnEvent reports an entity removed this tick.
type DespawnEvent struct {
	EntityID string
	Kind     string // "monster", "projectile" or "powerup"
}

// TelegraphEvent reports a monster entering its windup phase, for clients
// to render an attack warning.
type TelegraphEvent struct {
	MonsterID string
	Facing    entitystore.Facing
}

// RespawnEvent reports a player respawning after their death delay elapsed.
type RespawnEvent struct {
	PlayerID string
}

// PowerupEvent reports a powerup spawning, being claimed, or expiring.
type PowerupEvent struct {
	Powerup *entitystore.Powerup
	Claimed bool
	ByID    string
}

// TickResult collects every event produced during one Tick call, plus the
// per-client network-optimizer records ready for the transport layer to
// serialize and send.
type TickResult struct {
	Now              int64
	SpawnEvents      []SpawnEvent
	DespawnEvents    []DespawnEvent
	TelegraphEvents  []TelegraphEvent
	PowerupEvents    []PowerupEvent
	DamageEvents     []damage.DamageEvent
	DeathEvents      []damage.DeathEvent
	LevelUpEvents    []damage.LevelUpEvent
	RespawnEvents    []RespawnEvent
	DisconnectedIDs  []string // anti-cheat escalated these players past the disconnect threshold
	PerClientRecords map[string][]netsync.Record
}

func newTickResult(now int64) TickResult {
	return TickResult{Now: now, PerClientRecords: make(map[string][]netsync.Record)}
}
