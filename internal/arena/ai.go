package arena

import (
	"math"

	"github.com/udisondev/arenacore/internal/ability"
	"github.com/udisondev/arenacore/internal/entitystore"
	"github.com/udisondev/arenacore/internal/monsterai"
)

// assistRadius bounds how far a monster's faction call reaches nearby
// allies, generalized from the teacher's callFaction idiom (internal/ai/
// attackable_ai.go) onto monster types that declare a non-empty AllyGroup.
const assistRadius = 250

func (gi *GameInstance) liveTargets() []monsterai.Target {
	targets := make([]monsterai.Target, 0, len(gi.players))
	for _, p := range gi.players {
		targets = append(targets, monsterai.Target{ID: p.ID, Position: p.Position, IsDead: p.IsDead})
	}
	return targets
}

func (gi *GameInstance) tickMonsterSpawn(dtMs float64) {
	if len(gi.monsterTypes) == 0 {
		return
	}
	playerPositions := make([]entitystore.Vec2, 0, len(gi.players))
	for _, p := range gi.players {
		if !p.IsDead {
			playerPositions = append(playerPositions, p.Position)
		}
	}

	def := gi.monsterTypes[gi.monsterIDCounter%int64(len(gi.monsterTypes))]
	spawned := gi.spawner.Tick(dtMs, len(gi.monsters), playerPositions, def)
	if spawned == nil {
		return
	}
	spawned.ID = gi.nextMonsterID()
	gi.monsters[spawned.ID] = spawned
	gi.events.SpawnEvents = append(gi.events.SpawnEvents, SpawnEvent{Monster: spawned})
}

func (gi *GameInstance) tickMonsterAI(dtMs float64) {
	targets := gi.liveTargets()

	for _, id := range sortedKeys(gi.monsters) {
		m := gi.monsters[id]
		prevState := m.State
		monsterai.Step(m, gi.now, dtMs, gi.mask, targets, gi.monsterAttack)

		if prevState != entitystore.MonsterWindup && m.State == entitystore.MonsterWindup {
			gi.events.TelegraphEvents = append(gi.events.TelegraphEvents, TelegraphEvent{MonsterID: m.ID, Facing: m.Facing})
			gi.callAllies(m)
		}

		if !m.Alive {
			delete(gi.monsters, id)
			gi.events.DespawnEvents = append(gi.events.DespawnEvents, DespawnEvent{EntityID: id, Kind: "monster"})
		}
	}
}

// callAllies pulls idle monsters sharing m's non-empty AllyGroup, within
// assistRadius, into chase against m's current target.
func (gi *GameInstance) callAllies(m *entitystore.Monster) {
	if m.Def == nil || m.Def.AllyGroup == "" || m.TargetID == "" {
		return
	}
	for _, other := range gi.monsters {
		if other.ID == m.ID || other.State != entitystore.MonsterIdle {
			continue
		}
		if other.Def == nil || other.Def.AllyGroup != m.Def.AllyGroup {
			continue
		}
		if dist(other.Position, m.Position) > assistRadius {
			continue
		}
		other.TargetID = m.TargetID
		other.State = entitystore.MonsterChase
	}
}

// monsterAttack resolves a monster's attack against its current target,
// rewinding the target's position through its lag-compensation buffer
// (spec §4.8) before testing the hit shape, since the monster's own
// windup/active timing already ran against a possibly-stale view of where
// the player actually stood on the player's connection.
func (gi *GameInstance) monsterAttack(m *entitystore.Monster, targetID string) {
	target, ok := gi.players[targetID]
	if !ok || target.IsDead {
		return
	}
	def := m.Def
	if def == nil {
		return
	}

	hitPos := target.Position
	if buf, ok := gi.lagBuffers[targetID]; ok {
		rewindTo := gi.now - int64(gi.cfg.LagRewindMs)
		if sample, found := buf.SampleNearest(gi.now, rewindTo); found {
			hitPos = entitystore.Vec2{X: sample.X, Y: sample.Y}
		}
	}

	var hit bool
	switch def.AttackArchetype {
	case string(ability.MeleeRect):
		hit = ability.InRect(m.Position, m.Facing, def.RectLength, def.RectWidth, hitPos, gi.cfg.PlayerRadius)
	case string(ability.MeleeCone):
		hit = ability.InCone(m.Position, m.Facing, def.ConeRange, def.ConeAngleDeg, hitPos, gi.cfg.PlayerRadius)
	}
	if hit {
		gi.pendingHits = append(gi.pendingHits, pendingHit{targetIsPlayer: true, targetID: targetID, amount: def.Damage})
	}
}

func dist(a, b entitystore.Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
