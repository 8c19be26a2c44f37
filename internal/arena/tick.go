package arena

import (
	"github.com/udisondev/arenacore/internal/damage"
	"github.com/udisondev/arenacore/internal/entitystore"
	"github.com/udisondev/arenacore/internal/netsync"
)

// Tick advances the simulation by dtMs milliseconds, running every phase in
// the fixed order spec §4.11 lays out: input processing, monster AI,
// projectile stepping, ability phase transitions, damage bookkeeping,
// lag-compensation history capture, then network-record emission. Callers
// (the transport package) own the fixed-rate ticker and the dt clamp; Tick
// itself trusts dtMs as given.
func (gi *GameInstance) Tick(dtMs float64) TickResult {
	gi.events = newTickResult(gi.now)
	gi.pendingHits = gi.pendingHits[:0]

	gi.tickInputs()
	gi.tickMonsterSpawn(dtMs)
	gi.tickMonsterAI(dtMs)
	gi.tickProjectiles(dtMs)
	gi.tickAbilities(dtMs)
	gi.tickDamage(dtMs)
	gi.tickPowerupSpawn(dtMs)
	gi.tickPowerupPickupAndExpiry()
	gi.tickPowerupBuffs(dtMs)
	gi.tickLagHistory()
	gi.tickAntiCheatDisconnects()
	gi.tickNetworkEmit()

	gi.now += int64(dtMs)
	gi.events.Now = gi.now
	return gi.events
}

func (gi *GameInstance) tickInputs() {
	for _, id := range sortedKeys(gi.players) {
		gi.inputs.Drain(gi.players[id], gi.mask, gi.cfg.PlayerRadius)
	}
}

// tickDamage is the pipeline's single damage call site: it drains the
// pendingHits queue accumulated by monster attacks, player melee/projectile
// resolution, and monster-owned projectiles, then handles death-timer
// accumulation, respawn, and spawn protection decay.
func (gi *GameInstance) tickDamage(dtMs float64) {
	b := &damage.Broadcaster{
		OnDamage:  func(e damage.DamageEvent) { gi.events.DamageEvents = append(gi.events.DamageEvents, e) },
		OnDeath:   func(e damage.DeathEvent) { gi.events.DeathEvents = append(gi.events.DeathEvents, e) },
		OnLevelUp: func(e damage.LevelUpEvent) { gi.events.LevelUpEvents = append(gi.events.LevelUpEvents, e) },
	}

	for _, h := range gi.pendingHits {
		if h.targetIsPlayer {
			target, ok := gi.players[h.targetID]
			if !ok || target.PowerupShieldTimer > 0 {
				continue
			}
			damage.ApplyToPlayer(target, h.attackerID, h.amount, b)
			continue
		}

		target, ok := gi.monsters[h.targetID]
		if !ok {
			continue
		}
		var attacker *entitystore.Player
		if p, ok := gi.players[h.attackerID]; ok {
			attacker = p
		}
		damage.ApplyToMonster(target, attacker, h.amount, b)
	}

	for _, id := range sortedKeys(gi.players) {
		p := gi.players[id]
		damage.TickSpawnProtection(p, dtMs)

		if !p.IsDead {
			continue
		}
		p.DeathTimer += dtMs
		if p.DeathTimer >= gi.cfg.RespawnCfg.DelayMs {
			damage.Respawn(p, gi.cfg.RespawnCfg)
			p.DeathTimer = 0
			gi.events.RespawnEvents = append(gi.events.RespawnEvents, RespawnEvent{PlayerID: p.ID})
		}
	}
}

func (gi *GameInstance) tickLagHistory() {
	for id, p := range gi.players {
		buf, ok := gi.lagBuffers[id]
		if !ok {
			continue
		}
		buf.Record(gi.now, p.Position.X, p.Position.Y)
	}
}

// tickAntiCheatDisconnects surfaces sessions that crossed the disconnect
// threshold this tick so the transport layer can close their connection.
func (gi *GameInstance) tickAntiCheatDisconnects() {
	for id, session := range gi.antiCheat {
		if session.Disconnected() {
			gi.events.DisconnectedIDs = append(gi.events.DisconnectedIDs, id)
		}
	}
}

// tickNetworkEmit flattens the live entity set into netsync.EntitySnapshots
// once, then builds each client's personalized delta record set against it.
// Projectiles are deliberately excluded from this snapshot set: per spec §6
// they travel in the state message's own always-full projectiles array,
// bypassing delta compression entirely since their lifetime is too short
// for a lastSent cache to pay for itself.
func (gi *GameInstance) tickNetworkEmit() {
	entities := make([]netsync.EntitySnapshot, 0, len(gi.players)+len(gi.monsters)+len(gi.powerups))

	for _, p := range gi.players {
		entities = append(entities, netsync.EntitySnapshot{
			ID:       p.ID,
			Position: [2]float64{p.Position.X, p.Position.Y},
			Fields: map[string]any{
				"position":         [2]float64{p.Position.X, p.Position.Y},
				"facing":           string(p.Facing),
				"hp":               p.HP,
				"maxHp":            p.MaxHP,
				"level":            p.Level,
				"class":            string(p.Class),
				"isDead":           p.IsDead,
				"isInvulnerable":   p.IsInvulnerable,
				"isAttacking":      p.IsAttacking,
				"lastProcessedSeq": p.LastProcessedSeq,
			},
		})
	}

	for _, m := range gi.monsters {
		entities = append(entities, netsync.EntitySnapshot{
			ID:       m.ID,
			Position: [2]float64{m.Position.X, m.Position.Y},
			Fields: map[string]any{
				"position": [2]float64{m.Position.X, m.Position.Y},
				"facing":   string(m.Facing),
				"hp":       m.HP,
				"type":     m.Type,
				"state":    string(m.State),
				"isDead":   !m.Alive,
			},
		})
	}

	for _, pu := range gi.powerups {
		entities = append(entities, netsync.EntitySnapshot{
			ID:       pu.ID,
			Position: [2]float64{pu.Position.X, pu.Position.Y},
			Fields: map[string]any{
				"position":  [2]float64{pu.Position.X, pu.Position.Y},
				"type":      string(pu.Type),
				"active":    pu.Active,
				"expiresAt": pu.ExpiresAt,
			},
		})
	}

	for id, p := range gi.players {
		cache, ok := gi.netCaches[id]
		if !ok {
			continue
		}
		selfPos := [2]float64{p.Position.X, p.Position.Y}
		gi.events.PerClientRecords[id] = cache.Build(selfPos, id, entities)
	}
}
