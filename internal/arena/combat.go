package arena

import (
	"github.com/udisondev/arenacore/internal/ability"
	"github.com/udisondev/arenacore/internal/entitystore"
	"github.com/udisondev/arenacore/internal/projectiles"
)

// resolveMeleeHit is the ability.HitResolver wired into ability.Manager.Tick
// for the requesting player. It cleaves: every live monster within the
// shape is queued as a separate pendingHit, not just the nearest one.
func (gi *GameInstance) resolveMeleeHit(attackerID string) ability.HitResolver {
	return func(def *ability.Def, origin entitystore.Vec2, facing entitystore.Facing) {
		for _, m := range gi.monsters {
			if !m.Alive || m.State == entitystore.MonsterDying {
				continue
			}
			var hit bool
			switch def.Archetype {
			case ability.MeleeRect:
				hit = ability.InRect(origin, facing, def.RectLength, def.RectWidth, m.Position, m.Def.CollisionRadius)
			case ability.MeleeCone:
				hit = ability.InCone(origin, facing, def.ConeRange, def.ConeAngleDeg, m.Position, m.Def.CollisionRadius)
			}
			if hit {
				gi.pendingHits = append(gi.pendingHits, pendingHit{
					targetIsPlayer: false,
					targetID:       m.ID,
					attackerID:     attackerID,
					amount:         def.Damage,
				})
			}
		}
	}
}

// spawnProjectile is the ability.ProjectileSpawner wired into
// ability.Manager.Tick for the requesting player.
func (gi *GameInstance) spawnProjectile(attackerID string) ability.ProjectileSpawner {
	return func(def *ability.Def, origin entitystore.Vec2, angle float64) {
		proj := &entitystore.Projectile{
			ID:            gi.nextProjectileID(),
			OwnerID:       attackerID,
			OwnerKind:     entitystore.OwnerPlayer,
			Position:      origin,
			Speed:         def.ProjectileSpeed,
			Angle:         angle,
			Damage:        def.Damage,
			Range:         def.ProjectileRange,
			EffectTag:     def.EffectTag,
			CreatedAt:     gi.now,
			MaxLifetimeMs: def.MaxLifetimeMs,
		}
		gi.projectiles[proj.ID] = proj
	}
}

// targetsFor returns the live opposing-side hit candidates for
// projectiles.StepAll: players for monster-owned projectiles, monsters for
// player-owned ones. Player candidates are rewound through their lag
// buffer, matching monsterAttack's treatment of melee hits.
func (gi *GameInstance) targetsFor(kind entitystore.OwnerKind) []projectiles.HitCandidate {
	var out []projectiles.HitCandidate
	switch kind {
	case entitystore.OwnerPlayer:
		rewindTo := gi.now - int64(gi.cfg.LagRewindMs)
		for _, p := range gi.players {
			if p.IsDead || p.IsInvulnerable {
				continue
			}
			pos := p.Position
			if buf, ok := gi.lagBuffers[p.ID]; ok {
				if sample, found := buf.SampleNearest(gi.now, rewindTo); found {
					pos = entitystore.Vec2{X: sample.X, Y: sample.Y}
				}
			}
			out = append(out, projectiles.HitCandidate{ID: p.ID, Position: pos, Radius: gi.cfg.PlayerRadius})
		}
	case entitystore.OwnerMonster:
		for _, m := range gi.monsters {
			if !m.Alive || m.State == entitystore.MonsterDying {
				continue
			}
			radius := gi.cfg.PlayerRadius
			if m.Def != nil {
				radius = m.Def.CollisionRadius
			}
			out = append(out, projectiles.HitCandidate{ID: m.ID, Position: m.Position, Radius: radius})
		}
	}
	return out
}

func (gi *GameInstance) tickProjectiles(dtMs float64) {
	active := make([]*entitystore.Projectile, 0, len(gi.projectiles))
	for _, id := range sortedKeys(gi.projectiles) {
		active = append(active, gi.projectiles[id])
	}

	hits, removals := projectiles.StepAll(active, gi.now, dtMs/1000, gi.targetsFor)

	for _, h := range hits {
		gi.pendingHits = append(gi.pendingHits, pendingHit{
			targetIsPlayer: h.OwnerKind == entitystore.OwnerMonster,
			targetID:       h.TargetID,
			attackerID:     h.OwnerID,
			amount:         h.Damage,
		})
	}

	for _, r := range removals {
		delete(gi.projectiles, r.ProjectileID)
		gi.events.DespawnEvents = append(gi.events.DespawnEvents, DespawnEvent{EntityID: r.ProjectileID, Kind: "projectile"})
	}
}

func (gi *GameInstance) tickAbilities(dtMs float64) {
	for _, id := range sortedKeys(gi.players) {
		p := gi.players[id]
		p.Cooldowns.Tick(dtMs)
		gi.abilities.Tick(gi.now, dtMs, p, gi.mask, gi.resolveMeleeHit(id), gi.spawnProjectile(id))
	}
}

// Projectiles returns every currently live projectile, for the transport
// layer's raw (non-delta-compressed) projectiles array.
func (gi *GameInstance) Projectiles() []*entitystore.Projectile {
	out := make([]*entitystore.Projectile, 0, len(gi.projectiles))
	for _, p := range gi.projectiles {
		out = append(out, p)
	}
	return out
}
