package arena

import (
	"testing"

	"github.com/udisondev/arenacore/internal/ability"
	"github.com/udisondev/arenacore/internal/entitystore"
)

func TestResolveMeleeHitSkipsDyingMonsters(t *testing.T) {
	gi := newTestInstance()
	def := &entitystore.MonsterTypeDef{CollisionRadius: 10}
	dying := &entitystore.Monster{ID: "m1", Def: def, Position: entitystore.Vec2{X: 10, Y: 0}, Alive: true, State: entitystore.MonsterDying}
	alive := &entitystore.Monster{ID: "m2", Def: def, Position: entitystore.Vec2{X: 10, Y: 0}, Alive: true, State: entitystore.MonsterIdle}
	gi.monsters["m1"] = dying
	gi.monsters["m2"] = alive

	resolver := gi.resolveMeleeHit("p1")
	resolver(&ability.Def{Archetype: ability.MeleeRect, RectLength: 100, RectWidth: 100, Damage: 5}, entitystore.Vec2{}, entitystore.FacingRight)

	if len(gi.pendingHits) != 1 {
		t.Fatalf("expected exactly one pending hit (dying monster skipped), got %d", len(gi.pendingHits))
	}
	if gi.pendingHits[0].targetID != "m2" {
		t.Fatalf("expected the hit to target the alive monster, got %s", gi.pendingHits[0].targetID)
	}
}

func TestSpawnProjectileInsertsIntoProjectileMap(t *testing.T) {
	gi := newTestInstance()
	spawner := gi.spawnProjectile("p1")
	spawner(&ability.Def{ProjectileSpeed: 500, ProjectileRange: 800, Damage: 9, MaxLifetimeMs: 2000}, entitystore.Vec2{X: 1, Y: 2}, 0)

	if len(gi.projectiles) != 1 {
		t.Fatalf("expected exactly one projectile inserted, got %d", len(gi.projectiles))
	}
	for _, p := range gi.projectiles {
		if p.OwnerID != "p1" || p.OwnerKind != entitystore.OwnerPlayer {
			t.Fatalf("unexpected projectile owner fields: %+v", p)
		}
	}
}

func TestTargetsForFiltersDeadAndInvulnerablePlayers(t *testing.T) {
	gi := newTestInstance()
	gi.AddPlayer("alive", entitystore.ClassGuardian)
	dead := gi.AddPlayer("dead", entitystore.ClassGuardian)
	dead.IsDead = true
	shielded := gi.AddPlayer("shielded", entitystore.ClassGuardian)
	shielded.IsInvulnerable = true

	candidates := gi.targetsFor(entitystore.OwnerPlayer)
	if len(candidates) != 1 || candidates[0].ID != "alive" {
		t.Fatalf("expected only the alive, non-invulnerable player as a candidate, got %+v", candidates)
	}
}

func TestTickProjectilesRemovesExpired(t *testing.T) {
	gi := newTestInstance()
	gi.projectiles["proj1"] = &entitystore.Projectile{
		ID: "proj1", Speed: 100, Range: 1, MaxLifetimeMs: 10000, CreatedAt: 0,
	}
	gi.now = 0

	gi.tickProjectiles(50)

	if _, ok := gi.projectiles["proj1"]; ok {
		t.Fatalf("expected the projectile to expire once its range is exhausted")
	}
}
