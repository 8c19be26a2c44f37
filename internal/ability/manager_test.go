package ability

import (
	"testing"

	"github.com/udisondev/arenacore/internal/entitystore"
	"github.com/udisondev/arenacore/internal/worldmap"
)

func newTestPlayer() *entitystore.Player {
	return &entitystore.Player{
		ID: "p1", Class: entitystore.ClassBladedancer, Facing: entitystore.FacingRight,
		Position: entitystore.Vec2{X: 100, Y: 100}, HP: 100, MaxHP: 100,
	}
}

func TestRequestRejectsWhileDeadOrAttacking(t *testing.T) {
	m := NewManager(DefaultTables())
	p := newTestPlayer()

	p.IsDead = true
	if m.Request(0, p, entitystore.AttackPrimary, 0, false, nil) {
		t.Fatal("expected rejection while dead")
	}
	p.IsDead = false

	p.IsAttacking = true
	if m.Request(0, p, entitystore.AttackPrimary, 0, false, nil) {
		t.Fatal("expected rejection while already attacking")
	}
}

func TestRequestRejectsOnCooldown(t *testing.T) {
	m := NewManager(DefaultTables())
	p := newTestPlayer()
	p.Cooldowns.Set(entitystore.AttackPrimary, 100)

	if m.Request(0, p, entitystore.AttackPrimary, 0, false, nil) {
		t.Fatal("expected rejection while on cooldown")
	}
}

func TestRequestRejectsRollWhenLocked(t *testing.T) {
	m := NewManager(DefaultTables())
	p := newTestPlayer()
	p.RollUnlocked = false

	if m.Request(0, p, entitystore.AttackRoll, 0, false, nil) {
		t.Fatal("expected rejection for locked roll")
	}
}

func TestRequestRejectsWhenAntiCheatDenies(t *testing.T) {
	m := NewManager(DefaultTables())
	p := newTestPlayer()

	if m.Request(0, p, entitystore.AttackPrimary, 0, false, func() bool { return false }) {
		t.Fatal("expected rejection when anti-cheat denies")
	}
}

func TestRequestSetsAttackingAndCooldownImmediately(t *testing.T) {
	m := NewManager(DefaultTables())
	p := newTestPlayer()

	if !m.Request(0, p, entitystore.AttackPrimary, 0, false, nil) {
		t.Fatal("expected request accepted")
	}
	if !p.IsAttacking || p.CurrentAttack != entitystore.AttackPrimary {
		t.Fatal("expected isAttacking and currentAttackType set")
	}
	if p.Cooldowns.Remaining(entitystore.AttackPrimary) <= 0 {
		t.Fatal("expected cooldown applied immediately on request")
	}
}

func TestMeleeHitResolvedOnceAtWindupEnd(t *testing.T) {
	m := NewManager(DefaultTables())
	p := newTestPlayer()
	mask := worldmap.NewOpenCollisionMask(1000, 1000, 64)

	m.Request(0, p, entitystore.AttackPrimary, 0, false, nil)
	def := m.Tables[p.Class][entitystore.AttackPrimary]

	resolveCount := 0
	for now := int64(0); now <= int64(def.WindupMs)+int64(def.ActiveMs)+int64(def.RecoveryMs)+10; now += 10 {
		m.Tick(now, 10, p, mask, func(d *Def, origin entitystore.Vec2, facing entitystore.Facing) {
			resolveCount++
		}, nil)
	}

	if resolveCount != 1 {
		t.Fatalf("expected exactly one hit resolution, got %d", resolveCount)
	}
	if p.IsAttacking {
		t.Fatal("expected attack to have ended by recovery end")
	}
}

func TestRollGrantsInvulnerabilityDuringActive(t *testing.T) {
	m := NewManager(DefaultTables())
	p := newTestPlayer()
	p.RollUnlocked = true
	mask := worldmap.NewOpenCollisionMask(1000, 1000, 64)

	m.Request(0, p, entitystore.AttackRoll, 0, false, nil)
	def := m.Tables[p.Class][entitystore.AttackRoll]

	m.Tick(int64(def.WindupMs), 10, p, mask, nil, nil)
	if !p.IsInvulnerable {
		t.Fatal("expected invulnerability once roll's active phase begins")
	}

	m.Tick(int64(def.WindupMs)+int64(def.ActiveMs)+int64(def.RecoveryMs)+1, 10, p, mask, nil, nil)
	if p.IsInvulnerable {
		t.Fatal("expected invulnerability cleared after recovery ends")
	}
}

func TestProjectileSpawnedOnceWithOffset(t *testing.T) {
	m := NewManager(DefaultTables())
	p := newTestPlayer()
	p.Class = entitystore.ClassHunter
	mask := worldmap.NewOpenCollisionMask(1000, 1000, 64)

	m.Request(0, p, entitystore.AttackPrimary, 0, false, nil)
	def := m.Tables[p.Class][entitystore.AttackPrimary]

	spawnCount := 0
	for now := int64(0); now <= int64(def.WindupMs)+int64(def.ActiveMs)+int64(def.RecoveryMs)+10; now += 10 {
		m.Tick(now, 10, p, mask, nil, func(d *Def, origin entitystore.Vec2, angle float64) {
			spawnCount++
			if origin.X == p.Position.X && origin.Y == p.Position.Y {
				t.Fatal("expected spawn origin offset from player position")
			}
		})
	}

	if spawnCount != 1 {
		t.Fatalf("expected exactly one projectile spawn, got %d", spawnCount)
	}
}

func TestInRectShape(t *testing.T) {
	origin := entitystore.Vec2{X: 0, Y: 0}
	if !InRect(origin, entitystore.FacingRight, 70, 50, entitystore.Vec2{X: 40, Y: 10}, 4) {
		t.Fatal("expected target inside rect to be detected")
	}
	if InRect(origin, entitystore.FacingRight, 70, 50, entitystore.Vec2{X: 40, Y: 100}, 4) {
		t.Fatal("expected target far outside lateral bound to miss")
	}
	if InRect(origin, entitystore.FacingRight, 70, 50, entitystore.Vec2{X: -50, Y: 0}, 4) {
		t.Fatal("expected target behind attacker to miss")
	}
}

func TestInConeShape(t *testing.T) {
	origin := entitystore.Vec2{X: 0, Y: 0}
	if !InCone(origin, entitystore.FacingRight, 90, 80, entitystore.Vec2{X: 60, Y: 10}, 4) {
		t.Fatal("expected target within cone to be detected")
	}
	if InCone(origin, entitystore.FacingRight, 90, 80, entitystore.Vec2{X: 0, Y: 60}, 4) {
		t.Fatal("expected target perpendicular to facing (outside the half-angle) to miss")
	}
}
