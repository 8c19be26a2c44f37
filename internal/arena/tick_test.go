package arena

import (
	"math/rand/v2"
	"testing"

	"github.com/udisondev/arenacore/internal/ability"
	"github.com/udisondev/arenacore/internal/entitystore"
	"github.com/udisondev/arenacore/internal/worldmap"
)

func TestTickAdvancesClock(t *testing.T) {
	gi := newTestInstance()
	gi.AddPlayer("p1", entitystore.ClassGuardian)

	result := gi.Tick(50)
	if result.Now != 50 {
		t.Fatalf("expected Now == 50 after one 50ms tick, got %d", result.Now)
	}
	if gi.Now() != 50 {
		t.Fatalf("expected instance clock to advance to 50, got %d", gi.Now())
	}
}

func TestTickDrainsQueuedInput(t *testing.T) {
	gi := newTestInstance()
	p := gi.AddPlayer("p1", entitystore.ClassGuardian)
	start := p.Position

	ok := gi.EnqueueInput("p1", entitystore.InputRecord{
		Sequence:  1,
		Keys:      []string{"d"},
		Facing:    entitystore.FacingRight,
		DeltaTime: 0.05,
	})
	if !ok {
		t.Fatalf("expected EnqueueInput to succeed for a known player")
	}

	gi.Tick(50)

	if p.Position == start {
		t.Fatalf("expected player position to change after moving input, stayed at %v", p.Position)
	}
	if p.LastProcessedSeq != 1 {
		t.Fatalf("expected LastProcessedSeq == 1, got %d", p.LastProcessedSeq)
	}
}

func TestTickBuildsPerClientNetworkRecords(t *testing.T) {
	gi := newTestInstance()
	gi.AddPlayer("p1", entitystore.ClassGuardian)

	result := gi.Tick(50)
	records, ok := result.PerClientRecords["p1"]
	if !ok {
		t.Fatalf("expected PerClientRecords entry for p1")
	}
	if len(records) == 0 {
		t.Fatalf("expected at least one record (the player's own full snapshot)")
	}
	if records[0].Kind != "full" {
		t.Fatalf("expected the first tick's own-entity record to be a full snapshot, got %v", records[0].Kind)
	}
}

func TestTickMonsterMeleeHitAppliesDamageAndEmitsEvent(t *testing.T) {
	gi := newTestInstance()
	p := gi.AddPlayer("p1", entitystore.ClassGuardian)
	p.Position = entitystore.Vec2{X: 500, Y: 500}

	def := &entitystore.MonsterTypeDef{
		Type: "test-grunt", MaxHP: 40, AttackRange: 1000, AggroRange: 1000,
		WindupMs: 0, RecoveryMs: 1000, CollisionRadius: 16,
		AttackArchetype: "melee_rect", Damage: 10, RectWidth: 200, RectLength: 200,
	}
	m := &entitystore.Monster{
		ID: "m1", Type: def.Type, Def: def, Position: entitystore.Vec2{X: 500, Y: 450},
		HP: def.MaxHP, Alive: true, Facing: entitystore.FacingDown, State: entitystore.MonsterIdle,
	}
	gi.monsters["m1"] = m

	startHP := p.HP
	// First tick: idle -> chase (player within aggro range) or straight to
	// windup if already within attack range; iterate a few ticks to let the
	// state machine reach active and resolve the hit.
	for i := 0; i < 5; i++ {
		gi.Tick(100)
		if p.HP < startHP {
			break
		}
	}

	if p.HP >= startHP {
		t.Fatalf("expected monster melee attack to damage the player, hp stayed at %d", p.HP)
	}
	if len(gi.events.DamageEvents) == 0 && p.HP == startHP {
		t.Fatalf("expected a damage event once the monster attacked")
	}
}

func TestTickPowerupHealApplied(t *testing.T) {
	gi := newTestInstance()
	p := gi.AddPlayer("p1", entitystore.ClassGuardian)
	p.HP = 10
	p.Position = entitystore.Vec2{X: 300, Y: 300}

	pu := &entitystore.Powerup{
		ID: "pu1", Type: entitystore.PowerupHeal, Position: entitystore.Vec2{X: 300, Y: 300},
		SpawnAt: 0, ExpiresAt: 999999, Active: true,
	}
	gi.powerups["pu1"] = pu

	gi.Tick(50)

	if p.HP <= 10 {
		t.Fatalf("expected heal powerup to raise hp above 10, got %d", p.HP)
	}
	if _, stillThere := gi.powerups["pu1"]; stillThere {
		t.Fatalf("expected claimed powerup to be removed")
	}
}

func TestTickRespawnsPlayerAfterDelay(t *testing.T) {
	gi := newTestInstance()
	p := gi.AddPlayer("p1", entitystore.ClassGuardian)
	p.HP = 0
	p.IsDead = true

	cfg := gi.cfg
	cfg.RespawnCfg.DelayMs = 100
	gi.cfg = cfg

	gi.Tick(60)
	if !p.IsDead {
		t.Fatalf("expected player still dead before the respawn delay elapses")
	}

	gi.Tick(60)
	if p.IsDead {
		t.Fatalf("expected player respawned once DeathTimer reached the delay")
	}
	if p.HP != p.MaxHP {
		t.Fatalf("expected respawn to restore full hp, got %d/%d", p.HP, p.MaxHP)
	}

	found := false
	for _, e := range gi.events.RespawnEvents {
		if e.PlayerID == "p1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a RespawnEvent for p1")
	}
}

func TestTickAbilityMeleeCleaveHitsMultipleMonsters(t *testing.T) {
	mask := worldmap.NewOpenCollisionMask(50, 50, 64)
	gi := NewGameInstance(mask, DefaultMonsterTypes(), nil, nil, ability.DefaultTables(), DefaultConfig(), rand.New(rand.NewPCG(1, 2)))
	p := gi.AddPlayer("p1", entitystore.ClassGuardian)
	p.Position = entitystore.Vec2{X: 500, Y: 500}
	p.Facing = entitystore.FacingRight

	def := &entitystore.MonsterTypeDef{Type: "dummy", MaxHP: 100, CollisionRadius: 10}
	m1 := &entitystore.Monster{ID: "m1", Def: def, Position: entitystore.Vec2{X: 540, Y: 500}, HP: 100, Alive: true, State: entitystore.MonsterIdle}
	m2 := &entitystore.Monster{ID: "m2", Def: def, Position: entitystore.Vec2{X: 560, Y: 500}, HP: 100, Alive: true, State: entitystore.MonsterIdle}
	gi.monsters["m1"] = m1
	gi.monsters["m2"] = m2

	if !gi.RequestAbility("p1", entitystore.AttackPrimary, 0, false) {
		t.Fatalf("expected ability request to succeed")
	}

	// Guardian primary (melee cone) windup is 250ms. The request was made
	// at sim time 0, so the first tick only advances the clock to 300; the
	// windup-end check (now >= windupEndAt) fires on the following tick,
	// once gi.now itself has reached 300.
	gi.Tick(300)
	gi.Tick(300)

	if m1.HP == 100 && m2.HP == 100 {
		t.Fatalf("expected at least one monster to take cleave damage")
	}
}
