package arena

import (
	"testing"

	"github.com/udisondev/arenacore/internal/entitystore"
)

func TestApplyPowerupSpeedGrantsBonusOnce(t *testing.T) {
	gi := newTestInstance()
	p := gi.AddPlayer("p1", entitystore.ClassGuardian)
	before := p.MoveSpeedBonus

	pu := &entitystore.Powerup{ID: "pu1", Type: entitystore.PowerupSpeed, Active: true}
	gi.applyPowerup(p, pu)
	if p.MoveSpeedBonus != before+powerupSpeedBonus {
		t.Fatalf("expected move speed bonus to increase by %v, got %v", powerupSpeedBonus, p.MoveSpeedBonus-before)
	}

	// Re-applying while already active must not stack the bonus a second time.
	gi.applyPowerup(p, pu)
	if p.MoveSpeedBonus != before+powerupSpeedBonus {
		t.Fatalf("expected move speed bonus not to stack, got %v", p.MoveSpeedBonus-before)
	}
}

func TestTickPowerupBuffsRemovesSpeedBonusAtExpiry(t *testing.T) {
	gi := newTestInstance()
	p := gi.AddPlayer("p1", entitystore.ClassGuardian)
	before := p.MoveSpeedBonus

	pu := &entitystore.Powerup{ID: "pu1", Type: entitystore.PowerupSpeed, Active: true}
	gi.applyPowerup(p, pu)

	gi.tickPowerupBuffs(powerupSpeedDurationMs + 1)

	if p.PowerupSpeedTimer != 0 {
		t.Fatalf("expected timer to clear at expiry, got %v", p.PowerupSpeedTimer)
	}
	if p.MoveSpeedBonus != before {
		t.Fatalf("expected move speed bonus reverted to %v, got %v", before, p.MoveSpeedBonus)
	}
}

func TestTickPowerupSpawnRespectsInterval(t *testing.T) {
	gi := newTestInstance()
	gi.cfg.PowerupInterval = 1000

	gi.tickPowerupSpawn(500)
	if len(gi.powerups) != 0 {
		t.Fatalf("expected no spawn before the interval elapses")
	}

	gi.tickPowerupSpawn(600)
	if len(gi.powerups) != 1 {
		t.Fatalf("expected exactly one powerup spawned once the interval elapses, got %d", len(gi.powerups))
	}
}

func TestTickPowerupPickupAndExpiryRemovesExpired(t *testing.T) {
	gi := newTestInstance()
	gi.now = 1000
	pu := &entitystore.Powerup{ID: "pu1", Type: entitystore.PowerupHeal, Position: entitystore.Vec2{X: 1000, Y: 1000}, ExpiresAt: 500, Active: true}
	gi.powerups["pu1"] = pu

	gi.tickPowerupPickupAndExpiry()

	if _, ok := gi.powerups["pu1"]; ok {
		t.Fatalf("expected expired powerup removed")
	}
	found := false
	for _, e := range gi.events.PowerupEvents {
		if e.Powerup.ID == "pu1" && !e.Claimed {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an unclaimed expiry PowerupEvent")
	}
}
