// Package damage is the single call site for applying damage, death,
// level-up, and respawn bookkeeping. Event broadcasting is injected via
// callbacks so this package never imports the transport layer.
package damage

import "github.com/udisondev/arenacore/internal/entitystore"

// DamageEvent is broadcast whenever damage is applied.
type DamageEvent struct {
	TargetID   string
	AttackerID string
	Amount     int32
}

// DeathEvent is broadcast when a target's hp reaches zero.
type DeathEvent struct {
	TargetID   string
	AttackerID string
	IsPlayer   bool
}

// LevelUpEvent is broadcast whenever a player's level increases.
type LevelUpEvent struct {
	PlayerID string
	NewLevel int32
}

// Broadcaster receives damage-pipeline events for transmission to clients.
type Broadcaster struct {
	OnDamage  func(DamageEvent)
	OnDeath   func(DeathEvent)
	OnLevelUp func(LevelUpEvent)
}

func (b *Broadcaster) damage(e DamageEvent) {
	if b != nil && b.OnDamage != nil {
		b.OnDamage(e)
	}
}

func (b *Broadcaster) death(e DeathEvent) {
	if b != nil && b.OnDeath != nil {
		b.OnDeath(e)
	}
}

func (b *Broadcaster) levelUp(e LevelUpEvent) {
	if b != nil && b.OnLevelUp != nil {
		b.OnLevelUp(e)
	}
}

// MaxLevel is the level cap; level-up stops applying once reached.
const MaxLevel = 10

// DyingGraceMs has the same value as monsterai.DyingGraceMs; the two are
// separate constants and are kept equal by hand.
const DyingGraceMs = 1500

// totalXpForLevel returns the cumulative experience required to reach a
// given level. A simple escalating curve; configuration data, not fixed
// law, per spec §9.
func totalXpForLevel(level int32) int64 {
	if level <= 1 {
		return 0
	}
	var total int64
	for l := int32(2); l <= level; l++ {
		total += int64(l-1) * 100
	}
	return total
}

// ApplyToPlayer applies amount of damage to target, broadcasting events
// and handling death. No-ops if the target is invulnerable or already
// dead.
func ApplyToPlayer(target *entitystore.Player, attackerID string, amount int32, b *Broadcaster) {
	if target.IsInvulnerable || target.IsDead {
		return
	}
	target.HP -= amount
	target.ClampHP()
	b.damage(DamageEvent{TargetID: target.ID, AttackerID: attackerID, Amount: amount})

	if target.IsDead {
		b.death(DeathEvent{TargetID: target.ID, AttackerID: attackerID, IsPlayer: true})
	}
}

// ApplyToMonster applies amount of damage to target, broadcasting events.
// On death it awards XP to the attacker (when attacker is a tracked
// player), increments the attacker's killCount, and runs the level-up
// check. Returns true if the monster died from this hit.
func ApplyToMonster(target *entitystore.Monster, attacker *entitystore.Player, amount int32, b *Broadcaster) bool {
	if target.HP <= 0 {
		return false
	}
	target.HP -= amount
	if target.HP < 0 {
		target.HP = 0
	}

	attackerID := ""
	if attacker != nil {
		attackerID = attacker.ID
	}
	b.damage(DamageEvent{TargetID: target.ID, AttackerID: attackerID, Amount: amount})

	if target.HP > 0 {
		return false
	}

	b.death(DeathEvent{TargetID: target.ID, AttackerID: attackerID, IsPlayer: false})
	if attacker != nil && target.Def != nil {
		attacker.Experience += target.Def.XPReward
		attacker.KillCount++
		checkLevelUp(attacker, b)
	}
	return true
}

// checkLevelUp applies every level-up the player's current experience
// qualifies for, restoring hp and broadcasting one event per level gained.
func checkLevelUp(p *entitystore.Player, b *Broadcaster) {
	for p.Level < MaxLevel && p.Experience >= totalXpForLevel(p.Level+1) {
		p.Level++
		applyLevelBonus(p, p.Level)
		p.HP = p.MaxHP
		b.levelUp(LevelUpEvent{PlayerID: p.ID, NewLevel: p.Level})
	}
}

// applyLevelBonus applies the fixed per-level bonus table: move speed at
// 2 and 6, attack recovery at 3 and 7, cooldown reduction at 4 and 8,
// roll unlock at 5, +1 max hp at 10.
func applyLevelBonus(p *entitystore.Player, level int32) {
	switch level {
	case 2, 6:
		p.MoveSpeedBonus += 0.25
	case 3, 7:
		p.AttackRecoveryBonus += 0.1
	case 4, 8:
		p.AttackCooldownBonus += 0.1
	case 5:
		p.RollUnlocked = true
	case 10:
		p.MaxHP++
	}
}

// RespawnConfig controls the fixed respawn delay and spawn-protection
// window.
type RespawnConfig struct {
	DelayMs            float64
	SpawnProtectionMs  float64
}

// DefaultRespawnConfig returns this build's respawn defaults.
func DefaultRespawnConfig() RespawnConfig {
	return RespawnConfig{DelayMs: 3000, SpawnProtectionMs: 2000}
}

// Respawn resets a dead player to their spawn point, restores hp, clears
// cooldowns, and starts the spawn-protection invulnerability window.
// Callers are responsible for only invoking this once the configured
// respawn delay has elapsed since death.
func Respawn(p *entitystore.Player, cfg RespawnConfig) {
	p.Position = p.SpawnPoint
	p.HP = p.MaxHP
	p.IsDead = false
	p.Cooldowns = entitystore.Cooldowns{}
	p.IsInvulnerable = true
	p.SpawnProtectionTimer = cfg.SpawnProtectionMs
}

// TickSpawnProtection decrements a player's spawn-protection timer,
// clearing invulnerability once it reaches zero.
func TickSpawnProtection(p *entitystore.Player, dtMs float64) {
	if p.SpawnProtectionTimer <= 0 {
		return
	}
	p.SpawnProtectionTimer -= dtMs
	if p.SpawnProtectionTimer <= 0 {
		p.SpawnProtectionTimer = 0
		p.IsInvulnerable = false
	}
}
