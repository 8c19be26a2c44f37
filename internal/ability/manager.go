package ability

import (
	"math"

	"github.com/udisondev/arenacore/internal/entitystore"
	"github.com/udisondev/arenacore/internal/worldmap"
)

// activeAttack tracks one player's in-flight attack from request through
// recovery end.
type activeAttack struct {
	attackType    entitystore.AttackType
	def           *Def
	requestFacing entitystore.Facing
	mouseAimAngle float64
	hasMouseAim   bool

	windupEndAt   int64
	activeEndAt   int64
	recoveryEndAt int64

	hitResolved        bool
	windupOrigin       entitystore.Vec2
	jumpDashStart      entitystore.Vec2
	jumpDashDest       entitystore.Vec2
	wasInvulnerable    bool
}

// HitResolver is invoked once, at windup end, for melee archetypes. origin
// is the attacker's position at windup end; facing is the facing captured
// at the moment of the request.
type HitResolver func(def *Def, origin entitystore.Vec2, facing entitystore.Facing)

// ProjectileSpawner is invoked once, at windup end, for the projectile
// archetype. angle is in radians; it comes from the player's facing unless
// a validated mouse-aim angle was supplied with the request.
type ProjectileSpawner func(def *Def, origin entitystore.Vec2, angle float64)

// Manager tracks in-flight attacks for every player with an active attack.
type Manager struct {
	Tables Tables
	active map[string]*activeAttack
}

// NewManager builds a Manager over the given class attack tables.
func NewManager(tables Tables) *Manager {
	return &Manager{Tables: tables, active: make(map[string]*activeAttack)}
}

// IsAttacking reports whether playerID currently has an in-flight attack.
func (m *Manager) IsAttacking(playerID string) bool {
	_, ok := m.active[playerID]
	return ok
}

// Request validates and starts a new attack for player, given the attack
// slot, an optional mouse-aim angle (radians, only consulted for
// projectile archetypes), and an anti-cheat hook. Returns false if the
// request is rejected.
func (m *Manager) Request(now int64, player *entitystore.Player, t entitystore.AttackType, mouseAimAngle float64, hasMouseAim bool, antiCheatAllows func() bool) bool {
	if player.IsDead || player.IsAttacking {
		return false
	}
	if player.Cooldowns.Remaining(t) > 0 {
		return false
	}
	if t == entitystore.AttackRoll && !player.RollUnlocked {
		return false
	}
	if antiCheatAllows != nil && !antiCheatAllows() {
		return false
	}

	table, ok := m.Tables[player.Class]
	if !ok {
		return false
	}
	def, ok := table[t]
	if !ok || def == nil {
		return false
	}

	cooldownMs := def.CooldownMs * (1 - player.AttackCooldownBonus)
	if cooldownMs < 0 {
		cooldownMs = 0
	}
	player.Cooldowns.Set(t, cooldownMs)

	recoveryMs := def.RecoveryMs * (1 - player.AttackRecoveryBonus)
	if recoveryMs < 0 {
		recoveryMs = 0
	}

	player.IsAttacking = true
	player.CurrentAttack = t

	windupEnd := now + int64(def.WindupMs)
	activeEnd := windupEnd + int64(def.ActiveMs)
	recoveryEnd := activeEnd + int64(recoveryMs)

	m.active[player.ID] = &activeAttack{
		attackType:    t,
		def:           def,
		requestFacing: player.Facing,
		mouseAimAngle: mouseAimAngle,
		hasMouseAim:   hasMouseAim,
		windupEndAt:   windupEnd,
		activeEndAt:   activeEnd,
		recoveryEndAt: recoveryEnd,
	}
	return true
}

// Tick advances player's in-flight attack, if any, resolving the melee hit
// or projectile spawn exactly once at windup end, translating the player
// for jump/dash/roll archetypes during the active phase, and clearing
// isAttacking/isInvulnerable at recovery end.
func (m *Manager) Tick(now int64, dtMs float64, player *entitystore.Player, mask *worldmap.CollisionMask, resolve HitResolver, spawn ProjectileSpawner) {
	a, ok := m.active[player.ID]
	if !ok {
		return
	}

	if !a.hitResolved && now >= a.windupEndAt {
		a.hitResolved = true
		a.windupOrigin = player.Position
		a.jumpDashStart = player.Position

		angle := facingToRadians(a.requestFacing)
		if a.def.Archetype == Projectile && a.hasMouseAim {
			angle = clampAimToFacing(a.mouseAimAngle, a.requestFacing)
		}

		switch a.def.Archetype {
		case MeleeRect, MeleeCone:
			if resolve != nil {
				resolve(a.def, a.windupOrigin, a.requestFacing)
			}
		case Projectile:
			if spawn != nil {
				dir := entitystore.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
				origin := entitystore.Vec2{
					X: a.windupOrigin.X + dir.X*a.def.ProjectileOffset,
					Y: a.windupOrigin.Y + dir.Y*a.def.ProjectileOffset,
				}
				spawn(a.def, origin, angle)
			}
		case Jump, Dash:
			dir := FacingVector(a.requestFacing)
			a.jumpDashDest = entitystore.Vec2{
				X: a.jumpDashStart.X + dir.X*a.def.Distance,
				Y: a.jumpDashStart.Y + dir.Y*a.def.Distance,
			}
		}

		if a.def.Invulnerable {
			player.IsInvulnerable = true
			a.wasInvulnerable = true
		}
	}

	if now >= a.windupEndAt && now < a.activeEndAt {
		switch a.def.Archetype {
		case Jump, Dash, Roll:
			translateTowards(player, mask, a, now)
		}
	}

	if now >= a.recoveryEndAt {
		player.IsAttacking = false
		player.CurrentAttack = entitystore.AttackNone
		if a.wasInvulnerable {
			player.IsInvulnerable = false
		}
		delete(m.active, player.ID)
	}
}

func translateTowards(player *entitystore.Player, mask *worldmap.CollisionMask, a *activeAttack, now int64) {
	var dest entitystore.Vec2
	if a.def.Archetype == Roll {
		dir := FacingVector(a.requestFacing)
		dest = entitystore.Vec2{
			X: a.jumpDashStart.X + dir.X*a.def.Distance,
			Y: a.jumpDashStart.Y + dir.Y*a.def.Distance,
		}
	} else {
		dest = a.jumpDashDest
	}

	total := a.activeEndAt - a.windupEndAt
	if total <= 0 {
		return
	}
	progress := float64(now-a.windupEndAt) / float64(total)
	if progress > 1 {
		progress = 1
	}

	target := entitystore.Vec2{
		X: a.jumpDashStart.X + (dest.X-a.jumpDashStart.X)*progress,
		Y: a.jumpDashStart.Y + (dest.Y-a.jumpDashStart.Y)*progress,
	}

	if mask.CanMove(player.Position.X, player.Position.Y, target.X, target.Y, 8) {
		player.Position = target
	}
}

func facingToRadians(f entitystore.Facing) float64 {
	deg, ok := facingAngles[f]
	if !ok {
		deg = 0
	}
	return deg * (math.Pi / 180)
}

// clampAimToFacing validates a mouse-aim angle against the player's 8-way
// facing, clamping to the facing's angle when the deviation exceeds the
// small tolerance spec calls for.
func clampAimToFacing(aim float64, facing entitystore.Facing) float64 {
	const toleranceRad = 20 * math.Pi / 180
	facingRad := facingToRadians(facing)
	diff := normalizeAngle(aim - facingRad)
	if diff > toleranceRad {
		return facingRad + toleranceRad
	}
	if diff < -toleranceRad {
		return facingRad - toleranceRad
	}
	return aim
}

func normalizeAngle(a float64) float64 {
	const twoPi = 2 * math.Pi
	for a > math.Pi {
		a -= twoPi
	}
	for a < -math.Pi {
		a += twoPi
	}
	return a
}
