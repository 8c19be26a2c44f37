// Package ability owns the per-class attack table and the windup/active/
// recovery phase timing for a player's current attack. Hit resolution and
// projectile spawning are injected as callbacks so this package stays
// decoupled from damage and projectiles.
package ability

import "github.com/udisondev/arenacore/internal/entitystore"

// Archetype names one of the fixed attack execution shapes.
type Archetype string

const (
	MeleeRect  Archetype = "melee_rect"
	MeleeCone  Archetype = "melee_cone"
	Projectile Archetype = "projectile"
	Jump       Archetype = "jump"
	Dash       Archetype = "dash"
	Roll       Archetype = "roll"
)

// Def is one attack table entry. Archetype-specific fields that do not
// apply to a given archetype are simply left zero.
type Def struct {
	Archetype Archetype

	WindupMs   float64
	ActiveMs   float64
	RecoveryMs float64
	CooldownMs float64
	Damage     int32

	RectWidth  float64
	RectLength float64

	ConeRange    float64
	ConeAngleDeg float64

	ProjectileSpeed  float64
	ProjectileRange  float64
	ProjectileOffset float64
	EffectTag        string
	MaxLifetimeMs    int64

	Distance float64 // jump/dash travel distance

	Invulnerable bool // true for roll, and for jump/dash archetypes that grant i-frames
}

// ClassTable maps attack slot to its definition for one class.
type ClassTable map[entitystore.AttackType]*Def

// Tables maps class to its attack table.
type Tables map[entitystore.CharacterClass]ClassTable

// DefaultTables returns the attack tables this build ships with. Numeric
// values are configuration data, not fixed law — tuned defaults, not a
// contract any client depends on beyond archetype shape.
func DefaultTables() Tables {
	return Tables{
		entitystore.ClassBladedancer: ClassTable{
			entitystore.AttackPrimary: {
				Archetype: MeleeRect, WindupMs: 150, ActiveMs: 100, RecoveryMs: 200,
				CooldownMs: 400, Damage: 18, RectWidth: 50, RectLength: 70,
			},
			entitystore.AttackSecondary: {
				Archetype: Dash, WindupMs: 80, ActiveMs: 150, RecoveryMs: 250,
				CooldownMs: 3000, Damage: 0, Distance: 180, Invulnerable: true,
			},
			entitystore.AttackRoll: {
				Archetype: Roll, WindupMs: 0, ActiveMs: 300, RecoveryMs: 150,
				CooldownMs: 2000, Distance: 150, Invulnerable: true,
			},
		},
		entitystore.ClassGuardian: ClassTable{
			entitystore.AttackPrimary: {
				Archetype: MeleeCone, WindupMs: 250, ActiveMs: 150, RecoveryMs: 350,
				CooldownMs: 600, Damage: 24, ConeRange: 90, ConeAngleDeg: 80,
			},
			entitystore.AttackSecondary: {
				Archetype: Jump, WindupMs: 200, ActiveMs: 250, RecoveryMs: 400,
				CooldownMs: 5000, Damage: 30, Distance: 220, Invulnerable: true,
			},
			entitystore.AttackRoll: {
				Archetype: Roll, WindupMs: 0, ActiveMs: 250, RecoveryMs: 200,
				CooldownMs: 2500, Distance: 110, Invulnerable: true,
			},
		},
		entitystore.ClassHunter: ClassTable{
			entitystore.AttackPrimary: {
				Archetype: Projectile, WindupMs: 200, ActiveMs: 50, RecoveryMs: 250,
				CooldownMs: 500, Damage: 14, ProjectileSpeed: 600, ProjectileRange: 900,
				ProjectileOffset: 30, EffectTag: "arrow", MaxLifetimeMs: 2000,
			},
			entitystore.AttackSecondary: {
				Archetype: MeleeRect, WindupMs: 150, ActiveMs: 100, RecoveryMs: 200,
				CooldownMs: 1200, Damage: 10, RectWidth: 40, RectLength: 50,
			},
			entitystore.AttackRoll: {
				Archetype: Roll, WindupMs: 0, ActiveMs: 300, RecoveryMs: 150,
				CooldownMs: 1800, Distance: 160, Invulnerable: true,
			},
		},
		entitystore.ClassRogue: ClassTable{
			entitystore.AttackPrimary: {
				Archetype: MeleeRect, WindupMs: 100, ActiveMs: 80, RecoveryMs: 150,
				CooldownMs: 300, Damage: 14, RectWidth: 40, RectLength: 55,
			},
			entitystore.AttackSecondary: {
				Archetype: Dash, WindupMs: 50, ActiveMs: 120, RecoveryMs: 180,
				CooldownMs: 2500, Distance: 200, Invulnerable: true,
			},
			entitystore.AttackRoll: {
				Archetype: Roll, WindupMs: 0, ActiveMs: 280, RecoveryMs: 120,
				CooldownMs: 1500, Distance: 170, Invulnerable: true,
			},
		},
	}
}
