// Package entitystore is the authoritative source of entity state: the
// mapping from entity id to player, monster, projectile, and powerup
// records. Only the simulation thread mutates it; reads by the network
// optimizer happen on the same thread between tick phases.
package entitystore

// Vec2 is a pixel-space 2D point or vector.
type Vec2 struct {
	X, Y float64
}

// Facing is one of the eight cardinal directions a character can face.
type Facing string

const (
	FacingUp        Facing = "up"
	FacingUpRight   Facing = "up-right"
	FacingRight     Facing = "right"
	FacingDownRight Facing = "down-right"
	FacingDown      Facing = "down"
	FacingDownLeft  Facing = "down-left"
	FacingLeft      Facing = "left"
	FacingUpLeft    Facing = "up-left"
)

// Valid reports whether f is one of the eight known facings.
func (f Facing) Valid() bool {
	switch f {
	case FacingUp, FacingUpRight, FacingRight, FacingDownRight,
		FacingDown, FacingDownLeft, FacingLeft, FacingUpLeft:
		return true
	}
	return false
}

// CharacterClass identifies a player's archetype.
type CharacterClass string

const (
	ClassBladedancer CharacterClass = "bladedancer"
	ClassGuardian    CharacterClass = "guardian"
	ClassHunter      CharacterClass = "hunter"
	ClassRogue       CharacterClass = "rogue"
)

// BaseMoveSpeed returns the baseline pixels/frame move speed for a class.
// Configuration data in the spec's sense (§9): defaults, not fixed law.
func (c CharacterClass) BaseMoveSpeed() float64 {
	switch c {
	case ClassBladedancer:
		return 5.0
	case ClassGuardian:
		return 4.0
	case ClassHunter:
		return 4.5
	case ClassRogue:
		return 5.5
	default:
		return 5.0
	}
}

// AttackType names an ability slot a player can currently be executing.
type AttackType string

const (
	AttackNone      AttackType = ""
	AttackPrimary   AttackType = "primary"
	AttackSecondary AttackType = "secondary"
	AttackRoll      AttackType = "roll"
)

// InputRecord is one sequenced client input, per spec §6.
type InputRecord struct {
	Sequence    uint64
	Timestamp   int64 // client-reported ms, informational only
	Keys        []string
	Facing      Facing
	DeltaTime   float64
}

// Cooldowns tracks remaining cooldown (ms) per attack slot.
type Cooldowns struct {
	Primary   float64
	Secondary float64
	Roll      float64
}

// Remaining returns the ms remaining for the given attack type.
func (c Cooldowns) Remaining(t AttackType) float64 {
	switch t {
	case AttackPrimary:
		return c.Primary
	case AttackSecondary:
		return c.Secondary
	case AttackRoll:
		return c.Roll
	default:
		return 0
	}
}

// Set assigns the remaining ms for the given attack type.
func (c *Cooldowns) Set(t AttackType, ms float64) {
	switch t {
	case AttackPrimary:
		c.Primary = ms
	case AttackSecondary:
		c.Secondary = ms
	case AttackRoll:
		c.Roll = ms
	}
}

// Tick decrements all cooldowns by dtMs, floored at zero.
func (c *Cooldowns) Tick(dtMs float64) {
	c.Primary = decay(c.Primary, dtMs)
	c.Secondary = decay(c.Secondary, dtMs)
	c.Roll = decay(c.Roll, dtMs)
}

func decay(v, dtMs float64) float64 {
	v -= dtMs
	if v < 0 {
		return 0
	}
	return v
}

// Player is the authoritative record for a connected player's avatar.
type Player struct {
	ID       string
	Position Vec2
	Velocity Vec2
	Facing   Facing

	Class CharacterClass
	HP    int32
	MaxHP int32
	Level int32
	Experience int64

	MoveSpeed           float64
	MoveSpeedBonus      float64
	AttackRecoveryBonus float64
	AttackCooldownBonus float64
	RollUnlocked        bool

	IsAttacking      bool
	CurrentAttack    AttackType
	Cooldowns        Cooldowns

	IsDead              bool
	IsInvulnerable      bool
	SpawnProtectionTimer float64 // ms remaining
	DeathTimer           float64 // ms accumulated since death; triggers respawn at the configured delay

	PowerupSpeedTimer  float64 // ms remaining; contributes to MoveSpeedBonus while active
	PowerupShieldTimer float64 // ms remaining; checked by the damage pipeline independently of IsInvulnerable

	LastProcessedSeq uint64
	PendingInputs    []InputRecord

	KillCount int32

	SpawnPoint Vec2
}

// ClampHP enforces 0 <= HP <= MaxHP and keeps IsDead consistent, per the
// spec's player invariant.
func (p *Player) ClampHP() {
	if p.HP < 0 {
		p.HP = 0
	}
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
	p.IsDead = p.HP == 0
}

// MonsterState is the monster AI state machine's current phase.
type MonsterState string

const (
	MonsterIdle   MonsterState = "idle"
	MonsterChase  MonsterState = "chase"
	MonsterWindup MonsterState = "windup"
	MonsterActive MonsterState = "active"
	MonsterRecover MonsterState = "recover"
	MonsterDying  MonsterState = "dying"
)

// MonsterTypeDef holds the per-type stat table for a monster archetype.
// This is configuration data (spec §9), not fixed constants.
type MonsterTypeDef struct {
	Type            string
	MaxHP           int32
	MoveSpeed       float64
	AttackRange     float64
	AggroRange      float64
	WindupMs        float64
	RecoveryMs      float64
	XPReward        int64
	CollisionRadius float64
	AttackArchetype string // "melee_rect" or "melee_cone", matching ability.Archetype
	Damage          int32

	RectWidth  float64
	RectLength float64

	ConeRange    float64
	ConeAngleDeg float64

	AllyGroup string // monsters sharing a non-empty group assist each other
}

// Monster is the authoritative record for a spawned monster.
type Monster struct {
	ID       string
	Type     string
	Def      *MonsterTypeDef
	Position Vec2
	Velocity Vec2
	Facing   Facing

	HP    int32
	Alive bool

	State          MonsterState
	StateDeadline  int64 // ms, absolute sim time
	TargetID       string
	AttackCooldown float64 // ms remaining

	SpawnPoint Vec2
	SpawnID    string

	DyingSince int64 // ms, absolute sim time the dying state began
}

// OwnerKind identifies who launched a projectile.
type OwnerKind string

const (
	OwnerPlayer  OwnerKind = "player"
	OwnerMonster OwnerKind = "monster"
)

// Projectile is a server-authoritative moving hitbox.
type Projectile struct {
	ID        string
	OwnerID   string
	OwnerKind OwnerKind
	Position  Vec2
	Velocity  Vec2
	Speed     float64
	Angle     float64 // radians
	Damage    int32
	Range     float64 // pixels remaining before expiry
	EffectTag string
	CreatedAt int64 // ms, absolute sim time
	MaxLifetimeMs int64
}

// PowerupType names a pickup archetype.
type PowerupType string

const (
	PowerupHeal  PowerupType = "heal"
	PowerupSpeed PowerupType = "speed"
	PowerupShield PowerupType = "shield"
)

// Powerup is an optional world pickup (spec §3, implemented per SPEC_FULL §5).
type Powerup struct {
	ID        string
	Type      PowerupType
	Position  Vec2
	SpawnAt   int64
	ExpiresAt int64
	Active    bool
}
