package monsterai

import (
	"sort"

	"github.com/udisondev/arenacore/internal/entitystore"
	"github.com/udisondev/arenacore/internal/movekernel"
	"github.com/udisondev/arenacore/internal/worldmap"
)

// DyingGraceMs is how long a monster stays in the dying state, not a
// valid target, before being removed.
const DyingGraceMs = 1500

// Target is the subset of player state the AI needs to pick and chase a
// target. Injected per tick by the caller so this package never imports
// the arena or damage packages.
type Target struct {
	ID       string
	Position entitystore.Vec2
	IsDead   bool
}

// AttackFunc resolves a monster's attack against its current target.
// Injected by the arena package's wiring to avoid an import cycle.
type AttackFunc func(monster *entitystore.Monster, targetID string)

// Step advances one monster's AI state machine by one tick. now is the
// simulation's absolute monotonic millisecond clock.
func Step(m *entitystore.Monster, now int64, dtMs float64, mask *worldmap.CollisionMask, targets []Target, attack AttackFunc) {
	if m.HP <= 0 && m.State != entitystore.MonsterDying {
		m.State = entitystore.MonsterDying
		m.DyingSince = now
		m.Alive = true // still present during the grace period
		return
	}
	if m.State == entitystore.MonsterDying {
		if now-m.DyingSince >= DyingGraceMs {
			m.Alive = false
		}
		return
	}
	if m.AttackCooldown > 0 {
		m.AttackCooldown -= dtMs
		if m.AttackCooldown < 0 {
			m.AttackCooldown = 0
		}
	}

	switch m.State {
	case entitystore.MonsterIdle:
		stepIdle(m, targets)
	case entitystore.MonsterChase:
		stepChase(m, now, dtMs, mask, targets)
	case entitystore.MonsterWindup:
		stepWindup(m, now)
	case entitystore.MonsterActive:
		stepActive(m, now, attack)
	case entitystore.MonsterRecover:
		stepRecover(m, now, targets)
	default:
		m.State = entitystore.MonsterIdle
	}
}

func stepIdle(m *entitystore.Monster, targets []Target) {
	t := nearestLiveTarget(m.Position, targets, m.Def.AggroRange)
	if t == nil {
		return
	}
	m.TargetID = t.ID
	m.State = entitystore.MonsterChase
}

func stepChase(m *entitystore.Monster, now int64, dtMs float64, mask *worldmap.CollisionMask, targets []Target) {
	t := findTarget(m.TargetID, targets)
	if t == nil || t.IsDead || dist(m.Position, t.Position) > m.Def.AggroRange*1.5 {
		m.TargetID = ""
		m.State = entitystore.MonsterIdle
		return
	}

	d := dist(m.Position, t.Position)
	if d <= m.Def.AttackRange {
		if m.AttackCooldown <= 0 {
			m.State = entitystore.MonsterWindup
			m.StateDeadline = now + int64(m.Def.WindupMs)
		}
		return
	}

	dir := entitystore.Vec2{X: t.Position.X - m.Position.X, Y: t.Position.Y - m.Position.Y}
	facing := vectorToFacing(dir)
	m.Facing = facing
	vx, vy := movekernel.ComputeVelocity(signOf(dir.X), signOf(dir.Y), facing, m.Def.MoveSpeed, 0)
	m.Velocity = entitystore.Vec2{X: vx, Y: vy}
	m.Position = movekernel.Step(mask, m.Position, vx, vy, dtMs/1000, m.Def.CollisionRadius)
}

func stepWindup(m *entitystore.Monster, now int64) {
	if now >= m.StateDeadline {
		m.State = entitystore.MonsterActive
	}
}

func stepActive(m *entitystore.Monster, now int64, attack AttackFunc) {
	if attack != nil && m.TargetID != "" {
		attack(m, m.TargetID)
	}
	m.State = entitystore.MonsterRecover
	m.StateDeadline = now + int64(m.Def.RecoveryMs)
	m.AttackCooldown = m.Def.RecoveryMs
}

func stepRecover(m *entitystore.Monster, now int64, targets []Target) {
	if now < m.StateDeadline {
		return
	}
	t := findTarget(m.TargetID, targets)
	if t != nil && !t.IsDead {
		m.State = entitystore.MonsterChase
	} else {
		m.TargetID = ""
		m.State = entitystore.MonsterIdle
	}
}

// nearestLiveTarget finds the closest live target within radius, breaking
// ties by the lexicographically lowest player id.
func nearestLiveTarget(from entitystore.Vec2, targets []Target, radius float64) *Target {
	var best *Target
	bestDist := radius
	candidates := make([]Target, 0, len(targets))
	for _, t := range targets {
		if t.IsDead {
			continue
		}
		d := dist(from, t.Position)
		if d <= bestDist {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		di := dist(from, candidates[i].Position)
		dj := dist(from, candidates[j].Position)
		if di != dj {
			return di < dj
		}
		return candidates[i].ID < candidates[j].ID
	})
	best = &candidates[0]
	return best
}

func findTarget(id string, targets []Target) *Target {
	for i := range targets {
		if targets[i].ID == id {
			return &targets[i]
		}
	}
	return nil
}

// vectorToFacing picks the facing whose unit vector has the largest dot
// product with v. facingUnitVectors is iterated in a fixed order so an
// exact tie always resolves to the earlier entry instead of whichever one
// a map happened to visit first.
func vectorToFacing(v entitystore.Vec2) entitystore.Facing {
	best := entitystore.FacingDown
	bestDot := -2.0
	vn := normalize(v)
	for _, fv := range facingUnitVectors {
		dirN := normalize(fv.vec)
		dot := vn.X*dirN.X + vn.Y*dirN.Y
		if dot > bestDot {
			bestDot = dot
			best = fv.facing
		}
	}
	return best
}

type facingVector struct {
	facing entitystore.Facing
	vec    entitystore.Vec2
}

var facingUnitVectors = []facingVector{
	{entitystore.FacingUp, entitystore.Vec2{X: 0, Y: -1}},
	{entitystore.FacingUpRight, entitystore.Vec2{X: 1, Y: -1}},
	{entitystore.FacingRight, entitystore.Vec2{X: 1, Y: 0}},
	{entitystore.FacingDownRight, entitystore.Vec2{X: 1, Y: 1}},
	{entitystore.FacingDown, entitystore.Vec2{X: 0, Y: 1}},
	{entitystore.FacingDownLeft, entitystore.Vec2{X: -1, Y: 1}},
	{entitystore.FacingLeft, entitystore.Vec2{X: -1, Y: 0}},
	{entitystore.FacingUpLeft, entitystore.Vec2{X: -1, Y: -1}},
}

func normalize(v entitystore.Vec2) entitystore.Vec2 {
	l := dist(entitystore.Vec2{}, v)
	if l == 0 {
		return v
	}
	return entitystore.Vec2{X: v.X / l, Y: v.Y / l}
}

func signOf(v float64) int {
	switch {
	case v > 0.1:
		return 1
	case v < -0.1:
		return -1
	default:
		return 0
	}
}
