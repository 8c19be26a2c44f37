// Package projectiles steps server-authoritative projectile hitboxes and
// resolves collisions against the opposing entity set. A projectile
// carries its own remaining range and absolute expiry; the manager never
// consults the collision mask, so range and lifetime alone decide expiry.
package projectiles

import (
	"math"
	"sort"

	"github.com/udisondev/arenacore/internal/entitystore"
)

// RemovalReason explains why a projectile was removed this tick.
type RemovalReason string

const (
	RemovalExpired RemovalReason = "expired"
	RemovalHit     RemovalReason = "hit"
)

// HitCandidate is a live entity a projectile could strike.
type HitCandidate struct {
	ID       string
	Position entitystore.Vec2
	Radius   float64
}

// HitResult reports a resolved collision for one projectile.
type HitResult struct {
	ProjectileID string
	TargetID     string
	OwnerKind    entitystore.OwnerKind
	OwnerID      string
	Damage       int32
}

// Removal reports a projectile removed this tick and why.
type Removal struct {
	ProjectileID string
	Reason       RemovalReason
}

// StepAll advances every projectile by dt seconds, resolving at most one
// hit per projectile per tick. targetsFor is called with the kind of entity
// to return, the opposite of the projectile's owner kind (players for
// monster-owned projectiles, monsters for player-owned ones).
func StepAll(active []*entitystore.Projectile, now int64, dt float64, targetsFor func(entitystore.OwnerKind) []HitCandidate) ([]HitResult, []Removal) {
	var hits []HitResult
	var removals []Removal

	for _, p := range active {
		stepLen := p.Speed * dt
		p.Position.X += math.Cos(p.Angle) * stepLen
		p.Position.Y += math.Sin(p.Angle) * stepLen
		p.Range -= stepLen

		if p.Range <= 0 || now-p.CreatedAt >= p.MaxLifetimeMs {
			removals = append(removals, Removal{ProjectileID: p.ID, Reason: RemovalExpired})
			continue
		}

		candidates := targetsFor(oppositeOf(p.OwnerKind))
		target := nearestHit(p.Position, candidates)
		if target == nil {
			continue
		}

		hits = append(hits, HitResult{
			ProjectileID: p.ID,
			TargetID:     target.ID,
			OwnerKind:    p.OwnerKind,
			OwnerID:      p.OwnerID,
			Damage:       p.Damage,
		})
		removals = append(removals, Removal{ProjectileID: p.ID, Reason: RemovalHit})
	}

	return hits, removals
}

func oppositeOf(k entitystore.OwnerKind) entitystore.OwnerKind {
	if k == entitystore.OwnerPlayer {
		return entitystore.OwnerMonster
	}
	return entitystore.OwnerPlayer
}

// nearestHit picks the candidate whose surface (distance minus radius) is
// smallest, breaking ties by the lexicographically lower id. Candidates
// whose surface distance exceeds zero (projectile hasn't reached them) are
// excluded.
func nearestHit(pos entitystore.Vec2, candidates []HitCandidate) *HitCandidate {
	var inRange []HitCandidate
	for _, c := range candidates {
		surface := math.Hypot(pos.X-c.Position.X, pos.Y-c.Position.Y) - c.Radius
		if surface <= 0 {
			inRange = append(inRange, c)
		}
	}
	if len(inRange) == 0 {
		return nil
	}
	sort.Slice(inRange, func(i, j int) bool {
		si := math.Hypot(pos.X-inRange[i].Position.X, pos.Y-inRange[i].Position.Y) - inRange[i].Radius
		sj := math.Hypot(pos.X-inRange[j].Position.X, pos.Y-inRange[j].Position.Y) - inRange[j].Radius
		if si != sj {
			return si < sj
		}
		return inRange[i].ID < inRange[j].ID
	})
	return &inRange[0]
}
