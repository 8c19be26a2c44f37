// Package movekernel implements the shared movement kernel: translating a
// raw key/facing intent into a velocity, then advancing a position against
// a collision mask one tick at a time. An external client predictor must
// reproduce this arithmetic pixel-for-pixel, so every step here is
// deliberately simple and order-sensitive rather than "more correct".
package movekernel

import (
	"math"

	"github.com/udisondev/arenacore/internal/entitystore"
	"github.com/udisondev/arenacore/internal/worldmap"
)

// diagonalFactor is applied per-axis when both axes of movement are set.
// Not sqrt(2)/2 on purpose — the predictor contract fixes this constant.
const diagonalFactor = 0.85

// facingVectors maps each of the eight facings to a unit direction.
var facingVectors = map[entitystore.Facing]entitystore.Vec2{
	entitystore.FacingUp:        {X: 0, Y: -1},
	entitystore.FacingUpRight:   {X: 1, Y: -1},
	entitystore.FacingRight:     {X: 1, Y: 0},
	entitystore.FacingDownRight: {X: 1, Y: 1},
	entitystore.FacingDown:      {X: 0, Y: 1},
	entitystore.FacingDownLeft:  {X: -1, Y: 1},
	entitystore.FacingLeft:      {X: -1, Y: 0},
	entitystore.FacingUpLeft:    {X: -1, Y: -1},
}

func normalize(v entitystore.Vec2) entitystore.Vec2 {
	l := math.Hypot(v.X, v.Y)
	if l == 0 {
		return v
	}
	return entitystore.Vec2{X: v.X / l, Y: v.Y / l}
}

// angleBetweenDeg returns the unsigned angle in degrees between two
// direction vectors, 0 when either is the zero vector.
func angleBetweenDeg(a, b entitystore.Vec2) float64 {
	la := math.Hypot(a.X, a.Y)
	lb := math.Hypot(b.X, b.Y)
	if la == 0 || lb == 0 {
		return 0
	}
	cos := (a.X*b.X + a.Y*b.Y) / (la * lb)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// DirectionalModifier returns the speed multiplier for moving in direction
// moveDir while facing facingDir, per the forward/strafe/backpedal table.
func DirectionalModifier(facingDir, moveDir entitystore.Vec2) float64 {
	angle := angleBetweenDeg(facingDir, moveDir)
	switch {
	case angle <= 45:
		return 1.0
	case angle >= 135:
		return 0.5
	default:
		return 0.7
	}
}

// ComputeVelocity turns raw axis intents (-1, 0, or 1 on each axis) and a
// facing into a velocity in pixels per 1/60 s frame (Step scales it by
// dt*60), applying diagonal normalization,
// the level-based move speed bonus, and the directional speed modifier in
// that order.
func ComputeVelocity(axisX, axisY int, facing entitystore.Facing, baseSpeed, moveSpeedBonus float64) (vx, vy float64) {
	if axisX == 0 && axisY == 0 {
		return 0, 0
	}

	dx, dy := float64(axisX), float64(axisY)
	if axisX != 0 && axisY != 0 {
		dx *= diagonalFactor
		dy *= diagonalFactor
	}

	speed := baseSpeed + moveSpeedBonus

	facingVec, ok := facingVectors[facing]
	if !ok {
		facingVec = entitystore.Vec2{X: 1, Y: 0}
	}
	moveDir := normalize(entitystore.Vec2{X: dx, Y: dy})
	modifier := DirectionalModifier(facingVec, moveDir)

	return dx * speed * modifier, dy * speed * modifier
}

// Step advances position by (vx, vy) over dt seconds against mask,
// following the kernel's slide-then-clamp resolution order:
//  1. try the full diagonal move
//  2. fall back to an X-only move
//  3. fall back to a Y-only move
//  4. otherwise leave the position unchanged
//
// The result is clamped to world bounds and rounded to the nearest pixel,
// matching the worked examples an external predictor must reproduce.
func Step(mask *worldmap.CollisionMask, pos entitystore.Vec2, vx, vy, dt, radius float64) entitystore.Vec2 {
	if vx == 0 && vy == 0 {
		cx, cy := mask.ClampToBounds(pos.X, pos.Y)
		return entitystore.Vec2{X: round(cx), Y: round(cy)}
	}

	// tickRate-independent scaling: a pixels/tick baseline speed is meant
	// to apply once per 1/60s frame, so velocity is scaled by dt*60.
	dx := vx * dt * 60
	dy := vy * dt * 60

	targetX := pos.X + dx
	targetY := pos.Y + dy

	var finalX, finalY float64
	switch {
	case mask.CanMove(pos.X, pos.Y, targetX, targetY, radius):
		finalX, finalY = targetX, targetY
	case mask.CanMove(pos.X, pos.Y, targetX, pos.Y, radius):
		finalX, finalY = targetX, pos.Y
	case mask.CanMove(pos.X, pos.Y, pos.X, targetY, radius):
		finalX, finalY = pos.X, targetY
	default:
		finalX, finalY = pos.X, pos.Y
	}

	finalX, finalY = mask.ClampToBounds(finalX, finalY)
	return entitystore.Vec2{X: round(finalX), Y: round(finalY)}
}

func round(v float64) float64 {
	return math.Round(v)
}
