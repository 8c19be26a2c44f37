package ability

import (
	"math"

	"github.com/udisondev/arenacore/internal/entitystore"
)

var facingAngles = map[entitystore.Facing]float64{
	entitystore.FacingUp:        -90,
	entitystore.FacingUpRight:   -45,
	entitystore.FacingRight:     0,
	entitystore.FacingDownRight: 45,
	entitystore.FacingDown:      90,
	entitystore.FacingDownLeft:  135,
	entitystore.FacingLeft:      180,
	entitystore.FacingUpLeft:    -135,
}

// FacingVector returns the unit direction vector for a facing.
func FacingVector(f entitystore.Facing) entitystore.Vec2 {
	deg, ok := facingAngles[f]
	if !ok {
		deg = 0
	}
	rad := deg * math.Pi / 180
	return entitystore.Vec2{X: math.Cos(rad), Y: math.Sin(rad)}
}

// InRect reports whether target (with its own radius) is inside a
// rectangle anchored at origin, extending length forward along facing and
// width/2 laterally on each side. The target radius is added inclusively
// to both the forward and lateral bounds.
func InRect(origin entitystore.Vec2, facing entitystore.Facing, length, width float64, target entitystore.Vec2, targetRadius float64) bool {
	dir := FacingVector(facing)
	lateral := entitystore.Vec2{X: -dir.Y, Y: dir.X}

	dx := target.X - origin.X
	dy := target.Y - origin.Y

	forwardDist := dx*dir.X + dy*dir.Y
	lateralDist := dx*lateral.X + dy*lateral.Y

	if forwardDist < -targetRadius || forwardDist > length+targetRadius {
		return false
	}
	half := width/2 + targetRadius
	return lateralDist >= -half && lateralDist <= half
}

// InCone reports whether target (with its own radius) lies inside a
// circular sector of the given range and angle (degrees), centered on
// facing. The target radius is added inclusively to the range bound.
func InCone(origin entitystore.Vec2, facing entitystore.Facing, rangeDist, angleDeg float64, target entitystore.Vec2, targetRadius float64) bool {
	dx := target.X - origin.X
	dy := target.Y - origin.Y
	dist := math.Hypot(dx, dy)
	if dist > rangeDist+targetRadius {
		return false
	}
	if dist == 0 {
		return true
	}

	dir := FacingVector(facing)
	cos := (dx*dir.X + dy*dir.Y) / dist
	cos = math.Max(-1, math.Min(1, cos))
	angleBetween := math.Acos(cos) * 180 / math.Pi

	// widen the tolerance slightly for a nonzero target radius, mirroring
	// the inclusive-radius rule used for the rectangle shape.
	tolerance := 0.0
	if dist > 0 && targetRadius > 0 {
		tolerance = math.Atan(targetRadius/dist) * 180 / math.Pi
	}
	return angleBetween <= angleDeg/2+tolerance
}
