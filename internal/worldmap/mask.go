// Package worldmap holds the immutable-after-init tile grid and the
// collision mask derived from it. It answers the two queries every other
// simulation subsystem depends on: is a point walkable, and can an entity
// travel a straight line without crossing solid ground.
package worldmap

import "math"

// DefaultMargin is the default world-bounds clamp margin in pixels.
const DefaultMargin = 20.0

// CollisionMask is a read-only tile grid. Once built it is never mutated,
// so it may be shared freely across goroutines without locking.
type CollisionMask struct {
	width, height int     // tile grid dimensions
	tileSize      float64 // pixels per tile edge
	walkable      []bool  // row-major, len == width*height
	margin        float64 // world-bounds clamp margin in pixels
}

// NewCollisionMask builds a mask from a row-major walkable grid. walkable
// must have exactly width*height entries; tiles outside that range (or a
// nil/undersized slice) are treated as walkable so callers can build a
// mask incrementally with NewOpenCollisionMask and then paint solids.
func NewCollisionMask(width, height int, tileSize float64, walkable []bool) *CollisionMask {
	m := &CollisionMask{
		width:    width,
		height:   height,
		tileSize: tileSize,
		margin:   DefaultMargin,
		walkable: make([]bool, width*height),
	}
	for i := range m.walkable {
		m.walkable[i] = true
	}
	copy(m.walkable, walkable)
	return m
}

// NewOpenCollisionMask builds a mask where every tile is walkable.
func NewOpenCollisionMask(width, height int, tileSize float64) *CollisionMask {
	return NewCollisionMask(width, height, tileSize, nil)
}

// SetMargin overrides the world-bounds clamp margin (default 20px).
func (m *CollisionMask) SetMargin(px float64) { m.margin = px }

// Margin returns the configured world-bounds clamp margin.
func (m *CollisionMask) Margin() float64 { return m.margin }

// SetTileSolid paints a single tile as solid or walkable. Intended for
// world-init time only; the mask is treated as immutable once the tick
// loop starts consuming it.
func (m *CollisionMask) SetTileSolid(tx, ty int, solid bool) {
	if !m.tileInBounds(tx, ty) {
		return
	}
	m.walkable[ty*m.width+tx] = !solid
}

// Width returns the grid width in tiles.
func (m *CollisionMask) Width() int { return m.width }

// Height returns the grid height in tiles.
func (m *CollisionMask) Height() int { return m.height }

// TileSize returns the pixel edge length of one tile.
func (m *CollisionMask) TileSize() float64 { return m.tileSize }

// WorldWidth returns the total world width in pixels.
func (m *CollisionMask) WorldWidth() float64 { return float64(m.width) * m.tileSize }

// WorldHeight returns the total world height in pixels.
func (m *CollisionMask) WorldHeight() float64 { return float64(m.height) * m.tileSize }

func (m *CollisionMask) tileInBounds(tx, ty int) bool {
	return tx >= 0 && tx < m.width && ty >= 0 && ty < m.height
}

// pixelToTile converts a pixel coordinate to its containing tile index.
func (m *CollisionMask) pixelToTile(x, y float64) (tx, ty int) {
	return int(math.Floor(x / m.tileSize)), int(math.Floor(y / m.tileSize))
}

// IsWalkable reports whether the tile containing (x, y) is walkable.
// Points outside the world bounds are never walkable.
func (m *CollisionMask) IsWalkable(x, y float64) bool {
	if x < 0 || y < 0 || x >= m.WorldWidth() || y >= m.WorldHeight() {
		return false
	}
	tx, ty := m.pixelToTile(x, y)
	if !m.tileInBounds(tx, ty) {
		return false
	}
	return m.walkable[ty*m.width+tx]
}

// CanMove reports whether a straight segment from (x0,y0) to (x1,y1) stays
// on walkable tiles for its entire length. Collision is resolved against
// the tile under the destination pixel at each sample point; sampling
// granularity is radius-aware per spec: step <= min(tileSize/2, radius).
func (m *CollisionMask) CanMove(x0, y0, x1, y1, radius float64) bool {
	if !m.IsWalkable(x1, y1) {
		return false
	}
	dx := x1 - x0
	dy := y1 - y0
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return m.IsWalkable(x0, y0)
	}

	step := m.tileSize / 2
	if radius > 0 && radius < step {
		step = radius
	}
	if step <= 0 {
		step = m.tileSize / 2
	}

	steps := int(math.Ceil(dist / step))
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		sx := x0 + dx*t
		sy := y0 + dy*t
		if !m.IsWalkable(sx, sy) {
			return false
		}
	}
	return true
}

// ClampToBounds clamps a position to the configured margin inside the
// world's pixel bounds, per spec's movement-kernel step 6.
func (m *CollisionMask) ClampToBounds(x, y float64) (float64, float64) {
	minX, maxX := m.margin, m.WorldWidth()-m.margin
	minY, maxY := m.margin, m.WorldHeight()-m.margin
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}
	return clamp(x, minX, maxX), clamp(y, minY, maxY)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ResolveSlide pushes an entity out of a solid tile it has (illegally)
// ended up inside, choosing the smaller-overlap axis first and repeating
// until the position is walkable or the iteration budget is spent. Ties
// between the two axes' overlaps are broken in favor of the axis with the
// larger incoming velocity magnitude, per spec §4.1.
func (m *CollisionMask) ResolveSlide(x, y, vx, vy float64) (float64, float64) {
	const maxIterations = 4
	for i := 0; i < maxIterations; i++ {
		if m.IsWalkable(x, y) {
			return x, y
		}
		tx, ty := m.pixelToTile(x, y)
		tileMinX := float64(tx) * m.tileSize
		tileMinY := float64(ty) * m.tileSize
		tileMaxX := tileMinX + m.tileSize
		tileMaxY := tileMinY + m.tileSize

		overlapLeft := x - tileMinX
		overlapRight := tileMaxX - x
		overlapX := math.Min(overlapLeft, overlapRight)

		overlapTop := y - tileMinY
		overlapBottom := tileMaxY - y
		overlapY := math.Min(overlapTop, overlapBottom)

		pushX := overlapX < overlapY
		if overlapX == overlapY {
			pushX = math.Abs(vx) >= math.Abs(vy)
		}

		if pushX {
			if overlapLeft < overlapRight {
				x = tileMinX - 0.01
			} else {
				x = tileMaxX + 0.01
			}
		} else {
			if overlapTop < overlapBottom {
				y = tileMinY - 0.01
			} else {
				y = tileMaxY + 0.01
			}
		}
	}
	return x, y
}
