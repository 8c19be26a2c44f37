package worldmap

import "testing"

func TestIsWalkableBounds(t *testing.T) {
	m := NewOpenCollisionMask(10, 10, 64)

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"origin", 0, 0, true},
		{"center", 320, 320, true},
		{"negative x out of bounds", -1, 100, false},
		{"negative y out of bounds", 100, -1, false},
		{"past max x", 641, 100, false},
		{"past max y", 100, 641, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.IsWalkable(tt.x, tt.y); got != tt.want {
				t.Errorf("IsWalkable(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSetTileSolid(t *testing.T) {
	m := NewOpenCollisionMask(100, 100, 64)
	m.SetTileSolid(50, 50, true)

	if m.IsWalkable(3232, 3232) {
		t.Fatalf("expected tile (50,50) to be solid")
	}
	if !m.IsWalkable(3100, 3100) {
		t.Fatalf("expected neighboring tile to remain walkable")
	}
}

func TestCanMoveStraightLine(t *testing.T) {
	m := NewOpenCollisionMask(100, 100, 64)
	m.SetTileSolid(50, 50, true) // pixel AABB 3200..3264 x 3200..3264

	tests := []struct {
		name                   string
		x0, y0, x1, y1, radius float64
		want                   bool
	}{
		{"open straight line", 100, 100, 500, 100, 8, true},
		{"destination inside solid tile", 3100, 3100, 3230, 3230, 8, false},
		{"passes through solid tile", 3100, 3232, 3400, 3232, 8, false},
		{"goes around solid tile", 3100, 3100, 3400, 3100, 8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.CanMove(tt.x0, tt.y0, tt.x1, tt.y1, tt.radius); got != tt.want {
				t.Errorf("CanMove(%v,%v -> %v,%v) = %v, want %v", tt.x0, tt.y0, tt.x1, tt.y1, got, tt.want)
			}
		})
	}
}

func TestClampToBounds(t *testing.T) {
	m := NewOpenCollisionMask(10, 10, 64) // world 640x640
	x, y := m.ClampToBounds(-50, 700)
	if x != DefaultMargin {
		t.Errorf("expected x clamped to margin %v, got %v", DefaultMargin, x)
	}
	if y != 640-DefaultMargin {
		t.Errorf("expected y clamped to %v, got %v", 640-DefaultMargin, y)
	}
}

func TestResolveSlidePrefersSmallerOverlap(t *testing.T) {
	m := NewOpenCollisionMask(100, 100, 64)
	m.SetTileSolid(50, 50, true) // 3200..3264 x 3200..3264

	// Point just inside the left edge: overlapLeft is small, push back out left.
	x, y := m.ResolveSlide(3201, 3232, 10, 0)
	if x >= 3200 {
		t.Errorf("expected push out to the left, got x=%v", x)
	}
	if !m.IsWalkable(x, y) {
		t.Errorf("resolved position (%v,%v) still not walkable", x, y)
	}
}

func BenchmarkCanMove(b *testing.B) {
	m := NewOpenCollisionMask(1000, 1000, 64)
	for i := 0; i < b.N; i++ {
		m.CanMove(100, 100, 5000, 5000, 8)
	}
}
