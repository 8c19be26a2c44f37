package inputproc

import (
	"testing"

	"github.com/udisondev/arenacore/internal/entitystore"
	"github.com/udisondev/arenacore/internal/worldmap"
)

func newTestPlayer() *entitystore.Player {
	return &entitystore.Player{
		ID:       "p1",
		Position: entitystore.Vec2{X: 3200, Y: 3200},
		Facing:   entitystore.FacingRight,
		Class:    entitystore.ClassBladedancer,
		HP:       100,
		MaxHP:    100,
	}
}

func TestDrainAppliesInSequenceOrder(t *testing.T) {
	mask := worldmap.NewOpenCollisionMask(100, 100, 64)
	p := newTestPlayer()
	proc := NewProcessor(nil)

	for seq := uint64(1); seq <= 20; seq++ {
		proc.Enqueue(p, entitystore.InputRecord{
			Sequence: seq, Keys: []string{"d"}, Facing: entitystore.FacingRight, DeltaTime: 0.05,
		})
	}

	result := proc.Drain(p, mask, 8)
	if result.Applied != 20 {
		t.Fatalf("expected 20 applied inputs, got %d", result.Applied)
	}
	if p.LastProcessedSeq != 20 {
		t.Fatalf("expected lastProcessedSeq=20, got %d", p.LastProcessedSeq)
	}
	if p.Position.X != 3500 || p.Position.Y != 3200 {
		t.Fatalf("expected position (3500,3200), got (%v,%v)", p.Position.X, p.Position.Y)
	}
	if len(p.PendingInputs) != 0 {
		t.Fatalf("expected queue drained, got %d remaining", len(p.PendingInputs))
	}
}

func TestDrainDropsDuplicateSequence(t *testing.T) {
	mask := worldmap.NewOpenCollisionMask(100, 100, 64)
	p := newTestPlayer()
	proc := NewProcessor(nil)

	proc.Enqueue(p, entitystore.InputRecord{Sequence: 5, Keys: []string{"d"}, Facing: entitystore.FacingRight, DeltaTime: 0.05})
	proc.Drain(p, mask, 8)

	proc.Enqueue(p, entitystore.InputRecord{Sequence: 5, Keys: []string{"d"}, Facing: entitystore.FacingRight, DeltaTime: 0.05})
	result := proc.Drain(p, mask, 8)

	if result.Applied != 0 {
		t.Fatalf("expected duplicate sequence to be dropped, applied=%d", result.Applied)
	}
}

func TestDrainRejectsOutOfRangeDeltaTime(t *testing.T) {
	mask := worldmap.NewOpenCollisionMask(100, 100, 64)
	p := newTestPlayer()
	proc := NewProcessor(nil)

	proc.Enqueue(p, entitystore.InputRecord{Sequence: 1, Keys: []string{"d"}, Facing: entitystore.FacingRight, DeltaTime: 1.0})
	result := proc.Drain(p, mask, 8)

	if result.Applied != 0 || !result.AnyViolation {
		t.Fatalf("expected violation for out-of-range deltaTime, got %+v", result)
	}
}

func TestDrainRejectsDisallowedKey(t *testing.T) {
	mask := worldmap.NewOpenCollisionMask(100, 100, 64)
	p := newTestPlayer()
	proc := NewProcessor(nil)

	proc.Enqueue(p, entitystore.InputRecord{Sequence: 1, Keys: []string{"q"}, Facing: entitystore.FacingRight, DeltaTime: 0.05})
	result := proc.Drain(p, mask, 8)

	if result.Applied != 0 || !result.AnyViolation {
		t.Fatalf("expected violation for disallowed key, got %+v", result)
	}
}

func TestEnqueueBackpressureHalvesQueue(t *testing.T) {
	p := newTestPlayer()
	proc := NewProcessor(nil)
	proc.HighWaterMark = 10

	var violated bool
	for seq := uint64(1); seq <= 15; seq++ {
		if proc.Enqueue(p, entitystore.InputRecord{Sequence: seq, Keys: []string{"d"}, Facing: entitystore.FacingRight, DeltaTime: 0.05}) {
			violated = true
		}
	}

	if !violated {
		t.Fatal("expected backpressure to trigger")
	}
	if len(p.PendingInputs) > 10 {
		t.Fatalf("expected queue halved under high-water mark, got %d", len(p.PendingInputs))
	}
	// oldest entries should have been discarded, newest retained.
	if p.PendingInputs[len(p.PendingInputs)-1].Sequence != 15 {
		t.Fatalf("expected newest input retained, got seq=%d", p.PendingInputs[len(p.PendingInputs)-1].Sequence)
	}
}

func TestValidateFuncCanRejectInput(t *testing.T) {
	mask := worldmap.NewOpenCollisionMask(100, 100, 64)
	p := newTestPlayer()
	proc := NewProcessor(func(playerID string, lastSeq uint64, in entitystore.InputRecord) bool {
		return false
	})

	proc.Enqueue(p, entitystore.InputRecord{Sequence: 1, Keys: []string{"d"}, Facing: entitystore.FacingRight, DeltaTime: 0.05})
	result := proc.Drain(p, mask, 8)

	if result.Applied != 0 || !result.AnyViolation {
		t.Fatalf("expected injected validator to reject input, got %+v", result)
	}
}
