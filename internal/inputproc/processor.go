// Package inputproc drains each player's per-tick input queue, validates
// entries, and advances authoritative position through the movement
// kernel. It owns none of anti-cheat's policy: validation is injected as a
// function value so this package never imports anticheat directly.
package inputproc

import (
	"sort"

	"github.com/udisondev/arenacore/internal/entitystore"
	"github.com/udisondev/arenacore/internal/movekernel"
	"github.com/udisondev/arenacore/internal/worldmap"
)

// DefaultHighWaterMark is the queue depth at which a player's pending
// input backlog is halved and a rate violation is raised.
const DefaultHighWaterMark = 120

const (
	minDeltaTime = 1.0 / 240.0
	maxDeltaTime = 1.0 / 20.0
)

var allowedKeys = map[string]bool{"w": true, "a": true, "s": true, "d": true}

// ValidateFunc reports whether an input is acceptable given the player's
// previously applied sequence number. Implementations typically live in
// the anticheat package and also track per-session violation state.
type ValidateFunc func(playerID string, lastSeq uint64, in entitystore.InputRecord) bool

// Processor drains queued inputs for every player once per tick.
type Processor struct {
	Validate      ValidateFunc
	HighWaterMark int
}

// NewProcessor builds a Processor with the default high-water mark. A nil
// validate accepts every syntactically well-formed input.
func NewProcessor(validate ValidateFunc) *Processor {
	return &Processor{
		Validate:      validate,
		HighWaterMark: DefaultHighWaterMark,
	}
}

// Enqueue appends an input to a player's pending queue, applying
// backpressure if the queue has grown past the high-water mark. Returns
// true if backpressure was applied (a rate violation to flag upstream).
func (p *Processor) Enqueue(player *entitystore.Player, in entitystore.InputRecord) bool {
	player.PendingInputs = append(player.PendingInputs, in)

	mark := p.HighWaterMark
	if mark <= 0 {
		mark = DefaultHighWaterMark
	}
	if len(player.PendingInputs) <= mark {
		return false
	}

	keep := len(player.PendingInputs) / 2
	player.PendingInputs = append([]entitystore.InputRecord(nil), player.PendingInputs[len(player.PendingInputs)-keep:]...)
	return true
}

// DrainResult summarizes one tick's worth of input application for a
// player.
type DrainResult struct {
	Applied       int
	AnyViolation  bool
}

// Drain applies every currently queued input for player, in sequence
// order, against mask, then clears the queue. Inputs failing validation
// are dropped and flagged but do not halt the drain of later inputs.
func (p *Processor) Drain(player *entitystore.Player, mask *worldmap.CollisionMask, radius float64) DrainResult {
	result := DrainResult{}
	if len(player.PendingInputs) == 0 {
		return result
	}

	sort.SliceStable(player.PendingInputs, func(i, j int) bool {
		return player.PendingInputs[i].Sequence < player.PendingInputs[j].Sequence
	})
	for _, in := range player.PendingInputs {
		if !keysAllowed(in.Keys) || in.DeltaTime < minDeltaTime || in.DeltaTime > maxDeltaTime {
			result.AnyViolation = true
			continue
		}
		if p.Validate != nil && !p.Validate(player.ID, player.LastProcessedSeq, in) {
			result.AnyViolation = true
			continue
		}
		if in.Sequence <= player.LastProcessedSeq && player.LastProcessedSeq != 0 {
			// duplicate or stale, silently dropped per spec — not a violation.
			continue
		}
		if !in.Facing.Valid() {
			in.Facing = player.Facing
		}

		axisX, axisY := axesFromKeys(in.Keys)
		vx, vy := movekernel.ComputeVelocity(axisX, axisY, in.Facing, player.Class.BaseMoveSpeed(), player.MoveSpeedBonus)
		player.Velocity = entitystore.Vec2{X: vx, Y: vy}
		player.Position = movekernel.Step(mask, player.Position, vx, vy, in.DeltaTime, radius)
		player.Facing = in.Facing
		player.LastProcessedSeq = in.Sequence
		result.Applied++
	}

	player.PendingInputs = player.PendingInputs[:0]
	return result
}

func keysAllowed(keys []string) bool {
	for _, k := range keys {
		if !allowedKeys[k] {
			return false
		}
	}
	return true
}

func axesFromKeys(keys []string) (axisX, axisY int) {
	for _, k := range keys {
		switch k {
		case "d":
			axisX = 1
		case "a":
			axisX = -1
		case "s":
			axisY = 1
		case "w":
			axisY = -1
		}
	}
	return axisX, axisY
}
