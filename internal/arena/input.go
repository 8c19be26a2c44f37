package arena

import (
	"github.com/udisondev/arenacore/internal/entitystore"
	"github.com/udisondev/arenacore/internal/movekernel"
)

// EnqueueInput queues a client input for the named player, to be applied on
// the next Tick. Returns false if the player is unknown.
func (gi *GameInstance) EnqueueInput(playerID string, in entitystore.InputRecord) bool {
	p, ok := gi.players[playerID]
	if !ok {
		return false
	}
	gi.inputs.Enqueue(p, in)
	return true
}

// RequestAbility attempts to start an attack for playerID, consulting the
// player's anti-cheat session before delegating to the ability manager.
func (gi *GameInstance) RequestAbility(playerID string, t entitystore.AttackType, aimAngle float64, hasAim bool) bool {
	p, ok := gi.players[playerID]
	if !ok {
		return false
	}
	session := gi.antiCheat[playerID]
	allowed := func() bool {
		if session == nil {
			return true
		}
		return session.ValidateAbility(gi.now)
	}
	return gi.abilities.Request(gi.now, p, t, aimAngle, hasAim, allowed)
}

// validateInput is the inputproc.ValidateFunc hook: it consults the
// player's anti-cheat session, pre-computing the proposed displacement the
// same way the movement kernel will scale it so the rate/delta caps bound
// the same units the kernel actually moves by.
func (gi *GameInstance) validateInput(playerID string, lastSeq uint64, in entitystore.InputRecord) bool {
	session, ok := gi.antiCheat[playerID]
	if !ok {
		return true
	}
	p := gi.players[playerID]
	if p == nil {
		return true
	}

	axisX, axisY := axesFromKeys(in.Keys)
	facing := in.Facing
	if !facing.Valid() {
		facing = p.Facing
	}
	baseSpeed := p.Class.BaseMoveSpeed()
	vx, vy := movekernel.ComputeVelocity(axisX, axisY, facing, baseSpeed, p.MoveSpeedBonus)
	dx := vx * in.DeltaTime * 60
	dy := vy * in.DeltaTime * 60
	maxSpeed := (baseSpeed + p.MoveSpeedBonus) * 60

	return session.ValidateInput(gi.now, in.Sequence, dx, dy, in.DeltaTime, maxSpeed)
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
