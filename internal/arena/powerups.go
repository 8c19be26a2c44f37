// Powerup handling is a supplemented feature: spec §3 marks powerups
// "optional ext.", so this is new behavior grounded in the teacher's and
// pack's idiom for timed world pickups rather than any one teacher file.
package arena

import (
	"math"

	"github.com/udisondev/arenacore/internal/entitystore"
)

const (
	powerupLifetimeMs = 20000
	powerupPickupRadius = 24

	powerupHealAmount      = 40
	powerupSpeedBonus      = 1.5
	powerupSpeedDurationMs = 8000
	powerupShieldDurationMs = 6000

	maxActivePowerups = 3
)

var powerupTypes = []entitystore.PowerupType{
	entitystore.PowerupHeal,
	entitystore.PowerupSpeed,
	entitystore.PowerupShield,
}

func (gi *GameInstance) tickPowerupSpawn(dtMs float64) {
	gi.sinceLastPowerup += dtMs
	if gi.sinceLastPowerup < gi.cfg.PowerupInterval {
		return
	}
	if len(gi.powerupSpawnPoints) == 0 {
		return
	}

	activeCount := 0
	for _, pu := range gi.powerups {
		if pu.Active {
			activeCount++
		}
	}
	if activeCount >= maxActivePowerups {
		return
	}
	gi.sinceLastPowerup = 0

	point := gi.powerupSpawnPoints[gi.rng.IntN(len(gi.powerupSpawnPoints))]
	t := powerupTypes[gi.rng.IntN(len(powerupTypes))]
	pu := &entitystore.Powerup{
		ID:        gi.nextPowerupID(),
		Type:      t,
		Position:  point,
		SpawnAt:   gi.now,
		ExpiresAt: gi.now + powerupLifetimeMs,
		Active:    true,
	}
	gi.powerups[pu.ID] = pu
	gi.events.PowerupEvents = append(gi.events.PowerupEvents, PowerupEvent{Powerup: pu})
}

func (gi *GameInstance) tickPowerupPickupAndExpiry() {
	for _, id := range sortedKeys(gi.powerups) {
		pu := gi.powerups[id]
		if !pu.Active {
			delete(gi.powerups, id)
			continue
		}
		if gi.now >= pu.ExpiresAt {
			pu.Active = false
			gi.events.PowerupEvents = append(gi.events.PowerupEvents, PowerupEvent{Powerup: pu})
			gi.events.DespawnEvents = append(gi.events.DespawnEvents, DespawnEvent{EntityID: pu.ID, Kind: "powerup"})
			delete(gi.powerups, id)
			continue
		}

		for _, pid := range sortedKeys(gi.players) {
			p := gi.players[pid]
			if p.IsDead {
				continue
			}
			if math.Hypot(p.Position.X-pu.Position.X, p.Position.Y-pu.Position.Y) > powerupPickupRadius {
				continue
			}
			gi.applyPowerup(p, pu)
			pu.Active = false
			gi.events.PowerupEvents = append(gi.events.PowerupEvents, PowerupEvent{Powerup: pu, Claimed: true, ByID: p.ID})
			gi.events.DespawnEvents = append(gi.events.DespawnEvents, DespawnEvent{EntityID: pu.ID, Kind: "powerup"})
			delete(gi.powerups, id)
			break
		}
	}
}

func (gi *GameInstance) applyPowerup(p *entitystore.Player, pu *entitystore.Powerup) {
	switch pu.Type {
	case entitystore.PowerupHeal:
		p.HP += powerupHealAmount
		p.ClampHP()
	case entitystore.PowerupSpeed:
		if p.PowerupSpeedTimer <= 0 {
			p.MoveSpeedBonus += powerupSpeedBonus
		}
		p.PowerupSpeedTimer = powerupSpeedDurationMs
	case entitystore.PowerupShield:
		p.PowerupShieldTimer = powerupShieldDurationMs
	}
}

// tickPowerupBuffs decrements timed powerup effects, removing the speed
// bonus it granted once the timer lapses.
func (gi *GameInstance) tickPowerupBuffs(dtMs float64) {
	for _, p := range gi.players {
		if p.PowerupSpeedTimer > 0 {
			p.PowerupSpeedTimer -= dtMs
			if p.PowerupSpeedTimer <= 0 {
				p.PowerupSpeedTimer = 0
				p.MoveSpeedBonus -= powerupSpeedBonus
			}
		}
		if p.PowerupShieldTimer > 0 {
			p.PowerupShieldTimer -= dtMs
			if p.PowerupShieldTimer < 0 {
				p.PowerupShieldTimer = 0
			}
		}
	}
}
