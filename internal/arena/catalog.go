package arena

import "github.com/udisondev/arenacore/internal/entitystore"

// DefaultMonsterTypes returns the monster archetypes this build spawns.
// Configuration data per spec §9, not fixed law — tuned so a lone
// bladedancer-tier player can reasonably solo a "grunt" but not a "brute".
func DefaultMonsterTypes() []*entitystore.MonsterTypeDef {
	return []*entitystore.MonsterTypeDef{
		{
			Type: "grunt", MaxHP: 40, MoveSpeed: 2.5,
			AttackRange: 60, AggroRange: 350, WindupMs: 400, RecoveryMs: 600,
			XPReward: 20, CollisionRadius: 16,
			AttackArchetype: "melee_rect", Damage: 8, RectWidth: 50, RectLength: 60,
		},
		{
			Type: "brute", MaxHP: 90, MoveSpeed: 1.8,
			AttackRange: 80, AggroRange: 400, WindupMs: 600, RecoveryMs: 900,
			XPReward: 45, CollisionRadius: 22,
			AttackArchetype: "melee_cone", Damage: 16, ConeRange: 90, ConeAngleDeg: 100,
			AllyGroup: "brute-pack",
		},
		{
			Type: "skirmisher", MaxHP: 25, MoveSpeed: 3.4,
			AttackRange: 50, AggroRange: 300, WindupMs: 250, RecoveryMs: 350,
			XPReward: 15, CollisionRadius: 14,
			AttackArchetype: "melee_rect", Damage: 6, RectWidth: 35, RectLength: 45,
		},
	}
}
