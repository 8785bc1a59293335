// Package event defines the typed simulation events dispatched through the
// core bus. Intent events (EnemyDamaged) are distinct from effect events
// (EnemyHealthChanged): intents are emitted by collision and AI code,
// effects by the scheduler reactions that applied them.
package event

import "github.com/scrollfall/server/internal/core/ecs"

// EnemySpawned fires after an enemy's components are fully seeded.
type EnemySpawned struct {
	ID   ecs.EntityID
	Type string
	X, Y float64
}

// BulletSpawned fires after a bullet's components are fully seeded.
type BulletSpawned struct {
	ID    ecs.EntityID
	Type  string
	Owner string
}

// EnemyShot fires when an enemy's fire control releases a shot.
type EnemyShot struct {
	ID      ecs.EntityID
	Bullets []ecs.EntityID
}

// EnemyDamaged is the damage intent for an enemy. Amount is pre-clamp.
type EnemyDamaged struct {
	ID     ecs.EntityID
	Amount float64
	Source ecs.EntityID
}

// EnemyHealthChanged is the applied effect of EnemyDamaged.
type EnemyHealthChanged struct {
	ID        ecs.EntityID
	HP, MaxHP float64
}

// EnemyDied fires once, the tick an enemy's health reaches zero.
type EnemyDied struct {
	ID   ecs.EntityID
	Type string
	X, Y float64
}

// PlayerDamaged is the damage intent for the player.
type PlayerDamaged struct {
	Amount float64
	Source ecs.EntityID
}

// PlayerHealthChanged is the applied effect of PlayerDamaged.
type PlayerHealthChanged struct {
	HP, MaxHP float64
}

// PlayerDied fires once when player health reaches zero.
type PlayerDied struct{}

// BulletEnemyCollision reports a player bullet overlapping an enemy.
type BulletEnemyCollision struct {
	Bullet ecs.EntityID
	Enemy  ecs.EntityID
	Damage float64
}

// BulletPlayerCollision reports an enemy bullet overlapping the player.
type BulletPlayerCollision struct {
	Bullet ecs.EntityID
	Damage float64
}

// EnemyPlayerCollision reports an enemy body overlapping the player.
type EnemyPlayerCollision struct {
	Enemy  ecs.EntityID
	Damage float64
}

// BulletExpired fires when a bullet is marked for deletion by TTL or
// out-of-bounds, not by impact.
type BulletExpired struct {
	ID     ecs.EntityID
	Reason string // "ttl" or "bounds"
}

// TargetAcquired is the external trigger that moves a SEARCHING enemy to
// ATTACKING.
type TargetAcquired struct {
	ID ecs.EntityID
}

// BossPhaseChanged fires on the one-shot phase transition.
type BossPhaseChanged struct {
	ID    ecs.EntityID
	Phase int
}

// WaveStarted fires when the wave director dispatches a new wave.
type WaveStarted struct {
	Number  int
	Enemies int
}
