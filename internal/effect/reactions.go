package effect

import (
	"go.uber.org/zap"

	"github.com/scrollfall/server/internal/component"
	"github.com/scrollfall/server/internal/core/ecs"
	corevent "github.com/scrollfall/server/internal/core/event"
	"github.com/scrollfall/server/internal/event"
	"github.com/scrollfall/server/internal/world"
)

// contactDamage is applied to an enemy body that rams the player.
const contactDamage = 20

// RegisterReactions wires the damage pipeline: collision intents become
// health effects, and zero health becomes the DYING transition plus the
// death notification. Each reaction re-checks entity existence; collisions
// reported for entities removed earlier in the tick are silent no-ops.
func RegisterReactions(s *Scheduler, st *world.State, bus *corevent.Bus, log *zap.Logger) {
	React(s, func(ev event.BulletEnemyCollision) {
		if !st.Exists(ev.Bullet) || !st.Exists(ev.Enemy) {
			return
		}
		st.MarkForDeletion(ev.Bullet)
		corevent.Emit(bus, event.EnemyDamaged{ID: ev.Enemy, Amount: ev.Damage, Source: ev.Bullet})
	})

	React(s, func(ev event.BulletPlayerCollision) {
		if !st.Exists(ev.Bullet) {
			return
		}
		st.MarkForDeletion(ev.Bullet)
		corevent.Emit(bus, event.PlayerDamaged{Amount: ev.Damage, Source: ev.Bullet})
	})

	React(s, func(ev event.EnemyPlayerCollision) {
		if !st.Exists(ev.Enemy) {
			return
		}
		corevent.Emit(bus, event.PlayerDamaged{Amount: ev.Damage, Source: ev.Enemy})
		corevent.Emit(bus, event.EnemyDamaged{ID: ev.Enemy, Amount: contactDamage})
	})

	React(s, func(ev event.EnemyDamaged) {
		ai, ok := st.AI(ev.ID)
		if !ok || ai.State == component.StateDying {
			return // already on the way out, no double death
		}
		hp, ok := st.ApplyEnemyDamage(ev.ID, ev.Amount)
		if !ok {
			return
		}
		h, _ := st.Health(ev.ID)
		corevent.Emit(bus, event.EnemyHealthChanged{ID: ev.ID, HP: hp, MaxHP: h.MaxHP})
		if hp <= 0 {
			killEnemy(st, bus, ev.ID, log)
		}
	})

	React(s, func(ev event.PlayerDamaged) {
		hp, ok := st.ApplyPlayerDamage(ev.Amount)
		if !ok {
			return
		}
		snap := st.PlayerSnapshot()
		corevent.Emit(bus, event.PlayerHealthChanged{HP: hp, MaxHP: snap.MaxHP})
		if hp <= 0 {
			corevent.Emit(bus, event.PlayerDied{})
		}
	})

	React(s, func(ev event.TargetAcquired) {
		ai, ok := st.AI(ev.ID)
		if !ok || ai.State != component.StateSearching {
			return
		}
		st.SetAIState(ev.ID, component.StateAttacking)
	})
}

// killEnemy performs the terminal transition: DYING, marked for deletion,
// then the death notification so score/audio hooks observe a fully-settled
// entity.
func killEnemy(st *world.State, bus *corevent.Bus, id ecs.EntityID, log *zap.Logger) {
	m, ok := st.Meta(id)
	if !ok {
		return
	}
	// SPAWNING has no DYING edge. Health is already at zero; the AI
	// system walks the enemy through SPAWNING->MOVING and its health gate
	// finishes the job one tick later.
	if ai, ok := st.AI(id); !ok || ai.State == component.StateSpawning {
		return
	}
	tr, _ := st.Transform(id)
	st.SetAIState(id, component.StateDying)
	st.MarkForDeletion(id)
	log.Debug("enemy died", zap.Stringer("id", id), zap.String("type", m.Type))
	died := event.EnemyDied{ID: id, Type: m.Type}
	if tr != nil {
		died.X, died.Y = tr.X, tr.Y
	}
	corevent.Emit(bus, died)
}
