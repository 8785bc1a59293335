package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/scrollfall/server/internal/component"
	corevent "github.com/scrollfall/server/internal/core/event"
	coresys "github.com/scrollfall/server/internal/core/system"
	"github.com/scrollfall/server/internal/event"
	"github.com/scrollfall/server/internal/world"
)

// enemyContactCooldown throttles body-contact damage while boxes overlap.
const enemyContactCooldown = 500 // ms

// CollisionSystem sweeps bounding boxes and emits collision intents. It
// never writes state itself; the damage reactions registered with the
// effect scheduler run synchronously off these emits. Phase 2 (Collision).
type CollisionSystem struct {
	state *world.State
	bus   *corevent.Bus
	log   *zap.Logger
}

func NewCollisionSystem(st *world.State, bus *corevent.Bus, log *zap.Logger) *CollisionSystem {
	return &CollisionSystem{state: st, bus: bus, log: log}
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhaseCollision }

func (s *CollisionSystem) Update(dt time.Duration) {
	dtMs := float64(dt) / float64(time.Millisecond)
	player := s.state.PlayerSnapshot()
	enemyIDs := s.state.EnemyIDs()

	for _, id := range s.state.BulletIDs() {
		meta, ok := s.state.Meta(id)
		if !ok || meta.Marked {
			continue
		}
		tr, ok := s.state.Transform(id)
		if !ok {
			continue
		}
		if meta.Owner == component.OwnerPlayer {
			for _, eid := range enemyIDs {
				em, ok := s.state.Meta(eid)
				if !ok || em.Marked {
					continue
				}
				etr, ok := s.state.Transform(eid)
				if !ok || !overlaps(tr, etr) {
					continue
				}
				corevent.Emit(s.bus, event.BulletEnemyCollision{
					Bullet: id, Enemy: eid, Damage: meta.Damage,
				})
				break // a bullet spends itself on the first hit
			}
		} else if player != nil && overlapsPlayer(tr, player) {
			corevent.Emit(s.bus, event.BulletPlayerCollision{Bullet: id, Damage: meta.Damage})
		}
	}

	// Enemy bodies ramming the player, throttled per enemy.
	if player == nil {
		return
	}
	for _, eid := range enemyIDs {
		em, ok := s.state.Meta(eid)
		if !ok || em.Marked {
			continue
		}
		ai, ok := s.state.AI(eid)
		if !ok || ai.State == component.StateDying {
			continue
		}
		if ai.ContactTimer > 0 {
			ai.ContactTimer -= dtMs
		}
		etr, ok := s.state.Transform(eid)
		if !ok || !overlapsPlayer(etr, player) {
			continue
		}
		if ai.ContactTimer > 0 {
			continue
		}
		ai.ContactTimer = enemyContactCooldown
		corevent.Emit(s.bus, event.EnemyPlayerCollision{Enemy: eid, Damage: em.Damage})
	}
}

func overlaps(a, b *component.Transform) bool {
	return a.X < b.X+b.Width && a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height && a.Y+a.Height > b.Y
}

func overlapsPlayer(a *component.Transform, p *world.PlayerSnapshot) bool {
	return a.X < p.X+p.Width && a.X+a.Width > p.X &&
		a.Y < p.Y+p.Height && a.Y+a.Height > p.Y
}
