package system

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/scrollfall/server/internal/component"
	corevent "github.com/scrollfall/server/internal/core/event"
	"github.com/scrollfall/server/internal/event"
	"github.com/scrollfall/server/internal/world"
)

func newCollision(st *world.State, bus *corevent.Bus) *CollisionSystem {
	return NewCollisionSystem(st, bus, zap.NewNop())
}

func TestPlayerBulletHitsEnemyOnce(t *testing.T) {
	st, bus := newTestWorld()
	sys := newCollision(st, bus)

	near := st.CreateEnemy("drone", 400, 300)
	far := st.CreateEnemy("drone", 404, 300) // also overlaps the bullet
	bullet := st.CreateBullet(world.BulletConfig{
		Type: "normal", Owner: component.OwnerPlayer, X: 402, Y: 310,
	})

	var hits []event.BulletEnemyCollision
	corevent.Subscribe(bus, func(ev event.BulletEnemyCollision) { hits = append(hits, ev) })

	sys.Update(16 * time.Millisecond)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1 (bullet spends on first overlap)", len(hits))
	}
	if hits[0].Bullet != bullet || hits[0].Enemy != near {
		t.Fatalf("hit = %+v, want bullet %v on enemy %v", hits[0], bullet, near)
	}
	if hits[0].Damage != 10 {
		t.Fatalf("damage = %v, want the archetype's 10", hits[0].Damage)
	}
	_ = far
}

func TestEnemyBulletHitsPlayer(t *testing.T) {
	st, bus := newTestWorld()
	placePlayer(st, 100, 300)
	sys := newCollision(st, bus)
	st.CreateBullet(world.BulletConfig{
		Type: "enemy", Owner: component.OwnerEnemy, X: 110, Y: 310,
	})

	var hits []event.BulletPlayerCollision
	corevent.Subscribe(bus, func(ev event.BulletPlayerCollision) { hits = append(hits, ev) })

	sys.Update(16 * time.Millisecond)
	if len(hits) != 1 || hits[0].Damage != 10 {
		t.Fatalf("hits = %+v, want one 10-damage hit", hits)
	}
}

func TestEnemyBulletIgnoresEnemies(t *testing.T) {
	st, bus := newTestWorld()
	sys := newCollision(st, bus)
	st.CreateEnemy("drone", 400, 300)
	st.CreateBullet(world.BulletConfig{
		Type: "enemy", Owner: component.OwnerEnemy, X: 402, Y: 302,
	})

	fired := false
	corevent.Subscribe(bus, func(event.BulletEnemyCollision) { fired = true })
	corevent.Subscribe(bus, func(event.BulletPlayerCollision) { fired = true })

	sys.Update(16 * time.Millisecond)
	if fired {
		t.Fatal("enemy bullet collided while no player exists")
	}
}

func TestMarkedEntitiesDoNotCollide(t *testing.T) {
	st, bus := newTestWorld()
	sys := newCollision(st, bus)
	eid := st.CreateEnemy("drone", 400, 300)
	bid := st.CreateBullet(world.BulletConfig{
		Type: "normal", Owner: component.OwnerPlayer, X: 402, Y: 302,
	})
	st.MarkForDeletion(eid)

	fired := false
	corevent.Subscribe(bus, func(event.BulletEnemyCollision) { fired = true })
	sys.Update(16 * time.Millisecond)
	if fired {
		t.Fatal("marked enemy still collided")
	}

	// Now the other way round: marked bullet over a live enemy.
	st2, bus2 := newTestWorld()
	sys2 := newCollision(st2, bus2)
	st2.CreateEnemy("drone", 400, 300)
	bid = st2.CreateBullet(world.BulletConfig{
		Type: "normal", Owner: component.OwnerPlayer, X: 402, Y: 302,
	})
	st2.MarkForDeletion(bid)

	corevent.Subscribe(bus2, func(event.BulletEnemyCollision) { fired = true })
	sys2.Update(16 * time.Millisecond)
	if fired {
		t.Fatal("marked bullet still collided")
	}
}

func TestEnemyContactIsThrottled(t *testing.T) {
	st, bus := newTestWorld()
	placePlayer(st, 100, 300)
	sys := newCollision(st, bus)
	id := st.CreateEnemy("drone", 105, 305) // parked on top of the player

	var hits []event.EnemyPlayerCollision
	corevent.Subscribe(bus, func(ev event.EnemyPlayerCollision) { hits = append(hits, ev) })

	// 500ms cooldown at 100ms ticks: hits on tick 1, then again once the
	// timer has drained, not every tick.
	for i := 0; i < 11; i++ {
		sys.Update(100 * time.Millisecond)
	}
	if len(hits) != 3 {
		t.Fatalf("got %d contact hits over 1100ms, want 3", len(hits))
	}
	if hits[0].Enemy != id {
		t.Fatalf("contact enemy = %v, want %v", hits[0].Enemy, id)
	}
}

func TestNoContactWhileSeparated(t *testing.T) {
	st, bus := newTestWorld()
	placePlayer(st, 100, 300)
	sys := newCollision(st, bus)
	st.CreateEnemy("drone", 700, 300)

	fired := false
	corevent.Subscribe(bus, func(event.EnemyPlayerCollision) { fired = true })
	sys.Update(16 * time.Millisecond)
	if fired {
		t.Fatal("contact event for non-overlapping boxes")
	}
}
