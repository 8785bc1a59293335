package effect

import (
	"testing"

	"go.uber.org/zap"

	"github.com/scrollfall/server/internal/component"
	corevent "github.com/scrollfall/server/internal/core/event"
	"github.com/scrollfall/server/internal/data"
	"github.com/scrollfall/server/internal/event"
	"github.com/scrollfall/server/internal/journal"
	"github.com/scrollfall/server/internal/world"
)

func newPipeline() (*world.State, *corevent.Bus, *Scheduler) {
	log := zap.NewNop()
	st := world.NewState(data.BuiltinTables(), journal.New(), log)
	bus := corevent.NewBus(log)
	s := NewScheduler(bus, log)
	RegisterReactions(s, st, bus, log)
	s.Start()
	return st, bus, s
}

func TestBulletEnemyCollisionAppliesDamage(t *testing.T) {
	st, bus, _ := newPipeline()
	enemy := st.CreateEnemy("bomber", 400, 300) // 60 hp
	bullet := st.CreateBullet(world.BulletConfig{
		Type: "normal", Owner: component.OwnerPlayer, Damage: 25,
	})

	var healthEvents []event.EnemyHealthChanged
	corevent.Subscribe(bus, func(ev event.EnemyHealthChanged) {
		healthEvents = append(healthEvents, ev)
	})

	corevent.Emit(bus, event.BulletEnemyCollision{Bullet: bullet, Enemy: enemy, Damage: 25})

	h, _ := st.Health(enemy)
	if h.HP != 35 {
		t.Fatalf("hp = %v, want 35", h.HP)
	}
	if len(healthEvents) != 1 || healthEvents[0].HP != 35 {
		t.Fatalf("health events = %+v", healthEvents)
	}
	bm, _ := st.Meta(bullet)
	if !bm.Marked {
		t.Fatal("bullet not spent on impact")
	}
}

func TestLethalDamageKillsExactlyOnce(t *testing.T) {
	st, bus, _ := newPipeline()
	enemy := st.CreateEnemy("drone", 400, 300)
	st.SetAIState(enemy, component.StateMoving) // past its spawn tick

	deaths := 0
	corevent.Subscribe(bus, func(event.EnemyDied) { deaths++ })

	corevent.Emit(bus, event.EnemyDamaged{ID: enemy, Amount: 9999})
	corevent.Emit(bus, event.EnemyDamaged{ID: enemy, Amount: 9999}) // already dying

	if deaths != 1 {
		t.Fatalf("deaths = %d, want 1", deaths)
	}
	ai, _ := st.AI(enemy)
	if ai.State != component.StateDying {
		t.Fatalf("state = %v, want dying", ai.State)
	}
	meta, _ := st.Meta(enemy)
	if !meta.Marked {
		t.Fatal("dead enemy not marked for deletion")
	}
}

func TestLethalDamageDuringSpawnDefersDeath(t *testing.T) {
	st, bus, _ := newPipeline()
	enemy := st.CreateEnemy("drone", 400, 300) // still SPAWNING

	deaths := 0
	corevent.Subscribe(bus, func(event.EnemyDied) { deaths++ })

	corevent.Emit(bus, event.EnemyDamaged{ID: enemy, Amount: 9999})

	// Damage applies and clamps, but SPAWNING has no DYING edge; the AI
	// system reaps the enemy after its SPAWNING->MOVING tick.
	h, _ := st.Health(enemy)
	if h.HP != 0 {
		t.Fatalf("hp = %v, want clamped to 0", h.HP)
	}
	ai, _ := st.AI(enemy)
	if ai.State != component.StateSpawning {
		t.Fatalf("state = %v, want still spawning", ai.State)
	}
	meta, _ := st.Meta(enemy)
	if meta.Marked || deaths != 0 {
		t.Fatalf("killed while spawning: marked=%v deaths=%d", meta.Marked, deaths)
	}
}

func TestCollisionOnRemovedEntityIsNoOp(t *testing.T) {
	st, bus, _ := newPipeline()
	enemy := st.CreateEnemy("drone", 0, 0)
	bullet := st.CreateBullet(world.BulletConfig{Type: "normal", Owner: component.OwnerPlayer})
	st.Remove(enemy)

	// Stale collision for an entity removed earlier in the tick.
	corevent.Emit(bus, event.BulletEnemyCollision{Bullet: bullet, Enemy: enemy, Damage: 10})

	bm, _ := st.Meta(bullet)
	if bm.Marked {
		t.Fatal("bullet spent on a ghost")
	}
}

func TestPlayerDamagePipeline(t *testing.T) {
	st, bus, _ := newPipeline()
	st.SetPlayer(world.Player{Present: true, Width: 40, Height: 32, HP: 30, MaxHP: 100})
	bullet := st.CreateBullet(world.BulletConfig{Type: "enemy", Owner: component.OwnerEnemy, Damage: 40})

	died := 0
	corevent.Subscribe(bus, func(event.PlayerDied) { died++ })

	corevent.Emit(bus, event.BulletPlayerCollision{Bullet: bullet, Damage: 40})

	p := st.PlayerSnapshot()
	if p.HP != 0 {
		t.Fatalf("player hp = %v, want 0 (clamped)", p.HP)
	}
	if died != 1 {
		t.Fatalf("player deaths = %d, want 1", died)
	}
}

func TestTargetAcquiredOnlyMovesSearching(t *testing.T) {
	st, bus, _ := newPipeline()
	searching := st.CreateEnemy("fighter", 0, 0)
	moving := st.CreateEnemy("fighter", 0, 0)
	st.SetAIState(searching, component.StateSearching)
	st.SetAIState(moving, component.StateMoving)

	corevent.Emit(bus, event.TargetAcquired{ID: searching})
	corevent.Emit(bus, event.TargetAcquired{ID: moving})

	ai, _ := st.AI(searching)
	if ai.State != component.StateAttacking {
		t.Fatalf("searching enemy state = %v, want attacking", ai.State)
	}
	ai, _ = st.AI(moving)
	if ai.State != component.StateMoving {
		t.Fatalf("moving enemy state = %v, want unchanged", ai.State)
	}
}
