package system

import (
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/scrollfall/server/internal/component"
	corevent "github.com/scrollfall/server/internal/core/event"
	"github.com/scrollfall/server/internal/event"
	"github.com/scrollfall/server/internal/world"
)

func newBullets(st *world.State, bus *corevent.Bus) *BulletSystem {
	return NewBulletSystem(st, bus, testBounds, zap.NewNop())
}

func TestBallisticIntegrationIsExact(t *testing.T) {
	st, bus := newTestWorld()
	sys := newBullets(st, bus)
	id := st.CreateBullet(world.BulletConfig{
		Type: "normal", Owner: component.OwnerPlayer,
		X: 100, Y: 200, VX: 300, VY: -100,
	})

	sys.Update(100 * time.Millisecond)

	tr, _ := st.Transform(id)
	if tr.X != 130 || tr.Y != 190 {
		t.Fatalf("pos = (%v,%v), want exactly (130,190)", tr.X, tr.Y)
	}
}

func TestHomingOutOfRangeFliesStraight(t *testing.T) {
	st, bus := newTestWorld()
	sys := newBullets(st, bus)
	placePlayer(st, 100, 300)
	// Player center is (120,316); place the seed just over 400 away.
	id := st.CreateBullet(world.BulletConfig{
		Type: "seed", Owner: component.OwnerEnemy,
		X: 560, Y: 316, VX: -220, VY: 0,
	})
	tr, _ := st.Transform(id)
	dist := math.Hypot(tr.CenterX()-120, tr.CenterY()-316)
	if dist <= homingRange {
		t.Fatalf("test setup: dist %v should exceed %v", dist, homingRange)
	}

	sys.Update(16 * time.Millisecond)
	mo, _ := st.Motion(id)
	if mo.VX != -220 || mo.VY != 0 {
		t.Fatalf("velocity changed out of range: (%v,%v)", mo.VX, mo.VY)
	}
}

func TestHomingInRangeSteersGradually(t *testing.T) {
	st, bus := newTestWorld()
	sys := newBullets(st, bus)
	placePlayer(st, 100, 500)
	// Player center (120,516); seed 200 to the right, flying away upward.
	id := st.CreateBullet(world.BulletConfig{
		Type: "seed", Owner: component.OwnerEnemy,
		X: 315, Y: 511, VX: 220, VY: 0,
	})

	sys.Update(16 * time.Millisecond)
	mo, _ := st.Motion(id)
	// Blended toward the player, not snapped: direction changed but the
	// desired velocity is not reached in one small tick.
	if mo.VX >= 220 {
		t.Fatalf("vx = %v, want pulled below initial 220", mo.VX)
	}
	proj, _ := st.Projectile(id)
	if mo.VX <= -proj.Speed {
		t.Fatalf("vx = %v, snapped to desired velocity in one tick", mo.VX)
	}
}

func TestSeedTTLExpiresOnExactTick(t *testing.T) {
	st, bus := newTestWorld()
	sys := newBullets(st, bus)
	// No player: ballistic, stationary, well inside the field.
	id := st.CreateBullet(world.BulletConfig{
		Type: "seed", Owner: component.OwnerEnemy, X: 400, Y: 300,
	})

	expired := 0
	corevent.Subscribe(bus, func(ev event.BulletExpired) {
		if ev.ID == id && ev.Reason == "ttl" {
			expired++
		}
	})

	// 15 ticks of 500ms: age 7500, still live.
	for i := 0; i < 15; i++ {
		sys.Update(500 * time.Millisecond)
	}
	meta, _ := st.Meta(id)
	if meta.Marked {
		t.Fatal("seed expired before its 8000ms ttl")
	}

	// Tick 16: age reaches exactly 8000.
	sys.Update(500 * time.Millisecond)
	if meta, _ = st.Meta(id); !meta.Marked {
		t.Fatal("seed not expired at ttl")
	}
	if expired != 1 {
		t.Fatalf("expiry events = %d, want 1", expired)
	}
}

func TestOutOfFieldMarkedRegardlessOfVelocity(t *testing.T) {
	st, bus := newTestWorld()
	sys := newBullets(st, bus)
	// Past the right margin, flying back toward the field.
	id := st.CreateBullet(world.BulletConfig{
		Type: "normal", Owner: component.OwnerPlayer,
		X: testBounds.Width + 60, Y: 300, VX: -300,
	})

	sys.Update(16 * time.Millisecond)
	meta, _ := st.Meta(id)
	if !meta.Marked {
		t.Fatal("bullet past the margin not marked")
	}
}

func TestInsideMarginSurvives(t *testing.T) {
	st, bus := newTestWorld()
	sys := newBullets(st, bus)
	id := st.CreateBullet(world.BulletConfig{
		Type: "normal", Owner: component.OwnerPlayer,
		X: testBounds.Width + 30, Y: 300, VX: -300,
	})

	sys.Update(16 * time.Millisecond)
	meta, _ := st.Meta(id)
	if meta.Marked {
		t.Fatal("bullet inside the margin should survive")
	}
}

func TestAgeIsMonotonic(t *testing.T) {
	st, bus := newTestWorld()
	sys := newBullets(st, bus)
	id := st.CreateBullet(world.BulletConfig{
		Type: "seed", Owner: component.OwnerEnemy, X: 400, Y: 300,
	})

	proj, _ := st.Projectile(id)
	last := proj.Age
	for i := 0; i < 10; i++ {
		sys.Update(100 * time.Millisecond)
		if proj.Age <= last {
			t.Fatalf("age did not increase: %v -> %v", last, proj.Age)
		}
		last = proj.Age
	}
}
