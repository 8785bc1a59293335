package system

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/scrollfall/server/internal/component"
	"github.com/scrollfall/server/internal/core/ecs"
	corevent "github.com/scrollfall/server/internal/core/event"
	coresys "github.com/scrollfall/server/internal/core/system"
	"github.com/scrollfall/server/internal/event"
	"github.com/scrollfall/server/internal/world"
)

// Homing guidance tuning.
const (
	homingRange = 400  // units; outside this, seed bullets fly ballistic
	homingEps   = 1e-6 // below this distance, skip steering (div by zero)
)

// BulletSystem ages, steers, and integrates all bullets, and expires them
// by TTL or field bounds. Registered after MovementSystem within phase 0 so
// enemies move before their projectiles resolve.
type BulletSystem struct {
	state  *world.State
	bus    *corevent.Bus
	bounds world.Bounds
	log    *zap.Logger
}

func NewBulletSystem(st *world.State, bus *corevent.Bus, bounds world.Bounds, log *zap.Logger) *BulletSystem {
	return &BulletSystem{state: st, bus: bus, bounds: bounds, log: log}
}

func (s *BulletSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

func (s *BulletSystem) Update(dt time.Duration) {
	dtMs := float64(dt) / float64(time.Millisecond)
	dtSec := dtMs / 1000
	player := s.state.PlayerSnapshot()

	for _, id := range s.state.BulletIDs() {
		meta, ok := s.state.Meta(id)
		if !ok || meta.Marked {
			continue
		}
		proj, ok := s.state.Projectile(id)
		if !ok {
			continue
		}
		tr, ok := s.state.Transform(id)
		if !ok {
			continue
		}
		mo, ok := s.state.Motion(id)
		if !ok {
			continue
		}

		// Age is monotonic; expiry fires the tick age first reaches TTL,
		// before the position update.
		proj.Age += dtMs
		if proj.TTL > 0 && proj.Age >= proj.TTL {
			s.expire(id, "ttl")
			continue
		}

		// Bounds check is on the current position, before integration, so
		// a bullet already past the margin expires regardless of velocity.
		if outOfField(tr, s.bounds) {
			s.expire(id, "bounds")
			continue
		}

		if proj.Homing && player != nil {
			steer(proj, tr, mo, player, dtSec)
		}

		s.state.SetPosition(id, tr.X+mo.VX*dtSec, tr.Y+mo.VY*dtSec)
	}
}

// steer blends the bullet's velocity toward the player at the projectile's
// fixed speed: proportional interpolation by min(1, turnRate*dt), never an
// instant snap. Outside homing range the velocity is left untouched
// (ballistic flight).
func steer(proj *component.Projectile, tr *component.Transform, mo *component.Motion, player *world.PlayerSnapshot, dtSec float64) {
	dx := player.CenterX - tr.CenterX()
	dy := player.CenterY - tr.CenterY()
	dist := math.Hypot(dx, dy)
	if dist > homingRange || dist <= homingEps {
		return
	}
	desiredVX := dx / dist * proj.Speed
	desiredVY := dy / dist * proj.Speed
	t := proj.TurnRate * dtSec
	if t > 1 {
		t = 1
	}
	mo.VX += (desiredVX - mo.VX) * t
	mo.VY += (desiredVY - mo.VY) * t
}

// outOfField reports whether the bounding box left the play field by more
// than the despawn margin on any side.
func outOfField(tr *component.Transform, b world.Bounds) bool {
	return tr.X+tr.Width < -offFieldMargin ||
		tr.X > b.Width+offFieldMargin ||
		tr.Y+tr.Height < -offFieldMargin ||
		tr.Y > b.Height+offFieldMargin
}

func (s *BulletSystem) expire(id ecs.EntityID, reason string) {
	s.state.MarkForDeletion(id)
	corevent.Emit(s.bus, event.BulletExpired{ID: id, Reason: reason})
}
