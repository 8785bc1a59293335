package system

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/scrollfall/server/internal/component"
	"github.com/scrollfall/server/internal/core/ecs"
	corevent "github.com/scrollfall/server/internal/core/event"
	coresys "github.com/scrollfall/server/internal/core/system"
	"github.com/scrollfall/server/internal/event"
	"github.com/scrollfall/server/internal/world"
)

// AISystem advances each enemy's behavior state machine and fire control.
// One state transition per tick at most. Phase 1 (AI).
type AISystem struct {
	state  *world.State
	bus    *corevent.Bus
	bounds world.Bounds
	rng    *rand.Rand
	log    *zap.Logger
}

func NewAISystem(st *world.State, bus *corevent.Bus, bounds world.Bounds, rng *rand.Rand, log *zap.Logger) *AISystem {
	return &AISystem{state: st, bus: bus, bounds: bounds, rng: rng, log: log}
}

func (s *AISystem) Phase() coresys.Phase { return coresys.PhaseAI }

func (s *AISystem) Update(dt time.Duration) {
	dtMs := float64(dt) / float64(time.Millisecond)
	ctx := &world.Context{
		Player: s.state.PlayerSnapshot(),
		Bounds: s.bounds,
		Events: s.bus,
		Rand:   s.rng,
	}
	for _, id := range s.state.EnemyIDs() {
		s.tickEnemy(id, ctx, dtMs)
	}
}

func (s *AISystem) tickEnemy(id ecs.EntityID, ctx *world.Context, dtMs float64) {
	meta, ok := s.state.Meta(id)
	if !ok || meta.Marked {
		return
	}
	ai, ok := s.state.AI(id)
	if !ok {
		return
	}
	h, ok := s.state.Health(id)
	if !ok {
		return
	}

	// Health gate: any live state past SPAWNING drops to DYING at zero
	// health. The damage reaction normally did this already; this is the
	// state machine's own guarantee for damage applied outside the event
	// path. SPAWNING has no DYING edge: an enemy dead on arrival takes its
	// SPAWNING->MOVING tick first and the gate reaps it on the next.
	if h.HP <= 0 && ai.State != component.StateDying && ai.State != component.StateSpawning {
		s.state.SetAIState(id, component.StateDying)
		s.state.MarkForDeletion(id)
		tr, _ := s.state.Transform(id)
		died := event.EnemyDied{ID: id, Type: meta.Type}
		if tr != nil {
			died.X, died.Y = tr.X, tr.Y
		}
		corevent.Emit(s.bus, died)
		return
	}

	switch ai.State {
	case component.StateSpawning:
		// Unconditional on the first AI tick.
		s.state.SetAIState(id, component.StateMoving)

	case component.StateMoving:
		if ctx.Player != nil {
			s.state.SetAIState(id, component.StateAttacking)
		}

	case component.StateAttacking:
		s.tickFireControl(id, ctx, ai, meta, dtMs)

	case component.StateSearching, component.StateFleeing:
		// SEARCHING exits only on the external TargetAcquired trigger;
		// FLEEING has no override beyond the default movement.

	case component.StateDying:
	}
}

func (s *AISystem) tickFireControl(id ecs.EntityID, ctx *world.Context, ai *component.AI, meta *component.Meta, dtMs float64) {
	if meta.Type == "relay_warden" {
		updateWardenPhase(s.state, s.bus, id, ctx.Bounds)
	}

	ai.ShootTimer += dtMs
	if ai.ShootTimer <= ai.FireRate {
		return
	}
	if ctx.Player == nil {
		return // no target, hold fire and keep the timer
	}

	e, ok := s.view(id)
	if !ok {
		return
	}
	var bullets []ecs.EntityID
	if meta.Type == "relay_warden" {
		bullets = wardenFire(s.state, ctx, e)
	} else {
		bullets = []ecs.EntityID{fireAimed(s.state, ctx, e, 1.0)}
	}
	ai.ShootTimer = 0
	if len(bullets) > 0 {
		corevent.Emit(s.bus, event.EnemyShot{ID: id, Bullets: bullets})
	}
}

func (s *AISystem) view(id ecs.EntityID) (*enemyView, bool) {
	meta, ok := s.state.Meta(id)
	if !ok {
		return nil, false
	}
	tr, ok := s.state.Transform(id)
	if !ok {
		return nil, false
	}
	mo, ok := s.state.Motion(id)
	if !ok {
		return nil, false
	}
	ai, ok := s.state.AI(id)
	if !ok {
		return nil, false
	}
	e := &enemyView{id: id, meta: meta, tr: tr, mo: mo, ai: ai}
	e.boss, _ = s.state.Boss(id)
	return e, true
}

// ---------- Fire patterns ----------

// aimAngle returns the angle from the enemy's center to the player's.
func aimAngle(e *enemyView, player *world.PlayerSnapshot) float64 {
	return math.Atan2(player.CenterY-e.tr.CenterY(), player.CenterX-e.tr.CenterX())
}

// fireBullet creates one enemy bullet flying at the given absolute angle.
func fireBullet(st *world.State, ctx *world.Context, e *enemyView, angle, speedScale float64) ecs.EntityID {
	arch := st.Tables().Bullet(e.ai.BulletType)
	speed := arch.Speed * speedScale
	id := st.CreateBullet(world.BulletConfig{
		Type:  e.ai.BulletType,
		Owner: component.OwnerEnemy,
		X:     e.tr.CenterX() - arch.Width/2,
		Y:     e.tr.CenterY() - arch.Height/2,
		VX:    math.Cos(angle) * speed,
		VY:    math.Sin(angle) * speed,
	})
	corevent.Emit(ctx.Events, event.BulletSpawned{ID: id, Type: arch.Type, Owner: component.OwnerEnemy.String()})
	return id
}

// fireAimed fires one straight shot at the player's current position.
func fireAimed(st *world.State, ctx *world.Context, e *enemyView, speedScale float64) ecs.EntityID {
	return fireBullet(st, ctx, e, aimAngle(e, ctx.Player), speedScale)
}

// fireFan fires count bullets spanning the given total spread, symmetric
// about the player-facing angle.
func fireFan(st *world.State, ctx *world.Context, e *enemyView, count int, spread, speedScale float64) []ecs.EntityID {
	center := aimAngle(e, ctx.Player)
	step := spread / float64(count-1)
	ids := make([]ecs.EntityID, 0, count)
	for i := 0; i < count; i++ {
		angle := center - spread/2 + float64(i)*step
		ids = append(ids, fireBullet(st, ctx, e, angle, speedScale))
	}
	return ids
}

// fireSweep fires count bullets at fixed angular spacing, centered on the
// player-facing angle plus the sweep offset.
func fireSweep(st *world.State, ctx *world.Context, e *enemyView, count int, spacing, speedScale, offset float64) []ecs.EntityID {
	center := aimAngle(e, ctx.Player) + offset
	ids := make([]ecs.EntityID, 0, count)
	for i := 0; i < count; i++ {
		angle := center + (float64(i)-float64(count-1)/2)*spacing
		ids = append(ids, fireBullet(st, ctx, e, angle, speedScale))
	}
	return ids
}
