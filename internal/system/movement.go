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
	"github.com/scrollfall/server/internal/world"
)

// Movement tuning. Timers are millisecond accumulators against deltaTime.
const (
	droneZigFlipMs     = 300 // zig-zag direction flip interval
	droneZigDamping    = 0.5 // vertical speed fraction while zigging
	seederBobPeriodMs  = 1000
	seederBobAmplitude = 0.5 // vertical speed fraction at bob peak
	fighterDeadbandPx  = 5   // no correction inside this |Δy|
	fighterTrackGain   = 2.0 // 1/s proportional gain toward player y
	fighterTrackCap    = 0.6 // vertical speed cap, fraction of move speed
	scoutRetargetMs    = 1000
	scoutTrackGain     = 2.5
	bossTrackGain      = 1.5
	bossSniperRetarget = 2000 // ms

	// Entities past the field edge by this margin are despawned.
	offFieldMargin = 50
)

// enemyView bundles one enemy's components, fetched once per tick.
type enemyView struct {
	id   ecs.EntityID
	meta *component.Meta
	tr   *component.Transform
	mo   *component.Motion
	ai   *component.AI
	boss *component.Boss
}

// moveFunc advances one enemy's velocity for this tick. Deterministic given
// deltaTime, current components, and the context's player snapshot and RNG.
type moveFunc func(e *enemyView, ctx *world.Context, dtMs float64)

var moveFuncs = map[string]moveFunc{
	"drone":        moveDrone,
	"turret":       moveStraight,
	"seeder":       moveSeeder,
	"fighter":      moveFighter,
	"bomber":       moveStraight,
	"scout":        moveScout,
	"boss":         bossMove(trackPlayer),
	"boss_heavy":   bossMove(trackCenter),
	"boss_fast":    bossMove(trackPlayer),
	"boss_sniper":  bossMove(trackRandom),
	"relay_warden": moveWarden,
}

// MovementSystem advances all live enemies. DYING and marked entities do
// not move. Phase 0 (Movement).
type MovementSystem struct {
	state  *world.State
	bus    *corevent.Bus
	bounds world.Bounds
	rng    *rand.Rand
	log    *zap.Logger
}

func NewMovementSystem(st *world.State, bus *corevent.Bus, bounds world.Bounds, rng *rand.Rand, log *zap.Logger) *MovementSystem {
	return &MovementSystem{state: st, bus: bus, bounds: bounds, rng: rng, log: log}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

func (s *MovementSystem) Update(dt time.Duration) {
	dtMs := float64(dt) / float64(time.Millisecond)
	ctx := &world.Context{
		Player: s.state.PlayerSnapshot(),
		Bounds: s.bounds,
		Events: s.bus,
		Rand:   s.rng,
	}
	for _, id := range s.state.EnemyIDs() {
		e, ok := s.view(id)
		if !ok || e.meta.Marked || e.ai.State == component.StateDying {
			continue
		}
		fn := moveFuncs[e.meta.Type]
		if fn == nil {
			fn = moveFighter // unknown tags already fell back at create
		}
		fn(e, ctx, dtMs)

		x := e.tr.X + e.mo.VX*dtMs/1000
		y := e.tr.Y + e.mo.VY*dtMs/1000
		s.state.SetPosition(id, x, y)

		// Enemies that scroll off the left edge despawn silently.
		if e.tr.X+e.tr.Width < -offFieldMargin {
			s.state.MarkForDeletion(id)
		}
	}
}

func (s *MovementSystem) view(id ecs.EntityID) (*enemyView, bool) {
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

// ---------- Per-type movement ----------

func moveStraight(e *enemyView, _ *world.Context, _ float64) {
	e.mo.VX = -e.ai.Speed
	e.mo.VY = 0
}

func moveDrone(e *enemyView, _ *world.Context, dtMs float64) {
	e.ai.MoveTimer += dtMs
	for e.ai.MoveTimer >= droneZigFlipMs {
		e.ai.MoveTimer -= droneZigFlipMs
		e.ai.ZigDir = -e.ai.ZigDir
	}
	e.mo.VX = -e.ai.Speed
	e.mo.VY = e.ai.ZigDir * e.ai.Speed * droneZigDamping
}

func moveSeeder(e *enemyView, _ *world.Context, dtMs float64) {
	e.ai.MoveTimer += dtMs
	phase := 2 * math.Pi * e.ai.MoveTimer / seederBobPeriodMs
	e.mo.VX = -e.ai.Speed
	e.mo.VY = math.Sin(phase) * e.ai.Speed * seederBobAmplitude
}

func moveFighter(e *enemyView, ctx *world.Context, _ float64) {
	e.mo.VX = -e.ai.Speed
	e.mo.VY = 0
	if ctx.Player == nil {
		return // no tracking term without a target
	}
	dy := ctx.Player.CenterY - e.tr.CenterY()
	if math.Abs(dy) <= fighterDeadbandPx {
		return
	}
	e.mo.VY = clampMag(dy*fighterTrackGain, e.ai.Speed*fighterTrackCap)
}

func moveScout(e *enemyView, ctx *world.Context, dtMs float64) {
	e.ai.MoveTimer += dtMs
	if e.ai.MoveTimer >= scoutRetargetMs {
		e.ai.MoveTimer -= scoutRetargetMs
		e.ai.TargetY = ctx.Rand.Float64() * (ctx.Bounds.Height - e.tr.Height)
	}
	e.mo.VX = -e.ai.Speed
	e.mo.VY = clampMag((e.ai.TargetY-e.tr.Y)*scoutTrackGain, e.ai.Speed)
}

// targetFunc yields the vertical goal (center coordinates) for a boss.
type targetFunc func(e *enemyView, ctx *world.Context, dtMs float64) float64

func trackPlayer(e *enemyView, ctx *world.Context, _ float64) float64 {
	if ctx.Player == nil {
		return e.tr.CenterY()
	}
	return ctx.Player.CenterY
}

func trackCenter(_ *enemyView, ctx *world.Context, _ float64) float64 {
	return ctx.Bounds.Height / 2
}

func trackRandom(e *enemyView, ctx *world.Context, dtMs float64) float64 {
	e.ai.MoveTimer += dtMs
	if e.ai.MoveTimer >= bossSniperRetarget {
		e.ai.MoveTimer -= bossSniperRetarget
		e.ai.TargetY = ctx.Rand.Float64() * ctx.Bounds.Height
	}
	return e.ai.TargetY
}

// bossMove builds the shared boss movement: slow leftward drift at the
// archetype's speed factor plus proportional vertical tracking toward a
// clamped goal.
func bossMove(target targetFunc) moveFunc {
	return func(e *enemyView, ctx *world.Context, dtMs float64) {
		e.mo.VX = -e.ai.Speed * e.ai.SpeedFactor
		goal := clampF(target(e, ctx, dtMs), e.tr.Height/2, ctx.Bounds.Height-e.tr.Height/2)
		e.mo.VY = clampMag((goal-e.tr.CenterY())*bossTrackGain, e.ai.Speed)
	}
}

func clampMag(v, max float64) float64 {
	if v > max {
		return max
	}
	if v < -max {
		return -max
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
