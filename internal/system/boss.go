package system

import (
	"math"

	"github.com/scrollfall/server/internal/core/ecs"
	corevent "github.com/scrollfall/server/internal/core/event"
	"github.com/scrollfall/server/internal/event"
	"github.com/scrollfall/server/internal/world"
)

// Relay Warden tuning.
const (
	wardenPhaseHealthPct = 0.5  // phase 2 below half health
	wardenTeleportXPct   = 0.75 // teleport destination, fraction of field
	wardenTeleportYPct   = 0.25

	wardenP1Drift     = 0.15 // phase-1 leftward speed factor
	wardenP1Centering = 0.8  // 1/s gain toward mid-screen
	wardenBeamCycleMs = 3000 // ring beam toggle interval
	wardenFanBullets  = 5
	wardenFanSpreadR  = math.Pi / 3 // 60° total spread
	wardenDroneChance = 0.2         // reinforcement odds per attack

	wardenP2Drift      = 0.1
	wardenP2RetargetMs = 2000
	wardenP2BandPct    = 0.6 // retarget within the middle 60% of the field
	wardenP2TrackGain  = 2.0
	wardenVulnCycleMs  = 4000
	wardenVulnOpenMs   = 2000 // sweep fires only inside (open, close)
	wardenVulnCloseMs  = 3000
	wardenSweepBullets = 3
	wardenSweepSpacing = 0.2  // rad between sweep bullets
	wardenSweepSpeed   = 0.8  // bullet speed scale
	wardenSweepStep    = 0.15 // rad of sweep drift per shot
	wardenSweepLimit   = 0.6  // rad, sweep oscillation bound
)

// moveWarden drives the Relay Warden's per-phase movement and behavior
// timers. The phase transition itself is health-gated and handled in the
// AI phase by updateWardenPhase.
func moveWarden(e *enemyView, ctx *world.Context, dtMs float64) {
	if e.boss == nil {
		moveStraight(e, ctx, dtMs)
		return
	}
	switch e.boss.Phase {
	case 1:
		e.mo.VX = -e.ai.Speed * wardenP1Drift
		e.mo.VY = clampMag((ctx.Bounds.Height/2-e.tr.CenterY())*wardenP1Centering, e.ai.Speed)

		e.boss.BeamTimer += dtMs
		for e.boss.BeamTimer >= wardenBeamCycleMs {
			e.boss.BeamTimer -= wardenBeamCycleMs
			e.boss.RingBeam = !e.boss.RingBeam
		}
	default:
		e.mo.VX = -e.ai.Speed * wardenP2Drift

		e.ai.MoveTimer += dtMs
		if e.ai.MoveTimer >= wardenP2RetargetMs {
			e.ai.MoveTimer -= wardenP2RetargetMs
			band := ctx.Bounds.Height * wardenP2BandPct
			margin := (ctx.Bounds.Height - band) / 2
			e.ai.TargetY = margin + ctx.Rand.Float64()*band
		}
		e.mo.VY = clampMag((e.ai.TargetY-e.tr.CenterY())*wardenP2TrackGain, e.ai.Speed)

		e.boss.VulnTimer += dtMs
		for e.boss.VulnTimer >= wardenVulnCycleMs {
			e.boss.VulnTimer -= wardenVulnCycleMs
		}
	}

	// Never drift out of the boss half of the field.
	if e.tr.X < ctx.Bounds.Width/2 {
		e.mo.VX = 0
	}
}

// updateWardenPhase applies the one-shot phase transition: the first tick
// health is at or below half, flip to phase 2, latch the trigger flag, and
// teleport to the fixed relative position. Idempotent once latched.
func updateWardenPhase(st *world.State, bus *corevent.Bus, id ecs.EntityID, bounds world.Bounds) {
	b, ok := st.Boss(id)
	if !ok || b.PhaseTriggered {
		return
	}
	h, ok := st.Health(id)
	if !ok || h.HP > h.MaxHP*wardenPhaseHealthPct {
		return
	}
	b.PhaseTriggered = true
	st.SetBossPhase(id, 2)
	st.SetPosition(id, bounds.Width*wardenTeleportXPct, bounds.Height*wardenTeleportYPct)
	corevent.Emit(bus, event.BossPhaseChanged{ID: id, Phase: 2})
}

// wardenFire runs the warden's per-phase fire patterns. Caller has already
// checked the player exists and the shoot timer elapsed.
func wardenFire(st *world.State, ctx *world.Context, e *enemyView) []ecs.EntityID {
	if e.boss == nil {
		return nil
	}
	if e.boss.Phase == 1 {
		bullets := fireFan(st, ctx, e, wardenFanBullets, wardenFanSpreadR, 1.0)
		if ctx.Rand.Float64() < wardenDroneChance {
			spawnReinforcement(st, ctx, e)
		}
		return bullets
	}

	// Phase 2: the sweep only fires inside the vulnerability window.
	if e.boss.VulnTimer <= wardenVulnOpenMs || e.boss.VulnTimer >= wardenVulnCloseMs {
		return nil
	}
	e.boss.SweepAngle += e.boss.SweepDir * wardenSweepStep
	if math.Abs(e.boss.SweepAngle) >= wardenSweepLimit {
		e.boss.SweepAngle = clampMag(e.boss.SweepAngle, wardenSweepLimit)
		e.boss.SweepDir = -e.boss.SweepDir
	}
	return fireSweep(st, ctx, e, wardenSweepBullets, wardenSweepSpacing, wardenSweepSpeed, e.boss.SweepAngle)
}

// spawnReinforcement drops a drone just behind the warden.
func spawnReinforcement(st *world.State, ctx *world.Context, e *enemyView) {
	x := e.tr.X + e.tr.Width
	y := clampF(e.tr.Y+ctx.Rand.Float64()*e.tr.Height, 0, ctx.Bounds.Height)
	id := st.CreateEnemy("drone", x, y)
	corevent.Emit(ctx.Events, event.EnemySpawned{ID: id, Type: "drone", X: x, Y: y})
}
