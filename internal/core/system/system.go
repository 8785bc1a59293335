package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseMovement  Phase = iota // 0: advance positions, projectile guidance
	PhaseAI                     // 1: behavior state machines + fire control
	PhaseCollision              // 2: bounding-box sweeps -> damage events
	PhaseEffects                // 3: reserved; damage reactions currently run synchronously off collision emits
	PhaseSpawn                  // 4: wave director, reinforcements
	PhaseOutput                 // 5: observer feed snapshots
	PhaseCleanup                // 6: sweep entities marked for deletion
)

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
