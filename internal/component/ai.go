package component

// AIState is the per-enemy behavior state. Transitions follow a fixed
// graph: SPAWNING exits to MOVING on the first AI tick and is never
// re-entered; DYING is terminal.
type AIState uint8

const (
	StateSpawning AIState = iota
	StateMoving
	StateAttacking
	StateSearching
	StateFleeing
	StateDying
)

var aiStateNames = [...]string{
	StateSpawning:  "spawning",
	StateMoving:    "moving",
	StateAttacking: "attacking",
	StateSearching: "searching",
	StateFleeing:   "fleeing",
	StateDying:     "dying",
}

func (s AIState) String() string {
	if int(s) < len(aiStateNames) {
		return aiStateNames[s]
	}
	return "unknown"
}

// AI holds the behavior state machine's mutable data. Timers are
// millisecond accumulators advanced by deltaTime, not scheduled callbacks.
type AI struct {
	State        AIState
	ShootTimer   float64 // ms since last shot
	MoveTimer    float64 // ms accumulator for zig-zag / bob / retarget cycles
	TargetY      float64 // current vertical goal (scout, sniper boss, warden)
	ZigDir       float64 // +1 or -1, drone zig-zag direction
	FireRate     float64 // ms between shots, from the archetype table
	Speed        float64 // units/s, from the archetype table
	SpeedFactor  float64 // leftward drift multiplier (bosses < 1)
	BulletType   string  // archetype of fired bullets
	ContactTimer float64 // ms until body contact can damage again
}
