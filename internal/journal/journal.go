package journal

import "github.com/scrollfall/server/internal/core/ecs"

// PatchKind identifies the type of state-change entry.
type PatchKind int

const (
	// PatchEnemyPos updates an enemy's position.
	PatchEnemyPos PatchKind = iota
	// PatchEnemyHealth updates an enemy's health pool.
	PatchEnemyHealth
	// PatchEnemyAIState updates an enemy's behavior state.
	PatchEnemyAIState
	// PatchBossPhase updates a boss's phase number.
	PatchBossPhase
	// PatchBulletPos updates a bullet's position.
	PatchBulletPos
	// PatchPlayerPos updates the player's position.
	PatchPlayerPos
	// PatchPlayerHealth updates the player's health pool.
	PatchPlayerHealth
	// PatchEntityMarked signals an entity was marked for deletion.
	PatchEntityMarked
	// PatchEntityRemoved signals an entity was swept from the world.
	PatchEntityRemoved
)

// PositionPayload carries coordinates for a position patch.
type PositionPayload struct {
	X, Y float64
}

// HealthPayload carries a health change.
type HealthPayload struct {
	HP, MaxHP float64
}

// Patch is one observed state mutation. Every write that goes through a
// world.State setter produces exactly one patch, delivered to subscribers
// synchronously before the setter returns.
type Patch struct {
	Kind    PatchKind
	ID      ecs.EntityID
	Payload any
}

// Journal fans state-change patches out to subscribers and accumulates
// them for per-tick draining by the observer feed.
type Journal struct {
	subs    []*subscription
	pending []Patch
}

type subscription struct {
	fn      func(Patch)
	removed bool
}

func New() *Journal {
	return &Journal{
		subs:    make([]*subscription, 0, 4),
		pending: make([]Patch, 0, 256),
	}
}

// Subscribe registers a synchronous observer of every recorded patch and
// returns its unsubscribe func.
func (j *Journal) Subscribe(fn func(Patch)) func() {
	sub := &subscription{fn: fn}
	j.subs = append(j.subs, sub)
	return func() {
		sub.removed = true
		for i, s := range j.subs {
			if s == sub {
				j.subs = append(j.subs[:i:i], j.subs[i+1:]...)
				return
			}
		}
	}
}

// Record appends a patch and notifies subscribers before returning.
func (j *Journal) Record(p Patch) {
	j.pending = append(j.pending, p)
	for _, s := range j.subs {
		if !s.removed {
			s.fn(p)
		}
	}
}

// Drain returns the patches accumulated since the last drain and resets
// the buffer. Called once per tick by the output phase.
func (j *Journal) Drain() []Patch {
	if len(j.pending) == 0 {
		return nil
	}
	out := make([]Patch, len(j.pending))
	copy(out, j.pending)
	j.pending = j.pending[:0]
	return out
}

// Pending reports the number of undrained patches.
func (j *Journal) Pending() int { return len(j.pending) }
