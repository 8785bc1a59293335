package world

import (
	"math/rand"

	"github.com/scrollfall/server/internal/core/event"
)

// Bounds is the play field rectangle, origin top-left.
type Bounds struct {
	Width, Height float64
}

// Context is the read-only per-tick view handed to movement, fire-control,
// and guidance functions: the player snapshot (nil when absent), the field
// bounds, the event sink, and the tick's RNG. It is built fresh each tick
// and passed by parameter — there is no ambient game object.
type Context struct {
	Player *PlayerSnapshot
	Bounds Bounds
	Events *event.Bus
	Rand   *rand.Rand
}
