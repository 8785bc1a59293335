package component

// Health tracks hit points. HP is clamped to [0, MaxHP] by every mutation
// path in world.State; nothing writes the fields directly.
type Health struct {
	HP, MaxHP float64
}
