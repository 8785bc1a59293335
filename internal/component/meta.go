package component

// Kind discriminates the two simulated entity classes.
type Kind uint8

const (
	KindEnemy Kind = iota
	KindBullet
)

// Owner identifies which side an entity fights for. Collision sweeps only
// pair entities of opposing owners.
type Owner uint8

const (
	OwnerPlayer Owner = iota
	OwnerEnemy
)

func (o Owner) String() string {
	if o == OwnerPlayer {
		return "player"
	}
	return "enemy"
}

// Meta carries the per-entity identity fields shared by bullets and enemies:
// the archetype tag, owner side, render color, contact damage, and the
// mark-and-sweep deletion flag.
//
// Marked is monotonic: it is only ever set through State.MarkForDeletion and
// never cleared while the entity exists.
type Meta struct {
	Kind   Kind
	Type   string
	Owner  Owner
	Color  string
	Damage float64
	Marked bool
}
