package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Store is a generic typed map store for components. No reflect, no
// interface{} — pure generics. Fields are reached through typed accessors,
// never through path strings, so an invalid field reference is a compile
// error instead of a silent miss.
type Store[T any] struct {
	data map[EntityID]*T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data: make(map[EntityID]*T, 128),
	}
}

func (s *Store[T]) Set(id EntityID, c *T) {
	s.data[id] = c
}

// Get returns the component for id, or (nil, false) if the entity never had
// one or has been removed. Absence is a normal answer, not an error.
func (s *Store[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *Store[T]) Remove(id EntityID) {
	delete(s.data, id)
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

// Each visits components in map order. Callers needing deterministic order
// iterate a sorted ID slice instead.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}
