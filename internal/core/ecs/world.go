package ecs

// World is the top-level ECS container. It owns the entity pool, the
// component registry, and a deferred destruction queue flushed once per tick
// by the cleanup system — entities are marked during the tick and swept at
// its end, never removed mid-phase.
type World struct {
	pool         *Pool
	registry     *Registry
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *Pool         { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// MarkForDestruction queues an entity for end-of-tick cleanup. Queuing the
// same entity twice is harmless; Destroy is generation-checked.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue destroys all queued entities and clears their
// components. Returns the swept IDs so callers can journal the removals.
func (w *World) FlushDestroyQueue() []EntityID {
	if len(w.destroyQueue) == 0 {
		return nil
	}
	swept := make([]EntityID, 0, len(w.destroyQueue))
	for _, id := range w.destroyQueue {
		if !w.pool.Alive(id) {
			continue
		}
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
		swept = append(swept, id)
	}
	w.destroyQueue = w.destroyQueue[:0]
	return swept
}

// PendingDestroy reports how many entities are queued for the next sweep.
func (w *World) PendingDestroy() int {
	return len(w.destroyQueue)
}
