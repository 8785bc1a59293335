package event

import (
	"reflect"

	"go.uber.org/zap"
)

// Bus is a synchronous typed event dispatcher. Emit delivers to every
// handler registered for the event's type, in registration order, before it
// returns — there is no queue and no deferral. A panicking handler is
// isolated: it is logged and the remaining handlers still run.
//
// The bus is injected into the systems that need it; there is no package
// global. Single-goroutine access only (game loop).
type Bus struct {
	handlers map[reflect.Type][]*registration
	log      *zap.Logger
	depth    int
}

type registration struct {
	fn      any
	removed bool
}

func NewBus(log *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]*registration),
		log:      log,
	}
}

// maxEmitDepth bounds handler→emit recursion. Handlers are reentrant-safe
// by convention only; past this depth the emit is dropped and logged so an
// event storm degrades instead of overflowing the stack.
const maxEmitDepth = 64

// Subscribe registers a typed handler for events of type T and returns its
// unsubscribe func. Unsubscribing during dispatch takes effect for events
// emitted after the current one.
func Subscribe[T any](b *Bus, fn func(T)) func() {
	t := reflect.TypeOf((*T)(nil)).Elem()
	reg := &registration{fn: fn}
	b.handlers[t] = append(b.handlers[t], reg)
	return func() {
		reg.removed = true
		list := b.handlers[t]
		for i, r := range list {
			if r == reg {
				b.handlers[t] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Emit dispatches the event to all currently-registered handlers for T,
// synchronously, in registration order.
func Emit[T any](b *Bus, ev T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	list := b.handlers[t]
	if len(list) == 0 {
		return
	}
	if b.depth >= maxEmitDepth {
		b.log.Error("event emit depth exceeded, dropping",
			zap.String("event", t.Name()),
			zap.Int("depth", b.depth))
		return
	}
	b.depth++
	// Snapshot so handlers may subscribe/unsubscribe during dispatch
	// without perturbing this delivery.
	snapshot := make([]*registration, len(list))
	copy(snapshot, list)
	for _, reg := range snapshot {
		if reg.removed {
			continue
		}
		call(b, t, reg.fn, ev)
	}
	b.depth--
}

func call[T any](b *Bus, t reflect.Type, fn any, ev T) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked",
				zap.String("event", t.Name()),
				zap.Any("panic", r))
		}
	}()
	fn.(func(T))(ev)
}
