// Package effect decouples intent events from the state writes they cause.
// A reaction is a typed handler registered through the scheduler; it only
// runs while the scheduler is Running. Events that arrive while Stopped are
// dropped — explicitly counted and logged, never buffered.
package effect

import (
	"go.uber.org/zap"

	"github.com/scrollfall/server/internal/core/event"
)

// SchedulerState is the scheduler's lifecycle state.
type SchedulerState int

const (
	Stopped SchedulerState = iota
	Running
)

func (s SchedulerState) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Scheduler gates reaction execution behind an explicit lifecycle.
type Scheduler struct {
	bus     *event.Bus
	log     *zap.Logger
	state   SchedulerState
	dropped uint64
}

func NewScheduler(bus *event.Bus, log *zap.Logger) *Scheduler {
	return &Scheduler{bus: bus, log: log, state: Stopped}
}

func (s *Scheduler) Start() { s.state = Running }
func (s *Scheduler) Stop()  { s.state = Stopped }

func (s *Scheduler) State() SchedulerState { return s.state }

// Dropped returns how many events reached a stopped scheduler. A nonzero
// count on a scheduler that was supposed to be running is an ordering bug
// at the call site, which is why drops are accounted rather than silent.
func (s *Scheduler) Dropped() uint64 { return s.dropped }

// React registers fn as a reaction to events of type T and returns its
// unsubscribe func. The reaction performs its state writes synchronously
// before returning; filtering by entity ID from the payload is the
// reaction's job.
func React[T any](s *Scheduler, fn func(T)) func() {
	return event.Subscribe(s.bus, func(ev T) {
		if s.state != Running {
			s.dropped++
			s.log.Debug("reaction dropped while stopped", zap.Any("event", ev))
			return
		}
		fn(ev)
	})
}
