package effect

import (
	"testing"

	"go.uber.org/zap"

	corevent "github.com/scrollfall/server/internal/core/event"
)

type tick struct{ n int }

func TestReactionsGatedByLifecycle(t *testing.T) {
	bus := corevent.NewBus(zap.NewNop())
	s := NewScheduler(bus, zap.NewNop())

	calls := 0
	React(s, func(tick) { calls++ })

	if s.State() != Stopped {
		t.Fatal("scheduler should start out stopped")
	}

	// Events while stopped are dropped and accounted, not buffered.
	corevent.Emit(bus, tick{1})
	if calls != 0 {
		t.Fatal("reaction ran while stopped")
	}
	if s.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", s.Dropped())
	}

	s.Start()
	corevent.Emit(bus, tick{2})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	// The dropped event is not replayed on start.
	if calls != 1 || s.Dropped() != 1 {
		t.Fatalf("calls=%d dropped=%d after start", calls, s.Dropped())
	}

	s.Stop()
	corevent.Emit(bus, tick{3})
	if calls != 1 || s.Dropped() != 2 {
		t.Fatalf("calls=%d dropped=%d after stop", calls, s.Dropped())
	}
}

func TestReactionUnsubscribe(t *testing.T) {
	bus := corevent.NewBus(zap.NewNop())
	s := NewScheduler(bus, zap.NewNop())
	s.Start()

	calls := 0
	off := React(s, func(tick) { calls++ })
	corevent.Emit(bus, tick{})
	off()
	corevent.Emit(bus, tick{})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}
