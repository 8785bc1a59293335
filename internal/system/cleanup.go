package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/scrollfall/server/internal/core/system"
	"github.com/scrollfall/server/internal/world"
)

// CleanupSystem sweeps everything marked for deletion this tick. Phase 6
// (Cleanup).
type CleanupSystem struct {
	state *world.State
	log   *zap.Logger
}

func NewCleanupSystem(st *world.State, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{state: st, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if swept := s.state.Sweep(); len(swept) > 0 {
		s.log.Debug("swept entities", zap.Int("count", len(swept)))
	}
}
