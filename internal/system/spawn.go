package system

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	corevent "github.com/scrollfall/server/internal/core/event"
	coresys "github.com/scrollfall/server/internal/core/system"
	"github.com/scrollfall/server/internal/event"
	"github.com/scrollfall/server/internal/scripting"
	"github.com/scrollfall/server/internal/world"
)

// interWaveDelayMs is the pause after a wave clears before the next one.
const interWaveDelayMs = 2500

// WaveDirector is the optional interface the spawn system asks for the
// next wave's composition. The Lua engine implements it.
type WaveDirector interface {
	NextWave(ctx scripting.WaveContext) []scripting.SpawnRequest
}

// SpawnSystem dispatches a new wave once the field is clear of live
// enemies. Composition comes from the wave director; when it declines
// (no script, bad return) a builtin ramp is used. Phase 4 (Spawn).
type SpawnSystem struct {
	state    *world.State
	bus      *corevent.Bus
	director WaveDirector
	bounds   world.Bounds
	rng      *rand.Rand
	log      *zap.Logger

	wave     int
	cooldown float64 // ms until the next wave may start
}

func NewSpawnSystem(st *world.State, bus *corevent.Bus, director WaveDirector, bounds world.Bounds, rng *rand.Rand, log *zap.Logger) *SpawnSystem {
	return &SpawnSystem{
		state:    st,
		bus:      bus,
		director: director,
		bounds:   bounds,
		rng:      rng,
		log:      log,
	}
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

// Wave returns the current wave number (0 before the first dispatch).
func (s *SpawnSystem) Wave() int { return s.wave }

func (s *SpawnSystem) Update(dt time.Duration) {
	if s.cooldown > 0 {
		s.cooldown -= float64(dt) / float64(time.Millisecond)
		return
	}
	if s.state.LiveEnemyCount() > 0 {
		return
	}
	s.wave++
	spawns := s.nextWave()
	for _, req := range spawns {
		id := s.state.CreateEnemy(req.Type, req.X, req.Y)
		corevent.Emit(s.bus, event.EnemySpawned{ID: id, Type: req.Type, X: req.X, Y: req.Y})
	}
	s.cooldown = interWaveDelayMs
	s.log.Info("wave dispatched", zap.Int("wave", s.wave), zap.Int("enemies", len(spawns)))
	corevent.Emit(s.bus, event.WaveStarted{Number: s.wave, Enemies: len(spawns)})
}

func (s *SpawnSystem) nextWave() []scripting.SpawnRequest {
	if s.director != nil {
		ctx := scripting.WaveContext{
			Wave:        s.wave,
			FieldWidth:  s.bounds.Width,
			FieldHeight: s.bounds.Height,
		}
		if p := s.state.PlayerSnapshot(); p != nil {
			ctx.PlayerY = p.CenterY
		}
		if spawns := s.director.NextWave(ctx); len(spawns) > 0 {
			return spawns
		}
	}
	return s.builtinWave()
}

// builtinWave is the scriptless ramp: a growing mixed pack, a boss every
// fifth wave, the warden on the tenth.
func (s *SpawnSystem) builtinWave() []scripting.SpawnRequest {
	if s.wave%10 == 0 {
		return []scripting.SpawnRequest{{
			Type: "relay_warden",
			X:    s.bounds.Width * 0.85,
			Y:    s.bounds.Height * 0.4,
		}}
	}
	if s.wave%5 == 0 {
		return []scripting.SpawnRequest{{
			Type: "boss",
			X:    s.bounds.Width * 0.9,
			Y:    s.bounds.Height * 0.4,
		}}
	}
	types := []string{"drone", "fighter", "scout", "seeder", "turret", "bomber"}
	count := 3 + s.wave
	if count > 10 {
		count = 10
	}
	spawns := make([]scripting.SpawnRequest, 0, count)
	for i := 0; i < count; i++ {
		spawns = append(spawns, scripting.SpawnRequest{
			Type: types[s.rng.Intn(len(types))],
			X:    s.bounds.Width + float64(i)*60,
			Y:    s.rng.Float64() * (s.bounds.Height - 40),
		})
	}
	return spawns
}
