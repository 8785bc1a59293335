package world

import (
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/scrollfall/server/internal/component"
	"github.com/scrollfall/server/internal/core/ecs"
	"github.com/scrollfall/server/internal/data"
	"github.com/scrollfall/server/internal/journal"
)

// State is the single source of truth for simulation entities. All fields
// live in typed component stores keyed by generational entity IDs; every
// mutation goes through a setter here, which records a journal patch before
// returning. Nothing reaches into a component behind the journal's back to
// change an observed field.
//
// Single-goroutine access only (game loop).
type State struct {
	ecs     *ecs.World
	tables  *data.Tables
	journal *journal.Journal
	log     *zap.Logger

	metas       *ecs.Store[component.Meta]
	transforms  *ecs.Store[component.Transform]
	motions     *ecs.Store[component.Motion]
	healths     *ecs.Store[component.Health]
	ais         *ecs.Store[component.AI]
	projectiles *ecs.Store[component.Projectile]
	bosses      *ecs.Store[component.Boss]

	player Player
}

func NewState(tables *data.Tables, jnl *journal.Journal, log *zap.Logger) *State {
	w := ecs.NewWorld()
	s := &State{
		ecs:         w,
		tables:      tables,
		journal:     jnl,
		log:         log,
		metas:       ecs.NewStore[component.Meta](),
		transforms:  ecs.NewStore[component.Transform](),
		motions:     ecs.NewStore[component.Motion](),
		healths:     ecs.NewStore[component.Health](),
		ais:         ecs.NewStore[component.AI](),
		projectiles: ecs.NewStore[component.Projectile](),
		bosses:      ecs.NewStore[component.Boss](),
	}
	for _, st := range []ecs.Removable{
		s.metas, s.transforms, s.motions, s.healths, s.ais, s.projectiles, s.bosses,
	} {
		w.Registry().Register(st)
	}
	return s
}

func (s *State) Tables() *data.Tables      { return s.tables }
func (s *State) Journal() *journal.Journal { return s.journal }

// ---------- Typed accessors ----------

func (s *State) Meta(id ecs.EntityID) (*component.Meta, bool)           { return s.metas.Get(id) }
func (s *State) Transform(id ecs.EntityID) (*component.Transform, bool) { return s.transforms.Get(id) }
func (s *State) Motion(id ecs.EntityID) (*component.Motion, bool)       { return s.motions.Get(id) }
func (s *State) Health(id ecs.EntityID) (*component.Health, bool)       { return s.healths.Get(id) }
func (s *State) AI(id ecs.EntityID) (*component.AI, bool)               { return s.ais.Get(id) }
func (s *State) Projectile(id ecs.EntityID) (*component.Projectile, bool) {
	return s.projectiles.Get(id)
}
func (s *State) Boss(id ecs.EntityID) (*component.Boss, bool) { return s.bosses.Get(id) }

// Exists reports whether the entity is alive (marked-but-unswept counts as
// existing; removal happens at sweep).
func (s *State) Exists(id ecs.EntityID) bool {
	return s.ecs.Alive(id) && s.metas.Has(id)
}

// EnemyIDs returns a sorted snapshot of all existing enemy IDs. The slice
// is a copy, not a live view — callers re-query after mutating.
func (s *State) EnemyIDs() []ecs.EntityID {
	return s.idsOfKind(component.KindEnemy)
}

// BulletIDs returns a sorted snapshot of all existing bullet IDs.
func (s *State) BulletIDs() []ecs.EntityID {
	return s.idsOfKind(component.KindBullet)
}

func (s *State) idsOfKind(kind component.Kind) []ecs.EntityID {
	ids := make([]ecs.EntityID, 0, s.metas.Len())
	s.metas.Each(func(id ecs.EntityID, m *component.Meta) {
		if m.Kind == kind {
			ids = append(ids, id)
		}
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// LiveEnemyCount counts enemies not yet marked for deletion.
func (s *State) LiveEnemyCount() int {
	return lo.CountBy(s.EnemyIDs(), func(id ecs.EntityID) bool {
		m, _ := s.metas.Get(id)
		return m != nil && !m.Marked
	})
}

// ---------- Creation ----------

// CreateEnemy seeds every component for the given archetype and returns the
// new entity's ID. Unknown type tags fall back to the fighter baseline.
func (s *State) CreateEnemy(typ string, x, y float64) ecs.EntityID {
	if !s.tables.HasEnemy(typ) {
		s.log.Warn("unknown enemy type, using fallback",
			zap.String("type", typ),
			zap.String("fallback", data.DefaultEnemyType))
	}
	arch := s.tables.Enemy(typ)

	id := s.ecs.CreateEntity()
	s.metas.Set(id, &component.Meta{
		Kind:   component.KindEnemy,
		Type:   arch.Type,
		Owner:  component.OwnerEnemy,
		Color:  arch.Color,
		Damage: arch.Damage,
	})
	s.transforms.Set(id, &component.Transform{X: x, Y: y, Width: arch.Width, Height: arch.Height})
	s.motions.Set(id, &component.Motion{})
	s.healths.Set(id, &component.Health{HP: arch.Health, MaxHP: arch.Health})
	s.ais.Set(id, &component.AI{
		State:       component.StateSpawning,
		ZigDir:      1,
		TargetY:     y,
		FireRate:    arch.FireRate,
		Speed:       arch.Speed,
		SpeedFactor: arch.SpeedFactor,
		BulletType:  arch.BulletType,
	})
	if arch.Boss {
		s.bosses.Set(id, &component.Boss{Phase: 1, SweepDir: 1})
	}
	return id
}

// BulletConfig describes one bullet to create. Velocity is the caller's:
// fire patterns aim before creation. Damage 0 means take the archetype's.
type BulletConfig struct {
	Type   string
	Owner  component.Owner
	X, Y   float64
	VX, VY float64
	Damage float64
}

// CreateBullet seeds every component for a bullet and returns its ID.
func (s *State) CreateBullet(cfg BulletConfig) ecs.EntityID {
	arch := s.tables.Bullet(cfg.Type)
	damage := cfg.Damage
	if damage == 0 {
		damage = arch.Damage
	}

	id := s.ecs.CreateEntity()
	s.metas.Set(id, &component.Meta{
		Kind:   component.KindBullet,
		Type:   arch.Type,
		Owner:  cfg.Owner,
		Color:  arch.Color,
		Damage: damage,
	})
	s.transforms.Set(id, &component.Transform{X: cfg.X, Y: cfg.Y, Width: arch.Width, Height: arch.Height})
	s.motions.Set(id, &component.Motion{VX: cfg.VX, VY: cfg.VY})
	s.projectiles.Set(id, &component.Projectile{
		Homing:   arch.Homing,
		Speed:    arch.Speed,
		TurnRate: arch.TurnRate,
		TTL:      arch.TTL,
	})
	return id
}

// ---------- Mutation ----------

// SetPosition moves an entity and journals the change. No-op for removed
// entities.
func (s *State) SetPosition(id ecs.EntityID, x, y float64) {
	if !s.Exists(id) {
		return
	}
	tr, ok := s.transforms.Get(id)
	if !ok {
		return
	}
	tr.X, tr.Y = x, y
	kind := journal.PatchEnemyPos
	if m, _ := s.metas.Get(id); m != nil && m.Kind == component.KindBullet {
		kind = journal.PatchBulletPos
	}
	s.journal.Record(journal.Patch{Kind: kind, ID: id, Payload: journal.PositionPayload{X: x, Y: y}})
}

// ApplyEnemyDamage subtracts damage from an enemy's health, clamped to
// [0, MaxHP], journals the change, and returns the new HP. ok is false for
// removed entities (silent no-op).
func (s *State) ApplyEnemyDamage(id ecs.EntityID, amount float64) (hp float64, ok bool) {
	if !s.Exists(id) {
		return 0, false
	}
	h, found := s.healths.Get(id)
	if !found {
		return 0, false
	}
	h.HP -= amount
	if h.HP < 0 {
		h.HP = 0
	}
	if h.HP > h.MaxHP {
		h.HP = h.MaxHP
	}
	s.journal.Record(journal.Patch{
		Kind:    journal.PatchEnemyHealth,
		ID:      id,
		Payload: journal.HealthPayload{HP: h.HP, MaxHP: h.MaxHP},
	})
	return h.HP, true
}

// SetAIState writes an enemy's behavior state and journals it. Transition
// legality is the AI system's job; this is the single write path.
func (s *State) SetAIState(id ecs.EntityID, st component.AIState) {
	if !s.Exists(id) {
		return
	}
	ai, ok := s.ais.Get(id)
	if !ok || ai.State == st {
		return
	}
	ai.State = st
	s.journal.Record(journal.Patch{Kind: journal.PatchEnemyAIState, ID: id, Payload: st.String()})
}

// SetBossPhase writes a boss's phase number and journals it.
func (s *State) SetBossPhase(id ecs.EntityID, phase int) {
	if !s.Exists(id) {
		return
	}
	b, ok := s.bosses.Get(id)
	if !ok || b.Phase == phase {
		return
	}
	b.Phase = phase
	s.journal.Record(journal.Patch{Kind: journal.PatchBossPhase, ID: id, Payload: phase})
}

// ---------- Removal ----------

// MarkForDeletion flags an entity for the end-of-tick sweep. Monotonic:
// once set it is never cleared. Marking twice or marking a removed entity
// is a silent no-op.
func (s *State) MarkForDeletion(id ecs.EntityID) {
	if !s.Exists(id) {
		return
	}
	m, ok := s.metas.Get(id)
	if !ok || m.Marked {
		return
	}
	m.Marked = true
	s.ecs.MarkForDestruction(id)
	s.journal.Record(journal.Patch{Kind: journal.PatchEntityMarked, ID: id})
}

// Remove clears an entity immediately, bypassing the sweep. Exposed for
// collaborators that own despawns (wave resets); simulation code prefers
// MarkForDeletion.
func (s *State) Remove(id ecs.EntityID) {
	if !s.Exists(id) {
		return
	}
	s.ecs.Registry().RemoveAll(id)
	s.ecs.Pool().Destroy(id)
	s.journal.Record(journal.Patch{Kind: journal.PatchEntityRemoved, ID: id})
}

// Sweep destroys everything marked this tick and journals the removals.
// Returns the swept IDs.
func (s *State) Sweep() []ecs.EntityID {
	swept := s.ecs.FlushDestroyQueue()
	for _, id := range swept {
		s.journal.Record(journal.Patch{Kind: journal.PatchEntityRemoved, ID: id})
	}
	return swept
}
