package net

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	coresys "github.com/scrollfall/server/internal/core/system"
	"github.com/scrollfall/server/internal/world"
)

// Snapshot is one observer frame: the full renderable entity state.
type Snapshot struct {
	Tick    uint64       `json:"tick"`
	Player  *PlayerView  `json:"player,omitempty"`
	Enemies []EnemyView  `json:"enemies"`
	Bullets []BulletView `json:"bullets"`
}

type PlayerView struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	HP    float64 `json:"hp"`
	MaxHP float64 `json:"max_hp"`
}

type EnemyView struct {
	ID    string  `json:"id"`
	Type  string  `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Color string  `json:"color"`
	HP    float64 `json:"hp"`
	MaxHP float64 `json:"max_hp"`
	State string  `json:"state"`
	Phase int     `json:"phase,omitempty"`
}

type BulletView struct {
	ID    string  `json:"id"`
	Type  string  `json:"type"`
	Owner string  `json:"owner"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// FeedSystem builds and broadcasts snapshots every snapshotEvery ticks and
// drains the journal so the per-tick patch buffer stays bounded. Phase 5
// (Output).
type FeedSystem struct {
	state         *world.State
	hub           *Hub
	log           *zap.Logger
	snapshotEvery uint64
	tick          uint64
}

func NewFeedSystem(st *world.State, hub *Hub, snapshotEvery int, log *zap.Logger) *FeedSystem {
	if snapshotEvery < 1 {
		snapshotEvery = 1
	}
	return &FeedSystem{state: st, hub: hub, log: log, snapshotEvery: uint64(snapshotEvery)}
}

func (s *FeedSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *FeedSystem) Update(_ time.Duration) {
	s.tick++
	s.state.Journal().Drain()
	if s.hub == nil || s.tick%s.snapshotEvery != 0 {
		return
	}
	if s.hub.Observers() == 0 {
		return
	}
	data, err := json.Marshal(s.buildSnapshot())
	if err != nil {
		s.log.Error("snapshot marshal failed", zap.Error(err))
		return
	}
	s.hub.Broadcast(data)
}

func (s *FeedSystem) buildSnapshot() Snapshot {
	snap := Snapshot{
		Tick:    s.tick,
		Enemies: make([]EnemyView, 0, 16),
		Bullets: make([]BulletView, 0, 64),
	}
	if p := s.state.PlayerSnapshot(); p != nil {
		snap.Player = &PlayerView{X: p.X, Y: p.Y, HP: p.HP, MaxHP: p.MaxHP}
	}
	for _, id := range s.state.EnemyIDs() {
		meta, ok := s.state.Meta(id)
		if !ok || meta.Marked {
			continue
		}
		tr, _ := s.state.Transform(id)
		h, _ := s.state.Health(id)
		ai, _ := s.state.AI(id)
		if tr == nil || h == nil || ai == nil {
			continue
		}
		view := EnemyView{
			ID:    id.String(),
			Type:  meta.Type,
			X:     tr.X,
			Y:     tr.Y,
			W:     tr.Width,
			H:     tr.Height,
			Color: meta.Color,
			HP:    h.HP,
			MaxHP: h.MaxHP,
			State: ai.State.String(),
		}
		if b, ok := s.state.Boss(id); ok {
			view.Phase = b.Phase
		}
		snap.Enemies = append(snap.Enemies, view)
	}
	for _, id := range s.state.BulletIDs() {
		meta, ok := s.state.Meta(id)
		if !ok || meta.Marked {
			continue
		}
		tr, _ := s.state.Transform(id)
		if tr == nil {
			continue
		}
		snap.Bullets = append(snap.Bullets, BulletView{
			ID:    id.String(),
			Type:  meta.Type,
			Owner: meta.Owner.String(),
			X:     tr.X,
			Y:     tr.Y,
			Color: meta.Color,
		})
	}
	return snap
}
