package world

import "github.com/scrollfall/server/internal/journal"

// Player is the single player's mirrored state. The player is driven by an
// external collaborator (input capture / driver); the simulation only reads
// it through snapshots and damages it through ApplyPlayerDamage.
type Player struct {
	Present       bool
	X, Y          float64
	Width, Height float64
	HP, MaxHP     float64
}

// PlayerSnapshot is the read-only view handed to AI and guidance code.
type PlayerSnapshot struct {
	X, Y          float64
	Width, Height float64
	CenterX       float64
	CenterY       float64
	HP, MaxHP     float64
}

// SetPlayer installs or replaces the player state.
func (s *State) SetPlayer(p Player) {
	s.player = p
	if p.Present {
		s.journal.Record(journal.Patch{
			Kind:    journal.PatchPlayerPos,
			Payload: journal.PositionPayload{X: p.X, Y: p.Y},
		})
	}
}

// SetPlayerPosition moves the player and journals the change.
func (s *State) SetPlayerPosition(x, y float64) {
	if !s.player.Present {
		return
	}
	s.player.X, s.player.Y = x, y
	s.journal.Record(journal.Patch{
		Kind:    journal.PatchPlayerPos,
		Payload: journal.PositionPayload{X: x, Y: y},
	})
}

// PlayerSnapshot returns the current player view, or nil when no player is
// present. A nil snapshot means "do not act" to AI and fire control, never
// an error.
func (s *State) PlayerSnapshot() *PlayerSnapshot {
	if !s.player.Present {
		return nil
	}
	return &PlayerSnapshot{
		X:       s.player.X,
		Y:       s.player.Y,
		Width:   s.player.Width,
		Height:  s.player.Height,
		CenterX: s.player.X + s.player.Width/2,
		CenterY: s.player.Y + s.player.Height/2,
		HP:      s.player.HP,
		MaxHP:   s.player.MaxHP,
	}
}

// ApplyPlayerDamage subtracts damage from the player, clamped to
// [0, MaxHP], and returns the new HP. ok is false when no player is
// present.
func (s *State) ApplyPlayerDamage(amount float64) (hp float64, ok bool) {
	if !s.player.Present {
		return 0, false
	}
	s.player.HP -= amount
	if s.player.HP < 0 {
		s.player.HP = 0
	}
	if s.player.HP > s.player.MaxHP {
		s.player.HP = s.player.MaxHP
	}
	s.journal.Record(journal.Patch{
		Kind:    journal.PatchPlayerHealth,
		Payload: journal.HealthPayload{HP: s.player.HP, MaxHP: s.player.MaxHP},
	})
	return s.player.HP, true
}
