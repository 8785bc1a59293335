package component

// Boss holds the phase controller's state for multi-phase bosses
// (relay_warden). PhaseTriggered flips false→true exactly once, at the
// first tick health falls to half; it gates the teleport and phase flip so
// repeated low-health ticks cannot re-trigger them.
type Boss struct {
	Phase          int // 1 or 2
	PhaseTriggered bool

	SweepAngle float64 // rad, phase-2 sweep aim offset
	SweepDir   float64 // +1 or -1

	VulnTimer float64 // ms, phase-2 vulnerability cycle position
	RingBeam  bool    // phase-1 ring beam toggle
	BeamTimer float64 // ms since last ring beam toggle
}
