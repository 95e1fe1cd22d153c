package model

import "time"

// AIPhase is an archetype state-machine state.
// Each archetype uses its own subset.
type AIPhase uint8

const (
	PhaseIdle AIPhase = iota

	// melee
	PhaseWindup
	PhaseAttack
	PhaseRecover

	// sniper
	PhaseCooldown
	PhaseAiming
	PhaseFire

	// charge-dash boss
	PhasePrep
	PhaseDash
	PhaseWait
	PhaseDone

	// shielded
	PhaseTracking

	// beam elite
	PhaseSweep
	PhaseLockAim
	PhaseLockBeam
)

// String returns human-readable phase name
func (p AIPhase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseWindup:
		return "WINDUP"
	case PhaseAttack:
		return "ATTACK"
	case PhaseRecover:
		return "RECOVER"
	case PhaseCooldown:
		return "COOLDOWN"
	case PhaseAiming:
		return "AIMING"
	case PhaseFire:
		return "FIRE"
	case PhasePrep:
		return "PREP"
	case PhaseDash:
		return "DASH"
	case PhaseWait:
		return "WAIT"
	case PhaseDone:
		return "DONE"
	case PhaseTracking:
		return "TRACKING"
	case PhaseSweep:
		return "SWEEP"
	case PhaseLockAim:
		return "LOCK_AIM"
	case PhaseLockBeam:
		return "LOCK_BEAM"
	default:
		return "UNKNOWN"
	}
}

// AIState is the timestamped state record of an archetype machine.
// Until is the deadline compared against the tick clock; zero means open-ended.
type AIState struct {
	Phase     AIPhase
	EnteredAt time.Duration
	Until     time.Duration
}

// Enter switches to phase p at now for duration d (0 = open-ended).
func (s *AIState) Enter(p AIPhase, now, d time.Duration) {
	s.Phase = p
	s.EnteredAt = now
	if d > 0 {
		s.Until = now + d
	} else {
		s.Until = 0
	}
}

// Expired reports whether the phase deadline has passed.
func (s AIState) Expired(now time.Duration) bool {
	return s.Until > 0 && now >= s.Until
}

// Elapsed returns the time spent in the current phase.
func (s AIState) Elapsed(now time.Duration) time.Duration {
	return now - s.EnteredAt
}

// Shift moves the phase clock forward by d (used when timers were suspended).
func (s *AIState) Shift(d time.Duration) {
	s.EnteredAt += d
	if s.Until > 0 {
		s.Until += d
	}
}
