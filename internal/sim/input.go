package sim

import (
	"math"
	"time"

	"github.com/udisondev/combatsim/internal/ai"
	"github.com/udisondev/combatsim/internal/model"
)

// IntentSource supplies the per-tick intent of input-driven actors.
// The engine never polls devices itself.
type IntentSource interface {
	Intent(env ai.Env, self *model.Actor) model.Intent
}

// IntentFunc adapts a function to IntentSource.
type IntentFunc func(env ai.Env, self *model.Actor) model.Intent

func (f IntentFunc) Intent(env ai.Env, self *model.Actor) model.Intent { return f(env, self) }

// ScriptedInput is a simple autopilot for headless runs: it keeps a preferred
// distance to the nearest hostile, strafes around it and fires in bursts
// while it has line of sight.
type ScriptedInput struct {
	KeepAway float64
	Burst    time.Duration
	Pause    time.Duration

	held map[model.ActorID]bool
}

// NewScriptedInput creates an autopilot with stock timing.
func NewScriptedInput() *ScriptedInput {
	return &ScriptedInput{
		KeepAway: 250,
		Burst:    900 * time.Millisecond,
		Pause:    300 * time.Millisecond,
		held:     make(map[model.ActorID]bool),
	}
}

func (s *ScriptedInput) Intent(env ai.Env, self *model.Actor) model.Intent {
	if s.held == nil {
		s.held = make(map[model.ActorID]bool)
	}
	target := env.NearestHostile(self, 0)
	if target == nil {
		s.held[self.ID] = false
		return model.Intent{Aim: self.Pos.Add(model.FromAngle(self.Facing))}
	}

	in := model.Intent{Aim: target.Pos}
	to := target.Pos.Sub(self.Pos)
	dist := to.Len()
	dir := to.Normalize()
	switch {
	case dist < s.KeepAway:
		in.Move = dir.Scale(-1)
	case dist > s.KeepAway*1.5:
		in.Move = dir
	default:
		// Кружим вокруг цели.
		in.Move = dir.Rotate(math.Pi / 2)
	}

	cycle := s.Burst + s.Pause
	held := false
	if cycle > 0 && env.LineOfSight(self.Pos, target.Pos) {
		held = env.Now()%cycle < s.Burst
	}
	in.FireHeld = held
	in.FirePressed = held && !s.held[self.ID]
	s.held[self.ID] = held
	return in
}
