package ai

import (
	"log/slog"
	"math"
	"time"

	"github.com/udisondev/combatsim/internal/fx"
	"github.com/udisondev/combatsim/internal/model"
)

// ReinforcementConfig tunes a reinforcement caller.
type ReinforcementConfig struct {
	Interval time.Duration
	Count    int
	Radius   float64
	// MaxCalls caps the total number of calls; zero means unlimited.
	MaxCalls int
}

// DefaultReinforcementConfig returns stock reinforcement tuning.
func DefaultReinforcementConfig() ReinforcementConfig {
	return ReinforcementConfig{
		Interval: 8 * time.Second,
		Count:    2,
		Radius:   60,
		MaxCalls: 4,
	}
}

// SpawnFunc builds an ally to be placed at pos.
type SpawnFunc func(pos model.Vec2, team model.Team) *model.Actor

// Reinforcements wraps any controller with an independent spawn timer that
// keeps running whatever the wrapped state machine or override layers do.
type Reinforcements struct {
	Controller

	cfg    ReinforcementConfig
	spawn  SpawnFunc
	nextAt time.Duration
	calls  int
}

// NewReinforcements wraps inner with a reinforcement timer.
func NewReinforcements(inner Controller, cfg ReinforcementConfig, spawn SpawnFunc) *Reinforcements {
	return &Reinforcements{Controller: inner, cfg: cfg, spawn: spawn}
}

// Calls returns how many times reinforcements were called.
func (r *Reinforcements) Calls() int { return r.calls }

func (r *Reinforcements) Background(env Env, self *model.Actor) Decision {
	var d Decision
	now := env.Now()
	if r.spawn == nil || r.cfg.Interval <= 0 || r.cfg.Count <= 0 {
		return d
	}
	if r.cfg.MaxCalls > 0 && r.calls >= r.cfg.MaxCalls {
		return d
	}
	if r.nextAt == 0 {
		r.nextAt = now + r.cfg.Interval
		return d
	}
	if now < r.nextAt {
		return d
	}
	r.nextAt += r.cfg.Interval
	r.calls++

	step := 2 * math.Pi / float64(r.cfg.Count)
	for i := range r.cfg.Count {
		pos := self.Pos.Add(model.FromAngle(self.Facing + step*float64(i)).Scale(r.cfg.Radius))
		ally := r.spawn(pos, self.Team)
		if ally == nil {
			continue
		}
		d.Spawns = append(d.Spawns, ally)
		d.Effects = append(d.Effects, fx.Effect{Kind: fx.KindSpawn, Pos: pos, Radius: ally.Radius, Color: fx.ColorYellow})
	}
	slog.Info("reinforcements called",
		"caller", self.ID,
		"count", len(d.Spawns),
		"call", r.calls)
	return d
}
