package ai

import (
	"math"
	"time"

	"github.com/udisondev/combatsim/internal/model"
)

// New returns a controller with stock tuning for arch.
// ArchetypeNone gets nil: such actors are not AI driven.
func New(arch model.Archetype) Controller {
	switch arch {
	case model.ArchetypeMelee:
		return NewMelee(DefaultMeleeConfig())
	case model.ArchetypeSniper:
		return NewSniper(DefaultSniperConfig())
	case model.ArchetypeDasher:
		return NewDasher(DefaultDasherConfig())
	case model.ArchetypeShielded:
		return NewShielded(DefaultShieldedConfig())
	case model.ArchetypeBeamElite:
		return NewBeamElite(DefaultBeamEliteConfig())
	default:
		return nil
	}
}

// ForActor returns the controller for a, wrapped with reinforcements when
// the actor can call them.
func ForActor(a *model.Actor, spawn SpawnFunc, rc ReinforcementConfig) Controller {
	c := New(a.Archetype)
	if c == nil {
		return nil
	}
	if a.Caps.Has(model.CapReinforcer) {
		return NewReinforcements(c, rc, spawn)
	}
	return c
}

// NewEnemy builds a hostile actor with stock stats for arch.
func NewEnemy(arch model.Archetype, pos model.Vec2) *model.Actor {
	var a *model.Actor
	switch arch {
	case model.ArchetypeSniper:
		a = model.NewActor("sniper", model.TeamHostile, 60, pos)
		a.Speed = 90
	case model.ArchetypeDasher:
		a = model.NewActor("dasher", model.TeamHostile, 600, pos)
		a.Caps |= model.CapBoss | model.CapReinforcer
		a.Radius = 22
		a.Speed = 80
		a.Shield = &model.Shield{
			Current:         150,
			Max:             150,
			RegenDelay:      4 * time.Second,
			RegenPerSecond:  15,
			PreventOverflow: true,
			CounterCooldown: 6 * time.Second,
		}
	case model.ArchetypeShielded:
		a = model.NewActor("shield bearer", model.TeamHostile, 140, pos)
		a.Caps |= model.CapFacingArc
		a.Speed = 70
		a.Arc = &model.FacingArc{HalfAngle: math.Pi / 3, Radius: 20, TurnRate: math.Pi / 3}
	case model.ArchetypeBeamElite:
		a = model.NewActor("beam elite", model.TeamHostile, 260, pos)
		a.Speed = 60
		a.Shield = &model.Shield{Current: 60, Max: 60, RegenDelay: 3 * time.Second, RegenPerSecond: 10}
	default:
		arch = model.ArchetypeMelee
		a = model.NewActor("brawler", model.TeamHostile, 80, pos)
		a.Speed = 140
	}
	a.Archetype = arch
	return a
}
