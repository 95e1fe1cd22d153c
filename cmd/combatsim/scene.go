package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/combatsim/internal/ai"
	"github.com/udisondev/combatsim/internal/config"
	"github.com/udisondev/combatsim/internal/fx"
	"github.com/udisondev/combatsim/internal/game/combat"
	"github.com/udisondev/combatsim/internal/game/loadout"
	"github.com/udisondev/combatsim/internal/game/status"
	"github.com/udisondev/combatsim/internal/model"
	"github.com/udisondev/combatsim/internal/sim"
	"github.com/udisondev/combatsim/internal/world"
)

// applyBuild unlocks the configured weapons and installs the skirmish build.
// Rejected modifiers are logged and skipped.
func applyBuild(lo *loadout.Loadout, sk config.Skirmish) error {
	for _, id := range append([]string{sk.Weapon}, sk.Unlock...) {
		if err := lo.Unlock(id); err != nil {
			return fmt.Errorf("unlocking weapon: %w", err)
		}
	}

	for slot, mod := range sk.Mods {
		if slot >= loadout.SlotCount {
			slog.Warn("too many modifiers, rest ignored", "weapon", sk.Weapon, "max", loadout.SlotCount)
			break
		}
		ok, err := lo.SetModifier(sk.Weapon, slot, mod)
		if err != nil {
			return fmt.Errorf("setting modifier %q: %w", mod, err)
		}
		if !ok {
			slog.Warn("modifier rejected", "weapon", sk.Weapon, "slot", slot, "modifier", mod)
		}
	}

	if sk.Core != "" {
		ok, err := lo.SetCore(sk.Weapon, sk.Core)
		if err != nil {
			return fmt.Errorf("setting core %q: %w", sk.Core, err)
		}
		if !ok {
			slog.Warn("core rejected", "weapon", sk.Weapon, "core", sk.Core)
		}
	}
	return nil
}

// engineConfig maps file configuration onto engine tuning.
func engineConfig(cfg *config.Simulation) sim.Config {
	ec := sim.DefaultConfig()
	ec.Seed = cfg.Seed
	ec.Status = status.Tuning{
		Cadence:        cfg.Status.Cadence,
		IgniteDuration: cfg.Status.IgniteDuration,
		IgniteDPS:      cfg.Status.IgniteDPS,
		ToxinDuration:  cfg.Status.ToxinDuration,
		ToxinDPS:       cfg.Status.ToxinDPS,
		StunDuration:   cfg.Status.StunDuration,
	}
	ec.Combat = combat.Tuning{
		SplashFraction:         cfg.Combat.SplashFraction,
		CounterDamage:          cfg.Combat.CounterDamage,
		CounterRadius:          cfg.Combat.CounterRadius,
		CounterKnockback:       cfg.Combat.CounterKnockback,
		KnockbackFor:           cfg.Combat.KnockbackFor,
		CoverPressurePerSecond: cfg.Combat.CoverPressurePerSecond,
	}
	return ec
}

// occluder returns the static map described by the arena section.
func occluder(a config.Arena) (world.Occluder, float64, float64, error) {
	if len(a.Layout) == 0 {
		return world.OpenField{Width: a.Width, Height: a.Height}, a.Width, a.Height, nil
	}
	g, err := world.ParseGrid(a.CellSize, a.Layout)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("parsing arena layout: %w", err)
	}
	w, h := g.Size()
	return g, w, h, nil
}

// buildScene places the player on the left edge and the enemies in a
// column on the right edge.
func buildScene(cfg *config.Simulation, lo *loadout.Loadout, emitter fx.Emitter) (*sim.Engine, error) {
	occ, w, h, err := occluder(cfg.Arena)
	if err != nil {
		return nil, err
	}

	engine := sim.NewEngine(engineConfig(cfg), occ, lo, emitter)

	player := model.NewActor("player", model.TeamPlayer, cfg.Skirmish.Health, model.V(w*0.15, h/2))
	player.Caps |= model.CapPlayer
	if cfg.Skirmish.Shield > 0 {
		player.Shield = &model.Shield{
			Current:         cfg.Skirmish.Shield,
			Max:             cfg.Skirmish.Shield,
			RegenDelay:      2 * time.Second,
			RegenPerSecond:  15,
			CounterCooldown: time.Second,
		}
	}
	id := engine.AddActor(player)
	if err := engine.Equip(id, cfg.Skirmish.Weapon); err != nil {
		return nil, err
	}

	for _, c := range cfg.Arena.Covers {
		engine.AddCover(model.NewCover(model.V(c.X, c.Y), model.V(c.Half, c.Half), c.Health))
	}

	n := len(cfg.Skirmish.Enemies)
	for i, name := range cfg.Skirmish.Enemies {
		arch, ok := model.ParseArchetype(name)
		if !ok {
			return nil, fmt.Errorf("unknown enemy archetype %q", name)
		}
		pos := model.V(w*0.85, h*float64(i+1)/float64(n+1))
		e := ai.NewEnemy(arch, pos)
		e.Facing = player.Pos.Sub(pos).Angle()
		engine.AddActor(e)
	}

	engine.SetInput(sim.NewScriptedInput())
	slog.Info("scene ready",
		"weapon", cfg.Skirmish.Weapon,
		"build", lo.Build(cfg.Skirmish.Weapon),
		"enemies", n,
		"covers", len(cfg.Arena.Covers))
	return engine, nil
}
