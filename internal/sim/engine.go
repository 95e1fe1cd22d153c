package sim

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/udisondev/combatsim/internal/ai"
	"github.com/udisondev/combatsim/internal/fx"
	"github.com/udisondev/combatsim/internal/game/combat"
	"github.com/udisondev/combatsim/internal/game/loadout"
	"github.com/udisondev/combatsim/internal/game/projectile"
	"github.com/udisondev/combatsim/internal/game/status"
	"github.com/udisondev/combatsim/internal/model"
	"github.com/udisondev/combatsim/internal/world"
)

// Config tunes an Engine.
type Config struct {
	Seed           uint64
	Status         status.Tuning
	Combat         combat.Tuning
	Reinforcements ai.ReinforcementConfig
}

// DefaultConfig returns stock tuning.
func DefaultConfig() Config {
	return Config{
		Seed:           1,
		Status:         status.DefaultTuning(),
		Combat:         combat.DefaultTuning(),
		Reinforcements: ai.DefaultReinforcementConfig(),
	}
}

// Stats counts what happened since the engine started.
type Stats struct {
	Ticks           uint64
	Shots           uint64
	Kills           uint64
	Spawns          uint64
	CoversDestroyed uint64
}

// armament is the fire control of one input-driven actor.
type armament struct {
	weapon  string
	mags    *projectile.Magazines
	trigger *projectile.Trigger
	beam    *projectile.Beam
}

// Engine advances the whole combat simulation one step at a time.
//
// Phase order of Step is fixed: AI decisions, player fire, projectile advance,
// damage resolution, status ticking, cleanup. The arena is only mutated in
// cleanup, so every phase sees the same set of actors.
// Not goroutine-safe: driven by a single Runner.
type Engine struct {
	cfg Config

	now time.Duration
	dt  time.Duration
	rng *rand.Rand
	fx  fx.Emitter

	ids    *world.ObjectIDGenerator
	arena  *world.Arena
	covers *world.CoverSet
	col    *collider

	ai          *ai.Manager
	status      *status.Accumulator
	combat      *combat.Pipeline
	projectiles *projectile.Simulator

	loadout *loadout.Loadout
	input   IntentSource
	arms    map[model.ActorID]*armament

	// Решения текущего тика, применяются в фазе урона.
	pendingDamage []combat.DamageRequest
	pendingCover  []combat.CoverDamage
	beamHits      []projectile.BeamHit

	stats Stats
}

// NewEngine creates an engine over occ. lo supplies player weapon builds and
// may be nil, in which case every weapon uses its base definition.
func NewEngine(cfg Config, occ world.Occluder, lo *loadout.Loadout, emitter fx.Emitter) *Engine {
	if emitter == nil {
		emitter = fx.Discard
	}
	if lo == nil {
		lo = loadout.New(nil)
	}
	ids := world.NewObjectIDGenerator()
	e := &Engine{
		cfg:         cfg,
		rng:         rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		fx:          emitter,
		ids:         ids,
		arena:       world.NewArena(ids),
		covers:      world.NewCoverSet(ids),
		ai:          ai.NewManager(),
		projectiles: projectile.NewSimulator(),
		loadout:     lo,
		arms:        make(map[model.ActorID]*armament),
	}
	e.col = &collider{arena: e.arena, covers: e.covers, occ: occ}

	e.combat = combat.NewPipeline(e.arena, e.covers, cfg.Combat, emitter)
	e.status = status.NewAccumulator(cfg.Status, e.combat, emitter)
	e.combat.SetStatus(e.status)
	e.combat.SetKillFunc(e.onKill)
	e.combat.SetCoverDestroyedFunc(func(c *model.Cover) {
		e.stats.CoversDestroyed++
		slog.Debug("cover destroyed", "cover", c.ID, "at", e.now)
	})
	return e
}

// SetInput sets the intent source of player actors.
func (e *Engine) SetInput(src IntentSource) { e.input = src }

// AddActor places a into the arena immediately. Use it to set up a scene
// before the first Step; during a tick spawns go through AI decisions.
func (e *Engine) AddActor(a *model.Actor) model.ActorID {
	id := e.arena.Add(a)
	e.attach(a)
	return id
}

// AddCover places destructible cover into the arena.
func (e *Engine) AddCover(c *model.Cover) model.CoverID {
	return e.covers.Add(c)
}

// Equip arms player with weaponID as currently built in the loadout.
func (e *Engine) Equip(player model.ActorID, weaponID string) error {
	a := e.arena.Actor(player)
	if a == nil {
		return fmt.Errorf("equip %q: actor %d not found", weaponID, player)
	}
	st, err := e.loadout.Equip(weaponID)
	if err != nil {
		return fmt.Errorf("equip actor %d: %w", player, err)
	}

	arm, ok := e.arms[player]
	if !ok {
		arm = &armament{mags: projectile.NewMagazines()}
		e.arms[player] = arm
	}
	arm.weapon = weaponID
	arm.trigger, arm.beam = nil, nil
	if st.Beam {
		arm.beam = projectile.NewBeam(st)
	} else {
		arm.trigger = projectile.NewTrigger(st, arm.mags, e.rng)
	}
	a.Weapon = weaponID
	e.guard(a, st)

	slog.Info("weapon equipped", "actor", player, "weapon", weaponID, "kind", st.Kind)
	return nil
}

func (e *Engine) Now() time.Duration                  { return e.now }
func (e *Engine) Dt() time.Duration                   { return e.dt }
func (e *Engine) Actor(id model.ActorID) *model.Actor { return e.arena.Actor(id) }
func (e *Engine) Rand() *rand.Rand                    { return e.rng }

func (e *Engine) NearestHostile(self *model.Actor, maxDist float64) *model.Actor {
	return e.arena.NearestHostile(self.Pos, self.Team, maxDist)
}

func (e *Engine) Hostiles(self *model.Actor, fn func(a *model.Actor) bool) {
	e.arena.Each(func(a *model.Actor) bool {
		if a.IsDead() || a.Team == self.Team {
			return true
		}
		return fn(a)
	})
}

func (e *Engine) LineOfSight(from, to model.Vec2) bool {
	return e.col.occ.LineOfSight(from, to)
}

func (e *Engine) SweepCover(from, to model.Vec2, radius float64) []projectile.CoverContact {
	return e.col.SweepCover(from, to, radius)
}

func (e *Engine) Raycast(origin, dir model.Vec2, maxDist float64, team model.Team) projectile.RayHit {
	return e.col.Raycast(origin, dir, maxDist, team)
}

func (e *Engine) Stunned(id model.ActorID) bool     { return e.status.Stunned(id, e.now) }
func (e *Engine) Disoriented(id model.ActorID) bool { return e.status.Disoriented(id, e.now) }

// Arena returns the live actor arena.
func (e *Engine) Arena() *world.Arena { return e.arena }

// Covers returns the cover registry.
func (e *Engine) Covers() *world.CoverSet { return e.covers }

// Status returns the status accumulator.
func (e *Engine) Status() *status.Accumulator { return e.status }

// Combat returns the damage pipeline.
func (e *Engine) Combat() *combat.Pipeline { return e.combat }

// Projectiles returns the projectile simulator.
func (e *Engine) Projectiles() *projectile.Simulator { return e.projectiles }

// AI returns the controller manager.
func (e *Engine) AI() *ai.Manager { return e.ai }

// Stats returns the running counters.
func (e *Engine) Stats() Stats { return e.stats }

// Done reports whether one side has no living actors left.
func (e *Engine) Done() bool {
	if e.arena.Pending() > 0 {
		return false
	}
	return e.arena.CountAlive(model.TeamPlayer) == 0 || e.arena.CountAlive(model.TeamHostile) == 0
}

// Step advances the simulation by dt.
func (e *Engine) Step(dt time.Duration) {
	if dt <= 0 {
		return
	}
	e.dt = dt
	e.combat.SetNow(e.now)

	e.thinkAI()
	e.firePlayers()
	events := e.projectiles.Step(e.now, dt, e.col)
	e.resolve(events)

	e.combat.ApplyContactPressure(dt)
	e.combat.RegenerateShields(dt)
	e.status.Advance(e.now + dt)

	e.cleanup(dt)
	e.now += dt
	e.stats.Ticks++
}

// thinkAI collects controller decisions. Damage waits for the resolve phase.
func (e *Engine) thinkAI() {
	for _, o := range e.ai.Think(e) {
		a := e.arena.Actor(o.Actor)
		if a == nil {
			continue
		}
		a.Vel = o.Decision.Move
		e.pendingDamage = append(e.pendingDamage, o.Decision.Damage...)
		e.pendingCover = append(e.pendingCover, o.Decision.CoverDamage...)
		for _, s := range o.Decision.Spawns {
			e.arena.QueueSpawn(s)
		}
		for _, fxe := range o.Decision.Effects {
			e.fx.Emit(fxe)
		}
	}
}

// firePlayers turns intents into movement, projectiles and beam contact.
// Stunned players neither move nor fire.
func (e *Engine) firePlayers() {
	if e.input == nil {
		return
	}
	e.arena.Each(func(a *model.Actor) bool {
		if !a.IsPlayer() || a.IsDead() {
			return true
		}
		if e.Stunned(a.ID) {
			a.Vel = model.Vec2{}
			return true
		}
		in := e.input.Intent(e, a)

		move := in.Move
		if l := move.Len(); l > 1 {
			move = move.Scale(1 / l)
		}
		a.Vel = move.Scale(a.Speed)
		if vel, ok := a.Knockback(e.now); ok {
			a.Vel = vel
		}
		if !in.Aim.Sub(a.Pos).IsZero() {
			a.Facing = in.Aim.Sub(a.Pos).Angle()
		}

		arm, ok := e.arms[a.ID]
		if !ok {
			return true
		}
		e.refresh(a, arm)
		shot := projectile.Shot{Owner: a.ID, Team: a.Team, Origin: a.Pos, Aim: in.Aim}

		if arm.beam != nil {
			if arm.beam.Update(in.FireHeld, e.now, e.dt) {
				e.beamHits = append(e.beamHits, arm.beam.Cast(shot, e.dt, e.col))
			}
			return true
		}

		trig := projectile.Input{Held: in.FireHeld, Pressed: in.FirePressed, Reload: in.Reload}
		fired := arm.trigger.Update(trig, shot, e.now, e.dt)
		for _, p := range fired {
			e.projectiles.Spawn(p, e.now)
		}
		if len(fired) > 0 {
			e.stats.Shots++
			e.fx.Emit(fx.Effect{Kind: fx.KindMuzzle, Pos: a.Pos, Radius: 4, Color: fx.ColorYellow, Actor: a.ID})
		}
		return true
	})
}

// refresh recomposes the effective weapon so build edits apply on the next shot.
func (e *Engine) refresh(a *model.Actor, arm *armament) {
	st, err := e.loadout.Effective(arm.weapon)
	if err != nil {
		return
	}
	if arm.beam != nil {
		arm.beam.Stats = st
	} else {
		arm.trigger.Stats = st
	}
	e.guard(a, st)
}

// guard mirrors the weapon's overflow guard onto the wielder's shield.
func (e *Engine) guard(a *model.Actor, st loadout.Stats) {
	if a.Shield != nil {
		a.Shield.PreventOverflow = st.OverflowGuard
	}
}

// resolve applies every damage source of the tick in a fixed order:
// AI requests, beam contact, then projectile events in emission order.
func (e *Engine) resolve(events []projectile.Event) {
	e.combat.ApplyRequests(e.pendingDamage)
	e.combat.ApplyCoverDamage(e.pendingCover)
	e.pendingDamage = e.pendingDamage[:0]
	e.pendingCover = e.pendingCover[:0]

	for _, h := range e.beamHits {
		e.combat.ApplyBeamHit(h)
	}
	e.beamHits = e.beamHits[:0]

	for _, ev := range events {
		switch ev := ev.(type) {
		case projectile.Hit:
			e.combat.ApplyHit(ev)
		case projectile.CoverHit:
			e.combat.ApplyCoverHit(ev)
		case projectile.Detonation:
			e.combat.ApplyDetonation(ev)
		case projectile.Deflected:
			e.fx.Emit(fx.Effect{Kind: fx.KindDeflect, Pos: ev.Pos, Radius: 6, Color: fx.ColorCyan, Actor: ev.Target})
		case projectile.Expired:
			slog.Debug("projectile expired", "projectile", ev.Projectile, "reason", ev.Reason.String())
		}
	}
}

// cleanup applies queued spawns and removals, drops destroyed cover and
// integrates movement.
func (e *Engine) cleanup(dt time.Duration) {
	spawned, removed := e.arena.Flush()
	for _, id := range removed {
		e.ai.Unregister(id)
		e.status.Remove(id)
		delete(e.arms, id)
	}
	for _, a := range spawned {
		e.attach(a)
		e.stats.Spawns++
	}
	e.covers.RemoveDestroyed()

	e.arena.Each(func(a *model.Actor) bool {
		if a.IsDead() || a.Vel.IsZero() {
			return true
		}
		to := a.Pos.Add(a.Vel.Scale(dt.Seconds()))
		a.Pos = e.col.moveTo(a.Pos, to, a.Radius)
		return true
	})
}

// attach registers the AI controller of a new non-player actor.
func (e *Engine) attach(a *model.Actor) {
	if a.IsPlayer() {
		return
	}
	if c := ai.ForActor(a, e.spawnAlly, e.cfg.Reinforcements); c != nil {
		e.ai.Register(a.ID, c)
	}
}

func (e *Engine) spawnAlly(pos model.Vec2, team model.Team) *model.Actor {
	a := ai.NewEnemy(model.ArchetypeMelee, pos)
	a.Team = team
	return a
}

func (e *Engine) onKill(target, source model.ActorID) {
	e.stats.Kills++
	e.arena.QueueRemove(target)
	slog.Info("actor killed", "actor", target, "by", source, "at", e.now)
}
