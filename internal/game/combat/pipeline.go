package combat

import (
	"log/slog"
	"math"
	"time"

	"github.com/udisondev/combatsim/internal/fx"
	"github.com/udisondev/combatsim/internal/game/projectile"
	"github.com/udisondev/combatsim/internal/model"
)

// Actors resolves actor handles into the live arena.
type Actors interface {
	Actor(id model.ActorID) *model.Actor
	Each(fn func(a *model.Actor) bool)
}

// Covers resolves cover handles.
type Covers interface {
	Cover(id model.CoverID) *model.Cover
	Each(fn func(c *model.Cover) bool)
}

// StatusSink receives status buildup from hits.
type StatusSink interface {
	OnHit(actor model.ActorID, kind model.StatusKind, amount float64, now time.Duration) bool
}

// Tuning holds the pipeline constants.
type Tuning struct {
	// SplashFraction of the direct damage dealt to secondary targets.
	SplashFraction float64

	CounterDamage    int32
	CounterRadius    float64
	CounterKnockback float64 // units per second
	KnockbackFor     time.Duration

	// CoverPressurePerSecond is the damage one touching actor deals to cover.
	CoverPressurePerSecond float64
}

// DefaultTuning returns the stock pipeline constants.
func DefaultTuning() Tuning {
	return Tuning{
		SplashFraction:         0.5,
		CounterDamage:          15,
		CounterRadius:          90,
		CounterKnockback:       420,
		KnockbackFor:           250 * time.Millisecond,
		CoverPressurePerSecond: 4,
	}
}

// HitResult describes one damage application.
type HitResult struct {
	Source      model.ActorID
	Target      model.ActorID
	Amount      int32
	Absorbed    int32 // taken by the shield
	HealthLost  int32
	Suppressed  int32 // dropped by the overflow guard
	ShieldBroke bool
	Countered   bool
	Killed      bool
}

// DamageRequest is a direct damage application issued outside the projectile
// path (melee swings, sniper shots, dash contact, beams of AI actors).
type DamageRequest struct {
	Source model.ActorID
	Target model.ActorID
	Amount int32

	Status       model.StatusKind
	StatusAmount float64

	Knockback    model.Vec2
	KnockbackFor time.Duration
}

// CoverDamage is a direct damage application to cover.
type CoverDamage struct {
	Cover  model.CoverID
	Amount int32
}

// Pipeline applies damage to actors and cover.
// Not goroutine-safe: owned by the simulation goroutine.
type Pipeline struct {
	actors Actors
	covers Covers
	status StatusSink
	fx     fx.Emitter
	tuning Tuning

	now time.Duration

	// killFunc is called once for every actor brought to zero health.
	killFunc func(target, source model.ActorID)

	// coverDestroyedFunc is called once for every cover brought to zero health.
	coverDestroyedFunc func(c *model.Cover)

	// hitObserver — callback для наблюдения за результатами попаданий (nil в production).
	hitObserver func(HitResult)
}

// NewPipeline creates a damage pipeline. A nil emitter discards effects.
func NewPipeline(actors Actors, covers Covers, tuning Tuning, emitter fx.Emitter) *Pipeline {
	if emitter == nil {
		emitter = fx.Discard
	}
	return &Pipeline{
		actors: actors,
		covers: covers,
		fx:     emitter,
		tuning: tuning,
	}
}

// SetStatus wires the status accumulator fed by hits.
func (p *Pipeline) SetStatus(s StatusSink) { p.status = s }

// SetKillFunc sets the callback invoked when an actor dies.
func (p *Pipeline) SetKillFunc(fn func(target, source model.ActorID)) { p.killFunc = fn }

// SetCoverDestroyedFunc sets the callback invoked when cover is destroyed.
func (p *Pipeline) SetCoverDestroyedFunc(fn func(c *model.Cover)) { p.coverDestroyedFunc = fn }

// SetHitObserver sets a callback receiving every damage result (tests).
func (p *Pipeline) SetHitObserver(fn func(HitResult)) { p.hitObserver = fn }

// SetNow sets the simulation clock used for shield and counter deadlines.
func (p *Pipeline) SetNow(now time.Duration) { p.now = now }

// Tuning returns the pipeline constants.
func (p *Pipeline) Tuning() Tuning { return p.tuning }

// ApplyDamage applies amount to target: shield first, remainder to health.
// Unknown or dead targets are a no-op.
func (p *Pipeline) ApplyDamage(target model.ActorID, amount int32, source model.ActorID) HitResult {
	res := HitResult{Source: source, Target: target, Amount: amount}
	a := p.actors.Actor(target)
	if a == nil || a.IsDead() || amount <= 0 {
		return res
	}

	remainder := amount
	if s := a.Shield; s != nil {
		absorbed, rest, broke := s.Absorb(amount, p.now)
		res.Absorbed = absorbed
		remainder = rest
		if broke {
			res.ShieldBroke = true
			p.fx.Emit(fx.Effect{Kind: fx.KindShieldBreak, Pos: a.Pos, Radius: a.Radius * 1.5, Color: fx.ColorCyan, Actor: a.ID})
			if s.PreventOverflow {
				res.Suppressed = remainder
				remainder = 0
				if s.CounterReady(p.now) {
					s.ConsumeCounter(p.now)
					res.Countered = true
				}
			}
		}
	}

	res.HealthLost = a.ReduceHealth(remainder)
	res.Killed = res.HealthLost > 0 && a.IsDead()
	p.observe(res)

	if res.Countered {
		p.counter(a)
	}
	if res.Killed {
		p.killed(a, source)
	}
	return res
}

// ApplyHealthDamage reduces health directly, bypassing the shield.
// Damage-over-time effects use this path.
func (p *Pipeline) ApplyHealthDamage(target model.ActorID, amount int32) int32 {
	a := p.actors.Actor(target)
	if a == nil || a.IsDead() || amount <= 0 {
		return 0
	}
	lost := a.ReduceHealth(amount)
	res := HitResult{Target: target, Amount: amount, HealthLost: lost, Killed: lost > 0 && a.IsDead()}
	p.observe(res)
	if res.Killed {
		p.killed(a, model.NoActor)
	}
	return lost
}

// ApplyHit resolves a projectile contact: damage then status buildup.
func (p *Pipeline) ApplyHit(h projectile.Hit) HitResult {
	res := p.ApplyDamage(h.Target, h.Payload.Damage, h.Owner)
	p.fx.Emit(fx.Effect{Kind: fx.KindImpact, Pos: h.Pos, Radius: 6, Color: fx.ColorWhite})
	p.buildStatus(h.Target, h.Payload.Status, h.Payload.StatusAmount)
	return res
}

// ApplyCoverHit resolves a projectile stopped by cover.
func (p *Pipeline) ApplyCoverHit(h projectile.CoverHit) {
	p.fx.Emit(fx.Effect{Kind: fx.KindImpact, Pos: h.Pos, Radius: 4, Color: fx.ColorOrange})
	p.DamageCover(h.Cover, h.Damage)
}

// SplashAmount returns what secondary targets of a detonation take.
// Inherent explosives with an explicit splash value use it as is.
func (p *Pipeline) SplashAmount(pl projectile.Payload) int32 {
	if pl.Inherent && pl.SplashDamage > 0 {
		return pl.SplashDamage
	}
	return int32(math.Floor(float64(pl.Damage)*p.tuning.SplashFraction + 1e-9))
}

// ApplyDetonation resolves an explosion. The primary target takes full
// damage; everything else in the blast radius takes the splash amount.
// The add-on variant spares its primary from the splash, inherent
// explosives do not.
func (p *Pipeline) ApplyDetonation(d projectile.Detonation) []HitResult {
	pl := d.Payload
	p.fx.Emit(fx.Effect{Kind: fx.KindExplosion, Pos: d.Pos, Radius: pl.BlastRadius, Color: fx.ColorOrange, Duration: 300 * time.Millisecond})

	var out []HitResult
	if d.Primary != model.NoActor {
		out = append(out, p.ApplyDamage(d.Primary, pl.Damage, d.Owner))
		p.buildStatus(d.Primary, pl.Status, pl.StatusAmount)
	}

	splash := p.SplashAmount(pl)
	if splash <= 0 || pl.BlastRadius <= 0 {
		return out
	}

	var targets []model.ActorID
	p.actors.Each(func(a *model.Actor) bool {
		if a.IsDead() || a.Team == d.Team {
			return true
		}
		if a.ID == d.Primary && !pl.Inherent {
			return true
		}
		if a.Pos.Dist(d.Pos) <= pl.BlastRadius+a.Radius {
			targets = append(targets, a.ID)
		}
		return true
	})
	for _, id := range targets {
		out = append(out, p.ApplyDamage(id, splash, d.Owner))
	}

	var covers []model.CoverID
	p.covers.Each(func(c *model.Cover) bool {
		if !c.Destroyed() && c.OverlapsCircle(d.Pos, pl.BlastRadius) {
			covers = append(covers, c.ID)
		}
		return true
	})
	for _, id := range covers {
		p.DamageCover(id, splash)
	}
	return out
}

// ApplyBeamHit resolves one tick of beam contact.
func (p *Pipeline) ApplyBeamHit(h projectile.BeamHit) {
	p.fx.Emit(fx.Effect{Kind: fx.KindBeam, Pos: h.Start, End: h.End, Color: fx.ColorViolet})
	switch {
	case h.Target != model.NoActor:
		p.ApplyDamage(h.Target, h.Damage, h.Owner)
		p.buildStatus(h.Target, h.Status, h.StatusAmount)
	case h.Cover != model.NoCover:
		p.DamageCover(h.Cover, h.Damage)
	}
}

// ApplyRequests resolves direct damage requests in order.
func (p *Pipeline) ApplyRequests(reqs []DamageRequest) {
	for _, r := range reqs {
		a := p.actors.Actor(r.Target)
		if a == nil || a.IsDead() {
			continue
		}
		p.ApplyDamage(r.Target, r.Amount, r.Source)
		p.buildStatus(r.Target, r.Status, r.StatusAmount)
		if !r.Knockback.IsZero() && r.KnockbackFor > 0 && !a.IsDead() {
			a.ApplyKnockback(r.Knockback, p.now, r.KnockbackFor)
		}
	}
}

// ApplyCoverDamage resolves direct cover damage in order.
func (p *Pipeline) ApplyCoverDamage(reqs []CoverDamage) {
	for _, r := range reqs {
		p.DamageCover(r.Cover, r.Amount)
	}
}

// DamageCover takes amount from cover health. Returns the health removed.
func (p *Pipeline) DamageCover(id model.CoverID, amount int32) int32 {
	c := p.covers.Cover(id)
	if c == nil || c.Destroyed() {
		return 0
	}
	lost := c.Damage(amount)
	if c.Destroyed() {
		p.coverDestroyed(c)
	}
	return lost
}

// ApplyContactPressure wears down cover touched by living actors.
// Fractional pressure is carried per cover between ticks.
func (p *Pipeline) ApplyContactPressure(dt time.Duration) {
	if p.tuning.CoverPressurePerSecond <= 0 || dt <= 0 {
		return
	}
	per := p.tuning.CoverPressurePerSecond * dt.Seconds()

	var touching []*model.Cover
	var counts []int
	p.covers.Each(func(c *model.Cover) bool {
		if c.Destroyed() {
			return true
		}
		n := 0
		p.actors.Each(func(a *model.Actor) bool {
			// Касание с зазором в 1 единицу: актёры упираются в укрытие, а не входят в него.
			if !a.IsDead() && c.OverlapsCircle(a.Pos, a.Radius+1) {
				n++
			}
			return true
		})
		if n > 0 {
			touching = append(touching, c)
			counts = append(counts, n)
		}
		return true
	})

	for i, c := range touching {
		c.Press(per * float64(counts[i]))
		if c.Destroyed() {
			p.coverDestroyed(c)
		}
	}
}

// RegenerateShields ticks shield regeneration of every living actor.
func (p *Pipeline) RegenerateShields(dt time.Duration) {
	p.actors.Each(func(a *model.Actor) bool {
		if a.Shield != nil && !a.IsDead() {
			a.Shield.Regenerate(p.now, dt)
		}
		return true
	})
}

// counter releases the overflow guard shockwave around a.
func (p *Pipeline) counter(a *model.Actor) {
	t := p.tuning
	p.fx.Emit(fx.Effect{Kind: fx.KindShockwave, Pos: a.Pos, Radius: t.CounterRadius, Color: fx.ColorCyan, Actor: a.ID})
	slog.Debug("overflow guard counter",
		"actor", a.ID,
		"radius", t.CounterRadius)

	var targets []*model.Actor
	p.actors.Each(func(o *model.Actor) bool {
		if o.IsDead() || !a.HostileTo(o) {
			return true
		}
		if o.Pos.Dist(a.Pos) <= t.CounterRadius+o.Radius {
			targets = append(targets, o)
		}
		return true
	})
	for _, o := range targets {
		p.ApplyDamage(o.ID, t.CounterDamage, a.ID)
		if o.IsDead() || t.CounterKnockback <= 0 {
			continue
		}
		dir := o.Pos.Sub(a.Pos).Normalize()
		if dir.IsZero() {
			dir = model.FromAngle(a.Facing)
		}
		o.ApplyKnockback(dir.Scale(t.CounterKnockback), p.now, t.KnockbackFor)
	}
}

func (p *Pipeline) buildStatus(target model.ActorID, kind model.StatusKind, amount float64) {
	if p.status == nil || kind == model.StatusNone || amount <= 0 {
		return
	}
	if a := p.actors.Actor(target); a == nil || a.IsDead() {
		return
	}
	p.status.OnHit(target, kind, amount, p.now)
}

func (p *Pipeline) killed(a *model.Actor, source model.ActorID) {
	slog.Debug("actor killed",
		"actor", a.ID,
		"name", a.Name,
		"killer", source)
	if p.killFunc != nil {
		p.killFunc(a.ID, source)
	}
}

func (p *Pipeline) coverDestroyed(c *model.Cover) {
	p.fx.Emit(fx.Effect{Kind: fx.KindCoverDestroyed, Pos: c.Center, Radius: c.HalfSize.Len(), Color: fx.ColorOrange})
	if p.coverDestroyedFunc != nil {
		p.coverDestroyedFunc(c)
	}
}

func (p *Pipeline) observe(res HitResult) {
	if p.hitObserver != nil {
		p.hitObserver(res)
	}
}
