package projectile

import (
	"time"

	"github.com/udisondev/combatsim/internal/data"
	"github.com/udisondev/combatsim/internal/model"
)

// rangeEpsilon — расстояние, ниже которого считаем, что дальность исчерпана.
const rangeEpsilon = 1e-6

// updateFunc advances one projectile by dt. Implementations append events
// through s and mark the projectile dead when it stops.
type updateFunc func(s *Simulator, p *Projectile, now, dt time.Duration, w Collider)

// updaters is the dispatch table keyed by behaviour kind.
var updaters = map[data.ProjectileKind]updateFunc{
	data.KindStraight:  updateStraight,
	data.KindPiercing:  updatePiercing,
	data.KindGuided:    updateGuided,
	data.KindExplosive: updateExplosive,
	data.KindMine:      updateMine,
	data.KindCharged:   updateCharged,
}

// Simulator owns every in-flight projectile.
// Not goroutine-safe: driven by the simulation tick only.
type Simulator struct {
	nextID ID
	items  []*Projectile
	events []Event
}

// NewSimulator creates an empty simulator.
func NewSimulator() *Simulator {
	return &Simulator{items: make([]*Projectile, 0, 64)}
}

// Spawn adds p and returns its assigned id.
func (s *Simulator) Spawn(p Projectile, now time.Duration) ID {
	s.nextID++
	p.ID = s.nextID
	p.SpawnedAt = now
	p.dead = false
	if p.Behavior == nil {
		p.Behavior = Straight{}
	}
	if p.Remaining <= 0 {
		p.Remaining = defaultRange
	}
	s.items = append(s.items, &p)
	return p.ID
}

// Step advances every projectile in spawn order and returns the contacts
// proposed this tick. Dead projectiles are removed afterwards.
func (s *Simulator) Step(now, dt time.Duration, w Collider) []Event {
	s.events = nil

	for _, p := range s.items {
		if p.dead {
			continue
		}
		fn, ok := updaters[p.Kind()]
		if !ok {
			fn = updateStraight
		}
		fn(s, p, now, dt, w)
	}

	alive := s.items[:0]
	for _, p := range s.items {
		if !p.dead {
			alive = append(alive, p)
		}
	}
	clear(s.items[len(alive):])
	s.items = alive

	return s.events
}

// Get returns a live projectile by id.
func (s *Simulator) Get(id ID) *Projectile {
	for _, p := range s.items {
		if p.ID == id && !p.dead {
			return p
		}
	}
	return nil
}

// All returns live projectiles in spawn order. The slice is owned by the
// simulator and valid until the next Step.
func (s *Simulator) All() []*Projectile { return s.items }

// Len returns the number of live projectiles.
func (s *Simulator) Len() int { return len(s.items) }

// Kill removes a projectile without an event (e.g. its owner's cleanup).
func (s *Simulator) Kill(id ID) {
	if p := s.Get(id); p != nil {
		p.dead = true
	}
}

func (s *Simulator) emit(e Event) {
	s.events = append(s.events, e)
}

// travel returns the segment covered this tick, clipped to the remaining range.
func travel(p *Projectile, dt time.Duration) (from, to model.Vec2) {
	from = p.Pos
	step := p.Vel.Scale(dt.Seconds())
	if l := step.Len(); l > p.Remaining && l > 0 {
		step = step.Scale(p.Remaining / l)
	}
	return from, from.Add(step)
}

func advance(p *Projectile, to model.Vec2) {
	p.Remaining -= p.Pos.Dist(to)
	p.Pos = to
}

// expireIfDone removes p when it ran out of range or left the arena.
func (s *Simulator) expireIfDone(p *Projectile, w Collider) {
	switch {
	case p.Remaining <= rangeEpsilon:
		s.expire(p, ExpireRange)
	case !w.InBounds(p.Pos):
		s.expire(p, ExpireBounds)
	}
}

func (s *Simulator) expire(p *Projectile, reason ExpireReason) {
	p.dead = true
	s.emit(Expired{Projectile: p.ID, Pos: p.Pos, Reason: reason})
}

func (s *Simulator) detonate(p *Projectile, pos model.Vec2, primary model.ActorID) {
	p.dead = true
	p.Pos = pos
	s.emit(Detonation{
		Projectile: p.ID,
		Owner:      p.Owner,
		Team:       p.Team,
		Pos:        pos,
		Primary:    primary,
		Payload:    p.Payload,
	})
}

// strike reports a contact of a projectile that keeps flying. An add-on
// explosive payload bursts on every struck actor; the projectile survives.
func (s *Simulator) strike(p *Projectile, target model.ActorID, pos, dir model.Vec2) {
	if p.Payload.Explosive() {
		s.emit(Detonation{
			Projectile: p.ID,
			Owner:      p.Owner,
			Team:       p.Team,
			Pos:        pos,
			Primary:    target,
			Payload:    p.Payload,
		})
		return
	}
	s.emit(Hit{
		Projectile: p.ID,
		Owner:      p.Owner,
		Target:     target,
		Pos:        pos,
		Dir:        dir,
		Payload:    p.Payload,
	})
}

// resolveFirst handles projectiles that stop at their first contact.
// Returns true when p stopped.
func (s *Simulator) resolveFirst(p *Projectile, from, to model.Vec2, w Collider) bool {
	limit, wall := 1.0, false
	if t, ok := w.Blocked(from, to); ok {
		limit, wall = t, true
	}

	var actor *ActorContact
	if cs := w.SweepActors(from, to, p.Radius, p.Team, p.Pierces()); len(cs) > 0 && cs[0].T <= limit {
		actor = &cs[0]
	}

	var cover *CoverContact
	if cs := w.SweepCover(from, to, p.Radius); len(cs) > 0 && cs[0].T <= limit {
		if actor == nil || cs[0].T < actor.T {
			cover = &cs[0]
		}
	}

	dir := p.Vel.Normalize()
	switch {
	case actor != nil && cover == nil:
		pos := from.Lerp(to, actor.T)
		if actor.Contact == ContactDeflected {
			p.dead = true
			p.Pos = pos
			s.emit(Deflected{Projectile: p.ID, Target: actor.Actor, Pos: pos})
			return true
		}
		if p.Payload.Explosive() {
			s.detonate(p, pos, actor.Actor)
			return true
		}
		p.dead = true
		p.Pos = pos
		s.emit(Hit{
			Projectile: p.ID,
			Owner:      p.Owner,
			Target:     actor.Actor,
			Pos:        pos,
			Dir:        dir,
			Payload:    p.Payload,
		})
		return true

	case cover != nil:
		pos := from.Lerp(to, cover.T)
		if p.Payload.Explosive() {
			s.detonate(p, pos, model.NoActor)
			return true
		}
		p.dead = true
		p.Pos = pos
		s.emit(CoverHit{
			Projectile: p.ID,
			Owner:      p.Owner,
			Cover:      cover.Cover,
			Pos:        pos,
			Damage:     p.Payload.Damage,
		})
		return true

	case wall:
		pos := from.Lerp(to, limit)
		if p.Payload.Explosive() {
			s.detonate(p, pos, model.NoActor)
			return true
		}
		p.Pos = pos
		s.expire(p, ExpireWall)
		return true
	}
	return false
}

func updateStraight(s *Simulator, p *Projectile, _, dt time.Duration, w Collider) {
	from, to := travel(p, dt)
	if s.resolveFirst(p, from, to, w) {
		return
	}
	advance(p, to)
	s.expireIfDone(p, w)
}

func updateGuided(s *Simulator, p *Projectile, now, dt time.Duration, w Collider) {
	if b, ok := p.Behavior.(*Guided); ok {
		steer(p, b, dt, w)
	}
	updateStraight(s, p, now, dt, w)
}

func updateExplosive(s *Simulator, p *Projectile, _, dt time.Duration, w Collider) {
	b, _ := p.Behavior.(*Explosive)

	from, to := travel(p, dt)
	arrived := false
	if b != nil && from.Dist(b.Dest) <= from.Dist(to) {
		to = b.Dest
		arrived = true
	}

	if s.resolveFirst(p, from, to, w) {
		return
	}
	advance(p, to)

	if arrived || p.Remaining <= rangeEpsilon {
		s.detonate(p, p.Pos, model.NoActor)
		return
	}
	if !w.InBounds(p.Pos) {
		s.expire(p, ExpireBounds)
	}
}

func updateMine(s *Simulator, p *Projectile, now, dt time.Duration, w Collider) {
	b, ok := p.Behavior.(*Mine)
	if !ok {
		updateExplosive(s, p, now, dt, w)
		return
	}

	if !b.Parked {
		from, to := travel(p, dt)
		arrived := from.Dist(b.Dest) <= from.Dist(to)
		if arrived {
			to = b.Dest
		}
		if t, hit := w.Blocked(from, to); hit {
			// Паркуемся перед стеной, а не в ней.
			to = from.Lerp(to, max(0, t-0.01))
			arrived = true
		}
		advance(p, to)
		if !w.InBounds(p.Pos) {
			s.expire(p, ExpireBounds)
			return
		}
		if arrived || p.Remaining <= rangeEpsilon {
			b.Parked = true
			b.ParkedAt = now
			p.Vel = model.Vec2{}
		}
		return
	}

	if b.Timeout > 0 && now-b.ParkedAt >= b.Timeout {
		s.detonate(p, p.Pos, model.NoActor)
		return
	}
	if now-b.ParkedAt < b.ArmDelay {
		return
	}

	r2 := b.TriggerRadius * b.TriggerRadius
	trigger := model.NoActor
	w.Hostiles(p.Team, func(id model.ActorID, pos model.Vec2) bool {
		if pos.DistSq(p.Pos) <= r2 {
			trigger = id
			return false
		}
		return true
	})
	if trigger != model.NoActor {
		s.detonate(p, p.Pos, trigger)
	}
}

func updatePiercing(s *Simulator, p *Projectile, _, dt time.Duration, w Collider) {
	b, ok := p.Behavior.(*Piercing)
	if !ok {
		b = &Piercing{Remaining: -1}
		p.Behavior = b
	}

	from, to := travel(p, dt)
	limit, wall := 1.0, false
	if t, hit := w.Blocked(from, to); hit {
		limit, wall = t, true
	}

	dir := p.Vel.Normalize()
	for _, c := range w.SweepActors(from, to, p.Radius, p.Team, true) {
		if c.T > limit {
			break
		}
		if !markHit(&b.hit, c.Actor) {
			continue
		}
		pos := from.Lerp(to, c.T)
		s.strike(p, c.Actor, pos, dir)
		if b.Remaining > 0 {
			b.Remaining--
			if b.Remaining == 0 {
				p.Pos = pos
				s.expire(p, ExpireSpent)
				return
			}
		}
	}

	if wall {
		p.Pos = from.Lerp(to, limit)
		s.expire(p, ExpireWall)
		return
	}
	advance(p, to)
	s.expireIfDone(p, w)
}

func updateCharged(s *Simulator, p *Projectile, _, dt time.Duration, w Collider) {
	b, ok := p.Behavior.(*Charged)
	if !ok {
		b = &Charged{Fraction: 1}
		p.Behavior = b
	}

	from, to := travel(p, dt)
	limit, wall := 1.0, false
	if t, hit := w.Blocked(from, to); hit {
		limit, wall = t, true
	}

	actors := w.SweepActors(from, to, p.Radius, p.Team, true)
	covers := w.SweepCover(from, to, p.Radius)
	dir := p.Vel.Normalize()

	// Merge both contact lists by T so events come out in flight order.
	i, j := 0, 0
	for i < len(actors) || j < len(covers) {
		takeActor := j >= len(covers) || (i < len(actors) && actors[i].T <= covers[j].T)
		if takeActor {
			c := actors[i]
			i++
			if c.T > limit || !markHit(&b.hit, c.Actor) {
				continue
			}
			s.strike(p, c.Actor, from.Lerp(to, c.T), dir)
			continue
		}

		c := covers[j]
		j++
		if c.T > limit {
			continue
		}
		if b.covers == nil {
			b.covers = make(map[model.CoverID]struct{}, 2)
		}
		if _, dup := b.covers[c.Cover]; dup {
			continue
		}
		b.covers[c.Cover] = struct{}{}
		s.emit(CoverHit{
			Projectile: p.ID,
			Owner:      p.Owner,
			Cover:      c.Cover,
			Pos:        from.Lerp(to, c.T),
			Damage:     p.Payload.Damage,
		})
	}

	if wall {
		p.Pos = from.Lerp(to, limit)
		s.expire(p, ExpireWall)
		return
	}
	advance(p, to)
	s.expireIfDone(p, w)
}
