package projectile

import (
	"math"
	"time"

	"github.com/udisondev/combatsim/internal/model"
)

// steer turns a guided projectile toward its goal by at most TurnRate·dt.
// Without a goal the projectile keeps its heading.
func steer(p *Projectile, b *Guided, dt time.Duration, w Collider) {
	goal, ok := guidanceGoal(p, b, dt, w)
	if !ok {
		return
	}
	speed := p.Speed()
	if speed == 0 {
		return
	}
	heading := p.Vel.Angle()
	desired := goal.Sub(p.Pos).Angle()
	next := model.RotateTowards(heading, desired, b.TurnRate*dt.Seconds())
	p.Vel = model.FromAngle(next).Scale(speed)
}

// guidanceGoal resolves the point to steer at this tick.
// A lost target (destroyed, or outside the smart-lock cone) is replaced by
// the nearest eligible hostile; with no replacement the shot flies straight.
func guidanceGoal(p *Projectile, b *Guided, dt time.Duration, w Collider) (model.Vec2, bool) {
	if b.Target != model.NoActor {
		if pos, ok := w.ActorPos(b.Target); ok && lockable(p, b, pos) {
			return pos, true
		}
		b.Target = model.NoActor
		if id, pos, ok := acquire(p, b, w); ok {
			b.Target = id
			return pos, true
		}
		return model.Vec2{}, false
	}

	if b.SmartLock {
		if id, pos, ok := acquire(p, b, w); ok {
			b.Target = id
			return pos, true
		}
		return model.Vec2{}, false
	}

	if b.reachedAim {
		return model.Vec2{}, false
	}
	reach := math.Max(p.Radius, p.Speed()*dt.Seconds())
	if p.Pos.DistSq(b.AimPoint) <= reach*reach {
		b.reachedAim = true
		return model.Vec2{}, false
	}
	return b.AimPoint, true
}

// lockable reports whether pos is a valid guidance goal for b.
func lockable(p *Projectile, b *Guided, pos model.Vec2) bool {
	if !b.SmartLock {
		return true
	}
	return model.WithinCone(p.Vel.Angle(), pos.Sub(p.Pos), b.LockFOV/2)
}

// acquire picks the nearest hostile within SeekRadius (and the lock cone
// for smart-lock shots).
func acquire(p *Projectile, b *Guided, w Collider) (model.ActorID, model.Vec2, bool) {
	best := model.NoActor
	var bestPos model.Vec2
	bestDist := math.Inf(1)
	seek2 := b.SeekRadius * b.SeekRadius

	w.Hostiles(p.Team, func(id model.ActorID, pos model.Vec2) bool {
		d := pos.DistSq(p.Pos)
		if b.SeekRadius > 0 && d > seek2 {
			return true
		}
		if !lockable(p, b, pos) {
			return true
		}
		if d < bestDist {
			best, bestPos, bestDist = id, pos, d
		}
		return true
	})
	return best, bestPos, best != model.NoActor
}
