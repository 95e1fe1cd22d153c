package projectile

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/combatsim/internal/model"
)

const tick = 50 * time.Millisecond

// runTicks steps the simulator n times and collects every event.
func runTicks(s *Simulator, w Collider, n int, dt time.Duration) []Event {
	var all []Event
	for i := 1; i <= n; i++ {
		all = append(all, s.Step(time.Duration(i)*dt, dt, w)...)
	}
	return all
}

func eventsOf[T Event](evs []Event) []T {
	var out []T
	for _, e := range evs {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func bullet(pos, vel model.Vec2, b Behavior) Projectile {
	return Projectile{
		Owner:     100,
		Team:      model.TeamPlayer,
		Pos:       pos,
		Vel:       vel,
		Radius:    ProjectileRadius,
		Payload:   Payload{Damage: 10},
		Behavior:  b,
		Remaining: 2000,
	}
}

func TestStraight_HitsFirstActor(t *testing.T) {
	w := newFakeWorld()
	w.addActor(1, model.V(1200, 1000), model.TeamHostile)
	w.addActor(2, model.V(1300, 1000), model.TeamHostile)
	w.addActor(3, model.V(1100, 1000), model.TeamPlayer) // friendly, ignored

	s := NewSimulator()
	id := s.Spawn(bullet(model.V(1000, 1000), model.V(1000, 0), Straight{}), 0)

	evs := runTicks(s, w, 10, tick)
	hits := eventsOf[Hit](evs)
	require.Len(t, hits, 1)
	assert.Equal(t, model.ActorID(1), hits[0].Target)
	assert.Equal(t, id, hits[0].Projectile)
	assert.InDelta(t, 1186, hits[0].Pos.X, 1e-6)
	assert.Equal(t, int32(10), hits[0].Payload.Damage)
	assert.Zero(t, s.Len())
}

func TestStraight_ExpiresAtRange(t *testing.T) {
	w := newFakeWorld()
	s := NewSimulator()
	p := bullet(model.V(1000, 1000), model.V(100, 0), Straight{})
	p.Remaining = 100
	s.Spawn(p, 0)

	evs := runTicks(s, w, 12, 100*time.Millisecond)
	exp := eventsOf[Expired](evs)
	require.Len(t, exp, 1)
	assert.Equal(t, ExpireRange, exp[0].Reason)
	assert.InDelta(t, 1100, exp[0].Pos.X, 1e-6)
}

func TestStraight_StopsAtWallAndCover(t *testing.T) {
	w := newFakeWorld()
	w.addWall(model.V(1300, 0), model.V(1310, 5000))
	w.addCover(7, model.V(1200, 2000))

	s := NewSimulator()
	s.Spawn(bullet(model.V(1000, 1000), model.V(1000, 0), Straight{}), 0)
	s.Spawn(bullet(model.V(1000, 2000), model.V(1000, 0), Straight{}), 0)

	evs := runTicks(s, w, 10, tick)

	exp := eventsOf[Expired](evs)
	require.Len(t, exp, 1)
	assert.Equal(t, ExpireWall, exp[0].Reason)
	assert.InDelta(t, 1300, exp[0].Pos.X, 1e-6)

	covers := eventsOf[CoverHit](evs)
	require.Len(t, covers, 1)
	assert.Equal(t, model.CoverID(7), covers[0].Cover)
	assert.Equal(t, int32(10), covers[0].Damage)
}

func TestStraight_OutOfBounds(t *testing.T) {
	w := newFakeWorld()
	s := NewSimulator()
	s.Spawn(bullet(model.V(4990, 1000), model.V(1000, 0), Straight{}), 0)

	exp := eventsOf[Expired](runTicks(s, w, 2, tick))
	require.Len(t, exp, 1)
	assert.Equal(t, ExpireBounds, exp[0].Reason)
}

func TestFacingArc_DeflectsOnlyNonPiercing(t *testing.T) {
	w := newFakeWorld()
	w.addActor(1, model.V(1200, 1000), model.TeamHostile).deflect = true

	s := NewSimulator()
	s.Spawn(bullet(model.V(1000, 1000), model.V(1000, 0), Straight{}), 0)
	evs := runTicks(s, w, 10, tick)
	assert.Len(t, eventsOf[Deflected](evs), 1)
	assert.Empty(t, eventsOf[Hit](evs))

	s = NewSimulator()
	s.Spawn(bullet(model.V(1000, 1000), model.V(1000, 0), &Piercing{Remaining: -1}), 0)
	evs = runTicks(s, w, 10, tick)
	assert.Empty(t, eventsOf[Deflected](evs))
	assert.Len(t, eventsOf[Hit](evs), 1)
}

func TestPiercing_RemainingCount(t *testing.T) {
	w := newFakeWorld()
	for i, x := range []float64{1200, 1300, 1400} {
		w.addActor(model.ActorID(i+1), model.V(x, 1000), model.TeamHostile)
	}

	s := NewSimulator()
	s.Spawn(bullet(model.V(1000, 1000), model.V(1000, 0), &Piercing{Remaining: 2}), 0)
	evs := runTicks(s, w, 20, tick)

	hits := eventsOf[Hit](evs)
	require.Len(t, hits, 2)
	assert.Equal(t, model.ActorID(1), hits[0].Target)
	assert.Equal(t, model.ActorID(2), hits[1].Target)

	exp := eventsOf[Expired](evs)
	require.Len(t, exp, 1)
	assert.Equal(t, ExpireSpent, exp[0].Reason)
}

func TestPiercing_IgnoresCoverAndHitsEachOnce(t *testing.T) {
	w := newFakeWorld()
	w.addActor(1, model.V(1200, 1000), model.TeamHostile)
	w.addActor(2, model.V(1400, 1000), model.TeamHostile)
	w.addCover(9, model.V(1300, 1000))

	s := NewSimulator()
	s.Spawn(bullet(model.V(1000, 1000), model.V(1000, 0), &Piercing{Remaining: -1}), 0)
	evs := runTicks(s, w, 20, tick)

	assert.Len(t, eventsOf[Hit](evs), 2)
	assert.Empty(t, eventsOf[CoverHit](evs))
}

func TestPiercing_SlowOverlapCountsOnce(t *testing.T) {
	w := newFakeWorld()
	w.addActor(1, model.V(1030, 1000), model.TeamHostile)

	s := NewSimulator()
	// 5 units per tick: the shot overlaps the actor for several ticks.
	s.Spawn(bullet(model.V(1000, 1000), model.V(100, 0), &Piercing{Remaining: -1}), 0)
	evs := runTicks(s, w, 30, tick)

	assert.Len(t, eventsOf[Hit](evs), 1)
}

func TestGuided_BoundedTurn(t *testing.T) {
	w := newFakeWorld()
	w.addActor(1, model.V(1000, 3000), model.TeamHostile)

	s := NewSimulator()
	id := s.Spawn(bullet(model.V(1000, 1000), model.V(500, 0), &Guided{TurnRate: 1, Target: 1}), 0)
	s.Step(100*time.Millisecond, 100*time.Millisecond, w)

	p := s.Get(id)
	require.NotNil(t, p)
	assert.InDelta(t, 0.1, p.Vel.Angle(), 1e-9)
	assert.InDelta(t, 500, p.Speed(), 1e-9)
}

func TestGuided_ReplacementTarget(t *testing.T) {
	w := newFakeWorld()
	w.addActor(1, model.V(1000, 3000), model.TeamHostile).dead = true
	w.addActor(2, model.V(1500, 1200), model.TeamHostile)

	s := NewSimulator()
	g := &Guided{TurnRate: 2, Target: 1}
	s.Spawn(bullet(model.V(1000, 1000), model.V(500, 0), g), 0)
	s.Step(tick, tick, w)

	assert.Equal(t, model.ActorID(2), g.Target)
}

func TestGuided_NoTargetFliesStraight(t *testing.T) {
	w := newFakeWorld()
	w.addActor(1, model.V(1000, 3000), model.TeamHostile).dead = true

	s := NewSimulator()
	g := &Guided{TurnRate: 2, Target: 1}
	id := s.Spawn(bullet(model.V(1000, 1000), model.V(500, 0), g), 0)
	s.Step(tick, tick, w)

	assert.Equal(t, model.NoActor, g.Target)
	assert.InDelta(t, 0, s.Get(id).Vel.Angle(), 1e-12)
}

func TestGuided_SmartLockIgnoresTargetsOutsideCone(t *testing.T) {
	w := newFakeWorld()
	w.addActor(1, model.V(500, 1000), model.TeamHostile) // directly behind

	s := NewSimulator()
	g := &Guided{TurnRate: 3, Target: 1, SmartLock: true, LockFOV: 1.0}
	id := s.Spawn(bullet(model.V(1000, 1000), model.V(500, 0), g), 0)
	s.Step(tick, tick, w)

	assert.Equal(t, model.NoActor, g.Target)
	assert.InDelta(t, 0, s.Get(id).Vel.Angle(), 1e-12)
}

func TestGuided_SteersToAimPoint(t *testing.T) {
	w := newFakeWorld()
	s := NewSimulator()
	g := &Guided{TurnRate: 10, AimPoint: model.V(1000, 1500)}
	id := s.Spawn(bullet(model.V(1000, 1000), model.V(500, 0), g), 0)
	s.Step(tick, tick, w)

	assert.Greater(t, s.Get(id).Vel.Angle(), 0.0)
}

func TestExplosive_DetonatesAtDest(t *testing.T) {
	w := newFakeWorld()
	s := NewSimulator()
	p := bullet(model.V(1000, 1000), model.V(200, 0), &Explosive{Dest: model.V(1300, 1000)})
	p.Payload = Payload{Damage: 40, BlastRadius: 80, SplashDamage: 15, Inherent: true}
	s.Spawn(p, 0)

	evs := runTicks(s, w, 5, 500*time.Millisecond)
	dets := eventsOf[Detonation](evs)
	require.Len(t, dets, 1)
	assert.Equal(t, model.NoActor, dets[0].Primary)
	assert.InDelta(t, 1300, dets[0].Pos.X, 1e-9)
	assert.True(t, dets[0].Payload.Inherent)
}

func TestExplosive_DirectHitIsPrimary(t *testing.T) {
	w := newFakeWorld()
	w.addActor(4, model.V(1100, 1000), model.TeamHostile)

	s := NewSimulator()
	p := bullet(model.V(1000, 1000), model.V(1000, 0), &Explosive{Dest: model.V(1500, 1000)})
	p.Payload = Payload{Damage: 40, BlastRadius: 80, Inherent: true}
	s.Spawn(p, 0)

	dets := eventsOf[Detonation](runTicks(s, w, 5, tick))
	require.Len(t, dets, 1)
	assert.Equal(t, model.ActorID(4), dets[0].Primary)
}

func TestAddOnBullet_DetonatesOnContact(t *testing.T) {
	w := newFakeWorld()
	w.addActor(4, model.V(1100, 1000), model.TeamHostile)

	s := NewSimulator()
	p := bullet(model.V(1000, 1000), model.V(1000, 0), Straight{})
	p.Payload = Payload{Damage: 10, BlastRadius: 48, AddOn: true}
	s.Spawn(p, 0)

	evs := runTicks(s, w, 5, tick)
	assert.Empty(t, eventsOf[Hit](evs))
	dets := eventsOf[Detonation](evs)
	require.Len(t, dets, 1)
	assert.Equal(t, model.ActorID(4), dets[0].Primary)
	assert.False(t, dets[0].Payload.Inherent)
}

func TestAddOnPiercing_BurstsOnEveryActor(t *testing.T) {
	tests := []struct {
		name     string
		behavior func() Behavior
	}{
		{"piercing", func() Behavior { return &Piercing{Remaining: -1} }},
		{"charged", func() Behavior { return &Charged{Fraction: 1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newFakeWorld()
			w.addActor(1, model.V(1200, 1000), model.TeamHostile)
			w.addActor(2, model.V(1400, 1000), model.TeamHostile)

			s := NewSimulator()
			p := bullet(model.V(1000, 1000), model.V(1000, 0), tt.behavior())
			p.Payload = Payload{Damage: 40, BlastRadius: 48, AddOn: true}
			s.Spawn(p, 0)

			evs := runTicks(s, w, 20, tick)
			assert.Empty(t, eventsOf[Hit](evs))
			dets := eventsOf[Detonation](evs)
			require.Len(t, dets, 2)
			assert.Equal(t, model.ActorID(1), dets[0].Primary)
			assert.Equal(t, model.ActorID(2), dets[1].Primary)
			assert.True(t, dets[0].Payload.AddOn)
			assert.InDelta(t, 1190-ProjectileRadius, dets[0].Pos.X, 1e-6)
		})
	}
}

func TestMine_ProximityDetonation(t *testing.T) {
	w := newFakeWorld()
	w.addActor(6, model.V(1130, 1000), model.TeamHostile)

	s := NewSimulator()
	m := &Mine{Dest: model.V(1100, 1000), TriggerRadius: 48, ArmDelay: 250 * time.Millisecond, Timeout: 5 * time.Second}
	s.Spawn(bullet(model.V(1000, 1000), model.V(200, 0), m), 0)

	dt := 250 * time.Millisecond
	assert.Empty(t, runTicksFrom(s, w, 1, 2, dt))
	assert.True(t, m.Parked)
	assert.Equal(t, 500*time.Millisecond, m.ParkedAt)

	dets := eventsOf[Detonation](runTicksFrom(s, w, 3, 3, dt))
	require.Len(t, dets, 1)
	assert.Equal(t, model.ActorID(6), dets[0].Primary)
}

func TestMine_SafetyTimeout(t *testing.T) {
	w := newFakeWorld()
	s := NewSimulator()
	m := &Mine{Dest: model.V(1100, 1000), TriggerRadius: 48, ArmDelay: 250 * time.Millisecond, Timeout: 2 * time.Second}
	s.Spawn(bullet(model.V(1000, 1000), model.V(200, 0), m), 0)

	dt := 250 * time.Millisecond
	evs := runTicksFrom(s, w, 1, 9, dt)
	assert.Empty(t, eventsOf[Detonation](evs))

	dets := eventsOf[Detonation](runTicksFrom(s, w, 10, 12, dt))
	require.Len(t, dets, 1)
	assert.Equal(t, model.NoActor, dets[0].Primary)
	assert.Zero(t, s.Len())
}

func TestCharged_PiercesActorsAndCoverUntilWall(t *testing.T) {
	w := newFakeWorld()
	w.addActor(1, model.V(1200, 1000), model.TeamHostile)
	w.addCover(5, model.V(1300, 1000))
	w.addActor(2, model.V(1400, 1000), model.TeamHostile).deflect = true
	w.addWall(model.V(1500, 0), model.V(1510, 5000))
	w.addActor(3, model.V(1600, 1000), model.TeamHostile)

	s := NewSimulator()
	s.Spawn(bullet(model.V(1000, 1000), model.V(1000, 0), &Charged{Fraction: 1}), 0)
	evs := runTicks(s, w, 20, tick)

	var order []string
	for _, e := range evs {
		switch v := e.(type) {
		case Hit:
			order = append(order, fmt.Sprintf("hit:%d", v.Target))
		case CoverHit:
			order = append(order, "cover")
		case Expired:
			order = append(order, "expired:"+v.Reason.String())
		}
	}
	assert.Equal(t, []string{"hit:1", "cover", "hit:2", "expired:wall"}, order)
}

func TestSimulator_SpawnOrderAndIDs(t *testing.T) {
	s := NewSimulator()
	a := s.Spawn(bullet(model.V(1000, 1000), model.V(1, 0), nil), 0)
	b := s.Spawn(bullet(model.V(1000, 1000), model.V(1, 0), nil), 0)

	assert.Equal(t, ID(1), a)
	assert.Equal(t, ID(2), b)
	require.Len(t, s.All(), 2)
	assert.Equal(t, a, s.All()[0].ID)

	s.Kill(a)
	s.Step(tick, tick, newFakeWorld())
	assert.Equal(t, 1, s.Len())
	assert.Nil(t, s.Get(a))
}

// runTicksFrom steps ticks first..last inclusive.
func runTicksFrom(s *Simulator, w Collider, first, last int, dt time.Duration) []Event {
	var all []Event
	for i := first; i <= last; i++ {
		all = append(all, s.Step(time.Duration(i)*dt, dt, w)...)
	}
	return all
}
