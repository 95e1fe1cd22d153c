package projectile

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/udisondev/combatsim/internal/game/loadout"
)

// Spread bloom of continuous-fire weapons.
const (
	BloomPerShot        = 0.12
	BloomDecayPerSecond = 1.5
	// BloomSpreadScale — at full bloom the spread is (1+scale)× the base.
	BloomSpreadScale = 2.0
)

// Input is the per-tick trigger state.
type Input struct {
	Held    bool
	Pressed bool
	Reload  bool
}

// Magazines tracks rounds per weapon id. Entries are created lazily full,
// so a missing entry is never an error.
type Magazines struct {
	rounds map[string]int32
}

// NewMagazines creates an empty tracker.
func NewMagazines() *Magazines {
	return &Magazines{rounds: make(map[string]int32)}
}

// Rounds returns the loaded rounds of st's weapon.
func (m *Magazines) Rounds(st loadout.Stats) int32 {
	if m.rounds == nil {
		m.rounds = make(map[string]int32)
	}
	r, ok := m.rounds[st.WeaponID]
	if !ok {
		r = st.MagazineCapacity()
		m.rounds[st.WeaponID] = r
	}
	return r
}

// Consume removes one round. Returns false when the magazine is empty.
func (m *Magazines) Consume(st loadout.Stats) bool {
	r := m.Rounds(st)
	if r <= 0 {
		return false
	}
	m.rounds[st.WeaponID] = r - 1
	return true
}

// Refill loads a full magazine.
func (m *Magazines) Refill(st loadout.Stats) {
	m.Rounds(st)
	m.rounds[st.WeaponID] = st.MagazineCapacity()
}

// Trigger is the fire control of one projectile weapon: fire interval,
// magazine and reload, pellet spread with bloom, and charging.
type Trigger struct {
	Stats loadout.Stats
	Mags  *Magazines

	rng *rand.Rand

	nextFireAt  time.Duration
	reloading   bool
	reloadUntil time.Duration

	bloom float64

	charging    bool
	chargeStart time.Duration
}

// NewTrigger creates fire control for st. A nil mags gets a private tracker.
func NewTrigger(st loadout.Stats, mags *Magazines, rng *rand.Rand) *Trigger {
	if mags == nil {
		mags = NewMagazines()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}
	return &Trigger{Stats: st, Mags: mags, rng: rng}
}

// Rounds returns the rounds left in the current magazine.
func (t *Trigger) Rounds() int32 { return t.Mags.Rounds(t.Stats) }

// Reloading reports whether a reload is in progress at now.
func (t *Trigger) Reloading(now time.Duration) bool {
	return t.reloading && now < t.reloadUntil
}

// Bloom returns the spread bloom in [0,1].
func (t *Trigger) Bloom() float64 { return t.bloom }

// Charging reports whether a charge is being held.
func (t *Trigger) Charging() bool { return t.charging }

// ChargeFraction returns the charge progress in [0,1].
func (t *Trigger) ChargeFraction(now time.Duration) float64 {
	if !t.charging {
		return 0
	}
	if t.Stats.ChargeTime <= 0 {
		return 1
	}
	return math.Min(1, float64(now-t.chargeStart)/float64(t.Stats.ChargeTime))
}

// Update advances fire control and returns the projectiles to spawn.
func (t *Trigger) Update(in Input, shot Shot, now, dt time.Duration) []Projectile {
	if !in.Held {
		t.bloom = math.Max(0, t.bloom-BloomDecayPerSecond*dt.Seconds())
	}

	if t.reloading && now >= t.reloadUntil {
		t.reloading = false
		t.Mags.Refill(t.Stats)
	}
	if t.Stats.Beam || t.reloading {
		return nil
	}

	rounds := t.Mags.Rounds(t.Stats)
	if rounds <= 0 || (in.Reload && rounds < t.Stats.MagazineCapacity()) {
		t.startReload(now)
		return nil
	}

	if t.Stats.Charge {
		return t.updateCharge(in, shot, now)
	}

	wantFire := in.Pressed || (t.Stats.Continuous && in.Held)
	if !wantFire || now < t.nextFireAt {
		return nil
	}
	return t.fire(shot, now, 1)
}

func (t *Trigger) updateCharge(in Input, shot Shot, now time.Duration) []Projectile {
	if !t.charging {
		// Нажатие только начинает заряд, выстрела нет.
		if (in.Pressed || in.Held) && now >= t.nextFireAt {
			t.charging = true
			t.chargeStart = now
		}
		return nil
	}

	frac := t.ChargeFraction(now)
	if !in.Held {
		t.charging = false
		return t.fire(shot, now, frac)
	}
	if frac >= 1 && !t.Stats.ChargeHold {
		t.charging = false
		return t.fire(shot, now, 1)
	}
	return nil
}

func (t *Trigger) startReload(now time.Duration) {
	if t.reloading {
		return
	}
	t.reloading = true
	t.reloadUntil = now + t.Stats.ReloadDuration
	t.charging = false
	slog.Debug("reload started",
		"weapon", t.Stats.WeaponID,
		"until", t.reloadUntil)
}

func (t *Trigger) fire(shot Shot, now time.Duration, frac float64) []Projectile {
	if !t.Mags.Consume(t.Stats) {
		t.startReload(now)
		return nil
	}
	t.nextFireAt = now + t.Stats.FireInterval

	st := t.Stats
	if st.Charge {
		st = ScaleCharge(st, frac)
	}
	spread := st.SpreadAngle * (1 + BloomSpreadScale*t.bloom)
	aim := shot.Dir()

	n := int(max(1, st.PelletCount))
	out := make([]Projectile, 0, n)
	for i := range n {
		dir := aim.Rotate(t.pelletOffset(i, n, spread))
		p, ok := NewProjectile(st, shot, dir)
		if !ok {
			continue
		}
		if c, isCharged := p.Behavior.(*Charged); isCharged {
			c.Fraction = frac
		}
		out = append(out, p)
	}

	if st.Continuous {
		t.bloom = math.Min(1, t.bloom+BloomPerShot)
	}
	if t.Mags.Rounds(t.Stats) == 0 {
		t.startReload(now)
	}
	return out
}

// pelletOffset spreads n pellets evenly across the cone with a little
// jitter; a single pellet lands anywhere inside it.
func (t *Trigger) pelletOffset(i, n int, spread float64) float64 {
	if spread <= 0 {
		return 0
	}
	half := spread / 2
	if n == 1 {
		return (t.rng.Float64()*2 - 1) * half
	}
	step := spread / float64(n-1)
	jitter := (t.rng.Float64()*2 - 1) * step * 0.25
	return math.Max(-half, math.Min(half, -half+step*float64(i)+jitter))
}
