package status

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/combatsim/internal/fx"
	"github.com/udisondev/combatsim/internal/model"
)

// sumSink records health damage per actor.
type sumSink struct {
	total map[model.ActorID]int32
	calls int
}

func newSumSink() *sumSink {
	return &sumSink{total: make(map[model.ActorID]int32)}
}

func (s *sumSink) ApplyHealthDamage(id model.ActorID, amount int32) int32 {
	s.total[id] += amount
	s.calls++
	return amount
}

func TestOnHit_AccumulatesAndTriggers(t *testing.T) {
	rec := &fx.Recorder{}
	acc := NewAccumulator(DefaultTuning(), newSumSink(), rec)

	assert.False(t, acc.OnHit(1, model.StatusIgnite, 4, 0))
	assert.False(t, acc.OnHit(1, model.StatusIgnite, 5.5, 0))
	assert.InDelta(t, 9.5, acc.Accumulated(1, model.StatusIgnite), 1e-9)

	assert.True(t, acc.OnHit(1, model.StatusIgnite, 0.5, time.Second))
	assert.Zero(t, acc.Accumulated(1, model.StatusIgnite))
	assert.Equal(t, time.Second+DefaultTuning().IgniteDuration, acc.ActiveUntil(1, model.StatusIgnite))
	assert.True(t, acc.Active(1, model.StatusIgnite, time.Second))
	assert.Equal(t, 1, rec.Count(fx.KindStatus))
	assert.Equal(t, model.ActorID(1), rec.Effects[0].Actor)
}

func TestOnHit_IgnoresInvalidInput(t *testing.T) {
	acc := NewAccumulator(DefaultTuning(), nil, nil)

	tests := []struct {
		name   string
		actor  model.ActorID
		kind   model.StatusKind
		amount float64
	}{
		{"no actor", model.NoActor, model.StatusStun, 5},
		{"no kind", 1, model.StatusNone, 5},
		{"negative", 1, model.StatusStun, -3},
		{"zero", 1, model.StatusStun, 0},
		{"nan", 1, model.StatusStun, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, acc.OnHit(tt.actor, tt.kind, tt.amount, 0))
			assert.Zero(t, acc.Accumulated(tt.actor, tt.kind))
		})
	}
}

func TestOnHit_BoundsHoldForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	acc := NewAccumulator(DefaultTuning(), nil, nil)

	running := 0.0
	for i := range 5000 {
		amount := rng.Float64() * 6
		now := time.Duration(i) * time.Millisecond

		triggered := acc.OnHit(3, model.StatusToxin, amount, now)
		got := acc.Accumulated(3, model.StatusToxin)
		require.GreaterOrEqual(t, got, 0.0)
		require.LessOrEqual(t, got, Threshold)

		// Срабатывание ровно тогда, когда сумма достигает порога.
		wantTrigger := amount > 0 && running+amount >= Threshold
		require.Equal(t, wantTrigger, triggered, "step %d", i)
		if triggered {
			running = 0
			require.Zero(t, got)
		} else {
			running += amount
			require.InDelta(t, running, got, 1e-9)
		}
	}
}

func TestOnHit_RetriggerExtendsWindow(t *testing.T) {
	tuning := DefaultTuning()
	acc := NewAccumulator(tuning, nil, nil)

	require.True(t, acc.OnHit(1, model.StatusStun, 10, 0))
	require.True(t, acc.OnHit(1, model.StatusStun, 12, time.Second))
	assert.Equal(t, time.Second+tuning.StunDuration, acc.ActiveUntil(1, model.StatusStun))
	assert.True(t, acc.Stunned(1, time.Second+tuning.StunDuration-time.Millisecond))
	assert.False(t, acc.Stunned(1, time.Second+tuning.StunDuration))
}

func TestAdvance_IgniteDamage(t *testing.T) {
	tuning := DefaultTuning()
	sink := newSumSink()
	acc := NewAccumulator(tuning, sink, nil)

	require.True(t, acc.OnHit(5, model.StatusIgnite, 10, 0))
	acc.Advance(10 * time.Second)

	want := int32(tuning.IgniteDPS * tuning.IgniteDuration.Seconds())
	assert.Equal(t, want, sink.total[5])
	assert.False(t, acc.Active(5, model.StatusIgnite, 10*time.Second))
}

func TestAdvance_StunDealsNoDamage(t *testing.T) {
	sink := newSumSink()
	acc := NewAccumulator(DefaultTuning(), sink, nil)

	require.True(t, acc.OnHit(2, model.StatusStun, 10, 0))
	acc.Advance(5 * time.Second)
	assert.Zero(t, sink.calls)
}

func TestAdvance_FractionalCarryMatchesLump(t *testing.T) {
	tests := []struct {
		name     string
		dps      float64
		duration time.Duration
	}{
		{"sub-one per tick", 2.5, 6 * time.Second},
		{"tiny dps", 0.7, 6 * time.Second},
		{"uneven duration", 3.3, 2750 * time.Millisecond},
		{"fast burn", 17, 1300 * time.Millisecond},
	}

	cadences := []time.Duration{
		10 * time.Millisecond,
		30 * time.Millisecond,
		100 * time.Millisecond,
		250 * time.Millisecond,
		time.Second,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lump := int32(math.Floor(tt.dps * tt.duration.Seconds()))

			for _, c := range cadences {
				tuning := DefaultTuning()
				tuning.Cadence = c
				tuning.ToxinDPS = tt.dps
				tuning.ToxinDuration = tt.duration

				sink := newSumSink()
				acc := NewAccumulator(tuning, sink, nil)
				require.True(t, acc.OnHit(1, model.StatusToxin, Threshold, 0))

				// Advance in irregular frame-sized chunks.
				for now := time.Duration(0); now <= tt.duration+2*time.Second; now += 17 * time.Millisecond {
					acc.Advance(now)
				}

				assert.InDelta(t, lump, sink.total[1], 1, "cadence %s", c)
			}
		})
	}
}

func TestAdvance_MidStepTrigger(t *testing.T) {
	tuning := DefaultTuning()
	tuning.IgniteDPS = 10
	tuning.IgniteDuration = time.Second
	sink := newSumSink()
	acc := NewAccumulator(tuning, sink, nil)

	acc.Advance(50 * time.Millisecond) // no full step yet
	require.True(t, acc.OnHit(1, model.StatusIgnite, 10, 50*time.Millisecond))
	acc.Advance(3 * time.Second)

	assert.InDelta(t, 10, sink.total[1], 1)
}

func TestOnHit_RetriggerAfterExpiredWindowKeepsTail(t *testing.T) {
	tuning := DefaultTuning()
	tuning.IgniteDPS = 10
	tuning.IgniteDuration = time.Second
	sink := newSumSink()
	acc := NewAccumulator(tuning, sink, nil)

	// Первое окно [50ms, 1050ms): 10 урона.
	require.True(t, acc.OnHit(1, model.StatusIgnite, 10, 50*time.Millisecond))
	acc.Advance(time.Second)
	assert.Equal(t, int32(9), sink.total[1])

	// Окно истекло, но шаг 1000–1100ms ещё не отбит.
	require.True(t, acc.OnHit(1, model.StatusIgnite, 10, 1070*time.Millisecond))
	assert.Equal(t, int32(10), sink.total[1])

	acc.Advance(3 * time.Second)
	assert.Equal(t, int32(20), sink.total[1])
}

func TestDisoriented(t *testing.T) {
	acc := NewAccumulator(DefaultTuning(), newSumSink(), nil)

	assert.False(t, acc.Disoriented(1, 0))
	require.True(t, acc.OnHit(1, model.StatusToxin, 10, 0))
	assert.True(t, acc.Disoriented(1, time.Second))
	assert.False(t, acc.Stunned(1, time.Second))
}

func TestRemove(t *testing.T) {
	sink := newSumSink()
	acc := NewAccumulator(DefaultTuning(), sink, nil)

	acc.OnHit(1, model.StatusIgnite, 10, 0)
	acc.OnHit(1, model.StatusStun, 3, 0)
	acc.OnHit(2, model.StatusIgnite, 10, 0)
	require.Equal(t, 3, acc.Len())

	acc.Remove(1)
	assert.Equal(t, 1, acc.Len())
	assert.Zero(t, acc.Accumulated(1, model.StatusStun))

	acc.Advance(time.Second)
	assert.Zero(t, sink.total[1])
	assert.Positive(t, sink.total[2])
}

func BenchmarkAdvance(b *testing.B) {
	acc := NewAccumulator(DefaultTuning(), newSumSink(), nil)
	for id := model.ActorID(1); id <= 200; id++ {
		acc.OnHit(id, model.StatusIgnite, 10, 0)
		acc.OnHit(id, model.StatusToxin, 10, 0)
	}

	b.ResetTimer()
	for i := range b.N {
		acc.Advance(time.Duration(i) * 100 * time.Millisecond)
	}
}
