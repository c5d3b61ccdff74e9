package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestLimiterCarriesRemainder(t *testing.T) {
	l := NewLimiter(DefaultInterval)

	var fired []bool
	for _, d := range []time.Duration{10 * time.Millisecond, 10 * time.Millisecond, 10 * time.Millisecond} {
		fired = append(fired, l.Advance(d))
		if len(fired) == 2 {
			assert.Equal(t, 20*time.Millisecond-DefaultInterval, l.Residual())
		}
	}

	assert.Equal(t, []bool{false, true, false}, fired)
	assert.Equal(t, 30*time.Millisecond-DefaultInterval, l.Residual())
	assert.InDelta(t, 0.00333, (20*time.Millisecond - DefaultInterval).Seconds(), 1e-5)
}

func TestLimiterOneTickPerFrame(t *testing.T) {
	l := NewLimiter(DefaultInterval)

	assert.True(t, l.Advance(time.Second))
	assert.Equal(t, time.Second%DefaultInterval, l.Residual())
	assert.Less(t, l.Residual(), DefaultInterval)
}

func TestLimiterExactIntervalWaits(t *testing.T) {
	l := NewLimiter(10 * time.Millisecond)

	assert.False(t, l.Advance(10*time.Millisecond), "tick requires strictly more than one interval")
	assert.True(t, l.Advance(time.Nanosecond))
	assert.Equal(t, time.Nanosecond, l.Residual())
}

func TestLimiterNonPositiveInterval(t *testing.T) {
	l := NewLimiter(0)
	assert.True(t, l.Advance(0))
	assert.True(t, l.Advance(time.Millisecond))
	assert.Zero(t, l.Residual())
}

func TestLimiterLongRunRate(t *testing.T) {
	l := NewLimiter(DefaultInterval)
	ticks := 0
	// Ten seconds of 144 Hz frames.
	frame := time.Second / 144
	for i := 0; i < 1440; i++ {
		if l.Advance(frame) {
			ticks++
		}
	}
	assert.InDelta(t, 600, ticks, 1)
}

type tickRecorder struct {
	elapsed []time.Duration
}

func (r *tickRecorder) tick(elapsed time.Duration) {
	r.elapsed = append(r.elapsed, elapsed)
}

func TestSchedulerTicksFromHostFrames(t *testing.T) {
	host := NewManualHost()
	clock := NewManualClock(epoch)
	rec := &tickRecorder{}
	s := New(host, clock, DefaultInterval, rec.tick)

	assert.Zero(t, host.Pending(), "no frame requested before Start")
	s.Start()
	require.Equal(t, 1, host.Pending())

	for i := 0; i < 3; i++ {
		clock.Advance(10 * time.Millisecond)
		assert.Equal(t, 1, host.Pump())
		assert.Equal(t, 1, host.Pending(), "frame %d did not re-request", i)
	}

	require.Len(t, rec.elapsed, 1)
	assert.Equal(t, 20*time.Millisecond, rec.elapsed[0])
	assert.Equal(t, uint64(1), s.Ticks())
	assert.Equal(t, 20*time.Millisecond, s.Elapsed())
	assert.Equal(t, 30*time.Millisecond-DefaultInterval, s.Limiter().Residual())
}

func TestSchedulerStopCancels(t *testing.T) {
	host := NewManualHost()
	clock := NewManualClock(epoch)
	rec := &tickRecorder{}
	s := New(host, clock, DefaultInterval, rec.tick)

	s.Start()
	s.Start() // no second request
	assert.Equal(t, 1, host.Pending())

	s.Stop()
	assert.False(t, s.Running())
	assert.Zero(t, host.Pending())

	clock.Advance(time.Second)
	assert.Zero(t, host.Pump())
	assert.Empty(t, rec.elapsed)

	s.Stop() // idempotent
}

func TestSchedulerResumeExcludesPause(t *testing.T) {
	host := NewManualHost()
	clock := NewManualClock(epoch)
	rec := &tickRecorder{}
	s := New(host, clock, DefaultInterval, rec.tick)

	s.Start()
	clock.Advance(20 * time.Millisecond)
	host.Pump()
	require.Len(t, rec.elapsed, 1)

	s.Stop()
	clock.Advance(time.Hour)
	s.Start()

	clock.Advance(20 * time.Millisecond)
	host.Pump()
	require.Len(t, rec.elapsed, 2)
	assert.Equal(t, 40*time.Millisecond, rec.elapsed[1])
}

func TestSchedulerStopFromTick(t *testing.T) {
	host := NewManualHost()
	clock := NewManualClock(epoch)

	var s *Scheduler
	ticks := 0
	s = New(host, clock, DefaultInterval, func(time.Duration) {
		ticks++
		s.Stop()
	})

	s.Start()
	for i := 0; i < 5; i++ {
		clock.Advance(20 * time.Millisecond)
		host.Pump()
	}
	assert.Equal(t, 1, ticks)
	assert.Zero(t, host.Pending())
}

func TestCallbacksRunOrder(t *testing.T) {
	var c Callbacks
	var order []int
	c.RequestFrame(func() { order = append(order, 1) })
	h := c.RequestFrame(func() { order = append(order, 2) })
	c.RequestFrame(func() {
		order = append(order, 3)
		c.RequestFrame(func() { order = append(order, 4) })
	})
	c.CancelFrame(h)

	assert.Equal(t, 2, c.Run())
	assert.Equal(t, []int{1, 3}, order)
	assert.Equal(t, 1, c.Pending())

	assert.Equal(t, 1, c.Run())
	assert.Equal(t, []int{1, 3, 4}, order)
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(epoch)
	c.Advance(1500 * time.Millisecond)
	assert.Equal(t, epoch.Add(1500*time.Millisecond), c.Now())

	sys := SystemClock()
	a := sys.Now()
	assert.False(t, sys.Now().Before(a))
}
