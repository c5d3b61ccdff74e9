package scheduler

import "time"

// TickFunc performs one logical update. elapsed is the animation time since
// the scheduler first started, excluding time spent stopped.
type TickFunc func(elapsed time.Duration)

// Scheduler keeps one frame request outstanding on a Host while running
// and turns frame signals into logical ticks through a Limiter.
type Scheduler struct {
	host    Host
	clock   Clock
	limiter *Limiter
	tick    TickFunc

	running bool
	handle  FrameHandle
	start   time.Time // shifted forward by time spent stopped
	last    time.Time
	stopped time.Time
	begun   bool
	ticks   uint64
	elapsed time.Duration
}

// New creates a stopped scheduler.
func New(host Host, clock Clock, interval time.Duration, tick TickFunc) *Scheduler {
	if clock == nil {
		clock = SystemClock()
	}
	return &Scheduler{
		host:    host,
		clock:   clock,
		limiter: NewLimiter(interval),
		tick:    tick,
	}
}

// Start begins requesting frames. Starting a running scheduler does
// nothing. After Stop, Start resumes the animation clock where it paused.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	now := s.clock.Now()
	if s.begun {
		s.start = s.start.Add(now.Sub(s.stopped))
	} else {
		s.start = now
		s.begun = true
	}
	s.last = now
	s.running = true
	s.handle = s.host.RequestFrame(s.frame)
}

// Stop cancels the outstanding frame request. No tick runs after Stop
// returns.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.stopped = s.clock.Now()
	s.host.CancelFrame(s.handle)
	s.handle = 0
}

// Running reports whether the scheduler is started.
func (s *Scheduler) Running() bool {
	return s.running
}

// Ticks returns the number of logical ticks run.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

// Elapsed returns the animation time passed to the latest tick.
func (s *Scheduler) Elapsed() time.Duration {
	return s.elapsed
}

// Limiter exposes the frame limiter.
func (s *Scheduler) Limiter() *Limiter {
	return s.limiter
}

func (s *Scheduler) frame() {
	if !s.running {
		return
	}
	s.handle = s.host.RequestFrame(s.frame)

	now := s.clock.Now()
	delta := now.Sub(s.last)
	s.last = now

	if !s.limiter.Advance(delta) {
		return
	}
	s.ticks++
	s.elapsed = now.Sub(s.start)
	s.tick(s.elapsed)
}
