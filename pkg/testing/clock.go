package testing

import (
	"sort"
	"sync"
	"time"
)

// FakeClock provides controllable time for deterministic timing tests.
// All methods are safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a FakeClock starting at a fixed epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set sets the clock to an exact time.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type pendingTimer struct {
	seq     int
	at      time.Time
	f       func()
	stopped bool
}

// FakeScheduler runs callbacks against a FakeClock. Callbacks fire only
// from Advance, on the calling goroutine, in due-time order.
type FakeScheduler struct {
	clock *FakeClock

	mu      sync.Mutex
	seq     int
	pending []*pendingTimer
}

// NewFakeScheduler returns a scheduler driven by a new FakeClock.
func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{clock: NewFakeClock()}
}

// Clock returns the scheduler's clock.
func (s *FakeScheduler) Clock() *FakeClock { return s.clock }

// AfterFunc schedules f to run d after the current fake time. The returned
// function cancels the callback and reports whether it was still pending.
func (s *FakeScheduler) AfterFunc(d time.Duration, f func()) (stop func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	pt := &pendingTimer{seq: s.seq, at: s.clock.Now().Add(d), f: f}
	s.pending = append(s.pending, pt)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if pt.stopped {
			return false
		}
		pt.stopped = true
		s.remove(pt)
		return true
	}
}

func (s *FakeScheduler) remove(pt *pendingTimer) {
	for i, p := range s.pending {
		if p == pt {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// Advance moves the clock forward by d, firing every callback that comes
// due. Callbacks scheduled by a firing callback run too if they fall within
// the window.
func (s *FakeScheduler) Advance(d time.Duration) {
	target := s.clock.Now().Add(d)
	for {
		pt := s.nextDue(target)
		if pt == nil {
			break
		}
		s.clock.Set(pt.at)
		pt.f()
	}
	s.clock.Set(target)
}

func (s *FakeScheduler) nextDue(target time.Time) *pendingTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].at.Equal(s.pending[j].at) {
			return s.pending[i].seq < s.pending[j].seq
		}
		return s.pending[i].at.Before(s.pending[j].at)
	})
	if len(s.pending) == 0 || s.pending[0].at.After(target) {
		return nil
	}
	pt := s.pending[0]
	pt.stopped = true
	s.pending = s.pending[1:]
	return pt
}

// Pending returns the number of scheduled callbacks that have not fired or
// been stopped.
func (s *FakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
