// Package debounce delays a callback until input has been quiet for a
// window. Time comes from a Scheduler so tests can drive it by hand.
package debounce

import (
	"sort"
	"sync"
	"time"
)

// DefaultDelay is the search quiescence window.
const DefaultDelay = 300 * time.Millisecond

// Handle identifies a scheduled callback.
type Handle uint64

// Scheduler runs fn once after d unless the handle is cancelled first.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Handle
	Cancel(h Handle)
}

// RealScheduler schedules on the wall clock.
type RealScheduler struct {
	mu     sync.Mutex
	next   Handle
	timers map[Handle]*time.Timer
}

func NewRealScheduler() *RealScheduler {
	return &RealScheduler{timers: map[Handle]*time.Timer{}}
}

func (s *RealScheduler) Schedule(d time.Duration, fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	h := s.next
	s.timers[h] = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, h)
		s.mu.Unlock()
		fn()
	})
	return h
}

func (s *RealScheduler) Cancel(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[h]; ok {
		t.Stop()
		delete(s.timers, h)
	}
}

// ManualScheduler is a virtual clock. Callbacks fire only from Advance.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	next    Handle
	pending map[Handle]task
}

type task struct {
	at  time.Duration
	seq Handle
	fn  func()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: map[Handle]task{}}
}

func (s *ManualScheduler) Schedule(d time.Duration, fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.pending[s.next] = task{at: s.now + d, seq: s.next, fn: fn}
	return s.next
}

func (s *ManualScheduler) Cancel(h Handle) {
	s.mu.Lock()
	delete(s.pending, h)
	s.mu.Unlock()
}

// Now is the virtual time elapsed since creation.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending is the number of scheduled callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Advance moves the clock forward by d and runs every callback that came
// due, in due order. Callbacks run without the lock held.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	for {
		due := s.dueLocked(target)
		if len(due) == 0 {
			break
		}
		t := due[0]
		delete(s.pending, t.seq)
		s.now = t.at
		s.mu.Unlock()
		t.fn()
		s.mu.Lock()
	}
	s.now = target
	s.mu.Unlock()
}

func (s *ManualScheduler) dueLocked(target time.Duration) []task {
	var due []task
	for _, t := range s.pending {
		if t.at <= target {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	return due
}

// Debouncer runs the most recent Trigger callback once the delay passes
// without another Trigger.
type Debouncer struct {
	mu      sync.Mutex
	sched   Scheduler
	delay   time.Duration
	gen     uint64
	handle  Handle
	armed   bool
	stopped bool
}

// New returns a Debouncer. A non-positive delay uses DefaultDelay.
func New(sched Scheduler, delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if sched == nil {
		sched = NewRealScheduler()
	}
	return &Debouncer{sched: sched, delay: delay}
}

// Delay returns the quiescence window.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Trigger replaces any pending callback with fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.cancelLocked()
	d.gen++
	gen := d.gen
	d.armed = true
	d.handle = d.sched.Schedule(d.delay, func() {
		d.mu.Lock()
		live := !d.stopped && d.armed && d.gen == gen
		if live {
			d.armed = false
		}
		d.mu.Unlock()
		if live {
			fn()
		}
	})
}

// Cancel drops the pending callback, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	d.cancelLocked()
	d.mu.Unlock()
}

// Pending reports whether a callback is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

// Stop cancels the pending callback and ignores later triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.cancelLocked()
	d.stopped = true
	d.mu.Unlock()
}

func (d *Debouncer) cancelLocked() {
	if d.armed {
		d.sched.Cancel(d.handle)
	}
	d.gen++
	d.armed = false
}
