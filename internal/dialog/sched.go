package dialog

import (
	"sort"
	"sync"
	"time"
)

// Scheduler defers an effect by a duration. Bot replies, handover stages and
// transfer confirmations are all modeled as deferred effects so the latency
// profile lives in config and tests can drive a virtual clock instead of
// sleeping.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler is the wall-clock implementation. The callback always runs
// on a timer goroutine, never inline, so callers may hold locks the callback
// itself acquires.
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	time.AfterFunc(d, fn)
}

// ManualScheduler is the virtual clock used in tests. Effects run only when
// Advance moves time past their due point, in due order, FIFO on ties. While
// an effect runs, the logical clock reads its due time, so an effect that
// schedules another effect anchors it to when it fired, not to the end of
// the Advance window.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration // logical clock; trails target while draining
	target time.Duration // latest Advance endpoint
	next   int
	pend   []manualItem
}

type manualItem struct {
	due time.Duration
	seq int
	fn  func()
}

func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

func (s *ManualScheduler) After(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d < 0 {
		d = 0
	}
	s.pend = append(s.pend, manualItem{due: s.now + d, seq: s.next, fn: fn})
	s.next++
}

// Advance moves the virtual clock forward and runs every effect that becomes
// due, including effects scheduled by the effects themselves.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.target += d
	s.mu.Unlock()

	for {
		fn := s.popDue()
		if fn == nil {
			return
		}
		fn()
	}
}

// Pending returns the number of not-yet-due effects.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pend)
}

func (s *ManualScheduler) popDue() func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	sort.SliceStable(s.pend, func(i, j int) bool {
		if s.pend[i].due != s.pend[j].due {
			return s.pend[i].due < s.pend[j].due
		}
		return s.pend[i].seq < s.pend[j].seq
	})
	if len(s.pend) == 0 || s.pend[0].due > s.target {
		s.now = s.target
		return nil
	}
	item := s.pend[0]
	s.pend = s.pend[1:]
	if item.due > s.now {
		s.now = item.due
	}
	return item.fn
}
