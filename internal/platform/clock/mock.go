package clock

import (
	"sort"
	"sync"
	"time"
)

// Mock is a Clock whose time only moves when the test calls Advance or Set.
// Timer channels handed out by After fire during the Advance call that
// crosses their deadline, in deadline order.
type Mock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []*mockWaiter
}

type mockWaiter struct {
	at time.Time
	ch chan time.Time
}

// NewMock returns a Mock starting at the Unix epoch.
func NewMock() *Mock {
	return &Mock{now: time.Unix(0, 0)}
}

// Now returns the mock's current time.
func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// After returns a channel that fires once the mock's time reaches now+d.
func (m *Mock) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Buffered so firing never blocks Advance, and so abandoned timers
	// from restarted select loops stay harmless.
	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- m.now
		return ch
	}
	m.waiters = append(m.waiters, &mockWaiter{at: m.now.Add(d), ch: ch})
	return ch
}

// Advance moves the mock's time forward by d, firing every timer whose
// deadline is crossed, earliest first.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(m.now.Add(d))
}

// Set jumps the mock's time to t. Moving backwards is ignored.
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.After(m.now) {
		m.set(t)
	}
}

// set fires due waiters in deadline order. Caller holds mu.
func (m *Mock) set(t time.Time) {
	m.now = t

	var due, remaining []*mockWaiter
	for _, w := range m.waiters {
		if !w.at.After(t) {
			due = append(due, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, w := range due {
		w.ch <- t
	}
	m.waiters = remaining
}
