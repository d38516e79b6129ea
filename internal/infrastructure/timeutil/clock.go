// Package timeutil provides time-related utilities for testability and convenience.
package timeutil

import (
	"sync"
	"time"
)

// Clock abstracts wall time and timers so waits can be simulated in tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the time once d has elapsed.
	After(d time.Duration) <-chan time.Time
}

// RealClock uses the actual system time.
type RealClock struct{}

// NewRealClock creates a new RealClock instance.
func NewRealClock() *RealClock {
	return &RealClock{}
}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// After delegates to time.After.
func (RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

type mockTimer struct {
	at time.Time
	ch chan time.Time
}

// MockClock is a manually driven clock. Timers created with After fire
// only when Advance or Set moves the clock past their deadline, unless
// auto-advance is enabled, in which case After jumps the clock forward
// and fires immediately.
type MockClock struct {
	mu          sync.Mutex
	now         time.Time
	autoAdvance bool
	timers      []mockTimer
}

// NewMockClock creates a mock clock with the given fixed time.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

// NewMockClockFromString creates a mock clock from an RFC3339 time string.
// Panics if the time string is invalid (for use in tests only).
func NewMockClockFromString(timeStr string) *MockClock {
	t, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		panic("invalid time string: " + err.Error())
	}
	return NewMockClock(t)
}

// Now returns the simulated time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// After registers a timer that fires when simulated time reaches now+d.
func (m *MockClock) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan time.Time, 1)
	if m.autoAdvance {
		if d > 0 {
			m.now = m.now.Add(d)
		}
		m.fireLocked()
		ch <- m.now
		return ch
	}
	if d <= 0 {
		ch <- m.now
		return ch
	}
	m.timers = append(m.timers, mockTimer{at: m.now.Add(d), ch: ch})
	return ch
}

// SetAutoAdvance toggles auto-advance mode.
func (m *MockClock) SetAutoAdvance(on bool) {
	m.mu.Lock()
	m.autoAdvance = on
	m.mu.Unlock()
}

// Set moves the clock to t and fires every timer that is now due.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
	m.fireLocked()
}

// Advance moves the clock forward by d and fires every timer that is now due.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	m.fireLocked()
}

// AdvanceMinutes moves the mock clock forward by the given number of minutes.
func (m *MockClock) AdvanceMinutes(minutes int) {
	m.Advance(time.Duration(minutes) * time.Minute)
}

// AdvanceHours moves the mock clock forward by the given number of hours.
func (m *MockClock) AdvanceHours(hours int) {
	m.Advance(time.Duration(hours) * time.Hour)
}

// AdvanceDays moves the mock clock forward by the given number of days.
func (m *MockClock) AdvanceDays(days int) {
	m.Advance(time.Duration(days) * 24 * time.Hour)
}

// Waiters returns the number of timers that have not fired yet.
func (m *MockClock) Waiters() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func (m *MockClock) fireLocked() {
	pending := m.timers[:0]
	for _, t := range m.timers {
		if t.at.After(m.now) {
			pending = append(pending, t)
			continue
		}
		t.ch <- m.now
	}
	m.timers = pending
}

// Ensure interfaces are implemented.
var (
	_ Clock = (*RealClock)(nil)
	_ Clock = (*MockClock)(nil)
)
