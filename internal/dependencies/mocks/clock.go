package mocks

import (
	"sync"
	"time"

	"github.com/quizden/triviaroom-go/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing. Tickers created
// from it fire only when the clock is advanced.
type MockClock struct {
	mu      sync.Mutex
	current time.Time
	tickers []*MockTicker
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NewTicker returns a ticker driven by Advance
func (c *MockClock) NewTicker(d time.Duration) clock.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &MockTicker{
		interval: d,
		next:     c.current.Add(d),
		ch:       make(chan time.Time, 64),
	}
	c.tickers = append(c.tickers, t)
	return t
}

// Advance moves the clock forward by the given duration, firing every tick
// that becomes due on the way
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	target := c.current.Add(d)
	for _, t := range c.tickers {
		t.fireUntil(target)
	}
	c.current = target
}

// TickerCount reports how many tickers have been created so far. Tests use
// it to wait until an asynchronously started component is listening before
// advancing the clock.
func (c *MockClock) TickerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

// Set sets the clock to the given time without firing tickers
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// MockTicker is a ticker controlled by MockClock.Advance
type MockTicker struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
	stopped  bool
	ch       chan time.Time
}

// Chan returns the tick delivery channel
func (t *MockTicker) Chan() <-chan time.Time {
	return t.ch
}

// Stop halts tick delivery
func (t *MockTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *MockTicker) fireUntil(target time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for !t.stopped && !t.next.After(target) {
		select {
		case t.ch <- t.next:
		default:
			// Receiver is not keeping up; drop like time.Ticker does
		}
		t.next = t.next.Add(t.interval)
	}
}
