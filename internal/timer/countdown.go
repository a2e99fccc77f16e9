package timer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/quizden/triviaroom-go/internal/dependencies/clock"
)

// Countdown counts down from a number of seconds, ticking once per second.
// A countdown never restarts itself; restarting is always an explicit Start
// by the owner. Expiry is informational only and must not drive phase
// transitions.
type Countdown struct {
	clock  clock.Clock
	logger *slog.Logger

	mu        sync.Mutex
	remaining int
	stop      chan struct{} // nil when idle
}

// New creates an idle countdown
func New(clk clock.Clock, logger *slog.Logger, name string) *Countdown {
	return &Countdown{
		clock:  clk,
		logger: logger.With(slog.String("timer", name)),
	}
}

// Start begins counting down from seconds. Any countdown already running is
// cancelled first. onTick is invoked with the remaining seconds after each
// elapsed second; onExpire is invoked once when the countdown reaches zero.
func (c *Countdown) Start(seconds int, onTick func(remaining int), onExpire func()) {
	c.Cancel()

	c.mu.Lock()
	c.remaining = seconds
	stop := make(chan struct{})
	c.stop = stop
	c.mu.Unlock()

	c.logger.Debug("countdown started", slog.Int("seconds", seconds))
	go c.run(seconds, stop, onTick, onExpire)
}

func (c *Countdown) run(seconds int, stop chan struct{}, onTick func(int), onExpire func()) {
	ticker := c.clock.NewTicker(time.Second)
	defer ticker.Stop()

	remaining := seconds
	for remaining > 0 {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			remaining--
			c.mu.Lock()
			if c.stop != stop {
				// Cancelled between tick delivery and processing
				c.mu.Unlock()
				return
			}
			c.remaining = remaining
			c.mu.Unlock()
			if onTick != nil {
				onTick(remaining)
			}
		}
	}

	c.mu.Lock()
	if c.stop != stop {
		c.mu.Unlock()
		return
	}
	c.stop = nil
	c.mu.Unlock()

	c.logger.Debug("countdown expired")
	if onExpire != nil {
		onExpire()
	}
}

// Cancel stops the countdown. It is unconditional and safe to call
// repeatedly, including when the countdown is idle. A tick already in
// flight when Cancel runs may still deliver one onTick; owners that cannot
// tolerate a trailing tick key their callbacks to the Start that armed them.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == nil {
		return
	}
	close(c.stop)
	c.stop = nil
	c.logger.Debug("countdown cancelled", slog.Int("remaining", c.remaining))
}

// Active reports whether the countdown is currently running
func (c *Countdown) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

// Remaining returns the seconds left on the most recent countdown
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}
