package authflow

import (
	"sync"
	"time"
)

// Cooldown defines a public type used by authflow APIs.
//
// Cooldown is the resend gate: a countdown that must reach zero before a
// new verification code may be requested. It rate-limits the request
// action only and knows nothing about code correctness. At most one tick
// goroutine is ever active; Start replaces any previous countdown.
type Cooldown struct {
	tick time.Duration

	mu        sync.Mutex
	remaining int
	stop      chan struct{}
}

// NewCooldown describes the newcooldown operation and its observable behavior.
//
// A non-positive tick falls back to one second.
func NewCooldown(tick time.Duration) *Cooldown {
	if tick <= 0 {
		tick = time.Second
	}
	return &Cooldown{tick: tick}
}

// Start describes the start operation and its observable behavior.
//
// Start (re)starts the countdown at windowSeconds, cancelling any previous
// tick source so decrements never overlap.
func (c *Cooldown) Start(windowSeconds int) {
	c.mu.Lock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	if windowSeconds <= 0 {
		c.remaining = 0
		c.mu.Unlock()
		return
	}
	c.remaining = windowSeconds
	stop := make(chan struct{})
	c.stop = stop
	c.mu.Unlock()

	go c.run(stop)
}

func (c *Cooldown) run(stop chan struct{}) {
	t := time.NewTicker(c.tick)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			c.mu.Lock()
			if c.stop != stop {
				// Superseded by a newer Start; the replacement owns the count.
				c.mu.Unlock()
				return
			}
			if c.remaining > 0 {
				c.remaining--
			}
			done := c.remaining == 0
			if done {
				c.stop = nil
			}
			c.mu.Unlock()
			if done {
				return
			}
		}
	}
}

// Remaining describes the remaining operation and its observable behavior.
//
// Remaining is monotonically non-increasing between Start calls and never
// negative. The resend action is enabled iff it reports zero.
func (c *Cooldown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Cancel describes the cancel operation and its observable behavior.
//
// Cancel stops decrementing and zeroes the countdown. It is idempotent and
// is called whenever the owning step is left or the flow is discarded.
func (c *Cooldown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.remaining = 0
}
