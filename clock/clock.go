// Package clock provides time sources for membership nodes.
package clock

import (
	"sync"
	"time"
)

// System reads the wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Manual is a clock that only moves when told to. Simulations advance it once
// per global tick so that every timestamp is reproducible.
type Manual struct {
	mut sync.Mutex
	now time.Time
}

// NewManual creates a manual clock set to the given time.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (c *Manual) Now() time.Time {
	c.mut.Lock()
	defer c.mut.Unlock()

	return c.now
}

// Advance moves the clock forward by d and returns the new time.
func (c *Manual) Advance(d time.Duration) time.Time {
	c.mut.Lock()
	defer c.mut.Unlock()

	c.now = c.now.Add(d)

	return c.now
}

// Set moves the clock to t.
func (c *Manual) Set(t time.Time) {
	c.mut.Lock()
	c.now = t
	c.mut.Unlock()
}
