package clock

import (
	"sync"
	"time"
)

// FrameClock is the scheduler clock shared by every animated channel of an engine.
// Its time only advances when Step is called, so all reads within a frame agree.
type FrameClock interface {
	// Now returns the time of the current frame.
	//
	// Returns:
	//   - time.Duration: elapsed time of the current frame since the clock started
	Now() time.Duration

	// Step advances the frame time from the clock's time source.
	//
	// Returns:
	//   - time.Duration: the new frame time
	Step() time.Duration

	// Set pins the frame time to an explicit value. Used by tests and by replay tooling
	// that drives the scheduler deterministically.
	//
	// Parameters:
	//   - t: the new frame time
	Set(t time.Duration)

	// Advance moves the frame time forward by d.
	//
	// Parameters:
	//   - d: the amount to advance by
	Advance(d time.Duration)
}

// frameClock is the implementation of the FrameClock interface.
type frameClock struct {
	mu     sync.RWMutex
	source func() time.Duration
	now    time.Duration
}

var _ FrameClock = &frameClock{}

// NewFrameClock creates a FrameClock whose time source is the monotonic wall clock measured
// from the moment of construction.
//
// Returns:
//   - FrameClock: a new frame clock frozen at zero
func NewFrameClock() FrameClock {
	start := time.Now()
	return &frameClock{source: func() time.Duration { return time.Since(start) }}
}

// NewManualClock creates a FrameClock that only moves through Set and Advance.
// Step leaves the time unchanged.
//
// Returns:
//   - FrameClock: a new manual clock frozen at zero
func NewManualClock() FrameClock {
	c := &frameClock{}
	c.source = func() time.Duration { return c.now }
	return c
}

func (c *frameClock) Now() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *frameClock) Step() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if next := c.source(); next > c.now {
		c.now = next
	}
	return c.now
}

func (c *frameClock) Set(t time.Duration) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *frameClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}
