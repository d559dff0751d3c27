// Package testutil provides shared helpers for tests.
package testutil

import "sync"

// FixedClock is a deterministic ledger clock for tests.
//
// Each call to Now() returns Start + Step*(number of prior calls), so a
// test sealing several blocks gets strictly increasing, reproducible
// timestamps and therefore reproducible block hashes.
//
// Thread-safety: all methods are safe for concurrent use.
type FixedClock struct {
	mu    sync.Mutex
	Start float64
	Step  float64
	calls int
}

// NewFixedClock creates a clock starting at start, advancing by step
// seconds per call.
func NewFixedClock(start, step float64) *FixedClock {
	return &FixedClock{Start: start, Step: step}
}

// Now returns the next timestamp.
func (c *FixedClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.Start + c.Step*float64(c.calls)
	c.calls++
	return t
}

// Reset rewinds the clock so the next Now() returns Start again.
func (c *FixedClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}
