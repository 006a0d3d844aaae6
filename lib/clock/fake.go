// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock initialized to the given time. Time stands
// still until Advance is called.
func Fake(initial time.Time) *FakeClock {
	c := &FakeClock{current: initial}
	c.waitersChanged = sync.NewCond(&c.mu)
	return c
}

// FakeClock is a deterministic Clock for testing. Timers registered
// via After and AfterFunc fire when Advance moves the clock past
// their deadline. AfterFunc callbacks run synchronously during
// Advance, in deadline order — do not call Advance from within a
// callback, that would deadlock.
//
// FakeClock is safe for concurrent use by multiple goroutines.
type FakeClock struct {
	mu             sync.Mutex
	current        time.Time
	waiters        []*fakeWaiter
	waitersChanged *sync.Cond
}

type fakeWaiter struct {
	deadline time.Time

	// channel receives the fire time for After waiters. Nil for
	// AfterFunc waiters.
	channel chan time.Time

	// callback is invoked synchronously during Advance for
	// AfterFunc waiters. Nil for After waiters.
	callback func()

	stopped bool
	fired   bool
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After returns a channel that receives once the clock advances past
// duration d. If d <= 0, the channel receives immediately without
// registering a waiter.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- c.current
		return channel
	}

	c.waiters = append(c.waiters, &fakeWaiter{
		deadline: c.current.Add(d),
		channel:  channel,
	})
	c.waitersChanged.Broadcast()
	return channel
}

// AfterFunc schedules f to run when the clock advances past duration
// d. If d <= 0, f is called synchronously before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	c.mu.Lock()

	if d <= 0 {
		c.mu.Unlock()
		f()
		return &Timer{stopFunc: func() bool { return false }}
	}

	waiter := &fakeWaiter{
		deadline: c.current.Add(d),
		callback: f,
	}
	c.waiters = append(c.waiters, waiter)
	c.waitersChanged.Broadcast()
	c.mu.Unlock()

	return &Timer{stopFunc: func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if waiter.fired || waiter.stopped {
			return false
		}
		waiter.stopped = true
		return true
	}}
}

// Advance moves the clock forward by d, firing all waiters whose
// deadline is reached, in deadline order.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)

	for {
		next := c.nextPendingLocked(target)
		if next == nil {
			break
		}
		next.fired = true
		if c.current.Before(next.deadline) {
			c.current = next.deadline
		}
		if next.channel != nil {
			next.channel <- c.current
			continue
		}
		// Run AfterFunc callbacks without the lock so they can
		// register new timers.
		callback := next.callback
		c.mu.Unlock()
		callback()
		c.mu.Lock()
	}

	c.current = target
	c.compactLocked()
	c.mu.Unlock()
}

// WaitForTimers blocks until at least n pending (unfired, unstopped)
// timers are registered. Call this before Advance when the timer is
// registered by another goroutine.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pendingLocked() < n {
		c.waitersChanged.Wait()
	}
}

func (c *FakeClock) pendingLocked() int {
	count := 0
	for _, w := range c.waiters {
		if !w.fired && !w.stopped {
			count++
		}
	}
	return count
}

// nextPendingLocked returns the earliest-deadline waiter due at or
// before target, or nil when none remain.
func (c *FakeClock) nextPendingLocked(target time.Time) *fakeWaiter {
	sort.SliceStable(c.waiters, func(i, j int) bool {
		return c.waiters[i].deadline.Before(c.waiters[j].deadline)
	})
	for _, w := range c.waiters {
		if w.fired || w.stopped {
			continue
		}
		if !w.deadline.After(target) {
			return w
		}
	}
	return nil
}

func (c *FakeClock) compactLocked() {
	remaining := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.fired && !w.stopped {
			remaining = append(remaining, w)
		}
	}
	c.waiters = remaining
}
