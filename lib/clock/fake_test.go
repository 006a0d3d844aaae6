// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var testEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeNow(t *testing.T) {
	c := Fake(testEpoch)
	if !c.Now().Equal(testEpoch) {
		t.Errorf("Now() = %v, want %v", c.Now(), testEpoch)
	}

	c.Advance(90 * time.Second)
	want := testEpoch.Add(90 * time.Second)
	if !c.Now().Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", c.Now(), want)
	}
}

func TestFakeAfter(t *testing.T) {
	c := Fake(testEpoch)
	ch := c.After(time.Minute)

	select {
	case <-ch:
		t.Fatal("After channel fired before Advance")
	default:
	}

	c.Advance(time.Minute)
	select {
	case fired := <-ch:
		if !fired.Equal(testEpoch.Add(time.Minute)) {
			t.Errorf("fire time = %v", fired)
		}
	default:
		t.Fatal("After channel did not fire after Advance")
	}
}

func TestFakeAfterNonPositive(t *testing.T) {
	c := Fake(testEpoch)
	select {
	case <-c.After(0):
	default:
		t.Fatal("After(0) did not fire immediately")
	}
}

func TestFakeAfterFunc(t *testing.T) {
	c := Fake(testEpoch)
	fired := 0
	c.AfterFunc(time.Hour, func() { fired++ })

	c.Advance(30 * time.Minute)
	if fired != 0 {
		t.Fatal("callback fired early")
	}

	c.Advance(30 * time.Minute)
	if fired != 1 {
		t.Fatalf("callback fired %d times, want 1", fired)
	}

	// Advancing further must not re-fire a one-shot timer.
	c.Advance(2 * time.Hour)
	if fired != 1 {
		t.Fatalf("callback re-fired: %d", fired)
	}
}

func TestFakeAfterFuncStop(t *testing.T) {
	c := Fake(testEpoch)
	fired := false
	timer := c.AfterFunc(time.Hour, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("Stop() = false for pending timer")
	}
	c.Advance(2 * time.Hour)
	if fired {
		t.Fatal("stopped timer fired")
	}
	if timer.Stop() {
		t.Fatal("second Stop() = true")
	}
}

func TestFakeAfterFuncRearm(t *testing.T) {
	// The daily refresh pattern: the callback schedules the next
	// firing. Each Advance past a deadline fires exactly one cycle.
	c := Fake(testEpoch)
	fired := 0
	var arm func()
	arm = func() {
		c.AfterFunc(24*time.Hour, func() {
			fired++
			arm()
		})
	}
	arm()

	c.Advance(24 * time.Hour)
	c.Advance(24 * time.Hour)
	c.Advance(12 * time.Hour)
	if fired != 2 {
		t.Fatalf("fired %d cycles, want 2", fired)
	}
}

func TestWaitForTimers(t *testing.T) {
	c := Fake(testEpoch)
	done := make(chan struct{})
	go func() {
		c.After(time.Minute)
		close(done)
	}()

	c.WaitForTimers(1)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("registration goroutine did not finish")
	}
}
