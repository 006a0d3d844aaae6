// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock parameter instead of calling
// time.Now, time.After, or time.AfterFunc directly. In production,
// Real() provides the standard library behavior. In tests, Fake()
// provides a deterministic clock that advances only when Advance is
// called.
//
// Quartermaster has two time consumers: the daily panel refresh (an
// AfterFunc re-armed after each firing) and prompt-flow expiry (After
// in a select). Both are driven deterministically in tests via
// FakeClock.Advance. Use WaitForTimers to block until a goroutine has
// registered its timer before advancing — this removes the race
// between timer registration and time advancement that plagues tests
// built on time.Sleep.
package clock
