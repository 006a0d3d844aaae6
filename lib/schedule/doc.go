// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package schedule computes daily wall-clock trigger times in a fixed
// IANA time zone.
//
// The panel refresh runs once per calendar day at a configured local
// time (e.g., 08:00 Asia/Bangkok). [ParseDaily] parses the "HH:MM"
// form; [Daily.Next] returns the next matching instant strictly after
// a given time — today if the wall-clock time is still ahead,
// otherwise tomorrow. The caller owns re-arming: fire, run, call Next
// again.
//
// This is intentionally minimal — no cron expressions, no intervals.
// Quartermaster has exactly one schedule and it is daily.
package schedule
