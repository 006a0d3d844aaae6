// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Daily represents a once-per-day trigger at a fixed wall-clock time
// in a fixed location. Use ParseDaily to create one.
type Daily struct {
	hour     int
	minute   int
	location *time.Location
}

// ParseDaily parses a "HH:MM" expression (24-hour clock) into a Daily
// schedule anchored to the given location.
func ParseDaily(expression string, location *time.Location) (Daily, error) {
	if location == nil {
		return Daily{}, fmt.Errorf("schedule: location is required")
	}

	parts := strings.SplitN(expression, ":", 2)
	if len(parts) != 2 {
		return Daily{}, fmt.Errorf("schedule: expected HH:MM, got %q", expression)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return Daily{}, fmt.Errorf("schedule: hour out of range in %q", expression)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return Daily{}, fmt.Errorf("schedule: minute out of range in %q", expression)
	}

	return Daily{hour: hour, minute: minute, location: location}, nil
}

// Next returns the earliest instant strictly after t whose wall-clock
// time in the schedule's location matches. If today's occurrence has
// already passed (or is exactly t), the result is tomorrow's.
func (d Daily) Next(t time.Time) time.Time {
	local := t.In(d.location)
	next := time.Date(local.Year(), local.Month(), local.Day(), d.hour, d.minute, 0, 0, d.location)
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// String returns the schedule in "HH:MM @ zone" form for logging.
func (d Daily) String() string {
	return fmt.Sprintf("%02d:%02d @ %s", d.hour, d.minute, d.location)
}
