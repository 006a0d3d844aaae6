// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// UserID is a validated Matrix user ID (e.g., "@alice:example.org").
//
// User IDs identify the actors behind every ledger transaction. They
// start with '@' and contain a ':' separating the localpart from the
// server name. The transaction log persists them verbatim, so the
// type implements TextMarshaler/TextUnmarshaler for JSON round-trips.
type UserID struct {
	id string
}

// ParseUserID validates and wraps a raw Matrix user ID string.
func ParseUserID(raw string) (UserID, error) {
	if raw == "" {
		return UserID{}, fmt.Errorf("empty user ID")
	}
	if raw[0] != '@' {
		return UserID{}, fmt.Errorf("user ID must start with '@': %q", raw)
	}

	colonIndex := strings.IndexByte(raw[1:], ':')
	if colonIndex < 0 {
		return UserID{}, fmt.Errorf("user ID missing ':server' suffix: %q", raw)
	}
	if colonIndex == 0 {
		return UserID{}, fmt.Errorf("user ID has empty localpart: %q", raw)
	}
	if raw[1+colonIndex+1:] == "" {
		return UserID{}, fmt.Errorf("user ID has empty server name: %q", raw)
	}

	return UserID{id: raw}, nil
}

// MustParseUserID is like ParseUserID but panics on error. Use in
// tests where the input is known-valid.
func MustParseUserID(raw string) UserID {
	u, err := ParseUserID(raw)
	if err != nil {
		panic(fmt.Sprintf("ref.MustParseUserID(%q): %v", raw, err))
	}
	return u
}

// String returns the full user ID string.
func (u UserID) String() string { return u.id }

// IsZero reports whether the UserID is the zero value (uninitialized).
func (u UserID) IsZero() bool { return u.id == "" }

// Localpart returns the portion between '@' and ':'. Used as a
// fallback display name when the profile lookup fails.
func (u UserID) Localpart() string {
	if u.id == "" {
		return ""
	}
	colonIndex := strings.IndexByte(u.id[1:], ':')
	return u.id[1 : 1+colonIndex]
}

// MarshalText implements encoding.TextMarshaler.
func (u UserID) MarshalText() ([]byte, error) {
	if u.id == "" {
		return nil, fmt.Errorf("cannot marshal zero UserID")
	}
	return []byte(u.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Validates the
// user ID format.
func (u *UserID) UnmarshalText(data []byte) error {
	parsed, err := ParseUserID(string(data))
	if err != nil {
		return fmt.Errorf("unmarshal UserID: %w", err)
	}
	*u = parsed
	return nil
}
