// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import "testing"

func TestNewGate(t *testing.T) {
	if _, err := NewGate(nil); err == nil {
		t.Error("NewGate(nil) succeeded, want error")
	}
	if _, err := NewGate([]string{"Officer", ""}); err == nil {
		t.Error("NewGate with empty name succeeded, want error")
	}

	gate, err := NewGate([]string{"Officer", "Officer", "หัวหน้าแก๊ง"})
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}
	names := gate.RoleNames()
	if len(names) != 2 || names[0] != "Officer" || names[1] != "หัวหน้าแก๊ง" {
		t.Errorf("RoleNames = %v", names)
	}
}

func TestAllowed(t *testing.T) {
	gate, err := NewGate([]string{"หัวหน้าแก๊ง", "รองหัวหน้า", "Officer"})
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}

	cases := []struct {
		name  string
		roles []string
		want  bool
	}{
		{"no roles", nil, false},
		{"unrelated roles", []string{"สมาชิก", "Recruit"}, false},
		{"one matching role", []string{"สมาชิก", "Officer"}, true},
		{"non-ascii match", []string{"หัวหน้าแก๊ง"}, true},
		{"case-sensitive", []string{"officer"}, false},
		{"substring is not a match", []string{"Officers"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := gate.Allowed(c.roles); got != c.want {
				t.Errorf("Allowed(%v) = %v, want %v", c.roles, got, c.want)
			}
		})
	}
}
