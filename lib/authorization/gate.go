// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import "fmt"

// Gate holds the configured leader role names. A Gate is immutable
// after construction and safe for concurrent use.
type Gate struct {
	authorized map[string]bool
	names      []string
}

// NewGate creates a Gate from the configured leader role names.
// Empty names are rejected; duplicates collapse.
func NewGate(roleNames []string) (*Gate, error) {
	if len(roleNames) == 0 {
		return nil, fmt.Errorf("authorization: at least one leader role is required")
	}

	authorized := make(map[string]bool, len(roleNames))
	names := make([]string, 0, len(roleNames))
	for _, name := range roleNames {
		if name == "" {
			return nil, fmt.Errorf("authorization: leader role name must not be empty")
		}
		if authorized[name] {
			continue
		}
		authorized[name] = true
		names = append(names, name)
	}
	return &Gate{authorized: authorized, names: names}, nil
}

// Allowed reports whether an actor holding the given roles may
// perform withdraw-class actions: at least one held role must match
// an authorized name exactly.
func (g *Gate) Allowed(roles []string) bool {
	for _, role := range roles {
		if g.authorized[role] {
			return true
		}
	}
	return false
}

// RoleNames returns the authorized role names in configuration order,
// for "you need one of: ..." denial messages. The slice is a copy.
func (g *Gate) RoleNames() []string {
	names := make([]string, len(g.names))
	copy(names, g.names)
	return names
}
