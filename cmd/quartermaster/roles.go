// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bureau-foundation/quartermaster/lib/ref"
	"github.com/bureau-foundation/quartermaster/messaging"
)

// rolesEventType is the custom state event mapping role names to
// members. Room admins maintain it; the bot only reads it.
//
//	{"roles": {"หัวหน้าแก๊ง": ["@somchai:example.org"], ...}}
const rolesEventType = "m.quartermaster.roles"

type rolesContent struct {
	Roles map[string][]ref.UserID `json:"roles"`
}

// resolveRoles returns the actor's current role names, read live from
// room state on every privileged action so revocations take effect
// immediately. A missing state event means nobody holds any role.
func (b *bot) resolveRoles(ctx context.Context, actor ref.UserID) ([]string, error) {
	raw, err := b.session.GetStateEvent(ctx, b.room, rolesEventType, "")
	if err != nil {
		if messaging.IsMatrixError(err, messaging.ErrCodeNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var content rolesContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("parsing %s state event: %w", rolesEventType, err)
	}

	var roles []string
	for role, members := range content.Roles {
		for _, member := range members {
			if member == actor {
				roles = append(roles, role)
				break
			}
		}
	}
	return roles, nil
}
