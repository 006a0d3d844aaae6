// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
)

// armRefresh schedules the next daily panel refresh and re-arms after
// each firing. The refresh forces a new panel so it returns to the
// bottom of the room each morning; ForceNew is idempotent enough that
// a spurious extra firing only costs one repost.
func (b *bot) armRefresh(ctx context.Context) {
	now := b.clock.Now()
	next := b.refresh.Next(now)

	b.clock.AfterFunc(next.Sub(now), func() {
		if ctx.Err() != nil {
			return
		}
		b.logger.Info("daily panel refresh firing")
		if err := b.forceNewPanel(ctx); err != nil {
			b.logger.Error("daily panel refresh failed", "error", err)
		}
		b.armRefresh(ctx)
	})

	b.logger.Info("daily panel refresh armed", "at", next.String())
}
