// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"time"

	"github.com/bureau-foundation/quartermaster/messaging"
)

// syncTimeout is the /sync long-poll timeout in milliseconds.
const syncTimeout = 30000

// syncRetryDelay is how long to wait after a failed sync before
// trying again.
const syncRetryDelay = 5 * time.Second

// runSync is the bot's main loop: long-poll /sync and dispatch
// message events from the panel room. Blocks until ctx is cancelled.
func (b *bot) runSync(ctx context.Context) error {
	since := ""
	for {
		if ctx.Err() != nil {
			return nil
		}

		response, err := b.session.Sync(ctx, messaging.SyncOptions{
			Since:   since,
			Timeout: syncTimeout,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			b.logger.Warn("sync failed, retrying", "error", err)
			select {
			case <-b.clock.After(syncRetryDelay):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		// The initial sync returns room history; commands in the
		// backlog were either handled before the restart or are
		// stale. Only act on events arriving after startup.
		if since == "" {
			since = response.NextBatch
			continue
		}
		since = response.NextBatch

		for roomID, room := range response.Rooms.Join {
			if roomID != b.room {
				continue
			}
			for i := range room.Timeline.Events {
				b.dispatch(ctx, &room.Timeline.Events[i])
			}
		}
	}
}

// dispatch routes one timeline event: commands to the command
// handlers, other messages to a pending prompt flow if the sender has
// one, everything else is ignored.
func (b *bot) dispatch(ctx context.Context, event *messaging.Event) {
	if event.Type != "m.room.message" {
		return
	}
	if event.Sender == b.selfID {
		return
	}
	body := event.MessageBody()
	if body == "" {
		return
	}

	if b.isCommand(body) {
		// A fresh command supersedes any prompt the actor left
		// hanging.
		b.prompts.cancel(b.room, event.Sender)
		b.handleCommand(ctx, event.Sender, body)
		return
	}

	b.prompts.deliver(b.room, event.Sender, body)
}
