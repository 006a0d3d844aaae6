// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/bureau-foundation/quartermaster/lib/authorization"
	"github.com/bureau-foundation/quartermaster/lib/clock"
	"github.com/bureau-foundation/quartermaster/lib/ledger"
	"github.com/bureau-foundation/quartermaster/lib/notify"
	"github.com/bureau-foundation/quartermaster/lib/panel"
	"github.com/bureau-foundation/quartermaster/lib/ref"
	"github.com/bureau-foundation/quartermaster/lib/schedule"
	"github.com/bureau-foundation/quartermaster/lib/store"
	"github.com/bureau-foundation/quartermaster/messaging"
)

// matrixSession is the slice of the Matrix session the bot consumes.
// *messaging.Session satisfies it; tests substitute a fake.
type matrixSession interface {
	SendMessage(ctx context.Context, roomID ref.RoomID, content messaging.MessageContent) (ref.EventID, error)
	EditMessage(ctx context.Context, roomID ref.RoomID, target ref.EventID, content messaging.MessageContent) (ref.EventID, error)
	RedactEvent(ctx context.Context, roomID ref.RoomID, target ref.EventID, reason string) error
	GetEvent(ctx context.Context, roomID ref.RoomID, eventID ref.EventID) (*messaging.Event, error)
	GetStateEvent(ctx context.Context, roomID ref.RoomID, eventType, stateKey string) (json.RawMessage, error)
	GetDisplayName(ctx context.Context, userID ref.UserID) (string, error)
	Sync(ctx context.Context, options messaging.SyncOptions) (*messaging.SyncResponse, error)
}

// bot wires the ledger, permission gate, panel reconciler, and audit
// notifier behind the Matrix command surface.
type bot struct {
	session    matrixSession
	store      *store.Store
	ledger     *ledger.Ledger
	gate       *authorization.Gate
	reconciler *panel.Reconciler
	notifier   *notify.Notifier
	prompts    *promptTable
	clock      clock.Clock
	logger     *slog.Logger

	room          ref.RoomID
	selfID        ref.UserID
	prefix        string
	refresh       schedule.Daily
	promptTimeout time.Duration

	// panelMu serializes reconciliations: the sync loop, prompt
	// continuations, the daily refresh, and the admin socket can all
	// touch the panel concurrently.
	panelMu sync.Mutex
}

// reconcilePanel edits the live panel (or posts a fresh one) to match
// durable ledger state. The reload means the panel reflects what is
// on disk, not just the in-memory mirror.
func (b *bot) reconcilePanel(ctx context.Context) error {
	b.panelMu.Lock()
	defer b.panelMu.Unlock()

	b.ledger.Reload()
	inventory, bank := b.ledger.Snapshot()
	if _, err := b.reconciler.Ensure(ctx, inventory, bank); err != nil {
		b.logger.Error("panel reconciliation failed", "error", err)
		return err
	}
	return nil
}

// forceNewPanel discards the current panel and posts a fresh one at
// the bottom of the room.
func (b *bot) forceNewPanel(ctx context.Context) error {
	b.panelMu.Lock()
	defer b.panelMu.Unlock()

	b.ledger.Reload()
	inventory, bank := b.ledger.Snapshot()
	if _, err := b.reconciler.ForceNew(ctx, inventory, bank); err != nil {
		b.logger.Error("panel force-new failed", "error", err)
		return err
	}
	return nil
}

// reply sends a plain text message to the panel room. Failures are
// logged; there is nobody to propagate them to.
func (b *bot) reply(ctx context.Context, body string) {
	if _, err := b.session.SendMessage(ctx, b.room, messaging.NewTextMessage(body)); err != nil {
		b.logger.Warn("failed to send reply", "error", err)
	}
}

// displayName resolves the actor's display name, falling back to the
// localpart when the profile lookup fails.
func (b *bot) displayName(ctx context.Context, userID ref.UserID) string {
	name, err := b.session.GetDisplayName(ctx, userID)
	if err != nil {
		b.logger.Warn("display name lookup failed", "user_id", userID.String(), "error", err)
		return userID.Localpart()
	}
	return name
}
