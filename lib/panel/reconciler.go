// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/quartermaster/lib/clock"
	"github.com/bureau-foundation/quartermaster/lib/ref"
	"github.com/bureau-foundation/quartermaster/lib/store"
	"github.com/bureau-foundation/quartermaster/messaging"
)

// Messenger is the slice of the Matrix session the reconciler needs.
type Messenger interface {
	SendMessage(ctx context.Context, roomID ref.RoomID, content messaging.MessageContent) (ref.EventID, error)
	EditMessage(ctx context.Context, roomID ref.RoomID, target ref.EventID, content messaging.MessageContent) (ref.EventID, error)
	RedactEvent(ctx context.Context, roomID ref.RoomID, target ref.EventID, reason string) error
	GetEvent(ctx context.Context, roomID ref.RoomID, eventID ref.EventID) (*messaging.Event, error)
}

// Config holds dependencies for creating a Reconciler.
type Config struct {
	// Store persists the panel's event ID across restarts. Required.
	Store *store.Store
	// Messenger talks to the panel room. Required.
	Messenger Messenger
	// Room is the room hosting the panel. Required.
	Room ref.RoomID
	// CommandPrefix appears in the panel's overflow hint.
	// Default: "$"
	CommandPrefix string
	// Location is the timezone of the panel's footer timestamp.
	// Default: time.UTC
	Location *time.Location
	// Clock provides the footer timestamp. Default: clock.Real()
	Clock clock.Clock
	// Logger is used for structured logging. Default: slog.Default()
	Logger *slog.Logger
}

// Reconciler owns the lifecycle of the canonical panel message.
// Methods are not safe for concurrent use; the command loop and the
// daily refresh serialize through the same goroutine.
type Reconciler struct {
	store         *store.Store
	messenger     Messenger
	room          ref.RoomID
	commandPrefix string
	location      *time.Location
	clock         clock.Clock
	logger        *slog.Logger
}

// New creates a Reconciler.
func New(config Config) (*Reconciler, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("panel: Store is required")
	}
	if config.Messenger == nil {
		return nil, fmt.Errorf("panel: Messenger is required")
	}
	if config.Room.IsZero() {
		return nil, fmt.Errorf("panel: Room is required")
	}
	if config.CommandPrefix == "" {
		config.CommandPrefix = "$"
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Reconciler{
		store:         config.Store,
		messenger:     config.Messenger,
		room:          config.Room,
		commandPrefix: config.CommandPrefix,
		location:      config.Location,
		clock:         config.Clock,
		logger:        config.Logger,
	}, nil
}

// Ensure makes the room's panel match the given ledger snapshot. If
// the persisted panel message is still live it is edited in place.
// When the message is gone, or the edit itself fails, the stale
// identity is discarded and a fresh panel is posted. Returns the
// live panel's event ID.
func (r *Reconciler) Ensure(ctx context.Context, inventory map[string]int, bank store.BankDocument) (ref.EventID, error) {
	content := renderPanel(inventory, bank, r.commandPrefix, r.clock.Now(), r.location)

	panelID := r.store.LoadPanelID()
	if !panelID.IsZero() {
		if r.isLive(ctx, panelID) {
			_, err := r.messenger.EditMessage(ctx, r.room, panelID, content)
			if err == nil {
				return panelID, nil
			}
			// Any edit failure (gone, forbidden, transport)
			// degrades to recreation; only creation itself can
			// fail the reconcile.
			r.discardStale(panelID, err)
		} else {
			r.discardStale(panelID, nil)
		}
	}

	return r.create(ctx, content)
}

// ForceNew discards the current panel unconditionally and posts a
// fresh one, so the panel returns to the bottom of the room. The old
// message is redacted best-effort; a failed redaction still discards
// the identity.
func (r *Reconciler) ForceNew(ctx context.Context, inventory map[string]int, bank store.BankDocument) (ref.EventID, error) {
	content := renderPanel(inventory, bank, r.commandPrefix, r.clock.Now(), r.location)

	panelID := r.store.LoadPanelID()
	if !panelID.IsZero() {
		if err := r.messenger.RedactEvent(ctx, r.room, panelID, "panel refresh"); err != nil {
			r.logger.Warn("failed to redact old panel, discarding identity anyway",
				"event_id", panelID.String(), "error", err)
		}
		if err := r.store.ClearPanelID(); err != nil {
			return ref.EventID{}, fmt.Errorf("panel: clearing panel identity: %w", err)
		}
	}

	return r.create(ctx, content)
}

// isLive reports whether the persisted panel event still exists and
// has content. Any fetch failure counts as not live; recreating on a
// transient error costs one duplicate panel, while editing a dead
// event loses the panel entirely.
func (r *Reconciler) isLive(ctx context.Context, panelID ref.EventID) bool {
	event, err := r.messenger.GetEvent(ctx, r.room, panelID)
	if err != nil {
		r.logger.Warn("panel liveness probe failed",
			"event_id", panelID.String(), "error", err)
		return false
	}
	if event.Unsigned != nil && event.Unsigned.RedactedBecause != nil {
		return false
	}
	return true
}

// discardStale clears a panel identity that no longer refers to a
// live message.
func (r *Reconciler) discardStale(panelID ref.EventID, cause error) {
	r.logger.Info("discarding stale panel identity",
		"event_id", panelID.String(), "cause", fmt.Sprint(cause))
	if err := r.store.ClearPanelID(); err != nil {
		r.logger.Error("failed to clear stale panel identity", "error", err)
	}
}

// create posts a fresh panel and persists its identity. On send
// failure the identity stays absent and the next Ensure retries.
func (r *Reconciler) create(ctx context.Context, content messaging.MessageContent) (ref.EventID, error) {
	eventID, err := r.messenger.SendMessage(ctx, r.room, content)
	if err != nil {
		return ref.EventID{}, fmt.Errorf("panel: creating panel: %w", err)
	}
	if err := r.store.SavePanelID(eventID); err != nil {
		return ref.EventID{}, fmt.Errorf("panel: persisting panel identity: %w", err)
	}
	r.logger.Info("posted new panel", "event_id", eventID.String())
	return eventID, nil
}
