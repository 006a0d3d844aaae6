// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bureau-foundation/quartermaster/lib/clock"
	"github.com/bureau-foundation/quartermaster/lib/ref"
	"github.com/bureau-foundation/quartermaster/lib/store"
	"github.com/bureau-foundation/quartermaster/messaging"
)

// Sender is the slice of the Matrix session the notifier needs.
type Sender interface {
	SendMessage(ctx context.Context, roomID ref.RoomID, content messaging.MessageContent) (ref.EventID, error)
}

// ItemRecord describes an attempted inventory operation.
type ItemRecord struct {
	Item      string
	Quantity  int
	Action    store.Action
	Success   bool
	Remaining int // post-mutation quantity, or current stock on failure
	Reason    string
	Actor     ref.UserID
	ActorName string
}

// BankRecord describes an attempted bank operation.
type BankRecord struct {
	Amount    int
	Action    store.Action
	Success   bool
	Balance   int // post-mutation balance, or current balance on failure
	Reason    string
	Actor     ref.UserID
	ActorName string
}

// Config holds dependencies for creating a Notifier.
type Config struct {
	// Sender posts notices. Required.
	Sender Sender
	// Location is the timezone of notice timestamps. Default: time.UTC
	Location *time.Location
	// Clock provides notice timestamps. Default: clock.Real()
	Clock clock.Clock
	// Logger is used for structured logging. Default: slog.Default()
	Logger *slog.Logger
}

// Notifier formats and sends audit notices.
type Notifier struct {
	sender   Sender
	location *time.Location
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a Notifier.
func New(config Config) (*Notifier, error) {
	if config.Sender == nil {
		return nil, fmt.Errorf("notify: Sender is required")
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
	return &Notifier{
		sender:   config.Sender,
		location: config.Location,
		clock:    config.Clock,
		logger:   config.Logger,
	}, nil
}

// EmitItem posts an inventory audit notice to the given room. Send
// failures are logged, never returned.
func (n *Notifier) EmitItem(ctx context.Context, room ref.RoomID, record ItemRecord) {
	var lines []string
	if record.Success {
		lines = append(lines, fmt.Sprintf("✅ %s %s x%d",
			actionVerb(record.Action), record.Item, record.Quantity))
		lines = append(lines, fmt.Sprintf("คงเหลือ: %d", record.Remaining))
	} else {
		lines = append(lines, fmt.Sprintf("⚠️ %s %s x%d ไม่สำเร็จ",
			actionVerb(record.Action), record.Item, record.Quantity))
		lines = append(lines, fmt.Sprintf("ของในคลังมีไม่พอ (คงเหลือ %d)", record.Remaining))
	}
	lines = append(lines, "เหตุผล: "+reasonOrPlaceholder(record.Reason))
	lines = append(lines, n.footer(record.ActorName, record.Actor))

	n.send(ctx, room, lines, "item audit notice")
}

// EmitBank posts a bank audit notice to the given room. Send failures
// are logged, never returned.
func (n *Notifier) EmitBank(ctx context.Context, room ref.RoomID, record BankRecord) {
	var lines []string
	if record.Success {
		lines = append(lines, fmt.Sprintf("✅ %sเงินกองกลาง %d",
			actionVerb(record.Action), record.Amount))
		lines = append(lines, fmt.Sprintf("ยอดคงเหลือ: %d", record.Balance))
	} else {
		lines = append(lines, fmt.Sprintf("⚠️ %sเงินกองกลาง %d ไม่สำเร็จ",
			actionVerb(record.Action), record.Amount))
		lines = append(lines, fmt.Sprintf("ยอดเงินไม่พอ (คงเหลือ %d)", record.Balance))
	}
	lines = append(lines, "เหตุผล: "+reasonOrPlaceholder(record.Reason))
	lines = append(lines, n.footer(record.ActorName, record.Actor))

	n.send(ctx, room, lines, "bank audit notice")
}

func (n *Notifier) send(ctx context.Context, room ref.RoomID, lines []string, kind string) {
	body := strings.Join(lines, "\n")
	if _, err := n.sender.SendMessage(ctx, room, messaging.NewTextMessage(body)); err != nil {
		n.logger.Warn("failed to send "+kind, "room", room.String(), "error", err)
	}
}

// footer renders the actor attribution and zoned timestamp line.
func (n *Notifier) footer(actorName string, actor ref.UserID) string {
	name := actorName
	if name == "" && !actor.IsZero() {
		name = actor.Localpart()
	}
	timestamp := n.clock.Now().In(n.location).Format("2006-01-02 15:04 MST")
	return fmt.Sprintf("โดย %s · %s", name, timestamp)
}

// reasonOrPlaceholder keeps the reason line present even when no
// reason was given, so notices always have the same shape.
func reasonOrPlaceholder(reason string) string {
	if reason == "" {
		return "N/A"
	}
	return reason
}

func actionVerb(action store.Action) string {
	switch action {
	case store.ActionDeposit:
		return "ฝาก"
	case store.ActionWithdraw:
		return "ถอน"
	default:
		return string(action)
	}
}
