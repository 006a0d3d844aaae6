// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bureau-foundation/quartermaster/lib/ledger"
	"github.com/bureau-foundation/quartermaster/lib/notify"
	"github.com/bureau-foundation/quartermaster/lib/ref"
	"github.com/bureau-foundation/quartermaster/lib/store"
)

func (b *bot) isCommand(body string) bool {
	return strings.HasPrefix(body, b.prefix)
}

// handleCommand parses and executes one prefixed command. Replies
// distinguish invalid input, missing permission, insufficient
// resources, and internal errors.
func (b *bot) handleCommand(ctx context.Context, actor ref.UserID, body string) {
	fields := strings.Fields(body)
	name := strings.TrimPrefix(fields[0], b.prefix)
	args := fields[1:]

	switch name {
	case "deposit-item":
		b.itemCommand(ctx, actor, args, store.ActionDeposit)
	case "withdraw-item":
		if !b.requireLeader(ctx, actor) {
			return
		}
		b.itemCommand(ctx, actor, args, store.ActionWithdraw)
	case "deposit-money":
		b.bankCommand(ctx, actor, args, store.ActionDeposit)
	case "withdraw-money":
		if !b.requireLeader(ctx, actor) {
			return
		}
		b.bankCommand(ctx, actor, args, store.ActionWithdraw)
	case "inventory":
		b.inventoryCommand(ctx)
	case "refresh-panel":
		if !b.requireLeader(ctx, actor) {
			return
		}
		if err := b.forceNewPanel(ctx); err != nil {
			b.reply(ctx, "เกิดข้อผิดพลาดภายใน ลองใหม่อีกครั้ง")
			return
		}
		b.reply(ctx, "✅ สร้างแผงใหม่แล้ว")
	default:
		b.reply(ctx, fmt.Sprintf("ไม่รู้จักคำสั่ง %s%s — คำสั่งที่มี: deposit-item, withdraw-item, deposit-money, withdraw-money, inventory, refresh-panel", b.prefix, name))
	}
}

// requireLeader resolves the actor's live roles and checks them
// against the gate. Sends the denial reply itself.
func (b *bot) requireLeader(ctx context.Context, actor ref.UserID) bool {
	roles, err := b.resolveRoles(ctx, actor)
	if err != nil {
		b.logger.Error("role resolution failed", "user_id", actor.String(), "error", err)
		b.reply(ctx, "เกิดข้อผิดพลาดภายใน ลองใหม่อีกครั้ง")
		return false
	}
	if !b.gate.Allowed(roles) {
		b.reply(ctx, "⛔ คำสั่งนี้เฉพาะ: "+strings.Join(b.gate.RoleNames(), ", "))
		return false
	}
	return true
}

// itemCommand handles deposit-item and withdraw-item. With no
// arguments it opens a prompt flow for the actor's next message.
func (b *bot) itemCommand(ctx context.Context, actor ref.UserID, args []string, action store.Action) {
	if len(args) == 0 {
		verb := "ฝาก"
		if action == store.ActionWithdraw {
			verb = "ถอน"
		}
		b.startPrompt(ctx, actor,
			fmt.Sprintf("จะ%sอะไร? พิมพ์: <ชื่อของ> <จำนวน> [เหตุผล]", verb),
			func(ctx context.Context, input string) {
				b.itemArgs(ctx, actor, strings.Fields(input), action)
			})
		return
	}
	b.itemArgs(ctx, actor, args, action)
}

func (b *bot) itemArgs(ctx context.Context, actor ref.UserID, args []string, action store.Action) {
	if len(args) < 2 {
		b.reply(ctx, "รูปแบบ: <ชื่อของ> <จำนวน> [เหตุผล]")
		return
	}
	item := args[0]
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		b.reply(ctx, fmt.Sprintf("จำนวนต้องเป็นตัวเลข ไม่ใช่ %q", args[1]))
		return
	}
	reason := strings.Join(args[2:], " ")
	if action == store.ActionWithdraw && reason == "" {
		b.reply(ctx, "การถอนต้องระบุเหตุผล")
		return
	}

	result, err := b.ledger.ApplyInventory(item, quantity, action)
	switch {
	case err == nil:
		b.notifier.EmitItem(ctx, b.room, notify.ItemRecord{
			Item:      result.Item,
			Quantity:  result.Quantity,
			Action:    result.Action,
			Success:   true,
			Remaining: result.Remaining,
			Reason:    reason,
			Actor:     actor,
			ActorName: b.displayName(ctx, actor),
		})
		b.reconcilePanel(ctx)
	case errors.Is(err, ledger.ErrInsufficientStock):
		b.notifier.EmitItem(ctx, b.room, notify.ItemRecord{
			Item:      result.Item,
			Quantity:  result.Quantity,
			Action:    result.Action,
			Success:   false,
			Remaining: result.Remaining,
			Reason:    reason,
			Actor:     actor,
			ActorName: b.displayName(ctx, actor),
		})
	case errors.Is(err, ledger.ErrUnknownItem):
		b.reply(ctx, fmt.Sprintf("ไม่รู้จัก %q — ดูรายการของได้ด้วย %sinventory", item, b.prefix))
	case ledger.IsValidationError(err):
		b.reply(ctx, "จำนวนต้องมากกว่าศูนย์")
	default:
		b.logger.Error("inventory operation failed", "item", item, "error", err)
		b.reply(ctx, "เกิดข้อผิดพลาดภายใน ลองใหม่อีกครั้ง")
	}
}

// bankCommand handles deposit-money and withdraw-money. With no
// arguments it opens a prompt flow for the actor's next message.
func (b *bot) bankCommand(ctx context.Context, actor ref.UserID, args []string, action store.Action) {
	if len(args) == 0 {
		verb := "ฝาก"
		if action == store.ActionWithdraw {
			verb = "ถอน"
		}
		b.startPrompt(ctx, actor,
			fmt.Sprintf("จะ%sเท่าไหร่? พิมพ์: <จำนวนเงิน> [เหตุผล]", verb),
			func(ctx context.Context, input string) {
				b.bankArgs(ctx, actor, strings.Fields(input), action)
			})
		return
	}
	b.bankArgs(ctx, actor, args, action)
}

func (b *bot) bankArgs(ctx context.Context, actor ref.UserID, args []string, action store.Action) {
	if len(args) < 1 {
		b.reply(ctx, "รูปแบบ: <จำนวนเงิน> [เหตุผล]")
		return
	}
	amount, err := strconv.Atoi(args[0])
	if err != nil {
		b.reply(ctx, fmt.Sprintf("จำนวนเงินต้องเป็นตัวเลข ไม่ใช่ %q", args[0]))
		return
	}
	reason := strings.Join(args[1:], " ")
	actorName := b.displayName(ctx, actor)

	result, err := b.ledger.ApplyBank(amount, action, actor, actorName, reason)
	switch {
	case err == nil:
		b.notifier.EmitBank(ctx, b.room, notify.BankRecord{
			Amount:    result.Amount,
			Action:    result.Action,
			Success:   true,
			Balance:   result.Balance,
			Reason:    reason,
			Actor:     actor,
			ActorName: actorName,
		})
		b.reconcilePanel(ctx)
	case errors.Is(err, ledger.ErrInsufficientFunds):
		b.notifier.EmitBank(ctx, b.room, notify.BankRecord{
			Amount:    result.Amount,
			Action:    result.Action,
			Success:   false,
			Balance:   result.Balance,
			Reason:    reason,
			Actor:     actor,
			ActorName: actorName,
		})
	case errors.Is(err, ledger.ErrMissingReason):
		b.reply(ctx, "การถอนต้องระบุเหตุผล")
	case ledger.IsValidationError(err):
		b.reply(ctx, "จำนวนเงินต้องมากกว่าศูนย์")
	default:
		b.logger.Error("bank operation failed", "amount", amount, "error", err)
		b.reply(ctx, "เกิดข้อผิดพลาดภายใน ลองใหม่อีกครั้ง")
	}
}

// inventoryCommand replies with the full item list and balance, the
// read-only complement to the truncated panel view.
func (b *bot) inventoryCommand(ctx context.Context) {
	inventory, bank := b.ledger.Snapshot()

	var lines []string
	lines = append(lines, "📦 ของทั้งหมดในคลัง")
	for _, item := range b.ledger.Catalog() {
		lines = append(lines, fmt.Sprintf("• %s: %d", item, inventory[item]))
	}
	lines = append(lines, fmt.Sprintf("💰 เงินกองกลาง: %d", bank.Balance))
	b.reply(ctx, strings.Join(lines, "\n"))
}
