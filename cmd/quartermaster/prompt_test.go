// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"testing"
	"time"
)

func TestPromptFlowCompletesCommand(t *testing.T) {
	b, session, _ := newTestBot(t)
	ctx := context.Background()

	b.dispatch(ctx, message(memberUser, "$deposit-item"))
	if len(session.messagesContaining("พิมพ์:")) != 1 {
		t.Fatalf("expected a prompt, got %v", session.bodies)
	}

	// The actor's next plain message completes the flow.
	b.dispatch(ctx, message(memberUser, "ไม้ 7"))

	waitFor(t, func() bool {
		inventory, _ := b.ledger.Snapshot()
		return inventory["ไม้"] == 7
	})
	waitFor(t, func() bool { return len(session.messagesContaining("✅")) == 1 })
}

func TestPromptFlowTimesOut(t *testing.T) {
	b, session, fakeClock := newTestBot(t)
	ctx := context.Background()

	b.dispatch(ctx, message(memberUser, "$deposit-money"))
	if len(session.messagesContaining("พิมพ์:")) != 1 {
		t.Fatalf("expected a prompt, got %v", session.bodies)
	}

	fakeClock.WaitForTimers(1)
	fakeClock.Advance(3 * time.Minute)

	waitFor(t, func() bool { return len(session.messagesContaining("หมดเวลา")) == 1 })

	// Input after expiry is ordinary chatter, not flow input.
	b.dispatch(ctx, message(memberUser, "500"))
	_, bank := b.ledger.Snapshot()
	if bank.Balance != 0 {
		t.Errorf("balance = %d, want 0 (expired flow must not consume input)", bank.Balance)
	}
}

func TestConcurrentPromptFlowsAreIndependent(t *testing.T) {
	b, session, fakeClock := newTestBot(t)
	ctx := context.Background()

	b.dispatch(ctx, message(memberUser, "$deposit-item"))
	b.dispatch(ctx, message(leaderUser, "$deposit-item"))
	fakeClock.WaitForTimers(2)

	// The member answers; the leader's flow stays pending.
	b.dispatch(ctx, message(memberUser, "หิน 3"))
	waitFor(t, func() bool {
		inventory, _ := b.ledger.Snapshot()
		return inventory["หิน"] == 3
	})

	// Only the leader's flow expires.
	fakeClock.Advance(3 * time.Minute)
	waitFor(t, func() bool { return len(session.messagesContaining("หมดเวลา")) == 1 })
}

func TestPromptAnswerRacingExpiryIsNotDropped(t *testing.T) {
	b, session, fakeClock := newTestBot(t)
	ctx := context.Background()

	// Deliver the answer and expire the timer back to back, so the
	// flow goroutine sees both its input and its timer ready at once.
	// A consumed answer must always run, and never both run and
	// announce an expiry. Repeated because the goroutine's pick
	// between the two ready channels is not deterministic.
	const rounds = 20
	for i := 1; i <= rounds; i++ {
		b.dispatch(ctx, message(memberUser, "$deposit-item"))
		fakeClock.WaitForTimers(1)

		b.dispatch(ctx, message(memberUser, "ไม้ 1"))
		fakeClock.Advance(3 * time.Minute)

		want := i
		waitFor(t, func() bool {
			inventory, _ := b.ledger.Snapshot()
			return inventory["ไม้"] == want
		})
	}

	if got := len(session.messagesContaining("หมดเวลา")); got != 0 {
		t.Errorf("consumed answers produced %d timeout replies, want 0", got)
	}
	if got := len(session.messagesContaining("✅")); got != rounds {
		t.Errorf("applied deposits = %d, want %d", got, rounds)
	}
}

func TestNewCommandSupersedesPendingPrompt(t *testing.T) {
	b, session, fakeClock := newTestBot(t)
	ctx := context.Background()

	b.dispatch(ctx, message(memberUser, "$deposit-item"))
	fakeClock.WaitForTimers(1)

	// A fresh command cancels the hanging flow.
	b.dispatch(ctx, message(memberUser, "$inventory"))

	// The cancelled flow's timer firing must not produce a timeout
	// reply.
	fakeClock.Advance(3 * time.Minute)
	time.Sleep(50 * time.Millisecond)
	if len(session.messagesContaining("หมดเวลา")) != 0 {
		t.Errorf("cancelled flow must expire silently, got %v", session.bodies)
	}
}
