// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"sync"

	"github.com/bureau-foundation/quartermaster/lib/ref"
)

// promptFlow is one pending "waiting for the actor's next message"
// interaction. Input arrives on input; cancel is closed when a new
// command from the same actor supersedes the flow.
type promptFlow struct {
	input  chan string
	cancel chan struct{}
}

// flowKey identifies a flow by room and actor, so concurrent flows
// from different actors are independent.
type flowKey struct {
	room  ref.RoomID
	actor ref.UserID
}

// promptTable tracks pending prompt flows. Safe for concurrent use.
type promptTable struct {
	mu    sync.Mutex
	flows map[flowKey]*promptFlow
}

func newPromptTable() *promptTable {
	return &promptTable{flows: make(map[flowKey]*promptFlow)}
}

// open registers a new flow, superseding any existing flow for the
// same actor in the same room.
func (t *promptTable) open(room ref.RoomID, actor ref.UserID) *promptFlow {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := flowKey{room: room, actor: actor}
	if existing, ok := t.flows[key]; ok {
		close(existing.cancel)
	}
	flow := &promptFlow{
		input:  make(chan string, 1),
		cancel: make(chan struct{}),
	}
	t.flows[key] = flow
	return flow
}

// deliver routes a message to the actor's pending flow, if any.
// Returns true when the message was consumed. The flow is removed
// before the input is handed over, so each flow consumes exactly one
// message.
func (t *promptTable) deliver(room ref.RoomID, actor ref.UserID, body string) bool {
	t.mu.Lock()
	key := flowKey{room: room, actor: actor}
	flow, ok := t.flows[key]
	if ok {
		delete(t.flows, key)
	}
	t.mu.Unlock()

	if !ok {
		return false
	}
	flow.input <- body
	return true
}

// cancel removes the actor's pending flow, if any, and signals its
// goroutine to exit silently.
func (t *promptTable) cancel(room ref.RoomID, actor ref.UserID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := flowKey{room: room, actor: actor}
	if flow, ok := t.flows[key]; ok {
		close(flow.cancel)
		delete(t.flows, key)
	}
}

// remove drops the flow if it is still the registered one. Used by
// the expiry path; a flow that was already consumed or superseded is
// left alone.
func (t *promptTable) remove(room ref.RoomID, actor ref.UserID, flow *promptFlow) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := flowKey{room: room, actor: actor}
	if t.flows[key] != flow {
		return false
	}
	delete(t.flows, key)
	return true
}

// startPrompt asks the actor for the command's missing arguments and
// runs the continuation with their next message in this room. The
// flow expires after promptTimeout with a visible reply; only this
// flow is cancelled, other actors' flows are untouched.
func (b *bot) startPrompt(ctx context.Context, actor ref.UserID, promptText string, continuation func(ctx context.Context, input string)) {
	flow := b.prompts.open(b.room, actor)
	b.reply(ctx, promptText)

	go func() {
		select {
		case input := <-flow.input:
			continuation(ctx, input)
		case <-flow.cancel:
		case <-b.clock.After(b.promptTimeout):
			// Only announce the expiry if the flow is still live.
			if b.prompts.remove(b.room, actor, flow) {
				b.reply(ctx, "⏱️ หมดเวลา กรุณาพิมพ์คำสั่งใหม่")
				return
			}
			// The flow was consumed or superseded between the timer
			// firing and this running. deliver unregisters before it
			// hands the input over, so an answer may still be in
			// flight; wait for it rather than dropping it.
			select {
			case input := <-flow.input:
				continuation(ctx, input)
			case <-flow.cancel:
			case <-ctx.Done():
			}
		case <-ctx.Done():
		}
	}()
}
