// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ledger is the shared-ledger state machine: it owns the team
// inventory and bank balance, validates every transaction, and is the
// only writer of the persisted documents.
//
// A [Ledger] holds in-memory mirrors of the two store documents and a
// mutex that serializes all mutations — one transaction runs to
// completion, including its synchronous persistence write, before the
// next begins. Command handlers and the panel reconciler may run
// concurrently; the engine is the serialization point.
//
// Validation is defense-in-depth: the command layer rejects bad input
// before it reaches the engine, and the engine re-checks anyway so it
// is safe to call directly from tests or other front ends. Failures
// split into two classes callers must distinguish: validation errors
// (unknown item, non-positive amount, missing withdrawal reason — see
// [IsValidationError]) and insufficient-resource errors
// ([ErrInsufficientStock], [ErrInsufficientFunds]). Neither class
// mutates state or touches the store.
//
// Successful bank transactions append a [store.TransactionRecord]
// with before/after balances; the log keeps only the newest 100
// entries. Failed transactions are never recorded — the audit
// notifier reports them to the room, but nothing is persisted.
//
// A persistence write failure after a successful mutation is logged
// and the in-memory state is kept: the operation already happened
// from the actors' point of view, and the next successful write
// repairs the document.
package ledger
