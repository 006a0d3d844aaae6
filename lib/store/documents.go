// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"time"

	"github.com/bureau-foundation/quartermaster/lib/ref"
)

// Action identifies the direction of a ledger transaction. The string
// values are part of the persisted document format.
type Action string

const (
	// ActionDeposit adds items or money to the shared ledger.
	ActionDeposit Action = "deposit"
	// ActionWithdraw removes items or money from the shared ledger.
	ActionWithdraw Action = "withdraw"
)

// Valid reports whether the action is one of the two known values.
func (a Action) Valid() bool {
	return a == ActionDeposit || a == ActionWithdraw
}

// TransactionRecord is one entry in the bank audit log. Records are
// immutable once appended; the only removal is the bounded-log
// truncation that drops the oldest entries.
type TransactionRecord struct {
	// Timestamp is the zoned creation time, serialized as RFC 3339
	// with the configured zone's offset.
	Timestamp     time.Time  `json:"timestamp"`
	UserID        ref.UserID `json:"user_id"`
	UserName      string     `json:"user_name"`
	Action        Action     `json:"action"`
	Amount        int        `json:"amount"`
	Reason        string     `json:"reason"`
	BalanceBefore int        `json:"balance_before"`
	BalanceAfter  int        `json:"balance_after"`
}

// BankDocument is the persisted bank state: the current balance and
// the transaction log, most recent last.
type BankDocument struct {
	Balance int                 `json:"balance"`
	Log     []TransactionRecord `json:"log"`
}

// Clone returns a deep copy. Callers that hand bank state to
// rendering code use this so the ledger's owned document is never
// aliased outside the engine.
func (d BankDocument) Clone() BankDocument {
	clone := BankDocument{Balance: d.Balance}
	if d.Log != nil {
		clone.Log = make([]TransactionRecord, len(d.Log))
		copy(clone.Log, d.Log)
	}
	return clone
}
