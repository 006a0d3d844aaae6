// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package store persists the shared ledger documents as human-readable
// JSON files in a single state directory.
//
// Three artifacts live on disk:
//
//   - inventory.json — item name to quantity mapping
//   - bank.json — bank balance plus the bounded transaction log
//   - panel_message_id — the canonical control panel event ID, as a
//     bare string (no JSON)
//
// The package owns the persisted document shapes ([BankDocument],
// [TransactionRecord]) and their field names; the ledger engine owns
// all mutation logic. Documents are written atomically (temp file +
// rename) with HTML escaping disabled so non-ASCII item names — the
// catalog is Thai — round-trip byte-identically.
//
// Loads degrade rather than fail: a missing or corrupt document
// reinitializes to the empty state with a logged warning, matching
// the recovery behavior the rest of the system is built around. Saves
// are synchronous and report errors to the caller.
package store
