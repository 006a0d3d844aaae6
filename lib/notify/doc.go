// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package notify posts human-readable audit notices for ledger
// operations to the team's Matrix room.
//
// Notices are best-effort: a failed send is logged and dropped,
// because the ledger mutation it describes has already been applied
// and persisted. The authoritative audit trail is the transaction log
// in bank.json, not the room history.
package notify
