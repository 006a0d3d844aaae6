// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package panel maintains the single canonical control-panel message
// in the team's Matrix room.
//
// The panel is identified by a persisted event ID. The reconciler's
// job is to make the room match the ledger: if the persisted event is
// still live, it is edited in place; if it is gone (redacted, deleted,
// or unreachable), the stale identity is discarded and a fresh panel
// is posted. The persisted identity therefore always refers to a live
// message, or is absent.
package panel
