// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package authorization decides whether an actor may perform
// withdraw-class ledger actions.
//
// The model is a deliberately small capability check: a fixed,
// configured set of leader role names defines withdrawal authority.
// Deposit-class actions (putting items or money into the shared
// ledger) are open to everyone and never consult the gate.
//
// Roles reach the gate as an opaque set of name strings. The caller
// resolves the actor's current roles at the moment of the action —
// there is no caching, so granting or revoking a role takes effect
// immediately. Matching is exact and case-sensitive: "Officer" does
// not authorize "officer".
package authorization
