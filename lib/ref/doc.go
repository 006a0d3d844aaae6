// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides validated value types for Matrix identifiers:
// [RoomID], [UserID], and [EventID].
//
// Identifiers arrive as raw strings from the homeserver (sync
// responses, send acknowledgements) and from configuration. Parsing
// them into distinct types at the boundary prevents a room ID from
// being passed where a user ID is expected — mix-ups that plain
// strings would happily compile.
//
// All three types are immutable values. The zero value is not valid;
// use IsZero to check. UserID and EventID implement TextMarshaler and
// TextUnmarshaler so they can appear directly in persisted JSON
// documents (the bank transaction log records actor user IDs, and the
// control panel identity is a bare event ID).
package ref
