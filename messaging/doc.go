// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging wraps the slice of the Matrix client-server API
// that quartermaster consumes.
//
// [Client] is an unauthenticated client holding the homeserver URL
// and HTTP transport. [NewSession] wraps it with an access token for
// the authenticated operations the bot needs: sending and editing
// room messages (edits use the m.replace relation), redacting events,
// fetching a single event by ID (the panel reconciler's liveness
// probe), reading state events, profile display names, and
// incremental /sync with long-polling.
//
// This is deliberately a thin binding — no registration, no media,
// no threads. The interesting logic lives in the packages that
// consume it; tests there substitute fakes for the narrow interfaces
// they declare.
//
// All API errors are returned as [*MatrixError] with the standard
// Matrix error code (M_FORBIDDEN, M_NOT_FOUND, ...) and HTTP status.
// [IsMatrixError] tests for a specific code. Request URLs are built
// by string concatenation with path-escaped segments rather than
// url.URL, which re-encodes already-encoded path segments.
package messaging
