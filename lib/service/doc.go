// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the long-running server primitives the bot
// is built from: a CBOR request-response Unix socket for local admin
// operations and an HTTP server for the keep-alive endpoint.
//
// Both servers follow the same lifecycle: Serve(ctx) blocks until the
// context is cancelled, then drains in-flight work before returning.
package service
