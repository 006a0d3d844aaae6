// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command quartermaster is a Matrix bot managing a team's shared
// inventory and bank balance.
//
// Members deposit and withdraw items and money through prefix
// commands in the panel room; withdrawals require a leader role. The
// bot keeps one canonical panel message showing current stock and
// balance, edits it after every mutation, and reposts it fresh every
// morning. State persists as JSON documents in the state directory.
//
// Besides the Matrix surface the bot exposes a keep-alive HTTP
// endpoint and an optional CBOR admin socket for local inspection.
package main
