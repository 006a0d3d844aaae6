// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides quartermaster's standard CBOR configuration.
//
// The admin socket protocol is CBOR rather than JSON: self-delimiting
// values need no framing on a stream socket, and Core Deterministic
// Encoding gives byte-stable output for identical data. All CBOR in
// the codebase goes through this package so encoder and decoder
// options stay consistent.
package codec
