// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import "errors"

// Validation errors: the input itself is bad. Rejected before any
// mutation and never worth an audit notice.
var (
	ErrUnknownItem   = errors.New("ledger: item is not in the catalog")
	ErrNonPositive   = errors.New("ledger: amount must be a positive integer")
	ErrMissingReason = errors.New("ledger: a withdrawal requires a reason")
	ErrUnknownAction = errors.New("ledger: unknown action")
)

// Insufficient-resource errors: the request was well-formed but the
// ledger cannot cover it. Domain-meaningful — reported to the room as
// a failed attempt.
var (
	ErrInsufficientStock = errors.New("ledger: insufficient stock")
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
)

// IsValidationError reports whether err is an input-validation
// failure, as opposed to an insufficient-resource failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUnknownItem) ||
		errors.Is(err, ErrNonPositive) ||
		errors.Is(err, ErrMissingReason) ||
		errors.Is(err, ErrUnknownAction)
}

// IsInsufficient reports whether err is an insufficient-resource
// failure (withdraw exceeding current stock or balance).
func IsInsufficient(err error) bool {
	return errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrInsufficientFunds)
}
