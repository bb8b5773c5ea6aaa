// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

// Package ledger carries the caller-side state the farming engine refuses to
// own: the running total of issued currency, and the per-farmer accumulation
// of granted rewards awaiting a claim.
package ledger

import (
	"github.com/dotandev/granary/internal/errors"
	"github.com/dotandev/granary/internal/farming"
)

// Book tracks total issuance between snapshots. The engine only ever sees a
// RateState produced by Snapshot; granted amounts are folded back in through
// Apply. Not safe for concurrent use; callers serialize issuance updates.
type Book struct {
	issued farming.Amount
	cap    farming.Amount
}

// NewBook starts a book at the given issuance. Issuance beyond the cap is a
// ConsistencyViolation, same as everywhere else in the engine.
func NewBook(supplyCap, issued farming.Amount) (*Book, error) {
	if supplyCap == 0 {
		return nil, errors.WrapInvalidConfig("supply cap must be positive")
	}
	if issued > supplyCap {
		return nil, errors.WrapConsistencyViolation("initial issuance exceeds supply cap")
	}
	return &Book{issued: issued, cap: supplyCap}, nil
}

// Snapshot produces the immutable state for the next batch of decisions.
func (b *Book) Snapshot(utilization float64) farming.RateState {
	return farming.RateState{
		TotalIssued: b.issued,
		SupplyCap:   b.cap,
		Utilization: utilization,
	}
}

// Apply folds a granted amount into total issuance.
func (b *Book) Apply(amount farming.Amount) error {
	if amount > b.cap-b.issued {
		return errors.WrapConsistencyViolation("applying reward would exceed supply cap")
	}
	b.issued += amount
	return nil
}

// TotalIssued returns the currency issued so far.
func (b *Book) TotalIssued() farming.Amount { return b.issued }

// Remaining returns the currency still issuable under the cap.
func (b *Book) Remaining() farming.Amount { return b.cap - b.issued }
