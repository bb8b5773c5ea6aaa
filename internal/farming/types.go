// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

// Package farming implements the reward and cost calculation engine of the
// storage network: the farming rate curve, the store cost quote, and the
// age-decayed decision of whether a single farming attempt earns a reward.
//
// Every function here is a pure computation over caller-supplied values.
// Nodes evaluating the same inputs reach the same decision independently,
// which is what lets any node re-verify a past reward without a ledger
// lookup.
package farming

import (
	"math"

	"github.com/dotandev/granary/internal/errors"
)

// Amount is a quantity of the network's currency in its smallest
// denomination (nanos).
type Amount uint64

// AgeCounter records how many times one data item has already yielded a
// reward. It starts at zero when the item is first stored and only moves
// through a granted attempt on that item.
type AgeCounter struct {
	Age uint64
}

// Bumped returns the counter incremented by one, saturating at the maximum
// representable age instead of wrapping.
func (a AgeCounter) Bumped() AgeCounter {
	if a.Age == math.MaxUint64 {
		return a
	}
	return AgeCounter{Age: a.Age + 1}
}

// RateState is a snapshot of network economic state, owned and refreshed by
// the ledger collaborator. The engine only reads it; granted amounts are
// folded back into TotalIssued by the caller before the next snapshot.
type RateState struct {
	TotalIssued Amount
	SupplyCap   Amount
	Utilization float64
}

// Validate checks the snapshot invariants. Issuance beyond the supply cap is
// a ConsistencyViolation: it means the ledger upstream is already corrupt,
// and the engine must not paper over it.
func (s RateState) Validate() error {
	if s.SupplyCap == 0 {
		return errors.WrapInvalidInput("supply cap must be positive")
	}
	if s.TotalIssued > s.SupplyCap {
		return errors.WrapConsistencyViolation("total issued exceeds supply cap")
	}
	if math.IsNaN(s.Utilization) || s.Utilization < 0 || s.Utilization > 1 {
		return errors.WrapInvalidInput("utilization must be within [0,1]")
	}
	return nil
}

// Remaining returns the currency that may still be issued under the cap.
func (s RateState) Remaining() Amount {
	return s.SupplyCap - s.TotalIssued
}

// RewardDecision is the outcome of one farming attempt. Amount is zero when
// the attempt was not granted. NewAge is the value the caller must persist
// for the item.
type RewardDecision struct {
	Granted bool
	Amount  Amount
	NewAge  uint64
}
