// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"math"

	"github.com/dotandev/granary/internal/errors"
	"github.com/dotandev/granary/internal/farming"
)

// FarmerID identifies a reward account.
type FarmerID string

// Accumulation is one farmer's pending balance and work counter.
type Accumulation struct {
	Amount farming.Amount
	Worked uint64
}

// Accumulator is the book keeping of rewards. The business rule is that a
// piece of data is only rewarded once per event: every event id is recorded
// and a second accumulation under the same id is rejected. Not safe for
// concurrent use.
type Accumulator struct {
	seen        map[string]struct{}
	accumulated map[FarmerID]Accumulation
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		seen:        make(map[string]struct{}),
		accumulated: make(map[FarmerID]Accumulation),
	}
}

// AddFarmer registers a reward account with its prior work counter.
func (a *Accumulator) AddFarmer(id FarmerID, worked uint64) error {
	if _, ok := a.accumulated[id]; ok {
		return errors.WrapFarmerExists(string(id))
	}
	a.accumulated[id] = Accumulation{Worked: worked}
	return nil
}

// Accumulate distributes one event's reward across farmers. The whole
// distribution is validated before any balance moves: a duplicate event id
// or a balance overflow rejects the event with no partial effect.
func (a *Accumulator) Accumulate(eventID string, distribution map[FarmerID]farming.Amount) error {
	if _, ok := a.seen[eventID]; ok {
		return errors.WrapDuplicateEvent(eventID)
	}
	for id, amount := range distribution {
		existing := a.accumulated[id]
		if amount > math.MaxUint64-existing.Amount {
			return errors.WrapExcessiveValue(string(id))
		}
	}
	for id, amount := range distribution {
		existing := a.accumulated[id]
		existing.Amount += amount
		existing.Worked++
		a.accumulated[id] = existing
	}
	a.seen[eventID] = struct{}{}
	return nil
}

// Claim removes and returns a farmer's accumulated rewards.
func (a *Accumulator) Claim(id FarmerID) (Accumulation, error) {
	acc, ok := a.accumulated[id]
	if !ok {
		return Accumulation{}, errors.WrapUnknownFarmer(string(id))
	}
	delete(a.accumulated, id)
	return acc, nil
}

// Get returns a farmer's current accumulation.
func (a *Accumulator) Get(id FarmerID) (Accumulation, bool) {
	acc, ok := a.accumulated[id]
	return acc, ok
}

// Rewarded reports whether an event id has already been accumulated.
func (a *Accumulator) Rewarded(eventID string) bool {
	_, ok := a.seen[eventID]
	return ok
}

// Pending returns the sum of all unclaimed balances.
func (a *Accumulator) Pending() farming.Amount {
	var total farming.Amount
	for _, acc := range a.accumulated {
		total += acc.Amount
	}
	return total
}
