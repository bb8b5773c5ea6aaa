// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package farming

import (
	"math"

	"github.com/dotandev/granary/internal/errors"
)

// Params are the economic constants of the engine, loaded once at startup by
// the surrounding process.
type Params struct {
	// BaseRate is the farming rate of an empty, unissued network. The
	// effective rate never exceeds it.
	BaseRate float64
	// DecayFactor controls how fast an item's grant probability falls as
	// its age grows. Must be positive.
	DecayFactor float64
	// ItemUnitValue is the nominal value of serving one data unit; a
	// granted reward is the current rate times this value.
	ItemUnitValue Amount
	// SupplyCap is the maximum total currency the network will ever issue.
	SupplyCap Amount
	// MinStoreCost and MaxStoreCost bound the price of storing one new
	// data unit.
	MinStoreCost Amount
	MaxStoreCost Amount
}

// DefaultParams returns the network defaults: a 2^32 coin supply at nano
// precision, one-coin unit value, and store costs between 0.001 and 1 coin.
func DefaultParams() Params {
	return Params{
		BaseRate:      1.0,
		DecayFactor:   0.1,
		ItemUnitValue: 1_000_000_000,
		SupplyCap:     4_294_967_296 * 1_000_000_000,
		MinStoreCost:  1_000_000,
		MaxStoreCost:  1_000_000_000,
	}
}

// Validate rejects malformed parameter sets before they reach a decision.
func (p Params) Validate() error {
	if math.IsNaN(p.BaseRate) || p.BaseRate <= 0 {
		return errors.WrapInvalidConfig("base rate must be positive")
	}
	if math.IsNaN(p.DecayFactor) || p.DecayFactor <= 0 {
		return errors.WrapInvalidConfig("decay factor must be positive")
	}
	if p.SupplyCap == 0 {
		return errors.WrapInvalidConfig("supply cap must be positive")
	}
	// The largest reward any attempt can compute is BaseRate*ItemUnitValue
	// (adjustment and remaining fraction never exceed 1). Keep it inside the
	// currency range so the float conversion in Attempt is always defined.
	if p.BaseRate*float64(p.ItemUnitValue) > float64(math.MaxUint64) {
		return errors.WrapInvalidConfig("base rate times item unit value overflows the currency range")
	}
	if p.MinStoreCost > p.MaxStoreCost {
		return errors.WrapInvalidConfig("min store cost must not exceed max store cost")
	}
	return nil
}
