// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package farming

// Calculator computes the instantaneous farming rate from a RateState
// snapshot. It holds only the configured parameters and no mutable state.
type Calculator struct {
	params Params
}

// NewCalculator validates params and returns a calculator.
func NewCalculator(params Params) (Calculator, error) {
	if err := params.Validate(); err != nil {
		return Calculator{}, err
	}
	return Calculator{params: params}, nil
}

// FarmingRate returns the current reward rate:
//
//	rate = BaseRate * (1 - issued/cap) * utilizationAdjustment(u)
//
// The rate shrinks linearly as issuance approaches the supply cap and is
// exactly zero once the cap is reached. The result is always within
// [0, BaseRate].
func (c Calculator) FarmingRate(state RateState) (float64, error) {
	if err := state.Validate(); err != nil {
		return 0, err
	}
	// Hard stop at the cap, not a float that merely rounds to zero.
	if state.TotalIssued == state.SupplyCap {
		return 0, nil
	}
	remaining := float64(state.Remaining()) / float64(state.SupplyCap)
	return c.params.BaseRate * remaining * utilizationAdjustment(state.Utilization), nil
}

// utilizationAdjustment scales the rate by how full the network is. An
// under-utilized network pays closer to the full rate to attract farmers; a
// saturated one pays half. Monotone non-increasing on [0,1], range [0.5, 1].
func utilizationAdjustment(u float64) float64 {
	return 1 - u/2
}
