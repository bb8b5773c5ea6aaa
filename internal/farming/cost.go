// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package farming

import "math"

// StoreCost quotes the price a client pays to store one new data unit.
// Scarcity pricing: the cost climbs linearly with utilization from
// MinStoreCost to MaxStoreCost and never leaves those bounds.
func (c Calculator) StoreCost(state RateState) (Amount, error) {
	if err := state.Validate(); err != nil {
		return 0, err
	}
	span := float64(c.params.MaxStoreCost - c.params.MinStoreCost)
	cost := Amount(math.Round(float64(c.params.MinStoreCost) + span*state.Utilization))
	if cost < c.params.MinStoreCost {
		cost = c.params.MinStoreCost
	}
	if cost > c.params.MaxStoreCost {
		cost = c.params.MaxStoreCost
	}
	return cost, nil
}
