// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package farming

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	granaryerrors "github.com/dotandev/granary/internal/errors"
)

func testParams() Params {
	return Params{
		BaseRate:      1.0,
		DecayFactor:   0.1,
		ItemUnitValue: 1,
		SupplyCap:     1000,
		MinStoreCost:  1,
		MaxStoreCost:  10,
	}
}

func TestFarmingRateFreshNetwork(t *testing.T) {
	calc, err := NewCalculator(testParams())
	require.NoError(t, err)

	rate, err := calc.FarmingRate(RateState{TotalIssued: 0, SupplyCap: 1000, Utilization: 0.5})
	require.NoError(t, err)

	// base 1.0, nothing issued, adjustment(0.5) = 0.75
	assert.InDelta(t, 0.75, rate, 1e-12)
}

func TestFarmingRateZeroAtCap(t *testing.T) {
	calc, err := NewCalculator(testParams())
	require.NoError(t, err)

	for _, u := range []float64{0, 0.25, 0.5, 0.75, 1} {
		rate, err := calc.FarmingRate(RateState{TotalIssued: 1000, SupplyCap: 1000, Utilization: u})
		require.NoError(t, err)
		if rate != 0 {
			t.Errorf("rate at cap with utilization %v = %v, want exactly 0", u, rate)
		}
	}
}

func TestFarmingRateBoundedByBaseRate(t *testing.T) {
	calc, err := NewCalculator(testParams())
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		issued := Amount(rng.Int63n(1001))
		state := RateState{TotalIssued: issued, SupplyCap: 1000, Utilization: rng.Float64()}
		rate, err := calc.FarmingRate(state)
		require.NoError(t, err)
		if rate < 0 || rate > testParams().BaseRate {
			t.Fatalf("rate %v out of [0, %v] for state %+v", rate, testParams().BaseRate, state)
		}
	}
}

func TestFarmingRateMonotoneInIssuance(t *testing.T) {
	calc, err := NewCalculator(testParams())
	require.NoError(t, err)

	prev := 2.0
	for issued := Amount(0); issued <= 1000; issued += 100 {
		rate, err := calc.FarmingRate(RateState{TotalIssued: issued, SupplyCap: 1000, Utilization: 0.5})
		require.NoError(t, err)
		if rate > prev {
			t.Fatalf("rate increased from %v to %v as issuance grew to %d", prev, rate, issued)
		}
		prev = rate
	}
}

func TestUtilizationAdjustmentMonotone(t *testing.T) {
	prev := 2.0
	for u := 0.0; u <= 1.0; u += 0.05 {
		adj := utilizationAdjustment(u)
		if adj > prev {
			t.Fatalf("adjustment increased at utilization %v", u)
		}
		if adj < 0.5 || adj > 1.0 {
			t.Fatalf("adjustment %v out of [0.5, 1] at utilization %v", adj, u)
		}
		prev = adj
	}
}

func TestFarmingRateRejectsBadState(t *testing.T) {
	calc, err := NewCalculator(testParams())
	require.NoError(t, err)

	tests := []struct {
		name  string
		state RateState
		want  error
	}{
		{"issued over cap", RateState{TotalIssued: 1001, SupplyCap: 1000, Utilization: 0.5}, granaryerrors.ErrConsistencyViolation},
		{"zero cap", RateState{TotalIssued: 0, SupplyCap: 0, Utilization: 0.5}, granaryerrors.ErrInvalidInput},
		{"negative utilization", RateState{TotalIssued: 0, SupplyCap: 1000, Utilization: -0.1}, granaryerrors.ErrInvalidInput},
		{"utilization above one", RateState{TotalIssued: 0, SupplyCap: 1000, Utilization: 1.1}, granaryerrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.FarmingRate(tt.state)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewCalculatorRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero base rate", func(p *Params) { p.BaseRate = 0 }},
		{"negative base rate", func(p *Params) { p.BaseRate = -1 }},
		{"zero decay", func(p *Params) { p.DecayFactor = 0 }},
		{"zero cap", func(p *Params) { p.SupplyCap = 0 }},
		{"min cost above max", func(p *Params) { p.MinStoreCost = 11 }},
		{"reward overflows currency range", func(p *Params) { p.BaseRate = 1e30; p.ItemUnitValue = 1_000_000_000 }},
		{"infinite base rate", func(p *Params) { p.BaseRate = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			tt.mutate(&p)
			_, err := NewCalculator(p)
			assert.ErrorIs(t, err, granaryerrors.ErrInvalidConfig)
		})
	}
}

func TestDefaultParamsValid(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())
}
