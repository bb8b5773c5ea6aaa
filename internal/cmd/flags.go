// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotandev/granary/internal/farming"
)

// Economic parameter flags shared by the commands that run the engine.
type paramFlags struct {
	baseRate  float64
	decay     float64
	unitValue uint64
	supplyCap uint64
	minCost   uint64
	maxCost   uint64
}

func addParamFlags(cmd *cobra.Command, p *paramFlags) {
	defaults := farming.DefaultParams()
	cmd.Flags().Float64Var(&p.baseRate, "base-rate", defaults.BaseRate, "Farming rate of an empty network")
	cmd.Flags().Float64Var(&p.decay, "decay-factor", defaults.DecayFactor, "Age decay factor")
	cmd.Flags().Uint64Var(&p.unitValue, "unit-value", uint64(defaults.ItemUnitValue), "Value of one data unit in nanos")
	cmd.Flags().Uint64Var(&p.supplyCap, "cap", uint64(defaults.SupplyCap), "Supply cap in nanos")
	cmd.Flags().Uint64Var(&p.minCost, "min-cost", uint64(defaults.MinStoreCost), "Minimum store cost in nanos")
	cmd.Flags().Uint64Var(&p.maxCost, "max-cost", uint64(defaults.MaxStoreCost), "Maximum store cost in nanos")
}

func (p paramFlags) toParams() farming.Params {
	return farming.Params{
		BaseRate:      p.baseRate,
		DecayFactor:   p.decay,
		ItemUnitValue: farming.Amount(p.unitValue),
		SupplyCap:     farming.Amount(p.supplyCap),
		MinStoreCost:  farming.Amount(p.minCost),
		MaxStoreCost:  farming.Amount(p.maxCost),
	}
}

// Snapshot flags shared by rate, quote and attempt.
type stateFlags struct {
	issued      uint64
	utilization float64
}

func addStateFlags(cmd *cobra.Command, s *stateFlags) {
	cmd.Flags().Uint64Var(&s.issued, "issued", 0, "Currency issued so far in nanos")
	cmd.Flags().Float64Var(&s.utilization, "utilization", 0.5, "Network storage utilization in [0,1]")
}

func (s stateFlags) toState(cap farming.Amount) (farming.RateState, error) {
	if s.utilization < 0 || s.utilization > 1 {
		return farming.RateState{}, fmt.Errorf("Error: utilization must be within [0,1], got %v", s.utilization)
	}
	return farming.RateState{
		TotalIssued: farming.Amount(s.issued),
		SupplyCap:   cap,
		Utilization: s.utilization,
	}, nil
}
