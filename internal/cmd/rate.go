// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotandev/granary/internal/farming"
	"github.com/dotandev/granary/internal/format"
)

var (
	rateParams paramFlags
	rateState  stateFlags
)

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Show the current farming rate and store cost",
	Long: `Compute the instantaneous farming rate and the store cost quote for a
network state snapshot.

The rate shrinks as total issuance approaches the supply cap and adjusts for
how full the network is; the store cost rises with utilization between the
configured floor and ceiling.`,
	Example: `  # Rate for a half-full network with nothing issued yet
  granary rate --issued 0 --utilization 0.5

  # JSON output for scripting
  granary rate --issued 250000000 --utilization 0.8 --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		calc, err := farming.NewCalculator(rateParams.toParams())
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}
		state, err := rateState.toState(farming.Amount(rateParams.supplyCap))
		if err != nil {
			return err
		}

		rate, err := calc.FarmingRate(state)
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}
		cost, err := calc.StoreCost(state)
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}

		out, err := formatter().Format(&format.RateQuote{Rate: rate, StoreCost: uint64(cost)})
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	addParamFlags(rateCmd, &rateParams)
	addStateFlags(rateCmd, &rateState)

	rootCmd.AddCommand(rateCmd)
}
