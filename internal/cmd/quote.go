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
	quoteParams paramFlags
	quoteState  stateFlags
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Quote the cost of storing one new data unit",
	Long: `Compute what a client pays to store one new data unit at the current
network utilization.

The cost rises with utilization between the configured floor and ceiling, so
storage stays affordable on an empty network and never becomes free on a
full one.`,
	Example: `  # Quote for a half-full network
  granary quote --utilization 0.5

  # Custom cost bounds
  granary quote --utilization 0.9 --min-cost 500000 --max-cost 2000000000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		calc, err := farming.NewCalculator(quoteParams.toParams())
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}
		state, err := quoteState.toState(farming.Amount(quoteParams.supplyCap))
		if err != nil {
			return err
		}

		cost, err := calc.StoreCost(state)
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}

		out, err := formatter().Format(&format.StoreQuote{Cost: uint64(cost), Utilization: state.Utilization})
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	addParamFlags(quoteCmd, &quoteParams)
	addStateFlags(quoteCmd, &quoteState)

	rootCmd.AddCommand(quoteCmd)
}
