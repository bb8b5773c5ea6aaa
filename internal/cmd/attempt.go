// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotandev/granary/internal/draw"
	"github.com/dotandev/granary/internal/farming"
	"github.com/dotandev/granary/internal/rpc"
)

var (
	attemptParams  paramFlags
	attemptState   stateFlags
	attemptAge     uint64
	attemptDraw    float64
	attemptEventID string
	attemptItemID  string
	attemptFarmer  string
	attemptSubmit  string
)

var attemptCmd = &cobra.Command{
	Use:   "attempt",
	Short: "Evaluate one farming attempt",
	Long: `Decide whether a single retrieval event earns a reward for the farmer
serving it.

The grant probability decays with the item's age, so repeatedly farming the
same item pays less and less. The random draw is either given explicitly or
derived from the retrieval event id, in which case any node can replay the
decision and verify it.`,
	Example: `  # Young item, explicit draw
  granary attempt --age 0 --issued 0 --utilization 0.5 --draw 0.05

  # Verifiable draw from the retrieval transaction hash
  granary attempt --age 12 --event-id 5c0a1234...90ab

  # Submit the credit to a ledger endpoint on grant
  granary attempt --age 0 --event-id abc123 --item chunk-7 \
    --farmer farmer-a --submit-url http://ledger.local/credits`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		drawSet := cmd.Flags().Changed("draw")
		if !drawSet && attemptEventID == "" {
			return fmt.Errorf("Error: either --draw or --event-id is required")
		}
		if drawSet && attemptEventID != "" {
			return fmt.Errorf("Error: --draw and --event-id are mutually exclusive")
		}
		if attemptSubmit != "" && (attemptItemID == "" || attemptFarmer == "") {
			return fmt.Errorf("Error: --submit-url requires --item and --farmer")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := farming.NewEngine(attemptParams.toParams())
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}
		state, err := attemptState.toState(farming.Amount(attemptParams.supplyCap))
		if err != nil {
			return err
		}

		d := attemptDraw
		if attemptEventID != "" {
			d = draw.FromEventString(attemptEventID)
			fmt.Printf("Draw derived from event %s: %.12f\n", attemptEventID, d)
		}

		dec, err := engine.Attempt(farming.AgeCounter{Age: attemptAge}, state, d)
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}

		out, err := formatter().Format(&dec)
		if err != nil {
			return err
		}
		fmt.Println(out)

		if attemptSubmit == "" || !dec.Granted {
			return nil
		}

		submitter, err := rpc.NewCreditSubmitter(attemptSubmit)
		if err != nil {
			return fmt.Errorf("Error: invalid submit URL: %w", err)
		}
		credit := rpc.CreditRequest{
			ItemID:   attemptItemID,
			FarmerID: attemptFarmer,
			EventID:  attemptEventID,
			Amount:   dec.Amount,
		}
		if err := submitter.Submit(cmd.Context(), credit); err != nil {
			return fmt.Errorf("Error: failed to submit credit: %w", err)
		}
		fmt.Printf("Credit of %d submitted for farmer %s\n", dec.Amount, attemptFarmer)
		return nil
	},
}

func init() {
	addParamFlags(attemptCmd, &attemptParams)
	addStateFlags(attemptCmd, &attemptState)
	attemptCmd.Flags().Uint64Var(&attemptAge, "age", 0, "Item age: prior rewards for this item")
	attemptCmd.Flags().Float64Var(&attemptDraw, "draw", 0, "Explicit uniform draw in [0,1)")
	attemptCmd.Flags().StringVar(&attemptEventID, "event-id", "", "Retrieval event id to derive the draw from")
	attemptCmd.Flags().StringVar(&attemptItemID, "item", "", "Item id for credit submission")
	attemptCmd.Flags().StringVar(&attemptFarmer, "farmer", "", "Farmer id for credit submission")
	attemptCmd.Flags().StringVar(&attemptSubmit, "submit-url", "", "Ledger endpoint to submit granted credits to")

	rootCmd.AddCommand(attemptCmd)
}
