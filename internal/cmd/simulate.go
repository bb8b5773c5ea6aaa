// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"math/rand"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/dotandev/granary/internal/draw"
	"github.com/dotandev/granary/internal/farming"
	"github.com/dotandev/granary/internal/ledger"
	"github.com/dotandev/granary/internal/logger"
	"github.com/dotandev/granary/internal/store"
	"github.com/dotandev/granary/internal/telemetry"
)

var (
	simParams      paramFlags
	simEvents      int
	simItems       int
	simFarmers     int
	simSeed        int64
	simUtilization float64
	simDBPath      string
	simOTLP        string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a farming simulation over many retrieval events",
	Long: `Drive the engine through a sequence of synthetic retrieval events and
report how issuance behaves.

Each event picks an item and a serving farmer, derives a verifiable draw
from the event id, runs the attempt against the current issuance snapshot,
and folds granted amounts back into the book. Grants accumulate per farmer
under the once-per-event rule. Total issuance can never pass the supply cap,
however long the simulation runs.`,
	Example: `  # A million events over 500 items served by 20 farmers
  granary simulate --events 1000000 --items 500 --farmers 20

  # Small cap to watch the rate decay to zero, recording history
  granary simulate --events 50000 --cap 1000000 --db ./sim.db`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if simEvents <= 0 || simItems <= 0 || simFarmers <= 0 {
			return fmt.Errorf("Error: --events, --items and --farmers must be positive")
		}
		if simUtilization < 0 || simUtilization > 1 {
			return fmt.Errorf("Error: utilization must be within [0,1]")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		shutdown, err := telemetry.Init(ctx, simOTLP)
		if err != nil {
			return fmt.Errorf("Error: failed to initialize tracing: %w", err)
		}
		defer shutdown(ctx)

		params := simParams.toParams()
		engine, err := farming.NewEngine(params)
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}
		book, err := ledger.NewBook(params.SupplyCap, 0)
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}
		accumulator := ledger.NewAccumulator()

		var history *store.Store
		if simDBPath != "" {
			history, err = store.Open(simDBPath)
			if err != nil {
				return fmt.Errorf("Error: failed to open history database: %w", err)
			}
			defer history.Close()
		}

		_, span := otel.Tracer("granary/simulate").Start(ctx, "simulate")
		defer span.End()

		rng := rand.New(rand.NewSource(simSeed))
		ages := make([]farming.AgeCounter, simItems)
		grants := 0

		bar := progressbar.Default(int64(simEvents), "simulating")
		for i := 0; i < simEvents; i++ {
			_ = bar.Add(1)

			item := rng.Intn(simItems)
			farmer := ledger.FarmerID(fmt.Sprintf("farmer-%d", rng.Intn(simFarmers)))
			eventID := fmt.Sprintf("sim-%d-%d", simSeed, i)

			state := book.Snapshot(simUtilization)
			d := draw.FromEventString(eventID)
			dec, err := engine.Attempt(ages[item], state, d)
			if err != nil {
				return fmt.Errorf("Error: attempt %d failed: %w", i, err)
			}

			if history != nil {
				rate, _ := engine.Calculator().FarmingRate(state)
				rec := store.DecisionRecord{
					EventID:  eventID,
					ItemID:   fmt.Sprintf("item-%d", item),
					FarmerID: string(farmer),
					Granted:  dec.Granted,
					Amount:   dec.Amount,
					Draw:     d,
					Rate:     rate,
					Age:      ages[item].Age,
				}
				if err := history.RecordDecision(rec); err != nil {
					return fmt.Errorf("Error: failed to record decision: %w", err)
				}
			}

			if !dec.Granted {
				continue
			}
			grants++
			ages[item] = farming.AgeCounter{Age: dec.NewAge}
			if err := book.Apply(dec.Amount); err != nil {
				return fmt.Errorf("Error: book rejected grant at event %d: %w", i, err)
			}
			if err := accumulator.Accumulate(eventID, map[ledger.FarmerID]farming.Amount{farmer: dec.Amount}); err != nil {
				return fmt.Errorf("Error: accumulation failed at event %d: %w", i, err)
			}
		}

		logger.Logger.Info("simulation finished",
			"events", simEvents,
			"grants", grants,
			"issued", uint64(book.TotalIssued()),
		)

		fmt.Printf("\nSimulation Summary:\n")
		fmt.Printf("  Events:    %d\n", simEvents)
		fmt.Printf("  Grants:    %d\n", grants)
		fmt.Printf("  Issued:    %d\n", uint64(book.TotalIssued()))
		fmt.Printf("  Remaining: %d\n", uint64(book.Remaining()))
		fmt.Printf("  Pending:   %d across farmers\n", uint64(accumulator.Pending()))
		if history != nil {
			fmt.Printf("  History:   %s\n", simDBPath)
		}

		return nil
	},
}

func init() {
	addParamFlags(simulateCmd, &simParams)
	simulateCmd.Flags().IntVar(&simEvents, "events", 10_000, "Number of retrieval events to simulate")
	simulateCmd.Flags().IntVar(&simItems, "items", 100, "Number of distinct data items")
	simulateCmd.Flags().IntVar(&simFarmers, "farmers", 10, "Number of farmers serving items")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "Seed for item/farmer selection")
	simulateCmd.Flags().Float64Var(&simUtilization, "utilization", 0.5, "Fixed network utilization in [0,1]")
	simulateCmd.Flags().StringVar(&simDBPath, "db", "", "Record decisions into this sqlite database")
	simulateCmd.Flags().StringVar(&simOTLP, "otlp-endpoint", "", "OTLP trace collector endpoint")

	rootCmd.AddCommand(simulateCmd)
}
