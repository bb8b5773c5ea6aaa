// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotandev/granary/internal/store"
)

var (
	historyItemFlag    string
	historyFarmerFlag  string
	historyGrantedFlag bool
	historyLimitFlag   int
	historyDBFlag      string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Search past farming decisions",
	Long: `Search the recorded history of farming decisions by item, farmer, or
grant outcome.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var s *store.Store
		var err error
		if historyDBFlag != "" {
			s, err = store.Open(historyDBFlag)
		} else {
			s, err = store.InitDB()
		}
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer s.Close()

		params := store.SearchParams{
			ItemID:      historyItemFlag,
			FarmerID:    historyFarmerFlag,
			GrantedOnly: historyGrantedFlag,
			Limit:       historyLimitFlag,
		}

		records, err := s.SearchDecisions(params)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("No matching decisions found.")
			return nil
		}

		fmt.Printf("Found %d matching decisions:\n", len(records))
		out, err := formatter().Format(records)
		if err != nil {
			return err
		}
		fmt.Println(out)

		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyItemFlag, "item", "", "Item id to filter by")
	historyCmd.Flags().StringVar(&historyFarmerFlag, "farmer", "", "Farmer id to filter by")
	historyCmd.Flags().BoolVar(&historyGrantedFlag, "granted-only", false, "Only show granted decisions")
	historyCmd.Flags().IntVar(&historyLimitFlag, "limit", 10, "Maximum number of results to return")
	historyCmd.Flags().StringVar(&historyDBFlag, "db", "", "Database path (defaults to GRANARY_DB_PATH)")

	rootCmd.AddCommand(historyCmd)
}
