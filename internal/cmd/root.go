// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotandev/granary/internal/format"
)

var formatFlag string

var rootCmd = &cobra.Command{
	Use:   "granary",
	Short: "Farming reward engine for a decentralized storage network",
	Long: `Granary decides how much currency a farmer earns for serving stored data
and what a client pays to store new data.

Every decision is a pure function of a network state snapshot, an item's age
counter and a verifiable random draw, so independent nodes evaluating the
same retrieval event reach the same conclusion without consulting a central
ledger.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch format.FormatType(formatFlag) {
		case format.FormatJSON, format.FormatTable:
			return nil
		default:
			return fmt.Errorf("Error: invalid format %q (expected json or table)", formatFlag)
		}
	},
}

func formatter() *format.Formatter {
	return format.NewFormatter(format.FormatType(formatFlag))
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", string(format.FormatTable), "Output format (json, table)")
}
