// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trish-deck/internal/pipeline"
	"github.com/pdiddy/trish-deck/pkg/types"
)

var unifiedCmd = &cobra.Command{
	Use:   "unified -i a.tsv [b.tsv ...]",
	Short: "Merge several condition tables into one deck",
	Long: `Unified loads every input in order and merges rows by condition name,
ignoring case and surrounding whitespace. The first occurrence of a
condition wins; every file that contained it is recorded as a block tag.

Missing or unreadable inputs are skipped with a warning. When no input
yields a condition nothing is written and the command exits successfully.`,
	RunE: runUnified,
}

func init() {
	addDeckFlags(unifiedCmd.Flags())
	rootCmd.AddCommand(unifiedCmd)
}

func runUnified(cmd *cobra.Command, args []string) error {
	cfg, err := resolveDeckConfig(cmd, args, types.VariantUnified)
	if err != nil {
		return err
	}

	printDeckBanner(os.Stdout, cfg)
	res, err := pipeline.Unified(cmd.Context(), cfg, os.Stdout)
	if err != nil {
		return err
	}
	printDeckResult(os.Stdout, res)
	return nil
}
