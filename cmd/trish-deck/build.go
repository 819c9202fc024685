// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trish-deck/internal/pipeline"
	"github.com/pdiddy/trish-deck/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build -i table.tsv",
	Short: "Build a deck from one condition table",
	Long: `Build turns a single table into a deck. A missing or malformed file,
or a file without usable rows, is an error and nothing is written.`,
	RunE: runBuild,
}

func init() {
	addDeckFlags(buildCmd.Flags())
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := resolveDeckConfig(cmd, args, types.VariantSingle)
	if err != nil {
		return err
	}

	printDeckBanner(os.Stdout, cfg)
	res, err := pipeline.Single(cmd.Context(), cfg, os.Stdout)
	if err != nil {
		return err
	}
	printDeckResult(os.Stdout, res)
	return nil
}
