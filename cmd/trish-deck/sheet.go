// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/trish-deck/internal/config"
	"github.com/pdiddy/trish-deck/internal/sheet"
)

var sheetCmd = &cobra.Command{
	Use:   "sheet <file.ods> <sheet>",
	Short: "Export one spreadsheet sheet to TSV",
	Long: `Sheet writes the named sheet of an OpenDocument spreadsheet as a
tab-separated file, ready for "build" or "unified". The output defaults to
<sheet>.tsv in the current directory.`,
	Args: cobra.ExactArgs(2),
	RunE: runSheet,
}

func init() {
	sheetCmd.Flags().StringP("output", "o", "", "output TSV path (default: <sheet>.tsv)")
	rootCmd.AddCommand(sheetCmd)
}

func runSheet(cmd *cobra.Command, args []string) error {
	settings.Set("document", args[0])
	settings.Set("sheet", args[1])
	if err := settings.BindPFlag("output", cmd.Flags().Lookup("output")); err != nil {
		return fmt.Errorf("binding --output: %w", err)
	}

	cfg, err := config.Sheet(settings)
	if err != nil {
		return err
	}
	summary, err := sheet.Export(cfg)
	if err != nil {
		return err
	}
	fmt.Println(color.GreenString("✅ Exported sheet '%s' to %s (%d rows)", cfg.Sheet, summary.Path, summary.Rows))
	return nil
}
