// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trish-deck/internal/stableid"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of trish-deck",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("trish-deck %s (note model %s)\n", version, stableid.SchemaVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
