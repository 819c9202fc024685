// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the trish-deck CLI. It turns
// condition tables into spaced-repetition deck packages with
// text-to-speech cues, and exports spreadsheet sheets to TSV.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trish-deck/internal/config"
	"github.com/pdiddy/trish-deck/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// settings holds flag, environment, and config file values.
var settings = config.New()

// rootCmd is the base command for the trish-deck CLI.
var rootCmd = &cobra.Command{
	Use:   "trish-deck",
	Short: "Build flashcard decks with spoken cues from condition tables",
	Long: `trish-deck reads tab-separated condition tables and builds a deck package
for spaced-repetition study. Each non-empty cell becomes a card with a
display form and a speech form for text-to-speech playback.

Use "unified" to merge several tables into one deck, "build" for a single
table, and "sheet" to export a spreadsheet sheet to TSV first.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logCfg, err := config.Log(settings)
		if err != nil {
			return err
		}
		logging.Setup(os.Stderr, logCfg.Level, logCfg.Format)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./trish-deck.yaml or ~/.config/trish-deck/trish-deck.yaml)")
	pf.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	pf.String("log-format", config.DefaultLogFormat, "log format: text or json")
	_ = settings.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = settings.BindPFlag("log.format", pf.Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	readConfig(settings, cfgFile, os.Stderr)
}

// readConfig loads cfgFile, or trish-deck.yaml from the working directory
// or ~/.config/trish-deck. A missing default file is silent; any other
// failure is reported on w and the run continues without the file.
func readConfig(v *viper.Viper, cfgFile string, w io.Writer) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("trish-deck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "trish-deck"))
		}
	}

	err := v.ReadInConfig()
	if err == nil {
		fmt.Fprintln(w, "Using config file:", v.ConfigFileUsed())
		return
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return
	}
	path := v.ConfigFileUsed()
	if path == "" {
		path = cfgFile
	}
	fmt.Fprintln(w, color.YellowString("warning: reading config %s: %v", path, err))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("❌ Error: %v", err))
		stop()
		os.Exit(1)
	}
}
