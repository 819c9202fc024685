// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pdiddy/trish-deck/internal/config"
	"github.com/pdiddy/trish-deck/internal/pipeline"
	"github.com/pdiddy/trish-deck/internal/synth"
	"github.com/pdiddy/trish-deck/pkg/types"
)

// deckFlagKeys maps deck flags to config keys.
var deckFlagKeys = map[string]string{
	"input":           "inputs",
	"deck-name":       "deck_name",
	"output":          "output",
	"voice":           "voice",
	"tag":             "version",
	"tag-prefix":      "tag_prefix",
	"manifest":        "manifest",
	"manifest-format": "manifest_format",
}

// addDeckFlags registers the flags shared by the deck-building commands.
func addDeckFlags(fs *pflag.FlagSet) {
	fs.StringSliceP("input", "i", nil, "input TSV file(s); extra positional arguments are added too")
	fs.StringP("deck-name", "d", config.DefaultDeckName, "deck title")
	fs.StringP("output", "o", "", "output package path (default: deck title with non-alphanumerics as _, plus .apkg)")
	fs.StringP("voice", "v", config.DefaultVoice, "preferred TTS voice, tried before the fallbacks")
	fs.StringP("tag", "t", config.DefaultVersion, "version string shown on the metadata card (e.g. v2024.01.09)")
	fs.String("tag-prefix", config.DefaultTagPrefix, "prefix for every tag in the deck")
	fs.String("manifest", "", "write a build manifest to this path")
	fs.String("manifest-format", "", "manifest format: yaml or json (default: from the manifest extension)")
}

// resolveDeckConfig binds cmd's flags and positional inputs and returns
// the validated configuration. Binding happens per run because several
// commands share the same keys.
func resolveDeckConfig(cmd *cobra.Command, args []string, variant types.Variant) (types.DeckConfig, error) {
	for name, key := range deckFlagKeys {
		if err := settings.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return types.DeckConfig{}, fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return config.Deck(settings, variant, args...)
}

func printDeckBanner(w io.Writer, cfg types.DeckConfig) {
	fmt.Fprintf(w, "📦 Loading %d file(s) for deck '%s' (version %s)\n", len(cfg.Inputs), cfg.DeckName, cfg.Version)
	fmt.Fprintf(w, "Voice: %s (plus fallbacks)\n\n", synth.VoiceList(cfg.Voice)[0])
}

func printDeckResult(w io.Writer, res pipeline.Result) {
	if res.Empty {
		fmt.Fprintln(w, color.YellowString("⚠️  No data found. Nothing written."))
		return
	}
	fmt.Fprintln(w, color.GreenString("✅ Deck saved to %s", res.Path))
	if res.Manifest != "" {
		fmt.Fprintf(w, "Manifest: %s\n", res.Manifest)
	}
	if res.HasFailures() {
		fmt.Fprintln(w, color.YellowString("⚠️  %d input(s) skipped", len(res.Report.Skipped)))
	}
	if n := len(res.Conflicts); n > 0 {
		fmt.Fprintln(w, color.YellowString("⚠️  %d duplicate condition(s) differed from the kept row", n))
	}
}
