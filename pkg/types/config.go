// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Variant selects the pipeline flavour.
type Variant string

const (
	// VariantSingle builds a deck from exactly one table; any input error is fatal.
	VariantSingle Variant = "single"
	// VariantUnified merges many tables; unreadable inputs are skipped with a warning.
	VariantUnified Variant = "unified"
)

// ManifestFormat selects the build manifest encoding.
type ManifestFormat string

const (
	ManifestYAML ManifestFormat = "yaml"
	ManifestJSON ManifestFormat = "json"
)

// LogConfig holds logging settings shared by every subcommand.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`

	// Format is text or json.
	Format string `json:"format" yaml:"format" mapstructure:"format" validate:"omitempty,oneof=text json"`
}

// DeckConfig holds settings for one deck generation run.
type DeckConfig struct {
	Variant Variant `json:"variant" yaml:"variant" mapstructure:"variant" validate:"required,oneof=single unified"`

	// Inputs lists the TSV files in precedence order: earlier files win
	// merge conflicts.
	Inputs []string `json:"inputs" yaml:"inputs" mapstructure:"inputs" validate:"required,min=1,dive,required"`

	// DeckName is the deck title. It seeds the deck, model, and card IDs.
	DeckName string `json:"deck_name" yaml:"deck_name" mapstructure:"deck_name" validate:"required"`

	// Output is the .apkg path. Empty derives it from DeckName.
	Output string `json:"output,omitempty" yaml:"output,omitempty" mapstructure:"output"`

	// Voice is the preferred TTS voice, placed ahead of the fallback list.
	Voice string `json:"voice" yaml:"voice" mapstructure:"voice" validate:"required"`

	// Version is the free-text version tag embedded in the metadata card.
	Version string `json:"version" yaml:"version" mapstructure:"version" validate:"required"`

	// TagPrefix namespaces every tag in the deck (default "TRISH").
	TagPrefix string `json:"tag_prefix" yaml:"tag_prefix" mapstructure:"tag_prefix" validate:"required"`

	// Manifest is an optional path for the build manifest.
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty" mapstructure:"manifest"`

	// ManifestFormat is yaml or json. Empty infers it from the Manifest extension.
	ManifestFormat ManifestFormat `json:"manifest_format,omitempty" yaml:"manifest_format,omitempty" mapstructure:"manifest_format" validate:"omitempty,oneof=yaml json"`
}

// SheetConfig holds settings for the spreadsheet sheet exporter.
type SheetConfig struct {
	// Document is the path to the .ods file.
	Document string `json:"document" yaml:"document" mapstructure:"document" validate:"required"`

	// Sheet is the sheet name to export.
	Sheet string `json:"sheet" yaml:"sheet" mapstructure:"sheet" validate:"required"`

	// Output is the TSV path. Empty defaults to "<sheet>.tsv".
	Output string `json:"output,omitempty" yaml:"output,omitempty" mapstructure:"output"`
}
