// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves run settings from flags, environment, and an
// optional config file through viper, and validates them.
//
// Keys (file and env, env prefixed with TRISH_DECK_ and "." replaced by "_"):
//
//	deck_name, inputs, output, voice, version, tag_prefix,
//	manifest, manifest_format, log.level, log.format
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pdiddy/trish-deck/internal/synth"
	"github.com/pdiddy/trish-deck/pkg/types"
)

// EnvPrefix prefixes environment variable overrides.
const EnvPrefix = "TRISH_DECK"

// Defaults for deck runs.
const (
	DefaultDeckName  = "TRISH"
	DefaultVoice     = synth.DefaultVoice
	DefaultVersion   = "Unknown"
	DefaultTagPrefix = synth.DefaultTagPrefix
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

var validate = validator.New(validator.WithRequiredStructEnabled())

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("deck_name", DefaultDeckName)
	v.SetDefault("voice", DefaultVoice)
	v.SetDefault("version", DefaultVersion)
	v.SetDefault("tag_prefix", DefaultTagPrefix)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
}

// Deck resolves a DeckConfig for variant and validates it. extraInputs
// are appended to the configured inputs. The single variant accepts
// exactly one input.
func Deck(v *viper.Viper, variant types.Variant, extraInputs ...string) (types.DeckConfig, error) {
	var inputs []string
	inputs = append(inputs, v.GetStringSlice("inputs")...)
	inputs = append(inputs, extraInputs...)

	cfg := types.DeckConfig{
		Variant:        variant,
		Inputs:         inputs,
		DeckName:       v.GetString("deck_name"),
		Output:         v.GetString("output"),
		Voice:          v.GetString("voice"),
		Version:        v.GetString("version"),
		TagPrefix:      v.GetString("tag_prefix"),
		Manifest:       v.GetString("manifest"),
		ManifestFormat: types.ManifestFormat(v.GetString("manifest_format")),
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	if variant == types.VariantSingle && len(cfg.Inputs) != 1 {
		return cfg, fmt.Errorf("%w: single-file build takes exactly one input, got %d", ErrInvalid, len(cfg.Inputs))
	}
	return cfg, nil
}

// Sheet resolves and validates a SheetConfig.
func Sheet(v *viper.Viper) (types.SheetConfig, error) {
	cfg := types.SheetConfig{
		Document: v.GetString("document"),
		Sheet:    v.GetString("sheet"),
		Output:   v.GetString("output"),
	}
	return cfg, Validate(cfg)
}

// Log resolves and validates the logging settings.
func Log(v *viper.Viper) (types.LogConfig, error) {
	cfg := types.LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	return cfg, Validate(cfg)
}

// Validate checks a config struct against its validate tags and returns
// an ErrInvalid-wrapped error naming each failing field.
func Validate(cfg interface{}) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s needs at least %s value(s)", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s failed %q", field, fe.Tag())
	}
}
