// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest writes a build manifest describing one deck run: deck
// and model identity, the merged conditions with their origins, and the
// GUID of every generated card. Manifests make regenerations auditable
// without opening the package.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trish-deck/internal/merge"
	"github.com/pdiddy/trish-deck/pkg/types"
)

// Manifest is the serialized description of a build.
type Manifest struct {
	Deck        string                `json:"deck" yaml:"deck"`
	DeckID      int64                 `json:"deck_id" yaml:"deck_id"`
	ModelID     int64                 `json:"model_id" yaml:"model_id"`
	Variant     types.Variant         `json:"variant" yaml:"variant"`
	Version     string                `json:"version" yaml:"version"`
	Package     string                `json:"package" yaml:"package"`
	UniqueCount int                   `json:"unique_count" yaml:"unique_count"`
	CardCount   int                   `json:"card_count" yaml:"card_count"`
	Sources     []string              `json:"sources" yaml:"sources"`
	Skipped     []merge.SkippedSource `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Conflicts   []merge.Conflict      `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Entries     []Entry               `json:"entries" yaml:"entries"`
}

// Entry describes one merged condition.
type Entry struct {
	Condition string      `json:"condition" yaml:"condition"`
	Origins   []string    `json:"origins" yaml:"origins"`
	Cards     []CardEntry `json:"cards" yaml:"cards"`
}

// CardEntry identifies one generated card.
type CardEntry struct {
	Column    string          `json:"column" yaml:"column"`
	Direction types.Direction `json:"direction" yaml:"direction"`
	GUID      string          `json:"guid" yaml:"guid"`
	Tags      []string        `json:"tags" yaml:"tags"`
}

// AddEntry appends a condition and its cards.
func (m *Manifest) AddEntry(condition string, origins []string, cards []types.Card) {
	e := Entry{Condition: condition, Origins: origins, Cards: make([]CardEntry, len(cards))}
	for i, c := range cards {
		e.Cards[i] = CardEntry{Column: c.Column, Direction: c.Direction, GUID: c.GUID, Tags: c.Tags}
	}
	m.Entries = append(m.Entries, e)
}

// FormatFor returns the explicit format, or infers it from the path
// extension (".json" is JSON, anything else YAML).
func FormatFor(path string, explicit types.ManifestFormat) types.ManifestFormat {
	if explicit != "" {
		return explicit
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return types.ManifestJSON
	}
	return types.ManifestYAML
}

// Marshal encodes the manifest in the given format.
func Marshal(m *Manifest, format types.ManifestFormat) ([]byte, error) {
	switch format {
	case types.ManifestYAML, "":
		data, err := yaml.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return data, nil
	case types.ManifestJSON:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported manifest format %q: use yaml or json", format)
	}
}

// Write encodes the manifest and writes it to path.
func Write(m *Manifest, path string, format types.ManifestFormat) error {
	staged, err := Stage(m, path, format)
	if err != nil {
		return err
	}
	defer staged.Discard()
	return staged.Commit()
}

// Staged is an encoded manifest held in a temporary file next to its
// destination until Commit renames it into place.
type Staged struct {
	path string
	tmp  string
}

// Stage encodes the manifest and writes it to a temporary file beside
// path. Encoding errors and an unusable path are reported here, before
// the caller writes anything else.
func Stage(m *Manifest, path string, format types.ManifestFormat) (*Staged, error) {
	data, err := Marshal(m, FormatFor(path, format))
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return nil, fmt.Errorf("manifest path %s is a directory", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".trish-deck-manifest-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating temp manifest: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("setting manifest permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("writing temp manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("closing temp manifest: %w", err)
	}
	return &Staged{path: path, tmp: tmp.Name()}, nil
}

// Commit moves the staged manifest to its destination.
func (s *Staged) Commit() error {
	if err := os.Rename(s.tmp, s.path); err != nil {
		return fmt.Errorf("renaming manifest into place: %w", err)
	}
	return nil
}

// Discard removes the temporary file if it was not committed.
func (s *Staged) Discard() {
	if s != nil {
		os.Remove(s.tmp)
	}
}

// Load reads a manifest written by Write.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if FormatFor(path, "") == types.ManifestJSON {
		err = json.Unmarshal(data, &m)
	} else {
		err = yaml.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}
