// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the deck build end to end: load tables, merge
// them by condition, synthesize cards, and write the package.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pdiddy/trish-deck/internal/apkg"
	"github.com/pdiddy/trish-deck/internal/manifest"
	"github.com/pdiddy/trish-deck/internal/merge"
	"github.com/pdiddy/trish-deck/internal/synth"
	"github.com/pdiddy/trish-deck/internal/table"
	"github.com/pdiddy/trish-deck/pkg/types"
)

// ErrNoData is returned by Single when the input has no usable rows.
var ErrNoData = errors.New("no usable data rows")

// Result summarizes one run.
type Result struct {
	// Empty is set when the unified run found nothing to write.
	Empty bool

	Path      string
	Manifest  string
	DeckID    int64
	ModelID   int64
	Unique    int
	Notes     int
	Bytes     int64
	Report    merge.LoadReport
	Conflicts []merge.Conflict
}

// HasFailures reports whether any input was skipped.
func (r Result) HasFailures() bool {
	return r.Report.HasFailures()
}

// Runner holds the collaborators of a run. The zero value reads TSV
// files, writes packages with the current time, and logs to slog.Default.
type Runner struct {
	Loader merge.Loader
	Writer *apkg.Writer
	Logger *slog.Logger
}

func (r *Runner) loader() merge.Loader {
	if r.Loader == nil {
		return table.TSV{}
	}
	return r.Loader
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Unified runs Runner.Unified with default collaborators.
func Unified(ctx context.Context, cfg types.DeckConfig, w io.Writer) (Result, error) {
	var r Runner
	return r.Unified(ctx, cfg, w)
}

// Single runs Runner.Single with default collaborators.
func Single(ctx context.Context, cfg types.DeckConfig, w io.Writer) (Result, error) {
	var r Runner
	return r.Single(ctx, cfg, w)
}

// Unified merges every input into one deck. Unreadable inputs are
// skipped with a warning. When no input yields a condition the run ends
// without writing anything and returns a Result with Empty set.
func (r *Runner) Unified(ctx context.Context, cfg types.DeckConfig, w io.Writer) (Result, error) {
	logger := r.logger()

	sources, report, err := merge.LoadSources(ctx, cfg.Inputs, r.loader(), logger)
	if err != nil {
		return Result{Report: report}, err
	}
	for _, src := range sources {
		fmt.Fprintf(w, "loaded:  %s [%s] (%d rows)\n", src.Path, src.Label, len(src.Table.Rows))
	}
	for _, s := range report.Skipped {
		fmt.Fprintf(w, "skipped: %s (%s)\n", s.Path, s.Reason)
	}

	merged := merge.Merge(sources, logger)
	if merged.Len() == 0 {
		logger.Warn("no usable data in any input; nothing written", "inputs", len(cfg.Inputs))
		fmt.Fprintf(w, "\nNo conditions found in %d input(s); no package written\n", len(cfg.Inputs))
		return Result{Empty: true, Report: report, Conflicts: merged.Conflicts()}, nil
	}

	return r.build(ctx, cfg, "Unified", merged, report, w)
}

// Single builds a deck from exactly one input. Any load error is fatal and
// an input without usable rows returns ErrNoData.
func (r *Runner) Single(ctx context.Context, cfg types.DeckConfig, w io.Writer) (Result, error) {
	if len(cfg.Inputs) != 1 {
		return Result{}, fmt.Errorf("single-file build takes exactly one input, got %d", len(cfg.Inputs))
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	path := cfg.Inputs[0]

	tbl, err := r.loader().Load(path)
	if err != nil {
		return Result{}, err
	}
	src := types.Source{Label: merge.BlockLabel(path), Path: path, Table: tbl}
	fmt.Fprintf(w, "loaded:  %s [%s] (%d rows)\n", src.Path, src.Label, len(tbl.Rows))

	merged := merge.Merge([]types.Source{src}, r.logger())
	if merged.Len() == 0 {
		return Result{}, fmt.Errorf("%s: %w", path, ErrNoData)
	}

	return r.build(ctx, cfg, "Single", merged, merge.LoadReport{Loaded: 1}, w)
}

// build synthesizes the deck from merged entries and writes the package
// and optional manifest.
func (r *Runner) build(ctx context.Context, cfg types.DeckConfig, variant string, merged *merge.Result, report merge.LoadReport, w io.Writer) (Result, error) {
	logger := r.logger()

	syn := synth.New(cfg.DeckName, cfg.TagPrefix)
	model := synth.NoteModel(cfg.DeckName, variant, synth.VoiceList(cfg.Voice))
	deck := synth.NewDeck(cfg.DeckName, model)

	outPath := cfg.Output
	if outPath == "" {
		outPath = apkg.DefaultFilename(cfg.DeckName)
	}

	man := &manifest.Manifest{
		Deck:        cfg.DeckName,
		DeckID:      deck.ID,
		ModelID:     model.ID,
		Variant:     cfg.Variant,
		Version:     cfg.Version,
		Package:     outPath,
		UniqueCount: merged.Len(),
		Sources:     cfg.Inputs,
		Skipped:     report.Skipped,
		Conflicts:   merged.Conflicts(),
	}

	deck.Add(syn.Metadata(cfg.Version, merged.Len()))
	columns := merged.Columns()
	for _, entry := range merged.Entries() {
		cards := syn.Cards(entry, columns)
		deck.Add(cards...)
		man.AddEntry(strings.TrimSpace(entry.Row.Identifier()), entry.OriginLabels(), cards)
	}
	man.CardCount = len(deck.Cards)
	warnDuplicateGUIDs(deck, logger)

	// Staged before the package so a bad manifest aborts before any output.
	var staged *manifest.Staged
	if cfg.Manifest != "" {
		var err error
		staged, err = manifest.Stage(man, cfg.Manifest, cfg.ManifestFormat)
		if err != nil {
			return Result{Report: report}, fmt.Errorf("writing manifest: %w", err)
		}
		defer staged.Discard()
	}

	if err := ctx.Err(); err != nil {
		return Result{Report: report}, err
	}

	summary, err := r.Writer.Write(ctx, outPath, deck)
	if err != nil {
		return Result{Report: report}, fmt.Errorf("writing package: %w", err)
	}

	if staged != nil {
		if err := staged.Commit(); err != nil {
			if rmErr := os.Remove(summary.Path); rmErr != nil {
				logger.Warn("removing package after manifest failure", "path", summary.Path, "error", rmErr)
			}
			return Result{Report: report}, fmt.Errorf("writing manifest: %w", err)
		}
	}

	res := Result{
		Path:      summary.Path,
		DeckID:    deck.ID,
		ModelID:   model.ID,
		Unique:    merged.Len(),
		Notes:     summary.Notes,
		Bytes:     summary.Bytes,
		Report:    report,
		Conflicts: merged.Conflicts(),
	}
	if staged != nil {
		res.Manifest = cfg.Manifest
	}

	fmt.Fprintf(w, "\nDeck summary: %d unique conditions, %d notes, %d skipped input(s), %d conflict(s)\n",
		res.Unique, res.Notes, len(report.Skipped), len(res.Conflicts))
	logger.Info("package written", "path", res.Path, "deck_id", res.DeckID, "notes", res.Notes, "bytes", res.Bytes)
	return res, nil
}

// warnDuplicateGUIDs logs GUIDs shared by more than one card. Importers
// treat such notes as one, so the later card would overwrite the earlier.
func warnDuplicateGUIDs(deck *types.Deck, logger *slog.Logger) {
	seen := make(map[string]string, len(deck.Cards))
	for _, c := range deck.Cards {
		if prev, ok := seen[c.GUID]; ok {
			logger.Warn("duplicate card GUID", "guid", c.GUID, "column", c.Column, "previous_column", prev)
			continue
		}
		seen[c.GUID] = c.Column
	}
}
