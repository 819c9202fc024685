// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"context"
	"log/slog"

	"github.com/pdiddy/trish-deck/pkg/types"
)

// Loader reads one table from a path.
type Loader interface {
	Load(path string) (types.Table, error)
}

// SkippedSource records an input that could not be loaded.
type SkippedSource struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// LoadReport summarizes a LoadSources run.
type LoadReport struct {
	Loaded  int
	Empty   int
	Skipped []SkippedSource
}

// Total returns the number of paths processed.
func (r LoadReport) Total() int {
	return r.Loaded + r.Empty + len(r.Skipped)
}

// HasFailures reports whether any input was skipped.
func (r LoadReport) HasFailures() bool {
	return len(r.Skipped) > 0
}

// LoadSources loads each path in order and labels it with BlockLabel.
// Missing or unparsable files are logged and skipped; processing
// continues with the remaining paths. Header-only tables are returned so
// callers can tell them apart from failures, but they contribute no rows.
func LoadSources(ctx context.Context, paths []string, loader Loader, logger *slog.Logger) ([]types.Source, LoadReport, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		sources []types.Source
		report  LoadReport
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return sources, report, err
		}

		tbl, err := loader.Load(path)
		if err != nil {
			logger.Warn("skipping source", "path", path, "error", err)
			report.Skipped = append(report.Skipped, SkippedSource{Path: path, Reason: err.Error()})
			continue
		}

		label := BlockLabel(path)
		if tbl.Empty() {
			logger.Warn("source has no data rows", "path", path, "block", label)
			report.Empty++
		} else {
			logger.Debug("loaded source", "path", path, "block", label, "rows", len(tbl.Rows))
			report.Loaded++
		}
		sources = append(sources, types.Source{Label: label, Path: path, Table: tbl})
	}
	return sources, report, nil
}
