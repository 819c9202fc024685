// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge folds several study tables into one canonical set of
// entries keyed by normalized condition name.
//
// The first occurrence of a key wins. Later duplicates never overwrite the
// stored row; they only add their block label to the entry's origin set,
// so callers control precedence by ordering their inputs. When a dropped
// duplicate carries different field values, the difference is logged and
// recorded as a Conflict.
package merge

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pdiddy/trish-deck/pkg/types"
)

// Key normalizes a primary identifier: trimmed and lowercased.
func Key(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// BlockLabel derives a block label from a file path: the filename stem,
// upper-cased ("data/msk.tsv" -> "MSK").
func BlockLabel(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Conflict describes a duplicate row whose non-key fields differ from the
// canonical row and were therefore dropped.
type Conflict struct {
	Key string `json:"key" yaml:"key"`

	// Kept is the block label of the canonical row's source.
	Kept string `json:"kept" yaml:"kept"`

	// Dropped is the block label of the duplicate's source.
	Dropped string `json:"dropped" yaml:"dropped"`

	// Columns lists the differing columns in schema order.
	Columns []string `json:"columns" yaml:"columns"`
}

// Merger accumulates sources into an insertion-ordered set of entries.
// The zero value is not usable; call New.
type Merger struct {
	logger    *slog.Logger
	entries   []*types.MergeEntry
	index     map[string]*types.MergeEntry
	firstSeen map[string]string
	columns   []string
	conflicts []Conflict
	skipped   int
}

// New returns an empty Merger. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{
		logger:    logger,
		index:     make(map[string]*types.MergeEntry),
		firstSeen: make(map[string]string),
	}
}

// Add folds one source into the merger. Rows are visited in file order;
// rows whose identifier is empty after trimming are skipped.
func (m *Merger) Add(src types.Source) {
	if src.Table.Empty() {
		return
	}
	if m.columns == nil {
		m.columns = src.Table.Columns
	}

	for _, row := range src.Table.Rows {
		key := Key(row.Identifier())
		if key == "" {
			m.skipped++
			continue
		}

		entry, ok := m.index[key]
		if !ok {
			entry = &types.MergeEntry{Key: key, Row: row}
			entry.AddOrigin(src.Label)
			m.index[key] = entry
			m.firstSeen[key] = src.Label
			m.entries = append(m.entries, entry)
			continue
		}

		entry.AddOrigin(src.Label)
		if cols := diffColumns(entry.Row, row); len(cols) > 0 {
			c := Conflict{
				Key:     key,
				Kept:    m.firstSeen[key],
				Dropped: src.Label,
				Columns: cols,
			}
			m.conflicts = append(m.conflicts, c)
			m.logger.Warn("duplicate condition has different values; keeping first occurrence",
				"condition", strings.TrimSpace(entry.Row.Identifier()),
				"kept", c.Kept,
				"dropped", c.Dropped,
				"columns", strings.Join(cols, ", "))
		}
	}
}

// Result returns a snapshot of the merged entries.
func (m *Merger) Result() *Result {
	entries := make([]*types.MergeEntry, len(m.entries))
	copy(entries, m.entries)
	conflicts := make([]Conflict, len(m.conflicts))
	copy(conflicts, m.conflicts)
	return &Result{
		entries:   entries,
		index:     m.index,
		columns:   m.columns,
		conflicts: conflicts,
		blank:     m.skipped,
	}
}

// Merge folds sources in order and returns the result.
func Merge(sources []types.Source, logger *slog.Logger) *Result {
	m := New(logger)
	for _, src := range sources {
		m.Add(src)
	}
	return m.Result()
}

// Result is the ordered outcome of a merge.
type Result struct {
	entries   []*types.MergeEntry
	index     map[string]*types.MergeEntry
	columns   []string
	conflicts []Conflict
	blank     int
}

// Entries returns the merged entries in order of first appearance.
func (r *Result) Entries() []*types.MergeEntry { return r.entries }

// Len returns the number of unique keys.
func (r *Result) Len() int { return len(r.entries) }

// Lookup returns the entry for an identifier, normalizing it first.
func (r *Result) Lookup(identifier string) (*types.MergeEntry, bool) {
	e, ok := r.index[Key(identifier)]
	return e, ok
}

// Columns returns the schema of the first non-empty source.
func (r *Result) Columns() []string { return r.columns }

// Conflicts returns the duplicates whose differing values were dropped.
func (r *Result) Conflicts() []Conflict { return r.conflicts }

// BlankRows returns the number of rows skipped for an empty identifier.
func (r *Result) BlankRows() int { return r.blank }

// diffColumns returns the non-key columns whose trimmed values differ
// between kept and dropped. Columns present in only one row compare
// against "". The result follows kept's schema, then dropped's extras.
func diffColumns(kept, dropped types.Row) []string {
	cols := unionColumns(kept.Columns, dropped.Columns)
	var diff []string
	for i, col := range cols {
		if i == 0 || col == primary(kept) || col == primary(dropped) {
			continue
		}
		if strings.TrimSpace(kept.Get(col)) != strings.TrimSpace(dropped.Get(col)) {
			diff = append(diff, col)
		}
	}
	return diff
}

func primary(r types.Row) string {
	if len(r.Columns) == 0 {
		return ""
	}
	return r.Columns[0]
}

func unionColumns(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, c := range a {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range b {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
