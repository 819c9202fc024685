// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table reads tab-separated study tables into rows of named fields.
// The first line is the header; the first column is the primary identifier.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/pdiddy/trish-deck/pkg/types"
)

var (
	// ErrNotFound is returned when the table file does not exist.
	ErrNotFound = errors.New("table file not found")
	// ErrParse is returned when the file is not a well-formed table.
	ErrParse = errors.New("malformed table")
)

const bom = "\ufeff"

// TSV loads tab-separated files from disk.
type TSV struct{}

// Load reads the table at path.
func (TSV) Load(path string) (types.Table, error) {
	return Load(path)
}

// Load opens path and parses it as a tab-separated table.
func Load(path string) (types.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.Table{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return types.Table{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return types.Table{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// Parse reads a tab-separated table from r. Quoted cells may contain tabs
// and newlines. Rows shorter than the header are padded with empty values;
// rows longer than the header are an error.
func Parse(r io.Reader) (types.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return types.Table{}, fmt.Errorf("%w: no header row", ErrParse)
	}
	if err != nil {
		return types.Table{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	columns, err := normalizeHeader(header)
	if err != nil {
		return types.Table{}, err
	}

	t := types.Table{Columns: columns}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return types.Table{}, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if len(record) > len(columns) && !blank(record[len(columns):]) {
			line, _ := cr.FieldPos(0)
			return types.Table{}, fmt.Errorf("%w: line %d has %d fields, header has %d",
				ErrParse, line, len(record), len(columns))
		}

		values := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(record) {
				values[col] = record[i]
			} else {
				values[col] = ""
			}
		}
		t.Rows = append(t.Rows, types.Row{Columns: columns, Values: values})
	}

	return t, nil
}

// normalizeHeader trims header names, drops a leading byte-order mark and
// trailing empty cells, and rejects empty or duplicate column names.
func normalizeHeader(header []string) ([]string, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: empty header row", ErrParse)
	}

	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, fmt.Errorf("%w: column %d has an empty name", ErrParse, i+1)
		}
		if seen[h] {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrParse, h)
		}
		seen[h] = true
		columns[i] = h
	}
	return columns, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
