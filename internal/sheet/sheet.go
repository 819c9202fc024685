// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sheet exports one named sheet of an OpenDocument spreadsheet
// (.ods) to a tab-separated file the table loader can read.
package sheet

import (
	"archive/zip"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/trish-deck/pkg/types"
)

// ErrSheetNotFound is returned when the document has no sheet with the
// requested name.
var ErrSheetNotFound = errors.New("sheet not found")

const (
	contentFile = "content.xml"
	nsTable     = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsText      = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	nsOffice    = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
)

// ExportSummary reports what Export wrote.
type ExportSummary struct {
	Path string
	Rows int
}

// OutputPath returns cfg.Output, or "<sheet>.tsv" when it is empty.
func OutputPath(cfg types.SheetConfig) string {
	if cfg.Output != "" {
		return cfg.Output
	}
	return cfg.Sheet + ".tsv"
}

// Export writes the sheet named cfg.Sheet of cfg.Document as TSV. Cells
// containing tabs, newlines, or quotes are quoted. Nothing is written
// when the sheet does not exist.
func Export(cfg types.SheetConfig) (ExportSummary, error) {
	rows, err := Read(cfg.Document, cfg.Sheet)
	if err != nil {
		return ExportSummary{}, err
	}

	out := OutputPath(cfg)
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ExportSummary{}, fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(out)
	if err != nil {
		return ExportSummary{}, fmt.Errorf("creating %s: %w", out, err)
	}
	if err := writeTSV(f, rows); err != nil {
		f.Close()
		return ExportSummary{}, fmt.Errorf("writing %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return ExportSummary{}, fmt.Errorf("closing %s: %w", out, err)
	}
	return ExportSummary{Path: out, Rows: len(rows)}, nil
}

func writeTSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// Read returns the cell text of the named sheet, one slice per row.
// Trailing empty cells and rows are dropped.
func Read(document, name string) ([][]string, error) {
	zr, err := zip.OpenReader(document)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", document, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != contentFile {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s in %s: %w", contentFile, document, err)
		}
		defer rc.Close()

		rows, names, found, err := parseContent(rc, name)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", document, err)
		}
		if !found {
			return nil, fmt.Errorf("%w: %q in %s (sheets: %s)", ErrSheetNotFound, name, document, strings.Join(names, ", "))
		}
		return rows, nil
	}
	return nil, fmt.Errorf("%s: no %s; not an OpenDocument spreadsheet", document, contentFile)
}

// parser accumulates the rows of the target sheet from a token stream.
// Runs of empty cells and rows are held as counts and only materialized
// when followed by content, so a sheet padded with a million repeated
// blank rows costs nothing.
type parser struct {
	target string
	names  []string
	found  bool
	inside bool

	rows         [][]string
	pendingRows  int
	row          []string
	pendingCells int
	rowRepeat    int

	cellRepeat int
	paras      []string
	para       *strings.Builder
	skipDepth  int
}

func parseContent(r io.Reader, target string) ([][]string, []string, bool, error) {
	p := &parser{target: target}
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, false, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p.start(t)
		case xml.EndElement:
			if p.end(t) {
				return p.rows, p.names, true, nil
			}
		case xml.CharData:
			if p.para != nil && p.skipDepth == 0 {
				p.para.Write(t)
			}
		}
	}
	return p.rows, p.names, p.found, nil
}

func (p *parser) start(t xml.StartElement) {
	if t.Name.Space == nsTable && t.Name.Local == "table" {
		name := attr(t, nsTable, "name")
		p.names = append(p.names, name)
		if !p.found && name == p.target {
			p.found, p.inside = true, true
		}
		return
	}
	if !p.inside {
		return
	}
	if p.skipDepth > 0 {
		p.skipDepth++
		return
	}

	switch {
	case t.Name.Space == nsOffice && t.Name.Local == "annotation":
		p.skipDepth = 1
	case t.Name.Space == nsTable && t.Name.Local == "table-row":
		p.row = nil
		p.pendingCells = 0
		p.rowRepeat = repeat(t, "number-rows-repeated")
	case t.Name.Space == nsTable && (t.Name.Local == "table-cell" || t.Name.Local == "covered-table-cell"):
		p.paras = nil
		p.cellRepeat = repeat(t, "number-columns-repeated")
	case t.Name.Space == nsText && t.Name.Local == "p":
		p.para = &strings.Builder{}
	case p.para != nil && t.Name.Space == nsText && t.Name.Local == "s":
		n := 1
		if c := attr(t, nsText, "c"); c != "" {
			if v, err := strconv.Atoi(c); err == nil && v > 0 {
				n = v
			}
		}
		p.para.WriteString(strings.Repeat(" ", n))
	case p.para != nil && t.Name.Space == nsText && t.Name.Local == "line-break":
		p.para.WriteByte('\n')
	case p.para != nil && t.Name.Space == nsText && t.Name.Local == "tab":
		p.para.WriteByte('\t')
	}
}

// end handles a closing tag and reports whether the target sheet is done.
func (p *parser) end(t xml.EndElement) bool {
	if !p.inside {
		return false
	}
	if p.skipDepth > 0 {
		p.skipDepth--
		return false
	}

	switch {
	case t.Name.Space == nsTable && t.Name.Local == "table":
		p.inside = false
		return true
	case t.Name.Space == nsText && t.Name.Local == "p":
		if p.para != nil {
			p.paras = append(p.paras, p.para.String())
			p.para = nil
		}
	case t.Name.Space == nsTable && (t.Name.Local == "table-cell" || t.Name.Local == "covered-table-cell"):
		value := strings.Join(p.paras, "\n")
		p.paras = nil
		if value == "" {
			p.pendingCells += p.cellRepeat
			return false
		}
		for ; p.pendingCells > 0; p.pendingCells-- {
			p.row = append(p.row, "")
		}
		for i := 0; i < p.cellRepeat; i++ {
			p.row = append(p.row, value)
		}
	case t.Name.Space == nsTable && t.Name.Local == "table-row":
		if len(p.row) == 0 {
			p.pendingRows += p.rowRepeat
			return false
		}
		for ; p.pendingRows > 0; p.pendingRows-- {
			p.rows = append(p.rows, nil)
		}
		for i := 0; i < p.rowRepeat; i++ {
			p.rows = append(p.rows, append([]string(nil), p.row...))
		}
		p.row = nil
	}
	return false
}

func repeat(t xml.StartElement, local string) int {
	if v := attr(t, nsTable, local); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

func attr(t xml.StartElement, space, local string) string {
	for _, a := range t.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
