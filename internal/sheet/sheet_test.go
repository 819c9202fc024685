// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sheet

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trish-deck/internal/table"
	"github.com/pdiddy/trish-deck/pkg/types"
)

const contentHeader = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
<office:body><office:spreadsheet>
`

const contentFooter = `</office:spreadsheet></office:body></office:document-content>`

const twoSheets = contentHeader + `
<table:table table:name="Cardio">
  <table:table-row><table:table-cell><text:p>Condition</text:p></table:table-cell></table:table-row>
</table:table>
<table:table table:name="MSK">
  <table:table-column table:number-columns-repeated="3"/>
  <table:table-row>
    <table:table-cell><text:p>Condition</text:p></table:table-cell>
    <table:table-cell><text:p>Diagnostics</text:p></table:table-cell>
    <table:table-cell><text:p>Never Miss</text:p></table:table-cell>
    <table:table-cell table:number-columns-repeated="1020"/>
  </table:table-row>
  <table:table-row>
    <table:table-cell><text:p>Gout</text:p></table:table-cell>
    <table:table-cell><text:p>Joint<text:s text:c="2"/>aspiration</text:p><text:p>Crystals</text:p></table:table-cell>
    <table:table-cell table:number-columns-repeated="1022"/>
  </table:table-row>
  <table:table-row table:number-rows-repeated="2">
    <table:table-cell table:number-columns-repeated="2"/>
    <table:table-cell><text:p>Yes</text:p></table:table-cell>
  </table:table-row>
  <table:table-row>
    <table:table-cell><text:p>Septic <text:span>arthritis</text:span></text:p>
      <office:annotation><text:p>reviewer note</text:p></office:annotation>
    </table:table-cell>
    <table:table-cell><text:p>Line<text:line-break/>break</text:p></table:table-cell>
  </table:table-row>
  <table:table-row table:number-rows-repeated="1048570">
    <table:table-cell table:number-columns-repeated="1024"/>
  </table:table-row>
</table:table>
` + contentFooter

func writeODS(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trish.ods")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	mt, err := zw.Create("mimetype")
	require.NoError(t, err)
	_, err = mt.Write([]byte("application/vnd.oasis.opendocument.spreadsheet"))
	require.NoError(t, err)
	cw, err := zw.Create("content.xml")
	require.NoError(t, err)
	_, err = cw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestRead(t *testing.T) {
	doc := writeODS(t, twoSheets)

	rows, err := Read(doc, "MSK")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Condition", "Diagnostics", "Never Miss"},
		{"Gout", "Joint  aspiration\nCrystals"},
		{"", "", "Yes"},
		{"", "", "Yes"},
		{"Septic arthritis", "Line\nbreak"},
	}, rows)
}

func TestRead_SheetNotFound(t *testing.T) {
	doc := writeODS(t, twoSheets)

	_, err := Read(doc, "Renal")
	require.ErrorIs(t, err, ErrSheetNotFound)
	assert.Contains(t, err.Error(), "Cardio, MSK")
}

func TestRead_NotASpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.ods")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))
	_, err := Read(path, "MSK")
	assert.Error(t, err)
}

func TestExport_RoundTripsThroughTableLoader(t *testing.T) {
	doc := writeODS(t, twoSheets)
	out := filepath.Join(t.TempDir(), "nested", "msk.tsv")

	summary, err := Export(types.SheetConfig{Document: doc, Sheet: "MSK", Output: out})
	require.NoError(t, err)
	assert.Equal(t, out, summary.Path)
	assert.Equal(t, 5, summary.Rows)

	tbl, err := table.Load(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Condition", "Diagnostics", "Never Miss"}, tbl.Columns)
	require.Len(t, tbl.Rows, 4)
	assert.Equal(t, "Joint  aspiration\nCrystals", tbl.Rows[0].Get("Diagnostics"))
	assert.Equal(t, "Septic arthritis", tbl.Rows[3].Identifier())
}

func TestExport_MissingSheetWritesNothing(t *testing.T) {
	doc := writeODS(t, twoSheets)
	out := filepath.Join(t.TempDir(), "renal.tsv")

	_, err := Export(types.SheetConfig{Document: doc, Sheet: "Renal", Output: out})
	require.ErrorIs(t, err, ErrSheetNotFound)
	assert.NoFileExists(t, out)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "MSK.tsv", OutputPath(types.SheetConfig{Sheet: "MSK"}))
	assert.Equal(t, "x.tsv", OutputPath(types.SheetConfig{Sheet: "MSK", Output: "x.tsv"}))
}
