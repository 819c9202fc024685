// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Row is one table record: an ordered mapping from column name to value.
// Columns[0] is the primary identifier ("Condition").
type Row struct {
	// Columns is the schema of the table the row was read from, in header order.
	Columns []string `json:"columns" yaml:"columns"`

	// Values maps column name to cell value. Missing cells are "".
	Values map[string]string `json:"values" yaml:"values"`
}

// Get returns the value for col, or "" when the column is absent.
func (r Row) Get(col string) string {
	if r.Values == nil {
		return ""
	}
	return r.Values[col]
}

// Has reports whether the row's schema contains col.
func (r Row) Has(col string) bool {
	_, ok := r.Values[col]
	return ok
}

// Identifier returns the value of the primary identifier column.
func (r Row) Identifier() string {
	if len(r.Columns) == 0 {
		return ""
	}
	return r.Get(r.Columns[0])
}

// Table is an ordered sequence of rows sharing one column schema.
type Table struct {
	// Columns is the header row in file order.
	Columns []string `json:"columns" yaml:"columns"`

	// Rows holds the records in file order.
	Rows []Row `json:"rows" yaml:"rows"`
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// PrimaryColumn returns the name of the first column, or "" for a table
// without a header.
func (t Table) PrimaryColumn() string {
	if len(t.Columns) == 0 {
		return ""
	}
	return t.Columns[0]
}

// Source pairs a loaded table with the block label derived from its origin.
type Source struct {
	// Label is the block label, e.g. "MSK" for msk.tsv.
	Label string `json:"label" yaml:"label"`

	// Path is the file the table was read from.
	Path string `json:"path" yaml:"path"`

	Table Table `json:"table" yaml:"table"`
}
