// Package schema has configs, models and global variables for all parts of leadpulse.
package schema

import "time"

// Row is a single record. Cells are aligned with Table.Columns.
type Row []string

// Table is an ordered set of records loaded from a flat file.
// Tables are treated as immutable once loaded; every derived table is a deep copy.
type Table struct {
	Columns []string `json:"columns"` // Header names in file order
	Rows    []Row    `json:"rows"`    // Records in file order
}

// NewTable creates a table with a copy of the given header and no rows.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// ColumnIndex returns the position of a column, or false if the column is absent.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Cell returns the value at (row, col), or "" when the row is shorter than the header.
func (t *Table) Cell(row, col int) string {
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// AppendCopy appends a copy of the row so later edits to either side never alias.
func (t *Table) AppendCopy(r Row) {
	c := make(Row, len(r))
	copy(c, r)
	t.Rows = append(t.Rows, c)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	clone := NewTable(t.Columns)
	clone.Rows = make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		clone.AppendCopy(r)
	}
	return clone
}

// BucketKey identifies the calendar bucket a timestamp falls into.
// At is the ordering anchor (the first day of the bucket, or the Sunday for weeks);
// Label is what gets displayed and grouped on.
type BucketKey struct {
	At    time.Time `json:"at"`
	Label string    `json:"label"`
}

// Before reports whether k sorts before other.
func (k BucketKey) Before(other BucketKey) bool {
	return k.At.Before(other.At)
}
