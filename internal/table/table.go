// Package table holds the in-memory dataset scanframe assembles: typed
// cells, loosely keyed records, and an ordered table whose rows are aligned
// to a fixed column schema.
package table

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Identity and meta columns every table carries ahead of configured fields.
const (
	ColFilename   = "filename"
	ColAnalysisID = "analysis_id"
	ColInputRef   = "input_reference"
	ColStatus     = "status"
)

// Status values for the ColStatus column.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Record is one row before it is placed under a schema. Absent keys read
// as Null.
type Record map[string]Value

// Get returns the value stored under name, or Null.
func (r Record) Get(name string) Value {
	return r[name]
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered collection of rows sharing one column schema.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New returns an empty table with the given columns. Repeated names are
// kept once, at their first position.
func New(columns []string) *Table {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if _, dup := t.index[c]; dup {
			continue
		}
		t.index[c] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	return t
}

// FromRecords builds a table under columns; record keys outside the schema
// are ignored and schema columns missing from a record become Null.
func FromRecords(columns []string, recs []Record) *Table {
	t := New(columns)
	for _, r := range recs {
		t.Append(r)
	}
	return t
}

// Columns returns a copy of the schema.
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// HasColumn reports whether name is part of the schema.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Append adds a record as a new row.
func (t *Table) Append(r Record) {
	row := make([]Value, len(t.columns))
	for i, c := range t.columns {
		row[i] = r[c]
	}
	t.rows = append(t.rows, row)
}

// AppendRow adds a row given positionally. It is the entry point for
// loaders that already hold values in schema order.
func (t *Table) AppendRow(vals []Value) error {
	if len(vals) != len(t.columns) {
		return fmt.Errorf("row has %d values, schema has %d columns", len(vals), len(t.columns))
	}
	t.rows = append(t.rows, slices.Clone(vals))
	return nil
}

// Values returns a copy of row i in schema order.
func (t *Table) Values(i int) []Value { return slices.Clone(t.rows[i]) }

// Row returns row i as a Record.
func (t *Table) Row(i int) Record {
	r := make(Record, len(t.columns))
	for j, c := range t.columns {
		r[c] = t.rows[i][j]
	}
	return r
}

// Cell returns the value of column name in row i, or Null when the column
// is not part of the schema.
func (t *Table) Cell(i int, name string) Value {
	j, ok := t.index[name]
	if !ok {
		return Null()
	}
	return t.rows[i][j]
}

// Project returns a copy of t under a new schema. Columns t lacks are Null,
// columns not named are dropped.
func (t *Table) Project(columns []string) *Table {
	out := New(columns)
	src := make([]int, len(out.columns))
	for j, c := range out.columns {
		if k, ok := t.index[c]; ok {
			src[j] = k
		} else {
			src[j] = -1
		}
	}
	out.rows = make([][]Value, 0, len(t.rows))
	for _, row := range t.rows {
		nr := make([]Value, len(out.columns))
		for j, k := range src {
			if k >= 0 {
				nr[j] = row[k]
			}
		}
		out.rows = append(out.rows, nr)
	}
	return out
}

// Filenames returns the set of values in the filename column.
func (t *Table) Filenames() map[string]bool {
	out := make(map[string]bool)
	j, ok := t.index[ColFilename]
	if !ok {
		return out
	}
	for _, row := range t.rows {
		out[row[j].String()] = true
	}
	return out
}

// Key returns the full-row identity of row i: two rows share a key exactly
// when every cell is Equal.
func (t *Table) Key(i int) string {
	return rowKey(t.rows[i])
}

func rowKey(row []Value) string {
	var b strings.Builder
	for _, v := range row {
		b.WriteByte(byte('0' + v.kind))
		switch v.kind {
		case KindNumber:
			f := v.num
			switch {
			case math.IsNaN(f):
				b.WriteString("NaN")
			case f == 0:
				b.WriteString("0")
			default:
				b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
			}
		case KindText:
			b.WriteString(strconv.Itoa(len(v.text)))
			b.WriteByte(':')
			b.WriteString(v.text)
		case KindBool:
			b.WriteString(strconv.FormatBool(v.b))
		}
		b.WriteByte(0)
	}
	return b.String()
}

// Equal reports whether both tables have the same schema and the same rows
// in the same order.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if !slices.Equal(t.columns, o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.rows {
		if !rowsEqual(t.rows[i], o.rows[i]) {
			return false
		}
	}
	return true
}

func rowsEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
