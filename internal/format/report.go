package format

import (
	"fmt"
	"sort"

	"scanframe/internal/assemble"
	tbl "scanframe/internal/table"
)

// NullMark is how Null cells appear in previews.
const NullMark = "-"

// Preview renders the first n rows of t (all rows when n <= 0). Cells
// longer than cellWidth runes are truncated.
func Preview(t *tbl.Table, n, cellWidth int, m Mode) string {
	tb := NewTable(m)
	cols := t.Columns()
	tb.Header(cols...)

	rows := t.Len()
	if n > 0 && n < rows {
		rows = n
	}
	var aligns []ColumnConfig
	for j, c := range cols {
		if numericColumn(t, c, rows) {
			aligns = append(aligns, ColumnConfig{Number: j + 1, Align: AlignRight})
		}
	}
	if len(aligns) > 0 {
		tb.Columns(aligns...)
	}

	for i := 0; i < rows; i++ {
		vals := t.Values(i)
		cells := make([]any, len(vals))
		for j, v := range vals {
			if v.IsNull() {
				cells[j] = NullMark
				continue
			}
			cells[j] = Truncate(v.String(), cellWidth)
		}
		tb.Row(cells...)
	}
	if rows < t.Len() {
		tb.Footer(fmt.Sprintf("%d of %d rows", rows, t.Len()))
	}
	return tb.String()
}

func numericColumn(t *tbl.Table, col string, rows int) bool {
	seen := false
	for i := 0; i < rows; i++ {
		v := t.Cell(i, col)
		if v.IsNull() {
			continue
		}
		if v.Kind() != tbl.KindNumber {
			return false
		}
		seen = true
	}
	return seen
}

// Summary renders the outcome of one assembly pass.
func Summary(rep assemble.Report, m Mode) string {
	tb := NewTable(m)
	tb.Title("Run " + rep.RunID)
	tb.Header("Metric", "Value")
	tb.Row("Cached rows", rep.CacheRows)
	tb.Row("Missing columns", len(rep.Missing.Columns))
	tb.Row("Incomplete rows", len(rep.Missing.Rows))
	tb.Row("Discovered files", rep.Discovered)
	tb.Row("Processed files", rep.Processed)
	tb.Row("Failed files", rep.Failed)
	tb.Row("Unmatched references", rep.Unmatched)
	tb.Row("Rows kept", rep.Merge.Kept)
	tb.Row("Rows added", rep.Merge.Added)
	tb.Row("Rows replaced", rep.Merge.Replaced)
	tb.Row("Duplicates dropped", rep.Merge.Dropped)
	tb.Row("Saved", BoolMark(rep.Saved))
	if rep.Duration > 0 {
		tb.Row("Duration", FmtDuration(rep.Duration))
	}
	tb.Footer("Rows", rep.Rows)
	tb.Columns(ColumnConfig{Number: 2, Align: AlignRight})
	return tb.String()
}

// Schema lists required columns with their position.
func Schema(cols []string, m Mode) string {
	tb := NewTable(m)
	tb.Header("#", "Column")
	for i, c := range cols {
		tb.Row(i+1, c)
	}
	return tb.String()
}

// MissingReport renders how far t is from the required schema: absent
// columns, and Null counts for the columns that exist.
func MissingReport(t *tbl.Table, required []string, m Mode) string {
	miss := t.Missing(required, assemble.Nullable...)
	tb := NewTable(m)
	tb.Title(fmt.Sprintf("%d rows, %d incomplete", t.Len(), len(miss.Rows)))
	tb.Header("Column", "Present", "Nulls")

	absent := make(map[string]bool, len(miss.Columns))
	for _, c := range miss.Columns {
		absent[c] = true
	}
	names := make([]string, 0, len(required))
	names = append(names, required...)
	sort.SliceStable(names, func(i, j int) bool { return absent[names[i]] && !absent[names[j]] })
	for _, c := range names {
		if absent[c] {
			tb.Row(c, BoolMark(false), NullMark)
			continue
		}
		tb.Row(c, BoolMark(true), miss.Nulls[c])
	}
	tb.Columns(ColumnConfig{Number: 3, Align: AlignRight})
	return tb.String()
}
