package format_test

import (
	"strings"
	"testing"
	"time"

	"scanframe/internal/assemble"
	"scanframe/internal/format"
	"scanframe/internal/table"
)

func TestASCII_BasicTable(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("filename", "MASS_25")
	tb.Row("out/a.py", 125.09)
	out := tb.String()

	for _, want := range []string{"FILENAME", "out/a.py", "125.09", "───"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestMarkdown_BasicTable(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Column", "Nulls")
	tb.Row("r", 3)
	out := tb.String()

	if !strings.Contains(out, "| Column") {
		t.Errorf("expected markdown header with '| Column':\n%s", out)
	}
	if !strings.Contains(out, "---") {
		t.Errorf("expected markdown separator '---':\n%s", out)
	}
}

func TestSameData_DualFormat(t *testing.T) {
	build := func(m format.Mode) string {
		tb := format.NewTable(m)
		tb.Header("A", "B")
		tb.Row("x", "y")
		return tb.String()
	}
	ascii, md := build(format.ASCII), build(format.Markdown)
	if ascii == md {
		t.Error("ASCII and Markdown output should differ")
	}
	for _, out := range []string{ascii, md} {
		if !strings.Contains(out, "x") || !strings.Contains(out, "y") {
			t.Errorf("expected data in output:\n%s", out)
		}
	}
}

func previewTable() *table.Table {
	cols := []string{"filename", "analysis_id", "r"}
	return table.FromRecords(cols, []table.Record{
		{"filename": table.Str("out/a.py"), "analysis_id": table.Str("ATLAS-SUSY-2018-06-with-a-long-suffix"), "r": table.Num(0.5)},
		{"filename": table.Str("out/b.py"), "r": table.Num(1.5)},
		{"filename": table.Str("out/c.py"), "r": table.Num(2)},
	})
}

func TestPreview_LimitsRows(t *testing.T) {
	out := format.Preview(previewTable(), 2, 12, format.ASCII)
	if !strings.Contains(out, "out/b.py") {
		t.Errorf("expected second row:\n%s", out)
	}
	if strings.Contains(out, "out/c.py") {
		t.Errorf("third row should be cut:\n%s", out)
	}
	if !strings.Contains(out, "2 of 3 rows") {
		t.Errorf("expected row count footer:\n%s", out)
	}
	if !strings.Contains(out, "ATLAS-SUS...") {
		t.Errorf("expected truncated analysis id:\n%s", out)
	}
	if !strings.Contains(out, format.NullMark) {
		t.Errorf("expected null mark for missing analysis id:\n%s", out)
	}
}

func TestPreview_AllRows(t *testing.T) {
	out := format.Preview(previewTable(), 0, 0, format.Markdown)
	if !strings.Contains(out, "out/c.py") || strings.Contains(out, " of 3 rows") {
		t.Errorf("expected every row and no footer:\n%s", out)
	}
}

func TestSummary(t *testing.T) {
	rep := assemble.Report{
		RunID:      "run-1",
		Discovered: 3,
		Processed:  2,
		Failed:     1,
		Rows:       4,
		Saved:      true,
		Duration:   1500 * time.Millisecond,
		Merge:      table.MergeStats{Kept: 2, Added: 2},
	}
	out := format.Summary(rep, format.ASCII)
	for _, want := range []string{"run-1", "Processed files", "Failed files", "✓", "1s"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in summary:\n%s", want, out)
		}
	}
}

func TestSchema(t *testing.T) {
	out := format.Schema([]string{"filename", "MASS_25"}, format.Markdown)
	if !strings.Contains(out, "MASS_25") || !strings.Contains(out, "| 2") {
		t.Errorf("unexpected schema output:\n%s", out)
	}
}

func TestMissingReport(t *testing.T) {
	out := format.MissingReport(previewTable(), []string{"filename", "analysis_id", "r", "MASS_25"}, format.ASCII)
	if !strings.Contains(out, "3 rows, 3 incomplete") {
		t.Errorf("expected title with counts:\n%s", out)
	}
	if !strings.Contains(out, "MASS_25") || !strings.Contains(out, "✗") {
		t.Errorf("expected absent column marked:\n%s", out)
	}
}

func TestFmtDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0ms"},
		{250 * time.Millisecond, "250ms"},
		{30 * time.Second, "30s"},
		{60 * time.Second, "1m 0s"},
		{5*time.Minute + 15*time.Second, "5m 15s"},
	}
	for _, tc := range tests {
		if got := format.FmtDuration(tc.in); got != tc.want {
			t.Errorf("FmtDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello..."},
		{"abcdef", 3, "abc"},
		{"abcdef", 0, "abcdef"},
		{"χ̃⁰₁ mass", 4, "χ..."},
	}
	for _, tc := range tests {
		if got := format.Truncate(tc.in, tc.maxLen); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
	}
}
