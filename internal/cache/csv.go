package cache

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"scanframe/internal/table"
)

// WriteCSV writes a header row of column names followed by one line per
// row. Null cells are empty fields; see encodeCell for empty text.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	cols := t.Columns()
	if err := cw.Write(cols); err != nil {
		return err
	}
	rec := make([]string, len(cols))
	for i := 0; i < t.Len(); i++ {
		for j, v := range t.Values(i) {
			rec[j] = encodeCell(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV. Cell types are inferred with
// table.Parse, so text that looks numeric or boolean comes back as a Number
// or Bool.
func ReadCSV(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	cr.FieldsPerRecord = len(header)

	t := table.New(header)
	if len(t.Columns()) != len(header) {
		return nil, fmt.Errorf("csv: repeated column names in header")
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", t.Len()+1, err)
		}
		vals := make([]table.Value, len(rec))
		for j, s := range rec {
			vals[j] = decodeCell(s)
		}
		if err := t.AppendRow(vals); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// encodeCell renders v as a CSV field. Text made only of double quotes,
// including the empty string, gains one extra quote so that it cannot be
// read back as Null.
func encodeCell(v table.Value) string {
	if s, ok := v.Text(); ok && onlyQuotes(s) {
		return s + `"`
	}
	return v.String()
}

func decodeCell(s string) table.Value {
	if s != "" && onlyQuotes(s) {
		return table.Str(s[1:])
	}
	return table.Parse(s)
}

func onlyQuotes(s string) bool {
	return strings.Trim(s, `"`) == ""
}

// WriteCSVFile writes t to path atomically.
func WriteCSVFile(path string, t *table.Table) error {
	return writeAtomic(path, func(f *os.File) error {
		bw := bufio.NewWriter(f)
		if err := WriteCSV(bw, t); err != nil {
			return err
		}
		return bw.Flush()
	})
}

// ReadCSVFile reads a CSV cache from path.
func ReadCSVFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}
