package cache

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"scanframe/internal/table"
)

const (
	BinaryHeader  = "SCANFRAME_TBL"
	BinaryVersion = 1
)

// ErrBadHeader reports a binary cache that is not ours or is from an
// unsupported version.
var ErrBadHeader = errors.New("cache: bad binary header")

// Binary layout:
//
//	Header  (len(BinaryHeader) bytes)
//	Version (1)
//	Payload zstd stream wrapping a gob-encoded wireTable
type wireTable struct {
	Columns []string
	Rows    [][]wireValue
}

type wireValue struct {
	K uint8
	N float64
	S string
	B bool
}

func toWire(v table.Value) wireValue {
	w := wireValue{K: uint8(v.Kind())}
	switch v.Kind() {
	case table.KindNumber:
		w.N, _ = v.Float()
	case table.KindText:
		w.S, _ = v.Text()
	case table.KindBool:
		w.B, _ = v.Truth()
	}
	return w
}

func fromWire(w wireValue) (table.Value, error) {
	switch table.Kind(w.K) {
	case table.KindNull:
		return table.Null(), nil
	case table.KindNumber:
		return table.Num(w.N), nil
	case table.KindText:
		return table.Str(w.S), nil
	case table.KindBool:
		return table.Bool(w.B), nil
	default:
		return table.Value{}, fmt.Errorf("unknown cell kind %d", w.K)
	}
}

// WriteBinary encodes t in the binary layout.
func WriteBinary(w io.Writer, t *table.Table) error {
	if _, err := io.WriteString(w, BinaryHeader); err != nil {
		return err
	}
	if _, err := w.Write([]byte{BinaryVersion}); err != nil {
		return err
	}

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}
	wt := wireTable{Columns: t.Columns(), Rows: make([][]wireValue, t.Len())}
	for i := range wt.Rows {
		vals := t.Values(i)
		row := make([]wireValue, len(vals))
		for j, v := range vals {
			row[j] = toWire(v)
		}
		wt.Rows[i] = row
	}
	if err := gob.NewEncoder(zw).Encode(&wt); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode table: %w", err)
	}
	return zw.Close()
}

// ReadBinary decodes a table written by WriteBinary.
func ReadBinary(r io.Reader) (*table.Table, error) {
	br := bufio.NewReader(r)
	header := make([]byte, len(BinaryHeader))
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if string(header) != BinaryHeader {
		return nil, fmt.Errorf("%w: got %q", ErrBadHeader, header)
	}
	version, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if version != BinaryVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadHeader, version)
	}

	zr, err := zstd.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer zr.Close()

	var wt wireTable
	if err := gob.NewDecoder(zr).Decode(&wt); err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}

	t := table.New(wt.Columns)
	if len(t.Columns()) != len(wt.Columns) {
		return nil, fmt.Errorf("decode table: repeated column names")
	}
	for i, row := range wt.Rows {
		vals := make([]table.Value, len(row))
		for j, w := range row {
			v, err := fromWire(w)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			vals[j] = v
		}
		if err := t.AppendRow(vals); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return t, nil
}

// WriteBinaryFile writes t to path atomically.
func WriteBinaryFile(path string, t *table.Table) error {
	return writeAtomic(path, func(f *os.File) error {
		bw := bufio.NewWriter(f)
		if err := WriteBinary(bw, t); err != nil {
			return err
		}
		return bw.Flush()
	})
}

// ReadBinaryFile reads a binary cache from path.
func ReadBinaryFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBinary(f)
}
