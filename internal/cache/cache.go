// Package cache persists assembled tables. Two forms are always written, a
// CSV file for people and spreadsheets and a compact binary file that
// round-trips cell types exactly; either can be read back. A SQLite copy
// can be exported alongside for downstream query tools.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"scanframe/internal/table"
)

// Storage kinds.
const (
	KindCSV    = "csv"
	KindBinary = "binary"
)

// ErrUnknownKind is returned by Read for a kind other than csv or binary.
var ErrUnknownKind = errors.New("cache: unknown storage kind")

// Paths names the files Save writes. SQLite is optional.
type Paths struct {
	CSV    string
	Binary string
	SQLite string
}

// Read loads a persisted table strictly: every failure is returned.
func Read(kind, path string) (*table.Table, error) {
	switch kind {
	case KindCSV:
		return ReadCSVFile(path)
	case KindBinary:
		return ReadBinaryFile(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Load reads a persisted table, treating any failure as an empty cache.
// A missing file is expected on first use and logged at info; anything
// else is logged at warn.
func Load(kind, path string, log *slog.Logger) *table.Table {
	t, err := Read(kind, path)
	switch {
	case err == nil:
		log.Info("loaded cache", "kind", kind, "path", path, "rows", t.Len(), "columns", len(t.Columns()))
		return t
	case errors.Is(err, fs.ErrNotExist):
		log.Info("no cache file", "kind", kind, "path", path)
	default:
		log.Warn("cache unreadable, starting empty", "kind", kind, "path", path, "error", err)
	}
	return table.New(nil)
}

// Save writes t to every configured path. Each sink is attempted even if
// an earlier one failed; failures are joined.
func Save(t *table.Table, p Paths) error {
	var errs []error
	if p.CSV != "" {
		if err := WriteCSVFile(p.CSV, t); err != nil {
			errs = append(errs, fmt.Errorf("write csv %s: %w", p.CSV, err))
		}
	}
	if p.Binary != "" {
		if err := WriteBinaryFile(p.Binary, t); err != nil {
			errs = append(errs, fmt.Errorf("write binary %s: %w", p.Binary, err))
		}
	}
	if p.SQLite != "" {
		if err := ExportSQLite(p.SQLite, t); err != nil {
			errs = append(errs, fmt.Errorf("export sqlite %s: %w", p.SQLite, err))
		}
	}
	return errors.Join(errs...)
}

// writeAtomic writes through a temp file in the target directory and
// renames it into place, so readers never see a half-written cache.
func writeAtomic(path string, write func(f *os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
