package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scanframe/internal/table"

	_ "modernc.org/sqlite"
)

// SQLiteTable is the table ExportSQLite fills. It is dropped and recreated
// on every export so it always mirrors the current cache.
const SQLiteTable = "records"

const sqliteMetaSchema = `
CREATE TABLE IF NOT EXISTS export_meta (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	exported_at TEXT NOT NULL,
	row_count   INTEGER NOT NULL,
	col_count   INTEGER NOT NULL
);`

// ExportSQLite writes t into the records table of the database at path.
// Columns holding only numbers are REAL, only booleans INTEGER (0/1), and
// anything else TEXT. Null cells are SQL NULL.
func ExportSQLite(path string, t *table.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	cols := t.Columns()
	types := columnTypes(t)
	defs := make([]string, len(cols))
	marks := make([]string, len(cols))
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
		defs[i] = quoted[i] + " " + types[i]
		marks[i] = "?"
	}

	if _, err := tx.Exec("DROP TABLE IF EXISTS " + quoteIdent(SQLiteTable)); err != nil {
		return fmt.Errorf("drop %s: %w", SQLiteTable, err)
	}
	if len(cols) == 0 {
		defs = []string{"_empty INTEGER"}
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(SQLiteTable), strings.Join(defs, ", "))
	if _, err := tx.Exec(create); err != nil {
		return fmt.Errorf("create %s: %w", SQLiteTable, err)
	}

	if len(cols) > 0 && t.Len() > 0 {
		stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			quoteIdent(SQLiteTable), strings.Join(quoted, ", "), strings.Join(marks, ", ")))
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()
		args := make([]any, len(cols))
		for i := 0; i < t.Len(); i++ {
			for j, v := range t.Values(i) {
				args[j] = sqlArg(v)
			}
			if _, err := stmt.Exec(args...); err != nil {
				return fmt.Errorf("insert row %d: %w", i, err)
			}
		}
	}

	if _, err := tx.Exec(sqliteMetaSchema); err != nil {
		return fmt.Errorf("create export_meta: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO export_meta(id, exported_at, row_count, col_count) VALUES(1, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339), t.Len(), len(cols),
	); err != nil {
		return fmt.Errorf("write export_meta: %w", err)
	}
	return tx.Commit()
}

// columnTypes picks REAL for all-number columns, INTEGER for all-bool
// columns and TEXT otherwise. Null cells do not vote.
func columnTypes(t *table.Table) []string {
	cols := t.Columns()
	kinds := make([]uint8, len(cols))
	for i := 0; i < t.Len(); i++ {
		for j, v := range t.Values(i) {
			if !v.IsNull() {
				kinds[j] |= 1 << v.Kind()
			}
		}
	}
	out := make([]string, len(cols))
	for j, k := range kinds {
		switch k {
		case 1 << table.KindNumber:
			out[j] = "REAL"
		case 1 << table.KindBool:
			out[j] = "INTEGER"
		default:
			out[j] = "TEXT"
		}
	}
	return out
}

func sqlArg(v table.Value) any {
	switch v.Kind() {
	case table.KindNumber:
		f, _ := v.Float()
		return f
	case table.KindBool:
		b, _ := v.Truth()
		if b {
			return 1
		}
		return 0
	case table.KindText:
		s, _ := v.Text()
		return s
	default:
		return nil
	}
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
