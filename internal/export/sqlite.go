package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/benchtools/flamelog/internal/tabulate"
	_ "modernc.org/sqlite" // SQLite driver
)

// dbFileName is the single database each run writes into.
const dbFileName = "flamelog.db"

// SQLiteExporter writes every table of a run into one SQLite database,
// one SQL table per input log. Missing cells are stored as NULL.
type SQLiteExporter struct {
	opts   Options
	dbPath string
	db     *sql.DB
	opened bool
}

// NewSQLite returns a SQLiteExporter writing to opts.Dir/flamelog.db.
func NewSQLite(opts Options) *SQLiteExporter {
	return &SQLiteExporter{opts: opts, dbPath: filepath.Join(opts.Dir, dbFileName)}
}

// open creates the database on first use, applying the overwrite policy to
// the database file as a whole. A declined overwrite skips the entire run's
// SQLite output.
func (e *SQLiteExporter) open() error {
	if e.opened {
		if e.db == nil {
			return fmt.Errorf("%s: %w", e.dbPath, ErrSkipped)
		}
		return nil
	}
	e.opened = true

	if err := e.opts.allowed(e.dbPath); err != nil {
		return err
	}
	// Start from a fresh database each run
	if err := os.Remove(e.dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing previous database: %w", err)
	}

	db, err := sql.Open("sqlite", e.dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	e.db = db
	return nil
}

// Close releases the database handle.
func (e *SQLiteExporter) Close() error {
	if e.db == nil {
		return nil
	}
	err := e.db.Close()
	e.db = nil
	return err
}

// Export writes table into its own SQL table and returns the database path.
func (e *SQLiteExporter) Export(ctx context.Context, table *tabulate.Table, index int) (string, error) {
	if err := e.open(); err != nil {
		return "", err
	}

	name := tableName(index, table.Source)

	cols := make([]string, len(table.Columns))
	placeholders := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		cols[i] = fmt.Sprintf("%s %s", quoteIdent(col.Name), sqlType(col.Kind))
		placeholders[i] = "?"
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(cols, ", "))
	if _, err := e.db.ExecContext(ctx, create); err != nil {
		return "", fmt.Errorf("creating table %s: %w", name, err)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(name), strings.Join(placeholders, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(table.Columns))
	for _, row := range table.Rows {
		for i, cell := range row {
			args[i] = sqlValue(cell, table.Columns[i].Kind)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return "", fmt.Errorf("inserting row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing rows: %w", err)
	}
	return e.dbPath, nil
}

// tableName derives a SQL table name from the batch index and source path,
// mirroring the file naming of the other sinks.
func tableName(index int, source string) string {
	base := filepath.Base(source)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return fmt.Sprintf("%d__%s", index, b.String())
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqlType(kind tabulate.Kind) string {
	switch kind {
	case tabulate.KindInt:
		return "INTEGER"
	case tabulate.KindFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

func sqlValue(cell tabulate.Cell, kind tabulate.Kind) any {
	if !cell.Valid {
		return nil
	}
	switch kind {
	case tabulate.KindInt:
		return cell.Int
	case tabulate.KindFloat:
		return cell.Float
	default:
		return cell.Str
	}
}
