package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteSink stores sections in a local SQLite database.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies migrations.
func OpenSQLite(path string) (*SQLiteSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	sink := &SQLiteSink{db: db}
	if err := sink.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return sink, nil
}

// Close closes the underlying database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func (s *SQLiteSink) migrate() error {
	var cols strings.Builder
	cols.WriteString("run_id TEXT NOT NULL,\n\t\t\tsource TEXT NOT NULL,\n\t\t\tera TEXT NOT NULL,\n\t\t\tposition INTEGER NOT NULL,\n\t\t\tcreated_at TEXT NOT NULL")
	for i, name := range dbColumns() {
		fmt.Fprintf(&cols, ",\n\t\t\t%s %s NOT NULL", name, columnTypes("TEXT", "INTEGER", "REAL")[i])
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sections (
			` + cols.String() + `,
			PRIMARY KEY (run_id, source, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sections_term ON sections(term);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Write implements Sink. A batch is stored in a single transaction.
func (s *SQLiteSink) Write(ctx context.Context, b Batch) (err error) {
	cols := append(append([]string(nil), metaColumns...), dbColumns()...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf("INSERT INTO sections (%s) VALUES (%s)", strings.Join(cols, ", "), placeholders)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	createdAt := b.CreatedAt.UTC().Format(time.RFC3339Nano)
	for i, row := range b.Rows {
		args := append([]any{b.RunID.String(), b.Source, string(b.Era), i, createdAt}, row.values()...)
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert section %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of stored sections for a run.
func (s *SQLiteSink) Count(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sections WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}
