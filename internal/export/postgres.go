package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTable is the table section rows are copied into.
const PostgresTable = "course_sections"

// DBTX is the subset of pgx used by the Postgres sink.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Begin(context.Context) (pgx.Tx, error)
}

// PostgresSink copies batches into PostgreSQL using the COPY protocol.
type PostgresSink struct {
	db DBTX
}

// NewPostgresSink wraps a connection pool. Call Migrate once before writing.
func NewPostgresSink(db DBTX) *PostgresSink {
	return &PostgresSink{db: db}
}

// ConnectPostgres opens a pool for url and applies migrations.
func ConnectPostgres(ctx context.Context, url string) (*PostgresSink, *pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}

	sink := NewPostgresSink(pool)
	if err := sink.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return sink, pool, nil
}

// Migrate creates the sections table if needed.
func (s *PostgresSink) Migrate(ctx context.Context) error {
	var cols strings.Builder
	cols.WriteString("run_id UUID NOT NULL, source TEXT NOT NULL, era TEXT NOT NULL, position INTEGER NOT NULL, created_at TIMESTAMPTZ NOT NULL")
	types := columnTypes("TEXT", "INTEGER", "DOUBLE PRECISION")
	for i, name := range dbColumns() {
		fmt.Fprintf(&cols, ", %s %s NOT NULL", name, types[i])
	}

	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (%s, PRIMARY KEY (run_id, source, position))`, PostgresTable, cols.String())
	if _, err := s.db.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("migrate %s: %w", PostgresTable, err)
	}
	return nil
}

// Write implements Sink. The whole batch is copied inside one transaction.
func (s *PostgresSink) Write(ctx context.Context, b Batch) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	runID := pgtype.UUID{Bytes: b.RunID, Valid: true}
	createdAt := pgtype.Timestamptz{Time: b.CreatedAt, Valid: true}

	rows := make([][]any, len(b.Rows))
	for i, row := range b.Rows {
		rows[i] = append([]any{runID, b.Source, string(b.Era), int32(i), createdAt}, row.values()...)
	}

	cols := append(append([]string(nil), metaColumns...), dbColumns()...)
	n, err := tx.CopyFrom(ctx, pgx.Identifier{PostgresTable}, cols, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy sections: %w", err)
	}
	if int(n) != len(rows) {
		return fmt.Errorf("copy sections: copied %d of %d rows", n, len(rows))
	}

	return tx.Commit(ctx)
}
