package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/evalnorm/internal/config"
	"github.com/JonMunkholm/evalnorm/internal/export"
)

// sinkSet is the database sinks enabled for a run, plus what must be
// closed afterwards.
type sinkSet struct {
	sinks   export.MultiSink
	closers []func()
}

// openDatabaseSinks opens the SQLite and PostgreSQL sinks that have a path
// or URL configured.
func openDatabaseSinks(ctx context.Context, sqlitePath string, db config.DatabaseConfig) (*sinkSet, error) {
	set := &sinkSet{}

	if sqlitePath != "" {
		sink, err := export.OpenSQLite(sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", sqlitePath, err)
		}
		set.sinks = append(set.sinks, sink)
		set.closers = append(set.closers, func() {
			if err := sink.Close(); err != nil {
				slog.Warn("close sqlite", "error", err)
			}
		})
		slog.Info("storing sections in sqlite", "path", sqlitePath)
	}

	if db.URL != "" {
		poolConfig, err := pgxpool.ParseConfig(db.URL)
		if err != nil {
			set.Close()
			return nil, fmt.Errorf("parse database URL: %w", err)
		}
		poolConfig.MaxConns = int32(db.MaxConns)
		poolConfig.MaxConnLifetime = db.MaxConnLifetime

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			set.Close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			set.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}

		sink := export.NewPostgresSink(pool)
		if err := sink.Migrate(ctx); err != nil {
			pool.Close()
			set.Close()
			return nil, err
		}
		set.sinks = append(set.sinks, sink)
		set.closers = append(set.closers, pool.Close)
		slog.Info("storing sections in postgres", "database", poolConfig.ConnConfig.Database)
	}

	return set, nil
}

// With returns the database sinks preceded by first.
func (s *sinkSet) With(first export.Sink) export.Sink {
	if len(s.sinks) == 0 {
		return first
	}
	return append(export.MultiSink{first}, s.sinks...)
}

// Sink returns the database sinks alone, or nil when none is enabled.
func (s *sinkSet) Sink() export.Sink {
	if len(s.sinks) == 0 {
		return nil
	}
	return s.sinks
}

// Close closes everything opened, in reverse order.
func (s *sinkSet) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
