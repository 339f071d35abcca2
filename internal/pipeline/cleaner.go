// Package pipeline drives cleaning runs: it reads rows from a source, feeds
// them through an era layout into a registry, and hands the finished
// sections to export sinks.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/evalnorm/internal/evaluation"
	"github.com/JonMunkholm/evalnorm/internal/export"
	"github.com/JonMunkholm/evalnorm/internal/logging"
	"github.com/JonMunkholm/evalnorm/internal/source"
)

// ContextCheckInterval is how often (in rows) to check for cancellation.
var ContextCheckInterval = 100

// Cleaner cleans evaluation files. All files cleaned by one Cleaner share
// its run id.
type Cleaner struct {
	Source source.Options
	RunID  uuid.UUID

	now func() time.Time
}

// NewCleaner returns a cleaner with a fresh run id.
func NewCleaner(opts source.Options) *Cleaner {
	return &Cleaner{Source: opts, RunID: uuid.New(), now: time.Now}
}

// Result is one cleaned file.
type Result struct {
	RunID    uuid.UUID
	Source   string
	Era      evaluation.Era
	Registry *evaluation.Registry
	Rows     int // rows read, including the title block and blank rows
	Started  time.Time
	Duration time.Duration
}

// Batch converts the result for export.
func (r *Result) Batch() export.Batch {
	return export.Batch{
		RunID:     r.RunID,
		Source:    r.Source,
		Era:       r.Era,
		CreatedAt: r.Started,
		Rows:      export.Rows(r.Registry.Sections()),
	}
}

// Context returns ctx carrying the cleaner's run id for logging.
func (c *Cleaner) Context(ctx context.Context) context.Context {
	return logging.WithRunID(ctx, c.RunID.String())
}

// Clean reads the file at path with the layout of era.
func (c *Cleaner) Clean(ctx context.Context, path string, era evaluation.Era) (*Result, error) {
	rows, err := source.Open(path, c.Source)
	if err != nil {
		return nil, fmt.Errorf("clean %s: %w", path, err)
	}
	defer rows.Close()

	return c.CleanRows(ctx, rows, filepath.Base(path), era)
}

// CleanRows consumes rows until EOF. name identifies the input in logs and
// exported batches.
//
// A row whose term, course or size cannot be read aborts the file with a
// wrapped *evaluation.RowParseError. Rows with bad scores are dropped and
// counted in the registry stats.
func (c *Cleaner) CleanRows(ctx context.Context, rows source.RowReader, name string, era evaluation.Era) (*Result, error) {
	layout, ok := evaluation.LookupEra(era)
	if !ok {
		return nil, fmt.Errorf("clean %s: %w: %q", name, evaluation.ErrUnknownEra, era)
	}

	ctx = c.Context(ctx)
	logger := logging.WithFields(ctx, "source", name, "era", string(era))

	result := &Result{
		RunID:    c.RunID,
		Source:   name,
		Era:      era,
		Registry: evaluation.NewRegistry(),
		Started:  c.clock(),
	}

	for i := 0; ; i++ {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("clean %s: %w", name, err)
			}
		}

		row, err := rows.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("clean %s: %w", name, err)
		}
		result.Rows++

		if i < layout.StartRow || isEmptyRow(row) {
			continue
		}

		rec, err := layout.Interpret(row, i)
		if err != nil {
			logger.Error("Bad row", "row", i, "raw", row, "error", err)
			return nil, fmt.Errorf("clean %s: %w", name, err)
		}

		if res := result.Registry.Ingest(rec); res.Reason != evaluation.ReasonNone {
			logger.Debug("Dropped row", "row", i, "section", rec.ID(), "reason", res.Reason.String())
		}
	}

	result.Duration = c.clock().Sub(result.Started)
	logStats(logger, result)
	return result, nil
}

// CleanWrite cleans the file at path and writes the sections to sink.
func (c *Cleaner) CleanWrite(ctx context.Context, path string, era evaluation.Era, sink export.Sink) (*Result, error) {
	result, err := c.Clean(ctx, path, era)
	if err != nil {
		return nil, err
	}
	if err := sink.Write(c.Context(ctx), result.Batch()); err != nil {
		return nil, fmt.Errorf("write %s: %w", result.Source, err)
	}
	return result, nil
}

func (c *Cleaner) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func logStats(logger *slog.Logger, r *Result) {
	stats := r.Registry.Stats()
	logger.Info("Cleaned file",
		slog.Int("rows", r.Rows),
		slog.Int("records", stats.Records),
		slog.Int("sections", r.Registry.Len()),
		slog.Int("merged", stats.Merged),
		slog.Int("crosslist_repeats", stats.CrosslistRepeats),
		slog.Int("siblings", stats.Siblings),
		slog.Int("dropped", stats.DroppedTotal()),
		slog.Duration("duration", r.Duration),
	)

	reasons := make([]evaluation.Reason, 0, len(stats.Dropped))
	for reason := range stats.Dropped {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	for _, reason := range reasons {
		logger.Info("Dropped rows", "reason", reason.String(), "count", stats.Dropped[reason])
	}
}
