package pipeline

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/evalnorm/internal/config"
	"github.com/JonMunkholm/evalnorm/internal/export"
	"github.com/JonMunkholm/evalnorm/internal/logging"
)

// Summary totals a batch run.
type Summary struct {
	Files    int
	Sections int
	Dropped  int
}

// RunBatch cleans every job in order and writes each file's sections to
// sink. The first failure stops the batch; files already written stay
// written.
func (c *Cleaner) RunBatch(ctx context.Context, jobs []config.Job, sink export.Sink) (Summary, error) {
	logger := logging.FromContext(c.Context(ctx))
	var sum Summary

	for _, job := range jobs {
		logger.Info("Cleaning file", "path", job.Path, "term", job.Term, "era", string(job.Era))

		result, err := c.CleanWrite(ctx, job.Path, job.Era, sink)
		if err != nil {
			return sum, fmt.Errorf("batch stopped at %s: %w", job.Term, err)
		}

		sum.Files++
		sum.Sections += result.Registry.Len()
		sum.Dropped += result.Registry.Stats().DroppedTotal()
	}

	logger.Info("Batch complete",
		"files", sum.Files,
		"sections", sum.Sections,
		"dropped", sum.Dropped,
	)
	return sum, nil
}
