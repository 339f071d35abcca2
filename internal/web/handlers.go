package web

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/JonMunkholm/evalnorm/internal/evaluation"
	"github.com/JonMunkholm/evalnorm/internal/export"
	"github.com/JonMunkholm/evalnorm/internal/logging"
	"github.com/JonMunkholm/evalnorm/internal/pipeline"
	"github.com/JonMunkholm/evalnorm/internal/source"
)

var errBadUpload = errors.New("bad upload")

// EraInfo describes one registered layout.
type EraInfo struct {
	Era      string `json:"era"`
	Label    string `json:"label"`
	StartRow int    `json:"start_row"`
	Rescale  bool   `json:"rescale"`
}

// CleanResponse is the JSON form of a cleaned upload.
type CleanResponse struct {
	RunID    string        `json:"run_id"`
	Source   string        `json:"source"`
	Era      string        `json:"era"`
	Stats    StatsResponse `json:"stats"`
	Columns  []string      `json:"columns"`
	Sections [][]string    `json:"sections"`
}

// StatsResponse summarizes what happened to the uploaded rows.
type StatsResponse struct {
	Records          int            `json:"records"`
	Sections         int            `json:"sections"`
	Merged           int            `json:"merged"`
	CrosslistRepeats int            `json:"crosslist_repeats"`
	Siblings         int            `json:"siblings"`
	Dropped          map[string]int `json:"dropped"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":        "ok",
		"uptime":        time.Since(started).Round(time.Second).String(),
		"active_cleans": s.slots.Active(),
	})
}

func (s *Server) handleListEras(w http.ResponseWriter, r *http.Request) {
	layouts := evaluation.Eras()
	out := make([]EraInfo, len(layouts))
	for i, l := range layouts {
		out[i] = EraInfo{Era: string(l.Era), Label: l.Label, StartRow: l.StartRow, Rescale: l.Rescale}
	}
	render.JSON(w, r, out)
}

// handleClean cleans the multipart field "file" with the era in the path.
// Query parameters: format=json|csv, sheet=<worksheet>.
func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	era, err := evaluation.ParseEra(chi.URLParam(r, "era"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.slots.Acquire(r.Context()); err != nil {
		if errors.Is(err, ErrBusy) {
			w.Header().Set("Retry-After", "10")
		}
		respondError(w, r, err)
		return
	}
	defer s.slots.Release()

	limit := s.cfg.Upload.MaxFileSize
	if r.ContentLength > limit {
		respondError(w, r, &http.MaxBytesError{Limit: limit})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) && !errors.Is(err, http.ErrMissingFile) {
			err = fmt.Errorf("%w: %v", errBadUpload, err)
		}
		respondError(w, r, err)
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	rows, err := source.FromReader(file, name, source.Options{Sheet: r.URL.Query().Get("sheet")})
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer rows.Close()

	cleaner := pipeline.NewCleaner(source.Options{})
	ctx := cleaner.Context(r.Context())

	result, err := cleaner.CleanRows(ctx, rows, name, era)
	if err != nil {
		respondError(w, r, err)
		return
	}

	batch := result.Batch()
	if s.sink != nil {
		if err := s.sink.Write(ctx, batch); err != nil {
			respondError(w, r, fmt.Errorf("store sections: %w", err))
			return
		}
	}

	logging.FromContext(ctx).Info("Cleaned upload", "source", name, "era", string(era), "sections", len(batch.Rows))
	w.Header().Set("X-Run-ID", result.RunID.String())

	if strings.EqualFold(r.URL.Query().Get("format"), "json") {
		render.JSON(w, r, newCleanResponse(result, batch))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", strings.TrimSuffix(name, filepath.Ext(name))+"_clean.csv"))
	if err := export.EncodeCSV(w, batch.Rows, export.CSVOptions{Delimiter: s.cfg.Clean.DelimiterRune()}); err != nil {
		logging.FromContext(ctx).Error("write csv response", "error", err)
	}
}

func newCleanResponse(result *pipeline.Result, batch export.Batch) CleanResponse {
	stats := result.Registry.Stats()
	dropped := make(map[string]int, len(stats.Dropped))
	for reason, n := range stats.Dropped {
		dropped[reason.String()] = n
	}

	sections := make([][]string, len(batch.Rows))
	for i, row := range batch.Rows {
		sections[i] = row.Strings()
	}

	return CleanResponse{
		RunID:  result.RunID.String(),
		Source: result.Source,
		Era:    string(result.Era),
		Stats: StatsResponse{
			Records:          stats.Records,
			Sections:         result.Registry.Len(),
			Merged:           stats.Merged,
			CrosslistRepeats: stats.CrosslistRepeats,
			Siblings:         stats.Siblings,
			Dropped:          dropped,
		},
		Columns:  export.Header(),
		Sections: sections,
	}
}
