package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// DefaultDelimiter separates columns unless configured otherwise.
const DefaultDelimiter = ','

// CSVOptions configures delimited output.
type CSVOptions struct {
	Delimiter rune
	Append    bool // write no header and add to the end of an existing file
}

// ValidateDelimiter rejects runes that encoding/csv cannot use as a separator.
func ValidateDelimiter(d rune) error {
	if d == 0 || d == '"' || d == '\r' || d == '\n' || !utf8.ValidRune(d) || d == utf8.RuneError {
		return fmt.Errorf("invalid delimiter %q", d)
	}
	return nil
}

// EncodeCSV writes rows to w, preceded by the header unless appending.
func EncodeCSV(w io.Writer, rows []Row, opts CSVOptions) error {
	delim := opts.Delimiter
	if delim == 0 {
		delim = DefaultDelimiter
	}
	if err := ValidateDelimiter(delim); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	writer.Comma = delim

	if !opts.Append {
		if err := writer.Write(Header()); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		if err := writer.Write(row.Strings()); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVSink writes each batch to a file, truncating it on the first write
// unless Append is set. Later batches always append.
type CSVSink struct {
	Path    string
	Options CSVOptions

	written bool
}

// NewCSVSink returns a sink writing to path.
func NewCSVSink(path string, opts CSVOptions) *CSVSink {
	return &CSVSink{Path: path, Options: opts}
}

// Write implements Sink. The file is opened and closed on every call.
func (s *CSVSink) Write(ctx context.Context, b Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opts := s.Options
	if s.written {
		opts.Append = true
	}

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if opts.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(s.Path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.Path, err)
	}

	if err := EncodeCSV(file, b.Rows, opts); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", s.Path, err)
	}

	s.written = true

	verb := "Wrote"
	if opts.Append {
		verb = "Appended"
	}
	slog.Info(verb+" sections",
		slog.String("path", s.Path),
		slog.String("source", b.Source),
		slog.Int("rows", len(b.Rows)),
	)
	return nil
}
