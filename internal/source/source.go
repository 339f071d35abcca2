// Package source reads raw evaluation rows from spreadsheet exports.
//
// Rows come back in sheet order with every cell rendered as text. Blank rows
// are kept as empty slices so row positions match the sheet, which is what
// era start rows are counted against.
package source

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for extensions no reader handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrLegacyWorkbook is returned for BIFF .xls files.
	ErrLegacyWorkbook = errors.New("legacy .xls workbooks are not supported; re-save as .xlsx or .csv")
)

// Format identifies a row source implementation.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// RowReader yields rows until it returns io.EOF.
type RowReader interface {
	Next() ([]string, error)
	Close() error
}

// Options tunes how a file is read.
type Options struct {
	// Sheet selects a worksheet by name. Empty means the first sheet.
	Sheet string

	// Delimiter for CSV input. Zero means ',' (or tab for .tsv).
	Delimiter rune
}

// DetectFormat picks a format from a file name.
func DetectFormat(name string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".tsv", ".txt":
		return FormatCSV, nil
	case ".xls":
		return "", ErrLegacyWorkbook
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Open opens the file at path with the reader matching its extension.
func Open(path string, opts Options) (RowReader, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	opts = withDefaults(path, opts)

	switch format {
	case FormatXLSX:
		return OpenXLSX(path, opts.Sheet)
	default:
		return OpenCSV(path, opts.Delimiter)
	}
}

// FromReader reads an uploaded file; name only decides the format.
func FromReader(r io.Reader, name string, opts Options) (RowReader, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}
	opts = withDefaults(name, opts)

	switch format {
	case FormatXLSX:
		return NewXLSXReader(r, opts.Sheet)
	default:
		return NewCSVReader(io.NopCloser(r), opts.Delimiter), nil
	}
}

func withDefaults(name string, opts Options) Options {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
		if strings.EqualFold(filepath.Ext(name), ".tsv") {
			opts.Delimiter = '\t'
		}
	}
	return opts
}

// ReadAll drains r. It does not close r.
func ReadAll(r RowReader) ([][]string, error) {
	var rows [][]string
	for {
		row, err := r.Next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}
