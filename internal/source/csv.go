package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// CSVReader reads delimited text. Blank lines are reported as empty rows.
type CSVReader struct {
	closer io.Closer
	reader *csv.Reader

	// line the next record is expected to start on
	nextLine int
	blanks   int
	held     []string
	err      error
}

// OpenCSV opens a delimited file.
func OpenCSV(path string, delimiter rune) (*CSVReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return NewCSVReader(f, delimiter), nil
}

// NewCSVReader wraps rc. The stream is BOM-stripped and UTF-8 sanitized.
func NewCSVReader(rc io.ReadCloser, delimiter rune) *CSVReader {
	r := csv.NewReader(Sanitize(rc))
	if delimiter != 0 {
		r.Comma = delimiter
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	return &CSVReader{closer: rc, reader: r, nextLine: 1}
}

// Next returns the next row.
func (c *CSVReader) Next() ([]string, error) {
	if c.blanks > 0 {
		c.blanks--
		return []string{}, nil
	}
	if c.held != nil {
		row := c.held
		c.held = nil
		return row, nil
	}
	if c.err != nil {
		return nil, c.err
	}

	record, err := c.reader.Read()
	if err != nil {
		if err != io.EOF {
			err = fmt.Errorf("read csv: %w", err)
		}
		c.err = err
		return nil, err
	}

	// encoding/csv skips empty lines; put them back so row numbers hold.
	start, _ := c.reader.FieldPos(0)
	last, _ := c.reader.FieldPos(len(record) - 1)
	gap := start - c.nextLine
	c.nextLine = last + strings.Count(record[len(record)-1], "\n") + 1

	if gap > 0 {
		c.blanks = gap - 1
		c.held = record
		return []string{}, nil
	}
	return record, nil
}

// Close closes the underlying file.
func (c *CSVReader) Close() error {
	return c.closer.Close()
}
