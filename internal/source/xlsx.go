package source

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXReader streams rows from one worksheet.
type XLSXReader struct {
	file  *excelize.File
	rows  *excelize.Rows
	sheet string
}

// OpenXLSX opens a workbook and selects sheet, or the first sheet when
// sheet is empty.
func OpenXLSX(path, sheet string) (*XLSXReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return newXLSXReader(f, sheet)
}

// NewXLSXReader reads a workbook from r.
func NewXLSXReader(r io.Reader, sheet string) (*XLSXReader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return newXLSXReader(f, sheet)
}

func newXLSXReader(f *excelize.File, sheet string) (*XLSXReader, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		f.Close()
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return &XLSXReader{file: f, rows: rows, sheet: sheet}, nil
}

// Sheet returns the worksheet being read.
func (x *XLSXReader) Sheet() string {
	return x.sheet
}

// Next returns the next row. Numeric cells are returned as their stored
// value, not their display format.
func (x *XLSXReader) Next() ([]string, error) {
	if !x.rows.Next() {
		if err := x.rows.Error(); err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", x.sheet, err)
		}
		return nil, io.EOF
	}
	cols, err := x.rows.Columns(excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", x.sheet, err)
	}
	if cols == nil {
		cols = []string{}
	}
	return cols, nil
}

// Close releases the row iterator and the workbook.
func (x *XLSXReader) Close() error {
	rerr := x.rows.Close()
	if err := x.file.Close(); err != nil {
		return err
	}
	return rerr
}
