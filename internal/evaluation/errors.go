package evaluation

import (
	"errors"
	"fmt"
)

// ErrUnknownEra is returned when an era name matches no registered layout.
var ErrUnknownEra = errors.New("unknown era")

// RowParseError reports a row whose identity fields could not be read.
// Processing of the file must stop; Row and Raw identify the offending row.
type RowParseError struct {
	Row   int      // Zero-based row index in the sheet
	Raw   []string // Cell values as read
	Field string   // term, course, or size
	Err   error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("bad row %d: %s: %v: %q", e.Row, e.Field, e.Err, e.Raw)
}

func (e *RowParseError) Unwrap() error {
	return e.Err
}

// IsRowParseError reports whether err wraps a *RowParseError.
func IsRowParseError(err error) bool {
	var rpe *RowParseError
	return errors.As(err, &rpe)
}
