package evaluation

// interpret.go turns one raw row into a Record according to a Layout.
//
// Spreadsheet cells arrive as text. Sources that read typed cells render
// numbers as text first, so integer fields accept "25" as well as "25.0".
// Cells past the end of a short row read as empty: spreadsheet readers drop
// trailing blanks.

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errEmptyCell = errors.New("empty cell")

// Interpret builds a Record from row. index is the row's position in the
// sheet and is only used for error reporting.
//
// Unreadable term, course identity or size yields a *RowParseError.
// Unreadable score blocks leave Course or InstructorScores nil.
func (l Layout) Interpret(row []string, index int) (Record, error) {
	fail := func(field string, err error) (Record, error) {
		return Record{}, &RowParseError{
			Row:   index,
			Raw:   append([]string(nil), row...),
			Field: field,
			Err:   err,
		}
	}

	term := cell(row, l.TermCol)
	if term == "" {
		return fail("term", errEmptyCell)
	}

	dept, number, section, err := l.parseCourse(cell(row, l.CourseCol))
	if err != nil {
		return fail("course", err)
	}

	size, err := l.parseSize(row)
	if err != nil {
		return fail("size", err)
	}

	rec := Record{
		Term:       term,
		Department: dept,
		Number:     number,
		Section:    section,
		Instructor: l.parseInstructor(row),
		Size:       size,
		Crosslist:  cell(row, l.CrosslistCol),
	}

	if course, err := l.parseCourseScores(row); err == nil {
		rec.Course = &course
	}
	if scores, err := l.parseInstructorScores(row); err == nil {
		rec.InstructorScores = &scores
	}

	return rec, nil
}

// parseCourse splits "CS 101 A" (or "CS.101.A" in dot-separated eras) into
// department, course number and section.
func (l Layout) parseCourse(raw string) (string, int, string, error) {
	if l.DotSeparated {
		raw = strings.ReplaceAll(raw, ".", " ")
	}

	parts := strings.Fields(raw)
	if len(parts) < 3 {
		return "", 0, "", fmt.Errorf("course identity %q: want department, number and section", raw)
	}

	number, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, "", fmt.Errorf("course number %q: %w", parts[1], err)
	}

	return parts[0], number, parts[2], nil
}

func (l Layout) parseInstructor(row []string) Instructor {
	inst := Instructor{Primary: cell(row, l.InstructorCols[0])}
	if len(l.InstructorCols) > 1 {
		inst.Secondary = cell(row, l.InstructorCols[1])
	}
	return inst
}

func (l Layout) parseSize(row []string) (int, error) {
	if l.CrosslistSizeCol != NoColumn {
		if raw := cell(row, l.CrosslistSizeCol); raw != "" {
			return parseInt(raw)
		}
	}
	return parseInt(cell(row, l.SizeCol))
}

func (l Layout) parseCourseScores(row []string) (CourseScores, error) {
	var out CourseScores
	for i := range out.Scores {
		v, err := parseFloat(cell(row, l.CourseScores.Start+i))
		if err != nil {
			return CourseScores{}, err
		}
		if l.Rescale && i < l.RescaledCourseScores {
			v = Rescale(v)
		}
		out.Scores[i] = v
	}

	n, err := parseFloat(cell(row, l.CourseResponsesCol))
	if err != nil {
		return CourseScores{}, err
	}
	out.Responses = n

	return out, nil
}

func (l Layout) parseInstructorScores(row []string) (InstructorScores, error) {
	var out InstructorScores
	for i := range out.Scores {
		v, err := parseFloat(cell(row, l.InstructorScores.Start+i))
		if err != nil {
			return InstructorScores{}, err
		}
		if l.Rescale {
			v = Rescale(v)
		}
		out.Scores[i] = v

		n, err := parseFloat(cell(row, l.InstructorResponses.Start+i))
		if err != nil {
			return InstructorScores{}, err
		}
		out.Responses[i] = n
	}
	return out, nil
}

// cell returns the cleaned value at col, or "" when the row is too short.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return CleanCell(row[col])
}

// CleanCell removes spreadsheet export artifacts from a cell value:
// surrounding whitespace, the Excel text-formula wrapper (="...") and
// surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}

	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		s = s[1 : len(s)-1]
	}

	return strings.TrimSpace(s)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, errEmptyCell
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}

// parseInt accepts integers and integral-looking floats; fractions are
// truncated toward zero.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, errEmptyCell
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}
	f, err := parseFloat(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int(f), nil
}
