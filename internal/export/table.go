// Package export turns finished sections into output rows and writes them to
// CSV files, SQLite or PostgreSQL.
package export

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/evalnorm/internal/evaluation"
)

// ListSeparator joins departments and levels inside a single column.
const ListSeparator = "/"

// Header returns the output column names in order.
func Header() []string {
	cols := []string{"term", "depts", "level", "size", "ninstructors", "nsections"}
	for i := 1; i <= evaluation.InstructorScoreCount; i++ {
		cols = append(cols, fmt.Sprintf("X%d_avg", i))
	}
	for i := 1; i <= evaluation.CourseScoreCount; i++ {
		cols = append(cols, fmt.Sprintf("X%d", evaluation.InstructorScoreCount+i))
	}
	return append(cols,
		fmt.Sprintf("N%d", evaluation.RepresentativeResponseIndex+1),
		fmt.Sprintf("N%d", evaluation.InstructorScoreCount+evaluation.CourseScoreCount-1),
	)
}

// Row is one finished section in output form.
type Row struct {
	Term            string
	Departments     []string
	Levels          []int
	Size            int
	Instructors     int
	Sections        int
	InstructorMeans [evaluation.InstructorScoreCount]float64
	CourseScores    [evaluation.CourseScoreCount]float64
	InstructorN     float64 // response count of the representative instructor question
	CourseN         float64
}

// NewRow flattens an accumulator.
func NewRow(a *evaluation.Accumulator) Row {
	inst := a.InstructorScores()
	course := a.CourseScores()
	return Row{
		Term:            a.Term(),
		Departments:     a.Departments(),
		Levels:          a.Levels(),
		Size:            a.Size(),
		Instructors:     a.InstructorCount(),
		Sections:        a.SectionCount(),
		InstructorMeans: inst.Scores,
		CourseScores:    course.Scores,
		InstructorN:     a.RepresentativeResponses(),
		CourseN:         course.Responses,
	}
}

// Rows flattens sections, keeping their order.
func Rows(sections []*evaluation.Accumulator) []Row {
	rows := make([]Row, len(sections))
	for i, s := range sections {
		rows[i] = NewRow(s)
	}
	return rows
}

// DepartmentList renders the departments column.
func (r Row) DepartmentList() string {
	return strings.Join(r.Departments, ListSeparator)
}

// LevelList renders the level column.
func (r Row) LevelList() string {
	parts := make([]string, len(r.Levels))
	for i, l := range r.Levels {
		parts[i] = strconv.Itoa(l)
	}
	return strings.Join(parts, ListSeparator)
}

// Strings renders the row in Header order.
func (r Row) Strings() []string {
	out := make([]string, 0, len(Header()))
	out = append(out,
		r.Term,
		r.DepartmentList(),
		r.LevelList(),
		strconv.Itoa(r.Size),
		strconv.Itoa(r.Instructors),
		strconv.Itoa(r.Sections),
	)
	for _, v := range r.InstructorMeans {
		out = append(out, FormatFloat(v))
	}
	for _, v := range r.CourseScores {
		out = append(out, FormatFloat(v))
	}
	return append(out, FormatFloat(r.InstructorN), FormatFloat(r.CourseN))
}

// FormatFloat renders v in its shortest round-trip form, keeping a ".0" on
// integral values so score columns always read as decimals.
func FormatFloat(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if strings.Contains(s, "e") {
		s = strconv.FormatFloat(v, 'f', -1, 64)
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Batch is the output of cleaning one source file.
type Batch struct {
	RunID     uuid.UUID
	Source    string
	Era       evaluation.Era
	CreatedAt time.Time
	Rows      []Row
}

// Sink persists batches.
type Sink interface {
	Write(ctx context.Context, b Batch) error
}

// MultiSink writes every batch to each sink in order and stops at the
// first failure.
type MultiSink []Sink

// Write implements Sink.
func (m MultiSink) Write(ctx context.Context, b Batch) error {
	for _, s := range m {
		if err := s.Write(ctx, b); err != nil {
			return err
		}
	}
	return nil
}
