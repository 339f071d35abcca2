package evaluation

import (
	"strconv"
	"strings"
)

const (
	// CourseScoreCount is the number of course questions in every era.
	CourseScoreCount = 5

	// InstructorScoreCount is the number of instructor questions in every era.
	InstructorScoreCount = 9

	// RepresentativeResponseIndex selects the instructor question whose
	// response count is exported as the section's N.
	RepresentativeResponseIndex = 7

	MinScore = 1.0
	MaxScore = 5.0
)

// Instructor identifies who taught a section. Eras that list co-instructors
// fill Secondary; everywhere else it is empty.
type Instructor struct {
	Primary   string
	Secondary string
}

func (i Instructor) String() string {
	if i.Secondary == "" {
		return i.Primary
	}
	return i.Primary + " / " + i.Secondary
}

// CourseScores holds the course questions of one row and their response count.
type CourseScores struct {
	Scores    [CourseScoreCount]float64
	Responses float64
}

// InstructorScores holds the instructor questions of one row, each with its
// own response count.
type InstructorScores struct {
	Scores    [InstructorScoreCount]float64
	Responses [InstructorScoreCount]float64
}

// Merge returns the response-weighted combination of s and o.
func (s InstructorScores) Merge(o InstructorScores) InstructorScores {
	out := s
	for i := range out.Scores {
		out.Scores[i], out.Responses[i] = WeightedMean(s.Scores[i], s.Responses[i], o.Scores[i], o.Responses[i])
	}
	return out
}

// Record is one spreadsheet row after interpretation.
//
// Records are values and are never modified once built. Course and
// InstructorScores are nil when the score block could not be read.
type Record struct {
	Term       string
	Department string
	Number     int
	Section    string
	Instructor Instructor
	Size       int
	Crosslist  string
	Course     *CourseScores

	InstructorScores *InstructorScores
}

// Crosslisted reports whether the row carries a crosslist tag.
func (r Record) Crosslisted() bool {
	return r.Crosslist != ""
}

// ID renders the course identity the way the registrar prints it.
func (r Record) ID() string {
	var b strings.Builder
	b.WriteString(r.Department)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(r.Number))
	b.WriteByte(' ')
	b.WriteString(r.Section)
	return b.String()
}

// Reason explains why a record is excluded from accumulation.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonZeroSize
	ReasonCourseScoresMissing
	ReasonInstructorScoresMissing
	ReasonZeroResponses
	ReasonScoreOutOfRange
)

var reasonNames = map[Reason]string{
	ReasonNone:                    "valid",
	ReasonZeroSize:                "zero size",
	ReasonCourseScoresMissing:     "course scores unreadable",
	ReasonInstructorScoresMissing: "instructor scores unreadable",
	ReasonZeroResponses:           "zero responses",
	ReasonScoreOutOfRange:         "score out of range",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// Unparsable reports whether the reason comes from a score block that could
// not be read at all, as opposed to one that was read but rejected.
func (r Reason) Unparsable() bool {
	return r == ReasonCourseScoresMissing || r == ReasonInstructorScoresMissing
}

// Validity returns ReasonNone for a record that may be accumulated, or the
// first rule it breaks. Negative response counts are accepted.
func (r Record) Validity() Reason {
	switch {
	case r.Size == 0:
		return ReasonZeroSize
	case r.Course == nil:
		return ReasonCourseScoresMissing
	case r.InstructorScores == nil:
		return ReasonInstructorScoresMissing
	}

	if r.Course.Responses == 0 {
		return ReasonZeroResponses
	}
	for _, n := range r.InstructorScores.Responses {
		if n == 0 {
			return ReasonZeroResponses
		}
	}

	for _, s := range r.Course.Scores {
		if s < MinScore || s > MaxScore {
			return ReasonScoreOutOfRange
		}
	}
	for _, s := range r.InstructorScores.Scores {
		if s < MinScore || s > MaxScore {
			return ReasonScoreOutOfRange
		}
	}

	return ReasonNone
}

// Valid is shorthand for Validity() == ReasonNone.
func (r Record) Valid() bool {
	return r.Validity() == ReasonNone
}
