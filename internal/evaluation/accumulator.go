package evaluation

import "sort"

// Outcome describes what an accumulator did with an offered record.
type Outcome int

const (
	// OutcomeSkipped: the record is invalid or teaches another course.
	OutcomeSkipped Outcome = iota
	// OutcomeCrosslistRepeat: same crosslist and instructor; only the
	// department/number identity grew.
	OutcomeCrosslistRepeat
	// OutcomeMerged: same section; instructor added and scores averaged in.
	OutcomeMerged
	// OutcomeSibling: same course, other section; only the section count grew.
	OutcomeSibling
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCrosslistRepeat:
		return "crosslist repeat"
	case OutcomeMerged:
		return "merged"
	case OutcomeSibling:
		return "sibling section"
	default:
		return "skipped"
	}
}

type courseKey struct {
	dept   string
	number int
}

// Accumulator is the running, merged state of one logical section.
type Accumulator struct {
	term      string
	section   string
	size      int
	crosslist string

	departments map[string]struct{}
	numbers     map[int]struct{}
	pairs       map[courseKey]struct{}
	sections    map[string]struct{}
	instructors map[Instructor]struct{}

	course     CourseScores     // first row's, never updated
	instructor InstructorScores // running weighted means
}

// NewAccumulator starts a section from its first valid record.
//
// seed lists the sections already known for this course; when empty the
// section set starts with r.Section alone.
func NewAccumulator(r Record, seed []string) *Accumulator {
	a := &Accumulator{
		term:        r.Term,
		section:     r.Section,
		size:        r.Size,
		crosslist:   r.Crosslist,
		departments: map[string]struct{}{r.Department: {}},
		numbers:     map[int]struct{}{r.Number: {}},
		pairs:       map[courseKey]struct{}{{r.Department, r.Number}: {}},
		instructors: map[Instructor]struct{}{r.Instructor: {}},
	}

	a.sections = make(map[string]struct{}, len(seed)+1)
	if len(seed) == 0 {
		a.sections[r.Section] = struct{}{}
	}
	for _, s := range seed {
		a.sections[s] = struct{}{}
	}

	if r.Course != nil {
		a.course = *r.Course
	}
	if r.InstructorScores != nil {
		a.instructor = *r.InstructorScores
	}

	return a
}

// Contains reports whether r describes this exact section under one of its
// known department/number identities.
func (a *Accumulator) Contains(r Record) bool {
	_, ok := a.pairs[courseKey{r.Department, r.Number}]
	return ok && r.Section == a.section
}

// MatchesCourse reports whether r teaches the same course, either under a
// known department and number or through a shared crosslist tag.
func (a *Accumulator) MatchesCourse(r Record) bool {
	if a.HasDepartment(r.Department) && a.HasNumber(r.Number) {
		return true
	}
	return a.sharesCrosslist(r)
}

func (a *Accumulator) sharesCrosslist(r Record) bool {
	return r.Crosslist != "" && r.Crosslist == a.crosslist
}

// isRepeat reports whether r is the same crosslisted offering seen again
// under another identity.
func (a *Accumulator) isRepeat(r Record) bool {
	if !a.sharesCrosslist(r) {
		return false
	}
	_, ok := a.instructors[r.Instructor]
	return ok
}

// Ingest offers r to the accumulator and reports what it did.
func (a *Accumulator) Ingest(r Record) Outcome {
	if !r.Valid() || !a.MatchesCourse(r) {
		return OutcomeSkipped
	}

	if a.isRepeat(r) {
		a.widen(r)
		return OutcomeCrosslistRepeat
	}

	if r.Section != a.section {
		a.sections[r.Section] = struct{}{}
		return OutcomeSibling
	}

	a.widen(r)
	a.instructors[r.Instructor] = struct{}{}
	a.instructor = a.instructor.Merge(*r.InstructorScores)
	return OutcomeMerged
}

func (a *Accumulator) widen(r Record) {
	a.pairs[courseKey{r.Department, r.Number}] = struct{}{}
	a.departments[r.Department] = struct{}{}
	a.numbers[r.Number] = struct{}{}
}

// HasDepartment reports whether dept is one of the section's departments.
func (a *Accumulator) HasDepartment(dept string) bool {
	_, ok := a.departments[dept]
	return ok
}

// HasNumber reports whether n is one of the section's course numbers.
func (a *Accumulator) HasNumber(n int) bool {
	_, ok := a.numbers[n]
	return ok
}

func (a *Accumulator) Term() string      { return a.term }
func (a *Accumulator) Section() string   { return a.section }
func (a *Accumulator) Size() int         { return a.size }
func (a *Accumulator) Crosslist() string { return a.crosslist }

// SectionCount is the number of sections of this course seen so far.
func (a *Accumulator) SectionCount() int {
	return len(a.sections)
}

// InstructorCount is the number of distinct instructors merged in.
func (a *Accumulator) InstructorCount() int {
	return len(a.instructors)
}

// Levels returns the distinct course levels (number rounded down to the
// hundred), ascending.
func (a *Accumulator) Levels() []int {
	numbers := make([]int, 0, len(a.numbers))
	for n := range a.numbers {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	var levels []int
	for _, n := range numbers {
		l := roundDown(n, 100)
		if len(levels) == 0 || levels[len(levels)-1] != l {
			levels = append(levels, l)
		}
	}
	return levels
}

// roundDown rounds n down to the nearest multiple of d.
func roundDown(n, d int) int {
	return n - ((n%d)+d)%d
}

// Departments returns the section's departments, sorted.
func (a *Accumulator) Departments() []string {
	return sortedKeys(a.departments)
}

// Numbers returns the section's course numbers, ascending.
func (a *Accumulator) Numbers() []int {
	out := make([]int, 0, len(a.numbers))
	for n := range a.numbers {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// SectionIDs returns every section of the course seen so far, sorted.
func (a *Accumulator) SectionIDs() []string {
	return sortedKeys(a.sections)
}

// Instructors returns the merged instructors sorted by name.
func (a *Accumulator) Instructors() []Instructor {
	out := make([]Instructor, 0, len(a.instructors))
	for i := range a.instructors {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Primary != out[j].Primary {
			return out[i].Primary < out[j].Primary
		}
		return out[i].Secondary < out[j].Secondary
	})
	return out
}

// CourseScores returns the course block of the first record.
func (a *Accumulator) CourseScores() CourseScores {
	return a.course
}

// InstructorScores returns the running instructor means and counts.
func (a *Accumulator) InstructorScores() InstructorScores {
	return a.instructor
}

// RepresentativeResponses is the response count reported for the section.
func (a *Accumulator) RepresentativeResponses() float64 {
	return a.instructor.Responses[RepresentativeResponseIndex]
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
