package evaluation

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Era names a spreadsheet layout used by the registrar during some span of
// academic years.
type Era string

const (
	EraModern   Era = "modern" // fa07 onward
	Era06       Era = "y06"    // fa06, sp06
	EraFall05   Era = "fa05"
	EraSpring05 Era = "sp05"
)

// NoColumn marks an optional column the era does not have.
const NoColumn = -1

// ColumnRange is a half-open span of column indices [Start, End).
type ColumnRange struct {
	Start int
	End   int
}

// Len returns the number of columns in the range.
func (r ColumnRange) Len() int {
	return r.End - r.Start
}

// Layout describes where every field sits in one era's spreadsheet.
type Layout struct {
	Era   Era
	Label string // Terms covered, for display

	StartRow int // First data row; everything above is title and header

	TermCol   int
	CourseCol int

	// DotSeparated eras write course identities as "CS.101.A".
	DotSeparated bool

	// InstructorCols holds one column, or two for eras listing co-instructors.
	InstructorCols []int

	// CrosslistSizeCol is preferred over SizeCol when non-empty. NoColumn if
	// the era does not report a combined crosslist enrollment.
	CrosslistSizeCol int
	SizeCol          int
	CrosslistCol     int

	CourseScores        ColumnRange
	CourseResponsesCol  int
	InstructorScores    ColumnRange
	InstructorResponses ColumnRange

	// Rescale converts 1-7 answers to the 1-5 scale. Only the first
	// RescaledCourseScores course questions were asked on the 1-7 scale;
	// every instructor question was.
	Rescale              bool
	RescaledCourseScores int
}

func (l Layout) validate() error {
	switch {
	case l.Era == "":
		return fmt.Errorf("era name is empty")
	case len(l.InstructorCols) == 0 || len(l.InstructorCols) > 2:
		return fmt.Errorf("era %s: need one or two instructor columns, got %d", l.Era, len(l.InstructorCols))
	case l.CourseScores.Len() != CourseScoreCount:
		return fmt.Errorf("era %s: course score range has %d columns, want %d", l.Era, l.CourseScores.Len(), CourseScoreCount)
	case l.InstructorScores.Len() != InstructorScoreCount:
		return fmt.Errorf("era %s: instructor score range has %d columns, want %d", l.Era, l.InstructorScores.Len(), InstructorScoreCount)
	case l.InstructorResponses.Len() != InstructorScoreCount:
		return fmt.Errorf("era %s: instructor response range has %d columns, want %d", l.Era, l.InstructorResponses.Len(), InstructorScoreCount)
	case l.RescaledCourseScores < 0 || l.RescaledCourseScores > CourseScoreCount:
		return fmt.Errorf("era %s: rescaled course scores must be 0-%d", l.Era, CourseScoreCount)
	case l.StartRow < 0:
		return fmt.Errorf("era %s: start row must be non-negative", l.Era)
	}
	return nil
}

var (
	eras   = make(map[Era]Layout)
	erasMu sync.RWMutex
)

func init() {
	registerBuiltinEras()
}

func registerBuiltinEras() {
	RegisterEra(Layout{
		Era:                 EraModern,
		Label:               "fa07 and later",
		StartRow:            27,
		TermCol:             0,
		CourseCol:           1,
		InstructorCols:      []int{3},
		CrosslistSizeCol:    6,
		SizeCol:             4,
		CrosslistCol:        5,
		InstructorScores:    ColumnRange{7, 16},
		CourseScores:        ColumnRange{16, 21},
		InstructorResponses: ColumnRange{21, 30},
		CourseResponsesCol:  33,
	})

	RegisterEra(Layout{
		Era:                 Era06,
		Label:               "fa06, sp06",
		StartRow:            27,
		TermCol:             0,
		CourseCol:           1,
		InstructorCols:      []int{2, 3},
		CrosslistSizeCol:    NoColumn,
		SizeCol:             4,
		CrosslistCol:        5,
		InstructorScores:    ColumnRange{6, 15},
		CourseScores:        ColumnRange{15, 20},
		InstructorResponses: ColumnRange{20, 29},
		CourseResponsesCol:  32,
	})

	RegisterEra(Layout{
		Era:                  EraFall05,
		Label:                "fa05",
		StartRow:             28,
		TermCol:              0,
		CourseCol:            1,
		DotSeparated:         true,
		InstructorCols:       []int{2, 3},
		CrosslistSizeCol:     NoColumn,
		SizeCol:              4,
		CrosslistCol:         5,
		InstructorScores:     ColumnRange{6, 15},
		CourseScores:         ColumnRange{15, 20},
		InstructorResponses:  ColumnRange{20, 29},
		CourseResponsesCol:   32,
		Rescale:              true,
		RescaledCourseScores: 4,
	})

	RegisterEra(Layout{
		Era:                  EraSpring05,
		Label:                "sp05",
		StartRow:             28,
		TermCol:              0,
		CourseCol:            1,
		InstructorCols:       []int{2},
		CrosslistSizeCol:     NoColumn,
		SizeCol:              3,
		CrosslistCol:         4,
		InstructorScores:     ColumnRange{5, 14},
		CourseScores:         ColumnRange{14, 19},
		InstructorResponses:  ColumnRange{19, 28},
		CourseResponsesCol:   31,
		Rescale:              true,
		RescaledCourseScores: 4,
	})
}

// RegisterEra adds a layout to the era table.
// Panics if the era is already registered or the layout is malformed.
func RegisterEra(l Layout) {
	if err := l.validate(); err != nil {
		panic(err.Error())
	}

	erasMu.Lock()
	defer erasMu.Unlock()

	if _, exists := eras[l.Era]; exists {
		panic(fmt.Sprintf("era already registered: %s", l.Era))
	}

	l.InstructorCols = append([]int(nil), l.InstructorCols...)
	eras[l.Era] = l
}

// LookupEra returns the layout for an era.
// Returns false if not found.
func LookupEra(era Era) (Layout, bool) {
	erasMu.RLock()
	defer erasMu.RUnlock()

	l, ok := eras[era]
	return l, ok
}

// Eras returns all registered layouts sorted by era name.
func Eras() []Layout {
	erasMu.RLock()
	defer erasMu.RUnlock()

	result := make([]Layout, 0, len(eras))
	for _, l := range eras {
		result = append(result, l)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Era < result[j].Era
	})

	return result
}

// eraAliases maps the names used in file names and on the command line to
// registered eras.
var eraAliases = map[string]Era{
	"06":   Era06,
	"fa06": Era06,
	"sp06": Era06,
}

// ParseEra resolves a name to a registered era.
// Accepts registered era names and the aliases 06, fa06 and sp06.
func ParseEra(name string) (Era, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := eraAliases[key]; ok {
		return alias, nil
	}
	if _, ok := LookupEra(Era(key)); ok {
		return Era(key), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEra, name)
}

// ResolveEra is the lenient form of ParseEra: unknown names fall back to
// the modern layout.
func ResolveEra(name string) Era {
	era, err := ParseEra(name)
	if err != nil {
		return EraModern
	}
	return era
}
