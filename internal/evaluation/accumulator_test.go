package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccumulator(t *testing.T) {
	r := withCrosslist(validRecord("CS", 101, "A", "Knuth"), "X1")
	a := NewAccumulator(r, nil)

	assert.Equal(t, "fa10", a.Term())
	assert.Equal(t, "A", a.Section())
	assert.Equal(t, 30, a.Size())
	assert.Equal(t, "X1", a.Crosslist())
	assert.Equal(t, []string{"CS"}, a.Departments())
	assert.Equal(t, []int{101}, a.Numbers())
	assert.Equal(t, []string{"A"}, a.SectionIDs())
	assert.Equal(t, 1, a.InstructorCount())
	assert.Equal(t, 1, a.SectionCount())
	assert.Equal(t, *r.Course, a.CourseScores())
	assert.Equal(t, *r.InstructorScores, a.InstructorScores())
}

func TestNewAccumulator_Seeded(t *testing.T) {
	a := NewAccumulator(validRecord("CS", 101, "B", "Knuth"), []string{"A", "B"})
	assert.Equal(t, []string{"A", "B"}, a.SectionIDs())
	assert.Equal(t, 2, a.SectionCount())
}

func TestNewAccumulator_CopiesScores(t *testing.T) {
	r := validRecord("CS", 101, "A", "Knuth")
	a := NewAccumulator(r, nil)

	a.Ingest(withScores(validRecord("CS", 101, "A", "Ritchie"), 2, 20))

	assert.Equal(t, 4.0, r.InstructorScores.Scores[0], "record must not change")
	assert.Equal(t, 3.0, a.InstructorScores().Scores[0])
}

func TestAccumulatorContains(t *testing.T) {
	a := NewAccumulator(validRecord("CS", 101, "A", "Knuth"), nil)

	tests := []struct {
		name string
		r    Record
		want bool
	}{
		{"same identity", validRecord("CS", 101, "A", "Other"), true},
		{"other section", validRecord("CS", 101, "B", "Knuth"), false},
		{"other number", validRecord("CS", 102, "A", "Knuth"), false},
		{"other department", validRecord("EE", 101, "A", "Knuth"), false},
		{"invalid record still contained", func() Record {
			r := validRecord("CS", 101, "A", "Knuth")
			r.Size = 0
			return r
		}(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Contains(tt.r))
		})
	}
}

func TestAccumulatorMatchesCourse(t *testing.T) {
	a := NewAccumulator(withCrosslist(validRecord("CS", 101, "A", "Knuth"), "X1"), nil)

	tests := []struct {
		name string
		r    Record
		want bool
	}{
		{"same department and number", validRecord("CS", 101, "B", "Other"), true},
		{"same department other number", validRecord("CS", 102, "A", "Knuth"), false},
		{"other department same number", validRecord("EE", 101, "A", "Knuth"), false},
		{"crosslist other department", withCrosslist(validRecord("MATH", 201, "A", "Knuth"), "X1"), true},
		{"crosslist same department other number", withCrosslist(validRecord("CS", 301, "A", "Knuth"), "X1"), true},
		{"different crosslist", withCrosslist(validRecord("MATH", 201, "A", "Knuth"), "X2"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.MatchesCourse(tt.r))
		})
	}
}

func TestAccumulatorMatchesCourse_EmptyTagNeverMatches(t *testing.T) {
	a := NewAccumulator(validRecord("CS", 101, "A", "Knuth"), nil)
	assert.False(t, a.MatchesCourse(validRecord("MATH", 201, "A", "Knuth")))
}

func TestAccumulatorIngest_SameSectionMerges(t *testing.T) {
	a := NewAccumulator(withScores(validRecord("CS", 101, "A", "Knuth"), 4, 10), nil)

	second := withScores(validRecord("CS", 101, "A", "Ritchie"), 2, 30)
	second.Course = uniformCourse(1, 99)

	require.Equal(t, OutcomeMerged, a.Ingest(second))

	assert.Equal(t, 2, a.InstructorCount())
	assert.Equal(t, 1, a.SectionCount())
	assert.Equal(t, 4.0, a.CourseScores().Scores[0], "course block stays from first row")
	assert.Equal(t, 20.0, a.CourseScores().Responses)

	got := a.InstructorScores()
	for i := 0; i < InstructorScoreCount; i++ {
		assert.Equal(t, (4.0*10+2*30)/40, got.Scores[i])
		assert.Equal(t, 40.0, got.Responses[i])
	}
	assert.Equal(t, 40.0, a.RepresentativeResponses())
}

func TestAccumulatorIngest_CrosslistRepeat(t *testing.T) {
	first := withCrosslist(validRecord("CS", 101, "A", "Knuth"), "X1")
	a := NewAccumulator(first, nil)

	repeat := withScores(withCrosslist(validRecord("MATH", 201, "A", "Knuth"), "X1"), 1, 50)
	require.Equal(t, OutcomeCrosslistRepeat, a.Ingest(repeat))

	assert.Equal(t, []string{"CS", "MATH"}, a.Departments())
	assert.Equal(t, []int{101, 201}, a.Numbers())
	assert.True(t, a.Contains(validRecord("MATH", 201, "A", "Anyone")))

	assert.Equal(t, *first.InstructorScores, a.InstructorScores(), "scores unchanged")
	assert.Equal(t, *first.Course, a.CourseScores())
	assert.Equal(t, 1, a.InstructorCount())
}

func TestAccumulatorIngest_CrosslistNewInstructorMerges(t *testing.T) {
	a := NewAccumulator(withCrosslist(validRecord("CS", 101, "A", "Knuth"), "X1"), nil)

	other := withScores(withCrosslist(validRecord("MATH", 201, "A", "Noether"), "X1"), 2, 20)
	require.Equal(t, OutcomeMerged, a.Ingest(other))

	assert.Equal(t, []string{"CS", "MATH"}, a.Departments())
	assert.Equal(t, []int{101, 201}, a.Numbers())
	assert.Equal(t, 2, a.InstructorCount())
	assert.Equal(t, 3.0, a.InstructorScores().Scores[0])
}

func TestAccumulatorIngest_SiblingSection(t *testing.T) {
	a := NewAccumulator(validRecord("CS", 101, "A", "Knuth"), nil)
	before := a.InstructorScores()

	require.Equal(t, OutcomeSibling, a.Ingest(withScores(validRecord("CS", 101, "B", "Ritchie"), 1, 5)))

	assert.Equal(t, []string{"A", "B"}, a.SectionIDs())
	assert.Equal(t, 1, a.InstructorCount())
	assert.Equal(t, before, a.InstructorScores())
}

func TestAccumulatorIngest_SkipsInvalidAndUnrelated(t *testing.T) {
	a := NewAccumulator(validRecord("CS", 101, "A", "Knuth"), nil)
	before := a.InstructorScores()

	invalid := withScores(validRecord("CS", 101, "A", "Ritchie"), 6, 10)
	assert.Equal(t, OutcomeSkipped, a.Ingest(invalid))
	assert.Equal(t, OutcomeSkipped, a.Ingest(invalid))
	assert.Equal(t, OutcomeSkipped, a.Ingest(validRecord("EE", 101, "A", "Ritchie")))

	assert.Equal(t, before, a.InstructorScores())
	assert.Equal(t, 1, a.InstructorCount())
	assert.Equal(t, 1, a.SectionCount())
}

func TestAccumulatorLevels(t *testing.T) {
	a := NewAccumulator(withCrosslist(validRecord("CS", 305, "A", "Knuth"), "X"), nil)
	for _, n := range []int{150, 101, 250} {
		a.Ingest(withCrosslist(validRecord("CS", n, "A", "Knuth"), "X"))
	}

	assert.Equal(t, []int{101, 150, 250, 305}, a.Numbers())
	assert.Equal(t, []int{100, 200, 300}, a.Levels())
}

func TestRoundDown(t *testing.T) {
	tests := []struct{ n, want int }{
		{101, 100},
		{100, 100},
		{99, 0},
		{0, 0},
		{-5, -100},
	}
	for _, tt := range tests {
		if got := roundDown(tt.n, 100); got != tt.want {
			t.Errorf("roundDown(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestAccumulatorInstructorsSorted(t *testing.T) {
	a := NewAccumulator(validRecord("CS", 101, "A", "Ritchie"), nil)
	a.Ingest(validRecord("CS", 101, "A", "Knuth"))

	assert.Equal(t, []Instructor{{Primary: "Knuth"}, {Primary: "Ritchie"}}, a.Instructors())
}
