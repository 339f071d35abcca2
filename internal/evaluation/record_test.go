package evaluation

import "testing"

func TestRecordValidity(t *testing.T) {
	base := validRecord("CS", 101, "A", "Knuth")

	outOfRangeCourse := base
	outOfRangeCourse.Course = uniformCourse(5.5, 10)

	lowInstructor := base
	lowInstructor.InstructorScores = uniformInstructor(0.5, 10)

	oneZeroN := base
	scores := *uniformInstructor(4, 10)
	scores.Responses[3] = 0
	oneZeroN.InstructorScores = &scores

	zeroCourseN := base
	zeroCourseN.Course = uniformCourse(4, 0)

	negativeN := base
	negativeN.InstructorScores = uniformInstructor(4, -3)

	tests := []struct {
		name   string
		mutate func(Record) Record
		want   Reason
	}{
		{"valid", func(r Record) Record { return r }, ReasonNone},
		{"zero size", func(r Record) Record { r.Size = 0; return r }, ReasonZeroSize},
		{"course block missing", func(r Record) Record { r.Course = nil; return r }, ReasonCourseScoresMissing},
		{"instructor block missing", func(r Record) Record { r.InstructorScores = nil; return r }, ReasonInstructorScoresMissing},
		{"zero course responses", func(Record) Record { return zeroCourseN }, ReasonZeroResponses},
		{"one zero instructor response", func(Record) Record { return oneZeroN }, ReasonZeroResponses},
		{"course score above 5", func(Record) Record { return outOfRangeCourse }, ReasonScoreOutOfRange},
		{"instructor score below 1", func(Record) Record { return lowInstructor }, ReasonScoreOutOfRange},
		{"negative responses accepted", func(Record) Record { return negativeN }, ReasonNone},
		{"boundary scores accepted", func(r Record) Record {
			r.Course = uniformCourse(1, 5)
			r.InstructorScores = uniformInstructor(5, 5)
			return r
		}, ReasonNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.mutate(base).Validity()
			if got != tt.want {
				t.Errorf("Validity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReasonUnparsable(t *testing.T) {
	if !ReasonCourseScoresMissing.Unparsable() || !ReasonInstructorScoresMissing.Unparsable() {
		t.Error("missing score blocks should be unparsable")
	}
	for _, r := range []Reason{ReasonZeroSize, ReasonZeroResponses, ReasonScoreOutOfRange} {
		if r.Unparsable() {
			t.Errorf("%v should not be unparsable", r)
		}
	}
}

func TestInstructorString(t *testing.T) {
	if got := (Instructor{Primary: "Ada"}).String(); got != "Ada" {
		t.Errorf("got %q", got)
	}
	if got := (Instructor{Primary: "Ada", Secondary: "Grace"}).String(); got != "Ada / Grace" {
		t.Errorf("got %q", got)
	}
}

func TestRecordID(t *testing.T) {
	r := validRecord("MATH", 201, "B", "Noether")
	if got := r.ID(); got != "MATH 201 B" {
		t.Errorf("ID() = %q", got)
	}
}
