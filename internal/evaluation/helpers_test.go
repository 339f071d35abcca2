package evaluation

// helpers_test.go provides record builders shared by the package tests.

func uniformCourse(score, n float64) *CourseScores {
	c := &CourseScores{Responses: n}
	for i := range c.Scores {
		c.Scores[i] = score
	}
	return c
}

func uniformInstructor(score, n float64) *InstructorScores {
	s := &InstructorScores{}
	for i := range s.Scores {
		s.Scores[i] = score
		s.Responses[i] = n
	}
	return s
}

// validRecord returns a valid record for dept/number/section taught by name.
func validRecord(dept string, number int, section, name string) Record {
	return Record{
		Term:             "fa10",
		Department:       dept,
		Number:           number,
		Section:          section,
		Instructor:       Instructor{Primary: name},
		Size:             30,
		Course:           uniformCourse(4, 20),
		InstructorScores: uniformInstructor(4, 20),
	}
}

func withScores(r Record, score, n float64) Record {
	r.InstructorScores = uniformInstructor(score, n)
	return r
}

func withCrosslist(r Record, tag string) Record {
	r.Crosslist = tag
	return r
}

// modernRow builds a 34-column modern-era row.
func modernRow(term, course, instructor, size, xlist, xlistSize string, iscore, cscore, n string) []string {
	row := make([]string, 34)
	row[0] = term
	row[1] = course
	row[3] = instructor
	row[4] = size
	row[5] = xlist
	row[6] = xlistSize
	for i := 7; i < 16; i++ {
		row[i] = iscore
	}
	for i := 16; i < 21; i++ {
		row[i] = cscore
	}
	for i := 21; i < 30; i++ {
		row[i] = n
	}
	row[33] = n
	return row
}
