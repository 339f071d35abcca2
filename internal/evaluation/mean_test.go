package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedMean(t *testing.T) {
	tests := []struct {
		name   string
		s1, n1 float64
		s2, n2 float64
	}{
		{"equal weights", 4, 10, 2, 10},
		{"skewed weights", 4.5, 3, 1.5, 27},
		{"fractional counts", 3.25, 0.5, 4.75, 1.5},
		{"large counts", 2.2, 1e6, 3.3, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, n := WeightedMean(tt.s1, tt.n1, tt.s2, tt.n2)
			assert.Equal(t, (tt.s1*tt.n1+tt.s2*tt.n2)/(tt.n1+tt.n2), score)
			assert.Equal(t, tt.n1+tt.n2, n)
		})
	}
}

func TestWeightedMean_ZeroTotal(t *testing.T) {
	score, n := WeightedMean(3, 2, 4, -2)
	assert.Equal(t, 3.0, score)
	assert.Equal(t, 0.0, n)
}

func TestRescale(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{1, 1},
		{7, 5},
		{4, 3},
		{2.5, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rescale(tt.raw), "Rescale(%v)", tt.raw)
	}

	// Same value as the (raw-1)*(4/6)+1 form.
	assert.InDelta(t, (5.5-1)*(4.0/6.0)+1, Rescale(5.5), 1e-12)
}

func TestInstructorScoresMerge(t *testing.T) {
	a := *uniformInstructor(4, 10)
	b := *uniformInstructor(2, 30)
	b.Scores[0] = 5
	b.Responses[0] = 10

	got := a.Merge(b)

	assert.Equal(t, (4.0*10+5*10)/20, got.Scores[0])
	assert.Equal(t, 20.0, got.Responses[0])
	for i := 1; i < InstructorScoreCount; i++ {
		assert.Equal(t, (4.0*10+2*30)/40, got.Scores[i])
		assert.Equal(t, 40.0, got.Responses[i])
	}

	// Merge returns a new value.
	assert.Equal(t, 4.0, a.Scores[0])
	assert.Equal(t, 10.0, a.Responses[0])
}
