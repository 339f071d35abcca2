package evaluation

// WeightedMean folds an observation (addScore over addN responses) into a
// running mean (score over n responses) and returns the new mean and count.
//
// The result is (score*n + addScore*addN) / (n + addN). When the combined
// count is zero the running mean is returned unchanged with a zero count.
func WeightedMean(score, n, addScore, addN float64) (float64, float64) {
	total := n + addN
	if total == 0 {
		return score, 0
	}
	return (score*n + addScore*addN) / total, total
}

// Rescale maps a score from the 1-7 scale onto the 1-5 scale.
//
// Equivalent to (raw-1)*(4/6)+1; dividing by 1.5 keeps the endpoints exact.
func Rescale(raw float64) float64 {
	return (raw-1)/1.5 + 1
}
