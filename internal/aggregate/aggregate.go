// Package aggregate holds the pure numeric reductions used by the scorers.
package aggregate

import (
	"math"

	"github.com/mattpocock/evalite-sub000/api"
)

// FBeta turns a TP/FP/FN classification into a precision/recall-weighted score in [0,1].
// beta > 1 weights recall (omissions) more, beta < 1 weights precision (hallucinations) more.
// Empty denominators yield 0.
func FBeta(c api.Classification, beta float64) float64 {
	tp := float64(len(c.TP))
	fp := float64(len(c.FP))
	fn := float64(len(c.FN))

	precision := Ratio(tp, tp+fp)
	recall := Ratio(tp, tp+fn)

	b2 := beta * beta
	denom := b2*precision + recall
	if denom == 0 {
		return 0
	}
	return Clamp01((1 + b2) * precision * recall / denom)
}

// Ratio returns num/den, or 0 when den is 0 or the result is not finite.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Clamp01 limits v to [0,1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WeightedMean returns sum(w_i*v_i)/sum(w_i). Weights are relative proportions.
func WeightedMean(values, weights []float64) float64 {
	var num, den float64
	for i := range values {
		if i >= len(weights) {
			break
		}
		num += weights[i] * values[i]
		den += weights[i]
	}
	return Ratio(num, den)
}

// Transpose turns m[row][col] into t[col][row]. cols is the column count,
// given explicitly so an empty matrix still yields cols empty rows.
func Transpose(m [][]bool, cols int) [][]bool {
	t := make([][]bool, cols)
	for c := range t {
		t[c] = make([]bool, len(m))
		for r := range m {
			if c < len(m[r]) {
				t[c][r] = m[r][c]
			}
		}
	}
	return t
}

// Any reports whether any element is true.
func Any(v []bool) bool {
	for _, b := range v {
		if b {
			return true
		}
	}
	return false
}

// Count returns the number of true elements.
func Count(v []bool) int {
	n := 0
	for _, b := range v {
		if b {
			n++
		}
	}
	return n
}
