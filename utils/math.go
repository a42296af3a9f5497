package utils

import (
	"math"
	"math/rand"
)

// Square is faster than math.Pow(n, 2).
func Square(n float64) float64 {
	return n * n
}

// Float64AlmostEqual reports whether a and b are within epsilon of each other.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// Clamp limits value to the range [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(value, hi))
}

// SampleRandomIntRange samples a random integer within a range given by [min, max]
// using the given rand.Rand.
func SampleRandomIntRange(min, max int, r *rand.Rand) int {
	return r.Intn(max-min+1) + min
}

// SampleRandomFloatRange samples a random float within [min, max) using the given rand.Rand.
func SampleRandomFloatRange(min, max float64, r *rand.Rand) float64 {
	return min + r.Float64()*(max-min)
}
