// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// Clip clips value to [min, max]
func Clip(value, min, max float64) float64 {
	return math.Max(math.Min(value, max), min)
}

// MaxSlice returns the maximum value of values along with the indices
// at which it occurs. MaxSlice panics if values is empty.
func MaxSlice(values []float64) (max float64, indices []int) {
	max = floats.Max(values)
	for i, value := range values {
		if value == max {
			indices = append(indices, i)
		}
	}
	return max, indices
}

// Argmax returns an index of the maximum value of values, breaking
// ties uniformly randomly with rng
func Argmax(values []float64, rng *rand.Rand) int {
	_, indices := MaxSlice(values)
	if len(indices) == 1 {
		return indices[0]
	}
	return indices[rng.Intn(len(indices))]
}
