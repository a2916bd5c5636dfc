// Package facematch compares face embeddings.
// It is shared between the CLI and the web handlers.
package facematch

import "math"

// EuclideanDistance computes the Euclidean (L2) distance between two embeddings.
// Vectors of different or zero length are infinitely far apart.
func EuclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
