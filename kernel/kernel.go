// Package kernel holds the Laplacian kernel and the brute-force kernel
// density estimate which is used as a ground truth for the hashing-based one.
package kernel

import (
	"math"

	cm "github.com/gasparian/lsh-kde-go/common"
	"gonum.org/v1/gonum/floats"
)

// Laplacian returns exp(-|x-y|_1 / bandwidth)
func Laplacian(x, y []float64, bandwidth float64) (float64, error) {
	if !(bandwidth > 0) {
		return 0, cm.InvalidParameter("bandwidth must be positive, got %v", bandwidth)
	}
	if len(x) != len(y) {
		return 0, cm.NewDimensionMismatch(len(x), len(y))
	}
	return laplacian(x, y, bandwidth), nil
}

// laplacian skips the params validation, callers must check them
func laplacian(x, y []float64, bandwidth float64) float64 {
	return math.Exp(-floats.Distance(x, y, 1) / bandwidth)
}

// ExactKDE computes mean kernel value between the query and every dataset point.
// It costs O(n*d) per call.
func ExactKDE(query []float64, dataset [][]float64, bandwidth float64) (float64, error) {
	if !(bandwidth > 0) {
		return 0, cm.InvalidParameter("bandwidth must be positive, got %v", bandwidth)
	}
	if len(dataset) == 0 {
		return 0, cm.InvalidParameter("dataset is empty")
	}
	var sum float64
	for _, point := range dataset {
		if len(point) != len(query) {
			return 0, cm.NewDimensionMismatch(len(point), len(query))
		}
		sum += laplacian(query, point, bandwidth)
	}
	return sum / float64(len(dataset)), nil
}
