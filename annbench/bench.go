package annbench

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/gasparian/lsh-kde-go/kernel"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Estimator is anything which can answer the density query
type Estimator interface {
	Estimate(query []float64) (float64, error)
}

// Exact answers queries by the full dataset scan
type Exact struct {
	Dataset   [][]float64
	Bandwidth float64
}

// Estimate returns the exact kernel density
func (e Exact) Estimate(query []float64) (float64, error) {
	return kernel.ExactKDE(query, e.Dataset, e.Bandwidth)
}

// Report holds accuracy and timing of the estimator compared with the ground truth
type Report struct {
	Queries          int
	MeanAbsError     float64
	MeanRelError     float64
	MedianRelError   float64
	P90RelError      float64
	MeanBias         float64
	AvgQueryTime     time.Duration
	AvgExactTime     time.Duration
	QueriesWithZeros int
}

func (r Report) String() string {
	return fmt.Sprintf(
		"queries=%d meanAbsErr=%.3g meanRelErr=%.3g medianRelErr=%.3g p90RelErr=%.3g bias=%.3g zeros=%d avgQuery=%v avgExact=%v",
		r.Queries, r.MeanAbsError, r.MeanRelError, r.MedianRelError, r.P90RelError,
		r.MeanBias, r.QueriesWithZeros, r.AvgQueryTime, r.AvgExactTime,
	)
}

// ErrorStats compares estimates with the exact values; both slices must be of equal length.
// Relative error is skipped for zero exact values.
func ErrorStats(estimates, exact []float64) (Report, error) {
	if len(estimates) != len(exact) {
		return Report{}, fmt.Errorf("annbench: %d estimates for %d exact values", len(estimates), len(exact))
	}
	r := Report{Queries: len(estimates)}
	if len(estimates) == 0 {
		return r, nil
	}
	diff := make([]float64, len(estimates))
	rel := make([]float64, 0, len(estimates))
	for i := range estimates {
		diff[i] = estimates[i] - exact[i]
		if exact[i] > 0 {
			rel = append(rel, math.Abs(diff[i])/exact[i])
		}
		if estimates[i] == 0 {
			r.QueriesWithZeros++
		}
	}
	r.MeanAbsError = floats.Distance(estimates, exact, 1) / float64(len(estimates))
	r.MeanBias = stat.Mean(diff, nil)
	if len(rel) > 0 {
		sort.Float64s(rel)
		r.MeanRelError = stat.Mean(rel, nil)
		r.MedianRelError = stat.Quantile(0.5, stat.Empirical, rel, nil)
		r.P90RelError = stat.Quantile(0.9, stat.Empirical, rel, nil)
	}
	return r, nil
}

// Run queries both estimators and reports the accuracy.
// bar may be nil.
func Run(estimator, groundTruth Estimator, queries [][]float64, bar *pb.ProgressBar) (Report, error) {
	estimates := make([]float64, len(queries))
	exact := make([]float64, len(queries))
	var queryTime, exactTime time.Duration
	for i, q := range queries {
		start := time.Now()
		res, err := estimator.Estimate(q)
		if err != nil {
			return Report{}, fmt.Errorf("annbench: query %d: %w", i, err)
		}
		queryTime += time.Since(start)
		estimates[i] = res

		start = time.Now()
		res, err = groundTruth.Estimate(q)
		if err != nil {
			return Report{}, fmt.Errorf("annbench: exact query %d: %w", i, err)
		}
		exactTime += time.Since(start)
		exact[i] = res
		if bar != nil {
			bar.Increment()
		}
	}
	r, err := ErrorStats(estimates, exact)
	if err != nil {
		return Report{}, err
	}
	if len(queries) > 0 {
		r.AvgQueryTime = queryTime / time.Duration(len(queries))
		r.AvgExactTime = exactTime / time.Duration(len(queries))
	}
	return r, nil
}
