package kde

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	cm "github.com/gasparian/lsh-kde-go/common"
	"github.com/gasparian/lsh-kde-go/lsh"
	"golang.org/x/sync/errgroup"
)

// Build creates estimator with default config and the given params
func Build(dataset [][]float64, bandwidth float64, repetitions int) (*Estimator, error) {
	config := DefaultConfig()
	config.Bandwidth = bandwidth
	config.Repetitions = repetitions
	return New(dataset, config)
}

// New validates params and builds all the repetitions.
// The dataset is referenced, not copied, and must not be modified afterwards.
func New(dataset [][]float64, config Config) (*Estimator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	dims, err := cm.CheckDataset(dataset)
	if err != nil {
		return nil, err
	}
	logger := config.Logger
	if logger == nil {
		logger = cm.GetNopLogger()
	}
	workers := config.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	seed := config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	n := len(dataset)
	p := math.Min(1.0, float64(config.Repetitions)/float64(n))
	est := &Estimator{
		id:        cm.GetRandomID(),
		dataset:   dataset,
		dims:      dims,
		bandwidth: config.Bandwidth,
		// hashing the kernel at 2h and reweighting gives the unbiased estimate at h
		scale:   2 * config.Bandwidth,
		weight:  1.0 / (float64(n) * p),
		workers: workers,
		family:  config.Family.Resolve(config.Bandwidth),
		reps:    make([]repetition, config.Repetitions),
	}
	est.domain, err = resolveDomain(dataset, config.Domain, logger)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for j := range est.reps {
		g.Go(func() error {
			rep, err := est.buildRepetition(p, newStream(seed, j))
			if err != nil {
				return fmt.Errorf("kde: building repetition %d: %w", j, err)
			}
			est.reps[j] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Err.Printf("Estimator %s build failed: %v\n", est.id, err)
		return nil, err
	}
	logger.Info.Printf(
		"Estimator %s built: points=%d dims=%d bandwidth=%v repetitions=%d family=%v sampled=%d elapsed=%v\n",
		est.id, n, dims, est.bandwidth, len(est.reps), est.family, est.sampled(), time.Since(start),
	)
	return est, nil
}

func resolveDomain(dataset [][]float64, mode DomainMode, logger *cm.Logger) (lsh.Domain, error) {
	if mode == DomainFit {
		return lsh.FitDomain(dataset)
	}
	domain := lsh.UnitDomain(len(dataset[0]))
	outside := 0
	for _, point := range dataset {
		if !domain.Contains(point) {
			outside++
		}
	}
	if outside > 0 {
		logger.Warn.Printf("%d of %d points lie outside the unit hashing domain, estimates will be biased\n", outside, len(dataset))
	}
	return domain, nil
}

// Estimate returns approximate (1/n) * sum_i exp(-|query - x_i|_1 / h).
// It's safe to call concurrently.
func (e *Estimator) Estimate(query []float64) (float64, error) {
	return e.EstimateRand(query, newQueryRand())
}

// EstimateRand is Estimate with the caller's generator for the in-bucket picks.
// rng must not be shared between concurrent calls.
func (e *Estimator) EstimateRand(query []float64, rng *rand.Rand) (float64, error) {
	if len(query) != e.dims {
		return 0, cm.NewDimensionMismatch(e.dims, len(query))
	}
	var sum float64
	for j := range e.reps {
		sum += e.contribution(&e.reps[j], query, rng)
	}
	return sum / float64(len(e.reps)), nil
}

// EstimateBatch estimates every query concurrently.
// It stops at the first error or when ctx is done.
func (e *Estimator) EstimateBatch(ctx context.Context, queries [][]float64) ([]float64, error) {
	results := make([]float64, len(queries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range queries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.Estimate(queries[i])
			if err != nil {
				return fmt.Errorf("kde: query %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ID returns unique id of the estimator
func (e *Estimator) ID() string {
	return e.id
}

// Dims returns dataset dimension
func (e *Estimator) Dims() int {
	return e.dims
}

// Len returns number of dataset points
func (e *Estimator) Len() int {
	return len(e.dataset)
}

// Bandwidth returns kernel bandwidth
func (e *Estimator) Bandwidth() float64 {
	return e.bandwidth
}

// Repetitions returns number of hash tables
func (e *Estimator) Repetitions() int {
	return len(e.reps)
}

// Family returns the hasher family used by all the repetitions
func (e *Estimator) Family() lsh.Family {
	return e.family
}

// Domain returns the hashing domain
func (e *Estimator) Domain() lsh.Domain {
	return e.domain
}

// Dataset returns the referenced dataset; it must not be modified
func (e *Estimator) Dataset() [][]float64 {
	return e.dataset
}

// SampleSizes returns number of points sampled into every repetition
func (e *Estimator) SampleSizes() []int {
	sizes := make([]int, len(e.reps))
	for j := range e.reps {
		sizes[j] = e.reps[j].table.Len()
	}
	return sizes
}

func (e *Estimator) sampled() int {
	total := 0
	for j := range e.reps {
		total += e.reps[j].table.Len()
	}
	return total
}

// Stats returns summary of the built tables
func (e *Estimator) Stats() Stats {
	s := Stats{
		ID:            e.id,
		Family:        e.family.String(),
		Points:        len(e.dataset),
		Dims:          e.dims,
		Bandwidth:     e.bandwidth,
		Repetitions:   len(e.reps),
		SampledPoints: e.sampled(),
	}
	var arity int
	for j := range e.reps {
		s.Buckets += e.reps[j].table.Buckets()
		if m := e.reps[j].table.MaxBucket(); m > s.MaxBucket {
			s.MaxBucket = m
		}
		arity += e.reps[j].hasher.Arity()
	}
	s.MeanArity = float64(arity) / float64(len(e.reps))
	return s
}
