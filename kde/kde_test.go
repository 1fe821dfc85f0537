package kde

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	cm "github.com/gasparian/lsh-kde-go/common"
	"github.com/gasparian/lsh-kde-go/kernel"
	"github.com/gasparian/lsh-kde-go/lsh"
	"github.com/gasparian/lsh-kde-go/store/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func normalDataset(seed uint64, n, dims int) [][]float64 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	data := make([][]float64, n)
	for i := range data {
		data[i] = make([]float64, dims)
		for j := range data[i] {
			data[i][j] = rng.NormFloat64()
		}
	}
	return data
}

func uniformDataset(seed uint64, n, dims int) [][]float64 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	data := make([][]float64, n)
	for i := range data {
		data[i] = make([]float64, dims)
		for j := range data[i] {
			data[i][j] = rng.Float64()
		}
	}
	return data
}

// constHasher puts every point into the same bucket
type constHasher struct {
	code lsh.Code
	dims int
}

func (h constHasher) Hash([]float64) lsh.Code { return h.code }
func (h constHasher) Dims() int                { return h.dims }
func (h constHasher) Arity() int               { return 1 }

func TestNewInvalidParams(t *testing.T) {
	data := normalDataset(1, 10, 2)
	cases := map[string]struct {
		data   [][]float64
		config Config
	}{
		"ZeroBandwidth":     {data, Config{Bandwidth: 0, Repetitions: 5}},
		"NegativeBandwidth": {data, Config{Bandwidth: -1, Repetitions: 5}},
		"NaNBandwidth":      {data, Config{Bandwidth: math.NaN(), Repetitions: 5}},
		"ZeroRepetitions":   {data, Config{Bandwidth: 1, Repetitions: 0}},
		"NegativeReps":      {data, Config{Bandwidth: 1, Repetitions: -3}},
		"EmptyDataset":      {nil, Config{Bandwidth: 1, Repetitions: 5}},
		"RaggedDataset":     {[][]float64{{1, 2}, {1}}, Config{Bandwidth: 1, Repetitions: 5}},
		"NegativeWorkers":   {data, Config{Bandwidth: 1, Repetitions: 5, Workers: -1}},
		"UnknownFamily":     {data, Config{Bandwidth: 1, Repetitions: 5, Family: lsh.Family(42)}},
		"UnknownDomain":     {data, Config{Bandwidth: 1, Repetitions: 5, Domain: DomainMode(42)}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			est, err := New(tc.data, tc.config)
			assert.ErrorIs(t, err, cm.ErrInvalidParameter)
			assert.Nil(t, est)
		})
	}
	_, err := Build(data, 1, 0)
	assert.ErrorIs(t, err, cm.ErrInvalidParameter)
}

func TestEstimateDimensionMismatch(t *testing.T) {
	est, err := Build(normalDataset(2, 20, 3), 1, 10)
	require.NoError(t, err)
	for _, q := range [][]float64{nil, {1, 2}, {1, 2, 3, 4}} {
		_, err := est.Estimate(q)
		assert.ErrorIs(t, err, cm.ErrDimensionMismatch)
		var dm *cm.DimensionMismatchError
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 3, dm.Expected)
		assert.Equal(t, len(q), dm.Actual)
	}
}

func TestEmptyBucketContributesZero(t *testing.T) {
	table := kv.NewKVStore(1)
	require.NoError(t, table.SetHash("other", 0))
	est := &Estimator{
		dataset: [][]float64{{0.5}},
		dims:    1,
		scale:   2,
		weight:  1,
		reps:    []repetition{{hasher: constHasher{code: "query", dims: 1}, table: table}},
	}
	rng := rand.New(rand.NewPCG(1, 1))
	assert.Equal(t, 0.0, est.contribution(&est.reps[0], []float64{0.5}, rng))
	res, err := est.EstimateRand([]float64{0.5}, rng)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res)
}

func TestContributionReweighting(t *testing.T) {
	data := [][]float64{{0.1, 0.2}, {0.1, 0.2}, {0.1, 0.2}, {0.9, 0.9}}
	table := kv.NewKVStore(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, table.SetHash("same", i))
	}
	est := &Estimator{
		dataset: data,
		dims:    2,
		scale:   2,
		weight:  1.0 / 4,
		reps:    []repetition{{hasher: constHasher{code: "same", dims: 2}, table: table}},
	}
	query := []float64{0.3, 0.1}
	k, err := kernel.Laplacian(query, data[0], 2)
	require.NoError(t, err)
	res, err := est.EstimateRand(query, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	assert.InDelta(t, k*3/4, res, 1e-12)
}

func TestFamilySelection(t *testing.T) {
	data := uniformDataset(3, 50, 2)
	est, err := Build(data, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, lsh.FamilyThreshold, est.Family())
	for j := range est.reps {
		assert.IsType(t, &lsh.Threshold{}, est.reps[j].hasher)
	}

	est, err = Build(data, 0.3, 10)
	require.NoError(t, err)
	assert.Equal(t, lsh.FamilyBinning, est.Family())
	for j := range est.reps {
		assert.IsType(t, &lsh.Binning{}, est.reps[j].hasher)
	}

	config := DefaultConfig()
	config.Bandwidth, config.Family = 0.3, lsh.FamilyThreshold
	est, err = New(data, config)
	require.NoError(t, err)
	assert.Equal(t, lsh.FamilyThreshold, est.Family())
}

func TestSeedReproducible(t *testing.T) {
	data := normalDataset(4, 300, 4)
	config := DefaultConfig()
	config.Repetitions = 40
	config.Seed = 12345
	config.Workers = 1
	est1, err := New(data, config)
	require.NoError(t, err)
	config.Workers = 8
	est2, err := New(data, config)
	require.NoError(t, err)
	assert.Equal(t, est1.SampleSizes(), est2.SampleSizes())

	query := data[7]
	r1, err := est1.EstimateRand(query, rand.New(rand.NewPCG(5, 6)))
	require.NoError(t, err)
	r2, err := est2.EstimateRand(query, rand.New(rand.NewPCG(5, 6)))
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
	assert.NotEqual(t, est1.ID(), est2.ID())

	config.Seed = 54321
	est3, err := New(data, config)
	require.NoError(t, err)
	assert.NotEqual(t, est1.SampleSizes(), est3.SampleSizes())
}

func TestSubsampleSizes(t *testing.T) {
	const (
		n    = 1000
		reps = 100
		runs = 20
	)
	data := uniformDataset(5, n, 2)
	var sizes []float64
	for run := 0; run < runs; run++ {
		config := DefaultConfig()
		config.Repetitions = reps
		config.Seed = uint64(run + 1)
		est, err := New(data, config)
		require.NoError(t, err)
		for j, s := range est.SampleSizes() {
			sizes = append(sizes, float64(s))
			// indices are unique within a repetition
			seen := make(map[int]bool, s)
			table := est.reps[j].table
			for _, point := range data {
				bucket := table.Bucket(string(est.reps[j].hasher.Hash(point)))
				for _, i := range bucket {
					seen[i] = true
				}
			}
			assert.Len(t, seen, s)
		}
	}
	mean, variance := stat.MeanVariance(sizes, nil)
	assert.InDelta(t, 100, mean, 2)
	assert.InDelta(t, 100*(1-100.0/1000), variance, 15)
}

func TestFullSampleWhenRepetitionsExceedPoints(t *testing.T) {
	data := uniformDataset(6, 30, 2)
	est, err := Build(data, 1, 50)
	require.NoError(t, err)
	for _, s := range est.SampleSizes() {
		assert.Equal(t, 30, s)
	}
	assert.InDelta(t, 1.0/30, est.weight, 1e-15)
}

func TestConvergence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping convergence scenario in short mode")
	}
	const (
		runs      = 100
		bandwidth = 1.0
	)
	data := normalDataset(7, 200, 5)
	query := data[0]
	exact, err := kernel.ExactKDE(query, data, bandwidth)
	require.NoError(t, err)

	estimates := make([]float64, runs)
	for run := range estimates {
		config := DefaultConfig()
		config.Bandwidth = bandwidth
		config.Repetitions = 500
		config.Seed = uint64(1000 + run)
		est, err := New(data, config)
		require.NoError(t, err)
		estimates[run], err = est.Estimate(query)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, estimates[run], 0.0)
	}
	assert.InDelta(t, exact, stat.Mean(estimates, nil), 0.05)
}

func TestBinningUnbiased(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping statistical test in short mode")
	}
	const bandwidth = 0.5
	data := uniformDataset(8, 300, 3)
	query := []float64{0.4, 0.6, 0.5}
	exact, err := kernel.ExactKDE(query, data, bandwidth)
	require.NoError(t, err)

	for _, domain := range []DomainMode{DomainUnit, DomainFit} {
		estimates := make([]float64, 30)
		for run := range estimates {
			config := DefaultConfig()
			config.Bandwidth = bandwidth
			config.Repetitions = 300
			config.Domain = domain
			config.Seed = uint64(run + 1)
			est, err := New(data, config)
			require.NoError(t, err)
			require.Equal(t, lsh.FamilyBinning, est.Family())
			estimates[run], err = est.Estimate(query)
			require.NoError(t, err)
		}
		assert.InDelta(t, exact, stat.Mean(estimates, nil), 0.03)
	}
}

func TestUnitDomainWarning(t *testing.T) {
	var warnings []string
	logger := cm.GetNopLogger()
	logger.Warn.SetOutput(writerFunc(func(p []byte) (int, error) {
		warnings = append(warnings, string(p))
		return len(p), nil
	}))
	config := DefaultConfig()
	config.Domain = DomainUnit
	config.Logger = logger
	_, err := New(uniformDataset(9, 20, 2), config)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	_, err = New(normalDataset(9, 20, 2), config)
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func TestConcurrentEstimate(t *testing.T) {
	data := normalDataset(10, 500, 8)
	est, err := Build(data, 2, 64)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				res, err := est.Estimate(data[(i*20+j)%len(data)])
				if err != nil {
					errs <- err
					return
				}
				if res < 0 || math.IsNaN(res) {
					errs <- assert.AnError
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestEstimateBatch(t *testing.T) {
	data := normalDataset(11, 200, 3)
	est, err := Build(data, 1, 50)
	require.NoError(t, err)

	res, err := est.EstimateBatch(context.Background(), data[:25])
	require.NoError(t, err)
	require.Len(t, res, 25)
	for _, r := range res {
		assert.GreaterOrEqual(t, r, 0.0)
	}

	_, err = est.EstimateBatch(context.Background(), [][]float64{{1, 2, 3}, {1}})
	assert.ErrorIs(t, err, cm.ErrDimensionMismatch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = est.EstimateBatch(ctx, data[:5])
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStats(t *testing.T) {
	data := uniformDataset(12, 400, 3)
	config := DefaultConfig()
	config.Repetitions = 20
	est, err := New(data, config)
	require.NoError(t, err)
	s := est.Stats()
	assert.Equal(t, est.ID(), s.ID)
	assert.Equal(t, "threshold", s.Family)
	assert.Equal(t, 400, s.Points)
	assert.Equal(t, 3, s.Dims)
	assert.Equal(t, 20, s.Repetitions)
	sum := 0
	for _, size := range est.SampleSizes() {
		sum += size
	}
	assert.Equal(t, sum, s.SampledPoints)
	assert.LessOrEqual(t, s.Buckets, s.SampledPoints)
	assert.LessOrEqual(t, s.MaxBucket, s.SampledPoints)
	assert.Equal(t, 400, est.Len())
	assert.Equal(t, 1.0, est.Bandwidth())
	assert.Equal(t, 20, est.Repetitions())
	assert.True(t, est.Domain().Contains(data[0]))
}
