package kde

import (
	"fmt"
	"math/rand/v2"

	"github.com/gasparian/lsh-kde-go/kernel"
	"github.com/gasparian/lsh-kde-go/lsh"
	"github.com/gasparian/lsh-kde-go/store/kv"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// sampleSize draws s ~ Binomial(n, p)
func sampleSize(n int, p float64, src rand.Source) int {
	if p >= 1 {
		return n
	}
	binomial := distuv.Binomial{N: float64(n), P: p, Src: src}
	return int(binomial.Rand())
}

// buildRepetition samples the dataset, draws the hasher and fills the table.
// All the randomness comes from src, which must not be shared with other repetitions.
func (e *Estimator) buildRepetition(p float64, src rand.Source) (repetition, error) {
	n := len(e.dataset)
	size := sampleSize(n, p, src)
	idxs := make([]int, size)
	if size > 0 {
		sampleuv.WithoutReplacement(idxs, n, src)
	}
	hasher, err := lsh.New(e.family, e.domain, e.scale, src)
	if err != nil {
		return repetition{}, err
	}
	table := kv.NewKVStore(size)
	for _, idx := range idxs {
		err = table.SetHash(string(hasher.Hash(e.dataset[idx])), idx)
		if err != nil {
			return repetition{}, fmt.Errorf("kde: hashing point %d: %w", idx, err)
		}
	}
	return repetition{hasher: hasher, table: table}, nil
}

// contribution returns the single repetition estimate; empty bucket gives 0
func (e *Estimator) contribution(rep *repetition, query []float64, rng *rand.Rand) float64 {
	bucket := rep.table.Bucket(string(rep.hasher.Hash(query)))
	if len(bucket) == 0 {
		return 0
	}
	point := e.dataset[bucket[rng.IntN(len(bucket))]]
	// NOTE: scale and dimensions are checked before, so the error is always nil
	k, _ := kernel.Laplacian(query, point, e.scale)
	return k * float64(len(bucket)) * e.weight
}
