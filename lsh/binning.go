package lsh

import (
	"encoding/binary"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// NewBinning draws per dimension a bin length ~ Gamma(shape=2, scale),
// a shift uniformly inside the first bin and lays out the grid cuts
// shift, shift+len, ... while they stay below the upper domain bound
func NewBinning(domain Domain, scale float64, src rand.Source) (*Binning, error) {
	if err := checkParams(domain, scale); err != nil {
		return nil, err
	}
	// NOTE: gonum parametrizes gamma with rate, not scale
	gamma := distuv.Gamma{Alpha: 2, Beta: 1 / scale, Src: src}
	rng := rand.New(src)
	b := &Binning{
		cuts: make([][]float64, domain.Dims()),
	}
	for k := range b.cuts {
		binLength := gamma.Rand()
		shift := domain.Lo[k] + rng.Float64()*binLength
		if !(binLength > 0) {
			continue
		}
		var cuts []float64
		for i := 0; ; i++ {
			cut := shift + float64(i)*binLength
			if cut >= domain.Hi[k] {
				break
			}
			cuts = append(cuts, cut)
		}
		b.cuts[k] = cuts
	}
	return b, nil
}

// Hash returns the bin index per dimension: number of cuts strictly below the coordinate
func (b *Binning) Hash(point []float64) Code {
	buf := make([]byte, 0, len(b.cuts))
	for k, cuts := range b.cuts {
		idx := sort.SearchFloat64s(cuts, point[k])
		buf = binary.AppendUvarint(buf, uint64(idx))
	}
	return Code(buf)
}

// Bins returns decoded bin indices of the code
func (b *Binning) Bins(code Code) []int {
	bins := make([]int, 0, len(b.cuts))
	buf := []byte(code)
	for len(buf) > 0 {
		v, n := binary.Uvarint(buf)
		if n <= 0 {
			break
		}
		bins = append(bins, int(v))
		buf = buf[n:]
	}
	return bins
}

// Dims returns expected point dimension
func (b *Binning) Dims() int {
	return len(b.cuts)
}

// Arity returns number of code components, one per dimension
func (b *Binning) Arity() int {
	return len(b.cuts)
}

// Cuts returns sorted grid cuts of the k-th dimension
func (b *Binning) Cuts(k int) []float64 {
	return append([]float64(nil), b.cuts[k]...)
}
