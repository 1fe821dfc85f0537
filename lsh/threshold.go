package lsh

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// NewThreshold draws the arity R ~ Poisson(sum(widths) / scale) and then
// R cuts: axis with probability proportional to its width and threshold
// uniformly inside the axis range.
// For the unit domain it's R ~ Poisson(dims / scale), uniform axis and U[0, 1) threshold.
func NewThreshold(domain Domain, scale float64, src rand.Source) (*Threshold, error) {
	if err := checkParams(domain, scale); err != nil {
		return nil, err
	}
	widths := domain.Widths()
	total := floats.Sum(widths)
	arity := 0
	if total > 0 {
		poisson := distuv.Poisson{Lambda: total / scale, Src: src}
		arity = int(poisson.Rand())
	}
	th := &Threshold{
		dims:       domain.Dims(),
		axes:       make([]int, arity),
		thresholds: make([]float64, arity),
	}
	if arity == 0 {
		return th, nil
	}
	axis := distuv.NewCategorical(widths, src)
	rng := rand.New(src)
	for i := 0; i < arity; i++ {
		a := int(axis.Rand())
		th.axes[i] = a
		th.thresholds[i] = domain.Lo[a] + rng.Float64()*widths[a]
	}
	return th, nil
}

// Hash packs point[axis_i] < threshold_i for every cut into bits
func (th *Threshold) Hash(point []float64) Code {
	buf := make([]byte, (len(th.axes)+7)/8)
	for i, a := range th.axes {
		if point[a] < th.thresholds[i] {
			buf[i>>3] |= 1 << (i & 7)
		}
	}
	return Code(buf)
}

// Dims returns expected point dimension
func (th *Threshold) Dims() int {
	return th.dims
}

// Arity returns number of cuts
func (th *Threshold) Arity() int {
	return len(th.axes)
}

// Axes returns axis index of every cut
func (th *Threshold) Axes() []int {
	return append([]int(nil), th.axes...)
}

// Thresholds returns cut position of every cut
func (th *Threshold) Thresholds() []float64 {
	return append([]float64(nil), th.thresholds...)
}
