package lsh

import (
	"math"

	cm "github.com/gasparian/lsh-kde-go/common"
	"gonum.org/v1/gonum/floats"
)

// UnitDomain returns [0, 1)^dims
func UnitDomain(dims int) Domain {
	d := Domain{
		Lo: make([]float64, dims),
		Hi: make([]float64, dims),
	}
	for i := range d.Hi {
		d.Hi[i] = 1.0
	}
	return d
}

// FitDomain returns bounding box of the points.
// Hashers built over it give exact exp(-|x-y|_1/scale) collision probability
// for points inside the box; points outside collide more often.
func FitDomain(points [][]float64) (Domain, error) {
	dims, err := cm.CheckDataset(points)
	if err != nil {
		return Domain{}, err
	}
	d := Domain{
		Lo: append([]float64(nil), points[0]...),
		Hi: append([]float64(nil), points[0]...),
	}
	for _, p := range points[1:] {
		for j := 0; j < dims; j++ {
			d.Lo[j] = math.Min(d.Lo[j], p[j])
			d.Hi[j] = math.Max(d.Hi[j], p[j])
		}
	}
	return d, d.validate()
}

// Dims returns domain dimension
func (d Domain) Dims() int {
	return len(d.Lo)
}

// Widths returns Hi-Lo per axis
func (d Domain) Widths() []float64 {
	w := make([]float64, len(d.Lo))
	for i := range w {
		w[i] = d.Hi[i] - d.Lo[i]
	}
	return w
}

// Contains reports if point lies inside the closed box
func (d Domain) Contains(point []float64) bool {
	if len(point) != len(d.Lo) {
		return false
	}
	for i, v := range point {
		if v < d.Lo[i] || v > d.Hi[i] {
			return false
		}
	}
	return true
}

// ExpectedCuts returns mean number of cuts of a hasher built over the domain:
// threshold arity and total binning cuts both average sum(widths) / scale
func ExpectedCuts(domain Domain, scale float64) float64 {
	return floats.Sum(domain.Widths()) / scale
}

func (d Domain) validate() error {
	if len(d.Lo) == 0 || len(d.Lo) != len(d.Hi) {
		return cm.InvalidParameter("domain bounds must be non-empty and of equal length")
	}
	for i := range d.Lo {
		if math.IsNaN(d.Lo[i]) || math.IsInf(d.Lo[i], 0) || math.IsNaN(d.Hi[i]) || math.IsInf(d.Hi[i], 0) {
			return cm.InvalidParameter("domain bounds must be finite at axis %d", i)
		}
		if d.Hi[i] < d.Lo[i] {
			return cm.InvalidParameter("domain upper bound is less than lower one at axis %d", i)
		}
	}
	return nil
}

func checkParams(domain Domain, scale float64) error {
	if !(scale > 0) || math.IsInf(scale, 1) {
		return cm.InvalidParameter("scale must be positive and finite, got %v", scale)
	}
	return domain.validate()
}
