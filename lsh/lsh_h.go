package lsh

// Code is a discrete LSH value packed into bytes.
// Codes of a single hasher instance have equal meaning iff they are equal strings.
type Code string

// Hasher maps a point to the discrete code; the random params are fixed
// for the lifetime of the instance so the same point always gets the same code
type Hasher interface {
	Hash(point []float64) Code
	// Dims returns expected point dimension
	Dims() int
	// Arity returns number of components in the code
	Arity() int
}

// Family selects the hasher variant
type Family int

// Available hasher families
const (
	FamilyAuto Family = iota
	FamilyThreshold
	FamilyBinning
)

// Domain holds per-axis [Lo, Hi) range which hasher params are drawn from
type Domain struct {
	Lo []float64
	Hi []float64
}

// Threshold holds random axis-aligned cuts
type Threshold struct {
	dims       int
	axes       []int
	thresholds []float64
}

// Binning holds randomly shifted 1-d grid per dimension
type Binning struct {
	cuts [][]float64
}
