package kde

import (
	cm "github.com/gasparian/lsh-kde-go/common"
	"github.com/gasparian/lsh-kde-go/lsh"
	"github.com/gasparian/lsh-kde-go/store"
)

// DomainMode selects the range which hashers draw their cuts from
type DomainMode int

const (
	// DomainFit uses bounding box of the dataset. Estimates are unbiased for
	// queries inside the box; outside it they are biased upward.
	DomainFit DomainMode = iota
	// DomainUnit uses [0, 1)^d. It's unbiased only when the data lie in the unit cube.
	DomainUnit
)

// Config holds estimator params
type Config struct {
	Bandwidth   float64
	Repetitions int
	// Seed makes the construction reproducible; 0 picks a random one
	Seed uint64
	// Workers bounds the number of repetitions built concurrently; 0 means GOMAXPROCS
	Workers int
	Family  lsh.Family
	Domain  DomainMode
	Logger  *cm.Logger
}

// Stats holds basic info about the built estimator
type Stats struct {
	ID            string  `json:"id"`
	Family        string  `json:"family"`
	Points        int     `json:"points"`
	Dims          int     `json:"dims"`
	Bandwidth     float64 `json:"bandwidth"`
	Repetitions   int     `json:"repetitions"`
	SampledPoints int     `json:"sampledPoints"`
	Buckets       int     `json:"buckets"`
	MaxBucket     int     `json:"maxBucket"`
	MeanArity     float64 `json:"meanArity"`
}

// repetition is one independent (hasher, table) pair
type repetition struct {
	hasher lsh.Hasher
	table  store.Store
}

// Estimator holds L repetitions built over the shared read-only dataset
type Estimator struct {
	id        string
	dataset   [][]float64
	dims      int
	bandwidth float64
	scale     float64
	weight    float64
	workers   int
	family    lsh.Family
	domain    lsh.Domain
	reps      []repetition
}
