package main

import (
	"flag"
	"math/rand/v2"
	"time"

	cm "github.com/gasparian/lsh-kde-go/common"
	"github.com/gasparian/lsh-kde-go/kde"
	"github.com/gasparian/lsh-kde-go/kernel"
	"gonum.org/v1/gonum/stat/distuv"
)

func main() {
	n := flag.Int("n", 10000, "number of points")
	d := flag.Int("d", 5, "number of dimensions")
	bandwidth := flag.Float64("h", 1, "kernel bandwidth")
	repetitions := flag.Int("l", 100, "number of repetitions")
	seed := flag.Uint64("seed", 0, "seed for the dataset and the estimator; 0 picks a random one")
	queries := flag.Int("q", 5, "number of queries")
	flag.Parse()

	logger := cm.GetNewLogger()
	if *seed == 0 {
		*seed = rand.Uint64()
	}
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)}
	sample := func() []float64 {
		vec := make([]float64, *d)
		for i := range vec {
			vec[i] = normal.Rand()
		}
		return vec
	}
	dataset := make([][]float64, *n)
	for i := range dataset {
		dataset[i] = sample()
	}

	config := kde.DefaultConfig()
	config.Bandwidth = *bandwidth
	config.Repetitions = *repetitions
	config.Seed = *seed
	config.Logger = logger
	start := time.Now()
	est, err := kde.New(dataset, config)
	if err != nil {
		logger.Err.Fatal(err)
	}
	logger.Info.Printf("Estimator built in %v: %+v", time.Since(start), est.Stats())

	for i := 0; i < *queries; i++ {
		query := dataset[0]
		if i > 0 {
			query = sample()
		}
		start = time.Now()
		exact, err := kernel.ExactKDE(query, dataset, *bandwidth)
		if err != nil {
			logger.Err.Fatal(err)
		}
		exactTime := time.Since(start)
		start = time.Now()
		estimate, err := est.Estimate(query)
		if err != nil {
			logger.Err.Fatal(err)
		}
		logger.Info.Printf("exact: %.6f (%v); estimated: %.6f (%v)", exact, exactTime, estimate, time.Since(start))
	}
}
