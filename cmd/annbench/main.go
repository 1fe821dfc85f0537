package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/gasparian/lsh-kde-go/annbench"
	"github.com/gasparian/lsh-kde-go/annbench/hdf5data"
	cm "github.com/gasparian/lsh-kde-go/common"
	"github.com/gasparian/lsh-kde-go/kde"
)

// trim keeps first maxTrain points and maxQueries queries, non-positive limits keep everything
func trim(train, test [][]float64, maxTrain, maxQueries int) ([][]float64, [][]float64, error) {
	if maxTrain > 0 && maxTrain < len(train) {
		train = train[:maxTrain]
	}
	if maxQueries > 0 && maxQueries < len(test) {
		test = test[:maxQueries]
	}
	if len(train) == 0 || len(test) == 0 {
		return nil, nil, fmt.Errorf("empty dataset: %d train points, %d test queries", len(train), len(test))
	}
	return train, test, nil
}

func main() {
	path := flag.String("path", "test-data/fashion-mnist-784-euclidean.hdf5", "ann-benchmarks hdf5 file")
	bandwidth := flag.Float64("h", 5000, "kernel bandwidth; pixel data needs a wide one")
	repetitions := flag.Int("l", 1000, "number of repetitions")
	maxTrain := flag.Int("n", 0, "use only first n train points; 0 means all")
	maxQueries := flag.Int("q", 200, "number of test queries")
	seed := flag.Uint64("seed", 0, "estimator seed; 0 picks a random one")
	workers := flag.Int("workers", 0, "build workers; 0 means GOMAXPROCS")
	flag.Parse()

	logger := cm.GetNewLogger()
	absPath, err := filepath.Abs(*path)
	if err != nil {
		logger.Err.Fatal(err)
	}
	train, test, err := hdf5data.Load(absPath)
	if err != nil {
		logger.Err.Fatal(err)
	}
	train, test, err = trim(train, test, *maxTrain, *maxQueries)
	if err != nil {
		logger.Err.Fatal(err)
	}
	logger.Info.Printf("Train: %d points; test: %d queries; dims: %d", len(train), len(test), len(train[0]))

	config := kde.DefaultConfig()
	config.Bandwidth = *bandwidth
	config.Repetitions = *repetitions
	config.Seed = *seed
	config.Workers = *workers
	config.Logger = logger
	start := time.Now()
	est, err := kde.New(train, config)
	if err != nil {
		logger.Err.Fatal(err)
	}
	logger.Info.Printf("Build time: %v; stats: %+v", time.Since(start), est.Stats())

	bar := pb.StartNew(len(test))
	report, err := annbench.Run(est, annbench.Exact{Dataset: train, Bandwidth: *bandwidth}, test, bar)
	bar.Finish()
	if err != nil {
		logger.Err.Fatal(err)
	}
	logger.Info.Println(report)
}
