// Package hdf5data reads ann-benchmarks datasets.
//
// Objects inside the hdf5:
// train
// test
// distances
// neighbors
package hdf5data

import (
	"errors"
	"fmt"

	cm "github.com/gasparian/lsh-kde-go/common"
	"gonum.org/v1/hdf5"
)

var (
	notMatrixErr = errors.New("hdf5 dataset must be a 2-d matrix")
)

// GetVectorsFromHDF5 reads the flat float32 data and the row size of the table dataset
func GetVectorsFromHDF5(table *hdf5.File, datasetName string) ([]float32, int, error) {
	dataset, err := table.OpenDataset(datasetName)
	if err != nil {
		return nil, 0, err
	}
	defer dataset.Close()

	fileSpace := dataset.Space()
	defer fileSpace.Close()
	dims, _, err := fileSpace.SimpleExtentDims()
	if err != nil {
		return nil, 0, err
	}
	if len(dims) != 2 {
		return nil, 0, notMatrixErr
	}
	vecs := make([]float32, fileSpace.SimpleExtentNPoints())
	err = dataset.Read(&vecs)
	if err != nil {
		return nil, 0, err
	}
	return vecs, int(dims[1]), nil
}

// Load returns train and test sets of the ann-benchmarks file
func Load(path string) ([][]float64, [][]float64, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	train, err := load(f, "train")
	if err != nil {
		return nil, nil, err
	}
	test, err := load(f, "test")
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

func load(f *hdf5.File, name string) ([][]float64, error) {
	flat, dims, err := GetVectorsFromHDF5(f, name)
	if err != nil {
		return nil, fmt.Errorf("hdf5data: reading %q: %w", name, err)
	}
	return cm.Split(flat, dims), nil
}
