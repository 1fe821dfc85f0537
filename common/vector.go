package common

// ConvertTo64 widens float32 values read from hdf5 files
func ConvertTo64(ar []float32) []float64 {
	newar := make([]float64, len(ar))
	var v float32
	var i int
	for i, v = range ar {
		newar[i] = float64(v)
	}
	return newar
}

// Split cuts flat row-major array into rows of the given size
func Split(flat []float32, dims int) [][]float64 {
	if dims <= 0 {
		return nil
	}
	rows := make([][]float64, len(flat)/dims)
	for i := 0; i <= len(flat)-dims; i = i + dims {
		rows[i/dims] = ConvertTo64(flat[i : i+dims])
	}
	return rows
}

// CheckDataset returns dimension of the rectangular dataset
func CheckDataset(data [][]float64) (int, error) {
	if len(data) == 0 {
		return 0, InvalidParameter("dataset is empty")
	}
	dims := len(data[0])
	if dims == 0 {
		return 0, InvalidParameter("dataset points have zero dimensions")
	}
	for i, row := range data {
		if len(row) != dims {
			return 0, InvalidParameter("point %d has %d dimensions, expected %d", i, len(row), dims)
		}
	}
	return dims, nil
}
