package common

import (
	"errors"
	"testing"
)

func TestConvertTo64(t *testing.T) {
	res := ConvertTo64([]float32{0.5, -4, 3})
	if len(res) != 3 || res[0] != 0.5 || res[1] != -4.0 || res[2] != 3.0 {
		t.Fatalf("Wrong conversion: %v", res)
	}
}

func TestSplit(t *testing.T) {
	rows := Split([]float32{1, 2, 3, 4, 5, 6}, 3)
	if len(rows) != 2 || rows[1][0] != 4.0 || rows[1][2] != 6.0 {
		t.Fatalf("Wrong split: %v", rows)
	}
	if Split([]float32{1, 2}, 0) != nil {
		t.Fatal("Zero dims must give nil")
	}
}

func TestCheckDataset(t *testing.T) {
	dims, err := CheckDataset([][]float64{{1, 2}, {3, 4}})
	if err != nil || dims != 2 {
		t.Fatalf("Expected 2 dims, got %v (%v)", dims, err)
	}
	cases := [][][]float64{
		nil,
		{{}},
		{{1, 2}, {3}},
	}
	for _, c := range cases {
		_, err := CheckDataset(c)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("Expected invalid parameter error for %v, got %v", c, err)
		}
	}
}
