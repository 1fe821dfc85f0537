package common

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is returned for nonpositive bandwidth or repetitions,
	// empty or ragged datasets and other malformed construction params.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDimensionMismatch is returned when a vector length differs from the dataset dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// DimensionMismatchError holds the expected and actual vector lengths.
// errors.Is(err, ErrDimensionMismatch) reports true for it.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Is makes the error comparable with ErrDimensionMismatch
func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// NewDimensionMismatch builds DimensionMismatchError
func NewDimensionMismatch(expected, actual int) error {
	return &DimensionMismatchError{Expected: expected, Actual: actual}
}

// InvalidParameter wraps ErrInvalidParameter with the formatted reason
func InvalidParameter(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}
