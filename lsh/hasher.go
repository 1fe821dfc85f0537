package lsh

import (
	"fmt"
	"math/rand/v2"
)

// SelectFamily returns threshold family for bandwidth >= 1, binning otherwise
func SelectFamily(bandwidth float64) Family {
	if bandwidth >= 1 {
		return FamilyThreshold
	}
	return FamilyBinning
}

// Resolve replaces FamilyAuto with the family selected by the bandwidth
func (f Family) Resolve(bandwidth float64) Family {
	if f == FamilyAuto {
		return SelectFamily(bandwidth)
	}
	return f
}

func (f Family) String() string {
	switch f {
	case FamilyAuto:
		return "auto"
	case FamilyThreshold:
		return "threshold"
	case FamilyBinning:
		return "binning"
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// New creates hasher of the given family; all randomness is taken from src
func New(family Family, domain Domain, scale float64, src rand.Source) (Hasher, error) {
	switch family {
	case FamilyThreshold:
		return NewThreshold(domain, scale, src)
	case FamilyBinning:
		return NewBinning(domain, scale, src)
	}
	return nil, fmt.Errorf("lsh: unknown hasher family %v", family)
}
