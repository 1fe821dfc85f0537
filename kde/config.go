package kde

import (
	"math"

	cm "github.com/gasparian/lsh-kde-go/common"
	"github.com/gasparian/lsh-kde-go/lsh"
)

// DefaultConfig returns config with unit bandwidth and 100 repetitions
func DefaultConfig() Config {
	return Config{
		Bandwidth:   1.0,
		Repetitions: 100,
		Family:      lsh.FamilyAuto,
		Domain:      DomainFit,
	}
}

// Validate returns an error if any of the params are invalid
func (c Config) Validate() error {
	if !(c.Bandwidth > 0) || math.IsInf(c.Bandwidth, 1) {
		return cm.InvalidParameter("bandwidth must be positive and finite, got %v", c.Bandwidth)
	}
	if c.Repetitions <= 0 {
		return cm.InvalidParameter("repetitions must be positive, got %d", c.Repetitions)
	}
	if c.Workers < 0 {
		return cm.InvalidParameter("workers must be non-negative, got %d", c.Workers)
	}
	switch c.Family {
	case lsh.FamilyAuto, lsh.FamilyThreshold, lsh.FamilyBinning:
	default:
		return cm.InvalidParameter("unknown hasher family %v", c.Family)
	}
	switch c.Domain {
	case DomainFit, DomainUnit:
	default:
		return cm.InvalidParameter("unknown domain mode %d", c.Domain)
	}
	return nil
}
