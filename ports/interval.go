package ports

import (
	"normsim/domain/experiment"
)

// IntervalBuilder produces a two-sided interval meant to cover the true
// center at the given confidence level. The trial runner treats all builders
// uniformly through this contract.
type IntervalBuilder interface {
	Name() string
	Build(sample []float64, confidence float64) (experiment.Interval, error)
}

// Estimator computes a point estimate of location from a sample
type Estimator interface {
	Name() string
	Estimate(sample []float64) (float64, error)
}
