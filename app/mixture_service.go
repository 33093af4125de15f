package app

import (
	"fmt"

	"normsim/adapters/intervals"
	"normsim/domain/core"
	"normsim/domain/experiment"
	"normsim/internal/mixture"
)

// MixtureService exposes the two-component decomposition and the remediation
// comparison against the naive pooled interval
type MixtureService struct{}

// NewMixtureService creates a mixture service
func NewMixtureService() *MixtureService {
	return &MixtureService{}
}

// FitMixture fits a two-component Gaussian mixture to the sample
func (s *MixtureService) FitMixture(sample []float64, maxIterations int, tolerance float64) (experiment.MixtureFit, error) {
	decomposer, err := mixture.NewDecomposer(maxIterations, tolerance)
	if err != nil {
		return experiment.MixtureFit{}, err
	}
	return decomposer.Fit(sample)
}

// MixtureComparison contrasts the naive single-center interval with
// per-component intervals computed over posterior-assigned observations
type MixtureComparison struct {
	PooledMean         float64                `json:"pooled_mean"`
	PooledInterval     experiment.Interval    `json:"pooled_interval"`
	Fit                experiment.MixtureFit  `json:"fit"`
	ComponentIntervals [2]experiment.Interval `json:"component_intervals"`
	ComponentSizes     [2]int                 `json:"component_sizes"`
}

// CompareMixture fits the mixture, hard-assigns each observation to its most
// probable component, and builds a classical interval per component next to
// the pooled one
func (s *MixtureService) CompareMixture(sample []float64, maxIterations int, tolerance, confidence float64) (*MixtureComparison, error) {
	fit, err := s.FitMixture(sample, maxIterations, tolerance)
	if err != nil {
		return nil, err
	}

	classical := intervals.NewClassical()
	pooled, err := classical.Build(sample, confidence)
	if err != nil {
		return nil, err
	}

	pooledMean := 0.0
	for _, x := range sample {
		pooledMean += x
	}
	pooledMean /= float64(len(sample))

	labels := mixture.PosteriorAssignments(sample, fit)
	groups := [2][]float64{}
	for i, x := range sample {
		groups[labels[i]] = append(groups[labels[i]], x)
	}

	comparison := &MixtureComparison{
		PooledMean:     pooledMean,
		PooledInterval: pooled,
		Fit:            fit,
	}
	for k := 0; k < 2; k++ {
		if len(groups[k]) < 2 {
			return nil, fmt.Errorf("%w: component %d has %d assigned observations, need at least 2",
				core.ErrInvalidDomain, k, len(groups[k]))
		}
		interval, err := classical.Build(groups[k], confidence)
		if err != nil {
			return nil, err
		}
		comparison.ComponentIntervals[k] = interval
		comparison.ComponentSizes[k] = len(groups[k])
	}
	return comparison, nil
}
