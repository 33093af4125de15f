package app

import (
	"fmt"
	"math"

	"normsim/domain/experiment"
	"normsim/ports"

	"github.com/montanaflynn/stats"
)

// ConvergencePoint records the sample mean at one sample size
type ConvergencePoint struct {
	SampleSize    int     `json:"n"`
	SampleMean    float64 `json:"sample_mean"`
	TrueCenter    float64 `json:"true_center"`
	AbsoluteError float64 `json:"absolute_error"`
}

// ConvergenceService tracks how the sample mean approaches the true center
// as the sample size grows. Each size re-draws from the same named stream,
// so larger samples extend smaller ones rather than resampling from scratch.
type ConvergenceService struct {
	sampler ports.Sampler
	rngPort ports.RNGPort
}

// NewConvergenceService creates a convergence tracking service
func NewConvergenceService(sampler ports.Sampler, rngPort ports.RNGPort) *ConvergenceService {
	return &ConvergenceService{sampler: sampler, rngPort: rngPort}
}

// TrackConvergence returns one point per sample size for the given spec
func (s *ConvergenceService) TrackConvergence(spec experiment.DistributionSpec, sampleSizes []int, seed int64) ([]ConvergencePoint, error) {
	points := make([]ConvergencePoint, 0, len(sampleSizes))
	streamName := fmt.Sprintf("convergence/%s", spec.Kind)

	for _, n := range sampleSizes {
		stream := s.rngPort.SeededStream(streamName, seed)
		sample, err := s.sampler.Generate(spec, n, stream)
		if err != nil {
			return nil, err
		}

		mean, err := stats.Mean(sample)
		if err != nil {
			return nil, err
		}

		points = append(points, ConvergencePoint{
			SampleSize:    n,
			SampleMean:    mean,
			TrueCenter:    spec.TrueCenter,
			AbsoluteError: math.Abs(mean - spec.TrueCenter),
		})
	}
	return points, nil
}
