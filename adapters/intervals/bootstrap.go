package intervals

import (
	"fmt"
	"math/rand"

	"normsim/domain/core"
	"normsim/domain/experiment"
	"normsim/ports"

	"github.com/montanaflynn/stats"
)

// DefaultResamples is the recommended minimum for stable bootstrap quantiles
const DefaultResamples = 1000

// Bootstrap builds a percentile interval from the estimator's distribution
// over resamples drawn with replacement. This is an approximation; its own
// simulation variance shrinks with the resample count.
type Bootstrap struct {
	estimator ports.Estimator
	resamples int
	rng       *rand.Rand
}

// NewBootstrap creates a bootstrap percentile interval builder around the
// given estimator. Resample counts below DefaultResamples give noisy quantiles.
func NewBootstrap(estimator ports.Estimator, resamples int, rng *rand.Rand) (*Bootstrap, error) {
	if estimator == nil {
		return nil, core.NewParameterError("estimator", "must not be nil")
	}
	if resamples < 1 {
		return nil, core.NewParameterError("resamples", "must be at least 1")
	}
	if rng == nil {
		return nil, core.NewParameterError("rng", "must not be nil")
	}
	return &Bootstrap{estimator: estimator, resamples: resamples, rng: rng}, nil
}

var _ ports.IntervalBuilder = (*Bootstrap)(nil)

// Name returns the builder name
func (b *Bootstrap) Name() string {
	return fmt.Sprintf("bootstrap_%s", b.estimator.Name())
}

// Build resamples the sample with replacement, computes the estimator on each
// resample, and takes the (alpha/2, 1-alpha/2) empirical quantiles as bounds
func (b *Bootstrap) Build(sample []float64, confidence float64) (experiment.Interval, error) {
	if len(sample) == 0 {
		return experiment.Interval{}, core.ErrEmptySample
	}
	if err := validateConfidence(confidence); err != nil {
		return experiment.Interval{}, err
	}

	n := len(sample)
	resample := make([]float64, n)
	estimates := make([]float64, b.resamples)
	for r := 0; r < b.resamples; r++ {
		for i := range resample {
			resample[i] = sample[b.rng.Intn(n)]
		}
		estimate, err := b.estimator.Estimate(resample)
		if err != nil {
			return experiment.Interval{}, err
		}
		estimates[r] = estimate
	}

	alpha := 1 - confidence
	lower, err := stats.Percentile(estimates, 100*alpha/2)
	if err != nil {
		return experiment.Interval{}, err
	}
	upper, err := stats.Percentile(estimates, 100*(1-alpha/2))
	if err != nil {
		return experiment.Interval{}, err
	}
	return experiment.NewInterval(lower, upper)
}
