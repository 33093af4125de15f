package estimators

import (
	"fmt"
	"sort"

	"normsim/domain/core"
	"normsim/ports"

	"github.com/montanaflynn/stats"
)

// Mean is the arithmetic average estimator
type Mean struct{}

// NewMean creates a mean estimator
func NewMean() *Mean {
	return &Mean{}
}

// Name returns the estimator name
func (e *Mean) Name() string {
	return "mean"
}

// Estimate computes the arithmetic average of the sample
func (e *Mean) Estimate(sample []float64) (float64, error) {
	if len(sample) == 0 {
		return 0, core.ErrEmptySample
	}
	return stats.Mean(sample)
}

// Median is the middle order statistic estimator, averaging the two central
// values when the sample size is even
type Median struct{}

// NewMedian creates a median estimator
func NewMedian() *Median {
	return &Median{}
}

// Name returns the estimator name
func (e *Median) Name() string {
	return "median"
}

// Estimate computes the sample median
func (e *Median) Estimate(sample []float64) (float64, error) {
	if len(sample) == 0 {
		return 0, core.ErrEmptySample
	}
	return stats.Median(sample)
}

// TrimmedMean averages the sample after dropping a fraction of each tail
type TrimmedMean struct {
	trim float64
}

// NewTrimmedMean creates a trimmed mean estimator dropping the given fraction
// from each tail of the sorted sample
func NewTrimmedMean(trim float64) (*TrimmedMean, error) {
	if trim < 0 || trim >= 0.5 {
		return nil, core.NewParameterError("trim", "must be in [0, 0.5)")
	}
	return &TrimmedMean{trim: trim}, nil
}

// Name returns the estimator name
func (e *TrimmedMean) Name() string {
	return fmt.Sprintf("trimmed_mean_%.0f", e.trim*100)
}

// Estimate sorts the sample, drops trim*n values from each tail, and averages
// the remainder. With trim < 0.5 at least one value always survives.
func (e *TrimmedMean) Estimate(sample []float64) (float64, error) {
	if len(sample) == 0 {
		return 0, core.ErrEmptySample
	}
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	cut := int(e.trim * float64(len(sorted)))
	return stats.Mean(sorted[cut : len(sorted)-cut])
}

// StdDev computes the sample standard deviation with the unbiased n-1 divisor
func StdDev(sample []float64) (float64, error) {
	if len(sample) == 0 {
		return 0, core.ErrEmptySample
	}
	return stats.StandardDeviationSample(sample)
}

var (
	_ ports.Estimator = (*Mean)(nil)
	_ ports.Estimator = (*Median)(nil)
	_ ports.Estimator = (*TrimmedMean)(nil)
)
