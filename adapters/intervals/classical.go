package intervals

import (
	"math"

	"normsim/adapters/estimators"
	"normsim/domain/core"
	"normsim/domain/experiment"
	"normsim/ports"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Classical builds the normal-approximation interval mean +/- z * sd/sqrt(n).
// It is defined for any sample and degrades silently when the normality
// assumption is violated; that miscalibration is the object of study.
type Classical struct{}

// NewClassical creates a classical normal-approximation interval builder
func NewClassical() *Classical {
	return &Classical{}
}

var _ ports.IntervalBuilder = (*Classical)(nil)

// Name returns the builder name
func (b *Classical) Name() string {
	return "classical"
}

// Build constructs the interval at the given confidence level
func (b *Classical) Build(sample []float64, confidence float64) (experiment.Interval, error) {
	if len(sample) == 0 {
		return experiment.Interval{}, core.ErrEmptySample
	}
	if err := validateConfidence(confidence); err != nil {
		return experiment.Interval{}, err
	}

	mean, err := stats.Mean(sample)
	if err != nil {
		return experiment.Interval{}, err
	}
	sd, err := estimators.StdDev(sample)
	if err != nil {
		return experiment.Interval{}, err
	}

	margin := criticalZ(confidence) * sd / math.Sqrt(float64(len(sample)))
	return experiment.NewInterval(mean-margin, mean+margin)
}

// criticalZ returns the two-sided standard normal critical value
// (1.959964 at 95%)
func criticalZ(confidence float64) float64 {
	alpha := 1 - confidence
	return distuv.UnitNormal.Quantile(1 - alpha/2)
}

func validateConfidence(confidence float64) error {
	if confidence <= 0 || confidence >= 1 {
		return core.NewParameterError("confidence", "must be in (0, 1)")
	}
	return nil
}
