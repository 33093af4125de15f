package htest

import (
	"math"

	"normsim/adapters/estimators"
	"normsim/domain/core"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultAlpha is the conventional 5% significance level
const DefaultAlpha = 0.05

// OneSampleTTest performs the classical two-sided one-sample location test.
// In a calibration study the hypothesized value equals the spec's true
// center, so the long-run rejection rate of a well-calibrated test equals
// the significance level.
type OneSampleTTest struct {
	alpha float64
}

// NewOneSampleTTest creates a tester at the given significance level
func NewOneSampleTTest(alpha float64) (*OneSampleTTest, error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, core.NewParameterError("alpha", "must be in (0, 1)")
	}
	return &OneSampleTTest{alpha: alpha}, nil
}

// TestResult holds the test statistic, its p-value against the t-distribution
// with n-1 degrees of freedom, and the reject decision
type TestResult struct {
	TStatistic    float64 `json:"t_statistic"`
	PValue        float64 `json:"p_value"`
	CriticalValue float64 `json:"critical_value"`
	RejectNull    bool    `json:"reject_null"`
}

// Test computes t = (mean - hypothesized) / (sd/sqrt(n)) and compares |t|
// against the t critical value at n-1 degrees of freedom
func (tt *OneSampleTTest) Test(sample []float64, hypothesized float64) (TestResult, error) {
	if len(sample) == 0 {
		return TestResult{}, core.ErrEmptySample
	}
	if len(sample) < 2 {
		return TestResult{}, core.NewParameterError("sample_size", "t-test requires at least 2 observations")
	}

	mean, err := stats.Mean(sample)
	if err != nil {
		return TestResult{}, err
	}
	sd, err := estimators.StdDev(sample)
	if err != nil {
		return TestResult{}, err
	}

	n := float64(len(sample))
	se := sd / math.Sqrt(n)

	var tStat float64
	switch {
	case se > 0:
		tStat = (mean - hypothesized) / se
	case mean != hypothesized:
		tStat = math.Inf(1)
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 1}
	pValue := 2 * (1 - tDist.CDF(math.Abs(tStat)))
	critical := tDist.Quantile(1 - tt.alpha/2)

	return TestResult{
		TStatistic:    tStat,
		PValue:        pValue,
		CriticalValue: critical,
		RejectNull:    math.Abs(tStat) > critical,
	}, nil
}
