package intervals

import (
	"math"
	"math/rand"
	"testing"

	"normsim/adapters/estimators"
	"normsim/domain/core"

	"github.com/montanaflynn/stats"
)

func TestClassical_KnownSample(t *testing.T) {
	sample := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	interval, err := NewClassical().Build(sample, 0.95)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mean, _ := stats.Mean(sample)
	sd, _ := stats.StandardDeviationSample(sample)
	wantMargin := 1.959964 * sd / math.Sqrt(10)

	if math.Abs((interval.Upper+interval.Lower)/2-mean) > 1e-9 {
		t.Errorf("interval not centered on the mean: [%g, %g]", interval.Lower, interval.Upper)
	}
	if math.Abs(interval.Width()-2*wantMargin) > 1e-4 {
		t.Errorf("width = %g, want %g", interval.Width(), 2*wantMargin)
	}
}

func TestClassical_InvalidInputs(t *testing.T) {
	classical := NewClassical()

	if _, err := classical.Build(nil, 0.95); !core.IsEmptySampleError(err) {
		t.Errorf("empty sample: expected EmptySample, got %v", err)
	}
	for _, confidence := range []float64{0, 1, -0.5, 1.5} {
		if _, err := classical.Build([]float64{1, 2}, confidence); !core.IsParameterError(err) {
			t.Errorf("confidence=%g: expected parameter error, got %v", confidence, err)
		}
	}
}

func TestLogSpace_RejectsNonPositiveValues(t *testing.T) {
	logSpace := NewLogSpace()

	for _, sample := range [][]float64{
		{1, 2, -3, 4},
		{1, 0, 2},
	} {
		_, err := logSpace.Build(sample, 0.95)
		if !core.IsDomainError(err) {
			t.Errorf("sample %v: expected domain error, got %v", sample, err)
		}
	}
}

func TestLogSpace_BackTransformedBounds(t *testing.T) {
	sample := []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4}

	interval, err := NewLogSpace().Build(sample, 0.95)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logs := make([]float64, len(sample))
	for i, v := range sample {
		logs[i] = math.Log(v)
	}
	logMean, _ := stats.Mean(logs)
	logVar, _ := stats.SampleVariance(logs)
	n := float64(len(sample))
	center := logMean + logVar/2
	se := math.Sqrt(logVar/n + logVar*logVar/(2*(n-1)))
	margin := 1.959964 * se

	if math.Abs(interval.Lower-math.Exp(center-margin)) > 1e-4 {
		t.Errorf("lower = %g, want %g", interval.Lower, math.Exp(center-margin))
	}
	if math.Abs(interval.Upper-math.Exp(center+margin)) > 1e-4 {
		t.Errorf("upper = %g, want %g", interval.Upper, math.Exp(center+margin))
	}
	if interval.Lower <= 0 {
		t.Error("back-transformed lower bound must stay positive")
	}
}

func TestBootstrap_DeterministicGivenStream(t *testing.T) {
	sample := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7}

	build := func(seed int64) (lower, upper float64) {
		builder, err := NewBootstrap(estimators.NewMedian(), 1000, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatal(err)
		}
		interval, err := builder.Build(sample, 0.95)
		if err != nil {
			t.Fatal(err)
		}
		return interval.Lower, interval.Upper
	}

	lo1, hi1 := build(7)
	lo2, hi2 := build(7)
	if lo1 != lo2 || hi1 != hi2 {
		t.Error("identical streams should give identical bootstrap intervals")
	}
}

func TestBootstrap_BracketsTheEstimate(t *testing.T) {
	sample := make([]float64, 200)
	rng := rand.New(rand.NewSource(5))
	for i := range sample {
		sample[i] = rng.NormFloat64()
	}

	median := estimators.NewMedian()
	builder, err := NewBootstrap(median, 2000, rand.New(rand.NewSource(8)))
	if err != nil {
		t.Fatal(err)
	}
	interval, err := builder.Build(sample, 0.95)
	if err != nil {
		t.Fatal(err)
	}

	estimate, _ := median.Estimate(sample)
	if !interval.Contains(estimate) {
		t.Errorf("interval [%g, %g] should bracket the point estimate %g", interval.Lower, interval.Upper, estimate)
	}
	if interval.Width() <= 0 {
		t.Error("bootstrap interval should have positive width on non-degenerate data")
	}
}

func TestBootstrap_InvalidConfiguration(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, err := NewBootstrap(nil, 1000, rng); !core.IsParameterError(err) {
		t.Errorf("nil estimator: expected parameter error, got %v", err)
	}
	if _, err := NewBootstrap(estimators.NewMean(), 0, rng); !core.IsParameterError(err) {
		t.Errorf("zero resamples: expected parameter error, got %v", err)
	}
	if _, err := NewBootstrap(estimators.NewMean(), 1000, nil); !core.IsParameterError(err) {
		t.Errorf("nil rng: expected parameter error, got %v", err)
	}
}
