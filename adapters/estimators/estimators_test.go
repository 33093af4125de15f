package estimators

import (
	"math"
	"testing"

	"normsim/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	mean := NewMean()

	value, err := mean.Estimate([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2.0, value)

	_, err = mean.Estimate(nil)
	assert.ErrorIs(t, err, core.ErrEmptySample)
}

func TestMedian(t *testing.T) {
	median := NewMedian()

	odd, err := median.Estimate([]float64{9, 1, 5})
	require.NoError(t, err)
	assert.Equal(t, 5.0, odd)

	// Even length averages the two central order statistics
	even, err := median.Estimate([]float64{4, 1, 3, 2})
	require.NoError(t, err)
	assert.Equal(t, 2.5, even)

	_, err = median.Estimate([]float64{})
	assert.ErrorIs(t, err, core.ErrEmptySample)
}

func TestTrimmedMean(t *testing.T) {
	trimmed, err := NewTrimmedMean(0.1)
	require.NoError(t, err)

	// One value cut from each tail of 1..10 leaves 2..9
	value, err := trimmed.Estimate([]float64{10, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(t, err)
	assert.Equal(t, 5.5, value)

	// Massive outlier removed entirely by the trim
	value, err = trimmed.Estimate([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 1e6})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, value, 1e-12)
}

func TestTrimmedMean_InvalidTrim(t *testing.T) {
	for _, trim := range []float64{0.5, 0.7, -0.1} {
		_, err := NewTrimmedMean(trim)
		assert.ErrorIs(t, err, core.ErrInvalidParameter, "trim=%g", trim)
	}
}

func TestTrimmedMean_SingleObservation(t *testing.T) {
	trimmed, err := NewTrimmedMean(0.4)
	require.NoError(t, err)

	// trim < 0.5 always leaves at least one value, even at n=1
	value, err := trimmed.Estimate([]float64{7})
	require.NoError(t, err)
	assert.Equal(t, 7.0, value)
}

func TestStdDev(t *testing.T) {
	// Unbiased n-1 divisor: var([2,4]) = 2
	sd, err := StdDev([]float64{2, 4})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, sd, 1e-12)

	_, err = StdDev(nil)
	assert.ErrorIs(t, err, core.ErrEmptySample)
}
