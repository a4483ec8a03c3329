package confidence

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/wager-analyst/internal/models"
)

func TestWilsonIntervalReferenceValues(t *testing.T) {
	ci, err := WilsonInterval(7, 10, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, ci.PointEstimate, 1e-12)
	assert.InDelta(t, 0.394, ci.LowerBound, 0.005)
	assert.InDelta(t, 0.893, ci.UpperBound, 0.005)
	assert.Equal(t, 0.95, ci.ConfidenceLevel)
}

func TestWilsonIntervalZeroTotal(t *testing.T) {
	ci, err := WilsonInterval(0, 0, 0.95)
	require.NoError(t, err)
	assert.Equal(t, models.ConfidenceInterval{}, ci)
}

func TestWilsonIntervalBounds(t *testing.T) {
	for _, level := range SupportedLevels() {
		for total := 1; total <= 60; total++ {
			for successes := 0; successes <= total; successes++ {
				ci, err := WilsonInterval(successes, total, level)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, ci.LowerBound, 0.0)
				assert.LessOrEqual(t, ci.LowerBound, ci.PointEstimate)
				assert.LessOrEqual(t, ci.PointEstimate, ci.UpperBound)
				assert.LessOrEqual(t, ci.UpperBound, 1.0)
			}
		}
	}
}

func TestWilsonIntervalNarrowsWithLevel(t *testing.T) {
	narrow, err := WilsonInterval(30, 50, 0.90)
	require.NoError(t, err)
	wide, err := WilsonInterval(30, 50, 0.99)
	require.NoError(t, err)
	assert.Less(t, narrow.Width(), wide.Width())
}

func TestWilsonIntervalInvalidInput(t *testing.T) {
	_, err := WilsonInterval(5, 3, 0.95)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))

	_, err = WilsonInterval(1, 3, 0.8)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestNormalCDF(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0.5},
		{1.96, 0.975},
		{-1.96, 0.025},
		{1.645, 0.95},
		{2.576, 0.995},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalCDF(tt.x), 1e-3)
	}
	assert.InDelta(t, 0.5*math.Erfc(-1.3/math.Sqrt2), NormalCDF(1.3), 1e-6)
}

func TestSignificanceAgainstExpectedRate(t *testing.T) {
	sig, err := Significance(70, 100, DefaultExpectedRate)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, sig.ZScore, 1e-9)
	assert.True(t, sig.IsSignificant)
	assert.Less(t, sig.PValue, 0.001)
	assert.Greater(t, sig.Confidence(), 0.99)

	sig, err = Significance(6, 10, DefaultExpectedRate)
	require.NoError(t, err)
	assert.False(t, sig.IsSignificant)
	assert.InDelta(t, 0.527, sig.PValue, 0.01)
}

func TestSignificanceZeroTotal(t *testing.T) {
	sig, err := Significance(0, 0, DefaultExpectedRate)
	require.NoError(t, err)
	assert.False(t, sig.IsSignificant)
	assert.Equal(t, 1.0, sig.PValue)
}

func TestSignificanceInvalidExpectedRate(t *testing.T) {
	_, err := Significance(1, 2, 1.0)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}
