// Package confidence computes Wilson score intervals and z-test significance
// for binomial win records.
package confidence

import (
	"fmt"
	"math"

	"github.com/yourusername/wager-analyst/internal/models"
)

// DefaultLevel is the confidence level used when none is configured
const DefaultLevel = 0.95

var zScores = map[float64]float64{
	0.90: 1.645,
	0.95: 1.96,
	0.99: 2.576,
}

// SupportedLevels lists the confidence levels with a tabulated z-score
func SupportedLevels() []float64 {
	return []float64{0.90, 0.95, 0.99}
}

// ZScore returns the two-sided critical value for a supported level
func ZScore(level float64) (float64, error) {
	z, ok := zScores[level]
	if !ok {
		return 0, fmt.Errorf("%w: unsupported confidence level %v", models.ErrInvalidInput, level)
	}
	return z, nil
}

// WilsonInterval computes the Wilson score interval for successes out of total.
// A zero total yields an all-zero interval.
func WilsonInterval(successes, total int, level float64) (models.ConfidenceInterval, error) {
	z, err := ZScore(level)
	if err != nil {
		return models.ConfidenceInterval{}, err
	}
	if successes < 0 || total < 0 || successes > total {
		return models.ConfidenceInterval{}, fmt.Errorf("%w: %d successes out of %d", models.ErrInvalidInput, successes, total)
	}
	if total == 0 {
		return models.ConfidenceInterval{}, nil
	}

	n := float64(total)
	p := float64(successes) / n
	z2 := z * z
	denominator := 1 + z2/n
	center := (p + z2/(2*n)) / denominator
	margin := z * math.Sqrt(p*(1-p)/n+z2/(4*n*n)) / denominator

	// the interval always contains p; clamp rounding drift at the edges
	lower := math.Min(clamp(center-margin), p)
	upper := math.Max(clamp(center+margin), p)

	return models.ConfidenceInterval{
		PointEstimate:   p,
		LowerBound:      lower,
		UpperBound:      upper,
		Margin:          margin,
		ConfidenceLevel: level,
	}, nil
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
