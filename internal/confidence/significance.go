package confidence

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/yourusername/wager-analyst/internal/models"
)

// DefaultExpectedRate is the null-hypothesis win rate
const DefaultExpectedRate = 0.5

// SignificanceThreshold is the p-value below which a record is significant
const SignificanceThreshold = 0.05

// Significance runs a two-tailed z-test of wins out of total against expectedRate
func Significance(wins, total int, expectedRate float64) (models.Significance, error) {
	if wins < 0 || total < 0 || wins > total {
		return models.Significance{}, fmt.Errorf("%w: %d wins out of %d", models.ErrInvalidInput, wins, total)
	}
	if expectedRate <= 0 || expectedRate >= 1 {
		return models.Significance{}, fmt.Errorf("%w: expected rate %v outside (0,1)", models.ErrInvalidInput, expectedRate)
	}
	result := models.Significance{ExpectedRate: expectedRate, PValue: 1}
	if total == 0 {
		return result, nil
	}

	n := float64(total)
	observed := float64(wins) / n
	standardError := math.Sqrt(expectedRate * (1 - expectedRate) / n)
	z := (observed - expectedRate) / standardError
	pValue := 2 * (1 - NormalCDF(math.Abs(z)))

	result.ObservedRate = observed
	result.ZScore = z
	result.PValue = math.Max(0, math.Min(1, pValue))
	result.IsSignificant = result.PValue < SignificanceThreshold
	return result, nil
}

// NormalCDF is the standard normal cumulative distribution function
func NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}
