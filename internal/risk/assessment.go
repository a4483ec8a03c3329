package risk

import (
	"context"
	"fmt"

	"github.com/yourusername/wager-analyst/internal/confidence"
	"github.com/yourusername/wager-analyst/internal/models"
)

// Band awards Points when a factor clears Threshold
type Band struct {
	Threshold float64
	Points    int
}

// FactorRule scores one factor. Bonus bands are checked in order and the first
// match wins; Penalty applies when no bonus matched and the penalty test passes.
type FactorRule struct {
	Bonus            []Band
	PenaltyThreshold float64
	Penalty          int
}

// Policy is the table turning interval width, sample size, significance and
// profit probability into a risk score and tier.
type Policy struct {
	// Width bonuses apply below the threshold; the penalty applies above it.
	IntervalWidth FactorRule
	// Sample, significance and profit bonuses apply at or above the threshold;
	// their penalties apply below it.
	SampleSize        FactorRule
	Significance      FactorRule
	ProfitProbability FactorRule

	LowRiskScore    int
	MediumRiskScore int

	// MinSettled is the sample below which an assessment is flagged insufficient
	MinSettled int
}

// DefaultPolicy returns the standard scoring table
func DefaultPolicy() Policy {
	return Policy{
		IntervalWidth: FactorRule{
			Bonus:            []Band{{Threshold: 0.2, Points: 2}, {Threshold: 0.3, Points: 1}},
			PenaltyThreshold: 0.4,
			Penalty:          -2,
		},
		SampleSize: FactorRule{
			Bonus:            []Band{{Threshold: 50, Points: 2}, {Threshold: 20, Points: 1}},
			PenaltyThreshold: 10,
			Penalty:          -2,
		},
		Significance: FactorRule{
			Bonus:            []Band{{Threshold: 0.9, Points: 2}, {Threshold: 0.7, Points: 1}},
			PenaltyThreshold: 0.5,
			Penalty:          -1,
		},
		ProfitProbability: FactorRule{
			Bonus:            []Band{{Threshold: 0.8, Points: 2}, {Threshold: 0.6, Points: 1}},
			PenaltyThreshold: 0.4,
			Penalty:          -2,
		},
		LowRiskScore:    4,
		MediumRiskScore: 1,
		MinSettled:      10,
	}
}

// Score sums the four factor contributions
func (p Policy) Score(ci models.ConfidenceInterval, settled int, sig models.Significance, mc models.MonteCarloSummary) int {
	score := scoreBelow(p.IntervalWidth, ci.Width())
	score += scoreAtOrAbove(p.SampleSize, float64(settled))
	score += scoreAtOrAbove(p.Significance, sig.Confidence())
	score += scoreAtOrAbove(p.ProfitProbability, mc.ProfitProbability)
	return score
}

// Level maps a score onto a tier
func (p Policy) Level(score int) models.RiskLevel {
	switch {
	case score >= p.LowRiskScore:
		return models.RiskLow
	case score >= p.MediumRiskScore:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

func scoreBelow(rule FactorRule, value float64) int {
	for _, band := range rule.Bonus {
		if value < band.Threshold {
			return band.Points
		}
	}
	if value > rule.PenaltyThreshold {
		return rule.Penalty
	}
	return 0
}

func scoreAtOrAbove(rule FactorRule, value float64) int {
	for _, band := range rule.Bonus {
		if value >= band.Threshold {
			return band.Points
		}
	}
	if value < rule.PenaltyThreshold {
		return rule.Penalty
	}
	return 0
}

// Input is the settled record and odds assessed for one recommendation
type Input struct {
	Wins            int
	Losses          int
	AvgOdds         float64
	ConfidenceLevel float64
	ExpectedRate    float64
}

// Assessor combines the confidence engine, simulator and policy
type Assessor struct {
	policy     Policy
	monteCarlo MonteCarloConfig
}

// NewAssessor creates an assessor with the given policy and simulation settings
func NewAssessor(policy Policy, monteCarlo MonteCarloConfig) *Assessor {
	return &Assessor{policy: policy, monteCarlo: monteCarlo}
}

// Policy returns the scoring table in use
func (a *Assessor) Policy() Policy {
	return a.policy
}

// Assess scores a settled win/loss record
func (a *Assessor) Assess(ctx context.Context, in Input) (models.RiskAssessment, error) {
	if in.Wins < 0 || in.Losses < 0 {
		return models.RiskAssessment{}, fmt.Errorf("%w: negative win/loss counts", models.ErrInvalidInput)
	}
	level := in.ConfidenceLevel
	if level == 0 {
		level = confidence.DefaultLevel
	}
	expected := in.ExpectedRate
	if expected == 0 {
		expected = confidence.DefaultExpectedRate
	}
	settled := in.Wins + in.Losses

	ci, err := confidence.WilsonInterval(in.Wins, settled, level)
	if err != nil {
		return models.RiskAssessment{}, fmt.Errorf("failed to compute confidence interval: %w", err)
	}
	sig, err := confidence.Significance(in.Wins, settled, expected)
	if err != nil {
		return models.RiskAssessment{}, fmt.Errorf("failed to test significance: %w", err)
	}
	mc, err := Simulate(ctx, ci.PointEstimate, in.AvgOdds, a.monteCarlo)
	if err != nil {
		return models.RiskAssessment{}, err
	}

	score := a.policy.Score(ci, settled, sig, mc)
	return models.RiskAssessment{
		RiskLevel:          a.policy.Level(score),
		RiskScore:          score,
		ConfidenceInterval: ci,
		MonteCarlo:         mc,
		Significance:       sig,
		SampleSize:         settled,
		InsufficientData:   settled < a.policy.MinSettled,
	}, nil
}
