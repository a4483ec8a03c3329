// Package risk simulates bet sequences and derives a risk tier for a win record.
package risk

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/wager-analyst/internal/models"
)

// Simulation defaults
const (
	DefaultSimulations  = 10000
	DefaultBetsPerTrial = 100
	DefaultFallbackOdds = 2.0
)

// MonteCarloConfig configures the simulator
type MonteCarloConfig struct {
	Simulations  int
	BetsPerTrial int
	// Workers bounds the goroutines sharing the trials. Zero means GOMAXPROCS.
	Workers int
	// Seed of zero draws a time-based seed.
	Seed int64
	// FallbackOdds replaces a non-positive average odds input.
	FallbackOdds float64
}

// DefaultMonteCarloConfig returns the standard simulation settings
func DefaultMonteCarloConfig() MonteCarloConfig {
	return MonteCarloConfig{
		Simulations:  DefaultSimulations,
		BetsPerTrial: DefaultBetsPerTrial,
		FallbackOdds: DefaultFallbackOdds,
	}
}

// Simulate runs independent trials of BetsPerTrial Bernoulli bets at winRate (0-1),
// each win paying odds-1 and each loss costing one unit, and summarises trial ROI.
func Simulate(ctx context.Context, winRate, avgOdds float64, cfg MonteCarloConfig) (models.MonteCarloSummary, error) {
	if math.IsNaN(winRate) || winRate < 0 || winRate > 1 {
		return models.MonteCarloSummary{}, fmt.Errorf("%w: win rate %v outside [0,1]", models.ErrInvalidInput, winRate)
	}
	if cfg.Simulations < 0 || cfg.BetsPerTrial < 0 {
		return models.MonteCarloSummary{}, fmt.Errorf("%w: negative simulation size", models.ErrInvalidInput)
	}
	if cfg.Simulations == 0 {
		cfg.Simulations = DefaultSimulations
	}
	if cfg.BetsPerTrial == 0 {
		cfg.BetsPerTrial = DefaultBetsPerTrial
	}
	if cfg.FallbackOdds <= 0 {
		cfg.FallbackOdds = DefaultFallbackOdds
	}
	odds := avgOdds
	if odds <= 0 {
		odds = cfg.FallbackOdds
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > cfg.Simulations {
		workers = cfg.Simulations
	}

	rois := make([]float64, cfg.Simulations)
	chunk := (cfg.Simulations + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, cfg.Simulations)
		if start >= end {
			break
		}
		rng := rand.New(rand.NewSource(seed + int64(w)))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if i%1000 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				rois[i] = runTrial(rng, winRate, odds, cfg.BetsPerTrial)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.MonteCarloSummary{}, fmt.Errorf("monte carlo simulation interrupted: %w", err)
	}

	sort.Float64s(rois)
	return models.MonteCarloSummary{
		Simulations:          cfg.Simulations,
		BetsPerSimulation:    cfg.BetsPerTrial,
		WinRate:              winRate,
		AvgOdds:              odds,
		AvgROI:               stat.Mean(rois, nil),
		MedianROI:            median(rois),
		ProfitProbability:    probabilityAbove(rois, 0),
		BreakEvenProbability: probabilityAtOrAbove(rois, 0),
		Percentile10:         percentile(rois, 0.10),
		Percentile25:         percentile(rois, 0.25),
		Percentile75:         percentile(rois, 0.75),
		Percentile90:         percentile(rois, 0.90),
	}, nil
}

func runTrial(rng *rand.Rand, winRate, odds float64, bets int) float64 {
	total := 0.0
	for b := 0; b < bets; b++ {
		if rng.Float64() < winRate {
			total += odds - 1
		} else {
			total--
		}
	}
	return total / float64(bets) * 100
}

// median expects sorted input
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// percentile expects sorted input
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	idx = max(0, min(idx, len(sorted)-1))
	return sorted[idx]
}

func probabilityAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func probabilityAtOrAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v >= threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}
