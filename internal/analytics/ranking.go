package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/yourusername/wager-analyst/internal/models"
)

// Composite score weights
const (
	winRateWeight     = 0.5
	totalWinsWeight   = 0.3
	recentFormWeight  = 0.2
	totalWinsCap      = 100.0
	maxBonus          = 5.0
	specializationMin = 10
	volumeMin         = 20
)

// RankingConfig configures team ranking
type RankingConfig struct {
	TopN           int
	BetTypeTopN    int
	MinBets        int
	MinBetTypeBets int
}

// DefaultRankingConfig returns the standard ranking settings
func DefaultRankingConfig() RankingConfig {
	return RankingConfig{
		TopN:           70,
		BetTypeTopN:    100,
		MinBets:        2,
		MinBetTypeBets: 3,
	}
}

// CompositeScore weights win rate, capped win volume and recent form. Rates are 0-100.
func CompositeScore(winRate float64, wins int, recentWinRate float64) float64 {
	volume := math.Min(float64(wins)*2, totalWinsCap)
	return winRateWeight*winRate + totalWinsWeight*volume + recentFormWeight*recentWinRate
}

// RankTeams sorts teams with at least MinBets bets by composite score and keeps the top N
func RankTeams(stats []models.TeamStat, cfg RankingConfig) []models.RankedTeam {
	ranked := make([]models.RankedTeam, 0, len(stats))
	for _, stat := range stats {
		if stat.TotalBets < cfg.MinBets {
			continue
		}
		ranked = append(ranked, models.RankedTeam{
			Team:           stat.Team,
			Country:        stat.Country,
			League:         stat.League,
			TotalBets:      stat.TotalBets,
			Wins:           stat.Wins,
			Losses:         stat.Losses,
			WinRate:        stat.WinRate,
			RecentWinRate:  stat.RecentWinRate,
			CompositeScore: CompositeScore(stat.WinRate, stat.Wins, stat.RecentWinRate),
			Stat:           stat,
		})
	}
	return finishRanking(ranked, cfg.TopN)
}

// RankTeamsByBetType ranks teams on their record for one bet type. Only teams with
// at least MinBetTypeBets settled bets of that type qualify.
func RankTeamsByBetType(stats []models.TeamStat, betType string, cfg RankingConfig) []models.RankedTeam {
	ranked := make([]models.RankedTeam, 0)
	for _, stat := range stats {
		sub, ok := BetTypeRecord(stat, betType)
		if !ok || sub.TotalWithResult < cfg.MinBetTypeBets {
			continue
		}
		score := CompositeScore(sub.WinRate, sub.Wins, stat.RecentWinRate) +
			specializationBonus(sub.TotalWithResult) +
			volumeBonus(sub.TotalWithResult)
		ranked = append(ranked, models.RankedTeam{
			Team:           stat.Team,
			Country:        stat.Country,
			League:         stat.League,
			BetType:        betType,
			TotalBets:      sub.TotalWithResult,
			Wins:           sub.Wins,
			Losses:         sub.Losses,
			WinRate:        sub.WinRate,
			RecentWinRate:  stat.RecentWinRate,
			CompositeScore: score,
			Stat:           stat,
		})
	}
	return finishRanking(ranked, cfg.BetTypeTopN)
}

// BetTypeRecord merges every breakdown entry whose name equals betType ignoring
// case and surrounding whitespace.
func BetTypeRecord(stat models.TeamStat, betType string) (models.BetTypeStat, bool) {
	return mergeBreakdown(stat.BetTypes, func(name string) bool {
		return normalizeBetType(name) == normalizeBetType(betType)
	})
}

// MatchBetTypeRecord merges every breakdown entry containing fragment, case-insensitively
func MatchBetTypeRecord(stat models.TeamStat, fragment string) (models.BetTypeStat, bool) {
	needle := normalizeBetType(fragment)
	return mergeBreakdown(stat.BetTypes, func(name string) bool {
		return strings.Contains(normalizeBetType(name), needle)
	})
}

// BestBetType returns the bet type with the highest settled win rate among those
// with at least minSettled settled bets. Ties go to the larger sample, then name.
func BestBetType(stat models.TeamStat, minSettled int) (string, models.BetTypeStat, bool) {
	names := make([]string, 0, len(stat.BetTypes))
	for name := range stat.BetTypes {
		names = append(names, name)
	}
	sort.Strings(names)

	bestName := ""
	var best models.BetTypeStat
	found := false
	for _, name := range names {
		breakdown := *stat.BetTypes[name]
		if breakdown.TotalWithResult < minSettled {
			continue
		}
		if !found ||
			breakdown.WinRate > best.WinRate ||
			(breakdown.WinRate == best.WinRate && breakdown.TotalWithResult > best.TotalWithResult) {
			bestName, best, found = name, breakdown, true
		}
	}
	return bestName, best, found
}

// BetTypes lists the distinct bet types with settled bets across all teams, sorted
func BetTypes(stats []models.TeamStat) []string {
	seen := make(map[string]struct{})
	for _, stat := range stats {
		for name := range stat.BetTypes {
			if strings.TrimSpace(name) == "" {
				continue
			}
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mergeBreakdown(breakdowns map[string]*models.BetTypeStat, match func(string) bool) (models.BetTypeStat, bool) {
	merged := models.BetTypeStat{}
	found := false
	for name, breakdown := range breakdowns {
		if !match(name) {
			continue
		}
		found = true
		merged.Wins += breakdown.Wins
		merged.Losses += breakdown.Losses
		merged.TotalWithResult += breakdown.TotalWithResult
	}
	merged.WinRate = models.Rate(merged.Wins, merged.TotalWithResult)
	return merged, found
}

func normalizeBetType(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func specializationBonus(total int) float64 {
	if total < specializationMin {
		return 0
	}
	return math.Min(maxBonus, float64(total-specializationMin)/10)
}

func volumeBonus(total int) float64 {
	if total < volumeMin {
		return 0
	}
	return math.Min(maxBonus, float64(total-volumeMin)/20)
}

func finishRanking(ranked []models.RankedTeam, topN int) []models.RankedTeam {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore > ranked[j].CompositeScore
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
