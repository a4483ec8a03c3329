package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/wager-analyst/internal/models"
)

var baseDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func bet(day int, home, away, betType, team string, result models.Result) models.BetRecord {
	return models.BetRecord{
		Date:         baseDate.AddDate(0, 0, day),
		Country:      "England",
		League:       "Premier League",
		HomeTeam:     home,
		AwayTeam:     away,
		BetType:      betType,
		BetSelection: team,
		TeamIncluded: team,
		Result:       result,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestDeduplicateKeepsFirstSeen(t *testing.T) {
	first := models.BetRecord{Date: baseDate, HomeTeam: "A", AwayTeam: "B", BetType: "Win", BetSelection: "1", TeamIncluded: "A", Result: models.ResultWin}
	dup := first
	dup.Result = models.ResultLoss

	unique := Deduplicate([]models.BetRecord{first, dup, first})
	require.Len(t, unique, 1)
	assert.Equal(t, models.ResultWin, unique[0].Result)
}

func TestDeduplicateIdempotent(t *testing.T) {
	records := []models.BetRecord{
		bet(1, "A", "B", "Win", "A", models.ResultWin),
		bet(1, "A", "B", "Win", "A", models.ResultLoss),
		bet(2, "A", "C", "Win", "A", models.ResultWin),
		bet(2, "A", "C", "Double Chance", "A", models.ResultWin),
		{},
		{},
	}

	once := Deduplicate(records)
	twice := Deduplicate(once)
	assert.Equal(t, once, twice)
	assert.Len(t, once, 4)

	keys := map[string]int{}
	for _, r := range once {
		keys[r.IdentityKey()]++
	}
	for key, count := range keys {
		assert.Equal(t, 1, count, "key %s", key)
	}
}

func TestResolveTeam(t *testing.T) {
	tests := []struct {
		name   string
		record models.BetRecord
		team   string
		ok     bool
	}{
		{"team included", models.BetRecord{TeamIncluded: "Arsenal", HomeTeam: "Chelsea"}, "Arsenal", true},
		{"home fallback", models.BetRecord{HomeTeam: "Chelsea", AwayTeam: "Leeds"}, "Chelsea", true},
		{"away fallback", models.BetRecord{AwayTeam: "Leeds"}, "Leeds", true},
		{"pseudo team", models.BetRecord{TeamIncluded: "Over 1.5", HomeTeam: "Chelsea"}, "", false},
		{"selection code", models.BetRecord{TeamIncluded: "1X", HomeTeam: "Chelsea"}, "", false},
		{"btts answer", models.BetRecord{TeamIncluded: "Yes", AwayTeam: "Leeds"}, "", false},
		{"code inside a name", models.BetRecord{TeamIncluded: "Norwich"}, "Norwich", true},
		{"nothing", models.BetRecord{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			team, ok := ResolveTeam(tt.record)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.team, team)
		})
	}
}

func TestAggregateTeamsCountsAndRates(t *testing.T) {
	records := []models.BetRecord{
		bet(1, "A", "B", "Win", "A", models.ResultWin),
		bet(2, "A", "C", "Win", "A", models.ResultLoss),
		bet(3, "D", "A", "Win", "A", models.ResultPending),
		bet(4, "E", "A", "Win", "A", ""),
		bet(5, "A", "F", "Double Chance", "A", "Win"),
		bet(6, "G", "H", "Over 2.5", "Over 2.5", models.ResultWin),
	}

	stats := AggregateTeams(records, DefaultAggregationConfig())
	require.Len(t, stats, 1)
	stat := stats[0]
	assert.Equal(t, "A", stat.Team)
	assert.Equal(t, 5, stat.TotalBets)
	assert.Equal(t, 2, stat.Wins)
	assert.Equal(t, 1, stat.Losses)
	assert.Equal(t, 2, stat.Pending)
	assert.InDelta(t, 66.666, stat.WinRate, 0.01)
	require.Contains(t, stat.BetTypes, "Win")
	assert.Equal(t, 2, stat.BetTypes["Win"].TotalWithResult)
	assert.InDelta(t, 50.0, stat.BetTypes["Win"].WinRate, 1e-9)
	assert.Equal(t, 1, stat.BetTypes["Double Chance"].Wins)
}

func TestAggregateTeamsRecentWindow(t *testing.T) {
	records := make([]models.BetRecord, 0, 15)
	for day := 0; day < 15; day++ {
		result := models.ResultLoss
		if day >= 10 {
			result = models.ResultWin
		}
		records = append(records, bet(day, "A", fmt.Sprintf("Opp%d", day), "Win", "A", result))
	}

	stats := AggregateTeams(records, DefaultAggregationConfig())
	require.Len(t, stats, 1)
	assert.Equal(t, 10, stats[0].RecentBets)
	assert.Equal(t, 5, stats[0].RecentWins)
	assert.Equal(t, 5, stats[0].RecentLosses)
	assert.InDelta(t, 50.0, stats[0].RecentWinRate, 1e-9)
}

func TestAggregateRateBounds(t *testing.T) {
	records := []models.BetRecord{
		bet(1, "A", "B", "Win", "A", models.ResultPending),
		bet(2, "C", "D", "Win", "C", models.ResultWin),
		bet(3, "E", "F", "Win", "E", models.ResultLoss),
	}
	for _, stat := range AggregateTeams(records, DefaultAggregationConfig()) {
		assert.GreaterOrEqual(t, stat.WinRate, 0.0)
		assert.LessOrEqual(t, stat.WinRate, 100.0)
		if stat.Wins+stat.Losses == 0 {
			assert.Zero(t, stat.WinRate)
		}
	}
}

func TestAggregateLeaguesAndCountriesAvgOdds(t *testing.T) {
	home := bet(1, "A", "B", "Win", "A", models.ResultWin)
	home.OddsHome = floatPtr(2.0)
	away := bet(2, "C", "D", "Win", "D", models.ResultLoss)
	away.OddsAway = floatPtr(3.0)
	noOdds := bet(3, "E", "F", "Win", "E", models.ResultWin)
	other := bet(4, "G", "H", "Win", "G", models.ResultWin)
	other.League = "Serie A"
	other.Country = "Italy"
	other.OddsHome = floatPtr(0)

	records := []models.BetRecord{home, away, noOdds, other}
	leagues := AggregateLeagues(records, DefaultAggregationConfig())
	require.Len(t, leagues, 2)
	assert.Equal(t, "Premier League", leagues[0].League)
	assert.Equal(t, 3, leagues[0].TotalBets)
	assert.InDelta(t, 2.5, leagues[0].AvgOdds, 1e-9)
	assert.Zero(t, leagues[1].AvgOdds)

	countries := AggregateCountries(records, DefaultAggregationConfig())
	require.Len(t, countries, 2)
	assert.Equal(t, "England", countries[0].Country)
	assert.InDelta(t, 66.666, countries[0].WinRate, 0.01)
}

func TestCompositeScore(t *testing.T) {
	assert.InDelta(t, 0.5*70+0.3*14+0.2*60, CompositeScore(70, 7, 60), 1e-9)
	assert.InDelta(t, 0.5*100+0.3*100+0.2*100, CompositeScore(100, 80, 100), 1e-9)
}

func TestRankTeamsExcludesSmallSamples(t *testing.T) {
	records := []models.BetRecord{
		bet(1, "A", "B", "Win", "A", models.ResultWin),
		bet(2, "A", "C", "Win", "A", models.ResultWin),
		bet(3, "D", "E", "Win", "D", models.ResultWin),
		bet(4, "F", "G", "Win", "F", models.ResultWin),
		bet(5, "F", "H", "Win", "F", models.ResultLoss),
	}
	ranked := RankTeams(AggregateTeams(records, DefaultAggregationConfig()), DefaultRankingConfig())
	require.Len(t, ranked, 2)
	assert.Equal(t, "A", ranked[0].Team)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "F", ranked[1].Team)
	for _, r := range ranked {
		assert.GreaterOrEqual(t, r.TotalBets, 2)
	}
}

func TestRankTeamsTopN(t *testing.T) {
	records := make([]models.BetRecord, 0)
	for i := 0; i < 10; i++ {
		team := fmt.Sprintf("T%02d", i)
		records = append(records,
			bet(i, team, "X", "Win", team, models.ResultWin),
			bet(i+20, team, "Y", "Win", team, models.ResultLoss))
	}
	cfg := DefaultRankingConfig()
	cfg.TopN = 3
	assert.Len(t, RankTeams(AggregateTeams(records, DefaultAggregationConfig()), cfg), 3)
}

func TestRankTeamsByBetTypeFloor(t *testing.T) {
	records := []models.BetRecord{
		bet(1, "A", "B", "Double Chance", "A", models.ResultWin),
		bet(2, "A", "C", "Double Chance", "A", models.ResultWin),
		bet(3, "A", "D", "double chance ", "A", models.ResultLoss),
		bet(4, "E", "F", "Double Chance", "E", models.ResultWin),
		bet(5, "E", "G", "Double Chance", "E", models.ResultWin),
		bet(6, "E", "H", "Double Chance", "E", models.ResultPending),
		bet(7, "E", "I", "Win", "E", models.ResultWin),
	}
	stats := AggregateTeams(records, DefaultAggregationConfig())
	ranked := RankTeamsByBetType(stats, "Double Chance", DefaultRankingConfig())
	require.Len(t, ranked, 1)
	assert.Equal(t, "A", ranked[0].Team)
	assert.Equal(t, 3, ranked[0].TotalBets)
	assert.Equal(t, 2, ranked[0].Wins)
	for _, r := range ranked {
		assert.GreaterOrEqual(t, r.TotalBets, 3)
	}
}

func TestRankTeamsByBetTypeBonuses(t *testing.T) {
	records := make([]models.BetRecord, 0, 30)
	for i := 0; i < 30; i++ {
		records = append(records, bet(i, "A", fmt.Sprintf("O%d", i), "Win", "A", models.ResultWin))
	}
	stats := AggregateTeams(records, DefaultAggregationConfig())
	ranked := RankTeamsByBetType(stats, "Win", DefaultRankingConfig())
	require.Len(t, ranked, 1)

	base := CompositeScore(100, 30, 100)
	assert.InDelta(t, base+2.0+0.5, ranked[0].CompositeScore, 1e-9)
}

func TestBestBetType(t *testing.T) {
	records := []models.BetRecord{
		bet(1, "A", "B", "Win", "A", models.ResultWin),
		bet(2, "A", "C", "Win", "A", models.ResultLoss),
		bet(3, "A", "D", "Win", "A", models.ResultWin),
		bet(4, "A", "E", "Double Chance", "A", models.ResultWin),
		bet(5, "A", "F", "Double Chance", "A", models.ResultWin),
		bet(6, "A", "G", "Double Chance", "A", models.ResultWin),
		bet(7, "A", "H", "BTTS", "A", models.ResultWin),
	}
	stats := AggregateTeams(records, DefaultAggregationConfig())
	name, record, ok := BestBetType(stats[0], 3)
	require.True(t, ok)
	assert.Equal(t, "Double Chance", name)
	assert.Equal(t, 3, record.Wins)

	_, _, ok = BestBetType(stats[0], 10)
	assert.False(t, ok)
}

func TestMatchBetTypeRecordMergesFragments(t *testing.T) {
	records := []models.BetRecord{
		bet(1, "A", "B", "Double Chance 1X", "A", models.ResultWin),
		bet(2, "A", "C", "Double Chance X2", "A", models.ResultLoss),
		bet(3, "A", "D", "Win", "A", models.ResultWin),
	}
	stats := AggregateTeams(records, DefaultAggregationConfig())
	merged, ok := MatchBetTypeRecord(stats[0], "double chance")
	require.True(t, ok)
	assert.Equal(t, 2, merged.TotalWithResult)
	assert.InDelta(t, 50.0, merged.WinRate, 1e-9)

	_, ok = MatchBetTypeRecord(stats[0], "corners")
	assert.False(t, ok)
}

func TestBetTypes(t *testing.T) {
	records := []models.BetRecord{
		bet(1, "A", "B", "Win", "A", models.ResultWin),
		bet(2, "C", "D", "BTTS", "C", models.ResultLoss),
		bet(3, "C", "E", "Draw No Bet", "C", models.ResultPending),
	}
	assert.Equal(t, []string{"BTTS", "Win"}, BetTypes(AggregateTeams(records, DefaultAggregationConfig())))
}
