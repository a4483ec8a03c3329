package patterns

import (
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

func slipBet(slipID string, day int, home, away, team string, result models.Result) models.BetRecord {
	r := bet(day, home, away, "Win", team, result)
	r.BetID = slipID
	return r
}

func sampleRecords() []models.BetRecord {
	return []models.BetRecord{
		bet(1, "A", "B", "Win", "A", models.ResultWin),
		bet(2, "A", "B", "Win", "A", models.ResultWin),
		bet(3, "A", "B", "Win", "A", models.ResultWin),
		bet(4, "A", "B", "Win", "A", models.ResultWin),
		bet(5, "C", "D", "BTTS", "D", models.ResultLoss),
		bet(6, "C", "D", "BTTS", "D", models.ResultLoss),
		bet(7, "C", "D", "BTTS", "D", models.ResultLoss),
		bet(8, "E", "F", "Win", "F", models.ResultWin),
		bet(9, "E", "F", "Win", "F", models.ResultLoss),
		bet(10, "E", "F", "Win", "F", models.ResultPending),
	}
}

func find(patterns []models.Pattern, key string) (models.Pattern, bool) {
	for _, p := range patterns {
		if p.Key == key {
			return p, true
		}
	}
	return models.Pattern{}, false
}

func TestCombinationsClassification(t *testing.T) {
	cfg := DefaultConfig()
	success, failure := Combinations(sampleRecords(), cfg)

	homeWin, ok := find(success, "Home + Win")
	require.True(t, ok)
	assert.Equal(t, 4, homeWin.Total)
	assert.Equal(t, 100.0, homeWin.WinRate)

	leagueWin, ok := find(success, "Win + Premier League")
	require.True(t, ok)
	assert.Equal(t, 6, leagueWin.Total)
	assert.Equal(t, 5, leagueWin.Wins)

	awayLeague, ok := find(failure, "Away + Premier League")
	require.True(t, ok)
	assert.Equal(t, 5, awayLeague.Total)
	assert.InDelta(t, 20.0, awayLeague.WinRate, 1e-9)

	_, ok = find(append(success, failure...), "Away + Win")
	assert.False(t, ok, "two settled bets is below the support floor")

	for _, p := range success {
		assert.GreaterOrEqual(t, p.WinRate, cfg.SuccessThreshold)
	}
	for _, p := range failure {
		assert.Less(t, p.WinRate, cfg.FailureThreshold)
	}
	for i := 1; i < len(success); i++ {
		assert.GreaterOrEqual(t, success[i-1].WinRate, success[i].WinRate)
	}
	for i := 1; i < len(failure); i++ {
		assert.LessOrEqual(t, failure[i-1].WinRate, failure[i].WinRate)
	}
}

func TestCombinationsIgnorePending(t *testing.T) {
	records := []models.BetRecord{
		bet(1, "A", "B", "Win", "A", models.ResultPending),
		bet(2, "A", "B", "Win", "A", models.ResultUnknown),
		bet(3, "A", "B", "Win", "A", ""),
	}
	success, failure := Combinations(records, DefaultConfig())
	assert.Empty(t, success)
	assert.Empty(t, failure)
}

func TestTeamAndLeaguePatterns(t *testing.T) {
	cfg := DefaultConfig()

	team := TeamPatterns(sampleRecords(), cfg)
	require.Len(t, team, 2)
	assert.Equal(t, "A + Win + Home", team[0].Key)
	assert.Equal(t, "D + BTTS + Away", team[1].Key)

	league := LeaguePatterns(sampleRecords(), cfg)
	require.Len(t, league, 2)
	assert.Equal(t, "Premier League + Win", league[0].Key)
	assert.Equal(t, 6, league[0].Total)
	assert.Equal(t, "Premier League + BTTS", league[1].Key)
}

func TestBetslipPatterns(t *testing.T) {
	records := []models.BetRecord{
		slipBet("s1", 1, "A", "B", "A", models.ResultWin),
		slipBet("s1", 1, "C", "F", "F", models.ResultWin),
		slipBet("s2", 2, "A", "B", "A", models.ResultWin),
		slipBet("s2", 2, "C", "F", "F", models.ResultLoss),
		slipBet("s3", 3, "A", "B", "A", models.ResultLoss),
		slipBet("s3", 3, "C", "F", "F", models.ResultLoss),
		slipBet("s4", 4, "A", "B", "A", models.ResultWin),
		slipBet("s4", 4, "C", "D", "C", models.ResultWin),
		slipBet("s4", 4, "E", "G", "E", models.ResultWin),
		slipBet("s5", 5, "A", "B", "A", models.ResultPending),
		slipBet("s5", 5, "C", "F", "F", models.ResultPending),
		bet(6, "A", "B", "Win", "A", models.ResultWin),
	}

	slips := BetslipPatterns(records, DefaultConfig())
	require.Len(t, slips, 1)
	assert.Equal(t, "2 bets + 1 bet types + mixed sides", slips[0].Key)
	assert.Equal(t, 1, slips[0].Wins)
	assert.Equal(t, 1, slips[0].Losses)
	assert.Equal(t, 3, slips[0].Total)
	assert.InDelta(t, 33.33, slips[0].WinRate, 0.01)
}

func TestSupportFloors(t *testing.T) {
	cfg := DefaultConfig()
	report := Mine(sampleRecords(), cfg)

	for _, family := range [][]models.Pattern{report.Success, report.Failure, report.Team, report.League} {
		for _, p := range family {
			assert.GreaterOrEqual(t, p.Total, cfg.MinSupport, p.Key)
		}
	}
	for _, p := range report.Betslip {
		assert.GreaterOrEqual(t, p.Total, cfg.SlipMinSupport, p.Key)
	}
}

func TestMineEmpty(t *testing.T) {
	report := Mine(nil, DefaultConfig())
	assert.Empty(t, report.Success)
	assert.Empty(t, report.Failure)
	assert.Empty(t, report.Team)
	assert.Empty(t, report.League)
	assert.Empty(t, report.Betslip)
}
