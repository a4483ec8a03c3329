package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/wager-analyst/internal/models"
	"github.com/yourusername/wager-analyst/internal/query"
)

func TestParseFilter(t *testing.T) {
	f, err := parseFilter("country=England")
	require.NoError(t, err)
	assert.Equal(t, query.FieldCountry, f.Field)
	assert.Equal(t, "England", f.Value)
	assert.False(t, f.HasAggregate())

	f, err = parseFilter("league=premier@win_rate:greaterThan:60")
	require.NoError(t, err)
	assert.True(t, f.HasAggregate())
	assert.Equal(t, query.MetricWinRate, f.Metric)
	assert.Equal(t, query.OpGreaterThan, f.Operator)
	assert.Equal(t, "60", f.MetricValue)

	f, err = parseFilter("odds_home=>1.5")
	require.NoError(t, err)
	assert.Equal(t, ">1.5", f.Value)
}

func TestParseFilterErrors(t *testing.T) {
	tests := []struct {
		spec string
		want error
	}{
		{"country", models.ErrInvalidInput},
		{"colour=red", models.ErrUnknownField},
		{"league=x@win_rate:greaterThan", models.ErrInvalidInput},
		{"league=x@luck:equals:1", models.ErrUnknownMetric},
		{"league=x@win_rate:between:1", models.ErrUnknownOperator},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := parseFilter(tt.spec)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseQuery(t *testing.T) {
	q, err := parseQuery([]string{"country=england", "bet_type=over"})
	require.NoError(t, err)
	assert.Equal(t, 2, q.Len())

	q, err = parseQuery(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, q.Len())
}

func TestSelectFamilies(t *testing.T) {
	all, err := selectFamilies("")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	one, err := selectFamilies(" League ")
	require.NoError(t, err)
	assert.Equal(t, []patternFamilyName{familyLeague}, one)

	_, err = selectFamilies("streaks")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	report := models.PatternReport{Betslip: []models.Pattern{{Key: "2-leg"}}}
	assert.Len(t, familyBetslip.of(report), 1)
	assert.Empty(t, familyTeam.of(report))
}

func TestRenderJSONAndTable(t *testing.T) {
	ranked := []models.RankedTeam{{Rank: 1, Team: "Arsenal", Country: "England", League: "Premier League",
		TotalBets: 6, Wins: 5, Losses: 1, WinRate: 83.3, CompositeScore: 61.2}}

	outputFormat = "json"
	var buf bytes.Buffer
	require.NoError(t, render(&buf, ranked, func(p *printer) { p.rankings(ranked) }))
	assert.Contains(t, buf.String(), `"team": "Arsenal"`)

	outputFormat = "table"
	buf.Reset()
	require.NoError(t, render(&buf, ranked, func(p *printer) { p.rankings(ranked) }))
	assert.Contains(t, buf.String(), "RANK")
	assert.Contains(t, buf.String(), "83.3%")
	assert.Contains(t, buf.String(), "5-1")
}
