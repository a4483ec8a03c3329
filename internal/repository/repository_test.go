package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/wager-analyst/internal/database"
	"github.com/yourusername/wager-analyst/internal/models"
)

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	day, err := parseDate("2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), day)

	_, err = parseDate("09/03/2024")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestBetRecordRowNullables(t *testing.T) {
	row := betRecordRow(models.BetRecord{HomeTeam: "Arsenal", Result: models.ResultWin})
	require.Len(t, row, len(betRecordColumns))
	assert.Nil(t, row[0].(*time.Time))
	assert.Equal(t, "WIN", row[15])

	row = betRecordRow(models.BetRecord{Date: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)})
	require.NotNil(t, row[0].(*time.Time))
}

// TestBetRecordRepositoryRoundTrip requires a database
func TestBetRecordRepositoryRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	records := []models.BetRecord{
		{
			Date: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), Country: "England", League: "Premier League",
			HomeTeam: "Arsenal", AwayTeam: "Chelsea", BetType: "Double Chance", TeamIncluded: "Arsenal",
			OddsHome: float64Ptr(1.85), HomeScore: intPtr(2), AwayScore: intPtr(1), Result: models.ResultWin, BetID: "S1",
		},
		{HomeTeam: "Sevilla", AwayTeam: "Betis", Result: "Lost"},
	}
	require.NoError(t, repos.BetRecord.InsertBatch(ctx, records))

	count, err := repos.BetRecord.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := repos.BetRecord.FetchRecords(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-03-09", got[0].DateKey())
	require.NotNil(t, got[0].OddsHome)
	assert.InDelta(t, 1.85, *got[0].OddsHome, 1e-9)
	assert.Nil(t, got[0].OddsAway)
	assert.True(t, got[1].Date.IsZero())
	assert.Equal(t, models.Result("Lost"), got[1].Result)
}

// TestSnapshotRepositoryUpsert requires a database
func TestSnapshotRepositoryUpsert(t *testing.T) {
	db := database.SetupTestDB(t)
	repo := NewPostgresSnapshotRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, found, err := repo.Get(ctx, "2024-03-09")
	require.NoError(t, err)
	assert.False(t, found)

	first := &models.PredictionSnapshot{ID: uuid.New(), Date: "2024-03-09", GeneratedAt: time.Now().UTC(), RecordCount: 1}
	second := &models.PredictionSnapshot{ID: uuid.New(), Date: "2024-03-09", GeneratedAt: time.Now().UTC(), RecordCount: 2}
	require.NoError(t, repo.Put(ctx, first))
	require.NoError(t, repo.Put(ctx, second))

	got, found, err := repo.Get(ctx, "2024-03-09")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, 2, got.RecordCount)

	dates, err := repo.ListDates(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-09"}, dates)
}
