package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/wager-analyst/internal/database"
	"github.com/yourusername/wager-analyst/internal/models"
)

var betRecordColumns = []string{
	"bet_date", "country", "league", "home_team", "away_team", "bet_type", "bet_selection",
	"team_included", "odds_home", "odds_away", "odds_draw", "home_score", "away_score",
	"home_position", "away_position", "result", "bet_id",
}

// PostgresBetRecordRepository implements BetRecordRepository for PostgreSQL
type PostgresBetRecordRepository struct {
	db *database.DB
}

// NewPostgresBetRecordRepository creates a new bet record repository
func NewPostgresBetRecordRepository(db *database.DB) *PostgresBetRecordRepository {
	return &PostgresBetRecordRepository{db: db}
}

// Name identifies the repository as a record source
func (r *PostgresBetRecordRepository) Name() string {
	return "postgres"
}

// InsertBatch inserts records using COPY
func (r *PostgresBetRecordRepository) InsertBatch(ctx context.Context, records []models.BetRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([][]interface{}, len(records))
	for i, rec := range records {
		rows[i] = betRecordRow(rec)
	}

	count, err := r.db.GetPool().CopyFrom(ctx, pgx.Identifier{"bet_records"}, betRecordColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to batch insert bet records: %w", err)
	}
	if count != int64(len(records)) {
		return fmt.Errorf("inserted %d rows, expected %d", count, len(records))
	}
	return nil
}

// FetchRecords returns every stored record in insertion order
func (r *PostgresBetRecordRepository) FetchRecords(ctx context.Context) ([]models.BetRecord, error) {
	query := `
		SELECT bet_date, country, league, home_team, away_team, bet_type, bet_selection,
		       team_included, odds_home, odds_away, odds_draw, home_score, away_score,
		       home_position, away_position, result, bet_id
		FROM bet_records
		ORDER BY id
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query bet records: %w", err)
	}
	defer rows.Close()

	var records []models.BetRecord
	for rows.Next() {
		var (
			rec    models.BetRecord
			date   *time.Time
			result string
		)
		err := rows.Scan(
			&date, &rec.Country, &rec.League, &rec.HomeTeam, &rec.AwayTeam, &rec.BetType, &rec.BetSelection,
			&rec.TeamIncluded, &rec.OddsHome, &rec.OddsAway, &rec.OddsDraw, &rec.HomeScore, &rec.AwayScore,
			&rec.HomePosition, &rec.AwayPosition, &result, &rec.BetID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet record: %w", err)
		}
		if date != nil {
			rec.Date = *date
		}
		rec.Result = models.Result(result)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Count returns the number of stored records
func (r *PostgresBetRecordRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetPool().QueryRow(ctx, "SELECT COUNT(*) FROM bet_records").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count bet records: %w", err)
	}
	return n, nil
}

func betRecordRow(rec models.BetRecord) []interface{} {
	var date *time.Time
	if !rec.Date.IsZero() {
		d := rec.Date
		date = &d
	}
	return []interface{}{
		date, rec.Country, rec.League, rec.HomeTeam, rec.AwayTeam, rec.BetType, rec.BetSelection,
		rec.TeamIncluded, rec.OddsHome, rec.OddsAway, rec.OddsDraw, rec.HomeScore, rec.AwayScore,
		rec.HomePosition, rec.AwayPosition, string(rec.Result), rec.BetID,
	}
}
