// Package analytics deduplicates wager records, aggregates them per team, league
// and country, and ranks teams by composite score.
package analytics

import "github.com/yourusername/wager-analyst/internal/models"

// Deduplicate keeps the first record seen for each identity key and preserves
// input order. Records with missing key fields collide on empty strings.
func Deduplicate(records []models.BetRecord) []models.BetRecord {
	seen := make(map[string]struct{}, len(records))
	unique := make([]models.BetRecord, 0, len(records))
	for _, record := range records {
		key := record.IdentityKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, record)
	}
	return unique
}
