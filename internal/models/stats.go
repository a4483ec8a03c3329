package models

// BetTypeStat is the settled record of an entity for one bet type
type BetTypeStat struct {
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	TotalWithResult int     `json:"total_with_result"`
	WinRate         float64 `json:"win_rate"`
}

// EntityStat holds the aggregate shared by teams, leagues and countries.
// Rates are on a 0-100 scale.
type EntityStat struct {
	TotalBets     int                     `json:"total_bets"`
	Wins          int                     `json:"wins"`
	Losses        int                     `json:"losses"`
	Pending       int                     `json:"pending"`
	WinRate       float64                 `json:"win_rate"`
	RecentBets    int                     `json:"recent_bets"`
	RecentWins    int                     `json:"recent_wins"`
	RecentLosses  int                     `json:"recent_losses"`
	RecentWinRate float64                 `json:"recent_win_rate"`
	BetTypes      map[string]*BetTypeStat `json:"bet_type_breakdown"`
	AvgOdds       float64                 `json:"avg_odds"`
}

// Settled returns the number of bets with a win or loss result
func (e EntityStat) Settled() int {
	return e.Wins + e.Losses
}

// TeamStat aggregates a team within one country and league
type TeamStat struct {
	Team    string `json:"team"`
	Country string `json:"country"`
	League  string `json:"league"`
	EntityStat
	CompositeScore float64 `json:"composite_score"`
}

// Key returns the (team, country, league) identity of the stat
func (t TeamStat) Key() TeamKey {
	return TeamKey{Team: t.Team, Country: t.Country, League: t.League}
}

// TeamKey identifies a TeamStat
type TeamKey struct {
	Team    string
	Country string
	League  string
}

// LeagueStat aggregates a league within a country
type LeagueStat struct {
	League  string `json:"league"`
	Country string `json:"country"`
	EntityStat
}

// CountryStat aggregates all leagues of a country
type CountryStat struct {
	Country string `json:"country"`
	EntityStat
}

// RankedTeam is a ranking row. For bet-type rankings the win figures are the
// bet-type sub-aggregate rather than the team's overall record.
type RankedTeam struct {
	Rank           int      `json:"rank"`
	Team           string   `json:"team"`
	Country        string   `json:"country"`
	League         string   `json:"league"`
	BetType        string   `json:"bet_type,omitempty"`
	TotalBets      int      `json:"total_bets"`
	Wins           int      `json:"wins"`
	Losses         int      `json:"losses"`
	WinRate        float64  `json:"win_rate"`
	RecentWinRate  float64  `json:"recent_win_rate"`
	CompositeScore float64  `json:"composite_score"`
	Stat           TeamStat `json:"-"`
}

// Rate returns numerator/denominator*100, or 0 when the denominator is zero
func Rate(numerator, denominator int) float64 {
	if denominator <= 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}
