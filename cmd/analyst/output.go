package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yourusername/wager-analyst/internal/models"
	"github.com/yourusername/wager-analyst/internal/query"
	"github.com/yourusername/wager-analyst/internal/service"
)

// printer writes aligned tables
type printer struct {
	w *tabwriter.Writer
}

// render writes v as indented JSON, or through table when the output is a table
func render(out io.Writer, v interface{}, table func(p *printer)) error {
	if outputFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	p := &printer{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
	table(p)
	return p.w.Flush()
}

func (p *printer) row(cols ...interface{}) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(p.w, strings.Join(parts, "\t"))
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func (p *printer) rankings(ranked []models.RankedTeam) {
	if len(ranked) == 0 {
		p.row("No teams qualify for ranking")
		return
	}
	p.row("RANK", "TEAM", "COUNTRY", "LEAGUE", "BETS", "W-L", "WIN RATE", "RECENT", "SCORE")
	for _, r := range ranked {
		p.row(r.Rank, r.Team, r.Country, r.League, r.TotalBets, fmt.Sprintf("%d-%d", r.Wins, r.Losses),
			pct(r.WinRate), pct(r.RecentWinRate), fmt.Sprintf("%.2f", r.CompositeScore))
	}
}

func (p *printer) recommendations(recs []models.Recommendation) {
	if len(recs) == 0 {
		p.row("No recommendations")
		return
	}
	p.row("RANK", "TEAM", "BET TYPE", "WIN RATE", "INTERVAL", "PROFIT P", "RISK", "LABEL")
	for _, r := range recs {
		ci := r.Risk.ConfidenceInterval
		p.row(r.Rank, r.Team, orDash(r.BetType), pct(r.WinRate),
			fmt.Sprintf("%.0f-%.0f%%", ci.LowerBound*100, ci.UpperBound*100),
			fmt.Sprintf("%.2f", r.Risk.MonteCarlo.ProfitProbability),
			fmt.Sprintf("%s (%d)", r.Risk.RiskLevel, r.Risk.RiskScore), r.ConfidenceLabel)
	}
}

func (p *printer) assessments(assessments []service.TeamAssessment) {
	for i, a := range assessments {
		if i > 0 {
			p.row("")
		}
		ci := a.Risk.ConfidenceInterval
		mc := a.Risk.MonteCarlo
		sig := a.Risk.Significance
		p.row("Team", fmt.Sprintf("%s (%s, %s)", a.Team, a.League, a.Country))
		p.row("Bet type", orDash(a.BetType))
		p.row("Record", fmt.Sprintf("%d-%d at %.2f avg odds", a.Wins, a.Losses, a.AvgOdds))
		p.row("Win rate", fmt.Sprintf("%.1f%% [%.1f%%, %.1f%%] at %.0f%%", ci.PointEstimate*100,
			ci.LowerBound*100, ci.UpperBound*100, ci.ConfidenceLevel*100))
		p.row("Significance", fmt.Sprintf("z=%.2f p=%.4f significant=%t", sig.ZScore, sig.PValue, sig.IsSignificant))
		p.row("Simulated ROI", fmt.Sprintf("mean %.1f%% median %.1f%% p10 %.1f%% p90 %.1f%%",
			mc.AvgROI, mc.MedianROI, mc.Percentile10, mc.Percentile90))
		p.row("Profit probability", fmt.Sprintf("%.2f", mc.ProfitProbability))
		p.row("Risk", fmt.Sprintf("%s (score %d)", a.Risk.RiskLevel, a.Risk.RiskScore))
		p.row("Label", a.Label)
	}
}

func (p *printer) patterns(family patternFamilyName, patterns []models.Pattern, max int) {
	p.row(strings.ToUpper(string(family)) + " PATTERNS")
	if len(patterns) == 0 {
		p.row("  none")
		p.row("")
		return
	}
	p.row("  KEY", "W-L", "WIN RATE")
	for i, pat := range patterns {
		if max > 0 && i >= max {
			p.row(fmt.Sprintf("  ... %d more", len(patterns)-max))
			break
		}
		p.row("  "+pat.Key, fmt.Sprintf("%d-%d", pat.Wins, pat.Losses), pct(pat.WinRate))
	}
	p.row("")
}

func (p *printer) matches(matches []query.Match) {
	if len(matches) == 0 {
		p.row("No matching teams")
		return
	}
	p.row("TEAM", "COUNTRY", "LEAGUE", "BETS", "WIN RATE", "SCORE")
	for _, m := range matches {
		if m.Stat == nil {
			p.row(m.Team, m.Country, m.League, "-", "-", "-")
			continue
		}
		p.row(m.Team, m.Country, m.League, m.Stat.TotalBets, pct(m.Stat.WinRate), fmt.Sprintf("%.2f", m.Stat.CompositeScore))
	}
}

func (p *printer) catalogue(fields []query.Field, metrics []query.Metric, operators []query.Operator) {
	p.row("FIELDS")
	for _, f := range fields {
		p.row("  "+strings.ToLower(string(f)), f.Kind())
	}
	p.row("METRICS")
	for _, m := range metrics {
		p.row("  " + string(m))
	}
	p.row("OPERATORS")
	for _, op := range operators {
		p.row("  " + string(op))
	}
}

func (p *printer) snapshot(s *models.PredictionSnapshot, cached bool) {
	source := "generated"
	if cached {
		source = "stored"
	}
	p.row("Snapshot", s.ID.String())
	p.row("Date", s.Date+" ("+source+")")
	p.row("Generated", s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	p.row("Records", s.RecordCount)
	p.row("Bet types ranked", len(s.BetTypeRankings))
	p.row("")
	p.recommendations(s.Recommendations)
}

func (p *printer) lines(lines []string) {
	for _, l := range lines {
		p.row(l)
	}
}

type importSummary struct {
	Metrics     service.IngestionSummary `json:"metrics"`
	StoredTotal int                      `json:"stored_total"`
}

func (p *printer) importSummary(s importSummary) {
	p.row("Fetched", s.Metrics.Fetched)
	p.row("Duplicates", s.Metrics.Duplicates)
	p.row("Invalid", s.Metrics.ValidationErrors)
	p.row("Inserted", s.Metrics.Inserted)
	p.row("Failed batches", s.Metrics.FailedBatches)
	p.row("Stored total", s.StoredTotal)
	p.row("Duration", s.Metrics.Duration)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
