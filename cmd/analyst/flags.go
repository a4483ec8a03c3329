package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/wager-analyst/internal/models"
	"github.com/yourusername/wager-analyst/internal/query"
)

// parseQuery builds a query from FIELD=VALUE[@METRIC:OPERATOR:VALUE] flags
func parseQuery(specs []string) (query.Query, error) {
	filters := make([]query.Filter, 0, len(specs))
	for _, spec := range specs {
		f, err := parseFilter(spec)
		if err != nil {
			return query.Query{}, err
		}
		filters = append(filters, f)
	}
	return query.New(filters...), nil
}

func parseFilter(spec string) (query.Filter, error) {
	row, aggregate, hasAggregate := strings.Cut(spec, "@")

	field, value, ok := strings.Cut(row, "=")
	if !ok {
		return query.Filter{}, fmt.Errorf("%w: filter %q is not FIELD=VALUE", models.ErrInvalidInput, spec)
	}
	f, err := query.NewFilter(field, value)
	if err != nil {
		return query.Filter{}, err
	}
	if !hasAggregate {
		return f, nil
	}

	parts := strings.SplitN(aggregate, ":", 3)
	if len(parts) != 3 {
		return query.Filter{}, fmt.Errorf("%w: aggregate %q is not METRIC:OPERATOR:VALUE", models.ErrInvalidInput, aggregate)
	}
	return f.WithAggregate(parts[0], parts[1], parts[2])
}

func operatorNames() []query.Operator {
	ops := []query.Operator{query.OpEquals, query.OpGreaterThan, query.OpLessThan, query.OpContains}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

type patternFamilyName string

const (
	familySuccess patternFamilyName = "success"
	familyFailure patternFamilyName = "failure"
	familyTeam    patternFamilyName = "team"
	familyLeague  patternFamilyName = "league"
	familyBetslip patternFamilyName = "betslip"
)

var allFamilies = []patternFamilyName{familySuccess, familyFailure, familyTeam, familyLeague, familyBetslip}

func (f patternFamilyName) of(r models.PatternReport) []models.Pattern {
	switch f {
	case familySuccess:
		return r.Success
	case familyFailure:
		return r.Failure
	case familyTeam:
		return r.Team
	case familyLeague:
		return r.League
	case familyBetslip:
		return r.Betslip
	default:
		return nil
	}
}

func selectFamilies(name string) ([]patternFamilyName, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return allFamilies, nil
	}
	for _, f := range allFamilies {
		if string(f) == name {
			return []patternFamilyName{f}, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown pattern family %q", models.ErrInvalidInput, name)
}
