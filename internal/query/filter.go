package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yourusername/wager-analyst/internal/models"
)

const numericTolerance = 1e-9

// Filter is a row predicate on Field with an optional aggregate predicate.
// An empty Value matches every row.
type Filter struct {
	Field       Field    `json:"field"`
	Value       string   `json:"value"`
	Metric      Metric   `json:"metric,omitempty"`
	Operator    Operator `json:"operator,omitempty"`
	MetricValue string   `json:"metric_value,omitempty"`
}

// NewFilter builds a row-level filter, rejecting unknown field names
func NewFilter(field, value string) (Filter, error) {
	f, err := ParseField(field)
	if err != nil {
		return Filter{}, err
	}
	return Filter{Field: f, Value: value}, nil
}

// WithAggregate returns a copy of f carrying an aggregate predicate
func (f Filter) WithAggregate(metric, operator, metricValue string) (Filter, error) {
	m, err := ParseMetric(metric)
	if err != nil {
		return Filter{}, err
	}
	op, err := ParseOperator(operator)
	if err != nil {
		return Filter{}, err
	}
	f.Metric = m
	f.Operator = op
	f.MetricValue = metricValue
	return f, nil
}

// HasAggregate reports whether the filter carries a metric predicate
func (f Filter) HasAggregate() bool {
	return f.Metric != "" && f.Operator != ""
}

// MatchRecord applies the row predicate. Numeric fields accept a leading '>'
// or '<' for greaterThan/lessThan and compare by value; when either side does
// not parse as a number the comparison falls back to substring matching.
func (f Filter) MatchRecord(r models.BetRecord) bool {
	acc, ok := fieldTable[f.Field]
	if !ok {
		return false
	}
	want := strings.TrimSpace(f.Value)
	if want == "" {
		return true
	}
	got := acc.extract(r)
	if acc.kind == KindNumeric {
		if matched, compared := compareNumeric(got, want); compared {
			return matched
		}
	}
	return containsFold(got.String(), want)
}

func compareNumeric(got Value, want string) (matched bool, compared bool) {
	op := OpEquals
	raw := want
	switch {
	case strings.HasPrefix(raw, ">"):
		op, raw = OpGreaterThan, raw[1:]
	case strings.HasPrefix(raw, "<"):
		op, raw = OpLessThan, raw[1:]
	case strings.HasPrefix(raw, "="):
		raw = raw[1:]
	}
	target, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !got.Valid {
		return false, false
	}
	return applyNumeric(op, got.Number, target), true
}

func applyNumeric(op Operator, got, target float64) bool {
	switch op {
	case OpEquals:
		return math.Abs(got-target) <= numericTolerance
	case OpGreaterThan:
		return got > target
	case OpLessThan:
		return got < target
	default:
		return false
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Query is an immutable list of AND-combined filters. Every builder method
// returns a new Query and leaves the receiver untouched.
type Query struct {
	filters []Filter
}

// New creates a query from filters
func New(filters ...Filter) Query {
	return Query{filters: append([]Filter(nil), filters...)}
}

// Filters returns a copy of the query's filters
func (q Query) Filters() []Filter {
	return append([]Filter(nil), q.filters...)
}

// Len returns the number of filters
func (q Query) Len() int {
	return len(q.filters)
}

// Add appends a filter
func (q Query) Add(f Filter) Query {
	next := make([]Filter, 0, len(q.filters)+1)
	next = append(next, q.filters...)
	return Query{filters: append(next, f)}
}

// Remove drops the filter at index i
func (q Query) Remove(i int) (Query, error) {
	if i < 0 || i >= len(q.filters) {
		return q, fmt.Errorf("%w: filter index %d out of range", models.ErrInvalidInput, i)
	}
	next := make([]Filter, 0, len(q.filters)-1)
	next = append(next, q.filters[:i]...)
	return Query{filters: append(next, q.filters[i+1:]...)}, nil
}

// Update replaces the filter at index i
func (q Query) Update(i int, f Filter) (Query, error) {
	if i < 0 || i >= len(q.filters) {
		return q, fmt.Errorf("%w: filter index %d out of range", models.ErrInvalidInput, i)
	}
	next := q.Filters()
	next[i] = f
	return Query{filters: next}, nil
}
