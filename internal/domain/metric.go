package domain

import (
	"fmt"
	"strings"
)

// Metric identifies one of the per-course usage counters.
type Metric string

const (
	MetricViews       Metric = "views"
	MetricComparisons Metric = "comparisons"
	MetricLeads       Metric = "leads"
)

// counterColumns is the single dispatch table from metric kind to the Course
// column it mutates and aggregates. All column addressing goes through it;
// nothing builds column names from request input.
var counterColumns = map[Metric]string{
	MetricViews:       "view_count",
	MetricComparisons: "comparison_count",
	MetricLeads:       "lead_count",
}

func Metrics() []Metric {
	return []Metric{MetricViews, MetricComparisons, MetricLeads}
}

func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.TrimSpace(strings.ToLower(s)))
	if _, ok := counterColumns[m]; !ok {
		return "", fmt.Errorf("unknown metric %q", s)
	}
	return m, nil
}

func (m Metric) Valid() bool {
	_, ok := counterColumns[m]
	return ok
}

// CounterColumn returns the Course column holding m's cumulative counter.
func (m Metric) CounterColumn() string {
	return counterColumns[m]
}

// CounterOf reads m's cumulative counter from c.
func (m Metric) CounterOf(c *Course) int64 {
	if c == nil {
		return 0
	}
	switch m {
	case MetricViews:
		return c.ViewCount
	case MetricComparisons:
		return c.ComparisonCount
	case MetricLeads:
		return c.LeadCount
	default:
		return 0
	}
}
