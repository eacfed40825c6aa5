package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/coursora/coursora-backend/internal/domain"
)

// TrendRange selects the calendar window for a trend query.
type TrendRange string

const (
	RangeWeekly  TrendRange = "weekly"
	RangeMonthly TrendRange = "monthly"
	RangeYearly  TrendRange = "yearly"
)

func ParseTrendRange(s string) (TrendRange, error) {
	switch TrendRange(strings.TrimSpace(strings.ToLower(s))) {
	case RangeWeekly:
		return RangeWeekly, nil
	case RangeMonthly:
		return RangeMonthly, nil
	case RangeYearly:
		return RangeYearly, nil
	default:
		return "", fmt.Errorf("unknown range %q", s)
	}
}

// window is an inclusive span of calendar days, both bounds at midnight UTC.
type window struct {
	from time.Time
	to   time.Time
}

func (w window) fromDay() string { return domain.DayKey(w.from) }
func (w window) toDay() string   { return domain.DayKey(w.to) }

// exclusiveEnd is the first instant after the window, for timestamp columns.
func (w window) exclusiveEnd() time.Time { return w.to.AddDate(0, 0, 1) }

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// currentWindow anchors the range to now: weekly is the trailing 7 days
// ending today, monthly runs from the 1st, yearly from Jan 1.
func currentWindow(now time.Time, rng TrendRange) window {
	today := dayOf(now)
	switch rng {
	case RangeWeekly:
		return window{from: today.AddDate(0, 0, -6), to: today}
	case RangeMonthly:
		return window{from: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), to: today}
	case RangeYearly:
		return window{from: time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), to: today}
	default:
		return window{from: today, to: today}
	}
}

// previousWindow is the equivalent immediately-preceding period: the 7-day
// block ending 7 days before today, the prior calendar month, or the prior
// calendar year.
func previousWindow(now time.Time, rng TrendRange) window {
	today := dayOf(now)
	switch rng {
	case RangeWeekly:
		return window{from: today.AddDate(0, 0, -13), to: today.AddDate(0, 0, -7)}
	case RangeMonthly:
		firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return window{from: firstOfMonth.AddDate(0, -1, 0), to: firstOfMonth.AddDate(0, 0, -1)}
	case RangeYearly:
		return window{
			from: time.Date(today.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(today.Year()-1, time.December, 31, 0, 0, 0, 0, time.UTC),
		}
	default:
		return window{from: today, to: today}
	}
}
