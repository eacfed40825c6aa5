package repos

import "errors"

// ErrNotFound is returned when a guarded write matched no row, e.g. an
// increment against a (course, institution) pair that does not exist.
var ErrNotFound = errors.New("not found")

// MonthTotal is one month's aggregate within a calendar year. Month is 1-12.
type MonthTotal struct {
	Month int   `gorm:"column:month"`
	Total int64 `gorm:"column:total"`
}
