package domain

import "time"

// OrderFilter selects orders by creation time window
type OrderFilter string

const (
	FilterAll   OrderFilter = "all"
	FilterToday OrderFilter = "today"
	FilterWeek  OrderFilter = "week"
	FilterMonth OrderFilter = "month"
)

// ParseOrderFilter maps unknown or empty values to FilterAll
func ParseOrderFilter(s string) OrderFilter {
	switch f := OrderFilter(s); f {
	case FilterToday, FilterWeek, FilterMonth:
		return f
	default:
		return FilterAll
	}
}

// Since returns the lower creation time bound of the filter. ok is false for
// FilterAll.
func (f OrderFilter) Since(now time.Time) (since time.Time, ok bool) {
	switch f {
	case FilterToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case FilterWeek:
		return now.AddDate(0, 0, -7), true
	case FilterMonth:
		return now.AddDate(0, -1, 0), true
	default:
		return time.Time{}, false
	}
}
