package core

import (
	"fmt"
	"strings"
	"time"
)

// Filter selects the time window an expense list is narrowed to.
type Filter string

const (
	FilterAll   Filter = "ALL"
	FilterWeek  Filter = "WEEK"
	FilterMonth Filter = "MONTH"
)

// Filters returns every supported filter in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterWeek, FilterMonth}
}

// ParseFilter maps a case-insensitive filter name to a Filter.
// An empty string selects FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToUpper(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterWeek, FilterMonth:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q", s)
	}
}

func (f Filter) String() string {
	return string(f)
}

// Label is the human readable name shown next to a filtered list.
func (f Filter) Label() string {
	switch f {
	case FilterWeek:
		return "This Week"
	case FilterMonth:
		return "This Month"
	default:
		return "All"
	}
}

// WeekBounds returns the Sunday and Saturday of the calendar week that
// contains now, in now's location.
func WeekBounds(now time.Time) (Date, Date) {
	today := Today(now)
	start := today.AddDays(-int(today.Weekday()))
	return start, start.AddDays(6)
}

// InWeek reports whether d falls in the Sunday..Saturday week of now.
func InWeek(d Date, now time.Time) bool {
	start, end := WeekBounds(now)
	return !d.Before(start.Time) && !d.After(end.Time)
}

// InMonth reports whether d falls in the calendar month and year of now.
func InMonth(d Date, now time.Time) bool {
	y, m, _ := d.Date()
	ny, nm, _ := now.Date()
	return y == ny && m == nm
}

// Matches reports whether e belongs to the window f as seen at now.
// Expenses without a parseable date only match FilterAll.
func (f Filter) Matches(e Expense, now time.Time) bool {
	if f == FilterAll || f == "" {
		return true
	}
	d, ok := e.Day(now.Location())
	if !ok {
		return false
	}
	switch f {
	case FilterWeek:
		return InWeek(d, now)
	case FilterMonth:
		return InMonth(d, now)
	default:
		return false
	}
}

// FilterExpenses returns the subsequence of expenses matching f,
// preserving order. The input slice is never modified.
func FilterExpenses(expenses []Expense, f Filter, now time.Time) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Matches(e, now) {
			out = append(out, e)
		}
	}
	return out
}
