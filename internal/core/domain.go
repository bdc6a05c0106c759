package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

// DateLayout is the on-disk representation of an expense date.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar day. The wrapped time is always midnight in the
	// location it was created in.
	Date struct {
		time.Time
	}

	Expense struct {
		ID       int64
		Amount   float64
		Category string
		Note     string
		Date     string // YYYY-MM-DD
	}

	// Draft carries the user-editable fields of an expense, as submitted
	// by a form for create or update.
	Draft struct {
		Amount   float64
		Category string
		Note     string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidDate   = errors.New("invalid date")
	ErrNotFound      = errors.New("expense not found")
)

// NewDate creates a new Date from year, month, day in the local time zone
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)}
}

// Today returns the calendar day of now, in now's location.
func Today(now time.Time) Date {
	y, m, d := now.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, now.Location())}
}

// ParseDate parses a YYYY-MM-DD string into a Date in loc.
func ParseDate(s string, loc *time.Location) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// AddDays returns the date n calendar days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// ValidAmount reports whether a is a finite, strictly positive number.
func ValidAmount(a float64) bool {
	return !math.IsNaN(a) && !math.IsInf(a, 0) && a > 0
}

// Normalize returns the draft with category and note trimmed.
func (d Draft) Normalize() Draft {
	return Draft{
		Amount:   d.Amount,
		Category: strings.TrimSpace(d.Category),
		Note:     strings.TrimSpace(d.Note),
	}
}

func (d Draft) Validate() error {
	if !ValidAmount(d.Amount) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(d.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Day parses the expense date. ok is false when the stored value is
// empty or malformed.
func (e Expense) Day(loc *time.Location) (Date, bool) {
	d, err := ParseDate(e.Date, loc)
	if err != nil {
		return Date{}, false
	}
	return d, true
}
