package core

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OtherCategory collects expenses stored without a category label.
const OtherCategory = "Other"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// CategoryTotals maps category names to summed amounts, ordered by the
// first occurrence of each category.
type CategoryTotals []CategoryAmount

// Get returns the total for name and whether it is present.
func (ct CategoryTotals) Get(name string) (decimal.Decimal, bool) {
	for _, c := range ct {
		if c.Name == name {
			return c.Amount, true
		}
	}
	return decimal.Zero, false
}

// Names returns the category names in order.
func (ct CategoryTotals) Names() []string {
	names := make([]string, len(ct))
	for i, c := range ct {
		names[i] = c.Name
	}
	return names
}

// Max returns the largest category total, or zero when empty.
func (ct CategoryTotals) Max() decimal.Decimal {
	top := decimal.Zero
	for _, c := range ct {
		if c.Amount.GreaterThan(top) {
			top = c.Amount
		}
	}
	return top
}

// View is everything a list screen shows for one filter selection.
type View struct {
	Filter     Filter
	Expenses   []Expense
	Total      decimal.Decimal
	ByCategory CategoryTotals
}

// Empty reports whether the view has nothing to show.
func (v View) Empty() bool {
	return len(v.Expenses) == 0
}

// NewView filters expenses for f at now and computes the aggregates over
// the filtered list.
func NewView(expenses []Expense, f Filter, now time.Time) View {
	if f == "" {
		f = FilterAll
	}
	filtered := FilterExpenses(expenses, f, now)
	return View{
		Filter:     f,
		Expenses:   filtered,
		Total:      TotalSpending(filtered),
		ByCategory: SumByCategory(filtered),
	}
}

// amountOf converts a stored amount for summation; non-finite values
// count as zero.
func amountOf(a float64) decimal.Decimal {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(a)
}

// TotalSpending sums the amounts of expenses.
func TotalSpending(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(amountOf(e.Amount))
	}
	return total
}

// SumByCategory sums amounts per category label. Blank labels are
// attributed to OtherCategory.
func SumByCategory(expenses []Expense) CategoryTotals {
	out := CategoryTotals{}
	index := map[string]int{}
	for _, e := range expenses {
		name := e.Category
		if strings.TrimSpace(name) == "" {
			name = OtherCategory
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, CategoryAmount{Name: name, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(amountOf(e.Amount))
	}
	return out
}
