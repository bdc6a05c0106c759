// Package chart draws spending-by-category bar charts for the terminal.
package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// EmptyMessage is rendered when there is nothing to chart.
const EmptyMessage = "No expense data available for chart."

const (
	defaultWidth = 40
	barRune      = "█"
)

// Options controls chart layout. Zero values select defaults.
type Options struct {
	Title    string
	Width    int // maximum bar width in cells
	BarColor lipgloss.Color
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle = lipgloss.NewStyle()
	valueStyle = lipgloss.NewStyle().Faint(true)
)

// Render draws one horizontal bar per category, in the order given. Bar
// length is proportional to the largest total; any positive total gets
// at least one cell.
func Render(totals core.CategoryTotals, opts Options) string {
	if len(totals) == 0 {
		return EmptyMessage
	}
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	color := opts.BarColor
	if color == "" {
		color = lipgloss.Color("33")
	}
	barStyle := lipgloss.NewStyle().Foreground(color)

	labelWidth := 0
	for _, c := range totals {
		if w := lipgloss.Width(c.Name); w > labelWidth {
			labelWidth = w
		}
	}

	top := totals.Max()
	rows := make([]string, 0, len(totals)+1)
	if opts.Title != "" {
		rows = append(rows, titleStyle.Render(opts.Title))
	}
	for _, c := range totals {
		n := barLength(c.Amount, top, width)
		label := labelStyle.Width(labelWidth).Render(c.Name)
		bar := barStyle.Render(strings.Repeat(barRune, n))
		value := valueStyle.Render(c.Amount.StringFixed(2))
		rows = append(rows, fmt.Sprintf("%s │%s %s", label, bar, value))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func barLength(amount, top decimal.Decimal, width int) int {
	if !amount.IsPositive() || !top.IsPositive() {
		return 0
	}
	n := int(amount.Div(top).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart())
	if n < 1 {
		n = 1
	}
	if n > width {
		n = width
	}
	return n
}
