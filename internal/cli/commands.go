package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"expensetracker/internal/chart"
	"expensetracker/internal/core"
	"expensetracker/internal/services"
)

// ErrUsage is returned for malformed command lines. The usage text has
// already been written when it is returned.
var ErrUsage = errors.New("usage error")

const usage = `Usage: expenses <command> [flags]

Commands:
  list   [-filter all|week|month]            show expenses and totals
  add    -amount N -category C [-note T]     record an expense dated today
  edit   -id N [-amount N] [-category C] [-note T]
                                             change an expense, keeping its date
  delete -id N                               remove an expense
  chart                                      spending by category, all time
`

// App runs subcommands against an ExpenseService.
type App struct {
	Service    *services.ExpenseService
	Out        io.Writer
	ChartWidth int
}

// Run dispatches args[0] to a subcommand.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.Out, usage)
		return ErrUsage
	}
	if _, err := a.Service.Start(ctx, core.FilterAll); err != nil {
		return err
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list", "ls":
		return a.list(ctx, rest)
	case "add":
		return a.add(ctx, rest)
	case "edit":
		return a.edit(ctx, rest)
	case "delete", "rm":
		return a.remove(ctx, rest)
	case "chart":
		return a.chart(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.Out, usage)
		return nil
	default:
		fmt.Fprintf(a.Out, "unknown command %q\n\n%s", cmd, usage)
		return ErrUsage
	}
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Out)
	return fs
}

func (a *App) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return ErrUsage
	}
	return nil
}

func (a *App) list(ctx context.Context, args []string) error {
	fs := a.flagSet("list")
	filterName := fs.String("filter", "all", "time window: all, week or month")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	f, err := core.ParseFilter(*filterName)
	if err != nil {
		fmt.Fprintln(a.Out, err)
		return ErrUsage
	}

	a.printView(a.Service.SetFilter(f))
	return nil
}

func (a *App) add(ctx context.Context, args []string) error {
	fs := a.flagSet("add")
	amount := fs.String("amount", "", "amount, e.g. 12.50")
	category := fs.String("category", "", "category, e.g. Food, Books, Rent")
	note := fs.String("note", "", "optional note")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	d, ok := a.draft(*amount, *category, *note)
	if !ok {
		return nil
	}
	before := len(a.Service.View().Expenses)
	view, err := a.Service.Add(ctx, d)
	if err != nil {
		return err
	}
	if len(view.Expenses) > before {
		fmt.Fprintf(a.Out, "Added expense #%d.\n", view.Expenses[0].ID)
	}
	a.printView(view)
	return nil
}

func (a *App) edit(ctx context.Context, args []string) error {
	fs := a.flagSet("edit")
	id := fs.Int64("id", 0, "expense id")
	amount := fs.String("amount", "", "new amount")
	category := fs.String("category", "", "new category")
	note := fs.String("note", "", "new note")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	existing, err := a.Service.Get(ctx, *id)
	if errors.Is(err, core.ErrNotFound) {
		fmt.Fprintf(a.Out, "No expense with id %d.\n", *id)
		return nil
	}
	if err != nil {
		return err
	}

	// Flags left out keep the stored values, like a prefilled form.
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["amount"] {
		*amount = strconv.FormatFloat(existing.Amount, 'f', -1, 64)
	}
	if !set["category"] {
		*category = existing.Category
	}
	if !set["note"] {
		*note = existing.Note
	}

	d, ok := a.draft(*amount, *category, *note)
	if !ok {
		return nil
	}
	view, err := a.Service.Edit(ctx, *id, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Updated expense #%d.\n", *id)
	a.printView(view)
	return nil
}

func (a *App) remove(ctx context.Context, args []string) error {
	fs := a.flagSet("delete")
	id := fs.Int64("id", 0, "expense id")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *id == 0 && fs.NArg() == 1 {
		v, err := strconv.ParseInt(fs.Arg(0), 10, 64)
		if err != nil {
			fmt.Fprintf(a.Out, "invalid id %q\n", fs.Arg(0))
			return ErrUsage
		}
		*id = v
	}

	view, err := a.Service.Remove(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Deleted expense #%d.\n", *id)
	a.printView(view)
	return nil
}

func (a *App) chart(ctx context.Context) error {
	totals, err := a.Service.ChartData(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, chart.Render(totals, chart.Options{
		Title: "Spending by Category",
		Width: a.ChartWidth,
	}))
	return nil
}

// draft turns raw form input into a Draft. Invalid input is reported to
// the user and yields ok == false.
func (a *App) draft(amount, category, note string) (core.Draft, bool) {
	v, err := core.ParseAmount(amount)
	if err != nil {
		fmt.Fprintln(a.Out, "Amount must be a number greater than 0 (e.g. 12.50).")
		return core.Draft{}, false
	}
	d := core.Draft{Amount: v, Category: category, Note: note}
	if err := d.Validate(); err != nil {
		fmt.Fprintln(a.Out, "Category is required (Food, Books, Rent...).")
		return core.Draft{}, false
	}
	return d, true
}

func (a *App) printView(v core.View) {
	fmt.Fprintf(a.Out, "\nExpenses: %s\n", v.Filter.Label())
	fmt.Fprintf(a.Out, "Total Spending: %s\n", v.Total.StringFixed(2))
	fmt.Fprintln(a.Out, "By Category:")
	if len(v.ByCategory) == 0 {
		fmt.Fprintln(a.Out, "  No expenses for this filter.")
		return
	}
	for _, c := range v.ByCategory {
		fmt.Fprintf(a.Out, "  %s: %s\n", c.Name, c.Amount.StringFixed(2))
	}
	fmt.Fprintln(a.Out)

	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tCATEGORY\tNOTE")
	for _, e := range v.Expenses {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%s\n", e.ID, e.Date, e.Amount, e.Category, strings.TrimSpace(e.Note))
	}
	tw.Flush()
}
