package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/services"
	"expensetracker/internal/storage/memory"
)

var fixedNow = time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newApp() (*App, *memory.Store, *bytes.Buffer) {
	store := memory.New(clock)
	out := &bytes.Buffer{}
	return &App{
		Service:    services.NewExpenseService(store, nil, clock),
		Out:        out,
		ChartWidth: 20,
	}, store, out
}

func run(t *testing.T, app *App, out *bytes.Buffer, args ...string) string {
	t.Helper()
	out.Reset()
	if err := app.Run(context.Background(), args); err != nil {
		t.Fatalf("run %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestRunWithoutCommandPrintsUsage(t *testing.T) {
	app, _, out := newApp()
	if err := app.Run(context.Background(), nil); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
	if !strings.Contains(out.String(), "Usage: expenses") {
		t.Fatalf("expected usage text, got %q", out.String())
	}

	out.Reset()
	if err := app.Run(context.Background(), []string{"frobnicate"}); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage for unknown command, got %v", err)
	}
}

func TestAddAndList(t *testing.T) {
	app, store, out := newApp()

	got := run(t, app, out, "add", "-amount", "12,50", "-category", "Books", "-note", "used")
	if !strings.Contains(got, "Added expense #1.") || !strings.Contains(got, "Total Spending: 12.50") {
		t.Fatalf("unexpected add output:\n%s", got)
	}

	list, _ := store.ListAll(context.Background())
	if len(list) != 1 || list[0].Amount != 12.5 || list[0].Note != "used" {
		t.Fatalf("unexpected stored expenses: %+v", list)
	}

	got = run(t, app, out, "list", "-filter", "week")
	if !strings.Contains(got, "Expenses: This Week") || !strings.Contains(got, "Books: 12.50") || !strings.Contains(got, "2025-06-11") {
		t.Fatalf("unexpected list output:\n%s", got)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	app, store, out := newApp()

	got := run(t, app, out, "add", "-amount", "abc", "-category", "Books")
	if !strings.Contains(got, "Amount must be a number greater than 0") {
		t.Fatalf("expected amount hint, got:\n%s", got)
	}
	got = run(t, app, out, "add", "-amount", "5", "-category", "  ")
	if !strings.Contains(got, "Category is required") {
		t.Fatalf("expected category hint, got:\n%s", got)
	}

	if list, _ := store.ListAll(context.Background()); len(list) != 0 {
		t.Fatalf("expected nothing stored, got %+v", list)
	}
}

func TestEditKeepsUnsetFieldsAndDate(t *testing.T) {
	app, store, out := newApp()
	store.Restore(core.Expense{ID: 4, Amount: 9.99, Category: "Food", Note: "pizza", Date: "2025-05-02"})

	got := run(t, app, out, "edit", "-id", "4", "-category", "Takeaway")
	if !strings.Contains(got, "Updated expense #4.") {
		t.Fatalf("unexpected edit output:\n%s", got)
	}

	e, err := store.Get(context.Background(), 4)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := core.Expense{ID: 4, Amount: 9.99, Category: "Takeaway", Note: "pizza", Date: "2025-05-02"}
	if e != want {
		t.Fatalf("expected %+v, got %+v", want, e)
	}

	got = run(t, app, out, "edit", "-id", "40", "-amount", "1")
	if !strings.Contains(got, "No expense with id 40.") {
		t.Fatalf("expected not found message, got:\n%s", got)
	}
}

func TestDeleteAcceptsPositionalID(t *testing.T) {
	app, store, out := newApp()
	store.Restore(core.Expense{ID: 1, Amount: 1, Category: "a", Date: "2025-06-01"})
	store.Restore(core.Expense{ID: 2, Amount: 2, Category: "b", Date: "2025-06-01"})

	run(t, app, out, "delete", "1")
	got := run(t, app, out, "rm", "-id", "2")
	if !strings.Contains(got, "No expenses for this filter.") {
		t.Fatalf("expected empty list after deletes, got:\n%s", got)
	}

	out.Reset()
	if err := app.Run(context.Background(), []string{"delete", "one"}); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage for malformed id, got %v", err)
	}
}

func TestChart(t *testing.T) {
	app, store, out := newApp()

	got := run(t, app, out, "chart")
	if !strings.Contains(got, "No expense data available for chart.") {
		t.Fatalf("expected empty chart message, got:\n%s", got)
	}

	store.Restore(core.Expense{ID: 1, Amount: 10, Category: "Food", Date: "2024-01-01"})
	store.Restore(core.Expense{ID: 2, Amount: 5, Category: "Books", Date: "2025-06-11"})

	got = run(t, app, out, "chart")
	if !strings.Contains(got, "Spending by Category") || !strings.Contains(got, "10.00") || !strings.Contains(got, "5.00") {
		t.Fatalf("unexpected chart output:\n%s", got)
	}
}

func TestListRejectsUnknownFilter(t *testing.T) {
	app, _, out := newApp()
	if err := app.Run(context.Background(), []string{"list", "-filter", "year"}); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
	if !strings.Contains(out.String(), `unknown filter "year"`) {
		t.Fatalf("expected filter error, got %q", out.String())
	}
}
