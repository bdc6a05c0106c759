package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/ports"
)

// ExpenseService is what the presentation layer talks to. Every mutation
// is followed by a full reload of the list, and the returned view is
// recomputed from scratch.
type ExpenseService struct {
	store    ports.ExpenseStore
	notifier ports.ChangeNotifier
	now      func() time.Time

	filter   core.Filter
	expenses []core.Expense
}

func NewExpenseService(store ports.ExpenseStore, notifier ports.ChangeNotifier, now func() time.Time) *ExpenseService {
	if now == nil {
		now = time.Now
	}
	return &ExpenseService{
		store:    store,
		notifier: notifier,
		now:      now,
		filter:   core.FilterAll,
	}
}

// Start prepares the store and loads the list for filter f.
func (s *ExpenseService) Start(ctx context.Context, f core.Filter) (core.View, error) {
	if err := s.store.Initialize(ctx); err != nil {
		return core.View{}, fmt.Errorf("initialize store: %w", err)
	}
	if f != "" {
		s.filter = f
	}
	return s.Reload(ctx)
}

// Reload replaces the cached list with the store's current contents.
func (s *ExpenseService) Reload(ctx context.Context) (core.View, error) {
	expenses, err := s.store.ListAll(ctx)
	if err != nil {
		return core.View{}, fmt.Errorf("load expenses: %w", err)
	}
	s.expenses = expenses
	return s.View(), nil
}

// View recomputes the filtered list and aggregates from the cached list.
func (s *ExpenseService) View() core.View {
	return core.NewView(s.expenses, s.filter, s.now())
}

// SetFilter switches the active filter. No I/O is involved.
func (s *ExpenseService) SetFilter(f core.Filter) core.View {
	if f == "" {
		f = core.FilterAll
	}
	s.filter = f
	return s.View()
}

// Filter returns the active filter.
func (s *ExpenseService) Filter() core.Filter {
	return s.filter
}

// Get returns one expense, typically to prefill an edit form.
func (s *ExpenseService) Get(ctx context.Context, id int64) (core.Expense, error) {
	return s.store.Get(ctx, id)
}

// Add creates an expense and reloads. Invalid drafts leave the list as it was.
func (s *ExpenseService) Add(ctx context.Context, d core.Draft) (core.View, error) {
	id, err := s.store.Create(ctx, d)
	if err != nil {
		return core.View{}, fmt.Errorf("save expense: %w", err)
	}
	if id != 0 {
		s.notify(ctx, id, amqp.OpCreate)
	}
	return s.Reload(ctx)
}

// Edit overwrites an existing expense and reloads. Unknown ids and
// invalid drafts leave the list as it was.
func (s *ExpenseService) Edit(ctx context.Context, id int64, d core.Draft) (core.View, error) {
	exists, err := s.exists(ctx, id)
	if err != nil {
		return core.View{}, err
	}
	if err := s.store.Update(ctx, id, d); err != nil {
		return core.View{}, fmt.Errorf("update expense: %w", err)
	}
	if exists && d.Validate() == nil {
		s.notify(ctx, id, amqp.OpUpdate)
	}
	return s.Reload(ctx)
}

// Remove deletes an expense and reloads. Removing a missing id is a no-op.
func (s *ExpenseService) Remove(ctx context.Context, id int64) (core.View, error) {
	exists, err := s.exists(ctx, id)
	if err != nil {
		return core.View{}, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return core.View{}, fmt.Errorf("delete expense: %w", err)
	}
	if exists {
		s.notify(ctx, id, amqp.OpDelete)
	}
	return s.Reload(ctx)
}

// ChartData returns per-category totals over every stored expense,
// regardless of the active filter.
func (s *ExpenseService) ChartData(ctx context.Context) (core.CategoryTotals, error) {
	expenses, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	return core.SumByCategory(expenses), nil
}

func (s *ExpenseService) exists(ctx context.Context, id int64) (bool, error) {
	_, err := s.store.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, core.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("get expense: %w", err)
	}
}

func (s *ExpenseService) notify(ctx context.Context, id int64, op string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyChange(ctx, id, op); err != nil {
		// The change is already stored; subscribers catch up on their next reload.
		fields := applog.NewFields().
			WithComponent(applog.ComponentExpense).
			WithOperation(op).
			WithError(err)
		fields[applog.FieldExpenseID] = id
		slog.WarnContext(ctx, "Failed to publish expense change", fields.ToSlice()...)
	}
}

// Close closes both store and notifier connections
func (s *ExpenseService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("notifier: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}

	return nil
}
