package ports

import (
	"context"

	"expensetracker/internal/core"
)

// Ports for outbound adapters.
type (
	// ExpenseStore is durable CRUD over the expense table.
	//
	// Create and Update skip invalid drafts without reporting an error;
	// callers that want feedback validate the draft first.
	ExpenseStore interface {
		// Initialize prepares the schema. It is safe to call repeatedly.
		Initialize(ctx context.Context) error
		// ListAll returns every expense, most recently created first.
		ListAll(ctx context.Context) ([]core.Expense, error)
		// Get returns a single expense or core.ErrNotFound.
		Get(ctx context.Context, id int64) (core.Expense, error)
		// Create stores a new expense dated today and returns its id,
		// or 0 when the draft was skipped.
		Create(ctx context.Context, d core.Draft) (int64, error)
		// Update overwrites amount, category and note of an existing
		// expense, keeping its date. Missing ids are ignored.
		Update(ctx context.Context, id int64, d core.Draft) error
		// Delete removes an expense. Missing ids are ignored.
		Delete(ctx context.Context, id int64) error
		Close() error
	}

	// ChangeNotifier is told about every persisted mutation.
	ChangeNotifier interface {
		NotifyChange(ctx context.Context, id int64, op string) error
		Close() error
	}
)
