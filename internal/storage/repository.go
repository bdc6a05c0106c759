package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/ports"

	_ "modernc.org/sqlite"
)

const (
	listExpensesSQL  = `SELECT id, amount, category, note, date FROM expenses ORDER BY id DESC`
	getExpenseSQL    = `SELECT id, amount, category, note, date FROM expenses WHERE id = ?`
	createExpenseSQL = `INSERT INTO expenses (amount, category, note, date) VALUES (?, ?, ?, ?)`
	deleteExpenseSQL = `DELETE FROM expenses WHERE id = ?`
)

// The stored date wins; today is only used when it is missing.
const updateExpenseSQL = `UPDATE expenses
SET amount = ?, category = ?, note = ?, date = COALESCE(NULLIF(TRIM(date), ''), ?)
WHERE id = ?`

type SQLiteRepository struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Option configures a SQLiteRepository.
type Option func(*SQLiteRepository)

// WithClock overrides the clock used to date new expenses.
func WithClock(now func() time.Time) Option {
	return func(r *SQLiteRepository) {
		if now != nil {
			r.now = now
		}
	}
}

var _ ports.ExpenseStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string, opts ...Option) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer, one connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteRepository{
		db:   db,
		path: dbPath,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(repo)
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Initialize creates the expenses table and upgrades legacy tables that
// predate the date column.
func (r *SQLiteRepository) Initialize(ctx context.Context) error {
	if err := RunMigrations(r.path); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if err := ensureDateColumn(ctx, r.db); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Expense schema ready", "db_path", r.path)
	return nil
}

func (r *SQLiteRepository) today() string {
	return core.Today(r.now()).String()
}

// ListAll returns every expense, newest id first. Rows stored without a
// date are reported with today's date; the row itself is left untouched.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, listExpensesSQL)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	today := r.today()
	expenses := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows, today)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

// Get retrieves a single expense by ID
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Expense, error) {
	e, err := scanExpense(r.db.QueryRowContext(ctx, getExpenseSQL, id), r.today())
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense by id: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, d core.Draft) (int64, error) {
	if err := d.Validate(); err != nil {
		slog.DebugContext(ctx, "Skipping invalid expense", "error", err)
		return 0, nil
	}
	d = d.Normalize()
	date := r.today()

	res, err := r.db.ExecContext(ctx, createExpenseSQL, d.Amount, d.Category, nullString(d.Note), date)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"amount", d.Amount,
		"category", d.Category,
		"date", date)

	return id, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, d core.Draft) error {
	if err := d.Validate(); err != nil {
		slog.DebugContext(ctx, "Skipping invalid expense update", "id", id, "error", err)
		return nil
	}
	d = d.Normalize()

	res, err := r.db.ExecContext(ctx, updateExpenseSQL, d.Amount, d.Category, nullString(d.Note), r.today(), id)
	if err != nil {
		return fmt.Errorf("update expense %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense %d: %w", id, err)
	}
	if n == 0 {
		slog.DebugContext(ctx, "Expense to update not found", "id", id)
		return nil
	}

	slog.InfoContext(ctx, "Expense updated", "id", id, "amount", d.Amount, "category", d.Category)
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteExpenseSQL, id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}

	if n > 0 {
		slog.InfoContext(ctx, "Expense deleted", "id", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner, today string) (core.Expense, error) {
	var (
		e        core.Expense
		amount   sql.NullFloat64
		category sql.NullString
		note     sql.NullString
		date     sql.NullString
	)
	if err := row.Scan(&e.ID, &amount, &category, &note, &date); err != nil {
		return core.Expense{}, err
	}
	e.Amount = amount.Float64
	e.Category = category.String
	e.Note = note.String
	e.Date = date.String
	if e.Date == "" {
		e.Date = today
	}
	return e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
