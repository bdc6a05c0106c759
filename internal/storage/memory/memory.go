package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/ports"
)

// Store keeps expenses in process memory. Ids are handed out from a
// counter and never reused.
type Store struct {
	mu     sync.Mutex
	lastID int64
	items  []core.Expense // creation order
	now    func() time.Time
}

var _ ports.ExpenseStore = (*Store)(nil)

func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{now: now}
}

// NewFromFiles seeds the store from base/seed_expenses.txt. Each line is
// "amount;category;note"; blank lines and # comments are skipped, as are
// lines that would not pass validation.
func NewFromFiles(base string, now func() time.Time) *Store {
	s := New(now)
	for _, line := range readLines(filepath.Join(base, "seed_expenses.txt")) {
		parts := strings.SplitN(line, ";", 3)
		if len(parts) < 2 {
			continue
		}
		amount, err := core.ParseAmount(parts[0])
		if err != nil {
			continue
		}
		d := core.Draft{Amount: amount, Category: parts[1]}
		if len(parts) == 3 {
			d.Note = parts[2]
		}
		_, _ = s.Create(context.Background(), d)
	}
	return s
}

func (s *Store) Initialize(_ context.Context) error {
	return nil
}

// ListAll returns a copy of all expenses, newest id first.
func (s *Store) ListAll(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := core.Today(s.now()).String()
	out := make([]core.Expense, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		e := s.items[i]
		if e.Date == "" {
			e.Date = today
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Expense{}, core.ErrNotFound
	}
	e := s.items[i]
	if e.Date == "" {
		e.Date = core.Today(s.now()).String()
	}
	return e, nil
}

func (s *Store) Create(_ context.Context, d core.Draft) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, nil
	}
	d = d.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	s.items = append(s.items, core.Expense{
		ID:       s.lastID,
		Amount:   d.Amount,
		Category: d.Category,
		Note:     d.Note,
		Date:     core.Today(s.now()).String(),
	})
	return s.lastID, nil
}

func (s *Store) Update(_ context.Context, id int64, d core.Draft) error {
	if err := d.Validate(); err != nil {
		return nil
	}
	d = d.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	e := &s.items[i]
	e.Amount, e.Category, e.Note = d.Amount, d.Category, d.Note
	if strings.TrimSpace(e.Date) == "" {
		e.Date = core.Today(s.now()).String()
	}
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

// Restore inserts an expense exactly as given, keeping its id and date.
// It exists for importing legacy data and for tests.
func (s *Store) Restore(e core.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID <= s.lastID {
		s.lastID++
		e.ID = s.lastID
	} else {
		s.lastID = e.ID
	}
	s.items = append(s.items, e)
}

func (s *Store) indexOf(id int64) int {
	for i, e := range s.items {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
