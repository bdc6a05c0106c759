package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"expensetracker/internal/core"
)

var fixedNow = time.Date(2025, 6, 11, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestMemoryStoreCreateAndList(t *testing.T) {
	s := New(clock)
	ctx := context.Background()

	id, err := s.Create(ctx, core.Draft{Amount: 12.5, Category: " Books ", Note: "used"})
	if err != nil || id != 1 {
		t.Fatalf("unexpected create: id=%d err=%v", id, err)
	}
	if id, err := s.Create(ctx, core.Draft{Amount: 0, Category: "Books"}); err != nil || id != 0 {
		t.Fatalf("expected invalid draft to be skipped: id=%d err=%v", id, err)
	}
	id2, _ := s.Create(ctx, core.Draft{Amount: 3, Category: "Coffee"})

	list, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != id2 || list[1].ID != id {
		t.Fatalf("unexpected list: %+v", list)
	}
	want := core.Expense{ID: 1, Amount: 12.5, Category: "Books", Note: "used", Date: "2025-06-11"}
	if list[1] != want {
		t.Fatalf("expected %+v, got %+v", want, list[1])
	}
}

func TestMemoryStoreUpdateAndDelete(t *testing.T) {
	s := New(clock)
	ctx := context.Background()
	s.Restore(core.Expense{ID: 7, Amount: 1, Category: "Old", Date: "2025-01-02"})

	if err := s.Update(ctx, 7, core.Draft{Amount: 2, Category: "New", Note: "x"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Update(ctx, 99, core.Draft{Amount: 2, Category: "New"}); err != nil {
		t.Fatalf("update missing: %v", err)
	}
	e, err := s.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e.Amount != 2 || e.Category != "New" || e.Note != "x" || e.Date != "2025-01-02" {
		t.Fatalf("unexpected updated expense: %+v", e)
	}

	if err := s.Delete(ctx, 7); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, 7); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := s.Get(ctx, 7); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Ids keep growing after a delete.
	id, _ := s.Create(ctx, core.Draft{Amount: 1, Category: "c"})
	if id != 8 {
		t.Fatalf("expected id 8, got %d", id)
	}
}

func TestMemoryStoreRepairsMissingDateOnRead(t *testing.T) {
	s := New(clock)
	s.Restore(core.Expense{ID: 1, Amount: 1, Category: "Legacy"})

	list, _ := s.ListAll(context.Background())
	if len(list) != 1 || list[0].Date != "2025-06-11" {
		t.Fatalf("expected repaired date, got %+v", list)
	}
	if s.items[0].Date != "" {
		t.Fatalf("repair must not be stored, got %q", s.items[0].Date)
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	// No file -> empty store
	s := NewFromFiles(dir, clock)
	if list, _ := s.ListAll(context.Background()); len(list) != 0 {
		t.Fatalf("expected empty store when seed file missing")
	}

	content := "# amount;category;note\n12,50;Books;used\n\n-1;Bad\n3;Coffee\nbroken\n"
	if err := os.WriteFile(filepath.Join(dir, "seed_expenses.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s = NewFromFiles(dir, clock)
	list, _ := s.ListAll(context.Background())
	if len(list) != 2 {
		t.Fatalf("expected 2 seeded expenses, got %+v", list)
	}
	if list[0].Category != "Coffee" || list[1].Category != "Books" || list[1].Amount != 12.5 || list[1].Note != "used" {
		t.Fatalf("unexpected seeded expenses: %+v", list)
	}
}
