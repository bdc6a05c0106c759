package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentStorage, Output: &buf})

	l.Info("Expense saved", FieldExpenseID, 7)
	l.WithComponent(ComponentAMQP).Debug("Published")

	out := buf.String()
	if !strings.Contains(out, "component=storage") || !strings.Contains(out, "id=7") {
		t.Fatalf("missing fields in %q", out)
	}
	if !strings.Contains(out, "component=amqp") {
		t.Fatalf("expected overridden component in %q", out)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Output: &buf})

	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output %q", out)
	}
	if l.Component() != ComponentApp {
		t.Fatalf("expected default component, got %q", l.Component())
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithComponent(ComponentExpense).
		WithOperation("create").
		WithExpense(3, 12.5, "Books").
		WithError(errors.New("boom")).
		WithError(nil)

	if f[FieldComponent] != ComponentExpense || f[FieldOperation] != "create" || f[FieldError] != "boom" {
		t.Fatalf("unexpected fields: %v", f)
	}
	if f[FieldExpenseID] != int64(3) || f[FieldAmount] != 12.5 || f[FieldCategory] != "Books" {
		t.Fatalf("unexpected expense fields: %v", f)
	}
	if got := len(f.ToSlice()); got != 2*len(f) {
		t.Fatalf("expected %d slice entries, got %d", 2*len(f), got)
	}
}
