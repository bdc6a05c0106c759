package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type fakeChannel struct {
	published []amqp091.Publishing
	exchange  string
	key       string
	deadline  bool
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}
	_, f.deadline = ctx.Deadline()
	f.exchange, f.key = exchange, key
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestNotifyChange(t *testing.T) {
	ch := &fakeChannel{}
	c := &Client{channel: ch, exchangeName: "expenses", queueName: "expense_changes"}

	if err := c.NotifyChange(context.Background(), 42, OpUpdate); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(ch.published) != 1 {
		t.Fatalf("expected one publishing, got %d", len(ch.published))
	}
	if ch.exchange != "expenses" || ch.key != "expense_changes" {
		t.Fatalf("unexpected routing: exchange=%q key=%q", ch.exchange, ch.key)
	}
	if !ch.deadline {
		t.Fatalf("expected publish to run with a deadline")
	}

	p := ch.published[0]
	if p.ContentType != "application/json" || p.DeliveryMode != amqp091.Persistent || p.Type != "expense.update" {
		t.Fatalf("unexpected publishing headers: %+v", p)
	}
	msg, err := ExpenseChangedMessageFromJSON(p.Body)
	if err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if msg.ID != 42 || msg.Operation != OpUpdate || msg.MessageID == "" || msg.MessageID != p.MessageId {
		t.Fatalf("unexpected message: %+v (publishing id %q)", msg, p.MessageId)
	}
}

func TestNotifyChangePropagatesPublishError(t *testing.T) {
	c := &Client{channel: &fakeChannel{err: errors.New("channel closed")}, exchangeName: "x", queueName: "q"}
	if err := c.NotifyChange(context.Background(), 1, OpDelete); err == nil {
		t.Fatalf("expected publish error")
	}
}

func TestClose(t *testing.T) {
	ch := &fakeChannel{}
	c := &Client{channel: ch}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !ch.closed {
		t.Fatalf("expected channel to be closed")
	}

	if err := (&Client{}).Close(); err != nil {
		t.Fatalf("close of empty client: %v", err)
	}
}

func TestNewExpenseChangedMessage(t *testing.T) {
	before := time.Now()
	a := NewExpenseChangedMessage(1, OpCreate)
	b := NewExpenseChangedMessage(1, OpCreate)
	if a.MessageID == b.MessageID {
		t.Fatalf("expected distinct message ids")
	}
	if a.Timestamp.Before(before) {
		t.Fatalf("unexpected timestamp %v", a.Timestamp)
	}

	if _, err := ExpenseChangedMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}
