package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Operations carried by ExpenseChangedMessage.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// ExpenseChangedMessage tells subscribers that an expense was created,
// updated or deleted. Consumers reload the list rather than patching it,
// so only the id travels.
type ExpenseChangedMessage struct {
	MessageID string    `json:"message_id"`
	ID        int64     `json:"id"`
	Operation string    `json:"operation"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseChangedMessage creates a message with a fresh message id
func NewExpenseChangedMessage(id int64, op string) *ExpenseChangedMessage {
	return &ExpenseChangedMessage{
		MessageID: uuid.NewString(),
		ID:        id,
		Operation: op,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseChangedMessageFromJSON creates a message from JSON bytes
func ExpenseChangedMessageFromJSON(data []byte) (*ExpenseChangedMessage, error) {
	var msg ExpenseChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
