package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxAction discriminates queued mutations.
type OutboxAction string

const (
	ActionInsert OutboxAction = "insert"
	ActionUpdate OutboxAction = "update"
	ActionDelete OutboxAction = "delete"
	ActionStatus OutboxAction = "status"
)

// OutboxEntry is one queued mutation awaiting confirmation by the remote
// store. Entries replay in Seq order and are removed only after the remote
// effect is confirmed.
type OutboxEntry struct {
	// Seq is assigned by the store and fixes FIFO order per user.
	Seq       int64
	ID        string
	UserID    string
	Action    OutboxAction
	OrderID   string
	Payload   json.RawMessage
	CreatedAt time.Time
}

// NewOutboxEntry builds an entry with a fresh id and the payload marshalled
// to JSON. A nil payload is stored as JSON null.
func NewOutboxEntry(userID string, action OutboxAction, orderID string, payload any, now time.Time) (*OutboxEntry, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &OutboxEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		OrderID:   orderID,
		Payload:   b,
		CreatedAt: now,
	}, nil
}
