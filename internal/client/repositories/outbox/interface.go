package outbox

import (
	"context"

	"github.com/kavyatex/sareebook/internal/client/models"
)

// Repository is the durable FIFO queue of mutations awaiting replay against
// the remote store.
type Repository interface {
	// Push appends the entry to the tail of the user's queue.
	Push(ctx context.Context, e *models.OutboxEntry) error

	// Pending returns the user's queued entries in insertion order.
	Pending(ctx context.Context, userID string) ([]models.OutboxEntry, error)

	// Remove deletes a single entry once its remote effect is confirmed.
	Remove(ctx context.Context, id string) error

	// RemoveForOrder deletes every queued entry touching the given order.
	// Used when a still-provisional order is deleted locally.
	RemoveForOrder(ctx context.Context, userID, orderID string) (int, error)

	// RemapOrderID rewrites queued entries from a provisional id to the
	// server-assigned one after an insert is confirmed.
	RemapOrderID(ctx context.Context, userID, from, to string) error

	// Depth reports how many entries are queued for the user.
	Depth(ctx context.Context, userID string) (int, error)

	Clear(ctx context.Context, userID string) error
}
