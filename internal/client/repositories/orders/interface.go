package orders

import (
	"context"

	"github.com/kavyatex/sareebook/internal/client/models"
)

// Repository describes the locally cached order set. Implementations are
// backed by the client's SQLite database.
type Repository interface {
	// Upsert writes the order unconditionally. Used for optimistic local
	// mutations, which always supersede the cached copy.
	Upsert(ctx context.Context, o *models.Order) error

	// GetByID returns the cached order or common.ErrNotFound.
	GetByID(ctx context.Context, userID, id string) (*models.Order, error)

	// List returns cached orders matching the filter, newest booking first.
	List(ctx context.Context, userID string, f models.OrderFilter) ([]models.Order, error)

	// MergeAll applies last-writer-wins by updated_at: each incoming record
	// overwrites the cached one only if its updated_at is >= the cached value
	// (ties prefer incoming). Returns how many rows were inserted or changed.
	MergeAll(ctx context.Context, list []models.Order) (int, error)

	// DeleteByID removes the cached row if present.
	DeleteByID(ctx context.Context, userID, id string) error

	// DeleteNotIn removes confirmed (non-provisional) rows whose id is absent
	// from keep. This is how server-side deletions propagate locally.
	DeleteNotIn(ctx context.Context, userID string, keep []string) (int, error)

	// ReplaceProvisional removes the provisional row and writes the confirmed
	// server record in its place. Run inside a transaction together with the
	// outbox remap.
	ReplaceProvisional(ctx context.Context, userID, tempID string, confirmed *models.Order) error

	// Distinct derives autocomplete suggestions from the cached order set.
	Distinct(ctx context.Context, userID string) (*models.Suggestions, error)
}
