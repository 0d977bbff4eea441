// Package remote defines the hosted order data source consumed by the sync
// layer, and its HTTP/JSON implementation.
package remote

import (
	"context"
	"time"

	"github.com/kavyatex/sareebook/internal/client/models"
)

// Query narrows a Select call. Zero-value fields are omitted; an ID targets a
// single record.
type Query struct {
	UserID    string
	ID        string
	Status    models.OrderStatus
	DateField models.DateField
	From      time.Time
	To        time.Time
}

// Source is the remote order store. The backing service is treated as a
// trusted, eventually consistent source of truth reachable over an unreliable
// network; callers decide what to do when calls fail.
type Source interface {
	// Ping probes reachability. Used by the connectivity watcher.
	Ping(ctx context.Context) error

	// Insert creates the order remotely; the server assigns id and timestamps.
	Insert(ctx context.Context, userID string, p models.OrderPayload) (*models.Order, error)

	// Update applies a partial update, filtered by both record id and owning
	// user id.
	Update(ctx context.Context, id, userID string, c models.OrderChanges) error

	Delete(ctx context.Context, id string) error

	// Select returns orders matching the query.
	Select(ctx context.Context, q Query) ([]models.Order, error)

	// SelectIDs returns the full authoritative id set for the user.
	SelectIDs(ctx context.Context, userID string) ([]string, error)

	// SelectChangedSince returns records with updated_at strictly greater than
	// watermark, ascending by updated_at. A zero watermark returns everything.
	SelectChangedSince(ctx context.Context, userID string, watermark time.Time) ([]models.Order, error)
}
