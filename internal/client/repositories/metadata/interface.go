package metadata

import (
	"context"
	"time"
)

// Repository holds sync bookkeeping: a small KV area (the per-user delta-sync
// watermark lives there) and the per-record access log driving eviction.
type Repository interface {
	// Get returns the value for key, or nil if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error

	// Touch records at as the last access time of each given order.
	Touch(ctx context.Context, userID string, orderIDs []string, at time.Time) error

	// StaleOrderIDs returns ids whose last access is strictly before cutoff.
	// Orders still awaiting their first sync (provisional) are never reported.
	StaleOrderIDs(ctx context.Context, userID string, cutoff time.Time) ([]string, error)

	// RemoveAccess drops access-log rows for the given orders.
	RemoveAccess(ctx context.Context, userID string, orderIDs []string) error
}
