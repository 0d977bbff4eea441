package suggestions

import (
	"context"
	"time"

	"github.com/kavyatex/sareebook/internal/client/models"
)

// Repository caches derived autocomplete values with an expiry.
type Repository interface {
	// Get returns the cached snapshot, or nil if absent or expired at now.
	Get(ctx context.Context, userID string, now time.Time) (*models.Suggestions, error)

	// Set stores the snapshot, replacing any previous one.
	Set(ctx context.Context, userID string, s *models.Suggestions, expiresAt time.Time) error

	Clear(ctx context.Context, userID string) error
}
