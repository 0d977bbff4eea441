package services

import (
	"context"
	"fmt"

	"github.com/kavyatex/sareebook/internal/client/models"
)

// Suggestions returns autocomplete values for the order form. A time-boxed
// snapshot derived from the cached order set is served until it expires.
func (s *OrderService) Suggestions(ctx context.Context, userID string) (*models.Suggestions, error) {
	cached, err := s.store.Suggestions.Get(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("reading suggestions: %w", err)
	}
	if cached != nil {
		return cached, nil
	}

	derived, err := s.store.Orders.Distinct(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("deriving suggestions: %w", err)
	}
	if err := s.store.Suggestions.Set(ctx, userID, derived, s.now().Add(s.suggestionsTTL)); err != nil {
		return nil, fmt.Errorf("caching suggestions: %w", err)
	}
	return derived, nil
}
