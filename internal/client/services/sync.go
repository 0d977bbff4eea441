package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kavyatex/sareebook/internal/client/db"
	"github.com/kavyatex/sareebook/internal/client/models"
	"github.com/kavyatex/sareebook/internal/client/remote"
)

func watermarkKey(userID string) string {
	return "watermark:" + userID
}

// watermark returns the updated_at value of the most recently absorbed remote
// change, or the zero time when the user has never synced.
func (s *OrderService) watermark(ctx context.Context, userID string) (time.Time, error) {
	b, err := s.store.Metadata.Get(ctx, watermarkKey(userID))
	if err != nil {
		return time.Time{}, err
	}
	if b == nil {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, string(b))
	if err != nil {
		// Unreadable watermark: fall back to a full delta pull.
		s.log.Warn(ctx, "discarding corrupt watermark", "user_id", userID, "value", string(b))
		return time.Time{}, nil
	}
	return t, nil
}

// advanceWatermark moves the watermark forward only; a stale candidate is
// ignored so concurrent syncs cannot rewind it.
func (s *OrderService) advanceWatermark(ctx context.Context, userID string, to time.Time) error {
	current, err := s.watermark(ctx, userID)
	if err != nil {
		return err
	}
	if !to.After(current) {
		return nil
	}
	return s.store.Metadata.Set(ctx, watermarkKey(userID), []byte(to.UTC().Format(time.RFC3339Nano)))
}

// SyncOrders performs one incremental sync pass: pull records changed since
// the watermark, merge them, then prune confirmed records the server no
// longer lists (deletions are invisible to the changed-since query). Returns
// whether the local cache changed. No-op when offline.
func (s *OrderService) SyncOrders(ctx context.Context, userID string) (bool, error) {
	if !s.online() {
		return false, nil
	}

	watermark, err := s.watermark(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("reading watermark: %w", err)
	}

	changed, err := s.remote.SelectChangedSince(ctx, userID, watermark)
	if err != nil {
		return false, fmt.Errorf("fetching changes: %w", err)
	}

	merged := 0
	if len(changed) > 0 {
		merged, err = s.store.Orders.MergeAll(ctx, changed)
		if err != nil {
			return false, fmt.Errorf("merging changes: %w", err)
		}
		s.touch(ctx, userID, orderIDs(changed))
	}

	serverIDs, err := s.remote.SelectIDs(ctx, userID)
	if err != nil {
		return merged > 0, fmt.Errorf("fetching id set: %w", err)
	}
	pruned, err := s.store.Orders.DeleteNotIn(ctx, userID, serverIDs)
	if err != nil {
		return merged > 0, fmt.Errorf("pruning deleted orders: %w", err)
	}

	if len(changed) > 0 {
		latest := changed[len(changed)-1].UpdatedAt
		for _, o := range changed {
			if o.UpdatedAt.After(latest) {
				latest = o.UpdatedAt
			}
		}
		if err := s.advanceWatermark(ctx, userID, latest); err != nil {
			return true, fmt.Errorf("advancing watermark: %w", err)
		}
	}

	dirty := merged > 0 || pruned > 0
	if dirty {
		if err := s.store.Suggestions.Clear(ctx, userID); err != nil {
			s.log.Warn(ctx, "failed to invalidate suggestions", "user_id", userID, "error", err)
		}
	}
	return dirty, nil
}

// FullSync replaces the cached set with the server's, used on first load.
// Offline it degrades to returning the cached set.
func (s *OrderService) FullSync(ctx context.Context, userID string) ([]models.Order, error) {
	all := models.OrderFilter{AllDates: true}

	if !s.online() {
		return s.store.Orders.List(ctx, userID, all)
	}

	fresh, err := s.remote.Select(ctx, remote.Query{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("fetching orders: %w", err)
	}

	err = s.store.InTx(ctx, func(ctx context.Context, r db.Repositories) error {
		if _, err := r.Orders.MergeAll(ctx, fresh); err != nil {
			return err
		}
		_, err := r.Orders.DeleteNotIn(ctx, userID, orderIDs(fresh))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("replacing cache: %w", err)
	}
	s.touch(ctx, userID, orderIDs(fresh))

	var latest time.Time
	for _, o := range fresh {
		if o.UpdatedAt.After(latest) {
			latest = o.UpdatedAt
		}
	}
	if !latest.IsZero() {
		if err := s.advanceWatermark(ctx, userID, latest); err != nil {
			return nil, fmt.Errorf("advancing watermark: %w", err)
		}
	}

	return s.store.Orders.List(ctx, userID, all)
}

// EvictStale removes cache entries whose last access is older than the
// retention window, together with their access-log rows. Runs once per
// session init rather than on a timer. Returns the count evicted.
func (s *OrderService) EvictStale(ctx context.Context, userID string) (int, error) {
	cutoff := s.now().Add(-s.retention)

	ids, err := s.store.Metadata.StaleOrderIDs(ctx, userID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("scanning access log: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	err = s.store.InTx(ctx, func(ctx context.Context, r db.Repositories) error {
		for _, id := range ids {
			if err := r.Orders.DeleteByID(ctx, userID, id); err != nil {
				return err
			}
		}
		return r.Metadata.RemoveAccess(ctx, userID, ids)
	})
	if err != nil {
		return 0, fmt.Errorf("evicting stale entries: %w", err)
	}
	return len(ids), nil
}
