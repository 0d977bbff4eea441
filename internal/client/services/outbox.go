package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kavyatex/sareebook/internal/client/db"
	"github.com/kavyatex/sareebook/internal/client/models"
)

// Flush replays the user's queued mutations against the remote store in FIFO
// order. It is a no-op when offline or when a flush is already in flight.
//
// Processing stops at the first failing entry: the entry stays queued together
// with everything behind it, so a later mutation is never applied ahead of an
// earlier one. The whole queue is retried on the next trigger; there is no
// retry cap or backoff at this layer.
//
// Returns the number of confirmed entries and the error that halted the pass,
// if any.
func (s *OrderService) Flush(ctx context.Context, userID string) (int, error) {
	if !s.online() {
		return 0, nil
	}
	if !s.flushing.CompareAndSwap(false, true) {
		return 0, nil
	}
	defer s.flushing.Store(false)

	pending, err := s.store.Outbox.Pending(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("reading outbox: %w", err)
	}

	processed := 0
	for i := range pending {
		if err := s.applyEntry(ctx, &pending[i]); err != nil {
			return processed, fmt.Errorf("outbox entry %s (%s): %w", pending[i].ID, pending[i].Action, err)
		}
		processed++
	}
	return processed, nil
}

// applyEntry performs the remote effect and removes the entry only once that
// effect is confirmed.
func (s *OrderService) applyEntry(ctx context.Context, e *models.OutboxEntry) error {
	switch e.Action {
	case models.ActionInsert:
		return s.applyInsert(ctx, e)

	case models.ActionUpdate, models.ActionStatus:
		var c models.OrderChanges
		if err := json.Unmarshal(e.Payload, &c); err != nil {
			return fmt.Errorf("decoding payload: %w", err)
		}
		if err := s.remote.Update(ctx, e.OrderID, e.UserID, c); err != nil {
			return err
		}

	case models.ActionDelete:
		if err := s.remote.Delete(ctx, e.OrderID); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown outbox action %q", e.Action)
	}

	return s.store.Outbox.Remove(ctx, e.ID)
}

// applyInsert confirms a provisional record: the server-assigned row replaces
// the temp one, and any later queued entries created offline against the temp
// id are remapped so they replay cleanly.
func (s *OrderService) applyInsert(ctx context.Context, e *models.OutboxEntry) error {
	var p models.OrderPayload
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}

	confirmed, err := s.remote.Insert(ctx, e.UserID, p)
	if err != nil {
		return err
	}
	confirmed.Provisional = false

	err = s.store.InTx(ctx, func(ctx context.Context, r db.Repositories) error {
		if err := r.Orders.ReplaceProvisional(ctx, e.UserID, e.OrderID, confirmed); err != nil {
			return err
		}
		if err := r.Outbox.RemapOrderID(ctx, e.UserID, e.OrderID, confirmed.ID); err != nil {
			return err
		}
		return r.Outbox.Remove(ctx, e.ID)
	})
	if err != nil {
		return err
	}

	// Move the access-log entry over to the adopted id.
	if err := s.store.Metadata.RemoveAccess(ctx, e.UserID, []string{e.OrderID}); err != nil {
		s.log.Warn(ctx, "failed to drop provisional access entry", "order_id", e.OrderID, "error", err)
	}
	s.touch(ctx, e.UserID, []string{confirmed.ID})
	return nil
}
