package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kavyatex/sareebook/internal/client/db"
	"github.com/kavyatex/sareebook/internal/client/models"
	"github.com/kavyatex/sareebook/internal/client/remote"
	"github.com/kavyatex/sareebook/internal/common"
)

func queryFor(userID string, f models.OrderFilter) remote.Query {
	q := remote.Query{UserID: userID, Status: f.Status}
	if !f.AllDates {
		q.DateField = f.DateField()
		q.From = f.From
		q.To = f.To
	}
	return q
}

// GetOrders returns the cached orders matching the filter immediately and
// revalidates against the remote store in the background. When fresh data has
// been merged, onFresh (if non-nil) receives the re-filtered result. Remote
// failures are logged and swallowed.
func (s *OrderService) GetOrders(ctx context.Context, userID string, f models.OrderFilter, onFresh func([]models.Order)) ([]models.Order, error) {
	cached, err := s.store.Orders.List(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("listing cached orders: %w", err)
	}
	s.touch(ctx, userID, orderIDs(cached))

	go s.revalidate(userID, queryFor(userID, f), func(ctx context.Context) ([]models.Order, error) {
		return s.store.Orders.List(ctx, userID, f)
	}, onFresh)

	return cached, nil
}

// GetOrderByID returns the cached order (nil when absent) and revalidates the
// single record in the background.
func (s *OrderService) GetOrderByID(ctx context.Context, userID, id string, onFresh func([]models.Order)) (*models.Order, error) {
	cached, err := s.store.Orders.GetByID(ctx, userID, id)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("reading cached order: %w", err)
	}
	if cached != nil {
		s.touch(ctx, userID, []string{id})
	}

	go s.revalidate(userID, remote.Query{UserID: userID, ID: id}, func(ctx context.Context) ([]models.Order, error) {
		o, err := s.store.Orders.GetByID(ctx, userID, id)
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []models.Order{*o}, nil
	}, onFresh)

	return cached, nil
}

// revalidate runs detached from the caller's context: the stale read has
// already returned by the time this fires.
func (s *OrderService) revalidate(userID string, q remote.Query, reread func(context.Context) ([]models.Order, error), onFresh func([]models.Order)) {
	if !s.online() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), revalidateTimeout)
	defer cancel()

	fresh, err := s.remote.Select(ctx, q)
	if err != nil {
		s.log.Warn(ctx, "background refresh failed", "user_id", userID, "error", err)
		return
	}
	if _, err := s.store.Orders.MergeAll(ctx, fresh); err != nil {
		s.log.Error(ctx, "failed to merge refreshed orders", "user_id", userID, "error", err)
		return
	}
	s.touch(ctx, userID, orderIDs(fresh))

	if onFresh != nil {
		current, err := reread(ctx)
		if err != nil {
			s.log.Error(ctx, "failed to reread refreshed orders", "user_id", userID, "error", err)
			return
		}
		onFresh(current)
	}
}

// CreateOrder writes an optimistic provisional record and queues the insert.
// It returns the provisional id; the record adopts the server id once the
// outbox entry is confirmed.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, p models.OrderPayload) (string, error) {
	now := s.now()
	if p.BookingDate.IsZero() {
		p.BookingDate = now
	}

	o := &models.Order{
		ID:          models.NewTempID(),
		UserID:      userID,
		Recipient:   p.Recipient,
		Sender:      p.Sender,
		BookedBy:    p.BookedBy,
		Mobile:      p.Mobile,
		Courier:     p.Courier,
		Quantity:    p.Quantity,
		Status:      models.StatusPending,
		BookingDate: p.BookingDate,
		CreatedAt:   now,
		UpdatedAt:   now,
		Provisional: true,
	}

	entry, err := models.NewOutboxEntry(userID, models.ActionInsert, o.ID, p, now)
	if err != nil {
		return "", fmt.Errorf("encoding insert payload: %w", err)
	}

	err = s.store.InTx(ctx, func(ctx context.Context, r db.Repositories) error {
		if err := r.Orders.Upsert(ctx, o); err != nil {
			return err
		}
		return r.Outbox.Push(ctx, entry)
	})
	if err != nil {
		return "", fmt.Errorf("queueing order: %w", err)
	}

	s.touch(ctx, userID, []string{o.ID})
	return o.ID, nil
}

// UpdateOrder applies the changes to the cached record and queues the remote
// update. The local write is the desired end state; no reconciliation happens
// when the outbox entry later succeeds.
func (s *OrderService) UpdateOrder(ctx context.Context, userID, id string, c models.OrderChanges) error {
	o, err := s.store.Orders.GetByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("loading order %s: %w", id, err)
	}
	o.Apply(c, s.now())

	entry, err := models.NewOutboxEntry(userID, models.ActionUpdate, id, c, s.now())
	if err != nil {
		return fmt.Errorf("encoding update payload: %w", err)
	}

	err = s.store.InTx(ctx, func(ctx context.Context, r db.Repositories) error {
		if err := r.Orders.Upsert(ctx, o); err != nil {
			return err
		}
		return r.Outbox.Push(ctx, entry)
	})
	if err != nil {
		return fmt.Errorf("queueing update: %w", err)
	}

	s.touch(ctx, userID, []string{id})
	return nil
}

// UpdateOrderStatus transitions the order's lifecycle state. despatchDate
// should be non-nil when moving to DESPATCHED and nil when reverting.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, userID, id string, status models.OrderStatus, despatchDate *time.Time) error {
	o, err := s.store.Orders.GetByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("loading order %s: %w", id, err)
	}

	c := models.OrderChanges{Status: &status, DespatchDate: despatchDate}
	o.Apply(c, s.now())

	entry, err := models.NewOutboxEntry(userID, models.ActionStatus, id, c, s.now())
	if err != nil {
		return fmt.Errorf("encoding status payload: %w", err)
	}

	err = s.store.InTx(ctx, func(ctx context.Context, r db.Repositories) error {
		if err := r.Orders.Upsert(ctx, o); err != nil {
			return err
		}
		return r.Outbox.Push(ctx, entry)
	})
	if err != nil {
		return fmt.Errorf("queueing status change: %w", err)
	}

	s.touch(ctx, userID, []string{id})
	return nil
}

// DeleteOrder removes the record locally. For confirmed records a remote
// delete is queued; for provisional ones the queued insert (and anything
// after it) is cancelled instead, since the server never saw the record.
func (s *OrderService) DeleteOrder(ctx context.Context, userID, id string) error {
	o, err := s.store.Orders.GetByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("loading order %s: %w", id, err)
	}

	if o.Provisional {
		err = s.store.InTx(ctx, func(ctx context.Context, r db.Repositories) error {
			if err := r.Orders.DeleteByID(ctx, userID, id); err != nil {
				return err
			}
			_, err := r.Outbox.RemoveForOrder(ctx, userID, id)
			return err
		})
	} else {
		var entry *models.OutboxEntry
		entry, err = models.NewOutboxEntry(userID, models.ActionDelete, id, nil, s.now())
		if err != nil {
			return fmt.Errorf("encoding delete entry: %w", err)
		}
		err = s.store.InTx(ctx, func(ctx context.Context, r db.Repositories) error {
			if err := r.Orders.DeleteByID(ctx, userID, id); err != nil {
				return err
			}
			return r.Outbox.Push(ctx, entry)
		})
	}
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	if err := s.store.Metadata.RemoveAccess(ctx, userID, []string{id}); err != nil {
		s.log.Warn(ctx, "failed to drop access entry", "order_id", id, "error", err)
	}
	return nil
}
