package services

import (
	"context"
	"testing"
	"time"

	"github.com/kavyatex/sareebook/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlush_FIFOHaltsOnFailure(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	for _, id := range []string{"srv_1", "srv_2", "srv_3"} {
		seedOrder(t, e, confirmedOrder(id, base))
		courier := "DTDC"
		require.NoError(t, e.svc.UpdateOrder(ctx, "u1", id, models.OrderChanges{Courier: &courier}))
	}

	e.src.updateFn = func(ctx context.Context, id, userID string, c models.OrderChanges) error {
		if id == "srv_2" {
			return assert.AnError
		}
		return nil
	}

	n, err := e.svc.Flush(ctx, "u1")
	assert.Equal(t, 1, n)
	require.Error(t, err)

	// The first entry was confirmed and removed; the failed entry and the one
	// behind it stay queued, and the third remote call never happened.
	assert.Equal(t, []string{"update srv_1", "update srv_2"}, e.src.calls)

	pending, err := e.store.Outbox.Pending(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "srv_2", pending[0].OrderID)
	assert.Equal(t, "srv_3", pending[1].OrderID)

	// The next trigger retries the whole remainder.
	e.src.updateFn = nil
	n, err = e.svc.Flush(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	depth, err := e.svc.OutboxDepth(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, depth)
}

func TestFlush_SingleFlightGuard(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	seedOrder(t, e, confirmedOrder("srv_1", base))
	require.NoError(t, e.svc.DeleteOrder(ctx, "u1", "srv_1"))

	// Simulate a flush already in flight.
	e.svc.flushing.Store(true)
	n, err := e.svc.Flush(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, e.src.calls)
	e.svc.flushing.Store(false)

	n, err = e.svc.Flush(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFlush_EntryRemovedOnlyAfterConfirmation(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	seedOrder(t, e, confirmedOrder("srv_1", base))
	require.NoError(t, e.svc.DeleteOrder(ctx, "u1", "srv_1"))

	e.src.deleteFn = func(ctx context.Context, id string) error { return assert.AnError }

	_, err := e.svc.Flush(ctx, "u1")
	require.Error(t, err)

	depth, err := e.svc.OutboxDepth(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, depth)
}

func TestFlush_StatusEntryReplaysAsUpdate(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	seedOrder(t, e, confirmedOrder("srv_1", base))
	dd := base.AddDate(0, 0, 1)
	require.NoError(t, e.svc.UpdateOrderStatus(ctx, "u1", "srv_1", models.StatusDespatched, &dd))

	var gotChanges models.OrderChanges
	var gotUser string
	e.src.updateFn = func(ctx context.Context, id, userID string, c models.OrderChanges) error {
		gotUser = userID
		gotChanges = c
		return nil
	}

	n, err := e.svc.Flush(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, "u1", gotUser)
	require.NotNil(t, gotChanges.Status)
	assert.Equal(t, models.StatusDespatched, *gotChanges.Status)
	require.NotNil(t, gotChanges.DespatchDate)
	assert.Equal(t, dd, gotChanges.DespatchDate.UTC())
}

func TestFlush_EmptyQueue(t *testing.T) {
	e := setup(t)

	n, err := e.svc.Flush(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestFlush_InsertMovesAccessLog(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	tempID, err := e.svc.CreateOrder(ctx, "u1", models.OrderPayload{Recipient: "Meena"})
	require.NoError(t, err)

	_, err = e.svc.Flush(ctx, "u1")
	require.NoError(t, err)

	// Only the adopted id is tracked for eviction now.
	stale, err := e.store.Metadata.StaleOrderIDs(ctx, "u1", base.Add(time.Hour))
	require.NoError(t, err)
	assert.NotContains(t, stale, tempID)
	assert.Contains(t, stale, "srv_Meena")
}
