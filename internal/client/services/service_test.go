package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kavyatex/sareebook/internal/client/db"
	"github.com/kavyatex/sareebook/internal/client/models"
	"github.com/kavyatex/sareebook/internal/client/remote"
	"github.com/kavyatex/sareebook/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func setupStore(t *testing.T) *db.Store {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.Exec(`
CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  recipient TEXT NOT NULL DEFAULT '',
  sender TEXT NOT NULL DEFAULT '',
  booked_by TEXT NOT NULL DEFAULT '',
  mobile TEXT NOT NULL DEFAULT '',
  courier TEXT NOT NULL DEFAULT '',
  quantity INTEGER,
  status TEXT NOT NULL,
  booking_date INTEGER NOT NULL,
  despatch_date INTEGER,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  provisional INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE metadata (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
CREATE TABLE access_log (
  user_id TEXT NOT NULL,
  order_id TEXT NOT NULL,
  accessed_at INTEGER NOT NULL,
  PRIMARY KEY (user_id, order_id)
);
CREATE TABLE outbox (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  action TEXT NOT NULL,
  order_id TEXT NOT NULL,
  payload BLOB NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE TABLE suggestions (
  user_id TEXT PRIMARY KEY,
  payload BLOB NOT NULL,
  expires_at INTEGER NOT NULL
);
`)
	require.NoError(t, err)
	return db.NewStore(conn)
}

// fakeSource implements remote.Source with pluggable behavior and records the
// order-mutating calls it receives.
type fakeSource struct {
	insertFn  func(ctx context.Context, userID string, p models.OrderPayload) (*models.Order, error)
	updateFn  func(ctx context.Context, id, userID string, c models.OrderChanges) error
	deleteFn  func(ctx context.Context, id string) error
	selectFn  func(ctx context.Context, q remote.Query) ([]models.Order, error)
	idsFn     func(ctx context.Context, userID string) ([]string, error)
	changedFn func(ctx context.Context, userID string, watermark time.Time) ([]models.Order, error)

	calls []string
}

func (f *fakeSource) Ping(context.Context) error { return nil }

func (f *fakeSource) Insert(ctx context.Context, userID string, p models.OrderPayload) (*models.Order, error) {
	f.calls = append(f.calls, "insert "+p.Recipient)
	if f.insertFn != nil {
		return f.insertFn(ctx, userID, p)
	}
	return &models.Order{ID: "srv_" + p.Recipient, UserID: userID, Recipient: p.Recipient,
		Status: models.StatusPending, BookingDate: p.BookingDate, CreatedAt: base, UpdatedAt: base}, nil
}

func (f *fakeSource) Update(ctx context.Context, id, userID string, c models.OrderChanges) error {
	f.calls = append(f.calls, "update "+id)
	if f.updateFn != nil {
		return f.updateFn(ctx, id, userID, c)
	}
	return nil
}

func (f *fakeSource) Delete(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete "+id)
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeSource) Select(ctx context.Context, q remote.Query) ([]models.Order, error) {
	if f.selectFn != nil {
		return f.selectFn(ctx, q)
	}
	return nil, nil
}

func (f *fakeSource) SelectIDs(ctx context.Context, userID string) ([]string, error) {
	if f.idsFn != nil {
		return f.idsFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeSource) SelectChangedSince(ctx context.Context, userID string, watermark time.Time) ([]models.Order, error) {
	if f.changedFn != nil {
		return f.changedFn(ctx, userID, watermark)
	}
	return nil, nil
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type testEnv struct {
	store *db.Store
	src   *fakeSource
	svc   *OrderService
	now   *time.Time
}

func setup(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	store := setupStore(t)
	src := &fakeSource{}
	now := base
	all := append([]Option{WithClock(func() time.Time { return now })}, opts...)
	svc := NewOrderService(store, src, discardLogger(), all...)
	return &testEnv{store: store, src: src, svc: svc, now: &now}
}

func seedOrder(t *testing.T, e *testEnv, o models.Order) {
	t.Helper()
	require.NoError(t, e.store.Orders.Upsert(context.Background(), &o))
}

func confirmedOrder(id string, updatedAt time.Time) models.Order {
	return models.Order{
		ID: id, UserID: "u1", Recipient: "Meena", Sender: "Kavya Tex",
		Courier: "Professional", Status: models.StatusPending,
		BookingDate: base, CreatedAt: base, UpdatedAt: updatedAt,
	}
}
