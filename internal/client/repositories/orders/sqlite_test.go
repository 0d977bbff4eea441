package orders

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/kavyatex/sareebook/internal/client/models"
	"github.com/kavyatex/sareebook/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
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
`)
	require.NoError(t, err)
	return db
}

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func makeOrder(id string, updatedAt time.Time) models.Order {
	return models.Order{
		ID:          id,
		UserID:      "u1",
		Recipient:   "Meena",
		Sender:      "Kavya Tex",
		Courier:     "Professional",
		Status:      models.StatusPending,
		BookingDate: base,
		CreatedAt:   base,
		UpdatedAt:   updatedAt,
	}
}

func TestUpsert_InsertAndOverwrite(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	o := makeOrder("srv_1", base)
	require.NoError(t, r.Upsert(ctx, &o))

	got, err := r.GetByID(ctx, "u1", "srv_1")
	require.NoError(t, err)
	assert.Equal(t, "Meena", got.Recipient)
	assert.Nil(t, got.Quantity)

	// Unconditional overwrite, even with an older timestamp.
	o2 := makeOrder("srv_1", base.Add(-time.Hour))
	o2.Recipient = "Lakshmi"
	require.NoError(t, r.Upsert(ctx, &o2))

	got, err = r.GetByID(ctx, "u1", "srv_1")
	require.NoError(t, err)
	assert.Equal(t, "Lakshmi", got.Recipient)
	assert.Equal(t, base.Add(-time.Hour), got.UpdatedAt)
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMergeAll_LastWriterWins(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	cached := makeOrder("srv_1", base)
	require.NoError(t, r.Upsert(ctx, &cached))

	// Older incoming record is ignored.
	older := makeOrder("srv_1", base.Add(-time.Minute))
	older.Recipient = "stale"
	n, err := r.MergeAll(ctx, []models.Order{older})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, err := r.GetByID(ctx, "u1", "srv_1")
	require.NoError(t, err)
	assert.Equal(t, "Meena", got.Recipient)
	assert.Equal(t, base, got.UpdatedAt)

	// Equal timestamp: incoming wins.
	tie := makeOrder("srv_1", base)
	tie.Recipient = "tie"
	n, err = r.MergeAll(ctx, []models.Order{tie})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err = r.GetByID(ctx, "u1", "srv_1")
	require.NoError(t, err)
	assert.Equal(t, "tie", got.Recipient)

	// Newer incoming record replaces.
	newer := makeOrder("srv_1", base.Add(time.Minute))
	newer.Recipient = "fresh"
	n, err = r.MergeAll(ctx, []models.Order{newer})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err = r.GetByID(ctx, "u1", "srv_1")
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Recipient)
	assert.Equal(t, base.Add(time.Minute), got.UpdatedAt)
}

func TestMergeAll_Idempotent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	o := makeOrder("srv_1", base)

	n, err := r.MergeAll(ctx, []models.Order{o})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Second application of the same record changes the row in place with
	// identical values; the cache state is unchanged.
	_, err = r.MergeAll(ctx, []models.Order{o})
	require.NoError(t, err)

	got, err := r.GetByID(ctx, "u1", "srv_1")
	require.NoError(t, err)
	assert.Equal(t, o.Recipient, got.Recipient)
	assert.Equal(t, o.UpdatedAt, got.UpdatedAt)

	var count int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM orders`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestList_Filters(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	pending := makeOrder("p1", base)
	pending.BookingDate = base.AddDate(0, 0, -10)

	recent := makeOrder("p2", base)
	recent.BookingDate = base

	despatched := makeOrder("d1", base)
	despatched.Status = models.StatusDespatched
	dd := base.AddDate(0, 0, -1)
	despatched.DespatchDate = &dd

	other := makeOrder("x1", base)
	other.UserID = "u2"

	for _, o := range []models.Order{pending, recent, despatched, other} {
		require.NoError(t, r.Upsert(ctx, &o))
	}

	// Status only.
	got, err := r.List(ctx, "u1", models.OrderFilter{Status: models.StatusPending, AllDates: true})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Pending with booking-date range excludes the old booking.
	got, err = r.List(ctx, "u1", models.OrderFilter{
		Status: models.StatusPending,
		From:   base.AddDate(0, 0, -5),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)

	// Despatched ranges apply to despatch_date.
	got, err = r.List(ctx, "u1", models.OrderFilter{
		Status: models.StatusDespatched,
		From:   base.AddDate(0, 0, -2),
		To:     base,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "d1", got[0].ID)

	// No filter: everything owned by the user.
	got, err = r.List(ctx, "u1", models.OrderFilter{AllDates: true})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestDeleteNotIn_SparesProvisional(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	confirmed := makeOrder("srv_1", base)
	gone := makeOrder("srv_2", base)
	provisional := makeOrder(models.NewTempID(), base)
	provisional.Provisional = true

	for _, o := range []models.Order{confirmed, gone, provisional} {
		require.NoError(t, r.Upsert(ctx, &o))
	}

	n, err := r.DeleteNotIn(ctx, "u1", []string{"srv_1"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = r.GetByID(ctx, "u1", "srv_2")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// The provisional record survives even though the server never listed it.
	got, err := r.GetByID(ctx, "u1", provisional.ID)
	require.NoError(t, err)
	assert.True(t, got.Provisional)
}

func TestDeleteNotIn_EmptyKeepSet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	o := makeOrder("srv_1", base)
	require.NoError(t, r.Upsert(ctx, &o))

	n, err := r.DeleteNotIn(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReplaceProvisional(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	temp := makeOrder(models.NewTempID(), base)
	temp.Provisional = true
	require.NoError(t, r.Upsert(ctx, &temp))

	confirmed := makeOrder("srv_42", base.Add(time.Second))
	require.NoError(t, r.ReplaceProvisional(ctx, "u1", temp.ID, &confirmed))

	_, err := r.GetByID(ctx, "u1", temp.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	got, err := r.GetByID(ctx, "u1", "srv_42")
	require.NoError(t, err)
	assert.False(t, got.Provisional)
}

func TestDistinct(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	a := makeOrder("a", base)
	a.Recipient = "Meena"
	a.Courier = "Professional"

	b := makeOrder("b", base.Add(time.Second))
	b.Recipient = "Meena" // duplicate
	b.Courier = "ST Courier"

	c := makeOrder("c", base)
	c.Recipient = ""
	c.Courier = "DTDC"
	c.UserID = "u2"

	for _, o := range []models.Order{a, b, c} {
		require.NoError(t, r.Upsert(ctx, &o))
	}

	s, err := r.Distinct(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Meena"}, s.Recipients)
	assert.ElementsMatch(t, []string{"Professional", "ST Courier"}, s.Couriers)
}
