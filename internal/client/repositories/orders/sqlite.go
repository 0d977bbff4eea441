package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kavyatex/sareebook/internal/client/models"
	"github.com/kavyatex/sareebook/internal/common"
	"github.com/kavyatex/sareebook/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const orderColumns = `id, user_id, recipient, sender, booked_by, mobile, courier, quantity,
	status, booking_date, despatch_date, created_at, updated_at, provisional`

func orderArgs(o *models.Order) []any {
	var quantity sql.NullInt64
	if o.Quantity != nil {
		quantity = sql.NullInt64{Int64: int64(*o.Quantity), Valid: true}
	}
	var despatch sql.NullInt64
	if o.DespatchDate != nil {
		despatch = sql.NullInt64{Int64: o.DespatchDate.UnixMilli(), Valid: true}
	}
	return []any{
		o.ID, o.UserID, o.Recipient, o.Sender, o.BookedBy, o.Mobile, o.Courier, quantity,
		string(o.Status), o.BookingDate.UnixMilli(), despatch,
		o.CreatedAt.UnixMilli(), o.UpdatedAt.UnixMilli(), o.Provisional,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		o                  models.Order
		status             string
		quantity, despatch sql.NullInt64
		booking, created   int64
		updated            int64
	)
	err := row.Scan(&o.ID, &o.UserID, &o.Recipient, &o.Sender, &o.BookedBy, &o.Mobile, &o.Courier,
		&quantity, &status, &booking, &despatch, &created, &updated, &o.Provisional)
	if err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	if quantity.Valid {
		q := int(quantity.Int64)
		o.Quantity = &q
	}
	o.BookingDate = time.UnixMilli(booking).UTC()
	if despatch.Valid {
		d := time.UnixMilli(despatch.Int64).UTC()
		o.DespatchDate = &d
	}
	o.CreatedAt = time.UnixMilli(created).UTC()
	o.UpdatedAt = time.UnixMilli(updated).UTC()
	return &o, nil
}

// Upsert writes the order unconditionally, overwriting any cached copy.
func (r *SQLiteRepository) Upsert(ctx context.Context, o *models.Order) error {
	query := `INSERT INTO orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			recipient = excluded.recipient,
			sender = excluded.sender,
			booked_by = excluded.booked_by,
			mobile = excluded.mobile,
			courier = excluded.courier,
			quantity = excluded.quantity,
			status = excluded.status,
			booking_date = excluded.booking_date,
			despatch_date = excluded.despatch_date,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			provisional = excluded.provisional
	`
	if _, err := r.db.ExecContext(ctx, query, orderArgs(o)...); err != nil {
		return fmt.Errorf("failed to upsert order: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, userID, id string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = ? AND id = ?`
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return o, nil
}

func (r *SQLiteRepository) List(ctx context.Context, userID string, f models.OrderFilter) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = ?`
	args := []any{userID}

	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	if !f.AllDates {
		field := string(f.DateField())
		if !f.From.IsZero() {
			query += ` AND ` + field + ` >= ?`
			args = append(args, f.From.UnixMilli())
		}
		if !f.To.IsZero() {
			query += ` AND ` + field + ` <= ?`
			args = append(args, f.To.UnixMilli())
		}
	}
	query += ` ORDER BY booking_date DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}
	defer rows.Close()

	var result []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MergeAll upserts each record, keeping the cached row when it carries a
// newer updated_at. The guard makes merges idempotent and order-independent.
func (r *SQLiteRepository) MergeAll(ctx context.Context, list []models.Order) (int, error) {
	query := `INSERT INTO orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			recipient = excluded.recipient,
			sender = excluded.sender,
			booked_by = excluded.booked_by,
			mobile = excluded.mobile,
			courier = excluded.courier,
			quantity = excluded.quantity,
			status = excluded.status,
			booking_date = excluded.booking_date,
			despatch_date = excluded.despatch_date,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			provisional = excluded.provisional
		WHERE excluded.updated_at >= orders.updated_at
	`
	changed := 0
	for i := range list {
		res, err := r.db.ExecContext(ctx, query, orderArgs(&list[i])...)
		if err != nil {
			return changed, fmt.Errorf("failed to merge order %s: %w", list[i].ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return changed, fmt.Errorf("failed to get rows affected: %w", err)
		}
		changed += int(n)
	}
	return changed, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, userID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE user_id = ? AND id = ?`, userID, id); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	return nil
}

// DeleteNotIn prunes confirmed rows missing from the authoritative id set.
// Provisional rows are exempt: the server has not seen them yet.
func (r *SQLiteRepository) DeleteNotIn(ctx context.Context, userID string, keep []string) (int, error) {
	query := `DELETE FROM orders WHERE user_id = ? AND provisional = 0`
	args := []any{userID}
	if len(keep) > 0 {
		query += ` AND id NOT IN (?` + strings.Repeat(", ?", len(keep)-1) + `)`
		for _, id := range keep {
			args = append(args, id)
		}
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to prune orders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteRepository) ReplaceProvisional(ctx context.Context, userID, tempID string, confirmed *models.Order) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM orders WHERE user_id = ? AND id = ? AND provisional = 1`, userID, tempID); err != nil {
		return fmt.Errorf("failed to remove provisional order %s: %w", tempID, err)
	}
	return r.Upsert(ctx, confirmed)
}

var suggestionColumns = []string{"recipient", "sender", "booked_by", "mobile", "courier"}

func (r *SQLiteRepository) distinct(ctx context.Context, userID, column string) ([]string, error) {
	query := `SELECT ` + column + ` FROM orders
		WHERE user_id = ? AND ` + column + ` <> ''
		GROUP BY ` + column + ` ORDER BY MAX(updated_at) DESC LIMIT 50`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *SQLiteRepository) Distinct(ctx context.Context, userID string) (*models.Suggestions, error) {
	s := &models.Suggestions{}
	targets := []*[]string{&s.Recipients, &s.Senders, &s.BookedBy, &s.Mobiles, &s.Couriers}
	for i, column := range suggestionColumns {
		values, err := r.distinct(ctx, userID, column)
		if err != nil {
			return nil, err
		}
		*targets[i] = values
	}
	return s, nil
}
