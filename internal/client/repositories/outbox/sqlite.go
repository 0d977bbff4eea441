package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/kavyatex/sareebook/internal/client/models"
	"github.com/kavyatex/sareebook/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Push(ctx context.Context, e *models.OutboxEntry) error {
	query := `INSERT INTO outbox (id, user_id, action, order_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, string(e.Action), e.OrderID, []byte(e.Payload), e.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to push outbox entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Pending(ctx context.Context, userID string) ([]models.OutboxEntry, error) {
	query := `SELECT seq, id, user_id, action, order_id, payload, created_at
		FROM outbox WHERE user_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select outbox entries: %w", err)
	}
	defer rows.Close()

	var result []models.OutboxEntry
	for rows.Next() {
		var (
			e       models.OutboxEntry
			action  string
			created int64
		)
		if err := rows.Scan(&e.Seq, &e.ID, &e.UserID, &action, &e.OrderID, &e.Payload, &created); err != nil {
			return nil, err
		}
		e.Action = models.OutboxAction(action)
		e.CreatedAt = time.UnixMilli(created).UTC()
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM outbox WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove outbox entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RemoveForOrder(ctx context.Context, userID, orderID string) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM outbox WHERE user_id = ? AND order_id = ?`, userID, orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove outbox entries for order %s: %w", orderID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteRepository) RemapOrderID(ctx context.Context, userID, from, to string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE outbox SET order_id = ? WHERE user_id = ? AND order_id = ?`, to, userID, from)
	if err != nil {
		return fmt.Errorf("failed to remap outbox order id: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Depth(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM outbox WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count outbox entries: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM outbox WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear outbox: %w", err)
	}
	return nil
}
