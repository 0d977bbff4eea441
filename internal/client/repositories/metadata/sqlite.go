package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kavyatex/sareebook/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata`)
	if err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Touch(ctx context.Context, userID string, orderIDs []string, at time.Time) error {
	for _, id := range orderIDs {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO access_log (user_id, order_id, accessed_at) VALUES (?, ?, ?)
			ON CONFLICT(user_id, order_id) DO UPDATE SET accessed_at = excluded.accessed_at
		`, userID, id, at.UnixMilli())
		if err != nil {
			return fmt.Errorf("failed to touch order %s: %w", id, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) StaleOrderIDs(ctx context.Context, userID string, cutoff time.Time) ([]string, error) {
	// The left join keeps orphaned log rows (order already pruned) so they get
	// cleaned up, while provisional orders are exempt.
	query := `
		SELECT a.order_id FROM access_log a
		LEFT JOIN orders o ON o.id = a.order_id AND o.user_id = a.user_id
		WHERE a.user_id = ? AND a.accessed_at < ?
		  AND (o.id IS NULL OR o.provisional = 0)
	`
	rows, err := r.db.QueryContext(ctx, query, userID, cutoff.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to select stale entries: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteRepository) RemoveAccess(ctx context.Context, userID string, orderIDs []string) error {
	if len(orderIDs) == 0 {
		return nil
	}
	query := `DELETE FROM access_log WHERE user_id = ? AND order_id IN (?` +
		strings.Repeat(", ?", len(orderIDs)-1) + `)`
	args := []any{userID}
	for _, id := range orderIDs {
		args = append(args, id)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to remove access entries: %w", err)
	}
	return nil
}
