package suggestions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
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

func (r *SQLiteRepository) Get(ctx context.Context, userID string, now time.Time) (*models.Suggestions, error) {
	var (
		payload   []byte
		expiresAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM suggestions WHERE user_id = ?`, userID).
		Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestions: %w", err)
	}
	if expiresAt <= now.UnixMilli() {
		return nil, nil
	}

	var s models.Suggestions
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("failed to decode suggestions: %w", err)
	}
	return &s, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, userID string, s *models.Suggestions, expiresAt time.Time) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode suggestions: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO suggestions (user_id, payload, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at
	`, userID, payload, expiresAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to set suggestions: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM suggestions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear suggestions: %w", err)
	}
	return nil
}
