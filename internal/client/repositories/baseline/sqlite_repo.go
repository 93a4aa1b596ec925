package baseline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdocs/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) ([]byte, error) {
	var body []byte
	err := r.db.QueryRowContext(ctx, `SELECT body FROM baselines WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get baseline[%s]: %w", id, err)
	}
	return body, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, id string, body []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO baselines (id, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`, id, body)
	if err != nil {
		return fmt.Errorf("failed to set baseline[%s]: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) SetIfAbsent(ctx context.Context, id string, body []byte) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO baselines (id, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO NOTHING
	`, id, body)
	if err != nil {
		return false, fmt.Errorf("failed to set baseline[%s]: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to set baseline[%s]: %w", id, err)
	}
	return n == 1, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM baselines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete baseline[%s]: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM baselines`)
	if err != nil {
		return fmt.Errorf("failed to clear baselines: %w", err)
	}
	return nil
}
