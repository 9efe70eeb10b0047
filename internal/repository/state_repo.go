package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/umehtaji1981-tech/samaj-setu/internal/database"
)

// StateRepository stores AppState blobs by key
type StateRepository struct {
	db *database.DB
}

func NewStateRepository(db *database.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Load returns the blob stored under key, or nil when there is none
func (r *StateRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := r.db.QueryRowContext(ctx, r.db.Dialect.SelectStateQuery(), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state %s: %w", key, err)
	}
	return []byte(value), nil
}

// Save inserts or replaces the blob under key
func (r *StateRepository) Save(ctx context.Context, key string, blob []byte) error {
	if _, err := r.db.ExecContext(ctx, r.db.Dialect.UpsertStateQuery(), key, string(blob)); err != nil {
		return fmt.Errorf("failed to save state %s: %w", key, err)
	}
	return nil
}
