// Package secrets provides PostgreSQL-backed storage for the per-user
// access-gate PIN, one row per user.
package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mooddiary/internal/common"
	"github.com/dmitrijs2005/mooddiary/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (string, error) {
	query :=
		`SELECT pin FROM secrets
		 WHERE user_id = $1
		 `

	var pin string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&pin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return pin, nil
}

func (r *PostgresRepository) Set(ctx context.Context, userID, pin string) error {
	query :=
		`INSERT INTO secrets (user_id, pin)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id)
		 DO UPDATE SET pin = EXCLUDED.pin
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, pin); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
