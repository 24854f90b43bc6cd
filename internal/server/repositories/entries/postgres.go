// Package entries provides PostgreSQL-backed persistence for diary entries.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mooddiary/internal/common"
	"github.com/dmitrijs2005/mooddiary/internal/dbx"
	"github.com/dmitrijs2005/mooddiary/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts the entry or, when a row for (user_id, date) already
// exists, overwrites its text and mood. The conflict target makes a second
// save of the same day an overwrite, never a duplicate.
func (r *PostgresRepository) Upsert(ctx context.Context, userID, date, text, mood string) (string, error) {
	query := `
		INSERT INTO entries (user_id, date, text, mood, updated_at)
		VALUES ($1, $2::date, $3, $4, now())
		ON CONFLICT (user_id, date)
		DO UPDATE SET
			text = EXCLUDED.text,
			mood = EXCLUDED.mood,
			updated_at = now()
		RETURNING id
	`
	var id string
	if err := r.db.QueryRowContext(ctx, query, userID, date, text, mood).Scan(&id); err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByDate(ctx context.Context, userID, date string) (*models.Entry, error) {
	query := `
		SELECT id, user_id, date::text, text, mood, updated_at FROM entries
		WHERE user_id = $1 AND date = $2::date
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID, date))
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, entryID string) (*models.Entry, error) {
	query := `
		SELECT id, user_id, date::text, text, mood, updated_at FROM entries
		WHERE user_id = $1 AND id = $2
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID, entryID))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Entry, error) {
	var item models.Entry
	err := row.Scan(&item.ID, &item.UserID, &item.Date, &item.Text, &item.Mood, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &item, nil
}

// Touch bumps the entry's updated_at. Media rows carry no per-entry
// version, so attachment changes are reflected on the owning entry instead.
func (r *PostgresRepository) Touch(ctx context.Context, userID, entryID string) error {
	query := `UPDATE entries SET updated_at = now() WHERE user_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, userID, entryID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ListRange returns (date, mood) summaries for the inclusive date range,
// ordered by date.
func (r *PostgresRepository) ListRange(ctx context.Context, userID, from, to string) ([]models.EntrySummary, error) {
	query := `
		SELECT date::text, mood FROM entries
		WHERE user_id = $1 AND date >= $2::date AND date <= $3::date
		ORDER BY date
	`
	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []models.EntrySummary
	for rows.Next() {
		var item models.EntrySummary
		if err := rows.Scan(&item.Date, &item.Mood); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
