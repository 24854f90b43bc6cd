// Package media provides PostgreSQL-backed persistence for entry
// attachments. Ownership checks go through the owning entry row, so a media
// id from another user behaves exactly like a missing one.
package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mooddiary/internal/common"
	"github.com/dmitrijs2005/mooddiary/internal/dbx"
	"github.com/dmitrijs2005/mooddiary/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID, entryID, locator, kind string) (string, error) {
	query := `
		INSERT INTO media (entry_id, kind, locator)
		SELECT e.id, $3, $4 FROM entries e
		WHERE e.id = $2 AND e.user_id = $1
		RETURNING id
	`
	var id string
	err := r.db.QueryRowContext(ctx, query, userID, entryID, kind, locator).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) ListByEntry(ctx context.Context, userID, entryID string) ([]models.Media, error) {
	query := `
		SELECT m.id, m.entry_id, m.kind, m.locator, m.created_at
		FROM media m
		JOIN entries e ON e.id = m.entry_id
		WHERE e.user_id = $1 AND m.entry_id = $2
		ORDER BY m.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to select media: %w", err)
	}
	defer rows.Close()

	var result []models.Media
	for rows.Next() {
		var item models.Media
		if err := rows.Scan(&item.ID, &item.EntryID, &item.Kind, &item.Locator, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, mediaID string) (string, error) {
	query := `
		DELETE FROM media m
		USING entries e
		WHERE m.id = $2 AND m.entry_id = e.id AND e.user_id = $1
		RETURNING m.entry_id
	`
	var entryID string
	if err := r.db.QueryRowContext(ctx, query, userID, mediaID).Scan(&entryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return entryID, nil
}

func (r *PostgresRepository) ListMemories(ctx context.Context, userID string) ([]models.Memory, error) {
	query := `
		SELECT m.id, m.locator, e.date::text, e.text, e.mood
		FROM media m
		JOIN entries e ON e.id = m.entry_id
		WHERE e.user_id = $1 AND m.kind = 'image'
		ORDER BY e.date DESC, m.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select memories: %w", err)
	}
	defer rows.Close()

	var result []models.Memory
	for rows.Next() {
		var item models.Memory
		if err := rows.Scan(&item.MediaID, &item.Locator, &item.Date, &item.Text, &item.Mood); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
