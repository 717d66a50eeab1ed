package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"unisms/internal/models"
)

// LedgerRepository is append-only: entries are inserted once and never
// updated or deleted.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

func (r *LedgerRepository) Insert(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
	recipients, err := json.Marshal(entry.Recipients)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("encode recipients: %w", err)
	}

	const query = `
		INSERT INTO sms_history (
			id, message, recipients, sent_by, recipient_count, success_count, status, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW()
		)
		RETURNING created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.Message,
		recipients,
		entry.SentBy,
		entry.RecipientCount,
		entry.SuccessCount,
		string(entry.Status),
	).Scan(&entry.CreatedAt); err != nil {
		return models.LedgerEntry{}, err
	}
	return entry, nil
}

func (r *LedgerRepository) ListRecent(ctx context.Context, limit int) ([]models.LedgerEntry, error) {
	const query = `
		SELECT id, message, recipients, sent_by, recipient_count, success_count, status, created_at
		FROM sms_history
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0)
	for rows.Next() {
		var (
			entry      models.LedgerEntry
			recipients []byte
			status     string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.Message,
			&recipients,
			&entry.SentBy,
			&entry.RecipientCount,
			&entry.SuccessCount,
			&status,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(recipients, &entry.Recipients); err != nil {
			return nil, fmt.Errorf("decode recipients of %s: %w", entry.ID, err)
		}
		entry.Status = models.DispatchStatus(status)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *LedgerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sms_history`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
