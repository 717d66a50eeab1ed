package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id              TEXT PRIMARY KEY,
		permanent_id    TEXT NOT NULL UNIQUE,
		phone           TEXT NOT NULL,
		first_name      TEXT NOT NULL DEFAULT '',
		last_name       TEXT NOT NULL DEFAULT '',
		level           TEXT NOT NULL,
		specialization  TEXT NULL,
		profile_complete BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS students_login_idx ON students (permanent_id, phone)`,
	`CREATE TABLE IF NOT EXISTS teachers (
		id              TEXT PRIMARY KEY,
		permanent_id    TEXT NOT NULL UNIQUE,
		phone           TEXT NOT NULL,
		first_name      TEXT NOT NULL DEFAULT '',
		last_name       TEXT NOT NULL DEFAULT '',
		grade           TEXT NOT NULL,
		specialization  TEXT NOT NULL,
		profile_complete BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS teachers_login_idx ON teachers (permanent_id, phone)`,
	`CREATE TABLE IF NOT EXISTS admins (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash BYTEA NOT NULL,
		name          TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sms_history (
		id              TEXT PRIMARY KEY,
		message         TEXT NOT NULL,
		recipients      JSONB NOT NULL,
		sent_by         TEXT NOT NULL,
		recipient_count INTEGER NOT NULL,
		success_count   INTEGER NOT NULL,
		status          TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS sms_history_created_idx ON sms_history (created_at DESC)`,
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
