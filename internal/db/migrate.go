package db

import (
	"context"
	"fmt"
)

// Deleting a referenced user nullifies posts.author_id; the denormalized
// author name string on the post is kept as-is.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		website TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS email_idx ON users (email)`,
	`CREATE INDEX IF NOT EXISTS username_idx ON users (username)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		author TEXT NOT NULL,
		author_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS author_idx ON posts (author)`,
	`CREATE INDEX IF NOT EXISTS author_id_idx ON posts (author_id)`,
	`CREATE INDEX IF NOT EXISTS created_at_idx ON posts (created_at)`,
}

// Migrate creates the tables and indexes if they do not exist. Safe to call
// on every startup.
func (s *Store) Migrate(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	for _, stmt := range migrations {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}
