// Package repository implements Postgres persistence for the user registry.
package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const upsertUserQuery = `
INSERT INTO users (tg_id, username)
VALUES ($1, $2)
ON CONFLICT (tg_id) DO UPDATE SET username = EXCLUDED.username
RETURNING id`

// Users provides access to the users table.
type Users struct {
	db *sqlx.DB
}

// NewUsers constructs the users repository.
func NewUsers(db *sqlx.DB) *Users {
	return &Users{db: db}
}

// Upsert inserts a user keyed by Telegram id or refreshes the stored
// username. The write is idempotent and safe under retry.
func (r *Users) Upsert(ctx context.Context, tgID int64, username string) (int64, error) {
	var id int64
	if err := r.db.GetContext(ctx, &id, upsertUserQuery, tgID, username); err != nil {
		return 0, fmt.Errorf("upsert user %d: %w", tgID, err)
	}
	return id, nil
}
