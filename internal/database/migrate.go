package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Migrate creates the application tables if they do not exist yet.
// It runs at startup, before the server accepts traffic.
func Migrate(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*Recommendation)(nil)).
		IfNotExists().
		ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create recommendations table: %w", err)
	}

	return nil
}
