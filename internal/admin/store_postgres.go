// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// # Postgres Store

// PostgresStore implements [Repository] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL implementation of the admin
// repository.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const adminColumns = `
	admin_id, username, COALESCE(display_name, ''), password_hash, password_salt,
	hash_iterations, status, last_login_at, COALESCE(last_login_ip, ''), created_at`

/*
FindByUsername fetches an admin account by its unique username.

Parameters:
  - ctx: Context for the database operation.
  - username: The exact username to look up.

Returns:
  - The matching [*Admin], or [ErrNotFound] when no row exists.
*/
func (store *PostgresStore) FindByUsername(ctx context.Context, username string) (*Admin, error) {
	query := `SELECT` + adminColumns + `
		FROM admin
		WHERE username = $1`

	return store.scanOne(store.pool.QueryRow(ctx, query, username), "find_by_username")
}

// FindByID fetches an admin account by primary key, or [ErrNotFound].
func (store *PostgresStore) FindByID(ctx context.Context, adminID int64) (*Admin, error) {
	query := `SELECT` + adminColumns + `
		FROM admin
		WHERE admin_id = $1`

	return store.scanOne(store.pool.QueryRow(ctx, query, adminID), "find_by_id")
}

// UpdateLoginStamp records the time and source address of a successful login.
func (store *PostgresStore) UpdateLoginStamp(ctx context.Context, adminID int64, at time.Time, sourceIP string) error {
	const query = `
		UPDATE admin
		SET last_login_at = $2, last_login_ip = $3
		WHERE admin_id = $1`

	if _, err := store.pool.Exec(ctx, query, adminID, at, sourceIP); err != nil {
		return fmt.Errorf("postgres_admin_update_login_stamp_failed: %w", err)
	}
	return nil
}

// scanOne maps a single-row result to the entity, translating the driver's
// no-rows sentinel to [ErrNotFound].
func (store *PostgresStore) scanOne(row pgx.Row, operation string) (*Admin, error) {
	var account Admin
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.DisplayName,
		&account.PasswordHash,
		&account.PasswordSalt,
		&account.HashIterations,
		&account.Status,
		&account.LastLoginAt,
		&account.LastLoginIP,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres_admin_%s_failed: %w", operation, err)
	}
	return &account, nil
}
