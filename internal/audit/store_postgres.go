// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfare-app/wayfare/pkg/pagination"
)

// # Postgres Store

// Filter narrows a log listing. Zero values mean "no constraint".
type Filter struct {
	ActorID      int64
	ActionType   string
	ActionObject string
}

// PostgresStore persists and queries operation-log rows using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL implementation of the audit store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert appends one entry to the operation log.
func (store *PostgresStore) Insert(ctx context.Context, entry Entry) error {
	const query = `
		INSERT INTO operation_log (admin_id, action_type, action_object, object_id, content, source_ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := store.pool.Exec(ctx, query,
		entry.ActorID,
		entry.ActionType,
		entry.ActionObject,
		entry.ObjectID,
		entry.Content,
		entry.SourceIP,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_audit_insert_failed: %w", err)
	}

	return nil
}

/*
List returns a page of operation-log entries, newest first.

Parameters:
  - filter: optional actor, action-type, and action-object constraints.
  - params: page-based navigation parsed from the request.

Returns:
  - the page of entries.
  - the total row count matching the filter, for pagination metadata.
  - an error if either query fails.
*/
func (store *PostgresStore) List(ctx context.Context, filter Filter, params pagination.Params) ([]Entry, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM operation_log
		WHERE ($1 = 0 OR admin_id = $1)
		  AND ($2 = '' OR action_type = $2)
		  AND ($3 = '' OR action_object = $3)`

	var total int
	if err := store.pool.QueryRow(ctx, countQuery, filter.ActorID, filter.ActionType, filter.ActionObject).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_audit_count_failed: %w", err)
	}

	const listQuery = `
		SELECT log_id, admin_id, action_type, action_object, object_id, content, COALESCE(source_ip, ''), created_at
		FROM operation_log
		WHERE ($1 = 0 OR admin_id = $1)
		  AND ($2 = '' OR action_type = $2)
		  AND ($3 = '' OR action_object = $3)
		ORDER BY created_at DESC, log_id DESC
		LIMIT $4 OFFSET $5`

	rows, err := store.pool.Query(ctx, listQuery, filter.ActorID, filter.ActionType, filter.ActionObject, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_audit_list_failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&entry.ActionType,
			&entry.ActionObject,
			&entry.ObjectID,
			&entry.Content,
			&entry.SourceIP,
			&entry.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_audit_list_scan_failed: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_audit_list_rows_failed: %w", err)
	}

	return entries, total, nil
}
