// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package rbac

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// # Postgres Store

// PostgresStore implements [Store] plus the role/permission management
// operations using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL implementation of the RBAC store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// RoleIDsByAdmin returns the IDs of all roles assigned to the admin via the
// admin_role_relation table.
func (store *PostgresStore) RoleIDsByAdmin(ctx context.Context, adminID int64) ([]int64, error) {
	const query = `
		SELECT role_id
		FROM admin_role_relation
		WHERE admin_id = $1`

	rows, err := store.pool.Query(ctx, query, adminID)
	if err != nil {
		return nil, fmt.Errorf("postgres_rbac_roles_by_admin_failed: %w", err)
	}
	defer rows.Close()

	var roleIDs []int64
	for rows.Next() {
		var roleID int64
		if err := rows.Scan(&roleID); err != nil {
			return nil, fmt.Errorf("postgres_rbac_roles_by_admin_scan_failed: %w", err)
		}
		roleIDs = append(roleIDs, roleID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_rbac_roles_by_admin_rows_failed: %w", err)
	}

	return roleIDs, nil
}

// PermissionCodesByRoles joins role grants to permission codes. DISTINCT
// collapses codes shared between roles.
func (store *PostgresStore) PermissionCodesByRoles(ctx context.Context, roleIDs []int64) ([]string, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}

	const query = `
		SELECT DISTINCT p.permission_code
		FROM admin_role_permission rp
		INNER JOIN admin_permission p ON rp.permission_id = p.permission_id
		WHERE rp.role_id = ANY($1)`

	rows, err := store.pool.Query(ctx, query, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("postgres_rbac_codes_by_roles_failed: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("postgres_rbac_codes_by_roles_scan_failed: %w", err)
		}
		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_rbac_codes_by_roles_rows_failed: %w", err)
	}

	return codes, nil
}

// # Management Queries

// ListRoles returns all defined roles ordered by ID.
func (store *PostgresStore) ListRoles(ctx context.Context) ([]Role, error) {
	const query = `
		SELECT role_id, role_name, COALESCE(description, ''), created_at
		FROM admin_role
		ORDER BY role_id`

	rows, err := store.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_rbac_list_roles_failed: %w", err)
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres_rbac_list_roles_scan_failed: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_rbac_list_roles_rows_failed: %w", err)
	}

	return roles, nil
}

// ListPermissions returns the full permission dictionary ordered by code.
func (store *PostgresStore) ListPermissions(ctx context.Context) ([]Permission, error) {
	const query = `
		SELECT permission_id, permission_code, COALESCE(description, '')
		FROM admin_permission
		ORDER BY permission_code`

	rows, err := store.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_rbac_list_permissions_failed: %w", err)
	}
	defer rows.Close()

	var permissions []Permission
	for rows.Next() {
		var permission Permission
		if err := rows.Scan(&permission.ID, &permission.Code, &permission.Description); err != nil {
			return nil, fmt.Errorf("postgres_rbac_list_permissions_scan_failed: %w", err)
		}
		permissions = append(permissions, permission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_rbac_list_permissions_rows_failed: %w", err)
	}

	return permissions, nil
}

// AssignRoles adds the given roles to an admin. Memberships are set-valued:
// an already-assigned role is a no-op, not an error.
func (store *PostgresStore) AssignRoles(ctx context.Context, adminID int64, roleIDs []int64) error {
	if len(roleIDs) == 0 {
		return nil
	}

	const query = `
		INSERT INTO admin_role_relation (admin_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (admin_id, role_id) DO NOTHING`

	batch := &pgx.Batch{}
	for _, roleID := range roleIDs {
		batch.Queue(query, adminID, roleID)
	}

	if err := store.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres_rbac_assign_roles_failed: %w", err)
	}

	return nil
}

// BindPermissions grants the given permissions to a role, collapsing
// duplicates the same way as [AssignRoles].
func (store *PostgresStore) BindPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	const query = `
		INSERT INTO admin_role_permission (role_id, permission_id)
		VALUES ($1, $2)
		ON CONFLICT (role_id, permission_id) DO NOTHING`

	batch := &pgx.Batch{}
	for _, permissionID := range permissionIDs {
		batch.Queue(query, roleID, permissionID)
	}

	if err := store.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres_rbac_bind_permissions_failed: %w", err)
	}

	return nil
}
