// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package rbac

import (
	"context"
	"fmt"
)

// # Contracts

// Store abstracts the two relation reads the resolver needs. The production
// implementation is [PostgresStore]; tests inject in-memory fakes.
type Store interface {
	// RoleIDsByAdmin returns the IDs of all roles assigned to an admin.
	RoleIDsByAdmin(ctx context.Context, adminID int64) ([]int64, error)

	// PermissionCodesByRoles returns the distinct permission codes granted
	// by any of the given roles.
	PermissionCodesByRoles(ctx context.Context, roleIDs []int64) ([]string, error)
}

// # Resolver

// Resolver maps an admin identity to the effective permission-code set
// granted by all roles assigned to that admin.
//
// # Caching
//
// There is none: every call re-queries the relation tables. Gate 2 only
// reaches for the resolver when a token carries no embedded codes, so the
// query volume stays low. A per-admin cache with invalidation on
// role/permission writes is a known extension, not implemented here.
type Resolver struct {
	store Store
}

// NewResolver constructs a [Resolver] backed by the given store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// RolesOf returns the IDs of all roles assigned to the admin.
func (resolver *Resolver) RolesOf(ctx context.Context, adminID int64) ([]int64, error) {
	roleIDs, err := resolver.store.RoleIDsByAdmin(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("rbac: resolve roles of admin %d: %w", adminID, err)
	}
	return roleIDs, nil
}

// PermissionsOfRoles returns the union of permission codes granted by the
// given roles. Codes shared between roles collapse into one set entry.
func (resolver *Resolver) PermissionsOfRoles(ctx context.Context, roleIDs []int64) (PermissionSet, error) {
	if len(roleIDs) == 0 {
		return NewPermissionSet(), nil
	}

	codes, err := resolver.store.PermissionCodesByRoles(ctx, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("rbac: resolve permissions of roles %v: %w", roleIDs, err)
	}

	return NewPermissionSet(codes...), nil
}

// PermissionsOf composes [RolesOf] and [PermissionsOfRoles] into the
// effective permission set of a single admin.
func (resolver *Resolver) PermissionsOf(ctx context.Context, adminID int64) (PermissionSet, error) {
	roleIDs, err := resolver.RolesOf(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return resolver.PermissionsOfRoles(ctx, roleIDs)
}
