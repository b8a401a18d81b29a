// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package admin

import (
	"context"
	"errors"
	"time"

	"github.com/wayfare-app/wayfare/internal/rbac"
)

// ErrNotFound is returned by repositories when no admin matches the lookup.
var ErrNotFound = errors.New("admin_not_found")

// Repository defines persistence operations for administrator accounts.
type Repository interface {
	// FindByUsername returns the admin with the given username, or
	// [ErrNotFound].
	FindByUsername(ctx context.Context, username string) (*Admin, error)

	// FindByID returns the admin with the given ID, or [ErrNotFound].
	FindByID(ctx context.Context, adminID int64) (*Admin, error)

	// UpdateLoginStamp records the time and source address of a successful
	// login.
	UpdateLoginStamp(ctx context.Context, adminID int64, at time.Time, sourceIP string) error
}

// RevocationStore invalidates issued tokens before their natural expiry.
//
// Entries carry the token's remaining lifetime as TTL, so the store purges
// them exactly when the token would have expired anyway.
type RevocationStore interface {
	// Revoke marks the token invalid for the given remaining lifetime.
	Revoke(ctx context.Context, token string, remaining time.Duration) error

	// IsRevoked reports whether the token has been revoked.
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// PermissionSource resolves an admin's effective permission set.
type PermissionSource interface {
	PermissionsOf(ctx context.Context, adminID int64) (rbac.PermissionSet, error)
}

// Directory exposes the role/permission management operations backing the
// admin console.
type Directory interface {
	ListRoles(ctx context.Context) ([]rbac.Role, error)
	ListPermissions(ctx context.Context) ([]rbac.Permission, error)
	AssignRoles(ctx context.Context, adminID int64, roleIDs []int64) error
	BindPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
}
