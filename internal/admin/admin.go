// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

// Package admin implements the administrator account lifecycle: login,
// logout, profile, and the role/permission management console.
//
// # Architecture
//
// The service orchestrates credential verification, permission resolution,
// token issuance, and token revocation through narrow store interfaces. It
// never touches HTTP or SQL directly.
package admin

import "time"

// AdminStatus enumerates account states.
type AdminStatus int16

const (
	// StatusDisabled blocks login without deleting the account.
	StatusDisabled AdminStatus = 0
	// StatusActive is the normal state.
	StatusActive AdminStatus = 1
)

// Admin is the administrator account entity.
//
// # Security
//
// Credential material (hash, salt, iteration count) never leaves the
// service layer; Profile is the outward-facing shape.
type Admin struct {
	ID             int64
	Username       string
	DisplayName    string
	PasswordHash   string
	PasswordSalt   string
	HashIterations int
	Status         AdminStatus
	LastLoginAt    *time.Time
	LastLoginIP    string
	CreatedAt      time.Time
}

// Profile is the client-safe projection of an administrator.
type Profile struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Permissions []string   `json:"permissions"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LoginResult is a successful authentication outcome.
type LoginResult struct {
	AccessToken string  `json:"access_token"`
	Admin       Profile `json:"admin"`
}

// AuditActorID attributes the login operation to the admin who just
// authenticated, since no identity is on the request context yet.
func (result *LoginResult) AuditActorID() (int64, bool) {
	if result == nil || result.Admin.ID == 0 {
		return 0, false
	}
	return result.Admin.ID, true
}
