// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wayfare-app/wayfare/internal/platform/apperr"
	"github.com/wayfare-app/wayfare/internal/platform/sec"
	"github.com/wayfare-app/wayfare/internal/rbac"
)

// TokenIssuer defines the token operations the service needs. It is
// satisfied by [sec.TokenService].
type TokenIssuer interface {
	// Issue creates a signed access token for the given principal.
	Issue(subjectID int64, subjectName string, kind sec.PrincipalKind, permissions []string, shortLived bool) (string, error)

	// Verify parses and validates a token, returning its claims.
	Verify(tokenString string) (*sec.IdentityClaims, error)
}

// Service implements administrator authentication and console use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to credential
// verification, token issuance, or revocation logic must be reviewed by the
// security team.
type Service struct {
	repository  Repository
	revocations RevocationStore
	permissions PermissionSource
	directory   Directory
	tokens      TokenIssuer
	logger      *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	repository Repository,
	revocations RevocationStore,
	permissions PermissionSource,
	directory Directory,
	tokens TokenIssuer,
	logger *slog.Logger,
) *Service {
	return &Service{
		repository:  repository,
		revocations: revocations,
		permissions: permissions,
		directory:   directory,
		tokens:      tokens,
		logger:      logger,
	}
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username   string
	Password   string
	RememberMe bool
	SourceIP   string
}

// Login validates admin credentials and issues an access token.
//
// # Parameters
//   - context: Context for the store operations.
//   - input: Username, plain-text password, and the remember-me flag.
//
// # Returns
//   - A pointer to [LoginResult] with the token and profile.
//   - Returns [apperr.Unauthorized] if credentials do not match.
//   - Returns [apperr.Forbidden] if the account is disabled.
//
// # Flow
//  1. Lookup admin by username.
//  2. Verify the password hash in constant time.
//  3. Resolve the effective permission set and embed it in the token.
//  4. Issue a short-lived token unless remember-me was requested.
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	// ── 1. Fetch Account ──────────────────────────────────────────────────

	account, err := service.repository.FindByUsername(ctx, input.Username)
	if err != nil {
		// Generic message for unknown usernames to prevent enumeration.
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, fmt.Errorf("admin_login_lookup_failed: %w", err)
	}

	if account.Status != StatusActive {
		return nil, apperr.Forbidden("Account is disabled")
	}

	// ── 2. Credential Verification ────────────────────────────────────────

	if !sec.CheckPasswordHash(input.Password, account.PasswordSalt, account.HashIterations, account.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// ── 3. Permission Resolution ──────────────────────────────────────────

	granted, err := service.permissions.PermissionsOf(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("admin_login_permission_resolution_failed: %w", err)
	}
	codes := granted.Codes()

	// ── 4. Token Issuance ─────────────────────────────────────────────────

	accessToken, err := service.tokens.Issue(account.ID, account.Username, sec.KindAdmin, codes, !input.RememberMe)
	if err != nil {
		return nil, fmt.Errorf("admin_login_token_issue_failed: %w", err)
	}

	// ── 5. Login Stamp ────────────────────────────────────────────────────

	// Stamp failures must not block an otherwise valid login.
	if err := service.repository.UpdateLoginStamp(ctx, account.ID, time.Now().UTC(), input.SourceIP); err != nil {
		service.logger.WarnContext(ctx, "admin_login_stamp_failed",
			slog.Int64("admin_id", account.ID),
			slog.String("error", err.Error()),
		)
	}

	return &LoginResult{
		AccessToken: accessToken,
		Admin: Profile{
			ID:          account.ID,
			Username:    account.Username,
			DisplayName: account.DisplayName,
			Permissions: codes,
			LastLoginAt: account.LastLoginAt,
		},
	}, nil
}

// Logout revokes the presented token for its remaining lifetime.
//
// Logout is idempotent: an invalid, expired, or already-revoked token is
// treated as a successful logout, since the token can no longer be used
// either way.
func (service *Service) Logout(ctx context.Context, accessToken string) error {
	claims, err := service.tokens.Verify(accessToken)
	if err != nil {
		return nil
	}

	remaining := claims.RemainingLifetime(time.Now())
	if remaining <= 0 {
		return nil
	}

	if err := service.revocations.Revoke(ctx, accessToken, remaining); err != nil {
		return fmt.Errorf("admin_logout_revoke_failed: %w", err)
	}

	return nil
}

// Profile returns the client-safe projection of the authenticated admin,
// including the freshly resolved permission set.
func (service *Service) Profile(ctx context.Context, adminID int64) (*Profile, error) {
	account, err := service.repository.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("Admin")
		}
		return nil, fmt.Errorf("admin_profile_lookup_failed: %w", err)
	}

	granted, err := service.permissions.PermissionsOf(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("admin_profile_permission_resolution_failed: %w", err)
	}

	return &Profile{
		ID:          account.ID,
		Username:    account.Username,
		DisplayName: account.DisplayName,
		Permissions: granted.Codes(),
		LastLoginAt: account.LastLoginAt,
	}, nil
}

// # Console Use Cases

// ListRoles returns all defined roles.
func (service *Service) ListRoles(ctx context.Context) ([]rbac.Role, error) {
	roles, err := service.directory.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin_list_roles_failed: %w", err)
	}
	return roles, nil
}

// ListPermissions returns the full permission dictionary.
func (service *Service) ListPermissions(ctx context.Context) ([]rbac.Permission, error) {
	permissions, err := service.directory.ListPermissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin_list_permissions_failed: %w", err)
	}
	return permissions, nil
}

// AssignRoles grants roles to an admin. The target admin must exist.
//
// Changes take effect on the admin's next login, when a fresh permission
// set is embedded into their token.
func (service *Service) AssignRoles(ctx context.Context, adminID int64, roleIDs []int64) error {
	if _, err := service.repository.FindByID(ctx, adminID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("Admin")
		}
		return fmt.Errorf("admin_assign_roles_lookup_failed: %w", err)
	}

	if err := service.directory.AssignRoles(ctx, adminID, roleIDs); err != nil {
		return fmt.Errorf("admin_assign_roles_failed: %w", err)
	}
	return nil
}

// BindPermissions grants permissions to a role.
func (service *Service) BindPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	if err := service.directory.BindPermissions(ctx, roleID, permissionIDs); err != nil {
		return fmt.Errorf("admin_bind_permissions_failed: %w", err)
	}
	return nil
}
