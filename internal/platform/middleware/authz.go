// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package middleware

import (
	"context"
	"net/http"

	"github.com/wayfare-app/wayfare/internal/platform/apperr"
	"github.com/wayfare-app/wayfare/internal/platform/ctxutil"
	"github.com/wayfare-app/wayfare/internal/platform/metrics"
	"github.com/wayfare-app/wayfare/internal/platform/sec"
	"github.com/wayfare-app/wayfare/internal/rbac"
)

// # Contracts

// PermissionResolver resolves an admin's effective permission set from the
// role/permission relation tables. Implemented by [rbac.Resolver].
type PermissionResolver interface {
	PermissionsOf(ctx context.Context, adminID int64) (rbac.PermissionSet, error)
}

// RequireFunc builds the authorization middleware for one declared
// permission requirement. Handlers use it to compose their route tables.
type RequireFunc func(requirement rbac.Requirement) func(http.Handler) http.Handler

// Authorizer is Gate 2 of the interceptor chain: it decides WHAT an already
// identified caller may do.
//
// # Independence
//
// The gate never assumes Gate 1 ran on the same path: it re-validates the
// bearer token from the header. Routes covered by both gates still see Gate 1
// strictly first (middleware ordering), so a missing token is always reported
// as NO_TOKEN by Gate 1 before any permission logic runs here.
type Authorizer struct {
	verifier TokenVerifier
	resolver PermissionResolver
}

// NewAuthorizer constructs Gate 2 from its collaborators.
func NewAuthorizer(verifier TokenVerifier, resolver PermissionResolver) *Authorizer {
	return &Authorizer{verifier: verifier, resolver: resolver}
}

// Require returns the authorization middleware for one requirement.
//
// # Flow
//  1. Pre-flight OPTIONS probes pass through.
//  2. Re-validate the bearer token (gates are independently deployable).
//  3. Demand the admin principal kind (NOT_ADMIN → 403).
//  4. Obtain the permission set: embedded token codes when present, live
//     resolution otherwise. A resolver failure is fail-closed
//     (STORE_UNAVAILABLE → 403).
//  5. Match the requirement in its declared ANY/ALL mode; an empty code list
//     is admin-only and skips the check (INSUFFICIENT_PERMISSION → 403).
//  6. Inject the resolved [rbac.AdminScope] and pass through.
//
// Handlers without a declared requirement simply never mount this middleware;
// they default to "no extra permission required".
func (gate *Authorizer) Require(requirement rbac.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Pre-flight Pass-Through ────────────────────────────────────
			if request.Method == http.MethodOptions {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Independent Token Validation ───────────────────────────────
			token, ok := bearerToken(request)
			if !ok {
				reject(writer, request, metrics.GateAuthorization,
					apperr.UnauthorizedCode(apperr.CodeNoToken, "Authentication token not provided"))
				return
			}

			claims, err := gate.verifier.Verify(token)
			if err != nil {
				reject(writer, request, metrics.GateAuthorization, rejectionForVerifyError(err))
				return
			}

			// ── 3. Principal Kind Check ───────────────────────────────────────
			if !claims.IsAdmin() {
				reject(writer, request, metrics.GateAuthorization,
					apperr.ForbiddenCode(apperr.CodeNotAdmin, "Admin access required"))
				return
			}

			// ── 4. Permission Set Acquisition ─────────────────────────────────
			granted, err := gate.grantedPermissions(request.Context(), claims)
			if err != nil {
				// Fail closed, same policy as the revocation store.
				reject(writer, request, metrics.GateAuthorization,
					apperr.ForbiddenCode(apperr.CodeStoreUnavailable, "Authorization is temporarily unavailable").WithCause(err))
				return
			}

			// ── 5. Requirement Match ──────────────────────────────────────────
			if !requirement.SatisfiedBy(granted) {
				reject(writer, request, metrics.GateAuthorization,
					apperr.ForbiddenCode(apperr.CodeInsufficientPermission, "Insufficient permissions to access this resource"))
				return
			}

			// ── 6. Scope Injection ────────────────────────────────────────────
			ctx := request.Context()
			if ctxutil.GetIdentity(ctx) == nil {
				// Gate 1 did not run on this path; keep downstream consumers
				// (audit capture, logging) working anyway.
				ctx = ctxutil.WithIdentity(ctx, claims, token)
			}
			ctx = ctxutil.WithAdminScope(ctx, &rbac.AdminScope{
				AdminID:     claims.SubjectID,
				Username:    claims.SubjectName,
				Permissions: granted,
			})

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// grantedPermissions prefers the flattened codes embedded at token issuance;
// only tokens without them trigger a live role→permission resolution.
func (gate *Authorizer) grantedPermissions(ctx context.Context, claims *sec.IdentityClaims) (rbac.PermissionSet, error) {
	if len(claims.Permissions) > 0 {
		return rbac.NewPermissionSet(claims.Permissions...), nil
	}
	return gate.resolver.PermissionsOf(ctx, claims.SubjectID)
}
