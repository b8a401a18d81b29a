// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/wayfare-app/wayfare/internal/platform/apperr"
	"github.com/wayfare-app/wayfare/internal/platform/ctxutil"
	"github.com/wayfare-app/wayfare/internal/platform/metrics"
	"github.com/wayfare-app/wayfare/internal/platform/sec"
)

// # Contracts

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the gates from the [sec.TokenService]
// implementation, allowing us to easily inject fakes during unit testing.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.IdentityClaims, error)
}

// RevocationChecker reports whether a token has been revoked before its
// natural expiry. Implemented by the Redis-backed revocation store.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Authenticator is Gate 1 of the interceptor chain: it establishes WHO is
// calling before any handler or further gate runs.
type Authenticator struct {
	verifier    TokenVerifier
	revocations RevocationChecker
}

// NewAuthenticator constructs Gate 1 from its two collaborators.
func NewAuthenticator(verifier TokenVerifier, revocations RevocationChecker) *Authenticator {
	return &Authenticator{verifier: verifier, revocations: revocations}
}

// Gate returns the authentication middleware.
//
// # Flow
//  1. Pre-flight OPTIONS probes pass through unauthenticated.
//  2. Require an 'Authorization: Bearer <token>' header (NO_TOKEN → 401).
//  3. Verify signature, structure, and expiry (TOKEN_MALFORMED /
//     TOKEN_EXPIRED → 401).
//  4. Check the revocation store (TOKEN_REVOKED → 401). A store failure is
//     fail-closed: the request is denied (STORE_UNAVAILABLE → 401), never
//     waved through.
//  5. Inject the verified identity and raw token into the request context.
func (gate *Authenticator) Gate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Pre-flight Pass-Through ────────────────────────────────────
			if request.Method == http.MethodOptions {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Bearer Extraction ──────────────────────────────────────────
			token, ok := bearerToken(request)
			if !ok {
				reject(writer, request, metrics.GateAuthentication,
					apperr.UnauthorizedCode(apperr.CodeNoToken, "Authentication token not provided"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := gate.verifier.Verify(token)
			if err != nil {
				reject(writer, request, metrics.GateAuthentication, rejectionForVerifyError(err))
				return
			}

			// ── 4. Revocation Check ───────────────────────────────────────────
			revoked, err := gate.revocations.IsRevoked(request.Context(), token)
			if err != nil {
				// Fail closed: when the store cannot answer, the token is
				// treated as unusable.
				reject(writer, request, metrics.GateAuthentication,
					apperr.UnauthorizedCode(apperr.CodeStoreUnavailable, "Authentication is temporarily unavailable").WithCause(err))
				return
			}
			if revoked {
				reject(writer, request, metrics.GateAuthentication,
					apperr.UnauthorizedCode(apperr.CodeTokenRevoked, "Token has been revoked, please log in again"))
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), claims, token)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// rejectionForVerifyError maps codec verification errors onto the gate
// rejection taxonomy. Expiry gets its own reason so clients can distinguish
// "log in again" from a tampered or garbled token.
func rejectionForVerifyError(err error) *apperr.AppError {
	if errors.Is(err, sec.ErrTokenExpired) {
		return apperr.UnauthorizedCode(apperr.CodeTokenExpired, "Token has expired, please log in again").WithCause(err)
	}
	return apperr.UnauthorizedCode(apperr.CodeTokenMalformed, "Invalid authentication token").WithCause(err)
}
