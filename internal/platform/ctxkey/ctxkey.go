// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// # Safety
//
// It is used to store and retrieve per-request values (identity, request ID,
// logger, client IP). Using a private, unexported type for keys prevents
// collisions with third-party packages that might also use context for storage.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
//
// # Collision Prevention
//
// Even if another package uses "request_id" as a string key, it will not
// collide with this key type because Go's [context.Context] uses both the
// value AND the type for lookups.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyIdentity is the context key for the authenticated principal claims
	// ([sec.IdentityClaims]) populated by the authentication gate.
	KeyIdentity key = "identity"

	// KeyAccessToken is the context key for the raw bearer token string, kept
	// so logout can revoke the exact token that authenticated the request.
	KeyAccessToken key = "access_token"

	// KeyAdminScope is the context key for the resolved admin authorization
	// scope populated by the authorization gate.
	KeyAdminScope key = "admin_scope"

	// KeyClientIP is the context key for the proxy-aware client IP address.
	KeyClientIP key = "client_ip"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
