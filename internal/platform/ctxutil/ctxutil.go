// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/wayfare-app/wayfare/internal/platform/ctxkey"
	"github.com/wayfare-app/wayfare/internal/platform/sec"
	"github.com/wayfare-app/wayfare/internal/rbac"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithIdentity returns a new context carrying the verified identity claims
// and the raw bearer token they were parsed from.
func WithIdentity(ctx context.Context, claims *sec.IdentityClaims, rawToken string) context.Context {
	ctx = context.WithValue(ctx, ctxkey.KeyIdentity, claims)
	return context.WithValue(ctx, ctxkey.KeyAccessToken, rawToken)
}

// GetIdentity retrieves the verified [*sec.IdentityClaims] from the context.
// Returns nil for unauthenticated requests.
func GetIdentity(ctx context.Context) *sec.IdentityClaims {
	claims, ok := ctx.Value(ctxkey.KeyIdentity).(*sec.IdentityClaims)
	if !ok {
		return nil
	}
	return claims
}

// GetAccessToken retrieves the raw bearer token that authenticated the
// request. Empty for unauthenticated requests.
func GetAccessToken(ctx context.Context) string {
	token, _ := ctx.Value(ctxkey.KeyAccessToken).(string)
	return token
}

// WithAdminScope returns a new context carrying the resolved admin
// authorization scope.
func WithAdminScope(ctx context.Context, scope *rbac.AdminScope) context.Context {
	return context.WithValue(ctx, ctxkey.KeyAdminScope, scope)
}

// GetAdminScope retrieves the [*rbac.AdminScope] populated by the
// authorization gate. Returns nil when the request did not pass that gate.
func GetAdminScope(ctx context.Context) *rbac.AdminScope {
	scope, ok := ctx.Value(ctxkey.KeyAdminScope).(*rbac.AdminScope)
	if !ok {
		return nil
	}
	return scope
}

// # Client Addressing

// WithClientIP returns a new context carrying the proxy-aware client IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyClientIP, ip)
}

// GetClientIP retrieves the proxy-aware client IP captured by the middleware
// chain. Empty when the request bypassed the chain (e.g. internal calls).
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ctxkey.KeyClientIP).(string)
	return ip
}
