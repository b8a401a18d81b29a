// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer and the middleware gates via small interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Principal Kinds

// PrincipalKind distinguishes end-user tokens from admin tokens.
type PrincipalKind string

const (
	// KindUser marks a token issued to a registered end user.
	KindUser PrincipalKind = "user"

	// KindAdmin marks a token issued to a back-office administrator. Only
	// admin tokens carry a flattened permission-code set.
	KindAdmin PrincipalKind = "admin"
)

// # Error Taxonomy

// Verification failures. Every error returned by [TokenService.Verify] wraps
// exactly one of these, so gates can map them to rejection reasons with
// [errors.Is].
var (
	// ErrTokenMalformed covers structural failures: not a JWT, wrong claim
	// shapes, or an unexpected signing algorithm.
	ErrTokenMalformed = errors.New("sec: malformed token")

	// ErrTokenExpired is returned once the current time exceeds 'exp'.
	ErrTokenExpired = errors.New("sec: expired token")

	// ErrTokenSignature is returned when the signature does not verify.
	ErrTokenSignature = errors.New("sec: invalid token signature")
)

// # Claims

// IdentityClaims represents the payload embedded inside an access token.
//
// # Why custom claims?
//
// By embedding the subject ID, subject name, principal kind, and (for admins)
// the flattened permission-code set directly inside the JWT, the
// authentication and authorization gates can reconstruct the request identity
// WITHOUT querying the database on every single API request.
//
// A populated *IdentityClaims only ever comes out of [TokenService.Verify],
// so holding one is proof the token validated. Field access never bypasses
// signature or expiry checks.
type IdentityClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	SubjectID   int64         `json:"sid"`
	SubjectName string        `json:"snm"`
	Kind        PrincipalKind `json:"knd"`
	Permissions []string      `json:"prm,omitempty"`
}

// IsAdmin reports whether the claims describe an administrator principal.
func (claims *IdentityClaims) IsAdmin() bool {
	return claims.Kind == KindAdmin
}

// RemainingLifetime returns how long the token stays valid from now.
// It returns zero (never negative) for tokens at or past expiry.
func (claims *IdentityClaims) RemainingLifetime(now time.Time) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	remaining := claims.ExpiresAt.Time.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// # Token Service

// TokenConfig is the immutable configuration of the [TokenService].
//
// It is populated once from environment configuration at startup and passed
// to [NewTokenService]; no global state is involved.
type TokenConfig struct {
	// Secret is the shared HMAC signing key.
	Secret string

	// TTL is the default ("remember me") token lifetime.
	TTL time.Duration

	// ShortTTL is the reduced lifetime used when the caller opts out of a
	// long-lived session at issuance.
	ShortTTL time.Duration

	// Issuer is the 'iss' claim stamped on every token.
	Issuer string
}

// TokenService issues and verifies HMAC-signed (HS256) identity tokens.
//
// # Concurrency
//
// The service is immutable after construction and safe for concurrent use.
type TokenService struct {
	secret   []byte
	ttl      time.Duration
	shortTTL time.Duration
	issuer   string
}

// NewTokenService validates the configuration and creates a [TokenService].
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) < 32 {
		return nil, fmt.Errorf("sec: signing secret must be at least 32 bytes, got %d", len(cfg.Secret))
	}
	if cfg.TTL <= 0 || cfg.ShortTTL <= 0 {
		return nil, fmt.Errorf("sec: token lifetimes must be positive (ttl=%s, short=%s)", cfg.TTL, cfg.ShortTTL)
	}
	if cfg.ShortTTL > cfg.TTL {
		return nil, fmt.Errorf("sec: short lifetime %s exceeds default lifetime %s", cfg.ShortTTL, cfg.TTL)
	}

	return &TokenService{
		secret:   []byte(cfg.Secret),
		ttl:      cfg.TTL,
		shortTTL: cfg.ShortTTL,
		issuer:   cfg.Issuer,
	}, nil
}

// Issue creates a signed access token for the given principal.
//
// # Parameters
//   - subjectID: Numeric ID of the account.
//   - subjectName: Username of the account.
//   - kind: Principal kind (user or admin).
//   - permissions: Flattened permission codes; retained for admin tokens only.
//   - shortLived: Selects [TokenConfig.ShortTTL] instead of the default
//     lifetime. The choice is made at issuance and is not re-derivable from
//     the token itself.
func (service *TokenService) Issue(subjectID int64, subjectName string, kind PrincipalKind, permissions []string, shortLived bool) (string, error) {
	lifetime := service.ttl
	if shortLived {
		lifetime = service.shortTTL
	}

	// Permission codes are an admin-token concept. User tokens never carry
	// them, regardless of what the caller passes.
	if kind != KindAdmin {
		permissions = nil
	}

	currentTime := time.Now()
	claims := IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectName,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(lifetime)),
		},
		SubjectID:   subjectID,
		SubjectName: subjectName,
		Kind:        kind,
		Permissions: permissions,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature, structure, and expiry of a token string.
//
// # Fail-Closed
//
// Any failure returns a nil claims pointer together with one of the package
// error sentinels. There is no partial success: callers never see claims from
// a token that did not fully validate. Clock skew is not compensated.
func (service *TokenService) Verify(tokenString string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, classifyVerifyError(err)
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: claims type mismatch", ErrTokenMalformed)
	}

	return claims, nil
}

// classifyVerifyError folds the jwt library's error chain into the package
// taxonomy. Expiry is reported as ErrTokenExpired and nothing else, so gates
// can distinguish "come back with a fresh token" from tampering.
func classifyVerifyError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrTokenSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
