// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfare-app/wayfare/internal/platform/sec"
)

// testConfig returns a valid token configuration for tests.
func testConfig() sec.TokenConfig {
	return sec.TokenConfig{
		Secret:   "0123456789abcdef0123456789abcdef",
		TTL:      7 * 24 * time.Hour,
		ShortTTL: 24 * time.Hour,
		Issuer:   "wayfare.test",
	}
}

/*
TestTokenService_RoundTrip verifies that Verify(Issue(...)) reproduces the
subject ID, principal kind, and permission set exactly.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService(testConfig())
	require.NoError(t, err)

	permissions := []string{"USER:VIEW", "USER:EDIT"}

	token, err := service.Issue(42, "alice", sec.KindAdmin, permissions, false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.SubjectID)
	assert.Equal(t, "alice", claims.SubjectName)
	assert.Equal(t, sec.KindAdmin, claims.Kind)
	assert.ElementsMatch(t, permissions, claims.Permissions)
	assert.True(t, claims.IsAdmin())

	// exp must be strictly after iat.
	assert.True(t, claims.ExpiresAt.Time.After(claims.IssuedAt.Time))
}

/*
TestTokenService_UserTokensCarryNoPermissions verifies that permission codes
are stripped from non-admin tokens at issuance.
*/
func TestTokenService_UserTokensCarryNoPermissions(t *testing.T) {
	service, err := sec.NewTokenService(testConfig())
	require.NoError(t, err)

	token, err := service.Issue(7, "bob", sec.KindUser, []string{"USER:VIEW"}, false)
	require.NoError(t, err)

	claims, err := service.Verify(token)
	require.NoError(t, err)

	assert.Empty(t, claims.Permissions)
	assert.False(t, claims.IsAdmin())
}

/*
TestTokenService_ShortLived verifies that the shortLived flag selects the
reduced lifetime at issuance.
*/
func TestTokenService_ShortLived(t *testing.T) {
	cfg := testConfig()
	service, err := sec.NewTokenService(cfg)
	require.NoError(t, err)

	longToken, err := service.Issue(1, "alice", sec.KindAdmin, nil, false)
	require.NoError(t, err)
	shortToken, err := service.Issue(1, "alice", sec.KindAdmin, nil, true)
	require.NoError(t, err)

	longClaims, err := service.Verify(longToken)
	require.NoError(t, err)
	shortClaims, err := service.Verify(shortToken)
	require.NoError(t, err)

	longLifetime := longClaims.ExpiresAt.Time.Sub(longClaims.IssuedAt.Time)
	shortLifetime := shortClaims.ExpiresAt.Time.Sub(shortClaims.IssuedAt.Time)

	assert.Equal(t, cfg.TTL, longLifetime)
	assert.Equal(t, cfg.ShortTTL, shortLifetime)
}

/*
TestTokenService_Expired verifies that an expired token fails with
ErrTokenExpired and no other reason.
*/
func TestTokenService_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.TTL = 1 * time.Millisecond
	cfg.ShortTTL = 1 * time.Millisecond
	service, err := sec.NewTokenService(cfg)
	require.NoError(t, err)

	token, err := service.Issue(42, "alice", sec.KindAdmin, nil, false)
	require.NoError(t, err)

	// Wait out the lifetime (strict expiry, no skew compensation).
	time.Sleep(10 * time.Millisecond)

	claims, err := service.Verify(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
	assert.NotErrorIs(t, err, sec.ErrTokenSignature)
	assert.NotErrorIs(t, err, sec.ErrTokenMalformed)
}

/*
TestTokenService_WrongSecret verifies that a token signed with a different
secret fails with a signature error.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	issuerService, err := sec.NewTokenService(testConfig())
	require.NoError(t, err)

	otherCfg := testConfig()
	otherCfg.Secret = "ffffffffffffffffffffffffffffffff"
	verifierService, err := sec.NewTokenService(otherCfg)
	require.NoError(t, err)

	token, err := issuerService.Issue(42, "alice", sec.KindAdmin, nil, false)
	require.NoError(t, err)

	claims, err := verifierService.Verify(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, sec.ErrTokenSignature)
}

/*
TestTokenService_Malformed verifies that garbage input fails with a
malformed-token error rather than a panic or silent success.
*/
func TestTokenService_Malformed(t *testing.T) {
	service, err := sec.NewTokenService(testConfig())
	require.NoError(t, err)

	for _, input := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		claims, err := service.Verify(input)
		assert.Nil(t, claims, "input %q", input)
		assert.ErrorIs(t, err, sec.ErrTokenMalformed, "input %q", input)
	}
}

/*
TestTokenService_ConfigValidation verifies constructor validation of the
immutable token configuration.
*/
func TestTokenService_ConfigValidation(t *testing.T) {
	// 1. Secret too short
	cfg := testConfig()
	cfg.Secret = "short"
	_, err := sec.NewTokenService(cfg)
	assert.Error(t, err)

	// 2. Non-positive lifetime
	cfg = testConfig()
	cfg.TTL = 0
	_, err = sec.NewTokenService(cfg)
	assert.Error(t, err)

	// 3. Short lifetime longer than default
	cfg = testConfig()
	cfg.ShortTTL = cfg.TTL + time.Hour
	_, err = sec.NewTokenService(cfg)
	assert.Error(t, err)
}

/*
TestRemainingLifetime verifies the revocation-TTL helper clamps at zero.
*/
func TestRemainingLifetime(t *testing.T) {
	service, err := sec.NewTokenService(testConfig())
	require.NoError(t, err)

	token, err := service.Issue(1, "alice", sec.KindAdmin, nil, true)
	require.NoError(t, err)
	claims, err := service.Verify(token)
	require.NoError(t, err)

	remaining := claims.RemainingLifetime(time.Now())
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, 24*time.Hour)

	// Past expiry the helper returns zero, never a negative duration.
	assert.Equal(t, time.Duration(0), claims.RemainingLifetime(claims.ExpiresAt.Time.Add(time.Minute)))
}

/*
TestCheckPasswordHash verifies PBKDF2 credential verification.
*/
func TestCheckPasswordHash(t *testing.T) {
	salt, err := sec.GenerateSalt()
	require.NoError(t, err)

	stored := sec.HashPassword("s3cret-pass", salt, sec.DefaultHashIterations)

	assert.True(t, sec.CheckPasswordHash("s3cret-pass", salt, sec.DefaultHashIterations, stored))
	assert.False(t, sec.CheckPasswordHash("wrong-pass", salt, sec.DefaultHashIterations, stored))
	assert.False(t, sec.CheckPasswordHash("s3cret-pass", salt, sec.DefaultHashIterations-1, stored))
}
