// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfare-app/wayfare/internal/platform/ctxutil"
	"github.com/wayfare-app/wayfare/internal/platform/middleware"
	"github.com/wayfare-app/wayfare/internal/platform/sec"
	"github.com/wayfare-app/wayfare/internal/rbac"
)

// fakeResolver hands out a fixed permission set and counts lookups.
type fakeResolver struct {
	set   rbac.PermissionSet
	err   error
	calls int
}

func (resolver *fakeResolver) PermissionsOf(context.Context, int64) (rbac.PermissionSet, error) {
	resolver.calls++
	if resolver.err != nil {
		return nil, resolver.err
	}
	return resolver.set, nil
}

func userClaims() *sec.IdentityClaims {
	return &sec.IdentityClaims{SubjectID: 7, SubjectName: "bob", Kind: sec.KindUser}
}

// serveAuthorized runs one bearer-token request through Require(requirement)
// into a probe handler.
func serveAuthorized(t *testing.T, gate *middleware.Authorizer, requirement rbac.Requirement, request *http.Request) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	handlerRan := false
	probe := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		handlerRan = true
		writer.WriteHeader(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	gate.Require(requirement)(probe).ServeHTTP(recorder, request)
	return recorder, handlerRan
}

func bearerRequest() *http.Request {
	request := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	request.Header.Set("Authorization", "Bearer some.jwt.token")
	return request
}

// # Gate 2 — Authorization

/*
TestRequire_NotAdmin verifies that a valid user-kind token is rejected with
403 NOT_ADMIN.
*/
func TestRequire_NotAdmin(t *testing.T) {
	gate := middleware.NewAuthorizer(&fakeVerifier{claims: userClaims()}, &fakeResolver{})

	recorder, handlerRan := serveAuthorized(t, gate, rbac.AdminOnly, bearerRequest())

	assert.False(t, handlerRan)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "NOT_ADMIN", decodeRejection(t, recorder).Code)
}

/*
TestRequire_NoToken verifies that the gate re-validates the token on its own
and rejects with 401 NO_TOKEN when the header is absent.
*/
func TestRequire_NoToken(t *testing.T) {
	gate := middleware.NewAuthorizer(&fakeVerifier{claims: adminClaims()}, &fakeResolver{})

	request := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	recorder, handlerRan := serveAuthorized(t, gate, rbac.AdminOnly, request)

	assert.False(t, handlerRan)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "NO_TOKEN", decodeRejection(t, recorder).Code)
}

/*
TestRequire_AnyMode verifies that holding one of several alternative codes is
enough when the requirement is satisfied by any match.
*/
func TestRequire_AnyMode(t *testing.T) {
	gate := middleware.NewAuthorizer(&fakeVerifier{claims: adminClaims("A", "B")}, &fakeResolver{})

	requirement := rbac.Requirement{Codes: []string{"A", "C"}}
	recorder, handlerRan := serveAuthorized(t, gate, requirement, bearerRequest())

	assert.True(t, handlerRan)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestRequire_AllMode verifies that the same holdings fail once the requirement
demands every listed code.
*/
func TestRequire_AllMode(t *testing.T) {
	gate := middleware.NewAuthorizer(&fakeVerifier{claims: adminClaims("A", "B")}, &fakeResolver{})

	requirement := rbac.Requirement{Codes: []string{"A", "C"}, RequireAll: true}
	recorder, handlerRan := serveAuthorized(t, gate, requirement, bearerRequest())

	assert.False(t, handlerRan)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "INSUFFICIENT_PERMISSION", decodeRejection(t, recorder).Code)
}

/*
TestRequire_AllModeExact verifies that an admin holding exactly the demanded
codes passes an all-of requirement.
*/
func TestRequire_AllModeExact(t *testing.T) {
	claims := adminClaims("USER:VIEW", "USER:EDIT", "USER:DELETE")
	gate := middleware.NewAuthorizer(&fakeVerifier{claims: claims}, &fakeResolver{})

	requirement := rbac.Requirement{
		Codes:      []string{"USER:VIEW", "USER:EDIT", "USER:DELETE"},
		RequireAll: true,
	}
	recorder, handlerRan := serveAuthorized(t, gate, requirement, bearerRequest())

	assert.True(t, handlerRan)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestRequire_AdminOnly verifies that an empty requirement admits any admin,
even one with no permission codes at all.
*/
func TestRequire_AdminOnly(t *testing.T) {
	gate := middleware.NewAuthorizer(&fakeVerifier{claims: adminClaims()}, &fakeResolver{})

	recorder, handlerRan := serveAuthorized(t, gate, rbac.AdminOnly, bearerRequest())

	assert.True(t, handlerRan)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestRequire_ResolverFallback verifies that when the token carries no embedded
permission codes the gate consults the resolver instead.
*/
func TestRequire_ResolverFallback(t *testing.T) {
	resolver := &fakeResolver{set: rbac.NewPermissionSet("USER:VIEW")}
	gate := middleware.NewAuthorizer(&fakeVerifier{claims: adminClaims()}, resolver)

	requirement := rbac.Requirement{Codes: []string{"USER:VIEW"}}
	recorder, handlerRan := serveAuthorized(t, gate, requirement, bearerRequest())

	assert.True(t, handlerRan)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, resolver.calls)
}

/*
TestRequire_EmbeddedSkipsResolver verifies that token-embedded codes are
preferred and the resolver is never consulted.
*/
func TestRequire_EmbeddedSkipsResolver(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("must not be called")}
	gate := middleware.NewAuthorizer(&fakeVerifier{claims: adminClaims("USER:VIEW")}, resolver)

	requirement := rbac.Requirement{Codes: []string{"USER:VIEW"}}
	recorder, handlerRan := serveAuthorized(t, gate, requirement, bearerRequest())

	assert.True(t, handlerRan)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Zero(t, resolver.calls)
}

/*
TestRequire_ResolverFailureFailsClosed verifies that a permission-store
outage denies the request with 403 STORE_UNAVAILABLE.
*/
func TestRequire_ResolverFailureFailsClosed(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("connection refused")}
	gate := middleware.NewAuthorizer(&fakeVerifier{claims: adminClaims()}, resolver)

	requirement := rbac.Requirement{Codes: []string{"USER:VIEW"}}
	recorder, handlerRan := serveAuthorized(t, gate, requirement, bearerRequest())

	assert.False(t, handlerRan)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "STORE_UNAVAILABLE", decodeRejection(t, recorder).Code)
}

/*
TestRequire_InjectsAdminScope verifies that a passing request carries the
resolved admin scope for downstream handlers.
*/
func TestRequire_InjectsAdminScope(t *testing.T) {
	gate := middleware.NewAuthorizer(&fakeVerifier{claims: adminClaims("LOG:VIEW")}, &fakeResolver{})

	var gotScope *rbac.AdminScope
	probe := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		gotScope = ctxutil.GetAdminScope(request.Context())
		writer.WriteHeader(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	gate.Require(rbac.Requirement{Codes: []string{"LOG:VIEW"}})(probe).ServeHTTP(recorder, bearerRequest())

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, gotScope)
	assert.Equal(t, int64(42), gotScope.AdminID)
	assert.Equal(t, "alice", gotScope.Username)
	assert.True(t, gotScope.Permissions.Has("LOG:VIEW"))
}

/*
TestRequire_OptionsPassThrough verifies pre-flight bypass on the
authorization gate as well.
*/
func TestRequire_OptionsPassThrough(t *testing.T) {
	gate := middleware.NewAuthorizer(&fakeVerifier{err: errors.New("must not be called")}, &fakeResolver{})

	request := httptest.NewRequest(http.MethodOptions, "/api/admin/users", nil)
	recorder, handlerRan := serveAuthorized(t, gate, rbac.AdminOnly, request)

	assert.True(t, handlerRan)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestGateOrdering verifies that when both gates guard a route, a tokenless
request is rejected by authentication before authorization logic runs.
*/
func TestGateOrdering(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("must not be called")}
	authn := middleware.NewAuthenticator(&fakeVerifier{claims: adminClaims()}, &fakeRevoker{})
	authz := middleware.NewAuthorizer(&fakeVerifier{claims: adminClaims()}, resolver)

	probe := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	chain := authn.Gate()(authz.Require(rbac.Requirement{Codes: []string{"USER:VIEW"}})(probe))

	request := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	recorder := httptest.NewRecorder()
	chain.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "NO_TOKEN", decodeRejection(t, recorder).Code)
	assert.Zero(t, resolver.calls)
}
