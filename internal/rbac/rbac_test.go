// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package rbac_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfare-app/wayfare/internal/rbac"
)

// fakeStore is an in-memory rbac.Store for resolver tests.
type fakeStore struct {
	rolesByAdmin map[int64][]int64
	codesByRole  map[int64][]string
	err          error
}

func (store *fakeStore) RoleIDsByAdmin(_ context.Context, adminID int64) ([]int64, error) {
	if store.err != nil {
		return nil, store.err
	}
	return store.rolesByAdmin[adminID], nil
}

func (store *fakeStore) PermissionCodesByRoles(_ context.Context, roleIDs []int64) ([]string, error) {
	if store.err != nil {
		return nil, store.err
	}
	var codes []string
	for _, roleID := range roleIDs {
		codes = append(codes, store.codesByRole[roleID]...)
	}
	return codes, nil
}

/*
TestPermissionSet_Collapse verifies that duplicate codes collapse into one
set entry.
*/
func TestPermissionSet_Collapse(t *testing.T) {
	set := rbac.NewPermissionSet("USER:VIEW", "USER:EDIT", "USER:VIEW")

	assert.Len(t, set, 2)
	assert.Equal(t, []string{"USER:EDIT", "USER:VIEW"}, set.Codes())
}

/*
TestRequirement_AnyVsAll verifies ANY/ALL matching: given {"A","B"}, a
requirement of ["A","C"] passes in ANY mode and fails in ALL mode.
*/
func TestRequirement_AnyVsAll(t *testing.T) {
	granted := rbac.NewPermissionSet("A", "B")

	anyMode := rbac.Requirement{Codes: []string{"A", "C"}}
	allMode := rbac.Requirement{Codes: []string{"A", "C"}, RequireAll: true}

	assert.True(t, anyMode.SatisfiedBy(granted))
	assert.False(t, allMode.SatisfiedBy(granted))
}

/*
TestRequirement_AllExact verifies ALL mode against an exactly-matching grant,
and rejection once one extra code is demanded.
*/
func TestRequirement_AllExact(t *testing.T) {
	granted := rbac.NewPermissionSet("USER:VIEW", "USER:EDIT")

	exact := rbac.Requirement{Codes: []string{"USER:VIEW", "USER:EDIT"}, RequireAll: true}
	assert.True(t, exact.SatisfiedBy(granted))

	extended := rbac.Requirement{Codes: []string{"USER:VIEW", "USER:EDIT", "USER:DELETE"}, RequireAll: true}
	assert.False(t, extended.SatisfiedBy(granted))
}

/*
TestRequirement_Empty verifies that an empty requirement (admin-only) is
satisfied by any permission set, including an empty one.
*/
func TestRequirement_Empty(t *testing.T) {
	assert.True(t, rbac.AdminOnly.SatisfiedBy(rbac.NewPermissionSet()))
	assert.True(t, rbac.AdminOnly.SatisfiedBy(rbac.NewPermissionSet("X")))
}

/*
TestResolver_PermissionsOf verifies role→permission composition with set
union across roles.
*/
func TestResolver_PermissionsOf(t *testing.T) {
	store := &fakeStore{
		rolesByAdmin: map[int64][]int64{
			7: {1, 2},
		},
		codesByRole: map[int64][]string{
			1: {"USER:VIEW", "USER:EDIT"},
			2: {"USER:VIEW", "CONTENT:EDIT"}, // overlap with role 1
		},
	}
	resolver := rbac.NewResolver(store)

	set, err := resolver.PermissionsOf(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, []string{"CONTENT:EDIT", "USER:EDIT", "USER:VIEW"}, set.Codes())
}

/*
TestResolver_NoRoles verifies that an admin without roles resolves to an
empty (non-nil) permission set.
*/
func TestResolver_NoRoles(t *testing.T) {
	resolver := rbac.NewResolver(&fakeStore{})

	set, err := resolver.PermissionsOf(context.Background(), 99)
	require.NoError(t, err)

	assert.NotNil(t, set)
	assert.Empty(t, set)
}

/*
TestResolver_StoreError verifies that store failures propagate to the caller
(the gates turn them into fail-closed rejections).
*/
func TestResolver_StoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	resolver := rbac.NewResolver(&fakeStore{err: storeErr})

	_, err := resolver.PermissionsOf(context.Background(), 7)
	assert.ErrorIs(t, err, storeErr)
}
