// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

/*
Package rbac implements role-based access control for the admin console.

It defines the flat permission-code model (Admin has Roles, Roles grant
Permissions) and resolves an administrator's effective permission set from
the relation tables.

Architecture:

  - PermissionSet: set-valued permission codes, duplicates collapse.
  - Requirement: a handler's declared permission demand (ANY/ALL mode).
  - Resolver: composes the two relation queries into one effective set.

Permission codes are flat, globally unique strings ("USER:VIEW"). There are
no hierarchies or wildcards; matching is exact.
*/
package rbac

import (
	"sort"
	"time"
)

// Well-known permission codes referenced by the admin route tables.
const (
	PermAdminEdit = "ADMIN:EDIT"
	PermRoleEdit  = "ROLE:EDIT"
	PermLogView   = "LOG:VIEW"
)

// # Domain Entities

// Role groups a set of permissions under a human-readable name.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Permission is one grantable capability, identified by its unique code.
type Permission struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// AdminScope is the request-scoped authorization context populated by the
// authorization gate after a successful permission check. It is created per
// request and discarded at request end, never cached across requests.
type AdminScope struct {
	AdminID     int64
	Username    string
	Permissions PermissionSet
}

// # Permission Sets

// PermissionSet is a set of permission codes. Membership is exact-match.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from codes, collapsing duplicates.
func NewPermissionSet(codes ...string) PermissionSet {
	set := make(PermissionSet, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the exact code.
func (set PermissionSet) Has(code string) bool {
	_, ok := set[code]
	return ok
}

// HasAny reports whether at least one of the given codes is present.
func (set PermissionSet) HasAny(codes []string) bool {
	for _, code := range codes {
		if set.Has(code) {
			return true
		}
	}
	return false
}

// HasAll reports whether every one of the given codes is present.
func (set PermissionSet) HasAll(codes []string) bool {
	for _, code := range codes {
		if !set.Has(code) {
			return false
		}
	}
	return true
}

// Codes returns the set as a sorted slice, for tokens and JSON responses.
func (set PermissionSet) Codes() []string {
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// # Requirements

// Requirement is a handler's declared permission demand, composed into the
// route table at startup.
//
// An empty Codes slice means "any authenticated admin" — the authorization
// gate still enforces the admin principal kind but skips the code check.
type Requirement struct {
	// Codes lists the permission codes the handler demands.
	Codes []string

	// RequireAll selects ALL mode (every code required) instead of the
	// default ANY mode (at least one code required).
	RequireAll bool
}

// AdminOnly is the empty requirement: admin principal, no specific codes.
var AdminOnly = Requirement{}

// SatisfiedBy reports whether the granted set meets this requirement.
func (requirement Requirement) SatisfiedBy(granted PermissionSet) bool {
	if len(requirement.Codes) == 0 {
		return true
	}
	if requirement.RequireAll {
		return granted.HasAll(requirement.Codes)
	}
	return granted.HasAny(requirement.Codes)
}
