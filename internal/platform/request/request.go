// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wayfare-app/wayfare/internal/platform/apperr"
	"github.com/wayfare-app/wayfare/internal/platform/ctxutil"
	"github.com/wayfare-app/wayfare/internal/platform/sec"
	"github.com/wayfare-app/wayfare/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntParam retrieves a named URL parameter and parses it as an int64.

Returns:
  - error: a VALIDATION_ERROR [apperr.AppError] when the value is not an integer
*/
func IntParam(request *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil {
		return 0, validate.RequiredError(name, "must be an integer")
	}
	return value, nil
}

/*
Claims extracts the authenticated identity claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.IdentityClaims {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the claims.

Returns:
  - *sec.IdentityClaims: The authenticated identity claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.IdentityClaims, error) {

	// Get identity claims
	claims := ctxutil.GetIdentity(request.Context())

	// If the request is not authenticated, return an error
	if claims == nil {
		return nil, apperr.UnauthorizedCode(apperr.CodeNoToken, "Authentication required")
	}

	return claims, nil
}

/*
RequiredSubjectID returns the subject ID of the currently authenticated
principal.

Returns:
  - int64: The principal's ID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredSubjectID(request *http.Request) (int64, error) {

	// Get identity claims
	claims, err := RequiredClaims(request)

	// If the request is not authenticated, return an error
	if err != nil {
		return 0, err
	}

	return claims.SubjectID, nil
}
